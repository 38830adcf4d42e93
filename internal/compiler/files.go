package compiler

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/golang/glog"
	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
)

// SourceExt is the extension of Rustic source files.
const SourceExt = ".rsc"

// ModuleName derives a unit's module name from its source path.
func ModuleName(path string) string {
	base := filepath.Base(path)
	name := strings.TrimSuffix(base, filepath.Ext(base))
	if name == "" {
		return "main"
	}
	return name
}

// CompileFile compiles one source file and writes <module>.rs into outDir,
// returning the generated file's path.
func (c *Compiler) CompileFile(path, outDir string) (string, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return "", errors.Wrapf(err, "reading %s", path)
	}

	out, err := c.CompileUnit(string(src), ModuleName(path), path)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return "", errors.Wrapf(err, "creating output directory %s", outDir)
	}
	outPath := filepath.Join(outDir, ModuleName(path)+".rs")
	if err := os.WriteFile(outPath, []byte(out), 0o644); err != nil {
		return "", errors.Wrapf(err, "writing %s", outPath)
	}
	glog.V(2).Infof("compiled %s -> %s", path, outPath)
	return outPath, nil
}

// CompileFiles compiles several independent units over a bounded worker
// pool. Each worker runs its own pass instances; only the mapping table is
// shared. Per-file failures are collected, not short-circuited, so one bad
// file does not hide the others.
func (c *Compiler) CompileFiles(paths []string, outDir string) ([]string, error) {
	workers := c.workers
	if workers > len(paths) {
		workers = len(paths)
	}
	if workers < 1 {
		workers = 1
	}

	jobs := make(chan string)
	var (
		mu        sync.Mutex
		generated []string
		result    *multierror.Error
	)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for path := range jobs {
				outPath, err := c.CompileFile(path, outDir)
				mu.Lock()
				if err != nil {
					result = multierror.Append(result, errors.Wrapf(err, "compiling %s", path))
				} else {
					generated = append(generated, outPath)
				}
				mu.Unlock()
			}
		}()
	}
	for _, path := range paths {
		jobs <- path
	}
	close(jobs)
	wg.Wait()

	sort.Strings(generated)
	return generated, result.ErrorOrNil()
}

// CompileDirectory compiles every .rsc file under dir, recursively.
func (c *Compiler) CompileDirectory(dir, outDir string) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && filepath.Ext(path) == SourceExt {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrapf(err, "walking %s", dir)
	}
	sort.Strings(paths)
	return c.CompileFiles(paths, outDir)
}
