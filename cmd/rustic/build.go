package main

import (
	"fmt"
	"os"

	"github.com/golang/glog"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/rustic-lang/rustic/internal/compiler"
	"github.com/rustic-lang/rustic/internal/diag"
	"github.com/rustic-lang/rustic/internal/runtime"
)

func newBuildCmd() *cobra.Command {
	var (
		outDir    string
		tablePath string
		emitOnly  bool
		jobs      int
	)

	cmd := &cobra.Command{
		Use:   "build <input>...",
		Short: "Compile .rsc files or directories to Rust source",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			table, err := loadTable(tablePath)
			if err != nil {
				return reportError(err)
			}
			glog.V(1).Infof("using %s", table)

			c := compiler.New(table, compiler.WithWorkers(jobs))

			if emitOnly {
				return emitToStdout(cmd, c, args)
			}

			var generated []string
			for _, input := range args {
				info, err := os.Stat(input)
				if err != nil {
					return reportError(errors.Wrapf(err, "reading %s", input))
				}
				var (
					outs     []string
					buildErr error
				)
				if info.IsDir() {
					outs, buildErr = c.CompileDirectory(input, outDir)
				} else {
					var out string
					out, buildErr = c.CompileFile(input, outDir)
					outs = []string{out}
				}
				generated = append(generated, outs...)
				if buildErr != nil {
					return reportError(buildErr)
				}
			}

			for _, path := range generated {
				fmt.Fprintln(cmd.OutOrStdout(), path)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outDir, "out-dir", "o", "out", "directory for generated .rs files")
	cmd.Flags().StringVar(&tablePath, "mapping-table", "", "path to a mapping table TOML file (default: embedded)")
	cmd.Flags().BoolVar(&emitOnly, "emit-only", false, "print generated Rust to stdout instead of writing files")
	cmd.Flags().IntVarP(&jobs, "jobs", "j", 0, "number of files to compile in parallel")
	return cmd
}

func loadTable(path string) (*runtime.Table, error) {
	if path == "" {
		return runtime.Default()
	}
	return runtime.LoadFile(path)
}

func emitToStdout(cmd *cobra.Command, c *compiler.Compiler, paths []string) error {
	for _, path := range paths {
		src, err := os.ReadFile(path)
		if err != nil {
			return reportError(errors.Wrapf(err, "reading %s", path))
		}
		out, err := c.CompileUnit(string(src), compiler.ModuleName(path), path)
		if err != nil {
			return reportError(err)
		}
		fmt.Fprint(cmd.OutOrStdout(), out)
	}
	return nil
}

// reportError renders diagnostic errors with source snippets; other errors
// print as plain messages.
func reportError(err error) error {
	f := diag.NewFormatter()
	if de, ok := diag.AsError(errors.Cause(err)); ok {
		f.Format(de.Diagnostic)
	} else {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
	}
	return err
}
