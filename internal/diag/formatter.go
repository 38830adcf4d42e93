package diag

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// Formatter renders diagnostics with source snippets and caret underlines.
type Formatter struct {
	out         io.Writer
	sourceCache map[string]string
}

// NewFormatter creates a formatter writing to stderr.
func NewFormatter() *Formatter {
	return &Formatter{
		out:         os.Stderr,
		sourceCache: make(map[string]string),
	}
}

// NewFormatterTo creates a formatter writing to the given writer.
func NewFormatterTo(w io.Writer) *Formatter {
	return &Formatter{
		out:         w,
		sourceCache: make(map[string]string),
	}
}

// AddSource registers source text for a filename so snippets can be rendered
// without touching the filesystem.
func (f *Formatter) AddSource(filename, src string) {
	f.sourceCache[filename] = src
}

func (f *Formatter) loadSource(filename string) (string, bool) {
	if filename == "" {
		return "", false
	}
	if src, ok := f.sourceCache[filename]; ok {
		return src, true
	}
	data, err := os.ReadFile(filename)
	if err != nil {
		return "", false
	}
	src := string(data)
	f.sourceCache[filename] = src
	return src, true
}

// Format renders a single diagnostic.
func (f *Formatter) Format(d Diagnostic) {
	severity := string(d.Severity)
	if severity == "" {
		severity = string(SeverityError)
	}

	if d.Code != "" {
		fmt.Fprintf(f.out, "%s[%s]: %s\n", severity, d.Code, d.Message)
	} else {
		fmt.Fprintf(f.out, "%s: %s\n", severity, d.Message)
	}

	f.printSnippet(d.Span, "")
	for _, rel := range d.Related {
		f.printSnippet(rel.Span, rel.Label)
	}

	if d.Help != "" {
		fmt.Fprintf(f.out, "help: %s\n", d.Help)
	}
}

func (f *Formatter) printSnippet(span Span, label string) {
	if !span.IsValid() {
		return
	}
	fmt.Fprintf(f.out, "  --> %s\n", span)

	src, ok := f.loadSource(span.Filename)
	if !ok {
		return
	}

	lines := strings.Split(src, "\n")
	if span.Line < 1 || span.Line > len(lines) {
		return
	}
	line := lines[span.Line-1]

	gutter := fmt.Sprintf("%d", span.Line)
	pad := strings.Repeat(" ", len(gutter))
	fmt.Fprintf(f.out, "%s |\n", pad)
	fmt.Fprintf(f.out, "%s | %s\n", gutter, line)

	width := span.End - span.Start
	if width < 1 {
		width = 1
	}
	if span.Column-1+width > len([]rune(line)) {
		width = len([]rune(line)) - (span.Column - 1)
		if width < 1 {
			width = 1
		}
	}
	caret := strings.Repeat(" ", span.Column-1) + strings.Repeat("^", width)
	if label != "" {
		caret += " " + label
	}
	fmt.Fprintf(f.out, "%s | %s\n", pad, caret)
}
