package formatter

import (
	"fmt"
	"strings"

	"github.com/yildizm/kcalc/internal/batch"
)

// Formatter defines the interface for output formatting
type Formatter interface {
	Format(report *batch.Report) ([]byte, error)
}

// Options controls the terminal formatter
type Options struct {
	Color bool
	Emoji bool
}

// Formats lists the supported output formats
var Formats = []string{"text", "json", "csv", "markdown"}

// New returns the formatter for format
func New(format string, opts Options) (Formatter, error) {
	switch strings.ToLower(format) {
	case "", "text", "terminal":
		return NewTerminal(opts), nil
	case "json":
		return NewJSON(), nil
	case "csv":
		return NewCSV(), nil
	case "markdown", "md":
		return NewMarkdown(), nil
	}
	return nil, fmt.Errorf("unsupported output format: %s (must be one of: %s)", format, strings.Join(Formats, ", "))
}
