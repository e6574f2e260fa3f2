package formatter

import (
	"fmt"
	"strings"

	"github.com/rivo/uniseg"
	"github.com/yildizm/go-termfmt"

	"github.com/yildizm/kcalc/internal/batch"
	"github.com/yildizm/kcalc/internal/glyph"
)

// widest input column before inputs are truncated
const maxInputWidth = 40

// terminalFormatter formats output as plain text for terminal display using go-termfmt
type terminalFormatter struct {
	opts *termfmt.TerminalOptions
}

// NewTerminal creates a new terminal formatter
func NewTerminal(o Options) Formatter {
	opts := termfmt.DefaultOptions()
	opts.Color = o.Color
	opts.Emoji = o.Emoji
	return &terminalFormatter{opts: opts}
}

func (f *terminalFormatter) Format(report *batch.Report) ([]byte, error) {
	var b strings.Builder

	f.writeHeader(&b, report)
	f.writeResults(&b, report)
	f.writeSummary(&b, report)
	if report.HasErrors() {
		f.writeFailures(&b, report)
	}

	return []byte(b.String()), nil
}

func (f *terminalFormatter) writeHeader(b *strings.Builder, report *batch.Report) {
	header := "Calculation Report"
	if report.Source != "" {
		header += " · " + report.Source
	}
	width := uniseg.StringWidth(header)

	b.WriteString("╔" + strings.Repeat("═", width+2) + "╗\n")
	b.WriteString("║ " + header + " ║\n")
	b.WriteString("╚" + strings.Repeat("═", width+2) + "╝\n\n")
}

// writeResults prints one aligned row per evaluated line
func (f *terminalFormatter) writeResults(b *strings.Builder, report *batch.Report) {
	if len(report.Lines) == 0 {
		b.WriteString("No expressions evaluated\n\n")
		return
	}

	width := 0
	for _, l := range report.Lines {
		if w := uniseg.StringWidth(truncate(singleLine(l.Input), maxInputWidth)); w > width {
			width = w
		}
	}

	for _, l := range report.Lines {
		input := padRight(truncate(singleLine(l.Input), maxInputWidth), width)
		if !l.OK() {
			fmt.Fprintf(b, "%s %s  %s\n", f.symbol("error"), input, string(l.Error.Type))
			continue
		}
		fmt.Fprintf(b, "%s %s  = %s", f.symbol("success"), input, l.Formatted)
		if l.Notice != "" {
			fmt.Fprintf(b, "  %s %s", f.symbol("notice"), l.Notice)
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")
}

// writeSummary writes statistics with tree-style formatting using go-termfmt
func (f *terminalFormatter) writeSummary(b *strings.Builder, report *batch.Report) {
	symbol := termfmt.GetEmoji("statistics", f.opts)
	b.WriteString(symbol + " Summary\n")

	items := []termfmt.TreeItem{
		{Label: "Mode", Value: string(report.Mode)},
		{Label: "Evaluated", Value: formatCount(report.Total)},
		{Label: "Succeeded", Value: fmt.Sprintf("%s (%s)", formatCount(report.Succeeded), formatPercent(report.Succeeded, report.Total))},
		{Label: "Failed", Value: fmt.Sprintf("%s (%s)", formatCount(report.Failed), formatPercent(report.Failed, report.Total))},
		{Label: "Skipped", Value: formatCount(report.Skipped)},
		{Label: "Success", Value: termfmt.CreateConfidenceBar(successRate(report), f.opts)},
		{Label: "Duration", Value: formatDuration(report.Duration), Last: true},
	}

	tree := termfmt.TreeViewWithOptions(items, f.opts)
	b.WriteString(tree + "\n")
}

// writeFailures lists every rejected line with its position and reason
func (f *terminalFormatter) writeFailures(b *strings.Builder, report *batch.Report) {
	fmt.Fprintf(b, "\n%s Failures\n", f.symbol("error"))

	failures := report.Failures()
	items := make([]termfmt.TreeItem, 0, len(failures))
	for i, l := range failures {
		children := []termfmt.TreeItem{
			{Label: "Input", Value: singleLine(l.Input)},
			{Label: "Reason", Value: errorText(l), Last: l.Error.Pos < 0},
		}
		if l.Error.Pos >= 0 {
			children = append(children, termfmt.TreeItem{Label: "Position", Value: fmt.Sprintf("%d", l.Error.Pos), Last: true})
		}
		items = append(items, termfmt.TreeItem{
			Label:    fmt.Sprintf("Line %d", l.Number),
			Value:    string(l.Error.Type),
			Children: children,
			Last:     i == len(failures)-1,
		})
	}

	tree := termfmt.TreeViewWithOptions(items, f.opts)
	b.WriteString(tree + "\n")
}

// symbol returns a status glyph, or its ASCII fallback when emoji are off
func (f *terminalFormatter) symbol(key string) string {
	if !f.opts.Emoji {
		return glyph.Fallback(key)
	}
	return glyph.Get(key)
}
