package formatter

import (
	"fmt"
	"strings"

	"github.com/yildizm/kcalc/internal/batch"
	"github.com/yildizm/kcalc/internal/stats"
)

// markdownFormatter formats output as Markdown
type markdownFormatter struct{}

// NewMarkdown creates a new Markdown formatter
func NewMarkdown() Formatter {
	return &markdownFormatter{}
}

func (f *markdownFormatter) Format(report *batch.Report) ([]byte, error) {
	var b strings.Builder

	b.WriteString("# Calculation Report\n\n")
	if !report.Started.IsZero() {
		fmt.Fprintf(&b, "Generated: %s\n\n", report.Started.Format("2006-01-02 15:04:05"))
	}
	if report.Source != "" {
		fmt.Fprintf(&b, "Source: `%s`\n\n", report.Source)
	}

	f.writeSummaryTable(&b, report)
	f.writeResultsTable(&b, report)

	if report.HasErrors() {
		f.writeFailures(&b, report)
	}
	if report.Stats != nil {
		f.writeTimings(&b, report.Stats)
	}

	b.WriteString("---\n")
	b.WriteString("*Report generated by kcalc*\n")

	return []byte(b.String()), nil
}

func (f *markdownFormatter) writeSummaryTable(b *strings.Builder, report *batch.Report) {
	b.WriteString("## Summary\n\n")

	b.WriteString("| Metric | Value |\n")
	b.WriteString("|--------|-------|\n")
	fmt.Fprintf(b, "| Mode | %s |\n", report.Mode)
	fmt.Fprintf(b, "| Evaluated | %s |\n", formatCount(report.Total))
	fmt.Fprintf(b, "| Succeeded | %s (%s) |\n", formatCount(report.Succeeded), formatPercent(report.Succeeded, report.Total))
	fmt.Fprintf(b, "| Failed | %s (%s) |\n", formatCount(report.Failed), formatPercent(report.Failed, report.Total))
	fmt.Fprintf(b, "| Skipped | %s |\n", formatCount(report.Skipped))
	fmt.Fprintf(b, "| Duration | %s |\n\n", formatDuration(report.Duration))
}

func (f *markdownFormatter) writeResultsTable(b *strings.Builder, report *batch.Report) {
	b.WriteString("## Results\n\n")

	if len(report.Lines) == 0 {
		b.WriteString("No expressions evaluated.\n\n")
		return
	}

	b.WriteString("| Line | Input | Result | Exact |\n")
	b.WriteString("|------|-------|--------|-------|\n")
	for _, l := range report.Lines {
		var result, exact string
		if l.OK() {
			result = l.Formatted
			exact = l.Exact
			if l.Notice != "" {
				result += " ⚠️"
			}
		} else {
			result = "`" + string(l.Error.Type) + "`"
		}
		fmt.Fprintf(b, "| %d | `%s` | %s | %s |\n", l.Number, escapeMarkdownCell(l.Input), result, exact)
	}
	b.WriteString("\n")
}

func (f *markdownFormatter) writeFailures(b *strings.Builder, report *batch.Report) {
	b.WriteString("## Failures\n\n")

	for _, l := range report.Failures() {
		fmt.Fprintf(b, "### Line %d: `%s`\n\n", l.Number, escapeMarkdownCell(l.Input))
		fmt.Fprintf(b, "**Type**: %s\n", l.Error.Type)
		fmt.Fprintf(b, "**Reason**: %s\n", errorText(l))
		if l.Error.Pos >= 0 {
			b.WriteString("\n```\n")
			b.WriteString(singleLine(l.Input) + "\n")
			b.WriteString(strings.Repeat(" ", l.Error.Pos) + "^\n")
			b.WriteString("```\n")
		}
		b.WriteString("\n")
	}
}

// writeTimings draws an ASCII bar per operation scaled to the slowest average
func (f *markdownFormatter) writeTimings(b *strings.Builder, snap *stats.Snapshot) {
	var ops []stats.OperationStats
	for _, op := range snap.Operations {
		if op.Count > 0 {
			ops = append(ops, op)
		}
	}
	if len(ops) == 0 {
		return
	}

	b.WriteString("## Timings\n\n")
	b.WriteString("```\n")

	var slowest int64
	for _, op := range ops {
		if int64(op.Avg) > slowest {
			slowest = int64(op.Avg)
		}
	}

	for _, op := range ops {
		barLength := 20
		if slowest > 0 {
			barLength = int(float64(op.Avg) / float64(slowest) * 20)
		}
		bar := strings.Repeat("█", barLength) + strings.Repeat("░", 20-barLength)
		fmt.Fprintf(b, "%s │%s│ %s avg over %s\n",
			padRight(string(op.Operation), 8), bar, formatDuration(op.Avg), formatCount(int(op.Count)))
	}
	b.WriteString("```\n\n")
}

// escapeMarkdownCell keeps user input from breaking the table layout
func escapeMarkdownCell(s string) string {
	s = singleLine(s)
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.ReplaceAll(s, "`", "'")
}
