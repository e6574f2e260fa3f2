package formatter

import (
	"strings"
	"time"

	"github.com/rivo/uniseg"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/yildizm/kcalc/internal/batch"
)

var printer = message.NewPrinter(language.English)

// formatCount formats counts with digit grouping for readability
func formatCount(n int) string {
	return printer.Sprintf("%d", n)
}

// formatPercent formats a ratio as a percentage with one decimal
func formatPercent(part, total int) string {
	if total == 0 {
		return "0.0%"
	}
	return printer.Sprintf("%.1f%%", float64(part)/float64(total)*100)
}

// successRate returns the share of evaluated lines that produced a number
func successRate(r *batch.Report) float64 {
	if r.Total == 0 {
		return 0
	}
	return float64(r.Succeeded) / float64(r.Total)
}

// formatDuration rounds d to a readable precision
func formatDuration(d time.Duration) string {
	switch {
	case d < time.Millisecond:
		return d.Round(time.Microsecond).String()
	case d < time.Second:
		return d.Round(10 * time.Microsecond).String()
	}
	return d.Round(time.Millisecond).String()
}

// padRight pads s to width terminal cells
func padRight(s string, width int) string {
	if w := uniseg.StringWidth(s); w < width {
		return s + strings.Repeat(" ", width-w)
	}
	return s
}

// truncate shortens s to at most width cells, never splitting a grapheme
func truncate(s string, width int) string {
	if uniseg.StringWidth(s) <= width {
		return s
	}
	var b strings.Builder
	used := 0
	g := uniseg.NewGraphemes(s)
	for g.Next() {
		w := g.Width()
		if used+w > width-1 {
			break
		}
		b.WriteString(g.Str())
		used += w
	}
	b.WriteString("…")
	return b.String()
}

// singleLine removes line breaks from user input
func singleLine(s string) string {
	s = strings.ReplaceAll(s, "\n", " ")
	return strings.ReplaceAll(s, "\r", " ")
}

// errorText renders a line error without its type prefix
func errorText(l batch.Line) string {
	if l.Error == nil {
		return ""
	}
	if l.Error.Message != "" {
		return l.Error.Message
	}
	return string(l.Error.Type)
}
