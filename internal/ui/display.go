package ui

import (
	"strings"

	"github.com/rivo/uniseg"
)

const ellipsis = "…"

// fitBuffer renders buf with cursor inserted at the rune offset pos and cuts
// it to width cells. The cursor always stays visible: text left of it is
// dropped from the left and text right of it from the right.
func fitBuffer(buf string, pos int, cursor string, width int) string {
	runes := []rune(buf)
	if pos < 0 {
		pos = 0
	}
	if pos > len(runes) {
		pos = len(runes)
	}
	left := string(runes[:pos])
	right := string(runes[pos:])

	avail := width - uniseg.StringWidth(cursor)
	leftW := uniseg.StringWidth(left)
	rightW := uniseg.StringWidth(right)
	if avail <= 0 || leftW+rightW <= avail {
		return left + cursor + right
	}

	rightBudget := avail - leftW
	if leftW > avail/2 {
		rightBudget = min(rightW, avail/2)
	}
	right = cutRight(right, rightBudget)
	left = cutLeft(left, avail-uniseg.StringWidth(right))

	return left + cursor + right
}

// graphemes splits s into grapheme clusters with their widths
func graphemes(s string) ([]string, []int) {
	var parts []string
	var widths []int
	g := uniseg.NewGraphemes(s)
	for g.Next() {
		parts = append(parts, g.Str())
		widths = append(widths, g.Width())
	}
	return parts, widths
}

// cutLeft keeps the rightmost width cells of s, marking the cut with an ellipsis
func cutLeft(s string, width int) string {
	if uniseg.StringWidth(s) <= width {
		return s
	}
	if width <= 0 {
		return ""
	}

	parts, widths := graphemes(s)
	used := 0
	start := len(parts)
	for i := len(parts) - 1; i >= 0; i-- {
		if used+widths[i] > width-1 {
			break
		}
		used += widths[i]
		start = i
	}
	return ellipsis + strings.Join(parts[start:], "")
}

// cutRight keeps the leftmost width cells of s, marking the cut with an ellipsis
func cutRight(s string, width int) string {
	if uniseg.StringWidth(s) <= width {
		return s
	}
	if width <= 0 {
		return ""
	}

	parts, widths := graphemes(s)
	used := 0
	end := 0
	for i := range parts {
		if used+widths[i] > width-1 {
			break
		}
		used += widths[i]
		end = i + 1
	}
	return strings.Join(parts[:end], "") + ellipsis
}
