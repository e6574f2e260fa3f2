package batch

import (
	"time"

	"github.com/yildizm/kcalc/internal/calc"
	"github.com/yildizm/kcalc/internal/stats"
)

// Line is the outcome of one input line
type Line struct {
	Number    int             `json:"line"`
	Input     string          `json:"input"`
	Value     float64         `json:"value"`
	Formatted string          `json:"formatted,omitempty"`
	Exact     string          `json:"exact,omitempty"`
	Trace     string          `json:"trace,omitempty"`
	Notice    string          `json:"notice,omitempty"`
	Error     *calc.EvalError `json:"error,omitempty"`
}

// OK reports whether the line produced a number
func (l Line) OK() bool {
	return l.Error == nil
}

func (l *Line) setValue(v float64, d calc.Display) {
	l.Value = v
	l.Formatted = d.Format(v)
	l.Exact = calc.Stringify(v)
}

// Report summarizes a batch run
type Report struct {
	Source    string          `json:"source,omitempty"`
	Mode      calc.Mode       `json:"mode"`
	Lines     []Line          `json:"lines"`
	Total     int             `json:"total"`
	Succeeded int             `json:"succeeded"`
	Failed    int             `json:"failed"`
	Skipped   int             `json:"skipped"`
	Started   time.Time       `json:"started"`
	Duration  time.Duration   `json:"duration_ns"`
	Stats     *stats.Snapshot `json:"stats,omitempty"`
}

func (r *Report) add(l Line) {
	r.Lines = append(r.Lines, l)
	r.Total++
	if l.OK() {
		r.Succeeded++
	} else {
		r.Failed++
	}
}

// HasErrors reports whether any line failed
func (r *Report) HasErrors() bool {
	return r.Failed > 0
}

// Failures returns the failed lines in input order
func (r *Report) Failures() []Line {
	var out []Line
	for _, l := range r.Lines {
		if !l.OK() {
			out = append(out, l)
		}
	}
	return out
}
