package formatter

import (
	"encoding/json"
	"time"

	"github.com/yildizm/kcalc/internal/batch"
	"github.com/yildizm/kcalc/internal/stats"
)

// jsonFormatter formats output as JSON
type jsonFormatter struct{}

// NewJSON creates a new JSON formatter
func NewJSON() Formatter {
	return &jsonFormatter{}
}

func (f *jsonFormatter) Format(report *batch.Report) ([]byte, error) {
	output := &JSONOutput{
		Summary: createSummary(report),
		Lines:   createLineOutputs(report.Lines),
		Stats:   report.Stats,
	}

	return json.MarshalIndent(output, "", "  ")
}

// JSONOutput is the document written by the JSON formatter
type JSONOutput struct {
	Summary *SummaryOutput  `json:"summary"`
	Lines   []*LineOutput   `json:"lines"`
	Stats   *stats.Snapshot `json:"stats,omitempty"`
}

// SummaryOutput represents the summary section
type SummaryOutput struct {
	Source      string    `json:"source,omitempty"`
	Mode        string    `json:"mode"`
	Total       int       `json:"total"`
	Succeeded   int       `json:"succeeded"`
	Failed      int       `json:"failed"`
	Skipped     int       `json:"skipped"`
	SuccessRate float64   `json:"success_rate"`
	Started     time.Time `json:"started"`
	Duration    string    `json:"duration"`
}

// LineOutput is one evaluated line. Value is omitted for failed lines so
// consumers never mistake a rejected line for a zero.
type LineOutput struct {
	Line      int        `json:"line"`
	Input     string     `json:"input"`
	Value     *float64   `json:"value,omitempty"`
	Formatted string     `json:"formatted,omitempty"`
	Exact     string     `json:"exact,omitempty"`
	Trace     string     `json:"trace,omitempty"`
	Notice    string     `json:"notice,omitempty"`
	Error     *ErrorInfo `json:"error,omitempty"`
}

// ErrorInfo describes a rejected line
type ErrorInfo struct {
	Type     string `json:"type"`
	Message  string `json:"message,omitempty"`
	Position *int   `json:"position,omitempty"`
}

func createSummary(report *batch.Report) *SummaryOutput {
	return &SummaryOutput{
		Source:      report.Source,
		Mode:        string(report.Mode),
		Total:       report.Total,
		Succeeded:   report.Succeeded,
		Failed:      report.Failed,
		Skipped:     report.Skipped,
		SuccessRate: successRate(report),
		Started:     report.Started,
		Duration:    report.Duration.String(),
	}
}

func createLineOutputs(lines []batch.Line) []*LineOutput {
	outputs := make([]*LineOutput, 0, len(lines))

	for _, l := range lines {
		output := &LineOutput{
			Line:  l.Number,
			Input: l.Input,
		}

		if l.OK() {
			v := l.Value
			output.Value = &v
			output.Formatted = l.Formatted
			output.Exact = l.Exact
			output.Trace = l.Trace
			output.Notice = l.Notice
		} else {
			info := &ErrorInfo{
				Type:    string(l.Error.Type),
				Message: l.Error.Message,
			}
			if l.Error.Pos >= 0 {
				pos := l.Error.Pos
				info.Position = &pos
			}
			output.Error = info
		}

		outputs = append(outputs, output)
	}

	return outputs
}
