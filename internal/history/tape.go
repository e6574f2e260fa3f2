package history

import (
	"fmt"
	"strings"

	logparser "github.com/yildizm/go-logparser"

	"github.com/yildizm/kcalc/internal/calc"
)

// Query narrows what ReadTape returns
type Query struct {
	// Session keeps only entries from one session when set
	Session string

	// Limit keeps the newest Limit entries when positive
	Limit int
}

// ReadTape parses the tape at path. A missing tape is empty, not an error.
func ReadTape(path string, q Query) ([]Entry, error) {
	lines, err := readLines(path)
	if err != nil || len(lines) == 0 {
		return nil, err
	}

	p := logparser.NewWithFormat(logparser.FormatLogfmt)
	parsed, err := p.ParseString(strings.Join(lines, "\n"))
	if err != nil {
		return nil, fmt.Errorf("failed to parse history: %w", err)
	}

	entries := make([]Entry, 0, len(parsed))
	for i := range parsed {
		e := decodeEntry(&parsed[i])
		if q.Session != "" && e.Session != q.Session {
			continue
		}
		entries = append(entries, e)
	}

	if q.Limit > 0 && len(entries) > q.Limit {
		entries = entries[len(entries)-q.Limit:]
	}
	return entries, nil
}

// Sessions returns the distinct session ids on the tape in order of first use
func Sessions(entries []Entry) []string {
	seen := make(map[string]bool)
	var out []string
	for _, e := range entries {
		if !seen[e.Session] {
			seen[e.Session] = true
			out = append(out, e.Session)
		}
	}
	return out
}

func decodeEntry(le *logparser.LogEntry) Entry {
	e := Entry{
		Time:       le.Timestamp,
		Session:    field(le, "session"),
		Mode:       calc.Mode(field(le, "mode")),
		Expression: field(le, "expr"),
		Result:     field(le, "result"),
	}

	// entries without expr and result fall back to msg
	if e.Expression == "" && e.Result == "" {
		if i := strings.LastIndex(le.Message, " = "); i >= 0 {
			e.Expression = le.Message[:i]
			e.Result = le.Message[i+3:]
		} else {
			e.Expression = le.Message
		}
	}
	return e
}

func field(le *logparser.LogEntry, key string) string {
	v, ok := le.Fields[key]
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return strings.Trim(s, `"`)
	}
	return fmt.Sprint(v)
}
