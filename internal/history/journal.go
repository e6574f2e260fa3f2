// Package history keeps a tape of finalized calculations. Each calculation
// is one logfmt line so the tape can be read back with any logfmt tooling.
package history

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/yildizm/kcalc/internal/calc"
)

// Entry is one finalized calculation on the tape
type Entry struct {
	Time       time.Time `json:"time"`
	Session    string    `json:"session"`
	Mode       calc.Mode `json:"mode"`
	Expression string    `json:"expression"`
	Result     string    `json:"result"`
}

// Message is the tape's msg field, "<expression> = <result>"
func (e Entry) Message() string {
	return e.Expression + " = " + e.Result
}

// Journal appends entries for a single session. It is safe for concurrent use.
type Journal struct {
	path       string
	session    string
	maxEntries int

	mu    sync.Mutex
	count int
	now   func() time.Time
}

// NewJournal opens the tape at path, creating its directory when needed.
// maxEntries of 0 keeps every entry.
func NewJournal(path string, maxEntries int) (*Journal, error) {
	if path == "" {
		return nil, fmt.Errorf("history path is empty")
	}
	if maxEntries < 0 {
		return nil, fmt.Errorf("max entries must be non-negative, got %d", maxEntries)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create history directory: %w", err)
	}

	count, err := countLines(path)
	if err != nil {
		return nil, err
	}

	return &Journal{
		path:       path,
		session:    uuid.NewString(),
		maxEntries: maxEntries,
		count:      count,
		now:        time.Now,
	}, nil
}

// Session returns the id stamped on every entry this journal writes
func (j *Journal) Session() string {
	return j.session
}

// Path returns the tape location
func (j *Journal) Path() string {
	return j.path
}

// Record appends one calculation and trims the tape to maxEntries
func (j *Journal) Record(mode calc.Mode, expression, result string) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	e := Entry{
		Time:       j.now(),
		Session:    j.session,
		Mode:       mode,
		Expression: strings.TrimSpace(expression),
		Result:     result,
	}

	f, err := os.OpenFile(j.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open history: %w", err)
	}
	if _, err := f.WriteString(encodeEntry(e) + "\n"); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to write history: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close history: %w", err)
	}

	j.count++
	if j.maxEntries > 0 && j.count > j.maxEntries {
		return j.trim()
	}
	return nil
}

// trim rewrites the tape keeping only the newest maxEntries lines
func (j *Journal) trim() error {
	lines, err := readLines(j.path)
	if err != nil {
		return err
	}
	if len(lines) > j.maxEntries {
		lines = lines[len(lines)-j.maxEntries:]
	}

	tmp := j.path + ".tmp"
	if err := os.WriteFile(tmp, []byte(strings.Join(lines, "\n")+"\n"), 0o644); err != nil {
		return fmt.Errorf("failed to trim history: %w", err)
	}
	if err := os.Rename(tmp, j.path); err != nil {
		return fmt.Errorf("failed to replace history: %w", err)
	}
	j.count = len(lines)
	return nil
}

// encodeEntry renders e as a logfmt line
func encodeEntry(e Entry) string {
	pairs := []string{
		"time=" + e.Time.UTC().Format(time.RFC3339Nano),
		"level=info",
		"msg=" + quote(e.Message()),
		"session=" + e.Session,
		"mode=" + string(e.Mode),
		"expr=" + quote(e.Expression),
		"result=" + quote(e.Result),
	}
	return strings.Join(pairs, " ")
}

// quote wraps values that logfmt cannot carry bare
func quote(v string) string {
	if v == "" || strings.ContainsAny(v, " =\"\t") {
		return `"` + strings.ReplaceAll(v, `"`, `'`) + `"`
	}
	return v
}

func countLines(path string) (int, error) {
	lines, err := readLines(path)
	return len(lines), err
}

// readLines returns the non-empty lines of path, or none if it does not exist
func readLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open history: %w", err)
	}
	defer func() { _ = f.Close() }()

	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			lines = append(lines, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read history: %w", err)
	}
	return lines, nil
}
