package ui

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/yildizm/kcalc/internal/calc"
	"github.com/yildizm/kcalc/internal/history"
	"github.com/yildizm/kcalc/internal/stats"
)

var specialKeys = map[string]tea.KeyType{
	"enter":     tea.KeyEnter,
	"backspace": tea.KeyBackspace,
	"esc":       tea.KeyEsc,
	"left":      tea.KeyLeft,
	"right":     tea.KeyRight,
	"home":      tea.KeyHome,
	"end":       tea.KeyEnd,
	"tab":       tea.KeyTab,
	"ctrl+s":    tea.KeyCtrlS,
	"ctrl+l":    tea.KeyCtrlL,
	"ctrl+r":    tea.KeyCtrlR,
	"ctrl+q":    tea.KeyCtrlQ,
}

func keyMsg(name string) tea.KeyMsg {
	if t, ok := specialKeys[name]; ok {
		return tea.KeyMsg{Type: t}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(name)}
}

// send delivers keys in order and returns the command of the last one
func send(m *Model, keys ...string) tea.Cmd {
	var cmd tea.Cmd
	for _, k := range keys {
		_, cmd = m.Update(keyMsg(k))
	}
	return cmd
}

func newTestModel(t *testing.T, opts Options) *Model {
	t.Helper()
	if opts.Collector == nil {
		opts.Collector = stats.New()
	}
	m, err := New(opts)
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	return m
}

func TestNewRejectsUnknownMode(t *testing.T) {
	if _, err := New(Options{Mode: "rpn"}); err == nil {
		t.Error("expected error for unknown mode")
	}
}

func TestTypeAndEvaluate(t *testing.T) {
	m := newTestModel(t, Options{})

	send(m, "2", "+", "3", "*", "4")
	if m.view.Buffer != "2+3*4" || m.view.Preview != "14" {
		t.Fatalf("view = %+v", m.view)
	}

	send(m, "enter")
	if m.view.Buffer != "14" || !m.view.Finalized || m.view.Trace != "2+3*4 =" {
		t.Fatalf("after enter view = %+v", m.view)
	}

	send(m, "5")
	if m.view.Buffer != "145" || m.view.Finalized {
		t.Errorf("typing after result view = %+v", m.view)
	}
}

func TestEditingKeys(t *testing.T) {
	m := newTestModel(t, Options{})

	send(m, "1", "2", "3", "left", "left", "backspace")
	if m.view.Buffer != "23" || m.view.Cursor != 0 {
		t.Errorf("view = %+v", m.view)
	}

	send(m, "end", "9")
	if m.view.Buffer != "239" {
		t.Errorf("view = %+v", m.view)
	}

	send(m, "c")
	if m.view.Buffer != "" {
		t.Errorf("clear left %q", m.view.Buffer)
	}

	send(m, "7", "esc")
	if m.view.Buffer != "" {
		t.Errorf("esc left %q", m.view.Buffer)
	}

	send(m, "8", "C")
	if m.view.Buffer != "" {
		t.Errorf("shifted clear left %q", m.view.Buffer)
	}
}

func TestSecondEqualsNotCounted(t *testing.T) {
	c := stats.New()
	m := newTestModel(t, Options{Collector: c})

	send(m, "6", "*", "7", "enter", "enter", "=")

	snap := c.Snapshot()
	if snap.Outcomes.Numbers != 1 {
		t.Errorf("numbers = %d, want 1", snap.Outcomes.Numbers)
	}
	if snap.Keystrokes != 6 {
		t.Errorf("keystrokes = %d, want 6", snap.Keystrokes)
	}
	if m.view.Buffer != "42" {
		t.Errorf("buffer = %q", m.view.Buffer)
	}
}

func TestInvalidInputShakes(t *testing.T) {
	c := stats.New()
	m := newTestModel(t, Options{Collector: c, ShakeDuration: 400 * time.Millisecond})

	cmd := send(m, "2", "+", "enter")
	if !m.view.Invalid || m.view.Buffer != "2+" {
		t.Fatalf("view = %+v", m.view)
	}
	if cmd == nil || !m.shaking {
		t.Fatal("invalid evaluation should start the shake")
	}
	if got := c.Snapshot().Outcomes.Invalid; got != 1 {
		t.Errorf("invalid = %d", got)
	}

	first := m.shakeSeq
	_, cmd = m.Update(shakeFrameMsg{seq: first, frame: 1})
	if m.shakeFrame != 1 || cmd == nil {
		t.Errorf("frame = %d, cmd = %v", m.shakeFrame, cmd)
	}
	if !strings.Contains(m.View(), "invalid expression") {
		t.Error("shaking view should flag the error")
	}

	send(m, "enter")
	if m.shakeSeq == first {
		t.Fatal("a second error should restart the shake")
	}

	m.Update(shakeEndMsg{seq: first})
	if !m.shaking {
		t.Error("stale end message must not stop the newer shake")
	}

	m.Update(shakeFrameMsg{seq: first, frame: 3})
	if m.shakeFrame == 3 {
		t.Error("stale frame message must be ignored")
	}

	m.Update(shakeEndMsg{seq: m.shakeSeq})
	if m.shaking || m.shakeFrame != 0 {
		t.Error("current end message should stop the shake")
	}
}

func TestNoShakeWithoutDuration(t *testing.T) {
	m := newTestModel(t, Options{})
	if cmd := send(m, "(", "enter"); cmd != nil || m.shaking {
		t.Error("shake should be disabled with zero duration")
	}
}

func TestInsertKeys(t *testing.T) {
	tests := []struct {
		keys []string
		want string
	}{
		{[]string{"s", "0", ")"}, "sin(0)"},
		{[]string{"o", "0", ")"}, "cos(0)"},
		{[]string{"n"}, "tan("},
		{[]string{"l"}, "log("},
		{[]string{"r", "9", ")"}, "√(9)"},
		{[]string{"2", "*", "p"}, "2*π"},
		{[]string{"E"}, "e"},
	}

	for _, tt := range tests {
		t.Run(strings.Join(tt.keys, ""), func(t *testing.T) {
			m := newTestModel(t, Options{})
			send(m, tt.keys...)
			if m.view.Buffer != tt.want {
				t.Errorf("buffer = %q, want %q", m.view.Buffer, tt.want)
			}
		})
	}
}

func TestApplyKeys(t *testing.T) {
	m := newTestModel(t, Options{})

	send(m, "9", "ctrl+q")
	if m.view.Buffer != "81" || !m.view.Finalized {
		t.Errorf("square view = %+v", m.view)
	}

	send(m, "c", "4", "ctrl+r")
	if m.view.Buffer != "0.25" {
		t.Errorf("reciprocal view = %+v", m.view)
	}

	send(m, "c", "1", "ctrl+l")
	if m.view.Buffer != "0" {
		t.Errorf("ln view = %+v", m.view)
	}
}

func TestSwitchStrategy(t *testing.T) {
	m := newTestModel(t, Options{})
	send(m, "1", "2")

	send(m, "tab")
	if m.Mode() != calc.ModeOperator {
		t.Fatalf("mode = %s", m.Mode())
	}

	send(m, "9", "r", "+", "1", "enter")
	if m.view.Buffer != "4" || m.view.Trace != "3 + 1 =" {
		t.Errorf("operator view = %+v", m.view)
	}

	send(m, "tab")
	if m.Mode() != calc.ModeExpression || m.view.Buffer != "" {
		t.Errorf("expression view = %+v", m.view)
	}
}

func TestOperatorDivisionByZeroNotice(t *testing.T) {
	c := stats.New()
	m := newTestModel(t, Options{Mode: calc.ModeOperator, Collector: c})

	send(m, "1", "/", "0", "enter")
	if m.view.Buffer != "0" || m.view.Notice == "" {
		t.Errorf("view = %+v", m.view)
	}
	if !strings.Contains(m.View(), m.view.Notice) {
		t.Error("notice should be rendered")
	}

	snap := c.Snapshot()
	if snap.Outcomes.Numbers != 1 || snap.Outcomes.Notices != 1 {
		t.Errorf("outcomes = %+v", snap.Outcomes)
	}
}

func TestJournalRecordsFinalizedResults(t *testing.T) {
	j, err := history.NewJournal(filepath.Join(t.TempDir(), "tape.log"), 0)
	if err != nil {
		t.Fatal(err)
	}
	m := newTestModel(t, Options{Journal: j})

	send(m, "2", "+", "3", "*", "4", "enter", "enter")
	send(m, "ctrl+r")
	send(m, "c", "1", "+", "enter")

	data, err := os.ReadFile(j.Path())
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 tape lines, got %d:\n%s", len(lines), data)
	}
	if !strings.Contains(lines[0], `msg="2+3*4 = 14"`) || !strings.Contains(lines[0], "session="+j.Session()) {
		t.Errorf("first line = %s", lines[0])
	}
	if !strings.Contains(lines[1], "expr=reciprocal(14)") {
		t.Errorf("second line = %s", lines[1])
	}
	if !strings.Contains(m.View(), shortSession(j.Session())) {
		t.Error("status bar should show the session")
	}
}

func TestJournalRecordsOperatorApply(t *testing.T) {
	j, err := history.NewJournal(filepath.Join(t.TempDir(), "tape.log"), 0)
	if err != nil {
		t.Fatal(err)
	}
	m := newTestModel(t, Options{Mode: calc.ModeOperator, Journal: j})

	send(m, "9", "ctrl+q")
	send(m, "2", "+", "3", "enter")

	data, err := os.ReadFile(j.Path())
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 tape lines, got %d:\n%s", len(lines), data)
	}
	if !strings.Contains(lines[0], "expr=square(9)") || !strings.Contains(lines[0], "result=81") {
		t.Errorf("first line = %s", lines[0])
	}
	if !strings.Contains(lines[1], "expr=\"2 + 3\"") {
		t.Errorf("second line = %s", lines[1])
	}
	if got := m.collector.Snapshot().Outcomes.Numbers; got != 2 {
		t.Errorf("numbers = %d, want 2", got)
	}
}

func TestTapeEntry(t *testing.T) {
	tests := []struct {
		view   calc.ViewState
		expr   string
		result string
	}{
		{calc.ViewState{Buffer: "14", Trace: "2+3*4 ="}, "2+3*4", "14"},
		{calc.ViewState{Buffer: "3", Trace: "sqrt(9) = 3"}, "sqrt(9)", "3"},
		{calc.ViewState{Buffer: "3.1415", Trace: "π = 3.141593e+00"}, "π", "3.141593e+00"},
		{calc.ViewState{Buffer: "5"}, "", ""},
	}

	for _, tt := range tests {
		expr, result := tapeEntry(tt.view)
		if expr != tt.expr || result != tt.result {
			t.Errorf("tapeEntry(%q) = %q, %q", tt.view.Trace, expr, result)
		}
	}
}

func TestToggles(t *testing.T) {
	m := newTestModel(t, Options{Theme: "light"})
	if got := themes[m.themeIdx].Name; got != "light" {
		t.Fatalf("theme = %s", got)
	}

	send(m, "t")
	if got := themes[m.themeIdx].Name; got != "high-contrast" {
		t.Errorf("theme = %s", got)
	}
	send(m, "t")
	if got := themes[m.themeIdx].Name; got != "dark" {
		t.Errorf("theme = %s", got)
	}

	if strings.Contains(m.View(), "cos") {
		t.Error("scientific keypad should start hidden")
	}
	send(m, "ctrl+s")
	if !strings.Contains(m.View(), "cos") {
		t.Error("scientific keypad should be shown")
	}

	send(m, "?")
	if !m.help.ShowAll {
		t.Error("? should expand help")
	}
}

func TestViewShowsBufferAndPreview(t *testing.T) {
	m := newTestModel(t, Options{})
	m.Update(tea.WindowSizeMsg{Width: 80, Height: 40})

	send(m, "1", "+", "1")
	view := m.View()
	for _, want := range []string{"kcalc", "expression", "1+1", "= 2", "theme dark"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}
}

func TestQuit(t *testing.T) {
	m := newTestModel(t, Options{})
	if cmd := send(m, "q"); cmd == nil {
		t.Fatal("q should return a quit command")
	}
	if m.View() != "" {
		t.Error("view should be empty after quitting")
	}
}
