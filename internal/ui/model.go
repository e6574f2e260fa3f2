// Package ui is the interactive terminal calculator built on bubbletea.
package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/yildizm/kcalc/internal/calc"
	"github.com/yildizm/kcalc/internal/glyph"
	"github.com/yildizm/kcalc/internal/history"
	"github.com/yildizm/kcalc/internal/logger"
	"github.com/yildizm/kcalc/internal/stats"
)

// Options configures the calculator model
type Options struct {
	Mode          calc.Mode
	Display       calc.Display
	Scientific    bool
	Theme         string
	Color         bool
	ShakeDuration time.Duration

	// Collector receives keystroke and outcome counts; one is created when nil
	Collector *stats.Collector

	// Journal records finalized calculations when set
	Journal *history.Journal

	Logger *logger.Logger
}

// Model is the bubbletea model of the calculator
type Model struct {
	calc    calc.Calculator
	display calc.Display
	view    calc.ViewState

	keys       keyMap
	help       help.Model
	themeIdx   int
	styles     Styles
	color      bool
	scientific bool
	lastKey    string

	width  int
	height int

	shakeDuration time.Duration
	shakeSeq      int
	shakeFrame    int
	shaking       bool

	collector *stats.Collector
	journal   *history.Journal
	log       *logger.Logger
	quitting  bool
}

// New creates a calculator model
func New(opts Options) (*Model, error) {
	if opts.Mode == "" {
		opts.Mode = calc.ModeExpression
	}
	if opts.Display == (calc.Display{}) {
		opts.Display = calc.DefaultDisplay()
	}
	if opts.Collector == nil {
		opts.Collector = stats.New()
	}
	if opts.Logger == nil {
		opts.Logger = logger.Nop()
	}
	if IsColorDisabled() {
		opts.Color = false
	}

	c, err := calc.New(string(opts.Mode), opts.Display)
	if err != nil {
		return nil, err
	}

	idx := themeIndex(opts.Theme)
	return &Model{
		calc:          c,
		display:       opts.Display,
		view:          c.View(),
		keys:          newKeyMap(),
		help:          help.New(),
		themeIdx:      idx,
		styles:        newStyles(themes[idx], opts.Color),
		color:         opts.Color,
		scientific:    opts.Scientific,
		shakeDuration: opts.ShakeDuration,
		collector:     opts.Collector,
		journal:       opts.Journal,
		log:           opts.Logger.WithComponent("ui"),
	}, nil
}

// Run starts the calculator and blocks until the user quits or ctx ends
func Run(ctx context.Context, m *Model) error {
	p := tea.NewProgram(m, tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("calculator UI failed: %w", err)
	}
	return nil
}

// Init enters the alternate screen
func (m *Model) Init() tea.Cmd {
	return tea.EnterAltScreen
}

// Update handles messages
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
	case tea.KeyMsg:
		return m, m.handleKey(msg)
	case shakeFrameMsg:
		if msg.seq != m.shakeSeq || !m.shaking {
			return m, nil
		}
		m.shakeFrame = msg.frame
		return m, shakeFrame(msg.seq, msg.frame+1)
	case shakeEndMsg:
		if msg.seq == m.shakeSeq {
			m.shaking = false
			m.shakeFrame = 0
		}
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	name := msg.String()

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	case key.Matches(msg, m.keys.Scientific):
		m.scientific = !m.scientific
	case key.Matches(msg, m.keys.Strategy):
		m.switchStrategy()
	case key.Matches(msg, m.keys.Theme):
		m.themeIdx = (m.themeIdx + 1) % len(themes)
		m.styles = newStyles(themes[m.themeIdx], m.color)
		m.log.Debug("theme changed to %s", themes[m.themeIdx].Name)
	case key.Matches(msg, m.keys.Input):
		return m.press(calc.Token{Kind: calc.TokenInput, Text: name}, name)
	case key.Matches(msg, m.keys.Evaluate):
		return m.press(calc.Token{Kind: calc.TokenEquals}, name)
	case key.Matches(msg, m.keys.Backspace):
		return m.press(calc.Token{Kind: calc.TokenBackspace}, name)
	case key.Matches(msg, m.keys.Clear):
		return m.press(calc.Token{Kind: calc.TokenClear}, name)
	case key.Matches(msg, m.keys.Left):
		return m.press(calc.Token{Kind: calc.TokenMove, Direction: calc.MoveLeft}, name)
	case key.Matches(msg, m.keys.Right):
		return m.press(calc.Token{Kind: calc.TokenMove, Direction: calc.MoveRight}, name)
	case key.Matches(msg, m.keys.Home):
		return m.press(calc.Token{Kind: calc.TokenMove, Direction: calc.MoveHome}, name)
	case key.Matches(msg, m.keys.End):
		return m.press(calc.Token{Kind: calc.TokenMove, Direction: calc.MoveEnd}, name)
	case key.Matches(msg, m.keys.Insert):
		return m.press(m.insertToken(insertKeys[name]), name)
	case key.Matches(msg, m.keys.Ln):
		return m.press(calc.Token{Kind: calc.TokenFunction, Function: calc.FuncLn}, name)
	case key.Matches(msg, m.keys.Reciprocal):
		return m.press(calc.Token{Kind: calc.TokenFunction, Function: calc.FuncReciprocal}, name)
	case key.Matches(msg, m.keys.Square):
		return m.press(calc.Token{Kind: calc.TokenFunction, Function: calc.FuncSquare}, name)
	}
	return nil
}

// insertToken types a function call in expression mode and applies fn
// directly in operator mode, which has no expression text
func (m *Model) insertToken(fn calc.Function) calc.Token {
	if m.calc.Mode() != calc.ModeExpression {
		return calc.Token{Kind: calc.TokenFunction, Function: fn}
	}
	switch {
	case fn.IsConstant():
		return calc.Token{Kind: calc.TokenInput, Text: string(fn)}
	case fn == calc.FuncSqrt:
		return calc.Token{Kind: calc.TokenInput, Text: "√("}
	}
	return calc.Token{Kind: calc.TokenInput, Text: string(fn) + "("}
}

// press delivers tok to the calculator and records what came of it
func (m *Model) press(tok calc.Token, name string) tea.Cmd {
	m.collector.RecordKeystroke()
	m.lastKey = name
	prev := m.view

	var view calc.ViewState
	track := func(op stats.Operation) {
		_ = m.collector.Track(op, func() error {
			view = m.calc.Handle(tok)
			if view.Invalid {
				return calc.ErrInvalidExpression
			}
			return nil
		})
	}

	switch tok.Kind {
	case calc.TokenEquals:
		track(stats.OpEvaluate)
	case calc.TokenFunction:
		track(stats.OpApply)
	case calc.TokenInput:
		track(stats.OpPreview)
	default:
		view = m.calc.Handle(tok)
	}
	m.view = view

	if tok.Kind == calc.TokenEquals || tok.Kind == calc.TokenFunction {
		m.recordOutcome(tok, prev, view)
	}
	if view.Invalid {
		return m.startShake()
	}
	return nil
}

// recordOutcome counts a finished evaluation or function application
// and writes it to the tape. A press that changed nothing, such as a
// second '=', is not counted.
func (m *Model) recordOutcome(tok calc.Token, prev, view calc.ViewState) {
	if view == prev {
		return
	}

	if view.Invalid {
		var err error = calc.ErrNonFiniteResult
		if m.calc.Mode() == calc.ModeExpression {
			if res := calc.Evaluate(prev.Buffer); !res.Ok() {
				err = res.Err
			}
		}
		m.collector.RecordError(err)
		return
	}
	if !view.Finalized && tok.Kind != calc.TokenFunction {
		return
	}

	m.collector.RecordNumber()
	if view.Notice != "" {
		m.collector.RecordError(calc.ErrDivisionByZero)
	}

	if m.journal == nil {
		return
	}
	expr, result := tapeEntry(view)
	if expr == "" {
		return
	}
	if err := m.journal.Record(m.calc.Mode(), expr, result); err != nil {
		m.log.Warn("failed to record history: %v", err)
	}
}

// tapeEntry splits a finalized view into the expression and its result
func tapeEntry(v calc.ViewState) (string, string) {
	if expr, ok := strings.CutSuffix(v.Trace, " ="); ok {
		return expr, v.Buffer
	}
	if i := strings.LastIndex(v.Trace, " = "); i >= 0 {
		return v.Trace[:i], v.Trace[i+3:]
	}
	return "", ""
}

func (m *Model) startShake() tea.Cmd {
	if m.shakeDuration <= 0 {
		return nil
	}
	m.shakeSeq++
	m.shaking = true
	m.shakeFrame = 0
	return tea.Batch(shakeFrame(m.shakeSeq, 1), shakeEnd(m.shakeSeq, m.shakeDuration))
}

func (m *Model) switchStrategy() {
	next := calc.ModeOperator
	if m.calc.Mode() == calc.ModeOperator {
		next = calc.ModeExpression
	}

	c, err := calc.New(string(next), m.display)
	if err != nil {
		m.log.Error("failed to switch mode: %v", err)
		return
	}
	m.calc = c
	m.view = c.View()
	m.shaking = false
	m.log.InfoWithFields("mode switched", []logger.Field{logger.F("mode", next)})
}

// Mode returns the active calculator strategy
func (m *Model) Mode() calc.Mode {
	return m.calc.Mode()
}

// View renders the calculator
func (m *Model) View() string {
	if m.quitting {
		return ""
	}

	title := m.styles.Title.Render(glyph.Get("calculator")+" kcalc") + "  " +
		m.styles.Muted.Render(string(m.calc.Mode()))

	keypad := renderKeypad(basicKeypad(), m.lastKey, m.styles)
	if m.scientific {
		keypad = lipgloss.JoinHorizontal(lipgloss.Top,
			keypad, "  ", renderKeypad(scientificKeypad(), m.lastKey, m.styles))
	}

	content := lipgloss.JoinVertical(
		lipgloss.Left,
		title,
		m.renderDisplay(),
		keypad,
		"",
		m.renderStatus(),
		m.help.View(m.keys),
	)

	if m.width > 0 && m.height > 0 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
	}
	return content
}

// displayWidth is the number of cells available to the buffer line
func (m *Model) displayWidth() int {
	if m.width <= 0 {
		return 28
	}
	return min(max(m.width-10, 12), 48)
}

func (m *Model) renderDisplay() string {
	width := m.displayWidth()
	v := m.view

	trace := m.styles.Muted.Render(cutLeft(v.Trace, width))

	var buffer string
	if v.Finalized {
		buffer = cutLeft(v.Buffer, width)
	} else {
		buffer = fitBuffer(v.Buffer, v.Cursor, glyph.Get("cursor"), width)
	}
	buffer = m.styles.Buffer.Render(buffer)

	var status string
	switch {
	case v.Invalid || m.shaking:
		status = m.styles.Error.Render(glyph.Get("error") + " invalid expression")
	case v.Notice != "":
		status = m.styles.Notice.Render(glyph.Get("notice") + " " + v.Notice)
	case v.Preview != "":
		status = m.styles.Preview.Render("= " + v.Preview)
	}

	lines := []string{trace, buffer, status}
	for i, l := range lines {
		lines[i] = lipgloss.PlaceHorizontal(width, lipgloss.Right, l)
	}

	frame := m.styles.Display
	if m.shaking {
		frame = m.styles.errorBorder(m.color).
			MarginLeft(shakeOffsets[m.shakeFrame%len(shakeOffsets)])
	}
	return frame.Render(lipgloss.JoinVertical(lipgloss.Right, lines...))
}

func (m *Model) renderStatus() string {
	snap := m.collector.Snapshot()
	parts := []string{
		fmt.Sprintf("%s %d keys", glyph.Get("statistics"), snap.Keystrokes),
		fmt.Sprintf("%d results", snap.Outcomes.Numbers),
		fmt.Sprintf("%d invalid", snap.Outcomes.Invalid+snap.Outcomes.NonFinite),
		"theme " + themes[m.themeIdx].Name,
	}
	if m.journal != nil {
		parts = append(parts, glyph.Get("history")+" "+shortSession(m.journal.Session()))
	}
	return m.styles.Status.Render(strings.Join(parts, " · "))
}

func shortSession(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
