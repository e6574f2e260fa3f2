// Package batch evaluates many calculations at once: command-line
// arguments, piped input or an expression file being watched.
package batch

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/yildizm/kcalc/internal/calc"
	"github.com/yildizm/kcalc/internal/logger"
	"github.com/yildizm/kcalc/internal/stats"
)

// Engine evaluates lines with one calculator strategy
type Engine struct {
	mode      calc.Mode
	display   calc.Display
	collector *stats.Collector
	log       *logger.Logger
}

// Option configures an Engine
type Option func(*Engine)

// WithMode selects the strategy used for every line
func WithMode(mode calc.Mode) Option {
	return func(e *Engine) { e.mode = mode }
}

// WithDisplay sets the formatting rules for the formatted values
func WithDisplay(d calc.Display) Option {
	return func(e *Engine) { e.display = d }
}

// WithCollector records into an existing collector
func WithCollector(c *stats.Collector) Option {
	return func(e *Engine) { e.collector = c }
}

// WithLogger sets the engine logger
func WithLogger(l *logger.Logger) Option {
	return func(e *Engine) { e.log = l.WithComponent("batch") }
}

// NewEngine creates an expression-mode engine with the default display
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		mode:    calc.ModeExpression,
		display: calc.DefaultDisplay(),
		log:     logger.Nop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.collector == nil {
		e.collector = stats.New()
	}
	return e
}

// Mode returns the engine's strategy
func (e *Engine) Mode() calc.Mode {
	return e.mode
}

// Evaluate evaluates each line in order. Blank lines and lines starting
// with '#' are skipped. On cancellation the partial report is returned
// with the context error.
func (e *Engine) Evaluate(ctx context.Context, lines []string) (*Report, error) {
	report := &Report{
		Mode:    e.mode,
		Lines:   []Line{},
		Started: time.Now(),
	}
	defer func() {
		report.Duration = time.Since(report.Started)
		e.collector.Observe(stats.OpBatch, report.Duration, report.Failed > 0)
		snap := e.collector.Snapshot()
		report.Stats = &snap
	}()

	for i, raw := range lines {
		select {
		case <-ctx.Done():
			return report, ctx.Err()
		default:
		}

		text := strings.TrimSpace(raw)
		if text == "" || strings.HasPrefix(text, "#") {
			report.Skipped++
			continue
		}

		line := e.evaluateLine(text)
		line.Number = i + 1
		report.add(line)

		if line.OK() {
			e.log.DebugWithFields("evaluated", []logger.Field{logger.F("line", line.Number), logger.F("value", line.Formatted)})
		} else {
			e.log.DebugWithFields("rejected", []logger.Field{logger.F("line", line.Number), logger.Error(line.Error)})
		}
	}

	e.log.InfoWithFields("batch complete", []logger.Field{
		logger.Count(report.Total),
		logger.F("failed", report.Failed),
		logger.F("skipped", report.Skipped),
	})
	return report, nil
}

// EvaluateReader evaluates every line read from r
func (e *Engine) EvaluateReader(ctx context.Context, r io.Reader) (*Report, error) {
	var lines []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}
	return e.Evaluate(ctx, lines)
}

func (e *Engine) evaluateLine(text string) Line {
	switch e.mode {
	case calc.ModeOperator:
		return e.replayKeys(text)
	default:
		return e.evaluateExpression(text)
	}
}

func (e *Engine) evaluateExpression(text string) Line {
	line := Line{Input: text}
	res := e.collector.Evaluate(text)
	if !res.Ok() {
		line.Error = res.Err
		return line
	}
	line.setValue(res.Value, e.display)
	line.Trace = text + " ="
	return line
}

// replayKeys feeds whitespace-separated keys to a fresh operator
// calculator. A pending operator is completed as if '=' were pressed.
func (e *Engine) replayKeys(text string) Line {
	line := Line{Input: text}
	c := calc.NewOperatorCalculator(e.display)

	start := time.Now()
	reject := func(err *calc.EvalError) Line {
		line.Error = err
		e.collector.Observe(stats.OpEvaluate, time.Since(start), true)
		e.collector.RecordError(err)
		return line
	}

	keys := strings.Fields(text)
	for _, key := range keys {
		e.collector.RecordKeystroke()
		tok := calc.ParseToken(key)
		v := c.Handle(tok)
		if v.Invalid {
			return reject(rejectedKey(tok, key))
		}
		if v.Notice != "" {
			line.Notice = v.Notice
			e.collector.RecordError(calc.ErrDivisionByZero)
		}
	}
	if c.Pending() != calc.OpNone {
		v := c.Handle(calc.Token{Kind: calc.TokenEquals})
		if v.Invalid {
			return reject(&calc.EvalError{
				Type:    calc.ErrTypeNonFiniteResult,
				Message: "pending operation produced a non-finite result",
				Pos:     -1,
			})
		}
		if v.Notice != "" {
			line.Notice = v.Notice
			e.collector.RecordError(calc.ErrDivisionByZero)
		}
	}
	e.collector.Observe(stats.OpEvaluate, time.Since(start), false)

	value := c.Value()
	e.collector.RecordResult(calc.Number(value))
	line.setValue(value, e.display)
	line.Trace = c.View().Trace
	return line
}

// rejectedKey explains why the operator calculator refused key. Keys that
// compute something can only fail on a non-finite outcome; anything else
// was not a valid key.
func rejectedKey(tok calc.Token, key string) *calc.EvalError {
	computes := tok.Kind == calc.TokenEquals || tok.Kind == calc.TokenFunction
	if tok.Kind == calc.TokenInput {
		_, isOp := calc.ParseOperator(tok.Text)
		_, isFn := calc.LookupFunction(tok.Text)
		computes = isOp || isFn
	}
	if computes {
		return &calc.EvalError{
			Type:    calc.ErrTypeNonFiniteResult,
			Message: fmt.Sprintf("key %q produced a non-finite result", key),
			Pos:     -1,
		}
	}
	return &calc.EvalError{
		Type:    calc.ErrTypeInvalidExpression,
		Message: fmt.Sprintf("key %q rejected", key),
		Pos:     -1,
	}
}
