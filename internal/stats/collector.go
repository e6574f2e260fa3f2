// Package stats counts what happens during a calculator session: how many
// keys were pressed, how evaluations ended and how long they took.
package stats

import (
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/yildizm/kcalc/internal/calc"
)

// Operation names a tracked calculator operation
type Operation string

const (
	OpEvaluate Operation = "evaluate" // '=' or a batch line
	OpPreview  Operation = "preview"  // live preview while typing
	OpApply    Operation = "apply"    // single-operand function
	OpBatch    Operation = "batch"    // a whole batch run
)

var operations = []Operation{OpEvaluate, OpPreview, OpApply, OpBatch}

// OperationStats holds timing figures for one operation
type OperationStats struct {
	Operation Operation     `json:"operation"`
	Count     int64         `json:"count"`
	Errors    int64         `json:"errors"`
	Total     time.Duration `json:"total_ns"`
	Min       time.Duration `json:"min_ns"`
	Max       time.Duration `json:"max_ns"`
	Avg       time.Duration `json:"avg_ns"`
	Last      time.Time     `json:"last,omitempty"`
}

// Outcomes counts evaluation results by kind
type Outcomes struct {
	Numbers   int64 `json:"numbers"`
	Invalid   int64 `json:"invalid"`
	NonFinite int64 `json:"non_finite"`
	Notices   int64 `json:"notices"`
}

// Total is the number of results counted
func (o Outcomes) Total() int64 {
	return o.Numbers + o.Invalid + o.NonFinite
}

// Snapshot is a point-in-time copy of the collector
type Snapshot struct {
	Started    time.Time        `json:"started"`
	Uptime     time.Duration    `json:"uptime_ns"`
	Keystrokes int64            `json:"keystrokes"`
	Outcomes   Outcomes         `json:"outcomes"`
	Operations []OperationStats `json:"operations"`
}

// Operation returns the stats for op, or zero stats if it never ran
func (s Snapshot) Operation(op Operation) OperationStats {
	for _, o := range s.Operations {
		if o.Operation == op {
			return o
		}
	}
	return OperationStats{Operation: op}
}

// Collector is safe for concurrent use
type Collector struct {
	timers     map[Operation]*Timer
	keystrokes Counter
	numbers    Counter
	invalid    Counter
	nonFinite  Counter
	notices    Counter

	mu      sync.RWMutex
	started time.Time
	now     func() time.Time
}

// New creates a collector with a timer per known operation
func New() *Collector {
	c := &Collector{
		timers: make(map[Operation]*Timer, len(operations)),
		now:    time.Now,
	}
	for _, op := range operations {
		c.timers[op] = NewTimer()
	}
	c.started = c.now()
	return c
}

// Track runs fn and records its duration under op
func (c *Collector) Track(op Operation, fn func() error) error {
	start := c.now()
	err := fn()
	c.Observe(op, c.now().Sub(start), err != nil)
	return err
}

// Observe records a measurement taken elsewhere
func (c *Collector) Observe(op Operation, d time.Duration, failed bool) {
	c.timer(op).Record(d, failed)
}

// Evaluate runs calc.Evaluate under OpEvaluate and counts the outcome
func (c *Collector) Evaluate(expr string) calc.Result {
	var res calc.Result
	_ = c.Track(OpEvaluate, func() error {
		res = calc.Evaluate(expr)
		return resultErr(res)
	})
	c.RecordResult(res)
	return res
}

// RecordKeystroke counts one token delivered to a calculator
func (c *Collector) RecordKeystroke() {
	c.keystrokes.Inc()
}

// RecordResult counts how an evaluation ended
func (c *Collector) RecordResult(res calc.Result) {
	if res.Ok() {
		c.RecordNumber()
		return
	}
	c.RecordError(res.Err)
}

// RecordNumber counts an evaluation that produced a number
func (c *Collector) RecordNumber() {
	c.numbers.Inc()
}

// RecordError counts an evaluation error by kind. Division-by-zero
// notices are counted apart since the operation still produced a value.
func (c *Collector) RecordError(err error) {
	switch {
	case err == nil:
		return
	case errors.Is(err, calc.ErrDivisionByZero):
		c.notices.Inc()
	case errors.Is(err, calc.ErrNonFiniteResult):
		c.nonFinite.Inc()
	default:
		c.invalid.Inc()
	}
}

// Snapshot copies the current figures
func (c *Collector) Snapshot() Snapshot {
	c.mu.RLock()
	started := c.started
	c.mu.RUnlock()

	s := Snapshot{
		Started:    started,
		Uptime:     c.now().Sub(started),
		Keystrokes: c.keystrokes.Get(),
		Outcomes: Outcomes{
			Numbers:   c.numbers.Get(),
			Invalid:   c.invalid.Get(),
			NonFinite: c.nonFinite.Get(),
			Notices:   c.notices.Get(),
		},
	}

	c.mu.RLock()
	for op, t := range c.timers {
		st := t.Stats()
		st.Operation = op
		s.Operations = append(s.Operations, st)
	}
	c.mu.RUnlock()

	sort.Slice(s.Operations, func(i, j int) bool {
		return s.Operations[i].Operation < s.Operations[j].Operation
	})
	return s
}

// Reset clears every figure and restarts the uptime clock
func (c *Collector) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, t := range c.timers {
		t.Reset()
	}
	c.keystrokes.Reset()
	c.numbers.Reset()
	c.invalid.Reset()
	c.nonFinite.Reset()
	c.notices.Reset()
	c.started = c.now()
}

// timer returns the timer for op, creating it for operations added later
func (c *Collector) timer(op Operation) *Timer {
	c.mu.RLock()
	t, ok := c.timers[op]
	c.mu.RUnlock()
	if ok {
		return t
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if t, ok := c.timers[op]; ok {
		return t
	}
	t = NewTimer()
	c.timers[op] = t
	return t
}

func resultErr(res calc.Result) error {
	if res.Ok() {
		return nil
	}
	return res.Err
}
