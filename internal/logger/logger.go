package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"
)

// Level is the severity of a log line
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	}
	return "UNKNOWN"
}

// VerboseChecker interface for checking verbose state
type VerboseChecker interface {
	IsVerbose() bool
}

// Field represents a key-value pair for structured logging
type Field struct {
	Key   string
	Value interface{}
}

// sink is shared by a logger and everything derived from it
type sink struct {
	mu sync.Mutex
	w  io.Writer
}

// Logger writes component-tagged lines:
//
//	[15:04:05.000] INFO [batch] evaluated 3 lines [errors=1]
//
// Debug and Info lines need verbose mode; Warn and Error are always written.
type Logger struct {
	component      string
	verboseChecker VerboseChecker
	fields         []Field
	out            *sink
	now            func() time.Time
}

// New creates a new logger instance writing to stderr
func New(component string, verboseChecker VerboseChecker) *Logger {
	return &Logger{
		component:      component,
		verboseChecker: verboseChecker,
		out:            &sink{w: os.Stderr},
		now:            time.Now,
	}
}

// NewWithCallback creates a new logger instance with a callback function
func NewWithCallback(component string, verboseCheck func() bool) *Logger {
	return New(component, &callbackChecker{callback: verboseCheck})
}

// Nop returns a logger that discards everything
func Nop() *Logger {
	l := New("", nil)
	l.out.w = io.Discard
	return l
}

// SetOutput redirects this logger and every logger derived from it
func (l *Logger) SetOutput(w io.Writer) {
	l.out.mu.Lock()
	defer l.out.mu.Unlock()
	l.out.w = w
}

// WithComponent creates a logger with a specific component name
func (l *Logger) WithComponent(component string) *Logger {
	c := *l
	c.component = component
	return &c
}

// With returns a logger that appends fields to every line
func (l *Logger) With(fields ...Field) *Logger {
	c := *l
	c.fields = make([]Field, 0, len(l.fields)+len(fields))
	c.fields = append(c.fields, l.fields...)
	c.fields = append(c.fields, fields...)
	return &c
}

// callbackChecker implements VerboseChecker with a callback function
type callbackChecker struct {
	callback func() bool
}

func (c *callbackChecker) IsVerbose() bool {
	if c.callback == nil {
		return false
	}
	return c.callback()
}

// Verbose reports whether Debug and Info lines are written
func (l *Logger) Verbose() bool {
	return l.verboseChecker != nil && l.verboseChecker.IsVerbose()
}

// Debug logs debug messages (only when verbose=true)
func (l *Logger) Debug(msg string, args ...interface{}) {
	l.emit(LevelDebug, msg, nil, args...)
}

// Info logs informational messages (only when verbose=true)
func (l *Logger) Info(msg string, args ...interface{}) {
	l.emit(LevelInfo, msg, nil, args...)
}

// Warn logs warning messages (always shown)
func (l *Logger) Warn(msg string, args ...interface{}) {
	l.emit(LevelWarn, msg, nil, args...)
}

// Error logs error messages (always shown)
func (l *Logger) Error(msg string, args ...interface{}) {
	l.emit(LevelError, msg, nil, args...)
}

// DebugWithFields logs debug message with structured fields
func (l *Logger) DebugWithFields(msg string, fields []Field, args ...interface{}) {
	l.emit(LevelDebug, msg, fields, args...)
}

// InfoWithFields logs info message with structured fields
func (l *Logger) InfoWithFields(msg string, fields []Field, args ...interface{}) {
	l.emit(LevelInfo, msg, fields, args...)
}

// WarnWithFields logs warning message with structured fields
func (l *Logger) WarnWithFields(msg string, fields []Field, args ...interface{}) {
	l.emit(LevelWarn, msg, fields, args...)
}

func (l *Logger) emit(level Level, msg string, fields []Field, args ...interface{}) {
	if level < LevelWarn && !l.Verbose() {
		return
	}

	component := l.component
	if component == "" {
		component = "main"
	}
	if len(args) > 0 {
		msg = fmt.Sprintf(msg, args...)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "[%s] %s [%s] %s", l.now().Format("15:04:05.000"), level, component, msg)

	all := fields
	if len(l.fields) > 0 {
		all = append(append([]Field{}, l.fields...), fields...)
	}
	if len(all) > 0 {
		pairs := make([]string, 0, len(all))
		for _, f := range all {
			pairs = append(pairs, fmt.Sprintf("%s=%v", f.Key, f.Value))
		}
		fmt.Fprintf(&b, " [%s]", strings.Join(pairs, " "))
	}
	b.WriteByte('\n')

	l.out.mu.Lock()
	defer l.out.mu.Unlock()
	// nowhere left to report a failed log write
	_, _ = io.WriteString(l.out.w, b.String())
}

// Helper functions for common field types
func F(key string, value interface{}) Field {
	return Field{Key: key, Value: value}
}

func Count(value int) Field {
	return Field{Key: "count", Value: value}
}

func Duration(d time.Duration) Field {
	return Field{Key: "duration", Value: d}
}

func Error(err error) Field {
	return Field{Key: "error", Value: err}
}
