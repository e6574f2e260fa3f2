package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/yildizm/kcalc/internal/calc"
)

// Config holds the complete application configuration
type Config struct {
	Version    string           `yaml:"version" json:"version"`
	Calculator CalculatorConfig `yaml:"calculator" json:"calculator"`
	Display    DisplayConfig    `yaml:"display" json:"display"`
	Output     OutputConfig     `yaml:"output" json:"output"`
	History    HistoryConfig    `yaml:"history" json:"history"`
}

// CalculatorConfig selects the strategy and the keypad layout
type CalculatorConfig struct {
	Mode          string        `yaml:"mode" json:"mode"`                     // expression|operator
	Scientific    bool          `yaml:"scientific" json:"scientific"`         // start with the scientific keypad
	ShakeDuration time.Duration `yaml:"shake_duration" json:"shake_duration"` // invalid-input feedback length
}

// DisplayConfig configures number rendering and the look of the TUI
type DisplayConfig struct {
	ExponentThreshold int    `yaml:"exponent_threshold" json:"exponent_threshold"`
	ExponentDigits    int    `yaml:"exponent_digits" json:"exponent_digits"`
	Theme             string `yaml:"theme" json:"theme"`     // dark|light|high-contrast
	Unicode           bool   `yaml:"unicode" json:"unicode"` // π √ ⌫ glyphs instead of ASCII
}

// OutputConfig configures output formatting and display
type OutputConfig struct {
	DefaultFormat string `yaml:"default_format" json:"default_format"` // text|json|csv|markdown
	ColorMode     string `yaml:"color_mode" json:"color_mode"`         // auto|always|never
	Verbose       bool   `yaml:"verbose" json:"verbose"`
}

// HistoryConfig configures the session tape
type HistoryConfig struct {
	Enabled    bool   `yaml:"enabled" json:"enabled"`
	Path       string `yaml:"path" json:"path"`
	MaxEntries int    `yaml:"max_entries" json:"max_entries"` // 0 keeps everything
}

// Themes lists the built-in TUI themes
var Themes = []string{"dark", "light", "high-contrast"}

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	display := calc.DefaultDisplay()
	return &Config{
		Version: "1.0",
		Calculator: CalculatorConfig{
			Mode:          string(calc.ModeExpression),
			Scientific:    false,
			ShakeDuration: 400 * time.Millisecond,
		},
		Display: DisplayConfig{
			ExponentThreshold: display.ExponentThreshold,
			ExponentDigits:    display.ExponentDigits,
			Theme:             "dark",
			Unicode:           true,
		},
		Output: OutputConfig{
			DefaultFormat: "text",
			ColorMode:     "auto",
			Verbose:       false,
		},
		History: HistoryConfig{
			Enabled:    false,
			Path:       "~/.local/share/kcalc/tape.log",
			MaxEntries: 1000,
		},
	}
}

// CalcDisplay converts the display section into formatting rules
func (c *Config) CalcDisplay() calc.Display {
	return calc.Display{
		ExponentThreshold: c.Display.ExponentThreshold,
		ExponentDigits:    c.Display.ExponentDigits,
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if err := c.validateCalculatorConfig(); err != nil {
		return err
	}
	if err := c.validateDisplayConfig(); err != nil {
		return err
	}
	if err := c.validateOutputConfig(); err != nil {
		return err
	}
	if err := c.validateHistoryConfig(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateCalculatorConfig() error {
	if c.Calculator.Mode != "" {
		modes := calc.Modes()
		if !contains(modes, c.Calculator.Mode) {
			return fmt.Errorf("invalid calculator mode: %s (must be one of: %s)", c.Calculator.Mode, strings.Join(modes, ", "))
		}
	}
	if c.Calculator.ShakeDuration < 0 {
		return fmt.Errorf("shake_duration must be non-negative")
	}
	if c.Calculator.ShakeDuration > 5*time.Second {
		return fmt.Errorf("shake_duration must not exceed 5s")
	}
	return nil
}

func (c *Config) validateDisplayConfig() error {
	if c.Display.ExponentThreshold < 1 {
		return fmt.Errorf("exponent_threshold must be greater than 0")
	}
	// strconv never needs more than 17 significant digits for a float64
	if c.Display.ExponentDigits < 0 || c.Display.ExponentDigits > 17 {
		return fmt.Errorf("exponent_digits must be between 0 and 17")
	}
	if c.Display.Theme != "" && !contains(Themes, c.Display.Theme) {
		return fmt.Errorf("invalid theme: %s (must be one of: %s)", c.Display.Theme, strings.Join(Themes, ", "))
	}
	return nil
}

// validateOutputConfig validates output-related configuration
func (c *Config) validateOutputConfig() error {
	if c.Output.DefaultFormat != "" {
		validFormats := map[string]bool{
			"json":     true,
			"text":     true,
			"markdown": true,
			"csv":      true,
		}
		if !validFormats[c.Output.DefaultFormat] {
			return fmt.Errorf("invalid output format: %s (must be one of: json, text, markdown, csv)", c.Output.DefaultFormat)
		}
	}
	if c.Output.ColorMode != "" {
		validColorModes := map[string]bool{
			"auto":   true,
			"always": true,
			"never":  true,
		}
		if !validColorModes[c.Output.ColorMode] {
			return fmt.Errorf("invalid color mode: %s (must be one of: auto, always, never)", c.Output.ColorMode)
		}
	}
	return nil
}

func (c *Config) validateHistoryConfig() error {
	if c.History.MaxEntries < 0 {
		return fmt.Errorf("history max_entries must be non-negative")
	}
	if c.History.Enabled && strings.TrimSpace(c.History.Path) == "" {
		return fmt.Errorf("history path is required when history is enabled")
	}
	return nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
