package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("Failed to write test config file: %v", err)
	}
	return path
}

func TestNewLoader(t *testing.T) {
	loader := NewLoader()
	if loader == nil {
		t.Fatal("NewLoader returned nil")
	}
	if len(loader.configPaths) != 3 {
		t.Errorf("Expected 3 config paths, got %d", len(loader.configPaths))
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	dir := t.TempDir()
	loader := NewLoaderWithPaths(filepath.Join(dir, "missing.yaml"))

	cfg, err := loader.LoadConfig("")
	if err != nil {
		t.Fatalf("Failed to load default config: %v", err)
	}
	if *cfg != *DefaultConfig() {
		t.Errorf("Expected defaults, got %+v", cfg)
	}
}

func TestLoadConfigFromFile(t *testing.T) {
	configPath := writeConfig(t, t.TempDir(), "test-config.yaml", `version: "1.0"
calculator:
  mode: operator
  shake_duration: 250ms
display:
  theme: light
  unicode: false
output:
  default_format: json
  verbose: true
`)

	cfg, err := NewLoader().LoadConfig(configPath)
	if err != nil {
		t.Fatalf("Failed to load config from file: %v", err)
	}

	if cfg.Calculator.Mode != "operator" {
		t.Errorf("Expected mode operator, got %s", cfg.Calculator.Mode)
	}
	if cfg.Calculator.ShakeDuration != 250*time.Millisecond {
		t.Errorf("Expected shake 250ms, got %v", cfg.Calculator.ShakeDuration)
	}
	if cfg.Display.Theme != "light" {
		t.Errorf("Expected theme light, got %s", cfg.Display.Theme)
	}
	if cfg.Display.Unicode {
		t.Error("An explicit false should override the default")
	}
	if !cfg.Output.Verbose {
		t.Error("Expected verbose to be true")
	}
	// untouched keys keep their defaults
	if cfg.Display.ExponentThreshold != 12 {
		t.Errorf("Expected default threshold, got %d", cfg.Display.ExponentThreshold)
	}
	if cfg.History.Path != "~/.local/share/kcalc/tape.log" {
		t.Errorf("Expected default history path, got %s", cfg.History.Path)
	}
}

func TestLoadConfigPriority(t *testing.T) {
	dir := t.TempDir()
	high := writeConfig(t, dir, "project.yaml", "display:\n  theme: high-contrast\n")
	low := writeConfig(t, dir, "system.yaml", "display:\n  theme: light\n  exponent_digits: 3\n")

	cfg, err := NewLoaderWithPaths(high, low).LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Display.Theme != "high-contrast" {
		t.Errorf("Higher priority file should win, got theme %s", cfg.Display.Theme)
	}
	if cfg.Display.ExponentDigits != 3 {
		t.Errorf("Lower priority keys should survive, got digits %d", cfg.Display.ExponentDigits)
	}
}

func TestLoadConfigSkipsBrokenSearchFile(t *testing.T) {
	dir := t.TempDir()
	broken := writeConfig(t, dir, "broken.yaml", "display: [unterminated\n")

	var warnings []string
	loader := NewLoaderWithPaths(broken).OnWarning(func(format string, args ...interface{}) {
		warnings = append(warnings, fmt.Sprintf(format, args...))
	})

	cfg, err := loader.LoadConfig("")
	if err != nil {
		t.Fatalf("A broken search-path file should only warn: %v", err)
	}
	if cfg.Display.Theme != "dark" {
		t.Errorf("Expected defaults after a broken file, got theme %s", cfg.Display.Theme)
	}
	if len(warnings) != 1 || !strings.Contains(warnings[0], broken) {
		t.Errorf("Expected one warning naming %s, got %v", broken, warnings)
	}
}

func TestLoadConfigInvalidYAML(t *testing.T) {
	configPath := writeConfig(t, t.TempDir(), "invalid-config.yaml", `version: "1.0"
output:
  default_format: "json
  verbose: true
`)

	if _, err := NewLoader().LoadConfig(configPath); err == nil {
		t.Error("Expected error loading invalid YAML config, but got none")
	}
}

func TestLoadConfigInvalidValues(t *testing.T) {
	configPath := writeConfig(t, t.TempDir(), "bad-mode.yaml", "calculator:\n  mode: rpn\n")

	_, err := NewLoader().LoadConfig(configPath)
	if err == nil {
		t.Fatal("Expected validation error, got none")
	}
	if !strings.Contains(err.Error(), "configuration validation failed") {
		t.Errorf("Unexpected error: %v", err)
	}
}

func TestApplyEnvOverrides(t *testing.T) {
	t.Setenv("KCALC_CALCULATOR_MODE", "operator")
	t.Setenv("KCALC_CALCULATOR_SCIENTIFIC", "true")
	t.Setenv("KCALC_CALCULATOR_SHAKE_DURATION", "1s")
	t.Setenv("KCALC_DISPLAY_EXPONENT_THRESHOLD", "15")
	t.Setenv("KCALC_DISPLAY_UNICODE", "false")
	t.Setenv("KCALC_OUTPUT_VERBOSE", "true")
	t.Setenv("KCALC_HISTORY_ENABLED", "true")
	t.Setenv("KCALC_HISTORY_PATH", "/tmp/tape.log")
	t.Setenv("KCALC_HISTORY_MAX_ENTRIES", "25")

	cfg := DefaultConfig()
	if err := NewLoader().applyEnvOverrides(cfg); err != nil {
		t.Fatalf("Failed to apply env overrides: %v", err)
	}

	if cfg.Calculator.Mode != "operator" || !cfg.Calculator.Scientific {
		t.Errorf("Calculator overrides not applied: %+v", cfg.Calculator)
	}
	if cfg.Calculator.ShakeDuration != time.Second {
		t.Errorf("Expected shake 1s, got %v", cfg.Calculator.ShakeDuration)
	}
	if cfg.Display.ExponentThreshold != 15 || cfg.Display.Unicode {
		t.Errorf("Display overrides not applied: %+v", cfg.Display)
	}
	if !cfg.Output.Verbose {
		t.Error("Expected verbose to be true")
	}
	if !cfg.History.Enabled || cfg.History.Path != "/tmp/tape.log" || cfg.History.MaxEntries != 25 {
		t.Errorf("History overrides not applied: %+v", cfg.History)
	}
}

func TestEnvOverridesWinOverFiles(t *testing.T) {
	configPath := writeConfig(t, t.TempDir(), "config.yaml", "display:\n  theme: light\n")
	t.Setenv("KCALC_DISPLAY_THEME", "high-contrast")

	cfg, err := NewLoader().LoadConfig(configPath)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Display.Theme != "high-contrast" {
		t.Errorf("Expected env to win, got %s", cfg.Display.Theme)
	}
}

func TestApplyEnvOverridesInvalidValues(t *testing.T) {
	tests := []struct {
		name   string
		envVar string
		value  string
	}{
		{"invalid int", "KCALC_HISTORY_MAX_ENTRIES", "not-a-number"},
		{"invalid bool", "KCALC_OUTPUT_VERBOSE", "not-a-bool"},
		{"invalid duration", "KCALC_CALCULATOR_SHAKE_DURATION", "not-a-duration"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.envVar, tt.value)

			err := NewLoader().applyEnvOverrides(DefaultConfig())
			if err == nil {
				t.Error("Expected error for invalid env var value, but got none")
			} else if !strings.Contains(err.Error(), tt.envVar) {
				t.Errorf("Error should name the variable, got %v", err)
			}
		})
	}
}

func TestParseHelpers(t *testing.T) {
	var d time.Duration
	if err := parseDuration("30s", &d); err != nil || d != 30*time.Second {
		t.Errorf("parseDuration: %v %v", d, err)
	}
	if err := parseDuration("invalid", &d); err == nil {
		t.Error("Expected error for invalid duration")
	}

	var n int
	if err := parseInt("42", &n); err != nil || n != 42 {
		t.Errorf("parseInt: %v %v", n, err)
	}
	if err := parseInt("x", &n); err == nil {
		t.Error("Expected error for invalid int")
	}

	var b bool
	if err := parseBool("true", &b); err != nil || !b {
		t.Errorf("parseBool: %v %v", b, err)
	}
	if err := parseBool("nope", &b); err == nil {
		t.Error("Expected error for invalid bool")
	}
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}
	if got := ExpandPath("~/tape.log"); got != filepath.Join(home, "tape.log") {
		t.Errorf("ExpandPath = %s", got)
	}
	if got := ExpandPath("/abs/tape.log"); got != "/abs/tape.log" {
		t.Errorf("ExpandPath changed an absolute path: %s", got)
	}
}

func TestValidateConfigPath(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		wantErr bool
		errMsg  string
	}{
		{"valid yaml file", "config.yaml", false, ""},
		{"valid yml file", "config.yml", false, ""},
		{"home relative", "~/.config/kcalc/config.yaml", false, ""},
		{"relative path", "./configs/app.yaml", false, ""},
		{"path traversal attempt", "../../../etc/passwd", true, "path traversal not allowed"},
		{"non-yaml file", "config.txt", true, "config file must have .yaml or .yml extension"},
		{"proc filesystem access", "/proc/version.yaml", true, "access to system files not allowed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateConfigPath(tt.path)
			if tt.wantErr {
				if err == nil {
					t.Error("Expected error but got none")
				} else if !strings.Contains(err.Error(), tt.errMsg) {
					t.Errorf("Expected error message to contain '%s', got '%s'", tt.errMsg, err.Error())
				}
				return
			}
			if err != nil {
				t.Errorf("Unexpected error: %v", err)
			}
		})
	}
}
