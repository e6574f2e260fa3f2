package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/yildizm/kcalc/internal/config"
	"github.com/yildizm/kcalc/internal/formatter"
	"github.com/yildizm/kcalc/internal/glyph"
	"github.com/yildizm/kcalc/internal/history"
	"github.com/yildizm/kcalc/internal/logger"
)

var globalConfig *config.Config

// GetGlobalConfig returns the configuration loaded for the running command
func GetGlobalConfig() *config.Config {
	if globalConfig == nil {
		return config.DefaultConfig()
	}
	return globalConfig
}

// loadGlobalConfig loads config files and environment, then applies the
// flags the user set explicitly
func loadGlobalConfig(cmd *cobra.Command) error {
	log := newLogger("config")
	loader := config.NewLoader().OnWarning(func(format string, args ...interface{}) {
		log.Warn(format, args...)
	})

	cfg, err := loader.LoadConfig(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	if flagChanged(cmd, "mode") {
		cfg.Calculator.Mode = calcMode
	}
	if flagChanged(cmd, "output") {
		cfg.Output.DefaultFormat = outputFmt
	}
	if verbose {
		cfg.Output.Verbose = true
	}
	if noColor {
		cfg.Output.ColorMode = "never"
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	globalConfig = cfg
	applyGlyphs(cfg)

	log.DebugWithFields("configuration loaded", []logger.Field{
		logger.F("mode", cfg.Calculator.Mode),
		logger.F("format", cfg.Output.DefaultFormat),
		logger.F("history", cfg.History.Enabled),
	})
	return nil
}

func flagChanged(cmd *cobra.Command, name string) bool {
	f := cmd.Flags().Lookup(name)
	return f != nil && f.Changed
}

// applyGlyphs switches glyphs to ASCII under --no-emoji or display.unicode=false
func applyGlyphs(cfg *config.Config) {
	disabled := noEmoji
	if cfg != nil && !cfg.Display.Unicode {
		disabled = true
	}
	glyph.SetDisabled(disabled)
}

// newLogger creates a component logger tied to --verbose and the config
func newLogger(component string) *logger.Logger {
	return logger.NewWithCallback(component, func() bool {
		return isVerbose() || (globalConfig != nil && globalConfig.Output.Verbose)
	})
}

// colorEnabled resolves output.color_mode for w
func colorEnabled(cfg *config.Config, w io.Writer) bool {
	switch cfg.Output.ColorMode {
	case "always":
		return true
	case "never":
		return false
	}
	if noColor || os.Getenv("NO_COLOR") != "" {
		return false
	}
	f, ok := w.(*os.File)
	return ok && isatty.IsTerminal(f.Fd())
}

// newFormatter returns the configured report formatter for w
func newFormatter(cfg *config.Config, w io.Writer) (formatter.Formatter, error) {
	return formatter.New(cfg.Output.DefaultFormat, formatter.Options{
		Color: colorEnabled(cfg, w),
		Emoji: !glyph.IsDisabled(),
	})
}

// openJournal opens the session tape when history is enabled
func openJournal(cfg *config.Config) (*history.Journal, error) {
	if !cfg.History.Enabled {
		return nil, nil
	}
	j, err := history.NewJournal(config.ExpandPath(cfg.History.Path), cfg.History.MaxEntries)
	if err != nil {
		return nil, fmt.Errorf("failed to open history: %w", err)
	}
	return j, nil
}
