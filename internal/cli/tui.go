package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/yildizm/kcalc/internal/calc"
	"github.com/yildizm/kcalc/internal/logger"
	"github.com/yildizm/kcalc/internal/stats"
	"github.com/yildizm/kcalc/internal/ui"
)

var tuiScientific bool

func newTUICommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tui",
		Short: "Start the interactive calculator",
		Long: `Start the interactive calculator. Type expressions directly or use the
keypad keys; press tab to switch between expression and operator mode and
? for the full key list.`,
		Args: cobra.NoArgs,
		RunE: runTUI,
	}
	cmd.Flags().BoolVarP(&tuiScientific, "scientific", "s", false, "show the scientific keypad on start")
	return cmd
}

func runTUI(cmd *cobra.Command, args []string) error {
	cfg := GetGlobalConfig()
	log := newLogger("tui")

	journal, err := openJournal(cfg)
	if err != nil {
		log.Warn("history disabled for this session: %v", err)
		journal = nil
	}

	collector := stats.New()
	model, err := ui.New(ui.Options{
		Mode:          calc.Mode(cfg.Calculator.Mode),
		Display:       cfg.CalcDisplay(),
		Scientific:    cfg.Calculator.Scientific || tuiScientific,
		Theme:         cfg.Display.Theme,
		Color:         colorEnabled(cfg, os.Stdout),
		ShakeDuration: cfg.Calculator.ShakeDuration,
		Collector:     collector,
		Journal:       journal,
		Logger:        log,
	})
	if err != nil {
		return err
	}

	if err := ui.Run(cmd.Context(), model); err != nil {
		return err
	}

	snap := collector.Snapshot()
	log.InfoWithFields("session ended", []logger.Field{
		logger.F("keystrokes", snap.Keystrokes),
		logger.F("results", snap.Outcomes.Numbers),
		logger.F("invalid", snap.Outcomes.Invalid),
		logger.Duration(snap.Uptime),
	})
	return nil
}
