package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yildizm/kcalc/internal/batch"
	"github.com/yildizm/kcalc/internal/calc"
	"github.com/yildizm/kcalc/internal/config"
	"github.com/yildizm/kcalc/internal/logger"
)

var (
	evalFile       string
	evalOutputFile string
	evalKeepGoing  bool
)

func newEvalCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "eval [expression...]",
		Short: "Evaluate expressions without the interactive UI",
		Long: `Evaluate each argument as one calculation. With no arguments, expressions
are read one per line from --file or stdin; blank lines and lines starting
with '#' are skipped.

In operator mode each line is replayed as keypad presses, so "2 + 3 * 4"
evaluates left to right to 20.`,
		Example: `  kcalc eval "2+3*4" "sqrt(16)/2"
  kcalc eval --mode operator "2 + 3 * 4"
  cat sums.txt | kcalc eval -o json
  kcalc eval -f sums.txt -o markdown --output-file report.md`,
		RunE: runEval,
	}

	cmd.Flags().StringVarP(&evalFile, "file", "f", "", "read expressions from a file")
	cmd.Flags().StringVar(&evalOutputFile, "output-file", "", "write the report to a file")
	cmd.Flags().BoolVarP(&evalKeepGoing, "keep-going", "k", false, "exit successfully even when some expressions fail")

	return cmd
}

func runEval(cmd *cobra.Command, args []string) error {
	cfg := GetGlobalConfig()
	log := newLogger("eval")

	if len(args) > 0 && evalFile != "" {
		return fmt.Errorf("expressions given as arguments and --file at the same time")
	}

	engine := batch.NewEngine(
		batch.WithMode(calc.Mode(cfg.Calculator.Mode)),
		batch.WithDisplay(cfg.CalcDisplay()),
		batch.WithLogger(log),
	)

	var (
		report *batch.Report
		err    error
	)
	if len(args) > 0 {
		report, err = engine.Evaluate(cmd.Context(), args)
		if report != nil {
			report.Source = "arguments"
		}
	} else {
		reader, source, cleanup, openErr := openInput(cmd, evalFile)
		if openErr != nil {
			return openErr
		}
		defer cleanup()
		report, err = engine.EvaluateReader(cmd.Context(), reader)
		if report != nil {
			report.Source = source
		}
	}
	if err != nil {
		return fmt.Errorf("evaluation failed: %w", err)
	}

	if err := recordReport(cfg, report, log); err != nil {
		log.Warn("history not updated: %v", err)
	}

	f, err := newFormatter(cfg, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	output, err := f.Format(report)
	if err != nil {
		return fmt.Errorf("failed to format report: %w", err)
	}
	if err := writeOutput(cmd, output, evalOutputFile); err != nil {
		return err
	}

	if report.HasErrors() && !evalKeepGoing {
		return fmt.Errorf("%d of %d expressions failed", report.Failed, report.Total)
	}
	return nil
}

// recordReport appends the successful lines to the history tape
func recordReport(cfg *config.Config, report *batch.Report, log *logger.Logger) error {
	j, err := openJournal(cfg)
	if err != nil || j == nil {
		return err
	}
	recorded := 0
	for _, l := range report.Lines {
		if !l.OK() {
			continue
		}
		if err := j.Record(report.Mode, l.Input, l.Exact); err != nil {
			return err
		}
		recorded++
	}
	log.DebugWithFields("history updated", []logger.Field{
		logger.Count(recorded),
		logger.F("session", j.Session()),
	})
	return nil
}
