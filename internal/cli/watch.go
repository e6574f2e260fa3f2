package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/yildizm/kcalc/internal/batch"
	"github.com/yildizm/kcalc/internal/calc"
	"github.com/yildizm/kcalc/internal/config"
	"github.com/yildizm/kcalc/internal/logger"
	"github.com/yildizm/kcalc/internal/stats"
)

var watchDebounce time.Duration

const (
	rewatchAttempts = 5
	rewatchDelay    = 20 * time.Millisecond
)

func newWatchCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch [file]",
		Short: "Re-evaluate an expression file whenever it changes",
		Long: `Evaluate every line of an expression file, then keep watching it and
print a fresh report each time the file is saved. Press Ctrl+C to stop.`,
		Example: `  kcalc watch budget.calc
  kcalc watch --mode operator keys.txt`,
		Args: cobra.ExactArgs(1),
		RunE: runWatch,
	}

	cmd.Flags().DurationVar(&watchDebounce, "debounce", 100*time.Millisecond, "wait this long for writes to settle before re-evaluating")

	return cmd
}

func runWatch(cmd *cobra.Command, args []string) error {
	filename := args[0]
	cfg := GetGlobalConfig()
	log := newLogger("watch")

	watcher, err := setupFileWatcher(filename, log)
	if err != nil {
		return err
	}
	defer cleanupWatcher(watcher, log)

	// One collector across runs so the timing summary covers the session
	collector := stats.New()
	evaluate := func() error {
		return evaluateWatchedFile(cmd.Context(), cmd.OutOrStdout(), cfg, filename, collector, log)
	}
	if err := evaluate(); err != nil {
		return err
	}

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(signals)

	log.Info("watching %s, press Ctrl+C to stop", filename)
	return runWatchLoop(cmd.Context(), watcher, signals, watchDebounce, evaluate, log)
}

// evaluateWatchedFile evaluates the whole file and prints one report
func evaluateWatchedFile(ctx context.Context, out io.Writer, cfg *config.Config, filename string, collector *stats.Collector, log *logger.Logger) error {
	// #nosec G304 - path is validated by setupFileWatcher
	file, err := os.Open(filepath.Clean(filename))
	if err != nil {
		return fmt.Errorf("failed to open file: %w", err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			log.Warn("failed to close file: %v", err)
		}
	}()

	engine := batch.NewEngine(
		batch.WithMode(calc.Mode(cfg.Calculator.Mode)),
		batch.WithDisplay(cfg.CalcDisplay()),
		batch.WithCollector(collector),
		batch.WithLogger(log),
	)
	report, err := engine.EvaluateReader(ctx, file)
	if err != nil {
		return err
	}
	report.Source = filename

	f, err := newFormatter(cfg, out)
	if err != nil {
		return err
	}
	output, err := f.Format(report)
	if err != nil {
		return fmt.Errorf("failed to format report: %w", err)
	}

	if _, err := out.Write(output); err != nil {
		return err
	}
	log.DebugWithFields("re-evaluated", []logger.Field{
		logger.Count(report.Total),
		logger.F("failed", report.Failed),
	})
	return nil
}

// cleanupWatcher safely closes watcher with error logging
func cleanupWatcher(watcher *fsnotify.Watcher, log *logger.Logger) {
	if err := watcher.Close(); err != nil {
		log.Warn("failed to close watcher: %v", err)
	}
}

// setupFileWatcher validates filename and starts watching it
func setupFileWatcher(filename string, log *logger.Logger) (*fsnotify.Watcher, error) {
	if err := validateWatchFilePath(filename); err != nil {
		return nil, fmt.Errorf("invalid file path: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}

	if err := watcher.Add(filepath.Clean(filename)); err != nil {
		cleanupWatcher(watcher, log)
		return nil, fmt.Errorf("failed to watch file: %w", err)
	}

	return watcher, nil
}

// runWatchLoop calls evaluate once the file has been quiet for debounce
// after a write. It returns on a signal or when ctx ends.
func runWatchLoop(ctx context.Context, watcher *fsnotify.Watcher, signals <-chan os.Signal, debounce time.Duration, evaluate func() error, log *logger.Logger) error {
	// nil until a write arrives, so the select case stays idle
	var settle <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return nil

		case <-signals:
			log.Info("received interrupt signal, stopping")
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return fmt.Errorf("watcher events channel closed")
			}
			if event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
				// editors save by renaming a fresh file over the old one
				if !rewatchFile(watcher, event.Name) {
					return fmt.Errorf("watched file %s was removed", event.Name)
				}
				log.Debug("file %s replaced, watching the new copy", event.Name)
				settle = time.After(debounce)
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
				settle = time.After(debounce)
			}

		case <-settle:
			settle = nil
			if err := evaluate(); err != nil {
				log.Warn("evaluation failed: %v", err)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return fmt.Errorf("watcher errors channel closed")
			}
			log.Warn("watcher error: %v", err)
		}
	}
}

// rewatchFile waits briefly for path to reappear and watches it again.
// It reports false when the file stays gone.
func rewatchFile(watcher *fsnotify.Watcher, path string) bool {
	for attempt := 0; attempt < rewatchAttempts; attempt++ {
		if attempt > 0 {
			time.Sleep(rewatchDelay)
		}
		if info, err := os.Stat(path); err != nil || info.IsDir() {
			continue
		}
		// a stale entry for the replaced inode may still be registered
		_ = watcher.Remove(path)
		if err := watcher.Add(path); err == nil {
			return true
		}
	}
	return false
}

// validateWatchFilePath validates that a file path is safe to watch
func validateWatchFilePath(path string) error {
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("empty file path")
	}

	cleanPath := filepath.Clean(path)

	// Check for path traversal attempts
	if strings.Contains(cleanPath, "..") {
		return fmt.Errorf("path traversal not allowed")
	}

	info, err := os.Stat(cleanPath)
	if err != nil {
		return fmt.Errorf("cannot access file: %w", err)
	}
	if info.IsDir() {
		return fmt.Errorf("cannot watch directory, must be a file")
	}

	return nil
}
