package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yildizm/kcalc/internal/config"
	"github.com/yildizm/kcalc/internal/glyph"
	"github.com/yildizm/kcalc/internal/history"
)

var (
	historySession  string
	historyLimit    int
	historySessions bool
)

func newHistoryCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show the tape of finalized calculations",
		Long: `Print calculations recorded on the history tape by the interactive
calculator and by eval. Enable recording with history.enabled in the config
file or KCALC_HISTORY_ENABLED=true.`,
		Example: `  kcalc history
  kcalc history --limit 5
  kcalc history --sessions
  kcalc history --session 3f2c -o json`,
		Args: cobra.NoArgs,
		RunE: runHistory,
	}

	cmd.Flags().StringVar(&historySession, "session", "", "only show one session (a unique id prefix is enough)")
	cmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "show at most this many of the newest entries (0 for all)")
	cmd.Flags().BoolVar(&historySessions, "sessions", false, "list the sessions on the tape instead of entries")

	return cmd
}

func runHistory(cmd *cobra.Command, args []string) error {
	cfg := GetGlobalConfig()
	out := cmd.OutOrStdout()
	path := config.ExpandPath(cfg.History.Path)

	entries, err := history.ReadTape(path, history.Query{})
	if err != nil {
		return err
	}

	if historySessions {
		return printSessions(out, entries)
	}

	if historySession != "" {
		id, err := resolveSession(entries, historySession)
		if err != nil {
			return err
		}
		entries, err = history.ReadTape(path, history.Query{Session: id, Limit: historyLimit})
		if err != nil {
			return err
		}
	} else if historyLimit > 0 && len(entries) > historyLimit {
		entries = entries[len(entries)-historyLimit:]
	}

	if cfg.Output.DefaultFormat == "json" {
		if entries == nil {
			entries = []history.Entry{}
		}
		data, err := json.MarshalIndent(entries, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal history: %w", err)
		}
		fmt.Fprintln(out, string(data))
		return nil
	}

	if len(entries) == 0 {
		fmt.Fprintf(out, "No calculations recorded at %s\n", path)
		if !cfg.History.Enabled {
			fmt.Fprintf(out, "%s Enable the tape with history.enabled: true or %sHISTORY_ENABLED=true\n", glyph.Get("hint"), config.EnvPrefix)
		}
		return nil
	}

	fmt.Fprintf(out, "%s History (%d entries)\n\n", glyph.Get("history"), len(entries))
	for _, e := range entries {
		fmt.Fprintf(out, "  %s  %s  %-10s  %s\n",
			e.Time.Local().Format("2006-01-02 15:04:05"),
			shortID(e.Session),
			e.Mode,
			e.Message())
	}
	return nil
}

// resolveSession expands a session id prefix to the full id on the tape
func resolveSession(entries []history.Entry, prefix string) (string, error) {
	var matches []string
	for _, id := range history.Sessions(entries) {
		if strings.HasPrefix(id, prefix) {
			matches = append(matches, id)
		}
	}
	switch len(matches) {
	case 0:
		return "", fmt.Errorf("no session matching %q", prefix)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("session prefix %q is ambiguous (%d matches)", prefix, len(matches))
	}
}

func printSessions(out io.Writer, entries []history.Entry) error {
	counts := make(map[string]int)
	for _, e := range entries {
		counts[e.Session]++
	}
	ids := history.Sessions(entries)
	if len(ids) == 0 {
		fmt.Fprintln(out, "No sessions recorded")
		return nil
	}
	for _, id := range ids {
		fmt.Fprintf(out, "%s  %d entries\n", id, counts[id])
	}
	return nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
