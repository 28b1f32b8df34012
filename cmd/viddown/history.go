package main

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/vmunix/viddown/internal/events"
	"github.com/vmunix/viddown/internal/migrations"
	"github.com/vmunix/viddown/pkg/clean"
	_ "modernc.org/sqlite"
)

// matchThreshold is the title similarity accepted by --match.
const matchThreshold = 0.85

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent downloads and runs",
	Long: `Show what previous sessions queued and downloaded, newest first.

Examples:
  viddown history                  # Last 20 entries
  viddown history --runs           # Run summaries only
  viddown history --match "rick"   # Entries whose title resembles "rick"
  viddown history --since 24h      # Entries from the last day
  viddown history --item 3         # Everything recorded for queue item 3

Item ids restart every session; combine --item with --since to narrow.`,
	Args: cobra.NoArgs,
	RunE: runHistory,
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().IntP("limit", "n", 20, "Maximum number of entries")
	historyCmd.Flags().StringP("match", "m", "", "Only entries whose title matches")
	historyCmd.Flags().Bool("runs", false, "Only run summaries")
	historyCmd.Flags().Bool("errors", false, "Only failures")
	historyCmd.Flags().Duration("since", 0, "Only entries newer than this (e.g. 2h, 168h)")
	historyCmd.Flags().Int64("item", 0, "Only entries for this queue item id")
}

// openHistory opens the history database at path. It returns nil when
// enabled is false.
func openHistory(path string, enabled bool) (*sql.DB, error) {
	if !enabled {
		return nil, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create history dir: %w", err)
	}
	db, err := sql.Open("sqlite", path+"?_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open history: %w", err)
	}
	db.SetMaxOpenConns(1)
	return db, nil
}

// historyEntry is one decoded event.
type historyEntry struct {
	Time    time.Time `json:"time"`
	Type    string    `json:"type"`
	Title   string    `json:"title,omitempty"`
	Summary string    `json:"summary"`
}

// historyQuery selects which entries loadHistory returns.
type historyQuery struct {
	Limit int
	Match string
	Types []string
	Since time.Time
	Item  int64
}

func runHistory(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	limit, _ := cmd.Flags().GetInt("limit")
	match, _ := cmd.Flags().GetString("match")
	runsOnly, _ := cmd.Flags().GetBool("runs")
	errorsOnly, _ := cmd.Flags().GetBool("errors")
	since, _ := cmd.Flags().GetDuration("since")
	item, _ := cmd.Flags().GetInt64("item")
	if limit <= 0 {
		return fmt.Errorf("invalid limit: %d", limit)
	}
	if since < 0 {
		return fmt.Errorf("invalid --since: %s", since)
	}
	if item < 0 {
		return fmt.Errorf("invalid --item: %d", item)
	}

	db, err := openHistory(cfg.History.Path, true)
	if err != nil {
		return err
	}
	defer db.Close()

	q := historyQuery{Limit: limit, Match: match, Item: item}
	switch {
	case runsOnly:
		q.Types = []string{events.EventRunStarted, events.EventRunFinished}
	case errorsOnly:
		q.Types = []string{events.EventFailed}
	}
	if since > 0 {
		q.Since = time.Now().Add(-since)
	}

	entries, err := loadHistory(cmd.Context(), db, q)
	if err != nil {
		return err
	}

	if jsonOutput {
		printJSON(entries)
		return nil
	}
	if len(entries) == 0 {
		fmt.Println("No history.")
		return nil
	}
	printHistory(os.Stdout, entries)
	return nil
}

// loadHistory returns up to q.Limit decoded entries, newest first. A non-empty
// q.Match keeps only entries with a title resembling it.
func loadHistory(ctx context.Context, db *sql.DB, q historyQuery) ([]historyEntry, error) {
	if err := migrations.Apply(ctx, db); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log := events.NewEventLog(db)
	var (
		raws []events.RawEvent
		err  error
	)
	switch {
	case q.Item > 0:
		raws, err = log.ForEntity(events.EntityItem, q.Item, q.Types...)
	case !q.Since.IsZero():
		raws, err = log.Since(q.Since, q.Types...)
	default:
		// Matching filters after the query, so read more than needed.
		fetch := q.Limit
		if q.Match != "" {
			fetch = q.Limit * 10
		}
		raws, err = log.Recent(fetch, q.Types...)
	}
	if err != nil {
		return nil, fmt.Errorf("read history: %w", err)
	}

	registry := events.DefaultRegistry()
	entries := make([]historyEntry, 0, len(raws))
	for _, raw := range raws {
		if !q.Since.IsZero() && raw.OccurredAt.Before(q.Since) {
			continue
		}
		e, err := registry.Unmarshal(raw)
		if err != nil {
			continue
		}
		entry := describe(e)
		if q.Match != "" && (entry.Title == "" || !clean.Matches(entry.Title, q.Match, matchThreshold)) {
			continue
		}
		entries = append(entries, entry)
		if len(entries) == q.Limit {
			break
		}
	}
	return entries, nil
}

// describe turns an event into a history line.
func describe(e events.Event) historyEntry {
	entry := historyEntry{Time: e.OccurredAt(), Type: e.EventType()}
	switch ev := e.(type) {
	case *events.ItemAdded:
		entry.Title = ev.Title
		entry.Summary = "queued " + ev.Source.Target()
	case *events.InfoFetchSucceeded:
		entry.Summary = fmt.Sprintf("resolved %s (%d item(s))", ev.URL, ev.Count)
	case *events.ItemStatusChanged:
		entry.Title = ev.Title
		entry.Summary = strings.ToLower(ev.Status.Label())
	case *events.RunStarted:
		entry.Summary = fmt.Sprintf("run %s started with %d item(s)", shortID(ev.RunID), ev.Items)
	case *events.RunFinished:
		entry.Summary = fmt.Sprintf("run %s finished: %d done, %d incomplete, %d failed, %d skipped",
			shortID(ev.RunID), ev.Done, ev.Incomplete, ev.Failed, ev.Skipped)
	case *events.Failed:
		entry.Title = ev.Title
		entry.Summary = clean.Message(strings.ReplaceAll(ev.Message, "\n\n", " "))
	case *events.UpdateAvailable:
		entry.Summary = fmt.Sprintf("version %s available (%s)", ev.Latest, ev.URL)
	default:
		entry.Summary = e.EventType()
	}
	return entry
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func printHistory(w io.Writer, entries []historyEntry) {
	for _, e := range entries {
		ts := e.Time.Local().Format("2006-01-02 15:04")
		if e.Title != "" {
			fmt.Fprintf(w, "%s  %-20s  %s: %s\n", ts, e.Type, e.Title, e.Summary)
		} else {
			fmt.Fprintf(w, "%s  %-20s  %s\n", ts, e.Type, e.Summary)
		}
	}
}
