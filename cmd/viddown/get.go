package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/vmunix/viddown/internal/config"
	"github.com/vmunix/viddown/internal/engine"
	"github.com/vmunix/viddown/internal/plan"
	"github.com/vmunix/viddown/internal/session"
	"github.com/vmunix/viddown/internal/update"
)

var getCmd = &cobra.Command{
	Use:   "get [url...]",
	Short: "Queue URLs and download them",
	Long: `Resolve each URL into queue items, then download the whole queue.

Playlists expand into one item per video. Items are downloaded one at a
time; a failed item does not stop the rest of the queue.

Examples:
  viddown get https://youtu.be/dQw4w9WgXcQ
  viddown get --format mp3 https://www.youtube.com/playlist?list=...
  viddown get -a urls.txt -o ~/Videos --quality 720p`,
	RunE: runGet,
}

func init() {
	rootCmd.AddCommand(getCmd)
	addDownloadFlags(getCmd)
	getCmd.Flags().StringP("batch-file", "a", "", "File with one URL per line (\"-\" for stdin)")
	getCmd.Flags().BoolP("quiet", "q", false, "Only print errors")
	getCmd.Flags().Bool("no-history", false, "Do not record this session in the history")
	getCmd.Flags().Bool("no-update-check", false, "Skip the update check")
}

func addDownloadFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("format", "f", "", "Output format (mp4, mp4-h264+aac, webm, mkv, best-video, mp3, m4a, wav, flac, best-audio)")
	cmd.Flags().String("quality", "", "Video quality (best, 4320p ... 360p, smallest)")
	cmd.Flags().StringP("output", "o", "", "Destination directory")
	cmd.Flags().String("template", "", "Filename template without extension")
}

// downloadConfiguration applies the download flags of cmd on top of cfg.
func downloadConfiguration(cmd *cobra.Command, cfg *config.Config) (plan.Configuration, error) {
	dl := cfg.Configuration()

	if s, _ := cmd.Flags().GetString("format"); s != "" {
		f, err := plan.ParseFormat(s)
		if err != nil {
			return dl, err
		}
		dl.Format = f
	}
	if s, _ := cmd.Flags().GetString("quality"); s != "" {
		q, err := plan.ParseQuality(s)
		if err != nil {
			return dl, err
		}
		dl.Quality = q
	}
	if s, _ := cmd.Flags().GetString("output"); s != "" {
		dl.Destination = s
	}
	if s, _ := cmd.Flags().GetString("template"); s != "" {
		dl.FilenameTemplate = s
	}
	return dl, nil
}

// collectURLs returns args followed by the URLs of the batch file, if any.
func collectURLs(cmd *cobra.Command, args []string) ([]string, error) {
	urls := append([]string(nil), args...)
	batch, _ := cmd.Flags().GetString("batch-file")
	if batch != "" {
		more, err := readURLFile(batch)
		if err != nil {
			return nil, err
		}
		urls = append(urls, more...)
	}
	if len(urls) == 0 {
		return nil, errors.New("no URLs given")
	}
	return urls, nil
}

// readURLFile reads URLs one per line, skipping blank lines and # comments.
func readURLFile(path string) ([]string, error) {
	if path == "-" {
		return readURLs(os.Stdin)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return readURLs(f)
}

func readURLs(r io.Reader) ([]string, error) {
	var urls []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		urls = append(urls, line)
	}
	return urls, scanner.Err()
}

func runGet(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := newLogger(cfg)

	urls, err := collectURLs(cmd, args)
	if err != nil {
		return err
	}
	dl, err := downloadConfiguration(cmd, cfg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	noHistory, _ := cmd.Flags().GetBool("no-history")
	runner, closeDB, err := newSessionRunner(cfg, dl, !noHistory, logger)
	if err != nil {
		return err
	}
	defer closeDB()

	quiet, _ := cmd.Flags().GetBool("quiet")
	runner.SetUI(newTerminalUI(os.Stdout, quiet || jsonOutput))

	noUpdate, _ := cmd.Flags().GetBool("no-update-check")
	if cfg.Updates.Check && !noUpdate {
		runner.SetUpdates(update.NewChecker(cfg.Updates.URL, version, nil, logger.With("component", "update")))
	}

	summary, err := runner.Run(ctx, urls)
	if jsonOutput && summary != nil {
		printJSON(newGetResult(summary))
	}
	if err != nil {
		return err
	}
	if !jsonOutput && !quiet {
		printFinished(os.Stdout, summary)
	}
	if summary.Finished != nil && summary.Finished.Failed > 0 {
		return fmt.Errorf("%d download(s) failed", summary.Finished.Failed)
	}
	return nil
}

// newSessionRunner builds a runner from cfg. The returned func closes the
// history database, if one was opened.
func newSessionRunner(cfg *config.Config, dl plan.Configuration, history bool, logger *slog.Logger) (*session.Runner, func(), error) {
	closeDB := func() {}

	db, err := openHistory(cfg.History.Path, history)
	if err != nil {
		return nil, nil, err
	}
	if db != nil {
		closeDB = func() { _ = db.Close() }
	}

	eng := engine.NewYTDLP(cfg.Engine.Path, logger.With("component", "engine"))
	runner := session.NewRunner(db, eng, session.Config{
		Download:     dl,
		Planner:      cfg.Planner(),
		PollInterval: cfg.App.PollInterval,
		Retention:    cfg.History.Retention,
	}, logger)
	return runner, closeDB, nil
}

type getItem struct {
	ID     int64  `json:"id"`
	Title  string `json:"title"`
	Status string `json:"status"`
	URL    string `json:"url"`
}

type getResult struct {
	RunID      string    `json:"run_id,omitempty"`
	Items      []getItem `json:"items"`
	Done       int       `json:"done"`
	Incomplete int       `json:"incomplete"`
	Failed     int       `json:"failed"`
	Skipped    int       `json:"skipped"`
}

func newGetResult(s *session.Summary) getResult {
	r := getResult{RunID: s.RunID, Items: make([]getItem, 0, len(s.Items))}
	for _, it := range s.Items {
		r.Items = append(r.Items, getItem{
			ID:     it.ID,
			Title:  it.Title,
			Status: string(it.Status),
			URL:    it.Source.Target(),
		})
	}
	if f := s.Finished; f != nil {
		r.Done, r.Incomplete, r.Failed, r.Skipped = f.Done, f.Incomplete, f.Failed, f.Skipped
	}
	return r
}

func printFinished(w io.Writer, s *session.Summary) {
	f := s.Finished
	if f == nil {
		return
	}
	parts := []string{fmt.Sprintf("%d done", f.Done)}
	if f.Incomplete > 0 {
		parts = append(parts, fmt.Sprintf("%d incomplete", f.Incomplete))
	}
	if f.Failed > 0 {
		parts = append(parts, fmt.Sprintf("%d failed", f.Failed))
	}
	if f.Skipped > 0 {
		parts = append(parts, fmt.Sprintf("%d skipped", f.Skipped))
	}
	fmt.Fprintf(w, "\n%d item(s): %s\n", len(s.Items), strings.Join(parts, ", "))
}
