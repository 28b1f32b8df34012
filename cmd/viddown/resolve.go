package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/vmunix/viddown/internal/config"
	"github.com/vmunix/viddown/internal/engine"
	"github.com/vmunix/viddown/internal/resolve"
)

var resolveCmd = &cobra.Command{
	Use:   "resolve [url...]",
	Short: "List the items URLs would queue, without downloading",
	RunE:  runResolve,
}

func init() {
	rootCmd.AddCommand(resolveCmd)
	resolveCmd.Flags().StringP("batch-file", "a", "", "File with one URL per line (\"-\" for stdin)")
	resolveCmd.Flags().IntP("jobs", "j", 4, "URLs resolved in parallel")
}

type resolvedItem struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

type resolvedURL struct {
	URL   string         `json:"url"`
	Items []resolvedItem `json:"items"`
	Error string         `json:"error,omitempty"`
}

// resolveURLs resolves urls with the configured engine. Per-URL failures are
// reported in the results.
func resolveURLs(ctx context.Context, cmd *cobra.Command, cfg *config.Config, urls []string) []resolve.Result {
	logger := newLogger(cfg)
	jobs, _ := cmd.Flags().GetInt("jobs")

	eng := engine.NewYTDLP(cfg.Engine.Path, logger.With("component", "engine"))
	r := resolve.New(eng, nil, logger.With("component", "resolver"))
	return r.ResolveAll(ctx, urls, jobs)
}

func runResolve(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	urls, err := collectURLs(cmd, args)
	if err != nil {
		return err
	}
	results := resolveURLs(cmd.Context(), cmd, cfg, urls)

	out := make([]resolvedURL, 0, len(results))
	failed := 0
	for _, res := range results {
		r := resolvedURL{URL: res.URL, Items: []resolvedItem{}}
		if res.Err != nil {
			failed++
			r.Error = res.Err.Error()
		}
		for _, it := range res.Items {
			r.Items = append(r.Items, resolvedItem{Title: it.Title, URL: it.Source.Target()})
		}
		out = append(out, r)
	}

	if jsonOutput {
		printJSON(out)
	} else {
		printResolved(os.Stdout, out)
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d URL(s) could not be resolved", failed, len(results))
	}
	return nil
}

func printResolved(w io.Writer, results []resolvedURL) {
	for _, r := range results {
		fmt.Fprintln(w, r.URL)
		if r.Error != "" {
			fmt.Fprintf(w, "  error: %s\n", r.Error)
			continue
		}
		for i, it := range r.Items {
			fmt.Fprintf(w, "  %3d. %s\n", i+1, it.Title)
			if it.URL != r.URL {
				fmt.Fprintf(w, "       %s\n", it.URL)
			}
		}
	}
}
