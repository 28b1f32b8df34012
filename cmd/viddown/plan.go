package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/vmunix/viddown/internal/plan"
)

var planCmd = &cobra.Command{
	Use:   "plan [url...]",
	Short: "Show what would be passed to yt-dlp for each item",
	Long: `Resolve the URLs and print the download plan of every item under the
current configuration and flags. Nothing is downloaded.`,
	RunE: runPlan,
}

func init() {
	rootCmd.AddCommand(planCmd)
	addDownloadFlags(planCmd)
	planCmd.Flags().StringP("batch-file", "a", "", "File with one URL per line (\"-\" for stdin)")
	planCmd.Flags().IntP("jobs", "j", 4, "URLs resolved in parallel")
}

type plannedItem struct {
	Title string    `json:"title"`
	Spec  plan.Spec `json:"spec"`
}

func runPlan(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	dl, err := downloadConfiguration(cmd, cfg)
	if err != nil {
		return err
	}
	urls, err := collectURLs(cmd, args)
	if err != nil {
		return err
	}
	results := resolveURLs(cmd.Context(), cmd, cfg, urls)

	planner := cfg.Planner()
	var planned []plannedItem
	for _, res := range results {
		if res.Err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", res.URL, res.Err)
			continue
		}
		for _, it := range res.Items {
			planned = append(planned, plannedItem{Title: it.Title, Spec: planner.Plan(dl, it)})
		}
	}

	if jsonOutput {
		printJSON(planned)
		return nil
	}
	for _, p := range planned {
		printPlan(os.Stdout, p)
	}
	return nil
}

func printPlan(w io.Writer, p plannedItem) {
	s := p.Spec
	fmt.Fprintln(w, p.Title)
	fmt.Fprintf(w, "  source:    %s\n", s.Source.Target())
	fmt.Fprintf(w, "  output:    %s\n", s.OutputTemplate)
	if s.Format != "" {
		fmt.Fprintf(w, "  format:    %s\n", s.Format)
	}
	if len(s.FormatSort) > 0 {
		fmt.Fprintf(w, "  sort:      %s\n", strings.Join(s.FormatSort, ","))
	}
	if s.MergeOutputFormat != "" {
		fmt.Fprintf(w, "  merge:     %s\n", s.MergeOutputFormat)
	}
	for _, pp := range s.PostProcessors {
		switch pp.Kind {
		case plan.ExtractAudio:
			fmt.Fprintf(w, "  postproc:  %s codec=%s quality=%s\n", pp.Kind, pp.Codec, pp.Quality)
		default:
			fmt.Fprintf(w, "  postproc:  %s container=%s\n", pp.Kind, pp.Container)
		}
	}
	fmt.Fprintf(w, "  fragments: %d\n", s.ConcurrentFragments)
}
