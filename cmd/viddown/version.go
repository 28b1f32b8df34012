package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/vmunix/viddown/internal/engine"
	"github.com/vmunix/viddown/internal/update"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Args:  cobra.NoArgs,
	RunE:  runVersion,
}

func init() {
	rootCmd.AddCommand(versionCmd)
	versionCmd.Flags().Bool("check", false, "Check for a newer release")
}

func runVersion(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := newLogger(cfg)

	ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
	defer cancel()

	eng := engine.NewYTDLP(cfg.Engine.Path, logger.With("component", "engine"))
	engineVersion, err := eng.Version(ctx)
	if err != nil {
		engineVersion = "not found"
		logger.Debug("yt-dlp version", "error", err)
	}

	info := map[string]string{"viddown": version, "yt-dlp": engineVersion}

	if check, _ := cmd.Flags().GetBool("check"); check {
		checker := update.NewChecker(cfg.Updates.URL, version, nil, logger.With("component", "update"))
		rel, newer, err := checker.Check(ctx)
		switch {
		case err != nil:
			info["latest"] = "unknown"
			logger.Warn("update check failed", "error", err)
		case newer:
			info["latest"] = rel.Version.String()
			info["download"] = rel.URL
		default:
			info["latest"] = rel.Version.String()
		}
	}

	if jsonOutput {
		printJSON(info)
		return nil
	}
	fmt.Printf("viddown %s\n", version)
	fmt.Printf("yt-dlp  %s (%s)\n", engineVersion, eng.Binary())
	if latest, ok := info["latest"]; ok {
		fmt.Printf("latest  %s\n", latest)
		if url, ok := info["download"]; ok {
			fmt.Printf("        %s\n", url)
		}
	}
	return nil
}
