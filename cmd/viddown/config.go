package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"
	"github.com/vmunix/viddown/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Configuration management",
}

var configInitCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Write an example configuration file",
	Long: `Write an example configuration file.

With --from-flags the file is generated from the built-in defaults with the
download flags applied, instead of the commented example.

Examples:
  viddown config init
  viddown config init --from-flags -f mp3 -o ~/Music`,
	Args: cobra.MaximumNArgs(1),
	RunE:  runConfigInit,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	Args:  cobra.NoArgs,
	RunE:  runConfigShow,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the configuration file in use",
	Args:  cobra.NoArgs,
	RunE:  runConfigPath,
}

var configTestCmd = &cobra.Command{
	Use:   "test [path]",
	Short: "Validate configuration file",
	Long:  "Validates config.toml syntax, field values, and environment variable substitution without downloading anything.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runConfigTest,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd, configShowCmd, configPathCmd, configTestCmd)
	configInitCmd.Flags().Bool("force", false, "Overwrite an existing file")
	configInitCmd.Flags().Bool("from-flags", false, "Generate the file from defaults and the download flags")
	addDownloadFlags(configInitCmd)
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	path := config.DefaultPath()
	if len(args) > 0 {
		path = args[0]
	}
	force, _ := cmd.Flags().GetBool("force")
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	}
	fromFlags, _ := cmd.Flags().GetBool("from-flags")
	if !fromFlags {
		if err := config.WriteDefault(path); err != nil {
			return fmt.Errorf("write config: %w", err)
		}
		fmt.Printf("Wrote %s\n", path)
		return nil
	}

	cfg, err := configFromFlags(cmd)
	if err != nil {
		return err
	}
	if err := cfg.Write(path); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	fmt.Printf("Wrote %s\n", path)
	return nil
}

// configFromFlags returns the default configuration with the download flags
// of cmd applied.
func configFromFlags(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.Default()
	if s, _ := cmd.Flags().GetString("format"); s != "" {
		cfg.Download.Format = s
	}
	if s, _ := cmd.Flags().GetString("quality"); s != "" {
		cfg.Download.Quality = s
	}
	if s, _ := cmd.Flags().GetString("output"); s != "" {
		cfg.Download.Destination = s
	}
	if s, _ := cmd.Flags().GetString("template"); s != "" {
		cfg.Download.FilenameTemplate = s
	}
	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, &config.ConfigError{Errors: errs}
	}
	return cfg, nil
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if jsonOutput {
		printJSON(cfg)
		return nil
	}
	return toml.NewEncoder(os.Stdout).Encode(cfg)
}

func runConfigPath(cmd *cobra.Command, args []string) error {
	if configPath != "" {
		fmt.Println(configPath)
		return nil
	}
	path, err := config.Discover()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\nusing built-in defaults\n", err)
		return nil
	}
	fmt.Println(path)
	return nil
}

func runConfigTest(cmd *cobra.Command, args []string) error {
	path := configPath
	if len(args) > 0 {
		path = args[0]
	}
	if path == "" {
		found, err := config.Discover()
		if err != nil {
			return err
		}
		path = found
	}

	fmt.Printf("Validating %s...\n\n", path)

	cfg, err := config.Load(path)
	if err != nil {
		var configErr *config.ConfigError
		if errors.As(err, &configErr) {
			printConfigErrors(os.Stdout, configErr)
			return fmt.Errorf("configuration invalid")
		}
		return fmt.Errorf("failed to load config: %w", err)
	}

	printConfigSummary(os.Stdout, cfg)
	fmt.Println("\nConfiguration valid!")
	return nil
}

func printConfigErrors(w io.Writer, e *config.ConfigError) {
	if len(e.Missing) > 0 {
		fmt.Fprintln(w, "Missing environment variables:")
		for _, m := range e.Missing {
			fmt.Fprintf(w, "  - %s\n", m)
		}
		fmt.Fprintln(w)
	}

	if len(e.Errors) > 0 {
		fmt.Fprintln(w, "Validation errors:")
		for _, s := range e.Sections() {
			fmt.Fprintf(w, "  [%s]\n", s.Name)
			for _, err := range s.Errors {
				fmt.Fprintf(w, "    - %s\n", err)
			}
		}
		fmt.Fprintln(w)
	}
}

func printConfigSummary(w io.Writer, cfg *config.Config) {
	dl := cfg.Configuration()
	fmt.Fprintln(w, "Configuration Summary:")
	fmt.Fprintf(w, "  Destination: %s\n", dl.Destination)
	fmt.Fprintf(w, "  Template:    %s\n", dl.Template())
	fmt.Fprintf(w, "  Format:      %s (%s)\n", dl.Format, dl.Quality)

	engine := cfg.Engine.Path
	if engine == "" {
		engine = "yt-dlp (PATH)"
	}
	fmt.Fprintf(w, "  Engine:      %s\n", engine)
	if cfg.Engine.FFmpegPath != "" {
		fmt.Fprintf(w, "  FFmpeg:      %s\n", cfg.Engine.FFmpegPath)
	}
	fmt.Fprintf(w, "  History:     %s (keep %s)\n", cfg.History.Path, cfg.History.Retention)
	fmt.Fprintf(w, "  Settings:    %s\n", cfg.App.SettingsPath)
	if cfg.Updates.Check {
		fmt.Fprintf(w, "  Updates:     %s\n", cfg.Updates.URL)
	} else {
		fmt.Fprintln(w, "  Updates:     disabled")
	}
}
