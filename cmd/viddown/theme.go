package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/vmunix/viddown/internal/controller"
	"github.com/vmunix/viddown/internal/settings"
)

var themeCmd = &cobra.Command{
	Use:       "theme [dark|light]",
	Short:     "Show or set the saved colour theme",
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: []string{string(settings.ThemeDark), string(settings.ThemeLight)},
	RunE:      runTheme,
}

func init() {
	rootCmd.AddCommand(themeCmd)
}

func runTheme(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := newLogger(cfg)

	ctrl := controller.New(controller.Options{
		UI:       newTerminalUI(os.Stdout, jsonOutput),
		Settings: settings.NewStore(cfg.App.SettingsPath, logger.With("component", "settings")),
		Logger:   logger,
	})
	defer ctrl.Close()

	if len(args) == 0 {
		if jsonOutput {
			printJSON(map[string]string{"theme": string(ctrl.Theme())})
		} else {
			fmt.Println(ctrl.Theme())
		}
		return nil
	}

	theme, err := settings.ParseTheme(args[0])
	if err != nil {
		return err
	}
	return ctrl.SetTheme(theme)
}
