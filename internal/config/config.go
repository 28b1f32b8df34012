// Package config handles TOML configuration loading with environment variable substitution.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/vmunix/viddown/internal/plan"
	"github.com/vmunix/viddown/internal/update"
)

// Config is the root configuration structure.
type Config struct {
	Download DownloadConfig `toml:"download"`
	Engine   EngineConfig   `toml:"engine"`
	App      AppConfig      `toml:"app"`
	History  HistoryConfig  `toml:"history"`
	Updates  UpdatesConfig  `toml:"updates"`
}

type DownloadConfig struct {
	Destination      string `toml:"destination"`
	FilenameTemplate string `toml:"filename_template"`
	Format           string `toml:"format"`
	Quality          string `toml:"quality"`
}

type EngineConfig struct {
	Path                string `toml:"path"`
	FFmpegPath          string `toml:"ffmpeg_path"`
	ConcurrentFragments int    `toml:"concurrent_fragments"`
}

type AppConfig struct {
	LogLevel     string        `toml:"log_level"`
	PollInterval time.Duration `toml:"poll_interval"`
	SettingsPath string        `toml:"settings_path"`
}

type HistoryConfig struct {
	Path      string        `toml:"path"`
	Retention time.Duration `toml:"retention"`
}

type UpdatesConfig struct {
	Check bool   `toml:"check"`
	URL   string `toml:"url"`
}

// Default returns a configuration with every default applied.
func Default() *Config {
	cfg := &Config{Updates: UpdatesConfig{Check: true}}
	cfg.applyDefaults()
	return cfg
}

// Load reads and parses the configuration file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	// Substitute environment variables
	content, missing := substituteEnvVars(string(data))
	if len(missing) > 0 {
		return nil, &ConfigError{Path: path, Missing: missing}
	}

	cfg := Config{Updates: UpdatesConfig{Check: true}}
	if _, err := toml.Decode(content, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	cfg.applyDefaults()

	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, &ConfigError{Path: path, Errors: errs}
	}

	return &cfg, nil
}

func (c *Config) applyDefaults() {
	def := plan.DefaultConfiguration()
	if c.Download.Destination == "" {
		c.Download.Destination = def.Destination
	}
	c.Download.Destination = expandHome(c.Download.Destination)
	if c.Download.FilenameTemplate == "" {
		c.Download.FilenameTemplate = def.FilenameTemplate
	}
	if c.Download.Format == "" {
		c.Download.Format = string(def.Format)
	}
	if c.Download.Quality == "" {
		c.Download.Quality = string(def.Quality)
	}
	if c.App.LogLevel == "" {
		c.App.LogLevel = "info"
	}
	if c.App.PollInterval == 0 {
		c.App.PollInterval = 100 * time.Millisecond
	}
	if c.App.SettingsPath == "" {
		c.App.SettingsPath = filepath.Join(filepath.Dir(DefaultPath()), "settings.json")
	}
	c.App.SettingsPath = expandHome(c.App.SettingsPath)
	if c.History.Path == "" {
		c.History.Path = filepath.Join(filepath.Dir(DefaultPath()), "history.db")
	}
	c.History.Path = expandHome(c.History.Path)
	if c.History.Retention == 0 {
		c.History.Retention = 90 * 24 * time.Hour
	}
	if c.Updates.URL == "" {
		c.Updates.URL = update.DefaultURL
	}
}

// Configuration returns the download settings as used by the planner.
func (c *Config) Configuration() plan.Configuration {
	def := plan.DefaultConfiguration()
	cfg := plan.Configuration{
		Destination:      c.Download.Destination,
		FilenameTemplate: c.Download.FilenameTemplate,
		Format:           def.Format,
		Quality:          def.Quality,
	}
	if f, err := plan.ParseFormat(c.Download.Format); err == nil {
		cfg.Format = f
	}
	if q, err := plan.ParseQuality(c.Download.Quality); err == nil {
		cfg.Quality = q
	}
	return cfg
}

// Planner returns the planner configured by the engine section.
func (c *Config) Planner() plan.Planner {
	return plan.Planner{
		Fragments:      c.Engine.ConcurrentFragments,
		FFmpegLocation: c.Engine.FFmpegPath,
	}
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}

// envVarPattern matches ${VAR}, ${VAR:-default} and ${VAR:?message}.
var envVarPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)(?::([-?])([^}]*))?\}`)

// substituteEnvVars replaces variable references with environment values.
// Unresolved references are left in place and reported in missing.
func substituteEnvVars(content string) (string, []string) {
	var missing []string
	result := envVarPattern.ReplaceAllStringFunc(content, func(match string) string {
		m := envVarPattern.FindStringSubmatch(match)
		name, op, arg := m[1], m[2], m[3]
		value, ok := os.LookupEnv(name)

		switch op {
		case "-":
			if !ok || value == "" {
				return arg
			}
			return value
		case "?":
			if !ok || value == "" {
				missing = append(missing, name+": "+arg)
				return match
			}
			return value
		default:
			if !ok {
				missing = append(missing, name)
				return match
			}
			return value
		}
	})
	return result, missing
}
