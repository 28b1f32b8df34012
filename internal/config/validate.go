package config

import (
	"fmt"

	"github.com/vmunix/viddown/internal/plan"
)

var validLogLevels = map[string]bool{
	"debug": true, "info": true, "warn": true, "error": true, "": true,
}

// Validate checks the configuration for errors.
// Returns a slice of error messages (empty if valid).
func (c *Config) Validate() []string {
	var errs []string

	if c.Download.Destination == "" {
		errs = append(errs, "download.destination: required")
	}
	if _, err := plan.ParseFormat(c.Download.Format); err != nil {
		errs = append(errs, fmt.Sprintf("download.format: %v", err))
	}
	if _, err := plan.ParseQuality(c.Download.Quality); err != nil {
		errs = append(errs, fmt.Sprintf("download.quality: %v", err))
	}

	if c.Engine.ConcurrentFragments < 0 {
		errs = append(errs, fmt.Sprintf("engine.concurrent_fragments: must not be negative, got %d", c.Engine.ConcurrentFragments))
	}

	if !validLogLevels[c.App.LogLevel] {
		errs = append(errs, fmt.Sprintf("app.log_level: must be one of debug, info, warn, error; got %q", c.App.LogLevel))
	}
	if c.App.PollInterval < 0 {
		errs = append(errs, fmt.Sprintf("app.poll_interval: must not be negative, got %s", c.App.PollInterval))
	}

	if c.History.Retention < 0 {
		errs = append(errs, fmt.Sprintf("history.retention: must not be negative, got %s", c.History.Retention))
	}

	return errs
}
