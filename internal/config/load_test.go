package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoad_Valid(t *testing.T) {
	tmp := t.TempDir()
	cfgPath := filepath.Join(tmp, "config.toml")
	content := `
[download]
destination = "` + tmp + `"
format = "mp3"
quality = "720p"

[app]
poll_interval = "250ms"
`
	os.WriteFile(cfgPath, []byte(content), 0644)

	cfg, err := Load(cfgPath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Download.Format != "mp3" {
		t.Errorf("expected format mp3, got %s", cfg.Download.Format)
	}
	if cfg.App.PollInterval != 250*time.Millisecond {
		t.Errorf("expected poll interval 250ms, got %s", cfg.App.PollInterval)
	}
	if cfg.App.LogLevel != "info" {
		t.Errorf("expected default log level info, got %q", cfg.App.LogLevel)
	}
	if cfg.Download.FilenameTemplate != "%(title)s [%(id)s]" {
		t.Errorf("expected default template, got %q", cfg.Download.FilenameTemplate)
	}
}

func TestLoad_MissingEnvVar(t *testing.T) {
	os.Unsetenv("VIDDOWN_MISSING_DEST")
	tmp := t.TempDir()
	cfgPath := filepath.Join(tmp, "config.toml")
	content := `
[download]
destination = "${VIDDOWN_MISSING_DEST}"
`
	os.WriteFile(cfgPath, []byte(content), 0644)

	_, err := Load(cfgPath)
	if err == nil {
		t.Fatal("expected error for missing env var")
	}
	if !strings.Contains(err.Error(), "VIDDOWN_MISSING_DEST") {
		t.Errorf("expected VIDDOWN_MISSING_DEST in error, got %v", err)
	}
}

func TestLoad_EnvVarSubstituted(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv("VIDDOWN_TEST_DEST", tmp)
	cfgPath := filepath.Join(tmp, "config.toml")
	os.WriteFile(cfgPath, []byte("[download]\ndestination = \"${VIDDOWN_TEST_DEST}\"\n"), 0644)

	cfg, err := Load(cfgPath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Download.Destination != tmp {
		t.Errorf("expected destination %s, got %s", tmp, cfg.Download.Destination)
	}
}

func TestLoad_ValidationError(t *testing.T) {
	tmp := t.TempDir()
	cfgPath := filepath.Join(tmp, "config.toml")
	content := `
[download]
format = "avi"
quality = "8k"

[app]
log_level = "loud"
`
	os.WriteFile(cfgPath, []byte(content), 0644)

	_, err := Load(cfgPath)
	var cfgErr *ConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected *ConfigError, got %v", err)
	}
	if len(cfgErr.Errors) != 3 {
		t.Errorf("expected 3 validation errors, got %v", cfgErr.Errors)
	}
}

func TestLoad_FileNotFound(t *testing.T) {
	_, err := Load("/nonexistent/config.toml")
	if err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestLoad_InvalidTOML(t *testing.T) {
	tmp := t.TempDir()
	cfgPath := filepath.Join(tmp, "config.toml")
	os.WriteFile(cfgPath, []byte("[download\nformat ="), 0644)

	_, err := Load(cfgPath)
	if err == nil || !strings.Contains(err.Error(), "parsing config") {
		t.Fatalf("expected parse error, got %v", err)
	}
}

func TestLoad_UpdatesDefaultOn(t *testing.T) {
	tmp := t.TempDir()
	cfgPath := filepath.Join(tmp, "config.toml")
	os.WriteFile(cfgPath, []byte("[download]\ndestination = \""+tmp+"\"\n"), 0644)

	cfg, err := Load(cfgPath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !cfg.Updates.Check {
		t.Error("expected update checks enabled when [updates] is omitted")
	}
}
