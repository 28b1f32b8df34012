package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmunix/viddown/internal/plan"
)

func TestDefault(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/xdg")
	cfg := Default()

	assert.Equal(t, "mp4", cfg.Download.Format)
	assert.Equal(t, "1080p", cfg.Download.Quality)
	assert.Equal(t, 100*time.Millisecond, cfg.App.PollInterval)
	assert.Equal(t, "/xdg/viddown/settings.json", cfg.App.SettingsPath)
	assert.Equal(t, "/xdg/viddown/history.db", cfg.History.Path)
	assert.Equal(t, 90*24*time.Hour, cfg.History.Retention)
	assert.True(t, cfg.Updates.Check)
	assert.Empty(t, cfg.Validate())
}

func TestConfig_Configuration(t *testing.T) {
	cfg := Default()
	cfg.Download.Destination = "/dl"
	cfg.Download.Format = "MP4 (H.264 + AAC)"
	cfg.Download.Quality = "720"

	got := cfg.Configuration()
	assert.Equal(t, plan.Configuration{
		Destination:      "/dl",
		FilenameTemplate: plan.DefaultTemplate,
		Format:           plan.FormatMP4H264,
		Quality:          plan.Quality720,
	}, got)
}

func TestConfig_Planner(t *testing.T) {
	cfg := Default()
	cfg.Engine.ConcurrentFragments = 6
	cfg.Engine.FFmpegPath = "/opt/ffmpeg/bin"

	p := cfg.Planner()
	assert.Equal(t, 6, p.Fragments)
	assert.Equal(t, "/opt/ffmpeg/bin", p.FFmpegLocation)
}

func TestLoad_ExpandsHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	cfgPath := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("[download]\ndestination = \"~/Videos\"\n"), 0644))

	cfg, err := Load(cfgPath)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "Videos"), cfg.Download.Destination)
}

func TestLoad_DefaultConfigFile(t *testing.T) {
	t.Setenv("VIDDOWN_DESTINATION", t.TempDir())
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, WriteDefault(path))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 2160*time.Hour, cfg.History.Retention)
	assert.True(t, cfg.Updates.Check)
	assert.Equal(t, plan.FormatMP4, cfg.Configuration().Format)
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.Engine.ConcurrentFragments = -1
	cfg.App.PollInterval = -time.Second
	cfg.History.Retention = -time.Hour
	cfg.Download.Destination = ""

	errs := cfg.Validate()
	assert.Len(t, errs, 4)
}
