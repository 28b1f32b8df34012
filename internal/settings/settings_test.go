package settings

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_MissingFile(t *testing.T) {
	s := NewStore(filepath.Join(t.TempDir(), "nope", "settings.json"), nil)

	assert.Empty(t, s.Load())
	assert.Equal(t, ThemeDark, s.Theme())
}

func TestStore_MalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"theme": "light",`), 0o644))
	s := NewStore(path, nil)

	assert.Empty(t, s.Load())
	assert.Equal(t, DefaultTheme, s.Theme())

	// Saving over a malformed file starts from an empty document.
	require.NoError(t, s.SetTheme(ThemeLight))
	assert.Equal(t, ThemeLight, s.Theme())
}

func TestStore_SaveMergesKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg", "settings.json")
	s := NewStore(path, nil)

	require.NoError(t, s.Save(map[string]any{"window": "800x600", "theme": "dark"}))
	require.NoError(t, s.SetTheme(ThemeLight))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var got map[string]any
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, map[string]any{"window": "800x600", "theme": "light"}, got)
	assert.Contains(t, string(data), "\n    \"theme\"")
}

func TestStore_UnknownThemeFallsBack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"theme": 3}`), 0o644))

	assert.Equal(t, ThemeDark, NewStore(path, nil).Theme())
}

func TestParseTheme(t *testing.T) {
	th, err := ParseTheme(" Light ")
	require.NoError(t, err)
	assert.Equal(t, ThemeLight, th)

	_, err = ParseTheme("solarized")
	assert.Error(t, err)
}

func TestDefaultPath(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	assert.Equal(t, "/tmp/xdg/viddown/settings.json", DefaultPath())
}
