// Package settings persists per-user preferences such as the theme.
package settings

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Theme is the UI colour scheme.
type Theme string

const (
	ThemeDark  Theme = "dark"
	ThemeLight Theme = "light"
)

// DefaultTheme is used when no theme has been saved.
const DefaultTheme = ThemeDark

const themeKey = "theme"

// ParseTheme returns the Theme named by s.
func ParseTheme(s string) (Theme, error) {
	switch t := Theme(strings.ToLower(strings.TrimSpace(s))); t {
	case ThemeDark, ThemeLight:
		return t, nil
	}
	return "", fmt.Errorf("unknown theme %q (want dark or light)", s)
}

// DefaultPath returns the XDG-compliant default settings path.
func DefaultPath() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "./settings.json"
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "viddown", "settings.json")
}

// Store reads and writes a JSON settings document. Unknown keys written by
// other versions are preserved.
type Store struct {
	mu     sync.Mutex
	path   string
	logger *slog.Logger
}

// NewStore creates a store backed by path.
func NewStore(path string, logger *slog.Logger) *Store {
	if path == "" {
		path = DefaultPath()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{path: path, logger: logger}
}

// Path returns the settings file location.
func (s *Store) Path() string {
	return s.path
}

// Load returns the saved settings. A missing or malformed file yields an
// empty document.
func (s *Store) Load() map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

func (s *Store) load() map[string]any {
	values := make(map[string]any)
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			s.logger.Warn("reading settings", "path", s.path, "error", err)
		}
		return values
	}
	if err := json.Unmarshal(data, &values); err != nil {
		s.logger.Warn("ignoring malformed settings", "path", s.path, "error", err)
		return make(map[string]any)
	}
	return values
}

// Save merges values into the saved settings and writes them back.
func (s *Store) Save(values map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	merged := s.load()
	for k, v := range values {
		merged[k] = v
	}
	data, err := json.MarshalIndent(merged, "", "    ")
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create settings dir: %w", err)
	}
	if err := os.WriteFile(s.path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}
	return nil
}

// Theme returns the saved theme or DefaultTheme.
func (s *Store) Theme() Theme {
	raw, _ := s.Load()[themeKey].(string)
	t, err := ParseTheme(raw)
	if err != nil {
		return DefaultTheme
	}
	return t
}

// SetTheme saves the theme.
func (s *Store) SetTheme(t Theme) error {
	return s.Save(map[string]any{themeKey: string(t)})
}
