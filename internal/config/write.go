package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

//go:embed default_config.toml
var defaultConfig string

// generatedHeader starts files written by Write.
const generatedHeader = "# viddown configuration, generated by \"viddown config init --from-flags\".\n\n"

// WriteDefault writes the commented example config to path, creating parent
// directories.
func WriteDefault(path string) error {
	return writeFile(path, []byte(defaultConfig))
}

// Write stores c as TOML at path. Nothing is written if encoding fails.
func (c *Config) Write(path string) error {
	var buf bytes.Buffer
	buf.WriteString(generatedHeader)
	if err := toml.NewEncoder(&buf).Encode(c); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	return writeFile(path, buf.Bytes())
}

func writeFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
