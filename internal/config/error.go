package config

import (
	"fmt"
	"strings"
)

// sectionOrder lists the config tables in the order they appear in the file.
var sectionOrder = []string{"download", "engine", "app", "history", "updates"}

// ConfigError reports why a config file cannot be used. Errors holds
// "section.key: message" entries as returned by Validate.
type ConfigError struct {
	Path    string   // Config file path
	Missing []string // Unset environment variables without a default
	Errors  []string // Validation errors
}

// SectionErrors are the validation errors of one config table, with the
// table prefix removed.
type SectionErrors struct {
	Name   string
	Errors []string
}

func (e *ConfigError) Error() string {
	if !e.HasErrors() {
		return ""
	}

	var b strings.Builder
	if len(e.Missing) > 0 {
		fmt.Fprintf(&b, "unset environment variables: %s", strings.Join(e.Missing, ", "))
	}
	for _, s := range e.Sections() {
		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "[%s]", s.Name)
		for _, msg := range s.Errors {
			fmt.Fprintf(&b, "\n  - %s", msg)
		}
	}
	return b.String()
}

// Sections groups Errors by config table. Known tables come first in file
// order; anything else follows in the order first seen.
func (e *ConfigError) Sections() []SectionErrors {
	bySection := make(map[string][]string)
	var extra []string
	for _, msg := range e.Errors {
		name, rest, ok := strings.Cut(msg, ".")
		if !ok || strings.Contains(name, ":") {
			name, rest = "config", msg
		}
		if _, seen := bySection[name]; !seen && !isKnownSection(name) {
			extra = append(extra, name)
		}
		bySection[name] = append(bySection[name], rest)
	}

	var out []SectionErrors
	for _, name := range append(append([]string(nil), sectionOrder...), extra...) {
		if errs := bySection[name]; len(errs) > 0 {
			out = append(out, SectionErrors{Name: name, Errors: errs})
		}
	}
	return out
}

func isKnownSection(name string) bool {
	for _, s := range sectionOrder {
		if s == name {
			return true
		}
	}
	return false
}

// HasErrors returns true if there are any errors.
func (e *ConfigError) HasErrors() bool {
	return len(e.Missing) > 0 || len(e.Errors) > 0
}
