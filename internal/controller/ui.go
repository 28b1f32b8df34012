package controller

import (
	"github.com/vmunix/viddown/internal/queue"
	"github.com/vmunix/viddown/internal/settings"
)

// UI is the presentation layer. All methods are called from the goroutine
// that drives the controller.
type UI interface {
	QueueChanged(items []queue.Item)
	StatusChanged(text string)
	ProgressChanged(percent float64)
	AddEnabled(enabled bool)
	StartEnabled(enabled bool)
	ShowError(title, message string)
	PromptUpdate(current, latest, url string)
	ThemeChanged(theme settings.Theme)
}

// NopUI ignores everything. Embed it to implement part of UI.
type NopUI struct{}

func (NopUI) QueueChanged([]queue.Item)           {}
func (NopUI) StatusChanged(string)                {}
func (NopUI) ProgressChanged(float64)             {}
func (NopUI) AddEnabled(bool)                     {}
func (NopUI) StartEnabled(bool)                   {}
func (NopUI) ShowError(string, string)            {}
func (NopUI) PromptUpdate(string, string, string) {}
func (NopUI) ThemeChanged(settings.Theme)         {}
