package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/vmunix/viddown/internal/controller"
	"github.com/vmunix/viddown/internal/queue"
	"github.com/vmunix/viddown/internal/settings"
)

// terminalUI prints controller updates as lines of text.
type terminalUI struct {
	controller.NopUI
	out      io.Writer
	quiet    bool
	seen     map[int64]queue.Status
	status   string
	progress int     // last printed tenth, -1 when idle
	percent  float64 // last reported percent
}

func newTerminalUI(out io.Writer, quiet bool) *terminalUI {
	return &terminalUI{out: out, quiet: quiet, seen: make(map[int64]queue.Status), progress: -1}
}

func (u *terminalUI) QueueChanged(items []queue.Item) {
	for _, it := range items {
		prev, ok := u.seen[it.ID]
		u.seen[it.ID] = it.Status
		switch {
		case !ok:
			u.printf("+ %s\n", it.Title)
		case prev == it.Status:
		case it.Status == queue.StatusDownloading:
			u.progress, u.percent = -1, 0
		case it.Status.IsTerminal():
			u.printf("  [%s] %s\n", it.Status.Label(), it.Title)
		}
	}
}

func (u *terminalUI) StatusChanged(text string) {
	if text == u.status {
		return
	}
	u.status = text
	u.printf("%s\n", text)
}

// ProgressChanged prints every ten percent so the output stays readable when
// it is not a terminal. A report lower than the previous one starts a new
// stream, as yt-dlp counts video and audio separately.
func (u *terminalUI) ProgressChanged(percent float64) {
	last := u.percent
	u.percent = percent
	if percent <= 0 || percent < last {
		u.progress = -1
	}
	if percent <= 0 {
		return
	}
	tenth := int(percent) / 10
	if tenth == 0 || tenth <= u.progress {
		return
	}
	u.progress = tenth
	u.printf("  %3d%%\n", tenth*10)
}

func (u *terminalUI) ShowError(title, message string) {
	fmt.Fprintf(u.out, "%s: %s\n", title, strings.ReplaceAll(message, "\n\n", "\n  "))
}

func (u *terminalUI) PromptUpdate(current, latest, url string) {
	fmt.Fprintf(u.out, "A new version of viddown is available (%s, you have %s): %s\n", latest, current, url)
}

func (u *terminalUI) ThemeChanged(theme settings.Theme) {
	u.printf("Theme: %s\n", theme)
}

func (u *terminalUI) printf(format string, args ...any) {
	if u.quiet {
		return
	}
	fmt.Fprintf(u.out, format, args...)
}
