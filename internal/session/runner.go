// Package session runs a headless download session: it resolves URLs into
// the queue, downloads the queue once and records the history.
package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/vmunix/viddown/internal/controller"
	"github.com/vmunix/viddown/internal/engine"
	"github.com/vmunix/viddown/internal/events"
	"github.com/vmunix/viddown/internal/migrations"
	"github.com/vmunix/viddown/internal/plan"
	"github.com/vmunix/viddown/internal/queue"
)

// ErrNothingQueued is returned when no URL resolved to any item.
var ErrNothingQueued = errors.New("nothing queued")

// Config for a session.
type Config struct {
	Download     plan.Configuration
	Planner      plan.Planner
	PollInterval time.Duration
	Retention    time.Duration
}

// Summary describes a finished session.
type Summary struct {
	RunID    string
	Items    []queue.Item
	Finished *events.RunFinished
}

// Runner wires the controller to its collaborators for one session.
type Runner struct {
	db       *sql.DB
	engine   engine.Engine
	config   Config
	ui       controller.UI
	settings controller.ThemeStore
	updates  controller.UpdateChecker
	logger   *slog.Logger
}

// NewRunner creates a new runner. db may be nil to disable history.
func NewRunner(db *sql.DB, eng engine.Engine, cfg Config, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{
		db:     db,
		engine: eng,
		config: cfg,
		logger: logger,
	}
}

// SetUI sets the presentation layer.
func (r *Runner) SetUI(ui controller.UI) { r.ui = ui }

// SetSettings sets the theme store.
func (r *Runner) SetSettings(s controller.ThemeStore) { r.settings = s }

// SetUpdates enables the update check.
func (r *Runner) SetUpdates(u controller.UpdateChecker) { r.updates = u }

// Run resolves urls one after another, downloads everything that was queued
// and returns once the run has finished. If ctx is cancelled the partial
// summary is returned together with ctx.Err().
func (r *Runner) Run(ctx context.Context, urls []string) (*Summary, error) {
	history, err := r.history(ctx)
	if err != nil {
		return nil, err
	}

	ctrl := controller.New(controller.Options{
		Engine:        r.engine,
		Planner:       r.config.Planner,
		Configuration: r.config.Download,
		UI:            r.ui,
		History:       history,
		Settings:      r.settings,
		Updates:       r.updates,
		PollInterval:  r.config.PollInterval,
		Logger:        r.logger,
	})
	defer ctrl.Close()

	ctrl.CheckForUpdates(ctx)

	for _, url := range urls {
		if err := ctrl.AddURL(ctx, url); err != nil {
			r.logger.Warn("skipping url", "url", url, "error", err)
			continue
		}
		if err := stepUntil(ctx, ctrl, func() bool { return ctrl.Resolving() == 0 }); err != nil {
			return summarize(ctrl), err
		}
	}

	if len(ctrl.Items()) == 0 {
		ctrl.Wait()
		ctrl.Drain()
		return summarize(ctrl), ErrNothingQueued
	}

	if err := ctrl.StartRun(ctx); err != nil {
		return summarize(ctrl), fmt.Errorf("start run: %w", err)
	}
	if err := stepUntil(ctx, ctrl, func() bool { return !ctrl.Running() }); err != nil {
		return summarize(ctrl), err
	}
	if err := ctx.Err(); err != nil {
		return summarize(ctrl), err
	}

	// Late events such as an update prompt.
	ctrl.Wait()
	ctrl.Drain()

	return summarize(ctrl), nil
}

func (r *Runner) history(ctx context.Context) (controller.Recorder, error) {
	if r.db == nil {
		return nil, nil
	}
	if err := migrations.Apply(ctx, r.db); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	log := events.NewEventLog(r.db)
	if r.config.Retention > 0 {
		n, err := log.Prune(r.config.Retention)
		if err != nil {
			r.logger.Warn("pruning history failed", "error", err)
		} else if n > 0 {
			r.logger.Debug("pruned history", "events", n)
		}
	}
	return log, nil
}

// stepUntil steps the controller until done reports true. When ctx ends it
// waits for background work and applies what it reported before returning.
func stepUntil(ctx context.Context, ctrl *controller.Controller, done func() bool) error {
	for !done() {
		if err := ctrl.Step(ctx); err != nil {
			ctrl.Wait()
			ctrl.Drain()
			return err
		}
	}
	return nil
}

func summarize(ctrl *controller.Controller) *Summary {
	return &Summary{
		RunID:    ctrl.RunID(),
		Items:    ctrl.Items(),
		Finished: ctrl.LastRun(),
	}
}
