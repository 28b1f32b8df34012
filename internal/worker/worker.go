// Package worker downloads a snapshot of the queue, one item at a time.
package worker

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/vmunix/viddown/internal/engine"
	"github.com/vmunix/viddown/internal/events"
	"github.com/vmunix/viddown/internal/plan"
	"github.com/vmunix/viddown/internal/queue"
	"github.com/vmunix/viddown/pkg/clean"
)

// FailureTitle is the title of the error shown for a failed download.
const FailureTitle = "Download error"

// FinishedText is the status line after a run.
const FinishedText = "All downloads finished"

// Worker executes runs. A Worker may run again after a run finished but does
// not support concurrent runs.
type Worker struct {
	engine    engine.Engine
	planner   plan.Planner
	publisher events.Publisher
	logger    *slog.Logger
}

// New creates a worker.
func New(eng engine.Engine, planner plan.Planner, publisher events.Publisher, logger *slog.Logger) *Worker {
	if logger == nil {
		logger = slog.Default()
	}
	return &Worker{engine: eng, planner: planner, publisher: publisher, logger: logger}
}

// Run downloads items in order under cfg. Every item gets a terminal status
// unless ctx is cancelled, in which case the remaining items are skipped.
// RunFinished is always the last event.
func (w *Worker) Run(ctx context.Context, runID string, cfg plan.Configuration, items []queue.Item) {
	finished := events.NewRunFinished(runID)
	defer func() {
		w.publisher.Push(finished)
		w.logger.Info("run finished", "run_id", runID,
			"done", finished.Done, "incomplete", finished.Incomplete,
			"failed", finished.Failed, "skipped", finished.Skipped)
	}()

	w.publisher.Push(events.NewRunStarted(runID, len(items)))
	if cfg.Template() != cfg.FilenameTemplate {
		w.logger.Debug("blank filename template, using default", "template", plan.DefaultTemplate)
	}

	for i, item := range items {
		if ctx.Err() != nil {
			finished.Skipped = len(items) - i
			break
		}

		w.publisher.Push(events.NewStatusText(fmt.Sprintf("%d/%d: %s", i+1, len(items), item.Title)))
		w.publisher.Push(events.NewItemStatusChanged(runID, item, queue.StatusDownloading))

		status := w.download(ctx, runID, cfg, item)
		switch status {
		case queue.StatusDone:
			finished.Done++
		case queue.StatusIncomplete:
			finished.Incomplete++
		default:
			finished.Failed++
		}
		w.publisher.Push(events.NewItemStatusChanged(runID, item, status))
	}
}

func (w *Worker) download(ctx context.Context, runID string, cfg plan.Configuration, item queue.Item) queue.Status {
	log := w.logger.With("run_id", runID, "item_id", item.ID, "title", item.Title)

	ret, err := w.execute(ctx, cfg, item)
	switch {
	case err != nil:
		log.Error("download failed", "error", err)
		msg := fmt.Sprintf("An error occurred while downloading %q.\n\nDetails: %s", item.Title, clean.Message(err.Error()))
		w.publisher.Push(events.NewFailed(events.EntityItem, item.ID, FailureTitle, msg))
		return queue.StatusError
	case ret != 0:
		log.Warn("download incomplete", "code", ret)
		return queue.StatusIncomplete
	default:
		log.Info("download complete")
		return queue.StatusDone
	}
}

// execute runs one download. Panics from the engine are turned into errors so
// that one item cannot stop the run.
func (w *Worker) execute(ctx context.Context, cfg plan.Configuration, item queue.Item) (ret int, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("engine panic: %v", p)
		}
	}()

	if err := plan.EnsureDestination(cfg); err != nil {
		return 0, err
	}
	spec := w.planner.Plan(cfg, item)

	return w.engine.Download(ctx, spec, func(p engine.Progress) {
		if percent, ok := Percent(p); ok {
			w.publisher.Push(events.NewProgressed(item.ID, percent))
		}
	})
}

// Percent converts a progress report to a percentage in [0, 100]. Reports
// without a known size are ignored; a finished report is always 100.
func Percent(p engine.Progress) (float64, bool) {
	switch p.Status {
	case engine.StatusFinished:
		return 100, true
	case engine.StatusDownloading:
		total := p.Total()
		if total <= 0 {
			return 0, false
		}
		pct := float64(p.DownloadedBytes) / float64(total) * 100
		return min(max(pct, 0), 100), true
	default:
		return 0, false
	}
}
