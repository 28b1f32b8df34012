// Package controller owns the download queue and applies the events produced
// by resolution and download goroutines.
//
// A Controller is driven by a single goroutine: it calls the operation
// methods and Step (or Run). Background work only talks to it through the
// event channel.
package controller

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/vmunix/viddown/internal/engine"
	"github.com/vmunix/viddown/internal/events"
	"github.com/vmunix/viddown/internal/plan"
	"github.com/vmunix/viddown/internal/queue"
	"github.com/vmunix/viddown/internal/resolve"
	"github.com/vmunix/viddown/internal/settings"
	"github.com/vmunix/viddown/internal/update"
	"github.com/vmunix/viddown/internal/worker"
)

// DefaultPollInterval bounds how long Step waits without a wake-up.
const DefaultPollInterval = 100 * time.Millisecond

// Status line messages.
const (
	MsgAlreadyRunning = "A download is already in progress"
	MsgQueueEmpty     = "The queue is empty"
	MsgCannotRemove   = "Items in the current run cannot be removed"
	MsgCannotClear    = "The queue cannot be cleared during a download"
	MsgResolving      = "Fetching video info..."
)

// ErrEmptyURL is returned by AddURL for a blank URL.
var ErrEmptyURL = errors.New("empty url")

// Recorder persists applied events.
type Recorder interface {
	Append(e events.Event) (int64, error)
}

// ThemeStore loads and saves the theme preference.
type ThemeStore interface {
	Theme() settings.Theme
	SetTheme(t settings.Theme) error
}

// UpdateChecker reports whether a newer release exists.
type UpdateChecker interface {
	Check(ctx context.Context) (update.Release, bool, error)
	Current() string
}

// Options configure a Controller. Engine is required.
type Options struct {
	Engine        engine.Engine
	Planner       plan.Planner
	Configuration plan.Configuration
	UI            UI
	History       Recorder
	Settings      ThemeStore
	Updates       UpdateChecker
	PollInterval  time.Duration
	Logger        *slog.Logger
}

// Controller coordinates the queue, the resolver and the worker.
type Controller struct {
	store    *queue.Store
	channel  *events.Channel
	resolver *resolve.Resolver
	worker   *worker.Worker
	ui       UI
	history  Recorder
	settings ThemeStore
	updates  UpdateChecker
	poll     time.Duration
	logger   *slog.Logger

	cfg       plan.Configuration
	running   bool
	resolving int
	runID     string
	status    string
	progress  float64
	lastRun   *events.RunFinished
	prompted  bool
	runItems  map[int64]struct{} // ids in the running snapshot

	wg sync.WaitGroup
}

// New creates a controller.
func New(opts Options) *Controller {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	ui := opts.UI
	if ui == nil {
		ui = NopUI{}
	}
	poll := opts.PollInterval
	if poll <= 0 {
		poll = DefaultPollInterval
	}

	channel := events.NewChannel(logger.With("component", "channel"))
	return &Controller{
		store:    queue.NewStore(),
		channel:  channel,
		resolver: resolve.New(opts.Engine, channel, logger.With("component", "resolver")),
		worker:   worker.New(opts.Engine, opts.Planner, channel, logger.With("component", "worker")),
		ui:       ui,
		history:  opts.History,
		settings: opts.Settings,
		updates:  opts.Updates,
		poll:     poll,
		logger:   logger.With("component", "controller"),
		cfg:      opts.Configuration,
	}
}

// AddURL starts resolving url in the background. The add control is disabled
// until the resolution reports back.
func (c *Controller) AddURL(ctx context.Context, url string) error {
	url = strings.TrimSpace(url)
	if url == "" {
		return ErrEmptyURL
	}
	c.resolving++
	c.ui.AddEnabled(false)
	c.setStatus(MsgResolving)

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		c.resolver.Resolve(ctx, url)
	}()
	return nil
}

// StartRun begins downloading the whole queue with a copy of the current
// configuration. It is rejected while a run is active or the queue is empty.
func (c *Controller) StartRun(ctx context.Context) error {
	if c.running {
		c.setStatus(MsgAlreadyRunning)
		return fmt.Errorf("start run: already running: %w", queue.ErrInvalidOperation)
	}
	if c.store.Len() == 0 {
		c.setStatus(MsgQueueEmpty)
		return fmt.Errorf("start run: queue empty: %w", queue.ErrInvalidOperation)
	}

	c.store.Requeue()
	c.store.SetActive(true)
	c.running = true
	c.runID = uuid.NewString()
	c.lastRun = nil
	c.setProgress(0)
	c.ui.StartEnabled(false)
	c.ui.QueueChanged(c.store.Items())

	runID, cfg, snapshot := c.runID, c.cfg, c.store.Items()
	c.runItems = make(map[int64]struct{}, len(snapshot))
	for _, it := range snapshot {
		c.runItems[it.ID] = struct{}{}
	}
	c.logger.Info("run starting", "run_id", runID, "items", len(snapshot),
		"format", cfg.Format, "quality", cfg.Quality, "destination", cfg.Destination)

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		c.worker.Run(ctx, runID, cfg, snapshot)
	}()
	return nil
}

// RemoveSelected removes the item at index. Items in the snapshot of the
// active run cannot be removed until they have finished; items added after
// the run started can.
func (c *Controller) RemoveSelected(index int) error {
	item, err := c.store.At(index)
	if err != nil {
		return err
	}
	if c.inRun(item) {
		c.setStatus(MsgCannotRemove)
		return fmt.Errorf("remove %q: in current run: %w", item.Title, queue.ErrInvalidOperation)
	}
	if err := c.store.RemoveAt(index); err != nil {
		c.setStatus(MsgCannotRemove)
		return err
	}
	c.ui.QueueChanged(c.store.Items())
	return nil
}

func (c *Controller) inRun(item queue.Item) bool {
	if item.Status == queue.StatusDownloading {
		return true
	}
	if !c.running || item.Status.IsTerminal() {
		return false
	}
	_, ok := c.runItems[item.ID]
	return ok
}

// ClearAll empties the queue. It is rejected during a run.
func (c *Controller) ClearAll() error {
	if err := c.store.Clear(); err != nil {
		c.setStatus(MsgCannotClear)
		return err
	}
	c.ui.QueueChanged(nil)
	return nil
}

// SetConfiguration replaces the download settings. A running run keeps the
// copy it started with.
func (c *Controller) SetConfiguration(cfg plan.Configuration) {
	c.cfg = cfg
}

// Configuration returns the current download settings.
func (c *Controller) Configuration() plan.Configuration {
	return c.cfg
}

// SetTheme saves and applies a theme.
func (c *Controller) SetTheme(theme settings.Theme) error {
	if c.settings != nil {
		if err := c.settings.SetTheme(theme); err != nil {
			return err
		}
	}
	c.ui.ThemeChanged(theme)
	return nil
}

// Theme returns the saved theme.
func (c *Controller) Theme() settings.Theme {
	if c.settings == nil {
		return settings.DefaultTheme
	}
	return c.settings.Theme()
}

// CheckForUpdates queries the release URL in the background. Failures are
// logged and otherwise ignored.
func (c *Controller) CheckForUpdates(ctx context.Context) {
	if c.updates == nil {
		return
	}
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		rel, newer, err := c.updates.Check(ctx)
		if err != nil {
			c.logger.Debug("update check failed", "error", err)
			return
		}
		if newer {
			c.channel.Push(events.NewUpdateAvailable(c.updates.Current(), rel.Version.String(), rel.URL))
		}
	}()
}

// Step waits until events are pending or the poll interval passes, then
// applies everything pending. It returns ctx.Err() if ctx ends first.
func (c *Controller) Step(ctx context.Context) error {
	timer := time.NewTimer(c.poll)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-c.channel.Ready():
	case <-timer.C:
	}
	c.Drain()
	return nil
}

// Run calls Step until ctx ends.
func (c *Controller) Run(ctx context.Context) error {
	for {
		if err := c.Step(ctx); err != nil {
			return err
		}
	}
}

// Drain applies all pending events in arrival order and returns how many
// were applied.
func (c *Controller) Drain() int {
	pending := c.channel.Drain()
	for _, e := range pending {
		c.apply(e)
	}
	return len(pending)
}

// Wait blocks until all background goroutines have returned.
func (c *Controller) Wait() {
	c.wg.Wait()
}

// Close stops accepting events and waits for background work.
func (c *Controller) Close() {
	c.wg.Wait()
	c.channel.Close()
}

func (c *Controller) apply(e events.Event) {
	switch ev := e.(type) {
	case *events.ItemAdded:
		item := c.store.Append(queue.Item{Title: ev.Title, Source: ev.Source})
		ev.ID = item.ID
		c.ui.QueueChanged(c.store.Items())

	case *events.InfoFetchSucceeded:
		c.setStatus(fmt.Sprintf("Added %d item(s)", ev.Count))

	case *events.AddControlEnabled:
		if c.resolving > 0 {
			c.resolving--
		}
		if c.resolving == 0 {
			c.ui.AddEnabled(true)
		}

	case *events.StatusText:
		c.setStatus(ev.Text)

	case *events.ItemStatusChanged:
		if err := c.store.SetStatus(ev.EntityID(), ev.Status); err != nil {
			c.logger.Error("applying status change", "item_id", ev.EntityID(), "status", ev.Status, "error", err)
		}
		c.ui.QueueChanged(c.store.Items())

	case *events.Progressed:
		c.setProgress(ev.Percent)

	case *events.RunStarted:
		// Nothing to apply; recorded for history.

	case *events.RunFinished:
		c.running = false
		c.runItems = nil
		c.store.SetActive(false)
		c.lastRun = ev
		c.setProgress(0)
		c.setStatus(worker.FinishedText)
		c.ui.StartEnabled(true)

	case *events.Failed:
		c.setStatus("Error: " + ev.Title)
		c.ui.ShowError(ev.Title, ev.Message)

	case *events.UpdateAvailable:
		if c.prompted {
			return
		}
		c.prompted = true
		c.ui.PromptUpdate(ev.Current, ev.Latest, ev.URL)

	default:
		c.logger.Warn("unhandled event", "type", e.EventType())
	}

	c.record(e)
}

// record appends lasting events to the history. Progress and status text are
// too chatty to keep.
func (c *Controller) record(e events.Event) {
	if c.history == nil {
		return
	}
	switch e.(type) {
	case *events.Progressed, *events.StatusText, *events.AddControlEnabled:
		return
	}
	if _, err := c.history.Append(e); err != nil {
		c.logger.Error("recording event", "type", e.EventType(), "error", err)
	}
}

func (c *Controller) setStatus(text string) {
	c.status = text
	c.ui.StatusChanged(text)
}

func (c *Controller) setProgress(percent float64) {
	c.progress = percent
	c.ui.ProgressChanged(percent)
}

// Items returns a copy of the queue.
func (c *Controller) Items() []queue.Item { return c.store.Items() }

// Running reports whether a run is active.
func (c *Controller) Running() bool { return c.running }

// Resolving returns the number of resolutions in flight.
func (c *Controller) Resolving() int { return c.resolving }

// Busy reports whether any background work is pending.
func (c *Controller) Busy() bool { return c.running || c.resolving > 0 }

// Status returns the current status line.
func (c *Controller) Status() string { return c.status }

// Progress returns the progress of the current item in percent.
func (c *Controller) Progress() float64 { return c.progress }

// RunID identifies the current or most recent run.
func (c *Controller) RunID() string { return c.runID }

// LastRun returns the summary of the most recent finished run, or nil.
func (c *Controller) LastRun() *events.RunFinished { return c.lastRun }
