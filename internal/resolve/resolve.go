// Package resolve turns a submitted URL into queue items.
package resolve

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/vmunix/viddown/internal/engine"
	"github.com/vmunix/viddown/internal/events"
	"github.com/vmunix/viddown/internal/media"
	"github.com/vmunix/viddown/internal/queue"
	"github.com/vmunix/viddown/pkg/clean"
	"golang.org/x/sync/errgroup"
)

// FailureTitle is the title of the error shown for resolution failures.
const FailureTitle = "Info fetch error"

var (
	// ErrNoInfo is returned when the engine returns no metadata.
	ErrNoInfo = errors.New("no info")

	// ErrNoEntries is returned when a URL resolves to zero items.
	ErrNoEntries = errors.New("no downloadable entries")
)

// ResolutionError reports that a URL could not be turned into items.
type ResolutionError struct {
	URL string
	Err error
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("resolve %s: %v", e.URL, e.Err)
}

func (e *ResolutionError) Unwrap() error {
	return e.Err
}

// UserMessage is the text shown to the user for this failure.
func (e *ResolutionError) UserMessage() string {
	return "Failed to fetch video info. Check that the URL is correct and the video is public.\n\nDetails: " +
		clean.Message(e.Err.Error())
}

// Resolver performs flat metadata extraction.
type Resolver struct {
	engine    engine.Engine
	publisher events.Publisher
	logger    *slog.Logger
}

// New creates a resolver that reports to publisher.
func New(eng engine.Engine, publisher events.Publisher, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{engine: eng, publisher: publisher, logger: logger}
}

// Resolve resolves url and reports the outcome as events: one ItemAdded per
// item followed by InfoFetchSucceeded, or a single Failed. AddControlEnabled
// is always the last event.
func (r *Resolver) Resolve(ctx context.Context, url string) {
	defer r.publisher.Push(events.NewAddControlEnabled(url))

	items, err := r.Items(ctx, url)
	if err != nil {
		r.logger.Warn("resolution failed", "url", url, "error", err)
		var resErr *ResolutionError
		if !errors.As(err, &resErr) {
			resErr = &ResolutionError{URL: url, Err: err}
		}
		r.publisher.Push(events.NewFailed(events.EntityApp, 0, FailureTitle, resErr.UserMessage()))
		return
	}

	for _, it := range items {
		r.publisher.Push(events.NewItemAdded(it.Title, it.Source))
	}
	r.publisher.Push(events.NewInfoFetchSucceeded(url, len(items)))
	r.logger.Info("resolved", "url", url, "items", len(items))
}

// Items extracts url and flattens it into items in depth-first order.
// Null entries are skipped. It does not emit events.
func (r *Resolver) Items(ctx context.Context, url string) (items []queue.Item, err error) {
	defer func() {
		if p := recover(); p != nil {
			items = nil
			err = &ResolutionError{URL: url, Err: fmt.Errorf("engine panic: %v", p)}
		}
	}()

	info, err := r.engine.ExtractInfo(ctx, url, true)
	if err != nil {
		return nil, &ResolutionError{URL: url, Err: err}
	}
	if info == nil {
		return nil, &ResolutionError{URL: url, Err: ErrNoInfo}
	}

	items = Flatten(url, info)
	if len(items) == 0 {
		return nil, &ResolutionError{URL: url, Err: ErrNoEntries}
	}
	return items, nil
}

// Flatten walks the info tree depth-first and returns one item per leaf.
func Flatten(url string, info *media.Info) []queue.Item {
	var items []queue.Item
	var walk func(*media.Info)
	walk = func(n *media.Info) {
		if n == nil {
			return
		}
		if n.IsCollection() {
			for _, child := range n.Entries {
				walk(child)
			}
			return
		}
		title := clean.Title(n.Title)
		if strings.TrimSpace(title) == "" {
			title = queue.DefaultTitle
		}
		items = append(items, queue.Item{
			Title:  title,
			Source: media.Source{URL: url, Info: n},
		})
	}
	walk(info)
	return items
}

// Result is the outcome of resolving one URL with ResolveAll.
type Result struct {
	URL   string
	Items []queue.Item
	Err   error
}

// ResolveAll resolves urls concurrently, at most limit at a time, without
// emitting events. Results are in input order; per-URL failures are reported
// in Result.Err.
func (r *Resolver) ResolveAll(ctx context.Context, urls []string, limit int) []Result {
	results := make([]Result, len(urls))
	g, ctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}
	for i, url := range urls {
		g.Go(func() error {
			items, err := r.Items(ctx, url)
			results[i] = Result{URL: url, Items: items, Err: err}
			return nil
		})
	}
	_ = g.Wait()
	return results
}
