package events

import (
	"github.com/vmunix/viddown/internal/media"
	"github.com/vmunix/viddown/internal/queue"
)

// Entity types
const (
	EntityItem = "item"
	EntityRun  = "run"
	EntityApp  = "app"
)

// Event type constants
const (
	EventItemAdded         = "item.added"
	EventInfoFetched       = "info.fetched"
	EventAddEnabled        = "add.enabled"
	EventStatusText        = "status.text"
	EventItemStatusChanged = "item.status.changed"
	EventItemProgressed    = "item.progressed"
	EventRunStarted        = "run.started"
	EventRunFinished       = "run.finished"
	EventFailed            = "failed"
	EventUpdateAvailable   = "update.available"
)

// ItemAdded is emitted for each item a URL resolved to.
type ItemAdded struct {
	BaseEvent
	Title  string       `json:"title"`
	Source media.Source `json:"source"`
}

// NewItemAdded creates an ItemAdded event.
func NewItemAdded(title string, src media.Source) *ItemAdded {
	return &ItemAdded{BaseEvent: NewBaseEvent(EventItemAdded, EntityItem, 0), Title: title, Source: src}
}

// InfoFetchSucceeded is emitted after all items of a URL were added.
type InfoFetchSucceeded struct {
	BaseEvent
	URL   string `json:"url"`
	Count int    `json:"count"`
}

// NewInfoFetchSucceeded creates an InfoFetchSucceeded event.
func NewInfoFetchSucceeded(url string, count int) *InfoFetchSucceeded {
	return &InfoFetchSucceeded{BaseEvent: NewBaseEvent(EventInfoFetched, EntityApp, 0), URL: url, Count: count}
}

// AddControlEnabled is the last event of every resolution.
type AddControlEnabled struct {
	BaseEvent
	URL string `json:"url"`
}

// NewAddControlEnabled creates an AddControlEnabled event.
func NewAddControlEnabled(url string) *AddControlEnabled {
	return &AddControlEnabled{BaseEvent: NewBaseEvent(EventAddEnabled, EntityApp, 0), URL: url}
}

// StatusText replaces the status line.
type StatusText struct {
	BaseEvent
	Text string `json:"text"`
}

// NewStatusText creates a StatusText event.
func NewStatusText(text string) *StatusText {
	return &StatusText{BaseEvent: NewBaseEvent(EventStatusText, EntityApp, 0), Text: text}
}

// ItemStatusChanged is emitted when the worker moves an item to a new status.
type ItemStatusChanged struct {
	BaseEvent
	RunID  string       `json:"run_id"`
	Title  string       `json:"title"`
	Status queue.Status `json:"status"`
}

// NewItemStatusChanged creates an ItemStatusChanged event.
func NewItemStatusChanged(runID string, item queue.Item, status queue.Status) *ItemStatusChanged {
	return &ItemStatusChanged{
		BaseEvent: NewBaseEvent(EventItemStatusChanged, EntityItem, item.ID),
		RunID:     runID,
		Title:     item.Title,
		Status:    status,
	}
}

// Progressed reports download progress of the current item.
type Progressed struct {
	BaseEvent
	Percent float64 `json:"percent"`
}

// NewProgressed creates a Progressed event.
func NewProgressed(itemID int64, percent float64) *Progressed {
	return &Progressed{BaseEvent: NewBaseEvent(EventItemProgressed, EntityItem, itemID), Percent: percent}
}

// RunStarted is emitted by the worker before the first item.
type RunStarted struct {
	BaseEvent
	RunID string `json:"run_id"`
	Items int    `json:"items"`
}

// NewRunStarted creates a RunStarted event.
func NewRunStarted(runID string, items int) *RunStarted {
	return &RunStarted{BaseEvent: NewBaseEvent(EventRunStarted, EntityRun, 0), RunID: runID, Items: items}
}

// RunFinished is emitted exactly once when a run ends.
type RunFinished struct {
	BaseEvent
	RunID      string `json:"run_id"`
	Done       int    `json:"done"`
	Incomplete int    `json:"incomplete"`
	Failed     int    `json:"failed"`
	Skipped    int    `json:"skipped"`
}

// NewRunFinished creates a RunFinished event.
func NewRunFinished(runID string) *RunFinished {
	return &RunFinished{BaseEvent: NewBaseEvent(EventRunFinished, EntityRun, 0), RunID: runID}
}

// Failed carries a user-facing error from background work. EntityID is the
// item ID for download failures and 0 otherwise.
type Failed struct {
	BaseEvent
	Title   string `json:"title"`
	Message string `json:"message"`
}

// NewFailed creates a Failed event.
func NewFailed(entityType string, entityID int64, title, message string) *Failed {
	return &Failed{BaseEvent: NewBaseEvent(EventFailed, entityType, entityID), Title: title, Message: message}
}

// UpdateAvailable is emitted when a newer release exists.
type UpdateAvailable struct {
	BaseEvent
	Current string `json:"current"`
	Latest  string `json:"latest"`
	URL     string `json:"url"`
}

// NewUpdateAvailable creates an UpdateAvailable event.
func NewUpdateAvailable(current, latest, url string) *UpdateAvailable {
	return &UpdateAvailable{
		BaseEvent: NewBaseEvent(EventUpdateAvailable, EntityApp, 0),
		Current:   current,
		Latest:    latest,
		URL:       url,
	}
}
