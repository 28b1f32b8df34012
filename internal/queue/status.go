package queue

// Status is the lifecycle state of a queue item.
type Status string

const (
	StatusQueued      Status = "queued"
	StatusDownloading Status = "downloading"
	StatusDone        Status = "done"
	StatusIncomplete  Status = "incomplete"
	StatusError       Status = "error"
)

// validTransitions defines allowed state transitions.
// Key is the "from" status, value is list of valid "to" statuses.
var validTransitions = map[Status][]Status{
	StatusQueued:      {StatusDownloading},
	StatusDownloading: {StatusDone, StatusIncomplete, StatusError},
	StatusDone:        {StatusQueued}, // re-run
	StatusIncomplete:  {StatusQueued}, // re-run
	StatusError:       {StatusQueued}, // re-run
}

// CanTransitionTo returns true if transitioning from s to target is valid.
func (s Status) CanTransitionTo(target Status) bool {
	for _, v := range validTransitions[s] {
		if v == target {
			return true
		}
	}
	return false
}

// IsTerminal returns true once an item has an outcome for the current run.
func (s Status) IsTerminal() bool {
	return s == StatusDone || s == StatusIncomplete || s == StatusError
}

// Label is the text shown next to an item in a queue listing.
func (s Status) Label() string {
	switch s {
	case StatusQueued:
		return "Queued"
	case StatusDownloading:
		return "Downloading"
	case StatusDone:
		return "Done"
	case StatusIncomplete:
		return "Incomplete"
	case StatusError:
		return "Error"
	default:
		return string(s)
	}
}

// ParseStatus returns the Status named by s.
func ParseStatus(s string) (Status, bool) {
	st := Status(s)
	_, ok := validTransitions[st]
	return st, ok
}
