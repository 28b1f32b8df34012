package events

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// EventLog persists events to SQLite. It backs the download history.
type EventLog struct {
	db *sql.DB
}

// NewEventLog creates a new event log.
func NewEventLog(db *sql.DB) *EventLog {
	return &EventLog{db: db}
}

// Append persists an event and returns its ID.
func (l *EventLog) Append(e Event) (int64, error) {
	payload, err := json.Marshal(e)
	if err != nil {
		return 0, fmt.Errorf("marshal event: %w", err)
	}

	result, err := l.db.Exec(`
		INSERT INTO events (event_type, entity_type, entity_id, payload, occurred_at)
		VALUES (?, ?, ?, ?, ?)`,
		e.EventType(), e.EntityType(), e.EntityID(), string(payload), e.OccurredAt(),
	)
	if err != nil {
		return 0, fmt.Errorf("insert event: %w", err)
	}

	return result.LastInsertId()
}

// RawEvent represents a persisted event with its raw payload.
type RawEvent struct {
	ID         int64
	EventType  string
	EntityType string
	EntityID   int64
	Payload    string
	OccurredAt time.Time
	CreatedAt  time.Time
}

// Since returns the events that occurred at or after t, newest first.
// Passing event types restricts the result to those types.
func (l *EventLog) Since(t time.Time, eventTypes ...string) ([]RawEvent, error) {
	return l.query("occurred_at >= ?", []any{t}, eventTypes, 0)
}

// ForEntity returns the events of one entity, newest first.
func (l *EventLog) ForEntity(entityType string, entityID int64, eventTypes ...string) ([]RawEvent, error) {
	return l.query("entity_type = ? AND entity_id = ?", []any{entityType, entityID}, eventTypes, 0)
}

// Recent returns the newest limit events, newest first.
func (l *EventLog) Recent(limit int, eventTypes ...string) ([]RawEvent, error) {
	return l.query("", nil, eventTypes, limit)
}

// query selects events matching where and eventTypes, newest first. A
// limit of zero returns every match.
func (l *EventLog) query(where string, args []any, eventTypes []string, limit int) ([]RawEvent, error) {
	var conds []string
	if where != "" {
		conds = append(conds, where)
	}
	if len(eventTypes) > 0 {
		conds = append(conds, `event_type IN (?`+strings.Repeat(`, ?`, len(eventTypes)-1)+`)`)
		for _, t := range eventTypes {
			args = append(args, t)
		}
	}

	query := `
		SELECT id, event_type, entity_type, entity_id, payload, occurred_at, created_at
		FROM events`
	if len(conds) > 0 {
		query += ` WHERE ` + strings.Join(conds, ` AND `)
	}
	query += ` ORDER BY id DESC`
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := l.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()

	return scanEvents(rows)
}

// Prune removes events older than the given duration.
func (l *EventLog) Prune(olderThan time.Duration) (int64, error) {
	cutoff := time.Now().Add(-olderThan)
	result, err := l.db.Exec(`DELETE FROM events WHERE occurred_at < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("prune events: %w", err)
	}
	return result.RowsAffected()
}

func scanEvents(rows *sql.Rows) ([]RawEvent, error) {
	var events []RawEvent
	for rows.Next() {
		var e RawEvent
		if err := rows.Scan(&e.ID, &e.EventType, &e.EntityType, &e.EntityID, &e.Payload, &e.OccurredAt, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		events = append(events, e)
	}
	return events, rows.Err()
}
