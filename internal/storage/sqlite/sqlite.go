// Package sqlite is the default, file-backed event store.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"

	"github.com/lindsaysblock/datadetective-lblock-sub002/internal/events"
)

const schema = `
CREATE TABLE IF NOT EXISTS health_events (
	id TEXT PRIMARY KEY,
	type TEXT NOT NULL,
	timestamp DATETIME NOT NULL,
	file TEXT NOT NULL DEFAULT '',
	monitor_id TEXT NOT NULL DEFAULT '',
	severity TEXT NOT NULL,
	message TEXT NOT NULL,
	data TEXT NOT NULL DEFAULT '{}'
);

CREATE INDEX IF NOT EXISTS idx_health_events_file ON health_events(file);
CREATE INDEX IF NOT EXISTS idx_health_events_type ON health_events(type);
CREATE INDEX IF NOT EXISTS idx_health_events_timestamp ON health_events(timestamp);
`

// SQLiteStorage implements the event store on a local SQLite database.
type SQLiteStorage struct {
	db *sql.DB
}

// New opens (creating if needed) the database at path and ensures the schema.
func New(path string) (*SQLiteStorage, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	db, err := sql.Open("sqlite3", "file:"+path+"?_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &SQLiteStorage{db: db}, nil
}

// Close closes the database.
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

// StoreEvent stores a new health event.
func (s *SQLiteStorage) StoreEvent(ctx context.Context, event *events.HealthEvent) error {
	dataJSON, err := json.Marshal(event.Data)
	if err != nil {
		return fmt.Errorf("failed to marshal event data: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO health_events (id, type, timestamp, file, monitor_id, severity, message, data)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		event.ID, string(event.Type), event.Timestamp.UTC(), event.File,
		event.MonitorID, string(event.Severity), event.Message, string(dataJSON),
	)
	if err != nil {
		return fmt.Errorf("failed to store event: %w", err)
	}
	return nil
}

// GetEvents retrieves events matching the given filter, newest first.
func (s *SQLiteStorage) GetEvents(ctx context.Context, filter events.EventFilter) ([]*events.HealthEvent, error) {
	query := `
		SELECT id, type, timestamp, file, monitor_id, severity, message, data
		FROM health_events
		WHERE 1=1`
	args := []interface{}{}

	if filter.File != "" {
		query += " AND file = ?"
		args = append(args, filter.File)
	}
	if filter.Type != "" {
		query += " AND type = ?"
		args = append(args, string(filter.Type))
	}
	if filter.Severity != "" {
		query += " AND severity = ?"
		args = append(args, string(filter.Severity))
	}
	if !filter.AfterTime.IsZero() {
		query += " AND timestamp > ?"
		args = append(args, filter.AfterTime.UTC())
	}
	if !filter.BeforeTime.IsZero() {
		query += " AND timestamp < ?"
		args = append(args, filter.BeforeTime.UTC())
	}

	query += " ORDER BY timestamp DESC"
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query events: %w", err)
	}
	defer rows.Close()

	return scanEvents(rows)
}

// GetEventsByFile retrieves all events for one source file, newest first.
func (s *SQLiteStorage) GetEventsByFile(ctx context.Context, file string) ([]*events.HealthEvent, error) {
	return s.GetEvents(ctx, events.EventFilter{File: file})
}

// GetRecentEvents retrieves the most recent events up to limit.
func (s *SQLiteStorage) GetRecentEvents(ctx context.Context, limit int) ([]*events.HealthEvent, error) {
	return s.GetEvents(ctx, events.EventFilter{Limit: limit})
}

// CleanupEventsByAge deletes events older than retentionDays. Returns the
// number of events deleted.
func (s *SQLiteStorage) CleanupEventsByAge(ctx context.Context, retentionDays int) (int, error) {
	if retentionDays < 1 {
		return 0, fmt.Errorf("retention days must be at least 1")
	}

	cutoff := time.Now().UTC().AddDate(0, 0, -retentionDays)
	result, err := s.db.ExecContext(ctx, "DELETE FROM health_events WHERE timestamp < ?", cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to delete old events: %w", err)
	}

	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count deleted events: %w", err)
	}
	return int(deleted), nil
}

func scanEvents(rows *sql.Rows) ([]*events.HealthEvent, error) {
	var out []*events.HealthEvent
	for rows.Next() {
		var (
			event    events.HealthEvent
			dataJSON string
		)
		if err := rows.Scan(&event.ID, &event.Type, &event.Timestamp, &event.File,
			&event.MonitorID, &event.Severity, &event.Message, &dataJSON); err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		if err := json.Unmarshal([]byte(dataJSON), &event.Data); err != nil {
			return nil, fmt.Errorf("failed to unmarshal event data: %w", err)
		}
		out = append(out, &event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate events: %w", err)
	}
	return out, nil
}
