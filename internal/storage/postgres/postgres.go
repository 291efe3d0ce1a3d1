// Package postgres is the event store for shared deployments where several
// monitors report into one database.
package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lindsaysblock/datadetective-lblock-sub002/internal/events"
)

const schema = `
CREATE TABLE IF NOT EXISTS health_events (
	id TEXT PRIMARY KEY,
	type TEXT NOT NULL,
	timestamp TIMESTAMPTZ NOT NULL,
	file TEXT NOT NULL DEFAULT '',
	monitor_id TEXT NOT NULL DEFAULT '',
	severity TEXT NOT NULL,
	message TEXT NOT NULL,
	data JSONB NOT NULL DEFAULT '{}'
);

CREATE INDEX IF NOT EXISTS idx_health_events_file ON health_events(file);
CREATE INDEX IF NOT EXISTS idx_health_events_type ON health_events(type);
CREATE INDEX IF NOT EXISTS idx_health_events_timestamp ON health_events(timestamp);
`

// PostgresStorage implements the event store on PostgreSQL with pooling.
type PostgresStorage struct {
	pool *pgxpool.Pool
}

// New connects to the database named by dsn and ensures the schema.
func New(ctx context.Context, dsn string) (*PostgresStorage, error) {
	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to parse connection string: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if _, err := pool.Exec(ctx, schema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &PostgresStorage{pool: pool}, nil
}

// Close releases the connection pool.
func (p *PostgresStorage) Close() error {
	p.pool.Close()
	return nil
}

// StoreEvent stores a new health event.
func (p *PostgresStorage) StoreEvent(ctx context.Context, event *events.HealthEvent) error {
	dataJSON, err := json.Marshal(event.Data)
	if err != nil {
		return fmt.Errorf("failed to marshal event data: %w", err)
	}

	_, err = p.pool.Exec(ctx, `
		INSERT INTO health_events (id, type, timestamp, file, monitor_id, severity, message, data)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		event.ID, string(event.Type), event.Timestamp, event.File,
		event.MonitorID, string(event.Severity), event.Message, dataJSON,
	)
	if err != nil {
		return fmt.Errorf("failed to store event: %w", err)
	}
	return nil
}

// GetEvents retrieves events matching the given filter, newest first.
func (p *PostgresStorage) GetEvents(ctx context.Context, filter events.EventFilter) ([]*events.HealthEvent, error) {
	query := `
		SELECT id, type, timestamp, file, monitor_id, severity, message, data
		FROM health_events
		WHERE 1=1`
	args := []interface{}{}
	argNum := 1

	if filter.File != "" {
		query += fmt.Sprintf(" AND file = $%d", argNum)
		args = append(args, filter.File)
		argNum++
	}
	if filter.Type != "" {
		query += fmt.Sprintf(" AND type = $%d", argNum)
		args = append(args, string(filter.Type))
		argNum++
	}
	if filter.Severity != "" {
		query += fmt.Sprintf(" AND severity = $%d", argNum)
		args = append(args, string(filter.Severity))
		argNum++
	}
	if !filter.AfterTime.IsZero() {
		query += fmt.Sprintf(" AND timestamp > $%d", argNum)
		args = append(args, filter.AfterTime)
		argNum++
	}
	if !filter.BeforeTime.IsZero() {
		query += fmt.Sprintf(" AND timestamp < $%d", argNum)
		args = append(args, filter.BeforeTime)
		argNum++
	}

	query += " ORDER BY timestamp DESC"
	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", argNum)
		args = append(args, filter.Limit)
	}

	rows, err := p.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query events: %w", err)
	}
	defer rows.Close()

	return scanEvents(rows)
}

// GetEventsByFile retrieves all events for one source file, newest first.
func (p *PostgresStorage) GetEventsByFile(ctx context.Context, file string) ([]*events.HealthEvent, error) {
	return p.GetEvents(ctx, events.EventFilter{File: file})
}

// GetRecentEvents retrieves the most recent events up to limit.
func (p *PostgresStorage) GetRecentEvents(ctx context.Context, limit int) ([]*events.HealthEvent, error) {
	return p.GetEvents(ctx, events.EventFilter{Limit: limit})
}

// CleanupEventsByAge deletes events older than retentionDays. Returns the
// number of events deleted.
func (p *PostgresStorage) CleanupEventsByAge(ctx context.Context, retentionDays int) (int, error) {
	if retentionDays < 1 {
		return 0, fmt.Errorf("retention days must be at least 1")
	}

	cutoff := time.Now().AddDate(0, 0, -retentionDays)
	tag, err := p.pool.Exec(ctx, "DELETE FROM health_events WHERE timestamp < $1", cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to delete old events: %w", err)
	}
	return int(tag.RowsAffected()), nil
}

func scanEvents(rows pgx.Rows) ([]*events.HealthEvent, error) {
	var out []*events.HealthEvent
	for rows.Next() {
		var (
			event    events.HealthEvent
			dataJSON []byte
		)
		if err := rows.Scan(&event.ID, &event.Type, &event.Timestamp, &event.File,
			&event.MonitorID, &event.Severity, &event.Message, &dataJSON); err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		if err := json.Unmarshal(dataJSON, &event.Data); err != nil {
			return nil, fmt.Errorf("failed to unmarshal event data: %w", err)
		}
		out = append(out, &event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate events: %w", err)
	}
	return out, nil
}
