// Package sqlite provides a SQLite-backed pipelinelog.Repository.
//
// WAL mode is enabled on Open so readers never block the pipeline writer.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jcmexdev/travel-agency/internal/coordinator/pipelinelog"

	// pure-Go driver, no CGO
	_ "modernc.org/sqlite"
)

const timeLayout = "2006-01-02T15:04:05.999999999Z"

const schema = `
CREATE TABLE IF NOT EXISTS pipeline_logs (
    id           INTEGER PRIMARY KEY AUTOINCREMENT,
    pipeline_id  TEXT    NOT NULL,
    status       TEXT    NOT NULL,
    step         TEXT    NOT NULL DEFAULT '',
    -- request JSON, set on STARTED rows only
    payload      TEXT,
    errors       TEXT    NOT NULL DEFAULT '[]',
    trace_id     TEXT    NOT NULL DEFAULT '',
    span_id      TEXT    NOT NULL DEFAULT '',
    recorded_at  TEXT    NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_pipeline_logs_pipeline_id ON pipeline_logs(pipeline_id, recorded_at);
CREATE INDEX IF NOT EXISTS idx_pipeline_logs_trace_id ON pipeline_logs(trace_id);
`

// Repository is the SQLite implementation of pipelinelog.Repository.
type Repository struct {
	db *sql.DB
}

var _ pipelinelog.Repository = (*Repository)(nil)

// Open opens (or creates) the database at path and applies the schema.
// Use ":memory:" for a throwaway log.
//
//	repo, err := sqlite.Open("./data/pipeline.db")
func Open(path string) (*Repository, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)", path)

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open %q: %w", path, err)
	}

	// single writer; also keeps an in-memory database alive on one connection
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite: apply schema: %w", err)
	}

	return &Repository{db: db}, nil
}

// Close releases the database.
func (r *Repository) Close() error {
	return r.db.Close()
}

// Save appends entry to the log. It is safe to call concurrently.
func (r *Repository) Save(ctx context.Context, entry *pipelinelog.Entry) error {
	const q = `
		INSERT INTO pipeline_logs
			(pipeline_id, status, step, payload, errors, trace_id, span_id, recorded_at)
		VALUES
			(?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, q,
		entry.PipelineID,
		string(entry.Status),
		entry.Step,
		nullableString(entry.Payload),
		entry.Errors,
		entry.TraceID,
		entry.SpanID,
		entry.RecordedAt.UTC().Format(timeLayout),
	)
	if err != nil {
		return fmt.Errorf("sqlite: save pipeline log for %q: %w", entry.PipelineID, err)
	}
	return nil
}

// History returns every entry recorded for pipelineID, oldest first.
func (r *Repository) History(ctx context.Context, pipelineID string) ([]pipelinelog.Entry, error) {
	const q = `
		SELECT pipeline_id, status, step, COALESCE(payload, ''), errors,
		       trace_id, span_id, recorded_at
		FROM   pipeline_logs
		WHERE  pipeline_id = ?
		ORDER  BY id ASC`

	rows, err := r.db.QueryContext(ctx, q, pipelineID)
	if err != nil {
		return nil, fmt.Errorf("sqlite: history for %q: %w", pipelineID, err)
	}
	defer rows.Close()

	var out []pipelinelog.Entry
	for rows.Next() {
		var (
			e          pipelinelog.Entry
			recordedAt string
		)
		if err := rows.Scan(
			&e.PipelineID,
			&e.Status,
			&e.Step,
			&e.Payload,
			&e.Errors,
			&e.TraceID,
			&e.SpanID,
			&recordedAt,
		); err != nil {
			return nil, fmt.Errorf("sqlite: scan history for %q: %w", pipelineID, err)
		}
		if e.RecordedAt, err = parseTime(recordedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: history for %q: %w", pipelineID, err)
	}
	return out, nil
}

// nullableString stores NULL instead of an empty payload.
func nullableString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
