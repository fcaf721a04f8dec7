package telemetry

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"finops-llm-router/internal/llm"
)

// SQLiteCollector is the durable telemetry sink, grounded on the teacher's
// audit.AuditDB: a single-writer SQLite connection with one append-only
// table. DuckDB, which the original Python implementation used, has no
// equivalent driver anywhere in this module's dependency pack; SQLite fills
// the same "embedded analytics-friendly store" role the teacher already
// reaches for in its own audit log.
type SQLiteCollector struct {
	db *sql.DB
}

const createTelemetryTableSQL = `
CREATE TABLE IF NOT EXISTS telemetry (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	timestamp DATETIME NOT NULL,
	request_id TEXT NOT NULL,
	strategy TEXT NOT NULL,
	provider TEXT,
	model TEXT,
	usage_input INTEGER,
	usage_output INTEGER,
	cost_estimated REAL,
	latency_ms REAL,
	fallback_used BOOLEAN NOT NULL DEFAULT 0,
	provider_failed BOOLEAN NOT NULL DEFAULT 0,
	guardrail_failed BOOLEAN NOT NULL DEFAULT 0,
	guardrail_reason TEXT
);

CREATE INDEX IF NOT EXISTS idx_telemetry_request_id ON telemetry(request_id);
CREATE INDEX IF NOT EXISTS idx_telemetry_timestamp ON telemetry(timestamp);
`

// NewSQLiteCollector opens (or creates) the SQLite database at dbPath and
// ensures the telemetry table exists.
func NewSQLiteCollector(dbPath string) (*SQLiteCollector, error) {
	if dbPath == "" {
		dbPath = "./telemetry.db"
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("telemetry: open sqlite: %w", err)
	}

	// SQLite works best with a single writer connection.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("telemetry: ping sqlite: %w", err)
	}

	if _, err := db.Exec(createTelemetryTableSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("telemetry: create schema: %w", err)
	}

	return &SQLiteCollector{db: db}, nil
}

func (c *SQLiteCollector) Close() error {
	if c == nil || c.db == nil {
		return nil
	}
	return c.db.Close()
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func nullFloat(f *float64) sql.NullFloat64 {
	if f == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *f, Valid: true}
}

func nullInt(i *int64) sql.NullInt64 {
	if i == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *i, Valid: true}
}

// Capture inserts a single telemetry row. Nullable columns hold sentinel
// NULLs when Event carries no provider/model/usage — the guardrail-failure
// and provider-failure cases from finops.Orchestrator.Handle.
func (c *SQLiteCollector) Capture(ctx context.Context, evt Event) error {
	var usageInput, usageOutput *int64
	if evt.Usage != nil {
		usageInput = &evt.Usage.InputTokens
		usageOutput = &evt.Usage.OutputTokens
	}

	_, err := c.db.ExecContext(ctx,
		`INSERT INTO telemetry
			(timestamp, request_id, strategy, provider, model, usage_input, usage_output,
			 cost_estimated, latency_ms, fallback_used, provider_failed, guardrail_failed, guardrail_reason)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		evt.Timestamp.UTC(),
		evt.RequestID,
		evt.Strategy,
		nullString(evt.Provider),
		nullString(evt.Model),
		nullInt(usageInput),
		nullInt(usageOutput),
		nullFloat(evt.CostEstimated),
		nullFloat(evt.LatencyMS),
		evt.FallbackUsed,
		evt.ProviderFailed,
		evt.GuardrailFailed,
		nullString(evt.GuardrailReason),
	)
	if err != nil {
		return fmt.Errorf("telemetry: insert: %w", err)
	}
	return nil
}

// Recent returns the most recently captured events, oldest first, limited
// to n rows. Used by tests and diagnostics.
func (c *SQLiteCollector) Recent(ctx context.Context, n int) ([]Event, error) {
	rows, err := c.db.QueryContext(ctx,
		`SELECT timestamp, request_id, strategy, provider, model, usage_input, usage_output,
			cost_estimated, latency_ms, fallback_used, provider_failed, guardrail_failed, guardrail_reason
		 FROM telemetry ORDER BY id DESC LIMIT ?`, n)
	if err != nil {
		return nil, fmt.Errorf("telemetry: query: %w", err)
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		var evt Event
		var provider, model, guardrailReason sql.NullString
		var usageInput, usageOutput sql.NullInt64
		var cost, latency sql.NullFloat64

		if err := rows.Scan(&evt.Timestamp, &evt.RequestID, &evt.Strategy, &provider, &model,
			&usageInput, &usageOutput, &cost, &latency,
			&evt.FallbackUsed, &evt.ProviderFailed, &evt.GuardrailFailed, &guardrailReason); err != nil {
			return nil, fmt.Errorf("telemetry: scan: %w", err)
		}

		if provider.Valid {
			evt.Provider = &provider.String
		}
		if model.Valid {
			evt.Model = &model.String
		}
		if guardrailReason.Valid {
			evt.GuardrailReason = &guardrailReason.String
		}
		if cost.Valid {
			evt.CostEstimated = &cost.Float64
		}
		if latency.Valid {
			evt.LatencyMS = &latency.Float64
		}
		if usageInput.Valid || usageOutput.Valid {
			evt.Usage = &llm.Usage{InputTokens: usageInput.Int64, OutputTokens: usageOutput.Int64}
		}

		events = append(events, evt)
	}
	// Reverse to oldest-first since SELECT ... DESC returned newest-first.
	for i, j := 0, len(events)-1; i < j; i, j = i+1, j-1 {
		events[i], events[j] = events[j], events[i]
	}
	return events, rows.Err()
}
