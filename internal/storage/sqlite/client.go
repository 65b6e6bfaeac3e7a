package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"github.com/refineryiq/server/internal/insight"
	"github.com/refineryiq/server/pkg/logger"
)

// Client keeps a best-effort audit log of insight exchanges. The core never
// depends on it succeeding; the telemetry store itself stays in memory.
type Client struct {
	db *sql.DB
}

func NewClient(dbPath string) (*Client, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	logger.Info("sqlite audit log initialized", zap.String("path", dbPath))

	return &Client{db: db}, nil
}

func (c *Client) Close() error {
	return c.db.Close()
}

func (c *Client) InitSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS insight_log (
		id TEXT PRIMARY KEY,
		query TEXT NOT NULL,
		response TEXT NOT NULL,
		domain INTEGER NOT NULL,
		data_kind TEXT,
		fallback INTEGER NOT NULL,
		latency_ms INTEGER NOT NULL,
		created_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_insight_log_created ON insight_log(created_at);
	`
	if _, err := c.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to initialize schema: %w", err)
	}
	return nil
}

// Record implements insight.AuditLog. Failures are logged and swallowed.
func (c *Client) Record(ctx context.Context, rec insight.Record) {
	_, err := c.db.ExecContext(ctx,
		`INSERT INTO insight_log (id, query, response, domain, data_kind, fallback, latency_ms, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.Query, rec.Response, boolToInt(rec.Domain), string(rec.DataKind),
		boolToInt(rec.Fallback), rec.LatencyMS, rec.CreatedAt.Unix(),
	)
	if err != nil {
		logger.Warn("failed to record insight exchange", zap.Error(err), zap.String("id", rec.ID))
	}
}

// Recent returns the latest n logged exchanges, newest first.
func (c *Client) Recent(ctx context.Context, n int) ([]insight.Record, error) {
	rows, err := c.db.QueryContext(ctx,
		`SELECT id, query, response, domain, data_kind, fallback, latency_ms
		 FROM insight_log ORDER BY created_at DESC LIMIT ?`, n)
	if err != nil {
		return nil, fmt.Errorf("failed to query insight log: %w", err)
	}
	defer rows.Close()

	var out []insight.Record
	for rows.Next() {
		var rec insight.Record
		var domain, fallback int
		var kind string
		if err := rows.Scan(&rec.ID, &rec.Query, &rec.Response, &domain, &kind, &fallback, &rec.LatencyMS); err != nil {
			return nil, fmt.Errorf("failed to scan insight log row: %w", err)
		}
		rec.Domain = domain != 0
		rec.Fallback = fallback != 0
		rec.DataKind = insight.DataKind(kind)
		out = append(out, rec)
	}
	return out, rows.Err()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
