package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"github.com/ajaybenii/test-system-backend/internal/config"
)

// Client wraps the SQLite database handle shared by the repositories.
type Client struct {
	db  *sql.DB
	log *zap.Logger
}

// NewClient opens the SQLite database at the configured path and verifies
// the connection. A single connection is used so writes serialize inside
// the driver instead of failing with SQLITE_BUSY.
func NewClient(ctx context.Context, cfg *config.Store, log *zap.Logger) (*Client, error) {
	log.Info("Opening SQLite store", zap.String("path", cfg.Path))

	db, err := sql.Open("sqlite3", cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite store: %w", err)
	}

	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, fmt.Sprintf("PRAGMA busy_timeout = %d;", cfg.BusyTimeoutMs)); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to set busy timeout: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping SQLite store: %w", err)
	}

	log.Info("SQLite store opened successfully")

	return &Client{db: db, log: log}, nil
}

// DB returns the underlying database handle
func (c *Client) DB() *sql.DB {
	return c.db
}

// Ping checks that the store is reachable
func (c *Client) Ping(ctx context.Context) error {
	return c.db.PingContext(ctx)
}

// Close closes the store
func (c *Client) Close() error {
	c.log.Info("Closing SQLite store")
	if err := c.db.Close(); err != nil {
		c.log.Error("Error closing SQLite store", zap.Error(err))
		return err
	}
	return nil
}
