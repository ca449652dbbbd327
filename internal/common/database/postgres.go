package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"traveler-classifier/internal/common/config"

	_ "github.com/lib/pq"
)

// PostgresClient holds the read-only connection used for survey reference data.
type PostgresClient struct {
	DB *sql.DB
}

func NewPostgres(cfg config.PostgresConfig) (*PostgresClient, error) {
	db, err := sql.Open("postgres", cfg.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxConnections)
	db.SetMaxIdleConns(cfg.MaxIdle)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(5 * time.Minute)

	return &PostgresClient{DB: db}, nil
}

// Connect opens the pool and fails fast when the server is unreachable.
func Connect(ctx context.Context, cfg config.PostgresConfig) (*PostgresClient, error) {
	client, err := NewPostgres(cfg)
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx); err != nil {
		client.Close()
		return nil, fmt.Errorf("postgres ping failed: %w", err)
	}
	return client, nil
}

func (c *PostgresClient) Ping(ctx context.Context) error {
	return c.DB.PingContext(ctx)
}

func (c *PostgresClient) Close() error {
	if c.DB != nil {
		return c.DB.Close()
	}
	return nil
}
