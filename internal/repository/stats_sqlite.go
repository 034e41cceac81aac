package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

type sqliteStats struct {
	conn *sql.DB
}

// NewSQLiteStatsRepository - expects the stats table created by storage.SQLiteStorage.Init.
func NewSQLiteStatsRepository(conn *sql.DB) StatsRepository {
	return &sqliteStats{
		conn: conn,
	}
}

func (that *sqliteStats) Get(ctx context.Context, key string) (int, bool, error) {
	query := `SELECT value FROM stats WHERE key = ?`

	var value int

	err := that.conn.QueryRowContext(ctx, query, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("can't get stat %s: %w", key, err)
	}

	return value, true, nil
}

func (that *sqliteStats) Set(ctx context.Context, key string, value int) error {
	query := `INSERT INTO stats (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value`

	if _, err := that.conn.ExecContext(ctx, query, key, value); err != nil {
		return fmt.Errorf("can't set stat %s: %w", key, err)
	}

	return nil
}

func (that *sqliteStats) Remove(ctx context.Context, key string) error {
	query := `DELETE FROM stats WHERE key = ?`

	if _, err := that.conn.ExecContext(ctx, query, key); err != nil {
		return fmt.Errorf("can't remove stat %s: %w", key, err)
	}

	return nil
}
