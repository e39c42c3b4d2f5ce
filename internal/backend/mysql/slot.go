// Package mysql implements tasklist.Slot on a MySQL table of named slots.
package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	driver "github.com/go-sql-driver/mysql"

	"gtodo/internal/tasklist"
)

// QueryTimeout bounds each statement.
const QueryTimeout = 5 * time.Second

const createSlots = `CREATE TABLE IF NOT EXISTS gtodo_slots (
    name VARCHAR(191) NOT NULL PRIMARY KEY,
    payload MEDIUMTEXT NOT NULL,
    updated_at DATETIME NOT NULL
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`

// Slot stores one named task list as a JSON payload row.
type Slot struct {
	db   *sql.DB
	name string
}

// Open connects to dsn, ensures the table exists and returns the slot name.
func Open(ctx context.Context, dsn, name string) (*Slot, error) {
	cfg, err := ParseDSN(dsn)
	if err != nil {
		return nil, err
	}
	conn, err := driver.NewConnector(cfg)
	if err != nil {
		return nil, fmt.Errorf("mysql connector: %w", err)
	}
	db := sql.OpenDB(conn)

	pingCtx, cancel := context.WithTimeout(ctx, QueryTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("mysql ping: %w", err)
	}

	s := &Slot{db: db, name: name}
	if err := s.migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// ParseDSN validates dsn and enables the options the slot relies on.
func ParseDSN(dsn string) (*driver.Config, error) {
	if dsn == "" {
		return nil, errors.New("mysql dsn is empty")
	}
	cfg, err := driver.ParseDSN(dsn)
	if err != nil {
		return nil, fmt.Errorf("invalid mysql dsn: %w", err)
	}
	cfg.ParseTime = true
	if cfg.Params == nil {
		cfg.Params = map[string]string{}
	}
	if _, ok := cfg.Params["charset"]; !ok {
		cfg.Params["charset"] = "utf8mb4"
	}
	return cfg, nil
}

// Close releases the connection pool.
func (s *Slot) Close() error { return s.db.Close() }

func (s *Slot) migrate(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeout)
	defer cancel()
	if _, err := s.db.ExecContext(ctx, createSlots); err != nil {
		return fmt.Errorf("mysql migrate: %w", err)
	}
	return nil
}

// Load implements tasklist.Slot.
func (s *Slot) Load(ctx context.Context) ([]tasklist.Task, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeout)
	defer cancel()

	var payload string
	err := s.db.QueryRowContext(ctx,
		`SELECT payload FROM gtodo_slots WHERE name = ?`, s.name).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, tasklist.ErrSlotEmpty
	}
	if err != nil {
		return nil, fmt.Errorf("mysql load: %w", err)
	}
	return tasklist.Unmarshal([]byte(payload))
}

// Save implements tasklist.Slot.
func (s *Slot) Save(ctx context.Context, tasks []tasklist.Task) error {
	data, err := tasklist.Marshal(tasks)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, QueryTimeout)
	defer cancel()

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO gtodo_slots (name, payload, updated_at) VALUES (?, ?, ?)
         ON DUPLICATE KEY UPDATE payload = VALUES(payload), updated_at = VALUES(updated_at)`,
		s.name, string(data), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("mysql save: %w", err)
	}
	return nil
}
