package store

import (
	"context"
	"errors"
	"fmt"

	_ "github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

var ErrUnavailable = errors.New("database unavailable")

// Store holds the process's single database connection. A Store built with
// Unavailable has no connection and fails every call.
type Store struct {
	db      *sqlx.DB
	connErr error
}

// Open connects once and makes sure the prescriptions table exists.
// driver is one of "sqlite3", "postgres" or "mysql".
func Open(ctx context.Context, driver, dataSourceName string) (*Store, error) {
	db, err := sqlx.Open(driver, dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// Every insert shares this one connection.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err = db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	store := &Store{db: db}
	if err = store.initSchema(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return store, nil
}

// Unavailable returns a degraded Store that reports connErr on every call.
func Unavailable(connErr error) *Store {
	return &Store{connErr: connErr}
}

func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) initSchema(ctx context.Context) error {
	schema := `
    CREATE TABLE IF NOT EXISTS prescriptions (
        user_id TEXT NOT NULL,
        symptoms TEXT NOT NULL,
        diagnosis TEXT NOT NULL
    )`
	_, err := s.db.ExecContext(ctx, schema)
	return err
}

func (s *Store) unavailable() error {
	if s.connErr != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, s.connErr)
	}
	return ErrUnavailable
}

// Ping reports whether the connection is usable.
func (s *Store) Ping(ctx context.Context) error {
	if s.db == nil {
		return s.unavailable()
	}
	return s.db.PingContext(ctx)
}

// AddPrescription inserts one row. No transaction, no retry.
func (s *Store) AddPrescription(ctx context.Context, p Prescription) error {
	if s.db == nil {
		return s.unavailable()
	}

	query := s.db.Rebind("INSERT INTO prescriptions (user_id, symptoms, diagnosis) VALUES (?, ?, ?)")
	if _, err := s.db.ExecContext(ctx, query, p.UserID, p.Symptoms, p.Diagnosis); err != nil {
		return fmt.Errorf("failed to insert prescription: %w", err)
	}
	return nil
}
