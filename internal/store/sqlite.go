package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"labreserve/internal/model"
)

// SQLite persists reservations in a single SQLite file.
type SQLite struct {
	db *sql.DB
}

// OpenSQLite opens the database at path and runs migrations.
func OpenSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}
	if err := createTables(db); err != nil {
		return nil, err
	}
	return &SQLite{db: db}, nil
}

func createTables(db *sql.DB) error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS reservations (
			id TEXT PRIMARY KEY,
			date TEXT NOT NULL,
			start_hour INTEGER NOT NULL,
			end_hour INTEGER NOT NULL,
			duration INTEGER NOT NULL,
			group_name TEXT NOT NULL,
			subject TEXT NOT NULL,
			instructor TEXT NOT NULL,
			student_count INTEGER NOT NULL DEFAULT 0,
			notes TEXT,
			status TEXT NOT NULL DEFAULT 'confirmed',
			created_at DATETIME NOT NULL,
			responsible TEXT NOT NULL
		)`,

		`CREATE INDEX IF NOT EXISTS idx_reservations_date ON reservations(date)`,
		`CREATE INDEX IF NOT EXISTS idx_reservations_status ON reservations(status)`,
	}

	for _, q := range queries {
		if _, err := db.Exec(q); err != nil {
			return fmt.Errorf("exec migration: %w", err)
		}
	}
	return nil
}

// ReadAll returns every reservation ordered by date and start hour.
func (s *SQLite) ReadAll(ctx context.Context) ([]model.Reservation, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, date, start_hour, end_hour, duration, group_name, subject,
		       instructor, student_count, notes, status, created_at, responsible
		FROM reservations
		ORDER BY date, start_hour`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reservations []model.Reservation
	for rows.Next() {
		var r model.Reservation
		var notes sql.NullString
		if err := rows.Scan(
			&r.ID, &r.Date, &r.StartHour, &r.EndHour, &r.Duration, &r.Group,
			&r.Subject, &r.Instructor, &r.StudentCount, &notes, &r.Status,
			&r.CreatedAt, &r.Responsible,
		); err != nil {
			return nil, err
		}
		if notes.Valid {
			r.Notes = notes.String
		}
		reservations = append(reservations, r)
	}
	return reservations, rows.Err()
}

// WriteAll replaces the full reservation set in one transaction.
func (s *SQLite) WriteAll(ctx context.Context, reservations []model.Reservation) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	if _, err := tx.ExecContext(ctx, "DELETE FROM reservations"); err != nil {
		return fmt.Errorf("clear reservations: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO reservations (
			id, date, start_hour, end_hour, duration, group_name, subject,
			instructor, student_count, notes, status, created_at, responsible
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, r := range reservations {
		if _, err := stmt.ExecContext(ctx,
			r.ID, r.Date, r.StartHour, r.EndHour, r.Duration, r.Group,
			r.Subject, r.Instructor, r.StudentCount, r.Notes, r.Status,
			r.CreatedAt, r.Responsible,
		); err != nil {
			return fmt.Errorf("insert reservation %s: %w", r.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	committed = true
	return nil
}

// PingContext verifies the database connection.
func (s *SQLite) PingContext(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the underlying database.
func (s *SQLite) Close() error {
	return s.db.Close()
}

// Backup writes a consistent snapshot of the database to dest.
func (s *SQLite) Backup(dest string) error {
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return fmt.Errorf("create backup directory: %w", err)
	}
	if _, err := s.db.Exec("VACUUM INTO ?", dest); err != nil {
		return fmt.Errorf("vacuum into %s: %w", dest, err)
	}
	return nil
}

// CleanupBackups removes backup files older than retention. Returns the
// number of files deleted.
func (s *SQLite) CleanupBackups(dir string, retention time.Duration) (int, error) {
	files, err := os.ReadDir(dir)
	if err != nil {
		return 0, err
	}

	cutoff := time.Now().Add(-retention)
	deleted := 0
	for _, file := range files {
		if file.IsDir() {
			continue
		}
		info, err := file.Info()
		if err != nil {
			continue
		}
		if info.ModTime().Before(cutoff) {
			if err := os.Remove(filepath.Join(dir, file.Name())); err == nil {
				deleted++
			}
		}
	}
	return deleted, nil
}
