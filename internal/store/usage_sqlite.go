package store

import (
	"context"
	"database/sql"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

const usageFileName = "usage.sqlite"

// LaunchRecord is one launch request as stored in the usage history.
type LaunchRecord struct {
	AppID    string    `json:"appId"`
	Name     string    `json:"name"`
	Location string    `json:"location"`
	At       time.Time `json:"at"`
}

// UsageCount aggregates launches per bundle location.
type UsageCount struct {
	Location string    `json:"location"`
	Name     string    `json:"name"`
	Count    int       `json:"count"`
	LastAt   time.Time `json:"lastAt"`
}

func (s Store) usagePath() string {
	return filepath.Join(s.Dir, usageFileName)
}

func (s Store) openUsage(ctx context.Context) (*sql.DB, error) {
	if err := s.Ensure(); err != nil {
		return nil, err
	}
	// modernc.org/sqlite driver name is "sqlite".
	db, err := sql.Open("sqlite", s.usagePath())
	if err != nil {
		return nil, err
	}
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	if err := migrateUsage(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

func migrateUsage(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS launches (
			seq INTEGER PRIMARY KEY AUTOINCREMENT,
			app_id TEXT NOT NULL,
			name TEXT NOT NULL,
			location TEXT NOT NULL,
			launched_at_unixms INTEGER NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_launches_location ON launches(location);`,
		`CREATE INDEX IF NOT EXISTS idx_launches_at ON launches(launched_at_unixms);`,
	}
	for _, st := range stmts {
		if _, err := db.ExecContext(ctx, st); err != nil {
			return err
		}
	}
	return nil
}

// RecordLaunch appends one launch to the usage history.
func (s Store) RecordLaunch(ctx context.Context, rec LaunchRecord) error {
	db, err := s.openUsage(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	if rec.At.IsZero() {
		rec.At = time.Now()
	}
	_, err = db.ExecContext(ctx,
		`INSERT INTO launches(app_id, name, location, launched_at_unixms) VALUES(?, ?, ?, ?)`,
		strings.TrimSpace(rec.AppID), rec.Name, rec.Location, rec.At.UnixMilli(),
	)
	return err
}

// RecentLaunches returns the newest launches first. limit <= 0 means all.
func (s Store) RecentLaunches(ctx context.Context, limit int) ([]LaunchRecord, error) {
	db, err := s.openUsage(ctx)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	q := `SELECT app_id, name, location, launched_at_unixms FROM launches ORDER BY seq DESC`
	var rows *sql.Rows
	if limit > 0 {
		rows, err = db.QueryContext(ctx, q+` LIMIT ?`, limit)
	} else {
		rows, err = db.QueryContext(ctx, q)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []LaunchRecord{}
	for rows.Next() {
		var (
			rec LaunchRecord
			ms  int64
		)
		if err := rows.Scan(&rec.AppID, &rec.Name, &rec.Location, &ms); err != nil {
			return nil, err
		}
		rec.At = time.UnixMilli(ms).UTC()
		out = append(out, rec)
	}
	return out, rows.Err()
}

// UsageCounts returns launch counts per location, most used first.
func (s Store) UsageCounts(ctx context.Context) ([]UsageCount, error) {
	db, err := s.openUsage(ctx)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	rows, err := db.QueryContext(ctx, `
		SELECT location,
			(SELECT l2.name FROM launches l2 WHERE l2.location = l.location ORDER BY l2.seq DESC LIMIT 1),
			COUNT(*),
			MAX(launched_at_unixms)
		FROM launches l
		GROUP BY location
		ORDER BY COUNT(*) DESC, MAX(launched_at_unixms) DESC, location ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []UsageCount{}
	for rows.Next() {
		var (
			u  UsageCount
			ms int64
		)
		if err := rows.Scan(&u.Location, &u.Name, &u.Count, &ms); err != nil {
			return nil, err
		}
		u.LastAt = time.UnixMilli(ms).UTC()
		out = append(out, u)
	}
	return out, rows.Err()
}
