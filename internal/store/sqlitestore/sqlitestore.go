// Package sqlitestore keeps the neighborhood master list and the signal cache in SQLite.
package sqlitestore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"vecindario/internal/model"
)

// ErrNotFound is returned when a neighborhood is not in the master list.
var ErrNotFound = errors.New("sqlitestore: not found")

// DB wraps the SQLite database.
type DB struct{ sql *sql.DB }

func Open(path string) (*DB, error) {
	d, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// :memory: databases are per connection
	if path == ":memory:" {
		d.SetMaxOpenConns(1)
	}
	if _, err := d.Exec(`PRAGMA journal_mode=WAL; PRAGMA synchronous=NORMAL;`); err != nil {
		_ = d.Close()
		return nil, err
	}
	db := &DB{sql: d}
	if err := db.migrate(); err != nil {
		_ = d.Close()
		return nil, err
	}
	return db, nil
}

func (d *DB) Close() error { return d.sql.Close() }

func (d *DB) migrate() error {
	_, err := d.sql.Exec(`
	CREATE TABLE IF NOT EXISTS neighborhoods (
	  name TEXT PRIMARY KEY,
	  lat REAL NOT NULL,
	  lon REAL NOT NULL
	);
	CREATE TABLE IF NOT EXISTS signal_cache (
	  name TEXT PRIMARY KEY,
	  payload TEXT NOT NULL,
	  fetched_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_signal_cache_fetched ON signal_cache(fetched_at);
	`)
	return err
}

// UpsertNeighborhoods inserts or updates the given entries in one transaction.
func (d *DB) UpsertNeighborhoods(ctx context.Context, items []model.Neighborhood) error {
	tx, err := d.sql.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
	INSERT INTO neighborhoods(name, lat, lon) VALUES(?,?,?)
	ON CONFLICT(name) DO UPDATE SET lat=excluded.lat, lon=excluded.lon`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, n := range items {
		if n.Name == "" {
			return errors.New("neighborhood without name")
		}
		if _, err := stmt.ExecContext(ctx, n.Name, n.Lat, n.Lon); err != nil {
			return fmt.Errorf("upsert %s: %w", n.Name, err)
		}
	}
	return tx.Commit()
}

// ListNeighborhoods returns the master list ordered by name.
func (d *DB) ListNeighborhoods(ctx context.Context) ([]model.Neighborhood, error) {
	rows, err := d.sql.QueryContext(ctx, `SELECT name, lat, lon FROM neighborhoods ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.Neighborhood
	for rows.Next() {
		var n model.Neighborhood
		if err := rows.Scan(&n.Name, &n.Lat, &n.Lon); err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

// GetNeighborhood looks one entry up by name.
func (d *DB) GetNeighborhood(ctx context.Context, name string) (model.Neighborhood, error) {
	var n model.Neighborhood
	err := d.sql.QueryRowContext(ctx, `SELECT name, lat, lon FROM neighborhoods WHERE name=?`, name).Scan(&n.Name, &n.Lat, &n.Lon)
	if errors.Is(err, sql.ErrNoRows) {
		return n, ErrNotFound
	}
	return n, err
}

// PutSignals stores the latest signals of a neighborhood.
func (d *DB) PutSignals(ctx context.Context, name string, sig model.NeighborhoodSignals, fetchedAt time.Time) error {
	b, err := json.Marshal(sig)
	if err != nil {
		return err
	}
	_, err = d.sql.ExecContext(ctx, `
	INSERT INTO signal_cache(name, payload, fetched_at) VALUES(?,?,?)
	ON CONFLICT(name) DO UPDATE SET payload=excluded.payload, fetched_at=excluded.fetched_at`,
		name, string(b), fetchedAt.UTC().UnixNano())
	return err
}

// GetSignals returns cached signals and their fetch time; ok is false on a miss.
func (d *DB) GetSignals(ctx context.Context, name string) (model.NeighborhoodSignals, time.Time, bool, error) {
	var sig model.NeighborhoodSignals
	var payload string
	var at int64
	err := d.sql.QueryRowContext(ctx, `SELECT payload, fetched_at FROM signal_cache WHERE name=?`, name).Scan(&payload, &at)
	if errors.Is(err, sql.ErrNoRows) {
		return sig, time.Time{}, false, nil
	}
	if err != nil {
		return sig, time.Time{}, false, err
	}
	if err := json.Unmarshal([]byte(payload), &sig); err != nil {
		return sig, time.Time{}, false, fmt.Errorf("decode cached signals: %w", err)
	}
	return sig, time.Unix(0, at).UTC(), true, nil
}

// PurgeSignalsBefore drops cache entries fetched before t and reports how many went.
func (d *DB) PurgeSignalsBefore(ctx context.Context, t time.Time) (int64, error) {
	res, err := d.sql.ExecContext(ctx, `DELETE FROM signal_cache WHERE fetched_at < ?`, t.UTC().UnixNano())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
