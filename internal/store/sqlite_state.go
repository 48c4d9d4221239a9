package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"plantdeck/internal/model"

	_ "modernc.org/sqlite"
)

func (s Store) sqlitePath() string {
	return filepath.Join(filepath.Clean(s.Dir), "index.sqlite")
}

func (s Store) openSQLite(ctx context.Context) (*sql.DB, error) {
	if err := s.Ensure(); err != nil {
		return nil, err
	}
	// modernc.org/sqlite driver name is "sqlite".
	db, err := sql.Open("sqlite", s.sqlitePath())
	if err != nil {
		return nil, err
	}
	// Pragmas for multi-process local usage. WAL enables one writer + many
	// readers; busy_timeout avoids "database is locked" flakiness when the
	// TUI and a scripted CLI touch the same workspace.
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA foreign_keys=ON;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	if err := migrateSQLite(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

func migrateSQLite(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS state_meta (
			k TEXT PRIMARY KEY,
			v TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS actors (
			id TEXT PRIMARY KEY,
			json TEXT NOT NULL,
			updated_at_unixms INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS facilities (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			archived INTEGER NOT NULL,
			json TEXT NOT NULL,
			updated_at_unixms INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS lines (
			id TEXT PRIMARY KEY,
			facility_id TEXT NOT NULL,
			name TEXT NOT NULL,
			archived INTEGER NOT NULL,
			json TEXT NOT NULL,
			updated_at_unixms INTEGER NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_lines_facility ON lines(facility_id);`,
		`CREATE TABLE IF NOT EXISTS equipment (
			id TEXT PRIMARY KEY,
			facility_id TEXT NOT NULL,
			line_id TEXT NOT NULL,
			rank TEXT NOT NULL,
			name TEXT NOT NULL,
			status_id TEXT NOT NULL,
			critical INTEGER NOT NULL,
			archived INTEGER NOT NULL,
			owner_actor_id TEXT NOT NULL,
			assigned_actor_id TEXT NOT NULL,
			tags_json TEXT NOT NULL,
			json TEXT NOT NULL,
			updated_at_unixms INTEGER NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_equipment_line ON equipment(line_id);`,
		`CREATE INDEX IF NOT EXISTS idx_equipment_status ON equipment(status_id);`,
		`CREATE TABLE IF NOT EXISTS work_orders (
			id TEXT PRIMARY KEY,
			equipment_id TEXT NOT NULL,
			status_id TEXT NOT NULL,
			priority INTEGER NOT NULL,
			due_date TEXT NOT NULL,
			json TEXT NOT NULL,
			updated_at_unixms INTEGER NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_work_orders_equipment ON work_orders(equipment_id);`,
		`CREATE INDEX IF NOT EXISTS idx_work_orders_status ON work_orders(status_id);`,
		`CREATE TABLE IF NOT EXISTS inspections (
			id TEXT PRIMARY KEY,
			equipment_id TEXT NOT NULL,
			result TEXT NOT NULL,
			created_at_unixms INTEGER NOT NULL,
			json TEXT NOT NULL,
			updated_at_unixms INTEGER NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_inspections_equipment ON inspections(equipment_id, created_at_unixms);`,
		`CREATE TABLE IF NOT EXISTS events (
			event_id TEXT PRIMARY KEY,
			ts_unixms INTEGER NOT NULL,
			actor_id TEXT NOT NULL,
			type TEXT NOT NULL,
			entity_id TEXT NOT NULL,
			payload_json TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_events_entity ON events(entity_id, ts_unixms);`,
		`CREATE INDEX IF NOT EXISTS idx_events_ts ON events(ts_unixms);`,
	}
	for _, st := range stmts {
		if _, err := db.ExecContext(ctx, st); err != nil {
			return err
		}
	}
	return nil
}

func (s Store) LoadSQLite(ctx context.Context) (*DB, error) {
	db, err := s.openSQLite(ctx)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	out := &DB{Version: 1}

	readMeta := func(k string) string {
		var v string
		_ = db.QueryRowContext(ctx, `SELECT v FROM state_meta WHERE k = ?`, k).Scan(&v)
		return strings.TrimSpace(v)
	}
	if v := readMeta("version"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			out.Version = n
		}
	}
	out.CurrentActorID = readMeta("current_actor_id")
	out.CurrentFacilityID = readMeta("current_facility_id")

	if xs, err := readJSONRows[model.Actor](ctx, db, `SELECT json FROM actors`); err == nil {
		out.Actors = xs
	} else {
		return nil, err
	}
	if xs, err := readJSONRows[model.Facility](ctx, db, `SELECT json FROM facilities`); err == nil {
		out.Facilities = xs
	} else {
		return nil, err
	}
	if xs, err := readJSONRows[model.Line](ctx, db, `SELECT json FROM lines`); err == nil {
		out.Lines = xs
	} else {
		return nil, err
	}
	if xs, err := readJSONRows[model.Equipment](ctx, db, `SELECT json FROM equipment`); err == nil {
		out.Equipment = xs
	} else {
		return nil, err
	}
	if xs, err := readJSONRows[model.WorkOrder](ctx, db, `SELECT json FROM work_orders`); err == nil {
		out.WorkOrders = xs
	} else {
		return nil, err
	}
	if xs, err := readJSONRows[model.Inspection](ctx, db, `SELECT json FROM inspections`); err == nil {
		out.Inspections = xs
	} else {
		return nil, err
	}

	// Nil slices become empty for stable callers.
	if out.Actors == nil {
		out.Actors = []model.Actor{}
	}
	if out.Facilities == nil {
		out.Facilities = []model.Facility{}
	}
	if out.Lines == nil {
		out.Lines = []model.Line{}
	}
	if out.Equipment == nil {
		out.Equipment = []model.Equipment{}
	}
	if out.WorkOrders == nil {
		out.WorkOrders = []model.WorkOrder{}
	}
	if out.Inspections == nil {
		out.Inspections = []model.Inspection{}
	}

	return out, nil
}

func (s Store) SaveSQLite(ctx context.Context, st *DB) error {
	if st == nil {
		return errors.New("nil db")
	}
	db, err := s.openSQLite(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	tx, err := db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `INSERT OR REPLACE INTO state_meta(k, v) VALUES(?, ?)`, "version", fmt.Sprintf("%d", st.Version)); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `INSERT OR REPLACE INTO state_meta(k, v) VALUES(?, ?)`, "current_actor_id", strings.TrimSpace(st.CurrentActorID)); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `INSERT OR REPLACE INTO state_meta(k, v) VALUES(?, ?)`, "current_facility_id", strings.TrimSpace(st.CurrentFacilityID)); err != nil {
		return err
	}

	// Replace-all strategy: simple + safe at workspace scale; the events table
	// is append-only and is left alone here.
	tables := []string{
		"actors",
		"facilities",
		"lines",
		"equipment",
		"work_orders",
		"inspections",
	}
	for _, t := range tables {
		if _, err := tx.ExecContext(ctx, `DELETE FROM `+t); err != nil {
			return err
		}
	}

	nowMs := time.Now().UTC().UnixMilli()

	for _, a := range st.Actors {
		raw, _ := json.Marshal(a)
		if _, err := tx.ExecContext(ctx, `INSERT INTO actors(id, json, updated_at_unixms) VALUES(?, ?, ?)`, a.ID, string(raw), nowMs); err != nil {
			return err
		}
	}
	for _, f := range st.Facilities {
		raw, _ := json.Marshal(f)
		if _, err := tx.ExecContext(ctx, `INSERT INTO facilities(id, name, archived, json, updated_at_unixms) VALUES(?, ?, ?, ?, ?)`,
			f.ID, f.Name, boolToInt(f.Archived), string(raw), nowMs); err != nil {
			return err
		}
	}
	for _, l := range st.Lines {
		raw, _ := json.Marshal(l)
		if _, err := tx.ExecContext(ctx, `INSERT INTO lines(id, facility_id, name, archived, json, updated_at_unixms) VALUES(?, ?, ?, ?, ?, ?)`,
			l.ID, l.FacilityID, l.Name, boolToInt(l.Archived), string(raw), nowMs); err != nil {
			return err
		}
	}
	for _, e := range st.Equipment {
		raw, _ := json.Marshal(e)
		assigned := ""
		if e.AssignedActorID != nil {
			assigned = strings.TrimSpace(*e.AssignedActorID)
		}
		tagsJSON, _ := json.Marshal(e.Tags)
		if _, err := tx.ExecContext(ctx, `INSERT INTO equipment(
			id, facility_id, line_id, rank,
			name, status_id,
			critical, archived,
			owner_actor_id, assigned_actor_id,
			tags_json,
			json, updated_at_unixms
		) VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			e.ID, e.FacilityID, e.LineID, strings.TrimSpace(e.Rank),
			e.Name, strings.TrimSpace(e.StatusID),
			boolToInt(e.Critical), boolToInt(e.Archived),
			strings.TrimSpace(e.OwnerActorID), assigned,
			string(tagsJSON),
			string(raw), nowMs,
		); err != nil {
			return err
		}
	}
	for _, w := range st.WorkOrders {
		raw, _ := json.Marshal(w)
		if _, err := tx.ExecContext(ctx, `INSERT INTO work_orders(id, equipment_id, status_id, priority, due_date, json, updated_at_unixms) VALUES(?, ?, ?, ?, ?, ?, ?)`,
			w.ID, w.EquipmentID, strings.TrimSpace(w.StatusID), boolToInt(w.Priority), strings.TrimSpace(w.DueDate), string(raw), nowMs); err != nil {
			return err
		}
	}
	for _, in := range st.Inspections {
		raw, _ := json.Marshal(in)
		if _, err := tx.ExecContext(ctx, `INSERT INTO inspections(id, equipment_id, result, created_at_unixms, json, updated_at_unixms) VALUES(?, ?, ?, ?, ?, ?)`,
			in.ID, in.EquipmentID, strings.TrimSpace(in.Result), in.CreatedAt.UTC().UnixMilli(), string(raw), nowMs); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func readJSONRows[T any](ctx context.Context, db *sql.DB, query string) ([]T, error) {
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []T
	for rows.Next() {
		var js string
		if err := rows.Scan(&js); err != nil {
			return nil, err
		}
		var v T
		if err := json.Unmarshal([]byte(js), &v); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
