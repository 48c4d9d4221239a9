package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"plantdeck/internal/model"

	"github.com/google/uuid"
)

// AppendEvent records a mutation in the append-only events table.
//
// Events are an audit trail, not the source of truth: replaying them is not
// required to reconstruct state (Save writes state wholesale).
func (s Store) AppendEvent(actorID, typ, entityID string, payload any) error {
	return s.appendEventSQLite(context.Background(), actorID, typ, entityID, payload)
}

func (s Store) appendEventSQLite(ctx context.Context, actorID, typ, entityID string, payload any) error {
	actorID = strings.TrimSpace(actorID)
	if actorID == "" {
		return errors.New("event: missing actor id")
	}
	typ = strings.TrimSpace(typ)
	if typ == "" {
		return errors.New("event: missing type")
	}
	entityID = strings.TrimSpace(entityID)
	if entityID == "" {
		return errors.New("event: missing entity id")
	}

	db, err := s.openSQLite(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	pb, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	nowMs := time.Now().UTC().UnixMilli()
	_, err = db.ExecContext(ctx, `INSERT INTO events(event_id, ts_unixms, actor_id, type, entity_id, payload_json) VALUES(?, ?, ?, ?, ?, ?)`,
		uuid.NewString(), nowMs, actorID, typ, entityID, string(pb))
	return err
}

// ReadEvents returns events in chronological order. limit <= 0 returns all.
func ReadEvents(dir string, limit int) ([]model.Event, error) {
	return Store{Dir: dir}.readEventsSQLite(context.Background(), "", limit)
}

// ReadEventsForEntity returns events matching entityID in chronological order.
func ReadEventsForEntity(dir, entityID string, limit int) ([]model.Event, error) {
	entityID = strings.TrimSpace(entityID)
	if entityID == "" {
		return []model.Event{}, nil
	}
	return Store{Dir: dir}.readEventsSQLite(context.Background(), entityID, limit)
}

func (s Store) readEventsSQLite(ctx context.Context, entityID string, limit int) ([]model.Event, error) {
	db, err := s.openSQLite(ctx)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	q := `SELECT event_id, ts_unixms, actor_id, type, entity_id, payload_json FROM events`
	args := []any{}
	if entityID != "" {
		q += ` WHERE entity_id = ?`
		args = append(args, entityID)
	}
	// rowid keeps same-millisecond appends in insertion order.
	q += ` ORDER BY ts_unixms ASC, rowid ASC`
	if limit > 0 {
		q += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Event
	for rows.Next() {
		var id, actor, typ, eid, payloadJSON string
		var tsMs int64
		if err := rows.Scan(&id, &tsMs, &actor, &typ, &eid, &payloadJSON); err != nil {
			return nil, err
		}
		var payload any
		_ = json.Unmarshal([]byte(payloadJSON), &payload)
		out = append(out, model.Event{
			ID:       id,
			TS:       time.UnixMilli(tsMs).UTC(),
			ActorID:  actor,
			Type:     typ,
			EntityID: eid,
			Payload:  payload,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if out == nil {
		out = []model.Event{}
	}
	return out, nil
}

// ModTime returns the last time the workspace database changed; the TUI uses
// it to decide when to reload.
func (s Store) ModTime() time.Time {
	db, err := sql.Open("sqlite", s.sqlitePath())
	if err != nil {
		return time.Time{}
	}
	defer db.Close()

	var ms sql.NullInt64
	_ = db.QueryRow(`SELECT MAX(updated_at_unixms) FROM (
		SELECT updated_at_unixms FROM equipment
		UNION ALL SELECT updated_at_unixms FROM work_orders
		UNION ALL SELECT updated_at_unixms FROM inspections
		UNION ALL SELECT updated_at_unixms FROM lines
		UNION ALL SELECT updated_at_unixms FROM facilities
	)`).Scan(&ms)
	if !ms.Valid {
		return time.Time{}
	}
	return time.UnixMilli(ms.Int64).UTC()
}
