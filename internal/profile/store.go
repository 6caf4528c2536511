package profile

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/charmbracelet/log"
)

// store handles all database operations for cached profiles.
//
// Statements use $n placeholders in ascending order of first use, which both
// PostgreSQL and SQLite bind positionally.
type store struct {
	db *sql.DB
}

// New creates a new ProfileStore.
func New(db *sql.DB) ProfileStore {
	return &store{
		db: db,
	}
}

// withConn checks out one pooled connection for a single unit of work and
// returns it to the pool on every exit path.
func (s *store) withConn(ctx context.Context, op string, fn func(conn *sql.Conn) error) error {
	conn, err := s.db.Conn(ctx)
	if err != nil {
		return &StoreError{Op: op, Err: err}
	}
	defer conn.Close()

	if err := fn(conn); err != nil {
		if errors.Is(err, ErrNotFound) {
			return err
		}
		return &StoreError{Op: op, Err: err}
	}
	return nil
}

// Get returns the record for id, or nil when it has never been backfilled.
func (s *store) Get(ctx context.Context, id string) (*Record, error) {
	var record *Record
	err := s.withConn(ctx, "get", func(conn *sql.Conn) error {
		row := conn.QueryRowContext(ctx, `
			SELECT id, riot_data, mastery_data, last_update_riot, lcu_data, last_update_lcu
			FROM users
			WHERE id = $1
		`, id)

		var (
			r                 Record
			riotData, mastery string
			riotUpdated       int64
			lcuData           sql.NullString
			lcuUpdated        sql.NullInt64
		)
		err := row.Scan(&r.ID, &riotData, &mastery, &riotUpdated, &lcuData, &lcuUpdated)
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}
		if err != nil {
			return err
		}

		r.RiotData = json.RawMessage(riotData)
		r.MasteryData = json.RawMessage(mastery)
		r.RiotUpdatedAt = time.UnixMilli(riotUpdated)
		if lcuData.Valid {
			r.LCUData = json.RawMessage(lcuData.String)
		}
		if lcuUpdated.Valid {
			at := time.UnixMilli(lcuUpdated.Int64)
			r.LCUUpdatedAt = &at
		}
		record = &r
		return nil
	})
	if err != nil {
		return nil, err
	}
	return record, nil
}

// UpsertRiotData inserts a new row or refreshes the ranking columns of an
// existing one. Concurrent backfills of the same id collapse into updates.
func (s *store) UpsertRiotData(ctx context.Context, id string, riotData, masteryData json.RawMessage, at time.Time) error {
	return s.withConn(ctx, "upsert riot data", func(conn *sql.Conn) error {
		_, err := conn.ExecContext(ctx, `
			INSERT INTO users (id, riot_data, mastery_data, last_update_riot)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (id) DO UPDATE SET
				riot_data = excluded.riot_data,
				mastery_data = excluded.mastery_data,
				last_update_riot = excluded.last_update_riot
		`, id, string(riotData), string(masteryData), at.UnixMilli())
		if err != nil {
			return err
		}
		log.FromContext(ctx).Debug("Upserted riot data", "puuid", id)
		return nil
	})
}

// UpdateLCUData overwrites the client snapshot for an existing row without
// ever creating one.
func (s *store) UpdateLCUData(ctx context.Context, id string, lcuData json.RawMessage, at time.Time) error {
	return s.withConn(ctx, "update lcu data", func(conn *sql.Conn) error {
		res, err := conn.ExecContext(ctx, `
			UPDATE users
			SET lcu_data = $1, last_update_lcu = $2
			WHERE id = $3
		`, string(lcuData), at.UnixMilli(), id)
		if err != nil {
			return err
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if affected == 0 {
			return ErrNotFound
		}
		return nil
	})
}
