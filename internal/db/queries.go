package db

import (
	"database/sql"
	"encoding/json"
	stderrors "errors"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/hpungsan/sorteador/internal/draw"
	"github.com/hpungsan/sorteador/internal/errors"
)

// State is the persisted part of a session: where the items come from and
// the last draw result.
type State struct {
	Source         string
	Column         string
	CategoryColumn string
	Last           *draw.Result
	UpdatedAt      int64
}

// Export is one row of the export log.
type Export struct {
	ID        string `json:"id"`
	Path      string `json:"path"`
	Kind      string `json:"kind"`
	CreatedAt int64  `json:"created_at"`
}

// SaveState upserts the single session row.
func SaveState(db *sql.DB, s State) error {
	var lastJSON sql.NullString
	if s.Last != nil {
		data, err := json.Marshal(s.Last)
		if err != nil {
			return errors.NewInternal(err)
		}
		lastJSON = sql.NullString{String: string(data), Valid: true}
	}

	query := `
		INSERT INTO session (id, source_path, column_letter, category_column, last_result_json, updated_at)
		VALUES (1, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			source_path = excluded.source_path,
			column_letter = excluded.column_letter,
			category_column = excluded.category_column,
			last_result_json = excluded.last_result_json,
			updated_at = excluded.updated_at
	`
	if _, err := db.Exec(query, s.Source, s.Column, s.CategoryColumn, lastJSON, time.Now().Unix()); err != nil {
		return errors.NewInternal(err)
	}
	return nil
}

// LoadState returns the stored session, or a zero State if none was saved.
// A stored result that no longer decodes is reported as CORRUPT_STATE with
// the rest of the state intact.
func LoadState(db *sql.DB) (State, error) {
	var (
		s        State
		lastJSON sql.NullString
	)
	err := db.QueryRow(`
		SELECT source_path, column_letter, category_column, last_result_json, updated_at
		FROM session WHERE id = 1
	`).Scan(&s.Source, &s.Column, &s.CategoryColumn, &lastJSON, &s.UpdatedAt)
	if stderrors.Is(err, sql.ErrNoRows) {
		return State{}, nil
	}
	if err != nil {
		return State{}, errors.NewInternal(err)
	}

	if lastJSON.Valid && lastJSON.String != "" {
		var r draw.Result
		if err := json.Unmarshal([]byte(lastJSON.String), &r); err != nil {
			return s, errors.NewCorruptState("session.last_result_json", err)
		}
		s.Last = &r
	}
	return s, nil
}

// ClearState removes the session row.
func ClearState(db *sql.DB) error {
	if _, err := db.Exec(`DELETE FROM session`); err != nil {
		return errors.NewInternal(err)
	}
	return nil
}

// RecordExport appends an export to the log and returns it.
func RecordExport(db *sql.DB, path string, kind draw.Kind) (*Export, error) {
	e := &Export{
		ID:        ulid.Make().String(),
		Path:      path,
		Kind:      string(kind),
		CreatedAt: time.Now().Unix(),
	}
	_, err := db.Exec(`INSERT INTO exports (id, path, kind, created_at) VALUES (?, ?, ?, ?)`,
		e.ID, e.Path, e.Kind, e.CreatedAt)
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	return e, nil
}

// LatestExport returns the most recent export, or nil if none exists.
func LatestExport(db *sql.DB) (*Export, error) {
	var e Export
	err := db.QueryRow(`
		SELECT id, path, kind, created_at FROM exports
		ORDER BY created_at DESC, id DESC LIMIT 1
	`).Scan(&e.ID, &e.Path, &e.Kind, &e.CreatedAt)
	if stderrors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	return &e, nil
}

// CountExports returns the number of logged exports.
func CountExports(db *sql.DB) (int, error) {
	var n int
	if err := db.QueryRow(`SELECT COUNT(*) FROM exports`).Scan(&n); err != nil {
		return 0, errors.NewInternal(err)
	}
	return n, nil
}
