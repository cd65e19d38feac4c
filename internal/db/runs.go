package db

import (
	"database/sql"

	"github.com/hpungsan/scorelog/internal/errors"
)

// Run records one completed mark transfer: the scored file rewritten, the
// mark line inserted into it, and the chain that produced the offsets.
type Run struct {
	ID         string `json:"id"` // ULID
	Dir        string `json:"dir"`
	NameCore   string `json:"name_core"`
	ScoredFile string `json:"scored_file"`
	MarkLine   string `json:"mark_line"`
	MarkFrame  int    `json:"mark_frame"`
	MarkTime   string `json:"mark_time"`
	Segments   int    `json:"segments"` // chain length
	CreatedAt  int64  `json:"created_at"`
}

// InsertRun stores a new run record.
func InsertRun(db *sql.DB, r *Run) error {
	query := `
		INSERT INTO runs (
			id, dir, name_core, scored_file, mark_line,
			mark_frame, mark_time, segments, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := db.Exec(query,
		r.ID, r.Dir, r.NameCore, r.ScoredFile, r.MarkLine,
		r.MarkFrame, r.MarkTime, r.Segments, r.CreatedAt,
	)
	if err != nil {
		return errors.NewInternal(err)
	}

	return nil
}

// GetRun retrieves a run by its ULID.
func GetRun(db *sql.DB, id string) (*Run, error) {
	query := `
		SELECT id, dir, name_core, scored_file, mark_line,
			mark_frame, mark_time, segments, created_at
		FROM runs
		WHERE id = ?
	`

	r := &Run{}
	err := db.QueryRow(query, id).Scan(
		&r.ID, &r.Dir, &r.NameCore, &r.ScoredFile, &r.MarkLine,
		&r.MarkFrame, &r.MarkTime, &r.Segments, &r.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFound(id)
	}
	if err != nil {
		return nil, errors.NewInternal(err)
	}

	return r, nil
}

// ListRuns returns runs ordered by creation time descending, with the total
// count for pagination.
func ListRuns(db *sql.DB, nameCore string, limit, offset int) ([]*Run, int, error) {
	countQuery := "SELECT COUNT(*) FROM runs"
	listQuery := `
		SELECT id, dir, name_core, scored_file, mark_line,
			mark_frame, mark_time, segments, created_at
		FROM runs
	`

	var countArgs, listArgs []any
	if nameCore != "" {
		countQuery += " WHERE name_core = ?"
		listQuery += " WHERE name_core = ?"
		countArgs = append(countArgs, nameCore)
		listArgs = append(listArgs, nameCore)
	}
	listQuery += " ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?"
	listArgs = append(listArgs, limit, offset)

	var total int
	if err := db.QueryRow(countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, errors.NewInternal(err)
	}

	rows, err := db.Query(listQuery, listArgs...)
	if err != nil {
		return nil, 0, errors.NewInternal(err)
	}
	defer rows.Close()

	var runs []*Run
	for rows.Next() {
		r := &Run{}
		if err := rows.Scan(
			&r.ID, &r.Dir, &r.NameCore, &r.ScoredFile, &r.MarkLine,
			&r.MarkFrame, &r.MarkTime, &r.Segments, &r.CreatedAt,
		); err != nil {
			return nil, 0, errors.NewInternal(err)
		}
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, errors.NewInternal(err)
	}

	return runs, total, nil
}
