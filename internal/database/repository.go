package database

import (
	"database/sql"
	"errors"
	"fmt"
)

// ErrNotFound is returned when no record exists for a date.
var ErrNotFound = errors.New("record not found")

type Repository struct {
	Db *Database
}

func NewRepository(db *Database) *Repository {
	return &Repository{Db: db}
}

const recordColumns = `id, date, activity_1, proportion_1, activity_2, proportion_2,
	activity_3, proportion_3, note, updated_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(s scanner) (ActivityRecord, error) {
	var rec ActivityRecord
	err := s.Scan(
		&rec.ID,
		&rec.Date,
		&rec.Activities[0], &rec.Proportions[0],
		&rec.Activities[1], &rec.Proportions[1],
		&rec.Activities[2], &rec.Proportions[2],
		&rec.Note,
		&rec.UpdatedAt,
	)
	return rec, err
}

// GetRecord loads the record for date.
func (r *Repository) GetRecord(date string) (*ActivityRecord, error) {
	row := r.Db.db.QueryRow(`SELECT `+recordColumns+` FROM activities WHERE date = ?`, date)
	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get record %s: %w", date, err)
	}
	return &rec, nil
}

// SaveRecord inserts the record or replaces the one stored for its date.
func (r *Repository) SaveRecord(rec ActivityRecord) error {
	if err := rec.Proportions.Validate(); err != nil {
		return fmt.Errorf("save record %s: %w", rec.Date, err)
	}

	_, err := r.Db.db.Exec(`
		INSERT INTO activities
		(date, activity_1, proportion_1, activity_2, proportion_2, activity_3, proportion_3, note, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(date) DO UPDATE SET
			activity_1 = excluded.activity_1,
			proportion_1 = excluded.proportion_1,
			activity_2 = excluded.activity_2,
			proportion_2 = excluded.proportion_2,
			activity_3 = excluded.activity_3,
			proportion_3 = excluded.proportion_3,
			note = excluded.note,
			updated_at = CURRENT_TIMESTAMP
	`, rec.Date,
		rec.Activities[0], rec.Proportions[0],
		rec.Activities[1], rec.Proportions[1],
		rec.Activities[2], rec.Proportions[2],
		rec.Note)
	if err != nil {
		return fmt.Errorf("save record %s: %w", rec.Date, err)
	}
	return nil
}

// ListRecords returns records dated on or after since, oldest first. An
// empty since returns everything.
func (r *Repository) ListRecords(since string) ([]ActivityRecord, error) {
	rows, err := r.Db.db.Query(`
		SELECT `+recordColumns+`
		FROM activities
		WHERE date >= ?
		ORDER BY date
	`, since)
	if err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}
	defer rows.Close()

	var records []ActivityRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

func (r *Repository) DeleteRecord(date string) error {
	res, err := r.Db.db.Exec("DELETE FROM activities WHERE date = ?", date)
	if err != nil {
		return fmt.Errorf("delete record %s: %w", date, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repository) CountRecords() (int, error) {
	var n int
	if err := r.Db.db.QueryRow("SELECT COUNT(*) FROM activities").Scan(&n); err != nil {
		return 0, fmt.Errorf("count records: %w", err)
	}
	return n, nil
}
