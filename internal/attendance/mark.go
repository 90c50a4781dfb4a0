package attendance

import (
	"context"
	"strings"

	"github.com/Matiu01/BACKEND-ESCUELA/internal/apperr"
)

// Mark kinds. The literal values are part of the stored data model.
const (
	KindEntry = "entrada"
	KindExit  = "salida"
)

// Mark is a single entry or exit event for a person. StampedAt is assigned by
// the database in server localtime.
type Mark struct {
	ID         int64  `json:"id" db:"id"`
	School     string `json:"school" db:"school"`
	PersonID   *int64 `json:"person_id" db:"person_id"`
	PersonName string `json:"person_name" db:"person_name"`
	Email      string `json:"email" db:"email"`
	Kind       string `json:"kind" db:"kind"`
	StampedAt  string `json:"timestamp" db:"stamped_at"`
}

func validKind(kind string) bool {
	return kind == KindEntry || kind == KindExit
}

// Record appends a mark. Person id, name and email are all optional.
func (s *Service) Record(ctx context.Context, school string, personID *int64, personName, email, kind string) (Mark, error) {
	kind = strings.ToLower(kind)
	if school == "" || !validKind(kind) {
		return Mark{}, apperr.Validation("school and a kind of entrada or salida are required")
	}
	return s.insertMark(ctx, school, personID, personName, email, kind)
}

// RecordByName is the door-kiosk variant: the person is identified by name,
// never by a user id.
func (s *Service) RecordByName(ctx context.Context, school, personName, email, kind string) (Mark, error) {
	kind = strings.ToLower(kind)
	if school == "" || personName == "" || !validKind(kind) {
		return Mark{}, apperr.Validation("school, person_name and a kind of entrada or salida are required")
	}
	return s.insertMark(ctx, school, nil, personName, email, kind)
}

func (s *Service) insertMark(ctx context.Context, school string, personID *int64, personName, email, kind string) (Mark, error) {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO attendance_marks (school, person_id, person_name, email, kind)
		VALUES (?, ?, ?, ?, ?)
	`, school, personID, personName, email, kind)
	if err != nil {
		return Mark{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return Mark{}, err
	}

	// Re-read so the caller gets the db-assigned timestamp.
	var m Mark
	err = s.db.GetContext(ctx, &m, `
		SELECT id, school, person_id, person_name, email, kind, stamped_at
		FROM attendance_marks
		WHERE id = ?
	`, id)
	return m, err
}

// ListMarks returns a school's mark log, newest first. Bounds are inclusive
// and compared at full timestamp granularity.
func (s *Service) ListMarks(ctx context.Context, school, from, to string) ([]Mark, error) {
	query := `
		SELECT id, school, person_id, person_name, email, kind, stamped_at
		FROM attendance_marks
		WHERE school = ?`
	args := []interface{}{school}
	if from != "" {
		query += " AND datetime(stamped_at) >= datetime(?)"
		args = append(args, from)
	}
	if to != "" {
		query += " AND datetime(stamped_at) <= datetime(?)"
		args = append(args, to)
	}
	query += " ORDER BY stamped_at DESC, id DESC"

	var marks []Mark
	if err := s.db.SelectContext(ctx, &marks, query, args...); err != nil {
		return nil, err
	}
	if marks == nil {
		marks = []Mark{}
	}
	return marks, nil
}
