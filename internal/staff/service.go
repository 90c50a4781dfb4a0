// Package staff manages teaching staff records and the committees they
// belong to.
package staff

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"log"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/Matiu01/BACKEND-ESCUELA/internal/apperr"
)

// CommitteeNone is the filter sentinel selecting teachers with no committee.
const CommitteeNone = "__none"

// Committee is a named group of teachers within a school.
type Committee struct {
	ID     int64  `json:"id" db:"id"`
	School string `json:"school,omitempty" db:"school"`
	Name   string `json:"name" db:"name"`
}

// Teacher is one staff record. ExtraFields carries the frontend's free-form
// additions and is serialized only at the storage boundary.
type Teacher struct {
	ID            int64                  `json:"id"`
	School        string                 `json:"school"`
	Name          string                 `json:"name"`
	IDCard        string                 `json:"id_card"`
	Position      string                 `json:"position"`
	BornOn        string                 `json:"born_on"`
	Phone1        string                 `json:"phone1"`
	Phone2        string                 `json:"phone2"`
	PhoneExtra    string                 `json:"phone_extra"`
	AdvisorCourse string                 `json:"advisor_course"`
	Committee     string                 `json:"committee"`
	Classes       string                 `json:"classes"`
	ExtraFields   map[string]interface{} `json:"extra_fields"`
}

type teacherRow struct {
	ID            int64  `db:"id"`
	School        string `db:"school"`
	Name          string `db:"name"`
	IDCard        string `db:"id_card"`
	Position      string `db:"position"`
	BornOn        string `db:"born_on"`
	Phone1        string `db:"phone1"`
	Phone2        string `db:"phone2"`
	PhoneExtra    string `db:"phone_extra"`
	AdvisorCourse string `db:"advisor_course"`
	Committee     string `db:"committee"`
	Classes       string `db:"classes"`
	ExtraFields   string `db:"extra_fields"`
}

func (r teacherRow) toTeacher() Teacher {
	extra := map[string]interface{}{}
	if r.ExtraFields != "" {
		if err := json.Unmarshal([]byte(r.ExtraFields), &extra); err != nil {
			log.Printf("warning: teacher %d has a malformed extra_fields blob, defaulting to empty: %v", r.ID, err)
			extra = map[string]interface{}{}
		}
	}
	return Teacher{
		ID:            r.ID,
		School:        r.School,
		Name:          r.Name,
		IDCard:        r.IDCard,
		Position:      r.Position,
		BornOn:        r.BornOn,
		Phone1:        r.Phone1,
		Phone2:        r.Phone2,
		PhoneExtra:    r.PhoneExtra,
		AdvisorCourse: r.AdvisorCourse,
		Committee:     r.Committee,
		Classes:       r.Classes,
		ExtraFields:   extra,
	}
}

// teacherColumns are the columns a partial update may touch.
var teacherColumns = []string{
	"name", "id_card", "position", "born_on",
	"phone1", "phone2", "phone_extra",
	"advisor_course", "committee", "classes", "extra_fields",
}

// Service persists teachers and committees.
type Service struct {
	db *sqlx.DB
}

// NewService creates a service on top of the shared database handle.
func NewService(db *sqlx.DB) *Service {
	return &Service{db: db}
}

// Committees lists a school's committees by name.
func (s *Service) Committees(ctx context.Context, school string) ([]Committee, error) {
	committees := []Committee{}
	err := s.db.SelectContext(ctx, &committees, `
		SELECT id, school, name FROM committees
		WHERE school = ?
		ORDER BY name
	`, school)
	return committees, err
}

// CreateCommittee adds a committee; duplicates are ignored.
func (s *Service) CreateCommittee(ctx context.Context, school, name string) error {
	if school == "" || name == "" {
		return apperr.Validation("school and name are required")
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT OR IGNORE INTO committees (school, name)
		VALUES (?, ?)
	`, school, name)
	return err
}

// DeleteCommittee removes a committee, first clearing the committee field on
// that school's teachers, in one transaction.
func (s *Service) DeleteCommittee(ctx context.Context, id int64) error {
	var com Committee
	err := s.db.GetContext(ctx, &com, `SELECT id, school, name FROM committees WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return apperr.NotFound("committee not found")
	}
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
		UPDATE teachers SET committee = '' WHERE school = ? AND committee = ?
	`, com.School, com.Name); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM committees WHERE id = ?`, id); err != nil {
		return err
	}
	return tx.Commit()
}

// Teachers lists a school's staff by name. committee filters when non-nil:
// the CommitteeNone sentinel selects unassigned teachers.
func (s *Service) Teachers(ctx context.Context, school string, committee *string) ([]Teacher, error) {
	query := `SELECT id, school, name, id_card, position, born_on,
		phone1, phone2, phone_extra, advisor_course, committee, classes, extra_fields
		FROM teachers WHERE school = ?`
	args := []interface{}{school}
	if committee != nil {
		if *committee == CommitteeNone {
			query += " AND (committee IS NULL OR committee = '')"
		} else {
			query += " AND committee = ?"
			args = append(args, *committee)
		}
	}
	query += " ORDER BY name"

	var rows []teacherRow
	if err := s.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, err
	}
	teachers := make([]Teacher, 0, len(rows))
	for _, r := range rows {
		teachers = append(teachers, r.toTeacher())
	}
	return teachers, nil
}

// CreateTeacher adds a staff record.
func (s *Service) CreateTeacher(ctx context.Context, t Teacher) error {
	if t.School == "" || t.Name == "" {
		return apperr.Validation("school and name are required")
	}
	if t.ExtraFields == nil {
		t.ExtraFields = map[string]interface{}{}
	}
	extra, err := json.Marshal(t.ExtraFields)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO teachers (school, name, id_card, position, born_on,
			phone1, phone2, phone_extra, advisor_course, committee, classes, extra_fields)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, t.School, t.Name, t.IDCard, t.Position, t.BornOn,
		t.Phone1, t.Phone2, t.PhoneExtra, t.AdvisorCourse, t.Committee, t.Classes, string(extra))
	return err
}

// UpdateTeacher applies a partial update built from the provided fields.
// An extra_fields value is re-encoded to JSON; unknown keys are ignored.
func (s *Service) UpdateTeacher(ctx context.Context, id int64, fields map[string]interface{}) error {
	sets := []string{}
	args := []interface{}{}
	for _, col := range teacherColumns {
		val, ok := fields[col]
		if !ok {
			continue
		}
		if col == "extra_fields" {
			raw, err := json.Marshal(val)
			if err != nil {
				return err
			}
			val = string(raw)
		}
		sets = append(sets, col+" = ?")
		args = append(args, val)
	}
	if len(sets) == 0 {
		return apperr.Validation("nothing to update")
	}
	args = append(args, id)
	_, err := s.db.ExecContext(ctx, `UPDATE teachers SET `+strings.Join(sets, ", ")+` WHERE id = ?`, args...)
	return err
}

// DeleteTeacher removes a staff record; deleting a missing one is a no-op.
func (s *Service) DeleteTeacher(ctx context.Context, id int64) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM teachers WHERE id = ?`, id)
	return err
}
