// Package schedule stores one weekly schedule blob per teacher per school.
// The blob's shape is chosen by the frontend; it is decoded only to validate
// it on the way out.
package schedule

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"log"

	"github.com/jmoiron/sqlx"

	"github.com/Matiu01/BACKEND-ESCUELA/internal/apperr"
)

// Schedule is one teacher's schedule. Data holds the raw JSON document.
type Schedule struct {
	ID      int64           `json:"id"`
	School  string          `json:"school"`
	Teacher string          `json:"teacher"`
	Data    json.RawMessage `json:"schedule"`
}

type scheduleRow struct {
	ID      int64  `db:"id"`
	School  string `db:"school"`
	Teacher string `db:"teacher"`
	Data    string `db:"data"`
}

func (r scheduleRow) toSchedule() Schedule {
	data := json.RawMessage(r.Data)
	if !json.Valid(data) {
		log.Printf("warning: schedule %d has a malformed data blob, defaulting to empty: %q", r.ID, r.Data)
		data = json.RawMessage("{}")
	}
	return Schedule{ID: r.ID, School: r.School, Teacher: r.Teacher, Data: data}
}

// Service persists schedules.
type Service struct {
	db *sqlx.DB
}

// NewService creates a service on top of the shared database handle.
func NewService(db *sqlx.DB) *Service {
	return &Service{db: db}
}

// List returns every teacher's schedule in a school.
func (s *Service) List(ctx context.Context, school string) ([]Schedule, error) {
	var rows []scheduleRow
	err := s.db.SelectContext(ctx, &rows, `
		SELECT id, school, teacher, data FROM schedules WHERE school = ?
	`, school)
	if err != nil {
		return nil, err
	}
	schedules := make([]Schedule, 0, len(rows))
	for _, r := range rows {
		schedules = append(schedules, r.toSchedule())
	}
	return schedules, nil
}

// Get returns one teacher's schedule, or nil when none is stored yet.
func (s *Service) Get(ctx context.Context, school, teacher string) (*Schedule, error) {
	var row scheduleRow
	err := s.db.GetContext(ctx, &row, `
		SELECT id, school, teacher, data FROM schedules
		WHERE school = ? AND teacher = ?
	`, school, teacher)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	sched := row.toSchedule()
	return &sched, nil
}

// Save upserts a teacher's schedule.
func (s *Service) Save(ctx context.Context, school, teacher string, data json.RawMessage) error {
	if school == "" || teacher == "" || len(data) == 0 {
		return apperr.Validation("school, teacher and schedule are required")
	}
	if !json.Valid(data) {
		return apperr.Validation("schedule must be valid JSON")
	}

	var id int64
	err := s.db.GetContext(ctx, &id, `SELECT id FROM schedules WHERE school = ? AND teacher = ?`, school, teacher)
	switch {
	case err == nil:
		_, err = s.db.ExecContext(ctx, `UPDATE schedules SET data = ? WHERE id = ?`, string(data), id)
	case errors.Is(err, sql.ErrNoRows):
		_, err = s.db.ExecContext(ctx, `INSERT INTO schedules (school, teacher, data) VALUES (?, ?, ?)`, school, teacher, string(data))
	}
	return err
}

// Delete removes a teacher's schedule; deleting a missing one is a no-op.
func (s *Service) Delete(ctx context.Context, school, teacher string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM schedules WHERE school = ? AND teacher = ?`, school, teacher)
	return err
}
