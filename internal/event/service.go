// Package event manages a school's calendar events.
package event

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/Matiu01/BACKEND-ESCUELA/internal/apperr"
)

// Event is one calendar entry. Dates are stored as the client sent them.
type Event struct {
	ID          int64  `json:"id" db:"id"`
	School      string `json:"school" db:"school"`
	Title       string `json:"title" db:"title"`
	Description string `json:"description" db:"description"`
	StartsOn    string `json:"starts_on" db:"starts_on"`
	EndsOn      string `json:"ends_on" db:"ends_on"`
}

// Service persists events.
type Service struct {
	db *sqlx.DB
}

// NewService creates a service on top of the shared database handle.
func NewService(db *sqlx.DB) *Service {
	return &Service{db: db}
}

// List returns a school's events ordered by start date.
func (s *Service) List(ctx context.Context, school string) ([]Event, error) {
	events := []Event{}
	err := s.db.SelectContext(ctx, &events, `
		SELECT id, school, title, description, starts_on, ends_on
		FROM events
		WHERE school = ?
		ORDER BY starts_on
	`, school)
	return events, err
}

// Create inserts an event. A missing end date defaults to the start date.
func (s *Service) Create(ctx context.Context, e Event) error {
	if e.School == "" || e.Title == "" || e.StartsOn == "" {
		return apperr.Validation("school, title and starts_on are required")
	}
	if e.EndsOn == "" {
		e.EndsOn = e.StartsOn
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO events (school, title, description, starts_on, ends_on)
		VALUES (?, ?, ?, ?, ?)
	`, e.School, e.Title, e.Description, e.StartsOn, e.EndsOn)
	return err
}

// Update overwrites an event's fields.
func (s *Service) Update(ctx context.Context, id int64, e Event) error {
	var existing int64
	err := s.db.GetContext(ctx, &existing, `SELECT id FROM events WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return apperr.NotFound("event not found")
	}
	if err != nil {
		return err
	}
	if e.EndsOn == "" {
		e.EndsOn = e.StartsOn
	}
	_, err = s.db.ExecContext(ctx, `
		UPDATE events
		SET school = ?, title = ?, description = ?, starts_on = ?, ends_on = ?
		WHERE id = ?
	`, e.School, e.Title, e.Description, e.StartsOn, e.EndsOn, id)
	return err
}

// Delete removes an event; deleting a missing one is a no-op.
func (s *Service) Delete(ctx context.Context, id int64) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM events WHERE id = ?`, id)
	return err
}
