package attendance

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"log"
	"strings"

	"github.com/Matiu01/BACKEND-ESCUELA/internal/apperr"
)

// Session is a time-bounded attendance form participants submit against.
// The token is an informational serialization of {session_id, school} encoded
// into the QR code; it is not a credential.
type Session struct {
	ID       int64    `json:"id"`
	School   string   `json:"school"`
	Title    string   `json:"title"`
	Fields   []string `json:"fields"`
	StartsAt string   `json:"starts_at"`
	EndsAt   string   `json:"ends_at"`
	Token    string   `json:"token"`
}

type sessionRow struct {
	ID       int64  `db:"id"`
	School   string `db:"school"`
	Title    string `db:"title"`
	Fields   string `db:"fields"`
	StartsAt string `db:"starts_at"`
	EndsAt   string `db:"ends_at"`
	Token    string `db:"token"`
}

func (r sessionRow) toSession() Session {
	fields := []string{}
	if r.Fields != "" {
		if err := json.Unmarshal([]byte(r.Fields), &fields); err != nil {
			log.Printf("warning: session %d has a malformed fields blob, defaulting to none: %v", r.ID, err)
			fields = []string{}
		}
	}
	return Session{
		ID:       r.ID,
		School:   r.School,
		Title:    r.Title,
		Fields:   fields,
		StartsAt: r.StartsAt,
		EndsAt:   r.EndsAt,
		Token:    r.Token,
	}
}

type sessionToken struct {
	SessionID int64  `json:"session_id"`
	School    string `json:"school"`
}

func cleanFields(fields []string) []string {
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		if t := strings.TrimSpace(f); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// CreateSession inserts a new session and returns the stored row. The token
// is derived from the row's own autoincrement id, so it is written in a
// second statement inside the same transaction.
func (s *Service) CreateSession(ctx context.Context, school, title string, fields []string, startsAt, endsAt string) (Session, error) {
	if school == "" || title == "" || startsAt == "" {
		return Session{}, apperr.Validation("school, title and starts_at are required")
	}

	rawFields, err := json.Marshal(cleanFields(fields))
	if err != nil {
		return Session{}, err
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return Session{}, err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		INSERT INTO attendance_sessions (school, title, fields, starts_at, ends_at, token)
		VALUES (?, ?, ?, ?, ?, '')
	`, school, title, string(rawFields), startsAt, endsAt)
	if err != nil {
		return Session{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return Session{}, err
	}

	token, err := json.Marshal(sessionToken{SessionID: id, School: school})
	if err != nil {
		return Session{}, err
	}
	if _, err := tx.ExecContext(ctx, `UPDATE attendance_sessions SET token = ? WHERE id = ?`, string(token), id); err != nil {
		return Session{}, err
	}
	if err := tx.Commit(); err != nil {
		return Session{}, err
	}

	return s.GetSession(ctx, id)
}

// GetSession returns a single session by id.
func (s *Service) GetSession(ctx context.Context, id int64) (Session, error) {
	var row sessionRow
	err := s.db.GetContext(ctx, &row, `
		SELECT id, school, title, fields, starts_at, ends_at, token
		FROM attendance_sessions
		WHERE id = ?
	`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return Session{}, apperr.NotFound("session not found")
	}
	if err != nil {
		return Session{}, err
	}
	return row.toSession(), nil
}

// ListSessions returns a school's sessions, most recent start first.
func (s *Service) ListSessions(ctx context.Context, school string) ([]Session, error) {
	var rows []sessionRow
	err := s.db.SelectContext(ctx, &rows, `
		SELECT id, school, title, fields, starts_at, ends_at, token
		FROM attendance_sessions
		WHERE school = ?
		ORDER BY starts_at DESC, id DESC
	`, school)
	if err != nil {
		return nil, err
	}
	sessions := make([]Session, 0, len(rows))
	for _, r := range rows {
		sessions = append(sessions, r.toSession())
	}
	return sessions, nil
}

// DeleteSession removes a session and all submissions referencing it in one
// transaction, so a partial failure cannot leave orphan submissions.
func (s *Service) DeleteSession(ctx context.Context, id int64) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM attendance_submissions WHERE session_id = ?`, id); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM attendance_sessions WHERE id = ?`, id); err != nil {
		return err
	}
	return tx.Commit()
}
