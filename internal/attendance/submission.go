package attendance

import (
	"context"
	"encoding/json"
	"log"

	"github.com/Matiu01/BACKEND-ESCUELA/internal/apperr"
)

// Submission is one answer against a session. Data carries whatever keys the
// submitter sent; it is not validated against the session's declared fields.
type Submission struct {
	ID        int64                  `json:"id"`
	SessionID int64                  `json:"session_id"`
	Data      map[string]interface{} `json:"data"`
	CreatedAt string                 `json:"created_at"`
}

type submissionRow struct {
	ID        int64  `db:"id"`
	SessionID int64  `db:"session_id"`
	Data      string `db:"data"`
	CreatedAt string `db:"created_at"`
}

// Submit appends a submission to a session's log.
func (s *Service) Submit(ctx context.Context, sessionID int64, data map[string]interface{}) error {
	if sessionID == 0 {
		return apperr.Validation("session_id is required")
	}
	if data == nil {
		data = map[string]interface{}{}
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO attendance_submissions (session_id, data)
		VALUES (?, ?)
	`, sessionID, string(raw))
	return err
}

// ListSubmissions returns a session's submissions, newest first. A deleted or
// unknown session yields an empty list, not an error.
func (s *Service) ListSubmissions(ctx context.Context, sessionID int64) ([]Submission, error) {
	var rows []submissionRow
	err := s.db.SelectContext(ctx, &rows, `
		SELECT id, session_id, data, created_at
		FROM attendance_submissions
		WHERE session_id = ?
		ORDER BY created_at DESC, id DESC
	`, sessionID)
	if err != nil {
		return nil, err
	}

	subs := make([]Submission, 0, len(rows))
	for _, r := range rows {
		data := map[string]interface{}{}
		if r.Data != "" {
			if err := json.Unmarshal([]byte(r.Data), &data); err != nil {
				log.Printf("warning: submission %d has a malformed data blob, defaulting to empty: %v", r.ID, err)
				data = map[string]interface{}{}
			}
		}
		subs = append(subs, Submission{
			ID:        r.ID,
			SessionID: r.SessionID,
			Data:      data,
			CreatedAt: r.CreatedAt,
		})
	}
	return subs, nil
}
