package attendance

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Matiu01/BACKEND-ESCUELA/internal/apperr"
	"github.com/Matiu01/BACKEND-ESCUELA/internal/store"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	db, err := sqlx.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, store.Init(db))
	return NewService(db)
}

func TestCreateSessionValidation(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	tests := []struct {
		name          string
		school, title string
		startsAt      string
	}{
		{name: "missing school", title: "Roll Call", startsAt: "2025-01-01"},
		{name: "missing title", school: "X", startsAt: "2025-01-01"},
		{name: "missing start", school: "X", title: "Roll Call"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateSession(ctx, tt.school, tt.title, nil, tt.startsAt, "")
			assert.True(t, apperr.IsValidation(err))
		})
	}
}

func TestCreateSessionCleansFieldsAndDerivesToken(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	sess, err := svc.CreateSession(ctx, "X", "Roll Call",
		[]string{" signature", "", "   ", "grade "}, "2025-01-01", "2025-01-02")
	require.NoError(t, err)

	assert.Equal(t, []string{"signature", "grade"}, sess.Fields)
	assert.NotZero(t, sess.ID)

	var tok sessionToken
	require.NoError(t, json.Unmarshal([]byte(sess.Token), &tok))
	assert.Equal(t, sess.ID, tok.SessionID)
	assert.Equal(t, "X", tok.School)
}

func TestListSessionsOrderAndTenantIsolation(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	early, err := svc.CreateSession(ctx, "X", "Early", nil, "2025-01-01", "")
	require.NoError(t, err)
	late, err := svc.CreateSession(ctx, "X", "Late", nil, "2025-03-01", "")
	require.NoError(t, err)
	sameDay, err := svc.CreateSession(ctx, "X", "Same day", nil, "2025-03-01", "")
	require.NoError(t, err)
	_, err = svc.CreateSession(ctx, "Y", "Other school", nil, "2025-02-01", "")
	require.NoError(t, err)

	sessions, err := svc.ListSessions(ctx, "X")
	require.NoError(t, err)
	require.Len(t, sessions, 3)

	// start desc, then id desc for equal starts
	assert.Equal(t, sameDay.ID, sessions[0].ID)
	assert.Equal(t, late.ID, sessions[1].ID)
	assert.Equal(t, early.ID, sessions[2].ID)
}

func TestDeleteSessionCascades(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	doomed, err := svc.CreateSession(ctx, "X", "Doomed", nil, "2025-01-01", "")
	require.NoError(t, err)
	kept, err := svc.CreateSession(ctx, "X", "Kept", nil, "2025-01-02", "")
	require.NoError(t, err)

	require.NoError(t, svc.Submit(ctx, doomed.ID, map[string]interface{}{"signature": "ok"}))
	require.NoError(t, svc.Submit(ctx, doomed.ID, map[string]interface{}{"signature": "ok"}))
	require.NoError(t, svc.Submit(ctx, kept.ID, map[string]interface{}{"signature": "ok"}))

	require.NoError(t, svc.DeleteSession(ctx, doomed.ID))

	// listing submissions of a deleted session is empty, not an error
	subs, err := svc.ListSubmissions(ctx, doomed.ID)
	require.NoError(t, err)
	assert.Empty(t, subs)

	subs, err = svc.ListSubmissions(ctx, kept.ID)
	require.NoError(t, err)
	assert.Len(t, subs, 1)

	_, err = svc.GetSession(ctx, doomed.ID)
	assert.True(t, apperr.IsNotFound(err))
}

func TestSubmitValidationAndOpaqueData(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	err := svc.Submit(ctx, 0, nil)
	assert.True(t, apperr.IsValidation(err))

	sess, err := svc.CreateSession(ctx, "X", "Form", []string{"signature"}, "2025-01-01", "")
	require.NoError(t, err)

	// keys outside the declared fields are accepted as-is
	require.NoError(t, svc.Submit(ctx, sess.ID, map[string]interface{}{"anything": "goes", "n": 2.0}))

	subs, err := svc.ListSubmissions(ctx, sess.ID)
	require.NoError(t, err)
	require.Len(t, subs, 1)
	assert.Equal(t, "goes", subs[0].Data["anything"])
	assert.Equal(t, 2.0, subs[0].Data["n"])
	assert.NotEmpty(t, subs[0].CreatedAt)
}

func TestListSubmissionsDefaultsMalformedData(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	sess, err := svc.CreateSession(ctx, "X", "Form", nil, "2025-01-01", "")
	require.NoError(t, err)

	_, err = svc.db.Exec(`INSERT INTO attendance_submissions (session_id, data) VALUES (?, 'not-json')`, sess.ID)
	require.NoError(t, err)

	subs, err := svc.ListSubmissions(ctx, sess.ID)
	require.NoError(t, err)
	require.Len(t, subs, 1)
	assert.Empty(t, subs[0].Data)
}
