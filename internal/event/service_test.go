package event

import (
	"context"
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

func TestCreateDefaultsEndDate(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.Create(ctx, Event{School: "X", Title: "Feria", StartsOn: "2025-06-01"}))

	events, err := svc.List(ctx, "X")
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "2025-06-01", events[0].EndsOn)

	err = svc.Create(ctx, Event{School: "X", Title: "Sin fecha"})
	assert.True(t, apperr.IsValidation(err))
}

func TestListOrdersByStart(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.Create(ctx, Event{School: "X", Title: "Clausura", StartsOn: "2025-11-30"}))
	require.NoError(t, svc.Create(ctx, Event{School: "X", Title: "Inauguración", StartsOn: "2025-02-01"}))
	require.NoError(t, svc.Create(ctx, Event{School: "Y", Title: "Otra escuela", StartsOn: "2025-01-01"}))

	events, err := svc.List(ctx, "X")
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "Inauguración", events[0].Title)
	assert.Equal(t, "Clausura", events[1].Title)
}

func TestUpdateAndDelete(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.Create(ctx, Event{School: "X", Title: "Feria", StartsOn: "2025-06-01"}))
	events, err := svc.List(ctx, "X")
	require.NoError(t, err)
	require.Len(t, events, 1)
	id := events[0].ID

	err = svc.Update(ctx, id, Event{School: "X", Title: "Feria de Ciencias", StartsOn: "2025-06-02"})
	require.NoError(t, err)

	events, err = svc.List(ctx, "X")
	require.NoError(t, err)
	assert.Equal(t, "Feria de Ciencias", events[0].Title)
	assert.Equal(t, "2025-06-02", events[0].EndsOn, "end date follows start when omitted")

	err = svc.Update(ctx, 999, Event{School: "X", Title: "Fantasma", StartsOn: "2025-01-01"})
	assert.True(t, apperr.IsNotFound(err))

	require.NoError(t, svc.Delete(ctx, id))
	require.NoError(t, svc.Delete(ctx, id))

	events, err = svc.List(ctx, "X")
	require.NoError(t, err)
	assert.Empty(t, events)
}
