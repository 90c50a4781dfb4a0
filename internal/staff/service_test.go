package staff

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

func TestCommitteeLifecycle(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.CreateCommittee(ctx, "X", "Deportes"))
	require.NoError(t, svc.CreateCommittee(ctx, "X", "Deportes"))
	require.NoError(t, svc.CreateCommittee(ctx, "X", "Actos"))

	committees, err := svc.Committees(ctx, "X")
	require.NoError(t, err)
	require.Len(t, committees, 2)
	assert.Equal(t, "Actos", committees[0].Name, "ordered by name")

	err = svc.DeleteCommittee(ctx, 999)
	assert.True(t, apperr.IsNotFound(err))
}

func TestDeleteCommitteeClearsTeachers(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.CreateCommittee(ctx, "X", "Deportes"))
	committees, err := svc.Committees(ctx, "X")
	require.NoError(t, err)
	require.Len(t, committees, 1)

	require.NoError(t, svc.CreateTeacher(ctx, Teacher{School: "X", Name: "Ana", Committee: "Deportes"}))
	require.NoError(t, svc.CreateTeacher(ctx, Teacher{School: "Y", Name: "Beto", Committee: "Deportes"}))

	require.NoError(t, svc.DeleteCommittee(ctx, committees[0].ID))

	teachers, err := svc.Teachers(ctx, "X", nil)
	require.NoError(t, err)
	require.Len(t, teachers, 1)
	assert.Empty(t, teachers[0].Committee)

	// the other school's assignment survives
	teachers, err = svc.Teachers(ctx, "Y", nil)
	require.NoError(t, err)
	require.Len(t, teachers, 1)
	assert.Equal(t, "Deportes", teachers[0].Committee)
}

func TestTeachersCommitteeFilter(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.CreateTeacher(ctx, Teacher{School: "X", Name: "Ana", Committee: "Deportes"}))
	require.NoError(t, svc.CreateTeacher(ctx, Teacher{School: "X", Name: "Beto"}))

	filter := "Deportes"
	teachers, err := svc.Teachers(ctx, "X", &filter)
	require.NoError(t, err)
	require.Len(t, teachers, 1)
	assert.Equal(t, "Ana", teachers[0].Name)

	none := CommitteeNone
	teachers, err = svc.Teachers(ctx, "X", &none)
	require.NoError(t, err)
	require.Len(t, teachers, 1)
	assert.Equal(t, "Beto", teachers[0].Name)
}

func TestTeacherExtraFieldsRoundTrip(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.CreateTeacher(ctx, Teacher{
		School: "X", Name: "Ana",
		ExtraFields: map[string]interface{}{"specialty": "física"},
	}))

	teachers, err := svc.Teachers(ctx, "X", nil)
	require.NoError(t, err)
	require.Len(t, teachers, 1)
	assert.Equal(t, "física", teachers[0].ExtraFields["specialty"])

	err = svc.UpdateTeacher(ctx, teachers[0].ID, map[string]interface{}{
		"position":     "directora",
		"extra_fields": map[string]interface{}{"specialty": "química"},
	})
	require.NoError(t, err)

	teachers, err = svc.Teachers(ctx, "X", nil)
	require.NoError(t, err)
	assert.Equal(t, "directora", teachers[0].Position)
	assert.Equal(t, "química", teachers[0].ExtraFields["specialty"])
}

func TestTeachersDefaultMalformedExtraFields(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.db.Exec(`
		INSERT INTO teachers (school, name, extra_fields) VALUES ('X', 'Ana', 'not-json')
	`)
	require.NoError(t, err)

	teachers, err := svc.Teachers(ctx, "X", nil)
	require.NoError(t, err)
	require.Len(t, teachers, 1)
	assert.Empty(t, teachers[0].ExtraFields)
}
