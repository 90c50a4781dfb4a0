package course

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

func mustCourse(t *testing.T, svc *Service, school, name string) Course {
	t.Helper()
	require.NoError(t, svc.CreateCourse(context.Background(), Course{School: school, Name: name, Level: "Primaria", Shift: "Mañana"}))
	courses, err := svc.Courses(context.Background(), school)
	require.NoError(t, err)
	for _, c := range courses {
		if c.Name == name {
			return c
		}
	}
	t.Fatalf("course %q not found after create", name)
	return Course{}
}

func TestCreateCourseIgnoresDuplicates(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	c := Course{School: "X", Name: "1ro A", Level: "Primaria", Shift: "Mañana"}
	require.NoError(t, svc.CreateCourse(ctx, c))
	require.NoError(t, svc.CreateCourse(ctx, c))

	courses, err := svc.Courses(ctx, "X")
	require.NoError(t, err)
	assert.Len(t, courses, 1)

	err = svc.CreateCourse(ctx, Course{School: "X"})
	assert.True(t, apperr.IsValidation(err))
}

func TestDeleteCourseCascadesStudents(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	doomed := mustCourse(t, svc, "X", "1ro A")
	kept := mustCourse(t, svc, "X", "2do B")

	require.NoError(t, svc.CreateStudent(ctx, Student{School: "X", CourseID: doomed.ID, Name: "Ana"}))
	require.NoError(t, svc.CreateStudent(ctx, Student{School: "X", CourseID: kept.ID, Name: "Beto"}))

	require.NoError(t, svc.DeleteCourse(ctx, doomed.ID))

	students, err := svc.Students(ctx, "X", 0)
	require.NoError(t, err)
	require.Len(t, students, 1)
	assert.Equal(t, "Beto", students[0].Name)
}

func TestStudentsFilterByCourse(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	a := mustCourse(t, svc, "X", "1ro A")
	b := mustCourse(t, svc, "X", "2do B")

	require.NoError(t, svc.CreateStudent(ctx, Student{School: "X", CourseID: a.ID, Name: "Zoe"}))
	require.NoError(t, svc.CreateStudent(ctx, Student{School: "X", CourseID: a.ID, Name: "Ana"}))
	require.NoError(t, svc.CreateStudent(ctx, Student{School: "X", CourseID: b.ID, Name: "Beto"}))

	students, err := svc.Students(ctx, "X", a.ID)
	require.NoError(t, err)
	require.Len(t, students, 2)
	assert.Equal(t, "Ana", students[0].Name, "ordered by name")
	assert.Equal(t, "Zoe", students[1].Name)
}

func TestUpdateStudentPartial(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	c := mustCourse(t, svc, "X", "1ro A")
	require.NoError(t, svc.CreateStudent(ctx, Student{School: "X", CourseID: c.ID, Name: "Ana", Status: "activo"}))

	students, err := svc.Students(ctx, "X", 0)
	require.NoError(t, err)
	require.Len(t, students, 1)
	id := students[0].ID

	err = svc.UpdateStudent(ctx, id, map[string]interface{}{
		"status":       "retirado",
		"father_phone": "777",
		"bogus_column": "ignored",
	})
	require.NoError(t, err)

	students, err = svc.Students(ctx, "X", 0)
	require.NoError(t, err)
	assert.Equal(t, "retirado", students[0].Status)
	assert.Equal(t, "777", students[0].FatherPhone)
	assert.Equal(t, "Ana", students[0].Name, "untouched fields keep their value")

	err = svc.UpdateStudent(ctx, id, map[string]interface{}{"bogus_column": "x"})
	assert.True(t, apperr.IsValidation(err), "no recognized columns")
}
