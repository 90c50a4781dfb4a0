// Package course manages courses and their enrolled students.
package course

import (
	"context"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/Matiu01/BACKEND-ESCUELA/internal/apperr"
)

// Course is one course within a school.
type Course struct {
	ID     int64  `json:"id" db:"id"`
	School string `json:"school,omitempty" db:"school"`
	Name   string `json:"name" db:"name"`
	Level  string `json:"level" db:"level"`
	Shift  string `json:"shift" db:"shift"`
}

// Student is one enrolled student with family contact data.
type Student struct {
	ID            int64  `json:"id" db:"id"`
	School        string `json:"school" db:"school"`
	CourseID      int64  `json:"course_id" db:"course_id"`
	Name          string `json:"name" db:"name"`
	Rude          string `json:"rude" db:"rude"`
	CI            string `json:"ci" db:"ci"`
	BornOn        string `json:"born_on" db:"born_on"`
	Status        string `json:"status" db:"status"`
	FatherName    string `json:"father_name" db:"father_name"`
	FatherCI      string `json:"father_ci" db:"father_ci"`
	FatherBornOn  string `json:"father_born_on" db:"father_born_on"`
	FatherPhone   string `json:"father_phone" db:"father_phone"`
	MotherName    string `json:"mother_name" db:"mother_name"`
	MotherCI      string `json:"mother_ci" db:"mother_ci"`
	MotherBornOn  string `json:"mother_born_on" db:"mother_born_on"`
	MotherPhone   string `json:"mother_phone" db:"mother_phone"`
	GuardianName  string `json:"guardian_name" db:"guardian_name"`
	GuardianPhone string `json:"guardian_phone" db:"guardian_phone"`
}

// studentColumns are the columns a partial update may touch.
var studentColumns = []string{
	"name", "rude", "ci", "born_on", "status",
	"father_name", "father_ci", "father_born_on", "father_phone",
	"mother_name", "mother_ci", "mother_born_on", "mother_phone",
	"guardian_name", "guardian_phone",
}

// Service persists courses and students.
type Service struct {
	db *sqlx.DB
}

// NewService creates a service on top of the shared database handle.
func NewService(db *sqlx.DB) *Service {
	return &Service{db: db}
}

// Courses lists a school's courses by name.
func (s *Service) Courses(ctx context.Context, school string) ([]Course, error) {
	courses := []Course{}
	err := s.db.SelectContext(ctx, &courses, `
		SELECT id, school, name, level, shift
		FROM courses
		WHERE school = ?
		ORDER BY name
	`, school)
	return courses, err
}

// CreateCourse adds a course; an existing (school, name, shift) is ignored.
func (s *Service) CreateCourse(ctx context.Context, c Course) error {
	if c.School == "" || c.Name == "" {
		return apperr.Validation("school and name are required")
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT OR IGNORE INTO courses (school, name, level, shift)
		VALUES (?, ?, ?, ?)
	`, c.School, c.Name, c.Level, c.Shift)
	return err
}

// DeleteCourse removes a course and its students in one transaction.
func (s *Service) DeleteCourse(ctx context.Context, id int64) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM students WHERE course_id = ?`, id); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM courses WHERE id = ?`, id); err != nil {
		return err
	}
	return tx.Commit()
}

// Students lists a school's students by name, optionally within one course.
func (s *Service) Students(ctx context.Context, school string, courseID int64) ([]Student, error) {
	query := `SELECT id, school, course_id, name, rude, ci, born_on, status,
		father_name, father_ci, father_born_on, father_phone,
		mother_name, mother_ci, mother_born_on, mother_phone,
		guardian_name, guardian_phone
		FROM students WHERE school = ?`
	args := []interface{}{school}
	if courseID != 0 {
		query += " AND course_id = ?"
		args = append(args, courseID)
	}
	query += " ORDER BY name"

	students := []Student{}
	err := s.db.SelectContext(ctx, &students, query, args...)
	return students, err
}

// CreateStudent enrolls a student.
func (s *Service) CreateStudent(ctx context.Context, st Student) error {
	if st.School == "" || st.CourseID == 0 || st.Name == "" {
		return apperr.Validation("school, course_id and name are required")
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO students (
			school, course_id, name, rude, ci, born_on, status,
			father_name, father_ci, father_born_on, father_phone,
			mother_name, mother_ci, mother_born_on, mother_phone,
			guardian_name, guardian_phone
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, st.School, st.CourseID, st.Name, st.Rude, st.CI, st.BornOn, st.Status,
		st.FatherName, st.FatherCI, st.FatherBornOn, st.FatherPhone,
		st.MotherName, st.MotherCI, st.MotherBornOn, st.MotherPhone,
		st.GuardianName, st.GuardianPhone)
	return err
}

// UpdateStudent applies a partial update built from the provided fields.
// Unknown keys are ignored; an update with no usable keys is rejected.
func (s *Service) UpdateStudent(ctx context.Context, id int64, fields map[string]interface{}) error {
	sets := []string{}
	args := []interface{}{}
	for _, col := range studentColumns {
		if val, ok := fields[col]; ok {
			sets = append(sets, col+" = ?")
			args = append(args, val)
		}
	}
	if len(sets) == 0 {
		return apperr.Validation("nothing to update")
	}
	args = append(args, id)
	_, err := s.db.ExecContext(ctx, `UPDATE students SET `+strings.Join(sets, ", ")+` WHERE id = ?`, args...)
	return err
}

// DeleteStudent removes a student; deleting a missing one is a no-op.
func (s *Service) DeleteStudent(ctx context.Context, id int64) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM students WHERE id = ?`, id)
	return err
}
