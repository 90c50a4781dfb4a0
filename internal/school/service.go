// Package school manages the tenant registry and its user accounts.
package school

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/Matiu01/BACKEND-ESCUELA/internal/apperr"
)

// ErrInvalidCredentials is returned by Login on a failed match.
var ErrInvalidCredentials = errors.New("invalid credentials")

// User is an account scoped to one school. Passwords are stored and compared
// as plain text, matching the system this replaces.
type User struct {
	ID     int64  `json:"id" db:"id"`
	Name   string `json:"name" db:"name"`
	Email  string `json:"email" db:"email"`
	Role   string `json:"role" db:"role"`
	School string `json:"school" db:"school"`
}

// TeacherContact is the name/email pair listed for docente-role users.
type TeacherContact struct {
	Name  string `json:"name" db:"name"`
	Email string `json:"email" db:"email"`
}

// RegisterInput carries a new account. NewSchool, when set, creates the
// school on the fly and overrides School.
type RegisterInput struct {
	Name      string
	Email     string
	Password  string
	Role      string
	School    string
	NewSchool string
}

// Service persists schools and users.
type Service struct {
	db *sqlx.DB
}

// NewService creates a service on top of the shared database handle.
func NewService(db *sqlx.DB) *Service {
	return &Service{db: db}
}

// Schools lists all registered school names.
func (s *Service) Schools(ctx context.Context) ([]string, error) {
	names := []string{}
	err := s.db.SelectContext(ctx, &names, `SELECT name FROM schools`)
	return names, err
}

// Register creates a user, optionally creating its school first. The email
// must be unique within the school only.
func (s *Service) Register(ctx context.Context, in RegisterInput) error {
	if in.Role == "" {
		in.Role = "docente"
	}
	if in.Name == "" || in.Email == "" || in.Password == "" {
		return apperr.Validation("name, email and password are required")
	}

	school := in.School
	if in.NewSchool != "" {
		if _, err := s.db.ExecContext(ctx, `INSERT OR IGNORE INTO schools (name) VALUES (?)`, in.NewSchool); err != nil {
			return err
		}
		school = in.NewSchool
	}
	if school == "" {
		return apperr.Validation("school is required")
	}

	var existing int64
	err := s.db.GetContext(ctx, &existing, `SELECT id FROM users WHERE email = ? AND school = ?`, in.Email, school)
	if err == nil {
		return apperr.Validation("email already registered in this school")
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO users (name, email, password, role, school)
		VALUES (?, ?, ?, ?, ?)
	`, in.Name, in.Email, in.Password, in.Role, school)
	return err
}

// Login matches email, password and school exactly.
func (s *Service) Login(ctx context.Context, email, password, schoolName string) (User, error) {
	var u User
	err := s.db.GetContext(ctx, &u, `
		SELECT id, name, email, role, school
		FROM users
		WHERE email = ? AND password = ? AND school = ?
	`, email, password, schoolName)
	if errors.Is(err, sql.ErrNoRows) {
		return User{}, ErrInvalidCredentials
	}
	return u, err
}

// Users lists a school's accounts, newest first.
func (s *Service) Users(ctx context.Context, schoolName string) ([]User, error) {
	users := []User{}
	err := s.db.SelectContext(ctx, &users, `
		SELECT id, name, email, role, school
		FROM users
		WHERE school = ?
		ORDER BY id DESC
	`, schoolName)
	return users, err
}

// Teachers lists a school's docente-role accounts by name.
func (s *Service) Teachers(ctx context.Context, schoolName string) ([]TeacherContact, error) {
	teachers := []TeacherContact{}
	err := s.db.SelectContext(ctx, &teachers, `
		SELECT name, email
		FROM users
		WHERE school = ? AND role = 'docente'
		ORDER BY name
	`, schoolName)
	return teachers, err
}
