package store

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
)

// schema is executed on every startup; all statements are idempotent.
const schema = `
CREATE TABLE IF NOT EXISTS schools (
	id     INTEGER PRIMARY KEY AUTOINCREMENT,
	name   TEXT UNIQUE
);

CREATE TABLE IF NOT EXISTS users (
	id        INTEGER PRIMARY KEY AUTOINCREMENT,
	name      TEXT,
	email     TEXT,
	password  TEXT,
	role      TEXT,
	school    TEXT,
	UNIQUE (email, school)
);

CREATE TABLE IF NOT EXISTS attendance_sessions (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	school     TEXT,
	title      TEXT,
	fields     TEXT,
	starts_at  TEXT,
	ends_at    TEXT,
	token      TEXT
);

CREATE TABLE IF NOT EXISTS attendance_submissions (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	session_id  INTEGER,
	data        TEXT,
	created_at  DATETIME DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS attendance_marks (
	id           INTEGER PRIMARY KEY AUTOINCREMENT,
	school       TEXT,
	person_id    INTEGER,
	person_name  TEXT,
	email        TEXT,
	kind         TEXT,
	stamped_at   TEXT DEFAULT (datetime('now','localtime'))
);

CREATE TABLE IF NOT EXISTS document_categories (
	id      INTEGER PRIMARY KEY AUTOINCREMENT,
	school  TEXT,
	name    TEXT,
	UNIQUE (school, name)
);

CREATE TABLE IF NOT EXISTS documents (
	id             INTEGER PRIMARY KEY AUTOINCREMENT,
	original_name  TEXT,
	stored_name    TEXT,
	school         TEXT,
	category       TEXT,
	uploaded_by    TEXT,
	created_at     DATETIME DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS schedules (
	id       INTEGER PRIMARY KEY AUTOINCREMENT,
	school   TEXT,
	teacher  TEXT,
	data     TEXT,
	UNIQUE (school, teacher)
);

CREATE TABLE IF NOT EXISTS events (
	id           INTEGER PRIMARY KEY AUTOINCREMENT,
	school       TEXT,
	title        TEXT,
	description  TEXT,
	starts_on    TEXT,
	ends_on      TEXT
);

CREATE TABLE IF NOT EXISTS courses (
	id      INTEGER PRIMARY KEY AUTOINCREMENT,
	school  TEXT,
	name    TEXT,
	level   TEXT,
	shift   TEXT,
	UNIQUE (school, name, shift)
);

CREATE TABLE IF NOT EXISTS students (
	id              INTEGER PRIMARY KEY AUTOINCREMENT,
	school          TEXT,
	course_id       INTEGER,
	name            TEXT,
	rude            TEXT,
	ci              TEXT,
	born_on         TEXT,
	status          TEXT,
	father_name     TEXT,
	father_ci       TEXT,
	father_born_on  TEXT,
	father_phone    TEXT,
	mother_name     TEXT,
	mother_ci       TEXT,
	mother_born_on  TEXT,
	mother_phone    TEXT,
	guardian_name   TEXT,
	guardian_phone  TEXT,
	FOREIGN KEY(course_id) REFERENCES courses(id)
);

CREATE TABLE IF NOT EXISTS committees (
	id      INTEGER PRIMARY KEY AUTOINCREMENT,
	school  TEXT,
	name    TEXT,
	UNIQUE (school, name)
);

CREATE TABLE IF NOT EXISTS teachers (
	id              INTEGER PRIMARY KEY AUTOINCREMENT,
	school          TEXT,
	name            TEXT,
	id_card         TEXT,
	position        TEXT,
	born_on         TEXT,
	phone1          TEXT,
	phone2          TEXT,
	phone_extra     TEXT,
	advisor_course  TEXT,
	committee       TEXT,
	classes         TEXT,
	extra_fields    TEXT
);
`

// Init creates all tables and runs the one legacy migration. It is safe to
// call on an already-initialized database.
func Init(db *sqlx.DB) error {
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("create tables: %w", err)
	}
	if err := migrateLegacyUsers(db); err != nil {
		return fmt.Errorf("migrate legacy users: %w", err)
	}
	return nil
}

// migrateLegacyUsers rebuilds the users table when an old database still
// carries a global UNIQUE on email instead of UNIQUE(email, school). Runs at
// most once per database; steady-state databases skip it entirely.
func migrateLegacyUsers(db *sqlx.DB) error {
	var createSQL string
	err := db.Get(&createSQL, `SELECT sql FROM sqlite_master WHERE type='table' AND name='users'`)
	if errors.Is(err, sql.ErrNoRows) {
		return nil
	}
	if err != nil {
		return err
	}
	if !hasGlobalEmailUnique(createSQL) {
		return nil
	}

	tx, err := db.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmts := []string{
		`CREATE TABLE users_new (
			id        INTEGER PRIMARY KEY AUTOINCREMENT,
			name      TEXT,
			email     TEXT,
			password  TEXT,
			role      TEXT,
			school    TEXT,
			UNIQUE (email, school)
		)`,
		`INSERT OR IGNORE INTO users_new (id, name, email, password, role, school)
			SELECT id, name, email, password, role, school FROM users`,
		`DROP TABLE users`,
		`ALTER TABLE users_new RENAME TO users`,
	}
	for _, stmt := range stmts {
		if _, err := tx.Exec(stmt); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func hasGlobalEmailUnique(createSQL string) bool {
	// sqlite_master stores the DDL verbatim, whitespace included.
	ddl := strings.Join(strings.Fields(createSQL), " ")
	if strings.Contains(ddl, "email TEXT UNIQUE") {
		return true
	}
	return strings.Contains(ddl, "UNIQUE") &&
		strings.Contains(ddl, "(email)") &&
		!strings.Contains(ddl, "school")
}
