// Package document manages uploaded files and their per-school categories.
// File bytes live on local disk; the database holds metadata only.
package document

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/Matiu01/BACKEND-ESCUELA/internal/apperr"
)

// defaultCategories is what a school sees before creating any of its own.
var defaultCategories = []string{"General", "Reportes", "Constancias"}

// Document is one stored file's metadata. StoredName is the on-disk name;
// OriginalName is what the uploader called it.
type Document struct {
	ID           int64  `json:"id" db:"id"`
	OriginalName string `json:"name" db:"original_name"`
	StoredName   string `json:"-" db:"stored_name"`
	School       string `json:"school" db:"school"`
	Category     string `json:"category" db:"category"`
	UploadedBy   string `json:"uploaded_by" db:"uploaded_by"`
	CreatedAt    string `json:"created_at" db:"created_at"`
}

// Service persists document metadata and writes file bytes under dir.
type Service struct {
	db  *sqlx.DB
	dir string
}

// NewService creates a service storing files under dir.
func NewService(db *sqlx.DB, dir string) (*Service, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &Service{db: db, dir: dir}, nil
}

// Dir returns the upload directory, for serving downloads.
func (s *Service) Dir() string { return s.dir }

// Categories lists a school's document categories, falling back to the
// defaults when none exist yet.
func (s *Service) Categories(ctx context.Context, school string) ([]string, error) {
	names := []string{}
	err := s.db.SelectContext(ctx, &names, `
		SELECT name FROM document_categories
		WHERE school = ?
		ORDER BY name
	`, school)
	if err != nil {
		return nil, err
	}
	if len(names) == 0 {
		return append([]string{}, defaultCategories...), nil
	}
	return names, nil
}

// CreateCategory adds a category; duplicates are ignored.
func (s *Service) CreateCategory(ctx context.Context, school, name string) error {
	if school == "" || name == "" {
		return apperr.Validation("school and name are required")
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT OR IGNORE INTO document_categories (school, name)
		VALUES (?, ?)
	`, school, name)
	return err
}

// DeleteCategory removes a category and moves its documents to General, all
// in one transaction. General itself cannot be deleted.
func (s *Service) DeleteCategory(ctx context.Context, school, name string) error {
	if school == "" || name == "" {
		return apperr.Validation("school and name are required")
	}
	if name == "General" {
		return apperr.Validation("the General category cannot be deleted")
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
		INSERT OR IGNORE INTO document_categories (school, name) VALUES (?, 'General')
	`, school); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `
		UPDATE documents SET category = 'General' WHERE school = ? AND category = ?
	`, school, name); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `
		DELETE FROM document_categories WHERE school = ? AND name = ?
	`, school, name); err != nil {
		return err
	}
	return tx.Commit()
}

// List returns a school's documents in one category, newest first.
func (s *Service) List(ctx context.Context, school, category string) ([]Document, error) {
	if category == "" {
		category = "General"
	}
	docs := []Document{}
	err := s.db.SelectContext(ctx, &docs, `
		SELECT id, original_name, stored_name, school, category, uploaded_by, created_at
		FROM documents
		WHERE school = ? AND category = ?
		ORDER BY created_at DESC, id DESC
	`, school, category)
	return docs, err
}

// Save writes the file bytes to disk under a collision-free name and records
// the metadata. The category row is created on the fly when missing.
func (s *Service) Save(ctx context.Context, school, category, uploadedBy, originalName string, r io.Reader) (Document, error) {
	if school == "" {
		return Document{}, apperr.Validation("school is required")
	}
	originalName = filepath.Base(originalName)
	if originalName == "" || originalName == "." || originalName == "/" {
		return Document{}, apperr.Validation("file name is required")
	}
	if category == "" {
		category = "General"
	}
	if uploadedBy == "" {
		uploadedBy = "app"
	}

	storedName := uuid.NewString() + filepath.Ext(originalName)
	dst, err := os.Create(filepath.Join(s.dir, storedName))
	if err != nil {
		return Document{}, err
	}
	if _, err := io.Copy(dst, r); err != nil {
		dst.Close()
		os.Remove(dst.Name())
		return Document{}, err
	}
	if err := dst.Close(); err != nil {
		return Document{}, err
	}

	if _, err := s.db.ExecContext(ctx, `
		INSERT OR IGNORE INTO document_categories (school, name) VALUES (?, ?)
	`, school, category); err != nil {
		return Document{}, err
	}
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO documents (original_name, stored_name, school, category, uploaded_by)
		VALUES (?, ?, ?, ?, ?)
	`, originalName, storedName, school, category, uploadedBy)
	if err != nil {
		return Document{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return Document{}, err
	}
	return s.Get(ctx, id)
}

// Get returns one document's metadata by id.
func (s *Service) Get(ctx context.Context, id int64) (Document, error) {
	var doc Document
	err := s.db.GetContext(ctx, &doc, `
		SELECT id, original_name, stored_name, school, category, uploaded_by, created_at
		FROM documents
		WHERE id = ?
	`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return Document{}, apperr.NotFound("document not found")
	}
	return doc, err
}
