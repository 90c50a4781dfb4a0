// Package attendance implements QR attendance sessions, the entry/exit mark
// log, and the reports derived from both. Every query is scoped by school.
package attendance

import (
	"github.com/jmoiron/sqlx"
)

// Service exposes the session registry, the submission and mark logs, and the
// reporting queries over them.
type Service struct {
	db *sqlx.DB
}

// NewService creates a service on top of the shared database handle.
func NewService(db *sqlx.DB) *Service {
	return &Service{db: db}
}
