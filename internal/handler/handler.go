// Package handler maps HTTP requests onto the domain services.
package handler

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Matiu01/BACKEND-ESCUELA/internal/apperr"
	"github.com/Matiu01/BACKEND-ESCUELA/internal/attendance"
	"github.com/Matiu01/BACKEND-ESCUELA/internal/config"
	"github.com/Matiu01/BACKEND-ESCUELA/internal/course"
	"github.com/Matiu01/BACKEND-ESCUELA/internal/document"
	"github.com/Matiu01/BACKEND-ESCUELA/internal/event"
	"github.com/Matiu01/BACKEND-ESCUELA/internal/schedule"
	"github.com/Matiu01/BACKEND-ESCUELA/internal/school"
	"github.com/Matiu01/BACKEND-ESCUELA/internal/staff"
)

// Handler holds the services behind every endpoint.
type Handler struct {
	cfg        config.App
	schools    *school.Service
	documents  *document.Service
	schedules  *schedule.Service
	events     *event.Service
	courses    *course.Service
	staff      *staff.Service
	attendance *attendance.Service
}

// New wires a handler from its services.
func New(
	cfg config.App,
	schools *school.Service,
	documents *document.Service,
	schedules *schedule.Service,
	events *event.Service,
	courses *course.Service,
	staffSvc *staff.Service,
	attendanceSvc *attendance.Service,
) *Handler {
	return &Handler{
		cfg:        cfg,
		schools:    schools,
		documents:  documents,
		schedules:  schedules,
		events:     events,
		courses:    courses,
		staff:      staffSvc,
		attendance: attendanceSvc,
	}
}

// fail maps service errors onto HTTP statuses. Unexpected errors are logged
// and hidden behind a generic message.
func fail(c *gin.Context, err error) {
	switch {
	case apperr.IsValidation(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case apperr.IsNotFound(err):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		log.Printf("%s %s failed: %v", c.Request.Method, c.FullPath(), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
