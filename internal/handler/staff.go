package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Matiu01/BACKEND-ESCUELA/internal/staff"
)

func (h *Handler) ListCommittees(c *gin.Context) {
	committees, err := h.staff.Committees(c.Request.Context(), c.Param("school"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"committees": committees})
}

type committeeRequest struct {
	School string `json:"school"`
	Name   string `json:"name"`
}

func (h *Handler) CreateCommittee(c *gin.Context) {
	var req committeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.staff.CreateCommittee(c.Request.Context(), req.School, req.Name); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "committee created"})
}

func (h *Handler) DeleteCommittee(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid committee id"})
		return
	}
	if err := h.staff.DeleteCommittee(c.Request.Context(), id); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "committee deleted"})
}

func (h *Handler) ListStaff(c *gin.Context) {
	var committee *string
	if v, ok := c.GetQuery("committee"); ok {
		committee = &v
	}
	teachers, err := h.staff.Teachers(c.Request.Context(), c.Param("school"), committee)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"teachers": teachers})
}

func (h *Handler) CreateStaff(c *gin.Context) {
	var t staff.Teacher
	if err := c.ShouldBindJSON(&t); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.staff.CreateTeacher(c.Request.Context(), t); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "teacher created"})
}

func (h *Handler) UpdateStaff(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid teacher id"})
		return
	}
	var fields map[string]interface{}
	if err := c.ShouldBindJSON(&fields); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.staff.UpdateTeacher(c.Request.Context(), id, fields); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "teacher updated"})
}

func (h *Handler) DeleteStaff(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid teacher id"})
		return
	}
	if err := h.staff.DeleteTeacher(c.Request.Context(), id); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "teacher deleted"})
}
