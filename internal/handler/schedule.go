package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
)

func (h *Handler) ListSchedules(c *gin.Context) {
	schedules, err := h.schedules.List(c.Request.Context(), c.Param("school"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"schedules": schedules})
}

func (h *Handler) GetSchedule(c *gin.Context) {
	sched, err := h.schedules.Get(c.Request.Context(), c.Param("school"), c.Param("teacher"))
	if err != nil {
		fail(c, err)
		return
	}
	if sched == nil {
		c.JSON(http.StatusOK, gin.H{"schedule": gin.H{}, "id": nil})
		return
	}
	c.JSON(http.StatusOK, gin.H{"schedule": sched.Data, "id": sched.ID})
}

type saveScheduleRequest struct {
	School   string          `json:"school"`
	Teacher  string          `json:"teacher"`
	Schedule json.RawMessage `json:"schedule"`
}

func (h *Handler) SaveSchedule(c *gin.Context) {
	var req saveScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.schedules.Save(c.Request.Context(), req.School, req.Teacher, req.Schedule); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "schedule saved"})
}

func (h *Handler) DeleteSchedule(c *gin.Context) {
	if err := h.schedules.Delete(c.Request.Context(), c.Param("school"), c.Param("teacher")); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "schedule deleted"})
}
