package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// ---------- QR sessions ----------

type createSessionRequest struct {
	School   string   `json:"school"`
	Title    string   `json:"title"`
	Fields   []string `json:"fields"`
	StartsAt string   `json:"starts_at"`
	EndsAt   string   `json:"ends_at"`
}

func (h *Handler) CreateSession(c *gin.Context) {
	var req createSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	sess, err := h.attendance.CreateSession(c.Request.Context(),
		req.School, req.Title, req.Fields, req.StartsAt, req.EndsAt)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "session created", "item": sess})
}

func (h *Handler) ListSessions(c *gin.Context) {
	sessions, err := h.attendance.ListSessions(c.Request.Context(), c.Param("school"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": sessions})
}

func (h *Handler) DeleteSession(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid session id"})
		return
	}
	if err := h.attendance.DeleteSession(c.Request.Context(), id); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "session deleted"})
}

// ---------- submissions ----------

type submitRequest struct {
	SessionID int64                  `json:"session_id"`
	Data      map[string]interface{} `json:"data"`
}

func (h *Handler) Submit(c *gin.Context) {
	var req submitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.attendance.Submit(c.Request.Context(), req.SessionID, req.Data); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "attendance recorded"})
}

func (h *Handler) ListSubmissions(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid session id"})
		return
	}
	subs, err := h.attendance.ListSubmissions(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": subs})
}

func (h *Handler) SessionStats(c *gin.Context) {
	stats, err := h.attendance.SessionStats(c.Request.Context(),
		c.Param("school"), c.Query("from"), c.Query("to"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": stats})
}

// ---------- entry/exit marks ----------

type markRequest struct {
	School     string `json:"school"`
	PersonID   *int64 `json:"person_id"`
	PersonName string `json:"person_name"`
	Email      string `json:"email"`
	Kind       string `json:"kind"`
}

func (h *Handler) RecordMark(c *gin.Context) {
	var req markRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	mark, err := h.attendance.Record(c.Request.Context(),
		req.School, req.PersonID, req.PersonName, req.Email, req.Kind)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "mark recorded", "item": mark})
}

// RecordKioskMark is the door-kiosk variant: no person id, name required.
func (h *Handler) RecordKioskMark(c *gin.Context) {
	var req markRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	mark, err := h.attendance.RecordByName(c.Request.Context(),
		req.School, req.PersonName, req.Email, req.Kind)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "mark recorded", "item": mark})
}

func (h *Handler) ListMarks(c *gin.Context) {
	marks, err := h.attendance.ListMarks(c.Request.Context(),
		c.Param("school"), c.Query("from"), c.Query("to"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": marks})
}

// ---------- reports ----------

func (h *Handler) DailySummary(c *gin.Context) {
	summary, err := h.attendance.DailySummary(c.Request.Context(),
		c.Param("school"), c.Query("from"), c.Query("to"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": summary})
}

func (h *Handler) SearchPeople(c *gin.Context) {
	hits, err := h.attendance.SearchPeople(c.Request.Context(),
		c.Param("school"), c.Query("q"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": hits})
}

func (h *Handler) PersonDetail(c *gin.Context) {
	marks, err := h.attendance.PersonDetail(c.Request.Context(),
		c.Param("school"), c.Query("name"), c.Query("email"),
		c.Query("from"), c.Query("to"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": marks})
}

func (h *Handler) EntryExitMatrix(c *gin.Context) {
	matrix, err := h.attendance.EntryExitMatrix(c.Request.Context(),
		c.Param("school"), c.Query("from"), c.Query("to"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": matrix})
}
