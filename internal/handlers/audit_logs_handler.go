package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/student-teacher-portal/internal/audit"
	"github.com/BruksfildServices01/student-teacher-portal/internal/httperr"
	"github.com/BruksfildServices01/student-teacher-portal/internal/middleware"
)

// ======================================================
// HANDLER
// ======================================================

type AuditLogsHandler struct {
	logger *audit.Logger
}

func NewAuditLogsHandler(logger *audit.Logger) *AuditLogsHandler {
	return &AuditLogsHandler{logger: logger}
}

// List shows the signed in teacher's own actions, newest first.
func (h *AuditLogsHandler) List(c *gin.Context) {
	teacher := middleware.Teacher(c)

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page <= 0 {
		page = 1
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	// --------------------------------------------------
	// Query
	// --------------------------------------------------

	logs, err := h.logger.List(c.Request.Context(), audit.Filter{
		Actor:  teacher.ID.String(),
		Action: c.Query("action"),
		Entity: c.Query("entity"),
	})
	if err != nil {
		httperr.Internal(c, "audit_list_failed", "Failed to list audit logs.")
		return
	}

	// --------------------------------------------------
	// Page
	// --------------------------------------------------

	total := len(logs)
	start := total
	if page-1 <= total/limit {
		start = min((page-1)*limit, total)
	}
	end := start + limit
	if end > total {
		end = total
	}

	c.JSON(200, gin.H{
		"page":  page,
		"limit": limit,
		"total": total,
		"logs":  logs[start:end],
	})
}
