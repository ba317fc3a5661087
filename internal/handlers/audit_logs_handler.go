package handlers

import (
	"context"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/rehearsal-scheduler/internal/audit"
	"github.com/BruksfildServices01/rehearsal-scheduler/internal/httperr"
	"github.com/BruksfildServices01/rehearsal-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/rehearsal-scheduler/internal/models"
)

type auditLister interface {
	List(ctx context.Context, f audit.Filter) ([]models.AuditLog, int64, error)
}

// ======================================================
// HANDLER
// ======================================================

type AuditLogsHandler struct {
	logs auditLister
}

func NewAuditLogsHandler(logs auditLister) *AuditLogsHandler {
	return &AuditLogsHandler{logs: logs}
}

func (h *AuditLogsHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page <= 0 {
		page = 1
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	// --------------------------------------------------
	// Optional filters
	// --------------------------------------------------
	f := audit.Filter{
		Action: c.Query("action"),
		Page:   page,
		Limit:  limit,
	}

	if raw := c.Query("reservation_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			httperr.BadRequest(c, "invalid_id", "Invalid id.")
			return
		}
		f.Entity = "reservation"
		f.EntityID = uint(id)
	}

	logs, total, err := h.logs.List(c.Request.Context(), f)
	if err != nil {
		httperr.Internal(c, "audit_list_failed", "Failed to list audit logs.")
		return
	}

	httpresp.OK(c, gin.H{
		"page":  page,
		"limit": limit,
		"total": total,
		"logs":  logs,
	})
}
