package handlers

import (
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

// ======================================================
// HANDLER
// ======================================================

type AuditLogsHandler struct {
	db *gorm.DB
}

func NewAuditLogsHandler(db *gorm.DB) *AuditLogsHandler {
	return &AuditLogsHandler{db: db}
}

type AuditLogsQuery struct {
	PageQuery
	Action string `form:"action" validate:"omitempty,max=50"`
	Entity string `form:"entity" validate:"omitempty,max=50"`
	UserID string `form:"user_id" validate:"omitempty,number"`
	From   string `form:"from" validate:"omitempty,date"`
	To     string `form:"to" validate:"omitempty,date"`
}

func (h *AuditLogsHandler) List(c *gin.Context) {
	var query AuditLogsQuery
	if !bindQuery(c, &query) {
		return
	}

	page := query.Page
	if page <= 0 {
		page = 1
	}
	limit := query.Limit
	if limit <= 0 {
		limit = 50
	}

	q := h.db.WithContext(c.Request.Context()).Model(&models.AuditLog{})

	// --------------------------------------------------
	// Optional filters
	// --------------------------------------------------

	if query.Action != "" {
		q = q.Where("action = ?", query.Action)
	}
	if query.Entity != "" {
		q = q.Where("entity = ?", query.Entity)
	}
	if id := optionalUint(query.UserID); id != nil {
		q = q.Where("user_id = ?", *id)
	}
	if from := optionalDate(query.From); from != nil {
		q = q.Where("created_at >= ?", from.Time())
	}
	if to := optionalDate(query.To); to != nil {
		q = q.Where("created_at < ?", to.Time().Add(24*time.Hour))
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		httperr.Internal(c, "audit_count_failed", "Error al contar registros.")
		return
	}

	var logs []models.AuditLog
	if err := q.
		Order("created_at DESC").
		Limit(limit).
		Offset((page - 1) * limit).
		Find(&logs).Error; err != nil {

		httperr.Internal(c, "audit_list_failed", "Error al listar registros.")
		return
	}

	httpresp.Page(c, logs, page, limit, total)
}
