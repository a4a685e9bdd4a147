package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/rendering"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httpresp"
	ucRendering "github.com/BruksfildServices01/clinic-scheduler/internal/usecase/rendering"
)

// ======================================================
// HANDLER
// ======================================================

type RenderingHandler struct {
	create  *ucRendering.CreateRendering
	update  *ucRendering.UpdateRendering
	remove  *ucRendering.DeleteRendering
	get     *ucRendering.GetRendering
	list    *ucRendering.ListRenderings
	summary *ucRendering.ProfessionalSummary
}

func NewRenderingHandler(
	create *ucRendering.CreateRendering,
	update *ucRendering.UpdateRendering,
	remove *ucRendering.DeleteRendering,
	get *ucRendering.GetRendering,
	list *ucRendering.ListRenderings,
	summary *ucRendering.ProfessionalSummary,
) *RenderingHandler {
	return &RenderingHandler{
		create:  create,
		update:  update,
		remove:  remove,
		get:     get,
		list:    list,
		summary: summary,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type CreateRenderingRequest struct {
	ProfessionalID  uint             `json:"professional_id" validate:"required"`
	PatientID       string           `json:"patient_id" validate:"required,uuid"`
	ServiceID       uint             `json:"service_id" validate:"required"`
	SubServiceID    *uint            `json:"sub_service_id"`
	Date            string           `json:"date" validate:"required,date"`
	Description     string           `json:"description" validate:"max=255"`
	TotalAmount     *decimal.Decimal `json:"total_amount" validate:"omitempty,gte=0"`
	ProfessionalPct *decimal.Decimal `json:"professional_pct" validate:"omitempty,gte=0,lte=100"`
	Notes           string           `json:"notes"`
}

type UpdateRenderingRequest struct {
	Date            *string          `json:"date" validate:"omitempty,date"`
	Description     *string          `json:"description" validate:"omitempty,max=255"`
	TotalAmount     *decimal.Decimal `json:"total_amount" validate:"omitempty,gte=0"`
	ProfessionalPct *decimal.Decimal `json:"professional_pct" validate:"omitempty,gte=0,lte=100"`
	Notes           *string          `json:"notes"`
}

type ListRenderingsQuery struct {
	PageQuery
	ProfessionalID string `form:"professional_id" validate:"omitempty,number"`
	PatientID      string `form:"patient_id" validate:"omitempty,uuid"`
	Status         string `form:"status" validate:"omitempty,oneof=pending settled paid"`
	From           string `form:"from" validate:"omitempty,date"`
	To             string `form:"to" validate:"omitempty,date"`
}

type RangeQuery struct {
	From string `form:"from" validate:"omitempty,date"`
	To   string `form:"to" validate:"omitempty,date"`
}

// ======================================================
// HANDLERS
// ======================================================

func (h *RenderingHandler) Create(c *gin.Context) {
	var req CreateRenderingRequest
	if !bindJSON(c, &req) {
		return
	}

	r, err := h.create.Execute(c.Request.Context(), ucRendering.CreateInput{
		ProfessionalID:  req.ProfessionalID,
		PatientID:       uuid.MustParse(req.PatientID),
		ServiceID:       req.ServiceID,
		SubServiceID:    req.SubServiceID,
		Date:            req.Date,
		Description:     req.Description,
		TotalAmount:     req.TotalAmount,
		ProfessionalPct: req.ProfessionalPct,
		Notes:           req.Notes,
		Actor:           actor(c),
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.Created(c, r)
}

func (h *RenderingHandler) List(c *gin.Context) {
	var q ListRenderingsQuery
	if !bindQuery(c, &q) {
		return
	}

	res, err := h.list.Execute(c.Request.Context(), domain.ListFilter{
		ProfessionalID: optionalUint(q.ProfessionalID),
		PatientID:      optionalUUID(q.PatientID),
		Status:         q.Status,
		From:           optionalDate(q.From),
		To:             optionalDate(q.To),
		Page:           q.Page,
		Limit:          q.Limit,
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.Page(c, res.Items, res.Page, res.Limit, res.Total)
}

func (h *RenderingHandler) Get(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	r, err := h.get.Execute(c.Request.Context(), id)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.OK(c, r)
}

func (h *RenderingHandler) Update(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req UpdateRenderingRequest
	if !bindJSON(c, &req) {
		return
	}

	r, err := h.update.Execute(c.Request.Context(), ucRendering.UpdateInput{
		ID:              id,
		Date:            req.Date,
		Description:     req.Description,
		TotalAmount:     req.TotalAmount,
		ProfessionalPct: req.ProfessionalPct,
		Notes:           req.Notes,
		Actor:           actor(c),
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.OK(c, r)
}

func (h *RenderingHandler) Delete(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := h.remove.Execute(c.Request.Context(), id, actor(c)); err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.NoContent(c)
}

func (h *RenderingHandler) Summary(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var q RangeQuery
	if !bindQuery(c, &q) {
		return
	}

	s, err := h.summary.Execute(c.Request.Context(), id, optionalDate(q.From), optionalDate(q.To))
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.OK(c, s)
}
