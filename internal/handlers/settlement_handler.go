package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/settlement"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httpresp"
	ucSettlement "github.com/BruksfildServices01/clinic-scheduler/internal/usecase/settlement"
)

// ======================================================
// HANDLER
// ======================================================

type SettlementHandler struct {
	generate   *ucSettlement.GenerateSettlement
	simulate   *ucSettlement.SimulateSettlement
	pay        *ucSettlement.PaySettlement
	void       *ucSettlement.VoidSettlement
	get        *ucSettlement.GetSettlement
	list       *ucSettlement.ListSettlements
	summary    *ucSettlement.ProfessionalSummary
	statements *ucSettlement.Statements
}

func NewSettlementHandler(
	generate *ucSettlement.GenerateSettlement,
	simulate *ucSettlement.SimulateSettlement,
	pay *ucSettlement.PaySettlement,
	void *ucSettlement.VoidSettlement,
	get *ucSettlement.GetSettlement,
	list *ucSettlement.ListSettlements,
	summary *ucSettlement.ProfessionalSummary,
	statements *ucSettlement.Statements,
) *SettlementHandler {
	return &SettlementHandler{
		generate:   generate,
		simulate:   simulate,
		pay:        pay,
		void:       void,
		get:        get,
		list:       list,
		summary:    summary,
		statements: statements,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type GenerateSettlementRequest struct {
	ProfessionalID uint             `json:"professional_id" validate:"required"`
	PeriodStart    string           `json:"period_start" validate:"required,date"`
	PeriodEnd      string           `json:"period_end" validate:"required,date"`
	Notes          string           `json:"notes"`
	CustomAmount   *decimal.Decimal `json:"custom_amount" validate:"omitempty,gte=0"`
}

type SimulateSettlementRequest struct {
	ProfessionalID uint    `json:"professional_id" validate:"required"`
	Period         string  `json:"period" validate:"omitempty,oneof=today week month custom"`
	CustomStart    *string `json:"custom_start" validate:"omitempty,date"`
	CustomEnd      *string `json:"custom_end" validate:"omitempty,date"`
	PayerType      string  `json:"payer_type" validate:"omitempty,oneof=insurer private"`
	InsurerID      *uint   `json:"insurer_id"`
}

type PaySettlementRequest struct {
	PaymentMethod string  `json:"payment_method" validate:"required,max=30"`
	PaidOn        *string `json:"paid_on" validate:"omitempty,date"`
	Notes         *string `json:"notes"`
}

type VoidSettlementRequest struct {
	Reason string `json:"reason" validate:"required"`
}

type ListSettlementsQuery struct {
	PageQuery
	ProfessionalID string `form:"professional_id" validate:"omitempty,number"`
	Status         string `form:"status" validate:"omitempty,oneof=draft generated paid voided"`
	From           string `form:"from" validate:"omitempty,date"`
	To             string `form:"to" validate:"omitempty,date"`
}

// ======================================================
// GENERATE / SIMULATE
// ======================================================

func (h *SettlementHandler) Generate(c *gin.Context) {
	var req GenerateSettlementRequest
	if !bindJSON(c, &req) {
		return
	}

	s, err := h.generate.Execute(c.Request.Context(), ucSettlement.GenerateInput{
		ProfessionalID: req.ProfessionalID,
		PeriodStart:    req.PeriodStart,
		PeriodEnd:      req.PeriodEnd,
		Notes:          req.Notes,
		CustomAmount:   req.CustomAmount,
		Actor:          actor(c),
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.Created(c, s)
}

func (h *SettlementHandler) Simulate(c *gin.Context) {
	var req SimulateSettlementRequest
	if !bindJSON(c, &req) {
		return
	}

	res, err := h.simulate.Execute(c.Request.Context(), ucSettlement.SimulateInput{
		ProfessionalID: req.ProfessionalID,
		Period:         req.Period,
		CustomStart:    req.CustomStart,
		CustomEnd:      req.CustomEnd,
		PayerType:      req.PayerType,
		InsurerID:      req.InsurerID,
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.OK(c, res)
}

// ======================================================
// PAY / VOID
// ======================================================

func (h *SettlementHandler) Pay(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req PaySettlementRequest
	if !bindJSON(c, &req) {
		return
	}

	s, err := h.pay.Execute(c.Request.Context(), ucSettlement.PayInput{
		ID:            id,
		PaymentMethod: req.PaymentMethod,
		PaidOn:        req.PaidOn,
		Notes:         req.Notes,
		Actor:         actor(c),
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.OK(c, s)
}

func (h *SettlementHandler) Void(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req VoidSettlementRequest
	if !bindJSON(c, &req) {
		return
	}

	s, err := h.void.Execute(c.Request.Context(), ucSettlement.VoidInput{
		ID:     id,
		Reason: req.Reason,
		Actor:  actor(c),
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.OK(c, s)
}

// ======================================================
// READ
// ======================================================

func (h *SettlementHandler) Get(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	s, err := h.get.Execute(c.Request.Context(), id)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.OK(c, s)
}

func (h *SettlementHandler) List(c *gin.Context) {
	var q ListSettlementsQuery
	if !bindQuery(c, &q) {
		return
	}

	res, err := h.list.Execute(c.Request.Context(), domain.ListFilter{
		ProfessionalID: optionalUint(q.ProfessionalID),
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

func (h *SettlementHandler) Summary(c *gin.Context) {
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

func (h *SettlementHandler) Statement(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	body, s, err := h.statements.Render(c.Request.Context(), id)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`inline; filename="liquidacion-%d.pdf"`, s.ID))
	c.Data(http.StatusOK, "application/pdf", body)
}
