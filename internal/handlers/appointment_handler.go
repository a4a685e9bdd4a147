package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-scheduler/internal/dto"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
	ucAppointment "github.com/BruksfildServices01/clinic-scheduler/internal/usecase/appointment"
)

// ======================================================
// HANDLER
// ======================================================

type AppointmentHandler struct {
	book           *ucAppointment.BookAppointment
	update         *ucAppointment.UpdateAppointment
	confirmPayment *ucAppointment.ConfirmPayment
	remove         *ucAppointment.DeleteAppointment
	get            *ucAppointment.GetAppointment
	list           *ucAppointment.ListAppointments
	availability   *ucAppointment.GetAvailability
}

func NewAppointmentHandler(
	book *ucAppointment.BookAppointment,
	update *ucAppointment.UpdateAppointment,
	confirmPayment *ucAppointment.ConfirmPayment,
	remove *ucAppointment.DeleteAppointment,
	get *ucAppointment.GetAppointment,
	list *ucAppointment.ListAppointments,
	availability *ucAppointment.GetAvailability,
) *AppointmentHandler {
	return &AppointmentHandler{
		book:           book,
		update:         update,
		confirmPayment: confirmPayment,
		remove:         remove,
		get:            get,
		list:           list,
		availability:   availability,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type CreateAppointmentRequest struct {
	PatientID      string           `json:"patient_id" validate:"required,uuid"`
	ProfessionalID uint             `json:"professional_id" validate:"required"`
	ServiceID      uint             `json:"service_id" validate:"required"`
	SubServiceID   *uint            `json:"sub_service_id"`
	Date           string           `json:"date" validate:"required,date"`
	StartTime      string           `json:"start_time" validate:"required,hhmm"`
	EndTime        string           `json:"end_time" validate:"required,hhmm"`
	Status         string           `json:"status"`
	FinalPrice     *decimal.Decimal `json:"final_price" validate:"omitempty,gte=0"`
	Notes          string           `json:"notes"`
}

type UpdateAppointmentRequest struct {
	PatientID        *string          `json:"patient_id" validate:"omitempty,uuid"`
	ProfessionalID   *uint            `json:"professional_id" validate:"omitempty,gt=0"`
	ServiceID        *uint            `json:"service_id" validate:"omitempty,gt=0"`
	SubServiceID     *uint            `json:"sub_service_id" validate:"omitempty,gt=0"`
	Date             *string          `json:"date" validate:"omitempty,date"`
	StartTime        *string          `json:"start_time" validate:"omitempty,hhmm"`
	EndTime          *string          `json:"end_time" validate:"omitempty,hhmm"`
	Status           *string          `json:"status"`
	PaymentConfirmed *bool            `json:"payment_confirmed"`
	FinalPrice       *decimal.Decimal `json:"final_price" validate:"omitempty,gte=0"`
	Notes            *string          `json:"notes"`
}

type ConfirmPaymentRequest struct {
	Confirm   *bool  `json:"confirm" validate:"required"`
	PaymentID string `json:"payment_id"`
}

type ListAppointmentsQuery struct {
	PageQuery
	ProfessionalID string `form:"professional_id" validate:"omitempty,number"`
	PatientID      string `form:"patient_id" validate:"omitempty,uuid"`
	Status         string `form:"status"`
	From           string `form:"from" validate:"omitempty,date"`
	To             string `form:"to" validate:"omitempty,date"`
}

type AvailabilityQuery struct {
	Date  string `form:"date" validate:"required,date"`
	Start string `form:"start" validate:"omitempty,hhmm"`
	End   string `form:"end" validate:"omitempty,hhmm"`
}

// ======================================================
// CREATE
// ======================================================

func (h *AppointmentHandler) Create(c *gin.Context) {
	var req CreateAppointmentRequest
	if !bindJSON(c, &req) {
		return
	}

	ap, err := h.book.Execute(c.Request.Context(), ucAppointment.BookInput{
		PatientID:      uuid.MustParse(req.PatientID),
		ProfessionalID: req.ProfessionalID,
		ServiceID:      req.ServiceID,
		SubServiceID:   req.SubServiceID,
		Date:           req.Date,
		StartTime:      req.StartTime,
		EndTime:        req.EndTime,
		Status:         req.Status,
		FinalPrice:     req.FinalPrice,
		Notes:          req.Notes,
		Actor:          actor(c),
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.Created(c, ap)
}

// ======================================================
// LIST / GET
// ======================================================

func (h *AppointmentHandler) List(c *gin.Context) {
	var q ListAppointmentsQuery
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

	httpresp.Page(c, dto.NewAppointmentList(res.Items), res.Page, res.Limit, res.Total)
}

func (h *AppointmentHandler) Get(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	ap, err := h.get.Execute(c.Request.Context(), id)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.OK(c, ap)
}

// ======================================================
// UPDATE
// ======================================================

func (h *AppointmentHandler) Update(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req UpdateAppointmentRequest
	if !bindJSON(c, &req) {
		return
	}

	in := ucAppointment.UpdateInput{
		ID:               id,
		ProfessionalID:   req.ProfessionalID,
		ServiceID:        req.ServiceID,
		SubServiceID:     req.SubServiceID,
		Date:             req.Date,
		StartTime:        req.StartTime,
		EndTime:          req.EndTime,
		Status:           req.Status,
		PaymentConfirmed: req.PaymentConfirmed,
		FinalPrice:       req.FinalPrice,
		Notes:            req.Notes,
		Actor:            actor(c),
	}
	if req.PatientID != nil {
		in.PatientID = optionalUUID(*req.PatientID)
	}

	ap, err := h.update.Execute(c.Request.Context(), in)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.OK(c, ap)
}

func (h *AppointmentHandler) ConfirmPayment(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req ConfirmPaymentRequest
	if !bindJSON(c, &req) {
		return
	}

	res, err := h.confirmPayment.Execute(c.Request.Context(), ucAppointment.ConfirmPaymentInput{
		ID:        id,
		Confirm:   *req.Confirm,
		PaymentID: req.PaymentID,
		Actor:     actor(c),
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, gin.H{
		"appointment":       res.Appointment,
		"rendering_created": res.Billing.Created,
		"rendering_deleted": res.Billing.Dropped != nil,
	})
}

// ======================================================
// DELETE
// ======================================================

func (h *AppointmentHandler) Delete(c *gin.Context) {
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

// ======================================================
// AVAILABILITY
// ======================================================

// Availability returns the day's slots, or a yes/no answer for a concrete
// interval when both start and end are given.
func (h *AppointmentHandler) Availability(c *gin.Context) {
	professionalID, ok := paramID(c, "professionalId")
	if !ok {
		return
	}

	var q AvailabilityQuery
	if !bindQuery(c, &q) {
		return
	}

	date, _ := models.ParseDate(q.Date)
	in := domain.AvailabilityInput{
		ProfessionalID: professionalID,
		Date:           date,
		Start:          q.Start,
		End:            q.End,
	}

	if q.Start != "" && q.End != "" {
		res, err := h.availability.Interval(c.Request.Context(), in)
		if err != nil {
			httperr.Respond(c, err)
			return
		}
		httpresp.OK(c, res)
		return
	}

	res, err := h.availability.Day(c.Request.Context(), in)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.OK(c, res)
}
