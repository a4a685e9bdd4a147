package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/clinic-scheduler/internal/domain/schedule"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
	ucProfessional "github.com/BruksfildServices01/clinic-scheduler/internal/usecase/professional"
)

type ProfessionalHandler struct {
	getSchedule    *ucProfessional.GetSchedule
	updateSchedule *ucProfessional.UpdateSchedule
	slots          *ucProfessional.AvailableSlots
	deactivate     *ucProfessional.Deactivate
}

func NewProfessionalHandler(
	getSchedule *ucProfessional.GetSchedule,
	updateSchedule *ucProfessional.UpdateSchedule,
	slots *ucProfessional.AvailableSlots,
	deactivate *ucProfessional.Deactivate,
) *ProfessionalHandler {
	return &ProfessionalHandler{
		getSchedule:    getSchedule,
		updateSchedule: updateSchedule,
		slots:          slots,
		deactivate:     deactivate,
	}
}

type SlotsQuery struct {
	Date string `form:"date" validate:"required,date"`
}

func (h *ProfessionalHandler) GetSchedule(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	w, err := h.getSchedule.Execute(c.Request.Context(), id)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.OK(c, w)
}

// UpdateSchedule replaces the whole weekly schedule; omitted weekdays become
// inactive.
func (h *ProfessionalHandler) UpdateSchedule(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var w schedule.WeeklySchedule
	if err := c.ShouldBindJSON(&w); err != nil {
		httperr.BadRequest(c, "invalid_request", "JSON inválido.")
		return
	}

	saved, err := h.updateSchedule.Execute(c.Request.Context(), id, w, actor(c))
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.OK(c, saved)
}

func (h *ProfessionalHandler) AvailableSlots(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var q SlotsQuery
	if !bindQuery(c, &q) {
		return
	}
	date, _ := models.ParseDate(q.Date)

	res, err := h.slots.Execute(c.Request.Context(), id, date)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.OK(c, res)
}

func (h *ProfessionalHandler) Delete(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := h.deactivate.Execute(c.Request.Context(), id, actor(c)); err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.NoContent(c)
}
