package dto

import (
	"github.com/shopspring/decimal"

	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

// AppointmentListDTO is the flattened row of the appointment list.
type AppointmentListDTO struct {
	ID               uint             `json:"id"`
	Date             string           `json:"date"`
	StartTime        string           `json:"start_time"`
	EndTime          string           `json:"end_time"`
	Status           string           `json:"status"`
	PaymentConfirmed bool             `json:"payment_confirmed"`
	FinalPrice       *decimal.Decimal `json:"final_price"`
	PatientID        string           `json:"patient_id"`
	PatientName      string           `json:"patient_name"`
	ProfessionalID   uint             `json:"professional_id"`
	ProfessionalName string           `json:"professional_name"`
	ServiceName      string           `json:"service_name"`
}

func NewAppointmentList(items []models.Appointment) []AppointmentListDTO {
	out := make([]AppointmentListDTO, 0, len(items))
	for _, ap := range items {
		row := AppointmentListDTO{
			ID:               ap.ID,
			Date:             ap.Date.String(),
			StartTime:        ap.StartTime,
			EndTime:          ap.EndTime,
			Status:           ap.Status,
			PaymentConfirmed: ap.PaymentConfirmed,
			FinalPrice:       ap.FinalPrice,
			PatientID:        ap.PatientID.String(),
			ProfessionalID:   ap.ProfessionalID,
		}
		if ap.Patient != nil {
			row.PatientName = ap.Patient.FullName()
		}
		if ap.Professional != nil {
			row.ProfessionalName = ap.Professional.FullName()
		}
		if ap.Service != nil {
			row.ServiceName = ap.Service.Name
			if ap.SubService != nil {
				row.ServiceName += " - " + ap.SubService.Name
			}
		}
		out = append(out, row)
	}
	return out
}
