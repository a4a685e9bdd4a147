package notify

import (
	"context"

	"github.com/rs/zerolog/log"
)

// BookingNotice carries what a booking confirmation needs.
type BookingNotice struct {
	AppointmentID    uint   `json:"appointment_id"`
	PatientName      string `json:"patient_name"`
	PatientEmail     string `json:"patient_email"`
	ProfessionalName string `json:"professional_name"`
	ServiceName      string `json:"service_name"`
	Date             string `json:"date"`
	StartTime        string `json:"start_time"`
	EndTime          string `json:"end_time"`
}

// Notifier delivers booking confirmations. Callers log and ignore errors;
// delivery never affects the booking itself.
type Notifier interface {
	BookingConfirmed(ctx context.Context, n BookingNotice) error
}

// Discard is used when no delivery channel is configured.
type Discard struct{}

func (Discard) BookingConfirmed(_ context.Context, n BookingNotice) error {
	log.Debug().Uint("appointment_id", n.AppointmentID).Msg("notifications disabled, booking notice dropped")
	return nil
}
