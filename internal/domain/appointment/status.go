package appointment

import (
	"strings"

	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
)

// ===============================
// Appointment Status
// ===============================

type Status string

const (
	StatusPending              Status = "pending"
	StatusAwaitingConfirmation Status = "awaiting_confirmation"
	StatusConfirmed            Status = "confirmed"
	StatusConfirmedEmail       Status = "confirmed_email"
	StatusConfirmedSMS         Status = "confirmed_sms"
	StatusConfirmedWhatsApp    Status = "confirmed_whatsapp"
	StatusWaitingRoom          Status = "waiting_room"
	StatusInProgress           Status = "in_progress"
	StatusAttended             Status = "attended"
	StatusAbsent               Status = "absent"
	StatusCancelled            Status = "cancelled"
)

var allStatuses = []Status{
	StatusPending,
	StatusAwaitingConfirmation,
	StatusConfirmed,
	StatusConfirmedEmail,
	StatusConfirmedSMS,
	StatusConfirmedWhatsApp,
	StatusWaitingRoom,
	StatusInProgress,
	StatusAttended,
	StatusAbsent,
	StatusCancelled,
}

func Statuses() []Status {
	out := make([]Status, len(allStatuses))
	copy(out, allStatuses)
	return out
}

func ParseStatus(s string) (Status, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	for _, st := range allStatuses {
		if string(st) == s {
			return st, nil
		}
	}
	return "", httperr.ErrValidation("Estado inválido.", httperr.FieldError{
		Field:   "status",
		Message: "Estado de turno desconocido",
	})
}

func InitialStatus() Status {
	return StatusPending
}

// IsConfirmed covers every confirmation channel.
func (s Status) IsConfirmed() bool {
	switch s {
	case StatusConfirmed, StatusConfirmedEmail, StatusConfirmedSMS, StatusConfirmedWhatsApp:
		return true
	}
	return false
}

// IsBillable reports whether reaching s materializes a service rendering.
func (s Status) IsBillable() bool {
	return s == StatusAttended || s.IsConfirmed()
}

// Blocks reports whether an appointment in s occupies its slot and quota.
func (s Status) Blocks() bool {
	return s != StatusCancelled
}
