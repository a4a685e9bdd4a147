package appointment

import "github.com/BruksfildServices01/clinic-scheduler/internal/models"

type AvailabilityInput struct {
	ProfessionalID uint
	Date           models.Date

	// Optional concrete interval; when both are set only that interval is checked.
	Start string
	End   string
}

type TimeSlot struct {
	Start     string `json:"start"`
	End       string `json:"end"`
	Available bool   `json:"available"`
}

type DayAvailability struct {
	ProfessionalID uint       `json:"professional_id"`
	Date           string     `json:"date"`
	Available      bool       `json:"available"`
	Slots          []TimeSlot `json:"slots"`
}

type IntervalAvailability struct {
	Available bool   `json:"available"`
	Message   string `json:"message"`
}
