package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"

	"github.com/BruksfildServices01/clinic-scheduler/internal/domain/schedule"
)

const (
	ProfessionalActive    = "active"
	ProfessionalInactive  = "inactive"
	ProfessionalSuspended = "suspended"
)

type Professional struct {
	ID uint `gorm:"primaryKey" json:"id"`

	FirstName string `gorm:"size:100;not null" json:"first_name"`
	LastName  string `gorm:"size:100;not null" json:"last_name"`
	Specialty string `gorm:"size:100" json:"specialty"`
	Email     string `gorm:"size:150" json:"email"`

	CommissionPct *decimal.Decimal `gorm:"type:decimal(5,2)" json:"commission_pct"`
	Status        string           `gorm:"size:20;not null;default:'active';index" json:"status"`

	Schedule datatypes.JSONType[schedule.WeeklySchedule] `gorm:"type:jsonb" json:"schedule"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

const (
	OfferingActive   = "active"
	OfferingInactive = "inactive"
)

// ProfessionalService links a professional to a service they perform.
type ProfessionalService struct {
	ID uint `gorm:"primaryKey" json:"id"`

	ProfessionalID uint   `gorm:"not null;uniqueIndex:idx_professional_service" json:"professional_id"`
	ServiceID      uint   `gorm:"not null;uniqueIndex:idx_professional_service" json:"service_id"`
	Status         string `gorm:"size:20;not null;default:'active'" json:"status"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (p *Professional) FullName() string {
	return p.FirstName + " " + p.LastName
}

func (p *Professional) IsActive() bool {
	return p.Status == ProfessionalActive
}
