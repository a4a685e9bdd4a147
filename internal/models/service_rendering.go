package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type ServiceRendering struct {
	ID uint `gorm:"primaryKey" json:"id"`

	ProfessionalID uint          `gorm:"not null;index:idx_renderings_professional_date" json:"professional_id"`
	Professional   *Professional `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"professional,omitempty"`

	PatientID uuid.UUID `gorm:"type:uuid;not null;index" json:"patient_id"`
	Patient   *Patient  `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"patient,omitempty"`

	ServiceID uint     `gorm:"not null" json:"service_id"`
	Service   *Service `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"service,omitempty"`

	SubServiceID *uint       `json:"sub_service_id"`
	SubService   *SubService `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"sub_service,omitempty"`

	// At most one rendering per appointment; survives appointment deletion.
	AppointmentID *uint        `gorm:"uniqueIndex" json:"appointment_id"`
	Appointment   *Appointment `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"-"`

	SettlementID *uint `gorm:"index" json:"settlement_id"`

	Date        Date   `gorm:"not null;index:idx_renderings_professional_date" json:"date"`
	Description string `gorm:"size:255" json:"description"`

	TotalAmount        decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"total_amount"`
	ProfessionalPct    decimal.Decimal `gorm:"type:decimal(5,2);not null" json:"professional_pct"`
	ProfessionalAmount decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"professional_amount"`

	Status    string `gorm:"size:20;not null;default:'pending';index" json:"status"`
	SettledOn *Date  `json:"settled_on"`
	PaidOn    *Date  `json:"paid_on"`
	Notes     string `gorm:"type:text" json:"notes"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
