package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Appointment struct {
	ID uint `gorm:"primaryKey" json:"id"`

	PatientID uuid.UUID `gorm:"type:uuid;not null;index" json:"patient_id"`
	Patient   *Patient  `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"patient,omitempty"`

	ProfessionalID uint          `gorm:"not null;index:idx_appointments_professional_date" json:"professional_id"`
	Professional   *Professional `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"professional,omitempty"`

	ServiceID uint     `gorm:"not null" json:"service_id"`
	Service   *Service `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"service,omitempty"`

	SubServiceID *uint       `json:"sub_service_id"`
	SubService   *SubService `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"sub_service,omitempty"`

	Date      Date   `gorm:"not null;index:idx_appointments_professional_date" json:"date"`
	StartTime string `gorm:"size:5;not null" json:"start_time"`
	EndTime   string `gorm:"size:5;not null" json:"end_time"`

	Status           string           `gorm:"size:30;not null;default:'pending';index" json:"status"`
	PaymentConfirmed bool             `gorm:"not null;default:false" json:"payment_confirmed"`
	FinalPrice       *decimal.Decimal `gorm:"type:decimal(10,2)" json:"final_price"`
	Notes            string           `gorm:"type:text" json:"notes"`

	BookingMonth string `gorm:"size:7;not null;index" json:"booking_month"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (a *Appointment) BeforeSave(tx *gorm.DB) error {
	a.BookingMonth = a.Date.Month()
	return nil
}
