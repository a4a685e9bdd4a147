package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

type SettlementDetails struct {
	RenderingIDs []uint `json:"rendering_ids"`
	CustomAmount bool   `json:"custom_amount"`

	// Sum of the renderings' professional amounts before any override.
	ComputedProfessionalAmount decimal.Decimal `json:"computed_professional_amount"`
}

type Settlement struct {
	ID uint `gorm:"primaryKey" json:"id"`

	ProfessionalID uint          `gorm:"not null;index" json:"professional_id"`
	Professional   *Professional `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"professional,omitempty"`

	PeriodStart Date `gorm:"not null" json:"period_start"`
	PeriodEnd   Date `gorm:"not null" json:"period_end"`

	TotalAmount        decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0" json:"total_amount"`
	ProfessionalAmount decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0" json:"professional_amount"`
	RenderingsCount    int             `gorm:"not null;default:0" json:"renderings_count"`

	Status        string `gorm:"size:20;not null;default:'generated';index" json:"status"`
	PaidOn        *Date  `json:"paid_on"`
	PaymentMethod string `gorm:"size:30" json:"payment_method"`
	Notes         string `gorm:"type:text" json:"notes"`

	Details datatypes.JSONType[SettlementDetails] `gorm:"type:jsonb" json:"details"`

	StatementKey string `gorm:"size:255" json:"statement_key,omitempty"`

	Renderings []ServiceRendering `gorm:"foreignKey:SettlementID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"renderings,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
