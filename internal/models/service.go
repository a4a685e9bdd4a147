package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Service struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Name        string          `gorm:"size:150;not null" json:"name"`
	BasePrice   decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0" json:"base_price"`
	DurationMin int             `gorm:"not null;default:30" json:"duration_min"`
	Active      bool            `gorm:"default:true" json:"active"`

	SubServices []SubService `json:"sub_services,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type SubService struct {
	ID uint `gorm:"primaryKey" json:"id"`

	ServiceID uint   `gorm:"not null;index" json:"service_id"`
	Name      string `gorm:"size:150;not null" json:"name"`

	Price decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0" json:"price"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
