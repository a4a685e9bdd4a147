package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Insurer struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"size:150;not null" json:"name"`
	Code string `gorm:"size:30" json:"code"`

	CreatedAt time.Time `json:"created_at"`
}

type Patient struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`

	FirstName string `gorm:"size:100;not null" json:"first_name"`
	LastName  string `gorm:"size:100;not null" json:"last_name"`
	Email     string `gorm:"size:150" json:"email"`
	Phone     string `gorm:"size:30" json:"phone"`

	InsurerID *uint    `gorm:"index" json:"insurer_id"`
	Insurer   *Insurer `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"insurer,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (p *Patient) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

func (p *Patient) FullName() string {
	return p.FirstName + " " + p.LastName
}
