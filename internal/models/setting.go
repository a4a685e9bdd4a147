package models

import "time"

const (
	SettingString  = "string"
	SettingNumber  = "number"
	SettingBoolean = "boolean"
	SettingJSON    = "json"
)

type Setting struct {
	Key         string `gorm:"primaryKey;size:100" json:"key"`
	Value       string `gorm:"type:text" json:"value"`
	Type        string `gorm:"size:10;not null;default:'string'" json:"type"`
	Description string `gorm:"size:255" json:"description"`

	UpdatedAt time.Time `json:"updated_at"`
}
