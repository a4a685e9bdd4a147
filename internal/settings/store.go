package settings

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"gorm.io/gorm"

	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

const KeyClinicName = "clinic_name"

// Reader is what the rest of the app needs from the settings table.
type Reader interface {
	String(ctx context.Context, key, def string) string
}

type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Get(ctx context.Context, key string) (*models.Setting, error) {
	var row models.Setting
	if err := s.db.WithContext(ctx).Where("key = ?", key).First(&row).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

func (s *Store) List(ctx context.Context) ([]models.Setting, error) {
	var rows []models.Setting
	if err := s.db.WithContext(ctx).Order("key").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// String returns the raw value, def when the key is missing.
func (s *Store) String(ctx context.Context, key, def string) string {
	row, err := s.Get(ctx, key)
	if err != nil {
		return def
	}
	return row.Value
}

func (s *Store) Set(ctx context.Context, key string, value any, typ string) error {
	raw, err := Encode(value, typ)
	if err != nil {
		return err
	}
	row := models.Setting{Key: key, Value: raw, Type: typ}
	return s.db.WithContext(ctx).Save(&row).Error
}

// Decode converts a stored value into string, float64, bool or a JSON value.
func Decode(row *models.Setting) (any, error) {
	switch row.Type {
	case models.SettingNumber:
		return strconv.ParseFloat(row.Value, 64)
	case models.SettingBoolean:
		return strconv.ParseBool(row.Value)
	case models.SettingJSON:
		var v any
		if err := json.Unmarshal([]byte(row.Value), &v); err != nil {
			return nil, err
		}
		return v, nil
	case models.SettingString, "":
		return row.Value, nil
	}
	return nil, fmt.Errorf("setting %q: unknown type %q", row.Key, row.Type)
}

func Encode(value any, typ string) (string, error) {
	switch typ {
	case models.SettingJSON:
		b, err := json.Marshal(value)
		if err != nil {
			return "", err
		}
		return string(b), nil
	case models.SettingString, models.SettingNumber, models.SettingBoolean:
		return fmt.Sprint(value), nil
	}
	return "", errors.New("unknown setting type " + typ)
}
