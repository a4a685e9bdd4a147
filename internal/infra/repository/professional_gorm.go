package repository

import (
	"context"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/clinic-scheduler/internal/domain/schedule"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
	"github.com/BruksfildServices01/clinic-scheduler/internal/usecase/professional"
)

type ProfessionalGormRepository struct {
	db *gorm.DB
}

func NewProfessionalGormRepository(db *gorm.DB) *ProfessionalGormRepository {
	return &ProfessionalGormRepository{db: db}
}

func (r *ProfessionalGormRepository) Get(
	ctx context.Context,
	id uint,
) (*models.Professional, error) {

	var prof models.Professional
	if err := r.db.WithContext(ctx).First(&prof, id).Error; err != nil {
		return nil, err
	}
	return &prof, nil
}

func (r *ProfessionalGormRepository) UpdateSchedule(
	ctx context.Context,
	id uint,
	w schedule.WeeklySchedule,
) error {

	res := r.db.WithContext(ctx).
		Model(&models.Professional{}).
		Where("id = ?", id).
		Update("schedule", datatypes.NewJSONType(w))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *ProfessionalGormRepository) SetStatus(
	ctx context.Context,
	id uint,
	status string,
) error {

	res := r.db.WithContext(ctx).
		Model(&models.Professional{}).
		Where("id = ?", id).
		Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

var _ professional.Repository = (*ProfessionalGormRepository)(nil)
