package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/rendering"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

type RenderingGormRepository struct {
	db *gorm.DB
}

func NewRenderingGormRepository(db *gorm.DB) *RenderingGormRepository {
	return &RenderingGormRepository{db: db}
}

// --------------------------------------------------
// Transaction
// --------------------------------------------------

func (r *RenderingGormRepository) Transaction(
	ctx context.Context,
	fn func(tx domain.Repository) error,
) error {

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&RenderingGormRepository{db: tx})
	})
	return translateError(err, errConcurrentUpdate())
}

// --------------------------------------------------
// Read models
// --------------------------------------------------

func (r *RenderingGormRepository) GetProfessional(ctx context.Context, id uint) (*models.Professional, error) {
	var prof models.Professional
	if err := r.db.WithContext(ctx).First(&prof, id).Error; err != nil {
		return nil, err
	}
	return &prof, nil
}

func (r *RenderingGormRepository) GetPatient(ctx context.Context, id uuid.UUID) (*models.Patient, error) {
	var patient models.Patient
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&patient).Error; err != nil {
		return nil, err
	}
	return &patient, nil
}

func (r *RenderingGormRepository) GetService(ctx context.Context, id uint) (*models.Service, error) {
	var svc models.Service
	if err := r.db.WithContext(ctx).First(&svc, id).Error; err != nil {
		return nil, err
	}
	return &svc, nil
}

func (r *RenderingGormRepository) GetSubService(ctx context.Context, serviceID uint, id uint) (*models.SubService, error) {
	var sub models.SubService
	if err := r.db.WithContext(ctx).
		Where("id = ? AND service_id = ?", id, serviceID).
		First(&sub).Error; err != nil {
		return nil, err
	}
	return &sub, nil
}

// --------------------------------------------------
// Rendering
// --------------------------------------------------

func (r *RenderingGormRepository) Get(ctx context.Context, id uint) (*models.ServiceRendering, error) {
	var rendering models.ServiceRendering
	if err := r.db.WithContext(ctx).
		Preload("Professional").
		Preload("Patient").
		Preload("Service").
		Preload("SubService").
		First(&rendering, id).Error; err != nil {
		return nil, err
	}
	return &rendering, nil
}

func (r *RenderingGormRepository) Lock(ctx context.Context, id uint) (*models.ServiceRendering, error) {
	var rendering models.ServiceRendering
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&rendering, id).Error; err != nil {
		return nil, err
	}
	return &rendering, nil
}

func (r *RenderingGormRepository) Create(ctx context.Context, rendering *models.ServiceRendering) error {
	err := r.db.WithContext(ctx).Omit(clause.Associations).Create(rendering).Error
	return translateError(err, errConcurrentUpdate())
}

func (r *RenderingGormRepository) Update(ctx context.Context, rendering *models.ServiceRendering) error {
	res := r.db.WithContext(ctx).
		Model(rendering).
		Select(domain.EditableColumns).
		Updates(rendering)
	if res.Error != nil {
		return translateError(res.Error, errConcurrentUpdate())
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Delete only removes renderings still pending; the status guard lives in
// the statement so a concurrent settlement cannot lose a claimed row.
func (r *RenderingGormRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).
		Where("id = ? AND status = ?", id, string(domain.StatusPending)).
		Delete(&models.ServiceRendering{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrLocked()
	}
	return nil
}

func (r *RenderingGormRepository) List(
	ctx context.Context,
	f domain.ListFilter,
) ([]models.ServiceRendering, int64, error) {

	q := r.filtered(ctx, f.ProfessionalID, f.From, f.To)

	if f.PatientID != nil {
		q = q.Where("patient_id = ?", *f.PatientID)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var items []models.ServiceRendering
	if err := q.
		Preload("Professional").
		Preload("Patient").
		Preload("Service").
		Preload("SubService").
		Order("date DESC, id DESC").
		Limit(f.Limit).
		Offset((f.Page - 1) * f.Limit).
		Find(&items).Error; err != nil {
		return nil, 0, err
	}

	return items, total, nil
}

func (r *RenderingGormRepository) SummaryByStatus(
	ctx context.Context,
	professionalID uint,
	from *models.Date,
	to *models.Date,
) ([]domain.StatusRow, error) {

	var rows []domain.StatusRow
	if err := r.filtered(ctx, &professionalID, from, to).
		Select(
			"status",
			"COUNT(*) AS count",
			"COALESCE(SUM(total_amount), 0) AS total_amount",
			"COALESCE(SUM(professional_amount), 0) AS professional_amount",
		).
		Group("status").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *RenderingGormRepository) filtered(
	ctx context.Context,
	professionalID *uint,
	from *models.Date,
	to *models.Date,
) *gorm.DB {

	q := r.db.WithContext(ctx).Model(&models.ServiceRendering{})
	if professionalID != nil {
		q = q.Where("professional_id = ?", *professionalID)
	}
	if from != nil {
		q = q.Where("date >= ?", *from)
	}
	if to != nil {
		q = q.Where("date <= ?", *to)
	}
	return q
}

// Compile-time check
var _ domain.Repository = (*RenderingGormRepository)(nil)
