package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

type AppointmentGormRepository struct {
	db *gorm.DB
}

func NewAppointmentGormRepository(db *gorm.DB) *AppointmentGormRepository {
	return &AppointmentGormRepository{db: db}
}

// --------------------------------------------------
// Transaction
// --------------------------------------------------

func (r *AppointmentGormRepository) Transaction(
	ctx context.Context,
	fn func(tx domain.Repository) error,
) error {

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&AppointmentGormRepository{db: tx})
	}, &sql.TxOptions{Isolation: sql.LevelSerializable})

	return translateError(err, domain.ErrSerialization())
}

// --------------------------------------------------
// Read models
// --------------------------------------------------

func (r *AppointmentGormRepository) GetProfessional(
	ctx context.Context,
	id uint,
) (*models.Professional, error) {

	var prof models.Professional
	if err := r.db.WithContext(ctx).First(&prof, id).Error; err != nil {
		return nil, err
	}
	return &prof, nil
}

func (r *AppointmentGormRepository) GetPatient(
	ctx context.Context,
	id uuid.UUID,
) (*models.Patient, error) {

	var patient models.Patient
	if err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&patient).Error; err != nil {
		return nil, err
	}
	return &patient, nil
}

func (r *AppointmentGormRepository) GetService(
	ctx context.Context,
	id uint,
) (*models.Service, error) {

	var svc models.Service
	if err := r.db.WithContext(ctx).First(&svc, id).Error; err != nil {
		return nil, err
	}
	return &svc, nil
}

func (r *AppointmentGormRepository) GetSubService(
	ctx context.Context,
	serviceID uint,
	id uint,
) (*models.SubService, error) {

	var sub models.SubService
	if err := r.db.WithContext(ctx).
		Where("id = ? AND service_id = ?", id, serviceID).
		First(&sub).Error; err != nil {
		return nil, err
	}
	return &sub, nil
}

// --------------------------------------------------
// Conflict guard
// --------------------------------------------------

func (r *AppointmentGormRepository) HasTimeConflict(
	ctx context.Context,
	professionalID uint,
	date models.Date,
	start string,
	end string,
	excludeID uint,
) (bool, error) {

	var ids []uint
	if err := r.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where(
			"professional_id = ? AND date = ? AND status <> ? AND start_time < ? AND end_time > ? AND id <> ?",
			professionalID, date, string(domain.StatusCancelled), end, start, excludeID,
		).
		Limit(1).
		Pluck("id", &ids).Error; err != nil {
		return false, err
	}

	return len(ids) > 0, nil
}

func (r *AppointmentGormRepository) HasMonthlyAppointment(
	ctx context.Context,
	patientID uuid.UUID,
	month string,
	excludeID uint,
) (bool, error) {

	var ids []uint
	if err := r.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where(
			"patient_id = ? AND booking_month = ? AND status <> ? AND id <> ?",
			patientID, month, string(domain.StatusCancelled), excludeID,
		).
		Limit(1).
		Pluck("id", &ids).Error; err != nil {
		return false, err
	}

	return len(ids) > 0, nil
}

// --------------------------------------------------
// Appointment
// --------------------------------------------------

func (r *AppointmentGormRepository) GetAppointment(
	ctx context.Context,
	id uint,
) (*models.Appointment, error) {

	var ap models.Appointment
	if err := r.db.WithContext(ctx).
		Preload("Patient").
		Preload("Professional").
		Preload("Service").
		Preload("SubService").
		First(&ap, id).Error; err != nil {
		return nil, err
	}
	return &ap, nil
}

func (r *AppointmentGormRepository) LockAppointment(
	ctx context.Context,
	id uint,
) (*models.Appointment, error) {

	var ap models.Appointment
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&ap, id).Error; err != nil {
		return nil, err
	}
	return &ap, nil
}

func (r *AppointmentGormRepository) CreateAppointment(
	ctx context.Context,
	ap *models.Appointment,
) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(ap).Error
}

func (r *AppointmentGormRepository) UpdateAppointment(
	ctx context.Context,
	ap *models.Appointment,
) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(ap).Error
}

func (r *AppointmentGormRepository) DeleteAppointment(
	ctx context.Context,
	id uint,
) error {

	res := r.db.WithContext(ctx).Delete(&models.Appointment{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *AppointmentGormRepository) ListAppointments(
	ctx context.Context,
	f domain.ListFilter,
) ([]models.Appointment, int64, error) {

	q := r.db.WithContext(ctx).Model(&models.Appointment{})

	if f.ProfessionalID != nil {
		q = q.Where("professional_id = ?", *f.ProfessionalID)
	}
	if f.PatientID != nil {
		q = q.Where("patient_id = ?", *f.PatientID)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.From != nil {
		q = q.Where("date >= ?", *f.From)
	}
	if f.To != nil {
		q = q.Where("date <= ?", *f.To)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var apps []models.Appointment
	if err := q.
		Preload("Patient").
		Preload("Professional").
		Preload("Service").
		Preload("SubService").
		Order("date ASC, start_time ASC").
		Limit(f.Limit).
		Offset((f.Page - 1) * f.Limit).
		Find(&apps).Error; err != nil {
		return nil, 0, err
	}

	return apps, total, nil
}

func (r *AppointmentGormRepository) ListAppointmentsForDay(
	ctx context.Context,
	professionalID uint,
	date models.Date,
) ([]models.Appointment, error) {

	var apps []models.Appointment
	if err := r.db.WithContext(ctx).
		Select("id", "start_time", "end_time", "status").
		Where(
			"professional_id = ? AND date = ? AND status <> ?",
			professionalID, date, string(domain.StatusCancelled),
		).
		Order("start_time ASC").
		Find(&apps).Error; err != nil {
		return nil, err
	}

	return apps, nil
}

// --------------------------------------------------
// Billing
// --------------------------------------------------

func (r *AppointmentGormRepository) OffersService(
	ctx context.Context,
	professionalID uint,
	serviceID uint,
) (bool, error) {

	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.ProfessionalService{}).
		Where("professional_id = ? AND service_id = ? AND status = ?",
			professionalID, serviceID, models.OfferingActive).
		Count(&count).Error
	return count > 0, err
}

func (r *AppointmentGormRepository) FindRenderingByAppointment(
	ctx context.Context,
	appointmentID uint,
) (*models.ServiceRendering, error) {

	var rendering models.ServiceRendering
	err := r.db.WithContext(ctx).
		Where("appointment_id = ?", appointmentID).
		Limit(1).
		Find(&rendering).Error
	if err != nil {
		return nil, err
	}
	if rendering.ID == 0 {
		return nil, nil
	}
	return &rendering, nil
}

func (r *AppointmentGormRepository) CreateRendering(
	ctx context.Context,
	rendering *models.ServiceRendering,
) error {
	db := r.db.WithContext(ctx)
	if err := db.SavePoint(spCreateRendering).Error; err != nil {
		return err
	}

	err := db.Omit(clause.Associations).Create(rendering).Error
	if isUniqueViolation(err, idxRenderingsAppointment) {
		if rbErr := db.RollbackTo(spCreateRendering).Error; rbErr != nil {
			return rbErr
		}
		return domain.ErrRenderingExists
	}
	return err
}

func (r *AppointmentGormRepository) DeleteRendering(
	ctx context.Context,
	id uint,
) error {
	return r.db.WithContext(ctx).Delete(&models.ServiceRendering{}, id).Error
}

// Compile-time check
var _ domain.Repository = (*AppointmentGormRepository)(nil)
