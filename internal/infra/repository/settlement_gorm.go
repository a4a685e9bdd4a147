package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/BruksfildServices01/clinic-scheduler/internal/domain/rendering"
	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/settlement"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

type SettlementGormRepository struct {
	db *gorm.DB
}

func NewSettlementGormRepository(db *gorm.DB) *SettlementGormRepository {
	return &SettlementGormRepository{db: db}
}

func (r *SettlementGormRepository) Transaction(
	ctx context.Context,
	fn func(tx domain.Repository) error,
) error {

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&SettlementGormRepository{db: tx})
	})
	return translateError(err, errConcurrentUpdate())
}

func (r *SettlementGormRepository) GetProfessional(
	ctx context.Context,
	id uint,
) (*models.Professional, error) {

	var prof models.Professional
	if err := r.db.WithContext(ctx).First(&prof, id).Error; err != nil {
		return nil, err
	}
	return &prof, nil
}

// --------------------------------------------------
// Renderings
// --------------------------------------------------

func (r *SettlementGormRepository) PendingRenderings(
	ctx context.Context,
	sel domain.Selection,
	lock bool,
) ([]models.ServiceRendering, error) {

	q := r.db.WithContext(ctx).
		Model(&models.ServiceRendering{}).
		Where(
			"service_renderings.professional_id = ? AND service_renderings.status = ? AND service_renderings.settlement_id IS NULL",
			sel.ProfessionalID, string(rendering.StatusPending),
		).
		Where(
			"service_renderings.date BETWEEN ? AND ?",
			sel.Period.Start, sel.Period.End,
		)

	switch sel.Payer {
	case domain.PayerInsurer:
		q = q.Joins("JOIN patients ON patients.id = service_renderings.patient_id")
		if sel.InsurerID != nil {
			q = q.Where("patients.insurer_id = ?", *sel.InsurerID)
		} else {
			q = q.Where("patients.insurer_id IS NOT NULL")
		}
	case domain.PayerPrivate:
		q = q.Joins("JOIN patients ON patients.id = service_renderings.patient_id").
			Where("patients.insurer_id IS NULL")
	}

	if lock {
		q = q.Clauses(clause.Locking{
			Strength: "UPDATE",
			Table:    clause.Table{Name: "service_renderings"},
		})
	} else {
		q = q.Preload("Patient").Preload("Service")
	}

	var items []models.ServiceRendering
	if err := q.
		Order("service_renderings.date ASC, service_renderings.id ASC").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *SettlementGormRepository) ClaimRenderings(
	ctx context.Context,
	settlementID uint,
	ids []uint,
	settledOn models.Date,
) error {

	res := r.db.WithContext(ctx).
		Model(&models.ServiceRendering{}).
		Where("id IN ? AND status = ? AND settlement_id IS NULL", ids, string(rendering.StatusPending)).
		Updates(map[string]any{
			"status":        string(rendering.StatusSettled),
			"settlement_id": settlementID,
			"settled_on":    settledOn,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected != int64(len(ids)) {
		return fmt.Errorf("claimed %d of %d renderings: %w", res.RowsAffected, len(ids), errConcurrentUpdate())
	}
	return nil
}

func (r *SettlementGormRepository) MarkRenderingsPaid(
	ctx context.Context,
	settlementID uint,
	paidOn models.Date,
) error {

	return r.db.WithContext(ctx).
		Model(&models.ServiceRendering{}).
		Where("settlement_id = ? AND status = ?", settlementID, string(rendering.StatusSettled)).
		Updates(map[string]any{
			"status":  string(rendering.StatusPaid),
			"paid_on": paidOn,
		}).Error
}

func (r *SettlementGormRepository) ReleaseRenderings(
	ctx context.Context,
	settlementID uint,
) error {

	return r.db.WithContext(ctx).
		Model(&models.ServiceRendering{}).
		Where("settlement_id = ?", settlementID).
		Updates(map[string]any{
			"status":        string(rendering.StatusPending),
			"settlement_id": nil,
			"settled_on":    nil,
		}).Error
}

func (r *SettlementGormRepository) CountUnsettled(
	ctx context.Context,
	professionalID uint,
	from *models.Date,
	to *models.Date,
) (int64, error) {

	q := r.db.WithContext(ctx).
		Model(&models.ServiceRendering{}).
		Where(
			"professional_id = ? AND status = ? AND settlement_id IS NULL",
			professionalID, string(rendering.StatusPending),
		)
	if from != nil && to != nil {
		q = q.Where("date BETWEEN ? AND ?", *from, *to)
	}

	var n int64
	if err := q.Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}

// --------------------------------------------------
// Settlements
// --------------------------------------------------

func (r *SettlementGormRepository) CreateSettlement(
	ctx context.Context,
	s *models.Settlement,
) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(s).Error
}

func (r *SettlementGormRepository) GetSettlement(
	ctx context.Context,
	id uint,
	withRenderings bool,
) (*models.Settlement, error) {

	q := r.db.WithContext(ctx).Preload("Professional")
	if withRenderings {
		q = q.Preload("Renderings", func(db *gorm.DB) *gorm.DB {
			return db.Order("date ASC, id ASC")
		}).
			Preload("Renderings.Patient").
			Preload("Renderings.Service").
			Preload("Renderings.SubService")
	}

	var s models.Settlement
	if err := q.First(&s, id).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *SettlementGormRepository) LockSettlement(
	ctx context.Context,
	id uint,
) (*models.Settlement, error) {

	var s models.Settlement
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&s, id).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *SettlementGormRepository) UpdateSettlement(
	ctx context.Context,
	s *models.Settlement,
) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(s).Error
}

func (r *SettlementGormRepository) SetStatementKey(
	ctx context.Context,
	id uint,
	key string,
) error {
	return r.db.WithContext(ctx).
		Model(&models.Settlement{}).
		Where("id = ?", id).
		Update("statement_key", key).Error
}

func (r *SettlementGormRepository) ListSettlements(
	ctx context.Context,
	f domain.ListFilter,
) ([]models.Settlement, int64, error) {

	q := r.db.WithContext(ctx).Model(&models.Settlement{})

	if f.ProfessionalID != nil {
		q = q.Where("professional_id = ?", *f.ProfessionalID)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.From != nil && f.To != nil {
		q = q.Where("period_start >= ? AND period_end <= ?", *f.From, *f.To)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var items []models.Settlement
	if err := q.
		Preload("Professional").
		Order("period_start DESC, id DESC").
		Limit(f.Limit).
		Offset((f.Page - 1) * f.Limit).
		Find(&items).Error; err != nil {
		return nil, 0, err
	}

	return items, total, nil
}

func (r *SettlementGormRepository) SummaryByStatus(
	ctx context.Context,
	professionalID uint,
	from *models.Date,
	to *models.Date,
) ([]domain.StatusRow, error) {

	q := r.db.WithContext(ctx).
		Model(&models.Settlement{}).
		Where("professional_id = ?", professionalID)
	if from != nil && to != nil {
		q = q.Where("period_start >= ? AND period_end <= ?", *from, *to)
	}

	var rows []domain.StatusRow
	if err := q.
		Select(
			"status",
			"COUNT(*) AS count",
			"COALESCE(SUM(professional_amount), 0) AS professional_amount",
			"COALESCE(SUM(total_amount), 0) AS total_amount",
		).
		Group("status").
		Order("status").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Compile-time check
var _ domain.Repository = (*SettlementGormRepository)(nil)
