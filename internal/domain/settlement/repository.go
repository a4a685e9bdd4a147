package settlement

import (
	"context"

	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

type ListFilter struct {
	ProfessionalID *uint
	Status         string
	From           *models.Date
	To             *models.Date

	Page  int
	Limit int
}

type Repository interface {
	// Transaction runs fn inside one database transaction.
	Transaction(
		ctx context.Context,
		fn func(tx Repository) error,
	) error

	GetProfessional(
		ctx context.Context,
		id uint,
	) (*models.Professional, error)

	// PendingRenderings returns the selection ordered by date. With lock the
	// rows are held FOR UPDATE until the transaction ends.
	PendingRenderings(
		ctx context.Context,
		sel Selection,
		lock bool,
	) ([]models.ServiceRendering, error)

	CreateSettlement(
		ctx context.Context,
		s *models.Settlement,
	) error

	// ClaimRenderings moves the given pending renderings to settled under
	// settlementID. It fails if any of them was claimed meanwhile.
	ClaimRenderings(
		ctx context.Context,
		settlementID uint,
		ids []uint,
		settledOn models.Date,
	) error

	GetSettlement(
		ctx context.Context,
		id uint,
		withRenderings bool,
	) (*models.Settlement, error)

	LockSettlement(
		ctx context.Context,
		id uint,
	) (*models.Settlement, error)

	UpdateSettlement(
		ctx context.Context,
		s *models.Settlement,
	) error

	MarkRenderingsPaid(
		ctx context.Context,
		settlementID uint,
		paidOn models.Date,
	) error

	ReleaseRenderings(
		ctx context.Context,
		settlementID uint,
	) error

	ListSettlements(
		ctx context.Context,
		filter ListFilter,
	) ([]models.Settlement, int64, error)

	SummaryByStatus(
		ctx context.Context,
		professionalID uint,
		from *models.Date,
		to *models.Date,
	) ([]StatusRow, error)

	CountUnsettled(
		ctx context.Context,
		professionalID uint,
		from *models.Date,
		to *models.Date,
	) (int64, error)

	SetStatementKey(
		ctx context.Context,
		id uint,
		key string,
	) error
}
