package rendering

import (
	"context"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

type ListFilter struct {
	ProfessionalID *uint
	PatientID      *uuid.UUID
	Status         string
	From           *models.Date
	To             *models.Date

	Page  int
	Limit int
}

// EditableColumns are the columns a rendering edit may write.
var EditableColumns = []string{
	"date",
	"description",
	"total_amount",
	"professional_pct",
	"professional_amount",
	"notes",
	"updated_at",
}

type Repository interface {
	GetProfessional(ctx context.Context, id uint) (*models.Professional, error)
	GetPatient(ctx context.Context, id uuid.UUID) (*models.Patient, error)
	GetService(ctx context.Context, id uint) (*models.Service, error)
	GetSubService(ctx context.Context, serviceID uint, id uint) (*models.SubService, error)

	// Transaction runs fn against a repository bound to one transaction.
	Transaction(
		ctx context.Context,
		fn func(tx Repository) error,
	) error

	Get(ctx context.Context, id uint) (*models.ServiceRendering, error)

	// Lock reads the rendering with SELECT ... FOR UPDATE. Only meaningful
	// inside Transaction.
	Lock(ctx context.Context, id uint) (*models.ServiceRendering, error)

	Create(ctx context.Context, r *models.ServiceRendering) error

	// Update writes EditableColumns only; status and the settlement
	// reference belong to the settlement engine.
	Update(ctx context.Context, r *models.ServiceRendering) error
	Delete(ctx context.Context, id uint) error

	List(ctx context.Context, filter ListFilter) ([]models.ServiceRendering, int64, error)

	SummaryByStatus(
		ctx context.Context,
		professionalID uint,
		from *models.Date,
		to *models.Date,
	) ([]StatusRow, error)
}
