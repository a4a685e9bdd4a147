package settlement

import (
	"context"

	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/settlement"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

type GetSettlement struct {
	repo domain.Repository
}

func NewGetSettlement(repo domain.Repository) *GetSettlement {
	return &GetSettlement{repo: repo}
}

func (uc *GetSettlement) Execute(ctx context.Context, id uint) (*models.Settlement, error) {
	s, err := uc.repo.GetSettlement(ctx, id, true)
	if err != nil {
		return nil, errSettlementNotFound(err)
	}
	return s, nil
}

type ListResult struct {
	Items []models.Settlement
	Total int64
	Page  int
	Limit int
}

type ListSettlements struct {
	repo domain.Repository
}

func NewListSettlements(repo domain.Repository) *ListSettlements {
	return &ListSettlements{repo: repo}
}

func (uc *ListSettlements) Execute(
	ctx context.Context,
	filter domain.ListFilter,
) (*ListResult, error) {

	switch domain.Status(filter.Status) {
	case "", domain.StatusDraft, domain.StatusGenerated, domain.StatusPaid, domain.StatusVoided:
	default:
		return nil, httperr.ErrValidation("Estado inválido.", httperr.FieldError{
			Field: "status", Message: "Debe ser draft, generated, paid o voided",
		})
	}

	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = defaultPageSize
	}
	if filter.Limit > maxPageSize {
		filter.Limit = maxPageSize
	}

	items, total, err := uc.repo.ListSettlements(ctx, filter)
	if err != nil {
		return nil, err
	}
	return &ListResult{Items: items, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

// ProfessionalSummary groups a professional's settlements by status and
// counts the renderings still waiting to be settled.
type ProfessionalSummary struct {
	repo domain.Repository
}

func NewProfessionalSummary(repo domain.Repository) *ProfessionalSummary {
	return &ProfessionalSummary{repo: repo}
}

func (uc *ProfessionalSummary) Execute(
	ctx context.Context,
	professionalID uint,
	from *models.Date,
	to *models.Date,
) (*domain.Summary, error) {

	if _, err := uc.repo.GetProfessional(ctx, professionalID); err != nil {
		return nil, errProfessionalNotFound(err)
	}

	rows, err := uc.repo.SummaryByStatus(ctx, professionalID, from, to)
	if err != nil {
		return nil, err
	}
	if rows == nil {
		rows = []domain.StatusRow{}
	}

	pending, err := uc.repo.CountUnsettled(ctx, professionalID, from, to)
	if err != nil {
		return nil, err
	}

	return &domain.Summary{
		ProfessionalID:    professionalID,
		ByStatus:          rows,
		PendingRenderings: pending,
	}, nil
}
