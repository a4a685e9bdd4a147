package rendering

import (
	"context"

	"github.com/BruksfildServices01/clinic-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/rendering"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// ======================================================
// GET
// ======================================================

type GetRendering struct {
	repo domain.Repository
}

func NewGetRendering(repo domain.Repository) *GetRendering {
	return &GetRendering{repo: repo}
}

func (uc *GetRendering) Execute(ctx context.Context, id uint) (*models.ServiceRendering, error) {
	r, err := uc.repo.Get(ctx, id)
	if err != nil {
		return nil, errRenderingNotFound(err)
	}
	return r, nil
}

// ======================================================
// DELETE
// ======================================================

type DeleteRendering struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewDeleteRendering(
	repo domain.Repository,
	audit *audit.Dispatcher,
) *DeleteRendering {
	return &DeleteRendering{
		repo:  repo,
		audit: audit,
	}
}

// Execute removes a pending rendering. The store re-checks the status so a
// concurrent settlement claim wins.
func (uc *DeleteRendering) Execute(
	ctx context.Context,
	id uint,
	actor audit.Actor,
) error {

	r, err := uc.repo.Get(ctx, id)
	if err != nil {
		return errRenderingNotFound(err)
	}
	if domain.IsLocked(r) {
		return domain.ErrLocked()
	}
	if err := uc.repo.Delete(ctx, id); err != nil {
		return err
	}

	uc.audit.Dispatch(actor.Event("rendering_deleted", "service_rendering", id, nil))
	return nil
}

// ======================================================
// LIST
// ======================================================

type ListResult struct {
	Items []models.ServiceRendering
	Total int64
	Page  int
	Limit int
}

type ListRenderings struct {
	repo domain.Repository
}

func NewListRenderings(repo domain.Repository) *ListRenderings {
	return &ListRenderings{repo: repo}
}

func (uc *ListRenderings) Execute(
	ctx context.Context,
	filter domain.ListFilter,
) (*ListResult, error) {

	if filter.Status != "" {
		if _, err := domain.ParseStatus(filter.Status); err != nil {
			return nil, err
		}
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

	items, total, err := uc.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return &ListResult{Items: items, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

// ======================================================
// SUMMARY
// ======================================================

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
		return nil, notFound(err, "professional_not_found", "Profesional no encontrado.")
	}

	rows, err := uc.repo.SummaryByStatus(ctx, professionalID, from, to)
	if err != nil {
		return nil, err
	}

	s := domain.Summarize(professionalID, rows)
	return &s, nil
}
