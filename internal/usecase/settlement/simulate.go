package settlement

import (
	"context"

	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/settlement"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

type SimulateInput struct {
	ProfessionalID uint
	Period         string

	// Only read for the custom period.
	CustomStart *string
	CustomEnd   *string

	PayerType string
	InsurerID *uint
}

type SimulateResult struct {
	ProfessionalID uint                      `json:"professional_id"`
	PeriodStart    models.Date               `json:"period_start"`
	PeriodEnd      models.Date               `json:"period_end"`
	Totals         domain.Totals             `json:"totals"`
	Renderings     []models.ServiceRendering `json:"renderings"`
}

// SimulateSettlement previews what generate would claim without locking
// or writing anything.
type SimulateSettlement struct {
	repo  domain.Repository
	clock Clock
}

func NewSimulateSettlement(repo domain.Repository, clock Clock) *SimulateSettlement {
	return &SimulateSettlement{repo: repo, clock: clock}
}

func (uc *SimulateSettlement) Execute(
	ctx context.Context,
	in SimulateInput,
) (*SimulateResult, error) {

	customStart, err := parseOptionalDate("custom_start", in.CustomStart)
	if err != nil {
		return nil, err
	}
	customEnd, err := parseOptionalDate("custom_end", in.CustomEnd)
	if err != nil {
		return nil, err
	}

	kind := domain.PeriodKind(in.Period)
	if kind == "" {
		kind = domain.PeriodMonth
	}
	period, err := domain.ResolvePeriod(kind, uc.clock.now(), customStart, customEnd)
	if err != nil {
		return nil, err
	}

	payer, err := domain.ParsePayerType(in.PayerType)
	if err != nil {
		return nil, err
	}

	if _, err := uc.repo.GetProfessional(ctx, in.ProfessionalID); err != nil {
		return nil, errProfessionalNotFound(err)
	}

	sel := domain.Selection{
		ProfessionalID: in.ProfessionalID,
		Period:         period,
		Payer:          payer,
	}
	if payer == domain.PayerInsurer {
		sel.InsurerID = in.InsurerID
	}

	items, err := uc.repo.PendingRenderings(ctx, sel, false)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []models.ServiceRendering{}
	}

	return &SimulateResult{
		ProfessionalID: in.ProfessionalID,
		PeriodStart:    period.Start,
		PeriodEnd:      period.End,
		Totals:         domain.ComputeTotals(items),
		Renderings:     items,
	}, nil
}
