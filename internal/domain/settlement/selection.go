package settlement

import (
	"github.com/shopspring/decimal"

	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

type PayerType string

const (
	PayerAny     PayerType = ""
	PayerInsurer PayerType = "insurer"
	PayerPrivate PayerType = "private"
)

func ParsePayerType(s string) (PayerType, error) {
	switch PayerType(s) {
	case PayerAny, PayerInsurer, PayerPrivate:
		return PayerType(s), nil
	}
	return "", httperr.ErrValidation("Tipo inválido.", httperr.FieldError{
		Field: "payer_type", Message: "Debe ser insurer o private",
	})
}

// Selection identifies the pending, unclaimed renderings of one professional
// in a period. InsurerID only applies to PayerInsurer.
type Selection struct {
	ProfessionalID uint
	Period         Period
	Payer          PayerType
	InsurerID      *uint
}

type Totals struct {
	Count              int             `json:"renderings_count"`
	TotalAmount        decimal.Decimal `json:"total_amount"`
	ProfessionalAmount decimal.Decimal `json:"professional_amount"`
	ClinicAmount       decimal.Decimal `json:"clinic_amount"`
	RenderingIDs       []uint          `json:"rendering_ids"`
}

func ComputeTotals(items []models.ServiceRendering) Totals {
	t := Totals{
		TotalAmount:        decimal.Zero,
		ProfessionalAmount: decimal.Zero,
		RenderingIDs:       make([]uint, 0, len(items)),
	}
	for _, r := range items {
		t.Count++
		t.TotalAmount = t.TotalAmount.Add(r.TotalAmount)
		t.ProfessionalAmount = t.ProfessionalAmount.Add(r.ProfessionalAmount)
		t.RenderingIDs = append(t.RenderingIDs, r.ID)
	}
	t.ClinicAmount = t.TotalAmount.Sub(t.ProfessionalAmount)
	return t
}
