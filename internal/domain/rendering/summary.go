package rendering

import "github.com/shopspring/decimal"

// StatusRow is one GROUP BY status line read from the store.
type StatusRow struct {
	Status             string
	Count              int
	TotalAmount        decimal.Decimal
	ProfessionalAmount decimal.Decimal
}

type StatusTotals struct {
	Count              int             `json:"count"`
	TotalAmount        decimal.Decimal `json:"total_amount"`
	ProfessionalAmount decimal.Decimal `json:"professional_amount"`
	ClinicAmount       decimal.Decimal `json:"clinic_amount"`
}

type Summary struct {
	ProfessionalID uint `json:"professional_id"`

	ByStatus map[Status]StatusTotals `json:"by_status"`

	Count              int             `json:"count"`
	TotalAmount        decimal.Decimal `json:"total_amount"`
	ProfessionalAmount decimal.Decimal `json:"professional_amount"`
	ClinicAmount       decimal.Decimal `json:"clinic_amount"`
	AveragePct         decimal.Decimal `json:"average_pct"`
}

// Summarize folds per-status rows into totals. The average percentage is
// the professional share of the grand total.
func Summarize(professionalID uint, rows []StatusRow) Summary {
	s := Summary{
		ProfessionalID:     professionalID,
		ByStatus:           map[Status]StatusTotals{},
		TotalAmount:        decimal.Zero,
		ProfessionalAmount: decimal.Zero,
		ClinicAmount:       decimal.Zero,
		AveragePct:         decimal.Zero,
	}
	for _, st := range []Status{StatusPending, StatusSettled, StatusPaid} {
		s.ByStatus[st] = StatusTotals{
			TotalAmount:        decimal.Zero,
			ProfessionalAmount: decimal.Zero,
			ClinicAmount:       decimal.Zero,
		}
	}

	for _, r := range rows {
		st := Status(r.Status)
		t := s.ByStatus[st]
		t.Count += r.Count
		t.TotalAmount = t.TotalAmount.Add(r.TotalAmount)
		t.ProfessionalAmount = t.ProfessionalAmount.Add(r.ProfessionalAmount)
		t.ClinicAmount = t.TotalAmount.Sub(t.ProfessionalAmount)
		s.ByStatus[st] = t

		s.Count += r.Count
		s.TotalAmount = s.TotalAmount.Add(r.TotalAmount)
		s.ProfessionalAmount = s.ProfessionalAmount.Add(r.ProfessionalAmount)
	}

	s.ClinicAmount = s.TotalAmount.Sub(s.ProfessionalAmount)
	if s.TotalAmount.IsPositive() {
		s.AveragePct = s.ProfessionalAmount.Mul(hundred).Div(s.TotalAmount).Round(2)
	}
	return s
}
