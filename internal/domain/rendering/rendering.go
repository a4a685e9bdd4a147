package rendering

import (
	"github.com/shopspring/decimal"

	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

type Status string

const (
	StatusPending Status = "pending"
	StatusSettled Status = "settled"
	StatusPaid    Status = "paid"
)

func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusPending, StatusSettled, StatusPaid:
		return Status(s), nil
	}
	return "", httperr.ErrValidation("Estado inválido.", httperr.FieldError{
		Field: "status", Message: "Debe ser pending, settled o paid",
	})
}

var (
	hundred = decimal.NewFromInt(100)

	DefaultCommissionPct = decimal.NewFromInt(50)
)

// ProfessionalAmount is total * pct / 100 rounded to cents.
func ProfessionalAmount(total, pct decimal.Decimal) decimal.Decimal {
	return total.Mul(pct).Div(hundred).Round(2)
}

// CommissionOrDefault falls back to 50% when the professional has none set.
func CommissionOrDefault(pct *decimal.Decimal) decimal.Decimal {
	if pct == nil {
		return DefaultCommissionPct
	}
	return *pct
}

func ValidateAmounts(total, pct decimal.Decimal) error {
	var details []httperr.FieldError
	if total.IsNegative() {
		details = append(details, httperr.FieldError{Field: "total_amount", Message: "El monto no puede ser negativo"})
	}
	if pct.IsNegative() || pct.GreaterThan(hundred) {
		details = append(details, httperr.FieldError{Field: "professional_pct", Message: "El porcentaje debe estar entre 0 y 100"})
	}
	if len(details) > 0 {
		return httperr.ErrValidation("Montos inválidos.", details...)
	}
	return nil
}

// Recompute keeps the professional amount in line with total and percentage.
func Recompute(r *models.ServiceRendering) {
	r.TotalAmount = r.TotalAmount.Round(2)
	r.ProfessionalAmount = ProfessionalAmount(r.TotalAmount, r.ProfessionalPct)
}

// IsLocked reports whether only the notes of r may still change.
func IsLocked(r *models.ServiceRendering) bool {
	return Status(r.Status) != StatusPending
}

func ErrLocked() error {
	return httperr.ErrConflict("rendering_locked", "La prestación ya fue liquidada y no puede modificarse.")
}
