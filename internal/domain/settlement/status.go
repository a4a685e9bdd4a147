package settlement

import (
	"strings"

	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
)

type Status string

const (
	StatusDraft     Status = "draft"
	StatusGenerated Status = "generated"
	StatusPaid      Status = "paid"
	StatusVoided    Status = "voided"
)

const (
	CodeNothingToSettle = "nothing_to_settle"
	CodeAlreadyPaid     = "settlement_already_paid"
	CodeVoided          = "settlement_voided"
	CodeAlreadyVoided   = "settlement_already_voided"
	CodeNotGenerated    = "settlement_not_generated"
)

func ErrNothingToSettle() error {
	return httperr.ErrConflict(CodeNothingToSettle, "No hay prestaciones pendientes para liquidar en el período indicado.")
}

// CanPay only lets a generated batch be paid.
func CanPay(s Status) error {
	switch s {
	case StatusGenerated:
		return nil
	case StatusPaid:
		return httperr.ErrConflict(CodeAlreadyPaid, "Esta liquidación ya ha sido pagada.")
	case StatusVoided:
		return httperr.ErrConflict(CodeVoided, "No se puede pagar una liquidación anulada.")
	default:
		return httperr.ErrConflict(CodeNotGenerated, "La liquidación todavía no fue generada.")
	}
}

// CanVoid rejects paid batches; they are immutable.
func CanVoid(s Status) error {
	switch s {
	case StatusPaid:
		return httperr.ErrConflict(CodeAlreadyPaid, "No se puede anular una liquidación pagada.")
	case StatusVoided:
		return httperr.ErrConflict(CodeAlreadyVoided, "La liquidación ya se encuentra anulada.")
	}
	return nil
}

func VoidNotes(notes, reason string) string {
	line := "Anulada: " + strings.TrimSpace(reason)
	if strings.TrimSpace(notes) == "" {
		return line
	}
	return notes + "\n" + line
}
