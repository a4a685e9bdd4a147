package payments

import (
	"context"
	"fmt"
	"strconv"

	mpconfig "github.com/mercadopago/sdk-go/pkg/config"
	"github.com/mercadopago/sdk-go/pkg/payment"

	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
)

const statusApproved = "approved"

// Verifier checks an external payment reference before a payment is
// confirmed on an appointment.
type Verifier interface {
	Verify(ctx context.Context, paymentID string) error
}

type MercadoPago struct {
	client payment.Client
}

func NewMercadoPago(accessToken string) (*MercadoPago, error) {
	cfg, err := mpconfig.New(accessToken)
	if err != nil {
		return nil, fmt.Errorf("mercadopago: config: %w", err)
	}
	return &MercadoPago{client: payment.NewClient(cfg)}, nil
}

func (m *MercadoPago) Verify(ctx context.Context, paymentID string) error {
	id, err := strconv.Atoi(paymentID)
	if err != nil {
		return httperr.ErrValidation("Pago inválido.", httperr.FieldError{
			Field: "payment_id", Message: "Debe ser un identificador numérico de Mercado Pago",
		})
	}

	res, err := m.client.Get(ctx, id)
	if err != nil {
		return fmt.Errorf("mercadopago: get payment %d: %w", id, err)
	}
	if res.Status != statusApproved {
		return httperr.ErrBusinessMsg("payment_not_approved", fmt.Sprintf("El pago %d no está aprobado (%s).", id, res.Status))
	}
	return nil
}
