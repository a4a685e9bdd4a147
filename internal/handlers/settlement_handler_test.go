package handlers

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	stDomain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/settlement"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
	ucSettlement "github.com/BruksfildServices01/clinic-scheduler/internal/usecase/settlement"
)

// stubSettlements covers the pay and void paths.
type stubSettlements struct {
	stDomain.Repository

	rows     map[uint]models.Settlement
	paid     []uint
	released []uint
}

func (s *stubSettlements) Transaction(_ context.Context, fn func(tx stDomain.Repository) error) error {
	return fn(s)
}

func (s *stubSettlements) LockSettlement(ctx context.Context, id uint) (*models.Settlement, error) {
	return s.GetSettlement(ctx, id, false)
}

func (s *stubSettlements) GetSettlement(_ context.Context, id uint, _ bool) (*models.Settlement, error) {
	row, ok := s.rows[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &row, nil
}

func (s *stubSettlements) UpdateSettlement(_ context.Context, st *models.Settlement) error {
	s.rows[st.ID] = *st
	return nil
}

func (s *stubSettlements) MarkRenderingsPaid(_ context.Context, id uint, _ models.Date) error {
	s.paid = append(s.paid, id)
	return nil
}

func (s *stubSettlements) ReleaseRenderings(_ context.Context, id uint) error {
	s.released = append(s.released, id)
	return nil
}

func newSettlementEngine(repo *stubSettlements) *gin.Engine {
	clock := ucSettlement.Clock(func() time.Time { return time.Date(2024, 4, 2, 10, 0, 0, 0, time.UTC) })
	h := NewSettlementHandler(
		ucSettlement.NewGenerateSettlement(repo, nil, clock),
		ucSettlement.NewSimulateSettlement(repo, clock),
		ucSettlement.NewPaySettlement(repo, nil, nil, clock),
		ucSettlement.NewVoidSettlement(repo, nil),
		ucSettlement.NewGetSettlement(repo),
		ucSettlement.NewListSettlements(repo),
		ucSettlement.NewProfessionalSummary(repo),
		nil,
	)

	r := gin.New()
	r.PUT("/settlements/:id/pay", h.Pay)
	r.PUT("/settlements/:id/void", h.Void)
	return r
}

func settlementRows() *stubSettlements {
	return &stubSettlements{rows: map[uint]models.Settlement{
		1: {ID: 1, ProfessionalID: 3, Status: string(stDomain.StatusGenerated)},
		2: {ID: 2, ProfessionalID: 3, Status: string(stDomain.StatusPaid)},
		3: {ID: 3, ProfessionalID: 3, Status: string(stDomain.StatusVoided)},
	}}
}

func TestSettlementHandler_Pay(t *testing.T) {
	repo := settlementRows()
	r := newSettlementEngine(repo)

	w := request(r, http.MethodPut, "/settlements/1/pay", `{"payment_method":"transferencia"}`)
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, "paid", body["status"])
	assert.Equal(t, "transferencia", body["payment_method"])
	assert.Equal(t, "2024-04-02", body["paid_on"])
	assert.Equal(t, []uint{1}, repo.paid)

	cases := []struct {
		path   string
		body   string
		status int
		code   string
	}{
		{"/settlements/2/pay", `{"payment_method":"efectivo"}`, http.StatusConflict, stDomain.CodeAlreadyPaid},
		{"/settlements/3/pay", `{"payment_method":"efectivo"}`, http.StatusConflict, stDomain.CodeVoided},
		{"/settlements/9/pay", `{"payment_method":"efectivo"}`, http.StatusNotFound, "settlement_not_found"},
		{"/settlements/1/pay", `{}`, http.StatusBadRequest, "validation_error"},
		{"/settlements/x/pay", `{"payment_method":"efectivo"}`, http.StatusBadRequest, "invalid_id"},
	}
	for _, tc := range cases {
		w := request(r, http.MethodPut, tc.path, tc.body)
		assert.Equal(t, tc.status, w.Code, tc.path)
		assert.Equal(t, tc.code, decode(t, w)["code"], tc.path)
	}
}

func TestSettlementHandler_Void(t *testing.T) {
	repo := settlementRows()
	r := newSettlementEngine(repo)

	w := request(r, http.MethodPut, "/settlements/1/void", `{"reason":"error de carga"}`)
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, "voided", body["status"])
	assert.Equal(t, "Anulada: error de carga", body["notes"])
	assert.Equal(t, []uint{1}, repo.released)

	cases := []struct {
		path   string
		body   string
		status int
		code   string
	}{
		{"/settlements/2/void", `{"reason":"x"}`, http.StatusConflict, stDomain.CodeAlreadyPaid},
		{"/settlements/1/void", `{"reason":"otra vez"}`, http.StatusConflict, stDomain.CodeAlreadyVoided},
		{"/settlements/9/void", `{"reason":"x"}`, http.StatusNotFound, "settlement_not_found"},
		{"/settlements/1/void", `{}`, http.StatusBadRequest, "validation_error"},
	}
	for _, tc := range cases {
		w := request(r, http.MethodPut, tc.path, tc.body)
		assert.Equal(t, tc.status, w.Code, tc.path+" "+tc.body)
		assert.Equal(t, tc.code, decode(t, w)["code"], tc.path+" "+tc.body)
	}
	assert.Equal(t, []uint{1}, repo.released)
}
