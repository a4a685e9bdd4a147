package settlement

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/clinic-scheduler/internal/audit"
	"github.com/BruksfildServices01/clinic-scheduler/internal/domain/rendering"
	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/settlement"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

// ======================================================
// In-memory repository
// ======================================================

type memRepo struct {
	mu   *sync.Mutex
	inTx bool

	patients    map[uuid.UUID]*models.Patient
	renderings  map[uint]*models.ServiceRendering
	settlements map[uint]*models.Settlement
	keys        map[uint]string
	next        uint
}

var _ domain.Repository = (*memRepo)(nil)

func newMemRepo() *memRepo {
	return &memRepo{
		mu:          &sync.Mutex{},
		patients:    map[uuid.UUID]*models.Patient{},
		renderings:  map[uint]*models.ServiceRendering{},
		settlements: map[uint]*models.Settlement{},
		keys:        map[uint]string{},
	}
}

func (m *memRepo) addRendering(id uint, prof uint, patient uuid.UUID, date string, total int64) {
	r := &models.ServiceRendering{
		ID:              id,
		ProfessionalID:  prof,
		PatientID:       patient,
		Date:            mustDate(date),
		TotalAmount:     decimal.NewFromInt(total),
		ProfessionalPct: decimal.NewFromInt(50),
		Status:          string(rendering.StatusPending),
	}
	rendering.Recompute(r)
	m.renderings[id] = r
}

func (m *memRepo) Transaction(_ context.Context, fn func(tx domain.Repository) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	// Snapshot for rollback.
	rs := map[uint]models.ServiceRendering{}
	for k, v := range m.renderings {
		rs[k] = *v
	}
	ss := map[uint]models.Settlement{}
	for k, v := range m.settlements {
		ss[k] = *v
	}

	tx := *m
	tx.inTx = true
	if err := fn(&tx); err != nil {
		m.renderings = map[uint]*models.ServiceRendering{}
		for k, v := range rs {
			v := v
			m.renderings[k] = &v
		}
		m.settlements = map[uint]*models.Settlement{}
		for k, v := range ss {
			v := v
			m.settlements[k] = &v
		}
		return err
	}
	m.next = tx.next
	return nil
}

func (m *memRepo) GetProfessional(_ context.Context, id uint) (*models.Professional, error) {
	if id == 0 || id > 10 {
		return nil, gorm.ErrRecordNotFound
	}
	return &models.Professional{ID: id, FirstName: "Marta", LastName: "Ruiz"}, nil
}

func (m *memRepo) PendingRenderings(_ context.Context, sel domain.Selection, _ bool) ([]models.ServiceRendering, error) {
	var out []models.ServiceRendering
	for _, r := range m.renderings {
		if r.ProfessionalID != sel.ProfessionalID || r.Status != string(rendering.StatusPending) || r.SettlementID != nil {
			continue
		}
		if r.Date.Before(sel.Period.Start) || r.Date.After(sel.Period.End) {
			continue
		}
		p := m.patients[r.PatientID]
		switch sel.Payer {
		case domain.PayerInsurer:
			if p == nil || p.InsurerID == nil || (sel.InsurerID != nil && *p.InsurerID != *sel.InsurerID) {
				continue
			}
		case domain.PayerPrivate:
			if p != nil && p.InsurerID != nil {
				continue
			}
		}
		out = append(out, *r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memRepo) CreateSettlement(_ context.Context, s *models.Settlement) error {
	m.next++
	s.ID = m.next
	cp := *s
	m.settlements[s.ID] = &cp
	return nil
}

func (m *memRepo) ClaimRenderings(_ context.Context, settlementID uint, ids []uint, settledOn models.Date) error {
	for _, id := range ids {
		r := m.renderings[id]
		if r == nil || r.SettlementID != nil || r.Status != string(rendering.StatusPending) {
			return fmt.Errorf("rendering %d already claimed", id)
		}
		sid, on := settlementID, settledOn
		r.SettlementID = &sid
		r.SettledOn = &on
		r.Status = string(rendering.StatusSettled)
	}
	return nil
}

func (m *memRepo) GetSettlement(_ context.Context, id uint, withRenderings bool) (*models.Settlement, error) {
	s, ok := m.settlements[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *s
	if withRenderings {
		cp.Renderings = nil
		for _, r := range m.renderings {
			if r.SettlementID != nil && *r.SettlementID == id {
				cp.Renderings = append(cp.Renderings, *r)
			}
		}
		sort.Slice(cp.Renderings, func(i, j int) bool { return cp.Renderings[i].ID < cp.Renderings[j].ID })
	}
	return &cp, nil
}

func (m *memRepo) LockSettlement(ctx context.Context, id uint) (*models.Settlement, error) {
	return m.GetSettlement(ctx, id, false)
}

func (m *memRepo) UpdateSettlement(_ context.Context, s *models.Settlement) error {
	cp := *s
	m.settlements[s.ID] = &cp
	return nil
}

func (m *memRepo) MarkRenderingsPaid(_ context.Context, settlementID uint, paidOn models.Date) error {
	for _, r := range m.renderings {
		if r.SettlementID != nil && *r.SettlementID == settlementID && r.Status == string(rendering.StatusSettled) {
			on := paidOn
			r.Status = string(rendering.StatusPaid)
			r.PaidOn = &on
		}
	}
	return nil
}

func (m *memRepo) ReleaseRenderings(_ context.Context, settlementID uint) error {
	for _, r := range m.renderings {
		if r.SettlementID != nil && *r.SettlementID == settlementID {
			r.SettlementID = nil
			r.SettledOn = nil
			r.Status = string(rendering.StatusPending)
		}
	}
	return nil
}

func (m *memRepo) ListSettlements(_ context.Context, f domain.ListFilter) ([]models.Settlement, int64, error) {
	var out []models.Settlement
	for _, s := range m.settlements {
		if f.Status != "" && s.Status != f.Status {
			continue
		}
		out = append(out, *s)
	}
	return out, int64(len(out)), nil
}

func (m *memRepo) SummaryByStatus(_ context.Context, professionalID uint, _, _ *models.Date) ([]domain.StatusRow, error) {
	byStatus := map[string]*domain.StatusRow{}
	for _, s := range m.settlements {
		if s.ProfessionalID != professionalID {
			continue
		}
		row := byStatus[s.Status]
		if row == nil {
			row = &domain.StatusRow{Status: s.Status, TotalAmount: decimal.Zero, ProfessionalAmount: decimal.Zero}
			byStatus[s.Status] = row
		}
		row.Count++
		row.TotalAmount = row.TotalAmount.Add(s.TotalAmount)
		row.ProfessionalAmount = row.ProfessionalAmount.Add(s.ProfessionalAmount)
	}
	var out []domain.StatusRow
	for _, r := range byStatus {
		out = append(out, *r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Status < out[j].Status })
	return out, nil
}

func (m *memRepo) CountUnsettled(_ context.Context, professionalID uint, _, _ *models.Date) (int64, error) {
	var n int64
	for _, r := range m.renderings {
		if r.ProfessionalID == professionalID && r.Status == string(rendering.StatusPending) && r.SettlementID == nil {
			n++
		}
	}
	return n, nil
}

func (m *memRepo) SetStatementKey(_ context.Context, id uint, key string) error {
	m.keys[id] = key
	return nil
}

// ======================================================
// Helpers
// ======================================================

type fakeQueue struct{ ids []uint }

func (q *fakeQueue) EnqueueStatementArchive(_ context.Context, id uint) error {
	q.ids = append(q.ids, id)
	return nil
}

type fakeArchive struct {
	keys   []string
	bodies [][]byte
}

func (a *fakeArchive) Put(_ context.Context, key string, body []byte, _ string) error {
	a.keys = append(a.keys, key)
	a.bodies = append(a.bodies, body)
	return nil
}

func mustDate(s string) models.Date {
	d, err := models.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

// Thursday 2024-03-07.
func fixedClock() time.Time {
	return time.Date(2024, time.March, 7, 10, 0, 0, 0, time.UTC)
}

func seeded() *memRepo {
	m := newMemRepo()
	insurer := uint(3)
	private := uuid.New()
	covered := uuid.New()
	m.patients[private] = &models.Patient{ID: private}
	m.patients[covered] = &models.Patient{ID: covered, InsurerID: &insurer}

	m.addRendering(1, 1, private, "2024-03-01", 10000)
	m.addRendering(2, 1, covered, "2024-03-04", 5000)
	m.addRendering(3, 1, private, "2024-03-06", 2001)
	m.addRendering(4, 1, private, "2024-04-01", 9999) // outside March
	m.addRendering(5, 2, private, "2024-03-02", 7000) // other professional
	return m
}

func generate(t *testing.T, m *memRepo, in GenerateInput) *models.Settlement {
	t.Helper()
	s, err := NewGenerateSettlement(m, nil, fixedClock).Execute(context.Background(), in)
	require.NoError(t, err)
	return s
}

// ======================================================
// Tests
// ======================================================

func TestGenerate_ClaimsExactlyThePendingSet(t *testing.T) {
	m := seeded()

	s := generate(t, m, GenerateInput{ProfessionalID: 1, PeriodStart: "2024-03-01", PeriodEnd: "2024-03-31", Notes: "marzo"})

	assert.Equal(t, "generated", s.Status)
	assert.Equal(t, 3, s.RenderingsCount)
	assert.Equal(t, "17001", s.TotalAmount.String())
	assert.Equal(t, "8500.5", s.ProfessionalAmount.String())
	assert.Equal(t, []uint{1, 2, 3}, s.Details.Data().RenderingIDs)
	assert.False(t, s.Details.Data().CustomAmount)
	require.Len(t, s.Renderings, 3)

	for _, id := range []uint{1, 2, 3} {
		r := m.renderings[id]
		assert.Equal(t, "settled", r.Status)
		require.NotNil(t, r.SettlementID)
		assert.Equal(t, s.ID, *r.SettlementID)
		assert.Equal(t, "2024-03-07", r.SettledOn.String())
	}
	assert.Equal(t, "pending", m.renderings[4].Status)
	assert.Equal(t, "pending", m.renderings[5].Status)

	// Nothing left for a second run over the same period.
	_, err := NewGenerateSettlement(m, nil, fixedClock).Execute(context.Background(), GenerateInput{
		ProfessionalID: 1, PeriodStart: "2024-03-01", PeriodEnd: "2024-03-31",
	})
	assert.True(t, httperr.IsBusiness(err, domain.CodeNothingToSettle))
}

func TestGenerate_CustomAmount(t *testing.T) {
	m := seeded()
	custom := decimal.RequireFromString("9000")

	s := generate(t, m, GenerateInput{ProfessionalID: 1, PeriodStart: "2024-03-01", PeriodEnd: "2024-03-31", CustomAmount: &custom})

	assert.Equal(t, "9000", s.ProfessionalAmount.String())
	assert.True(t, s.Details.Data().CustomAmount)
	assert.Equal(t, "8500.5", s.Details.Data().ComputedProfessionalAmount.String())
}

func TestGenerate_InvalidInput(t *testing.T) {
	m := seeded()
	uc := NewGenerateSettlement(m, nil, fixedClock)
	ctx := context.Background()

	_, err := uc.Execute(ctx, GenerateInput{ProfessionalID: 1, PeriodStart: "2024-03-31", PeriodEnd: "2024-03-01"})
	assert.Error(t, err)

	_, err = uc.Execute(ctx, GenerateInput{ProfessionalID: 99, PeriodStart: "2024-03-01", PeriodEnd: "2024-03-31"})
	assert.True(t, httperr.IsBusiness(err, "professional_not_found"))

	_, err = uc.Execute(ctx, GenerateInput{ProfessionalID: 1, PeriodStart: "2023-01-01", PeriodEnd: "2023-01-31"})
	assert.True(t, httperr.IsBusiness(err, domain.CodeNothingToSettle))
	assert.Empty(t, m.settlements)
}

func TestVoid_RestoresPending(t *testing.T) {
	m := seeded()
	ctx := context.Background()
	s := generate(t, m, GenerateInput{ProfessionalID: 1, PeriodStart: "2024-03-01", PeriodEnd: "2024-03-31", Notes: "marzo"})

	voided, err := NewVoidSettlement(m, nil).Execute(ctx, VoidInput{ID: s.ID, Reason: "montos erróneos", Actor: audit.Actor{}})
	require.NoError(t, err)
	assert.Equal(t, "voided", voided.Status)
	assert.Equal(t, "marzo\nAnulada: montos erróneos", voided.Notes)
	assert.Empty(t, voided.Renderings)

	for _, id := range []uint{1, 2, 3} {
		r := m.renderings[id]
		assert.Equal(t, "pending", r.Status)
		assert.Nil(t, r.SettlementID)
		assert.Nil(t, r.SettledOn)
	}

	_, err = NewVoidSettlement(m, nil).Execute(ctx, VoidInput{ID: s.ID, Reason: "otra vez"})
	assert.True(t, httperr.IsBusiness(err, domain.CodeAlreadyVoided))

	_, err = NewPaySettlement(m, nil, nil, fixedClock).Execute(ctx, PayInput{ID: s.ID, PaymentMethod: "transferencia"})
	assert.True(t, httperr.IsBusiness(err, domain.CodeVoided))

	// Released renderings can be settled again.
	again := generate(t, m, GenerateInput{ProfessionalID: 1, PeriodStart: "2024-03-01", PeriodEnd: "2024-03-31"})
	assert.Equal(t, 3, again.RenderingsCount)
}

func TestPay_CascadesAndCannotBeVoided(t *testing.T) {
	m := seeded()
	ctx := context.Background()
	q := &fakeQueue{}
	s := generate(t, m, GenerateInput{ProfessionalID: 1, PeriodStart: "2024-03-01", PeriodEnd: "2024-03-31"})

	uc := NewPaySettlement(m, nil, q, fixedClock)
	paid, err := uc.Execute(ctx, PayInput{ID: s.ID, PaymentMethod: "transferencia"})
	require.NoError(t, err)
	assert.Equal(t, "paid", paid.Status)
	require.NotNil(t, paid.PaidOn)
	assert.Equal(t, "2024-03-07", paid.PaidOn.String())
	assert.Equal(t, []uint{s.ID}, q.ids)

	for _, id := range []uint{1, 2, 3} {
		assert.Equal(t, "paid", m.renderings[id].Status)
		require.NotNil(t, m.renderings[id].PaidOn)
	}

	_, err = uc.Execute(ctx, PayInput{ID: s.ID, PaymentMethod: "efectivo"})
	assert.True(t, httperr.IsBusiness(err, domain.CodeAlreadyPaid))

	_, err = NewVoidSettlement(m, nil).Execute(ctx, VoidInput{ID: s.ID, Reason: "error"})
	assert.True(t, httperr.IsBusiness(err, domain.CodeAlreadyPaid))
	assert.Equal(t, "paid", m.renderings[1].Status)
}

func TestPay_Validation(t *testing.T) {
	m := seeded()
	ctx := context.Background()
	uc := NewPaySettlement(m, nil, nil, fixedClock)

	_, err := uc.Execute(ctx, PayInput{ID: 1, PaymentMethod: " "})
	assert.Error(t, err)

	_, err = uc.Execute(ctx, PayInput{ID: 404, PaymentMethod: "efectivo"})
	assert.True(t, httperr.IsBusiness(err, "settlement_not_found"))

	_, err = NewVoidSettlement(m, nil).Execute(ctx, VoidInput{ID: 1})
	assert.Error(t, err)
}

func TestSimulate(t *testing.T) {
	m := seeded()
	ctx := context.Background()
	uc := NewSimulateSettlement(m, fixedClock)

	res, err := uc.Execute(ctx, SimulateInput{ProfessionalID: 1, Period: "month"})
	require.NoError(t, err)
	assert.Equal(t, "2024-03-01", res.PeriodStart.String())
	assert.Equal(t, "2024-03-07", res.PeriodEnd.String())
	assert.Equal(t, 3, res.Totals.Count)

	res, err = uc.Execute(ctx, SimulateInput{ProfessionalID: 1, Period: "week"})
	require.NoError(t, err)
	assert.Equal(t, []uint{2, 3}, res.Totals.RenderingIDs)

	res, err = uc.Execute(ctx, SimulateInput{ProfessionalID: 1, Period: "month", PayerType: "insurer"})
	require.NoError(t, err)
	assert.Equal(t, []uint{2}, res.Totals.RenderingIDs)

	other := uint(8)
	res, err = uc.Execute(ctx, SimulateInput{ProfessionalID: 1, Period: "month", PayerType: "insurer", InsurerID: &other})
	require.NoError(t, err)
	assert.Zero(t, res.Totals.Count)
	assert.NotNil(t, res.Renderings)

	res, err = uc.Execute(ctx, SimulateInput{ProfessionalID: 1, Period: "month", PayerType: "private"})
	require.NoError(t, err)
	assert.Equal(t, []uint{1, 3}, res.Totals.RenderingIDs)

	start, end := "2024-04-01", "2024-04-30"
	res, err = uc.Execute(ctx, SimulateInput{ProfessionalID: 1, Period: "custom", CustomStart: &start, CustomEnd: &end})
	require.NoError(t, err)
	assert.Equal(t, []uint{4}, res.Totals.RenderingIDs)

	// Simulation never claims anything.
	assert.Equal(t, "pending", m.renderings[1].Status)

	_, err = uc.Execute(ctx, SimulateInput{ProfessionalID: 1, Period: "month", PayerType: "cash"})
	assert.Error(t, err)
}

func TestSummary(t *testing.T) {
	m := seeded()
	ctx := context.Background()
	s := generate(t, m, GenerateInput{ProfessionalID: 1, PeriodStart: "2024-03-01", PeriodEnd: "2024-03-05"})
	_, err := NewPaySettlement(m, nil, nil, fixedClock).Execute(ctx, PayInput{ID: s.ID, PaymentMethod: "efectivo"})
	require.NoError(t, err)
	generate(t, m, GenerateInput{ProfessionalID: 1, PeriodStart: "2024-03-06", PeriodEnd: "2024-03-06"})

	sum, err := NewProfessionalSummary(m).Execute(ctx, 1, nil, nil)
	require.NoError(t, err)
	require.Len(t, sum.ByStatus, 2)
	assert.Equal(t, "generated", sum.ByStatus[0].Status)
	assert.Equal(t, "paid", sum.ByStatus[1].Status)
	assert.Equal(t, 1, sum.ByStatus[1].Count)
	assert.Equal(t, int64(1), sum.PendingRenderings)

	list, err := NewListSettlements(m).Execute(ctx, domain.ListFilter{Status: "paid"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), list.Total)

	_, err = NewListSettlements(m).Execute(ctx, domain.ListFilter{Status: "closed"})
	assert.Error(t, err)
}

func TestStatements_Archive(t *testing.T) {
	m := seeded()
	ctx := context.Background()
	s := generate(t, m, GenerateInput{ProfessionalID: 1, PeriodStart: "2024-03-01", PeriodEnd: "2024-03-31"})

	archive := &fakeArchive{}
	uc := NewStatements(m, nil, archive)

	body, _, err := uc.Render(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-", string(body[:5]))

	require.NoError(t, uc.ArchiveStatement(ctx, s.ID))
	require.Len(t, archive.keys, 1)
	assert.Equal(t, fmt.Sprintf("statements/professional-1/settlement-%d.pdf", s.ID), archive.keys[0])
	assert.Equal(t, archive.keys[0], m.keys[s.ID])

	assert.NoError(t, NewStatements(m, nil, nil).ArchiveStatement(ctx, s.ID))

	_, _, err = uc.Render(ctx, 999)
	assert.True(t, httperr.IsBusiness(err, "settlement_not_found"))
}
