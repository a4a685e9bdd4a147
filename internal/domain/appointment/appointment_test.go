package appointment

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"github.com/BruksfildServices01/clinic-scheduler/internal/domain/schedule"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

func mustDate(s string) models.Date {
	d, err := models.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestEffects(t *testing.T) {
	for _, st := range Statuses() {
		effects := Effects(StatusPending, st, TriggerUpdate)
		if st.IsBillable() {
			assert.Equal(t, []Effect{EffectCreateRendering}, effects, st)
		} else {
			assert.Empty(t, effects, st)
		}
	}

	assert.Equal(t, []Effect{EffectCreateRendering}, Effects(StatusAttended, StatusAttended, TriggerUpdate))
	assert.Equal(t, []Effect{EffectCreateRendering}, Effects("", StatusConfirmedSMS, TriggerCreate))
	assert.Empty(t, Effects(StatusConfirmed, StatusCancelled, TriggerUpdate))
	assert.Equal(t, []Effect{EffectDropPendingRendering}, Effects(StatusConfirmed, StatusCancelled, TriggerPaymentRejected))
}

func TestPaymentOutcome(t *testing.T) {
	st, tr := PaymentOutcome(true)
	assert.Equal(t, StatusConfirmed, st)
	assert.Equal(t, []Effect{EffectCreateRendering}, Effects(StatusPending, st, tr))

	st, tr = PaymentOutcome(false)
	assert.Equal(t, StatusCancelled, st)
	assert.Equal(t, []Effect{EffectDropPendingRendering}, Effects(StatusPending, st, tr))
}

func TestParseStatus(t *testing.T) {
	st, err := ParseStatus("Confirmed_WhatsApp")
	require.NoError(t, err)
	assert.Equal(t, StatusConfirmedWhatsApp, st)

	_, err = ParseStatus("completed")
	assert.Error(t, err)
}

func TestBillableAmount(t *testing.T) {
	svc := &models.Service{Name: "Limpieza", BasePrice: decimal.NewFromInt(8000)}
	sub := &models.SubService{Name: "Con flúor", Price: decimal.NewFromInt(9500)}
	override := decimal.NewFromInt(7000)

	assert.True(t, override.Equal(BillableAmount(&override, sub, svc)))
	assert.True(t, sub.Price.Equal(BillableAmount(nil, sub, svc)))
	assert.True(t, svc.BasePrice.Equal(BillableAmount(nil, nil, svc)))
	assert.True(t, BillableAmount(nil, nil, nil).IsZero())

	assert.Equal(t, "Limpieza - Con flúor", RenderingDescription(svc, sub))
	assert.Equal(t, "Limpieza", RenderingDescription(svc, nil))
}

func TestNewCandidate(t *testing.T) {
	ap := &models.Appointment{ID: 3, ProfessionalID: 1, Date: mustDate("2024-03-05"), StartTime: "10:00", EndTime: "10:30"}
	c, err := NewCandidate(ap)
	require.NoError(t, err)
	assert.Equal(t, schedule.MustClock("10:00"), c.Start)
	assert.Equal(t, uint(3), c.ExcludeID)

	ap.EndTime = "09:30"
	_, err = NewCandidate(ap)
	assert.Error(t, err)

	ap.EndTime = "25:00"
	_, err = NewCandidate(ap)
	assert.Error(t, err)
}

func TestCheckBookable(t *testing.T) {
	var w schedule.WeeklySchedule
	w.Tuesday = schedule.Day{Active: true, Ranges: []schedule.Range{{Start: "09:00", End: "13:00"}}}
	prof := &models.Professional{Status: models.ProfessionalActive, Schedule: datatypes.NewJSONType(w)}

	c := Candidate{Date: mustDate("2024-03-05"), Start: schedule.MustClock("10:00"), End: schedule.MustClock("10:30")}
	assert.NoError(t, CheckBookable(prof, c))

	c.End = schedule.MustClock("13:30")
	assert.True(t, httperr.IsBusiness(CheckBookable(prof, c), CodeOutsideWorkingHours))

	prof.Status = models.ProfessionalInactive
	c.End = schedule.MustClock("10:30")
	assert.True(t, httperr.IsBusiness(CheckBookable(prof, c), CodeProfessionalOff))
}

type stubChecker struct {
	conflict, monthly bool
	gotMonth          string
}

func (s *stubChecker) HasTimeConflict(context.Context, uint, models.Date, string, string, uint) (bool, error) {
	return s.conflict, nil
}

func (s *stubChecker) HasMonthlyAppointment(_ context.Context, _ uuid.UUID, month string, _ uint) (bool, error) {
	s.gotMonth = month
	return s.monthly, nil
}

func TestGuard(t *testing.T) {
	c := Candidate{
		PatientID: uuid.New(),
		Date:      mustDate("2024-03-20"),
		Start:     schedule.MustClock("10:00"),
		End:       schedule.MustClock("10:30"),
	}

	ok := &stubChecker{}
	assert.NoError(t, Guard(context.Background(), ok, c))
	assert.Equal(t, "2024-03", ok.gotMonth)

	err := Guard(context.Background(), &stubChecker{conflict: true, monthly: true}, c)
	assert.True(t, httperr.IsBusiness(err, CodeTimeConflict))

	err = Guard(context.Background(), &stubChecker{monthly: true}, c)
	assert.True(t, httperr.IsBusiness(err, CodeMonthlyQuota))

	be, _ := httperr.AsBusiness(err)
	assert.Equal(t, httperr.KindConflict, be.Kind)
}

func TestExplainConflict(t *testing.T) {
	ctx := context.Background()
	c := &Candidate{
		PatientID: uuid.New(),
		Date:      mustDate("2024-03-20"),
		Start:     schedule.MustClock("10:00"),
		End:       schedule.MustClock("10:30"),
	}

	err := ExplainConflict(ctx, &stubChecker{monthly: true}, c, ErrSerialization())
	assert.True(t, httperr.IsBusiness(err, CodeMonthlyQuota))

	err = ExplainConflict(ctx, &stubChecker{conflict: true, monthly: true}, c, ErrSerialization())
	assert.True(t, httperr.IsBusiness(err, CodeTimeConflict))

	err = ExplainConflict(ctx, &stubChecker{}, c, ErrSerialization())
	assert.True(t, httperr.IsBusiness(err, CodeTimeConflict))

	err = ExplainConflict(ctx, &stubChecker{monthly: true}, nil, ErrSerialization())
	assert.True(t, httperr.IsBusiness(err, CodeTimeConflict))

	other := httperr.ErrBusinessMsg("rendering_locked", "x")
	assert.Equal(t, other, ExplainConflict(ctx, &stubChecker{monthly: true}, c, other))
	assert.NoError(t, ExplainConflict(ctx, &stubChecker{}, c, nil))
}
