package appointment

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/clinic-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-scheduler/internal/domain/schedule"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

// memStore backs fakeRepo. Transactions hold mu for their whole run and
// restore the snapshot on error.
type memStore struct {
	mu sync.Mutex

	professionals map[uint]*models.Professional
	patients      map[uuid.UUID]*models.Patient
	services      map[uint]*models.Service
	subServices   map[uint]*models.SubService
	offerings     map[[2]uint]string

	appointments map[uint]models.Appointment
	renderings   map[uint]models.ServiceRendering

	nextAppointment uint
	nextRendering   uint

	// concurrentWinner, when set, runs once after the next transaction body
	// succeeds: the body is rolled back, the winner's writes are applied and
	// the transaction fails the way a serializable abort does.
	concurrentWinner func(s *memStore)

	// beforeCreateRendering runs once inside CreateRendering, after the
	// caller's lookup, to model a rendering inserted concurrently.
	beforeCreateRendering func(s *memStore)
}

type fakeRepo struct {
	s    *memStore
	inTx bool
}

var _ domain.Repository = (*fakeRepo)(nil)

func newFakeRepo() *fakeRepo {
	return &fakeRepo{s: &memStore{
		professionals: map[uint]*models.Professional{},
		patients:      map[uuid.UUID]*models.Patient{},
		services:      map[uint]*models.Service{},
		subServices:   map[uint]*models.SubService{},
		offerings:     map[[2]uint]string{},
		appointments:  map[uint]models.Appointment{},
		renderings:    map[uint]models.ServiceRendering{},
	}}
}

func (r *fakeRepo) lock() func() {
	if r.inTx {
		return func() {}
	}
	r.s.mu.Lock()
	return r.s.mu.Unlock
}

// -------- fixtures --------

func tuesdaySchedule() schedule.WeeklySchedule {
	var w schedule.WeeklySchedule
	w.Tuesday = schedule.Day{Active: true, Ranges: []schedule.Range{
		{Start: "09:00", End: "13:00"},
		{Start: "14:00", End: "18:00"},
	}}
	return w
}

func (r *fakeRepo) addProfessional(id uint, pct *decimal.Decimal) *models.Professional {
	p := &models.Professional{
		ID:            id,
		FirstName:     "Ana",
		LastName:      "Gómez",
		CommissionPct: pct,
		Status:        models.ProfessionalActive,
		Schedule:      datatypes.NewJSONType(tuesdaySchedule()),
	}
	r.s.professionals[id] = p
	return p
}

func (r *fakeRepo) addPatient(email string) uuid.UUID {
	id := uuid.New()
	r.s.patients[id] = &models.Patient{ID: id, FirstName: "Juan", LastName: "Pérez", Email: email}
	return id
}

func (r *fakeRepo) addService(id uint, price int64) {
	r.s.services[id] = &models.Service{ID: id, Name: "Consulta", BasePrice: decimal.NewFromInt(price)}
}

func (r *fakeRepo) addSubService(id, serviceID uint, price int64) {
	r.s.subServices[id] = &models.SubService{ID: id, ServiceID: serviceID, Name: "Control", Price: decimal.NewFromInt(price)}
}

func (r *fakeRepo) offer(professionalID, serviceID uint, status string) {
	r.s.offerings[[2]uint{professionalID, serviceID}] = status
}

func (r *fakeRepo) renderingFor(appointmentID uint) *models.ServiceRendering {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, rd := range r.s.renderings {
		if rd.AppointmentID != nil && *rd.AppointmentID == appointmentID {
			cp := rd
			return &cp
		}
	}
	return nil
}

func (r *fakeRepo) renderingCount() int {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return len(r.s.renderings)
}

// -------- domain.Repository --------

func (r *fakeRepo) Transaction(ctx context.Context, fn func(tx domain.Repository) error) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	appointments := make(map[uint]models.Appointment, len(r.s.appointments))
	for k, v := range r.s.appointments {
		appointments[k] = v
	}
	renderings := make(map[uint]models.ServiceRendering, len(r.s.renderings))
	for k, v := range r.s.renderings {
		renderings[k] = v
	}

	if err := fn(&fakeRepo{s: r.s, inTx: true}); err != nil {
		r.s.appointments = appointments
		r.s.renderings = renderings
		return err
	}
	if winner := r.s.concurrentWinner; winner != nil {
		r.s.concurrentWinner = nil
		r.s.appointments = appointments
		r.s.renderings = renderings
		winner(r.s)
		return domain.ErrSerialization()
	}
	return nil
}

func (r *fakeRepo) HasTimeConflict(_ context.Context, professionalID uint, date models.Date, start, end string, excludeID uint) (bool, error) {
	defer r.lock()()
	for _, ap := range r.s.appointments {
		if ap.ID == excludeID || ap.ProfessionalID != professionalID || ap.Date != date {
			continue
		}
		if ap.Status == string(domain.StatusCancelled) {
			continue
		}
		if ap.StartTime < end && ap.EndTime > start {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeRepo) HasMonthlyAppointment(_ context.Context, patientID uuid.UUID, month string, excludeID uint) (bool, error) {
	defer r.lock()()
	for _, ap := range r.s.appointments {
		if ap.ID == excludeID || ap.PatientID != patientID || ap.Status == string(domain.StatusCancelled) {
			continue
		}
		if ap.Date.Month() == month {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeRepo) OffersService(_ context.Context, professionalID, serviceID uint) (bool, error) {
	defer r.lock()()
	return r.s.offerings[[2]uint{professionalID, serviceID}] == models.OfferingActive, nil
}

func (r *fakeRepo) GetProfessional(_ context.Context, id uint) (*models.Professional, error) {
	defer r.lock()()
	p, ok := r.s.professionals[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *fakeRepo) GetPatient(_ context.Context, id uuid.UUID) (*models.Patient, error) {
	defer r.lock()()
	p, ok := r.s.patients[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *fakeRepo) GetService(_ context.Context, id uint) (*models.Service, error) {
	defer r.lock()()
	s, ok := r.s.services[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *s
	return &cp, nil
}

func (r *fakeRepo) GetSubService(_ context.Context, serviceID, id uint) (*models.SubService, error) {
	defer r.lock()()
	s, ok := r.s.subServices[id]
	if !ok || s.ServiceID != serviceID {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *s
	return &cp, nil
}

func (r *fakeRepo) GetAppointment(_ context.Context, id uint) (*models.Appointment, error) {
	defer r.lock()()
	ap, ok := r.s.appointments[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	ap.Patient = r.s.patients[ap.PatientID]
	ap.Professional = r.s.professionals[ap.ProfessionalID]
	ap.Service = r.s.services[ap.ServiceID]
	if ap.SubServiceID != nil {
		ap.SubService = r.s.subServices[*ap.SubServiceID]
	}
	return &ap, nil
}

func (r *fakeRepo) LockAppointment(_ context.Context, id uint) (*models.Appointment, error) {
	defer r.lock()()
	ap, ok := r.s.appointments[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &ap, nil
}

func (r *fakeRepo) CreateAppointment(_ context.Context, ap *models.Appointment) error {
	defer r.lock()()
	r.s.nextAppointment++
	ap.ID = r.s.nextAppointment
	ap.BookingMonth = ap.Date.Month()
	r.s.appointments[ap.ID] = *ap
	return nil
}

func (r *fakeRepo) UpdateAppointment(_ context.Context, ap *models.Appointment) error {
	defer r.lock()()
	if _, ok := r.s.appointments[ap.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	ap.BookingMonth = ap.Date.Month()
	cp := *ap
	cp.Patient, cp.Professional, cp.Service, cp.SubService = nil, nil, nil, nil
	r.s.appointments[ap.ID] = cp
	return nil
}

func (r *fakeRepo) DeleteAppointment(_ context.Context, id uint) error {
	defer r.lock()()
	if _, ok := r.s.appointments[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.s.appointments, id)
	for k, rd := range r.s.renderings {
		if rd.AppointmentID != nil && *rd.AppointmentID == id {
			rd.AppointmentID = nil
			r.s.renderings[k] = rd
		}
	}
	return nil
}

func (r *fakeRepo) ListAppointments(_ context.Context, f domain.ListFilter) ([]models.Appointment, int64, error) {
	defer r.lock()()
	var out []models.Appointment
	for _, ap := range r.s.appointments {
		if f.ProfessionalID != nil && ap.ProfessionalID != *f.ProfessionalID {
			continue
		}
		if f.PatientID != nil && ap.PatientID != *f.PatientID {
			continue
		}
		if f.Status != "" && ap.Status != f.Status {
			continue
		}
		if f.From != nil && ap.Date.Before(*f.From) {
			continue
		}
		if f.To != nil && ap.Date.After(*f.To) {
			continue
		}
		out = append(out, ap)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })

	total := int64(len(out))
	start := (f.Page - 1) * f.Limit
	if start > len(out) {
		start = len(out)
	}
	end := start + f.Limit
	if end > len(out) {
		end = len(out)
	}
	return out[start:end], total, nil
}

func (r *fakeRepo) ListAppointmentsForDay(_ context.Context, professionalID uint, date models.Date) ([]models.Appointment, error) {
	defer r.lock()()
	var out []models.Appointment
	for _, ap := range r.s.appointments {
		if ap.ProfessionalID == professionalID && ap.Date == date && ap.Status != string(domain.StatusCancelled) {
			out = append(out, ap)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime < out[j].StartTime })
	return out, nil
}

func (r *fakeRepo) FindRenderingByAppointment(_ context.Context, appointmentID uint) (*models.ServiceRendering, error) {
	defer r.lock()()
	for _, rd := range r.s.renderings {
		if rd.AppointmentID != nil && *rd.AppointmentID == appointmentID {
			cp := rd
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeRepo) CreateRendering(_ context.Context, rd *models.ServiceRendering) error {
	defer r.lock()()
	if hook := r.s.beforeCreateRendering; hook != nil {
		r.s.beforeCreateRendering = nil
		hook(r.s)
	}
	if rd.AppointmentID != nil {
		for _, existing := range r.s.renderings {
			if existing.AppointmentID != nil && *existing.AppointmentID == *rd.AppointmentID {
				return domain.ErrRenderingExists
			}
		}
	}
	r.s.nextRendering++
	rd.ID = r.s.nextRendering
	r.s.renderings[rd.ID] = *rd
	return nil
}

func (r *fakeRepo) DeleteRendering(_ context.Context, id uint) error {
	defer r.lock()()
	delete(r.s.renderings, id)
	return nil
}

// insertCommitted stores an appointment as if another transaction had
// committed it. Callers hold s.mu.
func (s *memStore) insertCommitted(ap models.Appointment) {
	s.nextAppointment++
	ap.ID = s.nextAppointment
	ap.BookingMonth = ap.Date.Month()
	s.appointments[ap.ID] = ap
}

func auditActor() audit.Actor {
	uid := uint(1)
	return audit.Actor{UserID: &uid, RequestID: "req-1"}
}

func mustTime(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		t.Fatal(err)
	}
	return d
}

func mustDate(s string) models.Date {
	d, err := models.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}
