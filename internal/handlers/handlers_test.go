package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/clinic-scheduler/internal/config"
	"github.com/BruksfildServices01/clinic-scheduler/internal/domain/schedule"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
	ucProfessional "github.com/BruksfildServices01/clinic-scheduler/internal/usecase/professional"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// ======================================================
// FAKES
// ======================================================

type memProfessionals struct {
	mu   sync.Mutex
	rows map[uint]*models.Professional
}

func (m *memProfessionals) Get(_ context.Context, id uint) (*models.Professional, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.rows[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *memProfessionals) UpdateSchedule(_ context.Context, id uint, w schedule.WeeklySchedule) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows[id].Schedule = datatypes.NewJSONType(w)
	return nil
}

func (m *memProfessionals) SetStatus(_ context.Context, id uint, status string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows[id].Status = status
	return nil
}

type fakePinger struct{ err error }

func (p fakePinger) PingContext(context.Context) error { return p.err }

type fakeSettings []models.Setting

func (s fakeSettings) List(context.Context) ([]models.Setting, error) { return s, nil }

// ======================================================
// HELPERS
// ======================================================

func newProfessionalEngine(t *testing.T) (*gin.Engine, *memProfessionals) {
	t.Helper()

	week := schedule.WeeklySchedule{
		Tuesday: schedule.Day{Active: true, Ranges: []schedule.Range{
			{Start: "09:00", End: "13:00"},
			{Start: "14:00", End: "18:00"},
		}},
	}
	repo := &memProfessionals{rows: map[uint]*models.Professional{
		1: {ID: 1, FirstName: "Ana", LastName: "Gómez", Status: models.ProfessionalActive, Schedule: datatypes.NewJSONType(week)},
	}}

	h := NewProfessionalHandler(
		ucProfessional.NewGetSchedule(repo),
		ucProfessional.NewUpdateSchedule(repo, nil),
		ucProfessional.NewAvailableSlots(repo),
		ucProfessional.NewDeactivate(repo, nil),
	)

	r := gin.New()
	r.GET("/professionals/:id/schedule", h.GetSchedule)
	r.PUT("/professionals/:id/schedule", h.UpdateSchedule)
	r.GET("/professionals/:id/available-slots", h.AvailableSlots)
	r.DELETE("/professionals/:id", h.Delete)
	return r, repo
}

func request(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

// ======================================================
// PROFESSIONALS
// ======================================================

func TestProfessionalHandler_AvailableSlots(t *testing.T) {
	r, _ := newProfessionalEngine(t)

	w := request(r, http.MethodGet, "/professionals/1/available-slots?date=2024-03-05", "")
	require.Equal(t, http.StatusOK, w.Code)

	body := decode(t, w)
	assert.Equal(t, true, body["available"])
	assert.Len(t, body["slots"], 16)
	assert.Equal(t, "2024-03-05", body["date"])

	w = request(r, http.MethodGet, "/professionals/1/available-slots?date=2024-03-04", "")
	require.Equal(t, http.StatusOK, w.Code)
	body = decode(t, w)
	assert.Equal(t, false, body["available"])
	assert.Empty(t, body["slots"])
}

func TestProfessionalHandler_AvailableSlotsValidation(t *testing.T) {
	r, _ := newProfessionalEngine(t)

	w := request(r, http.MethodGet, "/professionals/1/available-slots", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "validation_error", decode(t, w)["code"])

	w = request(r, http.MethodGet, "/professionals/1/available-slots?date=05/03/2024", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = request(r, http.MethodGet, "/professionals/abc/available-slots?date=2024-03-05", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid_id", decode(t, w)["code"])

	w = request(r, http.MethodGet, "/professionals/99/available-slots?date=2024-03-05", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "professional_not_found", decode(t, w)["code"])
}

func TestProfessionalHandler_UpdateSchedule(t *testing.T) {
	r, repo := newProfessionalEngine(t)

	overlapping := `{"monday":{"active":true,"ranges":[{"start":"09:00","end":"12:00"},{"start":"11:00","end":"13:00"}]}}`
	w := request(r, http.MethodPut, "/professionals/1/schedule", overlapping)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "validation_error", decode(t, w)["code"])

	valid := `{"monday":{"active":true,"ranges":[{"start":"08:00","end":"10:00"}]}}`
	w = request(r, http.MethodPut, "/professionals/1/schedule", valid)
	require.Equal(t, http.StatusOK, w.Code)

	saved := repo.rows[1].Schedule.Data()
	assert.True(t, saved.Monday.Active)
	assert.False(t, saved.Tuesday.Active)

	w = request(r, http.MethodGet, "/professionals/1/available-slots?date=2024-03-04", "")
	assert.Len(t, decode(t, w)["slots"], 4)
}

func TestProfessionalHandler_DeleteDeactivates(t *testing.T) {
	r, repo := newProfessionalEngine(t)

	w := request(r, http.MethodDelete, "/professionals/1", "")
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, models.ProfessionalInactive, repo.rows[1].Status)

	w = request(r, http.MethodGet, "/professionals/1/available-slots?date=2024-03-05", "")
	body := decode(t, w)
	assert.Equal(t, false, body["available"])
	assert.Empty(t, body["slots"])
}

// ======================================================
// AUTH / SETTINGS / HEALTH
// ======================================================

func TestAuthHandler_LoginValidation(t *testing.T) {
	h := NewAuthHandler(nil, &config.Config{JWTSecret: "secret"})
	r := gin.New()
	r.POST("/auth/login", h.Login)

	w := request(r, http.MethodPost, "/auth/login", `{"email":`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid_request", decode(t, w)["code"])

	w = request(r, http.MethodPost, "/auth/login", `{"email":"no-es-email","password":""}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
	body := decode(t, w)
	assert.Equal(t, "validation_error", body["code"])
	assert.Len(t, body["details"], 2)
}

func TestSettingsHandler_DecodesTypes(t *testing.T) {
	h := NewSettingsHandler(fakeSettings{
		{Key: "clinic_name", Value: "Sonrisas", Type: models.SettingString},
		{Key: "slot_minutes", Value: "30", Type: models.SettingNumber},
		{Key: "emails_enabled", Value: "true", Type: models.SettingBoolean},
	})
	r := gin.New()
	r.GET("/settings", h.List)

	w := request(r, http.MethodGet, "/settings", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"clinic_name":"Sonrisas","slot_minutes":30,"emails_enabled":true}`, w.Body.String())
}

func TestHealthHandler(t *testing.T) {
	r := gin.New()
	r.GET("/ok", NewHealthHandler(fakePinger{}).Check)
	r.GET("/down", NewHealthHandler(fakePinger{err: errors.New("dial tcp: refused")}).Check)

	assert.Equal(t, http.StatusOK, request(r, http.MethodGet, "/ok", "").Code)
	assert.Equal(t, http.StatusServiceUnavailable, request(r, http.MethodGet, "/down", "").Code)
}
