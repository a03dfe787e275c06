package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/barber-booking/internal/audit"
	"github.com/BruksfildServices01/barber-booking/internal/handlers"
	"github.com/BruksfildServices01/barber-booking/internal/infra/lock"
	"github.com/BruksfildServices01/barber-booking/internal/infra/repository"
	"github.com/BruksfildServices01/barber-booking/internal/middleware"
	"github.com/BruksfildServices01/barber-booking/internal/models"
	"github.com/BruksfildServices01/barber-booking/internal/timezone"
	ucAppointment "github.com/BruksfildServices01/barber-booking/internal/usecase/appointment"
)

const testSecret = "test-secret"

// Tuesday 2025-03-04 08:00 UTC
var testNow = time.Date(2025, 3, 4, 8, 0, 0, 0, time.UTC)

type server struct {
	t      *testing.T
	engine *gin.Engine
	repo   *repository.MemoryRepository
	store  *audit.MemoryStore
	barber *models.Barber
}

func newServer(t *testing.T) *server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	ctx := context.Background()
	repo := repository.NewMemoryRepository()

	var hours []ucAppointment.WorkingHoursInput
	for wd := 0; wd <= 6; wd++ {
		hours = append(hours, ucAppointment.WorkingHoursInput{Weekday: wd, Start: "09:00", End: "17:00"})
	}
	b, err := ucAppointment.SeedBarber(ctx, repo, "Alex", hours)
	require.NoError(t, err)

	store := audit.NewMemoryStore()
	auditLogger := audit.New(store)
	dispatcher := audit.NewDispatcher(auditLogger, zerolog.Nop())
	t.Cleanup(dispatcher.Close)

	r := gin.New()
	r.Use(middleware.RequestLogger(zerolog.Nop()))
	RegisterRoutes(r, Deps{
		Repo:        repo,
		Locker:      lock.NewLocalLocker(),
		Clock:       timezone.FixedClock(testNow),
		Policy:      ucAppointment.DefaultPolicy(),
		Audit:       dispatcher,
		AuditLogger: auditLogger,
		JWTSecret:   testSecret,
	})

	return &server{t: t, engine: r, repo: repo, store: store, barber: b}
}

func (s *server) do(method, path, token string, body any) (*httptest.ResponseRecorder, map[string]any) {
	s.t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(s.t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)

	var out map[string]any
	_ = json.Unmarshal(w.Body.Bytes(), &out)
	return w, out
}

func (s *server) register(email string) string {
	s.t.Helper()
	w, body := s.do(http.MethodPost, "/api/auth/register", "", gin.H{
		"name": "Customer", "email": email, "password": "secret123",
	})
	require.Equal(s.t, http.StatusCreated, w.Code, w.Body.String())
	return body["token"].(string)
}

func (s *server) adminToken() string {
	s.t.Helper()
	admin, err := handlers.EnsureAdmin(context.Background(), s.repo, "admin@example.com", "secret123")
	require.NoError(s.t, err)
	token, err := handlers.IssueToken(testSecret, admin, time.Now())
	require.NoError(s.t, err)
	return token
}

func (s *server) slots(date string) []any {
	s.t.Helper()
	w, body := s.do(http.MethodGet,
		fmt.Sprintf("/api/barbers/%d/availability?date=%s&duration=30", s.barber.ID, date), "", nil)
	require.Equal(s.t, http.StatusOK, w.Code, w.Body.String())
	return body["slots"].([]any)
}

func TestHealth(t *testing.T) {
	s := newServer(t)
	w, body := s.do(http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", body["status"])
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestAvailability_Validation(t *testing.T) {
	s := newServer(t)

	tests := []struct {
		query  string
		status int
		code   string
	}{
		{"duration=30", http.StatusBadRequest, "missing_date"},
		{"date=2025-03-05", http.StatusBadRequest, "missing_duration"},
		{"date=2025-3-5&duration=30", http.StatusBadRequest, "invalid_date"},
		{"date=2025-03-05&duration=abc", http.StatusBadRequest, "invalid_duration"},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			w, body := s.do(http.MethodGet,
				fmt.Sprintf("/api/barbers/%d/availability?%s", s.barber.ID, tt.query), "", nil)
			assert.Equal(t, tt.status, w.Code)
			assert.Equal(t, tt.code, body["error_code"])
		})
	}

	w, _ := s.do(http.MethodGet, "/api/barbers/999/availability?date=2025-03-05&duration=30", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestBookingFlow(t *testing.T) {
	s := newServer(t)
	alice := s.register("alice@example.com")
	bob := s.register("bob@example.com")

	before := s.slots("2025-03-05")
	require.Len(t, before, 31)
	first := before[0].(map[string]any)["start"].(string)

	// book the first offered slot
	w, created := s.do(http.MethodPost, "/api/me/appointments", alice, gin.H{
		"barber_id":        s.barber.ID,
		"service_name":     "Haircut",
		"duration_minutes": 30,
		"starts_at":        first,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, "booked", created["status"])
	apID := uint(created["id"].(float64))

	// same slot for someone else
	w, body := s.do(http.MethodPost, "/api/me/appointments", bob, gin.H{
		"barber_id":        s.barber.ID,
		"service_name":     "Haircut",
		"duration_minutes": 30,
		"starts_at":        first,
	})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "time_conflict", body["error_code"])

	// a second booking in the same week
	w, body = s.do(http.MethodPost, "/api/me/appointments", alice, gin.H{
		"barber_id":        s.barber.ID,
		"service_name":     "Haircut",
		"duration_minutes": 30,
		"starts_at":        "2025-03-06T10:00:00Z",
	})
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "weekly_limit_reached", body["error_code"])

	after := s.slots("2025-03-05")
	assert.Len(t, after, len(before)-2)

	// bob cannot touch alice's booking
	w, _ = s.do(http.MethodPatch, fmt.Sprintf("/api/me/appointments/%d/cancel", apID), bob, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, body = s.do(http.MethodPatch, fmt.Sprintf("/api/me/appointments/%d/reschedule", apID), alice, gin.H{
		"starts_at": "2025-03-05T15:00:00Z",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "rescheduled", body["status"])
	assert.Equal(t, "2025-03-05T15:00:00Z", body["starts_at"])

	w, body = s.do(http.MethodGet, "/api/me/appointments", alice, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 1, body["total"])

	w, body = s.do(http.MethodPatch, fmt.Sprintf("/api/me/appointments/%d/cancel", apID), alice, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "cancelled", body["status"])

	w, body = s.do(http.MethodPatch, fmt.Sprintf("/api/me/appointments/%d/cancel", apID), alice, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "appointment_not_found", body["error_code"])
}

func TestAuthAndRoles(t *testing.T) {
	s := newServer(t)
	customer := s.register("carol@example.com")

	w, body := s.do(http.MethodGet, "/api/me/appointments", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "missing_authorization_header", body["error_code"])

	w, _ = s.do(http.MethodGet, "/api/me/appointments", "not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w, _ = s.do(http.MethodGet, "/api/admin/appointments?barber_id=1&date=2025-03-05", customer, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, body = s.do(http.MethodPost, "/api/auth/register", "", gin.H{
		"name": "Again", "email": "Carol@example.com", "password": "secret123",
	})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "email_already_registered", body["error_code"])

	w, body = s.do(http.MethodPost, "/api/auth/login", "", gin.H{
		"email": "carol@example.com", "password": "wrong-password",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "invalid_credentials", body["error_code"])

	w, body = s.do(http.MethodPost, "/api/auth/login", "", gin.H{
		"email": "carol@example.com", "password": "secret123",
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, body["token"])
}

func TestAdminFlow(t *testing.T) {
	s := newServer(t)
	admin := s.adminToken()
	customer := s.register("dave@example.com")

	w, created := s.do(http.MethodPost, "/api/me/appointments", customer, gin.H{
		"barber_id":        s.barber.ID,
		"service_name":     "Beard",
		"duration_minutes": 20,
		"starts_at":        "2025-03-05T11:00:00Z",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	apID := uint(created["id"].(float64))

	w, body := s.do(http.MethodGet,
		fmt.Sprintf("/api/admin/appointments?barber_id=%d&date=2025-03-05", s.barber.ID), admin, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.EqualValues(t, 1, body["total"])

	w, body = s.do(http.MethodPatch, fmt.Sprintf("/api/admin/appointments/%d/no-show", apID), admin, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "no_show", body["status"])

	w, _ = s.do(http.MethodPatch, fmt.Sprintf("/api/admin/appointments/%d/complete", apID), admin, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w, _ = s.do(http.MethodPost, fmt.Sprintf("/api/admin/barbers/%d/time-off", s.barber.ID), admin, gin.H{
		"starts_at": "2025-03-05T12:00:00Z",
		"ends_at":   "2025-03-05T13:00:00Z",
		"reason":    "lunch",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	// 11:45 through 12:45 overlap the break
	assert.Len(t, s.slots("2025-03-05"), 31-5)

	w, body = s.do(http.MethodPut, fmt.Sprintf("/api/admin/barbers/%d/working-hours", s.barber.ID), admin, gin.H{
		"days": []gin.H{
			{"weekday": 3, "start_time": "10:00", "end_time": "12:00"},
		},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Len(t, body["rules"], 1)

	assert.Eventually(t, func() bool {
		logs, _, err := s.store.List(context.Background(), audit.Filter{})
		return err == nil && len(logs) >= 4
	}, 2*time.Second, 10*time.Millisecond)

	w, body = s.do(http.MethodGet, "/api/admin/audit-logs?action=appointment_no_show", admin, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.EqualValues(t, 1, body["total"])
}
