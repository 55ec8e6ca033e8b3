package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"hospital-slots/internal/app"
	"hospital-slots/internal/domain"
)

type stubSource struct{}

func (stubSource) GetDoctor(_ context.Context, id int64) (domain.Doctor, error) {
	if id != 1 {
		return domain.Doctor{}, domain.ErrDoctorNotFound
	}
	return domain.Doctor{ID: 1, AvailableTimeStart: "09:00", AvailableTimeEnd: "10:00", Status: "active"}, nil
}

func (stubSource) ListAppointments(_ context.Context, _ int64, _ time.Time) ([]domain.Appointment, error) {
	return []domain.Appointment{{ID: 1, DoctorID: 1, AppointmentTime: "09:30", Status: "scheduled"}}, nil
}

func newTestServer(origins []string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	a := &app.App{Doctors: stubSource{}, Appointments: stubSource{}}
	return NewRouter(a, Options{
		StaticTokens:   []string{"svc-token"},
		CORSOrigins:    origins,
		RateLimitRPS:   100,
		RateLimitBurst: 100,
		Google:         app.NewGoogleCalendar("id", "secret", "http://localhost/cb", nil),
	})
}

func request(r http.Handler, method, target, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestRouter_HealthIsPublic(t *testing.T) {
	rec := request(newTestServer(nil), http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestRouter_APIRequiresAuth(t *testing.T) {
	r := newTestServer(nil)

	rec := request(r, http.MethodGet, "/api/doctors/1/slots?date=2026-10-19", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = request(r, http.MethodGet, "/api/doctors/1/slots?date=2026-10-19", "svc-token")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"doctor_id":1,"date":"2026-10-19","slots":["09:00"],"count":1}`, rec.Body.String())
}

func TestRouter_CalendarRoutesMounted(t *testing.T) {
	r := newTestServer(nil)

	rec := request(r, http.MethodGet, "/api/calendar/auth?doctor_id=1", "svc-token")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = request(r, http.MethodGet, "/oauth2callback", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRouter_CalendarRoutesAbsentWithoutGoogle(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := NewRouter(&app.App{Doctors: stubSource{}, Appointments: stubSource{}}, Options{StaticTokens: []string{"svc-token"}})

	rec := request(r, http.MethodGet, "/api/calendar/auth", "svc-token")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRouter_CORS(t *testing.T) {
	r := newTestServer([]string{"http://localhost:3000"})

	req := httptest.NewRequest(http.MethodOptions, "/api/slots", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestCorsConfig(t *testing.T) {
	assert.True(t, corsConfig(nil).AllowAllOrigins)
	assert.True(t, corsConfig([]string{"*"}).AllowAllOrigins)

	cfg := corsConfig([]string{"https://hospital.example"})
	assert.False(t, cfg.AllowAllOrigins)
	assert.True(t, cfg.AllowCredentials)
}

func TestRun_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- Run(ctx, http.NotFoundHandler(), "127.0.0.1:0", time.Second, zap.NewNop())
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("server did not stop")
	}
}
