package http

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"clinic-booking-service/config"
	"clinic-booking-service/internal/delivery/dto"
	"clinic-booking-service/internal/delivery/http/handler"
	"clinic-booking-service/internal/delivery/http/middleware"
	"clinic-booking-service/internal/usecase"
	"clinic-booking-service/pkg/jwt"
	"clinic-booking-service/pkg/validator"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubPlans struct{ usecase.PlanUsecase }

func (stubPlans) GetAll(context.Context) ([]dto.PlanResponse, error) { return []dto.PlanResponse{}, nil }

type stubAppointments struct{ usecase.AppointmentUsecase }

func (stubAppointments) List(context.Context, dto.AppointmentListQuery) ([]dto.AppointmentResponse, int64, error) {
	return []dto.AppointmentResponse{}, 0, nil
}

type stubContacts struct{ usecase.ContactUsecase }

func (stubContacts) GetAll(context.Context) ([]dto.ContactResponse, error) { return []dto.ContactResponse{}, nil }

func newTestRouter(t *testing.T) (http.Handler, func(role string) string) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	jwtService := jwt.NewJWTService(config.JWTConfig{Secret: "router-secret", Expiry: time.Hour})
	v := validator.NewValidator()
	log := logrus.New()
	log.SetOutput(io.Discard)

	router := NewRouter(
		handler.NewAuthHandler(nil, v, false),
		handler.NewDoctorHandler(nil, v),
		handler.NewAppointmentHandler(stubAppointments{}, v),
		handler.NewPlanHandler(stubPlans{}, v),
		handler.NewCRMHandler(nil, v),
		handler.NewContactHandler(stubContacts{}, nil, v),
		handler.NewAuditLogHandler(nil),
		handler.NewHealthHandler(map[string]handler.HealthCheck{}),
		middleware.NewAuthMiddleware(jwtService, client),
		middleware.NewCORSMiddleware([]string{"http://localhost:3000"}),
		middleware.NewLoggingMiddleware(log),
	).Setup()

	login := func(role string) string {
		token, tokenID, err := jwtService.GenerateToken("u1", "u1@example.com", role)
		require.NoError(t, err)
		require.NoError(t, client.Set(context.Background(), jwt.SessionKey("u1", tokenID), "valid", time.Hour).Err())
		return token
	}
	return router, login
}

func do(h http.Handler, method, target, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	if token != "" {
		req.AddCookie(&http.Cookie{Name: middleware.AuthCookieName, Value: token})
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestRouter_AccessRules(t *testing.T) {
	router, login := newTestRouter(t)
	user := login("user")
	admin := login("admin")

	assert.Equal(t, http.StatusOK, do(router, http.MethodGet, "/api/plans", "").Code)
	assert.Equal(t, http.StatusOK, do(router, http.MethodGet, "/api/health", "").Code)

	assert.Equal(t, http.StatusUnauthorized, do(router, http.MethodGet, "/api/appointments", "").Code)
	assert.Equal(t, http.StatusOK, do(router, http.MethodGet, "/api/appointments", user).Code)

	assert.Equal(t, http.StatusForbidden, do(router, http.MethodGet, "/api/contact", user).Code)
	assert.Equal(t, http.StatusOK, do(router, http.MethodGet, "/api/contact", admin).Code)

	assert.Equal(t, http.StatusForbidden, do(router, http.MethodPost, "/api/doctors", user).Code)
	assert.Equal(t, http.StatusUnauthorized, do(router, http.MethodGet, "/api/crm", "").Code)
	assert.Equal(t, http.StatusForbidden, do(router, http.MethodGet, "/api/audit-logs", user).Code)
}

func TestRouter_NotFoundIsJSON(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := do(router, http.MethodGet, "/api/nothing-here", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
}

func TestRouter_CORSPreflight(t *testing.T) {
	router, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/appointments", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))
}
