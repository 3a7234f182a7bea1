package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"clinic-booking-service/internal/delivery/dto"
	"clinic-booking-service/internal/domain/entity"
	"clinic-booking-service/internal/service"
	"clinic-booking-service/internal/usecase"
	"clinic-booking-service/pkg/response"
	"clinic-booking-service/pkg/validator"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type body struct {
	Success        bool                 `json:"success"`
	Message        string               `json:"message"`
	Data           json.RawMessage      `json:"data"`
	User           json.RawMessage      `json:"user"`
	Error          interface{}          `json:"error"`
	Errors         map[string]string    `json:"errors"`
	RequiredFields []string             `json:"requiredFields"`
	Pagination     *response.Pagination `json:"pagination"`
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) body {
	t.Helper()
	var b body
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &b))
	return b
}

func jsonRequest(method, target string, payload interface{}) *http.Request {
	var buf bytes.Buffer
	if s, ok := payload.(string); ok {
		buf.WriteString(s)
	} else {
		_ = json.NewEncoder(&buf).Encode(payload)
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	return req
}

// serve routes req through a single pattern so path variables are populated
func serve(pattern, method string, h http.HandlerFunc, req *http.Request) *httptest.ResponseRecorder {
	r := mux.NewRouter()
	r.HandleFunc(pattern, h).Methods(method)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

// --- fakes ---

type fakeAppointmentUsecase struct {
	createErr  error
	lastCreate *dto.CreateAppointmentRequest
	lastQuery  dto.AppointmentListQuery
	list       []dto.AppointmentResponse
	total      int64
	listErr    error
	updateErr  error
}

func (f *fakeAppointmentUsecase) Create(_ context.Context, req *dto.CreateAppointmentRequest) (*dto.AppointmentResponse, error) {
	f.lastCreate = req
	if f.createErr != nil {
		return nil, f.createErr
	}
	return &dto.AppointmentResponse{ID: "a1", Status: string(entity.AppointmentStatusPending), PatientName: req.Name}, nil
}

func (f *fakeAppointmentUsecase) List(_ context.Context, q dto.AppointmentListQuery) ([]dto.AppointmentResponse, int64, error) {
	f.lastQuery = q
	return f.list, f.total, f.listErr
}

func (f *fakeAppointmentUsecase) UpdateStatus(_ context.Context, id string, req *dto.UpdateAppointmentStatusRequest) (*dto.AppointmentResponse, error) {
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	return &dto.AppointmentResponse{ID: id, Status: req.Status}, nil
}

type fakeAuthUsecase struct {
	usecase.AuthUsecase
	loginErr  error
	logoutErr error
	sendErr   error
}

func (f *fakeAuthUsecase) SendOTP(context.Context, *dto.SendOTPRequest) error { return f.sendErr }

func (f *fakeAuthUsecase) Login(_ context.Context, req *dto.LoginRequest) (*dto.LoginResult, error) {
	if f.loginErr != nil {
		return nil, f.loginErr
	}
	return &dto.LoginResult{Token: "signed.jwt.token", ExpiresIn: 7 * 24 * time.Hour, User: &dto.UserResponse{ID: "u1", Email: req.Email}}, nil
}

func (f *fakeAuthUsecase) Logout(context.Context) error { return f.logoutErr }

type fakeDoctorUsecase struct {
	usecase.DoctorUsecase
	err       error
	lastSlot  string
	lastDate  string
	lastQuery [3]string
}

func (f *fakeDoctorUsecase) List(_ context.Context, email, id, category string) ([]dto.DoctorResponse, error) {
	f.lastQuery = [3]string{email, id, category}
	return []dto.DoctorResponse{}, f.err
}

func (f *fakeDoctorUsecase) Create(_ context.Context, req *dto.DoctorRequest) (*dto.DoctorResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &dto.DoctorResponse{ID: "d1", Name: req.Name}, nil
}

func (f *fakeDoctorUsecase) RemoveTimeSlot(_ context.Context, id, date, slot string) (*dto.DoctorResponse, error) {
	f.lastDate, f.lastSlot = date, slot
	if f.err != nil {
		return nil, f.err
	}
	return &dto.DoctorResponse{ID: id}, nil
}

type fakeCRMUsecase struct {
	usecase.CRMUsecase
	gotID string
}

func (f *fakeCRMUsecase) GetAll(context.Context) ([]dto.CRMEntryResponse, error) {
	return []dto.CRMEntryResponse{{ID: "c1"}, {ID: "c2"}}, nil
}

func (f *fakeCRMUsecase) GetByID(_ context.Context, id string) (*dto.CRMEntryResponse, error) {
	f.gotID = id
	if id == "bad" {
		return nil, usecase.ErrInvalidCRMID
	}
	return &dto.CRMEntryResponse{ID: id}, nil
}

type fakeAuditLogUsecase struct{}

func (fakeAuditLogUsecase) GetAllAuditLogs(context.Context, int, int) ([]dto.AuditLogResponse, int64, error) {
	return nil, 0, usecase.ErrAuditStorageDisabled
}

func (fakeAuditLogUsecase) GetAuditLog(context.Context, int64) (*dto.AuditLogResponse, error) {
	return nil, usecase.ErrAuditStorageDisabled
}

// --- appointments ---

func validBooking() map[string]string {
	return map[string]string{
		"name":            "Asha",
		"email":           "asha@example.com",
		"phone":           "9999999999",
		"gender":          "female",
		"appointmentType": "offline",
		"date":            "2030-06-01",
		"time":            "09:00",
		"doctorId":        "64b000000000000000000001",
		"doctorName":      "Dr. Iyer",
	}
}

func TestAppointmentCreate(t *testing.T) {
	uc := &fakeAppointmentUsecase{}
	h := NewAppointmentHandler(uc, validator.NewValidator())

	rec := serve("/api/appointments", http.MethodPost, h.Create, jsonRequest(http.MethodPost, "/api/appointments", validBooking()))
	assert.Equal(t, http.StatusCreated, rec.Code)
	b := decode(t, rec)
	assert.True(t, b.Success)
	assert.Equal(t, "Appointment created successfully", b.Message)
	assert.Equal(t, "Asha", uc.lastCreate.Name)
}

func TestAppointmentCreate_MissingFields(t *testing.T) {
	h := NewAppointmentHandler(&fakeAppointmentUsecase{}, validator.NewValidator())
	payload := validBooking()
	delete(payload, "phone")
	delete(payload, "doctorName")

	rec := serve("/api/appointments", http.MethodPost, h.Create, jsonRequest(http.MethodPost, "/api/appointments", payload))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	b := decode(t, rec)
	assert.False(t, b.Success)
	assert.Equal(t, validator.MessageMissingFields, b.Message)
	assert.ElementsMatch(t, []string{"phone", "doctorName"}, b.RequiredFields)
}

func TestAppointmentCreate_ErrorMapping(t *testing.T) {
	cases := []struct {
		err    error
		status int
	}{
		{entity.ErrInvalidDateTime, http.StatusBadRequest},
		{usecase.ErrDoctorNotFound, http.StatusNotFound},
		{usecase.ErrSlotNotOffered, http.StatusBadRequest},
		{service.ErrSlotTaken, http.StatusConflict},
		{errors.New("mongo down"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.err.Error(), func(t *testing.T) {
			h := NewAppointmentHandler(&fakeAppointmentUsecase{createErr: tc.err}, validator.NewValidator())
			rec := serve("/api/appointments", http.MethodPost, h.Create, jsonRequest(http.MethodPost, "/api/appointments", validBooking()))
			assert.Equal(t, tc.status, rec.Code)
		})
	}
}

func TestAppointmentCreate_InvalidBody(t *testing.T) {
	h := NewAppointmentHandler(&fakeAppointmentUsecase{}, validator.NewValidator())
	rec := serve("/api/appointments", http.MethodPost, h.Create, jsonRequest(http.MethodPost, "/api/appointments", "{not json"))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid request body", decode(t, rec).Message)
}

func TestAppointmentList_Pagination(t *testing.T) {
	uc := &fakeAppointmentUsecase{list: []dto.AppointmentResponse{}, total: 21}
	h := NewAppointmentHandler(uc, validator.NewValidator())

	req := httptest.NewRequest(http.MethodGet, "/api/appointments?page=5&limit=500&status=pending&startDate=2030-06-01", nil)
	rec := serve("/api/appointments", http.MethodGet, h.List, req)

	require.Equal(t, http.StatusOK, rec.Code)
	b := decode(t, rec)
	require.NotNil(t, b.Pagination)
	assert.Equal(t, response.Pagination{Page: 5, Limit: 100, Total: 21, TotalPages: 1}, *b.Pagination)
	assert.JSONEq(t, `[]`, string(b.Data))
	assert.Equal(t, "pending", uc.lastQuery.Status)
	assert.Equal(t, "2030-06-01", uc.lastQuery.StartDate)
	assert.Equal(t, 100, uc.lastQuery.Limit)
}

func TestAppointmentList_BadDateRange(t *testing.T) {
	h := NewAppointmentHandler(&fakeAppointmentUsecase{listErr: usecase.ErrInvalidDateRange}, validator.NewValidator())
	rec := serve("/api/appointments", http.MethodGet, h.List, httptest.NewRequest(http.MethodGet, "/api/appointments?endDate=june", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAppointmentUpdateStatus(t *testing.T) {
	h := NewAppointmentHandler(&fakeAppointmentUsecase{}, validator.NewValidator())

	rec := serve("/api/appointments/{id}", http.MethodPatch, h.UpdateStatus,
		jsonRequest(http.MethodPatch, "/api/appointments/a1", map[string]string{"status": "confirmed"}))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = serve("/api/appointments/{id}", http.MethodPatch, h.UpdateStatus,
		jsonRequest(http.MethodPatch, "/api/appointments/a1", map[string]string{"status": "archived"}))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	h = NewAppointmentHandler(&fakeAppointmentUsecase{updateErr: usecase.ErrInvalidTransition}, validator.NewValidator())
	rec = serve("/api/appointments/{id}", http.MethodPatch, h.UpdateStatus,
		jsonRequest(http.MethodPatch, "/api/appointments/a1", map[string]string{"status": "pending"}))
	assert.Equal(t, http.StatusConflict, rec.Code)
}

// --- doctors ---

func TestDoctorCreate_Duplicate(t *testing.T) {
	h := NewDoctorHandler(&fakeDoctorUsecase{err: usecase.ErrDoctorExists}, validator.NewValidator())
	payload := map[string]interface{}{"name": "Dr. A", "email": "a@example.com", "phone": "1", "address": "x"}

	rec := serve("/api/doctors", http.MethodPost, h.CreateDoctor, jsonRequest(http.MethodPost, "/api/doctors", payload))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Doctor already exists with this email or phone", decode(t, rec).Message)
}

func TestDoctorCreate_RequiredFields(t *testing.T) {
	h := NewDoctorHandler(&fakeDoctorUsecase{}, validator.NewValidator())

	rec := serve("/api/doctors", http.MethodPost, h.CreateDoctor, jsonRequest(http.MethodPost, "/api/doctors", map[string]string{"name": "Dr. A"}))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.ElementsMatch(t, []string{"email", "phone", "address"}, decode(t, rec).RequiredFields)
}

func TestDoctorList_PassesFilters(t *testing.T) {
	uc := &fakeDoctorUsecase{}
	h := NewDoctorHandler(uc, validator.NewValidator())

	rec := serve("/api/doctors", http.MethodGet, h.GetAllDoctors, httptest.NewRequest(http.MethodGet, "/api/doctors?category=dermat", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, [3]string{"", "", "dermat"}, uc.lastQuery)
	assert.JSONEq(t, `[]`, string(decode(t, rec).Data))
}

func TestDoctorRemoveTimeSlot(t *testing.T) {
	uc := &fakeDoctorUsecase{}
	h := NewDoctorHandler(uc, validator.NewValidator())
	pattern := "/api/doctors/{id}/availability/{date}/slots/{slot}"

	rec := serve(pattern, http.MethodDelete, h.RemoveTimeSlot, httptest.NewRequest(http.MethodDelete, "/api/doctors/d1/availability/2030-06-01/slots/09:00", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "2030-06-01", uc.lastDate)
	assert.Equal(t, "09:00", uc.lastSlot)

	uc.err = usecase.ErrConcurrentModification
	rec = serve(pattern, http.MethodDelete, h.RemoveTimeSlot, httptest.NewRequest(http.MethodDelete, "/api/doctors/d1/availability/2030-06-01/slots/09:00", nil))
	assert.Equal(t, http.StatusConflict, rec.Code)

	uc.err = usecase.ErrAvailableDateNotFound
	rec = serve(pattern, http.MethodDelete, h.RemoveTimeSlot, httptest.NewRequest(http.MethodDelete, "/api/doctors/d1/availability/2031-01-01/slots/09:00", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

// --- auth ---

func TestLogin_SetsCookie(t *testing.T) {
	h := NewAuthHandler(&fakeAuthUsecase{}, validator.NewValidator(), true)

	rec := serve("/api/auth/login", http.MethodPost, h.Login,
		jsonRequest(http.MethodPost, "/api/auth/login", map[string]string{"email": "a@example.com", "password": "secret123"}))
	require.Equal(t, http.StatusOK, rec.Code)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	c := cookies[0]
	assert.Equal(t, "auth-token", c.Name)
	assert.Equal(t, "signed.jwt.token", c.Value)
	assert.True(t, c.HttpOnly)
	assert.True(t, c.Secure)
	assert.Equal(t, http.SameSiteLaxMode, c.SameSite)
	assert.Equal(t, "/", c.Path)
	assert.Equal(t, 7*24*60*60, c.MaxAge)

	b := decode(t, rec)
	assert.Equal(t, "Login successful", b.Message)
	assert.JSONEq(t, `{"id":"u1","name":"","email":"a@example.com","role":"","isVerified":false,"createdAt":"0001-01-01T00:00:00Z"}`, string(b.User))
}

func TestLogin_InvalidCredentials(t *testing.T) {
	h := NewAuthHandler(&fakeAuthUsecase{loginErr: usecase.ErrInvalidCredentials}, validator.NewValidator(), false)

	rec := serve("/api/auth/login", http.MethodPost, h.Login,
		jsonRequest(http.MethodPost, "/api/auth/login", map[string]string{"email": "a@example.com", "password": "nope"}))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Invalid email or password", decode(t, rec).Message)
	assert.Empty(t, rec.Result().Cookies())
}

func TestLogout_ClearsCookie(t *testing.T) {
	h := NewAuthHandler(&fakeAuthUsecase{}, validator.NewValidator(), false)

	rec := serve("/api/auth/logout", http.MethodPost, h.Logout, httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "", cookies[0].Value)
	assert.True(t, cookies[0].MaxAge < 0)
}

func TestSendOTP_ErrorMapping(t *testing.T) {
	h := NewAuthHandler(&fakeAuthUsecase{sendErr: usecase.ErrUserAlreadyExists}, validator.NewValidator(), false)
	rec := serve("/api/auth/sendotp", http.MethodPost, h.SendOTP, jsonRequest(http.MethodPost, "/api/auth/sendotp", map[string]string{"email": "a@example.com"}))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "User already exists", decode(t, rec).Message)

	h = NewAuthHandler(&fakeAuthUsecase{sendErr: errors.Join(usecase.ErrSendOTPFailed, errors.New("smtp"))}, validator.NewValidator(), false)
	rec = serve("/api/auth/sendotp", http.MethodPost, h.SendOTP, jsonRequest(http.MethodPost, "/api/auth/sendotp", map[string]string{"email": "a@example.com"}))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Error sending OTP email", decode(t, rec).Message)
}

// --- crm, audit, health ---

func TestCRMGetAll_QueryID(t *testing.T) {
	uc := &fakeCRMUsecase{}
	h := NewCRMHandler(uc, validator.NewValidator())

	rec := serve("/api/crm", http.MethodGet, h.GetAll, httptest.NewRequest(http.MethodGet, "/api/crm?id=abc", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "abc", uc.gotID)

	rec = serve("/api/crm", http.MethodGet, h.GetAll, httptest.NewRequest(http.MethodGet, "/api/crm?id=bad", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid ID format", decode(t, rec).Message)

	rec = serve("/api/crm", http.MethodGet, h.GetAll, httptest.NewRequest(http.MethodGet, "/api/crm", nil))
	var entries []dto.CRMEntryResponse
	require.NoError(t, json.Unmarshal(decode(t, rec).Data, &entries))
	assert.Len(t, entries, 2)
}

func TestAuditLogs_StorageDisabled(t *testing.T) {
	h := NewAuditLogHandler(fakeAuditLogUsecase{})

	rec := serve("/api/audit-logs", http.MethodGet, h.GetAllAuditLogs, httptest.NewRequest(http.MethodGet, "/api/audit-logs", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "Audit log storage is not configured", decode(t, rec).Message)

	rec = serve("/api/audit-logs/{id}", http.MethodGet, h.GetAuditLog, httptest.NewRequest(http.MethodGet, "/api/audit-logs/x", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHealth(t *testing.T) {
	up := func(context.Context) error { return nil }
	down := func(context.Context) error { return errors.New("unreachable") }

	h := NewHealthHandler(map[string]HealthCheck{"mongo": up, "redis": up})
	rec := serve("/api/health", http.MethodGet, h.Check, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	h = NewHealthHandler(map[string]HealthCheck{"mongo": up, "redis": down})
	rec = serve("/api/health", http.MethodGet, h.Check, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.JSONEq(t, `{"mongo":"up","redis":"down"}`, string(decode(t, rec).Data))
}
