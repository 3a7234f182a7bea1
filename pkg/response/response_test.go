package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"clinic-booking-service/pkg/validator"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestSuccessWithPagination_EmptySliceIsKept(t *testing.T) {
	rec := httptest.NewRecorder()
	SuccessWithPagination(rec, http.StatusOK, []string{}, &Pagination{Page: 3, Limit: 10, Total: 12, TotalPages: 2})

	body := decode(t, rec)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []interface{}{}, body["data"])
	assert.Equal(t, float64(2), body["pagination"].(map[string]interface{})["totalPages"])
}

func TestValidationError(t *testing.T) {
	rec := httptest.NewRecorder()
	ValidationError(rec, validator.ValidationErrors{
		Message: validator.MessageMissingFields,
		Fields:  []string{"email", "name"},
		Details: map[string]string{"email": "email is required", "name": "name is required"},
	})

	body := decode(t, rec)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "Missing required fields", body["message"])
	assert.Equal(t, []interface{}{"email", "name"}, body["requiredFields"])
}

func TestServerError_DetailToggle(t *testing.T) {
	t.Cleanup(func() { SetExposeErrors(false) })

	SetExposeErrors(false)
	rec := httptest.NewRecorder()
	ServerError(rec, "", errors.New("connection refused"))
	body := decode(t, rec)
	assert.Equal(t, "Internal server error", body["message"])
	assert.NotContains(t, body, "error")

	SetExposeErrors(true)
	rec = httptest.NewRecorder()
	ServerError(rec, "Failed to fetch doctors", errors.New("connection refused"))
	body = decode(t, rec)
	assert.Equal(t, "connection refused", body["error"])
}
