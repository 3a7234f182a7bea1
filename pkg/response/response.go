package response

import (
	"encoding/json"
	"net/http"
	"sync/atomic"

	"clinic-booking-service/pkg/validator"
)

// exposeErrors controls whether ServerError includes the underlying error text.
var exposeErrors atomic.Bool

// SetExposeErrors turns error detail in 5xx bodies on or off. It is off in production.
func SetExposeErrors(expose bool) {
	exposeErrors.Store(expose)
}

type Response struct {
	Success        bool              `json:"success"`
	Message        string            `json:"message,omitempty"`
	Data           interface{}       `json:"data,omitempty"`
	User           interface{}       `json:"user,omitempty"`
	Error          interface{}       `json:"error,omitempty"`
	Errors         map[string]string `json:"errors,omitempty"`
	RequiredFields []string          `json:"requiredFields,omitempty"`
	Pagination     *Pagination       `json:"pagination,omitempty"`
}

type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
}

func JSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(data)
}

func Success(w http.ResponseWriter, statusCode int, message string, data interface{}) {
	JSON(w, statusCode, Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

func SuccessWithUser(w http.ResponseWriter, statusCode int, message string, user interface{}) {
	JSON(w, statusCode, Response{
		Success: true,
		Message: message,
		User:    user,
	})
}

func SuccessWithPagination(w http.ResponseWriter, statusCode int, data interface{}, pagination *Pagination) {
	JSON(w, statusCode, Response{
		Success:    true,
		Data:       data,
		Pagination: pagination,
	})
}

func Error(w http.ResponseWriter, statusCode int, message string, err interface{}) {
	JSON(w, statusCode, Response{
		Success: false,
		Message: message,
		Error:   err,
	})
}

func ValidationError(w http.ResponseWriter, errs validator.ValidationErrors) {
	JSON(w, http.StatusBadRequest, Response{
		Success:        false,
		Message:        errs.Message,
		Errors:         errs.Details,
		RequiredFields: errs.Fields,
	})
}

func BadRequest(w http.ResponseWriter, message string) {
	Error(w, http.StatusBadRequest, message, nil)
}

func Unauthorized(w http.ResponseWriter, message string) {
	if message == "" {
		message = "Unauthorized"
	}
	Error(w, http.StatusUnauthorized, message, nil)
}

func NotFound(w http.ResponseWriter, message string) {
	if message == "" {
		message = "Resource not found"
	}
	Error(w, http.StatusNotFound, message, nil)
}

func Conflict(w http.ResponseWriter, message string) {
	Error(w, http.StatusConflict, message, nil)
}

func InternalServerError(w http.ResponseWriter, message string) {
	if message == "" {
		message = "Internal server error"
	}
	Error(w, http.StatusInternalServerError, message, nil)
}

// ServerError is InternalServerError carrying err's text outside production.
func ServerError(w http.ResponseWriter, message string, err error) {
	if message == "" {
		message = "Internal server error"
	}
	var detail interface{}
	if err != nil && exposeErrors.Load() {
		detail = err.Error()
	}
	Error(w, http.StatusInternalServerError, message, detail)
}

func ServiceUnavailable(w http.ResponseWriter, message string) {
	Error(w, http.StatusServiceUnavailable, message, nil)
}

func Forbidden(w http.ResponseWriter, message string) {
	if message == "" {
		message = "Forbidden"
	}
	Error(w, http.StatusForbidden, message, nil)
}
