package handler

import (
	"encoding/json"
	"net/http"

	"clinic-booking-service/internal/delivery/dto"
	"clinic-booking-service/internal/usecase"
	"clinic-booking-service/pkg/response"
	"clinic-booking-service/pkg/validator"

	"github.com/gorilla/mux"
)

type CRMHandler struct {
	crmUsecase usecase.CRMUsecase
	validator  *validator.CustomValidator
}

func NewCRMHandler(crmUsecase usecase.CRMUsecase, validator *validator.CustomValidator) *CRMHandler {
	return &CRMHandler{
		crmUsecase: crmUsecase,
		validator:  validator,
	}
}

// entryID reads the id from the path, falling back to the ?id= query parameter.
func entryID(r *http.Request) string {
	if id := mux.Vars(r)["id"]; id != "" {
		return id
	}
	return r.URL.Query().Get("id")
}

// GetAll returns every entry, or the single entry named by ?id=.
func (h *CRMHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("id") != "" {
		h.GetByID(w, r)
		return
	}

	entries, err := h.crmUsecase.GetAll(r.Context())
	if err != nil {
		response.ServerError(w, "Failed to fetch CRM entries", err)
		return
	}

	response.Success(w, http.StatusOK, "", entries)
}

func (h *CRMHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	entry, err := h.crmUsecase.GetByID(r.Context(), entryID(r))
	if err != nil {
		writeCRMError(w, err, "Error fetching entry")
		return
	}

	response.Success(w, http.StatusOK, "", entry)
}

func (h *CRMHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CRMEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	entry, err := h.crmUsecase.Create(r.Context(), &req)
	if err != nil {
		writeCRMError(w, err, "Failed to create CRM entry")
		return
	}

	response.Success(w, http.StatusCreated, "Entry created successfully", entry)
}

func (h *CRMHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req dto.CRMEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	entry, err := h.crmUsecase.Update(r.Context(), entryID(r), &req)
	if err != nil {
		writeCRMError(w, err, "Error updating entry")
		return
	}

	response.Success(w, http.StatusOK, "Entry updated successfully", entry)
}

func (h *CRMHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.crmUsecase.Delete(r.Context(), entryID(r)); err != nil {
		writeCRMError(w, err, "Error deleting entry")
		return
	}

	response.Success(w, http.StatusOK, "Entry deleted successfully", nil)
}

func writeCRMError(w http.ResponseWriter, err error, fallback string) {
	switch err {
	case usecase.ErrInvalidCRMID:
		response.Error(w, http.StatusBadRequest, "Invalid ID format", nil)
	case usecase.ErrCRMEntryNotFound:
		response.NotFound(w, "Entry not found")
	case usecase.ErrInvalidCRMDate:
		response.Error(w, http.StatusBadRequest, "Invalid date format", nil)
	default:
		response.ServerError(w, fallback, err)
	}
}
