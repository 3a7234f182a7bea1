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

type DoctorHandler struct {
	doctorUsecase usecase.DoctorUsecase
	validator     *validator.CustomValidator
}

func NewDoctorHandler(doctorUsecase usecase.DoctorUsecase, validator *validator.CustomValidator) *DoctorHandler {
	return &DoctorHandler{
		doctorUsecase: doctorUsecase,
		validator:     validator,
	}
}

func (h *DoctorHandler) CreateDoctor(w http.ResponseWriter, r *http.Request) {
	var req dto.DoctorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	doctor, err := h.doctorUsecase.Create(r.Context(), &req)
	if err != nil {
		switch err {
		case usecase.ErrDoctorExists:
			response.Error(w, http.StatusBadRequest, "Doctor already exists with this email or phone", nil)
		default:
			response.ServerError(w, "Error creating doctor", err)
		}
		return
	}

	response.Success(w, http.StatusCreated, "Doctor created successfully", doctor)
}

// GetAllDoctors filters by email, else id, else category.
func (h *DoctorHandler) GetAllDoctors(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	doctors, err := h.doctorUsecase.List(r.Context(), q.Get("email"), q.Get("id"), q.Get("category"))
	if err != nil {
		switch err {
		case usecase.ErrInvalidDoctorID:
			response.Error(w, http.StatusBadRequest, "Invalid doctor ID", nil)
		default:
			response.ServerError(w, "Error fetching doctors", err)
		}
		return
	}

	response.Success(w, http.StatusOK, "Doctors retrieved successfully", doctors)
}

func (h *DoctorHandler) GetDoctor(w http.ResponseWriter, r *http.Request) {
	doctor, err := h.doctorUsecase.GetByID(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.writeError(w, err, "Error fetching doctor")
		return
	}

	response.Success(w, http.StatusOK, "Doctor retrieved successfully", doctor)
}

func (h *DoctorHandler) UpdateDoctor(w http.ResponseWriter, r *http.Request) {
	var req dto.DoctorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	doctor, err := h.doctorUsecase.Update(r.Context(), mux.Vars(r)["id"], &req)
	if err != nil {
		h.writeError(w, err, "Error updating doctor")
		return
	}

	response.Success(w, http.StatusOK, "Doctor updated successfully", doctor)
}

func (h *DoctorHandler) DeleteDoctor(w http.ResponseWriter, r *http.Request) {
	if err := h.doctorUsecase.Delete(r.Context(), mux.Vars(r)["id"]); err != nil {
		h.writeError(w, err, "Error deleting doctor")
		return
	}

	response.Success(w, http.StatusOK, "Doctor deleted successfully", nil)
}

func (h *DoctorHandler) AddAvailableDate(w http.ResponseWriter, r *http.Request) {
	var req dto.AddAvailableDateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	doctor, err := h.doctorUsecase.AddAvailableDate(r.Context(), mux.Vars(r)["id"], req.Date)
	if err != nil {
		h.writeError(w, err, "Error updating availability")
		return
	}

	response.Success(w, http.StatusOK, "Available date added successfully", doctor)
}

func (h *DoctorHandler) RemoveAvailableDate(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	doctor, err := h.doctorUsecase.RemoveAvailableDate(r.Context(), vars["id"], vars["date"])
	if err != nil {
		h.writeError(w, err, "Error updating availability")
		return
	}

	response.Success(w, http.StatusOK, "Available date removed successfully", doctor)
}

func (h *DoctorHandler) AddTimeSlot(w http.ResponseWriter, r *http.Request) {
	var req dto.AddTimeSlotRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	vars := mux.Vars(r)
	doctor, err := h.doctorUsecase.AddTimeSlot(r.Context(), vars["id"], vars["date"], req.TimeSlot)
	if err != nil {
		h.writeError(w, err, "Error updating availability")
		return
	}

	response.Success(w, http.StatusOK, "Time slot added successfully", doctor)
}

func (h *DoctorHandler) RemoveTimeSlot(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	doctor, err := h.doctorUsecase.RemoveTimeSlot(r.Context(), vars["id"], vars["date"], vars["slot"])
	if err != nil {
		h.writeError(w, err, "Error updating availability")
		return
	}

	response.Success(w, http.StatusOK, "Time slot removed successfully", doctor)
}

func (h *DoctorHandler) writeError(w http.ResponseWriter, err error, fallback string) {
	switch err {
	case usecase.ErrInvalidDoctorID:
		response.Error(w, http.StatusBadRequest, "Invalid doctor ID", nil)
	case usecase.ErrDoctorNotFound:
		response.NotFound(w, "Doctor not found")
	case usecase.ErrDoctorExists:
		response.Error(w, http.StatusBadRequest, "Doctor already exists with this email or phone", nil)
	case usecase.ErrAvailableDateNotFound:
		response.NotFound(w, "Available date not found")
	case usecase.ErrConcurrentModification:
		response.Conflict(w, "Doctor was modified concurrently, please retry")
	default:
		response.ServerError(w, fallback, err)
	}
}
