package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"clinic-booking-service/internal/delivery/dto"
	"clinic-booking-service/internal/domain/entity"
	"clinic-booking-service/internal/service"
	"clinic-booking-service/internal/usecase"
	"clinic-booking-service/pkg/pagination"
	"clinic-booking-service/pkg/response"
	"clinic-booking-service/pkg/validator"

	"github.com/gorilla/mux"
)

type AppointmentHandler struct {
	appointmentUsecase usecase.AppointmentUsecase
	validator          *validator.CustomValidator
}

func NewAppointmentHandler(appointmentUsecase usecase.AppointmentUsecase, validator *validator.CustomValidator) *AppointmentHandler {
	return &AppointmentHandler{
		appointmentUsecase: appointmentUsecase,
		validator:          validator,
	}
}

func (h *AppointmentHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateAppointmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	appointment, err := h.appointmentUsecase.Create(r.Context(), &req)
	if err != nil {
		switch err {
		case entity.ErrInvalidDateTime:
			response.Error(w, http.StatusBadRequest, "Invalid date or time format", nil)
		case usecase.ErrInvalidDoctorID:
			response.Error(w, http.StatusBadRequest, "Invalid doctor ID", nil)
		case usecase.ErrDoctorNotFound:
			response.NotFound(w, "Doctor not found")
		case usecase.ErrSlotNotOffered:
			response.Error(w, http.StatusBadRequest, "Selected time slot is not offered by the doctor", nil)
		case service.ErrSlotTaken:
			response.Conflict(w, "This time slot is already booked")
		default:
			response.ServerError(w, "Failed to create appointment", err)
		}
		return
	}

	response.Success(w, http.StatusCreated, "Appointment created successfully", appointment)
}

func (h *AppointmentHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	limit, _ := strconv.Atoi(q.Get("limit"))
	page, limit, _ = pagination.Normalize(page, limit)

	appointments, total, err := h.appointmentUsecase.List(r.Context(), dto.AppointmentListQuery{
		UserID:      q.Get("userId"),
		DoctorID:    q.Get("doctorId"),
		DoctorEmail: q.Get("doctorEmail"),
		Status:      q.Get("status"),
		StartDate:   q.Get("startDate"),
		EndDate:     q.Get("endDate"),
		Page:        page,
		Limit:       limit,
	})
	if err != nil {
		switch err {
		case usecase.ErrInvalidDoctorID:
			response.Error(w, http.StatusBadRequest, "Invalid doctorId", nil)
		case usecase.ErrInvalidDateRange:
			response.Error(w, http.StatusBadRequest, "Invalid startDate or endDate", nil)
		case usecase.ErrAppointmentScopeEmpty:
			response.Forbidden(w, "Your account cannot list appointments")
		default:
			response.ServerError(w, "Failed to fetch appointments", err)
		}
		return
	}

	response.SuccessWithPagination(w, http.StatusOK, appointments, &response.Pagination{
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: pagination.TotalPages(total, limit),
	})
}

func (h *AppointmentHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req dto.UpdateAppointmentStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	appointment, err := h.appointmentUsecase.UpdateStatus(r.Context(), mux.Vars(r)["id"], &req)
	if err != nil {
		switch err {
		case usecase.ErrInvalidAppointmentID:
			response.Error(w, http.StatusBadRequest, "Invalid appointment ID", nil)
		case usecase.ErrInvalidStatus:
			response.Error(w, http.StatusBadRequest, "Invalid status. Must be one of: pending, confirmed, cancelled, completed", nil)
		case usecase.ErrAppointmentNotFound:
			response.NotFound(w, "Appointment not found")
		case usecase.ErrInvalidTransition:
			response.Conflict(w, "Appointment status cannot change that way")
		default:
			response.ServerError(w, "Failed to update appointment", err)
		}
		return
	}

	response.Success(w, http.StatusOK, "Appointment updated successfully", appointment)
}
