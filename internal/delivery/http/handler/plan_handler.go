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

type PlanHandler struct {
	planUsecase usecase.PlanUsecase
	validator   *validator.CustomValidator
}

func NewPlanHandler(planUsecase usecase.PlanUsecase, validator *validator.CustomValidator) *PlanHandler {
	return &PlanHandler{
		planUsecase: planUsecase,
		validator:   validator,
	}
}

// Create handles plan creation
// @Summary Create a subscription plan
// @Tags Plans
// @Accept json
// @Produce json
// @Param request body dto.PlanRequest true "Plan"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /plans [post]
func (h *PlanHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.PlanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	plan, err := h.planUsecase.Create(r.Context(), &req)
	if err != nil {
		response.ServerError(w, "Error creating plan", err)
		return
	}

	response.Success(w, http.StatusCreated, "Plan created successfully", plan)
}

// GetAll handles listing plans
// @Summary List subscription plans, newest first
// @Tags Plans
// @Produce json
// @Success 200 {object} response.Response
// @Router /plans [get]
func (h *PlanHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	plans, err := h.planUsecase.GetAll(r.Context())
	if err != nil {
		response.ServerError(w, "Error fetching plans", err)
		return
	}

	response.Success(w, http.StatusOK, "Plans retrieved successfully", plans)
}

// GetByID handles getting a plan by ID
// @Summary Get plan by ID
// @Tags Plans
// @Produce json
// @Param id path string true "Plan ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /plans/{id} [get]
func (h *PlanHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	plan, err := h.planUsecase.GetByID(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writePlanError(w, err, "Error fetching plan")
		return
	}

	response.Success(w, http.StatusOK, "Plan retrieved successfully", plan)
}

// Update handles plan update
// @Summary Update a plan
// @Tags Plans
// @Accept json
// @Produce json
// @Param id path string true "Plan ID"
// @Param request body dto.PlanRequest true "Plan"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /plans/{id} [put]
func (h *PlanHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req dto.PlanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	plan, err := h.planUsecase.Update(r.Context(), mux.Vars(r)["id"], &req)
	if err != nil {
		writePlanError(w, err, "Error updating plan")
		return
	}

	response.Success(w, http.StatusOK, "Plan updated successfully", plan)
}

// Delete handles plan deletion
// @Summary Delete a plan
// @Tags Plans
// @Produce json
// @Param id path string true "Plan ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /plans/{id} [delete]
func (h *PlanHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.planUsecase.Delete(r.Context(), mux.Vars(r)["id"]); err != nil {
		writePlanError(w, err, "Error deleting plan")
		return
	}

	response.Success(w, http.StatusOK, "Plan deleted successfully", nil)
}

func writePlanError(w http.ResponseWriter, err error, fallback string) {
	switch err {
	case usecase.ErrInvalidPlanID:
		response.Error(w, http.StatusBadRequest, "Invalid plan ID", nil)
	case usecase.ErrPlanNotFound:
		response.NotFound(w, "Plan not found")
	default:
		response.ServerError(w, fallback, err)
	}
}
