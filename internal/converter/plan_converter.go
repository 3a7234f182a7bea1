package converter

import (
	"clinic-booking-service/internal/delivery/dto"
	"clinic-booking-service/internal/domain/entity"
)

func PlanToResponse(plan *entity.Plan) *dto.PlanResponse {
	if plan == nil {
		return nil
	}

	features := plan.Features
	if features == nil {
		features = []string{}
	}

	return &dto.PlanResponse{
		ID:          plan.ID.Hex(),
		Name:        plan.Name,
		Description: plan.Description,
		Price:       plan.Price,
		Duration:    plan.Duration,
		Features:    features,
		IsActive:    plan.IsActive,
		CreatedAt:   plan.CreatedAt,
		UpdatedAt:   plan.UpdatedAt,
	}
}

func PlansToResponses(plans []entity.Plan) []dto.PlanResponse {
	responses := make([]dto.PlanResponse, len(plans))
	for i := range plans {
		responses[i] = *PlanToResponse(&plans[i])
	}
	return responses
}
