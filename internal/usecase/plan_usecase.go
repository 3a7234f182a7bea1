package usecase

import (
	"context"
	"errors"

	"clinic-booking-service/internal/converter"
	"clinic-booking-service/internal/delivery/dto"
	"clinic-booking-service/internal/delivery/http/middleware"
	"clinic-booking-service/internal/domain/entity"
	"clinic-booking-service/internal/domain/repository"
	"clinic-booking-service/internal/service"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrPlanNotFound  = errors.New("plan not found")
	ErrInvalidPlanID = errors.New("invalid plan id")
)

type PlanUsecase interface {
	Create(ctx context.Context, req *dto.PlanRequest) (*dto.PlanResponse, error)
	GetAll(ctx context.Context) ([]dto.PlanResponse, error)
	GetByID(ctx context.Context, id string) (*dto.PlanResponse, error)
	Update(ctx context.Context, id string, req *dto.PlanRequest) (*dto.PlanResponse, error)
	Delete(ctx context.Context, id string) error
}

type planUsecase struct {
	log          *logrus.Logger
	planRepo     repository.PlanRepository
	auditService service.AuditService
}

func NewPlanUsecase(log *logrus.Logger, planRepo repository.PlanRepository, auditService service.AuditService) PlanUsecase {
	return &planUsecase{log: log, planRepo: planRepo, auditService: auditService}
}

func (u *planUsecase) Create(ctx context.Context, req *dto.PlanRequest) (*dto.PlanResponse, error) {
	plan := &entity.Plan{IsActive: true}
	applyPlanRequest(plan, req)

	if err := u.planRepo.Create(ctx, plan); err != nil {
		u.log.Warnf("Failed to create plan: %+v", err)
		return nil, err
	}

	res := converter.PlanToResponse(plan)
	if err := u.auditService.LogCreate(ctx, middleware.ActorFromContext(ctx), entity.AuditActionPlanCreate, "plan", plan.ID.Hex(), res); err != nil {
		u.log.Warnf("Failed to create audit log: %+v", err)
	}
	return res, nil
}

func (u *planUsecase) GetAll(ctx context.Context) ([]dto.PlanResponse, error) {
	plans, err := u.planRepo.FindAll(ctx)
	if err != nil {
		u.log.Warnf("Failed to find plans: %+v", err)
		return nil, err
	}
	return converter.PlansToResponses(plans), nil
}

func (u *planUsecase) GetByID(ctx context.Context, id string) (*dto.PlanResponse, error) {
	plan, err := u.findPlan(ctx, id)
	if err != nil {
		return nil, err
	}
	return converter.PlanToResponse(plan), nil
}

func (u *planUsecase) Update(ctx context.Context, id string, req *dto.PlanRequest) (*dto.PlanResponse, error) {
	plan, err := u.findPlan(ctx, id)
	if err != nil {
		return nil, err
	}

	oldValue := converter.PlanToResponse(plan)
	applyPlanRequest(plan, req)

	if err := u.planRepo.Update(ctx, plan); err != nil {
		u.log.Warnf("Failed to update plan %s: %+v", id, err)
		return nil, err
	}

	res := converter.PlanToResponse(plan)
	if err := u.auditService.LogUpdate(ctx, middleware.ActorFromContext(ctx), entity.AuditActionPlanUpdate, "plan", id, oldValue, res); err != nil {
		u.log.Warnf("Failed to create audit log: %+v", err)
	}
	return res, nil
}

func (u *planUsecase) Delete(ctx context.Context, id string) error {
	plan, err := u.findPlan(ctx, id)
	if err != nil {
		return err
	}

	if err := u.planRepo.Delete(ctx, plan.ID); err != nil {
		u.log.Warnf("Failed to delete plan %s: %+v", id, err)
		return err
	}

	if err := u.auditService.LogDelete(ctx, middleware.ActorFromContext(ctx), entity.AuditActionPlanDelete, "plan", id, converter.PlanToResponse(plan)); err != nil {
		u.log.Warnf("Failed to create audit log: %+v", err)
	}
	return nil
}

func (u *planUsecase) findPlan(ctx context.Context, id string) (*entity.Plan, error) {
	planID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrInvalidPlanID
	}

	plan, err := u.planRepo.FindByID(ctx, planID)
	if err != nil {
		u.log.Warnf("Failed to find plan %s: %+v", id, err)
		return nil, err
	}
	if plan == nil {
		return nil, ErrPlanNotFound
	}
	return plan, nil
}

func applyPlanRequest(plan *entity.Plan, req *dto.PlanRequest) {
	plan.Name = req.Name
	plan.Description = req.Description
	plan.Price = req.Price
	plan.Duration = req.Duration
	plan.Features = req.Features
	if plan.Features == nil {
		plan.Features = []string{}
	}
	if req.IsActive != nil {
		plan.IsActive = *req.IsActive
	}
}
