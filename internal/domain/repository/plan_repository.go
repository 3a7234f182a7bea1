package repository

import (
	"context"

	"clinic-booking-service/internal/domain/entity"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type PlanRepository interface {
	Create(ctx context.Context, plan *entity.Plan) error
	FindAll(ctx context.Context) ([]entity.Plan, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*entity.Plan, error)
	Update(ctx context.Context, plan *entity.Plan) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}
