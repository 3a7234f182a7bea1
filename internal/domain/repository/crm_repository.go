package repository

import (
	"context"

	"clinic-booking-service/internal/domain/entity"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type CRMRepository interface {
	Create(ctx context.Context, entry *entity.CRMEntry) error
	FindAll(ctx context.Context) ([]entity.CRMEntry, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*entity.CRMEntry, error)
	Update(ctx context.Context, entry *entity.CRMEntry) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}
