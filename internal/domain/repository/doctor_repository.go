package repository

import (
	"context"
	"time"

	"clinic-booking-service/internal/domain/entity"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type DoctorRepository interface {
	Create(ctx context.Context, doctor *entity.Doctor) error
	ExistsByEmailOrPhone(ctx context.Context, email, phone string, excludeID *primitive.ObjectID) (bool, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*entity.Doctor, error)
	FindAll(ctx context.Context, filter entity.DoctorFilter) ([]entity.Doctor, error)
	Update(ctx context.Context, doctor *entity.Doctor) error
	// ReplaceAvailability writes availability only if the stored updatedAt still equals
	// expectedUpdatedAt and returns the updatedAt it wrote. It reports false when another
	// write got there first.
	ReplaceAvailability(ctx context.Context, id primitive.ObjectID, availability entity.Availability, expectedUpdatedAt time.Time) (time.Time, bool, error)
	Delete(ctx context.Context, id primitive.ObjectID) (bool, error)
	EnsureIndexes(ctx context.Context) error
}
