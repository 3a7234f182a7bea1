package repository

import (
	"context"
	"time"

	"clinic-booking-service/internal/domain/entity"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type AppointmentRepository interface {
	Create(ctx context.Context, appointment *entity.Appointment) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*entity.Appointment, error)
	FindAll(ctx context.Context, filter entity.AppointmentFilter, limit, offset int) ([]entity.Appointment, int64, error)
	UpdateStatus(ctx context.Context, id primitive.ObjectID, status entity.AppointmentStatus, releaseSlot bool) error
	FindClaimed(ctx context.Context, from time.Time, limit, offset int) ([]entity.Appointment, error)
	EnsureIndexes(ctx context.Context) error
}
