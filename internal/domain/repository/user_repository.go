package repository

import (
	"context"
	"time"

	"clinic-booking-service/internal/domain/entity"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type UserRepository interface {
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*entity.User, error)
	UpsertPendingOTP(ctx context.Context, email, otp string, expiry time.Time) error
	FindByEmailAndOTP(ctx context.Context, email, otp string, now time.Time) (*entity.User, error)
	CompleteRegistration(ctx context.Context, id primitive.ObjectID, name, passwordHash string) error
	DeleteExpiredPending(ctx context.Context, now time.Time) (int64, error)
	EnsureIndexes(ctx context.Context) error
}
