package repository

import (
	"context"

	"clinic-booking-service/internal/domain/entity"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ContactRepository interface {
	Create(ctx context.Context, contact *entity.Contact) error
	FindAll(ctx context.Context) ([]entity.Contact, error)
}

type ContactMessageRepository interface {
	Create(ctx context.Context, message *entity.ContactMessage) error
	FindAll(ctx context.Context) ([]entity.ContactMessage, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*entity.ContactMessage, error)
	UpdateStatus(ctx context.Context, id primitive.ObjectID, status string) error
}
