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
	ErrContactMessageNotFound  = errors.New("contact message not found")
	ErrInvalidContactMessageID = errors.New("invalid contact message id")
)

type ContactUsecase interface {
	Create(ctx context.Context, req *dto.ContactRequest) (*dto.ContactResponse, error)
	GetAll(ctx context.Context) ([]dto.ContactResponse, error)
}

type contactUsecase struct {
	log         *logrus.Logger
	contactRepo repository.ContactRepository
}

func NewContactUsecase(log *logrus.Logger, contactRepo repository.ContactRepository) ContactUsecase {
	return &contactUsecase{log: log, contactRepo: contactRepo}
}

func (u *contactUsecase) Create(ctx context.Context, req *dto.ContactRequest) (*dto.ContactResponse, error) {
	contact := &entity.Contact{
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Message: req.Message,
	}

	if err := u.contactRepo.Create(ctx, contact); err != nil {
		u.log.Warnf("Failed to create contact: %+v", err)
		return nil, err
	}
	return converter.ContactToResponse(contact), nil
}

func (u *contactUsecase) GetAll(ctx context.Context) ([]dto.ContactResponse, error) {
	contacts, err := u.contactRepo.FindAll(ctx)
	if err != nil {
		u.log.Warnf("Failed to find contacts: %+v", err)
		return nil, err
	}
	return converter.ContactsToResponses(contacts), nil
}

type ContactMessageUsecase interface {
	Create(ctx context.Context, req *dto.ContactMessageRequest) (*dto.ContactMessageResponse, error)
	GetAll(ctx context.Context) ([]dto.ContactMessageResponse, error)
	UpdateStatus(ctx context.Context, id string, req *dto.UpdateContactMessageStatusRequest) (*dto.ContactMessageResponse, error)
}

type contactMessageUsecase struct {
	log          *logrus.Logger
	messageRepo  repository.ContactMessageRepository
	auditService service.AuditService
}

func NewContactMessageUsecase(log *logrus.Logger, messageRepo repository.ContactMessageRepository, auditService service.AuditService) ContactMessageUsecase {
	return &contactMessageUsecase{log: log, messageRepo: messageRepo, auditService: auditService}
}

func (u *contactMessageUsecase) Create(ctx context.Context, req *dto.ContactMessageRequest) (*dto.ContactMessageResponse, error) {
	message := &entity.ContactMessage{
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Message: req.Message,
		Status:  entity.ContactMessageStatusNew,
	}

	if err := u.messageRepo.Create(ctx, message); err != nil {
		u.log.Warnf("Failed to create contact message: %+v", err)
		return nil, err
	}
	return converter.ContactMessageToResponse(message), nil
}

func (u *contactMessageUsecase) GetAll(ctx context.Context) ([]dto.ContactMessageResponse, error) {
	messages, err := u.messageRepo.FindAll(ctx)
	if err != nil {
		u.log.Warnf("Failed to find contact messages: %+v", err)
		return nil, err
	}
	return converter.ContactMessagesToResponses(messages), nil
}

func (u *contactMessageUsecase) UpdateStatus(ctx context.Context, id string, req *dto.UpdateContactMessageStatusRequest) (*dto.ContactMessageResponse, error) {
	messageID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrInvalidContactMessageID
	}

	message, err := u.messageRepo.FindByID(ctx, messageID)
	if err != nil {
		u.log.Warnf("Failed to find contact message %s: %+v", id, err)
		return nil, err
	}
	if message == nil {
		return nil, ErrContactMessageNotFound
	}

	oldStatus := message.Status
	if err := u.messageRepo.UpdateStatus(ctx, messageID, req.Status); err != nil {
		u.log.Warnf("Failed to update contact message %s: %+v", id, err)
		return nil, err
	}
	message.Status = req.Status

	if err := u.auditService.LogUpdate(ctx, middleware.ActorFromContext(ctx), entity.AuditActionContactMessageStatus, "contact_message", id, oldStatus, req.Status); err != nil {
		u.log.Warnf("Failed to create audit log: %+v", err)
	}
	return converter.ContactMessageToResponse(message), nil
}
