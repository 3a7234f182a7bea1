package usecase

import (
	"context"
	"errors"
	"time"

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
	ErrCRMEntryNotFound = errors.New("entry not found")
	ErrInvalidCRMID     = errors.New("invalid ID format")
	ErrInvalidCRMDate   = errors.New("invalid date format")
)

type CRMUsecase interface {
	Create(ctx context.Context, req *dto.CRMEntryRequest) (*dto.CRMEntryResponse, error)
	GetAll(ctx context.Context) ([]dto.CRMEntryResponse, error)
	GetByID(ctx context.Context, id string) (*dto.CRMEntryResponse, error)
	Update(ctx context.Context, id string, req *dto.CRMEntryRequest) (*dto.CRMEntryResponse, error)
	Delete(ctx context.Context, id string) error
}

type crmUsecase struct {
	log          *logrus.Logger
	crmRepo      repository.CRMRepository
	auditService service.AuditService
	location     *time.Location
}

func NewCRMUsecase(log *logrus.Logger, crmRepo repository.CRMRepository, auditService service.AuditService, location *time.Location) CRMUsecase {
	return &crmUsecase{
		log:          log,
		crmRepo:      crmRepo,
		auditService: auditService,
		location:     location,
	}
}

func (u *crmUsecase) Create(ctx context.Context, req *dto.CRMEntryRequest) (*dto.CRMEntryResponse, error) {
	entry := &entity.CRMEntry{}
	if err := u.applyRequest(entry, req); err != nil {
		return nil, err
	}
	entry.ApplyDefaults(time.Now())

	if err := u.crmRepo.Create(ctx, entry); err != nil {
		u.log.Warnf("Failed to create CRM entry: %+v", err)
		return nil, err
	}

	res := converter.CRMEntryToResponse(entry)
	if err := u.auditService.LogCreate(ctx, middleware.ActorFromContext(ctx), entity.AuditActionCRMCreate, "crm", entry.ID.Hex(), res); err != nil {
		u.log.Warnf("Failed to create audit log: %+v", err)
	}
	return res, nil
}

func (u *crmUsecase) GetAll(ctx context.Context) ([]dto.CRMEntryResponse, error) {
	entries, err := u.crmRepo.FindAll(ctx)
	if err != nil {
		u.log.Warnf("Failed to find CRM entries: %+v", err)
		return nil, err
	}
	return converter.CRMEntriesToResponses(entries), nil
}

func (u *crmUsecase) GetByID(ctx context.Context, id string) (*dto.CRMEntryResponse, error) {
	entry, err := u.findEntry(ctx, id)
	if err != nil {
		return nil, err
	}
	return converter.CRMEntryToResponse(entry), nil
}

func (u *crmUsecase) Update(ctx context.Context, id string, req *dto.CRMEntryRequest) (*dto.CRMEntryResponse, error) {
	entry, err := u.findEntry(ctx, id)
	if err != nil {
		return nil, err
	}

	oldValue := converter.CRMEntryToResponse(entry)
	if err := u.applyRequest(entry, req); err != nil {
		return nil, err
	}
	entry.ApplyDefaults(entry.CreatedAt)

	if err := u.crmRepo.Update(ctx, entry); err != nil {
		u.log.Warnf("Failed to update CRM entry %s: %+v", id, err)
		return nil, err
	}

	res := converter.CRMEntryToResponse(entry)
	if err := u.auditService.LogUpdate(ctx, middleware.ActorFromContext(ctx), entity.AuditActionCRMUpdate, "crm", id, oldValue, res); err != nil {
		u.log.Warnf("Failed to create audit log: %+v", err)
	}
	return res, nil
}

func (u *crmUsecase) Delete(ctx context.Context, id string) error {
	entry, err := u.findEntry(ctx, id)
	if err != nil {
		return err
	}

	if err := u.crmRepo.Delete(ctx, entry.ID); err != nil {
		u.log.Warnf("Failed to delete CRM entry %s: %+v", id, err)
		return err
	}

	if err := u.auditService.LogDelete(ctx, middleware.ActorFromContext(ctx), entity.AuditActionCRMDelete, "crm", id, converter.CRMEntryToResponse(entry)); err != nil {
		u.log.Warnf("Failed to create audit log: %+v", err)
	}
	return nil
}

func (u *crmUsecase) findEntry(ctx context.Context, id string) (*entity.CRMEntry, error) {
	entryID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrInvalidCRMID
	}

	entry, err := u.crmRepo.FindByID(ctx, entryID)
	if err != nil {
		u.log.Warnf("Failed to find CRM entry %s: %+v", id, err)
		return nil, err
	}
	if entry == nil {
		return nil, ErrCRMEntryNotFound
	}
	return entry, nil
}

// applyRequest copies req onto entry. An empty date keeps the entry's current date.
func (u *crmUsecase) applyRequest(entry *entity.CRMEntry, req *dto.CRMEntryRequest) error {
	if req.Date != "" {
		date, err := entity.ParseRangeStart(req.Date, u.location)
		if err != nil {
			return ErrInvalidCRMDate
		}
		entry.Date = date
	}

	entry.Name = req.Name
	entry.Email = req.Email
	entry.Phone = req.Phone
	entry.Time = req.Time
	entry.Message = req.Message
	entry.CallType = req.CallType
	entry.FollowUp = req.FollowUp
	entry.Status = req.Status
	entry.CallStatus = req.CallStatus
	entry.NeedsFollowUp = req.NeedsFollowUp
	entry.FollowUpDate = req.FollowUpDate
	entry.FollowUpNotes = req.FollowUpNotes
	return nil
}
