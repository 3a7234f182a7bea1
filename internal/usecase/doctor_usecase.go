package usecase

import (
	"context"
	"errors"
	"strings"

	"clinic-booking-service/internal/converter"
	"clinic-booking-service/internal/delivery/dto"
	"clinic-booking-service/internal/delivery/http/middleware"
	"clinic-booking-service/internal/domain/entity"
	"clinic-booking-service/internal/domain/repository"
	"clinic-booking-service/internal/service"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

// availabilityWriteAttempts bounds the optimistic retries of one availability edit
const availabilityWriteAttempts = 3

var (
	ErrDoctorNotFound         = errors.New("doctor not found")
	ErrInvalidDoctorID        = errors.New("invalid doctor id")
	ErrDoctorExists           = errors.New("doctor already exists with this email or phone")
	ErrConcurrentModification = errors.New("doctor was modified concurrently, retry the request")
	ErrAvailableDateNotFound  = entity.ErrAvailableDateNotFound
)

type DoctorUsecase interface {
	Create(ctx context.Context, req *dto.DoctorRequest) (*dto.DoctorResponse, error)
	List(ctx context.Context, email, id, category string) ([]dto.DoctorResponse, error)
	GetByID(ctx context.Context, id string) (*dto.DoctorResponse, error)
	Update(ctx context.Context, id string, req *dto.DoctorRequest) (*dto.DoctorResponse, error)
	Delete(ctx context.Context, id string) error
	AddAvailableDate(ctx context.Context, id, date string) (*dto.DoctorResponse, error)
	RemoveAvailableDate(ctx context.Context, id, date string) (*dto.DoctorResponse, error)
	AddTimeSlot(ctx context.Context, id, date, slot string) (*dto.DoctorResponse, error)
	RemoveTimeSlot(ctx context.Context, id, date, slot string) (*dto.DoctorResponse, error)
}

type doctorUsecase struct {
	log             *logrus.Logger
	doctorRepo      repository.DoctorRepository
	auditService    service.AuditService
	defaultPassword string
}

func NewDoctorUsecase(
	log *logrus.Logger,
	doctorRepo repository.DoctorRepository,
	auditService service.AuditService,
	defaultPassword string,
) DoctorUsecase {
	return &doctorUsecase{
		log:             log,
		doctorRepo:      doctorRepo,
		auditService:    auditService,
		defaultPassword: defaultPassword,
	}
}

func parseDoctorID(id string) (primitive.ObjectID, error) {
	doctorID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, ErrInvalidDoctorID
	}
	return doctorID, nil
}

func (u *doctorUsecase) Create(ctx context.Context, req *dto.DoctorRequest) (*dto.DoctorResponse, error) {
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	exists, err := u.doctorRepo.ExistsByEmailOrPhone(ctx, req.Email, req.Phone, nil)
	if err != nil {
		u.log.Warnf("Failed to check existing doctor: %+v", err)
		return nil, err
	}
	if exists {
		return nil, ErrDoctorExists
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(u.defaultPassword), bcrypt.DefaultCost)
	if err != nil {
		u.log.Warnf("Failed to hash password: %+v", err)
		return nil, err
	}

	doctor := &entity.Doctor{IsActive: true, Password: string(hashedPassword)}
	converter.DoctorRequestToEntity(req, doctor)
	doctor.ApplyDefaults()

	if err := u.doctorRepo.Create(ctx, doctor); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, ErrDoctorExists
		}
		u.log.Warnf("Failed to create doctor: %+v", err)
		return nil, err
	}

	res := converter.DoctorToResponse(doctor)
	if err := u.auditService.LogCreate(ctx, middleware.ActorFromContext(ctx), entity.AuditActionDoctorCreate, "doctor", doctor.ID.Hex(), res); err != nil {
		u.log.Warnf("Failed to create audit log: %+v", err)
	}

	return res, nil
}

// List uses the first non-empty criterion of email, id and category.
func (u *doctorUsecase) List(ctx context.Context, email, id, category string) ([]dto.DoctorResponse, error) {
	filter := entity.DoctorFilter{
		Email:    strings.ToLower(strings.TrimSpace(email)),
		Category: strings.TrimSpace(category),
	}
	if filter.Email == "" && id != "" {
		doctorID, err := parseDoctorID(id)
		if err != nil {
			return nil, err
		}
		filter.ID = &doctorID
	}

	doctors, err := u.doctorRepo.FindAll(ctx, filter)
	if err != nil {
		u.log.Warnf("Failed to find doctors: %+v", err)
		return nil, err
	}

	return converter.DoctorsToResponses(doctors), nil
}

func (u *doctorUsecase) GetByID(ctx context.Context, id string) (*dto.DoctorResponse, error) {
	doctor, err := u.findDoctor(ctx, id)
	if err != nil {
		return nil, err
	}
	return converter.DoctorToResponse(doctor), nil
}

func (u *doctorUsecase) findDoctor(ctx context.Context, id string) (*entity.Doctor, error) {
	doctorID, err := parseDoctorID(id)
	if err != nil {
		return nil, err
	}

	doctor, err := u.doctorRepo.FindByID(ctx, doctorID)
	if err != nil {
		u.log.Warnf("Failed to find doctor %s: %+v", id, err)
		return nil, err
	}
	if doctor == nil {
		return nil, ErrDoctorNotFound
	}
	return doctor, nil
}

// Update replaces every editable field, availability included. Concurrent updates are last write wins.
func (u *doctorUsecase) Update(ctx context.Context, id string, req *dto.DoctorRequest) (*dto.DoctorResponse, error) {
	doctor, err := u.findDoctor(ctx, id)
	if err != nil {
		return nil, err
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	exists, err := u.doctorRepo.ExistsByEmailOrPhone(ctx, req.Email, req.Phone, &doctor.ID)
	if err != nil {
		u.log.Warnf("Failed to check existing doctor: %+v", err)
		return nil, err
	}
	if exists {
		return nil, ErrDoctorExists
	}

	oldValue := converter.DoctorToResponse(doctor)
	converter.DoctorRequestToEntity(req, doctor)
	doctor.ApplyDefaults()

	if err := u.doctorRepo.Update(ctx, doctor); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, ErrDoctorExists
		}
		u.log.Warnf("Failed to update doctor %s: %+v", id, err)
		return nil, err
	}

	res := converter.DoctorToResponse(doctor)
	if err := u.auditService.LogUpdate(ctx, middleware.ActorFromContext(ctx), entity.AuditActionDoctorUpdate, "doctor", id, oldValue, res); err != nil {
		u.log.Warnf("Failed to create audit log: %+v", err)
	}

	return res, nil
}

func (u *doctorUsecase) Delete(ctx context.Context, id string) error {
	doctor, err := u.findDoctor(ctx, id)
	if err != nil {
		return err
	}

	deleted, err := u.doctorRepo.Delete(ctx, doctor.ID)
	if err != nil {
		u.log.Warnf("Failed to delete doctor %s: %+v", id, err)
		return err
	}
	if !deleted {
		return ErrDoctorNotFound
	}

	if err := u.auditService.LogDelete(ctx, middleware.ActorFromContext(ctx), entity.AuditActionDoctorDelete, "doctor", id, converter.DoctorToResponse(doctor)); err != nil {
		u.log.Warnf("Failed to create audit log: %+v", err)
	}

	return nil
}

func (u *doctorUsecase) AddAvailableDate(ctx context.Context, id, date string) (*dto.DoctorResponse, error) {
	return u.editAvailability(ctx, id, func(av *entity.Availability) (bool, error) {
		return av.AddDate(date), nil
	})
}

func (u *doctorUsecase) RemoveAvailableDate(ctx context.Context, id, date string) (*dto.DoctorResponse, error) {
	return u.editAvailability(ctx, id, func(av *entity.Availability) (bool, error) {
		return av.RemoveDate(date), nil
	})
}

func (u *doctorUsecase) AddTimeSlot(ctx context.Context, id, date, slot string) (*dto.DoctorResponse, error) {
	slot = strings.TrimSpace(slot)
	return u.editAvailability(ctx, id, func(av *entity.Availability) (bool, error) {
		return av.AddTimeSlot(date, slot)
	})
}

func (u *doctorUsecase) RemoveTimeSlot(ctx context.Context, id, date, slot string) (*dto.DoctorResponse, error) {
	return u.editAvailability(ctx, id, func(av *entity.Availability) (bool, error) {
		return av.RemoveTimeSlot(date, slot)
	})
}

// editAvailability applies edit to a fresh read of the doctor and writes it back only if no
// other write happened in between. An edit that changes nothing is not written.
func (u *doctorUsecase) editAvailability(ctx context.Context, id string, edit func(*entity.Availability) (bool, error)) (*dto.DoctorResponse, error) {
	for attempt := 1; attempt <= availabilityWriteAttempts; attempt++ {
		doctor, err := u.findDoctor(ctx, id)
		if err != nil {
			return nil, err
		}

		oldValue := converter.AvailabilityToResponse(doctor.AvailableDates)
		changed, err := edit(&doctor.AvailableDates)
		if err != nil {
			return nil, err
		}
		if !changed {
			return converter.DoctorToResponse(doctor), nil
		}

		updatedAt, written, err := u.doctorRepo.ReplaceAvailability(ctx, doctor.ID, doctor.AvailableDates, doctor.UpdatedAt)
		if err != nil {
			u.log.Warnf("Failed to update availability of doctor %s: %+v", id, err)
			return nil, err
		}
		if !written {
			u.log.Debugf("Availability of doctor %s changed underneath, attempt %d", id, attempt)
			continue
		}

		doctor.UpdatedAt = updatedAt
		res := converter.DoctorToResponse(doctor)
		if err := u.auditService.LogUpdate(ctx, middleware.ActorFromContext(ctx), entity.AuditActionAvailabilityUpdate, "doctor", id, oldValue, res.AvailableDates); err != nil {
			u.log.Warnf("Failed to create audit log: %+v", err)
		}
		return res, nil
	}

	return nil, ErrConcurrentModification
}
