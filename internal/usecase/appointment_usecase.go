package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"clinic-booking-service/config"
	"clinic-booking-service/internal/converter"
	"clinic-booking-service/internal/delivery/dto"
	"clinic-booking-service/internal/delivery/http/middleware"
	"clinic-booking-service/internal/domain/entity"
	"clinic-booking-service/internal/domain/repository"
	"clinic-booking-service/internal/service"
	"clinic-booking-service/pkg/pagination"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrAppointmentNotFound   = errors.New("appointment not found")
	ErrInvalidAppointmentID  = errors.New("invalid appointment id")
	ErrInvalidStatus         = errors.New("invalid appointment status")
	ErrInvalidTransition     = errors.New("appointment status cannot change that way")
	ErrSlotNotOffered        = errors.New("selected time slot is not offered by the doctor")
	ErrInvalidDateRange      = errors.New("invalid startDate or endDate")
	ErrAppointmentScopeEmpty = errors.New("account has no appointment scope")
)

type AppointmentUsecase interface {
	Create(ctx context.Context, req *dto.CreateAppointmentRequest) (*dto.AppointmentResponse, error)
	List(ctx context.Context, query dto.AppointmentListQuery) ([]dto.AppointmentResponse, int64, error)
	UpdateStatus(ctx context.Context, id string, req *dto.UpdateAppointmentStatusRequest) (*dto.AppointmentResponse, error)
}

type appointmentUsecase struct {
	log              *logrus.Logger
	appointmentRepo  repository.AppointmentRepository
	doctorRepo       repository.DoctorRepository
	slotClaimService *service.SlotClaimService
	auditService     service.AuditService
	slotPolicy       string
	location         *time.Location
}

// NewAppointmentUsecase wires booking. slotClaimService is only used under the strict slot policy and may be nil otherwise.
func NewAppointmentUsecase(
	log *logrus.Logger,
	appointmentRepo repository.AppointmentRepository,
	doctorRepo repository.DoctorRepository,
	slotClaimService *service.SlotClaimService,
	auditService service.AuditService,
	slotPolicy string,
	location *time.Location,
) AppointmentUsecase {
	return &appointmentUsecase{
		log:              log,
		appointmentRepo:  appointmentRepo,
		doctorRepo:       doctorRepo,
		slotClaimService: slotClaimService,
		auditService:     auditService,
		slotPolicy:       slotPolicy,
		location:         location,
	}
}

func (u *appointmentUsecase) strict() bool {
	return u.slotPolicy == config.SlotPolicyStrict
}

// Create books an appointment.
//
// Under the open policy the request is inserted as is and the same slot can be booked twice.
// Under the strict policy:
// 1. The doctor must exist and declare the date and time
// 2. The slot is claimed in Redis with the new appointment id as holder
// 3. The appointment is inserted carrying its slotKey (unique index)
// 4. If the insert fails for any reason but a duplicate slot, the claim is released
func (u *appointmentUsecase) Create(ctx context.Context, req *dto.CreateAppointmentRequest) (*dto.AppointmentResponse, error) {
	at, err := entity.CombineDateTime(req.Date, req.Time, u.location)
	if err != nil {
		return nil, err
	}

	doctorID, err := primitive.ObjectIDFromHex(req.DoctorID)
	if err != nil {
		return nil, ErrInvalidDoctorID
	}

	userID := strings.TrimSpace(req.UserID)
	if userID == "" {
		userID = entity.GuestUserID
	}

	appointment := &entity.Appointment{
		ID:              primitive.NewObjectID(),
		DoctorID:        doctorID,
		DoctorName:      req.DoctorName,
		DoctorEmail:     req.DoctorEmail,
		PatientName:     req.Name,
		PatientEmail:    req.Email,
		PatientPhone:    req.Phone,
		AppointmentDate: at,
		AppointmentType: entity.AppointmentType(req.AppointmentType),
		Gender:          req.Gender,
		Notes:           req.Notes,
		UserID:          userID,
		Status:          entity.AppointmentStatusPending,
	}

	if u.strict() {
		doctor, err := u.doctorRepo.FindByID(ctx, doctorID)
		if err != nil {
			u.log.Warnf("Failed to find doctor %s: %+v", doctorID.Hex(), err)
			return nil, err
		}
		if doctor == nil {
			return nil, ErrDoctorNotFound
		}
		if !doctor.AvailableDates.Offers(req.Date, req.Time) {
			return nil, ErrSlotNotOffered
		}
		if appointment.DoctorEmail == "" {
			appointment.DoctorEmail = doctor.Email
		}

		appointment.SlotKey = entity.SlotKey(doctorID, at)
		if err := u.slotClaimService.Claim(ctx, appointment.SlotKey, appointment.ID.Hex(), at); err != nil {
			return nil, err
		}
	}

	if err := u.appointmentRepo.Create(ctx, appointment); err != nil {
		if u.strict() {
			// Compensate: free our claim, also on a duplicate where Redis had lost the stored holder's key
			if releaseErr := u.slotClaimService.Release(ctx, appointment.SlotKey, appointment.ID.Hex()); releaseErr != nil {
				u.log.Warnf("Failed to release slot %s after insert error: %+v", appointment.SlotKey, releaseErr)
			}
			if errors.Is(err, repository.ErrDuplicateKey) {
				return nil, service.ErrSlotTaken
			}
		}
		u.log.Warnf("Failed to create appointment: %+v", err)
		return nil, err
	}

	res := converter.AppointmentToResponse(appointment)
	if err := u.auditService.LogCreate(ctx, middleware.ActorFromContext(ctx), entity.AuditActionAppointmentCreate, "appointment", appointment.ID.Hex(), res); err != nil {
		u.log.Warnf("Failed to create audit log: %+v", err)
	}

	return res, nil
}

// List applies the caller's role: doctors only see their own appointments and users only their bookings.
func (u *appointmentUsecase) List(ctx context.Context, query dto.AppointmentListQuery) ([]dto.AppointmentResponse, int64, error) {
	filter := entity.AppointmentFilter{
		UserID:      query.UserID,
		DoctorEmail: query.DoctorEmail,
		Status:      entity.AppointmentStatus(query.Status),
	}

	if query.DoctorID != "" {
		doctorID, err := primitive.ObjectIDFromHex(query.DoctorID)
		if err != nil {
			return nil, 0, ErrInvalidDoctorID
		}
		filter.DoctorID = &doctorID
	}
	if query.StartDate != "" {
		from, err := entity.ParseRangeStart(query.StartDate, u.location)
		if err != nil {
			return nil, 0, ErrInvalidDateRange
		}
		filter.From = &from
	}
	if query.EndDate != "" {
		to, err := entity.ParseRangeEnd(query.EndDate, u.location)
		if err != nil {
			return nil, 0, ErrInvalidDateRange
		}
		filter.To = &to
	}

	role, _ := middleware.GetUserRoleFromContext(ctx)
	switch role {
	case entity.RoleAdmin:
	case entity.RoleDoctor:
		email, ok := middleware.GetUserEmailFromContext(ctx)
		if !ok || email == "" {
			return nil, 0, ErrAppointmentScopeEmpty
		}
		filter.DoctorEmail = email
	default:
		userID, ok := middleware.GetUserIDFromContext(ctx)
		if !ok {
			return nil, 0, ErrAppointmentScopeEmpty
		}
		filter.UserID = userID
	}

	_, limit, offset := pagination.Normalize(query.Page, query.Limit)

	appointments, total, err := u.appointmentRepo.FindAll(ctx, filter, limit, offset)
	if err != nil {
		u.log.Warnf("Failed to find appointments: %+v", err)
		return nil, 0, err
	}

	return converter.AppointmentsToResponses(appointments), total, nil
}

// UpdateStatus moves an appointment along its lifecycle. Leaving the active states frees its slot claim.
func (u *appointmentUsecase) UpdateStatus(ctx context.Context, id string, req *dto.UpdateAppointmentStatusRequest) (*dto.AppointmentResponse, error) {
	appointmentID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrInvalidAppointmentID
	}

	next := entity.AppointmentStatus(req.Status)
	if !next.IsValid() {
		return nil, ErrInvalidStatus
	}

	appointment, err := u.appointmentRepo.FindByID(ctx, appointmentID)
	if err != nil {
		u.log.Warnf("Failed to find appointment %s: %+v", id, err)
		return nil, err
	}
	if appointment == nil {
		return nil, ErrAppointmentNotFound
	}

	if appointment.Status == next {
		return converter.AppointmentToResponse(appointment), nil
	}
	if !appointment.Status.CanTransitionTo(next) {
		return nil, ErrInvalidTransition
	}

	oldValue := converter.AppointmentToResponse(appointment)
	releaseSlot := appointment.SlotKey != "" && next == entity.AppointmentStatusCancelled

	if err := u.appointmentRepo.UpdateStatus(ctx, appointmentID, next, releaseSlot); err != nil {
		u.log.Warnf("Failed to update appointment %s: %+v", id, err)
		return nil, err
	}

	if releaseSlot && u.slotClaimService != nil {
		if err := u.slotClaimService.Release(ctx, appointment.SlotKey, appointment.ID.Hex()); err != nil {
			u.log.Warnf("Failed to release slot %s: %+v", appointment.SlotKey, err)
		}
		appointment.SlotKey = ""
	}

	appointment.Status = next
	appointment.UpdatedAt = time.Now()
	res := converter.AppointmentToResponse(appointment)

	if err := u.auditService.LogUpdate(ctx, middleware.ActorFromContext(ctx), entity.AuditActionAppointmentStatus, "appointment", id, oldValue, res); err != nil {
		u.log.Warnf("Failed to create audit log: %+v", err)
	}

	return res, nil
}
