package usecase

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"clinic-booking-service/internal/converter"
	"clinic-booking-service/internal/delivery/dto"
	"clinic-booking-service/internal/delivery/http/middleware"
	"clinic-booking-service/internal/domain/entity"
	"clinic-booking-service/internal/domain/repository"
	"clinic-booking-service/internal/service"
	"clinic-booking-service/pkg/jwt"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrUserAlreadyExists  = errors.New("user already exists")
	ErrInvalidOTP         = errors.New("invalid or expired OTP")
	ErrSendOTPFailed      = errors.New("failed to send OTP")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserNotFound       = errors.New("user not found")
)

type AuthUsecase interface {
	SendOTP(ctx context.Context, req *dto.SendOTPRequest) error
	Register(ctx context.Context, req *dto.RegisterRequest) (*dto.UserResponse, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResult, error)
	Logout(ctx context.Context) error
	GetCurrentUser(ctx context.Context) (*dto.UserResponse, error)
	PurgeExpiredRegistrations(ctx context.Context) (int64, error)
}

type authUsecase struct {
	log          *logrus.Logger
	userRepo     repository.UserRepository
	jwtService   *jwt.JWTService
	redisClient  *redis.Client
	mailer       service.Mailer
	auditService service.AuditService
	otpExpiry    time.Duration
	now          func() time.Time
}

func NewAuthUsecase(
	log *logrus.Logger,
	userRepo repository.UserRepository,
	jwtService *jwt.JWTService,
	redisClient *redis.Client,
	mailer service.Mailer,
	auditService service.AuditService,
	otpExpiry time.Duration,
) AuthUsecase {
	return &authUsecase{
		log:          log,
		userRepo:     userRepo,
		jwtService:   jwtService,
		redisClient:  redisClient,
		mailer:       mailer,
		auditService: auditService,
		otpExpiry:    otpExpiry,
		now:          time.Now,
	}
}

// generateOTP returns a uniformly random six digit code.
func generateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}

// SendOTP issues a fresh code for email. Resending replaces the previous code
// until the address belongs to a verified account.
func (u *authUsecase) SendOTP(ctx context.Context, req *dto.SendOTPRequest) error {
	user, err := u.userRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		u.log.Warnf("Failed to find user by email: %+v", err)
		return err
	}
	if user != nil && user.IsVerified {
		return ErrUserAlreadyExists
	}

	otp, err := generateOTP()
	if err != nil {
		u.log.Warnf("Failed to generate OTP: %+v", err)
		return err
	}

	if err := u.userRepo.UpsertPendingOTP(ctx, req.Email, otp, u.now().Add(u.otpExpiry)); err != nil {
		u.log.Warnf("Failed to store OTP: %+v", err)
		return err
	}

	if err := u.mailer.Send(ctx, service.OTPMessage(req.Email, otp, u.otpExpiry)); err != nil {
		u.log.Warnf("Failed to send OTP email: %+v", err)
		return fmt.Errorf("%w: %v", ErrSendOTPFailed, err)
	}

	return nil
}

func (u *authUsecase) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.UserResponse, error) {
	user, err := u.userRepo.FindByEmailAndOTP(ctx, req.Email, req.OTP, u.now())
	if err != nil {
		u.log.Warnf("Failed to find pending user: %+v", err)
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidOTP
	}
	if user.IsVerified {
		return nil, ErrUserAlreadyExists
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		u.log.Warnf("Failed to hash password: %+v", err)
		return nil, err
	}

	if err := u.userRepo.CompleteRegistration(ctx, user.ID, req.Name, string(hashedPassword)); err != nil {
		u.log.Warnf("Failed to complete registration: %+v", err)
		return nil, err
	}

	user.Name = req.Name
	user.IsVerified = true
	user.OTP = ""
	user.OTPExpiry = nil
	if user.Role == "" {
		user.Role = entity.RoleUser
	}

	res := converter.UserToResponse(user)
	userID := user.ID.Hex()
	if err := u.auditService.LogCreate(ctx, &userID, entity.AuditActionUserRegister, "user", userID, res); err != nil {
		u.log.Warnf("Failed to create audit log: %+v", err)
	}

	return res, nil
}

func (u *authUsecase) Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResult, error) {
	user, err := u.userRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		u.log.Warnf("Failed to find user by email: %+v", err)
		return nil, err
	}
	if user == nil || user.Password == "" {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	role := user.Role
	if role == "" {
		role = entity.RoleUser
	}
	userID := user.ID.Hex()

	token, tokenID, err := u.jwtService.GenerateToken(userID, user.Email, role)
	if err != nil {
		u.log.Warnf("Failed to generate token: %+v", err)
		return nil, err
	}

	// Store session in Redis so logout can revoke it
	if err := u.redisClient.Set(ctx, jwt.SessionKey(userID, tokenID), "valid", u.jwtService.GetExpiry()).Err(); err != nil {
		u.log.Warnf("Failed to store token in Redis: %+v", err)
		return nil, err
	}

	if err := u.auditService.LogCreate(ctx, &userID, entity.AuditActionUserLogin, "session", tokenID, nil); err != nil {
		u.log.Warnf("Failed to create audit log: %+v", err)
	}

	return &dto.LoginResult{
		Token:     token,
		ExpiresIn: u.jwtService.GetExpiry(),
		User:      converter.UserToResponse(user),
	}, nil
}

func (u *authUsecase) Logout(ctx context.Context) error {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return ErrUserNotFound
	}
	tokenID, _ := middleware.GetTokenIDFromContext(ctx)

	if err := u.redisClient.Del(ctx, jwt.SessionKey(userID, tokenID)).Err(); err != nil {
		u.log.Warnf("Failed to revoke token: %+v", err)
		return err
	}

	if err := u.auditService.LogDelete(ctx, &userID, entity.AuditActionUserLogout, "session", tokenID, nil); err != nil {
		u.log.Warnf("Failed to create audit log: %+v", err)
	}

	return nil
}

func (u *authUsecase) GetCurrentUser(ctx context.Context) (*dto.UserResponse, error) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return nil, ErrUserNotFound
	}

	id, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, ErrUserNotFound
	}

	user, err := u.userRepo.FindByID(ctx, id)
	if err != nil {
		u.log.Warnf("Failed to find user %s: %+v", userID, err)
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	return converter.UserToResponse(user), nil
}

// PurgeExpiredRegistrations drops pending sign-ups whose code has expired.
func (u *authUsecase) PurgeExpiredRegistrations(ctx context.Context) (int64, error) {
	deleted, err := u.userRepo.DeleteExpiredPending(ctx, u.now())
	if err != nil {
		u.log.Warnf("Failed to purge expired registrations: %+v", err)
		return 0, err
	}
	if deleted > 0 {
		u.log.Infof("Purged %d expired registrations", deleted)
	}
	return deleted, nil
}
