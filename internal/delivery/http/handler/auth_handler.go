package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"clinic-booking-service/internal/delivery/dto"
	"clinic-booking-service/internal/delivery/http/middleware"
	"clinic-booking-service/internal/usecase"
	"clinic-booking-service/pkg/response"
	"clinic-booking-service/pkg/validator"
)

type AuthHandler struct {
	authUsecase  usecase.AuthUsecase
	validator    *validator.CustomValidator
	secureCookie bool
}

// NewAuthHandler builds the auth endpoints. secureCookie marks the session cookie Secure, which production requires.
func NewAuthHandler(authUsecase usecase.AuthUsecase, validator *validator.CustomValidator, secureCookie bool) *AuthHandler {
	return &AuthHandler{
		authUsecase:  authUsecase,
		validator:    validator,
		secureCookie: secureCookie,
	}
}

func (h *AuthHandler) SendOTP(w http.ResponseWriter, r *http.Request) {
	var req dto.SendOTPRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	if err := h.authUsecase.SendOTP(r.Context(), &req); err != nil {
		switch {
		case errors.Is(err, usecase.ErrUserAlreadyExists):
			response.Error(w, http.StatusBadRequest, "User already exists", nil)
		case errors.Is(err, usecase.ErrSendOTPFailed):
			response.ServerError(w, "Error sending OTP email", err)
		default:
			response.ServerError(w, "Internal server error", err)
		}
		return
	}

	response.Success(w, http.StatusOK, "OTP sent successfully", nil)
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	user, err := h.authUsecase.Register(r.Context(), &req)
	if err != nil {
		switch err {
		case usecase.ErrInvalidOTP:
			response.Error(w, http.StatusBadRequest, "Invalid or expired OTP", nil)
		case usecase.ErrUserAlreadyExists:
			response.Error(w, http.StatusBadRequest, "User already exists", nil)
		default:
			response.ServerError(w, "Internal server error", err)
		}
		return
	}

	response.SuccessWithUser(w, http.StatusCreated, "Registration successful", user)
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	result, err := h.authUsecase.Login(r.Context(), &req)
	if err != nil {
		switch err {
		case usecase.ErrInvalidCredentials:
			response.Unauthorized(w, "Invalid email or password")
		default:
			response.ServerError(w, "An error occurred during login. Please try again later.", err)
		}
		return
	}

	http.SetCookie(w, h.sessionCookie(result.Token, result.ExpiresIn))
	response.SuccessWithUser(w, http.StatusOK, "Login successful", result.User)
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.authUsecase.Logout(r.Context()); err != nil {
		switch err {
		case usecase.ErrUserNotFound:
			response.Unauthorized(w, "Invalid token")
		default:
			response.ServerError(w, "Failed to logout", err)
		}
		return
	}

	http.SetCookie(w, h.sessionCookie("", -1))
	response.Success(w, http.StatusOK, "Logout successful", nil)
}

func (h *AuthHandler) GetCurrentUser(w http.ResponseWriter, r *http.Request) {
	user, err := h.authUsecase.GetCurrentUser(r.Context())
	if err != nil {
		switch err {
		case usecase.ErrUserNotFound:
			response.NotFound(w, "User not found")
		default:
			response.ServerError(w, "An error occurred while fetching user data", err)
		}
		return
	}

	response.SuccessWithUser(w, http.StatusOK, "", user)
}

// sessionCookie builds the auth cookie. A negative maxAge deletes it.
func (h *AuthHandler) sessionCookie(token string, maxAge time.Duration) *http.Cookie {
	cookie := &http.Cookie{
		Name:     middleware.AuthCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(maxAge.Seconds()),
	}
	if maxAge < 0 {
		cookie.MaxAge = -1
	}
	return cookie
}
