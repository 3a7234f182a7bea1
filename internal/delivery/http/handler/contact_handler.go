package handler

import (
	"encoding/json"
	"net/http"

	"clinic-booking-service/internal/delivery/dto"
	"clinic-booking-service/internal/usecase"
	"clinic-booking-service/pkg/response"
	"clinic-booking-service/pkg/validator"

	"github.com/gorilla/mux"
)

type ContactHandler struct {
	contactUsecase usecase.ContactUsecase
	messageUsecase usecase.ContactMessageUsecase
	validator      *validator.CustomValidator
}

func NewContactHandler(contactUsecase usecase.ContactUsecase, messageUsecase usecase.ContactMessageUsecase, validator *validator.CustomValidator) *ContactHandler {
	return &ContactHandler{
		contactUsecase: contactUsecase,
		messageUsecase: messageUsecase,
		validator:      validator,
	}
}

func (h *ContactHandler) SubmitContact(w http.ResponseWriter, r *http.Request) {
	var req dto.ContactRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	contact, err := h.contactUsecase.Create(r.Context(), &req)
	if err != nil {
		response.ServerError(w, "Failed to save contact", err)
		return
	}

	response.Success(w, http.StatusCreated, "Contact form submitted successfully", contact)
}

func (h *ContactHandler) GetContacts(w http.ResponseWriter, r *http.Request) {
	contacts, err := h.contactUsecase.GetAll(r.Context())
	if err != nil {
		response.ServerError(w, "Failed to fetch contacts", err)
		return
	}

	response.Success(w, http.StatusOK, "", contacts)
}

func (h *ContactHandler) SubmitMessage(w http.ResponseWriter, r *http.Request) {
	var req dto.ContactMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	message, err := h.messageUsecase.Create(r.Context(), &req)
	if err != nil {
		response.ServerError(w, "Error creating contact message", err)
		return
	}

	response.Success(w, http.StatusCreated, "Message sent successfully", message)
}

func (h *ContactHandler) GetMessages(w http.ResponseWriter, r *http.Request) {
	messages, err := h.messageUsecase.GetAll(r.Context())
	if err != nil {
		response.ServerError(w, "Error fetching contact messages", err)
		return
	}

	response.Success(w, http.StatusOK, "", messages)
}

func (h *ContactHandler) UpdateMessageStatus(w http.ResponseWriter, r *http.Request) {
	var req dto.UpdateContactMessageStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid status. Must be one of: new, in_progress, resolved", nil)
		return
	}

	message, err := h.messageUsecase.UpdateStatus(r.Context(), mux.Vars(r)["id"], &req)
	if err != nil {
		switch err {
		case usecase.ErrInvalidContactMessageID:
			response.Error(w, http.StatusBadRequest, "Invalid message ID format", nil)
		case usecase.ErrContactMessageNotFound:
			response.NotFound(w, "Message not found")
		default:
			response.ServerError(w, "Error updating contact message", err)
		}
		return
	}

	response.Success(w, http.StatusOK, "Message status updated", message)
}
