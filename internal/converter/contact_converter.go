package converter

import (
	"clinic-booking-service/internal/delivery/dto"
	"clinic-booking-service/internal/domain/entity"
)

func ContactToResponse(contact *entity.Contact) *dto.ContactResponse {
	if contact == nil {
		return nil
	}

	return &dto.ContactResponse{
		ID:        contact.ID.Hex(),
		Name:      contact.Name,
		Email:     contact.Email,
		Phone:     contact.Phone,
		Message:   contact.Message,
		CreatedAt: contact.CreatedAt,
	}
}

func ContactsToResponses(contacts []entity.Contact) []dto.ContactResponse {
	responses := make([]dto.ContactResponse, len(contacts))
	for i := range contacts {
		responses[i] = *ContactToResponse(&contacts[i])
	}
	return responses
}

func ContactMessageToResponse(message *entity.ContactMessage) *dto.ContactMessageResponse {
	if message == nil {
		return nil
	}

	return &dto.ContactMessageResponse{
		ID:        message.ID.Hex(),
		Name:      message.Name,
		Email:     message.Email,
		Phone:     message.Phone,
		Message:   message.Message,
		Status:    message.Status,
		CreatedAt: message.CreatedAt,
		UpdatedAt: message.UpdatedAt,
	}
}

func ContactMessagesToResponses(messages []entity.ContactMessage) []dto.ContactMessageResponse {
	responses := make([]dto.ContactMessageResponse, len(messages))
	for i := range messages {
		responses[i] = *ContactMessageToResponse(&messages[i])
	}
	return responses
}
