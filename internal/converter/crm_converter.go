package converter

import (
	"clinic-booking-service/internal/delivery/dto"
	"clinic-booking-service/internal/domain/entity"
)

func CRMEntryToResponse(entry *entity.CRMEntry) *dto.CRMEntryResponse {
	if entry == nil {
		return nil
	}

	return &dto.CRMEntryResponse{
		ID:            entry.ID.Hex(),
		Name:          entry.Name,
		Email:         entry.Email,
		Phone:         entry.Phone,
		Date:          entry.Date,
		Time:          entry.Time,
		Message:       entry.Message,
		CallType:      entry.CallType,
		FollowUp:      entry.FollowUp,
		Status:        entry.Status,
		CallStatus:    entry.CallStatus,
		NeedsFollowUp: entry.NeedsFollowUp,
		FollowUpDate:  entry.FollowUpDate,
		FollowUpNotes: entry.FollowUpNotes,
		CreatedAt:     entry.CreatedAt,
		UpdatedAt:     entry.UpdatedAt,
	}
}

func CRMEntriesToResponses(entries []entity.CRMEntry) []dto.CRMEntryResponse {
	responses := make([]dto.CRMEntryResponse, len(entries))
	for i := range entries {
		responses[i] = *CRMEntryToResponse(&entries[i])
	}
	return responses
}
