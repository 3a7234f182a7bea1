package dto

import "time"

type CRMEntryRequest struct {
	Name          string `json:"name" validate:"required"`
	Email         string `json:"email" validate:"required,email"`
	Phone         string `json:"phone"`
	Date          string `json:"date"`
	Time          string `json:"time"`
	Message       string `json:"message" validate:"required"`
	CallType      string `json:"callType" validate:"omitempty,oneof=incoming outgoing"`
	FollowUp      string `json:"followUp" validate:"omitempty,oneof=yes no"`
	Status        string `json:"status" validate:"omitempty,oneof=pending contacted completed"`
	CallStatus    string `json:"callStatus"`
	NeedsFollowUp bool   `json:"needsFollowUp"`
	FollowUpDate  string `json:"followUpDate"`
	FollowUpNotes string `json:"followUpNotes"`
}

type CRMEntryResponse struct {
	ID            string    `json:"_id"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	Phone         string    `json:"phone"`
	Date          time.Time `json:"date"`
	Time          string    `json:"time"`
	Message       string    `json:"message"`
	CallType      string    `json:"callType"`
	FollowUp      string    `json:"followUp"`
	Status        string    `json:"status"`
	CallStatus    string    `json:"callStatus,omitempty"`
	NeedsFollowUp bool      `json:"needsFollowUp"`
	FollowUpDate  string    `json:"followUpDate,omitempty"`
	FollowUpNotes string    `json:"followUpNotes,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}
