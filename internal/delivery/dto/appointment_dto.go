package dto

import "time"

// Request DTOs

type CreateAppointmentRequest struct {
	Name            string `json:"name" validate:"required"`
	Email           string `json:"email" validate:"required,email"`
	Phone           string `json:"phone" validate:"required"`
	Gender          string `json:"gender" validate:"required,oneof=male female other"`
	AppointmentType string `json:"appointmentType" validate:"required,oneof=online offline"`
	Date            string `json:"date" validate:"required,calendardate"`
	Time            string `json:"time" validate:"required,clocktime"`
	DoctorID        string `json:"doctorId" validate:"required,mongodb"`
	DoctorName      string `json:"doctorName" validate:"required"`
	DoctorEmail     string `json:"doctorEmail"`
	Notes           string `json:"notes"`
	UserID          string `json:"userId"`
}

type UpdateAppointmentStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending confirmed cancelled completed"`
}

// AppointmentListQuery carries the raw query string values of GET /api/appointments.
type AppointmentListQuery struct {
	UserID      string
	DoctorID    string
	DoctorEmail string
	Status      string
	StartDate   string
	EndDate     string
	Page        int
	Limit       int
}

// Response DTOs

type AppointmentResponse struct {
	ID              string    `json:"_id"`
	DoctorID        string    `json:"doctorId"`
	DoctorName      string    `json:"doctorName"`
	DoctorEmail     string    `json:"doctorEmail,omitempty"`
	PatientName     string    `json:"patientName"`
	PatientEmail    string    `json:"patientEmail"`
	PatientPhone    string    `json:"patientPhone"`
	AppointmentDate time.Time `json:"appointmentDate"`
	AppointmentType string    `json:"appointmentType"`
	Gender          string    `json:"gender"`
	Notes           string    `json:"notes"`
	UserID          string    `json:"userId"`
	Status          string    `json:"status"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}
