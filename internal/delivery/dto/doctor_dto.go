package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// Request DTOs

type AvailableDateRequest struct {
	Date      string   `json:"date" validate:"required,calendardate"`
	TimeSlots []string `json:"timeSlots" validate:"dive,required"`
}

// DoctorRequest is the body of both POST /api/doctors and PUT /api/doctors/{id}.
type DoctorRequest struct {
	Name               string                 `json:"name" validate:"required"`
	Email              string                 `json:"email" validate:"required,email"`
	Phone              string                 `json:"phone" validate:"required"`
	Address            string                 `json:"address" validate:"required"`
	Experience         int                    `json:"experience" validate:"gte=0"`
	Category           string                 `json:"category"`
	Specialization     string                 `json:"specialization"`
	Price              decimal.Decimal        `json:"price"`
	ConsultationFee    decimal.Decimal        `json:"consultationFee"`
	Image              string                 `json:"image"`
	ClinicName         string                 `json:"clinicName"`
	Degree             string                 `json:"degree"`
	RegistrationAgency string                 `json:"registrationAgency"`
	RegistrationNumber string                 `json:"registrationNumber"`
	IsVerified         *bool                  `json:"isVerified"`
	IsActive           *bool                  `json:"isActive"`
	AvailableDates     []AvailableDateRequest `json:"availableDates" validate:"dive"`
}

type AddAvailableDateRequest struct {
	Date string `json:"date" validate:"required,calendardate"`
}

type AddTimeSlotRequest struct {
	TimeSlot string `json:"timeSlot" validate:"required"`
}

// Response DTOs

type AvailableDateResponse struct {
	Date      string   `json:"date"`
	TimeSlots []string `json:"timeSlots"`
}

type DoctorResponse struct {
	ID                 string                  `json:"_id"`
	Name               string                  `json:"name"`
	Email              string                  `json:"email"`
	Phone              string                  `json:"phone"`
	Address            string                  `json:"address"`
	Experience         int                     `json:"experience"`
	Category           string                  `json:"category"`
	Specialization     string                  `json:"specialization"`
	Price              decimal.Decimal         `json:"price"`
	ConsultationFee    decimal.Decimal         `json:"consultationFee"`
	Image              string                  `json:"image,omitempty"`
	ClinicName         string                  `json:"clinicName,omitempty"`
	Degree             string                  `json:"degree,omitempty"`
	RegistrationAgency string                  `json:"registrationAgency,omitempty"`
	RegistrationNumber string                  `json:"registrationNumber,omitempty"`
	IsVerified         bool                    `json:"isVerified"`
	IsActive           bool                    `json:"isActive"`
	AvailableDates     []AvailableDateResponse `json:"availableDates"`
	CreatedAt          time.Time               `json:"createdAt"`
	UpdatedAt          time.Time               `json:"updatedAt"`
}
