package entity

import (
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// GuestUserID marks appointments booked without a signed-in account.
const GuestUserID = "guest"

var ErrInvalidDateTime = errors.New("invalid date or time format")

// AppointmentStatus represents the lifecycle state of an appointment
type AppointmentStatus string

const (
	AppointmentStatusPending   AppointmentStatus = "pending"
	AppointmentStatusConfirmed AppointmentStatus = "confirmed"
	AppointmentStatusCancelled AppointmentStatus = "cancelled"
	AppointmentStatusCompleted AppointmentStatus = "completed"
)

type AppointmentType string

const (
	AppointmentTypeOnline  AppointmentType = "online"
	AppointmentTypeOffline AppointmentType = "offline"
)

// Appointment is a single patient-doctor booking. Doctor fields are denormalized copies.
type Appointment struct {
	ID              primitive.ObjectID `bson:"_id,omitempty"`
	DoctorID        primitive.ObjectID `bson:"doctorId"`
	DoctorName      string             `bson:"doctorName"`
	DoctorEmail     string             `bson:"doctorEmail"`
	PatientName     string             `bson:"patientName"`
	PatientEmail    string             `bson:"patientEmail"`
	PatientPhone    string             `bson:"patientPhone"`
	AppointmentDate time.Time          `bson:"appointmentDate"`
	AppointmentType AppointmentType    `bson:"appointmentType"`
	Gender          string             `bson:"gender"`
	Notes           string             `bson:"notes"`
	UserID          string             `bson:"userId"`
	Status          AppointmentStatus  `bson:"status"`
	// SlotKey is set only while the appointment holds an exclusive slot claim.
	SlotKey   string    `bson:"slotKey,omitempty"`
	CreatedAt time.Time `bson:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt"`
}

func AppointmentStatuses() []AppointmentStatus {
	return []AppointmentStatus{
		AppointmentStatusPending,
		AppointmentStatusConfirmed,
		AppointmentStatusCancelled,
		AppointmentStatusCompleted,
	}
}

func (s AppointmentStatus) IsValid() bool {
	for _, v := range AppointmentStatuses() {
		if s == v {
			return true
		}
	}
	return false
}

// IsActive reports whether the status still occupies the doctor's time.
func (s AppointmentStatus) IsActive() bool {
	return s == AppointmentStatusPending || s == AppointmentStatusConfirmed
}

// CanTransitionTo reports whether an admin may move an appointment from s to next.
func (s AppointmentStatus) CanTransitionTo(next AppointmentStatus) bool {
	switch s {
	case AppointmentStatusPending:
		return next == AppointmentStatusConfirmed || next == AppointmentStatusCancelled || next == AppointmentStatusCompleted
	case AppointmentStatusConfirmed:
		return next == AppointmentStatusCompleted || next == AppointmentStatusCancelled
	default:
		return false
	}
}

// CombineDateTime merges a calendar date (YYYY-MM-DD) and a clock time (HH:MM or HH:MM:SS)
// into one instant in loc.
func CombineDateTime(date, clock string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	for _, layout := range []string{DateLayout + "T15:04", DateLayout + "T15:04:05"} {
		if t, err := time.ParseInLocation(layout, date+"T"+clock, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, ErrInvalidDateTime
}

// SlotKey identifies one doctor at one instant.
func SlotKey(doctorID primitive.ObjectID, at time.Time) string {
	return fmt.Sprintf("%s:%s", doctorID.Hex(), at.UTC().Format(time.RFC3339))
}
