package entity

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AppointmentFilter is a domain-level filter for listing appointments.
// Empty fields are not applied.
type AppointmentFilter struct {
	UserID      string
	DoctorID    *primitive.ObjectID
	DoctorEmail string
	Status      AppointmentStatus
	From        *time.Time // inclusive
	To          *time.Time // inclusive
}

// ParseRangeStart accepts an RFC3339 instant or a calendar date, which starts at midnight in loc.
func ParseRangeStart(raw string, loc *time.Location) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339Nano, raw); err == nil {
		return t, nil
	}
	t, err := time.ParseInLocation(DateLayout, raw, loc)
	if err != nil {
		return time.Time{}, ErrInvalidDateTime
	}
	return t, nil
}

// ParseRangeEnd accepts an RFC3339 instant or a calendar date. A bare date covers the whole day.
func ParseRangeEnd(raw string, loc *time.Location) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339Nano, raw); err == nil {
		return t, nil
	}
	t, err := time.ParseInLocation(DateLayout, raw, loc)
	if err != nil {
		return time.Time{}, ErrInvalidDateTime
	}
	return t.AddDate(0, 0, 1).Add(-time.Nanosecond), nil
}

// DoctorFilter selects doctors by exactly one criterion: Email, then ID, then Category.
type DoctorFilter struct {
	Email    string
	ID       *primitive.ObjectID
	Category string
}
