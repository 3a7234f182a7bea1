package entity

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
)

// DateLayout is the calendar-date format used for availability and booking dates.
const DateLayout = "2006-01-02"

var ErrAvailableDateNotFound = errors.New("available date not found")

var slotLayouts = []string{"15:04", "15:04:05", "3:04 PM", "03:04 PM", "3:04PM", "03:04PM"}

// AvailableDate is one bookable calendar date with its time-slot labels.
type AvailableDate struct {
	Date      string   `bson:"date"`
	TimeSlots []string `bson:"timeSlots"`
}

// UnmarshalBSON also accepts documents written with a BSON date and an isBooked flag.
func (d *AvailableDate) UnmarshalBSON(data []byte) error {
	var raw struct {
		Date      bson.RawValue `bson:"date"`
		TimeSlots []string      `bson:"timeSlots"`
	}
	if err := bson.Unmarshal(data, &raw); err != nil {
		return err
	}

	switch raw.Date.Type {
	case bsontype.String:
		d.Date = raw.Date.StringValue()
	case bsontype.DateTime:
		d.Date = raw.Date.Time().UTC().Format(DateLayout)
	case bsontype.Null, bsontype.Undefined, 0:
		d.Date = ""
	default:
		return fmt.Errorf("unsupported availableDates.date type %s", raw.Date.Type)
	}

	d.TimeSlots = raw.TimeSlots
	if d.TimeSlots == nil {
		d.TimeSlots = []string{}
	}
	return nil
}

// Availability is a doctor's ordered list of dates. Dates are unique and each
// date's slots form a set.
type Availability []AvailableDate

func (a Availability) indexOf(date string) int {
	for i := range a {
		if a[i].Date == date {
			return i
		}
	}
	return -1
}

// AddDate appends date with no slots. It reports false when the date already exists.
func (a *Availability) AddDate(date string) bool {
	if a.indexOf(date) >= 0 {
		return false
	}
	*a = append(*a, AvailableDate{Date: date, TimeSlots: []string{}})
	return true
}

// AddTimeSlot merges slot into the set for date.
func (a *Availability) AddTimeSlot(date, slot string) (bool, error) {
	i := a.indexOf(date)
	if i < 0 {
		return false, ErrAvailableDateNotFound
	}
	for _, existing := range (*a)[i].TimeSlots {
		if existing == slot {
			return false, nil
		}
	}
	(*a)[i].TimeSlots = append((*a)[i].TimeSlots, slot)
	return true, nil
}

// RemoveDate drops date and all of its slots.
func (a *Availability) RemoveDate(date string) bool {
	i := a.indexOf(date)
	if i < 0 {
		return false
	}
	*a = append((*a)[:i:i], (*a)[i+1:]...)
	return true
}

// RemoveTimeSlot drops one slot. The date is kept even when no slots remain.
func (a *Availability) RemoveTimeSlot(date, slot string) (bool, error) {
	i := a.indexOf(date)
	if i < 0 {
		return false, ErrAvailableDateNotFound
	}
	slots := (*a)[i].TimeSlots
	kept := make([]string, 0, len(slots))
	for _, existing := range slots {
		if existing != slot {
			kept = append(kept, existing)
		}
	}
	(*a)[i].TimeSlots = kept
	return len(kept) != len(slots), nil
}

// Normalize returns a copy with duplicate dates merged and duplicate or blank slots dropped.
func (a Availability) Normalize() Availability {
	out := Availability{}
	for _, d := range a {
		date := strings.TrimSpace(d.Date)
		if date == "" {
			continue
		}
		out.AddDate(date)
		for _, slot := range d.TimeSlots {
			if slot = strings.TrimSpace(slot); slot != "" {
				out.AddTimeSlot(date, slot)
			}
		}
	}
	return out
}

// Offers reports whether the doctor declared date with a slot matching clock.
// Slot labels are free text, so "09:00" and "9:00 AM" are treated as the same time.
func (a Availability) Offers(date, clock string) bool {
	i := a.indexOf(date)
	if i < 0 {
		return false
	}
	want, wantOK := minuteOfDay(clock)
	for _, slot := range a[i].TimeSlots {
		if strings.TrimSpace(slot) == clock {
			return true
		}
		if got, ok := minuteOfDay(slot); ok && wantOK && got == want {
			return true
		}
	}
	return false
}

func minuteOfDay(label string) (int, bool) {
	label = strings.ToUpper(strings.TrimSpace(label))
	for _, layout := range slotLayouts {
		if t, err := time.Parse(layout, label); err == nil {
			return t.Hour()*60 + t.Minute(), true
		}
	}
	return 0, false
}
