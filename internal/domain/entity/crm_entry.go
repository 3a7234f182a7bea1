package entity

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	CallTypeIncoming = "incoming"
	CallTypeOutgoing = "outgoing"

	FollowUpYes = "yes"
	FollowUpNo  = "no"

	CRMStatusPending   = "pending"
	CRMStatusContacted = "contacted"
	CRMStatusCompleted = "completed"
)

// CRMEntry is a logged call or enquiry handled by clinic staff.
type CRMEntry struct {
	ID            primitive.ObjectID `bson:"_id,omitempty"`
	Name          string             `bson:"name"`
	Email         string             `bson:"email"`
	Phone         string             `bson:"phone"`
	Date          time.Time          `bson:"date"`
	Time          string             `bson:"time"`
	Message       string             `bson:"message"`
	CallType      string             `bson:"callType"`
	FollowUp      string             `bson:"followUp"`
	Status        string             `bson:"status"`
	CallStatus    string             `bson:"callStatus"`
	NeedsFollowUp bool               `bson:"needsFollowUp"`
	FollowUpDate  string             `bson:"followUpDate"`
	FollowUpNotes string             `bson:"followUpNotes"`
	CreatedAt     time.Time          `bson:"createdAt"`
	UpdatedAt     time.Time          `bson:"updatedAt"`
}

func (e *CRMEntry) ApplyDefaults(now time.Time) {
	if e.Date.IsZero() {
		e.Date = now
	}
	if e.CallType == "" {
		e.CallType = CallTypeIncoming
	}
	if e.FollowUp == "" {
		e.FollowUp = FollowUpNo
	}
	if e.Status == "" {
		e.Status = CRMStatusPending
	}
}
