package entity

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// AuditLog is one entry of the write trail kept in Postgres.
// ActorID is the hex id of the signed-in user, nil for anonymous writes.
type AuditLog struct {
	ID        int64     `gorm:"primaryKey;autoIncrement"`
	ActorID   *string   `gorm:"type:varchar(64);index"`
	Action    string    `gorm:"type:varchar(100);not null;index"`
	Metadata  JSON      `gorm:"type:jsonb"`
	CreatedAt time.Time `gorm:"autoCreateTime;index"`
}

func (AuditLog) TableName() string {
	return "audit_logs"
}

// JSON type for GORM JSONB support
type JSON map[string]interface{}

// Value returns json value, implement driver.Valuer interface
func (j JSON) Value() (driver.Value, error) {
	if len(j) == 0 {
		return nil, nil
	}
	return json.Marshal(j)
}

// Scan scan value into Jsonb, implements sql.Scanner interface
func (j *JSON) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}
	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return errors.New(fmt.Sprint("Failed to unmarshal JSONB value:", value))
	}

	result := map[string]interface{}{}
	err := json.Unmarshal(bytes, &result)
	*j = JSON(result)
	return err
}

// Common audit actions
const (
	AuditActionUserLogin            = "user.login"
	AuditActionUserLogout           = "user.logout"
	AuditActionUserRegister         = "user.register"
	AuditActionAppointmentCreate    = "appointment.create"
	AuditActionAppointmentStatus    = "appointment.status_update"
	AuditActionDoctorCreate         = "doctor.create"
	AuditActionDoctorUpdate         = "doctor.update"
	AuditActionDoctorDelete         = "doctor.delete"
	AuditActionAvailabilityUpdate   = "doctor.availability_update"
	AuditActionPlanCreate           = "plan.create"
	AuditActionPlanUpdate           = "plan.update"
	AuditActionPlanDelete           = "plan.delete"
	AuditActionCRMCreate            = "crm.create"
	AuditActionCRMUpdate            = "crm.update"
	AuditActionCRMDelete            = "crm.delete"
	AuditActionContactMessageStatus = "contact_message.status_update"
)
