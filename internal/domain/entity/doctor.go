package entity

import (
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const DefaultDoctorCategory = "General Physician"

// Doctor is a directory entry. Password holds a bcrypt hash and is excluded from every read.
type Doctor struct {
	ID                 primitive.ObjectID `bson:"_id,omitempty"`
	Name               string             `bson:"name"`
	Email              string             `bson:"email"`
	Phone              string             `bson:"phone"`
	Address            string             `bson:"address"`
	Experience         int                `bson:"experience"`
	Category           string             `bson:"category"`
	Specialization     string             `bson:"specialization"`
	Price              decimal.Decimal    `bson:"price"`
	ConsultationFee    decimal.Decimal    `bson:"consultationFee"`
	Image              string             `bson:"image"`
	Password           string             `bson:"password,omitempty"`
	ClinicName         string             `bson:"clinicName"`
	Degree             string             `bson:"degree"`
	RegistrationAgency string             `bson:"registrationAgency"`
	RegistrationNumber string             `bson:"registrationNumber"`
	IsVerified         bool               `bson:"isVerified"`
	IsActive           bool               `bson:"isActive"`
	AvailableDates     Availability       `bson:"availableDates"`
	CreatedAt          time.Time          `bson:"createdAt"`
	UpdatedAt          time.Time          `bson:"updatedAt"`
}

// ApplyDefaults fills the fields a new doctor record may omit.
func (d *Doctor) ApplyDefaults() {
	if d.Category == "" {
		d.Category = DefaultDoctorCategory
	}
	if d.Specialization == "" {
		d.Specialization = d.Category
	}
	if d.ConsultationFee.IsZero() {
		d.ConsultationFee = d.Price
	}
	if d.AvailableDates == nil {
		d.AvailableDates = Availability{}
	}
}
