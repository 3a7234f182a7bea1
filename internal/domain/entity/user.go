package entity

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User is an account. A user with IsVerified=false is a pending registration
// that only carries an email and a one-time code.
type User struct {
	ID         primitive.ObjectID `bson:"_id,omitempty"`
	Name       string             `bson:"name"`
	Email      string             `bson:"email"`
	Password   string             `bson:"password,omitempty"`
	Phone      string             `bson:"phone,omitempty"`
	Avatar     string             `bson:"avatar,omitempty"`
	Role       string             `bson:"role"`
	IsVerified bool               `bson:"isVerified"`
	OTP        string             `bson:"otp,omitempty"`
	OTPExpiry  *time.Time         `bson:"otpExpiry,omitempty"`
	CreatedAt  time.Time          `bson:"createdAt"`
	UpdatedAt  time.Time          `bson:"updatedAt"`
}
