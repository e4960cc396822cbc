package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DefaultDistanceMeters is the default search radius for a new account (50 miles).
const DefaultDistanceMeters = 50 * 1609.344

// Coordinates is an ordered [longitude, latitude] pair filled in by the location service.
type Coordinates []float64

type BaseLocation struct {
	City     string      `bson:"city" json:"city"`
	Coords   Coordinates `bson:"coords" json:"coords"`
	Distance float64     `bson:"distance" json:"distance"` // meters
}

// Account is a registered user as stored in the users collection.
type Account struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Name        string             `bson:"name" json:"name"`
	Password    string             `bson:"password" json:"-"` // bcrypt hash, never returned
	Email       string             `bson:"email" json:"email"`
	PhoneNumber string             `bson:"phone_number" json:"phone_number"`
	Bio         string             `bson:"bio" json:"bio"`

	BaseLocation BaseLocation `bson:"base_location" json:"base_location"`
	FollowList   []string     `bson:"follow_list" json:"follow_list"`

	Created  time.Time `bson:"created" json:"created"`
	Verified bool      `bson:"verified" json:"verified"`
}

// RegistrationRequest is the raw signup body. Fields are pointers so a missing
// key can be told apart from an empty string.
type RegistrationRequest struct {
	Name            *string `json:"name"`
	Password        *string `json:"password"`
	ConfirmPassword *string `json:"confirmPassword"`
	Email           *string `json:"email"`
	ConfirmEmail    *string `json:"confirmEmail"`
	PhoneNumber     *string `json:"phone_number"`
	Bio             *string `json:"bio"`
	Location        *string `json:"location"`
}

// Complete reports whether every field was supplied.
func (r RegistrationRequest) Complete() bool {
	for _, f := range []*string{
		r.Name, r.Password, r.ConfirmPassword, r.Email,
		r.ConfirmEmail, r.PhoneNumber, r.Bio, r.Location,
	} {
		if f == nil {
			return false
		}
	}
	return true
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// AccountUpdate carries a partial profile. A nil field keeps the stored value.
type AccountUpdate struct {
	Name        *string  `json:"name"`
	Email       *string  `json:"email"`
	PhoneNumber *string  `json:"phone_number"`
	Bio         *string  `json:"bio"`
	City        *string  `json:"city"`
	Distance    *float64 `json:"distance"`
}

type ResetRequest struct {
	Username string `json:"username"`
}

// ResetConfirmation completes a reset started from the emailed link.
type ResetConfirmation struct {
	ID              string `json:"id"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword,omitempty"`
}

// Notification is the message placed on the mail queue.
type Notification struct {
	To      string `json:"to"`
	From    string `json:"from"`
	Subject string `json:"subject"`
	HTML    string `json:"html"`
}
