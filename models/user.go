package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User is an identity authenticated by the external identity provider.
// Subject is the provider's stable id and carries the unique index.
type User struct {
	ID          primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Subject     string             `json:"-" bson:"subject"`
	Email       string             `json:"email" bson:"email"`
	DisplayName string             `json:"displayName" bson:"display_name"`
	IsAdmin     bool               `json:"isAdmin" bson:"is_admin"`
	CreatedAt   time.Time          `json:"createdAt" bson:"created_at"`
	UpdatedAt   time.Time          `json:"updatedAt" bson:"updated_at"`
}

// Name returns the display name, falling back to the email address
func (u *User) Name() string {
	if u.DisplayName != "" {
		return u.DisplayName
	}
	return u.Email
}
