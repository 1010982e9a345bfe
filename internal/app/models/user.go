package models

import (
	"time"

	"github.com/google/uuid"
)

// User defines the user model based on the 'users' table
type User struct {
	ID          uuid.UUID `json:"id" db:"id" example:"5b0f3c1e-6a0e-4d56-9a8e-0c7c2b1a4f11"`
	FirstName   *string   `json:"firstName,omitempty" db:"first_name" example:"Ada"`
	LastName    *string   `json:"lastName,omitempty" db:"last_name" example:"Lovelace"`
	Email       string    `json:"email" db:"email" example:"ada@school.edu"`
	Password    string    `json:"-" db:"password"`
	Role        Role      `json:"role" db:"role" example:"teacher"`
	AccessToken *string   `json:"-" db:"access_token"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt" db:"updated_at"`
}

// IsAdmin reports whether the user holds the admin role
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

// UserSummary is the public projection of a user embedded in other resources
type UserSummary struct {
	ID        uuid.UUID `json:"id"`
	FirstName *string   `json:"firstName,omitempty"`
	LastName  *string   `json:"lastName,omitempty"`
	Email     string    `json:"email"`
	Role      Role      `json:"role"`
}

// Summary projects u into a UserSummary
func (u *User) Summary() *UserSummary {
	if u == nil {
		return nil
	}
	return &UserSummary{ID: u.ID, FirstName: u.FirstName, LastName: u.LastName, Email: u.Email, Role: u.Role}
}
