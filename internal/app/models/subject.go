package models

import (
	"time"

	"github.com/google/uuid"
)

// Subject is a taxonomy node such as "Algebra"; the name is unique
type Subject struct {
	ID          uuid.UUID `json:"id" db:"id"`
	Name        string    `json:"name" db:"name" example:"Algebra"`
	Description string    `json:"description" db:"description" example:"Equations and functions"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt" db:"updated_at"`
}
