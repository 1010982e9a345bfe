package models

import (
	"time"

	"github.com/google/uuid"
)

// QuestionType classifies questions ("Multiple choice", "Essay"); the name is unique
type QuestionType struct {
	ID          uuid.UUID `json:"id" db:"id"`
	Name        string    `json:"name" db:"name" example:"Multiple choice"`
	Description string    `json:"description" db:"description"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt" db:"updated_at"`
}
