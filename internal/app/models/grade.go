package models

import (
	"time"

	"github.com/google/uuid"
)

// Grade groups the subjects taught at one level; the name is unique
type Grade struct {
	ID         uuid.UUID   `json:"id" db:"id"`
	Name       string      `json:"name" db:"name" example:"10"`
	SubjectIDs []uuid.UUID `json:"-"`
	Subjects   []*Subject  `json:"subjects,omitempty"`
	CreatedAt  time.Time   `json:"createdAt" db:"created_at"`
	UpdatedAt  time.Time   `json:"updatedAt" db:"updated_at"`
}
