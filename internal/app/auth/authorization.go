// Package auth holds the authorization rules shared by every handler that
// touches owned records.
package auth

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/yigit/questionbank/internal/app/models"
	"github.com/yigit/questionbank/internal/pkg/apperrors"
)

// Action verbs used in denial messages
const (
	ActionAccess = "access"
	ActionUpdate = "update"
	ActionDelete = "delete"
)

// Verdict is the outcome of comparing a record's owner with the caller
type Verdict struct {
	IsOwner bool
	IsAdmin bool
}

// Permitted reports whether the caller may act on the record
func (v Verdict) Permitted() bool {
	return v.IsOwner || v.IsAdmin
}

// Evaluate compares createdBy with the acting user. A nil actor is neither owner nor admin.
func Evaluate(createdBy uuid.UUID, actor *models.User) Verdict {
	if actor == nil {
		return Verdict{}
	}
	return Verdict{
		IsOwner: createdBy == actor.ID,
		IsAdmin: actor.IsAdmin(),
	}
}

// RequireOwnerOrAdmin returns a Forbidden error unless actor owns the record or is an admin.
// entity is the plural noun used in the message, e.g. "chapters".
func RequireOwnerOrAdmin(createdBy uuid.UUID, actor *models.User, action, entity string) error {
	if Evaluate(createdBy, actor).Permitted() {
		return nil
	}
	return apperrors.NewForbiddenError(fmt.Sprintf("Forbidden: You can only %s your own %s", action, entity))
}

// OwnerScope returns the creator filter for listings: nil for admins, the actor's id otherwise
func OwnerScope(actor *models.User) *uuid.UUID {
	if actor == nil || actor.IsAdmin() {
		return nil
	}
	id := actor.ID
	return &id
}
