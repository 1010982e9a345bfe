package auth

import (
	"errors"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/yigit/questionbank/internal/app/models"
	"github.com/yigit/questionbank/internal/pkg/apperrors"
)

func TestRequireOwnerOrAdmin(t *testing.T) {
	owner := &models.User{ID: uuid.New(), Role: models.RoleTeacher}
	stranger := &models.User{ID: uuid.New(), Role: models.RoleStudent}
	admin := &models.User{ID: uuid.New(), Role: models.RoleAdmin}

	tests := []struct {
		name    string
		actor   *models.User
		allowed bool
	}{
		{"owner", owner, true},
		{"admin", admin, true},
		{"stranger", stranger, false},
		{"anonymous", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := RequireOwnerOrAdmin(owner.ID, tt.actor, ActionUpdate, "chapters")
			if tt.allowed {
				if err != nil {
					t.Fatalf("expected access, got %v", err)
				}
				return
			}
			if !errors.Is(err, apperrors.ErrPermissionDenied) {
				t.Fatalf("expected permission denied, got %v", err)
			}
			if apperrors.StatusCode(err) != http.StatusForbidden {
				t.Fatalf("expected 403, got %d", apperrors.StatusCode(err))
			}
			if err.Error() != "Forbidden: You can only update your own chapters" {
				t.Fatalf("unexpected message %q", err.Error())
			}
		})
	}
}

func TestEvaluateAdminOwner(t *testing.T) {
	admin := &models.User{ID: uuid.New(), Role: models.RoleAdmin}
	v := Evaluate(admin.ID, admin)
	if !v.IsOwner || !v.IsAdmin {
		t.Fatalf("expected owner and admin, got %+v", v)
	}
}

func TestOwnerScope(t *testing.T) {
	teacher := &models.User{ID: uuid.New(), Role: models.RoleTeacher}
	if got := OwnerScope(teacher); got == nil || *got != teacher.ID {
		t.Fatalf("expected teacher scope, got %v", got)
	}
	if got := OwnerScope(&models.User{ID: uuid.New(), Role: models.RoleAdmin}); got != nil {
		t.Fatalf("expected no scope for admin, got %v", got)
	}
}
