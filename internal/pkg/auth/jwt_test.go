package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/yigit/questionbank/internal/app/models"
)

func newTestService(secret string, exp time.Duration) *JWTService {
	return NewJWTService(JWTConfig{SecretKey: secret, AccessTokenExp: exp, TokenIssuer: "test"})
}

func TestGenerateAndValidateToken(t *testing.T) {
	svc := newTestService("secret", time.Hour)
	user := &models.User{ID: uuid.New(), Email: "t@example.com", Role: models.RoleTeacher}

	token, expiresIn, err := svc.GenerateAccessToken(user)
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}
	if expiresIn != 3600 {
		t.Fatalf("expected 3600 seconds, got %d", expiresIn)
	}

	claims, err := svc.ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}
	id, err := claims.UserID()
	if err != nil {
		t.Fatalf("UserID: %v", err)
	}
	if id != user.ID {
		t.Fatalf("expected subject %s, got %s", user.ID, id)
	}
	if claims.Role != models.RoleTeacher || claims.Email != user.Email {
		t.Fatalf("unexpected claims %+v", claims)
	}
}

func TestValidateTokenFailures(t *testing.T) {
	user := &models.User{ID: uuid.New(), Email: "t@example.com", Role: models.RoleStudent}

	expired := newTestService("secret", time.Minute)
	expired.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	expiredToken, _, err := expired.GenerateAccessToken(user)
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}

	other := newTestService("other-secret", time.Hour)
	foreignToken, _, err := other.GenerateAccessToken(user)
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}

	svc := newTestService("secret", time.Hour)
	tests := []struct {
		name  string
		token string
		want  error
	}{
		{"empty", "", ErrMissingToken},
		{"garbage", "not-a-jwt", ErrInvalidToken},
		{"wrong secret", foreignToken, ErrInvalidToken},
		{"expired", expiredToken, ErrExpiredToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.ValidateToken(tt.token)
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestExtractBearerToken(t *testing.T) {
	tests := map[string]string{
		"Bearer abc.def.ghi":   "abc.def.ghi",
		"bearer abc.def.ghi":   "abc.def.ghi",
		"  abc.def.ghi  ":      "abc.def.ghi",
		"Bearer   abc.def.ghi": "abc.def.ghi",
		"":                     "",
	}
	for in, want := range tests {
		if got := ExtractBearerToken(in); got != want {
			t.Fatalf("ExtractBearerToken(%q) = %q, want %q", in, got, want)
		}
	}
}
