package seed

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	appModels "github.com/yigit/questionbank/internal/app/models"
	appRepos "github.com/yigit/questionbank/internal/app/repositories"
	"github.com/yigit/questionbank/internal/pkg/auth"
	"github.com/yigit/questionbank/internal/pkg/validation"
)

// AdminAccount is the administrator provisioned at startup
type AdminAccount struct {
	Email    string
	Password string
}

// CreateDefaultData provisions the admin account when it does not exist yet.
// Running it again is a no-op; an empty account skips seeding.
func CreateDefaultData(ctx context.Context, repos *appRepos.Repositories, hasher *auth.PasswordHasher, admin AdminAccount, lgr zerolog.Logger) error {
	if admin.Email == "" || admin.Password == "" {
		lgr.Info().Msg("No admin account configured, skipping seed")
		return nil
	}

	email := validation.NormalizeEmail(admin.Email)

	exists, err := repos.Users.EmailExists(ctx, email)
	if err != nil {
		return fmt.Errorf("failed to check admin account: %w", err)
	}
	if exists {
		lgr.Debug().Str("email", email).Msg("Admin account already present")
		return nil
	}

	hashed, err := hasher.Hash(admin.Password)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	user := &appModels.User{
		Email:    email,
		Password: hashed,
		Role:     appModels.RoleAdmin,
	}
	if err := repos.Users.Create(ctx, user); err != nil {
		// another instance may have seeded between the check and the insert
		if errors.Is(err, appRepos.ErrDuplicate) {
			return nil
		}
		lgr.Error().Err(err).Msg("Error creating admin account")
		return fmt.Errorf("failed to create admin account: %w", err)
	}

	lgr.Info().Str("email", email).Str("userID", user.ID.String()).Msg("Admin account created")
	return nil
}
