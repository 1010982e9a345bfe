package services

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/yigit/questionbank/internal/app/models"
	"github.com/yigit/questionbank/internal/app/models/dto"
	"github.com/yigit/questionbank/internal/app/repositories"
	"github.com/yigit/questionbank/internal/pkg/apperrors"
	"github.com/yigit/questionbank/internal/pkg/auth"
	"github.com/yigit/questionbank/internal/pkg/validation"
)

// AuthService handles registration, login and logout
type AuthService struct {
	userRepo   repositories.UserRepository
	unique     *UniquenessEnforcer
	jwtService *auth.JWTService
	hasher     *auth.PasswordHasher
	logger     zerolog.Logger
}

// NewAuthService creates a new AuthService
func NewAuthService(
	repos *repositories.Repositories,
	jwtService *auth.JWTService,
	hasher *auth.PasswordHasher,
	logger zerolog.Logger,
) *AuthService {
	return &AuthService{
		userRepo:   repos.Users,
		unique:     NewUniquenessEnforcer(repos),
		jwtService: jwtService,
		hasher:     hasher,
		logger:     logger,
	}
}

// Register creates a user account. Admin accounts cannot be self-registered.
func (s *AuthService) Register(ctx context.Context, req *dto.RegisterRequest) (*models.User, error) {
	email := validation.NormalizeEmail(req.Email)
	if email == "" || strings.TrimSpace(req.Password) == "" {
		return nil, apperrors.NewBadRequestError("All fields are required")
	}
	if err := checkLength("email", email, validation.MaxEmailLength); err != nil {
		return nil, err
	}

	role := req.Role
	if role == "" {
		role = models.RoleStudent
	}
	if role == models.RoleAdmin || !role.IsValid() {
		return nil, apperrors.NewBadRequestError("Role must be teacher or student")
	}

	if err := s.unique.Email(ctx, email); err != nil {
		return nil, err
	}

	hashed, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, apperrors.NewInternalError("Something went wrong while registering the user", err)
	}

	user := &models.User{
		FirstName: validation.OptionalText(req.FirstName),
		LastName:  validation.OptionalText(req.LastName),
		Email:     email,
		Password:  hashed,
		Role:      role,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, userErrors.translateWrite(err, "register user")
	}

	s.logger.Info().Str("userID", user.ID.String()).Str("role", string(user.Role)).Msg("User registered")
	return user, nil
}

// Login verifies credentials, issues an access token and stores it on the user
func (s *AuthService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error) {
	email := validation.NormalizeEmail(req.Email)
	if email == "" {
		return nil, apperrors.NewBadRequestError("Email and password are required")
	}

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if isNotFound(err) {
			return nil, apperrors.NewResourceNotFoundError("User does not exist")
		}
		return nil, apperrors.NewInternalError("failed to look up user", err)
	}

	ok, err := s.hasher.Compare(user.Password, req.Password)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to verify password", err)
	}
	if !ok {
		s.logger.Warn().Str("userID", user.ID.String()).Msg("Login with invalid password")
		return nil, apperrors.NewUnauthorizedError("Invalid user credentials")
	}

	token, expiresIn, err := s.jwtService.GenerateAccessToken(user)
	if err != nil {
		return nil, apperrors.NewInternalError("Unable to generate access token", err)
	}
	if err := s.userRepo.UpdateAccessToken(ctx, user.ID, &token); err != nil {
		return nil, userErrors.translate(err, "store access token")
	}

	return &dto.LoginResponse{User: user, AccessToken: token, ExpiresIn: expiresIn}, nil
}

// Logout forgets the user's stored access token
func (s *AuthService) Logout(ctx context.Context, userID uuid.UUID) error {
	if err := s.userRepo.UpdateAccessToken(ctx, userID, nil); err != nil {
		return userErrors.translate(err, "clear access token")
	}
	return nil
}
