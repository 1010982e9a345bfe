package middleware

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/yigit/questionbank/internal/app/models"
	"github.com/yigit/questionbank/internal/app/repositories"
	"github.com/yigit/questionbank/internal/pkg/apperrors"
	"github.com/yigit/questionbank/internal/pkg/auth"
	"github.com/yigit/questionbank/internal/pkg/logger"
)

const (
	// AccessTokenCookie is the cookie set on login and read before the Authorization header
	AccessTokenCookie = "accessToken"
	currentUserKey    = "currentUser"
)

// AuthMiddleware for authentication and authorization
type AuthMiddleware struct {
	jwtService *auth.JWTService
	userRepo   repositories.UserRepository
}

// NewAuthMiddleware creates a new AuthMiddleware
func NewAuthMiddleware(jwtService *auth.JWTService, userRepo repositories.UserRepository) *AuthMiddleware {
	return &AuthMiddleware{
		jwtService: jwtService,
		userRepo:   userRepo,
	}
}

// requestToken reads the access token from the cookie, then from the Authorization header
func requestToken(c *gin.Context) string {
	if cookie, err := c.Cookie(AccessTokenCookie); err == nil && cookie != "" {
		return cookie
	}
	return auth.ExtractBearerToken(c.GetHeader("Authorization"))
}

// JWTAuth verifies the access token and attaches the user it names to the context
func (m *AuthMiddleware) JWTAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := requestToken(c)
		if tokenString == "" {
			HandleAPIError(c, apperrors.NewUnauthorizedError("Unauthorized request - no token provided"))
			return
		}

		claims, err := m.jwtService.ValidateToken(tokenString)
		if err != nil {
			HandleAPIError(c, apperrors.NewUnauthorizedError(err.Error()))
			return
		}

		userID, err := claims.UserID()
		if err != nil {
			HandleAPIError(c, apperrors.NewUnauthorizedError(err.Error()))
			return
		}

		user, err := m.userRepo.GetByID(c.Request.Context(), userID)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				HandleAPIError(c, apperrors.NewUnauthorizedError("Invalid access token - user not found"))
				return
			}
			logger.Error().Err(err).Str("userID", userID.String()).Msg("Error loading user for access token")
			HandleAPIError(c, apperrors.NewInternalError("failed to load user", err))
			return
		}
		user.Password = ""
		user.AccessToken = nil

		c.Set(currentUserKey, user)
		c.Next()
	}
}

// RoleRequired rejects identities without requiredRole. It must run after JWTAuth.
func (m *AuthMiddleware) RoleRequired(requiredRole models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if !ok {
			HandleAPIError(c, apperrors.NewUnauthorizedError("Unauthorized request"))
			return
		}
		if user.Role != requiredRole {
			HandleAPIError(c, apperrors.NewForbiddenError("Forbidden: "+string(requiredRole)+" access required"))
			return
		}
		c.Next()
	}
}

// CurrentUser returns the identity attached by JWTAuth
func CurrentUser(c *gin.Context) (*models.User, bool) {
	v, exists := c.Get(currentUserKey)
	if !exists {
		return nil, false
	}
	user, ok := v.(*models.User)
	return user, ok && user != nil
}
