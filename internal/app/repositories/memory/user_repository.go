package memory

import (
	"context"

	"github.com/google/uuid"
	"github.com/yigit/questionbank/internal/app/models"
	"github.com/yigit/questionbank/internal/app/repositories"
)

// UserRepository is the in-memory users table
type UserRepository struct {
	s *Store
}

func cloneUser(u *models.User) *models.User {
	c := *u
	c.FirstName = cloneString(u.FirstName)
	c.LastName = cloneString(u.LastName)
	c.AccessToken = cloneString(u.AccessToken)
	return &c
}

// Create inserts user; the email is unique ignoring case
func (r *UserRepository) Create(_ context.Context, user *models.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, existing := range r.s.users {
		if sameEmail(existing.Email, user.Email) {
			return repositories.ErrDuplicate
		}
	}

	user.ID, user.CreatedAt = r.s.stamp()
	user.UpdatedAt = user.CreatedAt
	if user.Role == "" {
		user.Role = models.RoleStudent
	}
	r.s.users[user.ID] = cloneUser(user)
	return nil
}

// GetByID retrieves a user by ID
func (r *UserRepository) GetByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	u, ok := r.s.users[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return cloneUser(u), nil
}

// GetByEmail retrieves a user by email, ignoring case
func (r *UserRepository) GetByEmail(_ context.Context, email string) (*models.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, u := range r.s.users {
		if sameEmail(u.Email, email) {
			return cloneUser(u), nil
		}
	}
	return nil, repositories.ErrNotFound
}

// EmailExists checks if an email is already registered
func (r *UserRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	_, err := r.GetByEmail(ctx, email)
	if err == repositories.ErrNotFound {
		return false, nil
	}
	return err == nil, err
}

// UpdateAccessToken stores or clears the last issued token
func (r *UserRepository) UpdateAccessToken(_ context.Context, id uuid.UUID, token *string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	u, ok := r.s.users[id]
	if !ok {
		return repositories.ErrNotFound
	}
	u.AccessToken = cloneString(token)
	u.UpdatedAt = r.s.now()
	return nil
}
