package dto

import "github.com/yigit/questionbank/internal/app/models"

// RegisterRequest represents the body of POST /users/register
type RegisterRequest struct {
	FirstName *string     `json:"firstName" binding:"omitempty,max=100" example:"Ada"`
	LastName  *string     `json:"lastName" binding:"omitempty,max=100" example:"Lovelace"`
	Email     string      `json:"email" binding:"required,email,max=255" example:"ada@school.edu"`
	Password  string      `json:"password" binding:"required,min=6,max=72" example:"secret123"`
	Role      models.Role `json:"role" binding:"omitempty,oneof=teacher student" example:"teacher"`
}

// LoginRequest represents the body of POST /users/login
type LoginRequest struct {
	Email    string `json:"email" binding:"required" example:"ada@school.edu"`
	Password string `json:"password" binding:"required" example:"secret123"`
}

// LoginResponse is returned after a successful login
type LoginResponse struct {
	User        *models.User `json:"user"`
	AccessToken string       `json:"accessToken"`
	ExpiresIn   int          `json:"expiresIn" example:"86400"`
}

// CurrentUserResponse describes the authenticated identity
type CurrentUserResponse struct {
	ID    string      `json:"id" example:"5b0f3c1e-6a0e-4d56-9a8e-0c7c2b1a4f11"`
	Email string      `json:"email" example:"ada@school.edu"`
	Role  models.Role `json:"role" example:"teacher"`
}
