package dto

import (
	"time"

	"github.com/noah-isme/essay-api/internal/models"
)

// RegisterRequest describes the payload for account registration.
type RegisterRequest struct {
	Email            string `json:"email" validate:"required,email"`
	Password         string `json:"password" validate:"required,min=6"`
	Role             string `json:"role" validate:"omitempty,oneof=admin teacher student"`
	Section          string `json:"section" validate:"omitempty,max=64"`
	SecurityQuestion string `json:"security_question" validate:"omitempty,max=255"`
	SecurityAnswer   string `json:"security_answer" validate:"omitempty,max=255"`
}

// LoginRequest describes the credentials payload.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// UpdateOwnSectionRequest carries a student's new section. An empty value
// clears the section.
type UpdateOwnSectionRequest struct {
	Section string `json:"section" validate:"omitempty,max=64"`
}

// SecurityQuestionRequest asks for the recovery question of an account.
type SecurityQuestionRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// ResetPasswordRequest resets a password using the stored security answer.
type ResetPasswordRequest struct {
	Email          string `json:"email" validate:"required,email"`
	SecurityAnswer string `json:"security_answer" validate:"required"`
	Password       string `json:"password" validate:"required,min=6"`
}

// UserResponse is the serialized account representation. It never carries
// credential hashes.
type UserResponse struct {
	ID               uint      `json:"id"`
	Email            string    `json:"email"`
	Role             string    `json:"role"`
	Section          string    `json:"section"`
	SecurityQuestion string    `json:"security_question,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
}

// AuthResponse is returned on successful login.
type AuthResponse struct {
	Token     string       `json:"token"`
	TokenType string       `json:"token_type"`
	ExpiresAt int64        `json:"expires_at"`
	User      UserResponse `json:"user"`
}

// SecurityQuestionResponse reports whether a recovery question is available.
// The shape is identical for unknown accounts and accounts without a question.
type SecurityQuestionResponse struct {
	HasSecurityQuestion bool   `json:"has_security_question"`
	SecurityQuestion    string `json:"security_question,omitempty"`
}

// NewUserResponse converts a model into a DTO.
func NewUserResponse(model models.User) UserResponse {
	return UserResponse{
		ID:               model.ID,
		Email:            model.Email,
		Role:             model.Role,
		Section:          model.Section,
		SecurityQuestion: model.SecurityQuestion,
		CreatedAt:        model.CreatedAt,
	}
}
