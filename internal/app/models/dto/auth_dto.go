package dto

import (
	"strings"

	"github.com/yigit/mentorlink/internal/app/models"
)

// LoginRequest represents login credentials
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// TokenResponse represents JWT token information
type TokenResponse struct {
	AccessToken string `json:"accessToken"`
	TokenType   string `json:"tokenType" example:"Bearer"`
	ExpiresIn   int64  `json:"expiresIn"`
}

// RegisterRequest represents a user registration request. Role selects which
// profile fields apply; the others are ignored.
type RegisterRequest struct {
	Username string          `json:"username" binding:"required,min=3,max=50"`
	Password string          `json:"password" binding:"required,min=8,max=72"`
	Name     string          `json:"name" binding:"required,max=100"`
	Email    string          `json:"email" binding:"required,email"`
	Role     models.RoleType `json:"role" binding:"required,oneof=student mentor"`

	// Student profile
	TargetUniversities []string               `json:"targetUniversities,omitempty"`
	TestScores         map[string]interface{} `json:"testScores,omitempty"`

	// Mentor profile
	Universities []string `json:"universities,omitempty"`
	Expertise    []string `json:"expertise,omitempty"`
	Bio          string   `json:"bio,omitempty"`
}

// ToRegistration converts the request into the tagged registration input.
func (r *RegisterRequest) ToRegistration() models.Registration {
	reg := models.Registration{
		Username: strings.TrimSpace(r.Username),
		Password: r.Password,
		Name:     strings.TrimSpace(r.Name),
		Email:    strings.TrimSpace(r.Email),
	}

	switch r.Role {
	case models.RoleStudent:
		reg.Profile = models.StudentRegistration{
			TargetUniversities: r.TargetUniversities,
			TestScores:         r.TestScores,
		}
	case models.RoleMentor:
		reg.Profile = models.MentorRegistration{
			Universities: r.Universities,
			Expertise:    r.Expertise,
			Bio:          r.Bio,
		}
	}
	return reg
}

// AuthResponse represents successful authentication response
type AuthResponse struct {
	Token TokenResponse `json:"token"`
	User  UserResponse  `json:"user"`
}
