package dto

import (
	"time"

	"github.com/yigit/mentorlink/internal/app/models"
)

// UserSummary is the public part of a user embedded in other resources
type UserSummary struct {
	ID       int64  `json:"id" example:"2"`
	Username string `json:"username" example:"mentor1"`
	Name     string `json:"name" example:"Dr. Sarah Chen"`
	Role     string `json:"role" example:"mentor"`
}

// NewUserSummary builds a summary, returning nil for a nil user.
func NewUserSummary(u *models.User) *UserSummary {
	if u == nil {
		return nil
	}
	return &UserSummary{
		ID:       u.ID,
		Username: u.Username,
		Name:     u.Name,
		Role:     string(u.Role),
	}
}

// UserResponse represents basic user information
type UserResponse struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

// NewUserResponse maps a user to its response form.
func NewUserResponse(u *models.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Username:  u.Username,
		Name:      u.Name,
		Email:     u.Email,
		Role:      string(u.Role),
		CreatedAt: u.CreatedAt,
	}
}

// StudentProfileResponse is the student extension of a profile response
type StudentProfileResponse struct {
	TargetUniversities []string               `json:"targetUniversities"`
	TestScores         map[string]interface{} `json:"testScores"`
}

// ProfileResponse is a user with the profile matching its role
type ProfileResponse struct {
	UserResponse
	Mentor  *MentorProfileResponse  `json:"mentorProfile,omitempty"`
	Student *StudentProfileResponse `json:"studentProfile,omitempty"`
}

// NewProfileResponse maps a user with profile.
func NewProfileResponse(p *models.UserWithProfile) ProfileResponse {
	resp := ProfileResponse{UserResponse: NewUserResponse(p.User)}
	if p.Mentor != nil {
		m := NewMentorProfileResponse(p.Mentor)
		resp.Mentor = &m
	}
	if p.Student != nil {
		scores := p.Student.TestScores
		if scores == nil {
			scores = map[string]interface{}{}
		}
		resp.Student = &StudentProfileResponse{
			TargetUniversities: nonNil(p.Student.TargetUniversities),
			TestScores:         scores,
		}
	}
	return resp
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
