package models

import (
	"time"
)

// User defines the user model based on the 'users' table
type User struct {
	ID        int64     `json:"id" db:"id" example:"1"`
	Username  string    `json:"username" db:"username" example:"student1"`
	Password  string    `json:"-" db:"password"` // bcrypt hash, never serialized
	Role      RoleType  `json:"role" db:"role" example:"student"`
	Name      string    `json:"name" db:"name" example:"Tim Murphy"`
	Email     string    `json:"email" db:"email" example:"tim@example.com"`
	CreatedAt time.Time `json:"createdAt" db:"created_at" example:"2024-01-01T10:00:00Z"`
}

// Identity returns the caller identity for this user.
func (u *User) Identity() Identity {
	return Identity{UserID: u.ID, Role: u.Role}
}

// UserWithProfile is a user together with the profile matching its role.
// Exactly one of Mentor and Student is set for mentors and students; both are
// nil for admins.
type UserWithProfile struct {
	User    *User
	Mentor  *MentorProfile
	Student *StudentProfile
}
