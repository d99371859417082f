package models

// RoleType defines the user role type
type RoleType string

const (
	RoleStudent RoleType = "student"
	RoleMentor  RoleType = "mentor"
	RoleAdmin   RoleType = "admin"
)

// IsValid reports whether r is one of the known roles.
func (r RoleType) IsValid() bool {
	switch r {
	case RoleStudent, RoleMentor, RoleAdmin:
		return true
	}
	return false
}

// Identity is the resolved caller of a core operation. The transport layer
// builds it once per call; services never look it up from ambient state.
type Identity struct {
	UserID int64
	Role   RoleType
}

// Is reports whether the identity holds the given role.
func (i Identity) Is(role RoleType) bool {
	return i.Role == role
}
