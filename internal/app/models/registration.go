package models

// RegistrationProfile is the role-specific part of a registration. The
// concrete type selects the role of the new user.
type RegistrationProfile interface {
	Role() RoleType
	isRegistrationProfile()
}

// StudentRegistration carries the student profile fields.
type StudentRegistration struct {
	TargetUniversities []string
	TestScores         map[string]interface{}
}

// MentorRegistration carries the mentor profile fields.
type MentorRegistration struct {
	Universities []string
	Expertise    []string
	Bio          string
}

// AdminRegistration has no profile.
type AdminRegistration struct{}

func (StudentRegistration) Role() RoleType { return RoleStudent }
func (MentorRegistration) Role() RoleType  { return RoleMentor }
func (AdminRegistration) Role() RoleType   { return RoleAdmin }

func (StudentRegistration) isRegistrationProfile() {}
func (MentorRegistration) isRegistrationProfile()  {}
func (AdminRegistration) isRegistrationProfile()   {}

// Registration is the input of account creation.
type Registration struct {
	Username string
	Password string
	Name     string
	Email    string
	Profile  RegistrationProfile
}

// Role returns the role selected by the profile variant, or "" when unset.
func (r Registration) Role() RoleType {
	if r.Profile == nil {
		return ""
	}
	return r.Profile.Role()
}
