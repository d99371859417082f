package models

import "strings"

// DefaultMentorRating is stored for new mentors. Ratings are static values.
const DefaultMentorRating = 5

// DefaultMentorBio is used when a mentor registers without a bio.
const DefaultMentorBio = "New Mentor Bio"

// MentorProfile defines the mentor extension based on the 'mentor_profiles' table
type MentorProfile struct {
	ID           int64    `json:"id" db:"id"`
	UserID       int64    `json:"userId" db:"user_id"`
	Universities []string `json:"universities" db:"universities"`
	Expertise    []string `json:"expertise" db:"expertise"`
	Bio          string   `json:"bio" db:"bio"`
	Rating       int      `json:"rating" db:"rating"`
	Availability bool     `json:"availability" db:"availability"`
}

// MentorListing pairs a mentor user with its profile.
type MentorListing struct {
	User    *User
	Profile *MentorProfile
}

// MentorFilter narrows mentor discovery. Blank fields impose no constraint.
type MentorFilter struct {
	University string
	Expertise  string
}

// Normalized trims both fields.
func (f MentorFilter) Normalized() MentorFilter {
	return MentorFilter{
		University: strings.TrimSpace(f.University),
		Expertise:  strings.TrimSpace(f.Expertise),
	}
}

// Matches applies the discovery rule: a case-insensitive substring match
// against any entry, with both filters AND-combined.
func (f MentorFilter) Matches(p *MentorProfile) bool {
	f = f.Normalized()
	if f.University != "" && !anyContainsFold(p.Universities, f.University) {
		return false
	}
	if f.Expertise != "" && !anyContainsFold(p.Expertise, f.Expertise) {
		return false
	}
	return true
}

func anyContainsFold(values []string, needle string) bool {
	needle = strings.ToLower(needle)
	for _, v := range values {
		if strings.Contains(strings.ToLower(v), needle) {
			return true
		}
	}
	return false
}

// MentorFacets lists the distinct values mentors can be filtered by.
type MentorFacets struct {
	Universities []string `json:"universities"`
	Expertise    []string `json:"expertise"`
}
