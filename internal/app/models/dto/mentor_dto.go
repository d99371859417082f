package dto

import "github.com/yigit/mentorlink/internal/app/models"

// MentorFilterRequest represents mentor discovery query parameters
type MentorFilterRequest struct {
	University string `form:"university" binding:"max=100"`
	Expertise  string `form:"expertise" binding:"max=100"`
}

// ToFilter converts the query into a model filter.
func (r MentorFilterRequest) ToFilter() models.MentorFilter {
	return models.MentorFilter{University: r.University, Expertise: r.Expertise}.Normalized()
}

// TopMentorsRequest represents the top mentors query. Out of range limits are
// clamped by the service.
type TopMentorsRequest struct {
	Limit int `form:"limit"`
}

// MentorProfileResponse is the mentor extension of a profile response
type MentorProfileResponse struct {
	Universities []string `json:"universities"`
	Expertise    []string `json:"expertise"`
	Bio          string   `json:"bio"`
	Rating       int      `json:"rating"`
	Availability bool     `json:"availability"`
}

// NewMentorProfileResponse maps a mentor profile.
func NewMentorProfileResponse(p *models.MentorProfile) MentorProfileResponse {
	return MentorProfileResponse{
		Universities: nonNil(p.Universities),
		Expertise:    nonNil(p.Expertise),
		Bio:          p.Bio,
		Rating:       p.Rating,
		Availability: p.Availability,
	}
}

// MentorResponse represents a mentor in the directory
type MentorResponse struct {
	ID       int64  `json:"id" example:"2"`
	Username string `json:"username" example:"mentor1"`
	Name     string `json:"name" example:"Dr. Sarah Chen"`
	MentorProfileResponse
}

// NewMentorResponse maps a mentor listing.
func NewMentorResponse(l models.MentorListing) MentorResponse {
	return MentorResponse{
		ID:                    l.User.ID,
		Username:              l.User.Username,
		Name:                  l.User.Name,
		MentorProfileResponse: NewMentorProfileResponse(l.Profile),
	}
}

// NewMentorListResponse maps a slice of mentor listings.
func NewMentorListResponse(listings []models.MentorListing) []MentorResponse {
	resp := make([]MentorResponse, 0, len(listings))
	for _, l := range listings {
		resp = append(resp, NewMentorResponse(l))
	}
	return resp
}
