package dto

import (
	"time"

	"github.com/yigit/mentorlink/internal/app/models"
)

// CreateRequestRequest represents a new mentorship request
type CreateRequestRequest struct {
	MentorID int64  `json:"mentorId" binding:"required,min=1"`
	Message  string `json:"message" binding:"required,max=2000"`
}

// UpdateRequestStatusRequest represents a mentor's decision
type UpdateRequestStatusRequest struct {
	Status models.RequestStatus `json:"status" binding:"required"`
}

// RequestResponse represents a mentorship request
type RequestResponse struct {
	ID        int64        `json:"id"`
	StudentID int64        `json:"studentId"`
	MentorID  int64        `json:"mentorId"`
	Message   string       `json:"message"`
	Status    string       `json:"status" example:"pending"`
	CreatedAt time.Time    `json:"createdAt"`
	Student   *UserSummary `json:"student,omitempty"`
	Mentor    *UserSummary `json:"mentor,omitempty"`
}

// NewRequestResponse maps a bare request.
func NewRequestResponse(r *models.Request) RequestResponse {
	return RequestResponse{
		ID:        r.ID,
		StudentID: r.StudentID,
		MentorID:  r.MentorID,
		Message:   r.Message,
		Status:    string(r.Status),
		CreatedAt: r.CreatedAt,
	}
}

// NewRequestListResponse maps decorated requests.
func NewRequestListResponse(details []models.RequestDetail) []RequestResponse {
	resp := make([]RequestResponse, 0, len(details))
	for i := range details {
		r := NewRequestResponse(&details[i].Request)
		r.Student = NewUserSummary(details[i].Student)
		r.Mentor = NewUserSummary(details[i].Mentor)
		resp = append(resp, r)
	}
	return resp
}
