package models

import (
	"time"
)

// RequestStatus is the lifecycle state of a mentorship request.
type RequestStatus string

const (
	RequestStatusPending  RequestStatus = "pending"
	RequestStatusAccepted RequestStatus = "accepted"
	RequestStatusRejected RequestStatus = "rejected"
)

// IsValid reports whether s is a known status value.
func (s RequestStatus) IsValid() bool {
	switch s {
	case RequestStatusPending, RequestStatusAccepted, RequestStatusRejected:
		return true
	}
	return false
}

// IsTerminal reports whether no further transition is possible from s.
func (s RequestStatus) IsTerminal() bool {
	return s == RequestStatusAccepted || s == RequestStatusRejected
}

// IsLive reports whether a request in this state blocks a new request for the same pair.
func (s RequestStatus) IsLive() bool {
	return s == RequestStatusPending || s == RequestStatusAccepted
}

// CanTransitionTo reports whether the lifecycle allows moving from s to next.
// Only pending -> accepted and pending -> rejected are allowed.
func (s RequestStatus) CanTransitionTo(next RequestStatus) bool {
	if s != RequestStatusPending {
		return false
	}
	return next == RequestStatusAccepted || next == RequestStatusRejected
}

// Request defines the mentorship request model based on the 'requests' table
type Request struct {
	ID        int64         `json:"id" db:"id"`
	StudentID int64         `json:"studentId" db:"student_id"`
	MentorID  int64         `json:"mentorId" db:"mentor_id"`
	Message   string        `json:"message" db:"message"`
	Status    RequestStatus `json:"status" db:"status"`
	CreatedAt time.Time     `json:"createdAt" db:"created_at"`
}

// IsPending reports whether the request still awaits a decision.
func (r *Request) IsPending() bool {
	return r.Status == RequestStatusPending
}

// IsAccepted reports whether the request opened a message thread.
func (r *Request) IsAccepted() bool {
	return r.Status == RequestStatusAccepted
}

// HasParticipant reports whether userID is the student or the mentor of the request.
func (r *Request) HasParticipant(userID int64) bool {
	return r.StudentID == userID || r.MentorID == userID
}

// RequestDetail is a request decorated with its participants. Student and
// Mentor are filled according to the caller's role.
type RequestDetail struct {
	Request
	Student *User
	Mentor  *User
}
