// Package auth holds the role and ownership rules of the request lifecycle
// and the messaging gate.
package auth

import (
	"github.com/yigit/mentorlink/internal/app/models"
	"github.com/yigit/mentorlink/internal/pkg/apperrors"
)

// RequireRole fails with Forbidden unless the caller holds role.
func RequireRole(identity models.Identity, role models.RoleType, message string) error {
	if !identity.Is(role) {
		return apperrors.NewForbiddenError(message)
	}
	return nil
}

// CanDecide checks that the caller is the mentor the request was sent to.
func CanDecide(identity models.Identity, request *models.Request) error {
	if !identity.Is(models.RoleMentor) || request.MentorID != identity.UserID {
		return apperrors.NewForbiddenError("Only the requested mentor can decide on this request")
	}
	return nil
}

// RequireParticipant checks that the caller is the student or the mentor of
// the request. It does not look at the status.
func RequireParticipant(identity models.Identity, request *models.Request) error {
	if !request.HasParticipant(identity.UserID) {
		return apperrors.NewForbiddenError("You are not a participant of this request")
	}
	return nil
}

// RequireOpenThread checks that messages may be written on the request.
func RequireOpenThread(request *models.Request) error {
	if !request.IsAccepted() {
		return apperrors.NewInvalidStateError("Request must be accepted")
	}
	return nil
}
