package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/yigit/mentorlink/internal/app/models"
	"github.com/yigit/mentorlink/internal/pkg/apperrors"
)

func TestRequireRole(t *testing.T) {
	student := models.Identity{UserID: 1, Role: models.RoleStudent}
	assert.NoError(t, RequireRole(student, models.RoleStudent, "x"))
	assert.ErrorIs(t, RequireRole(student, models.RoleMentor, "x"), apperrors.ErrPermissionDenied)
}

func TestCanDecide(t *testing.T) {
	req := &models.Request{StudentID: 1, MentorID: 2}

	assert.NoError(t, CanDecide(models.Identity{UserID: 2, Role: models.RoleMentor}, req))
	assert.ErrorIs(t, CanDecide(models.Identity{UserID: 3, Role: models.RoleMentor}, req), apperrors.ErrPermissionDenied)
	assert.ErrorIs(t, CanDecide(models.Identity{UserID: 1, Role: models.RoleStudent}, req), apperrors.ErrPermissionDenied)
	// same id but wrong role
	assert.ErrorIs(t, CanDecide(models.Identity{UserID: 2, Role: models.RoleAdmin}, req), apperrors.ErrPermissionDenied)
}

func TestRequireParticipant(t *testing.T) {
	req := &models.Request{StudentID: 1, MentorID: 2, Status: models.RequestStatusRejected}

	assert.NoError(t, RequireParticipant(models.Identity{UserID: 1, Role: models.RoleStudent}, req))
	assert.NoError(t, RequireParticipant(models.Identity{UserID: 2, Role: models.RoleMentor}, req))
	assert.ErrorIs(t, RequireParticipant(models.Identity{UserID: 9, Role: models.RoleAdmin}, req), apperrors.ErrPermissionDenied)
}

func TestRequireOpenThread(t *testing.T) {
	for _, status := range []models.RequestStatus{models.RequestStatusPending, models.RequestStatusRejected} {
		err := RequireOpenThread(&models.Request{Status: status})
		assert.ErrorIs(t, err, apperrors.ErrInvalidState)
		assert.EqualError(t, err, "Request must be accepted")
	}
	assert.NoError(t, RequireOpenThread(&models.Request{Status: models.RequestStatusAccepted}))
}
