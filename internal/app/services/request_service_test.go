package services

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/mentorlink/internal/app/models"
	"github.com/yigit/mentorlink/internal/pkg/apperrors"
)

func TestRequestService_Create(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	student := f.registerStudent(t, "student1")
	mentor := f.registerMentor(t, "mentor1", []string{"Harvard"}, []string{"Biology"})
	other := f.registerStudent(t, "student2")

	req, err := f.services.Requests.CreateRequest(ctx, student.Identity(), mentor.ID, "  Help with essays ")
	require.NoError(t, err)
	assert.Equal(t, models.RequestStatusPending, req.Status)
	assert.Equal(t, student.ID, req.StudentID)
	assert.Equal(t, mentor.ID, req.MentorID)
	assert.Equal(t, "Help with essays", req.Message)
	assert.False(t, req.CreatedAt.IsZero())

	tests := []struct {
		name     string
		identity models.Identity
		mentorID int64
		message  string
		wantErr  error
		wantCode string
	}{
		{"mentor cannot create", mentor.Identity(), mentor.ID, "hi", apperrors.ErrPermissionDenied, ""},
		{"admin cannot create", models.Identity{UserID: 100, Role: models.RoleAdmin}, mentor.ID, "hi", apperrors.ErrPermissionDenied, ""},
		{"empty message", other.Identity(), mentor.ID, "   ", apperrors.ErrValidationFailed, ""},
		{"unknown mentor", other.Identity(), 999, "hi", apperrors.ErrValidationFailed, ""},
		{"target is not a mentor", other.Identity(), student.ID, "hi", apperrors.ErrValidationFailed, ""},
		{"live request exists", student.Identity(), mentor.ID, "again", apperrors.ErrValidationFailed, apperrors.CodeDuplicateRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.services.Requests.CreateRequest(ctx, tt.identity, tt.mentorID, tt.message)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, tt.wantCode, apperrors.CodeOf(err))
		})
	}

	assert.Equal(t, 1.0, f.counter(t, "mentorlink_requests_created_total", nil))
}

func TestRequestService_RejectedPairMayRequestAgain(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	student := f.registerStudent(t, "student1")
	mentor := f.registerMentor(t, "mentor1", []string{"Harvard"}, []string{"Biology"})

	first, err := f.services.Requests.CreateRequest(ctx, student.Identity(), mentor.ID, "first")
	require.NoError(t, err)
	_, err = f.services.Requests.UpdateRequestStatus(ctx, mentor.Identity(), first.ID, models.RequestStatusRejected)
	require.NoError(t, err)

	second, err := f.services.Requests.CreateRequest(ctx, student.Identity(), mentor.ID, "second")
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)
}

func TestRequestService_UpdateStatus(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	student := f.registerStudent(t, "student1")
	mentor := f.registerMentor(t, "mentor1", []string{"Harvard"}, []string{"Biology"})
	otherMentor := f.registerMentor(t, "mentor2", []string{"MIT"}, []string{"Math"})

	req, err := f.services.Requests.CreateRequest(ctx, student.Identity(), mentor.ID, "Help")
	require.NoError(t, err)

	tests := []struct {
		name     string
		identity models.Identity
		id       int64
		status   models.RequestStatus
		wantErr  error
	}{
		{"unknown status", mentor.Identity(), req.ID, "archived", apperrors.ErrValidationFailed},
		{"student cannot decide", student.Identity(), req.ID, models.RequestStatusAccepted, apperrors.ErrPermissionDenied},
		{"unknown request", mentor.Identity(), 999, models.RequestStatusAccepted, apperrors.ErrResourceNotFound},
		{"other mentor", otherMentor.Identity(), req.ID, models.RequestStatusAccepted, apperrors.ErrPermissionDenied},
		{"pending to pending", mentor.Identity(), req.ID, models.RequestStatusPending, apperrors.ErrInvalidTransition},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.services.Requests.UpdateRequestStatus(ctx, tt.identity, tt.id, tt.status)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)

			current, err := f.store.Requests().GetByID(ctx, req.ID)
			require.NoError(t, err)
			assert.Equal(t, models.RequestStatusPending, current.Status)
		})
	}

	updated, err := f.services.Requests.UpdateRequestStatus(ctx, mentor.Identity(), req.ID, models.RequestStatusAccepted)
	require.NoError(t, err)
	assert.Equal(t, models.RequestStatusAccepted, updated.Status)
	assert.Equal(t, "Help", updated.Message)

	for _, next := range []models.RequestStatus{models.RequestStatusRejected, models.RequestStatusAccepted, models.RequestStatusPending} {
		_, err := f.services.Requests.UpdateRequestStatus(ctx, mentor.Identity(), req.ID, next)
		assert.ErrorIs(t, err, apperrors.ErrInvalidTransition, "accepted -> %s", next)
	}

	current, err := f.store.Requests().GetByID(ctx, req.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RequestStatusAccepted, current.Status)
}

func TestRequestService_ConcurrentDecisions(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	student := f.registerStudent(t, "student1")
	mentor := f.registerMentor(t, "mentor1", []string{"Harvard"}, []string{"Biology"})

	req, err := f.services.Requests.CreateRequest(ctx, student.Identity(), mentor.ID, "Help")
	require.NoError(t, err)

	const workers = 8
	var wg sync.WaitGroup
	results := make(chan error, workers)
	for i := 0; i < workers; i++ {
		status := models.RequestStatusAccepted
		if i%2 == 1 {
			status = models.RequestStatusRejected
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.services.Requests.UpdateRequestStatus(ctx, mentor.Identity(), req.ID, status)
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	succeeded := 0
	for err := range results {
		if err == nil {
			succeeded++
			continue
		}
		assert.ErrorIs(t, err, apperrors.ErrInvalidTransition)
	}
	assert.Equal(t, 1, succeeded)
}

func TestRequestService_List(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	s1 := f.registerStudent(t, "student1")
	s2 := f.registerStudent(t, "student2")
	m1 := f.registerMentor(t, "mentor1", []string{"Harvard"}, []string{"Biology"})
	m2 := f.registerMentor(t, "mentor2", []string{"MIT"}, []string{"Math"})

	r1, err := f.services.Requests.CreateRequest(ctx, s1.Identity(), m1.ID, "one")
	require.NoError(t, err)
	r2, err := f.services.Requests.CreateRequest(ctx, s1.Identity(), m2.ID, "two")
	require.NoError(t, err)
	r3, err := f.services.Requests.CreateRequest(ctx, s2.Identity(), m1.ID, "three")
	require.NoError(t, err)

	ids := func(details []models.RequestDetail) []int64 {
		out := make([]int64, 0, len(details))
		for _, d := range details {
			out = append(out, d.ID)
		}
		return out
	}

	forStudent, err := f.services.Requests.ListRequests(ctx, s1.Identity())
	require.NoError(t, err)
	assert.Equal(t, []int64{r2.ID, r1.ID}, ids(forStudent))
	for _, d := range forStudent {
		assert.Nil(t, d.Student)
		require.NotNil(t, d.Mentor)
		assert.Equal(t, d.MentorID, d.Mentor.ID)
	}

	forMentor, err := f.services.Requests.ListRequests(ctx, m1.Identity())
	require.NoError(t, err)
	assert.Equal(t, []int64{r3.ID, r1.ID}, ids(forMentor))
	for _, d := range forMentor {
		require.NotNil(t, d.Student)
		assert.Nil(t, d.Mentor)
		assert.Equal(t, d.StudentID, d.Student.ID)
	}

	forAdmin, err := f.services.Requests.ListRequests(ctx, models.Identity{UserID: 1000, Role: models.RoleAdmin})
	require.NoError(t, err)
	assert.Equal(t, []int64{r3.ID, r2.ID, r1.ID}, ids(forAdmin))
	for _, d := range forAdmin {
		assert.NotNil(t, d.Student)
		assert.NotNil(t, d.Mentor)
	}

	again, err := f.services.Requests.ListRequests(ctx, s1.Identity())
	require.NoError(t, err)
	assert.Equal(t, forStudent, again)

	_, err = f.services.Requests.ListRequests(ctx, models.Identity{UserID: 1, Role: "guest"})
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
}
