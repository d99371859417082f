package services

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/yigit/mentorlink/internal/app/models"
	"github.com/yigit/mentorlink/internal/app/repositories/memory"
	"github.com/yigit/mentorlink/internal/pkg/apperrors"
	"github.com/yigit/mentorlink/internal/pkg/auth"
)

func TestAuthService_RegisterValidation(t *testing.T) {
	valid := models.Registration{
		Username: "student1",
		Password: testPassword,
		Name:     "Tim Murphy",
		Email:    "tim@example.com",
		Profile:  models.StudentRegistration{TargetUniversities: []string{"MIT"}},
	}

	tests := []struct {
		name   string
		mutate func(r *models.Registration)
	}{
		{"missing profile", func(r *models.Registration) { r.Profile = nil }},
		{"short username", func(r *models.Registration) { r.Username = "ab" }},
		{"username with spaces", func(r *models.Registration) { r.Username = "tim murphy" }},
		{"short password", func(r *models.Registration) { r.Password = "abc123" }},
		{"password without digit", func(r *models.Registration) { r.Password = "passwordonly" }},
		{"blank name", func(r *models.Registration) { r.Name = "   " }},
		{"bad email", func(r *models.Registration) { r.Email = "not-an-email" }},
		{"student without targets", func(r *models.Registration) {
			r.Profile = models.StudentRegistration{TargetUniversities: []string{" "}}
		}},
		{"mentor without expertise", func(r *models.Registration) {
			r.Profile = models.MentorRegistration{Universities: []string{"Harvard"}}
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			reg := valid
			tt.mutate(&reg)

			_, err := f.services.Auth.Register(context.Background(), reg)
			require.Error(t, err)
			assert.ErrorIs(t, err, apperrors.ErrValidationFailed)

			exists, err := f.store.Users().UsernameExists(context.Background(), reg.Username)
			require.NoError(t, err)
			assert.False(t, exists)
		})
	}
}

func TestAuthService_RegisterProfiles(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	student, err := f.services.Auth.Register(ctx, models.Registration{
		Username: "student1",
		Password: testPassword,
		Name:     "Tim Murphy",
		Email:    "tim@example.com",
		Profile:  models.StudentRegistration{TargetUniversities: []string{"MIT", ""}},
	})
	require.NoError(t, err)
	assert.Equal(t, models.RoleStudent, student.User.Role)
	assert.NotEqual(t, testPassword, student.User.Password)
	require.NotNil(t, student.Student)
	assert.Equal(t, []string{"MIT"}, student.Student.TargetUniversities)
	assert.NotNil(t, student.Student.TestScores)
	assert.Nil(t, student.Mentor)

	mentor, err := f.services.Auth.Register(ctx, models.Registration{
		Username: "mentor1",
		Password: testPassword,
		Name:     "Sarah Chen",
		Email:    "sarah@example.com",
		Profile: models.MentorRegistration{
			Universities: []string{"Harvard University"},
			Expertise:    []string{"Biology"},
		},
	})
	require.NoError(t, err)
	require.NotNil(t, mentor.Mentor)
	assert.Equal(t, models.DefaultMentorBio, mentor.Mentor.Bio)
	assert.Equal(t, models.DefaultMentorRating, mentor.Mentor.Rating)
	assert.True(t, mentor.Mentor.Availability)

	admin, err := f.services.Auth.Register(ctx, models.Registration{
		Username: "admin",
		Password: testPassword,
		Name:     "Admin",
		Email:    "admin@example.com",
		Profile:  models.AdminRegistration{},
	})
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, admin.User.Role)
	assert.Nil(t, admin.Mentor)
	assert.Nil(t, admin.Student)
}

func TestAuthService_RegisterDuplicateUsername(t *testing.T) {
	f := newFixture(t)
	f.registerStudent(t, "student1")

	_, err := f.services.Auth.Register(context.Background(), models.Registration{
		Username: "student1",
		Password: testPassword,
		Name:     "Other",
		Email:    "other@example.com",
		Profile:  models.AdminRegistration{},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
	assert.Equal(t, apperrors.CodeUsernameTaken, apperrors.CodeOf(err))
}

func TestAuthService_RegisterIsAtomic(t *testing.T) {
	store := memory.NewStore()
	f := newFixtureWithStore(t, failingStore{store})
	ctx := context.Background()

	for _, reg := range []models.Registration{
		{
			Username: "student1", Password: testPassword, Name: "Tim", Email: "tim@example.com",
			Profile: models.StudentRegistration{TargetUniversities: []string{"MIT"}},
		},
		{
			Username: "mentor1", Password: testPassword, Name: "Sarah", Email: "sarah@example.com",
			Profile: models.MentorRegistration{Universities: []string{"Yale"}, Expertise: []string{"Math"}},
		},
	} {
		_, err := f.services.Auth.Register(ctx, reg)
		require.Error(t, err)
		assert.ErrorIs(t, err, apperrors.ErrInternal)

		exists, err := store.Users().UsernameExists(ctx, reg.Username)
		require.NoError(t, err)
		assert.False(t, exists, "user %s must not survive a failed profile insert", reg.Username)
	}

	// The user id sequence is rolled back as well.
	user := &models.User{Username: "nextuser", Password: "x", Role: models.RoleAdmin, Name: "Next", Email: "next@example.com"}
	require.NoError(t, store.Users().Create(ctx, user))
	assert.Equal(t, int64(1), user.ID)
}

func TestAuthService_Login(t *testing.T) {
	f := newFixture(t)
	student := f.registerStudent(t, "student1")
	ctx := context.Background()

	res, err := f.services.Auth.Login(ctx, "student1", testPassword)
	require.NoError(t, err)
	assert.Equal(t, student.ID, res.User.ID)
	assert.Equal(t, int64(3600), res.ExpiresIn)

	claims, err := f.jwt.ValidateToken(res.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, student.Identity(), claims.Identity())

	_, err = f.services.Auth.Login(ctx, "student1", "wrongpass1")
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)

	_, err = f.services.Auth.Login(ctx, "nobody", testPassword)
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
}

func TestAuthService_Me(t *testing.T) {
	f := newFixture(t)
	mentor := f.registerMentor(t, "mentor1", []string{"Harvard"}, []string{"Biology"})

	me, err := f.services.Auth.Me(context.Background(), mentor.Identity())
	require.NoError(t, err)
	assert.Equal(t, "mentor1", me.User.Username)
	require.NotNil(t, me.Mentor)
	assert.Equal(t, []string{"Harvard"}, me.Mentor.Universities)

	_, err = f.services.Auth.Me(context.Background(), models.Identity{UserID: 99, Role: models.RoleStudent})
	assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)
}

type mockTokenStore struct {
	mock.Mock
}

func (m *mockTokenStore) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	args := m.Called(ctx, tokenID, ttl)
	return args.Error(0)
}

func (m *mockTokenStore) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	args := m.Called(ctx, tokenID)
	return args.Bool(0), args.Error(1)
}

func TestAuthService_Logout(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	tokens := new(mockTokenStore)
	svc := NewAuthService(memory.NewStore(), nil, tokens, nil, zerolog.Nop()).(*authServiceImpl)
	svc.now = func() time.Time { return now }

	claims := &auth.Claims{UserID: 7}
	claims.ID = "jti-1"
	claims.ExpiresAt = jwt.NewNumericDate(now.Add(10 * time.Minute))

	tokens.On("Revoke", mock.Anything, "jti-1", 10*time.Minute).Return(nil).Once()
	require.NoError(t, svc.Logout(context.Background(), claims))

	tokens.On("Revoke", mock.Anything, "jti-1", 10*time.Minute).Return(errInjected).Once()
	err := svc.Logout(context.Background(), claims)
	assert.ErrorIs(t, err, apperrors.ErrInternal)

	tokens.AssertExpectations(t)
}

func TestAuthService_MentorRegistrationInvalidatesDirectory(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.registerMentor(t, "mentor1", []string{"Harvard"}, []string{"Biology"})

	_, err := f.services.Mentors.TopMentors(ctx, 0)
	require.NoError(t, err)
	_, err = f.services.Mentors.Facets(ctx)
	require.NoError(t, err)
	require.Len(t, f.cache.keys(), 2)

	f.registerStudent(t, "student1")
	assert.Len(t, f.cache.keys(), 2, "student registration keeps the directory cache")

	f.registerMentor(t, "mentor2", []string{"MIT"}, []string{"Math"})
	assert.Empty(t, f.cache.keys())

	top, err := f.services.Mentors.TopMentors(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, top, 2)
}
