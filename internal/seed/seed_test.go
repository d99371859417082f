package seed

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/mentorlink/internal/app/models"
	"github.com/yigit/mentorlink/internal/app/repositories/memory"
	"github.com/yigit/mentorlink/internal/app/services"
	"github.com/yigit/mentorlink/internal/pkg/auth"
	"github.com/yigit/mentorlink/internal/pkg/metrics"
)

func TestCreateDefaultData(t *testing.T) {
	auth.BcryptCost = 4
	ctx := context.Background()
	store := memory.NewStore()
	logger := zerolog.Nop()
	jwtService := auth.NewJWTService(auth.JWTConfig{SecretKey: "seed", AccessTokenExp: time.Hour})
	mentors := services.NewMentorService(store, nil, time.Minute, metrics.New(prometheus.NewRegistry()), logger)
	authService := services.NewAuthService(store, jwtService, auth.NoopTokenStore{}, mentors, logger)

	created, err := CreateDefaultData(ctx, store, authService, logger)
	require.NoError(t, err)
	assert.True(t, created)

	created, err = CreateDefaultData(ctx, store, authService, logger)
	require.NoError(t, err)
	assert.False(t, created)

	listings, err := mentors.ListMentors(ctx, models.MentorFilter{University: "harvard"})
	require.NoError(t, err)
	require.Len(t, listings, 1)
	assert.Equal(t, "mentor1", listings[0].User.Username)

	login, err := authService.Login(ctx, "student1", DefaultPassword)
	require.NoError(t, err)
	assert.Equal(t, models.RoleStudent, login.User.Role)

	admin, err := store.Users().GetByUsername(ctx, "admin")
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, admin.Role)
}
