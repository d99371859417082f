package repositories_test

import (
	"context"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/mentorlink/internal/app/migrations"
	"github.com/yigit/mentorlink/internal/app/models"
	"github.com/yigit/mentorlink/internal/app/repositories"
	"github.com/yigit/mentorlink/internal/app/services"
	"github.com/yigit/mentorlink/internal/pkg/apperrors"
)

// testDatabaseURLEnv names the Postgres DSN the integration tests run against.
const testDatabaseURLEnv = "MENTORLINK_TEST_DATABASE_URL"

// connectTestStore migrates a throwaway schema and returns a store bound to it.
func connectTestStore(t *testing.T, ctx context.Context) *repositories.PostgresStore {
	t.Helper()

	dsn := os.Getenv(testDatabaseURLEnv)
	if dsn == "" {
		t.Skipf("%s not set; skipping Postgres integration test", testDatabaseURLEnv)
	}

	admin, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(admin.Close)

	schema := fmt.Sprintf("mentorlink_test_%d", time.Now().UnixNano())
	_, err = admin.Exec(ctx, "CREATE SCHEMA "+schema)
	require.NoError(t, err)
	t.Cleanup(func() {
		_, _ = admin.Exec(context.Background(), "DROP SCHEMA "+schema+" CASCADE")
	})

	cfg, err := pgxpool.ParseConfig(dsn)
	require.NoError(t, err)
	cfg.ConnConfig.RuntimeParams["search_path"] = schema
	cfg.MaxConns = 10

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	_, err = migrations.NewMigrator(pool).Up(ctx)
	require.NoError(t, err)

	return repositories.NewPostgresStore(pool)
}

func insertUser(t *testing.T, ctx context.Context, store repositories.Store, username string, role models.RoleType) *models.User {
	t.Helper()
	u := &models.User{Username: username, Password: "hash", Role: role, Name: username, Email: username + "@example.com"}
	require.NoError(t, store.Users().Create(ctx, u))
	return u
}

func insertMentor(t *testing.T, ctx context.Context, store repositories.Store, username string, universities, expertise []string) *models.User {
	t.Helper()
	u := insertUser(t, ctx, store, username, models.RoleMentor)
	require.NoError(t, store.Mentors().CreateProfile(ctx, &models.MentorProfile{
		UserID:       u.ID,
		Universities: universities,
		Expertise:    expertise,
		Rating:       models.DefaultMentorRating,
		Availability: true,
	}))
	return u
}

func TestIntegration_Postgres_StatusDecisionsAreExclusive(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()
	store := connectTestStore(t, ctx)

	student := insertUser(t, ctx, store, "student1", models.RoleStudent)
	mentor := insertMentor(t, ctx, store, "mentor1", []string{"MIT"}, []string{"Math"})

	requestService := services.NewRequestService(store, nil, zerolog.Nop())
	req, err := requestService.CreateRequest(ctx, models.Identity{UserID: student.ID, Role: models.RoleStudent}, mentor.ID, "Please help")
	require.NoError(t, err)

	const deciders = 8
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
		failures  []error
	)
	for i := 0; i < deciders; i++ {
		status := models.RequestStatusAccepted
		if i%2 == 1 {
			status = models.RequestStatusRejected
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := requestService.UpdateRequestStatus(ctx, models.Identity{UserID: mentor.ID, Role: models.RoleMentor}, req.ID, status)
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				successes++
				return
			}
			failures = append(failures, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, successes)
	require.Len(t, failures, deciders-1)
	for _, err := range failures {
		assert.ErrorIs(t, err, apperrors.ErrInvalidTransition)
	}

	updated, err := store.Requests().UpdateStatusFromPending(ctx, req.ID, models.RequestStatusRejected)
	require.NoError(t, err)
	assert.False(t, updated, "a decided request is never updated again")
}

func TestIntegration_Postgres_UniqueConstraints(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()
	store := connectTestStore(t, ctx)

	student := insertUser(t, ctx, store, "student1", models.RoleStudent)
	mentor := insertMentor(t, ctx, store, "mentor1", []string{"MIT"}, []string{"Math"})

	err := store.Users().Create(ctx, &models.User{Username: "student1", Password: "hash", Role: models.RoleStudent, Name: "Dup", Email: "dup@example.com"})
	require.ErrorIs(t, err, apperrors.ErrValidationFailed)
	assert.Equal(t, apperrors.CodeUsernameTaken, apperrors.CodeOf(err))

	first := &models.Request{StudentID: student.ID, MentorID: mentor.ID, Message: "one", Status: models.RequestStatusPending}
	require.NoError(t, store.Requests().Create(ctx, first))

	// The index alone refuses a second live request, without the service pre-check.
	err = store.Requests().Create(ctx, &models.Request{StudentID: student.ID, MentorID: mentor.ID, Message: "two", Status: models.RequestStatusPending})
	require.ErrorIs(t, err, apperrors.ErrValidationFailed)
	assert.Equal(t, apperrors.CodeDuplicateRequest, apperrors.CodeOf(err))

	updated, err := store.Requests().UpdateStatusFromPending(ctx, first.ID, models.RequestStatusRejected)
	require.NoError(t, err)
	require.True(t, updated)

	again := &models.Request{StudentID: student.ID, MentorID: mentor.ID, Message: "three", Status: models.RequestStatusPending}
	assert.NoError(t, store.Requests().Create(ctx, again), "a rejected pair may request again")
}

func TestIntegration_Postgres_MentorFilterIsLiteral(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()
	store := connectTestStore(t, ctx)

	plain := insertMentor(t, ctx, store, "plain", []string{"Harvard"}, []string{"math"})
	wildcard := insertMentor(t, ctx, store, "wildcard", []string{"Har_vard 100%"}, []string{"Zoology"})
	backslash := insertMentor(t, ctx, store, "backslash", []string{`C\S Institute`}, []string{"Biology"})

	tests := []struct {
		name   string
		filter models.MentorFilter
		want   []int64
	}{
		{name: "case insensitive", filter: models.MentorFilter{University: "HARVARD"}, want: []int64{plain.ID}},
		{name: "underscore is literal", filter: models.MentorFilter{University: "r_v"}, want: []int64{wildcard.ID}},
		{name: "percent is literal", filter: models.MentorFilter{University: "100%"}, want: []int64{wildcard.ID}},
		{name: "backslash is literal", filter: models.MentorFilter{University: `\`}, want: []int64{backslash.ID}},
		{name: "filters combine", filter: models.MentorFilter{University: "har", Expertise: "zoo"}, want: []int64{wildcard.ID}},
		{name: "blank filter", filter: models.MentorFilter{}, want: []int64{plain.ID, wildcard.ID, backslash.ID}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			listings, err := store.Mentors().List(ctx, tt.filter)
			require.NoError(t, err)
			ids := make([]int64, 0, len(listings))
			for _, l := range listings {
				ids = append(ids, l.User.ID)
			}
			assert.Equal(t, tt.want, ids)
		})
	}

	facets, err := store.Mentors().Facets(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Biology", "Zoology", "math"}, facets.Expertise)
}
