package services

import (
	"context"
	"encoding/json"
	"errors"
	"path"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"github.com/yigit/mentorlink/internal/app/models"
	"github.com/yigit/mentorlink/internal/app/repositories"
	"github.com/yigit/mentorlink/internal/app/repositories/memory"
	"github.com/yigit/mentorlink/internal/pkg/auth"
	"github.com/yigit/mentorlink/internal/pkg/metrics"
)

const testPassword = "password123"

func init() {
	auth.BcryptCost = 4
}

type fixture struct {
	store    repositories.Store
	cache    *fakeCache
	metrics  *metrics.Metrics
	registry *prometheus.Registry
	jwt      *auth.JWTService
	services *Services
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	return newFixtureWithStore(t, memory.NewStore())
}

func newFixtureWithStore(t *testing.T, store repositories.Store) *fixture {
	t.Helper()

	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	cache := newFakeCache()
	jwtService := auth.NewJWTService(auth.JWTConfig{
		SecretKey:      "test-secret",
		AccessTokenExp: time.Hour,
		TokenIssuer:    "mentorlink-test",
	})
	logger := zerolog.Nop()

	mentors := NewMentorService(store, cache, time.Minute, m, logger)
	return &fixture{
		store:    store,
		cache:    cache,
		metrics:  m,
		registry: reg,
		jwt:      jwtService,
		services: &Services{
			Auth:     NewAuthService(store, jwtService, auth.NoopTokenStore{}, mentors, logger),
			Mentors:  mentors,
			Requests: NewRequestService(store, m, logger),
			Messages: NewMessageService(store, m, logger),
		},
	}
}

func (f *fixture) registerStudent(t *testing.T, username string) *models.User {
	t.Helper()
	res, err := f.services.Auth.Register(context.Background(), models.Registration{
		Username: username,
		Password: testPassword,
		Name:     "Student " + username,
		Email:    username + "@example.com",
		Profile: models.StudentRegistration{
			TargetUniversities: []string{"MIT"},
			TestScores:         map[string]interface{}{"SAT": 1450},
		},
	})
	require.NoError(t, err)
	return res.User
}

func (f *fixture) registerMentor(t *testing.T, username string, universities, expertise []string) *models.User {
	t.Helper()
	res, err := f.services.Auth.Register(context.Background(), models.Registration{
		Username: username,
		Password: testPassword,
		Name:     "Mentor " + username,
		Email:    username + "@example.com",
		Profile: models.MentorRegistration{
			Universities: universities,
			Expertise:    expertise,
		},
	})
	require.NoError(t, err)
	return res.User
}

// fakeCache is a DirectoryCache on a map. It stores JSON like Redis does.
type fakeCache struct {
	mu      sync.Mutex
	entries map[string][]byte
	err     error
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: make(map[string][]byte)}
}

func (c *fakeCache) GetJSON(_ context.Context, key string, out any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return false, c.err
	}
	b, ok := c.entries[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(b, out)
}

func (c *fakeCache) SetJSON(_ context.Context, key string, value any, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return c.err
	}
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.entries[key] = b
	return nil
}

func (c *fakeCache) DeleteByPattern(_ context.Context, pattern string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return c.err
	}
	for key := range c.entries {
		if ok, _ := path.Match(pattern, key); ok {
			delete(c.entries, key)
		}
	}
	return nil
}

func (c *fakeCache) keys() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, 0, len(c.entries))
	for key := range c.entries {
		out = append(out, key)
	}
	return out
}

var errInjected = errors.New("injected failure")

// failingStore fails profile inserts, including inside transactions.
type failingStore struct {
	repositories.Store
}

func (s failingStore) Students() repositories.StudentRepository {
	return failingStudents{s.Store.Students()}
}

func (s failingStore) Mentors() repositories.MentorRepository {
	return failingMentors{s.Store.Mentors()}
}

func (s failingStore) WithinTransaction(ctx context.Context, fn repositories.TxFn) error {
	return s.Store.WithinTransaction(ctx, func(ctx context.Context, tx repositories.Store) error {
		return fn(ctx, failingStore{tx})
	})
}

type failingStudents struct {
	repositories.StudentRepository
}

func (failingStudents) CreateProfile(context.Context, *models.StudentProfile) error {
	return errInjected
}

type failingMentors struct {
	repositories.MentorRepository
}

func (failingMentors) CreateProfile(context.Context, *models.MentorProfile) error {
	return errInjected
}

// counter reads a counter from the fixture registry. labels must match exactly.
func (f *fixture) counter(t *testing.T, name string, labels map[string]string) float64 {
	t.Helper()
	families, err := f.registry.Gather()
	require.NoError(t, err)
	for _, family := range families {
		if family.GetName() != name {
			continue
		}
		for _, metric := range family.GetMetric() {
			if len(metric.GetLabel()) != len(labels) {
				continue
			}
			match := true
			for _, pair := range metric.GetLabel() {
				if labels[pair.GetName()] != pair.GetValue() {
					match = false
				}
			}
			if match {
				return metric.GetCounter().GetValue()
			}
		}
	}
	return 0
}
