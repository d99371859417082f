package services

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/yigit/mentorlink/internal/app/models"
	"github.com/yigit/mentorlink/internal/app/repositories"
	"github.com/yigit/mentorlink/internal/pkg/apperrors"
	"github.com/yigit/mentorlink/internal/pkg/helpers"
	"github.com/yigit/mentorlink/internal/pkg/metrics"
)

// Top mentor limits
const (
	DefaultTopMentors = 3
	MaxTopMentors     = 50
)

const mentorCachePrefix = "mentors:"

// DirectoryCache stores mentor directory results. *cache.Redis implements it.
type DirectoryCache interface {
	GetJSON(ctx context.Context, key string, out any) (bool, error)
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error
	DeleteByPattern(ctx context.Context, pattern string) error
}

// MentorService handles mentor discovery
type MentorService interface {
	ListMentors(ctx context.Context, filter models.MentorFilter) ([]models.MentorListing, error)
	GetMentor(ctx context.Context, userID int64) (*models.MentorListing, error)
	TopMentors(ctx context.Context, limit int) ([]models.MentorListing, error)
	Facets(ctx context.Context) (*models.MentorFacets, error)
	// InvalidateDirectory drops every cached directory result.
	InvalidateDirectory(ctx context.Context)
}

type mentorServiceImpl struct {
	store   repositories.Store
	cache   DirectoryCache
	ttl     time.Duration
	metrics *metrics.Metrics
	logger  zerolog.Logger
}

// NewMentorService creates a new MentorService. cache may be nil.
func NewMentorService(store repositories.Store, cache DirectoryCache, ttl time.Duration, m *metrics.Metrics, logger zerolog.Logger) MentorService {
	return &mentorServiceImpl{
		store:   store,
		cache:   cache,
		ttl:     ttl,
		metrics: m,
		logger:  logger,
	}
}

// cached serves key from the cache or fills it with load. Cache failures are
// logged and treated as a miss.
func cached[T any](ctx context.Context, s *mentorServiceImpl, key string, load func() (T, error)) (T, error) {
	if s.cache != nil {
		var hit T
		found, err := s.cache.GetJSON(ctx, key, &hit)
		if err != nil {
			s.logger.Warn().Err(err).Str("key", key).Msg("Mentor cache read failed")
		}
		s.metrics.CacheLookup(found && err == nil)
		if found && err == nil {
			return hit, nil
		}
	}

	value, err := load()
	if err != nil {
		return value, err
	}

	if s.cache != nil {
		if err := s.cache.SetJSON(ctx, key, value, s.ttl); err != nil {
			s.logger.Warn().Err(err).Str("key", key).Msg("Mentor cache write failed")
		}
	}
	return value, nil
}

func listCacheKey(filter models.MentorFilter) string {
	return fmt.Sprintf("%slist:u=%s:e=%s", mentorCachePrefix,
		url.QueryEscape(strings.ToLower(filter.University)),
		url.QueryEscape(strings.ToLower(filter.Expertise)))
}

// ListMentors returns mentors matching the filter ordered by id
func (s *mentorServiceImpl) ListMentors(ctx context.Context, filter models.MentorFilter) ([]models.MentorListing, error) {
	filter = filter.Normalized()
	return cached(ctx, s, listCacheKey(filter), func() ([]models.MentorListing, error) {
		listings, err := s.store.Mentors().List(ctx, filter)
		if err != nil {
			return nil, storeError(s.logger, err, "Failed to list mentors")
		}
		return listings, nil
	})
}

// GetMentor returns one mentor with its profile
func (s *mentorServiceImpl) GetMentor(ctx context.Context, userID int64) (*models.MentorListing, error) {
	user, err := s.store.Users().GetByID(ctx, userID)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrResourceNotFound) {
			return nil, apperrors.NewResourceNotFoundError("Mentor not found")
		}
		return nil, storeError(s.logger, err, "Failed to load mentor")
	}
	if user.Role != models.RoleMentor {
		return nil, apperrors.NewResourceNotFoundError("Mentor not found")
	}

	profile, err := s.store.Mentors().GetProfileByUserID(ctx, userID)
	if err != nil {
		return nil, storeError(s.logger, err, "Failed to load mentor profile")
	}
	return &models.MentorListing{User: user, Profile: profile}, nil
}

// TopMentors returns the best rated mentors
func (s *mentorServiceImpl) TopMentors(ctx context.Context, limit int) ([]models.MentorListing, error) {
	limit = helpers.ClampLimit(limit, DefaultTopMentors, MaxTopMentors)
	key := fmt.Sprintf("%stop:%d", mentorCachePrefix, limit)
	return cached(ctx, s, key, func() ([]models.MentorListing, error) {
		listings, err := s.store.Mentors().Top(ctx, limit)
		if err != nil {
			return nil, storeError(s.logger, err, "Failed to list top mentors")
		}
		return listings, nil
	})
}

// Facets returns the values mentors can be filtered by
func (s *mentorServiceImpl) Facets(ctx context.Context) (*models.MentorFacets, error) {
	return cached(ctx, s, mentorCachePrefix+"facets", func() (*models.MentorFacets, error) {
		facets, err := s.store.Mentors().Facets(ctx)
		if err != nil {
			return nil, storeError(s.logger, err, "Failed to load mentor facets")
		}
		return facets, nil
	})
}

// InvalidateDirectory drops cached directory results
func (s *mentorServiceImpl) InvalidateDirectory(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.DeleteByPattern(ctx, mentorCachePrefix+"*"); err != nil {
		s.logger.Warn().Err(err).Msg("Mentor cache invalidation failed")
	}
}
