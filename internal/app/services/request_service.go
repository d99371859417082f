package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	appauth "github.com/yigit/mentorlink/internal/app/auth"
	"github.com/yigit/mentorlink/internal/app/models"
	"github.com/yigit/mentorlink/internal/app/repositories"
	"github.com/yigit/mentorlink/internal/pkg/apperrors"
	"github.com/yigit/mentorlink/internal/pkg/metrics"
)

// RequestService drives the mentorship request lifecycle
type RequestService interface {
	CreateRequest(ctx context.Context, identity models.Identity, mentorID int64, message string) (*models.Request, error)
	UpdateRequestStatus(ctx context.Context, identity models.Identity, requestID int64, status models.RequestStatus) (*models.Request, error)
	ListRequests(ctx context.Context, identity models.Identity) ([]models.RequestDetail, error)
}

type requestServiceImpl struct {
	store   repositories.Store
	metrics *metrics.Metrics
	logger  zerolog.Logger
}

// NewRequestService creates a new RequestService
func NewRequestService(store repositories.Store, m *metrics.Metrics, logger zerolog.Logger) RequestService {
	return &requestServiceImpl{
		store:   store,
		metrics: m,
		logger:  logger,
	}
}

// CreateRequest sends a pending request from a student to a mentor
func (s *requestServiceImpl) CreateRequest(ctx context.Context, identity models.Identity, mentorID int64, message string) (*models.Request, error) {
	if err := appauth.RequireRole(identity, models.RoleStudent, "Only students can send requests"); err != nil {
		return nil, err
	}

	message = strings.TrimSpace(message)
	if message == "" {
		return nil, apperrors.NewValidationError("Message is required")
	}

	request := &models.Request{
		StudentID: identity.UserID,
		MentorID:  mentorID,
		Message:   message,
		Status:    models.RequestStatusPending,
	}

	err := s.store.WithinTransaction(ctx, func(ctx context.Context, tx repositories.Store) error {
		mentor, err := tx.Users().GetByID(ctx, mentorID)
		if err != nil {
			if apperrors.Is(err, apperrors.ErrResourceNotFound) {
				return apperrors.NewValidationError("Mentor not found")
			}
			return err
		}
		if mentor.Role != models.RoleMentor {
			return apperrors.NewValidationError("Requests can only be sent to mentors")
		}

		live, err := tx.Requests().ExistsLive(ctx, identity.UserID, mentorID)
		if err != nil {
			return err
		}
		if live {
			return apperrors.NewCodedValidationError(apperrors.CodeDuplicateRequest, "A request to this mentor is already pending or accepted")
		}

		return tx.Requests().Create(ctx, request)
	})
	if err != nil {
		return nil, storeError(s.logger, err, "Failed to create request")
	}

	s.metrics.RequestCreated()
	s.logger.Info().
		Int64("requestID", request.ID).
		Int64("studentID", request.StudentID).
		Int64("mentorID", request.MentorID).
		Msg("Request created")
	return request, nil
}

// UpdateRequestStatus applies a mentor's decision to a pending request
func (s *requestServiceImpl) UpdateRequestStatus(ctx context.Context, identity models.Identity, requestID int64, status models.RequestStatus) (*models.Request, error) {
	if !status.IsValid() {
		return nil, apperrors.NewValidationError(fmt.Sprintf("Unknown status %q", status))
	}
	if err := appauth.RequireRole(identity, models.RoleMentor, "Only mentors can decide on requests"); err != nil {
		return nil, err
	}

	var request *models.Request
	err := s.store.WithinTransaction(ctx, func(ctx context.Context, tx repositories.Store) error {
		var err error
		request, err = tx.Requests().GetByIDForUpdate(ctx, requestID)
		if err != nil {
			return err
		}
		if err := appauth.CanDecide(identity, request); err != nil {
			return err
		}
		if !request.Status.CanTransitionTo(status) {
			return apperrors.NewInvalidTransitionError(
				fmt.Sprintf("Cannot change status from %s to %s", request.Status, status))
		}

		updated, err := tx.Requests().UpdateStatusFromPending(ctx, requestID, status)
		if err != nil {
			return err
		}
		if !updated {
			return apperrors.NewInvalidTransitionError("Request was already decided")
		}
		request.Status = status
		return nil
	})
	if err != nil {
		if apperrors.Is(err, apperrors.ErrInvalidTransition, apperrors.ErrPermissionDenied) {
			s.logger.Warn().Err(err).Int64("requestID", requestID).Int64("userID", identity.UserID).Msg("Status change refused")
		}
		return nil, storeError(s.logger, err, "Failed to update request status")
	}

	s.metrics.StatusTransition(string(status))
	s.logger.Info().
		Int64("requestID", requestID).
		Int64("userID", identity.UserID).
		Str("status", string(status)).
		Msg("Request status changed")
	return request, nil
}

// ListRequests returns the requests visible to the caller, newest first
func (s *requestServiceImpl) ListRequests(ctx context.Context, identity models.Identity) ([]models.RequestDetail, error) {
	var filter repositories.RequestFilter
	switch identity.Role {
	case models.RoleStudent:
		filter.StudentID = identity.UserID
	case models.RoleMentor:
		filter.MentorID = identity.UserID
	case models.RoleAdmin:
	default:
		return nil, apperrors.NewForbiddenError("Unknown role")
	}

	requests, err := s.store.Requests().List(ctx, filter)
	if err != nil {
		return nil, storeError(s.logger, err, "Failed to list requests")
	}

	ids := make([]int64, 0, len(requests)*2)
	for _, r := range requests {
		ids = append(ids, r.StudentID, r.MentorID)
	}
	users, err := s.store.Users().GetByIDs(ctx, ids)
	if err != nil {
		return nil, storeError(s.logger, err, "Failed to load request participants")
	}

	details := make([]models.RequestDetail, 0, len(requests))
	for _, r := range requests {
		d := models.RequestDetail{Request: r}
		if identity.Role != models.RoleStudent {
			d.Student = users[r.StudentID]
		}
		if identity.Role != models.RoleMentor {
			d.Mentor = users[r.MentorID]
		}
		details = append(details, d)
	}
	return details, nil
}
