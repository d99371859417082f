package services

import (
	"context"
	"strings"

	"github.com/rs/zerolog"
	appauth "github.com/yigit/mentorlink/internal/app/auth"
	"github.com/yigit/mentorlink/internal/app/models"
	"github.com/yigit/mentorlink/internal/app/repositories"
	"github.com/yigit/mentorlink/internal/pkg/apperrors"
	"github.com/yigit/mentorlink/internal/pkg/metrics"
)

// MessageService is the messaging gate. Status and participancy are read
// from the store on every call.
type MessageService interface {
	SendMessage(ctx context.Context, identity models.Identity, requestID int64, content string) (*models.MessageWithSender, error)
	// ListMessages returns the thread in order. afterID > 0 returns only
	// messages with a greater id.
	ListMessages(ctx context.Context, identity models.Identity, requestID, afterID int64) ([]models.MessageWithSender, error)
}

type messageServiceImpl struct {
	store   repositories.Store
	metrics *metrics.Metrics
	logger  zerolog.Logger
}

// NewMessageService creates a new MessageService
func NewMessageService(store repositories.Store, m *metrics.Metrics, logger zerolog.Logger) MessageService {
	return &messageServiceImpl{
		store:   store,
		metrics: m,
		logger:  logger,
	}
}

// SendMessage appends a message to an accepted request's thread
func (s *messageServiceImpl) SendMessage(ctx context.Context, identity models.Identity, requestID int64, content string) (*models.MessageWithSender, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, apperrors.NewValidationError("Message content is required")
	}

	result := &models.MessageWithSender{}
	err := s.store.WithinTransaction(ctx, func(ctx context.Context, tx repositories.Store) error {
		request, err := tx.Requests().GetByIDForUpdate(ctx, requestID)
		if err != nil {
			return err
		}
		if err := appauth.RequireParticipant(identity, request); err != nil {
			s.metrics.GateDenied(metrics.DenyNotParticipant)
			return err
		}
		if err := appauth.RequireOpenThread(request); err != nil {
			s.metrics.GateDenied(metrics.DenyNotAccepted)
			return err
		}

		result.Message = models.Message{
			RequestID: requestID,
			SenderID:  identity.UserID,
			Content:   content,
		}
		if err := tx.Messages().Create(ctx, &result.Message); err != nil {
			return err
		}

		result.Sender, err = tx.Users().GetByID(ctx, identity.UserID)
		return err
	})
	if err != nil {
		if apperrors.Is(err, apperrors.ErrPermissionDenied, apperrors.ErrInvalidState) {
			s.logger.Warn().Err(err).Int64("requestID", requestID).Int64("userID", identity.UserID).Msg("Message refused")
		}
		return nil, storeError(s.logger, err, "Failed to send message")
	}

	s.metrics.MessageSent()
	s.logger.Debug().
		Int64("requestID", requestID).
		Int64("messageID", result.ID).
		Int64("userID", identity.UserID).
		Msg("Message sent")
	return result, nil
}

// ListMessages returns a request's thread to one of its participants
func (s *messageServiceImpl) ListMessages(ctx context.Context, identity models.Identity, requestID, afterID int64) ([]models.MessageWithSender, error) {
	request, err := s.store.Requests().GetByID(ctx, requestID)
	if err != nil {
		return nil, storeError(s.logger, err, "Failed to load request")
	}
	if err := appauth.RequireParticipant(identity, request); err != nil {
		s.metrics.GateDenied(metrics.DenyNotParticipant)
		return nil, err
	}

	messages, err := s.store.Messages().ListByRequest(ctx, requestID, afterID)
	if err != nil {
		return nil, storeError(s.logger, err, "Failed to list messages")
	}

	users, err := s.store.Users().GetByIDs(ctx, []int64{request.StudentID, request.MentorID})
	if err != nil {
		return nil, storeError(s.logger, err, "Failed to load message senders")
	}

	out := make([]models.MessageWithSender, 0, len(messages))
	for _, m := range messages {
		out = append(out, models.MessageWithSender{Message: m, Sender: users[m.SenderID]})
	}
	return out, nil
}
