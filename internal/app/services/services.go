// Package services implements the core operations. Every operation takes the
// caller's models.Identity explicitly and returns apperrors kinds.
package services

import (
	"errors"

	"github.com/rs/zerolog"
	"github.com/yigit/mentorlink/internal/pkg/apperrors"
)

// Services groups the application services
type Services struct {
	Auth     AuthService
	Mentors  MentorService
	Requests RequestService
	Messages MessageService
}

// storeError passes typed errors through and turns anything else into an
// internal error, logging the cause.
func storeError(logger zerolog.Logger, err error, message string) error {
	var ce *apperrors.CustomError
	if errors.As(err, &ce) {
		return err
	}
	logger.Error().Err(err).Msg(message)
	return apperrors.NewInternalError(message, err)
}
