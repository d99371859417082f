package services

import (
	"context"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"github.com/yigit/mentorlink/internal/app/models"
	"github.com/yigit/mentorlink/internal/app/repositories"
	"github.com/yigit/mentorlink/internal/pkg/apperrors"
	"github.com/yigit/mentorlink/internal/pkg/auth"
	"github.com/yigit/mentorlink/internal/pkg/validation"
)

// dummyHash is compared against when the username is unknown so both paths
// cost one bcrypt comparison.
const dummyHash = "$2a$12$C6UzMDM.H6dfI/f/IKcEeO5o7Gk2jX1Nqj6dTLyKlhP7X2wqJ8Wba"

// LoginResult is a successful authentication
type LoginResult struct {
	User        *models.User
	AccessToken string
	ExpiresIn   int64
}

// AuthService handles registration and sessions
type AuthService interface {
	Register(ctx context.Context, reg models.Registration) (*models.UserWithProfile, error)
	Authenticate(ctx context.Context, username, password string) (*models.User, error)
	Login(ctx context.Context, username, password string) (*LoginResult, error)
	Logout(ctx context.Context, claims *auth.Claims) error
	Me(ctx context.Context, identity models.Identity) (*models.UserWithProfile, error)
}

type authServiceImpl struct {
	store      repositories.Store
	jwtService *auth.JWTService
	tokens     auth.TokenStore
	mentors    MentorService
	validate   *validator.Validate
	logger     zerolog.Logger
	now        func() time.Time
}

// NewAuthService creates a new AuthService
func NewAuthService(
	store repositories.Store,
	jwtService *auth.JWTService,
	tokens auth.TokenStore,
	mentors MentorService,
	logger zerolog.Logger,
) AuthService {
	return &authServiceImpl{
		store:      store,
		jwtService: jwtService,
		tokens:     tokens,
		mentors:    mentors,
		validate:   validator.New(),
		logger:     logger,
		now:        time.Now,
	}
}

func (s *authServiceImpl) validateRegistration(reg *models.Registration) error {
	if reg.Profile == nil {
		return apperrors.NewValidationError("Role is required")
	}
	if !validation.ValidUsername(reg.Username) {
		return apperrors.NewValidationError("Username must be 3-50 characters of letters, digits, '.', '-' or '_'")
	}
	if problem := validation.PasswordProblem(reg.Password); problem != "" {
		return apperrors.NewValidationError(problem)
	}
	if reg.Name == "" || len(reg.Name) > validation.NameMaxLength {
		return apperrors.NewValidationError("Name is required")
	}
	if err := s.validate.Var(reg.Email, "required,email"); err != nil {
		return apperrors.NewValidationError("A valid email is required")
	}

	switch p := reg.Profile.(type) {
	case models.StudentRegistration:
		p.TargetUniversities = validation.NonBlank(p.TargetUniversities)
		if len(p.TargetUniversities) == 0 {
			return apperrors.NewValidationError("Students must list at least one target university")
		}
		reg.Profile = p
	case models.MentorRegistration:
		p.Universities = validation.NonBlank(p.Universities)
		p.Expertise = validation.NonBlank(p.Expertise)
		if len(p.Universities) == 0 || len(p.Expertise) == 0 {
			return apperrors.NewValidationError("Mentors must list at least one university and one area of expertise")
		}
		p.Bio = strings.TrimSpace(p.Bio)
		if p.Bio == "" {
			p.Bio = models.DefaultMentorBio
		}
		reg.Profile = p
	case models.AdminRegistration:
	default:
		return apperrors.NewValidationError("Unknown role")
	}
	return nil
}

// Register creates a user and its role profile in one unit of work
func (s *authServiceImpl) Register(ctx context.Context, reg models.Registration) (*models.UserWithProfile, error) {
	reg.Username = strings.TrimSpace(reg.Username)
	reg.Name = strings.TrimSpace(reg.Name)
	reg.Email = strings.TrimSpace(reg.Email)

	if err := s.validateRegistration(&reg); err != nil {
		s.logger.Warn().Err(err).Str("username", reg.Username).Msg("Registration rejected")
		return nil, err
	}

	hash, err := auth.HashPassword(reg.Password)
	if err != nil {
		return nil, storeError(s.logger, err, "Failed to hash password")
	}

	result := &models.UserWithProfile{}
	err = s.store.WithinTransaction(ctx, func(ctx context.Context, tx repositories.Store) error {
		taken, err := tx.Users().UsernameExists(ctx, reg.Username)
		if err != nil {
			return err
		}
		if taken {
			return apperrors.NewCodedValidationError(apperrors.CodeUsernameTaken, "Username already taken")
		}

		user := &models.User{
			Username: reg.Username,
			Password: hash,
			Role:     reg.Role(),
			Name:     reg.Name,
			Email:    reg.Email,
		}
		if err := tx.Users().Create(ctx, user); err != nil {
			return err
		}
		result.User = user

		switch p := reg.Profile.(type) {
		case models.StudentRegistration:
			profile := &models.StudentProfile{
				UserID:             user.ID,
				TargetUniversities: p.TargetUniversities,
				TestScores:         p.TestScores,
			}
			if profile.TestScores == nil {
				profile.TestScores = map[string]interface{}{}
			}
			if err := tx.Students().CreateProfile(ctx, profile); err != nil {
				return err
			}
			result.Student = profile
		case models.MentorRegistration:
			profile := &models.MentorProfile{
				UserID:       user.ID,
				Universities: p.Universities,
				Expertise:    p.Expertise,
				Bio:          p.Bio,
				Rating:       models.DefaultMentorRating,
				Availability: true,
			}
			if err := tx.Mentors().CreateProfile(ctx, profile); err != nil {
				return err
			}
			result.Mentor = profile
		}
		return nil
	})
	if err != nil {
		if !apperrors.Is(err, apperrors.ErrValidationFailed) {
			return nil, storeError(s.logger, err, "Failed to register user")
		}
		s.logger.Warn().Err(err).Str("username", reg.Username).Msg("Registration rejected")
		return nil, err
	}

	if result.Mentor != nil && s.mentors != nil {
		s.mentors.InvalidateDirectory(ctx)
	}

	s.logger.Info().
		Int64("userID", result.User.ID).
		Str("username", result.User.Username).
		Str("role", string(result.User.Role)).
		Msg("User registered")
	return result, nil
}

// Authenticate checks a username and password
func (s *authServiceImpl) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	user, err := s.store.Users().GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if !apperrors.Is(err, apperrors.ErrResourceNotFound) {
			return nil, storeError(s.logger, err, "Failed to load user")
		}
		auth.CheckPassword(dummyHash, password)
		s.logger.Warn().Str("username", username).Msg("Login attempt for unknown user")
		return nil, apperrors.NewUnauthorizedError("Invalid username or password")
	}

	if !auth.CheckPassword(user.Password, password) {
		s.logger.Warn().Int64("userID", user.ID).Msg("Login attempt with wrong password")
		return nil, apperrors.NewUnauthorizedError("Invalid username or password")
	}
	return user, nil
}

// Login authenticates and issues an access token
func (s *authServiceImpl) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	user, err := s.Authenticate(ctx, username, password)
	if err != nil {
		return nil, err
	}

	token, expiresIn, err := s.jwtService.GenerateAccessToken(user)
	if err != nil {
		return nil, storeError(s.logger, err, "Failed to issue access token")
	}

	s.logger.Info().Int64("userID", user.ID).Msg("User logged in")
	return &LoginResult{User: user, AccessToken: token, ExpiresIn: expiresIn}, nil
}

// Logout revokes the presented token until it would have expired
func (s *authServiceImpl) Logout(ctx context.Context, claims *auth.Claims) error {
	if err := s.tokens.Revoke(ctx, claims.ID, claims.RemainingTTL(s.now())); err != nil {
		return storeError(s.logger, err, "Failed to revoke token")
	}
	s.logger.Info().Int64("userID", claims.UserID).Msg("User logged out")
	return nil
}

// Me returns the caller with its role profile
func (s *authServiceImpl) Me(ctx context.Context, identity models.Identity) (*models.UserWithProfile, error) {
	user, err := s.store.Users().GetByID(ctx, identity.UserID)
	if err != nil {
		return nil, storeError(s.logger, err, "Failed to load user")
	}

	result := &models.UserWithProfile{User: user}
	switch user.Role {
	case models.RoleMentor:
		result.Mentor, err = s.store.Mentors().GetProfileByUserID(ctx, user.ID)
	case models.RoleStudent:
		result.Student, err = s.store.Students().GetProfileByUserID(ctx, user.ID)
	}
	if err != nil {
		return nil, storeError(s.logger, err, "Failed to load profile")
	}
	return result, nil
}
