package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/yigit/mentorlink/internal/app/models"
	"github.com/yigit/mentorlink/internal/pkg/apperrors"
	"github.com/yigit/mentorlink/internal/pkg/dberrors"
	"github.com/yigit/mentorlink/internal/pkg/logger"
)

type studentRepository struct {
	db DBTX
	sb squirrel.StatementBuilderType
}

// CreateProfile creates a student profile
func (r *studentRepository) CreateProfile(ctx context.Context, profile *models.StudentProfile) error {
	scores := profile.TestScores
	if scores == nil {
		scores = map[string]interface{}{}
	}

	sql, args, err := r.sb.Insert("student_profiles").
		Columns("user_id", "target_universities", "test_scores").
		Values(profile.UserID, nonNilStrings(profile.TargetUniversities), scores).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create student profile SQL")
		return fmt.Errorf("failed to build create student profile query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&profile.ID); err != nil {
		if dberrors.IsDuplicateConstraintError(err, ConstraintStudentProfileKey) {
			return apperrors.NewValidationError("Student profile already exists")
		}
		logger.Error().Err(err).Int64("userID", profile.UserID).Msg("Error executing create student profile query")
		return fmt.Errorf("error creating student profile: %w", err)
	}
	return nil
}

// GetProfileByUserID retrieves a student profile by user ID
func (r *studentRepository) GetProfileByUserID(ctx context.Context, userID int64) (*models.StudentProfile, error) {
	var p models.StudentProfile
	sql, args, err := r.sb.Select("id", "user_id", "target_universities", "test_scores").
		From("student_profiles").
		Where(squirrel.Eq{"user_id": userID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get student profile query: %w", err)
	}

	err = r.db.QueryRow(ctx, sql, args...).Scan(&p.ID, &p.UserID, &p.TargetUniversities, &p.TestScores)
	if err != nil {
		if dberrors.IsNoRows(err) {
			return nil, apperrors.NewResourceNotFoundError("Student profile not found")
		}
		logger.Error().Err(err).Int64("userID", userID).Msg("Error scanning student profile row")
		return nil, fmt.Errorf("error retrieving student profile: %w", err)
	}
	return &p, nil
}
