package repositories

import (
	"context"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/yigit/mentorlink/internal/app/models"
	"github.com/yigit/mentorlink/internal/pkg/apperrors"
	"github.com/yigit/mentorlink/internal/pkg/dberrors"
	"github.com/yigit/mentorlink/internal/pkg/logger"
)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern builds an ILIKE pattern matching value as a literal substring.
func containsPattern(value string) string {
	return "%" + likeEscaper.Replace(value) + "%"
}

type mentorRepository struct {
	db DBTX
	sb squirrel.StatementBuilderType
}

// CreateProfile creates a mentor profile
func (r *mentorRepository) CreateProfile(ctx context.Context, profile *models.MentorProfile) error {
	sql, args, err := r.sb.Insert("mentor_profiles").
		Columns("user_id", "universities", "expertise", "bio", "rating", "availability").
		Values(profile.UserID, nonNilStrings(profile.Universities), nonNilStrings(profile.Expertise),
			profile.Bio, profile.Rating, profile.Availability).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create mentor profile SQL")
		return fmt.Errorf("failed to build create mentor profile query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&profile.ID); err != nil {
		if dberrors.IsDuplicateConstraintError(err, ConstraintMentorProfileKey) {
			return apperrors.NewValidationError("Mentor profile already exists")
		}
		logger.Error().Err(err).Int64("userID", profile.UserID).Msg("Error executing create mentor profile query")
		return fmt.Errorf("error creating mentor profile: %w", err)
	}
	return nil
}

// GetProfileByUserID retrieves a mentor profile by user ID
func (r *mentorRepository) GetProfileByUserID(ctx context.Context, userID int64) (*models.MentorProfile, error) {
	var p models.MentorProfile
	sql, args, err := r.sb.Select("id", "user_id", "universities", "expertise", "bio", "rating", "availability").
		From("mentor_profiles").
		Where(squirrel.Eq{"user_id": userID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get mentor profile query: %w", err)
	}

	err = r.db.QueryRow(ctx, sql, args...).Scan(
		&p.ID, &p.UserID, &p.Universities, &p.Expertise, &p.Bio, &p.Rating, &p.Availability)
	if err != nil {
		if dberrors.IsNoRows(err) {
			return nil, apperrors.NewResourceNotFoundError("Mentor not found")
		}
		logger.Error().Err(err).Int64("userID", userID).Msg("Error scanning mentor profile row")
		return nil, fmt.Errorf("error retrieving mentor profile: %w", err)
	}
	return &p, nil
}

func (r *mentorRepository) listingQuery() squirrel.SelectBuilder {
	return r.sb.Select(
		"u.id", "u.username", "u.password", "u.role", "u.name", "u.email", "u.created_at",
		"mp.id", "mp.user_id", "mp.universities", "mp.expertise", "mp.bio", "mp.rating", "mp.availability").
		From("users u").
		Join("mentor_profiles mp ON mp.user_id = u.id").
		Where(squirrel.Eq{"u.role": models.RoleMentor})
}

// List returns mentors matching the filter
func (r *mentorRepository) List(ctx context.Context, filter models.MentorFilter) ([]models.MentorListing, error) {
	filter = filter.Normalized()
	q := r.listingQuery()
	if filter.University != "" {
		q = q.Where("EXISTS (SELECT 1 FROM unnest(mp.universities) AS uni(v) WHERE uni.v ILIKE ?)", containsPattern(filter.University))
	}
	if filter.Expertise != "" {
		q = q.Where("EXISTS (SELECT 1 FROM unnest(mp.expertise) AS exp(v) WHERE exp.v ILIKE ?)", containsPattern(filter.Expertise))
	}

	sql, args, err := q.OrderBy("u.id ASC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list mentors query: %w", err)
	}
	return r.queryListings(ctx, sql, args)
}

// Top returns the highest rated mentors
func (r *mentorRepository) Top(ctx context.Context, limit int) ([]models.MentorListing, error) {
	sql, args, err := r.listingQuery().
		OrderBy("mp.rating DESC", "u.id ASC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build top mentors query: %w", err)
	}
	return r.queryListings(ctx, sql, args)
}

func (r *mentorRepository) queryListings(ctx context.Context, sql string, args []interface{}) ([]models.MentorListing, error) {
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error querying mentors")
		return nil, fmt.Errorf("error listing mentors: %w", err)
	}
	defer rows.Close()

	listings := make([]models.MentorListing, 0)
	for rows.Next() {
		var u models.User
		var p models.MentorProfile
		if err := rows.Scan(
			&u.ID, &u.Username, &u.Password, &u.Role, &u.Name, &u.Email, &u.CreatedAt,
			&p.ID, &p.UserID, &p.Universities, &p.Expertise, &p.Bio, &p.Rating, &p.Availability,
		); err != nil {
			return nil, fmt.Errorf("error scanning mentor row: %w", err)
		}
		listings = append(listings, models.MentorListing{User: &u, Profile: &p})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating mentor rows: %w", err)
	}
	return listings, nil
}

// Facets returns the distinct universities and expertise tags of all mentors
func (r *mentorRepository) Facets(ctx context.Context) (*models.MentorFacets, error) {
	universities, err := r.distinct(ctx, "universities")
	if err != nil {
		return nil, err
	}
	expertise, err := r.distinct(ctx, "expertise")
	if err != nil {
		return nil, err
	}
	return &models.MentorFacets{Universities: universities, Expertise: expertise}, nil
}

func (r *mentorRepository) distinct(ctx context.Context, column string) ([]string, error) {
	// Byte order, so facets sort the same on every driver.
	sql, args, err := r.sb.Select(`DISTINCT v COLLATE "C" AS v`).
		From(fmt.Sprintf("mentor_profiles, unnest(%s) AS v", column)).
		OrderBy("v").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build %s facet query: %w", column, err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Str("column", column).Msg("Error querying mentor facets")
		return nil, fmt.Errorf("error listing %s: %w", column, err)
	}
	values, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("error scanning %s: %w", column, err)
	}
	return nonNilStrings(values), nil
}

func nonNilStrings(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
