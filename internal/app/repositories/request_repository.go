package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/yigit/mentorlink/internal/app/models"
	"github.com/yigit/mentorlink/internal/pkg/apperrors"
	"github.com/yigit/mentorlink/internal/pkg/dberrors"
	"github.com/yigit/mentorlink/internal/pkg/logger"
)

var requestColumns = []string{"id", "student_id", "mentor_id", "message", "status", "created_at"}

var liveStatuses = []models.RequestStatus{models.RequestStatusPending, models.RequestStatusAccepted}

type requestRepository struct {
	db DBTX
	sb squirrel.StatementBuilderType
}

func scanRequest(row pgx.Row) (*models.Request, error) {
	var req models.Request
	if err := row.Scan(&req.ID, &req.StudentID, &req.MentorID, &req.Message, &req.Status, &req.CreatedAt); err != nil {
		return nil, err
	}
	return &req, nil
}

// Create creates a new request
func (r *requestRepository) Create(ctx context.Context, request *models.Request) error {
	sql, args, err := r.sb.Insert("requests").
		Columns("student_id", "mentor_id", "message", "status").
		Values(request.StudentID, request.MentorID, request.Message, request.Status).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create request SQL")
		return fmt.Errorf("failed to build create request query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&request.ID, &request.CreatedAt); err != nil {
		if dberrors.IsDuplicateConstraintError(err, ConstraintLiveRequestPair) {
			logger.Warn().Int64("studentID", request.StudentID).Int64("mentorID", request.MentorID).Msg("Live request already exists for pair")
			return apperrors.NewCodedValidationError(apperrors.CodeDuplicateRequest, "A request to this mentor is already pending or accepted")
		}
		logger.Error().Err(err).Int64("studentID", request.StudentID).Msg("Error executing create request query")
		return fmt.Errorf("error creating request: %w", err)
	}
	return nil
}

// GetByID retrieves a request by ID
func (r *requestRepository) GetByID(ctx context.Context, id int64) (*models.Request, error) {
	return r.get(ctx, id, "")
}

// GetByIDForUpdate retrieves a request by ID holding a row lock
func (r *requestRepository) GetByIDForUpdate(ctx context.Context, id int64) (*models.Request, error) {
	return r.get(ctx, id, "FOR UPDATE")
}

func (r *requestRepository) get(ctx context.Context, id int64, suffix string) (*models.Request, error) {
	q := r.sb.Select(requestColumns...).
		From("requests").
		Where(squirrel.Eq{"id": id})
	if suffix != "" {
		q = q.Suffix(suffix)
	}
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get request query: %w", err)
	}

	req, err := scanRequest(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if dberrors.IsNoRows(err) {
			return nil, apperrors.NewResourceNotFoundError("Request not found")
		}
		logger.Error().Err(err).Int64("requestID", id).Msg("Error scanning request row")
		return nil, fmt.Errorf("error retrieving request: %w", err)
	}
	return req, nil
}

// UpdateStatusFromPending changes status only while the request is pending
func (r *requestRepository) UpdateStatusFromPending(ctx context.Context, id int64, status models.RequestStatus) (bool, error) {
	sql, args, err := r.sb.Update("requests").
		Set("status", status).
		Where(squirrel.Eq{"id": id, "status": models.RequestStatusPending}).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("failed to build update request status query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("requestID", id).Str("status", string(status)).Msg("Error updating request status")
		return false, fmt.Errorf("error updating request status: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// ExistsLive checks for a pending or accepted request between the pair
func (r *requestRepository) ExistsLive(ctx context.Context, studentID, mentorID int64) (bool, error) {
	var exists bool
	sql, args, err := r.sb.Select("1").
		From("requests").
		Where(squirrel.Eq{"student_id": studentID, "mentor_id": mentorID, "status": liveStatuses}).
		Prefix("SELECT EXISTS (").
		Suffix(")").
		ToSql()
	if err != nil {
		return false, fmt.Errorf("failed to build live request query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&exists); err != nil {
		logger.Error().Err(err).Int64("studentID", studentID).Int64("mentorID", mentorID).Msg("Error checking live request")
		return false, fmt.Errorf("error checking live request: %w", err)
	}
	return exists, nil
}

// List returns requests matching the filter, newest first
func (r *requestRepository) List(ctx context.Context, filter RequestFilter) ([]models.Request, error) {
	q := r.sb.Select(requestColumns...).From("requests")
	if filter.StudentID != 0 {
		q = q.Where(squirrel.Eq{"student_id": filter.StudentID})
	}
	if filter.MentorID != 0 {
		q = q.Where(squirrel.Eq{"mentor_id": filter.MentorID})
	}

	sql, args, err := q.OrderBy("created_at DESC", "id DESC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list requests query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error querying requests")
		return nil, fmt.Errorf("error listing requests: %w", err)
	}
	defer rows.Close()

	requests := make([]models.Request, 0)
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning request row: %w", err)
		}
		requests = append(requests, *req)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating request rows: %w", err)
	}
	return requests, nil
}
