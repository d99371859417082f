package repositories

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/yigit/mentorlink/internal/app/models"
)

// Constraint names shared by the schema and the store implementations.
const (
	ConstraintUsernameKey       = "users_username_key"
	ConstraintMentorProfileKey  = "mentor_profiles_user_id_key"
	ConstraintStudentProfileKey = "student_profiles_user_id_key"
	ConstraintLiveRequestPair   = "requests_live_pair_key"
)

// DBTX is satisfied by both *pgxpool.Pool and pgx.Tx.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// UserRepository defines user persistence
type UserRepository interface {
	// Create inserts the user and fills ID and CreatedAt.
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	UsernameExists(ctx context.Context, username string) (bool, error)
	// GetByIDs returns the users found, keyed by id. Missing ids are skipped.
	GetByIDs(ctx context.Context, ids []int64) (map[int64]*models.User, error)
}

// MentorRepository defines mentor profile persistence and discovery
type MentorRepository interface {
	CreateProfile(ctx context.Context, profile *models.MentorProfile) error
	GetProfileByUserID(ctx context.Context, userID int64) (*models.MentorProfile, error)
	// List returns mentors matching the filter ordered by user id.
	List(ctx context.Context, filter models.MentorFilter) ([]models.MentorListing, error)
	// Top returns mentors ordered by rating desc, then user id.
	Top(ctx context.Context, limit int) ([]models.MentorListing, error)
	Facets(ctx context.Context) (*models.MentorFacets, error)
}

// StudentRepository defines student profile persistence
type StudentRepository interface {
	CreateProfile(ctx context.Context, profile *models.StudentProfile) error
	GetProfileByUserID(ctx context.Context, userID int64) (*models.StudentProfile, error)
}

// RequestFilter selects requests by participant. Zero values match any.
type RequestFilter struct {
	StudentID int64
	MentorID  int64
}

// RequestRepository defines mentorship request persistence
type RequestRepository interface {
	// Create inserts the request and fills ID and CreatedAt.
	Create(ctx context.Context, request *models.Request) error
	GetByID(ctx context.Context, id int64) (*models.Request, error)
	// GetByIDForUpdate loads the request and locks it until the transaction ends.
	GetByIDForUpdate(ctx context.Context, id int64) (*models.Request, error)
	// UpdateStatusFromPending moves a pending request to status. It reports
	// false when the request was no longer pending.
	UpdateStatusFromPending(ctx context.Context, id int64, status models.RequestStatus) (bool, error)
	ExistsLive(ctx context.Context, studentID, mentorID int64) (bool, error)
	// List returns requests ordered by created_at desc, id desc.
	List(ctx context.Context, filter RequestFilter) ([]models.Request, error)
}

// MessageRepository defines thread message persistence
type MessageRepository interface {
	// Create inserts the message and fills ID and CreatedAt.
	Create(ctx context.Context, message *models.Message) error
	// ListByRequest returns messages with id > afterID ordered by created_at, id.
	ListByRequest(ctx context.Context, requestID, afterID int64) ([]models.Message, error)
}

// TxFn runs inside a unit of work with a store bound to it.
type TxFn func(ctx context.Context, tx Store) error

// Store is the authoritative state of the application.
type Store interface {
	Users() UserRepository
	Mentors() MentorRepository
	Students() StudentRepository
	Requests() RequestRepository
	Messages() MessageRepository

	// WithinTransaction runs fn in one unit of work. Everything fn does through
	// tx is committed when fn returns nil and discarded otherwise. Calling it
	// on a transactional store joins the running transaction.
	WithinTransaction(ctx context.Context, fn TxFn) error
}
