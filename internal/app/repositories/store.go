package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yigit/mentorlink/internal/pkg/logger"
)

const defaultTxTimeout = 30 * time.Second

// PostgresStore implements Store on a pgx pool or a running transaction.
type PostgresStore struct {
	pool *pgxpool.Pool
	db   DBTX
	inTx bool
	sb   squirrel.StatementBuilderType
}

// NewPostgresStore creates a store backed by the pool
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{
		pool: pool,
		db:   pool,
		sb:   squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func (s *PostgresStore) Users() UserRepository       { return &userRepository{db: s.db, sb: s.sb} }
func (s *PostgresStore) Mentors() MentorRepository   { return &mentorRepository{db: s.db, sb: s.sb} }
func (s *PostgresStore) Students() StudentRepository { return &studentRepository{db: s.db, sb: s.sb} }
func (s *PostgresStore) Requests() RequestRepository { return &requestRepository{db: s.db, sb: s.sb} }
func (s *PostgresStore) Messages() MessageRepository { return &messageRepository{db: s.db, sb: s.sb} }

// WithinTransaction runs fn within a transaction
func (s *PostgresStore) WithinTransaction(ctx context.Context, fn TxFn) error {
	if s.inTx {
		return fn(ctx, s)
	}

	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, defaultTxTimeout)
		defer cancel()
	}

	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	// Rollback on panic
	defer func() {
		if r := recover(); r != nil {
			_ = tx.Rollback(ctx)
			panic(r)
		}
	}()

	txStore := &PostgresStore{pool: s.pool, db: tx, inTx: true, sb: s.sb}
	if err := fn(ctx, txStore); err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil {
			logger.Error().Err(rbErr).Msg("Failed to rollback transaction")
			return rollbackFailure(err, rbErr)
		}
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// rollbackFailure keeps err in the chain so typed failures survive a failed rollback.
func rollbackFailure(err, rbErr error) error {
	return fmt.Errorf("%w (rollback error: %v)", err, rbErr)
}
