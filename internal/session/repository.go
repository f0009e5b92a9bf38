package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"restopos/internal/db"
	"restopos/internal/logger"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// SalesFunc totals an actor's non-cancelled orders created in [from, to].
type SalesFunc func(userID uint, from, to time.Time) (decimal.Decimal, int, error)

// Mutation edits a locked session in place. sales reads order totals inside
// the same transaction.
type Mutation func(s *Session, sales SalesFunc) error

type Repository interface {
	Sweep(ctx context.Context, cutoff, now time.Time) ([]*Session, error)
	CreateSessionTx(ctx context.Context, s *Session) error
	ListSessions(ctx context.Context, offset, limit int) ([]*Session, error)
	GetSession(ctx context.Context, id uint) (*Session, error)
	UpdateSessionTx(ctx context.Context, id uint, mutate Mutation) (*Session, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

const sessionColumns = `
	s.id, s.user_id, s.start_time, s.end_time, s.status,
	s.opening_balance, s.closing_balance, s.total_sales, s.total_orders,
	s.notes, s.created_at, s.updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSession(row rowScanner, withUser bool) (*Session, error) {
	var (
		s              Session
		endTime        sql.NullTime
		notes          sql.NullString
		fullName, role sql.NullString
	)

	dest := []any{
		&s.ID, &s.UserID, &s.StartTime, &endTime, &s.Status,
		&s.OpeningBalance, &s.ClosingBalance, &s.TotalSales, &s.TotalOrders,
		&notes, &s.CreatedAt, &s.UpdatedAt,
	}
	if withUser {
		dest = append(dest, &fullName, &role)
	}

	if err := row.Scan(dest...); err != nil {
		return nil, err
	}

	if endTime.Valid {
		t := endTime.Time
		s.EndTime = &t
	}
	if notes.Valid {
		n := notes.String
		s.Notes = &n
	}
	if withUser && fullName.Valid {
		s.User = &UserRef{ID: s.UserID, FullName: fullName.String, Role: role.String}
	}

	return &s, nil
}

func scanSessions(rows *sql.Rows, withUser bool) ([]*Session, error) {
	sessions := []*Session{}
	for rows.Next() {
		s, err := scanSession(rows, withUser)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, s)
	}
	return sessions, rows.Err()
}

// Sweep closes every Active session started before cutoff and stamps it with
// the order totals of its window. Closed sessions are returned.
func (r *repository) Sweep(ctx context.Context, cutoff, now time.Time) ([]*Session, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "Sweep"),
	)

	rows, err := r.db.QueryContext(ctx, `
		UPDATE pos_sessions s
		SET
			status = 'Closed',
			end_time = $2,
			total_sales = agg.total_sales,
			total_orders = agg.total_orders,
			updated_at = $2
		FROM (
			SELECT
				ps.id,
				COALESCE(SUM(o.net_amount), 0) AS total_sales,
				COUNT(o.id) AS total_orders
			FROM pos_sessions ps
			LEFT JOIN orders o
				ON o.created_by = ps.user_id
				AND o.created_at >= ps.start_time
				AND o.created_at <= $2
				AND o.status <> 'Cancelled'
			WHERE ps.status = 'Active' AND ps.start_time < $1
			GROUP BY ps.id
		) agg
		WHERE s.id = agg.id AND s.status = 'Active'
		RETURNING `+sessionColumns, cutoff, now)
	if err != nil {
		log.Error("failed to sweep stale sessions", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	closed, err := scanSessions(rows, false)
	if err != nil {
		log.Error("failed to scan swept sessions", zap.Error(err))
		return nil, err
	}

	if len(closed) > 0 {
		log.Info("stale sessions closed",
			zap.Int("count", len(closed)),
			zap.Time("cutoff", cutoff),
		)
	}
	return closed, nil
}

func (r *repository) CreateSessionTx(ctx context.Context, s *Session) error {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "CreateSessionTx"),
		zap.Uint("user_id", s.UserID),
	)

	err := db.WithTx(ctx, r.db, func(tx *sql.Tx) error {
		// Serializes session creation per actor until commit
		if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, s.UserID); err != nil {
			return fmt.Errorf("lock actor sessions: %w", err)
		}

		var active bool
		err := tx.QueryRowContext(ctx, `
			SELECT EXISTS (
				SELECT 1 FROM pos_sessions
				WHERE user_id = $1 AND status = 'Active'
			)
		`, s.UserID).Scan(&active)
		if err != nil {
			return fmt.Errorf("check active session: %w", err)
		}
		if active {
			return ErrActiveSessionExists
		}

		return tx.QueryRowContext(ctx, `
			INSERT INTO pos_sessions (
				user_id, start_time, status, opening_balance, closing_balance,
				total_sales, total_orders, notes, created_at, updated_at
			) VALUES ($1, $2, $3, $4, 0, 0, 0, $5, $2, $2)
			RETURNING id
		`, s.UserID, s.StartTime, s.Status, s.OpeningBalance, s.Notes).Scan(&s.ID)
	})
	if err != nil {
		if errors.Is(err, ErrActiveSessionExists) || db.IsUniqueViolation(err) {
			log.Warn("active session already exists")
			return ErrActiveSessionExists
		}
		log.Error("create session transaction failed", zap.Error(err))
		return db.TranslateError(err)
	}

	s.CreatedAt = s.StartTime
	s.UpdatedAt = s.StartTime
	log.Info("session opened", zap.Uint("session_id", s.ID))
	return nil
}

func (r *repository) ListSessions(ctx context.Context, offset, limit int) ([]*Session, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+sessionColumns+`, u.full_name, u.role
		FROM pos_sessions s
		LEFT JOIN users u ON u.id = s.user_id
		ORDER BY s.start_time DESC, s.id DESC
		OFFSET $1 LIMIT $2
	`, offset, limit)
	if err != nil {
		logger.FromCtx(ctx).Error("failed to list sessions", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	return scanSessions(rows, true)
}

func (r *repository) GetSession(ctx context.Context, id uint) (*Session, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+sessionColumns+`, u.full_name, u.role
		FROM pos_sessions s
		LEFT JOIN users u ON u.id = s.user_id
		WHERE s.id = $1
	`, id)

	s, err := scanSession(row, true)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		logger.FromCtx(ctx).Error("failed to get session", zap.Uint("session_id", id), zap.Error(err))
		return nil, err
	}
	return s, nil
}

func salesWithin(ctx context.Context, q db.Querier) SalesFunc {
	return func(userID uint, from, to time.Time) (decimal.Decimal, int, error) {
		var (
			total decimal.Decimal
			count int
		)
		err := q.QueryRowContext(ctx, `
			SELECT COALESCE(SUM(net_amount), 0), COUNT(*)
			FROM orders
			WHERE created_by = $1
				AND created_at >= $2
				AND created_at <= $3
				AND status <> 'Cancelled'
		`, userID, from, to).Scan(&total, &count)
		if err != nil {
			return decimal.Zero, 0, fmt.Errorf("total session sales: %w", err)
		}
		return total, count, nil
	}
}

func (r *repository) UpdateSessionTx(ctx context.Context, id uint, mutate Mutation) (*Session, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "UpdateSessionTx"),
		zap.Uint("session_id", id),
	)

	var updated *Session
	err := db.WithTx(ctx, r.db, func(tx *sql.Tx) error {
		row := tx.QueryRowContext(ctx, `
			SELECT `+sessionColumns+`
			FROM pos_sessions s
			WHERE s.id = $1
			FOR UPDATE
		`, id)

		s, err := scanSession(row, false)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrSessionNotFound
		}
		if err != nil {
			return err
		}

		if err := mutate(s, salesWithin(ctx, tx)); err != nil {
			return err
		}

		_, err = tx.ExecContext(ctx, `
			UPDATE pos_sessions
			SET
				status = $1,
				end_time = $2,
				closing_balance = $3,
				total_sales = $4,
				total_orders = $5,
				notes = $6,
				updated_at = $7
			WHERE id = $8
		`, s.Status, s.EndTime, s.ClosingBalance, s.TotalSales, s.TotalOrders, s.Notes, s.UpdatedAt, s.ID)
		if err != nil {
			return fmt.Errorf("update session: %w", err)
		}

		updated = s
		return nil
	})
	if err != nil {
		if db.IsUniqueViolation(err) {
			log.Warn("reopening would create a second active session")
			return nil, ErrActiveSessionExists
		}
		if errors.Is(err, ErrSessionNotFound) {
			log.Warn("session not found")
			return nil, err
		}
		log.Warn("update session transaction failed", zap.Error(err))
		return nil, db.TranslateError(err)
	}

	log.Info("session updated", zap.String("status", string(updated.Status)))
	return updated, nil
}
