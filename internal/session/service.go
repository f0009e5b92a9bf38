package session

import (
	"context"
	"time"

	"restopos/internal/logger"
	"restopos/internal/metrics"
	"restopos/internal/utils"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	DefaultListLimit = 100
	MaxListLimit     = 500
)

type Service interface {
	ListSessions(ctx context.Context, offset, limit int) ([]*Session, error)
	CreateSession(ctx context.Context, input CreateSessionInput) (*Session, error)
	GetSession(ctx context.Context, id uint) (*Session, error)
	UpdateSession(ctx context.Context, id uint, input UpdateSessionInput) (*Session, error)
	Sweep(ctx context.Context) (int, error)
	RunSweeper(ctx context.Context, interval time.Duration)
}

type service struct {
	repo    Repository
	maxAge  time.Duration
	metrics *metrics.Registry
	now     func() time.Time
}

func NewService(repo Repository, maxAge time.Duration, reg *metrics.Registry) Service {
	if maxAge <= 0 {
		maxAge = 24 * time.Hour
	}
	if reg == nil {
		reg = metrics.NewRegistry()
	}
	return &service{
		repo:    repo,
		maxAge:  maxAge,
		metrics: reg,
		now:     time.Now,
	}
}

// Sweep closes sessions that have been Active for longer than maxAge.
func (s *service) Sweep(ctx context.Context) (int, error) {
	now := s.now()

	closed, err := s.repo.Sweep(ctx, now.Add(-s.maxAge), now)
	if err != nil {
		return 0, err
	}

	if len(closed) > 0 {
		s.metrics.Counter("sessions_auto_closed").Add(uint64(len(closed)))
		ids := make([]uint, 0, len(closed))
		for _, c := range closed {
			ids = append(ids, c.ID)
		}
		logger.FromCtx(ctx).Info("auto-closed stale sessions",
			zap.Int("count", len(closed)),
			zap.Any("session_ids", ids),
		)
	}

	return len(closed), nil
}

// RunSweeper sweeps every interval until ctx is done. interval <= 0 disables it.
func (s *service) RunSweeper(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}

	log := logger.FromCtx(ctx).With(zap.String("component", "session_sweeper"))
	log.Info("session sweeper started", zap.Duration("interval", interval))

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info("session sweeper stopped")
			return
		case <-ticker.C:
			if _, err := s.Sweep(ctx); err != nil {
				log.Error("periodic sweep failed", zap.Error(err))
			}
		}
	}
}

func (s *service) ListSessions(ctx context.Context, offset, limit int) ([]*Session, error) {
	if _, err := s.Sweep(ctx); err != nil {
		return nil, err
	}

	if offset < 0 {
		offset = 0
	}
	if limit <= 0 {
		limit = DefaultListLimit
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}

	return s.repo.ListSessions(ctx, offset, limit)
}

func (s *service) CreateSession(ctx context.Context, input CreateSessionInput) (*Session, error) {
	actorID, ok := utils.GetUserIDFromContext(ctx)
	if !ok {
		return nil, ErrActorRequired
	}

	opening := decimal.Zero
	if input.OpeningBalance != nil {
		opening = *input.OpeningBalance
	}
	if opening.IsNegative() {
		return nil, ErrNegativeAmount
	}

	sess := &Session{
		UserID:         actorID,
		StartTime:      s.now(),
		Status:         StatusActive,
		OpeningBalance: opening,
		Notes:          input.Notes,
	}

	if err := s.repo.CreateSessionTx(ctx, sess); err != nil {
		return nil, err
	}

	s.metrics.Counter("sessions_opened").Inc()
	return sess, nil
}

func (s *service) GetSession(ctx context.Context, id uint) (*Session, error) {
	return s.repo.GetSession(ctx, id)
}

func (s *service) UpdateSession(ctx context.Context, id uint, input UpdateSessionInput) (*Session, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "UpdateSession"),
		zap.Uint("session_id", id),
	)

	// nothing to change: answer with the stored session
	if input.Empty() {
		return s.repo.GetSession(ctx, id)
	}
	if input.Status != nil && !input.Status.Valid() {
		return nil, ErrInvalidStatus
	}
	if (input.ClosingBalance != nil && input.ClosingBalance.IsNegative()) ||
		(input.TotalSales != nil && input.TotalSales.IsNegative()) ||
		(input.TotalOrders != nil && *input.TotalOrders < 0) {
		return nil, ErrNegativeAmount
	}

	now := s.now()
	_, err := s.repo.UpdateSessionTx(ctx, id, func(sess *Session, sales SalesFunc) error {
		return applyUpdate(sess, input, now, sales)
	})
	if err != nil {
		log.Warn("failed to update session", zap.Error(err))
		return nil, err
	}

	return s.repo.GetSession(ctx, id)
}

// applyUpdate closes or reopens sess as requested, then copies the supplied
// fields over it. A supplied end_time therefore replaces the one stamped on
// close. Totals not supplied on close are computed from orders.
func applyUpdate(sess *Session, in UpdateSessionInput, now time.Time, sales SalesFunc) error {
	closing := in.Status != nil && *in.Status == StatusClosed && sess.Status == StatusActive
	reopening := in.Status != nil && *in.Status == StatusActive && sess.Status == StatusClosed

	if closing {
		end := now
		sess.EndTime = &end
	}
	if reopening {
		sess.EndTime = nil
	}

	if in.Status != nil {
		sess.Status = *in.Status
	}
	if in.ClosingBalance != nil {
		sess.ClosingBalance = *in.ClosingBalance
	}
	if in.Notes != nil {
		sess.Notes = in.Notes
	}
	if in.TotalSales != nil {
		sess.TotalSales = *in.TotalSales
	}
	if in.TotalOrders != nil {
		sess.TotalOrders = *in.TotalOrders
	}
	if in.EndTime != nil {
		end := *in.EndTime
		sess.EndTime = &end
	}

	if sess.EndTime != nil && sess.EndTime.Before(sess.StartTime) {
		return ErrEndBeforeStart
	}

	if closing && (in.TotalSales == nil || in.TotalOrders == nil) {
		total, count, err := sales(sess.UserID, sess.StartTime, *sess.EndTime)
		if err != nil {
			return err
		}
		if in.TotalSales == nil {
			sess.TotalSales = total
		}
		if in.TotalOrders == nil {
			sess.TotalOrders = count
		}
	}

	sess.UpdatedAt = now
	return nil
}
