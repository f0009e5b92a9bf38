package report

import (
	"context"
	"time"

	"restopos/internal/logger"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const topItemsLimit = 3

type Service interface {
	DashboardSummary(ctx context.Context) (*DashboardSummary, error)
	SessionReport(ctx context.Context) ([]*SessionRow, error)
}

type service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) Service {
	return &service{repo: repo, now: time.Now}
}

// DashboardSummary reports table occupancy and the last 24 hours of orders.
func (s *service) DashboardSummary(ctx context.Context) (*DashboardSummary, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "DashboardSummary"),
	)

	now := s.now()
	since := now.Add(-DashboardPeriod)

	total, occupied, err := s.repo.TableOccupancy(ctx)
	if err != nil {
		return nil, err
	}

	totals, err := s.repo.OrderTotalsSince(ctx, since)
	if err != nil {
		return nil, err
	}

	outstanding, err := s.repo.OutstandingCredit(ctx)
	if err != nil {
		return nil, err
	}

	topSelling, err := s.repo.TopSellingItemsSince(ctx, since, topItemsLimit)
	if err != nil {
		return nil, err
	}

	topCredit, err := s.repo.TopCreditItems(ctx, topItemsLimit)
	if err != nil {
		return nil, err
	}

	buckets, err := s.repo.OrdersByHour(ctx, since, now)
	if err != nil {
		return nil, err
	}

	summary := &DashboardSummary{
		Occupancy:          occupancy(total, occupied),
		TotalTables:        total,
		OccupiedTables:     occupied,
		Sales24h:           totals.NetSales,
		PaidSales:          totals.PaidSales,
		CreditSales:        totals.CreditSales,
		Discount:           totals.Discount,
		Orders24h:          totals.Orders,
		DineInCount:        totals.DineInCount,
		TakeawayCount:      totals.TakeawayCount,
		DeliveryCount:      totals.DeliveryCount,
		OutstandingRevenue: outstanding,
		TopOutstanding:     topCredit,
		TopSelling:         topSelling,
		Period:             "Last 24 Hours",
		GeneratedAt:        now,
	}
	summary.PeakTimeData, summary.HourlySales = hourlySeries(buckets)

	log.Debug("dashboard summary built",
		zap.Int("orders", totals.Orders),
		zap.String("sales", totals.NetSales.String()),
	)
	return summary, nil
}

// occupancy is the occupied share of tables in percent, one decimal place.
func occupancy(total, occupied int) decimal.Decimal {
	if total == 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(int64(occupied) * 100).
		Div(decimal.NewFromInt(int64(total))).
		Round(1)
}

// hourlySeries lays buckets out oldest first: index 23 is the current hour.
func hourlySeries(buckets []*HourBucket) ([]int, []decimal.Decimal) {
	counts := make([]int, 24)
	sales := make([]decimal.Decimal, 24)
	for i := range sales {
		sales[i] = decimal.Zero
	}

	for _, b := range buckets {
		if b.HoursAgo < 0 || b.HoursAgo >= 24 {
			continue
		}
		idx := 23 - b.HoursAgo
		counts[idx] += b.Orders
		sales[idx] = sales[idx].Add(b.Sales)
	}
	return counts, sales
}

func (s *service) SessionReport(ctx context.Context) ([]*SessionRow, error) {
	return s.repo.SessionRows(ctx)
}
