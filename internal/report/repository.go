package report

import (
	"context"
	"database/sql"
	"time"

	"restopos/internal/logger"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type Repository interface {
	TableOccupancy(ctx context.Context) (total, occupied int, err error)
	OrderTotalsSince(ctx context.Context, since time.Time) (*OrderTotals, error)
	OutstandingCredit(ctx context.Context) (decimal.Decimal, error)
	TopSellingItemsSince(ctx context.Context, since time.Time, limit int) ([]*ItemSales, error)
	TopCreditItems(ctx context.Context, limit int) ([]*ItemSales, error)
	OrdersByHour(ctx context.Context, since, until time.Time) ([]*HourBucket, error)
	SessionRows(ctx context.Context) ([]*SessionRow, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) TableOccupancy(ctx context.Context) (int, int, error) {
	var total, occupied int
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*), COUNT(*) FILTER (WHERE status = 'Occupied')
		FROM tables
	`).Scan(&total, &occupied)
	if err != nil {
		logger.FromCtx(ctx).Error("failed to count tables", zap.Error(err))
		return 0, 0, err
	}
	return total, occupied, nil
}

func (r *repository) OrderTotalsSince(ctx context.Context, since time.Time) (*OrderTotals, error) {
	var t OrderTotals
	err := r.db.QueryRowContext(ctx, `
		SELECT
			COUNT(*),
			COALESCE(SUM(net_amount), 0),
			COALESCE(SUM(paid_amount), 0),
			COALESCE(SUM(credit_amount), 0),
			COALESCE(SUM(discount), 0),
			COUNT(*) FILTER (WHERE order_type IN ('Dine-In', 'Table')),
			COUNT(*) FILTER (WHERE order_type = 'Takeaway'),
			COUNT(*) FILTER (WHERE order_type = 'Delivery')
		FROM orders
		WHERE created_at >= $1
	`, since).Scan(
		&t.Orders, &t.NetSales, &t.PaidSales, &t.CreditSales, &t.Discount,
		&t.DineInCount, &t.TakeawayCount, &t.DeliveryCount,
	)
	if err != nil {
		logger.FromCtx(ctx).Error("failed to total orders", zap.Error(err))
		return nil, err
	}
	return &t, nil
}

func (r *repository) OutstandingCredit(ctx context.Context) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.db.QueryRowContext(ctx, `SELECT COALESCE(SUM(credit_amount), 0) FROM orders`).Scan(&total)
	if err != nil {
		logger.FromCtx(ctx).Error("failed to total outstanding credit", zap.Error(err))
		return decimal.Zero, err
	}
	return total, nil
}

func (r *repository) itemSales(ctx context.Context, query string, args ...any) ([]*ItemSales, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		logger.FromCtx(ctx).Error("failed to rank items", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	items := []*ItemSales{}
	for rows.Next() {
		var it ItemSales
		if err := rows.Scan(&it.Name, &it.Quantity, &it.Revenue); err != nil {
			return nil, err
		}
		items = append(items, &it)
	}
	return items, rows.Err()
}

func (r *repository) TopSellingItemsSince(ctx context.Context, since time.Time, limit int) ([]*ItemSales, error) {
	return r.itemSales(ctx, `
		SELECT m.name, SUM(oi.quantity), SUM(oi.quantity * oi.price)
		FROM order_items oi
		JOIN orders o ON o.id = oi.order_id
		JOIN menu_items m ON m.id = oi.menu_item_id
		WHERE o.created_at >= $1
		GROUP BY m.id, m.name
		ORDER BY 3 DESC
		LIMIT $2
	`, since, limit)
}

// TopCreditItems ranks menu items by their value on orders that still carry credit.
func (r *repository) TopCreditItems(ctx context.Context, limit int) ([]*ItemSales, error) {
	return r.itemSales(ctx, `
		SELECT m.name, SUM(oi.quantity), SUM(oi.quantity * oi.price)
		FROM order_items oi
		JOIN orders o ON o.id = oi.order_id
		JOIN menu_items m ON m.id = oi.menu_item_id
		WHERE o.credit_amount > 0
		GROUP BY m.id, m.name
		ORDER BY 3 DESC
		LIMIT $1
	`, limit)
}

func (r *repository) OrdersByHour(ctx context.Context, since, until time.Time) ([]*HourBucket, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT
			FLOOR(EXTRACT(EPOCH FROM ($2::timestamptz - created_at)) / 3600)::int AS hours_ago,
			COUNT(*),
			COALESCE(SUM(net_amount), 0)
		FROM orders
		WHERE created_at >= $1 AND created_at <= $2
		GROUP BY hours_ago
		ORDER BY hours_ago
	`, since, until)
	if err != nil {
		logger.FromCtx(ctx).Error("failed to bucket orders by hour", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	buckets := []*HourBucket{}
	for rows.Next() {
		var b HourBucket
		if err := rows.Scan(&b.HoursAgo, &b.Orders, &b.Sales); err != nil {
			return nil, err
		}
		buckets = append(buckets, &b)
	}
	return buckets, rows.Err()
}

func (r *repository) SessionRows(ctx context.Context) ([]*SessionRow, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT
			s.id, s.user_id, COALESCE(u.full_name, 'Unknown'),
			s.start_time, s.end_time, s.status,
			s.opening_balance, s.closing_balance, s.total_sales, s.total_orders, s.notes
		FROM pos_sessions s
		LEFT JOIN users u ON u.id = s.user_id
		ORDER BY s.start_time DESC, s.id DESC
	`)
	if err != nil {
		logger.FromCtx(ctx).Error("failed to query session report", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	out := []*SessionRow{}
	for rows.Next() {
		var (
			row   SessionRow
			end   sql.NullTime
			notes sql.NullString
		)
		if err := rows.Scan(
			&row.ID, &row.UserID, &row.UserName,
			&row.StartTime, &end, &row.Status,
			&row.OpeningBalance, &row.ClosingBalance, &row.TotalSales, &row.TotalOrders, &notes,
		); err != nil {
			return nil, err
		}
		if end.Valid {
			t := end.Time
			row.EndTime = &t
		}
		if notes.Valid {
			n := notes.String
			row.Notes = &n
		}
		out = append(out, &row)
	}
	return out, rows.Err()
}
