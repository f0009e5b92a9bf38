package report

import (
	"time"

	"github.com/shopspring/decimal"
)

// DashboardPeriod is the trailing window covered by the dashboard summary.
const DashboardPeriod = 24 * time.Hour

type OrderTotals struct {
	Orders        int
	NetSales      decimal.Decimal
	PaidSales     decimal.Decimal
	CreditSales   decimal.Decimal
	Discount      decimal.Decimal
	DineInCount   int
	TakeawayCount int
	DeliveryCount int
}

type ItemSales struct {
	Name     string          `json:"name"`
	Quantity int             `json:"quantity"`
	Revenue  decimal.Decimal `json:"revenue"`
}

// HourBucket holds orders created HoursAgo full hours before the reference time.
type HourBucket struct {
	HoursAgo int
	Orders   int
	Sales    decimal.Decimal
}

type DashboardSummary struct {
	Occupancy          decimal.Decimal   `json:"occupancy"`
	TotalTables        int               `json:"total_tables"`
	OccupiedTables     int               `json:"occupied_tables"`
	Sales24h           decimal.Decimal   `json:"sales_24h"`
	PaidSales          decimal.Decimal   `json:"paid_sales"`
	CreditSales        decimal.Decimal   `json:"credit_sales"`
	Discount           decimal.Decimal   `json:"discount"`
	Orders24h          int               `json:"orders_24h"`
	DineInCount        int               `json:"dine_in_count"`
	TakeawayCount      int               `json:"takeaway_count"`
	DeliveryCount      int               `json:"delivery_count"`
	OutstandingRevenue decimal.Decimal   `json:"outstanding_revenue"`
	TopOutstanding     []*ItemSales      `json:"top_outstanding_items"`
	TopSelling         []*ItemSales      `json:"top_selling_items"`
	PeakTimeData       []int             `json:"peak_time_data"`
	HourlySales        []decimal.Decimal `json:"hourly_sales"`
	Period             string            `json:"period"`
	GeneratedAt        time.Time         `json:"generated_at"`
}

// SessionRow is one line of the session report.
type SessionRow struct {
	ID             uint            `json:"id"`
	UserID         uint            `json:"user_id"`
	UserName       string          `json:"user_name"`
	StartTime      time.Time       `json:"start_time"`
	EndTime        *time.Time      `json:"end_time"`
	Status         string          `json:"status"`
	OpeningBalance decimal.Decimal `json:"opening_balance"`
	ClosingBalance decimal.Decimal `json:"closing_balance"`
	TotalSales     decimal.Decimal `json:"total_sales"`
	TotalOrders    int             `json:"total_orders"`
	Notes          *string         `json:"notes"`
}
