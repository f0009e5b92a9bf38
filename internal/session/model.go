package session

import (
	"time"

	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusActive Status = "Active"
	StatusClosed Status = "Closed"
)

func (s Status) Valid() bool {
	return s == StatusActive || s == StatusClosed
}

// UserRef is the owning actor as shown alongside a session.
type UserRef struct {
	ID       uint   `json:"id"`
	FullName string `json:"full_name"`
	Role     string `json:"role"`
}

// Session is one actor's working shift on the POS.
type Session struct {
	ID             uint            `json:"id"`
	UserID         uint            `json:"user_id"`
	StartTime      time.Time       `json:"start_time"`
	EndTime        *time.Time      `json:"end_time"`
	Status         Status          `json:"status"`
	OpeningBalance decimal.Decimal `json:"opening_balance"`
	ClosingBalance decimal.Decimal `json:"closing_balance"`
	TotalSales     decimal.Decimal `json:"total_sales"`
	TotalOrders    int             `json:"total_orders"`
	Notes          *string         `json:"notes"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`

	User *UserRef `json:"user"`
}
