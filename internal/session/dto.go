package session

import (
	"time"

	"github.com/shopspring/decimal"
)

type CreateSessionInput struct {
	OpeningBalance *decimal.Decimal `json:"opening_balance"`
	Notes          *string          `json:"notes"`
}

// UpdateSessionInput lists the patchable session fields. A nil field is left
// unchanged.
type UpdateSessionInput struct {
	ClosingBalance *decimal.Decimal `json:"closing_balance"`
	Status         *Status          `json:"status"`
	Notes          *string          `json:"notes"`
	TotalSales     *decimal.Decimal `json:"total_sales"`
	TotalOrders    *int             `json:"total_orders"`
	EndTime        *time.Time       `json:"end_time"`
}

func (in UpdateSessionInput) Empty() bool {
	return in.ClosingBalance == nil &&
		in.Status == nil &&
		in.Notes == nil &&
		in.TotalSales == nil &&
		in.TotalOrders == nil &&
		in.EndTime == nil
}
