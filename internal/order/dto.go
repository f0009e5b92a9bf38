package order

import "github.com/shopspring/decimal"

type CreateOrderItemInput struct {
	MenuItemID uint             `json:"menu_item_id"`
	Quantity   int              `json:"quantity"`
	Price      *decimal.Decimal `json:"price"`
	Subtotal   *decimal.Decimal `json:"subtotal"`
	Notes      string           `json:"notes"`
}

type CreateOrderInput struct {
	OrderNumber   *string                `json:"order_number"`
	OrderType     Type                   `json:"order_type"`
	Status        *Status                `json:"status"`
	TableID       *uint                  `json:"table_id"`
	CustomerID    *uint                  `json:"customer_id"`
	TotalAmount   *decimal.Decimal       `json:"total_amount"`
	GrossAmount   *decimal.Decimal       `json:"gross_amount"`
	Discount      *decimal.Decimal       `json:"discount"`
	NetAmount     *decimal.Decimal       `json:"net_amount"`
	PaidAmount    *decimal.Decimal       `json:"paid_amount"`
	CreditAmount  *decimal.Decimal       `json:"credit_amount"`
	PaymentMethod *string                `json:"payment_method"`
	Notes         *string                `json:"notes"`
	Items         []CreateOrderItemInput `json:"items"`
}

// UpdateOrderInput lists every patchable order field. A nil field is left
// unchanged.
type UpdateOrderInput struct {
	OrderType     *Type            `json:"order_type"`
	Status        *Status          `json:"status"`
	TableID       *uint            `json:"table_id"`
	CustomerID    *uint            `json:"customer_id"`
	GrossAmount   *decimal.Decimal `json:"gross_amount"`
	Discount      *decimal.Decimal `json:"discount"`
	NetAmount     *decimal.Decimal `json:"net_amount"`
	PaidAmount    *decimal.Decimal `json:"paid_amount"`
	CreditAmount  *decimal.Decimal `json:"credit_amount"`
	PaymentMethod *string          `json:"payment_method"`
	Notes         *string          `json:"notes"`
}

func (in UpdateOrderInput) Empty() bool {
	return in.OrderType == nil &&
		in.Status == nil &&
		in.TableID == nil &&
		in.CustomerID == nil &&
		in.GrossAmount == nil &&
		in.Discount == nil &&
		in.NetAmount == nil &&
		in.PaidAmount == nil &&
		in.CreditAmount == nil &&
		in.PaymentMethod == nil &&
		in.Notes == nil
}

// Event payloads published after commit.
type CreatedEvent struct {
	OrderID     uint         `json:"order_id"`
	OrderNumber string       `json:"order_number"`
	OrderType   Type         `json:"order_type"`
	TableID     *uint        `json:"table_id"`
	Items       []*OrderItem `json:"items"`
}

type UpdatedEvent struct {
	OrderID        uint   `json:"order_id"`
	OrderNumber    string `json:"order_number"`
	PreviousStatus Status `json:"previous_status"`
	Status         Status `json:"status"`
	TableID        *uint  `json:"table_id"`
}

type DeletedEvent struct {
	OrderID     uint   `json:"order_id"`
	OrderNumber string `json:"order_number"`
	TableID     *uint  `json:"table_id"`
}
