package order

import (
	"time"

	"restopos/internal/table"

	"github.com/shopspring/decimal"
)

type Type string

const (
	TypeDineIn   Type = "Dine-In"
	TypeTable    Type = "Table"
	TypeTakeaway Type = "Takeaway"
	TypeDelivery Type = "Delivery"
)

func (t Type) Valid() bool {
	switch t {
	case TypeDineIn, TypeTable, TypeTakeaway, TypeDelivery:
		return true
	}
	return false
}

type Status string

const (
	StatusPending       Status = "Pending"
	StatusInProgress    Status = "In Progress"
	StatusBillRequested Status = "BillRequested"
	StatusPaid          Status = "Paid"
	StatusCompleted     Status = "Completed"
	StatusCancelled     Status = "Cancelled"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusBillRequested,
		StatusPaid, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// TableStatusFor maps an order status onto the status its table must take.
// ok is false for statuses that leave the table untouched.
func TableStatusFor(s Status) (table.Status, bool) {
	switch s {
	case StatusPaid, StatusCompleted, StatusCancelled:
		return table.StatusAvailable, true
	case StatusBillRequested:
		return table.StatusBillRequested, true
	case StatusPending, StatusInProgress:
		return table.StatusOccupied, true
	}
	return "", false
}

type Order struct {
	ID            uint            `json:"id"`
	OrderNumber   string          `json:"order_number"`
	OrderType     Type            `json:"order_type"`
	Status        Status          `json:"status"`
	TableID       *uint           `json:"table_id"`
	CustomerID    *uint           `json:"customer_id"`
	GrossAmount   decimal.Decimal `json:"gross_amount"`
	Discount      decimal.Decimal `json:"discount"`
	NetAmount     decimal.Decimal `json:"net_amount"`
	PaidAmount    decimal.Decimal `json:"paid_amount"`
	CreditAmount  decimal.Decimal `json:"credit_amount"`
	PaymentMethod *string         `json:"payment_method"`
	Notes         *string         `json:"notes"`
	CreatedBy     uint            `json:"created_by"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`

	Table    *TableRef        `json:"table"`
	Customer *CustomerRef     `json:"customer"`
	Items    []*OrderItem     `json:"items"`
	KOTs     []*KitchenTicket `json:"kots"`
}

// RecomputeNet restores net = gross - discount.
func (o *Order) RecomputeNet() {
	o.NetAmount = o.GrossAmount.Sub(o.Discount)
}

type TableRef struct {
	ID     uint         `json:"id"`
	Name   string       `json:"name"`
	Status table.Status `json:"status"`
}

type CustomerRef struct {
	ID    uint    `json:"id"`
	Name  string  `json:"name"`
	Phone *string `json:"phone"`
}

type MenuItemRef struct {
	ID    uint            `json:"id"`
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
}

type OrderItem struct {
	ID         uint            `json:"id"`
	OrderID    uint            `json:"order_id"`
	MenuItemID uint            `json:"menu_item_id"`
	Quantity   int             `json:"quantity"`
	Price      decimal.Decimal `json:"price"`
	Subtotal   decimal.Decimal `json:"subtotal"`
	Notes      string          `json:"notes"`
	MenuItem   *MenuItemRef    `json:"menu_item"`
}

// KitchenTicket is a kitchen order ticket issued from an order's items. It is
// produced downstream and only read here.
type KitchenTicket struct {
	ID        uint                 `json:"id"`
	OrderID   uint                 `json:"order_id"`
	KOTNumber string               `json:"kot_number"`
	Status    string               `json:"status"`
	CreatedAt time.Time            `json:"created_at"`
	Items     []*KitchenTicketItem `json:"items"`
}

type KitchenTicketItem struct {
	ID         uint         `json:"id"`
	KOTID      uint         `json:"kot_id"`
	MenuItemID uint         `json:"menu_item_id"`
	Quantity   int          `json:"quantity"`
	Notes      string       `json:"notes"`
	MenuItem   *MenuItemRef `json:"menu_item"`
}

// ListFilter narrows GetOrders. Limit 0 means no limit.
type ListFilter struct {
	OrderType *Type
	Status    *Status
	Limit     int
	Offset    int
}
