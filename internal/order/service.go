package order

import (
	"context"
	"strings"
	"time"

	"restopos/internal/logger"
	"restopos/internal/metrics"
	"restopos/internal/mq"
	"restopos/internal/table"
	"restopos/internal/utils"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Routing keys for order events.
const (
	EventCreated = "order.created"
	EventUpdated = "order.updated"
	EventDeleted = "order.deleted"
)

type Service interface {
	CreateOrder(ctx context.Context, input CreateOrderInput) (*Order, error)
	GetOrders(ctx context.Context, filter ListFilter) ([]*Order, error)
	GetOrder(ctx context.Context, orderID uint) (*Order, error)
	UpdateOrder(ctx context.Context, orderID uint, input UpdateOrderInput) (*Order, error)
	DeleteOrder(ctx context.Context, orderID uint) error
}

type service struct {
	repo      Repository
	publisher mq.Publisher
	metrics   *metrics.Registry
	now       func() time.Time
}

func NewService(repo Repository, publisher mq.Publisher, reg *metrics.Registry) Service {
	if publisher == nil {
		publisher = mq.NopPublisher{}
	}
	if reg == nil {
		reg = metrics.NewRegistry()
	}
	return &service{
		repo:      repo,
		publisher: publisher,
		metrics:   reg,
		now:       time.Now,
	}
}

func negative(amounts ...*decimal.Decimal) bool {
	for _, a := range amounts {
		if a != nil && a.IsNegative() {
			return true
		}
	}
	return false
}

func orZero(d *decimal.Decimal) decimal.Decimal {
	if d == nil {
		return decimal.Zero
	}
	return *d
}

func buildItems(inputs []CreateOrderItemInput) ([]*OrderItem, decimal.Decimal, error) {
	items := make([]*OrderItem, 0, len(inputs))
	sum := decimal.Zero

	for _, in := range inputs {
		if in.MenuItemID == 0 || in.Quantity <= 0 {
			return nil, decimal.Zero, ErrInvalidItem
		}
		if negative(in.Price, in.Subtotal) {
			return nil, decimal.Zero, ErrNegativeAmount
		}

		price := orZero(in.Price)
		subtotal := price.Mul(decimal.NewFromInt(int64(in.Quantity)))
		if in.Subtotal != nil {
			subtotal = *in.Subtotal
		}

		items = append(items, &OrderItem{
			MenuItemID: in.MenuItemID,
			Quantity:   in.Quantity,
			Price:      price,
			Subtotal:   subtotal,
			Notes:      in.Notes,
		})
		sum = sum.Add(subtotal)
	}

	return items, sum, nil
}

func (s *service) CreateOrder(ctx context.Context, input CreateOrderInput) (*Order, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "CreateOrder"),
	)

	actorID, ok := utils.GetUserIDFromContext(ctx)
	if !ok {
		return nil, ErrActorRequired
	}

	// 1. Validate
	if !input.OrderType.Valid() {
		return nil, ErrInvalidOrderType
	}

	status := StatusPending
	if input.Status != nil {
		status = *input.Status
	}
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}

	if negative(input.TotalAmount, input.GrossAmount, input.Discount, input.NetAmount, input.PaidAmount, input.CreditAmount) {
		return nil, ErrNegativeAmount
	}

	items, itemsTotal, err := buildItems(input.Items)
	if err != nil {
		return nil, err
	}

	// 2. Amounts
	gross := itemsTotal
	switch {
	case input.GrossAmount != nil:
		gross = *input.GrossAmount
	case input.TotalAmount != nil:
		gross = *input.TotalAmount
	}

	o := &Order{
		OrderType:     input.OrderType,
		Status:        status,
		TableID:       input.TableID,
		CustomerID:    input.CustomerID,
		GrossAmount:   gross,
		Discount:      orZero(input.Discount),
		PaidAmount:    orZero(input.PaidAmount),
		CreditAmount:  orZero(input.CreditAmount),
		PaymentMethod: input.PaymentMethod,
		Notes:         input.Notes,
		CreatedBy:     actorID,
		CreatedAt:     s.now(),
		Items:         items,
	}

	// net follows gross and discount whenever either was given
	if input.NetAmount != nil && input.GrossAmount == nil && input.Discount == nil {
		o.NetAmount = *input.NetAmount
	} else {
		o.RecomputeNet()
	}

	if input.OrderNumber != nil {
		o.OrderNumber = strings.TrimSpace(*input.OrderNumber)
	}

	// 3. Persist. A new order always seats its table, whatever status it starts in.
	var tableStatus *table.Status
	if o.TableID != nil {
		occupied := table.StatusOccupied
		tableStatus = &occupied
	}

	if err := s.repo.CreateOrderTx(ctx, o, tableStatus); err != nil {
		log.Error("failed to create order", zap.Error(err))
		return nil, err
	}

	s.metrics.Counter("orders_created").Inc()
	s.publish(ctx, EventCreated, CreatedEvent{
		OrderID:     o.ID,
		OrderNumber: o.OrderNumber,
		OrderType:   o.OrderType,
		TableID:     o.TableID,
		Items:       o.Items,
	})

	log.Info("order created",
		zap.Uint("order_id", o.ID),
		zap.String("order_number", o.OrderNumber),
		zap.Uint("created_by", actorID),
	)

	return s.repo.GetOrderDetail(ctx, o.ID)
}

func (s *service) GetOrders(ctx context.Context, filter ListFilter) ([]*Order, error) {
	if filter.OrderType != nil && !filter.OrderType.Valid() {
		return nil, ErrInvalidOrderType
	}
	if filter.Status != nil && !filter.Status.Valid() {
		return nil, ErrInvalidStatus
	}
	if filter.Limit < 0 {
		filter.Limit = 0
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}

	return s.repo.GetOrders(ctx, filter)
}

func (s *service) GetOrder(ctx context.Context, orderID uint) (*Order, error) {
	return s.repo.GetOrderDetail(ctx, orderID)
}

func (s *service) UpdateOrder(ctx context.Context, orderID uint, input UpdateOrderInput) (*Order, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "UpdateOrder"),
		zap.Uint("order_id", orderID),
	)

	// nothing to change: answer with the stored order
	if input.Empty() {
		return s.repo.GetOrderDetail(ctx, orderID)
	}
	if input.OrderType != nil && !input.OrderType.Valid() {
		return nil, ErrInvalidOrderType
	}
	if input.Status != nil && !input.Status.Valid() {
		return nil, ErrInvalidStatus
	}
	if negative(input.GrossAmount, input.Discount, input.NetAmount, input.PaidAmount, input.CreditAmount) {
		return nil, ErrNegativeAmount
	}

	var previous Status
	updated, err := s.repo.UpdateOrderTx(ctx, orderID, func(o *Order) (*table.Status, error) {
		previous = o.Status
		moved := input.TableID != nil && (o.TableID == nil || *o.TableID != *input.TableID)
		applyUpdate(o, input)
		o.UpdatedAt = s.now()

		if o.TableID == nil || (input.Status == nil && !moved) {
			return nil, nil
		}
		ts, ok := TableStatusFor(o.Status)
		if !ok {
			return nil, nil
		}
		return &ts, nil
	})
	if err != nil {
		log.Warn("failed to update order", zap.Error(err))
		return nil, err
	}

	s.metrics.Counter("orders_updated").Inc()
	s.publish(ctx, EventUpdated, UpdatedEvent{
		OrderID:        updated.ID,
		OrderNumber:    updated.OrderNumber,
		PreviousStatus: previous,
		Status:         updated.Status,
		TableID:        updated.TableID,
	})

	log.Info("order updated",
		zap.String("previous_status", string(previous)),
		zap.String("status", string(updated.Status)),
	)

	return s.repo.GetOrderDetail(ctx, orderID)
}

// applyUpdate copies the supplied fields onto o. net is recomputed when gross
// or discount changed, overriding any net supplied alongside them.
func applyUpdate(o *Order, in UpdateOrderInput) {
	if in.OrderType != nil {
		o.OrderType = *in.OrderType
	}
	if in.Status != nil {
		o.Status = *in.Status
	}
	if in.TableID != nil {
		o.TableID = in.TableID
	}
	if in.CustomerID != nil {
		o.CustomerID = in.CustomerID
	}
	if in.GrossAmount != nil {
		o.GrossAmount = *in.GrossAmount
	}
	if in.Discount != nil {
		o.Discount = *in.Discount
	}
	if in.NetAmount != nil {
		o.NetAmount = *in.NetAmount
	}
	if in.PaidAmount != nil {
		o.PaidAmount = *in.PaidAmount
	}
	if in.CreditAmount != nil {
		o.CreditAmount = *in.CreditAmount
	}
	if in.PaymentMethod != nil {
		o.PaymentMethod = in.PaymentMethod
	}
	if in.Notes != nil {
		o.Notes = in.Notes
	}

	if in.GrossAmount != nil || in.Discount != nil {
		o.RecomputeNet()
	}
}

func (s *service) DeleteOrder(ctx context.Context, orderID uint) error {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "DeleteOrder"),
		zap.Uint("order_id", orderID),
	)

	deleted, err := s.repo.DeleteOrderTx(ctx, orderID, table.StatusAvailable)
	if err != nil {
		log.Warn("failed to delete order", zap.Error(err))
		return err
	}

	s.metrics.Counter("orders_deleted").Inc()
	s.publish(ctx, EventDeleted, DeletedEvent{
		OrderID:     deleted.ID,
		OrderNumber: deleted.OrderNumber,
		TableID:     deleted.TableID,
	})

	log.Info("order deleted")
	return nil
}

// publish is best effort: the order is already committed. The request may be
// gone by now, so only its values are carried over.
func (s *service) publish(ctx context.Context, key string, payload any) {
	if err := s.publisher.Publish(context.WithoutCancel(ctx), key, payload); err != nil {
		s.metrics.Counter("events_publish_failed").Inc()
		logger.FromCtx(ctx).Warn("failed to publish event",
			zap.String("routing_key", key),
			zap.Error(err),
		)
	}
}
