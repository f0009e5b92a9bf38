package order

import (
	"context"
	"errors"
	"testing"
	"time"

	"restopos/internal/metrics"
	"restopos/internal/table"
	"restopos/internal/utils"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockRepository struct {
	mock.Mock

	// lastTableStatus records what the last mutation asked for.
	lastTableStatus *table.Status
	// movedFrom is the table the last mutation took the order away from.
	movedFrom *uint
}

func (m *MockRepository) CreateOrderTx(ctx context.Context, o *Order, tableStatus *table.Status) error {
	args := m.Called(ctx, o, tableStatus)
	return args.Error(0)
}

func (m *MockRepository) GetOrders(ctx context.Context, filter ListFilter) ([]*Order, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*Order), args.Error(1)
}

func (m *MockRepository) GetOrderDetail(ctx context.Context, orderID uint) (*Order, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Order), args.Error(1)
}

// UpdateOrderTx runs mutate against the stored order the way the real
// repository does inside its transaction.
func (m *MockRepository) UpdateOrderTx(ctx context.Context, orderID uint, mutate Mutation) (*Order, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	o := args.Get(0).(*Order)
	before := o.TableID
	ts, err := mutate(o)
	if err != nil {
		return nil, err
	}
	m.lastTableStatus = ts
	m.movedFrom = nil
	if before != nil && (o.TableID == nil || *o.TableID != *before) {
		m.movedFrom = before
	}
	return o, args.Error(1)
}

func (m *MockRepository) DeleteOrderTx(ctx context.Context, orderID uint, tableStatus table.Status) (*Order, error) {
	args := m.Called(ctx, orderID, tableStatus)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Order), args.Error(1)
}

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, routingKey string, payload any) error {
	args := m.Called(ctx, routingKey, payload)
	return args.Error(0)
}

func (m *MockPublisher) Close() error {
	return nil
}

var fixedNow = time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC)

func newTestService(repo *MockRepository, pub *MockPublisher) (*service, *metrics.Registry) {
	reg := metrics.NewRegistry()
	s := NewService(repo, pub, reg).(*service)
	s.now = func() time.Time { return fixedNow }
	return s, reg
}

func actorCtx() context.Context {
	return utils.SetUserContext(context.Background(), 1, "cashier@example.com", "cashier")
}

func dec(v int64) *decimal.Decimal {
	d := decimal.NewFromInt(v)
	return &d
}

func TestService_CreateOrder(t *testing.T) {
	t.Run("DineInWithTable", func(t *testing.T) {
		ctx := actorCtx()
		repo := new(MockRepository)
		pub := new(MockPublisher)
		svc, reg := newTestService(repo, pub)

		repo.On("CreateOrderTx", ctx,
			mock.MatchedBy(func(o *Order) bool {
				return o.OrderType == TypeDineIn &&
					o.Status == StatusPending &&
					*o.TableID == 5 &&
					o.GrossAmount.Equal(decimal.NewFromInt(200)) &&
					o.NetAmount.Equal(decimal.NewFromInt(200)) &&
					o.CreatedBy == 1 &&
					o.CreatedAt.Equal(fixedNow) &&
					o.OrderNumber == "" &&
					len(o.Items) == 1 &&
					o.Items[0].Subtotal.Equal(decimal.NewFromInt(200))
			}),
			mock.MatchedBy(func(ts *table.Status) bool {
				return ts != nil && *ts == table.StatusOccupied
			}),
		).Run(func(args mock.Arguments) {
			o := args.Get(1).(*Order)
			o.ID = 10
			o.OrderNumber = "ORD-20260115-0001"
		}).Return(nil)

		detail := &Order{ID: 10, OrderNumber: "ORD-20260115-0001", Status: StatusPending}
		repo.On("GetOrderDetail", ctx, uint(10)).Return(detail, nil)
		pub.On("Publish", mock.Anything, EventCreated, mock.MatchedBy(func(e CreatedEvent) bool {
			return e.OrderID == 10 && e.OrderNumber == "ORD-20260115-0001"
		})).Return(nil)

		got, err := svc.CreateOrder(ctx, CreateOrderInput{
			OrderType: TypeDineIn,
			TableID:   uintPtr(5),
			Items: []CreateOrderItemInput{
				{MenuItemID: 3, Quantity: 2, Price: dec(100)},
			},
		})
		require.NoError(t, err)
		assert.Same(t, detail, got)
		assert.Equal(t, uint64(1), reg.Counter("orders_created").Load())
		repo.AssertExpectations(t)
		pub.AssertExpectations(t)
	})

	t.Run("AmountsPrecedence", func(t *testing.T) {
		ctx := actorCtx()
		repo := new(MockRepository)
		pub := new(MockPublisher)
		svc, _ := newTestService(repo, pub)

		var captured *Order
		repo.On("CreateOrderTx", ctx, mock.Anything, (*table.Status)(nil)).
			Run(func(args mock.Arguments) { captured = args.Get(1).(*Order) }).
			Return(nil)
		repo.On("GetOrderDetail", ctx, mock.Anything).Return(&Order{}, nil)
		pub.On("Publish", mock.Anything, EventCreated, mock.Anything).Return(nil)

		_, err := svc.CreateOrder(ctx, CreateOrderInput{
			OrderType:   TypeTakeaway,
			OrderNumber: utils.StrPtr("  TK-77 "),
			TotalAmount: dec(300),
			Discount:    dec(50),
			NetAmount:   dec(999),
		})
		require.NoError(t, err)
		require.NotNil(t, captured)
		assert.Equal(t, "TK-77", captured.OrderNumber)
		assert.True(t, captured.GrossAmount.Equal(decimal.NewFromInt(300)))
		assert.True(t, captured.NetAmount.Equal(decimal.NewFromInt(250)))
	})

	t.Run("NetKeptWhenAmountsAbsent", func(t *testing.T) {
		ctx := actorCtx()
		repo := new(MockRepository)
		pub := new(MockPublisher)
		svc, _ := newTestService(repo, pub)

		var captured *Order
		repo.On("CreateOrderTx", ctx, mock.Anything, (*table.Status)(nil)).
			Run(func(args mock.Arguments) { captured = args.Get(1).(*Order) }).
			Return(nil)
		repo.On("GetOrderDetail", ctx, mock.Anything).Return(&Order{}, nil)
		pub.On("Publish", mock.Anything, EventCreated, mock.Anything).Return(nil)

		_, err := svc.CreateOrder(ctx, CreateOrderInput{
			OrderType: TypeDelivery,
			NetAmount: dec(120),
		})
		require.NoError(t, err)
		assert.True(t, captured.NetAmount.Equal(decimal.NewFromInt(120)))
	})

	t.Run("Validation", func(t *testing.T) {
		ctx := actorCtx()
		bad := StatusPending + "x"

		cases := []struct {
			name  string
			input CreateOrderInput
			want  error
		}{
			{"UnknownType", CreateOrderInput{OrderType: "Buffet"}, ErrInvalidOrderType},
			{"UnknownStatus", CreateOrderInput{OrderType: TypeTakeaway, Status: &bad}, ErrInvalidStatus},
			{"NegativeDiscount", CreateOrderInput{OrderType: TypeTakeaway, Discount: dec(-1)}, ErrNegativeAmount},
			{"ZeroQuantity", CreateOrderInput{OrderType: TypeTakeaway, Items: []CreateOrderItemInput{{MenuItemID: 1}}}, ErrInvalidItem},
			{"MissingMenuItem", CreateOrderInput{OrderType: TypeTakeaway, Items: []CreateOrderItemInput{{Quantity: 1}}}, ErrInvalidItem},
		}

		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				repo := new(MockRepository)
				svc, _ := newTestService(repo, new(MockPublisher))

				_, err := svc.CreateOrder(ctx, tc.input)
				assert.ErrorIs(t, err, tc.want)
				repo.AssertNotCalled(t, "CreateOrderTx", mock.Anything, mock.Anything, mock.Anything)
			})
		}
	})

	t.Run("NoActor", func(t *testing.T) {
		repo := new(MockRepository)
		svc, _ := newTestService(repo, new(MockPublisher))

		_, err := svc.CreateOrder(context.Background(), CreateOrderInput{OrderType: TypeTakeaway})
		assert.ErrorIs(t, err, ErrActorRequired)
	})

	t.Run("NonDefaultStatusStillSeatsTable", func(t *testing.T) {
		for _, st := range []Status{StatusPaid, StatusCompleted, StatusCancelled, StatusBillRequested, StatusInProgress} {
			t.Run(string(st), func(t *testing.T) {
				ctx := actorCtx()
				repo := new(MockRepository)
				pub := new(MockPublisher)
				svc, _ := newTestService(repo, pub)

				status := st
				repo.On("CreateOrderTx", ctx,
					mock.MatchedBy(func(o *Order) bool { return o.Status == status }),
					mock.MatchedBy(func(ts *table.Status) bool {
						return ts != nil && *ts == table.StatusOccupied
					}),
				).Return(nil)
				repo.On("GetOrderDetail", ctx, mock.Anything).Return(&Order{}, nil)
				pub.On("Publish", mock.Anything, EventCreated, mock.Anything).Return(nil)

				_, err := svc.CreateOrder(ctx, CreateOrderInput{
					OrderType: TypeDineIn,
					Status:    &status,
					TableID:   uintPtr(5),
				})
				require.NoError(t, err)
				repo.AssertExpectations(t)
			})
		}
	})

	t.Run("EventSurvivesCancelledRequest", func(t *testing.T) {
		ctx, cancel := context.WithCancel(actorCtx())
		repo := new(MockRepository)
		pub := new(MockPublisher)
		svc, reg := newTestService(repo, pub)

		repo.On("CreateOrderTx", ctx, mock.Anything, mock.Anything).
			Run(func(mock.Arguments) { cancel() }).
			Return(nil)
		repo.On("GetOrderDetail", ctx, mock.Anything).Return(&Order{}, nil)
		pub.On("Publish", mock.MatchedBy(func(c context.Context) bool {
			_, ok := utils.GetUserIDFromContext(c)
			return c.Err() == nil && ok
		}), EventCreated, mock.Anything).Return(nil)

		_, err := svc.CreateOrder(ctx, CreateOrderInput{OrderType: TypeTakeaway})
		require.NoError(t, err)
		pub.AssertExpectations(t)
		assert.Zero(t, reg.Counter("events_publish_failed").Load())
	})

	t.Run("RepositoryError", func(t *testing.T) {
		ctx := actorCtx()
		repo := new(MockRepository)
		pub := new(MockPublisher)
		svc, _ := newTestService(repo, pub)

		repo.On("CreateOrderTx", ctx, mock.Anything, mock.Anything).Return(table.ErrTableNotFound)

		_, err := svc.CreateOrder(ctx, CreateOrderInput{OrderType: TypeTable, TableID: uintPtr(42)})
		assert.ErrorIs(t, err, table.ErrTableNotFound)
		pub.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestService_UpdateOrder(t *testing.T) {
	stored := func() *Order {
		return &Order{
			ID:          10,
			OrderNumber: "ORD-20260115-0001",
			OrderType:   TypeDineIn,
			Status:      StatusPending,
			TableID:     uintPtr(5),
			GrossAmount: decimal.NewFromInt(200),
			NetAmount:   decimal.NewFromInt(200),
		}
	}

	t.Run("PaidReleasesTable", func(t *testing.T) {
		ctx := actorCtx()
		repo := new(MockRepository)
		pub := new(MockPublisher)
		svc, reg := newTestService(repo, pub)

		o := stored()
		paid := StatusPaid
		repo.On("UpdateOrderTx", ctx, uint(10)).Return(o, nil)
		repo.On("GetOrderDetail", ctx, uint(10)).Return(o, nil)
		pub.On("Publish", mock.Anything, EventUpdated, UpdatedEvent{
			OrderID:        10,
			OrderNumber:    "ORD-20260115-0001",
			PreviousStatus: StatusPending,
			Status:         StatusPaid,
			TableID:        o.TableID,
		}).Return(nil)

		got, err := svc.UpdateOrder(ctx, 10, UpdateOrderInput{Status: &paid})
		require.NoError(t, err)
		assert.Equal(t, StatusPaid, got.Status)
		assert.Equal(t, fixedNow, got.UpdatedAt)
		require.NotNil(t, repo.lastTableStatus)
		assert.Equal(t, table.StatusAvailable, *repo.lastTableStatus)
		assert.Equal(t, uint64(1), reg.Counter("orders_updated").Load())
		pub.AssertExpectations(t)
	})

	t.Run("BillRequested", func(t *testing.T) {
		ctx := actorCtx()
		repo := new(MockRepository)
		pub := new(MockPublisher)
		svc, _ := newTestService(repo, pub)

		o := stored()
		st := StatusBillRequested
		repo.On("UpdateOrderTx", ctx, uint(10)).Return(o, nil)
		repo.On("GetOrderDetail", ctx, uint(10)).Return(o, nil)
		pub.On("Publish", mock.Anything, EventUpdated, mock.Anything).Return(nil)

		_, err := svc.UpdateOrder(ctx, 10, UpdateOrderInput{Status: &st})
		require.NoError(t, err)
		assert.Equal(t, table.StatusBillRequested, *repo.lastTableStatus)
	})

	t.Run("NoStatusLeavesTable", func(t *testing.T) {
		ctx := actorCtx()
		repo := new(MockRepository)
		pub := new(MockPublisher)
		svc, _ := newTestService(repo, pub)

		o := stored()
		repo.On("UpdateOrderTx", ctx, uint(10)).Return(o, nil)
		repo.On("GetOrderDetail", ctx, uint(10)).Return(o, nil)
		pub.On("Publish", mock.Anything, EventUpdated, mock.Anything).Return(nil)

		_, err := svc.UpdateOrder(ctx, 10, UpdateOrderInput{Notes: utils.StrPtr("no onions")})
		require.NoError(t, err)
		assert.Nil(t, repo.lastTableStatus)
		assert.Equal(t, "no onions", *o.Notes)
	})

	t.Run("StatusWithoutTable", func(t *testing.T) {
		ctx := actorCtx()
		repo := new(MockRepository)
		pub := new(MockPublisher)
		svc, _ := newTestService(repo, pub)

		o := stored()
		o.TableID = nil
		cancelled := StatusCancelled
		repo.On("UpdateOrderTx", ctx, uint(10)).Return(o, nil)
		repo.On("GetOrderDetail", ctx, uint(10)).Return(o, nil)
		pub.On("Publish", mock.Anything, EventUpdated, mock.Anything).Return(nil)

		_, err := svc.UpdateOrder(ctx, 10, UpdateOrderInput{Status: &cancelled})
		require.NoError(t, err)
		assert.Nil(t, repo.lastTableStatus)
	})

	t.Run("NetFollowsGrossAndDiscount", func(t *testing.T) {
		ctx := actorCtx()
		repo := new(MockRepository)
		pub := new(MockPublisher)
		svc, _ := newTestService(repo, pub)

		o := stored()
		repo.On("UpdateOrderTx", ctx, uint(10)).Return(o, nil)
		repo.On("GetOrderDetail", ctx, uint(10)).Return(o, nil)
		pub.On("Publish", mock.Anything, EventUpdated, mock.Anything).Return(nil)

		_, err := svc.UpdateOrder(ctx, 10, UpdateOrderInput{Discount: dec(30), NetAmount: dec(1)})
		require.NoError(t, err)
		assert.True(t, o.NetAmount.Equal(decimal.NewFromInt(170)))
		assert.True(t, o.NetAmount.Equal(o.GrossAmount.Sub(o.Discount)))
	})

	t.Run("MoveToAnotherTable", func(t *testing.T) {
		ctx := actorCtx()
		repo := new(MockRepository)
		pub := new(MockPublisher)
		svc, _ := newTestService(repo, pub)

		o := stored()
		o.TableID = uintPtr(3)
		repo.On("UpdateOrderTx", ctx, uint(10)).Return(o, nil)
		repo.On("GetOrderDetail", ctx, uint(10)).Return(o, nil)
		pub.On("Publish", mock.Anything, EventUpdated, mock.Anything).Return(nil)

		_, err := svc.UpdateOrder(ctx, 10, UpdateOrderInput{TableID: uintPtr(9)})
		require.NoError(t, err)
		assert.Equal(t, uint(9), *o.TableID)
		require.NotNil(t, repo.movedFrom)
		assert.Equal(t, uint(3), *repo.movedFrom)
		require.NotNil(t, repo.lastTableStatus)
		assert.Equal(t, table.StatusOccupied, *repo.lastTableStatus)
	})

	t.Run("MoveAndPay", func(t *testing.T) {
		ctx := actorCtx()
		repo := new(MockRepository)
		pub := new(MockPublisher)
		svc, _ := newTestService(repo, pub)

		o := stored()
		paid := StatusPaid
		repo.On("UpdateOrderTx", ctx, uint(10)).Return(o, nil)
		repo.On("GetOrderDetail", ctx, uint(10)).Return(o, nil)
		pub.On("Publish", mock.Anything, EventUpdated, mock.Anything).Return(nil)

		_, err := svc.UpdateOrder(ctx, 10, UpdateOrderInput{TableID: uintPtr(9), Status: &paid})
		require.NoError(t, err)
		assert.Equal(t, uint(5), *repo.movedFrom)
		assert.Equal(t, table.StatusAvailable, *repo.lastTableStatus)
	})

	t.Run("SameTableWithoutStatus", func(t *testing.T) {
		ctx := actorCtx()
		repo := new(MockRepository)
		pub := new(MockPublisher)
		svc, _ := newTestService(repo, pub)

		o := stored()
		repo.On("UpdateOrderTx", ctx, uint(10)).Return(o, nil)
		repo.On("GetOrderDetail", ctx, uint(10)).Return(o, nil)
		pub.On("Publish", mock.Anything, EventUpdated, mock.Anything).Return(nil)

		_, err := svc.UpdateOrder(ctx, 10, UpdateOrderInput{TableID: uintPtr(5)})
		require.NoError(t, err)
		assert.Nil(t, repo.movedFrom)
		assert.Nil(t, repo.lastTableStatus)
	})

	t.Run("EmptyPatchReturnsOrder", func(t *testing.T) {
		ctx := actorCtx()
		repo := new(MockRepository)
		pub := new(MockPublisher)
		svc, reg := newTestService(repo, pub)

		o := stored()
		repo.On("GetOrderDetail", ctx, uint(10)).Return(o, nil)

		got, err := svc.UpdateOrder(ctx, 10, UpdateOrderInput{})
		require.NoError(t, err)
		assert.Same(t, o, got)
		repo.AssertNotCalled(t, "UpdateOrderTx", mock.Anything, mock.Anything)
		pub.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything, mock.Anything)
		assert.Zero(t, reg.Counter("orders_updated").Load())
	})

	t.Run("EmptyPatchUnknownOrder", func(t *testing.T) {
		ctx := actorCtx()
		repo := new(MockRepository)
		svc, _ := newTestService(repo, new(MockPublisher))

		repo.On("GetOrderDetail", ctx, uint(99)).Return(nil, ErrOrderNotFound)

		_, err := svc.UpdateOrder(ctx, 99, UpdateOrderInput{})
		assert.ErrorIs(t, err, ErrOrderNotFound)
	})

	t.Run("PublishFailureIsNotFatal", func(t *testing.T) {
		ctx := actorCtx()
		repo := new(MockRepository)
		pub := new(MockPublisher)
		svc, reg := newTestService(repo, pub)

		o := stored()
		repo.On("UpdateOrderTx", ctx, uint(10)).Return(o, nil)
		repo.On("GetOrderDetail", ctx, uint(10)).Return(o, nil)
		pub.On("Publish", mock.Anything, EventUpdated, mock.Anything).Return(errors.New("broker unreachable"))

		_, err := svc.UpdateOrder(ctx, 10, UpdateOrderInput{GrossAmount: dec(250)})
		require.NoError(t, err)
		assert.Equal(t, uint64(1), reg.Counter("events_publish_failed").Load())
	})

	t.Run("Rejected", func(t *testing.T) {
		ctx := actorCtx()
		bad := Status("Lost")
		badType := Type("Drive-Thru")

		cases := []struct {
			name  string
			input UpdateOrderInput
			want  error
		}{
			{"UnknownStatus", UpdateOrderInput{Status: &bad}, ErrInvalidStatus},
			{"UnknownType", UpdateOrderInput{OrderType: &badType}, ErrInvalidOrderType},
			{"NegativePaid", UpdateOrderInput{PaidAmount: dec(-5)}, ErrNegativeAmount},
		}

		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				repo := new(MockRepository)
				svc, _ := newTestService(repo, new(MockPublisher))

				_, err := svc.UpdateOrder(ctx, 10, tc.input)
				assert.ErrorIs(t, err, tc.want)
				repo.AssertNotCalled(t, "UpdateOrderTx", mock.Anything, mock.Anything)
			})
		}
	})

	t.Run("NotFound", func(t *testing.T) {
		ctx := actorCtx()
		repo := new(MockRepository)
		pub := new(MockPublisher)
		svc, _ := newTestService(repo, pub)

		paid := StatusPaid
		repo.On("UpdateOrderTx", ctx, uint(99)).Return(nil, ErrOrderNotFound)

		_, err := svc.UpdateOrder(ctx, 99, UpdateOrderInput{Status: &paid})
		assert.ErrorIs(t, err, ErrOrderNotFound)
		pub.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestService_DeleteOrder(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		ctx := actorCtx()
		repo := new(MockRepository)
		pub := new(MockPublisher)
		svc, reg := newTestService(repo, pub)

		repo.On("DeleteOrderTx", ctx, uint(10), table.StatusAvailable).
			Return(&Order{ID: 10, OrderNumber: "ORD-20260115-0001", TableID: uintPtr(5)}, nil)
		pub.On("Publish", mock.Anything, EventDeleted, mock.MatchedBy(func(e DeletedEvent) bool {
			return e.OrderID == 10 && *e.TableID == 5
		})).Return(nil)

		require.NoError(t, svc.DeleteOrder(ctx, 10))
		assert.Equal(t, uint64(1), reg.Counter("orders_deleted").Load())
		repo.AssertExpectations(t)
		pub.AssertExpectations(t)
	})

	t.Run("NotFound", func(t *testing.T) {
		ctx := actorCtx()
		repo := new(MockRepository)
		svc, _ := newTestService(repo, new(MockPublisher))

		repo.On("DeleteOrderTx", ctx, uint(99), table.StatusAvailable).Return(nil, ErrOrderNotFound)

		assert.ErrorIs(t, svc.DeleteOrder(ctx, 99), ErrOrderNotFound)
	})
}

func TestService_GetOrders(t *testing.T) {
	ctx := context.Background()

	t.Run("PassesFilter", func(t *testing.T) {
		repo := new(MockRepository)
		svc, _ := newTestService(repo, new(MockPublisher))

		st := StatusPending
		repo.On("GetOrders", ctx, ListFilter{Status: &st, Limit: 10}).Return([]*Order{{ID: 1}}, nil)

		orders, err := svc.GetOrders(ctx, ListFilter{Status: &st, Limit: 10, Offset: -3})
		require.NoError(t, err)
		assert.Len(t, orders, 1)
	})

	t.Run("InvalidFilter", func(t *testing.T) {
		repo := new(MockRepository)
		svc, _ := newTestService(repo, new(MockPublisher))

		bad := Type("Buffet")
		_, err := svc.GetOrders(ctx, ListFilter{OrderType: &bad})
		assert.ErrorIs(t, err, ErrInvalidOrderType)
	})
}

func TestTableStatusFor(t *testing.T) {
	cases := map[Status]table.Status{
		StatusPending:       table.StatusOccupied,
		StatusInProgress:    table.StatusOccupied,
		StatusBillRequested: table.StatusBillRequested,
		StatusPaid:          table.StatusAvailable,
		StatusCompleted:     table.StatusAvailable,
		StatusCancelled:     table.StatusAvailable,
	}
	for status, want := range cases {
		got, ok := TableStatusFor(status)
		assert.True(t, ok, status)
		assert.Equal(t, want, got, status)
	}

	_, ok := TableStatusFor("Lost")
	assert.False(t, ok)
}
