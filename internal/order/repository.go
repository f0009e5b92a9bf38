package order

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"restopos/internal/db"
	"restopos/internal/logger"
	"restopos/internal/table"
	"restopos/internal/utils"

	"github.com/lib/pq"
	"go.uber.org/zap"
)

// Mutation edits a locked order in place and returns the status its current
// table must take, or nil to leave that table alone. A table the order moved
// away from is released regardless.
type Mutation func(o *Order) (*table.Status, error)

type Repository interface {
	CreateOrderTx(ctx context.Context, o *Order, tableStatus *table.Status) error
	GetOrders(ctx context.Context, filter ListFilter) ([]*Order, error)
	GetOrderDetail(ctx context.Context, orderID uint) (*Order, error)
	UpdateOrderTx(ctx context.Context, orderID uint, mutate Mutation) (*Order, error)
	DeleteOrderTx(ctx context.Context, orderID uint, tableStatus table.Status) (*Order, error)
}

type repository struct {
	db           *sql.DB
	numberPrefix string
}

func NewRepository(db *sql.DB, numberPrefix string) Repository {
	if numberPrefix == "" {
		numberPrefix = "ORD"
	}
	return &repository{db: db, numberPrefix: numberPrefix}
}

const orderColumns = `
	o.id, o.order_number, o.order_type, o.status, o.table_id, o.customer_id,
	o.gross_amount, o.discount, o.net_amount, o.paid_amount, o.credit_amount,
	o.payment_method, o.notes, o.created_by, o.created_at, o.updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

// scanOrder reads orderColumns, followed by the table and customer columns
// when withRefs is set.
func scanOrder(row rowScanner, withRefs bool) (*Order, error) {
	var (
		o                     Order
		tableID, customerID   sql.NullInt64
		paymentMethod, notes  sql.NullString
		tableName, tableState sql.NullString
		customerName, phone   sql.NullString
	)

	dest := []any{
		&o.ID, &o.OrderNumber, &o.OrderType, &o.Status, &tableID, &customerID,
		&o.GrossAmount, &o.Discount, &o.NetAmount, &o.PaidAmount, &o.CreditAmount,
		&paymentMethod, &notes, &o.CreatedBy, &o.CreatedAt, &o.UpdatedAt,
	}
	if withRefs {
		dest = append(dest, &tableName, &tableState, &customerName, &phone)
	}

	if err := row.Scan(dest...); err != nil {
		return nil, err
	}

	o.TableID = nullUint(tableID)
	o.CustomerID = nullUint(customerID)
	o.PaymentMethod = nullString(paymentMethod)
	o.Notes = nullString(notes)

	if withRefs && o.TableID != nil && tableName.Valid {
		o.Table = &TableRef{ID: *o.TableID, Name: tableName.String, Status: table.Status(tableState.String)}
	}
	if withRefs && o.CustomerID != nil && customerName.Valid {
		o.Customer = &CustomerRef{ID: *o.CustomerID, Name: customerName.String, Phone: nullString(phone)}
	}

	return &o, nil
}

func nullUint(n sql.NullInt64) *uint {
	if !n.Valid {
		return nil
	}
	v := uint(n.Int64)
	return &v
}

func nullString(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	v := s.String
	return &v
}

func (r *repository) nextOrderNumber(ctx context.Context, tx *sql.Tx, o *Order) (string, error) {
	day := utils.BusinessDay(o.CreatedAt)

	var seq int64
	err := tx.QueryRowContext(ctx, `
		INSERT INTO order_number_sequences (day, last_value)
		VALUES ($1, 1)
		ON CONFLICT (day) DO UPDATE
		SET last_value = order_number_sequences.last_value + 1
		RETURNING last_value
	`, day).Scan(&seq)
	if err != nil {
		return "", fmt.Errorf("next order sequence: %w", err)
	}

	return utils.FormatOrderNumber(r.numberPrefix, day, seq), nil
}

func (r *repository) CreateOrderTx(ctx context.Context, o *Order, tableStatus *table.Status) error {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "CreateOrderTx"),
		zap.Int("item_count", len(o.Items)),
	)

	err := db.WithTx(ctx, r.db, func(tx *sql.Tx) error {
		// 1. Lock the table first so concurrent orders on it serialize
		if o.TableID != nil {
			if err := table.LockTable(ctx, tx, *o.TableID); err != nil {
				return err
			}
		}

		// 2. Order number
		if o.OrderNumber == "" {
			number, err := r.nextOrderNumber(ctx, tx, o)
			if err != nil {
				return err
			}
			o.OrderNumber = number
		}

		// 3. Header
		err := tx.QueryRowContext(ctx, `
			INSERT INTO orders (
				order_number, order_type, status, table_id, customer_id,
				gross_amount, discount, net_amount, paid_amount, credit_amount,
				payment_method, notes, created_by, created_at, updated_at
			) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$14)
			RETURNING id
		`,
			o.OrderNumber, o.OrderType, o.Status, o.TableID, o.CustomerID,
			o.GrossAmount, o.Discount, o.NetAmount, o.PaidAmount, o.CreditAmount,
			o.PaymentMethod, o.Notes, o.CreatedBy, o.CreatedAt,
		).Scan(&o.ID)
		if err != nil {
			return fmt.Errorf("insert order: %w", err)
		}
		o.UpdatedAt = o.CreatedAt

		// 4. Items
		for i, item := range o.Items {
			item.OrderID = o.ID
			err := tx.QueryRowContext(ctx, `
				INSERT INTO order_items (
					order_id, menu_item_id, quantity, price, subtotal, notes
				) VALUES ($1,$2,$3,$4,$5,$6)
				RETURNING id
			`, o.ID, item.MenuItemID, item.Quantity, item.Price, item.Subtotal, item.Notes).Scan(&item.ID)
			if err != nil {
				log.Error("failed to insert order item",
					zap.Int("item_index", i),
					zap.Uint("menu_item_id", item.MenuItemID),
					zap.Error(err),
				)
				return fmt.Errorf("insert order item %d: %w", i, err)
			}
		}

		// 5. Table
		if o.TableID != nil && tableStatus != nil {
			if err := table.SetStatus(ctx, tx, *o.TableID, *tableStatus); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		log.Error("create order transaction failed", zap.Error(err))
		return db.TranslateError(err)
	}

	log.Info("order created",
		zap.Uint("order_id", o.ID),
		zap.String("order_number", o.OrderNumber),
	)
	return nil
}

func (r *repository) GetOrders(ctx context.Context, filter ListFilter) ([]*Order, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "GetOrders"),
	)

	query := `
		SELECT ` + orderColumns + `,
			t.name, t.status, c.name, c.phone
		FROM orders o
		LEFT JOIN tables t ON t.id = o.table_id
		LEFT JOIN customers c ON c.id = o.customer_id
	`

	where := []string{}
	args := []any{}

	if filter.OrderType != nil {
		args = append(args, *filter.OrderType)
		where = append(where, fmt.Sprintf("o.order_type = $%d", len(args)))
	}
	if filter.Status != nil {
		args = append(args, *filter.Status)
		where = append(where, fmt.Sprintf("o.status = $%d", len(args)))
	}
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}

	query += " ORDER BY o.created_at DESC, o.id DESC"

	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
		args = append(args, filter.Limit, filter.Offset)
	}

	log.Debug("executing get orders query", zap.String("query", query), zap.Any("args", args))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to query orders", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	orders := []*Order{}
	for rows.Next() {
		o, err := scanOrder(rows, true)
		if err != nil {
			log.Error("failed to scan order row", zap.Error(err))
			return nil, err
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		log.Error("rows iteration error", zap.Error(err))
		return nil, err
	}

	if err := r.attachChildren(ctx, orders); err != nil {
		return nil, err
	}

	log.Debug("get orders success", zap.Int("count", len(orders)))
	return orders, nil
}

func (r *repository) GetOrderDetail(ctx context.Context, orderID uint) (*Order, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+orderColumns+`,
			t.name, t.status, c.name, c.phone
		FROM orders o
		LEFT JOIN tables t ON t.id = o.table_id
		LEFT JOIN customers c ON c.id = o.customer_id
		WHERE o.id = $1
	`, orderID)

	o, err := scanOrder(row, true)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		logger.FromCtx(ctx).Error("failed to get order detail", zap.Uint("order_id", orderID), zap.Error(err))
		return nil, err
	}

	if err := r.attachChildren(ctx, []*Order{o}); err != nil {
		return nil, err
	}
	return o, nil
}

// attachChildren loads items and kitchen tickets for every order in one query each.
func (r *repository) attachChildren(ctx context.Context, orders []*Order) error {
	if len(orders) == 0 {
		return nil
	}

	ids := make([]int64, 0, len(orders))
	byID := make(map[uint]*Order, len(orders))
	for _, o := range orders {
		ids = append(ids, int64(o.ID))
		byID[o.ID] = o
		o.Items = []*OrderItem{}
		o.KOTs = []*KitchenTicket{}
	}

	items, err := r.fetchOrderItems(ctx, ids)
	if err != nil {
		return err
	}
	for _, item := range items {
		if o, ok := byID[item.OrderID]; ok {
			o.Items = append(o.Items, item)
		}
	}

	kots, err := r.fetchKitchenTickets(ctx, ids)
	if err != nil {
		return err
	}
	for _, k := range kots {
		if o, ok := byID[k.OrderID]; ok {
			o.KOTs = append(o.KOTs, k)
		}
	}

	return nil
}

func (r *repository) fetchOrderItems(ctx context.Context, orderIDs []int64) ([]*OrderItem, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT
			oi.id, oi.order_id, oi.menu_item_id, oi.quantity, oi.price, oi.subtotal, oi.notes,
			m.name, m.price
		FROM order_items oi
		JOIN menu_items m ON m.id = oi.menu_item_id
		WHERE oi.order_id = ANY($1)
		ORDER BY oi.id ASC
	`, pq.Array(orderIDs))
	if err != nil {
		logger.FromCtx(ctx).Error("failed to query order items", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var items []*OrderItem
	for rows.Next() {
		var (
			item  OrderItem
			menu  MenuItemRef
			notes sql.NullString
		)
		if err := rows.Scan(
			&item.ID, &item.OrderID, &item.MenuItemID, &item.Quantity, &item.Price, &item.Subtotal, &notes,
			&menu.Name, &menu.Price,
		); err != nil {
			return nil, err
		}
		item.Notes = notes.String
		menu.ID = item.MenuItemID
		item.MenuItem = &menu
		items = append(items, &item)
	}

	return items, rows.Err()
}

func (r *repository) fetchKitchenTickets(ctx context.Context, orderIDs []int64) ([]*KitchenTicket, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT k.id, k.order_id, k.kot_number, k.status, k.created_at
		FROM kots k
		WHERE k.order_id = ANY($1)
		ORDER BY k.id ASC
	`, pq.Array(orderIDs))
	if err != nil {
		logger.FromCtx(ctx).Error("failed to query kitchen tickets", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var kots []*KitchenTicket
	byID := map[uint]*KitchenTicket{}
	kotIDs := []int64{}
	for rows.Next() {
		var k KitchenTicket
		if err := rows.Scan(&k.ID, &k.OrderID, &k.KOTNumber, &k.Status, &k.CreatedAt); err != nil {
			return nil, err
		}
		k.Items = []*KitchenTicketItem{}
		kots = append(kots, &k)
		byID[k.ID] = &k
		kotIDs = append(kotIDs, int64(k.ID))
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if len(kots) == 0 {
		return kots, nil
	}

	itemRows, err := r.db.QueryContext(ctx, `
		SELECT ki.id, ki.kot_id, ki.menu_item_id, ki.quantity, ki.notes, m.name, m.price
		FROM kot_items ki
		JOIN menu_items m ON m.id = ki.menu_item_id
		WHERE ki.kot_id = ANY($1)
		ORDER BY ki.id ASC
	`, pq.Array(kotIDs))
	if err != nil {
		logger.FromCtx(ctx).Error("failed to query kitchen ticket items", zap.Error(err))
		return nil, err
	}
	defer itemRows.Close()

	for itemRows.Next() {
		var (
			item  KitchenTicketItem
			menu  MenuItemRef
			notes sql.NullString
		)
		if err := itemRows.Scan(&item.ID, &item.KOTID, &item.MenuItemID, &item.Quantity, &notes, &menu.Name, &menu.Price); err != nil {
			return nil, err
		}
		item.Notes = notes.String
		menu.ID = item.MenuItemID
		item.MenuItem = &menu
		if k, ok := byID[item.KOTID]; ok {
			k.Items = append(k.Items, &item)
		}
	}

	return kots, itemRows.Err()
}

func lockOrder(ctx context.Context, tx *sql.Tx, orderID uint) (*Order, error) {
	row := tx.QueryRowContext(ctx, `
		SELECT `+orderColumns+`
		FROM orders o
		WHERE o.id = $1
		FOR UPDATE
	`, orderID)

	o, err := scanOrder(row, false)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrOrderNotFound
	}
	return o, err
}

func (r *repository) UpdateOrderTx(ctx context.Context, orderID uint, mutate Mutation) (*Order, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "UpdateOrderTx"),
		zap.Uint("order_id", orderID),
	)

	var updated *Order
	err := db.WithTx(ctx, r.db, func(tx *sql.Tx) error {
		o, err := lockOrder(ctx, tx, orderID)
		if err != nil {
			return err
		}

		var previousTable *uint
		if o.TableID != nil {
			id := *o.TableID
			previousTable = &id
		}

		tableStatus, err := mutate(o)
		if err != nil {
			return err
		}

		_, err = tx.ExecContext(ctx, `
			UPDATE orders
			SET
				order_type = $1,
				status = $2,
				table_id = $3,
				customer_id = $4,
				gross_amount = $5,
				discount = $6,
				net_amount = $7,
				paid_amount = $8,
				credit_amount = $9,
				payment_method = $10,
				notes = $11,
				updated_at = $12
			WHERE id = $13
		`,
			o.OrderType, o.Status, o.TableID, o.CustomerID,
			o.GrossAmount, o.Discount, o.NetAmount, o.PaidAmount, o.CreditAmount,
			o.PaymentMethod, o.Notes, o.UpdatedAt, o.ID,
		)
		if err != nil {
			return fmt.Errorf("update order: %w", err)
		}

		// A table the order left is free again.
		changes := map[uint]table.Status{}
		if previousTable != nil && (o.TableID == nil || *o.TableID != *previousTable) {
			changes[*previousTable] = table.StatusAvailable
		}
		if o.TableID != nil && tableStatus != nil {
			changes[*o.TableID] = *tableStatus
		}
		if err := table.ApplyStatuses(ctx, tx, changes); err != nil {
			return err
		}

		updated = o
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrOrderNotFound) {
			log.Warn("order not found")
			return nil, err
		}
		log.Error("update order transaction failed", zap.Error(err))
		return nil, db.TranslateError(err)
	}

	log.Info("order updated", zap.String("status", string(updated.Status)))
	return updated, nil
}

func (r *repository) DeleteOrderTx(ctx context.Context, orderID uint, tableStatus table.Status) (*Order, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "DeleteOrderTx"),
		zap.Uint("order_id", orderID),
	)

	var deleted *Order
	err := db.WithTx(ctx, r.db, func(tx *sql.Tx) error {
		o, err := lockOrder(ctx, tx, orderID)
		if err != nil {
			return err
		}

		if o.TableID != nil {
			if err := table.ApplyStatuses(ctx, tx, map[uint]table.Status{*o.TableID: tableStatus}); err != nil {
				return err
			}
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM orders WHERE id = $1`, orderID); err != nil {
			return fmt.Errorf("delete order: %w", err)
		}

		deleted = o
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrOrderNotFound) {
			log.Warn("order not found")
			return nil, err
		}
		log.Error("delete order transaction failed", zap.Error(err))
		return nil, db.TranslateError(err)
	}

	log.Info("order deleted", zap.String("order_number", deleted.OrderNumber))
	return deleted, nil
}
