package table

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"slices"

	"restopos/internal/db"
	"restopos/internal/logger"

	"go.uber.org/zap"
)

type Repository interface {
	GetTable(ctx context.Context, id uint) (*Table, error)
	ListTables(ctx context.Context, status *Status) ([]*Table, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

// SetStatus moves one table to status. exec is usually the transaction of the
// order mutation that drives the change.
func SetStatus(ctx context.Context, exec db.Execer, tableID uint, status Status) error {
	res, err := exec.ExecContext(ctx, `
		UPDATE tables
		SET status = $1, updated_at = NOW()
		WHERE id = $2
	`, status, tableID)
	if err != nil {
		return fmt.Errorf("update table %d status: %w", tableID, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrTableNotFound
	}

	logger.FromCtx(ctx).Debug("table status changed",
		zap.Uint("table_id", tableID),
		zap.String("status", string(status)),
	)
	return nil
}

// ApplyStatuses moves several tables inside the caller's transaction. Rows are
// locked in ascending id order before any of them is updated.
func ApplyStatuses(ctx context.Context, q db.Querier, changes map[uint]Status) error {
	ids := make([]uint, 0, len(changes))
	for id := range changes {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	for _, id := range ids {
		if err := LockTable(ctx, q, id); err != nil {
			return err
		}
	}
	for _, id := range ids {
		if err := SetStatus(ctx, q, id, changes[id]); err != nil {
			return err
		}
	}
	return nil
}

// LockTable takes a row lock on the table for the rest of the transaction.
func LockTable(ctx context.Context, q db.Querier, tableID uint) error {
	var id uint
	err := q.QueryRowContext(ctx, `SELECT id FROM tables WHERE id = $1 FOR UPDATE`, tableID).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrTableNotFound
	}
	return err
}

func (r *repository) GetTable(ctx context.Context, id uint) (*Table, error) {
	var t Table
	err := r.db.QueryRowContext(ctx, `
		SELECT id, name, capacity, status, updated_at
		FROM tables
		WHERE id = $1
	`, id).Scan(&t.ID, &t.Name, &t.Capacity, &t.Status, &t.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrTableNotFound
	}
	if err != nil {
		logger.FromCtx(ctx).Error("failed to get table", zap.Uint("table_id", id), zap.Error(err))
		return nil, err
	}
	return &t, nil
}

func (r *repository) ListTables(ctx context.Context, status *Status) ([]*Table, error) {
	query := `SELECT id, name, capacity, status, updated_at FROM tables`
	args := []any{}

	if status != nil {
		query += ` WHERE status = $1`
		args = append(args, *status)
	}
	query += ` ORDER BY id ASC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		logger.FromCtx(ctx).Error("failed to list tables", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	tables := []*Table{}
	for rows.Next() {
		var t Table
		if err := rows.Scan(&t.ID, &t.Name, &t.Capacity, &t.Status, &t.UpdatedAt); err != nil {
			return nil, err
		}
		tables = append(tables, &t)
	}

	return tables, rows.Err()
}
