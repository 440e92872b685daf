package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/resto-settlement-go/internal/domain/dispatch"
	"github.com/cmlabs-hris/resto-settlement-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type dispatchRepositoryImpl struct {
	db *database.DB
}

func NewDispatchRepository(db *database.DB) dispatch.DispatchRepository {
	return &dispatchRepositoryImpl{db: db}
}

const dispatchColumns = `
	d.id, d.waiter_id, d.item_id, d.shift_id, d.qty_dispatched, d.price_each::float8,
	d.dispatch_date, d.created_at,
	r.id, r.qty_returned, r.loss_qty, r.cash_collected::float8, r.created_at`

func scanDispatch(row pgx.Row) (dispatch.FieldDispatch, error) {
	var (
		d             dispatch.FieldDispatch
		retID         *string
		qtyReturned   *int
		lossQty       *int
		cashCollected *float64
		retCreatedAt  *time.Time
	)
	err := row.Scan(
		&d.ID, &d.WaiterID, &d.ItemID, &d.ShiftID, &d.QtyDispatched, &d.PriceEach,
		&d.Date, &d.CreatedAt,
		&retID, &qtyReturned, &lossQty, &cashCollected, &retCreatedAt,
	)
	if err != nil {
		return dispatch.FieldDispatch{}, err
	}
	if retID != nil {
		d.Return = &dispatch.FieldReturn{
			ID:            *retID,
			DispatchID:    d.ID,
			QtyReturned:   *qtyReturned,
			LossQty:       *lossQty,
			CashCollected: cashCollected,
		}
		if retCreatedAt != nil {
			d.Return.CreatedAt = *retCreatedAt
		}
	}
	return d, nil
}

func (r *dispatchRepositoryImpl) Create(ctx context.Context, d dispatch.FieldDispatch) (dispatch.FieldDispatch, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO field_dispatches (id, waiter_id, item_id, shift_id, qty_dispatched, price_each, dispatch_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at
	`

	d.ID = newID()
	d.Return = nil
	if err := q.QueryRow(ctx, query,
		d.ID, d.WaiterID, d.ItemID, d.ShiftID, d.QtyDispatched, d.PriceEach, d.Date,
	).Scan(&d.ID, &d.CreatedAt); err != nil {
		return dispatch.FieldDispatch{}, fmt.Errorf("failed to create field dispatch: %w", err)
	}
	return d, nil
}

func (r *dispatchRepositoryImpl) GetByID(ctx context.Context, id string) (dispatch.FieldDispatch, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + dispatchColumns + `
		FROM field_dispatches d
		LEFT JOIN field_returns r ON r.dispatch_id = d.id
		WHERE d.id = $1
	`

	d, err := scanDispatch(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return dispatch.FieldDispatch{}, dispatch.ErrDispatchNotFound
		}
		return dispatch.FieldDispatch{}, fmt.Errorf("failed to get field dispatch: %w", err)
	}
	return d, nil
}

func (r *dispatchRepositoryImpl) ListByShiftID(ctx context.Context, shiftID string) ([]dispatch.FieldDispatch, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + dispatchColumns + `
		FROM field_dispatches d
		LEFT JOIN field_returns r ON r.dispatch_id = d.id
		WHERE d.shift_id = $1
		ORDER BY d.id
	`

	rows, err := q.Query(ctx, query, shiftID)
	if err != nil {
		return nil, fmt.Errorf("failed to list field dispatches: %w", err)
	}
	defer rows.Close()

	var out []dispatch.FieldDispatch
	for rows.Next() {
		d, err := scanDispatch(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (r *dispatchRepositoryImpl) CreateReturn(ctx context.Context, ret dispatch.FieldReturn) (dispatch.FieldReturn, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO field_returns (id, dispatch_id, qty_returned, loss_qty, cash_collected)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`

	ret.ID = newID()
	err := q.QueryRow(ctx, query, ret.ID, ret.DispatchID, ret.QtyReturned, ret.LossQty, ret.CashCollected).
		Scan(&ret.ID, &ret.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return dispatch.FieldReturn{}, dispatch.ErrReturnExists
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == sqlStateForeignKeyViolation {
			return dispatch.FieldReturn{}, dispatch.ErrDispatchNotFound
		}
		return dispatch.FieldReturn{}, fmt.Errorf("failed to create field return: %w", err)
	}
	return ret, nil
}
