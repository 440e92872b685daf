package postgresql

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/resto-settlement-go/internal/domain/shift"
	"github.com/cmlabs-hris/resto-settlement-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type shiftRepositoryImpl struct {
	db *database.DB
}

func NewShiftRepository(db *database.DB) shift.ShiftRepository {
	return &shiftRepositoryImpl{db: db}
}

const shiftColumns = `
	s.id, s.employee_id, s.shift_date, s.opened_at, s.closed_at,
	s.waiter_type, s.table_code, s.route, s.notes, s.events,
	EXISTS (SELECT 1 FROM cashups c WHERE c.shift_id = s.id),
	s.created_at, s.updated_at`

func scanShift(row pgx.Row) (shift.Shift, error) {
	var (
		sh     shift.Shift
		events []byte
	)
	err := row.Scan(
		&sh.ID, &sh.EmployeeID, &sh.Date, &sh.OpenedAt, &sh.ClosedAt,
		&sh.WaiterType, &sh.TableCode, &sh.Route, &sh.Notes, &events,
		&sh.Settled, &sh.CreatedAt, &sh.UpdatedAt,
	)
	if err != nil {
		return shift.Shift{}, err
	}
	if len(events) > 0 {
		if err := json.Unmarshal(events, &sh.Events); err != nil {
			return shift.Shift{}, fmt.Errorf("failed to decode events of shift %s: %w", sh.ID, err)
		}
	}
	return sh, nil
}

func (r *shiftRepositoryImpl) GetByID(ctx context.Context, id string) (shift.Shift, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + shiftColumns + ` FROM shifts s WHERE s.id = $1`

	sh, err := scanShift(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return shift.Shift{}, shift.ErrShiftNotFound
		}
		return shift.Shift{}, fmt.Errorf("failed to get shift: %w", err)
	}
	return sh, nil
}

func (r *shiftRepositoryImpl) GetLatest(ctx context.Context, employeeID string, date time.Time) (shift.Shift, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + shiftColumns + `
		FROM shifts s
		WHERE s.employee_id = $1 AND s.shift_date = $2
		ORDER BY s.opened_at DESC, s.id DESC
		LIMIT 1
	`

	sh, err := scanShift(q.QueryRow(ctx, query, employeeID, shift.DateOnly(date)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return shift.Shift{}, shift.ErrShiftNotFound
		}
		return shift.Shift{}, fmt.Errorf("failed to get latest shift: %w", err)
	}
	return sh, nil
}

func (r *shiftRepositoryImpl) Create(ctx context.Context, sh shift.Shift) (shift.Shift, error) {
	q := GetQuerier(ctx, r.db)

	events, err := json.Marshal(sh.Events)
	if err != nil {
		return shift.Shift{}, fmt.Errorf("failed to encode shift events: %w", err)
	}

	query := `
		WITH s AS (
			INSERT INTO shifts (
				id, employee_id, shift_date, opened_at, closed_at,
				waiter_type, table_code, route, notes, events
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
			RETURNING *
		)
		SELECT ` + shiftColumns + ` FROM s`

	created, err := scanShift(q.QueryRow(ctx, query,
		newID(), sh.EmployeeID, shift.DateOnly(sh.Date), sh.OpenedAt, sh.ClosedAt,
		sh.WaiterType, sh.TableCode, sh.Route, sh.Notes, events,
	))
	if err != nil {
		return shift.Shift{}, fmt.Errorf("failed to create shift: %w", err)
	}
	return created, nil
}

func (r *shiftRepositoryImpl) Update(ctx context.Context, sh shift.Shift) (shift.Shift, error) {
	q := GetQuerier(ctx, r.db)

	events, err := json.Marshal(sh.Events)
	if err != nil {
		return shift.Shift{}, fmt.Errorf("failed to encode shift events: %w", err)
	}

	query := `
		WITH s AS (
			UPDATE shifts
			SET closed_at = $2, waiter_type = $3, table_code = $4, route = $5,
				events = $6, updated_at = NOW()
			WHERE id = $1
			RETURNING *
		)
		SELECT ` + shiftColumns + ` FROM s`

	updated, err := scanShift(q.QueryRow(ctx, query,
		sh.ID, sh.ClosedAt, sh.WaiterType, sh.TableCode, sh.Route, events,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return shift.Shift{}, shift.ErrShiftNotFound
		}
		return shift.Shift{}, fmt.Errorf("failed to update shift: %w", err)
	}
	return updated, nil
}
