package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/resto-settlement-go/internal/domain/cashup"
	"github.com/cmlabs-hris/resto-settlement-go/internal/domain/shift"
	"github.com/cmlabs-hris/resto-settlement-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const sqlStateForeignKeyViolation = "23503"

type cashupRepositoryImpl struct {
	db *database.DB
}

func NewCashupRepository(db *database.DB) cashup.CashupRepository {
	return &cashupRepositoryImpl{db: db}
}

func (r *cashupRepositoryImpl) Create(ctx context.Context, c cashup.Cashup) (cashup.Cashup, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO cashups (id, shift_id, snapshot)
		VALUES ($1, $2, $3)
		RETURNING id, shift_id, snapshot, created_at
	`

	var created cashup.Cashup
	err := q.QueryRow(ctx, query, newID(), c.ShiftID, []byte(c.Snapshot)).Scan(
		&created.ID, &created.ShiftID, &created.Snapshot, &created.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return cashup.Cashup{}, shift.ErrShiftAlreadySettled
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == sqlStateForeignKeyViolation {
			return cashup.Cashup{}, shift.ErrShiftNotFound
		}
		return cashup.Cashup{}, fmt.Errorf("failed to create cashup: %w", err)
	}
	return created, nil
}

func (r *cashupRepositoryImpl) GetByShiftID(ctx context.Context, shiftID string) (cashup.Cashup, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT id, shift_id, snapshot, created_at FROM cashups WHERE shift_id = $1`

	var c cashup.Cashup
	err := q.QueryRow(ctx, query, shiftID).Scan(&c.ID, &c.ShiftID, &c.Snapshot, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return cashup.Cashup{}, cashup.ErrCashupNotFound
		}
		return cashup.Cashup{}, fmt.Errorf("failed to get cashup: %w", err)
	}
	return c, nil
}

func (r *cashupRepositoryImpl) ListByShiftDate(ctx context.Context, from, to time.Time, afterID string, limit int) ([]cashup.StoredCommission, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT c.id, c.shift_id, s.employee_id, s.shift_date, c.snapshot
		FROM cashups c
		JOIN shifts s ON s.id = c.shift_id
		WHERE s.shift_date >= $1 AND s.shift_date < $2
		  AND ($3::text = '' OR c.id::text > $3::text)
		ORDER BY c.id
		LIMIT $4
	`

	if limit <= 0 {
		limit = 500
	}

	rows, err := q.Query(ctx, query, from, to, afterID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list cashups: %w", err)
	}
	defer rows.Close()

	var out []cashup.StoredCommission
	for rows.Next() {
		var sc cashup.StoredCommission
		if err := rows.Scan(&sc.CashupID, &sc.ShiftID, &sc.EmployeeID, &sc.ShiftDate, &sc.Snapshot); err != nil {
			return nil, err
		}
		out = append(out, sc)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return out, nil
}
