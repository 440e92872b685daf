package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/resto-settlement-go/internal/domain/deduction"
	"github.com/cmlabs-hris/resto-settlement-go/internal/pkg/database"
	"github.com/shopspring/decimal"
)

type deductionRepositoryImpl struct {
	db *database.DB
}

func NewDeductionRepository(db *database.DB) deduction.DeductionRepository {
	return &deductionRepositoryImpl{db: db}
}

func (r *deductionRepositoryImpl) Create(ctx context.Context, d deduction.SalaryDeduction) (deduction.SalaryDeduction, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO salary_deductions (id, employee_id, deduction_date, amount, reason, note, metadata)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at
	`

	var metadata []byte
	if len(d.Metadata) > 0 {
		metadata = []byte(d.Metadata)
	}

	d.ID = newID()
	err := q.QueryRow(ctx, query, d.ID, d.EmployeeID, d.Date, d.Amount, d.Reason, d.Note, metadata).
		Scan(&d.ID, &d.CreatedAt)
	if err != nil {
		return deduction.SalaryDeduction{}, fmt.Errorf("failed to create salary deduction: %w", err)
	}
	return d, nil
}

func (r *deductionRepositoryImpl) ListByEmployee(ctx context.Context, employeeID string) ([]deduction.SalaryDeduction, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, employee_id, deduction_date, amount, reason, note, metadata, created_at
		FROM salary_deductions
		WHERE employee_id = $1
		ORDER BY deduction_date, created_at
	`

	rows, err := q.Query(ctx, query, employeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list salary deductions: %w", err)
	}
	defer rows.Close()

	var out []deduction.SalaryDeduction
	for rows.Next() {
		var d deduction.SalaryDeduction
		if err := rows.Scan(&d.ID, &d.EmployeeID, &d.Date, &d.Amount, &d.Reason, &d.Note, &d.Metadata, &d.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (r *deductionRepositoryImpl) SumBefore(ctx context.Context, end time.Time) (map[string]decimal.Decimal, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT employee_id, SUM(amount)
		FROM salary_deductions
		WHERE deduction_date < $1
		GROUP BY employee_id
	`

	rows, err := q.Query(ctx, query, end)
	if err != nil {
		return nil, fmt.Errorf("failed to sum salary deductions: %w", err)
	}
	defer rows.Close()

	sums := make(map[string]decimal.Decimal)
	for rows.Next() {
		var (
			employeeID string
			total      decimal.Decimal
		)
		if err := rows.Scan(&employeeID, &total); err != nil {
			return nil, err
		}
		sums[employeeID] = total
	}
	return sums, rows.Err()
}
