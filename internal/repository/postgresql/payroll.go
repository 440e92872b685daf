package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/resto-settlement-go/internal/domain/payroll"
	"github.com/cmlabs-hris/resto-settlement-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

type payrollRepository struct {
	db *database.DB
}

func NewPayrollRepository(db *database.DB) payroll.PayrollRepository {
	return &payrollRepository{db: db}
}

// ========== RUNS ==========

func (r *payrollRepository) GetRun(ctx context.Context, year, month int) (payroll.PayrollRun, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, period_year, period_month, period_start, period_end, created_at, updated_at
		FROM payroll_runs
		WHERE period_year = $1 AND period_month = $2
	`

	var run payroll.PayrollRun
	err := q.QueryRow(ctx, query, year, month).Scan(
		&run.ID, &run.Year, &run.Month, &run.PeriodStart, &run.PeriodEnd, &run.CreatedAt, &run.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payroll.PayrollRun{}, payroll.ErrPayrollRunNotFound
		}
		return payroll.PayrollRun{}, fmt.Errorf("failed to get payroll run: %w", err)
	}
	run.Persisted = true

	lines, err := r.getLines(ctx, run.ID)
	if err != nil {
		return payroll.PayrollRun{}, err
	}
	run.Lines = lines

	return run, nil
}

func (r *payrollRepository) CreateRun(ctx context.Context, run payroll.PayrollRun) (payroll.PayrollRun, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO payroll_runs (id, period_year, period_month, period_start, period_end)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`

	run.ID = newID()
	err := q.QueryRow(ctx, query, run.ID, run.Year, run.Month, run.PeriodStart, run.PeriodEnd).
		Scan(&run.ID, &run.CreatedAt, &run.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return payroll.PayrollRun{}, payroll.ErrPayrollRunExists
		}
		return payroll.PayrollRun{}, fmt.Errorf("failed to create payroll run: %w", err)
	}

	lines := make([]payroll.PayrollLine, len(run.Lines))
	copy(lines, run.Lines)
	for i := range lines {
		lines[i].ID = newID()
		lines[i].RunID = run.ID
	}
	if err := r.createLines(ctx, lines); err != nil {
		return payroll.PayrollRun{}, err
	}

	run.Lines = lines
	run.Persisted = true
	return run, nil
}

func (r *payrollRepository) DeleteRun(ctx context.Context, year, month int) error {
	q := GetQuerier(ctx, r.db)

	// payroll_lines cascade
	query := `DELETE FROM payroll_runs WHERE period_year = $1 AND period_month = $2`

	if _, err := q.Exec(ctx, query, year, month); err != nil {
		return fmt.Errorf("failed to delete payroll run: %w", err)
	}
	return nil
}

func (r *payrollRepository) SumAppliedBefore(ctx context.Context, year, month int) (map[string]decimal.Decimal, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT l.employee_id, SUM(l.deductions_applied)
		FROM payroll_lines l
		JOIN payroll_runs pr ON pr.id = l.run_id
		WHERE (pr.period_year, pr.period_month) < ($1, $2)
		GROUP BY l.employee_id
	`

	rows, err := q.Query(ctx, query, year, month)
	if err != nil {
		return nil, fmt.Errorf("failed to sum applied deductions: %w", err)
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

// ========== LINES ==========

func (r *payrollRepository) createLines(ctx context.Context, lines []payroll.PayrollLine) error {
	if len(lines) == 0 {
		return nil
	}
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO payroll_lines (
			id, run_id, employee_id, employee_name, gross, total_outstanding,
			deductions_applied, carry_forward, net_pay, cashup_count, note
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	batch := &pgx.Batch{}
	for _, l := range lines {
		batch.Queue(query,
			l.ID, l.RunID, l.EmployeeID, l.EmployeeName, l.Gross, l.TotalOutstanding,
			l.DeductionsApplied, l.CarryForward, l.NetPay, l.CashupCount, l.Note,
		)
	}

	results := q.SendBatch(ctx, batch)
	for i := range lines {
		if _, err := results.Exec(); err != nil {
			_ = results.Close()
			return fmt.Errorf("failed to insert payroll line %d: %w", i, err)
		}
	}
	return results.Close()
}

func (r *payrollRepository) getLines(ctx context.Context, runID string) ([]payroll.PayrollLine, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, run_id, employee_id, employee_name, gross, total_outstanding,
			   deductions_applied, carry_forward, net_pay, cashup_count, note
		FROM payroll_lines
		WHERE run_id = $1
		ORDER BY employee_name, employee_id
	`

	rows, err := q.Query(ctx, query, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to get payroll lines: %w", err)
	}
	defer rows.Close()

	var lines []payroll.PayrollLine
	for rows.Next() {
		var l payroll.PayrollLine
		err := rows.Scan(
			&l.ID, &l.RunID, &l.EmployeeID, &l.EmployeeName, &l.Gross, &l.TotalOutstanding,
			&l.DeductionsApplied, &l.CarryForward, &l.NetPay, &l.CashupCount, &l.Note,
		)
		if err != nil {
			return nil, err
		}
		lines = append(lines, l)
	}
	return lines, rows.Err()
}
