package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/resto-settlement-go/internal/domain/commission"
	"github.com/cmlabs-hris/resto-settlement-go/internal/domain/employee"
	"github.com/cmlabs-hris/resto-settlement-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type planRepositoryImpl struct {
	db *database.DB
}

func NewPlanRepository(db *database.DB) commission.PlanRepository {
	return &planRepositoryImpl{db: db}
}

const planColumns = `id, name, role, is_default, brackets, created_at, updated_at`

func scanPlan(row pgx.Row) (commission.CommissionPlan, error) {
	var p commission.CommissionPlan
	err := row.Scan(&p.ID, &p.Name, &p.Role, &p.IsDefault, &p.Brackets, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

func (r *planRepositoryImpl) queryPlans(ctx context.Context, query string, args ...interface{}) ([]commission.CommissionPlan, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query commission plans: %w", err)
	}
	defer rows.Close()

	var plans []commission.CommissionPlan
	for rows.Next() {
		p, err := scanPlan(rows)
		if err != nil {
			return nil, err
		}
		plans = append(plans, p)
	}
	return plans, rows.Err()
}

func (r *planRepositoryImpl) GetByID(ctx context.Context, id string) (commission.CommissionPlan, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + planColumns + ` FROM commission_plans WHERE id = $1`

	p, err := scanPlan(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return commission.CommissionPlan{}, commission.ErrPlanNotFound
		}
		return commission.CommissionPlan{}, fmt.Errorf("failed to get commission plan: %w", err)
	}
	return p, nil
}

func (r *planRepositoryImpl) ListDefaultsByRole(ctx context.Context, role employee.Role) ([]commission.CommissionPlan, error) {
	return r.queryPlans(ctx,
		`SELECT `+planColumns+` FROM commission_plans WHERE role = $1 AND is_default ORDER BY id`,
		role,
	)
}

func (r *planRepositoryImpl) List(ctx context.Context) ([]commission.CommissionPlan, error) {
	return r.queryPlans(ctx, `SELECT `+planColumns+` FROM commission_plans ORDER BY role, name`)
}

func (r *planRepositoryImpl) Upsert(ctx context.Context, plan commission.CommissionPlan) (commission.CommissionPlan, error) {
	q := GetQuerier(ctx, r.db)

	if plan.ID == "" {
		plan.ID = newID()
	}

	query := `
		INSERT INTO commission_plans (id, name, role, is_default, brackets)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			role = EXCLUDED.role,
			is_default = EXCLUDED.is_default,
			brackets = EXCLUDED.brackets,
			updated_at = NOW()
		RETURNING ` + planColumns

	saved, err := scanPlan(q.QueryRow(ctx, query, plan.ID, plan.Name, plan.Role, plan.IsDefault, []byte(plan.Brackets)))
	if err != nil {
		return commission.CommissionPlan{}, fmt.Errorf("failed to upsert commission plan: %w", err)
	}
	return saved, nil
}

func (r *planRepositoryImpl) ClearDefaults(ctx context.Context, role employee.Role, exceptID string) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE commission_plans
		SET is_default = FALSE, updated_at = NOW()
		WHERE role = $1 AND is_default AND id::text <> $2
	`

	if _, err := q.Exec(ctx, query, role, exceptID); err != nil {
		return fmt.Errorf("failed to clear default commission plans: %w", err)
	}
	return nil
}
