package commission

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/cmlabs-hris/resto-settlement-go/internal/domain/audit"
	"github.com/cmlabs-hris/resto-settlement-go/internal/domain/commission"
	"github.com/cmlabs-hris/resto-settlement-go/internal/domain/employee"
	"github.com/cmlabs-hris/resto-settlement-go/internal/pkg/validator"
	"github.com/cmlabs-hris/resto-settlement-go/internal/repository/memory"
	auditsvc "github.com/cmlabs-hris/resto-settlement-go/internal/service/audit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	flatBrackets = `[{"min":100,"max":500,"fixed":100},{"min":501,"max":750,"fixed":200}]`
	rateBrackets = `[{"min":0,"ratePct":5,"flat":0},{"min":1000,"ratePct":5,"flat":50}]`
)

type fixture struct {
	store   *memory.Store
	plans   commission.PlanRepository
	flags   audit.FlagRepository
	service commission.CommissionService
}

func newFixture() *fixture {
	store := memory.NewStore()
	plans := memory.NewPlanRepository(store)
	flags := memory.NewFlagRepository(store)
	svc := NewCommissionService(
		memory.NewTransactor(store),
		memory.NewEmployeeRepository(store),
		plans,
		auditsvc.NewAuditService(flags),
	)
	return &fixture{store: store, plans: plans, flags: flags, service: svc}
}

func (f *fixture) plan(t *testing.T, name string, role employee.Role, isDefault bool, brackets string) commission.CommissionPlan {
	t.Helper()
	p, err := f.plans.Upsert(context.Background(), commission.CommissionPlan{
		Name: name, Role: role, IsDefault: isDefault, Brackets: json.RawMessage(brackets),
	})
	require.NoError(t, err)
	return p
}

func (f *fixture) waiter(planID *string) employee.Employee {
	return f.store.PutEmployee(employee.Employee{
		Name: "Waiter", Role: employee.RoleWaiter, Type: employee.TypeInside, CommissionPlanID: planID, IsActive: true,
	})
}

func TestResolveCommission_OwnFlatPlan(t *testing.T) {
	f := newFixture()
	p := f.plan(t, "Floor flat", employee.RoleWaiter, false, flatBrackets)
	emp := f.waiter(&p.ID)

	cases := []struct {
		amount float64
		want   float64
		reason string
	}{
		{500, 100, ""},
		{750, 200, ""},
		{751, 0, commission.ReasonNoBracketMatch},
	}
	for _, c := range cases {
		res, err := f.service.ResolveCommission(context.Background(), emp.ID, c.amount)
		require.NoError(t, err)
		assert.Equal(t, c.want, res.Commission, "amount %v", c.amount)
		assert.Equal(t, c.reason, res.Reason)
		assert.Equal(t, commission.PlanSourceEmployee, res.PlanSource)
		require.NotNil(t, res.PlanID)
		assert.Equal(t, p.ID, *res.PlanID)
		assert.Nil(t, res.RatePct)
	}
}

func TestResolveCommission_RoleDefaultRatePlan(t *testing.T) {
	f := newFixture()
	p := f.plan(t, "Waiter default", employee.RoleWaiter, true, rateBrackets)
	emp := f.waiter(nil)

	res, err := f.service.ResolveCommission(context.Background(), emp.ID, 1500)
	require.NoError(t, err)
	assert.Equal(t, 125.0, res.Commission)
	assert.Equal(t, commission.PlanSourceRoleDefault, res.PlanSource)
	assert.Equal(t, p.ID, *res.PlanID)
	require.NotNil(t, res.RatePct)
	assert.Equal(t, 5.0, *res.RatePct)
	assert.Equal(t, 1, res.Match.TierIndex)
}

func TestResolveCommission_LookupFailuresResolveToZero(t *testing.T) {
	f := newFixture()

	res, err := f.service.ResolveCommission(context.Background(), "missing", 1000)
	require.NoError(t, err)
	assert.Equal(t, 0.0, res.Commission)
	assert.Equal(t, commission.ReasonEmployeeNotFound, res.Reason)

	emp := f.waiter(nil)
	res, err = f.service.ResolveCommission(context.Background(), emp.ID, 1000)
	require.NoError(t, err)
	assert.Equal(t, 0.0, res.Commission)
	assert.Equal(t, commission.ReasonNoPlan, res.Reason)
	assert.Nil(t, res.PlanID)
}

func TestResolveCommission_NonPositiveAmount(t *testing.T) {
	f := newFixture()
	f.plan(t, "Waiter default", employee.RoleWaiter, true, rateBrackets)
	emp := f.waiter(nil)

	for _, amount := range []float64{0, -10} {
		res, err := f.service.ResolveCommission(context.Background(), emp.ID, amount)
		require.NoError(t, err)
		assert.Equal(t, 0.0, res.Commission)
		assert.Equal(t, commission.ReasonNonPositiveAmount, res.Reason)
		assert.False(t, res.Match.Matched)
	}
}

func TestResolveCommission_MultipleDefaultsIsDataError(t *testing.T) {
	f := newFixture()
	// Written straight to the repository so UpsertPlan cannot clear the other default.
	f.plan(t, "A", employee.RoleWaiter, true, rateBrackets)
	f.plan(t, "B", employee.RoleWaiter, true, flatBrackets)
	emp := f.waiter(nil)

	res, err := f.service.ResolveCommission(context.Background(), emp.ID, 500)
	require.NoError(t, err)
	assert.Equal(t, 0.0, res.Commission)
	assert.Equal(t, commission.ReasonMultipleDefaultPlans, res.Reason)
	assert.NotEmpty(t, res.Diagnostics)

	flags, _, err := f.flags.List(context.Background(), audit.FlagFilter{Kind: audit.KindMultipleDefaultPlans, Limit: 10})
	require.NoError(t, err)
	require.Len(t, flags, 1)
	assert.Equal(t, string(employee.RoleWaiter), flags[0].EntityID)
}

func TestResolveCommission_MissingOwnPlanFallsBack(t *testing.T) {
	f := newFixture()
	f.plan(t, "Waiter default", employee.RoleWaiter, true, rateBrackets)
	missing := "0190a8a4-0000-7000-8000-000000000000"
	emp := f.waiter(&missing)

	res, err := f.service.ResolveCommission(context.Background(), emp.ID, 1500)
	require.NoError(t, err)
	assert.Equal(t, 125.0, res.Commission)
	assert.Equal(t, commission.PlanSourceRoleDefault, res.PlanSource)
	assert.Len(t, res.Diagnostics, 1)
}

func TestResolveCommission_Idempotent(t *testing.T) {
	f := newFixture()
	f.plan(t, "Waiter default", employee.RoleWaiter, true, rateBrackets)
	emp := f.waiter(nil)

	first, err := f.service.ResolveCommission(context.Background(), emp.ID, 1234.56)
	require.NoError(t, err)
	second, err := f.service.ResolveCommission(context.Background(), emp.ID, 1234.56)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestResolveCommission_MalformedPlanPaysZero(t *testing.T) {
	f := newFixture()
	p := f.plan(t, "Broken", employee.RoleWaiter, false, `"not a list"`)
	emp := f.waiter(&p.ID)

	res, err := f.service.ResolveCommission(context.Background(), emp.ID, 500)
	require.NoError(t, err)
	assert.Equal(t, 0.0, res.Commission)
	assert.Equal(t, commission.ReasonNoBracketMatch, res.Reason)
	assert.NotEmpty(t, res.Diagnostics)
}

func TestUpsertPlan_KeepsOneDefaultPerRole(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	first, err := f.service.UpsertPlan(ctx, commission.UpsertPlanRequest{
		Name: "Old default", Role: employee.RoleWaiter, IsDefault: true, Brackets: json.RawMessage(flatBrackets),
	})
	require.NoError(t, err)
	assert.Equal(t, "flat", string(first.Encoding))

	second, err := f.service.UpsertPlan(ctx, commission.UpsertPlanRequest{
		Name: "New default", Role: employee.RoleWaiter, IsDefault: true, Brackets: json.RawMessage(rateBrackets),
	})
	require.NoError(t, err)

	defaults, err := f.plans.ListDefaultsByRole(ctx, employee.RoleWaiter)
	require.NoError(t, err)
	require.Len(t, defaults, 1)
	assert.Equal(t, second.ID, defaults[0].ID)

	kitchen, err := f.service.UpsertPlan(ctx, commission.UpsertPlanRequest{
		Name: "Kitchen", Role: employee.RoleKitchen, IsDefault: true, Brackets: json.RawMessage(flatBrackets),
	})
	require.NoError(t, err)
	defaults, err = f.plans.ListDefaultsByRole(ctx, employee.RoleKitchen)
	require.NoError(t, err)
	require.Len(t, defaults, 1)
	assert.Equal(t, kitchen.ID, defaults[0].ID)

	plans, err := f.service.ListPlans(ctx)
	require.NoError(t, err)
	assert.Len(t, plans, 3)
}

// invalidatingPlans counts cache invalidations and can fail ClearDefaults.
type invalidatingPlans struct {
	commission.PlanRepository
	clearErr    error
	invalidated int
}

func (p *invalidatingPlans) ClearDefaults(ctx context.Context, role employee.Role, exceptID string) error {
	if p.clearErr != nil {
		return p.clearErr
	}
	return p.PlanRepository.ClearDefaults(ctx, role, exceptID)
}

func (p *invalidatingPlans) InvalidateAll(context.Context) { p.invalidated++ }

func TestUpsertPlan_InvalidatesOnlyAfterCommit(t *testing.T) {
	store := memory.NewStore()
	plans := &invalidatingPlans{PlanRepository: memory.NewPlanRepository(store)}
	svc := NewCommissionService(memory.NewTransactor(store), memory.NewEmployeeRepository(store), plans, auditsvc.NewAuditService(memory.NewFlagRepository(store)))
	ctx := context.Background()

	_, err := svc.UpsertPlan(ctx, commission.UpsertPlanRequest{
		Name: "Default", Role: employee.RoleWaiter, IsDefault: true, Brackets: json.RawMessage(flatBrackets),
	})
	require.NoError(t, err)
	assert.Equal(t, 1, plans.invalidated)

	plans.clearErr = errors.New("connection reset")
	_, err = svc.UpsertPlan(ctx, commission.UpsertPlanRequest{
		Name: "Rolled back", Role: employee.RoleWaiter, IsDefault: true, Brackets: json.RawMessage(rateBrackets),
	})
	require.Error(t, err)
	assert.Equal(t, 1, plans.invalidated, "a rolled back write leaves the cache alone")

	all, err := plans.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestUpsertPlan_Validation(t *testing.T) {
	f := newFixture()

	_, err := f.service.UpsertPlan(context.Background(), commission.UpsertPlanRequest{
		Name: "", Role: "CHEF", Brackets: json.RawMessage(`[]`),
	})
	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	fields := verrs.ToMap()
	assert.Contains(t, fields, "name")
	assert.Contains(t, fields, "role")
	assert.Contains(t, fields, "brackets")
}

func TestUpsertPlan_FlagsDiscardedTiers(t *testing.T) {
	f := newFixture()

	_, err := f.service.UpsertPlan(context.Background(), commission.UpsertPlanRequest{
		Name: "Partly broken", Role: employee.RoleWaiter,
		Brackets: json.RawMessage(`[{"min":0,"max":100,"fixed":"x"},{"min":100,"max":200,"fixed":10}]`),
	})
	require.NoError(t, err)

	flags, _, err := f.flags.List(context.Background(), audit.FlagFilter{Kind: audit.KindMalformedBrackets, Limit: 10})
	require.NoError(t, err)
	assert.Len(t, flags, 1)
}
