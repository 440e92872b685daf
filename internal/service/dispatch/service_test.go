package dispatch

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/cmlabs-hris/resto-settlement-go/internal/domain/audit"
	"github.com/cmlabs-hris/resto-settlement-go/internal/domain/commission"
	"github.com/cmlabs-hris/resto-settlement-go/internal/domain/dispatch"
	"github.com/cmlabs-hris/resto-settlement-go/internal/domain/employee"
	"github.com/cmlabs-hris/resto-settlement-go/internal/domain/shift"
	"github.com/cmlabs-hris/resto-settlement-go/internal/repository/memory"
	auditsvc "github.com/cmlabs-hris/resto-settlement-go/internal/service/audit"
	commissionsvc "github.com/cmlabs-hris/resto-settlement-go/internal/service/commission"
	shiftsvc "github.com/cmlabs-hris/resto-settlement-go/internal/service/shift"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	store   *memory.Store
	flags   audit.FlagRepository
	shifts  shift.ShiftService
	service dispatch.DispatchService
	waiter  employee.Employee
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	tx := memory.NewTransactor(store)
	employees := memory.NewEmployeeRepository(store)
	plans := memory.NewPlanRepository(store)
	flags := memory.NewFlagRepository(store)
	auditService := auditsvc.NewAuditService(flags)
	shiftService := shiftsvc.NewShiftService(tx, memory.NewShiftRepository(store), employees)
	commissionService := commissionsvc.NewCommissionService(tx, employees, plans, auditService)

	_, err := plans.Upsert(context.Background(), commission.CommissionPlan{
		Name: "Field default", Role: employee.RoleWaiter, IsDefault: true,
		Brackets: json.RawMessage(`[{"min":100,"max":500,"fixed":100},{"min":501,"max":750,"fixed":200}]`),
	})
	require.NoError(t, err)

	waiter := store.PutEmployee(employee.Employee{Name: "Rudi", Role: employee.RoleWaiter, Type: employee.TypeField, IsActive: true})

	return &fixture{
		store:   store,
		flags:   flags,
		shifts:  shiftService,
		service: NewDispatchService(tx, memory.NewDispatchRepository(store), employees, shiftService, commissionService, auditService),
		waiter:  waiter,
	}
}

func (f *fixture) dispatch(t *testing.T, qty int, price any) dispatch.FieldDispatch {
	t.Helper()
	d, err := f.service.RecordDispatch(context.Background(), dispatch.RecordDispatchRequest{
		WaiterID: f.waiter.ID, ItemID: "item-1", Date: "2024-06-01", QtyDispatched: qty, PriceEach: price,
	})
	require.NoError(t, err)
	return d
}

func TestRecordDispatch_UsesEditableShift(t *testing.T) {
	f := newFixture(t)

	first := f.dispatch(t, 10, 50)
	second := f.dispatch(t, 4, "12.50")

	assert.Equal(t, first.ShiftID, second.ShiftID)
	assert.Equal(t, 12.5, second.PriceEach)

	sh, err := f.shifts.GetShift(context.Background(), first.ShiftID)
	require.NoError(t, err)
	assert.True(t, sh.IsOpen())
	assert.Equal(t, string(employee.TypeField), *sh.WaiterType)
}

func TestRecordDispatch_RejectsInsideWaiter(t *testing.T) {
	f := newFixture(t)
	inside := f.store.PutEmployee(employee.Employee{Name: "Sari", Role: employee.RoleWaiter, Type: employee.TypeInside, IsActive: true})

	_, err := f.service.RecordDispatch(context.Background(), dispatch.RecordDispatchRequest{
		WaiterID: inside.ID, ItemID: "item-1", Date: "2024-06-01", QtyDispatched: 1, PriceEach: 10,
	})
	assert.ErrorIs(t, err, dispatch.ErrNotFieldWaiter)
}

func TestSettleFieldDispatch_Example(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	d := f.dispatch(t, 10, 50)

	open, err := f.service.SettleFieldDispatch(ctx, d.ID)
	require.NoError(t, err)
	assert.Equal(t, 500.0, open.GrossSales)
	assert.Nil(t, open.Commission)

	_, err = f.service.RecordReturn(ctx, d.ID, dispatch.RecordReturnRequest{QtyReturned: 2, LossQty: 1, CashCollected: "300"})
	require.NoError(t, err)

	s, err := f.service.SettleFieldDispatch(ctx, d.ID)
	require.NoError(t, err)
	assert.Equal(t, 7, *s.SoldQty)
	assert.Equal(t, 350.0, *s.SoldAmount)
	assert.Equal(t, 300.0, *s.CashCollected)
	assert.Equal(t, 100.0, *s.Commission)
	assert.Equal(t, string(commission.PlanSourceRoleDefault), s.PlanSource)
	assert.NotNil(t, s.PlanID)

	_, err = f.service.RecordReturn(ctx, d.ID, dispatch.RecordReturnRequest{})
	assert.ErrorIs(t, err, dispatch.ErrReturnExists)
}

func TestRecordReturn_NegativeSoldQtyRaisesFlag(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	d := f.dispatch(t, 3, 100)

	_, err := f.service.RecordReturn(ctx, d.ID, dispatch.RecordReturnRequest{QtyReturned: 3, LossQty: 2})
	require.NoError(t, err)

	s, err := f.service.SettleFieldDispatch(ctx, d.ID)
	require.NoError(t, err)
	assert.True(t, s.NegativeSoldQty)
	assert.Equal(t, 0.0, *s.Commission)
	assert.Equal(t, commission.ReasonNonPositiveAmount, s.Reason)

	flags, _, err := f.flags.List(ctx, audit.FlagFilter{Kind: audit.KindNegativeSoldQty, Limit: 10})
	require.NoError(t, err)
	require.Len(t, flags, 1)
	assert.Equal(t, d.ID, flags[0].EntityID)
}

func TestRecordReturn_Validation(t *testing.T) {
	f := newFixture(t)
	d := f.dispatch(t, 3, 100)

	_, err := f.service.RecordReturn(context.Background(), d.ID, dispatch.RecordReturnRequest{QtyReturned: -1})
	assert.Error(t, err)

	_, err = f.service.RecordReturn(context.Background(), "missing", dispatch.RecordReturnRequest{})
	assert.ErrorIs(t, err, dispatch.ErrDispatchNotFound)
}

func TestSettleShift(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.dispatch(t, 10, 50)
	f.dispatch(t, 2, 10)

	_, err := f.service.RecordReturn(ctx, a.ID, dispatch.RecordReturnRequest{})
	require.NoError(t, err)

	settlements, err := f.service.SettleShift(ctx, a.ShiftID)
	require.NoError(t, err)
	require.Len(t, settlements, 2)

	returned := 0
	for _, s := range settlements {
		if s.Returned {
			returned++
			assert.Equal(t, 100.0, *s.Commission)
		}
	}
	assert.Equal(t, 1, returned)
}
