package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cmlabs-hris/resto-settlement-go/internal/domain/audit"
	"github.com/cmlabs-hris/resto-settlement-go/internal/domain/deduction"
	"github.com/cmlabs-hris/resto-settlement-go/internal/domain/payroll"
	"github.com/cmlabs-hris/resto-settlement-go/internal/domain/shift"
	"github.com/cmlabs-hris/resto-settlement-go/internal/pkg/database"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransactor_RollbackRestoresState(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	tx := NewTransactor(store)
	shifts := NewShiftRepository(store)

	boom := errors.New("boom")
	err := tx.WithinTransaction(ctx, database.TxOptions{}, func(txCtx context.Context) error {
		_, err := shifts.Create(txCtx, shift.Shift{EmployeeID: "e1", Date: time.Now()})
		require.NoError(t, err)
		return boom
	})
	assert.ErrorIs(t, err, boom)

	_, err = shifts.GetLatest(ctx, "e1", time.Now())
	assert.ErrorIs(t, err, shift.ErrShiftNotFound)
}

func TestTransactor_NestedJoinsOuter(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	tx := NewTransactor(store)

	calls := 0
	err := tx.WithinTransaction(ctx, database.TxOptions{LockKeys: []string{"a"}}, func(txCtx context.Context) error {
		return tx.WithinTransaction(txCtx, database.TxOptions{LockKeys: []string{"a"}}, func(context.Context) error {
			calls++
			return nil
		})
	})
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestShiftRepository_GetLatestAndSettled(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	shifts := NewShiftRepository(store)
	cashups := NewCashupRepository(store)
	day := time.Date(2024, 3, 5, 15, 0, 0, 0, time.UTC)

	first, err := shifts.Create(ctx, shift.Shift{EmployeeID: "e1", Date: day})
	require.NoError(t, err)
	second, err := shifts.Create(ctx, shift.Shift{EmployeeID: "e1", Date: day})
	require.NoError(t, err)

	latest, err := shifts.GetLatest(ctx, "e1", day)
	require.NoError(t, err)
	assert.Equal(t, second.ID, latest.ID)
	assert.Equal(t, time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC), latest.Date)

	store.PutRawCashup(first.ID, []byte(`{}`))
	got, err := shifts.GetByID(ctx, first.ID)
	require.NoError(t, err)
	assert.True(t, got.Settled)

	page, err := cashups.ListByShiftDate(ctx, day.AddDate(0, 0, -1), day.AddDate(0, 0, 1), "", 10)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, "e1", page[0].EmployeeID)
}

func TestPayrollRepository_SumAppliedBefore(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	runs := NewPayrollRepository(store)

	for _, m := range []int{1, 2, 3} {
		_, err := runs.CreateRun(ctx, payroll.PayrollRun{Year: 2024, Month: m, Lines: []payroll.PayrollLine{
			{EmployeeID: "e1", DeductionsApplied: decimal.NewFromInt(int64(m * 10))},
		}})
		require.NoError(t, err)
	}
	_, err := runs.CreateRun(ctx, payroll.PayrollRun{Year: 2024, Month: 2})
	assert.ErrorIs(t, err, payroll.ErrPayrollRunExists)

	sums, err := runs.SumAppliedBefore(ctx, 2024, 3)
	require.NoError(t, err)
	assert.True(t, sums["e1"].Equal(decimal.NewFromInt(30)))
}

func TestDeductionRepository_SumBefore(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	repo := NewDeductionRepository(store)
	end := time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)

	for _, d := range []deduction.SalaryDeduction{
		{EmployeeID: "e1", Date: end.AddDate(0, 0, -1), Amount: decimal.NewFromInt(100)},
		{EmployeeID: "e1", Date: end, Amount: decimal.NewFromInt(50)},
		{EmployeeID: "e2", Date: end.AddDate(0, -2, 0), Amount: decimal.NewFromInt(7)},
	} {
		_, err := repo.Create(ctx, d)
		require.NoError(t, err)
	}

	sums, err := repo.SumBefore(ctx, end)
	require.NoError(t, err)
	assert.True(t, sums["e1"].Equal(decimal.NewFromInt(100)))
	assert.True(t, sums["e2"].Equal(decimal.NewFromInt(7)))
}

func TestFlagRepository_ListPages(t *testing.T) {
	ctx := context.Background()
	repo := NewFlagRepository(NewStore())
	for _, id := range []string{"a", "b", "c", "d", "e"} {
		_, err := repo.Create(ctx, audit.Flag{Kind: audit.KindNegativeSoldQty, EntityType: "dispatch", EntityID: id})
		require.NoError(t, err)
	}
	_, err := repo.Create(ctx, audit.Flag{Kind: audit.KindMalformedBrackets, EntityType: "plan", EntityID: "p"})
	require.NoError(t, err)

	page, total, err := repo.List(ctx, audit.FlagFilter{Kind: audit.KindNegativeSoldQty, Page: 2, Limit: 2})
	require.NoError(t, err)
	assert.EqualValues(t, 5, total)
	require.Len(t, page, 2)
	assert.Equal(t, "c", page[0].EntityID)
	assert.Equal(t, "b", page[1].EntityID)

	page, total, err = repo.List(ctx, audit.FlagFilter{Kind: audit.KindNegativeSoldQty, Page: 4, Limit: 2})
	require.NoError(t, err)
	assert.EqualValues(t, 5, total)
	assert.Empty(t, page)

	page, total, err = repo.List(ctx, audit.FlagFilter{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.EqualValues(t, 6, total)
	require.Len(t, page, 6)
	assert.Equal(t, "p", page[0].EntityID)
}
