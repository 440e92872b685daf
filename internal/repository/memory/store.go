// Package memory provides in-process repository implementations backed by
// maps. They serve tests and local runs without a database.
package memory

import (
	"context"
	"maps"
	"slices"
	"sync"

	"github.com/cmlabs-hris/resto-settlement-go/internal/domain/audit"
	"github.com/cmlabs-hris/resto-settlement-go/internal/domain/cashup"
	"github.com/cmlabs-hris/resto-settlement-go/internal/domain/commission"
	"github.com/cmlabs-hris/resto-settlement-go/internal/domain/deduction"
	"github.com/cmlabs-hris/resto-settlement-go/internal/domain/dispatch"
	"github.com/cmlabs-hris/resto-settlement-go/internal/domain/employee"
	"github.com/cmlabs-hris/resto-settlement-go/internal/domain/payroll"
	"github.com/cmlabs-hris/resto-settlement-go/internal/domain/shift"
	"github.com/cmlabs-hris/resto-settlement-go/internal/pkg/database"
	"github.com/google/uuid"
)

// =============================================================================
// STORE - shared state for every memory repository
// =============================================================================

type Store struct {
	mu   sync.RWMutex
	txMu sync.Mutex

	employees   map[string]employee.Employee
	plans       map[string]commission.CommissionPlan
	shifts      map[string]shift.Shift
	shiftOrder  []string
	cashups     map[string]cashup.Cashup
	shiftCashup map[string]string
	dispatches  map[string]dispatch.FieldDispatch
	returns     map[string]dispatch.FieldReturn
	deductions  []deduction.SalaryDeduction
	runs        map[period]payroll.PayrollRun
	flags       []audit.Flag
}

type period struct {
	year, month int
}

func NewStore() *Store {
	return &Store{
		employees:   make(map[string]employee.Employee),
		plans:       make(map[string]commission.CommissionPlan),
		shifts:      make(map[string]shift.Shift),
		cashups:     make(map[string]cashup.Cashup),
		shiftCashup: make(map[string]string),
		dispatches:  make(map[string]dispatch.FieldDispatch),
		returns:     make(map[string]dispatch.FieldReturn),
		runs:        make(map[period]payroll.PayrollRun),
	}
}

func newID() string {
	return uuid.Must(uuid.NewV7()).String()
}

// PutEmployee inserts or replaces an employee. Employees are owned by the
// staff module; this is how tests and local runs seed them.
func (s *Store) PutEmployee(e employee.Employee) employee.Employee {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e.ID == "" {
		e.ID = newID()
	}
	s.employees[e.ID] = e
	return e
}

type snapshot struct {
	employees   map[string]employee.Employee
	plans       map[string]commission.CommissionPlan
	shifts      map[string]shift.Shift
	shiftOrder  []string
	cashups     map[string]cashup.Cashup
	shiftCashup map[string]string
	dispatches  map[string]dispatch.FieldDispatch
	returns     map[string]dispatch.FieldReturn
	deductions  []deduction.SalaryDeduction
	runs        map[period]payroll.PayrollRun
	flags       []audit.Flag
}

func (s *Store) snapshot() snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return snapshot{
		employees:   maps.Clone(s.employees),
		plans:       maps.Clone(s.plans),
		shifts:      maps.Clone(s.shifts),
		shiftOrder:  slices.Clone(s.shiftOrder),
		cashups:     maps.Clone(s.cashups),
		shiftCashup: maps.Clone(s.shiftCashup),
		dispatches:  maps.Clone(s.dispatches),
		returns:     maps.Clone(s.returns),
		deductions:  slices.Clone(s.deductions),
		runs:        maps.Clone(s.runs),
		flags:       slices.Clone(s.flags),
	}
}

func (s *Store) restore(snap snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.employees = snap.employees
	s.plans = snap.plans
	s.shifts = snap.shifts
	s.shiftOrder = snap.shiftOrder
	s.cashups = snap.cashups
	s.shiftCashup = snap.shiftCashup
	s.dispatches = snap.dispatches
	s.returns = snap.returns
	s.deductions = snap.deductions
	s.runs = snap.runs
	s.flags = snap.flags
}

// =============================================================================
// TRANSACTOR
// =============================================================================

type txKey struct{}

type transactor struct {
	store *Store
}

// NewTransactor returns a Transactor that runs units of work one at a time,
// which subsumes every lock key. A failed unit of work is rolled back by
// restoring the state captured when it began. Writes made outside a unit of
// work while one is rolling back are lost.
func NewTransactor(store *Store) database.Transactor {
	return &transactor{store: store}
}

func (t *transactor) WithinTransaction(ctx context.Context, _ database.TxOptions, fn func(txCtx context.Context) error) error {
	if ctx.Value(txKey{}) != nil {
		return fn(ctx)
	}

	t.store.txMu.Lock()
	defer t.store.txMu.Unlock()

	snap := t.store.snapshot()
	if err := fn(context.WithValue(ctx, txKey{}, true)); err != nil {
		t.store.restore(snap)
		return err
	}
	return nil
}
