package dispatch

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/cmlabs-hris/resto-settlement-go/internal/domain/audit"
	"github.com/cmlabs-hris/resto-settlement-go/internal/domain/commission"
	"github.com/cmlabs-hris/resto-settlement-go/internal/domain/dispatch"
	"github.com/cmlabs-hris/resto-settlement-go/internal/domain/employee"
	"github.com/cmlabs-hris/resto-settlement-go/internal/domain/shift"
	"github.com/cmlabs-hris/resto-settlement-go/internal/pkg/bracket"
	"github.com/cmlabs-hris/resto-settlement-go/internal/pkg/database"
	"github.com/cmlabs-hris/resto-settlement-go/internal/pkg/money"
	shiftsvc "github.com/cmlabs-hris/resto-settlement-go/internal/service/shift"
)

type DispatchServiceImpl struct {
	tx                database.Transactor
	dispatchRepo      dispatch.DispatchRepository
	employeeRepo      employee.EmployeeRepository
	shiftService      shift.ShiftService
	commissionService commission.CommissionService
	auditService      audit.AuditService
}

func NewDispatchService(
	tx database.Transactor,
	dispatchRepo dispatch.DispatchRepository,
	employeeRepo employee.EmployeeRepository,
	shiftService shift.ShiftService,
	commissionService commission.CommissionService,
	auditService audit.AuditService,
) dispatch.DispatchService {
	return &DispatchServiceImpl{
		tx:                tx,
		dispatchRepo:      dispatchRepo,
		employeeRepo:      employeeRepo,
		shiftService:      shiftService,
		commissionService: commissionService,
		auditService:      auditService,
	}
}

// RecordDispatch implements dispatch.DispatchService. The dispatch is booked
// on the waiter's editable shift for the day, under the same lock a cashup
// takes to settle that shift.
func (s *DispatchServiceImpl) RecordDispatch(ctx context.Context, req dispatch.RecordDispatchRequest) (dispatch.FieldDispatch, error) {
	if err := req.Validate(); err != nil {
		return dispatch.FieldDispatch{}, err
	}

	waiter, err := s.employeeRepo.GetByID(ctx, req.WaiterID)
	if err != nil {
		return dispatch.FieldDispatch{}, err
	}
	if waiter.Type != employee.TypeField {
		return dispatch.FieldDispatch{}, dispatch.ErrNotFieldWaiter
	}

	date := req.ParsedDate()
	waiterType := string(employee.TypeField)
	var created dispatch.FieldDispatch
	err = s.tx.WithinTransaction(ctx, shiftsvc.LockOptions(waiter.ID, date), func(txCtx context.Context) error {
		sh, err := s.shiftService.GetOrCreateEditableShift(txCtx, date, waiter.ID, shift.WaiterMeta{
			WaiterType: &waiterType,
			Route:      req.Route,
		})
		if err != nil {
			return fmt.Errorf("failed to get editable shift: %w", err)
		}

		created, err = s.dispatchRepo.Create(txCtx, dispatch.FieldDispatch{
			WaiterID:      waiter.ID,
			ItemID:        req.ItemID,
			ShiftID:       sh.ID,
			QtyDispatched: req.QtyDispatched,
			PriceEach:     money.Parse(req.PriceEach),
			Date:          sh.Date,
		})
		if err != nil {
			return fmt.Errorf("failed to create field dispatch: %w", err)
		}
		return nil
	})
	if err != nil {
		return dispatch.FieldDispatch{}, err
	}
	return created, nil
}

// RecordReturn implements dispatch.DispatchService. The settled check and
// the insert run under the shift lock so a cashup cannot settle the shift
// in between.
func (s *DispatchServiceImpl) RecordReturn(ctx context.Context, dispatchID string, req dispatch.RecordReturnRequest) (dispatch.FieldReturn, error) {
	if err := req.Validate(); err != nil {
		return dispatch.FieldReturn{}, err
	}

	d, err := s.dispatchRepo.GetByID(ctx, dispatchID)
	if err != nil {
		return dispatch.FieldReturn{}, err
	}
	if d.Return != nil {
		return dispatch.FieldReturn{}, dispatch.ErrReturnExists
	}

	ret := dispatch.FieldReturn{
		DispatchID:  d.ID,
		QtyReturned: req.QtyReturned,
		LossQty:     req.LossQty,
	}
	if req.CashCollected != nil {
		cash := money.Round2(money.Parse(req.CashCollected))
		ret.CashCollected = &cash
	}

	var created dispatch.FieldReturn
	err = s.tx.WithinTransaction(ctx, shiftsvc.LockOptions(d.WaiterID, d.Date), func(txCtx context.Context) error {
		sh, err := s.shiftService.GetShift(txCtx, d.ShiftID)
		if err != nil {
			return fmt.Errorf("failed to get dispatch shift: %w", err)
		}
		if sh.Settled {
			return shift.ErrShiftAlreadySettled
		}
		created, err = s.dispatchRepo.CreateReturn(txCtx, ret)
		return err
	})
	if err != nil {
		return dispatch.FieldReturn{}, err
	}

	if sold := d.QtyDispatched - created.QtyReturned - created.LossQty; sold < 0 {
		s.auditService.Raise(ctx, audit.KindNegativeSoldQty, "field_dispatch", d.ID,
			fmt.Sprintf("dispatched %d, returned %d, lost %d", d.QtyDispatched, created.QtyReturned, created.LossQty))
	}
	return created, nil
}

// SettleFieldDispatch implements dispatch.DispatchService.
func (s *DispatchServiceImpl) SettleFieldDispatch(ctx context.Context, dispatchID string) (dispatch.Settlement, error) {
	d, err := s.dispatchRepo.GetByID(ctx, dispatchID)
	if err != nil {
		return dispatch.Settlement{}, err
	}
	sel, err := s.commissionService.SelectPlan(ctx, d.WaiterID)
	if err != nil {
		return dispatch.Settlement{}, err
	}
	return s.settle(ctx, d, sel), nil
}

// SettleShift implements dispatch.DispatchService.
func (s *DispatchServiceImpl) SettleShift(ctx context.Context, shiftID string) ([]dispatch.Settlement, error) {
	dispatches, err := s.dispatchRepo.ListByShiftID(ctx, shiftID)
	if err != nil {
		return nil, fmt.Errorf("failed to list field dispatches: %w", err)
	}

	selections := make(map[string]commission.PlanSelection)
	out := make([]dispatch.Settlement, 0, len(dispatches))
	for _, d := range dispatches {
		sel, ok := selections[d.WaiterID]
		if !ok {
			sel, err = s.commissionService.SelectPlan(ctx, d.WaiterID)
			if err != nil {
				return nil, err
			}
			selections[d.WaiterID] = sel
		}
		out = append(out, s.settle(ctx, d, sel))
	}
	return out, nil
}

func (s *DispatchServiceImpl) settle(ctx context.Context, d dispatch.FieldDispatch, sel commission.PlanSelection) dispatch.Settlement {
	table := bracket.Table{Encoding: bracket.EncodingNone}
	if sel.Plan != nil {
		table = sel.Plan.Table()
	}

	settlement := Settle(d, d.Return, table)
	settlement.PlanSource = string(sel.Source)
	settlement.Reason = sel.Reason
	settlement.Diagnostics = append(settlement.Diagnostics, sel.Diagnostics...)
	if sel.Plan != nil {
		planID := sel.Plan.ID
		settlement.PlanID = &planID
		if len(table.Diagnostics) > 0 {
			slog.WarnContext(ctx, "Commission plan brackets have problems", "plan_id", planID, "diagnostics", table.Diagnostics)
			settlement.Diagnostics = append(settlement.Diagnostics, table.Diagnostics...)
		}
	}
	if settlement.Match != nil && !settlement.Match.Matched && settlement.Reason == "" {
		if settlement.SoldAmount != nil && *settlement.SoldAmount <= 0 {
			settlement.Reason = commission.ReasonNonPositiveAmount
		} else {
			settlement.Reason = commission.ReasonNoBracketMatch
		}
	}
	return settlement
}
