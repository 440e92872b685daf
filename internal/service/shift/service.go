package shift

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/resto-settlement-go/internal/domain/employee"
	"github.com/cmlabs-hris/resto-settlement-go/internal/domain/shift"
	"github.com/cmlabs-hris/resto-settlement-go/internal/pkg/database"
)

type ShiftServiceImpl struct {
	tx           database.Transactor
	shiftRepo    shift.ShiftRepository
	employeeRepo employee.EmployeeRepository
}

func NewShiftService(
	tx database.Transactor,
	shiftRepo shift.ShiftRepository,
	employeeRepo employee.EmployeeRepository,
) shift.ShiftService {
	return &ShiftServiceImpl{
		tx:           tx,
		shiftRepo:    shiftRepo,
		employeeRepo: employeeRepo,
	}
}

// LockOptions returns the unit-of-work options that serialize lifecycle
// decisions for one employee and day. Writers that settle a shift must use
// the same options.
func LockOptions(employeeID string, date time.Time) database.TxOptions {
	return database.TxOptions{
		Serializable: true,
		LockKeys:     []string{shift.LockKey(employeeID, date)},
	}
}

// GetOrCreateEditableShift implements shift.ShiftService.
//
// The latest shift of the day decides the outcome:
//   - none: a new OPEN shift is created
//   - OPEN: it is returned unchanged
//   - CLOSED without cashup: it is reopened
//   - CLOSED with cashup: a new OPEN shift is created, inheriting waiter
//     metadata not supplied by the caller
func (s *ShiftServiceImpl) GetOrCreateEditableShift(ctx context.Context, date time.Time, employeeID string, meta shift.WaiterMeta) (shift.Shift, error) {
	if date.IsZero() {
		return shift.Shift{}, shift.ErrInvalidDate
	}
	day := shift.DateOnly(date)

	emp, err := s.employeeRepo.GetByID(ctx, employeeID)
	if err != nil {
		return shift.Shift{}, err
	}
	if !emp.IsActive {
		return shift.Shift{}, employee.ErrEmployeeInactive
	}

	var result shift.Shift
	err = s.tx.WithinTransaction(ctx, LockOptions(employeeID, day), func(txCtx context.Context) error {
		latest, err := s.shiftRepo.GetLatest(txCtx, employeeID, day)
		if err != nil && !errors.Is(err, shift.ErrShiftNotFound) {
			return fmt.Errorf("failed to get latest shift: %w", err)
		}
		now := time.Now().UTC()

		switch {
		case errors.Is(err, shift.ErrShiftNotFound):
			result, err = s.open(txCtx, employeeID, day, now, meta, nil)
			return err

		case latest.IsOpen():
			result = latest
			return nil

		case !latest.Settled:
			latest.Events = append(latest.Events, shift.Event{
				Type:          shift.EventReopened,
				At:            now,
				PriorState:    shift.StateClosed,
				PriorClosedAt: latest.ClosedAt,
			})
			latest.ClosedAt = nil
			latest.WaiterMeta = meta.Inherit(latest.WaiterMeta)
			result, err = s.shiftRepo.Update(txCtx, latest)
			if err != nil {
				return fmt.Errorf("failed to reopen shift: %w", err)
			}
			slog.InfoContext(txCtx, "Shift reopened", "shift_id", result.ID, "employee_id", employeeID)
			return nil

		default:
			priorID := latest.ID
			result, err = s.open(txCtx, employeeID, day, now, meta.Inherit(latest.WaiterMeta), &priorID)
			return err
		}
	})
	if err != nil {
		return shift.Shift{}, err
	}
	return result, nil
}

func (s *ShiftServiceImpl) open(ctx context.Context, employeeID string, day, now time.Time, meta shift.WaiterMeta, priorShiftID *string) (shift.Shift, error) {
	created, err := s.shiftRepo.Create(ctx, shift.Shift{
		EmployeeID: employeeID,
		Date:       day,
		OpenedAt:   now,
		WaiterMeta: meta,
		Events: []shift.Event{{
			Type:         shift.EventOpened,
			At:           now,
			PriorShiftID: priorShiftID,
		}},
	})
	if err != nil {
		return shift.Shift{}, fmt.Errorf("failed to create shift: %w", err)
	}
	slog.InfoContext(ctx, "Shift opened", "shift_id", created.ID, "employee_id", employeeID, "date", day.Format("2006-01-02"))
	return created, nil
}

// CloseShift implements shift.ShiftService. Closing a closed shift is a no-op.
func (s *ShiftServiceImpl) CloseShift(ctx context.Context, shiftID string) (shift.Shift, error) {
	current, err := s.shiftRepo.GetByID(ctx, shiftID)
	if err != nil {
		return shift.Shift{}, err
	}

	var result shift.Shift
	err = s.tx.WithinTransaction(ctx, LockOptions(current.EmployeeID, current.Date), func(txCtx context.Context) error {
		result, err = CloseInTx(txCtx, s.shiftRepo, shiftID)
		return err
	})
	if err != nil {
		return shift.Shift{}, err
	}
	return result, nil
}

// CloseInTx closes the shift within the caller's unit of work, which must
// hold the shift's lock.
func CloseInTx(ctx context.Context, repo shift.ShiftRepository, shiftID string) (shift.Shift, error) {
	sh, err := repo.GetByID(ctx, shiftID)
	if err != nil {
		return shift.Shift{}, err
	}
	if !sh.IsOpen() {
		return sh, nil
	}

	now := time.Now().UTC()
	sh.ClosedAt = &now
	sh.Events = append(sh.Events, shift.Event{Type: shift.EventClosed, At: now, PriorState: shift.StateOpen})
	closed, err := repo.Update(ctx, sh)
	if err != nil {
		return shift.Shift{}, fmt.Errorf("failed to close shift: %w", err)
	}
	return closed, nil
}

// GetShift implements shift.ShiftService.
func (s *ShiftServiceImpl) GetShift(ctx context.Context, shiftID string) (shift.Shift, error) {
	return s.shiftRepo.GetByID(ctx, shiftID)
}
