package cashup

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/resto-settlement-go/internal/domain/cashup"
	"github.com/cmlabs-hris/resto-settlement-go/internal/domain/commission"
	"github.com/cmlabs-hris/resto-settlement-go/internal/domain/dispatch"
	"github.com/cmlabs-hris/resto-settlement-go/internal/domain/shift"
	"github.com/cmlabs-hris/resto-settlement-go/internal/pkg/database"
	"github.com/cmlabs-hris/resto-settlement-go/internal/pkg/money"
	shiftsvc "github.com/cmlabs-hris/resto-settlement-go/internal/service/shift"
	"github.com/shopspring/decimal"
)

type CashupServiceImpl struct {
	tx                database.Transactor
	shiftRepo         shift.ShiftRepository
	cashupRepo        cashup.CashupRepository
	commissionService commission.CommissionService
	dispatchService   dispatch.DispatchService
}

func NewCashupService(
	tx database.Transactor,
	shiftRepo shift.ShiftRepository,
	cashupRepo cashup.CashupRepository,
	commissionService commission.CommissionService,
	dispatchService dispatch.DispatchService,
) cashup.CashupService {
	return &CashupServiceImpl{
		tx:                tx,
		shiftRepo:         shiftRepo,
		cashupRepo:        cashupRepo,
		commissionService: commissionService,
		dispatchService:   dispatchService,
	}
}

// RecordCashup implements cashup.CashupService. It runs under the same lock
// as the shift lifecycle so a shift cannot be reopened while it is settled.
func (s *CashupServiceImpl) RecordCashup(ctx context.Context, shiftID string, req cashup.RecordCashupRequest) (cashup.CashupResponse, error) {
	if err := req.Validate(); err != nil {
		return cashup.CashupResponse{}, err
	}

	sh, err := s.shiftRepo.GetByID(ctx, shiftID)
	if err != nil {
		return cashup.CashupResponse{}, err
	}
	if sh.Settled {
		return cashup.CashupResponse{}, shift.ErrShiftAlreadySettled
	}

	var created cashup.Cashup
	err = s.tx.WithinTransaction(ctx, shiftsvc.LockOptions(sh.EmployeeID, sh.Date), func(txCtx context.Context) error {
		closed, err := shiftsvc.CloseInTx(txCtx, s.shiftRepo, shiftID)
		if err != nil {
			return err
		}
		if closed.Settled {
			return shift.ErrShiftAlreadySettled
		}

		section, err := s.commissionSection(txCtx, closed, req)
		if err != nil {
			return err
		}
		raw, err := json.Marshal(cashup.Snapshot{
			Commission: section,
			Meta: cashup.Meta{
				EmployeeID: closed.EmployeeID,
				ShiftID:    closed.ID,
				Date:       closed.Date.Format("2006-01-02"),
				Source:     cashup.SourceCashup,
				RecordedAt: time.Now().UTC(),
			},
		})
		if err != nil {
			return fmt.Errorf("failed to encode cashup snapshot: %w", err)
		}

		created, err = s.cashupRepo.Create(txCtx, cashup.Cashup{ShiftID: closed.ID, Snapshot: raw})
		return err
	})
	if err != nil {
		return cashup.CashupResponse{}, err
	}

	slog.InfoContext(ctx, "Cashup recorded", "shift_id", shiftID, "cashup_id", created.ID, "basis", req.EffectiveBasis())
	return cashup.NewCashupResponse(created), nil
}

func (s *CashupServiceImpl) commissionSection(ctx context.Context, sh shift.Shift, req cashup.RecordCashupRequest) (cashup.CommissionSection, error) {
	section := cashup.CommissionSection{Basis: req.EffectiveBasis()}
	if req.DailySales != nil {
		v := money.Round2(money.Parse(req.DailySales))
		section.DailySales = &v
	}
	if req.CashCollected != nil {
		v := money.Round2(money.Parse(req.CashCollected))
		section.CashCollected = &v
	}

	switch section.Basis {
	case cashup.BasisDailySales:
		return s.resolveOn(ctx, sh.EmployeeID, *section.DailySales, section)
	case cashup.BasisCashCollected:
		return s.resolveOn(ctx, sh.EmployeeID, *section.CashCollected, section)
	case cashup.BasisFieldSoldTotal:
		return s.fieldSection(ctx, sh, section)
	default:
		return section, cashup.ErrInvalidBasis
	}
}

func (s *CashupServiceImpl) resolveOn(ctx context.Context, employeeID string, amount float64, section cashup.CommissionSection) (cashup.CommissionSection, error) {
	res, err := s.commissionService.ResolveCommission(ctx, employeeID, amount)
	if err != nil {
		return section, fmt.Errorf("failed to resolve commission: %w", err)
	}
	match := res.Match
	section.Amount = res.Commission
	section.PlanID = res.PlanID
	section.PlanSource = string(res.PlanSource)
	section.RatePct = res.RatePct
	section.MatchedTier = &match
	section.Reason = res.Reason
	section.Diagnostics = res.Diagnostics
	return section, nil
}

// fieldSection pays the sum of the per-dispatch commissions of the shift,
// the same figures SettleFieldDispatch reports. Dispatches without a return
// are left out and reported.
func (s *CashupServiceImpl) fieldSection(ctx context.Context, sh shift.Shift, section cashup.CommissionSection) (cashup.CommissionSection, error) {
	settlements, err := s.dispatchService.SettleShift(ctx, sh.ID)
	if err != nil {
		return section, fmt.Errorf("failed to settle field dispatches: %w", err)
	}

	var sold, cash, total decimal.Decimal
	cashSeen := false
	for _, st := range settlements {
		if !st.Returned {
			section.Diagnostics = append(section.Diagnostics, fmt.Sprintf("dispatch %s has no return", st.DispatchID))
			continue
		}
		sold = sold.Add(money.Decimal(*st.SoldAmount))
		total = total.Add(money.Decimal(*st.Commission))
		if st.CashCollected != nil {
			cash = cash.Add(money.Decimal(*st.CashCollected))
			cashSeen = true
		}
		if section.PlanID == nil {
			section.PlanID = st.PlanID
			section.PlanSource = st.PlanSource
		}
		if st.Reason != "" {
			section.Diagnostics = append(section.Diagnostics, fmt.Sprintf("dispatch %s: %s", st.DispatchID, st.Reason))
		}
		if st.NegativeSoldQty {
			section.Diagnostics = append(section.Diagnostics, fmt.Sprintf("dispatch %s: negative sold quantity", st.DispatchID))
		}
	}

	soldAmount := sold.InexactFloat64()
	section.SoldAmount = &soldAmount
	if cashSeen && section.CashCollected == nil {
		c := cash.InexactFloat64()
		section.CashCollected = &c
	}
	section.Amount = money.Round2(total.InexactFloat64())
	return section, nil
}

// GetCashup implements cashup.CashupService.
func (s *CashupServiceImpl) GetCashup(ctx context.Context, shiftID string) (cashup.CashupResponse, error) {
	c, err := s.cashupRepo.GetByShiftID(ctx, shiftID)
	if err != nil {
		return cashup.CashupResponse{}, err
	}
	return cashup.NewCashupResponse(c), nil
}
