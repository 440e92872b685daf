package shift

import (
	"time"

	"github.com/cmlabs-hris/resto-settlement-go/internal/pkg/validator"
)

type EditableShiftRequest struct {
	EmployeeID string  `json:"employee_id"`
	Date       string  `json:"date"` // YYYY-MM-DD
	WaiterType *string `json:"waiter_type,omitempty"`
	TableCode  *string `json:"table_code,omitempty"`
	Route      *string `json:"route,omitempty"`
}

func (r *EditableShiftRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{Field: "employee_id", Message: "is required"})
	}
	if _, ok := validator.IsValidDate(r.Date); !ok {
		errs = append(errs, validator.ValidationError{Field: "date", Message: "must be a date in YYYY-MM-DD format"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func (r *EditableShiftRequest) ParsedDate() time.Time {
	d, _ := validator.IsValidDate(r.Date)
	return d
}

func (r *EditableShiftRequest) Meta() WaiterMeta {
	return WaiterMeta{WaiterType: r.WaiterType, TableCode: r.TableCode, Route: r.Route}
}

type ShiftResponse struct {
	ID         string     `json:"id"`
	EmployeeID string     `json:"employee_id"`
	Date       string     `json:"date"`
	State      State      `json:"state"`
	OpenedAt   time.Time  `json:"opened_at"`
	ClosedAt   *time.Time `json:"closed_at,omitempty"`
	WaiterType *string    `json:"waiter_type,omitempty"`
	TableCode  *string    `json:"table_code,omitempty"`
	Route      *string    `json:"route,omitempty"`
	Notes      *string    `json:"notes,omitempty"`
	Settled    bool       `json:"settled"`
	Events     []Event    `json:"events"`
}

func NewShiftResponse(s Shift) ShiftResponse {
	events := s.Events
	if events == nil {
		events = []Event{}
	}
	return ShiftResponse{
		ID:         s.ID,
		EmployeeID: s.EmployeeID,
		Date:       s.Date.Format("2006-01-02"),
		State:      s.State(),
		OpenedAt:   s.OpenedAt,
		ClosedAt:   s.ClosedAt,
		WaiterType: s.WaiterType,
		TableCode:  s.TableCode,
		Route:      s.Route,
		Notes:      s.Notes,
		Settled:    s.Settled,
		Events:     events,
	}
}
