package shift

import (
	"time"
)

type State string

const (
	StateOpen   State = "OPEN"
	StateClosed State = "CLOSED"
)

type EventType string

const (
	EventOpened   EventType = "opened"
	EventClosed   EventType = "closed"
	EventReopened EventType = "reopened"
)

// Event is one entry of a shift's append-only lifecycle log.
type Event struct {
	Type          EventType  `json:"type"`
	At            time.Time  `json:"at"`
	PriorState    State      `json:"prior_state,omitempty"`
	PriorClosedAt *time.Time `json:"prior_closed_at,omitempty"`
	// PriorShiftID links a shift opened after a settled one on the same date.
	PriorShiftID *string `json:"prior_shift_id,omitempty"`
}

// WaiterMeta is optional floor/field context recorded on a shift.
type WaiterMeta struct {
	WaiterType *string
	TableCode  *string
	Route      *string
}

// Inherit fills every unset field of m from prev.
func (m WaiterMeta) Inherit(prev WaiterMeta) WaiterMeta {
	if m.WaiterType == nil {
		m.WaiterType = prev.WaiterType
	}
	if m.TableCode == nil {
		m.TableCode = prev.TableCode
	}
	if m.Route == nil {
		m.Route = prev.Route
	}
	return m
}

type Shift struct {
	ID         string
	EmployeeID string
	Date       time.Time // date-only, UTC
	OpenedAt   time.Time
	ClosedAt   *time.Time
	WaiterMeta
	Notes  *string
	Events []Event

	// Settled is derived: the shift has a cashup.
	Settled bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (s Shift) State() State {
	if s.ClosedAt == nil {
		return StateOpen
	}
	return StateClosed
}

func (s Shift) IsOpen() bool {
	return s.ClosedAt == nil
}

// Reopened reports whether the shift was ever reopened after a close.
func (s Shift) Reopened() bool {
	for _, e := range s.Events {
		if e.Type == EventReopened {
			return true
		}
	}
	return false
}

// DateOnly truncates t to its UTC calendar day.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// LockKey names the lock serializing lifecycle decisions for one employee
// on one calendar day.
func LockKey(employeeID string, date time.Time) string {
	return "shift:" + employeeID + ":" + DateOnly(date).Format("2006-01-02")
}
