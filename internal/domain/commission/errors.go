package commission

import "errors"

var (
	ErrPlanNotFound = errors.New("commission plan not found")

	// ErrMultipleDefaultPlans marks a role with more than one default plan.
	// The resolver degrades to zero commission instead of guessing.
	ErrMultipleDefaultPlans = errors.New("more than one default commission plan for role")
)
