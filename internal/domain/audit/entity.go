package audit

import "time"

type Kind string

const (
	KindMultipleDefaultPlans Kind = "multiple_default_plans"
	KindNegativeSoldQty      Kind = "negative_sold_qty"
	KindMalformedBrackets    Kind = "malformed_brackets"
	KindMalformedSnapshot    Kind = "malformed_snapshot"
)

// Flag records a data or consistency problem an operator should look at.
// Flags never block the operation that raised them.
type Flag struct {
	ID         string
	Kind       Kind
	EntityType string
	EntityID   string
	Detail     string
	CreatedAt  time.Time
}
