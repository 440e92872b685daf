package audit

import "context"

type AuditService interface {
	// Raise records a flag. Failures are logged and swallowed.
	Raise(ctx context.Context, kind Kind, entityType, entityID, detail string)
	ListFlags(ctx context.Context, filter FlagFilter) (ListFlagsResponse, error)
}
