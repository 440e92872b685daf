package audit

import "context"

type FlagRepository interface {
	Create(ctx context.Context, f Flag) (Flag, error)
	// List returns one page of flags newest first, filtered by kind when the
	// filter names one, and the total number of matching flags.
	List(ctx context.Context, filter FlagFilter) ([]Flag, int64, error)
}
