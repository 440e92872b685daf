package memory

import (
	"context"
	"time"

	"github.com/cmlabs-hris/resto-settlement-go/internal/domain/audit"
)

type flagRepository struct {
	s *Store
}

func NewFlagRepository(s *Store) audit.FlagRepository {
	return &flagRepository{s: s}
}

func (r *flagRepository) Create(_ context.Context, f audit.Flag) (audit.Flag, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	f.ID = newID()
	f.CreatedAt = time.Now()
	r.s.flags = append(r.s.flags, f)
	return f, nil
}

func (r *flagRepository) List(_ context.Context, filter audit.FlagFilter) ([]audit.Flag, int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var matched []audit.Flag
	for i := len(r.s.flags) - 1; i >= 0; i-- {
		f := r.s.flags[i]
		if filter.Kind != "" && f.Kind != filter.Kind {
			continue
		}
		matched = append(matched, f)
	}

	total := int64(len(matched))
	start := min(filter.Offset(), len(matched))
	end := len(matched)
	if filter.Limit > 0 {
		end = min(start+filter.Limit, len(matched))
	}
	return matched[start:end], total, nil
}
