package audit

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	"github.com/cmlabs-hris/resto-settlement-go/internal/domain/audit"
)

const (
	defaultListLimit = 100
	maxListLimit     = 1000
)

type AuditServiceImpl struct {
	flagRepo audit.FlagRepository
}

func NewAuditService(flagRepo audit.FlagRepository) audit.AuditService {
	return &AuditServiceImpl{flagRepo: flagRepo}
}

func (s *AuditServiceImpl) Raise(ctx context.Context, kind audit.Kind, entityType, entityID, detail string) {
	slog.WarnContext(ctx, "Audit flag raised", "kind", kind, "entity_type", entityType, "entity_id", entityID, "detail", detail)

	_, err := s.flagRepo.Create(ctx, audit.Flag{
		Kind:       kind,
		EntityType: entityType,
		EntityID:   entityID,
		Detail:     detail,
	})
	if err != nil {
		slog.ErrorContext(ctx, "Failed to store audit flag", "kind", kind, "entity_id", entityID, "error", err)
	}
}

func (s *AuditServiceImpl) ListFlags(ctx context.Context, filter audit.FlagFilter) (audit.ListFlagsResponse, error) {
	if filter.Limit <= 0 || filter.Limit > maxListLimit {
		filter.Limit = defaultListLimit
	}
	if filter.Page <= 0 {
		filter.Page = 1
	}

	flags, total, err := s.flagRepo.List(ctx, filter)
	if err != nil {
		return audit.ListFlagsResponse{}, fmt.Errorf("failed to list audit flags: %w", err)
	}
	out := make([]audit.FlagResponse, 0, len(flags))
	for _, f := range flags {
		out = append(out, audit.NewFlagResponse(f))
	}

	return audit.ListFlagsResponse{
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: int(math.Ceil(float64(total) / float64(filter.Limit))),
		Flags:      out,
	}, nil
}
