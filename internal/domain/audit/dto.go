package audit

import "time"

type FlagFilter struct {
	Kind  Kind
	Page  int
	Limit int
}

// Offset is the number of flags before the filter's page.
func (f FlagFilter) Offset() int {
	if f.Page <= 1 {
		return 0
	}
	return (f.Page - 1) * f.Limit
}

type ListFlagsResponse struct {
	TotalCount int64          `json:"total_count"`
	Page       int            `json:"page"`
	Limit      int            `json:"limit"`
	TotalPages int            `json:"total_pages"`
	Flags      []FlagResponse `json:"flags"`
}

type FlagResponse struct {
	ID         string    `json:"id"`
	Kind       Kind      `json:"kind"`
	EntityType string    `json:"entity_type"`
	EntityID   string    `json:"entity_id"`
	Detail     string    `json:"detail"`
	CreatedAt  time.Time `json:"created_at"`
}

func NewFlagResponse(f Flag) FlagResponse {
	return FlagResponse{
		ID:         f.ID,
		Kind:       f.Kind,
		EntityType: f.EntityType,
		EntityID:   f.EntityID,
		Detail:     f.Detail,
		CreatedAt:  f.CreatedAt,
	}
}
