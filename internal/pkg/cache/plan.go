// Package cache holds read-through caches for read-mostly tables.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/resto-settlement-go/internal/domain/commission"
	"github.com/cmlabs-hris/resto-settlement-go/internal/domain/employee"
	"github.com/go-redis/redis/v8"
	"golang.org/x/sync/singleflight"
)

const (
	planKeyPrefix     = "commission_plan:"
	planByIDPrefix    = planKeyPrefix + "id:"
	planDefaultPrefix = planKeyPrefix + "defaults:"
)

// PlanCache decorates a commission.PlanRepository with a redis read-through
// cache for single plans and role defaults. Concurrent misses for the same
// key share one repository call. Redis failures fall back to the repository.
type PlanCache struct {
	next  commission.PlanRepository
	rdb   *redis.Client
	ttl   time.Duration
	group singleflight.Group
}

func NewPlanCache(next commission.PlanRepository, rdb *redis.Client, ttl time.Duration) *PlanCache {
	return &PlanCache{next: next, rdb: rdb, ttl: ttl}
}

type cachedPlan struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	IsDefault bool      `json:"is_default"`
	Brackets  []byte    `json:"brackets"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toCached(p commission.CommissionPlan) cachedPlan {
	return cachedPlan{
		ID:        p.ID,
		Name:      p.Name,
		Role:      string(p.Role),
		IsDefault: p.IsDefault,
		Brackets:  []byte(p.Brackets),
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

func (c cachedPlan) plan() commission.CommissionPlan {
	return commission.CommissionPlan{
		ID:        c.ID,
		Name:      c.Name,
		Role:      employee.Role(c.Role),
		IsDefault: c.IsDefault,
		Brackets:  json.RawMessage(c.Brackets),
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

func (c *PlanCache) GetByID(ctx context.Context, id string) (commission.CommissionPlan, error) {
	plans, err := c.load(ctx, planByIDPrefix+id, func(ctx context.Context) ([]commission.CommissionPlan, error) {
		p, err := c.next.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		return []commission.CommissionPlan{p}, nil
	})
	if err != nil {
		return commission.CommissionPlan{}, err
	}
	if len(plans) != 1 {
		return commission.CommissionPlan{}, commission.ErrPlanNotFound
	}
	return plans[0], nil
}

func (c *PlanCache) ListDefaultsByRole(ctx context.Context, role employee.Role) ([]commission.CommissionPlan, error) {
	return c.load(ctx, planDefaultPrefix+string(role), func(ctx context.Context) ([]commission.CommissionPlan, error) {
		return c.next.ListDefaultsByRole(ctx, role)
	})
}

func (c *PlanCache) List(ctx context.Context) ([]commission.CommissionPlan, error) {
	return c.next.List(ctx)
}

// Upsert writes through without touching the cache. Callers run it inside a
// transaction and call InvalidateAll once that transaction commits.
func (c *PlanCache) Upsert(ctx context.Context, plan commission.CommissionPlan) (commission.CommissionPlan, error) {
	return c.next.Upsert(ctx, plan)
}

// ClearDefaults writes through like Upsert.
func (c *PlanCache) ClearDefaults(ctx context.Context, role employee.Role, exceptID string) error {
	return c.next.ClearDefaults(ctx, role, exceptID)
}

// InvalidateAll drops every cached plan entry.
func (c *PlanCache) InvalidateAll(ctx context.Context) {
	iter := c.rdb.Scan(ctx, 0, planKeyPrefix+"*", 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		slog.WarnContext(ctx, "Failed to scan plan cache keys", "error", err)
		return
	}
	if len(keys) == 0 {
		return
	}
	if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
		slog.WarnContext(ctx, "Failed to invalidate plan cache", "error", err)
	}
}

func (c *PlanCache) load(ctx context.Context, key string, fetch func(context.Context) ([]commission.CommissionPlan, error)) ([]commission.CommissionPlan, error) {
	val, err := c.rdb.Get(ctx, key).Bytes()
	if err == nil {
		var cached []cachedPlan
		if jsonErr := json.Unmarshal(val, &cached); jsonErr == nil {
			plans := make([]commission.CommissionPlan, 0, len(cached))
			for _, cp := range cached {
				plans = append(plans, cp.plan())
			}
			return plans, nil
		}
		slog.WarnContext(ctx, "Discarding undecodable plan cache entry", "key", key)
	} else if !errors.Is(err, redis.Nil) {
		slog.WarnContext(ctx, "Plan cache unavailable", "key", key, "error", err)
		return fetch(ctx)
	}

	v, err, _ := c.group.Do(key, func() (interface{}, error) {
		plans, err := fetch(ctx)
		if err != nil {
			return nil, err
		}
		c.store(ctx, key, plans)
		return plans, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]commission.CommissionPlan), nil
}

func (c *PlanCache) store(ctx context.Context, key string, plans []commission.CommissionPlan) {
	cached := make([]cachedPlan, 0, len(plans))
	for _, p := range plans {
		cached = append(cached, toCached(p))
	}
	data, err := json.Marshal(cached)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, key, data, c.ttl).Err(); err != nil {
		slog.WarnContext(ctx, "Failed to populate plan cache", "key", key, "error", err)
	}
}
