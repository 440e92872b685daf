package cache

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/cmlabs-hris/resto-settlement-go/internal/domain/commission"
	"github.com/cmlabs-hris/resto-settlement-go/internal/domain/employee"
	"github.com/cmlabs-hris/resto-settlement-go/internal/repository/memory"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// unreachableRedis fails every command quickly, which exercises the
// fall-back path.
func unreachableRedis() *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
}

func TestPlanCache_FallsBackWhenRedisIsDown(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	repo := memory.NewPlanRepository(store)
	c := NewPlanCache(repo, unreachableRedis(), time.Minute)

	saved, err := c.Upsert(ctx, commission.CommissionPlan{
		Name: "Default", Role: employee.RoleWaiter, IsDefault: true, Brackets: json.RawMessage(`[{"min":0,"ratePct":5}]`),
	})
	require.NoError(t, err)

	got, err := c.GetByID(ctx, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, saved.ID, got.ID)

	defaults, err := c.ListDefaultsByRole(ctx, employee.RoleWaiter)
	require.NoError(t, err)
	require.Len(t, defaults, 1)

	require.NoError(t, c.ClearDefaults(ctx, employee.RoleWaiter, ""))
	c.InvalidateAll(ctx)
	defaults, err = c.ListDefaultsByRole(ctx, employee.RoleWaiter)
	require.NoError(t, err)
	assert.Empty(t, defaults)

	_, err = c.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, commission.ErrPlanNotFound)
}

// commandLog records the name of every command sent through a client.
type commandLog struct {
	mu    sync.Mutex
	names []string
}

func (l *commandLog) BeforeProcess(ctx context.Context, cmd redis.Cmder) (context.Context, error) {
	l.mu.Lock()
	l.names = append(l.names, cmd.Name())
	l.mu.Unlock()
	return ctx, nil
}

func (l *commandLog) AfterProcess(context.Context, redis.Cmder) error { return nil }

func (l *commandLog) BeforeProcessPipeline(ctx context.Context, cmds []redis.Cmder) (context.Context, error) {
	for _, cmd := range cmds {
		_, _ = l.BeforeProcess(ctx, cmd)
	}
	return ctx, nil
}

func (l *commandLog) AfterProcessPipeline(context.Context, []redis.Cmder) error { return nil }

func (l *commandLog) Names() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.names...)
}

func TestPlanCache_WritesLeaveInvalidationToCaller(t *testing.T) {
	ctx := context.Background()
	rdb := unreachableRedis()
	log := &commandLog{}
	rdb.AddHook(log)
	c := NewPlanCache(memory.NewPlanRepository(memory.NewStore()), rdb, time.Minute)

	saved, err := c.Upsert(ctx, commission.CommissionPlan{
		Name: "Default", Role: employee.RoleWaiter, IsDefault: true, Brackets: json.RawMessage(`[{"min":0,"ratePct":5}]`),
	})
	require.NoError(t, err)
	require.NoError(t, c.ClearDefaults(ctx, employee.RoleWaiter, saved.ID))
	assert.Empty(t, log.Names(), "writes must not touch redis")

	c.InvalidateAll(ctx)
	assert.Contains(t, log.Names(), "scan")
}

func TestCachedPlan_RoundTripKeepsBrackets(t *testing.T) {
	p := commission.CommissionPlan{ID: "p1", Role: employee.RoleKitchen, Brackets: json.RawMessage(`"double"`)}
	data, err := json.Marshal([]cachedPlan{toCached(p)})
	require.NoError(t, err)

	var back []cachedPlan
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, p.Brackets, back[0].plan().Brackets)
	assert.Equal(t, employee.RoleKitchen, back[0].plan().Role)
}
