package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultPlanTTL bounds how long a resolved plan is served from cache.
const DefaultPlanTTL = 10 * time.Minute

// PlanCache caches the plan tier of users for the account API.
type PlanCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewPlanCache(rdb *redis.Client, ttl time.Duration) *PlanCache {
	if ttl <= 0 {
		ttl = DefaultPlanTTL
	}
	return &PlanCache{rdb: rdb, ttl: ttl}
}

func planKey(userID string) string {
	return "plan:user:" + userID
}

// GetPlan returns the cached plan and whether it was present.
func (c *PlanCache) GetPlan(ctx context.Context, userID string) (string, bool, error) {
	plan, err := c.rdb.Get(ctx, planKey(userID)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return plan, true, nil
}

func (c *PlanCache) SetPlan(ctx context.Context, userID, plan string) error {
	return c.rdb.Set(ctx, planKey(userID), plan, c.ttl).Err()
}

func (c *PlanCache) InvalidatePlan(ctx context.Context, userID string) error {
	return c.rdb.Del(ctx, planKey(userID)).Err()
}
