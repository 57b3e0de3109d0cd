package counter

import (
	"context"
	"strconv"

	"github.com/redis/go-redis/v9"
)

const webhookOutcomesKey = "billing:counters:webhook_outcomes"

// Outcome labels recorded next to the billing event outcomes.
const (
	OutcomeInvalidSignature = "invalid_signature"
	OutcomeFailed           = "failed"
)

// Counter keeps webhook delivery tallies in a Redis hash so every
// instance contributes to the same totals.
type Counter struct {
	rdb *redis.Client
}

func New(rdb *redis.Client) *Counter {
	return &Counter{rdb: rdb}
}

// AddWebhookOutcome increments the counter of one delivery outcome.
func (c *Counter) AddWebhookOutcome(ctx context.Context, outcome string) error {
	return c.rdb.HIncrBy(ctx, webhookOutcomesKey, outcome, 1).Err()
}

// WebhookOutcomes returns all tallies; unparsable fields are skipped.
func (c *Counter) WebhookOutcomes(ctx context.Context) (map[string]int64, error) {
	data, err := c.rdb.HGetAll(ctx, webhookOutcomesKey).Result()
	if err != nil {
		return nil, err
	}
	out := make(map[string]int64, len(data))
	for k, v := range data {
		n, perr := strconv.ParseInt(v, 10, 64)
		if perr != nil {
			continue
		}
		out[k] = n
	}
	return out, nil
}

// Reset drops every tally.
func (c *Counter) Reset(ctx context.Context) error {
	return c.rdb.Del(ctx, webhookOutcomesKey).Err()
}
