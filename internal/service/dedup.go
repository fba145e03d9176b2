package service

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const dedupTTL = 24 * time.Hour

// Dedup remembers activity ids already received so duplicate
// deliveries can be acknowledged without reprocessing. The apply
// layer's own idempotence guards remain the source of truth; this is
// a fast path.
type Dedup struct {
	rdb *redis.Client
}

func NewDedup(redisClient *redis.Client) *Dedup {
	return &Dedup{
		rdb: redisClient,
	}
}

// Seen records the id and reports whether it had been received before.
func (s *Dedup) Seen(ctx context.Context, activityID string) (bool, error) {
	fresh, err := s.rdb.SetNX(ctx, "activity:"+activityID, 1, dedupTTL).Result()
	if err != nil {
		return false, err
	}
	return !fresh, nil
}

// Forget drops a recorded id, making a redelivery eligible for
// processing again.
func (s *Dedup) Forget(ctx context.Context, activityID string) error {
	return s.rdb.Del(ctx, "activity:"+activityID).Err()
}
