package cache

import (
	"context"
	"fmt"
	"time"
)

const (
	JobKeyPrefix       = "job:%s"
	JobsCountKeyPrefix = "jobs:count:%s:%s"
)

const (
	JobTTL = 30 * time.Minute
	// Counts are cheap to recompute and only feed pagination math; a short TTL
	// bounds staleness without per-query invalidation bookkeeping.
	JobsCountTTL = 30 * time.Second
)

func JobKey(id string) string {
	return fmt.Sprintf(JobKeyPrefix, id)
}

func JobsCountKey(filter, search string) string {
	return fmt.Sprintf(JobsCountKeyPrefix, filter, search)
}

func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}

func InvalidateJob(ctx context.Context, id string) {
	Invalidate(ctx, JobKey(id))
}
