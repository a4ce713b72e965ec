package utils

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// StartBlacklistJanitor periodically drops expired in-memory blacklist entries
// until ctx is cancelled. Redis entries expire on their own TTL.
func StartBlacklistJanitor(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case now := <-ticker.C:
				if n := PruneBlacklist(now); n > 0 {
					L().Debug("pruned expired tokens", zap.Int("count", n))
				}
			}
		}
	}()
}
