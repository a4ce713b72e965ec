package utils

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

const blacklistKeyPrefix = "jwt:blacklist:"

var (
	blacklist   = map[string]time.Time{}
	blacklistMu sync.RWMutex
)

// BlacklistToken revokes the token with the given JWT ID until it expires.
// Redis holds the entry when configured; otherwise it stays in process memory.
func BlacklistToken(ctx context.Context, jti string, expiresAt time.Time) {
	ttl := time.Until(expiresAt)
	if jti == "" || ttl <= 0 {
		return
	}
	if rc := GetRedis(); rc != nil {
		ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()
		err := rc.Set(ctx, blacklistKeyPrefix+jti, "1", ttl).Err()
		if err == nil {
			return
		}
		L().Warn("redis blacklist write failed, keeping token in memory", zap.Error(err))
	}
	blacklistMu.Lock()
	blacklist[jti] = expiresAt
	blacklistMu.Unlock()
}

// IsTokenBlacklisted reports whether the token was revoked before natural expiration.
func IsTokenBlacklisted(ctx context.Context, jti string) bool {
	if rc := GetRedis(); rc != nil {
		ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()
		n, err := rc.Exists(ctx, blacklistKeyPrefix+jti).Result()
		if err == nil && n > 0 {
			return true
		}
		if err != nil {
			L().Warn("redis blacklist lookup failed", zap.Error(err))
		}
	}

	blacklistMu.RLock()
	expiresAt, ok := blacklist[jti]
	blacklistMu.RUnlock()
	if !ok {
		return false
	}

	if time.Now().After(expiresAt) {
		blacklistMu.Lock()
		delete(blacklist, jti)
		blacklistMu.Unlock()
		return false
	}

	return true
}

// PruneBlacklist drops expired in-memory entries and returns how many were removed.
func PruneBlacklist(now time.Time) int {
	blacklistMu.Lock()
	defer blacklistMu.Unlock()
	removed := 0
	for jti, expiresAt := range blacklist {
		if now.After(expiresAt) {
			delete(blacklist, jti)
			removed++
		}
	}
	return removed
}
