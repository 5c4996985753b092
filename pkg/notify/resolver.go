package notify

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
)

// KeyResolver looks up recipient encryption keys, caching the ones it finds.
// Absent keys are never cached so a fresh registration is picked up immediately.
type KeyResolver struct {
	registry KeyRegistry
	cache    *cache.Cache
	log      *slog.Logger
}

// NewKeyResolver caches hits for ttl; ttl <= 0 disables the cache.
func NewKeyResolver(registry KeyRegistry, ttl time.Duration, logger *slog.Logger) *KeyResolver {
	r := &KeyResolver{registry: registry, log: orDiscard(logger)}
	if ttl > 0 {
		// No janitor goroutine; expired entries are purged on insert.
		r.cache = cache.New(ttl, 0)
	}
	return r
}

// Resolve returns found=false with a nil error when the recipient has no key.
func (r *KeyResolver) Resolve(ctx context.Context, address string) ([]byte, bool, error) {
	k := strings.ToLower(strings.TrimSpace(address))
	if r.cache != nil {
		if v, ok := r.cache.Get(k); ok {
			return v.([]byte), true, nil
		}
	}

	key, err := r.registry.PublicKey(ctx, address)
	if err != nil {
		return nil, false, fmt.Errorf("lookup public key: %w", err)
	}
	if len(key) == 0 {
		r.log.Debug("no public key registered", slog.String("address", address))
		return nil, false, nil
	}
	if r.cache != nil {
		r.cache.DeleteExpired()
		r.cache.SetDefault(k, key)
	}
	return key, true, nil
}
