package storage

import (
	"time"

	"github.com/dgraph-io/ristretto/v2"
	"github.com/rs/zerolog/log"
)

const (
	defaultResendCooldown = time.Minute
	maxCooldownEntries    = 10000
)

// CooldownCache rate-limits resend requests per key. Entries expire on their
// own; an existing entry means the key is still inside its cooldown window.
type CooldownCache struct {
	cache *ristretto.Cache[string, time.Time]
	ttl   time.Duration
}

func NewCooldownCache(ttl time.Duration) *CooldownCache {
	if ttl <= 0 {
		ttl = defaultResendCooldown
	}

	c, err := ristretto.NewCache(&ristretto.Config[string, time.Time]{
		NumCounters: maxCooldownEntries,
		MaxCost:     maxCooldownEntries,
		BufferItems: 64,
	})

	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create cooldown cache")
	}

	return &CooldownCache{
		cache: c,
		ttl:   ttl,
	}
}

// Active reports whether key is still cooling down.
func (c *CooldownCache) Active(key string) bool {
	_, ok := c.cache.Get(key)
	return ok
}

// Touch starts (or restarts) the cooldown window for key.
func (c *CooldownCache) Touch(key string) {
	c.cache.SetWithTTL(key, time.Now(), 1, c.ttl)
	c.cache.Wait()
}
