package prismic

import (
	"encoding/hex"
	"time"

	"github.com/zeebo/blake3"
)

// Cache stores raw API responses. Implementations must be safe for
// concurrent use. A ttl <= 0 means the entry does not expire.
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration)
}

// NoCache disables caching.
type NoCache struct{}

// Get implements Cache.
func (NoCache) Get(string) ([]byte, bool) { return nil, false }

// Set implements Cache.
func (NoCache) Set(string, []byte, time.Duration) {}

// maxKeyLength is the longest key handed to a Cache as is. Some backends,
// memcached among them, refuse anything longer.
const maxKeyLength = 250

func cacheKey(url string) string {
	if len(url) <= maxKeyLength {
		return url
	}
	sum := blake3.Sum256([]byte(url))
	return "blake3:" + hex.EncodeToString(sum[:])
}
