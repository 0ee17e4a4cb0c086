// Package cache memoizes comparison results so repeated API requests for
// the same job set do not re-run the whole day.
package cache

import (
	"fmt"
	"hash/fnv"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/greenhub/hubsim/internal/model"
)

// Cache is the minimal interface the service layer needs.
type Cache interface {
	Get(key string) (any, bool)
	Set(key string, value any, ttl time.Duration)
	Flush()
}

// TTLCache implements Cache with per-entry expiry.
type TTLCache struct {
	data *gocache.Cache
}

// New creates a TTL cache; entries are cleaned up at twice the default TTL.
func New(defaultTTL time.Duration) *TTLCache {
	return &TTLCache{
		data: gocache.New(defaultTTL, defaultTTL*2),
	}
}

func (c *TTLCache) Get(key string) (any, bool) {
	return c.data.Get(key)
}

func (c *TTLCache) Set(key string, value any, ttl time.Duration) {
	c.data.Set(key, value, ttl)
}

func (c *TTLCache) Flush() {
	c.data.Flush()
}

// JobSetKey fingerprints a job set by its static attributes. Two requests
// carrying equivalent job definitions map to the same comparison result.
func JobSetKey(jobs []*model.Job) string {
	h := fnv.New64a()
	for _, j := range jobs {
		deadline := -1.0
		if j.DeadlineHour != nil {
			deadline = *j.DeadlineHour
		}
		fmt.Fprintf(h, "%s|%g|%g|%s|%g;", j.Name, j.PowerKW, j.DurationMin, j.Priority, deadline)
	}
	return fmt.Sprintf("jobs:%x", h.Sum64())
}
