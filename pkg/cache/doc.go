// Package cache stores computed responses with a time-to-live.
//
// Two backends implement Cache: Memory, an LRU-bounded in-process map, and Redis,
// which serializes values as JSON through go-redis. GetOrSet collapses concurrent
// misses for the same key into a single computation.
//
//	c := cache.NewMemory[any](cache.WithDefaultTTL(time.Minute), cache.WithMaxEntries(1000))
//	defer c.Close()
//
//	v, err := cache.GetOrSet(ctx, c, "items:5", func(ctx context.Context) (any, time.Duration, error) {
//	    item, err := repo.Find(ctx, 5)
//	    return item, 0, err
//	})
//
// A zero TTL uses the cache default; a negative TTL never expires.
package cache
