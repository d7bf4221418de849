// Package cache stores fetched catalog text between runs.
//
// The cache package defines a Cache interface with an in-memory and a
// file-backed implementation. Keys are derived from the catalog source so a
// repeated run against the same URL can skip the network.
//
// Usage:
//
//	c := cache.NewMemoryCache()
//	c.Set(ctx, cache.ComputeKeyWithPrefix("errcodes", []byte(url)), body, time.Hour)
//	if body, ok := c.Get(ctx, key); ok {
//	    // use cached body
//	}
package cache
