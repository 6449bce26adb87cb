// Package cache provides a small generic LRU cache.
//
//	c := cache.New[string, int](64)
//	c.Set("key", 42)
//	v, ok := c.Get("key")
//
// The font provider uses it to memoize shaped text runs.
package cache
