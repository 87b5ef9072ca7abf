// Package cache provides the per-session LRU of parsed programs.
//
// A cached program holds handles into the arena it was parsed into, so a
// Cache belongs to exactly one session and is used from that session's
// goroutine only. Running a line that was parsed before reuses its nodes
// instead of allocating another copy in the arena.
//
// # Example
//
//	c := cache.New(1024)
//	prog, err := c.Program(cache.Key{Source: "x ^ 2 + 1", ParseDepth: 1000}, parse)
package cache

import (
	"container/list"

	"github.com/sandrolain/gomml/pkg/types"
)

// DefaultCapacity is used when New is given a non-positive capacity.
const DefaultCapacity = 256

// Key identifies a parse. The same source parsed under a different nesting
// limit may succeed or fail differently, so the limit is part of the key.
type Key struct {
	Source     string
	ParseDepth int
}

type entry struct {
	key  Key
	prog *types.Program
}

// Stats counts cache lookups.
type Stats struct {
	Hits   int
	Misses int
}

// Cache is an LRU of parsed programs. It is not safe for concurrent use.
type Cache struct {
	capacity int
	ll       *list.List // front is most recently used
	items    map[Key]*list.Element
	stats    Stats
}

// New creates a cache holding up to capacity programs.
func New(capacity int) *Cache {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Cache{
		capacity: capacity,
		ll:       list.New(),
		items:    make(map[Key]*list.Element, capacity),
	}
}

// Get returns the program cached under k and marks it most recently used.
func (c *Cache) Get(k Key) (*types.Program, bool) {
	el, ok := c.items[k]
	if !ok {
		c.stats.Misses++
		return nil, false
	}
	c.stats.Hits++
	c.ll.MoveToFront(el)
	return el.Value.(*entry).prog, true
}

// Put stores prog under k, evicting the least recently used program when
// the cache is full.
func (c *Cache) Put(k Key, prog *types.Program) {
	if el, ok := c.items[k]; ok {
		el.Value.(*entry).prog = prog
		c.ll.MoveToFront(el)
		return
	}
	if c.ll.Len() >= c.capacity {
		oldest := c.ll.Back()
		c.ll.Remove(oldest)
		delete(c.items, oldest.Value.(*entry).key)
	}
	c.items[k] = c.ll.PushFront(&entry{key: k, prog: prog})
}

// Program returns the program cached under k, or parses and caches it.
// Failed parses are not cached, so their errors are reported every time.
func (c *Cache) Program(k Key, parse func() (*types.Program, error)) (*types.Program, error) {
	if prog, ok := c.Get(k); ok {
		return prog, nil
	}
	prog, err := parse()
	if err != nil {
		return nil, err
	}
	c.Put(k, prog)
	return prog, nil
}

// Len returns the number of cached programs.
func (c *Cache) Len() int { return c.ll.Len() }

// Capacity returns the maximum number of cached programs.
func (c *Cache) Capacity() int { return c.capacity }

// Stats returns the lookup counters.
func (c *Cache) Stats() Stats { return c.stats }

// Clear drops every program and resets the counters.
func (c *Cache) Clear() {
	c.ll.Init()
	clear(c.items)
	c.stats = Stats{}
}
