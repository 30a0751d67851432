// SPDX-License-Identifier: MIT

package propagate

import (
	"container/list"
	"sync"

	"github.com/katalvlaran/waveprop/grid"
	"github.com/katalvlaran/waveprop/kernel"
	"github.com/katalvlaran/waveprop/metrics"
)

// cacheKey identifies a kernel by everything its values depend on.
type cacheKey struct {
	method     kernel.Method
	src        grid.Grid
	dst        grid.Grid
	wavelength float64
	z          float64
	padded     bool
	bandLimit  bool
	simpson    bool
	override   bool
}

type cacheEntry struct {
	key    cacheKey
	kernel *kernel.Kernel
}

// kernelCache is a bounded LRU of built kernels. Safe for concurrent use.
// Kernels are immutable, so a hit is shared without copying.
type kernelCache struct {
	mu       sync.Mutex
	capacity int
	order    *list.List // front = most recent
	entries  map[cacheKey]*list.Element
	rec      *metrics.Recorder
}

func newKernelCache(capacity int, rec *metrics.Recorder) *kernelCache {
	return &kernelCache{
		capacity: capacity,
		order:    list.New(),
		entries:  make(map[cacheKey]*list.Element, capacity),
		rec:      rec,
	}
}

func (c *kernelCache) get(key cacheKey) (*kernel.Kernel, bool) {
	if c.capacity == 0 {
		return nil, false
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.entries[key]
	if !ok {
		c.rec.IncCache(metrics.CacheMiss)
		return nil, false
	}
	c.order.MoveToFront(el)
	c.rec.IncCache(metrics.CacheHit)

	return el.Value.(*cacheEntry).kernel, true
}

// put stores k, evicting the least recently used entry when full. A
// concurrent build of the same key keeps the first stored kernel.
func (c *kernelCache) put(key cacheKey, k *kernel.Kernel) {
	if c.capacity == 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.entries[key]; ok {
		c.order.MoveToFront(el)
		return
	}
	c.entries[key] = c.order.PushFront(&cacheEntry{key: key, kernel: k})
	for c.order.Len() > c.capacity {
		last := c.order.Back()
		c.order.Remove(last)
		delete(c.entries, last.Value.(*cacheEntry).key)
		c.rec.IncCache(metrics.CacheEvict)
	}
}

func (c *kernelCache) size() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.order.Len()
}
