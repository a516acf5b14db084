package imaging

import (
	"container/list"
	"sync"
)

// Cache is a byte-capacity LRU store for acquired imagery. Entries are
// immutable once inserted and replaced wholesale on a fresh fetch. The cache
// is explicitly constructed and owned by the host application; it is never a
// process-wide singleton, so tests can instantiate isolated caches.
type Cache struct {
	mu       sync.Mutex
	capacity int64
	size     int64
	order    *list.List // front = most recently used
	entries  map[string]*list.Element
}

type cacheEntry struct {
	key  string
	data []byte
}

// NewCache builds a cache bounded to capacity bytes. A non-positive capacity
// disables retention; lookups then always miss.
func NewCache(capacity int64) *Cache {
	return &Cache{
		capacity: capacity,
		order:    list.New(),
		entries:  make(map[string]*list.Element),
	}
}

// Get returns the cached bytes for key and updates recency.
func (c *Cache) Get(key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	elem, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	c.order.MoveToFront(elem)
	return elem.Value.(*cacheEntry).data, true
}

// Put stores the bytes under key, evicting least-recently-used entries until
// the new entry fits. Entries larger than the whole capacity are not retained.
func (c *Cache) Put(key string, data []byte) {
	size := int64(len(data))
	if size == 0 || size > c.capacity {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.entries[key]; ok {
		c.size -= int64(len(elem.Value.(*cacheEntry).data))
		c.order.Remove(elem)
		delete(c.entries, key)
	}
	for c.size+size > c.capacity {
		oldest := c.order.Back()
		if oldest == nil {
			break
		}
		entry := oldest.Value.(*cacheEntry)
		c.size -= int64(len(entry.data))
		c.order.Remove(oldest)
		delete(c.entries, entry.key)
	}

	c.entries[key] = c.order.PushFront(&cacheEntry{key: key, data: data})
	c.size += size
}

// Size returns the current cached byte total.
func (c *Cache) Size() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.size
}

// Len returns the number of cached entries.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
