package region

import (
	"path/filepath"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"
)

// regionKey identifies a region independently of the backing Cache.
type regionKey struct{ X, Y int32 }

// Cache bounds the number of simultaneously open region file handles. When
// an entry is evicted to make room for a new one, its pending header/index
// changes are flushed before the handle is closed, so callers never lose a
// write by simply running out of cache slots.
type Cache struct {
	dir    string
	log    *zap.Logger
	mu     sync.Mutex
	lru    *lru.Cache[regionKey, *File]
	closed bool
}

// NewCache creates a region handle cache rooted at dir, holding at most
// maxOpen handles at a time. log may be nil, in which case eviction-time
// flush errors are discarded.
func NewCache(dir string, maxOpen int, log *zap.Logger) (*Cache, error) {
	if log == nil {
		log = zap.NewNop()
	}
	c := &Cache{dir: dir, log: log}
	evictFn := func(key regionKey, f *File) {
		if err := f.Close(); err != nil {
			c.log.Warn("region cache: flush on eviction failed",
				zap.Int32("regionX", key.X), zap.Int32("regionY", key.Y), zap.Error(err))
		}
	}
	inner, err := lru.NewWithEvict(maxOpen, evictFn)
	if err != nil {
		return nil, err
	}
	c.lru = inner
	return c, nil
}

// Get returns the open handle for the region containing (chunkX, chunkY),
// opening it if necessary.
func (c *Cache) Get(chunkX, chunkY int32) (*File, error) {
	rx, ry := WorldChunkToRegion(chunkX, chunkY)
	key := regionKey{X: rx, Y: ry}

	c.mu.Lock()
	defer c.mu.Unlock()

	if f, ok := c.lru.Get(key); ok {
		return f, nil
	}

	path := filepath.Join(c.dir, FileName(rx, ry))
	f, err := Open(path, rx, ry)
	if err != nil {
		return nil, err
	}
	c.lru.Add(key, f)
	return f, nil
}

// ReadChunk is a convenience wrapper resolving the owning region and
// delegating to File.ReadChunk.
func (c *Cache) ReadChunk(chunkX, chunkY int32) ([]uint32, error) {
	f, err := c.Get(chunkX, chunkY)
	if err != nil {
		return nil, err
	}
	return f.ReadChunk(chunkX, chunkY)
}

// WriteChunk is a convenience wrapper resolving the owning region and
// delegating to File.WriteChunk. The handle is left dirty; callers that
// need durability before returning should call Flush.
func (c *Cache) WriteChunk(chunkX, chunkY int32, blockIDs []uint32) error {
	f, err := c.Get(chunkX, chunkY)
	if err != nil {
		return err
	}
	return f.WriteChunk(chunkX, chunkY, blockIDs)
}

// Flush flushes every currently cached handle without evicting it.
func (c *Cache) Flush() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var firstErr error
	for _, key := range c.lru.Keys() {
		f, ok := c.lru.Peek(key)
		if !ok {
			continue
		}
		if err := f.Flush(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// Close flushes and closes every cached handle. Closing happens through the
// same eviction callback Purge drives, so a handle is never closed twice.
func (c *Cache) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}
	c.closed = true
	c.lru.Purge()
	return nil
}
