package schemaloc

import (
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/cyrhla/loader/loaderrors"
)

// DefaultCacheSize is the number of schemas NewCache keeps when size is 0.
const DefaultCacheSize = 64

// Cache keeps fetched schema bodies by URL. It is safe for concurrent use
// and may be shared between resolvers.
type Cache struct {
	entries *lru.Cache[string, []byte]
}

// NewCache returns a cache holding at most size schemas.
func NewCache(size int) (*Cache, error) {
	if size == 0 {
		size = DefaultCacheSize
	}
	if size < 0 {
		return nil, &loaderrors.ConfigError{Option: "schema cache size", Value: size, Message: "must not be negative"}
	}
	entries, err := lru.New[string, []byte](size)
	if err != nil {
		return nil, &loaderrors.ConfigError{Option: "schema cache size", Value: size, Message: err.Error()}
	}
	return &Cache{entries: entries}, nil
}

// Get returns the body cached for url.
func (c *Cache) Get(url string) ([]byte, bool) {
	if c == nil {
		return nil, false
	}
	return c.entries.Get(url)
}

// Add stores the body fetched from url.
func (c *Cache) Add(url string, data []byte) {
	if c == nil {
		return
	}
	c.entries.Add(url, data)
}

// Len returns the number of cached schemas.
func (c *Cache) Len() int {
	if c == nil {
		return 0
	}
	return c.entries.Len()
}
