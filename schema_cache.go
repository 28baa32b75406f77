package jsonfields

import (
	"sync"
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultSchemaCacheSize is the number of decoded literals a SchemaCache
// keeps when no size is given.
const DefaultSchemaCacheSize = 1024

// SchemaCache provides thread-safe caching of decoded schema trees keyed by
// their literal text. Trees are immutable, so a cached tree is shared by all
// callers. The cache holds at most a fixed number of literals and evicts the
// least recently used one when full.
type SchemaCache struct {
	entries *lru.Cache[string, *SchemaCacheEntry]
}

// SchemaCacheEntry holds the decode result of a single literal.
type SchemaCacheEntry struct {
	once   sync.Once
	loaded atomic.Bool
	schema SchemaType
	err    error
}

// NewSchemaCache creates a new thread-safe schema cache holding at most
// size literals. A size <= 0 means DefaultSchemaCacheSize.
func NewSchemaCache(size int) *SchemaCache {
	if size <= 0 {
		size = DefaultSchemaCacheSize
	}
	entries, err := lru.New[string, *SchemaCacheEntry](size)
	if err != nil {
		// only reachable with a non-positive size
		panic(err)
	}
	return &SchemaCache{entries: entries}
}

// GetOrCreate returns the schema cached for literal, decoding it with factory
// if there is none. The factory is called only once per cached literal, even
// under concurrent access. Failed decodes are not kept.
func (sc *SchemaCache) GetOrCreate(literal string, factory func() (SchemaType, error)) (SchemaType, error) {
	entry, ok := sc.entries.Get(literal)
	if !ok {
		// PeekOrAdd returns the entry another goroutine stored first
		fresh := &SchemaCacheEntry{}
		if prev, exists, _ := sc.entries.PeekOrAdd(literal, fresh); exists {
			entry = prev
		} else {
			entry = fresh
		}
	}

	entry.once.Do(func() {
		entry.schema, entry.err = factory()
		entry.loaded.Store(true)
	})
	if entry.err != nil {
		if cur, ok := sc.entries.Peek(literal); ok && cur == entry {
			sc.entries.Remove(literal)
		}
		return nil, entry.err
	}
	return entry.schema, nil
}

// Get retrieves the schema cached for literal if it was decoded successfully
func (sc *SchemaCache) Get(literal string) (SchemaType, bool) {
	entry, ok := sc.entries.Get(literal)
	if !ok || !entry.loaded.Load() || entry.err != nil {
		return nil, false
	}
	return entry.schema, true
}

// Delete removes the entry for literal
func (sc *SchemaCache) Delete(literal string) {
	sc.entries.Remove(literal)
}

// Clear removes all cache entries
func (sc *SchemaCache) Clear() {
	sc.entries.Purge()
}

// Len returns the number of cached literals.
func (sc *SchemaCache) Len() int {
	return sc.entries.Len()
}
