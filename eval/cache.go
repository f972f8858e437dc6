package eval

import "github.com/jimbojw/franticsearch/ast"

// Cache memoizes NodeResult values keyed by a node's canonical cache key
// (spec §4.4, §9). It lives for the life of a CardIndex/PrintingIndex pair;
// the worker allocates a fresh Cache whenever the printings index
// transitions from absent to present, since that transition can change the
// domain (face-only vs printing) a cached subresult was computed in.
type Cache struct {
	printingsLoaded bool
	entries         map[string]*NodeResult
}

// NewCache returns an empty cache. printingsLoaded must reflect whether a
// PrintingIndex will be passed to Evaluate for the lifetime of this cache.
func NewCache(printingsLoaded bool) *Cache {
	return &Cache{printingsLoaded: printingsLoaded, entries: make(map[string]*NodeResult)}
}

func (c *Cache) key(n ast.Node) string {
	if c.printingsLoaded {
		return "p:" + ast.CacheKey(n)
	}
	return "f:" + ast.CacheKey(n)
}

func (c *Cache) get(n ast.Node) (*NodeResult, bool) {
	r, ok := c.entries[c.key(n)]
	return r, ok
}

func (c *Cache) put(n ast.Node, r *NodeResult) {
	c.entries[c.key(n)] = r
}
