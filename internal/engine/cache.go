package engine

import (
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/rovshanmuradov/simward/internal/equilibrium"
)

// Cache memoizes engine results by parameter identity. Entries are copied on
// the way in and out, so callers never share slices or pointers with it.
type Cache struct {
	curves     map[string]CurveResult
	equilibria map[string]equilibrium.Result
	mu         sync.RWMutex
	logger     *zap.Logger

	// Statistics (accessed atomically)
	hits   uint64
	misses uint64
}

// NewCache creates an empty result cache
func NewCache(logger *zap.Logger) *Cache {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Cache{
		curves:     make(map[string]CurveResult),
		equilibria: make(map[string]equilibrium.Result),
		logger:     logger,
	}
}

// GetCurve returns a copy of a cached curve
func (c *Cache) GetCurve(key string) (CurveResult, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	res, ok := c.curves[key]
	c.count(ok)
	if !ok {
		return CurveResult{}, false
	}
	return res.Clone(), true
}

// SetCurve stores a curve under key
func (c *Cache) SetCurve(key string, res CurveResult) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.curves[key] = res.Clone()
}

// GetEquilibrium returns a copy of a cached simulation result
func (c *Cache) GetEquilibrium(key string) (equilibrium.Result, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	res, ok := c.equilibria[key]
	c.count(ok)
	if !ok {
		return equilibrium.Result{}, false
	}
	return res.Clone(), true
}

// SetEquilibrium stores a simulation result under key
func (c *Cache) SetEquilibrium(key string, res equilibrium.Result) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.equilibria[key] = res.Clone()
}

// GetStats returns cache statistics
func (c *Cache) GetStats() (entries, hits, misses uint64) {
	c.mu.RLock()
	entries = uint64(len(c.curves) + len(c.equilibria))
	c.mu.RUnlock()

	hits = atomic.LoadUint64(&c.hits)
	misses = atomic.LoadUint64(&c.misses)
	return entries, hits, misses
}

// LogStats logs cache statistics
func (c *Cache) LogStats() {
	entries, hits, misses := c.GetStats()
	c.logger.Debug("Result cache statistics",
		zap.Uint64("entries", entries),
		zap.Uint64("hits", hits),
		zap.Uint64("misses", misses))
}

func (c *Cache) count(hit bool) {
	if hit {
		atomic.AddUint64(&c.hits, 1)
		return
	}
	atomic.AddUint64(&c.misses, 1)
}
