package cache

import (
	"context"
	"sync"
	"time"
)

// Cache es un key/value con TTL. Get devuelve ok=false si la key no existe o expiró.
type Cache interface {
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

type memoryItem struct {
	value     []byte
	expiresAt time.Time
}

// sweepInterval acota cada cuánto Set recorre el mapa buscando expirados.
const sweepInterval = time.Minute

// MemoryCache es un Cache en proceso. Las entradas expiradas se limpian al
// leerlas y en barridos periódicos desde Set.
type MemoryCache struct {
	mu        sync.Mutex
	items     map[string]memoryItem
	now       func() time.Time
	nextSweep time.Time
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{
		items: make(map[string]memoryItem),
		now:   time.Now,
	}
}

func (c *MemoryCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	it, ok := c.items[key]
	if !ok {
		return nil, false, nil
	}
	if !it.expiresAt.IsZero() && !c.now().Before(it.expiresAt) {
		delete(c.items, key)
		return nil, false, nil
	}
	return append([]byte(nil), it.value...), true, nil
}

func (c *MemoryCache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	if !now.Before(c.nextSweep) {
		c.sweep(now)
		c.nextSweep = now.Add(sweepInterval)
	}

	it := memoryItem{value: append([]byte(nil), value...)}
	if ttl > 0 {
		it.expiresAt = now.Add(ttl)
	}
	c.items[key] = it
	return nil
}

// Len devuelve la cantidad de entradas guardadas, expiradas incluidas.
func (c *MemoryCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// sweep borra las entradas vencidas. Requiere c.mu tomado.
func (c *MemoryCache) sweep(now time.Time) {
	for k, it := range c.items {
		if !it.expiresAt.IsZero() && !now.Before(it.expiresAt) {
			delete(c.items, k)
		}
	}
}
