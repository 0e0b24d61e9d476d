package memstore

import (
	"context"
	"sync"

	"roombook/internal/domain/resource"
	"roombook/internal/infra"

	"github.com/google/uuid"
)

// Catalog is an in-memory resource catalog. The real catalog is owned by an
// external collaborator; this one is seeded at startup and read-only after.
type Catalog struct {
	mu    sync.RWMutex
	byID  map[uuid.UUID]*resource.Resource
	order []uuid.UUID
}

func NewCatalog(resources ...*resource.Resource) *Catalog {
	c := &Catalog{byID: make(map[uuid.UUID]*resource.Resource)}
	for _, r := range resources {
		c.Add(r)
	}
	return c
}

func (c *Catalog) Add(r *resource.Resource) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.byID[r.ID()]; !ok {
		c.order = append(c.order, r.ID())
	}
	c.byID[r.ID()] = r
}

func (c *Catalog) FindByID(_ context.Context, id uuid.UUID) (*resource.Resource, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	r, ok := c.byID[id]
	if !ok {
		return nil, infra.WrapRepoErr("resource not found", nil, infra.KindNotFound)
	}
	return r, nil
}

func (c *Catalog) List(_ context.Context) ([]*resource.Resource, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]*resource.Resource, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.byID[id])
	}
	return out, nil
}
