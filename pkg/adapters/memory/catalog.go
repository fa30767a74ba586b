package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/oolestudio/tamashi/pkg/domain"
)

// Catalog implements ports.Catalog over tutorials held in memory.
type Catalog struct {
	mu        sync.RWMutex
	tutorials map[string]domain.Tutorial
}

// NewCatalog creates a catalog holding the given tutorials. A later tutorial
// with the same ID replaces an earlier one.
func NewCatalog(tutorials ...domain.Tutorial) *Catalog {
	c := &Catalog{tutorials: make(map[string]domain.Tutorial, len(tutorials))}
	for _, t := range tutorials {
		c.tutorials[t.ID] = clone(t)
	}
	return c
}

// Put adds or replaces a tutorial.
func (c *Catalog) Put(t domain.Tutorial) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tutorials[t.ID] = clone(t)
}

func (c *Catalog) Get(ctx context.Context, id string) (domain.Tutorial, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	t, ok := c.tutorials[id]
	if !ok {
		return domain.Tutorial{}, fmt.Errorf("%w: %s", domain.ErrTutorialNotFound, id)
	}
	return clone(t), nil
}

func (c *Catalog) List(ctx context.Context) ([]string, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	ids := make([]string, 0, len(c.tutorials))
	for id := range c.tutorials {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

func clone(t domain.Tutorial) domain.Tutorial {
	t.Steps = append([]domain.Step(nil), t.Steps...)
	return t
}
