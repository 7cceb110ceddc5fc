// Package memory holds process-local repositories used by tests and by the
// studio CLI's offline mode.
package memory

import (
	"context"
	"reflect"
	"sync"

	"github.com/google/uuid"

	"github.com/tuneup/studio/internal/core/domain"
	"github.com/tuneup/studio/internal/core/ports"
)

type collection struct {
	order []string
	docs  map[string]map[string]any
}

// DocumentRepository is a ports.DocumentRepository kept in memory. Queries
// return documents in insertion order.
type DocumentRepository struct {
	mu          sync.RWMutex
	collections map[string]*collection
}

func NewDocumentRepository() *DocumentRepository {
	return &DocumentRepository{collections: make(map[string]*collection)}
}

var _ ports.DocumentRepository = (*DocumentRepository)(nil)

func (r *DocumentRepository) coll(name string) *collection {
	c, ok := r.collections[name]
	if !ok {
		c = &collection{docs: make(map[string]map[string]any)}
		r.collections[name] = c
	}
	return c
}

func (r *DocumentRepository) Find(_ context.Context, name, id string) (*domain.Document, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.collections[name]
	if !ok {
		return nil, domain.ErrDocumentNotFound
	}
	data, ok := c.docs[id]
	if !ok {
		return nil, domain.ErrDocumentNotFound
	}
	return &domain.Document{ID: id, Data: copyMap(data)}, nil
}

func (r *DocumentRepository) Insert(_ context.Context, name string, data domain.Fields) (*domain.Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := uuid.NewString()
	r.put(r.coll(name), id, copyMap(data))
	return &domain.Document{ID: id, Data: copyMap(data)}, nil
}

func (r *DocumentRepository) Replace(_ context.Context, name, id string, data domain.Fields) (*domain.Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.put(r.coll(name), id, copyMap(data))
	return &domain.Document{ID: id, Data: copyMap(data)}, nil
}

func (r *DocumentRepository) Merge(_ context.Context, name, id string, data domain.Fields, upsert bool) (*domain.Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c := r.coll(name)
	current, ok := c.docs[id]
	if !ok {
		if !upsert {
			return nil, domain.ErrDocumentNotFound
		}
		current = make(map[string]any, len(data))
	}
	for k, v := range data {
		current[k] = copyValue(v)
	}
	r.put(c, id, current)
	return &domain.Document{ID: id, Data: copyMap(current)}, nil
}

func (r *DocumentRepository) Delete(_ context.Context, name, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.collections[name]
	if !ok {
		return nil
	}
	if _, ok := c.docs[id]; !ok {
		return nil
	}
	delete(c.docs, id)
	for i, existing := range c.order {
		if existing == id {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	return nil
}

func (r *DocumentRepository) FindBy(_ context.Context, name, field string, value any) ([]domain.Document, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.collections[name]
	if !ok {
		return []domain.Document{}, nil
	}
	out := make([]domain.Document, 0)
	for _, id := range c.order {
		data := c.docs[id]
		if v, ok := data[field]; ok && reflect.DeepEqual(v, value) {
			out = append(out, domain.Document{ID: id, Data: copyMap(data)})
		}
	}
	return out, nil
}

func (r *DocumentRepository) put(c *collection, id string, data map[string]any) {
	if _, exists := c.docs[id]; !exists {
		c.order = append(c.order, id)
	}
	c.docs[id] = data
}

func copyMap(in map[string]any) map[string]any {
	out := make(map[string]any, len(in))
	for k, v := range in {
		out[k] = copyValue(v)
	}
	return out
}

func copyValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return copyMap(t)
	case domain.Fields:
		return copyMap(t)
	case []any:
		out := make([]any, len(t))
		for i := range t {
			out[i] = copyValue(t[i])
		}
		return out
	}
	return v
}
