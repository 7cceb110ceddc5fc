package state

import (
	"context"
	"errors"
	"slices"

	"github.com/rs/zerolog"

	"github.com/tuneup/studio/internal/core/domain"
	"github.com/tuneup/studio/internal/core/ports"
)

type record interface {
	RecordID() string
	Created() *domain.Timestamp
}

// collection is the engine shared by the document-backed slices: it runs one
// remote call per operation and applies the matching reducer. Sequence
// counters are only touched inside store.update.
type collection[T record] struct {
	name     string
	store    *Store
	docs     ports.DocumentStore
	sub      func(*State) *CollectionState[T]
	ordering FetchOrdering
	log      zerolog.Logger

	issued  uint64
	applied uint64
}

func newCollection[T record](name string, store *Store, docs ports.DocumentStore, sub func(*State) *CollectionState[T], opts Options) *collection[T] {
	return &collection[T]{
		name:     name,
		store:    store,
		docs:     docs,
		sub:      sub,
		ordering: opts.FetchOrdering,
		log:      opts.Log.With().Str("slice", name).Logger(),
	}
}

// pending marks the slice loading and returns the operation's sequence number.
func (c *collection[T]) pending() uint64 {
	var seq uint64
	c.store.update(func(s *State) bool {
		c.issued++
		seq = c.issued
		cs := c.sub(s)
		cs.Loading = true
		cs.Error = ""
		return true
	})
	return seq
}

// fail records err on the slice and returns it. Backend failures are wrapped
// in domain.BackendError with their message unchanged.
func (c *collection[T]) fail(op string, err error) error {
	err = asBackendError(op, err)
	c.log.Error().Err(err).Str("op", op).Msg("operation failed")
	c.store.update(func(s *State) bool {
		cs := c.sub(s)
		cs.Loading = false
		cs.Error = err.Error()
		return true
	})
	return err
}

// settle clears the loading flag and applies reduce to the cached items.
func (c *collection[T]) settle(reduce func([]T) []T) {
	c.store.update(func(s *State) bool {
		cs := c.sub(s)
		cs.Loading = false
		cs.Error = ""
		cs.Items = reduce(cs.Items)
		return true
	})
}

// settleFetch replaces the cache with items unless, under FetchIssue, a
// newer fetch has already been applied. It reports whether items were applied.
func (c *collection[T]) settleFetch(seq uint64, items []T) bool {
	applied := true
	c.store.update(func(s *State) bool {
		if c.ordering == FetchIssue && seq < c.applied {
			applied = false
			return false
		}
		c.applied = seq
		cs := c.sub(s)
		cs.Loading = false
		cs.Error = ""
		cs.Items = replaceAll(items)
		return true
	})
	if !applied {
		c.log.Debug().Uint64("seq", seq).Msg("stale fetch discarded")
	}
	return applied
}

// failFetch is fail for fetches: a stale failure under FetchIssue is dropped
// from the slice but still returned to the caller.
func (c *collection[T]) failFetch(seq uint64, op string, err error) error {
	err = asBackendError(op, err)
	stale := false
	c.store.update(func(s *State) bool {
		if c.ordering == FetchIssue && seq < c.applied {
			stale = true
			return false
		}
		cs := c.sub(s)
		cs.Loading = false
		cs.Error = err.Error()
		return true
	})
	if stale {
		c.log.Debug().Err(err).Uint64("seq", seq).Msg("stale fetch failure discarded")
	} else {
		c.log.Error().Err(err).Str("op", op).Msg("operation failed")
	}
	return err
}

func (c *collection[T]) clearError() {
	c.store.update(func(s *State) bool {
		cs := c.sub(s)
		if cs.Error == "" {
			return false
		}
		cs.Error = ""
		return true
	})
}

func (c *collection[T]) clear() {
	c.store.update(func(s *State) bool {
		*c.sub(s) = CollectionState[T]{}
		return true
	})
}

// create writes a new document and prepends it.
func (c *collection[T]) create(ctx context.Context, data domain.Fields) (T, error) {
	var zero T
	doc, err := c.docs.CreateDocument(ctx, c.name, data)
	if err != nil {
		return zero, c.fail("create", err)
	}
	item, err := decodeDocument[T](*doc)
	if err != nil {
		return zero, c.fail("create", err)
	}
	c.settle(func(items []T) []T { return prepend(items, item) })
	return item, nil
}

// fetch queries field == value for each value and replaces the cache with the
// union, newest first. Queries run in order and the first failure wins.
func (c *collection[T]) fetch(ctx context.Context, seq uint64, field string, values ...string) ([]T, error) {
	var all []T
	for _, value := range values {
		docs, err := c.docs.QueryCollection(ctx, c.name, field, value)
		if err != nil {
			return nil, c.failFetch(seq, "fetch", err)
		}
		items, err := decodeDocuments[T](docs)
		if err != nil {
			return nil, c.failFetch(seq, "fetch", err)
		}
		all = append(all, items...)
	}
	if all == nil {
		all = []T{}
	}
	domain.SortNewestFirst(all, func(item T) *domain.Timestamp { return item.Created() })
	c.settleFetch(seq, all)
	return all, nil
}

// update merges data into the stored document and replaces the cached entry
// in place with the stored result.
func (c *collection[T]) update(ctx context.Context, id string, data domain.Fields) (T, error) {
	var zero T
	doc, err := c.docs.UpdateDocument(ctx, c.name, id, data)
	if err != nil {
		return zero, c.fail("update", err)
	}
	item, err := decodeDocument[T](*doc)
	if err != nil {
		return zero, c.fail("update", err)
	}
	c.settle(func(items []T) []T { return replaceByID(items, item) })
	return item, nil
}

// remove deletes the document and drops the cached entry.
func (c *collection[T]) remove(ctx context.Context, id string) (string, error) {
	if err := c.docs.DeleteDocument(ctx, c.name, id); err != nil {
		return "", c.fail("delete", err)
	}
	c.settle(func(items []T) []T { return removeByID(items, id) })
	return id, nil
}

// reducers

func prepend[T any](items []T, item T) []T {
	out := make([]T, 0, len(items)+1)
	out = append(out, item)
	return append(out, items...)
}

func replaceAll[T any](items []T) []T {
	return slices.Clone(items)
}

func replaceByID[T record](items []T, item T) []T {
	out := slices.Clone(items)
	for i := range out {
		if out[i].RecordID() == item.RecordID() {
			out[i] = item
			break
		}
	}
	return out
}

func removeByID[T record](items []T, id string) []T {
	return slices.DeleteFunc(slices.Clone(items), func(item T) bool { return item.RecordID() == id })
}

// asBackendError leaves validation failures and already wrapped errors alone.
func asBackendError(op string, err error) error {
	var ve *domain.ValidationError
	var be *domain.BackendError
	var me *domain.MappedAuthError
	if errors.As(err, &ve) || errors.As(err, &be) || errors.As(err, &me) {
		return err
	}
	return &domain.BackendError{Op: op, Err: err}
}
