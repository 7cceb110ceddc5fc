package state

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/tuneup/studio/internal/core/domain"
	"github.com/tuneup/studio/internal/core/ports"
	"github.com/tuneup/studio/internal/core/service"
	"github.com/tuneup/studio/internal/infrastructure/local"
	"github.com/tuneup/studio/internal/infrastructure/memory"
)

// countingDocs wraps a real store, counts calls and can fail profile writes.
type countingDocs struct {
	ports.DocumentStore

	mu       sync.Mutex
	calls    int
	failSets error
}

func (d *countingDocs) count() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.calls++
}

func (d *countingDocs) Calls() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.calls
}

func (d *countingDocs) GetDocument(ctx context.Context, collection, id string) (*domain.Document, error) {
	d.count()
	return d.DocumentStore.GetDocument(ctx, collection, id)
}

func (d *countingDocs) CreateDocument(ctx context.Context, collection string, data domain.Fields) (*domain.Document, error) {
	d.count()
	return d.DocumentStore.CreateDocument(ctx, collection, data)
}

func (d *countingDocs) SetDocument(ctx context.Context, collection, id string, data domain.Fields, merge bool) (*domain.Document, error) {
	d.count()
	if d.failSets != nil {
		return nil, d.failSets
	}
	return d.DocumentStore.SetDocument(ctx, collection, id, data, merge)
}

func (d *countingDocs) UpdateDocument(ctx context.Context, collection, id string, data domain.Fields) (*domain.Document, error) {
	d.count()
	return d.DocumentStore.UpdateDocument(ctx, collection, id, data)
}

func (d *countingDocs) DeleteDocument(ctx context.Context, collection, id string) error {
	d.count()
	return d.DocumentStore.DeleteDocument(ctx, collection, id)
}

func (d *countingDocs) QueryCollection(ctx context.Context, collection, field string, value any) ([]domain.Document, error) {
	d.count()
	return d.DocumentStore.QueryCollection(ctx, collection, field, value)
}

type fixture struct {
	studio  *Studio
	backend *local.Backend
	docs    *countingDocs
}

func newFixture(t *testing.T, opts Options) *fixture {
	t.Helper()
	identities := service.NewIdentityService(
		memory.NewIdentityRepository(), memory.NewSessionRevoker(), nil, "secret", time.Hour, zerolog.Nop())
	backend := local.NewBackend(identities, service.NewDocumentService(memory.NewDocumentRepository()))
	docs := &countingDocs{DocumentStore: backend.Documents()}
	opts.Log = zerolog.Nop()
	return &fixture{
		studio:  New(Backend{Identities: backend.Identities(), Documents: docs}, opts),
		backend: backend,
		docs:    docs,
	}
}

// signedInTeacher signs up a teacher and returns their uid.
func (f *fixture) signedInTeacher(t *testing.T) string {
	t.Helper()
	user, err := f.studio.Auth.Signup(context.Background(), "teacher@studio.test", "secret1", domain.RoleTeacher, "Ann")
	if err != nil {
		t.Fatalf("signup: %v", err)
	}
	return user.UID
}

// gatedQuery is one QueryCollection call held until the test releases it.
type gatedQuery struct {
	value   any
	release chan []domain.Document
}

// gatedDocs answers queries only when the test says so, in any order.
type gatedDocs struct {
	ports.DocumentStore
	queries chan gatedQuery
}

func newGatedDocs() *gatedDocs {
	return &gatedDocs{queries: make(chan gatedQuery)}
}

func (d *gatedDocs) QueryCollection(ctx context.Context, _, _ string, value any) ([]domain.Document, error) {
	q := gatedQuery{value: value, release: make(chan []domain.Document)}
	d.queries <- q
	select {
	case docs := <-q.release:
		return docs, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (d *gatedDocs) next(t *testing.T) gatedQuery {
	t.Helper()
	select {
	case q := <-d.queries:
		return q
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for a query")
	}
	return gatedQuery{}
}

func isValidation(err error) bool {
	var ve *domain.ValidationError
	return errors.As(err, &ve)
}

func lessonDoc(id, title string, seconds int64) domain.Document {
	return domain.Document{ID: id, Data: map[string]any{
		"title":     title,
		"userId":    "owner",
		"createdAt": domain.Timestamp{Seconds: seconds},
	}}
}

func ids[T record](items []T) []string {
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = item.RecordID()
	}
	return out
}

// staticDocs answers every query with the same documents, in order.
type staticDocs struct {
	ports.DocumentStore
	docs []domain.Document
}

func (d staticDocs) QueryCollection(context.Context, string, string, any) ([]domain.Document, error) {
	return d.docs, nil
}
