package ports

import (
	"context"

	"github.com/tuneup/studio/internal/core/domain"
)

// DocumentRepository persists schemaless documents. Data passed in is final:
// server timestamp markers have already been resolved by the caller.
type DocumentRepository interface {
	Find(ctx context.Context, collection, id string) (*domain.Document, error)
	Insert(ctx context.Context, collection string, data domain.Fields) (*domain.Document, error)
	// Replace overwrites the whole document, creating it when absent.
	Replace(ctx context.Context, collection, id string, data domain.Fields) (*domain.Document, error)
	// Merge sets the given fields. With upsert=false a missing document
	// yields domain.ErrDocumentNotFound.
	Merge(ctx context.Context, collection, id string, data domain.Fields, upsert bool) (*domain.Document, error)
	Delete(ctx context.Context, collection, id string) error
	FindBy(ctx context.Context, collection, field string, value any) ([]domain.Document, error)
}
