package service

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/tuneup/studio/internal/core/domain"
	"github.com/tuneup/studio/internal/core/ports"
)

var (
	collectionName = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_-]{0,63}$`)
	fieldName      = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]{0,127}$`)
)

// ReservedPrefix marks collections owned by the backend itself, such as the
// identity store. They are never reachable through the document API.
const ReservedPrefix = "auth_"

func validCollection(name string) bool {
	return collectionName.MatchString(name) && !strings.HasPrefix(strings.ToLower(name), ReservedPrefix)
}

// ValidFieldName reports whether name can be used as a query field or a top
// level document key: an identifier, so it can never be read as an operator
// or a path.
func ValidFieldName(name string) bool {
	return fieldName.MatchString(name)
}

// DocumentService implements ports.DocumentStore on top of a repository. It
// owns the server clock: timestamp markers are resolved here, and every
// time value leaving the service is normalized to domain.Timestamp.
type DocumentService struct {
	repo ports.DocumentRepository
	now  func() time.Time
}

func NewDocumentService(repo ports.DocumentRepository) *DocumentService {
	return &DocumentService{repo: repo, now: func() time.Time { return time.Now().UTC() }}
}

var _ ports.DocumentStore = (*DocumentService)(nil)

func (s *DocumentService) GetDocument(ctx context.Context, collection, id string) (*domain.Document, error) {
	if err := checkAddress(collection, id); err != nil {
		return nil, err
	}
	doc, err := s.repo.Find(ctx, collection, id)
	if err != nil {
		return nil, fmt.Errorf("get %s/%s: %w", collection, id, err)
	}
	return normalizeDocument(doc), nil
}

func (s *DocumentService) CreateDocument(ctx context.Context, collection string, data domain.Fields) (*domain.Document, error) {
	if !validCollection(collection) {
		return nil, fmt.Errorf("create %q: %w", collection, domain.ErrInvalidCollection)
	}
	if err := checkFields(data); err != nil {
		return nil, err
	}
	doc, err := s.repo.Insert(ctx, collection, s.resolve(data))
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", collection, err)
	}
	return normalizeDocument(doc), nil
}

func (s *DocumentService) SetDocument(ctx context.Context, collection, id string, data domain.Fields, merge bool) (*domain.Document, error) {
	if err := checkAddress(collection, id); err != nil {
		return nil, err
	}
	if err := checkFields(data); err != nil {
		return nil, err
	}

	var (
		doc *domain.Document
		err error
	)
	if merge {
		doc, err = s.repo.Merge(ctx, collection, id, s.resolve(data), true)
	} else {
		doc, err = s.repo.Replace(ctx, collection, id, s.resolve(data))
	}
	if err != nil {
		return nil, fmt.Errorf("set %s/%s: %w", collection, id, err)
	}
	return normalizeDocument(doc), nil
}

func (s *DocumentService) UpdateDocument(ctx context.Context, collection, id string, data domain.Fields) (*domain.Document, error) {
	if err := checkAddress(collection, id); err != nil {
		return nil, err
	}
	if err := checkFields(data); err != nil {
		return nil, err
	}
	doc, err := s.repo.Merge(ctx, collection, id, s.resolve(data), false)
	if err != nil {
		return nil, fmt.Errorf("update %s/%s: %w", collection, id, err)
	}
	return normalizeDocument(doc), nil
}

func (s *DocumentService) DeleteDocument(ctx context.Context, collection, id string) error {
	if err := checkAddress(collection, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, collection, id); err != nil {
		return fmt.Errorf("delete %s/%s: %w", collection, id, err)
	}
	return nil
}

func (s *DocumentService) QueryCollection(ctx context.Context, collection, field string, value any) ([]domain.Document, error) {
	if !validCollection(collection) {
		return nil, fmt.Errorf("query %q: %w", collection, domain.ErrInvalidCollection)
	}
	if field == "" {
		return nil, domain.NewValidationError("query field is required")
	}
	if !ValidFieldName(field) {
		return nil, domain.NewValidationError("invalid query field: %q", field)
	}
	docs, err := s.repo.FindBy(ctx, collection, field, value)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", collection, err)
	}
	for i := range docs {
		docs[i] = *normalizeDocument(&docs[i])
	}
	return docs, nil
}

func checkAddress(collection, id string) error {
	if !validCollection(collection) {
		return fmt.Errorf("%q: %w", collection, domain.ErrInvalidCollection)
	}
	if id == "" {
		return domain.NewValidationError("document id is required")
	}
	return nil
}

func checkFields(data domain.Fields) error {
	for k := range data {
		if k != "id" && !ValidFieldName(k) {
			return domain.NewValidationError("invalid field name: %q", k)
		}
	}
	return nil
}

// resolve copies data, replacing every timestamp marker with one reading of
// the server clock so that fields written together compare equal. The clock
// is cut to milliseconds, the precision storage keeps.
func (s *DocumentService) resolve(data domain.Fields) domain.Fields {
	return resolveMap(data, s.now().Truncate(time.Millisecond))
}

func resolveMap(data map[string]any, now time.Time) domain.Fields {
	out := make(domain.Fields, len(data))
	for k, v := range data {
		if domain.IsServerTimestamp(v) {
			out[k] = now
			continue
		}
		switch nested := v.(type) {
		case domain.Fields:
			out[k] = resolveMap(nested, now)
		case map[string]any:
			out[k] = map[string]any(resolveMap(nested, now))
		default:
			out[k] = v
		}
	}
	return out
}

func normalizeDocument(doc *domain.Document) *domain.Document {
	if doc == nil {
		return nil
	}
	return &domain.Document{ID: doc.ID, Data: normalizeMap(doc.Data)}
}

func normalizeMap(data map[string]any) map[string]any {
	out := make(map[string]any, len(data))
	for k, v := range data {
		switch t := v.(type) {
		case time.Time:
			out[k] = domain.NewTimestamp(t)
		case map[string]any:
			if ts, ok := domain.ParseTimestamp(t); ok {
				out[k] = ts
				continue
			}
			out[k] = normalizeMap(t)
		default:
			out[k] = v
		}
	}
	return out
}
