package remote

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/tuneup/studio/internal/core/domain"
)

type documentStore struct {
	c *Client
}

func docPath(collection, id string) string {
	if id == "" {
		return "/v1/documents/" + url.PathEscape(collection)
	}
	return "/v1/documents/" + url.PathEscape(collection) + "/" + url.PathEscape(id)
}

// address rejects an empty id before it can collapse into the
// collection path.
func address(collection, id string) (string, error) {
	if id == "" {
		return "", domain.NewValidationError("document id is required")
	}
	return docPath(collection, id), nil
}

func (s *documentStore) GetDocument(ctx context.Context, collection, id string) (*domain.Document, error) {
	path, err := address(collection, id)
	if err != nil {
		return nil, err
	}
	var doc domain.Document
	if err := s.c.do(ctx, http.MethodGet, path, nil, nil, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

func (s *documentStore) CreateDocument(ctx context.Context, collection string, data domain.Fields) (*domain.Document, error) {
	var doc domain.Document
	if err := s.c.do(ctx, http.MethodPost, docPath(collection, ""), nil, data, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

func (s *documentStore) SetDocument(ctx context.Context, collection, id string, data domain.Fields, merge bool) (*domain.Document, error) {
	path, err := address(collection, id)
	if err != nil {
		return nil, err
	}
	var query url.Values
	if merge {
		query = url.Values{"merge": []string{"true"}}
	}
	var doc domain.Document
	if err := s.c.do(ctx, http.MethodPut, path, query, data, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

func (s *documentStore) UpdateDocument(ctx context.Context, collection, id string, data domain.Fields) (*domain.Document, error) {
	path, err := address(collection, id)
	if err != nil {
		return nil, err
	}
	var doc domain.Document
	if err := s.c.do(ctx, http.MethodPatch, path, nil, data, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

func (s *documentStore) DeleteDocument(ctx context.Context, collection, id string) error {
	path, err := address(collection, id)
	if err != nil {
		return err
	}
	return s.c.do(ctx, http.MethodDelete, path, nil, nil, nil)
}

// QueryCollection sends value in its string form; the backend compares it
// against string fields.
func (s *documentStore) QueryCollection(ctx context.Context, collection, field string, value any) ([]domain.Document, error) {
	query := url.Values{"field": []string{field}, "value": []string{fmt.Sprint(value)}}
	var resp struct {
		Items []domain.Document `json:"items"`
	}
	if err := s.c.do(ctx, http.MethodGet, docPath(collection, ""), query, nil, &resp); err != nil {
		return nil, err
	}
	if resp.Items == nil {
		resp.Items = []domain.Document{}
	}
	return resp.Items, nil
}
