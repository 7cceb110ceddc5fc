package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/tuneup/studio/internal/api/handler"
	"github.com/tuneup/studio/internal/core/domain"
)

// DocumentReader loads the current version of a document.
type DocumentReader interface {
	GetDocument(ctx context.Context, collection, id string) (*domain.Document, error)
}

// Provisioners tells which account provisioned an identity, if any.
type Provisioners interface {
	ProvisionedBy(ctx context.Context, uid string) (string, error)
}

// Ownership gates document writes to the accounts a document names. It must
// run after Auth. Reads are not gated.
//
//   - POST: the new fields must name the caller in an owner field.
//   - PUT, PATCH, DELETE on an existing document: the stored document must
//     belong to the caller, and the write may not hand an owner field to a
//     third account. A replacing PUT must still name the caller.
//   - PUT on a missing document: a profile may be written by its own account
//     or by the teacher that provisioned it; anything else must name the
//     caller. PATCH and DELETE fall through to the handler.
func Ownership(docs DocumentReader, ids Provisioners) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			method := c.Request().Method
			if method == http.MethodGet || method == http.MethodHead {
				return next(c)
			}

			uid, _ := c.Get(handler.CtxUID).(string)
			if uid == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
			}

			body, err := peekFields(c)
			if err != nil {
				// Malformed bodies are the handler's to report.
				return next(c)
			}

			collection, id := c.Param("collection"), c.Param("id")
			if method == http.MethodPost {
				if !domain.OwnedBy("", body, uid) {
					return domain.ErrForbidden
				}
				return next(c)
			}

			existing, err := docs.GetDocument(c.Request().Context(), collection, id)
			switch {
			case errors.Is(err, domain.ErrDocumentNotFound):
				if method != http.MethodPut {
					return next(c)
				}
				ok, err := mayCreate(c.Request().Context(), ids, collection, id, body, uid)
				if err != nil {
					return err
				}
				if !ok {
					return domain.ErrForbidden
				}
				return next(c)
			case err != nil:
				var ve *domain.ValidationError
				if errors.Is(err, domain.ErrInvalidCollection) || errors.As(err, &ve) {
					return next(c)
				}
				return err
			}

			if !domain.OwnedBy(existing.ID, existing.Data, uid) || domain.HandsOver(existing.Data, body, uid) {
				return domain.ErrForbidden
			}
			if method == http.MethodPut && !merging(c) && !domain.OwnedBy(id, body, uid) {
				return domain.ErrForbidden
			}
			return next(c)
		}
	}
}

func mayCreate(ctx context.Context, ids Provisioners, collection, id string, body map[string]any, uid string) (bool, error) {
	if collection != domain.CollectionUsers {
		return domain.OwnedBy(id, body, uid), nil
	}
	if id == uid {
		return true, nil
	}
	by, err := ids.ProvisionedBy(ctx, id)
	if err != nil {
		return false, err
	}
	return by == uid, nil
}

func merging(c echo.Context) bool {
	merge, _ := strconv.ParseBool(c.QueryParam("merge"))
	return merge
}

// peekFields decodes the JSON body and puts it back for the handler.
func peekFields(c echo.Context) (map[string]any, error) {
	req := c.Request()
	if req.Body == nil || req.Body == http.NoBody {
		return map[string]any{}, nil
	}
	raw, err := io.ReadAll(req.Body)
	if err != nil {
		return nil, err
	}
	_ = req.Body.Close()
	req.Body = io.NopCloser(bytes.NewReader(raw))

	fields := map[string]any{}
	if len(bytes.TrimSpace(raw)) == 0 {
		return fields, nil
	}
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, err
	}
	return fields, nil
}
