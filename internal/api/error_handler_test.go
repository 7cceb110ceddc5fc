package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/tuneup/studio/internal/core/domain"
)

func TestHTTPErrorHandler_Mapping(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		msg    string
		code   string
	}{
		{"auth wrong password", domain.NewAuthError(domain.CodeWrongPassword, "bad password"), http.StatusUnauthorized, "bad password", domain.CodeWrongPassword},
		{"auth in use", fmt.Errorf("wrapped: %w", domain.NewAuthError(domain.CodeEmailAlreadyInUse, "in use")), http.StatusConflict, "in use", domain.CodeEmailAlreadyInUse},
		{"auth recent login", domain.NewAuthError(domain.CodeRequiresRecentLogin, "sensitive"), http.StatusForbidden, "sensitive", domain.CodeRequiresRecentLogin},
		{"document missing", fmt.Errorf("get Lesson/x: %w", domain.ErrDocumentNotFound), http.StatusNotFound, "document not found", ""},
		{"validation", domain.NewValidationError("document id is required"), http.StatusBadRequest, "document id is required", ""},
		{"bad collection", domain.ErrInvalidCollection, http.StatusBadRequest, "invalid collection name", ""},
		{"unauthenticated", fmt.Errorf("authenticate: %w", domain.ErrUnauthenticated), http.StatusUnauthorized, "unauthenticated", ""},
		{"forbidden", domain.ErrForbidden, http.StatusForbidden, "access forbidden", ""},
		{"echo error", echo.NewHTTPError(http.StatusUnprocessableEntity, "field is required"), http.StatusUnprocessableEntity, "field is required", ""},
		{"unexpected", errors.New("mongo exploded"), http.StatusInternalServerError, "internal server error", ""},
	}

	handle := NewHTTPErrorHandler(zerolog.Nop())
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := echo.New()
			rec := httptest.NewRecorder()
			c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

			handle(tc.err, c)

			if rec.Code != tc.status {
				t.Fatalf("expected %d, got %d", tc.status, rec.Code)
			}
			var resp map[string]string
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("invalid json: %v", err)
			}
			if resp["error"] != tc.msg || resp["code"] != tc.code {
				t.Fatalf("unexpected body: %+v", resp)
			}
		})
	}
}
