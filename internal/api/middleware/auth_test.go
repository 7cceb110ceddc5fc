package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/tuneup/studio/internal/core/domain"
	"github.com/tuneup/studio/internal/core/service"
)

type stubAuthenticator struct {
	claims *service.TokenClaims
	err    error
	token  string
}

func (s *stubAuthenticator) Authenticate(_ context.Context, token string) (*service.TokenClaims, error) {
	s.token = token
	return s.claims, s.err
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	e := echo.New()
	stub := &stubAuthenticator{claims: &service.TokenClaims{UID: "u1", Email: "a@b.co", TokenID: "j1"}}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer signed-token")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	called := false
	handler := Auth(stub)(func(c echo.Context) error {
		called = true
		if c.Get("uid") != "u1" {
			t.Fatalf("uid not set")
		}
		if c.Get("email") != "a@b.co" {
			t.Fatalf("email not set")
		}
		if c.Get("token") != "signed-token" {
			t.Fatalf("token not set")
		}
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("next not called")
	}
	if stub.token != "signed-token" {
		t.Fatalf("authenticator got %q", stub.token)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestAuthMiddleware_MissingHeader(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := Auth(&stubAuthenticator{})(func(c echo.Context) error {
		t.Fatalf("next should not be called")
		return nil
	})(c)

	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 HTTPError, got %v", err)
	}
}

func TestAuthMiddleware_MalformedHeader(t *testing.T) {
	for _, header := range []string{"Token abc", "Bearer", "Bearer "} {
		e := echo.New()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", header)
		c := e.NewContext(req, httptest.NewRecorder())

		err := Auth(&stubAuthenticator{})(func(c echo.Context) error { return nil })(c)

		var he *echo.HTTPError
		if !errors.As(err, &he) || he.Code != http.StatusUnauthorized {
			t.Fatalf("%q: expected 401 HTTPError, got %v", header, err)
		}
	}
}

func TestAuthMiddleware_RejectedToken(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer revoked")
	c := e.NewContext(req, httptest.NewRecorder())

	stub := &stubAuthenticator{err: domain.ErrUnauthenticated}
	err := Auth(stub)(func(c echo.Context) error {
		t.Fatalf("next should not be called")
		return nil
	})(c)

	if !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
}
