package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Context keys set by middleware.Auth.
const (
	CtxUID   = "uid"
	CtxEmail = "email"
	CtxToken = "token"
)

// ctxCaller extracts the caller injected by the Auth middleware. A missing
// uid means the middleware did not run for this route.
func ctxCaller(c echo.Context) (uid, token string, err error) {
	uid, _ = c.Get(CtxUID).(string)
	if uid == "" {
		return "", "", echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	token, _ = c.Get(CtxToken).(string)
	return uid, token, nil
}

func outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

// errorResponse is the error envelope rendered by api.NewHTTPErrorHandler.
type errorResponse struct {
	Error string `json:"error"`
}
