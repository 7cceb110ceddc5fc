package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/tuneup/studio/internal/api/metrics"
	"github.com/tuneup/studio/internal/core/domain"
)

// SessionService signs identities in and out.
type SessionService interface {
	SignIn(ctx context.Context, email, password string) (*domain.Session, error)
	SignInWithCredential(ctx context.Context, cred domain.Credential) (*domain.Session, error)
	SignOut(ctx context.Context, token string) error
}

type SessionHandler struct {
	service SessionService
}

func NewSessionHandler(service SessionService) *SessionHandler {
	return &SessionHandler{service: service}
}

type credentialRequest struct {
	Provider string `json:"provider" validate:"max=64"`
	IDToken  string `json:"id_token" validate:"max=8192"`
}

// Create signs in with email and password.
//
// @Summary      Sign in
// @Tags         sessions
// @Accept       json
// @Produce      json
// @Param        body  body      credentialsRequest  true  "Email and password"
// @Success      200   {object}  domain.Session
// @Failure      400   {object}  domain.AuthError
// @Failure      401   {object}  domain.AuthError
// @Failure      404   {object}  domain.AuthError
// @Router       /v1/sessions [post]
func (h *SessionHandler) Create(c echo.Context) error {
	var req credentialsRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	sess, err := h.service.SignIn(c.Request().Context(), req.Email, req.Password)
	metrics.IdentityOpsTotal.WithLabelValues("sign_in", outcome(err)).Inc()
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, sess)
}

// CreateWithCredential signs in with a federated ID token.
//
// @Summary      Sign in with a federated credential
// @Tags         sessions
// @Accept       json
// @Produce      json
// @Param        body  body      credentialRequest  true  "Provider and ID token"
// @Success      200   {object}  domain.Session
// @Failure      401   {object}  domain.AuthError
// @Router       /v1/sessions/credential [post]
func (h *SessionHandler) CreateWithCredential(c echo.Context) error {
	var req credentialRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	sess, err := h.service.SignInWithCredential(c.Request().Context(), domain.Credential{
		Provider: req.Provider,
		IDToken:  req.IDToken,
	})
	metrics.IdentityOpsTotal.WithLabelValues("sign_in_credential", outcome(err)).Inc()
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, sess)
}

// Delete signs the bearer token out.
//
// @Summary      Sign out
// @Tags         sessions
// @Security     BearerAuth
// @Success      204
// @Failure      401  {object}  errorResponse
// @Router       /v1/sessions [delete]
func (h *SessionHandler) Delete(c echo.Context) error {
	_, token, err := ctxCaller(c)
	if err != nil {
		return err
	}

	err = h.service.SignOut(c.Request().Context(), token)
	metrics.IdentityOpsTotal.WithLabelValues("sign_out", outcome(err)).Inc()
	if err != nil {
		return err
	}
	metrics.SessionsRevokedTotal.Inc()
	return c.NoContent(http.StatusNoContent)
}
