package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/tuneup/studio/internal/api/metrics"
	"github.com/tuneup/studio/internal/core/domain"
)

// IdentityService is the account-management side of the identity provider.
type IdentityService interface {
	CreateIdentity(ctx context.Context, email, password string) (*domain.Session, error)
	Provision(ctx context.Context, callerUID, email, password, displayName string) (*domain.Identity, error)
	SetDisplayName(ctx context.Context, callerUID, uid, name string) error
	DeleteIdentity(ctx context.Context, callerUID, uid string) error
}

type IdentityHandler struct {
	service IdentityService
}

func NewIdentityHandler(service IdentityService) *IdentityHandler {
	return &IdentityHandler{service: service}
}

type credentialsRequest struct {
	Email    string `json:"email" validate:"max=254"`
	Password string `json:"password" validate:"max=128"`
}

type provisionRequest struct {
	Email       string `json:"email" validate:"max=254"`
	Password    string `json:"password" validate:"max=128"`
	DisplayName string `json:"display_name" validate:"max=128"`
}

type displayNameRequest struct {
	DisplayName string `json:"display_name" validate:"max=128"`
}

// Create registers a password identity and signs it in.
//
// @Summary      Create an identity
// @Tags         identities
// @Accept       json
// @Produce      json
// @Param        body  body      credentialsRequest  true  "Email and password"
// @Success      201   {object}  domain.Session
// @Failure      400   {object}  domain.AuthError
// @Failure      409   {object}  domain.AuthError
// @Router       /v1/identities [post]
func (h *IdentityHandler) Create(c echo.Context) error {
	var req credentialsRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	sess, err := h.service.CreateIdentity(c.Request().Context(), req.Email, req.Password)
	metrics.IdentityOpsTotal.WithLabelValues("create", outcome(err)).Inc()
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, sess)
}

// Provision registers an identity on behalf of the caller without signing it in.
//
// @Summary      Provision an identity
// @Tags         identities
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      provisionRequest  true  "Email, password and display name"
// @Success      201   {object}  domain.Identity
// @Failure      400   {object}  domain.AuthError
// @Failure      401   {object}  errorResponse
// @Failure      409   {object}  domain.AuthError
// @Router       /v1/identities/provision [post]
func (h *IdentityHandler) Provision(c echo.Context) error {
	caller, _, err := ctxCaller(c)
	if err != nil {
		return err
	}
	var req provisionRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	identity, err := h.service.Provision(c.Request().Context(), caller, req.Email, req.Password, req.DisplayName)
	metrics.IdentityOpsTotal.WithLabelValues("provision", outcome(err)).Inc()
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, identity)
}

// SetDisplayName updates the caller's display name.
//
// @Summary      Set display name
// @Tags         identities
// @Accept       json
// @Security     BearerAuth
// @Param        uid   path  string              true  "Identity uid"
// @Param        body  body  displayNameRequest  true  "New display name"
// @Success      204
// @Failure      403   {object}  errorResponse
// @Router       /v1/identities/{uid}/display-name [put]
func (h *IdentityHandler) SetDisplayName(c echo.Context) error {
	caller, _, err := ctxCaller(c)
	if err != nil {
		return err
	}
	var req displayNameRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	err = h.service.SetDisplayName(c.Request().Context(), caller, c.Param("uid"), req.DisplayName)
	metrics.IdentityOpsTotal.WithLabelValues("set_display_name", outcome(err)).Inc()
	if err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// Delete removes an identity owned or provisioned by the caller.
//
// @Summary      Delete an identity
// @Tags         identities
// @Security     BearerAuth
// @Param        uid  path  string  true  "Identity uid"
// @Success      204
// @Failure      403  {object}  domain.AuthError
// @Failure      404  {object}  domain.AuthError
// @Router       /v1/identities/{uid} [delete]
func (h *IdentityHandler) Delete(c echo.Context) error {
	caller, _, err := ctxCaller(c)
	if err != nil {
		return err
	}

	err = h.service.DeleteIdentity(c.Request().Context(), caller, c.Param("uid"))
	metrics.IdentityOpsTotal.WithLabelValues("delete", outcome(err)).Inc()
	if err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if c.Echo().Validator == nil {
		return nil
	}
	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}
	return nil
}
