package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/tuneup/studio/internal/api/metrics"
	"github.com/tuneup/studio/internal/core/domain"
	"github.com/tuneup/studio/internal/core/ports"
)

// DocumentHandler exposes the document store over HTTP. Request bodies are
// the document fields themselves; a field set to {".sv":"timestamp"} is
// replaced with the server clock.
type DocumentHandler struct {
	store ports.DocumentStore
}

func NewDocumentHandler(store ports.DocumentStore) *DocumentHandler {
	return &DocumentHandler{store: store}
}

type queryParams struct {
	Field string `query:"field" validate:"required,max=128,fieldname"`
	Value string `query:"value" validate:"max=512"`
}

type queryResponse struct {
	Items []domain.Document `json:"items"`
}

func (h *DocumentHandler) observe(c echo.Context, op string, started time.Time, err error) {
	metrics.DocumentOpsTotal.WithLabelValues(c.Param("collection"), op, outcome(err)).Inc()
	metrics.DocumentOpDuration.WithLabelValues(op).Observe(time.Since(started).Seconds())
}

// Get handles GET /v1/documents/:collection/:id.
//
// @Summary      Get a document
// @Tags         documents
// @Produce      json
// @Security     BearerAuth
// @Param        collection  path      string  true  "Collection name"
// @Param        id          path      string  true  "Document id"
// @Success      200         {object}  domain.Document
// @Failure      404         {object}  errorResponse
// @Router       /v1/documents/{collection}/{id} [get]
func (h *DocumentHandler) Get(c echo.Context) error {
	started := time.Now()
	doc, err := h.store.GetDocument(c.Request().Context(), c.Param("collection"), c.Param("id"))
	h.observe(c, "get", started, err)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, doc)
}

// Create handles POST /v1/documents/:collection.
//
// @Summary      Create a document with a server-assigned id
// @Tags         documents
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        collection  path      string          true  "Collection name"
// @Param        body        body      map[string]any  true  "Document fields"
// @Success      201         {object}  domain.Document
// @Failure      400         {object}  errorResponse
// @Router       /v1/documents/{collection} [post]
func (h *DocumentHandler) Create(c echo.Context) error {
	data, err := bindFields(c)
	if err != nil {
		return err
	}

	started := time.Now()
	doc, err := h.store.CreateDocument(c.Request().Context(), c.Param("collection"), data)
	h.observe(c, "create", started, err)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, doc)
}

// Set handles PUT /v1/documents/:collection/:id[?merge=true].
//
// @Summary      Write a document, replacing or merging
// @Tags         documents
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        collection  path      string          true   "Collection name"
// @Param        id          path      string          true   "Document id"
// @Param        merge       query     bool            false  "Merge into the existing document"
// @Param        body        body      map[string]any  true   "Document fields"
// @Success      200         {object}  domain.Document
// @Failure      400         {object}  errorResponse
// @Router       /v1/documents/{collection}/{id} [put]
func (h *DocumentHandler) Set(c echo.Context) error {
	merge := false
	if raw := c.QueryParam("merge"); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "merge must be a boolean")
		}
		merge = parsed
	}
	data, err := bindFields(c)
	if err != nil {
		return err
	}

	started := time.Now()
	doc, err := h.store.SetDocument(c.Request().Context(), c.Param("collection"), c.Param("id"), data, merge)
	h.observe(c, "set", started, err)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, doc)
}

// Update handles PATCH /v1/documents/:collection/:id.
//
// @Summary      Update fields of an existing document
// @Tags         documents
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        collection  path      string          true  "Collection name"
// @Param        id          path      string          true  "Document id"
// @Param        body        body      map[string]any  true  "Fields to set"
// @Success      200         {object}  domain.Document
// @Failure      404         {object}  errorResponse
// @Router       /v1/documents/{collection}/{id} [patch]
func (h *DocumentHandler) Update(c echo.Context) error {
	data, err := bindFields(c)
	if err != nil {
		return err
	}

	started := time.Now()
	doc, err := h.store.UpdateDocument(c.Request().Context(), c.Param("collection"), c.Param("id"), data)
	h.observe(c, "update", started, err)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, doc)
}

// Delete handles DELETE /v1/documents/:collection/:id. Deleting a missing
// document succeeds.
//
// @Summary      Delete a document
// @Tags         documents
// @Security     BearerAuth
// @Param        collection  path  string  true  "Collection name"
// @Param        id          path  string  true  "Document id"
// @Success      204
// @Router       /v1/documents/{collection}/{id} [delete]
func (h *DocumentHandler) Delete(c echo.Context) error {
	started := time.Now()
	err := h.store.DeleteDocument(c.Request().Context(), c.Param("collection"), c.Param("id"))
	h.observe(c, "delete", started, err)
	if err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// Query handles GET /v1/documents/:collection?field=&value=.
//
// @Summary      Query a collection by field equality
// @Tags         documents
// @Produce      json
// @Security     BearerAuth
// @Param        collection  path      string  true  "Collection name"
// @Param        field       query     string  true  "Field name"
// @Param        value       query     string  true  "Value the field must equal"
// @Success      200         {object}  queryResponse
// @Failure      400         {object}  errorResponse
// @Router       /v1/documents/{collection} [get]
func (h *DocumentHandler) Query(c echo.Context) error {
	var params queryParams
	if err := bindAndValidate(c, &params); err != nil {
		return err
	}

	started := time.Now()
	docs, err := h.store.QueryCollection(c.Request().Context(), c.Param("collection"), params.Field, params.Value)
	h.observe(c, "query", started, err)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, queryResponse{Items: docs})
}

func bindFields(c echo.Context) (domain.Fields, error) {
	var data map[string]any
	if err := (&echo.DefaultBinder{}).BindBody(c, &data); err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if data == nil {
		data = map[string]any{}
	}
	return domain.Fields(data), nil
}
