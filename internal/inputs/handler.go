package inputs

import (
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/JaimeStill/triage/internal/auth"
	"github.com/JaimeStill/triage/pkg/handlers"
	"github.com/JaimeStill/triage/pkg/pagination"
	"github.com/JaimeStill/triage/pkg/routes"
)

// Handler provides HTTP endpoints for input operations. Every endpoint requires
// an authenticated user.
type Handler struct {
	sys        System
	logger     *slog.Logger
	pagination pagination.Config
}

// SearchRequest combines pagination and filter criteria for the search endpoint.
type SearchRequest struct {
	pagination.PageRequest
	Filters
}

// NewHandler creates a Handler.
func NewHandler(sys System, logger *slog.Logger, pagination pagination.Config) *Handler {
	return &Handler{
		sys:        sys,
		logger:     logger.With("handler", "inputs"),
		pagination: pagination,
	}
}

// Routes returns the route group definition for input endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix:  "/inputs",
		Tags:    []string{"Inputs"},
		Schemas: schemas,
		Routes: []routes.Route{
			{Method: "POST", Pattern: "", Handler: h.Create, OpenAPI: specCreate},
			{Method: "GET", Pattern: "", Handler: h.List, OpenAPI: specList},
			{Method: "GET", Pattern: "/dashboard", Handler: h.Dashboard, OpenAPI: specDashboard},
			{Method: "POST", Pattern: "/search", Handler: h.Search, OpenAPI: specSearch},
			{Method: "POST", Pattern: "/reclassify", Handler: h.Reclassify, OpenAPI: specReclassify},
			{Method: "POST", Pattern: "/export", Handler: h.Export, OpenAPI: specExport},
			{Method: "GET", Pattern: "/exports", Handler: h.Exports, OpenAPI: specExports},
			{Method: "GET", Pattern: "/exports/{name}", Handler: h.Download, OpenAPI: specDownload},
			{Method: "GET", Pattern: "/{id}", Handler: h.Find, OpenAPI: specFind},
			{Method: "PATCH", Pattern: "/{id}", Handler: h.Update, OpenAPI: specUpdate},
			{Method: "DELETE", Pattern: "/{id}", Handler: h.Delete, OpenAPI: specDelete},
		},
	}
}

func (h *Handler) user(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, ok := auth.UserID(r.Context())
	if !ok {
		auth.Challenge(w, h.logger, auth.ErrUnauthorized)
	}
	return id, ok
}

// inputID parses the {id} path value. An unparseable id cannot name a visible
// input, so it answers 404.
func (h *Handler) inputID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusNotFound, ErrNotFound)
		return uuid.Nil, false
	}
	return id, true
}

func (h *Handler) order(w http.ResponseWriter, r *http.Request) (Order, bool) {
	order, err := ParseOrder(r.URL.Query().Get("order"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return "", false
	}
	return order, true
}

// Create classifies and stores a new input.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.user(w, r)
	if !ok {
		return
	}

	cmd, err := handlers.DecodeJSON[CreateCommand](r)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	in, err := h.sys.Create(r.Context(), userID, cmd)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, in)
}

// List returns the requester's active inputs ranked by the order query parameter.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.user(w, r)
	if !ok {
		return
	}

	order, ok := h.order(w, r)
	if !ok {
		return
	}

	h.list(w, r, userID, order)
}

// Dashboard returns the requester's active inputs in dashboard order.
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.user(w, r)
	if !ok {
		return
	}

	h.list(w, r, userID, OrderDashboard)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request, userID uuid.UUID, order Order) {
	items, err := h.sys.List(r.Context(), userID, order)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, items)
}

// Find returns a single active input.
func (h *Handler) Find(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.user(w, r)
	if !ok {
		return
	}

	id, ok := h.inputID(w, r)
	if !ok {
		return
	}

	in, err := h.sys.Find(r.Context(), userID, id)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, in)
}

// Update applies a partial update, re-classifying when text changes.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.user(w, r)
	if !ok {
		return
	}

	id, ok := h.inputID(w, r)
	if !ok {
		return
	}

	cmd, err := handlers.DecodeJSON[UpdateCommand](r)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	in, err := h.sys.Update(r.Context(), userID, id, cmd)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, in)
}

// Delete soft-deletes an input.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.user(w, r)
	if !ok {
		return
	}

	id, ok := h.inputID(w, r)
	if !ok {
		return
	}

	if _, err := h.sys.Delete(r.Context(), userID, id); err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, DeleteResult{Status: "deleted"})
}

// Search accepts a JSON body with pagination and filter criteria.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.user(w, r)
	if !ok {
		return
	}

	req, err := handlers.DecodeJSON[SearchRequest](r)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	req.PageRequest.Normalize(h.pagination)

	result, err := h.sys.Search(r.Context(), userID, req.PageRequest, req.Filters)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// Reclassify re-runs classification over every active input of the requester.
func (h *Handler) Reclassify(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.user(w, r)
	if !ok {
		return
	}

	result, err := h.sys.Reclassify(r.Context(), userID)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// Export writes the ranked inputs to blob storage.
func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.user(w, r)
	if !ok {
		return
	}

	order, ok := h.order(w, r)
	if !ok {
		return
	}

	result, err := h.sys.Export(r.Context(), userID, order)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusCreated, result)
}

// Exports lists the requester's export snapshots.
func (h *Handler) Exports(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.user(w, r)
	if !ok {
		return
	}

	objects, err := h.sys.Exports(r.Context(), userID)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, objects)
}

// Download streams one export snapshot of the requester.
func (h *Handler) Download(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.user(w, r)
	if !ok {
		return
	}

	blob, err := h.sys.Download(r.Context(), userID, r.PathValue("name"))
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}
	defer blob.Body.Close()

	w.Header().Set("Content-Type", blob.ContentType)
	if blob.ContentLength > 0 {
		w.Header().Set("Content-Length", strconv.FormatInt(blob.ContentLength, 10))
	}
	w.WriteHeader(http.StatusOK)

	if _, err := io.Copy(w, blob.Body); err != nil {
		h.logger.Warn("export download interrupted", "error", err)
	}
}
