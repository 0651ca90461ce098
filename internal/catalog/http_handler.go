package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/rs/zerolog/log"

	"bookcatalog/internal/entity"
	"bookcatalog/internal/httpx"
	"bookcatalog/internal/validation"
)

type HTTPHandler struct {
	svc *Service
}

func NewHTTPHandler(svc *Service) *HTTPHandler {
	return &HTTPHandler{svc: svc}
}

// Register mounts the book routes on mux.
func (h *HTTPHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /v1/books", h.Create)
	mux.HandleFunc("GET /v1/books", h.List)
	mux.HandleFunc("GET /v1/books/search", h.Search)
	mux.HandleFunc("GET /v1/books/{id}", h.Get)
	mux.HandleFunc("PUT /v1/books/{id}", h.Update)
	mux.HandleFunc("PATCH /v1/books/{id}", h.Update)
	mux.HandleFunc("DELETE /v1/books/{id}", h.Delete)
}

// Create handles POST /v1/books
// @Summary Create a book
// @Tags books
// @Accept json
// @Produce json
// @Success 201 {object} httpx.SuccessResponse
// @Failure 400 {object} httpx.ErrorResponse
// @Router /v1/books [post]
func (h *HTTPHandler) Create(w http.ResponseWriter, r *http.Request) {
	raw, ok := decodeObject(w, r)
	if !ok {
		return
	}

	book, err := h.svc.Create(r.Context(), raw)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.JSONCreated(w, r, book)
}

// List handles GET /v1/books
// @Summary List all books
// @Tags books
// @Produce json
// @Success 200 {object} httpx.SuccessResponse
// @Router /v1/books [get]
func (h *HTTPHandler) List(w http.ResponseWriter, r *http.Request) {
	books, err := h.svc.List(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.JSONSuccess(w, r, books, map[string]interface{}{"total": len(books)})
}

// Get handles GET /v1/books/{id}
// @Summary Get a book by id
// @Tags books
// @Produce json
// @Param id path int true "Book ID"
// @Success 200 {object} httpx.SuccessResponse
// @Failure 404 {object} httpx.ErrorResponse
// @Router /v1/books/{id} [get]
func (h *HTTPHandler) Get(w http.ResponseWriter, r *http.Request) {
	h.withID(w, r, h.svc.Get)
}

// Update handles PUT and PATCH /v1/books/{id}. Both merge only the fields
// present in the body.
// @Summary Update a book
// @Tags books
// @Accept json
// @Produce json
// @Param id path int true "Book ID"
// @Success 200 {object} httpx.SuccessResponse
// @Failure 400 {object} httpx.ErrorResponse
// @Failure 404 {object} httpx.ErrorResponse
// @Router /v1/books/{id} [patch]
func (h *HTTPHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, idErr := validation.ParseID(r.PathValue("id"))

	raw, ok := decodeObject(w, r)
	if !ok {
		return
	}

	if idErr != nil {
		// Report field errors together with the id error.
		_, fieldErr := validation.ParseUpdate(raw)
		writeServiceError(w, r, validation.Join(idErr, fieldErr))
		return
	}

	book, err := h.svc.Update(r.Context(), id, raw)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.JSONSuccess(w, r, book, nil)
}

// Delete handles DELETE /v1/books/{id} and returns the removed book.
// @Summary Delete a book
// @Tags books
// @Produce json
// @Param id path int true "Book ID"
// @Success 200 {object} httpx.SuccessResponse
// @Failure 404 {object} httpx.ErrorResponse
// @Router /v1/books/{id} [delete]
func (h *HTTPHandler) Delete(w http.ResponseWriter, r *http.Request) {
	h.withID(w, r, h.svc.Delete)
}

// Search handles GET /v1/books/search
// @Summary Search books
// @Tags books
// @Produce json
// @Param title query string false "Title substring"
// @Param author query string false "Author substring"
// @Param year query int false "Exact year"
// @Success 200 {object} httpx.SuccessResponse
// @Router /v1/books/search [get]
func (h *HTTPHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	params := make(map[string]string, len(query))
	for k := range query {
		params[k] = query.Get(k)
	}

	filter, err := validation.ParseSearch(params)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	books, err := h.svc.Search(r.Context(), filter)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.JSONSuccess(w, r, books, map[string]interface{}{"total": len(books)})
}

func (h *HTTPHandler) withID(w http.ResponseWriter, r *http.Request, op func(context.Context, int64) (entity.Book, error)) {
	id, err := validation.ParseID(r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	book, err := op(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.JSONSuccess(w, r, book, nil)
}

// decodeObject reads the body as a JSON object. An empty body is an empty
// object. It writes the error response itself and reports false on failure.
func decodeObject(w http.ResponseWriter, r *http.Request) (map[string]any, bool) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			httpx.JSONError(w, r, http.StatusRequestEntityTooLarge, "PAYLOAD_TOO_LARGE", "Request body too large", nil)
			return nil, false
		}
		httpx.JSONError(w, r, http.StatusBadRequest, "BAD_REQUEST", "Cannot read request body", nil)
		return nil, false
	}

	raw := map[string]any{}
	if len(bytes.TrimSpace(body)) == 0 {
		return raw, true
	}

	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil || raw == nil {
		httpx.JSONError(w, r, http.StatusBadRequest, "BAD_REQUEST", "Request body must be a JSON object", nil)
		return nil, false
	}
	if dec.More() {
		httpx.JSONError(w, r, http.StatusBadRequest, "BAD_REQUEST", "Request body must contain a single JSON object", nil)
		return nil, false
	}
	return raw, true
}

func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var verrs *validation.Errors
	switch {
	case errors.As(err, &verrs):
		details := make([]httpx.ErrorDetail, 0, len(verrs.Fields))
		for _, f := range verrs.Fields {
			details = append(details, httpx.ErrorDetail{Field: f.Field, Message: string(f.Reason)})
		}
		httpx.JSONError(w, r, http.StatusBadRequest, "VALIDATION_FAILED", "Validation failed", details)
	case errors.Is(err, ErrNotFound):
		httpx.JSONError(w, r, http.StatusNotFound, "NOT_FOUND", "Book not found", nil)
	case errors.Is(err, ErrStoreUnavailable):
		log.Error().Err(err).Str("request_id", httpx.RequestIDFrom(r)).Msg("store unavailable")
		httpx.JSONError(w, r, http.StatusServiceUnavailable, "STORE_UNAVAILABLE", "Storage is unavailable", nil)
	default:
		log.Error().Err(err).Str("request_id", httpx.RequestIDFrom(r)).Msg("unexpected error")
		httpx.JSONError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
	}
}
