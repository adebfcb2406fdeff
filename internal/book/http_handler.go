package book

import (
	"errors"
	"log/slog"
	"net/http"

	"bookshelf/internal/httpx"
)

type HTTPHandler struct {
	service *Service
	logger  *slog.Logger
}

func NewHTTPHandler(service *Service, logger *slog.Logger) *HTTPHandler {
	return &HTTPHandler{service: service, logger: logger}
}

// Routes registers the book endpoints on mux.
func (h *HTTPHandler) Routes(mux *http.ServeMux) {
	mux.HandleFunc("POST /books", h.Create)
	mux.HandleFunc("GET /books", h.List)
	mux.HandleFunc("GET /books/{bookId}", h.GetByID)
	mux.HandleFunc("PUT /books/{bookId}", h.Update)
	mux.HandleFunc("DELETE /books/{bookId}", h.Delete)
}

type bookRequest struct {
	Name      string `json:"name"`
	Year      int    `json:"year"`
	Author    string `json:"author"`
	Summary   string `json:"summary"`
	Publisher string `json:"publisher"`
	PageCount int    `json:"pageCount"`
	ReadPage  int    `json:"readPage"`
	Reading   bool   `json:"reading"`
}

func (req bookRequest) input() Input {
	return Input{
		Name:      req.Name,
		Year:      req.Year,
		Author:    req.Author,
		Summary:   req.Summary,
		Publisher: req.Publisher,
		PageCount: req.PageCount,
		ReadPage:  req.ReadPage,
		Reading:   req.Reading,
	}
}

// Create handles POST /books
func (h *HTTPHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req bookRequest
	if !decodeBody(w, r, &req) {
		return
	}

	id, err := h.service.Create(r.Context(), req.input())
	if err != nil {
		var ve *ValidationError
		if errors.As(err, &ve) {
			httpx.JSONFail(w, http.StatusBadRequest, "Failed to add book. "+validationMessage(ve))
			return
		}
		h.internalError(w, r, "create book", err)
		return
	}

	httpx.JSONSuccess(w, http.StatusCreated, "Book added successfully", map[string]string{
		"bookId": id,
	})
}

// List handles GET /books
func (h *HTTPHandler) List(w http.ResponseWriter, r *http.Request) {
	books, err := h.service.List(r.Context(), FilterFromQuery(r.URL.Query()))
	if err != nil {
		h.internalError(w, r, "list books", err)
		return
	}

	httpx.JSONSuccess(w, http.StatusOK, "", map[string]any{
		"books": books,
	})
}

// GetByID handles GET /books/{bookId}
func (h *HTTPHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	b, err := h.service.GetByID(r.Context(), r.PathValue("bookId"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			httpx.JSONFail(w, http.StatusNotFound, "Book not found")
			return
		}
		h.internalError(w, r, "get book", err)
		return
	}

	httpx.JSONSuccess(w, http.StatusOK, "", map[string]any{
		"book": b,
	})
}

// Update handles PUT /books/{bookId}
func (h *HTTPHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req bookRequest
	if !decodeBody(w, r, &req) {
		return
	}

	err := h.service.Update(r.Context(), r.PathValue("bookId"), req.input())
	if err != nil {
		var ve *ValidationError
		switch {
		case errors.Is(err, ErrNotFound):
			httpx.JSONFail(w, http.StatusNotFound, "Failed to update book. Id not found")
		case errors.As(err, &ve):
			httpx.JSONFail(w, http.StatusBadRequest, "Failed to update book. "+validationMessage(ve))
		default:
			h.internalError(w, r, "update book", err)
		}
		return
	}

	httpx.JSONSuccess(w, http.StatusOK, "Book updated successfully", nil)
}

// Delete handles DELETE /books/{bookId}
func (h *HTTPHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), r.PathValue("bookId")); err != nil {
		if errors.Is(err, ErrNotFound) {
			httpx.JSONFail(w, http.StatusNotFound, "Failed to delete book. Id not found")
			return
		}
		h.internalError(w, r, "delete book", err)
		return
	}

	httpx.JSONSuccess(w, http.StatusOK, "Book deleted successfully", nil)
}

func (h *HTTPHandler) internalError(w http.ResponseWriter, r *http.Request, op string, err error) {
	httpx.LoggerFrom(r.Context(), h.logger).ErrorContext(r.Context(), op+" failed", slog.Any("error", err))
	httpx.JSONError(w, r, http.StatusInternalServerError, "Internal server error")
}

// decodeBody writes the failure response itself and reports whether decoding succeeded.
func decodeBody(w http.ResponseWriter, r *http.Request, req *bookRequest) bool {
	err := httpx.DecodeJSON(r.Body, req)
	switch {
	case err == nil:
		return true
	case httpx.IsBodyTooLarge(err):
		httpx.JSONFail(w, http.StatusRequestEntityTooLarge, httpx.MsgBodyTooLarge)
	default:
		httpx.JSONFail(w, http.StatusBadRequest, "Invalid request body")
	}
	return false
}

func validationMessage(ve *ValidationError) string {
	switch ve.Message {
	case msgMissingName:
		return "Please provide the book name"
	case msgReadPageExceeds:
		return "readPage must not be greater than pageCount"
	default:
		return ve.Message
	}
}
