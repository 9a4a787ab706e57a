// Package gallery serves the storage-only gallery mode: no database, with
// pagination driven by the bucket's own continuation tokens.
package gallery

import (
	"bytes"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/gallery/service/internal/response"
	"github.com/gallery/service/internal/storage"
)

const (
	defaultSize = 3
	presignTTL  = time.Hour

	maxUploadBytes = 32 << 20
)

// Handler holds HTTP handlers for the storage-only gallery endpoints.
type Handler struct {
	store storage.Storage
}

// NewHandler creates a new gallery Handler.
func NewHandler(store storage.Storage) *Handler {
	return &Handler{store: store}
}

// Entry is one listed object: its key and a presigned read URL.
type Entry struct {
	Key string `json:"key"`
	URL string `json:"url"`
}

// ListResult is one page of the bucket listing.
type ListResult struct {
	Images    []Entry `json:"images"`
	NextToken string  `json:"nextToken,omitempty"`
}

type uploadResult struct {
	URL string `json:"url"`
}

// Upload stores the multipart image in the bucket and returns its
// permanent URL. No metadata is recorded in this mode.
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		response.BadRequest(w, "invalid multipart body")
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		response.BadRequest(w, "no file uploaded")
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		response.BadRequest(w, "only image uploads allowed")
		return
	}

	buf, err := io.ReadAll(file)
	if err != nil {
		response.ServerError(w, err)
		return
	}

	key := storage.UploadKey(header.Filename)
	objectURL, err := h.store.Upload(r.Context(), key, bytes.NewReader(buf), int64(len(buf)), contentType)
	if err != nil {
		response.ServerError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, uploadResult{URL: objectURL})
}

// List returns one page of bucket objects under the uploads prefix, each
// with a one-hour presigned URL. nextToken is present only when the
// listing indicates more results exist.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	size := defaultSize
	if v, err := strconv.Atoi(r.URL.Query().Get("size")); err == nil && v >= 1 {
		size = v
	}
	token := r.URL.Query().Get("token")

	page, err := h.store.List(r.Context(), storage.UploadPrefix, size, token)
	if err != nil {
		response.ServerError(w, err)
		return
	}

	result := ListResult{Images: make([]Entry, 0, len(page.Keys)), NextToken: page.NextToken}
	for _, key := range page.Keys {
		signed, err := h.store.PresignGet(r.Context(), key, presignTTL)
		if err != nil {
			response.ServerError(w, err)
			return
		}
		result.Images = append(result.Images, Entry{Key: key, URL: signed})
	}

	response.JSON(w, http.StatusOK, result)
}

// Delete removes the object with the given percent-encoded key. Deleting
// a nonexistent key is indistinguishable from success.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	key, err := url.PathUnescape(chi.URLParam(r, "key"))
	if err != nil || key == "" {
		response.BadRequest(w, "invalid object key")
		return
	}

	if err := h.store.Delete(r.Context(), key); err != nil {
		response.ServerError(w, err)
		return
	}

	response.NoContent(w)
}
