package image

import (
	"bytes"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/gallery/service/internal/response"
)

const (
	defaultPage = 1
	defaultSize = 3

	// maxUploadBytes bounds how much of a multipart body gets buffered.
	maxUploadBytes = 32 << 20
)

// Handler holds HTTP handlers for the database-backed gallery endpoints.
type Handler struct {
	svc *Service
}

// NewHandler creates a new image Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// Upload godoc
//
//	@Summary		Upload an image
//	@Description	Accepts a multipart image plus an optional description, stores the bytes in object storage, and records metadata. Returns the new record id and the permanent object URL.
//	@Tags			images
//	@Accept			multipart/form-data
//	@Produce		json
//	@Param			image		formData	file	true	"Image file (content type must be image/*)"
//	@Param			description	formData	string	false	"Free-text description"
//	@Success		200	{object}	UploadResult
//	@Failure		400	{object}	response.ErrorBody
//	@Failure		500	{object}	response.ErrorBody
//	@Router			/upload [post]
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

	// Buffer the file fully before touching storage, so a truncated body
	// never produces a partial object.
	buf, err := io.ReadAll(file)
	if err != nil {
		response.ServerError(w, err)
		return
	}

	description := r.FormValue("description")

	result, err := h.svc.Upload(r.Context(), header.Filename, contentType, bytes.NewReader(buf), int64(len(buf)), description)
	if err != nil {
		response.ServerError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, result)
}

// List godoc
//
//	@Summary		List images
//	@Description	Returns one page of image records ordered by upload time descending. Each record carries a presigned read URL valid for one hour.
//	@Tags			images
//	@Produce		json
//	@Param			page	query		int	false	"1-indexed page number"	default(1)
//	@Param			size	query		int	false	"Page length"			default(3)
//	@Success		200	{object}	ListResult
//	@Failure		500	{object}	response.ErrorBody
//	@Router			/images [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	page := queryInt(r, "page", defaultPage)
	size := queryInt(r, "size", defaultSize)

	result, err := h.svc.List(r.Context(), page, size)
	if err != nil {
		response.ServerError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, result)
}

// Delete godoc
//
//	@Summary		Delete an image
//	@Description	Removes the stored object and its metadata row.
//	@Tags			images
//	@Param			id	path	int	true	"Image record id"
//	@Success		204
//	@Failure		400	{object}	response.ErrorBody
//	@Failure		404	{object}	response.ErrorBody
//	@Failure		500	{object}	response.ErrorBody
//	@Router			/images/{id} [delete]
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "invalid image id")
		return
	}

	if err := h.svc.Delete(r.Context(), id); err != nil {
		if errors.Is(err, ErrNotFound) {
			response.NotFound(w, "image not found")
			return
		}
		response.ServerError(w, err)
		return
	}

	response.NoContent(w)
}

// queryInt parses a query parameter as a positive integer, falling back
// to def when absent or malformed.
func queryInt(r *http.Request, name string, def int) int {
	v, err := strconv.Atoi(r.URL.Query().Get(name))
	if err != nil || v < 1 {
		return def
	}
	return v
}
