package image

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(repo *fakeRepo, store *fakeStore) *chi.Mux {
	h := NewHandler(NewService(repo, store))
	r := chi.NewRouter()
	r.Post("/upload", h.Upload)
	r.Get("/images", h.List)
	r.Delete("/images/{id}", h.Delete)
	return r
}

// multipartBody builds a multipart form with an optional file part (with
// an explicit declared content type) and an optional description field.
func multipartBody(t *testing.T, fileName, contentType string, data []byte, description string) (*bytes.Buffer, string) {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	if fileName != "" {
		hdr := textproto.MIMEHeader{}
		hdr.Set("Content-Disposition", fmt.Sprintf(`form-data; name="image"; filename=%q`, fileName))
		hdr.Set("Content-Type", contentType)
		part, err := mw.CreatePart(hdr)
		require.NoError(t, err)
		_, err = part.Write(data)
		require.NoError(t, err)
	}
	if description != "" {
		require.NoError(t, mw.WriteField("description", description))
	}
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func doUpload(t *testing.T, srv http.Handler, fileName, contentType string, data []byte, description string) *httptest.ResponseRecorder {
	t.Helper()
	body, ct := multipartBody(t, fileName, contentType, data, description)
	req := httptest.NewRequest(http.MethodPost, "/upload", body)
	req.Header.Set("Content-Type", ct)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	return rec
}

func TestUploadAndListRoundTrip(t *testing.T) {
	repo, store := newFakeRepo(), newFakeStore()
	srv := newTestServer(repo, store)

	jpeg := bytes.Repeat([]byte{0xff, 0xd8}, 5*1024) // 10KB
	rec := doUpload(t, srv, "sunset.jpg", "image/jpeg", jpeg, "sunset")
	require.Equal(t, http.StatusOK, rec.Code)

	var uploaded UploadResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &uploaded))
	assert.Equal(t, 1, uploaded.ID)
	assert.True(t, strings.HasPrefix(uploaded.URL, "https://test-bucket.s3.eu-west-1.amazonaws.com/uploads/"))

	req := httptest.NewRequest(http.MethodGet, "/images?page=1&size=3", nil)
	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var listed ListResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listed))
	require.Len(t, listed.ImagesData, 1)
	assert.Equal(t, uploaded.ID, listed.ImagesData[0].ID)
	assert.Equal(t, "sunset.jpg", listed.ImagesData[0].FileName)
	assert.Equal(t, "sunset", listed.ImagesData[0].FileDescription)
	assert.Nil(t, listed.NextPage)
}

func TestUploadWithoutDescriptionStoresEmptyString(t *testing.T) {
	repo, store := newFakeRepo(), newFakeStore()
	srv := newTestServer(repo, store)

	rec := doUpload(t, srv, "a.png", "image/png", []byte("png"), "")
	require.Equal(t, http.StatusOK, rec.Code)

	require.Len(t, repo.rows, 1)
	assert.Equal(t, "", repo.rows[0].FileDescription)
}

func TestUploadRejectsNonImage(t *testing.T) {
	repo, store := newFakeRepo(), newFakeStore()
	srv := newTestServer(repo, store)

	rec := doUpload(t, srv, "notes.txt", "text/plain", []byte("hello"), "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "only image uploads allowed")
	assert.Empty(t, repo.rows)
	assert.Empty(t, store.objects)
}

func TestUploadRejectsMissingFile(t *testing.T) {
	repo, store := newFakeRepo(), newFakeStore()
	srv := newTestServer(repo, store)

	rec := doUpload(t, srv, "", "", nil, "orphan description")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, repo.rows)
	assert.Empty(t, store.objects)
}

func listPage(t *testing.T, srv http.Handler, page, size int) ListResult {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/images?page=%d&size=%d", page, size), nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var result ListResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	return result
}

func TestListPagination(t *testing.T) {
	repo, store := newFakeRepo(), newFakeStore()
	srv := newTestServer(repo, store)

	for i := 1; i <= 5; i++ {
		rec := doUpload(t, srv, fmt.Sprintf("img-%d.jpg", i), "image/jpeg", []byte("x"), "")
		require.Equal(t, http.StatusOK, rec.Code)
	}

	// Page 1: newest first, more pages remain.
	page1 := listPage(t, srv, 1, 3)
	require.Len(t, page1.ImagesData, 3)
	assert.Equal(t, "img-5.jpg", page1.ImagesData[0].FileName)
	assert.Equal(t, "img-4.jpg", page1.ImagesData[1].FileName)
	assert.Equal(t, "img-3.jpg", page1.ImagesData[2].FileName)
	require.NotNil(t, page1.NextPage)
	assert.Equal(t, 2, *page1.NextPage)

	// Page 2: partial final page, no next.
	page2 := listPage(t, srv, 2, 3)
	require.Len(t, page2.ImagesData, 2)
	assert.Equal(t, "img-2.jpg", page2.ImagesData[0].FileName)
	assert.Nil(t, page2.NextPage)

	// Exact boundary: 5 rows, size 5 means no next page.
	exact := listPage(t, srv, 1, 5)
	require.Len(t, exact.ImagesData, 5)
	assert.Nil(t, exact.NextPage)
}

func TestListPageBeyondEnd(t *testing.T) {
	repo, store := newFakeRepo(), newFakeStore()
	srv := newTestServer(repo, store)

	for i := 1; i <= 5; i++ {
		doUpload(t, srv, fmt.Sprintf("img-%d.jpg", i), "image/jpeg", []byte("x"), "")
	}

	result := listPage(t, srv, 999, 3)
	assert.Empty(t, result.ImagesData)
	assert.Nil(t, result.NextPage)

	// images_data must serialize as [], never null.
	req := httptest.NewRequest(http.MethodGet, "/images?page=999&size=3", nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	assert.Contains(t, rec.Body.String(), `"images_data":[]`)
	assert.NotContains(t, rec.Body.String(), "nextPage")
}

func TestListDefaultsAndMalformedParams(t *testing.T) {
	repo, store := newFakeRepo(), newFakeStore()
	srv := newTestServer(repo, store)

	for i := 1; i <= 4; i++ {
		doUpload(t, srv, fmt.Sprintf("img-%d.jpg", i), "image/jpeg", []byte("x"), "")
	}

	req := httptest.NewRequest(http.MethodGet, "/images?page=abc&size=-2", nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var result ListResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Len(t, result.ImagesData, 3) // default size
	require.NotNil(t, result.NextPage)  // default page 1, 4 rows total
	assert.Equal(t, 2, *result.NextPage)
}

func TestListPresignsForOneHour(t *testing.T) {
	repo, store := newFakeRepo(), newFakeStore()
	srv := newTestServer(repo, store)

	doUpload(t, srv, "a.jpg", "image/jpeg", []byte("x"), "")
	result := listPage(t, srv, 1, 3)

	require.Len(t, result.ImagesData, 1)
	assert.Equal(t, presignTTL, store.lastExpiry)
	assert.Contains(t, result.ImagesData[0].URL, "X-Amz-Expires=3600")
}

func TestDeleteExisting(t *testing.T) {
	repo, store := newFakeRepo(), newFakeStore()
	srv := newTestServer(repo, store)

	doUpload(t, srv, "a.jpg", "image/jpeg", []byte("x"), "")
	doUpload(t, srv, "b.jpg", "image/jpeg", []byte("y"), "")
	require.Len(t, repo.rows, 2)
	require.Len(t, store.objects, 2)

	deletedKey := repo.rows[0].Key

	req := httptest.NewRequest(http.MethodDelete, "/images/1", nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	require.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.Bytes())

	assert.Len(t, repo.rows, 1)
	assert.Len(t, store.objects, 1)
	assert.NotContains(t, store.objects, deletedKey)

	result := listPage(t, srv, 1, 10)
	for _, img := range result.ImagesData {
		assert.NotEqual(t, deletedKey, img.Key)
	}
}

func TestDeleteUnknownIDReturns404AndChangesNothing(t *testing.T) {
	repo, store := newFakeRepo(), newFakeStore()
	srv := newTestServer(repo, store)

	doUpload(t, srv, "a.jpg", "image/jpeg", []byte("x"), "")

	req := httptest.NewRequest(http.MethodDelete, "/images/42", nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "image not found")
	assert.Len(t, repo.rows, 1)
	assert.Len(t, store.objects, 1)
}

func TestDeleteNonNumericID(t *testing.T) {
	srv := newTestServer(newFakeRepo(), newFakeStore())

	req := httptest.NewRequest(http.MethodDelete, "/images/abc", nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
