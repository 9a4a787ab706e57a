package image

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/gallery/service/internal/storage"
)

// presignTTL is how long list-response URLs stay readable. Clients must
// not cache them past this horizon.
const presignTTL = time.Hour

// Repo is the persistence surface the service needs. *Repository
// satisfies it; tests substitute a fake.
type Repo interface {
	Insert(ctx context.Context, key, url, fileName, description string) (int, error)
	List(ctx context.Context, limit, offset int) ([]Image, error)
	Count(ctx context.Context) (int, error)
	GetKey(ctx context.Context, id int) (string, error)
	Delete(ctx context.Context, id int) error
}

// Service contains business logic for the database-backed gallery.
type Service struct {
	repo  Repo
	store storage.Storage
}

// NewService creates a new image Service.
func NewService(repo Repo, store storage.Storage) *Service {
	return &Service{repo: repo, store: store}
}

// UploadResult is returned to the client after a successful upload.
type UploadResult struct {
	ID  int    `json:"id"`
	URL string `json:"url"`
}

// ListResult is one page of the gallery.
type ListResult struct {
	ImagesData []Image `json:"images_data"`
	NextPage   *int    `json:"nextPage,omitempty"`
}

// Upload writes the file to object storage and then records its metadata.
// The insert happens only after storage confirms the put, so a metadata
// row can never exist without a backing object. The converse does not
// hold: a failed insert strands the object, with no compensating delete.
func (s *Service) Upload(ctx context.Context, fileName, contentType string, body io.Reader, size int64, description string) (*UploadResult, error) {
	key := storage.UploadKey(fileName)

	url, err := s.store.Upload(ctx, key, body, size, contentType)
	if err != nil {
		return nil, fmt.Errorf("upload object: %w", err)
	}

	id, err := s.repo.Insert(ctx, key, url, fileName, description)
	if err != nil {
		return nil, fmt.Errorf("record upload: %w", err)
	}
	return &UploadResult{ID: id, URL: url}, nil
}

// List returns page (1-indexed) of at most size records, newest first,
// each carrying a fresh presigned read URL.
func (s *Service) List(ctx context.Context, page, size int) (*ListResult, error) {
	offset := (page - 1) * size

	images, err := s.repo.List(ctx, size, offset)
	if err != nil {
		return nil, err
	}

	for i := range images {
		signed, err := s.store.PresignGet(ctx, images[i].Key, presignTTL)
		if err != nil {
			return nil, fmt.Errorf("presign %q: %w", images[i].Key, err)
		}
		images[i].URL = signed
	}

	total, err := s.repo.Count(ctx)
	if err != nil {
		return nil, err
	}

	result := &ListResult{ImagesData: images}
	if result.ImagesData == nil {
		result.ImagesData = []Image{}
	}
	if offset+size < total {
		next := page + 1
		result.NextPage = &next
	}
	return result, nil
}

// Delete removes the stored object and then the metadata row. The two
// deletes are sequential, not atomic: a failure after the object delete
// leaves a row pointing at nothing.
func (s *Service) Delete(ctx context.Context, id int) error {
	key, err := s.repo.GetKey(ctx, id)
	if err != nil {
		return err
	}

	if err := s.store.Delete(ctx, key); err != nil {
		return fmt.Errorf("delete object %q: %w", key, err)
	}
	return s.repo.Delete(ctx, id)
}
