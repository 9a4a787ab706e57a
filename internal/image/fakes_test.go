package image

import (
	"context"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/gallery/service/internal/storage"
)

// fakeRepo is an in-memory Repo. Rows get strictly increasing upload
// timestamps so recency ordering is deterministic.
type fakeRepo struct {
	rows      []Image
	nextID    int
	clock     time.Time
	insertErr error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{nextID: 1, clock: time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)}
}

func (f *fakeRepo) Insert(_ context.Context, key, url, fileName, description string) (int, error) {
	if f.insertErr != nil {
		return 0, f.insertErr
	}
	f.clock = f.clock.Add(time.Second)
	img := Image{
		ID:              f.nextID,
		Key:             key,
		URL:             url,
		FileName:        fileName,
		FileDescription: description,
		UploadedAt:      f.clock,
	}
	f.nextID++
	f.rows = append(f.rows, img)
	return img.ID, nil
}

func (f *fakeRepo) List(_ context.Context, limit, offset int) ([]Image, error) {
	sorted := make([]Image, len(f.rows))
	copy(sorted, f.rows)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].UploadedAt.After(sorted[j].UploadedAt)
	})

	if offset >= len(sorted) {
		return nil, nil
	}
	end := offset + limit
	if end > len(sorted) {
		end = len(sorted)
	}
	return sorted[offset:end], nil
}

func (f *fakeRepo) Count(_ context.Context) (int, error) {
	return len(f.rows), nil
}

func (f *fakeRepo) GetKey(_ context.Context, id int) (string, error) {
	for _, img := range f.rows {
		if img.ID == id {
			return img.Key, nil
		}
	}
	return "", ErrNotFound
}

func (f *fakeRepo) Delete(_ context.Context, id int) error {
	for i, img := range f.rows {
		if img.ID == id {
			f.rows = append(f.rows[:i], f.rows[i+1:]...)
			return nil
		}
	}
	return nil
}

// fakeStore is an in-memory storage.Storage that records the expiry passed
// to PresignGet.
type fakeStore struct {
	objects    map[string][]byte
	lastExpiry time.Duration
	uploadErr  error
	deleteErr  error
}

func newFakeStore() *fakeStore {
	return &fakeStore{objects: map[string][]byte{}}
}

func (f *fakeStore) Upload(_ context.Context, key string, reader io.Reader, _ int64, _ string) (string, error) {
	if f.uploadErr != nil {
		return "", f.uploadErr
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		return "", err
	}
	f.objects[key] = data
	return "https://test-bucket.s3.eu-west-1.amazonaws.com/" + key, nil
}

func (f *fakeStore) Delete(_ context.Context, key string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	delete(f.objects, key)
	return nil
}

func (f *fakeStore) PresignGet(_ context.Context, key string, expiry time.Duration) (string, error) {
	f.lastExpiry = expiry
	return fmt.Sprintf("https://test-bucket.s3.eu-west-1.amazonaws.com/%s?X-Amz-Expires=%d", key, int(expiry.Seconds())), nil
}

func (f *fakeStore) List(_ context.Context, _ string, _ int, _ string) (storage.Page, error) {
	return storage.Page{}, nil
}
