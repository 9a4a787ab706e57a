// Package image manages gallery image metadata and its persistence.
package image

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Image is one metadata row describing a stored object.
type Image struct {
	ID              int       `json:"id"`
	Key             string    `json:"key"`
	URL             string    `json:"url"`
	FileName        string    `json:"fileName"`
	FileDescription string    `json:"fileDescription"`
	UploadedAt      time.Time `json:"uploadedAt"`
}

// ErrNotFound is returned when an image record does not exist.
var ErrNotFound = errors.New("image not found")

// Repository handles all image database operations.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new Repository with the given connection pool.
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// Insert stores a metadata row for an already-uploaded object and returns
// the generated id. uploaded_at is assigned by the database.
func (r *Repository) Insert(ctx context.Context, key, url, fileName, description string) (int, error) {
	var id int
	err := r.db.QueryRow(ctx,
		`INSERT INTO images (s3_key, s3_url, file_name, file_description)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id`,
		key, url, fileName, description,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert image: %w", err)
	}
	return id, nil
}

// List returns at most limit rows ordered by upload recency, newest first,
// starting at offset. The URL field holds the permanent object URL; the
// caller replaces it with a presigned one before responding.
func (r *Repository) List(ctx context.Context, limit, offset int) ([]Image, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, s3_key, s3_url, file_name, file_description, uploaded_at
		 FROM images
		 ORDER BY uploaded_at DESC
		 LIMIT $1 OFFSET $2`,
		limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("list images: %w", err)
	}
	defer rows.Close()

	var images []Image
	for rows.Next() {
		var img Image
		var fileName, description *string
		if err := rows.Scan(&img.ID, &img.Key, &img.URL, &fileName, &description, &img.UploadedAt); err != nil {
			return nil, fmt.Errorf("scan image row: %w", err)
		}
		if fileName != nil {
			img.FileName = *fileName
		}
		if description != nil {
			img.FileDescription = *description
		}
		images = append(images, img)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate image rows: %w", err)
	}
	return images, nil
}

// Count returns the total number of image records.
func (r *Repository) Count(ctx context.Context) (int, error) {
	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM images`).Scan(&total); err != nil {
		return 0, fmt.Errorf("count images: %w", err)
	}
	return total, nil
}

// GetKey fetches the storage key for an image by id.
func (r *Repository) GetKey(ctx context.Context, id int) (string, error) {
	var key string
	err := r.db.QueryRow(ctx, `SELECT s3_key FROM images WHERE id = $1`, id).Scan(&key)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("get image key: %w", err)
	}
	return key, nil
}

// Delete removes the metadata row for id. Deleting an already-removed row
// is a no-op, not an error; concurrent deletes of the same id may both
// reach this point after observing the row present.
func (r *Repository) Delete(ctx context.Context, id int) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM images WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete image: %w", err)
	}
	return nil
}
