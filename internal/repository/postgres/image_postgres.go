package postgres

import (
	"context"
	"database/sql"

	"appsamples/internal/model"
	"appsamples/internal/repository"
)

// ImagePostgres is a PostgreSQL implementation of repository.ImageRepository.
type ImagePostgres struct {
	db *sql.DB
}

// NewImagePostgres creates a new ImagePostgres repository.
func NewImagePostgres(db *sql.DB) *ImagePostgres {
	return &ImagePostgres{db: db}
}

var _ repository.ImageRepository = (*ImagePostgres)(nil)

// Save upserts an image row keyed by name.
func (r *ImagePostgres) Save(ctx context.Context, img *model.SmallImage) error {
	const q = `
		INSERT INTO small_images (name, storage_path, content_type, size, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (name) DO UPDATE
		SET storage_path = EXCLUDED.storage_path,
		    content_type = EXCLUDED.content_type,
		    size = EXCLUDED.size,
		    created_at = EXCLUDED.created_at
	`
	_, err := r.db.ExecContext(ctx, q, img.Name, img.StoragePath, img.ContentType, img.Size, img.CreatedAt)
	return err
}

// FindByName fetches a single image row.
func (r *ImagePostgres) FindByName(ctx context.Context, name string) (*model.SmallImage, error) {
	const q = `
		SELECT name, storage_path, content_type, size, created_at
		FROM small_images
		WHERE name = $1
	`
	var img model.SmallImage
	if err := r.db.QueryRowContext(ctx, q, name).Scan(
		&img.Name,
		&img.StoragePath,
		&img.ContentType,
		&img.Size,
		&img.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &img, nil
}

// MapTask stores the task name of the processing task for an image.
func (r *ImagePostgres) MapTask(ctx context.Context, taskName, imageName string) error {
	const q = `
		INSERT INTO task_images (task_name, image_name) VALUES ($1, $2)
		ON CONFLICT (task_name) DO UPDATE SET image_name = EXCLUDED.image_name
	`
	_, err := r.db.ExecContext(ctx, q, taskName, imageName)
	return err
}

// ImageForTask resolves a task back to its image.
func (r *ImagePostgres) ImageForTask(ctx context.Context, taskName string) (string, error) {
	var name string
	err := r.db.QueryRowContext(ctx, `SELECT image_name FROM task_images WHERE task_name = $1`, taskName).Scan(&name)
	return name, err
}
