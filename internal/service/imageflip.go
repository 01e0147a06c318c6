package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"appsamples/internal/model"
	"appsamples/internal/queue"
	"appsamples/internal/repository"
	"appsamples/internal/storage"
)

// ImageStatus tells whether an image and its flipped copy exist.
type ImageStatus struct {
	Name      string `json:"name"`
	Uploaded  bool   `json:"uploaded"`
	Processed bool   `json:"processed"`
}

// ImageFlipService defines the image flipper use cases.
type ImageFlipService interface {
	// Upload stores an image, queues it for flipping and maps the task back to the image.
	Upload(ctx context.Context, name string, data []byte) (*model.SmallImage, error)
	// StoreProcessed saves the flipped bytes posted back for a task as "<image>_processed".
	StoreProcessed(ctx context.Context, taskName string, data []byte) (*model.SmallImage, error)
	// Open streams a stored image.
	Open(ctx context.Context, name string) (io.ReadCloser, *model.SmallImage, error)
	// Status reports the upload and processing state of an image.
	Status(ctx context.Context, name string) (*ImageStatus, error)
}

type imageFlipService struct {
	store       storage.Storage
	repo        repository.ImageRepository
	queue       queue.Queue
	now         func() time.Time
	newTaskName func() string
}

// NewImageFlipService constructs a new ImageFlipService.
func NewImageFlipService(store storage.Storage, repo repository.ImageRepository, q queue.Queue) ImageFlipService {
	return &imageFlipService{store: store, repo: repo, queue: q, now: time.Now, newTaskName: uuid.NewString}
}

func imageKey(name string) string {
	return "images/" + name
}

func (s *imageFlipService) save(ctx context.Context, name string, data []byte) (*model.SmallImage, error) {
	contentType := http.DetectContentType(data)
	info, err := storage.PutBytes(ctx, s.store, imageKey(name), data, contentType)
	if err != nil {
		return nil, fmt.Errorf("upload to storage: %w", err)
	}
	img := &model.SmallImage{
		Name:        name,
		StoragePath: info.Key,
		ContentType: contentType,
		Size:        int64(len(data)),
		CreatedAt:   s.now().UTC(),
	}
	if err := s.repo.Save(ctx, img); err != nil {
		if delErr := s.store.Delete(ctx, info.Key); delErr != nil {
			return nil, fmt.Errorf("db save failed: %v; rollback delete failed: %v", err, delErr)
		}
		return nil, fmt.Errorf("db save failed: %w", err)
	}
	return img, nil
}

func (s *imageFlipService) Upload(ctx context.Context, name string, data []byte) (*model.SmallImage, error) {
	name = strings.TrimSpace(name)
	if name == "" || strings.Contains(name, "/") {
		return nil, fmt.Errorf("%w: image name is required and may not contain '/'", ErrInvalidInput)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: image is empty", ErrInvalidInput)
	}

	img, err := s.save(ctx, name, data)
	if err != nil {
		return nil, err
	}
	// The mapping must exist before a worker can lease the task and post the result back.
	taskName := s.newTaskName()
	if err := s.repo.MapTask(ctx, taskName, name); err != nil {
		return nil, fmt.Errorf("map task: %w", err)
	}
	if _, err := s.queue.Add(ctx, queue.ImageConvert, queue.NewTask{Name: taskName, Payload: data}); err != nil {
		return nil, fmt.Errorf("queue flip task: %w", err)
	}
	return img, nil
}

func (s *imageFlipService) StoreProcessed(ctx context.Context, taskName string, data []byte) (*model.SmallImage, error) {
	if taskName == "" {
		return nil, fmt.Errorf("%w: task name is required", ErrInvalidInput)
	}
	name, err := s.repo.ImageForTask(ctx, taskName)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return s.save(ctx, name+model.ProcessedSuffix, data)
}

func (s *imageFlipService) Open(ctx context.Context, name string) (io.ReadCloser, *model.SmallImage, error) {
	img, err := s.repo.FindByName(ctx, name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, ErrNotFound
		}
		return nil, nil, err
	}
	rc, _, err := s.store.Get(ctx, img.StoragePath)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			return nil, nil, ErrNotFound
		}
		return nil, nil, fmt.Errorf("get from storage: %w", err)
	}
	return rc, img, nil
}

func (s *imageFlipService) exists(ctx context.Context, name string) (bool, error) {
	_, err := s.repo.FindByName(ctx, name)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	return err == nil, err
}

func (s *imageFlipService) Status(ctx context.Context, name string) (*ImageStatus, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: image name is required", ErrInvalidInput)
	}
	st := &ImageStatus{Name: name}
	var err error
	if st.Uploaded, err = s.exists(ctx, name); err != nil {
		return nil, err
	}
	if !st.Uploaded {
		return st, nil
	}
	if st.Processed, err = s.exists(ctx, name+model.ProcessedSuffix); err != nil {
		return nil, err
	}
	return st, nil
}
