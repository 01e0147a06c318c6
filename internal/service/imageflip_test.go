package service

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"strings"
	"testing"

	"appsamples/internal/model"
	"appsamples/internal/queue"
	queueMocks "appsamples/internal/queue/mocks"
	repoMocks "appsamples/internal/repository/mocks"
	"appsamples/internal/storage"
	storeMocks "appsamples/internal/storage/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n0000")

func TestImageFlipService_Upload(t *testing.T) {
	ctx := context.Background()

	t.Run("stores, queues and maps the task", func(t *testing.T) {
		mStore := new(storeMocks.MockStorage)
		mRepo := new(repoMocks.MockImageRepository)
		mQueue := new(queueMocks.MockQueue)

		mStore.On("Put", ctx, "images/cat", mock.Anything, storage.PutObjectOptions{Size: int64(len(pngHeader)), ContentType: "image/png"}).
			Return(storage.ObjectInfo{Key: "images/cat"}, nil)
		mRepo.On("Save", ctx, mock.MatchedBy(func(img *model.SmallImage) bool {
			return img.Name == "cat" && img.StoragePath == "images/cat" && img.ContentType == "image/png"
		})).Return(nil)
		var mapped bool
		mRepo.On("MapTask", ctx, "task-9", "cat").Run(func(mock.Arguments) { mapped = true }).Return(nil)
		mQueue.On("Add", ctx, queue.ImageConvert, []queue.NewTask{{Name: "task-9", Payload: pngHeader}}).
			Run(func(mock.Arguments) { assert.True(t, mapped, "task queued before its image mapping") }).
			Return([]model.Task{{Name: "task-9"}}, nil)

		svc := NewImageFlipService(mStore, mRepo, mQueue).(*imageFlipService)
		svc.newTaskName = func() string { return "task-9" }
		img, err := svc.Upload(ctx, " cat ", pngHeader)

		require.NoError(t, err)
		assert.Equal(t, "cat", img.Name)
		mRepo.AssertExpectations(t)
		mQueue.AssertExpectations(t)
	})

	t.Run("mapping failure queues nothing", func(t *testing.T) {
		mStore := new(storeMocks.MockStorage)
		mRepo := new(repoMocks.MockImageRepository)
		mQueue := new(queueMocks.MockQueue)

		mStore.On("Put", ctx, "images/cat", mock.Anything, mock.Anything).Return(storage.ObjectInfo{Key: "images/cat"}, nil)
		mRepo.On("Save", ctx, mock.Anything).Return(nil)
		mRepo.On("MapTask", ctx, mock.AnythingOfType("string"), "cat").Return(errors.New("db fail"))

		_, err := NewImageFlipService(mStore, mRepo, mQueue).Upload(ctx, "cat", pngHeader)

		assert.EqualError(t, err, "map task: db fail")
		mQueue.AssertNotCalled(t, "Add", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("db failure removes the object", func(t *testing.T) {
		mStore := new(storeMocks.MockStorage)
		mRepo := new(repoMocks.MockImageRepository)

		mStore.On("Put", ctx, "images/cat", mock.Anything, mock.Anything).Return(storage.ObjectInfo{Key: "images/cat"}, nil)
		mRepo.On("Save", ctx, mock.Anything).Return(errors.New("db fail"))
		mStore.On("Delete", ctx, "images/cat").Return(nil)

		_, err := NewImageFlipService(mStore, mRepo, new(queueMocks.MockQueue)).Upload(ctx, "cat", pngHeader)

		assert.EqualError(t, err, "db save failed: db fail")
		mStore.AssertExpectations(t)
	})

	t.Run("validation", func(t *testing.T) {
		svc := NewImageFlipService(nil, nil, nil)

		_, err := svc.Upload(ctx, "", pngHeader)
		assert.ErrorIs(t, err, ErrInvalidInput)
		_, err = svc.Upload(ctx, "a/b", pngHeader)
		assert.ErrorIs(t, err, ErrInvalidInput)
		_, err = svc.Upload(ctx, "cat", nil)
		assert.ErrorIs(t, err, ErrInvalidInput)
	})
}

func TestImageFlipService_StoreProcessed(t *testing.T) {
	ctx := context.Background()

	t.Run("stores under the processed name", func(t *testing.T) {
		mStore := new(storeMocks.MockStorage)
		mRepo := new(repoMocks.MockImageRepository)

		mRepo.On("ImageForTask", ctx, "task-9").Return("cat", nil)
		mStore.On("Put", ctx, "images/cat_processed", mock.Anything, mock.Anything).
			Return(storage.ObjectInfo{Key: "images/cat_processed"}, nil)
		mRepo.On("Save", ctx, mock.MatchedBy(func(img *model.SmallImage) bool { return img.Name == "cat_processed" })).Return(nil)

		img, err := NewImageFlipService(mStore, mRepo, nil).StoreProcessed(ctx, "task-9", pngHeader)

		require.NoError(t, err)
		assert.Equal(t, "cat_processed", img.Name)
	})

	t.Run("unknown task", func(t *testing.T) {
		mRepo := new(repoMocks.MockImageRepository)
		mRepo.On("ImageForTask", ctx, "nope").Return("", sql.ErrNoRows)

		_, err := NewImageFlipService(nil, mRepo, nil).StoreProcessed(ctx, "nope", pngHeader)
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestImageFlipService_OpenAndStatus(t *testing.T) {
	ctx := context.Background()
	mStore := new(storeMocks.MockStorage)
	mRepo := new(repoMocks.MockImageRepository)

	mRepo.On("FindByName", ctx, "cat").Return(&model.SmallImage{Name: "cat", StoragePath: "images/cat", ContentType: "image/png"}, nil)
	mRepo.On("FindByName", ctx, "cat_processed").Return(nil, sql.ErrNoRows)
	mRepo.On("FindByName", ctx, "dog").Return(nil, sql.ErrNoRows)
	mStore.On("Get", ctx, "images/cat").Return(io.NopCloser(strings.NewReader("bytes")), storage.ObjectInfo{}, nil)

	svc := NewImageFlipService(mStore, mRepo, nil)

	rc, img, err := svc.Open(ctx, "cat")
	require.NoError(t, err)
	b, _ := io.ReadAll(rc)
	assert.Equal(t, "bytes", string(b))
	assert.Equal(t, "image/png", img.ContentType)

	_, _, err = svc.Open(ctx, "dog")
	assert.ErrorIs(t, err, ErrNotFound)

	st, err := svc.Status(ctx, "cat")
	require.NoError(t, err)
	assert.Equal(t, &ImageStatus{Name: "cat", Uploaded: true}, st)

	st, err = svc.Status(ctx, "dog")
	require.NoError(t, err)
	assert.False(t, st.Uploaded)
}
