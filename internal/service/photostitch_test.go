package service

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/json"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"appsamples/internal/model"
	"appsamples/internal/queue"
	queueMocks "appsamples/internal/queue/mocks"
	"appsamples/internal/storage"
	storeMocks "appsamples/internal/storage/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func buildZip(t *testing.T, files map[string][]byte) *bytes.Reader {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, data := range files {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write(data)
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return bytes.NewReader(buf.Bytes())
}

// recordPuts makes the storage mock accept every Put and remembers the uploaded bytes.
func recordPuts(mStore *storeMocks.MockStorage) map[string][]byte {
	var mu sync.Mutex
	puts := make(map[string][]byte)
	mStore.On("Put", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(func(_ context.Context, key string, r io.Reader, opt storage.PutObjectOptions) storage.ObjectInfo {
			b, _ := io.ReadAll(r)
			mu.Lock()
			puts[key] = b
			mu.Unlock()
			return storage.ObjectInfo{Key: key, Size: int64(len(b)), ContentType: opt.ContentType}
		}, nil)
	return puts
}

func TestPhotostitchService_Submit(t *testing.T) {
	ctx := context.Background()
	now := time.Unix(1300000000, 500000000)

	t.Run("chunks photos and queues the job", func(t *testing.T) {
		mStore := new(storeMocks.MockStorage)
		mQueue := new(queueMocks.MockQueue)
		puts := recordPuts(mStore)

		big := bytes.Repeat([]byte("a"), ChunkSize+10)
		archive := buildZip(t, map[string][]byte{
			"Left Side.JPG": big,
			"notes.txt":     []byte("skip me"),
		})

		var job model.StitchJob
		mQueue.On("Add", ctx, queue.Photostitch, mock.Anything).
			Run(func(args mock.Arguments) {
				tasks := args.Get(2).([]queue.NewTask)
				require.Len(t, tasks, 1)
				require.NoError(t, json.Unmarshal(tasks[0].Payload, &job))
			}).
			Return([]model.Task{{Name: "task-1"}}, nil)

		svc := &photostitchService{store: mStore, queue: mQueue, now: func() time.Time { return now }}
		res, err := svc.Submit(ctx, "ann@example.com", "", archive, archive.Size())

		require.NoError(t, err)
		assert.Equal(t, DefaultBatch, res.Batch)
		assert.Equal(t, "task-1", res.Task)
		assert.Equal(t, "ann@example.com/stitched", job.Base)
		assert.Equal(t, []model.StitchInputFile{{Name: "leftside.jpg", Chunks: []string{"leftside.jpg.0", "leftside.jpg.1"}}}, job.InputFiles)

		assert.Len(t, puts["ann@example.com/stitched/input/leftside.jpg.0"], ChunkSize)
		assert.Len(t, puts["ann@example.com/stitched/input/leftside.jpg.1"], 10)
		assert.Equal(t, "WAITING", string(puts["ann@example.com/stitched/output/stitch.status"]))

		var state model.StitchState
		require.NoError(t, json.Unmarshal(puts["ann@example.com/stitched/output/stitch.state"], &state))
		assert.Equal(t, model.StitchWaiting, state.Status)
		assert.InDelta(t, 1300000000.5, state.UpdateTime, 0.001)
	})

	t.Run("no images", func(t *testing.T) {
		archive := buildZip(t, map[string][]byte{"readme.md": []byte("x")})
		svc := NewPhotostitchService(new(storeMocks.MockStorage), new(queueMocks.MockQueue))

		_, err := svc.Submit(ctx, "ann@example.com", "b1", archive, archive.Size())
		assert.ErrorIs(t, err, ErrNoImages)
	})

	t.Run("bad batch name", func(t *testing.T) {
		archive := buildZip(t, map[string][]byte{"a.jpg": []byte("x")})
		svc := NewPhotostitchService(new(storeMocks.MockStorage), new(queueMocks.MockQueue))

		_, err := svc.Submit(ctx, "ann@example.com", "../etc", archive, archive.Size())
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("not a zip", func(t *testing.T) {
		r := strings.NewReader("plain text")
		svc := NewPhotostitchService(new(storeMocks.MockStorage), new(queueMocks.MockQueue))

		_, err := svc.Submit(ctx, "ann@example.com", "b1", r, r.Size())
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("login required", func(t *testing.T) {
		svc := NewPhotostitchService(new(storeMocks.MockStorage), new(queueMocks.MockQueue))
		_, err := svc.Submit(ctx, "", "b1", strings.NewReader(""), 0)
		assert.ErrorIs(t, err, ErrUnauthorized)
	})
}

func TestPhotostitchService_Batches(t *testing.T) {
	ctx := context.Background()
	mStore := new(storeMocks.MockStorage)

	mStore.On("ListPrefixes", ctx, "ann@example.com/").
		Return([]string{"ann@example.com/old/", "ann@example.com/new/", "ann@example.com/pending/"}, nil)
	mStore.On("Get", ctx, "ann@example.com/old/output/stitch.state").
		Return(io.NopCloser(strings.NewReader(`{"status":"DONE","update_time":10}`)), storage.ObjectInfo{}, nil)
	mStore.On("Get", ctx, "ann@example.com/new/output/stitch.state").
		Return(io.NopCloser(strings.NewReader(`{"status":"STITCHING","update_time":20}`)), storage.ObjectInfo{}, nil)
	mStore.On("Get", ctx, "ann@example.com/pending/output/stitch.state").
		Return(nil, storage.ObjectInfo{}, storage.ErrObjectNotFound)

	batches, err := NewPhotostitchService(mStore, nil).Batches(ctx, "ann@example.com")

	require.NoError(t, err)
	require.Len(t, batches, 3)
	assert.Equal(t, "new", batches[0].Name)
	assert.Equal(t, "old", batches[1].Name)
	assert.Equal(t, model.StitchState{Name: "pending", Status: model.StitchWaiting}, batches[2])
}

func TestPhotostitchService_Link(t *testing.T) {
	ctx := context.Background()
	mStore := new(storeMocks.MockStorage)
	mStore.On("PresignGet", ctx, "ann@example.com/b1/output/stitch.jpg", time.Hour).Return("https://s3/x", nil)

	svc := NewPhotostitchService(mStore, nil)

	url, err := svc.Link(ctx, "ann@example.com", "b1", "stitch.jpg")
	require.NoError(t, err)
	assert.Equal(t, "https://s3/x", url)

	_, err = svc.Link(ctx, "ann@example.com", "b1", "../secret")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestBatchName(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"", DefaultBatch, false},
		{"trip_2011", "trip_2011", false},
		{"with space", "", true},
		{"a/b", "", true},
	}
	for _, tt := range tests {
		got, err := BatchName(tt.in)
		if tt.wantErr {
			assert.ErrorIs(t, err, ErrInvalidInput, tt.in)
			continue
		}
		assert.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}
}
