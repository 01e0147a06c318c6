package service

import (
	"archive/zip"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path"
	"regexp"
	"sort"
	"strings"
	"time"

	"appsamples/internal/model"
	"appsamples/internal/queue"
	"appsamples/internal/storage"
)

const (
	// ChunkSize is the size of one stored piece of an input photo.
	ChunkSize = 512 * 1024
	// DefaultBatch names a batch submitted without one.
	DefaultBatch = "stitched"

	// StateFile and StatusFile live in a batch's output directory.
	StateFile  = "stitch.state"
	StatusFile = "stitch.status"
	LogFile    = "stitch.log"

	maxPhotoBytes = 64 << 20
	linkExpiry    = time.Hour
)

var batchNameRe = regexp.MustCompile(`^\w+$`)

// SubmitResult describes an accepted stitch request.
type SubmitResult struct {
	Batch string          `json:"batch"`
	Task  string          `json:"task"`
	Job   model.StitchJob `json:"job"`
}

// PhotostitchService defines the request side of the stitcher.
type PhotostitchService interface {
	// Submit splits every JPEG in the zip archive into chunks, publishes a WAITING state and queues the job.
	Submit(ctx context.Context, email, batch string, archive io.ReaderAt, size int64) (*SubmitResult, error)
	// Batches lists the user's batches, most recently updated first.
	Batches(ctx context.Context, email string) ([]model.StitchState, error)
	// Link returns a short-lived download URL for a file in a batch's output directory.
	Link(ctx context.Context, email, batch, file string) (string, error)
}

type photostitchService struct {
	store storage.Storage
	queue queue.Queue
	now   func() time.Time
}

// NewPhotostitchService constructs a new PhotostitchService.
func NewPhotostitchService(store storage.Storage, q queue.Queue) PhotostitchService {
	return &photostitchService{store: store, queue: q, now: time.Now}
}

// BatchName validates a batch name, defaulting empty names.
func BatchName(batch string) (string, error) {
	if batch == "" {
		return DefaultBatch, nil
	}
	if !batchNameRe.MatchString(batch) {
		return "", fmt.Errorf("%w: batch name must be letters, digits or underscores", ErrInvalidInput)
	}
	return batch, nil
}

// photoName normalizes an archive entry name; ok is false for entries that are not JPEG files.
func photoName(entry string) (string, bool) {
	name := strings.ReplaceAll(strings.ToLower(path.Base(entry)), " ", "")
	switch path.Ext(name) {
	case ".jpg", ".jpeg":
	default:
		return "", false
	}
	if strings.HasPrefix(name, ".") {
		return "", false
	}
	return name, true
}

// UnixSeconds renders t as fractional seconds, the update_time format of state documents.
func UnixSeconds(t time.Time) float64 {
	return float64(t.UnixNano()) / float64(time.Second)
}

func batchBase(email, batch string) string {
	return email + "/" + batch
}

func (s *photostitchService) Submit(ctx context.Context, email, batch string, archive io.ReaderAt, size int64) (*SubmitResult, error) {
	if email == "" {
		return nil, ErrUnauthorized
	}
	if archive == nil {
		return nil, fmt.Errorf("%w: archive is required", ErrInvalidInput)
	}
	batch, err := BatchName(batch)
	if err != nil {
		return nil, err
	}

	zr, err := zip.NewReader(archive, size)
	if err != nil {
		return nil, fmt.Errorf("%w: not a zip archive: %v", ErrInvalidInput, err)
	}

	type photo struct {
		name string
		file *zip.File
	}
	seen := make(map[string]bool)
	var photos []photo
	for _, f := range zr.File {
		if f.FileInfo().IsDir() {
			continue
		}
		name, ok := photoName(f.Name)
		if !ok || seen[name] {
			continue
		}
		seen[name] = true
		photos = append(photos, photo{name: name, file: f})
	}
	if len(photos) == 0 {
		return nil, ErrNoImages
	}

	base := batchBase(email, batch)
	job := model.StitchJob{Base: base}
	for _, p := range photos {
		chunks, err := s.uploadChunks(ctx, base, p.name, p.file)
		if err != nil {
			return nil, err
		}
		job.InputFiles = append(job.InputFiles, model.StitchInputFile{Name: p.name, Chunks: chunks})
	}

	if err := WriteStitchState(ctx, s.store, base, model.StitchState{
		Status:     model.StitchWaiting,
		UpdateTime: UnixSeconds(s.now()),
	}); err != nil {
		return nil, err
	}

	payload, err := json.Marshal(job)
	if err != nil {
		return nil, fmt.Errorf("encode job: %w", err)
	}
	tasks, err := s.queue.Add(ctx, queue.Photostitch, queue.NewTask{Payload: payload})
	if err != nil {
		return nil, fmt.Errorf("queue stitch job: %w", err)
	}
	return &SubmitResult{Batch: batch, Task: tasks[0].Name, Job: job}, nil
}

func (s *photostitchService) uploadChunks(ctx context.Context, base, name string, f *zip.File) ([]string, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %v", ErrInvalidInput, f.Name, err)
	}
	defer rc.Close()

	data, err := io.ReadAll(io.LimitReader(rc, maxPhotoBytes+1))
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", ErrInvalidInput, f.Name, err)
	}
	if len(data) > maxPhotoBytes {
		return nil, fmt.Errorf("%w: %s is larger than %d bytes", ErrInvalidInput, f.Name, maxPhotoBytes)
	}

	var chunks []string
	for part, off := 0, 0; off < len(data); part, off = part+1, off+ChunkSize {
		end := min(off+ChunkSize, len(data))
		chunk := fmt.Sprintf("%s.%d", name, part)
		key := base + "/input/" + chunk
		if _, err := storage.PutBytes(ctx, s.store, key, data[off:end], "application/octet-stream"); err != nil {
			return nil, fmt.Errorf("upload to storage: %w", err)
		}
		chunks = append(chunks, chunk)
	}
	return chunks, nil
}

func (s *photostitchService) Batches(ctx context.Context, email string) ([]model.StitchState, error) {
	if email == "" {
		return nil, ErrUnauthorized
	}
	prefixes, err := s.store.ListPrefixes(ctx, email+"/")
	if err != nil {
		return nil, fmt.Errorf("list batches: %w", err)
	}

	batches := make([]model.StitchState, 0, len(prefixes))
	for _, p := range prefixes {
		name := strings.TrimSuffix(strings.TrimPrefix(p, email+"/"), "/")
		if name == "" {
			continue
		}
		state, err := ReadStitchState(ctx, s.store, batchBase(email, name))
		if err != nil {
			return nil, err
		}
		state.Name = name
		batches = append(batches, *state)
	}
	sort.SliceStable(batches, func(i, j int) bool {
		return batches[i].UpdateTime > batches[j].UpdateTime
	})
	return batches, nil
}

func (s *photostitchService) Link(ctx context.Context, email, batch, file string) (string, error) {
	if email == "" {
		return "", ErrUnauthorized
	}
	if _, err := BatchName(batch); err != nil || batch == "" {
		return "", fmt.Errorf("%w: bad batch", ErrInvalidInput)
	}
	if file == "" || strings.Contains(file, "/") {
		return "", fmt.Errorf("%w: bad file name", ErrInvalidInput)
	}
	return s.store.PresignGet(ctx, batchBase(email, batch)+"/output/"+file, linkExpiry)
}

// WriteStitchState publishes the state document and the bare status of a batch.
func WriteStitchState(ctx context.Context, store storage.Storage, base string, state model.StitchState) error {
	state.Name = ""
	b, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("encode state: %w", err)
	}
	out := base + "/output/"
	if _, err := storage.PutBytes(ctx, store, out+StateFile, b, "application/json"); err != nil {
		return fmt.Errorf("write state: %w", err)
	}
	if _, err := storage.PutBytes(ctx, store, out+StatusFile, []byte(state.Status), "text/plain"); err != nil {
		return fmt.Errorf("write status: %w", err)
	}
	return nil
}

// ReadStitchState loads a batch's state; a batch without one is still WAITING.
func ReadStitchState(ctx context.Context, store storage.Storage, base string) (*model.StitchState, error) {
	b, _, err := storage.ReadAll(ctx, store, base+"/output/"+StateFile)
	if errors.Is(err, storage.ErrObjectNotFound) {
		return &model.StitchState{Status: model.StitchWaiting}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read state: %w", err)
	}
	var state model.StitchState
	if err := json.Unmarshal(b, &state); err != nil {
		return nil, fmt.Errorf("decode state: %w", err)
	}
	return &state, nil
}
