// Package storage contains object storage abstractions for S3-compatible stores. Photostitch chunks,
// stitch outputs and flipper images all live here.
package storage

import (
	"bytes"
	"context"
	"errors"
	"io"
	"time"
)

// ErrObjectNotFound is returned by Get when the key does not exist.
var ErrObjectNotFound = errors.New("object not found")

// PutObjectOptions define optional parameters for uploading objects.
// Size should be the exact number of bytes if known; if unknown, set to -1 and the implementation
// will buffer/chunk as supported by the backend.
type PutObjectOptions struct {
	Size        int64
	ContentType string
	Metadata    map[string]string
}

// ObjectInfo contains basic information about an object in storage.
type ObjectInfo struct {
	Key          string
	Size         int64
	ETag         string
	ContentType  string
	LastModified time.Time
	Metadata     map[string]string
}

// Storage is a reusable, S3-compatible object storage client interface.
type Storage interface {
	// Put uploads an object under the given key using the provided reader and options.
	Put(ctx context.Context, key string, r io.Reader, opt PutObjectOptions) (ObjectInfo, error)
	// Get retrieves an object's content as a streaming reader alongside its info.
	Get(ctx context.Context, key string) (io.ReadCloser, ObjectInfo, error)
	// Delete removes an object by key.
	Delete(ctx context.Context, key string) error
	// PresignGet returns a time-limited URL that can be used to download the object without credentials.
	PresignGet(ctx context.Context, key string, expiry time.Duration) (string, error)
	// List returns objects under prefix. Without recursive, only direct children are returned.
	List(ctx context.Context, prefix string, recursive bool) ([]ObjectInfo, error)
	// ListPrefixes returns the "directories" directly below prefix, each ending in "/".
	ListPrefixes(ctx context.Context, prefix string) ([]string, error)
}

// PutBytes uploads an in-memory payload.
func PutBytes(ctx context.Context, s Storage, key string, b []byte, contentType string) (ObjectInfo, error) {
	return s.Put(ctx, key, bytes.NewReader(b), PutObjectOptions{Size: int64(len(b)), ContentType: contentType})
}

// ReadAll downloads a whole object.
func ReadAll(ctx context.Context, s Storage, key string) ([]byte, ObjectInfo, error) {
	rc, info, err := s.Get(ctx, key)
	if err != nil {
		return nil, ObjectInfo{}, err
	}
	defer rc.Close()
	b, err := io.ReadAll(rc)
	if err != nil {
		return nil, ObjectInfo{}, err
	}
	return b, info, nil
}
