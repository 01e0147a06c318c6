package model

import "time"

// ProcessedSuffix marks the flipped copy of an uploaded image.
const ProcessedSuffix = "_processed"

// SmallImage is an uploaded (or processed) image whose bytes live in object storage.
type SmallImage struct {
	Name        string    `json:"name"`
	StoragePath string    `json:"storage_path"`
	ContentType string    `json:"content_type"`
	Size        int64     `json:"size"`
	CreatedAt   time.Time `json:"created_at"`
}
