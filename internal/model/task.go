package model

import "time"

// Task is a pull-queue item. LeaseExpires is zero while the task is not leased.
type Task struct {
	Name         string    `json:"name"`
	Queue        string    `json:"queue"`
	Payload      []byte    `json:"payload"`
	Tag          string    `json:"tag,omitempty"`
	ETA          time.Time `json:"eta"`
	LeaseExpires time.Time `json:"lease_expires,omitempty"`
	RetryCount   int       `json:"retry_count"`
	CreatedAt    time.Time `json:"created_at"`
}
