// Package queue implements pull queues: producers add tasks, consumers lease a batch for a fixed
// time and acknowledge each task by deleting it. A task whose lease runs out without being deleted
// is handed out again by a later Lease call.
package queue

import (
	"context"
	"errors"
	"time"

	"appsamples/internal/model"
)

// Queue names used across the samples.
const (
	Votes        = "votes"
	Tally        = "tally"
	Photostitch  = "photostitch"
	ImageConvert = "imageconvert"
)

// MaxLeaseTasks caps a single Lease call.
const MaxLeaseTasks = 1000

var (
	ErrTaskExists    = errors.New("task already exists")
	ErrInvalidLease  = errors.New("lease duration and task count must be positive and within limits")
	ErrQueueRequired = errors.New("queue name is required")
)

// NewTask describes a task to add. Name is generated when empty; Countdown delays availability.
type NewTask struct {
	Name      string
	Payload   []byte
	Tag       string
	Countdown time.Duration
}

// Stats summarizes a queue.
type Stats struct {
	Tasks  int `json:"tasks"`
	Leased int `json:"leased"`
}

// Queue is the pull-queue contract shared by services and workers.
type Queue interface {
	// Add enqueues tasks and returns them as stored.
	Add(ctx context.Context, queue string, tasks ...NewTask) ([]model.Task, error)
	// Lease claims up to max available tasks for the given duration.
	Lease(ctx context.Context, queue string, lease time.Duration, max int) ([]model.Task, error)
	// Delete acknowledges tasks by name. Unknown names are ignored.
	Delete(ctx context.Context, queue string, names ...string) error
	// Purge removes every task of the queue and returns how many were removed.
	Purge(ctx context.Context, queue string) (int64, error)
	// Stats reports task and lease counts.
	Stats(ctx context.Context, queue string) (Stats, error)
}

// TaskNames extracts the names of leased tasks for Delete.
func TaskNames(tasks []model.Task) []string {
	names := make([]string, len(tasks))
	for i, t := range tasks {
		names[i] = t.Name
	}
	return names
}
