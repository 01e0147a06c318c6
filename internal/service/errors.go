package service

import "errors"

var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidInput = errors.New("invalid input")
	ErrForbidden    = errors.New("forbidden")
	ErrUnauthorized = errors.New("login required")
	// ErrQueueEmpty ends a tally loop that found nothing to lease.
	ErrQueueEmpty = errors.New("queue is empty")
	ErrNoImages   = errors.New("archive contains no images")
)
