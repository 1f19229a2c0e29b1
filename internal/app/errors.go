package service

import "errors"

// Sentinel kinds for submission errors.
var (
	ErrNotStarted    = errors.New("service not started")
	ErrStopped       = errors.New("service stopped")
	ErrQueueFull     = errors.New("writer queue full")
	ErrSubmitTimeout = errors.New("timed out waiting for the writer")
)
