package service

import "errors"

var (
	ErrNotConfigured = errors.New("not configured")
	ErrPostNotFound  = errors.New("post not found")
	ErrInvalidInput  = errors.New("invalid input")
	ErrUpstream      = errors.New("upstream error")
	// ErrPublishInProgress means another publisher holds the post.
	ErrPublishInProgress = errors.New("publish already in progress")
)
