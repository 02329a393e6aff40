package util

import "errors"

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrEmailRegistered   = errors.New("email already registered")
	ErrPermissionDenied  = errors.New("permission denied")
	ErrQuizNotFound      = errors.New("quiz not found")
	ErrAttemptNotFound   = errors.New("attempt not found")
	ErrShareNotFound     = errors.New("share link not found or expired")
	ErrInvalidMode       = errors.New("invalid quiz generation mode")
	ErrTopicRequired     = errors.New("topic is required for 'prompt' mode")
	ErrFileRequired      = errors.New("file is required for 'document' mode")
	ErrUnsupportedFormat = errors.New("unsupported file format")
	ErrFileTooLarge      = errors.New("file too large")
	ErrEmptyDocument     = errors.New("no text content found in the document")
	ErrInvalidResponses  = errors.New("invalid responses format")
)
