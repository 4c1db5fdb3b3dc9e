package domain

import "errors"

var (
	// ErrSessionExpired indicates the backend rejected the session token.
	// The persisted session has already been cleared when this is returned.
	ErrSessionExpired = errors.New("session expired, please login again")

	// ErrEmptyComment indicates the user submitted an empty comment.
	ErrEmptyComment = errors.New("Comment can not be empty")

	// ErrEmptySymptoms indicates a symptom search with no input.
	ErrEmptySymptoms = errors.New("symptoms cannot be empty")
)
