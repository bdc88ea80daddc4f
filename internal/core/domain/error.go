package domain

import "errors"

var (
	ErrSnapshotUnavailable = errors.New("presence snapshot unavailable")
	ErrSnapshotCorrupt     = errors.New("presence snapshot corrupt")
	ErrUserNotFound        = errors.New("user not found")
	ErrDirectoryFailure    = errors.New("user directory failure")
	ErrInvalidUserID       = errors.New("invalid user id")
)
