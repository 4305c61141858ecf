package types

import (
	"errors"
)

// ErrAuthRequired is returned when a turn needs mailbox context but the
// session carries no Gmail credential.
var ErrAuthRequired = errors.New("gmail authentication required")

// ErrSessionNotFound is returned when no session exists for a given id
var ErrSessionNotFound = errors.New("session not found")

// ErrCacheMiss is returned by cache repositories when no usable entry exists.
// Malformed or stale entries are reported as misses, never as failures.
var ErrCacheMiss = errors.New("cache miss")
