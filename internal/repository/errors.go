package repository

import "errors"

var (
	// ErrNotFound is returned by repositories when the requested row is
	// absent. Callers match it with errors.Is.
	ErrNotFound = errors.New("not found")

	// ErrDuplicate is returned when an insert or update violates a unique
	// constraint.
	ErrDuplicate = errors.New("duplicate")
)
