// Package repository defines the week capture store interface and errors.
package repository

import (
	"context"

	"github.com/okian/liga/internal/domain/week"
)

// Revision is an opaque token identifying a stored capture version.
// Callers pass the revision they last read; a save with a stale
// revision is rejected so concurrent writers cannot clobber each other.
type Revision string

// Store provides read/write access to stored week captures.
type Store interface {
	// Load returns the capture stored under key together with its
	// current revision. Returns ErrNotFound if the key is unknown.
	Load(ctx context.Context, key string) (week.Capture, Revision, error)

	// Save persists the capture under key. For an existing key the
	// expected revision must match the stored one; for a new key it
	// must be empty. Returns the new revision on success and
	// ErrRevisionConflict on a stale expected revision.
	Save(ctx context.Context, key string, capture week.Capture, expected Revision) (Revision, error)

	// Keys returns all stored keys in unspecified order.
	Keys(ctx context.Context) ([]string, error)

	// Count returns the number of captures in the store.
	Count(ctx context.Context) int
}
