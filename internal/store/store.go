// Package store provides versioned per-session key/value storage backed by SQLite.
package store

import (
	"context"
	"errors"

	"github.com/rcliao/product-support/internal/model"
)

// ErrNotFound is returned when a session key has no live version.
var ErrNotFound = errors.New("entry not found")

// PutParams holds parameters for storing a value.
type PutParams struct {
	Session string
	Key     string
	Value   string
}

// GetParams holds parameters for retrieving a value.
type GetParams struct {
	Session string
	Key     string
	History bool
	Version int // 0 means latest
}

// ListParams holds parameters for listing the latest values.
type ListParams struct {
	Session string
	Limit   int
}

// RmParams holds parameters for deleting a value.
type RmParams struct {
	Session     string
	Key         string
	AllVersions bool
	Hard        bool
}

// Store defines the session storage interface.
type Store interface {
	// Put stores a new version of a key. Returns the created entry.
	Put(ctx context.Context, p PutParams) (*model.Entry, error)

	// PutBatch stores several values in one transaction.
	PutBatch(ctx context.Context, ps []PutParams) ([]model.Entry, error)

	// Get retrieves a value by session and key.
	// Returns a slice (single element normally, multiple with History=true).
	Get(ctx context.Context, p GetParams) ([]model.Entry, error)

	// List lists the latest version of each key.
	List(ctx context.Context, p ListParams) ([]model.Entry, error)

	// Rm soft-deletes (or hard-deletes) a value.
	Rm(ctx context.Context, p RmParams) error

	// Close closes the store.
	Close() error
}
