package store

import "context"

// NullStore discards runs.
type NullStore struct{}

// NewNullStore creates a store that records nothing.
func NewNullStore() Store {
	return NullStore{}
}

// Save does nothing.
func (NullStore) Save(context.Context, *Run) error { return nil }

// Get always reports RUN_NOT_FOUND.
func (NullStore) Get(_ context.Context, id string) (*Run, error) { return nil, notFound(id) }

// List returns no runs.
func (NullStore) List(context.Context, int) ([]*Run, error) { return nil, nil }

// Close does nothing.
func (NullStore) Close() error { return nil }

var _ Store = NullStore{}
