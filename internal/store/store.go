// Package store persists webhook contexts in a local config file.
package store

import (
	"errors"

	"github.com/alfredjeanlab/dsm/internal/model"
)

var ErrNotFound = errors.New("context not found")

// Store defines the persistence interface for contexts.
type Store interface {
	// Get returns the stored context with the given name.
	Get(name string) (*model.Context, bool)
	// Resolve returns the named context, creating it from the default
	// template when it does not exist yet.
	Resolve(name string) (*model.Context, error)
	Delete(name string) error
	List() []*model.Context

	// Save writes every pending change back to disk.
	Save() error
}
