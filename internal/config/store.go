// Package config persists the codec's startup volume and gain levels.
package config

import "github.com/pamir-ai/aic3204-go/internal/models"

// Store is the interface for persisting the last-set levels so they survive
// a restart. Implementations may debounce rapid saves.
type Store interface {
	// Load loads the stored levels. Returns DefaultStatus if nothing is stored.
	Load() (*models.Status, error)

	// Save persists the levels.
	Save(status *models.Status) error

	// Path returns the file path used by this store, or "" for in-memory stores.
	Path() string

	// Flush forces an immediate write of any pending save.
	Flush() error
}
