package config

import (
	"sync"

	"github.com/pamir-ai/aic3204-go/internal/models"
)

// MemStore is an in-memory Store for tests.
type MemStore struct {
	mu     sync.Mutex
	status *models.Status
	saves  int
}

// NewMemStore creates an empty in-memory store.
func NewMemStore() *MemStore { return &MemStore{} }

func (s *MemStore) Load() (*models.Status, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.status == nil {
		def := models.DefaultStatus()
		return &def, nil
	}
	copy := *s.status
	return &copy, nil
}

func (s *MemStore) Save(status *models.Status) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copy := *status
	s.status = &copy
	s.saves++
	return nil
}

func (s *MemStore) Path() string { return "" }

func (s *MemStore) Flush() error { return nil }

// Saves returns the number of Save calls, for test assertions.
func (s *MemStore) Saves() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saves
}
