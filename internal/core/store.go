package core

import (
	"time"

	"github.com/google/uuid"
)

// EntityStore is one complete, immutable load of the three feeds.
// A refresh builds a new store; it never mutates an existing one.
type EntityStore struct {
	LoadID          uuid.UUID
	LoadedAt        time.Time
	Schools         []School
	ResourcePersons []ResourcePerson
	Topics          []string
}

// NewEntityStore wraps already-mapped collections in a store.
func NewEntityStore(schools []School, rps []ResourcePerson, topics []string) *EntityStore {
	return &EntityStore{
		LoadID:          uuid.New(),
		LoadedAt:        time.Now(),
		Schools:         schools,
		ResourcePersons: rps,
		Topics:          topics,
	}
}

// FindSchool looks up a school by code in this store.
func (s *EntityStore) FindSchool(code string) (School, bool) {
	if s == nil {
		return School{}, false
	}
	return FindByCode(s.Schools, code)
}

// StoreStats summarises a store for status reporting.
type StoreStats struct {
	LoadID          string    `json:"loadId"`
	LoadedAt        time.Time `json:"loadedAt"`
	Schools         int       `json:"schools"`
	ResourcePersons int       `json:"resourcePersons"`
	Topics          int       `json:"topics"`
}

// Stats returns counts for the store.
func (s *EntityStore) Stats() StoreStats {
	if s == nil {
		return StoreStats{}
	}
	return StoreStats{
		LoadID:          s.LoadID.String(),
		LoadedAt:        s.LoadedAt,
		Schools:         len(s.Schools),
		ResourcePersons: len(s.ResourcePersons),
		Topics:          len(s.Topics),
	}
}
