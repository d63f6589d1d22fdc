package core

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/NikaNal/dept-of-excellence-training/internal/logging"
)

// Observer receives load and submission outcomes, e.g. for metrics.
type Observer interface {
	ObserveLoad(duration time.Duration, stats StoreStats, err error)
	ObserveSubmission(conf Confirmation, err error)
}

type nopObserver struct{}

func (nopObserver) ObserveLoad(time.Duration, StoreStats, error) {}
func (nopObserver) ObserveSubmission(Confirmation, error)        {}

// ServiceConfig configures a Service. Zero values are usable.
type ServiceConfig struct {
	Load        LoadOptions
	Coordinator Coordinator
	Observer    Observer
}

// Service owns the current EntityStore and exposes the request operations.
// The store is swapped atomically; readers always see a complete load.
type Service struct {
	source      FeedSource
	loadOpts    LoadOptions
	coordinator Coordinator
	observer    Observer
	gate        *RefreshGate

	store atomic.Pointer[EntityStore]

	mu          sync.RWMutex
	lastAttempt time.Time
	lastErr     error
}

// NewService creates a Service that loads feeds from src.
// No data is loaded until Refresh is called.
func NewService(src FeedSource, cfg ServiceConfig) (*Service, error) {
	if src == nil {
		return nil, errors.New("feed source is required")
	}

	s := &Service{
		source:      src,
		loadOpts:    cfg.Load,
		coordinator: cfg.Coordinator,
		observer:    cfg.Observer,
		gate:        NewRefreshGate(),
	}
	if s.coordinator.Now == nil {
		s.coordinator.Now = time.Now
	}
	if s.observer == nil {
		s.observer = nopObserver{}
	}
	return s, nil
}

// Refresh reloads all feeds and swaps in the new store on success.
// On failure the previous store, if any, stays in effect.
// Returns ErrRefreshInProgress if another refresh is running.
func (s *Service) Refresh(ctx context.Context) (StoreStats, error) {
	if err := s.gate.TryAcquire(); err != nil {
		return StoreStats{}, err
	}
	defer s.gate.Release()

	store, err := s.load(ctx)
	if err != nil {
		return StoreStats{}, err
	}
	return store.Stats(), nil
}

// load runs one full load and publishes the result. Callers hold the gate.
func (s *Service) load(ctx context.Context) (*EntityStore, error) {
	logger := logging.FromContext(ctx)
	start := time.Now()

	store, err := LoadEntities(ctx, s.source, s.loadOpts)
	duration := time.Since(start)

	s.mu.Lock()
	s.lastAttempt = start
	s.lastErr = err
	s.mu.Unlock()

	if err != nil {
		s.observer.ObserveLoad(duration, StoreStats{}, err)
		logger.Error("data load failed",
			"duration_ms", duration.Milliseconds(),
			"error", err,
			"keeping_previous", s.store.Load() != nil,
		)
		return nil, err
	}

	s.store.Store(store)

	stats := store.Stats()
	s.observer.ObserveLoad(duration, stats, nil)
	logger.Info("data loaded",
		"load_id", stats.LoadID,
		"schools", stats.Schools,
		"resource_persons", stats.ResourcePersons,
		"topics", stats.Topics,
		"duration_ms", duration.Milliseconds(),
	)
	return store, nil
}

// Store returns the current entity store, or nil before the first load.
func (s *Service) Store() *EntityStore {
	return s.store.Load()
}

// Ready reports whether a store has been loaded.
func (s *Service) Ready() bool {
	return s.store.Load() != nil
}

// Topics returns the selectable topics in feed order.
func (s *Service) Topics() ([]string, error) {
	store := s.Store()
	if store == nil {
		return nil, ErrDataUnavailable
	}
	return store.Topics, nil
}

// LookupSchool resolves a school code against the current store.
func (s *Service) LookupSchool(code string) (School, error) {
	store := s.Store()
	if store == nil {
		return School{}, ErrDataUnavailable
	}
	school, ok := store.FindSchool(code)
	if !ok {
		return School{}, &ValidationError{Field: "schoolCode", Value: code, Err: ErrSchoolNotFound}
	}
	return school, nil
}

// Submit validates req and assigns trainers using the current store.
func (s *Service) Submit(ctx context.Context, req TrainingRequest) (Confirmation, error) {
	logger := logging.WithFields(ctx, "school_code", req.SchoolCode, "topic", req.Topic)

	conf, err := s.coordinator.Submit(req, s.Store())
	s.observer.ObserveSubmission(conf, err)

	if err != nil {
		logger.Info("training request rejected", "reason", err.Error())
		return Confirmation{}, err
	}

	logger.Info("training request assigned",
		"confirmation_id", conf.RequestID.String(),
		"district", conf.School.District,
		"primary", conf.Assignment.Primary.Person.Name,
		"primary_tier", conf.Assignment.Primary.Tier.String(),
		"secondary", conf.Assignment.Secondary.Person.Name,
		"secondary_tier", conf.Assignment.Secondary.Tier.String(),
	)
	return conf, nil
}

// ServiceStatus is a snapshot of the service state for monitoring.
type ServiceStatus struct {
	Ready       bool       `json:"ready"`
	Refreshing  bool       `json:"refreshing"`
	Store       StoreStats `json:"store"`
	LastAttempt time.Time  `json:"lastAttempt"`
	LastError   string     `json:"lastError,omitempty"`
}

// Status returns the current service state.
func (s *Service) Status() ServiceStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st := ServiceStatus{
		Ready:       s.Ready(),
		Refreshing:  s.gate.Active(),
		Store:       s.Store().Stats(),
		LastAttempt: s.lastAttempt,
	}
	if s.lastErr != nil {
		st.LastError = s.lastErr.Error()
	}
	return st
}
