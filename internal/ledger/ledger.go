// Package ledger owns the user's point balance and lifetime-earned counter.
// It keeps an in-memory mirror of the singleton user record, updated only
// after a store write succeeds (write-then-apply). External changes are
// reconciled by replacing the mirror wholesale.
package ledger

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/pontosapp/pontos/internal/model"
	"github.com/pontosapp/pontos/internal/store"
)

var (
	// ErrNotLoaded indicates a ledger operation before the user record was fetched.
	ErrNotLoaded = errors.New("user settings not loaded")

	// ErrInvalidPoints indicates a negative or non-positive points argument.
	ErrInvalidPoints = errors.New("invalid points value")
)

type Service struct {
	users  *store.UserSettingsStore
	logger *slog.Logger

	mu       sync.Mutex
	settings *model.UserSettings
}

func NewService(users *store.UserSettingsStore, logger *slog.Logger) *Service {
	return &Service{users: users, logger: logger}
}

// Refresh re-reads the singleton user record and replaces the mirror
// unconditionally. Used at startup and for manual reconciliation.
func (s *Service) Refresh() error {
	settings, err := s.users.Get()
	if err != nil {
		return fmt.Errorf("refresh user settings: %w", err)
	}
	if settings == nil {
		return ErrNotLoaded
	}

	s.mu.Lock()
	s.settings = settings
	s.mu.Unlock()
	return nil
}

// Apply replaces the mirror with the given row. Last write wins; no merge
// with any in-flight mutation is attempted.
func (s *Service) Apply(settings *model.UserSettings) {
	if settings == nil {
		return
	}
	s.mu.Lock()
	s.settings = settings
	s.mu.Unlock()
}

// Snapshot returns a copy of the mirrored user record, or nil if no record
// has been loaded yet.
func (s *Service) Snapshot() *model.UserSettings {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.settings == nil {
		return nil
	}
	copied := *s.settings
	return &copied
}

// SetPoints overwrites current_points with an absolute value.
func (s *Service) SetPoints(points int) (*model.UserSettings, error) {
	if points < 0 {
		return nil, fmt.Errorf("%w: points must not be negative", ErrInvalidPoints)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.settings == nil {
		return nil, ErrNotLoaded
	}

	updated, err := s.users.SetPoints(s.settings.ID, points)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, store.ErrNotFound
	}
	s.settings = updated
	copied := *updated
	return &copied, nil
}

// AddPoints credits current_points and total_points_earned by the same amount.
func (s *Service) AddPoints(points int) (*model.UserSettings, error) {
	if points <= 0 {
		return nil, fmt.Errorf("%w: points must be positive", ErrInvalidPoints)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.settings == nil {
		return nil, ErrNotLoaded
	}

	updated, err := s.users.AddPoints(s.settings.ID, points)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, store.ErrNotFound
	}
	s.settings = updated
	copied := *updated
	return &copied, nil
}

// SubtractPoints debits current_points. A debit larger than the mirrored
// balance fails with store.ErrInsufficientPoints before any write; the store
// guard catches the case where the mirror was stale.
func (s *Service) SubtractPoints(points int) (*model.UserSettings, error) {
	if points <= 0 {
		return nil, fmt.Errorf("%w: points must be positive", ErrInvalidPoints)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.settings == nil {
		return nil, ErrNotLoaded
	}
	if s.settings.CurrentPoints < points {
		return nil, store.ErrInsufficientPoints
	}

	updated, err := s.users.SubtractPoints(s.settings.ID, points)
	if err != nil {
		if errors.Is(err, store.ErrInsufficientPoints) {
			// Mirror was ahead of the store; re-sync it so the next
			// attempt sees the real balance.
			s.logger.Warn("mirror out of sync with store on subtract", "points", points)
			if fresh, ferr := s.users.Get(); ferr == nil && fresh != nil {
				s.settings = fresh
			}
		}
		return nil, err
	}
	if updated == nil {
		return nil, store.ErrNotFound
	}
	s.settings = updated
	copied := *updated
	return &copied, nil
}
