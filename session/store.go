// Package session holds the single shared assistant state. Every request
// handler reads and writes the same Store, so all mutation goes through
// named transitions guarded by one mutex.
package session

import (
	"sync"

	"go.uber.org/zap"

	"github.com/xoraxteam900-star/danielai/models"
)

// Store is the process-wide session state. Exactly one instance exists for
// the lifetime of the process; it is never persisted.
type Store struct {
	mu sync.Mutex

	cameraEnabled       bool
	micMuted            bool
	lastRoomDescription string
	lastMessiness       *models.MessinessResult
	initialized         bool

	logger *zap.Logger
}

func NewStore(logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.L()
	}
	return &Store{logger: logger}
}

// MarkReady records that startup initialization has completed.
func (s *Store) MarkReady() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.initialized = true
}

// SetCameraEnabled flips the camera toggle.
func (s *Store) SetCameraEnabled(enabled bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cameraEnabled = enabled
	s.logger.Info("Camera state changed", zap.Bool("enabled", enabled))
}

// SetMicMuted flips the microphone toggle.
func (s *Store) SetMicMuted(muted bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.micMuted = muted
	s.logger.Info("Mic state changed", zap.Bool("muted", muted))
}

// CameraEnabled reads the camera toggle.
func (s *Store) CameraEnabled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cameraEnabled
}

// UpdateRoomCache overwrites the cached room analysis. Description and
// messiness are always written together: an empty description clears the
// messiness record as well, so one is never present without the other.
func (s *Store) UpdateRoomCache(description string, messiness *models.MessinessResult) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if description == "" {
		s.lastRoomDescription = ""
		s.lastMessiness = nil
		return
	}

	s.lastRoomDescription = description
	if messiness != nil {
		m := *messiness
		s.lastMessiness = &m
	} else {
		// Non-empty description must carry a messiness record.
		s.lastMessiness = &models.MessinessResult{Level: models.LevelClean}
	}
	s.logger.Debug("Room cache updated",
		zap.String("description", description),
		zap.Int("score", s.lastMessiness.Score))
}

// RoomCache returns the cached description and messiness, copies only.
func (s *Store) RoomCache() (string, *models.MessinessResult) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.lastMessiness == nil {
		return s.lastRoomDescription, nil
	}
	m := *s.lastMessiness
	return s.lastRoomDescription, &m
}

// Snapshot returns a consistent copy of the whole state.
func (s *Store) Snapshot() models.Status {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := models.Status{
		CameraEnabled:       s.cameraEnabled,
		MicMuted:            s.micMuted,
		LastRoomDescription: s.lastRoomDescription,
		Initialized:         s.initialized,
	}
	if s.lastMessiness != nil {
		m := *s.lastMessiness
		st.LastMessiness = &m
	}
	return st
}
