package services

import (
	"sync"

	"swiftride/pkg/logger"
)

// ConnHandle is the delivery surface of one live push connection.
// *websocket.Client satisfies it.
type ConnHandle interface {
	Send(event string, payload interface{}) error
}

// PresenceService tracks which users currently hold a live push connection.
//
// A reconnect overwrites the previous handle. Disconnect cleanup passes the
// handle being torn down, and the registry only evicts when that handle is
// still the registered one; a stale disconnect arriving after a reconnect
// therefore never knocks the fresh connection offline.
type PresenceService struct {
	mu      sync.RWMutex
	byUser  map[string]ConnHandle
	ownerOf map[ConnHandle]string

	logger *logger.Logger
}

func NewPresenceService(log *logger.Logger) *PresenceService {
	return &PresenceService{
		byUser:  make(map[string]ConnHandle),
		ownerOf: make(map[ConnHandle]string),
		logger:  log,
	}
}

// MarkOnline registers handle as userID's live connection, replacing any
// previous one.
func (s *PresenceService) MarkOnline(userID string, handle ConnHandle) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if old, ok := s.byUser[userID]; ok {
		delete(s.ownerOf, old)
	}
	s.byUser[userID] = handle
	s.ownerOf[handle] = userID

	s.logger.WithField("user_id", userID).Debug("User marked online")
}

// MarkOffline removes the registration owned by handle. A handle that was
// already superseded by a reconnect owns nothing, so its late teardown is a
// no-op and never evicts the fresh connection.
func (s *PresenceService) MarkOffline(handle ConnHandle) {
	s.mu.Lock()
	defer s.mu.Unlock()

	userID, ok := s.ownerOf[handle]
	if !ok {
		return
	}
	delete(s.byUser, userID)
	delete(s.ownerOf, handle)

	s.logger.WithField("user_id", userID).Debug("User marked offline")
}

// Lookup returns the live handle for userID, if any.
func (s *PresenceService) Lookup(userID string) (ConnHandle, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	handle, ok := s.byUser[userID]
	return handle, ok
}

// IsOnline reports whether userID has a live connection.
func (s *PresenceService) IsOnline(userID string) bool {
	_, ok := s.Lookup(userID)
	return ok
}

// OnlineCount returns the number of users currently connected.
func (s *PresenceService) OnlineCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.byUser)
}

// Notify pushes one event to userID if they are online. Delivery is best
// effort: an offline user or a full send buffer is reported, not retried.
func (s *PresenceService) Notify(userID, event string, payload interface{}) bool {
	handle, ok := s.Lookup(userID)
	if !ok {
		return false
	}

	if err := handle.Send(event, payload); err != nil {
		s.logger.WithFields(map[string]interface{}{
			"user_id": userID,
			"event":   event,
		}).WithError(err).Warn("Failed to push event to user")
		return false
	}

	return true
}
