package platform

import "sync"

// MaintenanceState is the process-wide maintenance flag. Toggled by admins,
// read by the request gate on every call.
type MaintenanceState struct {
	mu      sync.RWMutex
	enabled bool
	message string
}

func NewMaintenanceState() *MaintenanceState {
	return &MaintenanceState{}
}

func (s *MaintenanceState) Enabled() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.enabled
}

func (s *MaintenanceState) Message() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.message
}

// Set flips the flag and returns the previous value.
func (s *MaintenanceState) Set(enabled bool, message string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	prev := s.enabled
	s.enabled = enabled
	s.message = message
	return prev
}
