package profile

import "time"

// SetClock replaces the wall clock used for TTL checks and write timestamps.
func (s *Service) SetClock(now func() time.Time) {
	s.now = now
}
