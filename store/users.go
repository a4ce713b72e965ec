package store

// CreateUser registers userID. Users are opaque identifiers; voting and
// authoring do not require registration.
func (s *Store) CreateUser(userID string) error {
	if userID == "" {
		return ErrInvalidUser
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[userID]; ok {
		return ErrUserExists
	}
	s.users[userID] = struct{}{}
	return nil
}

// HasUser reports whether userID was registered.
func (s *Store) HasUser(userID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.users[userID]
	return ok
}
