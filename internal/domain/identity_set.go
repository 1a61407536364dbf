package domain

import "sync"

// IdentitySet tracks identities already accounted for during one resolution run.
// It is safe for concurrent use; create one per wallet, never share across wallets.
type IdentitySet struct {
	mu    sync.Mutex
	items map[NFTIdentity]struct{}
}

// NewIdentitySet creates a set seeded with the given identities
func NewIdentitySet(identities ...NFTIdentity) *IdentitySet {
	s := &IdentitySet{items: make(map[NFTIdentity]struct{}, len(identities))}
	for _, id := range identities {
		s.items[id] = struct{}{}
	}
	return s
}

// Has reports whether the identity is in the set
func (s *IdentitySet) Has(id NFTIdentity) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.items[id]
	return ok
}

// Claim adds the identity and reports whether it was absent before the call
func (s *IdentitySet) Claim(id NFTIdentity) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[id]; ok {
		return false
	}
	s.items[id] = struct{}{}
	return true
}

// Len returns the number of identities in the set
func (s *IdentitySet) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}
