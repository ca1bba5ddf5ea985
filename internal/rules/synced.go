package rules

import (
	"sync"

	"github.com/quayside/ward/types"
)

// syncedStore makes the inner store safe for concurrent registration and
// querying. After the registration phase it is read-mostly.
type syncedStore struct {
	s *Store
	sync.RWMutex
}

// NewSyncedStore wraps a store with a RWMutex
func NewSyncedStore(s *Store) *syncedStore {
	if s == nil {
		s = NewStore()
	}
	return &syncedStore{s: s}
}

func (s *syncedStore) Add(kind string, rule types.Rule) {
	s.Lock()
	defer s.Unlock()
	s.s.Add(kind, rule)
}

func (s *syncedStore) RulesFor(kind string) []types.Rule {
	s.RLock()
	defer s.RUnlock()

	rules := s.s.RulesFor(kind)
	if len(rules) == 0 {
		return nil
	}
	res := make([]types.Rule, len(rules))
	copy(res, rules)
	return res
}
