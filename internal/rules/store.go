package rules

import (
	"github.com/quayside/ward/types"
)

// Store holds, per permission kind, the ordered list of registered rules.
// Registration is append-only and happens before querying starts.
type Store struct {
	rules map[string][]types.Rule
}

// NewStore creates an empty rule store
func NewStore() *Store {
	return &Store{
		rules: make(map[string][]types.Rule),
	}
}

// Add appends rule to the list for the permission kind, keeping registration
// order. Duplicates are not filtered: overlapping grants are harmless under
// OR semantics.
func (s *Store) Add(kind string, rule types.Rule) {
	s.rules[kind] = append(s.rules[kind], rule)
}

// RulesFor returns the rules registered for the permission kind, in
// registration order. An unknown kind has no rules.
func (s *Store) RulesFor(kind string) []types.Rule {
	return s.rules[kind]
}
