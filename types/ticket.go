package types

import "time"

// Ticket is a server side record of an authenticated session. Its
// PersistenceToken is a rotating secret allowing the ticket to be reattached
// to a fresh session, e.g. from a cookie after a browser restart.
//
// ExpiresAt is always stored and compared in UTC. A ticket with an empty
// SessionID is orphaned: it was created but never attached, and must not be
// treated as current.
type Ticket struct {
	ID               string
	SessionID        string
	PersistenceToken string
	ExpiresAt        time.Time
	Principal        string // serialized ClaimSet, optional
	User             User   // empty when the ticket is anonymous
}

// Expired tells if the ticket is expired at the given instant.
// Both sides are normalized to UTC before comparing.
func (t *Ticket) Expired(now time.Time) bool {
	return !t.ExpiresAt.UTC().After(now.UTC())
}
