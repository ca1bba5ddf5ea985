package types

import (
	"context"
	"time"
)

// TicketStore persists tickets to an external storage. Lookups for an absent
// ticket fail with ErrNotFound; Delete and DeleteExpired treat absence as
// success, since the transaction boundary may replay them.
//
// Store implementations must keep ExpiresAt in UTC: a stored timestamp
// without location information is a defect of the store, not of its callers.
type TicketStore interface {
	// FindBySessionID returns the ticket attached to the session
	FindBySessionID(ctx context.Context, sessionID string) (*Ticket, error)

	// FindByToken returns the ticket holding the persistence token
	FindByToken(ctx context.Context, token string) (*Ticket, error)

	// Insert adds a ticket; inserting the same ticket ID again overwrites it
	Insert(ctx context.Context, t *Ticket) error

	// Update rewrites a ticket already in the store
	Update(ctx context.Context, t *Ticket) error

	// Delete removes the ticket with the given ID, absence is not an error
	Delete(ctx context.Context, id string) error

	// DeleteExpired removes every ticket expiring strictly before threshold
	DeleteExpired(ctx context.Context, threshold time.Time) error
}

// ClaimSource reads the user and group graph owned by the surrounding
// application. The library never writes through it. An unknown user or group
// simply has no claims and no memberships.
type ClaimSource interface {
	// DirectClaims returns the claims attached to the user itself
	DirectClaims(ctx context.Context, user User) ([]Claim, error)

	// GroupsOf returns the groups the user immediately belongs to
	GroupsOf(ctx context.Context, user User) ([]Group, error)

	// GroupClaims returns the claims attached to the group itself
	GroupClaims(ctx context.Context, group Group) ([]Claim, error)

	// SubgroupsOf returns the groups immediately nested under the group
	SubgroupsOf(ctx context.Context, group Group) ([]Group, error)
}

// Clock tells the current time. Implementations must return UTC.
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a function to the Clock interface.
type ClockFunc func() time.Time

// Now implements Clock
func (f ClockFunc) Now() time.Time { return f() }

// TxRunner is the transaction boundary supplied by the host. Run executes fn
// at least once, retrying transparently on conflicting concurrent writes,
// until it commits cleanly or fails for good. Since fn may run more than
// once, everything the library does inside it is idempotent.
type TxRunner interface {
	Run(ctx context.Context, fn func(context.Context) error) error
}

// TxRunnerFunc adapts a function to the TxRunner interface.
type TxRunnerFunc func(ctx context.Context, fn func(context.Context) error) error

// Run implements TxRunner
func (f TxRunnerFunc) Run(ctx context.Context, fn func(context.Context) error) error {
	return f(ctx, fn)
}

// SessionIDProvider exposes the identifier of the session handling the
// current request, or an empty string when there is none. Sessions are owned
// by the host; the library never creates or destroys them.
type SessionIDProvider interface {
	CurrentSessionID(ctx context.Context) string
}

// SessionIDProviderFunc adapts a function to the SessionIDProvider interface.
type SessionIDProviderFunc func(ctx context.Context) string

// CurrentSessionID implements SessionIDProvider
func (f SessionIDProviderFunc) CurrentSessionID(ctx context.Context) string { return f(ctx) }
