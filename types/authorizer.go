package types

import "context"

// Authorizer is the top level interface for end use.
// It decides if the current caller holds application defined permissions,
// with knowledge of the caller's claims, the group graph they come from,
// and the ticket attached to the caller's session.
type Authorizer interface {
	// AddRule registers a rule for permissions of the given kind. Rules are
	// kept in registration order and evaluated as a short-circuit OR; adding
	// the same rule twice is not deduplicated. Registration is meant to
	// happen once, at startup, before any Enforce or CheckPermission call.
	AddRule(kind string, rule Rule)

	Enforcer

	// CheckPermission resolves the current ticket, builds the caller's claim
	// set from the ticket's embedded principal or by live aggregation, and
	// enforces perm against it. No ticket means an empty claim set.
	CheckPermission(ctx context.Context, perm Permission) (bool, error)

	// GatherClaims collects every claim the user holds directly or through
	// nested group memberships, deduplicated.
	GatherClaims(ctx context.Context, user User) (ClaimSet, error)

	Ticketer
	CookieBinder
}

// Ticketer manages the lifetime of the ticket bound to the current session
type Ticketer interface {
	// GetCurrentTicket returns the ticket attached to the current session,
	// renewing its expiry, or nil when there is no session, no ticket, or
	// the ticket is expired. An expired ticket is deleted on the way out.
	GetCurrentTicket(ctx context.Context) (*Ticket, error)

	// EnsureTicket returns the current ticket, creating one when absent.
	// Fails with ErrInvalidSession when no session is available.
	EnsureTicket(ctx context.Context) (*Ticket, error)

	// CleanExpiredTickets deletes every expired ticket. Idempotent, meant to
	// run on a periodic timer owned by the host.
	CleanExpiredTickets(ctx context.Context) error

	// SignOut deletes the current ticket, if any, and returns the cookie
	// string expiring the auth cookie on the caller's transport.
	SignOut(ctx context.Context) (string, error)
}

// CookieBinder carries a ticket across sessions through a cookie string
type CookieBinder interface {
	// TryReattachToTicketWithToken scans the cookie strings for the auth
	// cookie, and rebinds the ticket holding its token to the current
	// session. Returns false, without writing anything, when no cookie or no
	// ticket matches.
	TryReattachToTicketWithToken(ctx context.Context, cookies []string) (bool, error)

	// CreateAuthCookie rotates the ticket's persistence token and returns
	// the cookie string carrying it. A nil ticket yields an empty string and
	// no store write.
	CreateAuthCookie(ctx context.Context, t *Ticket) (string, error)

	// CreateSignOutCookie returns the cookie string instructing the
	// transport to drop the auth cookie. The ticket store is not touched.
	CreateSignOutCookie() string
}
