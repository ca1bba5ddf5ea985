package authorizer

import (
	"context"

	"github.com/go-logr/logr"

	"github.com/quayside/ward/internal/claims"
	"github.com/quayside/ward/internal/rules"
	"github.com/quayside/ward/internal/ticket"
	"github.com/quayside/ward/types"
)

var _ types.Authorizer = (*authorizer)(nil)

type authorizer struct {
	engine   *rules.Engine
	agg      *claims.Aggregator // nil when no claim source is configured
	tickets  *ticket.Manager
	cookies  *ticket.Binder
	sessions types.SessionIDProvider
	l        logr.Logger
}

// New creates an authorizer
func New(engine *rules.Engine, agg *claims.Aggregator, tickets *ticket.Manager, cookies *ticket.Binder, sessions types.SessionIDProvider, l logr.Logger) types.Authorizer {
	return &authorizer{
		engine:   engine,
		agg:      agg,
		tickets:  tickets,
		cookies:  cookies,
		sessions: sessions,
		l:        l,
	}
}

// AddRule registers a rule for the permission kind
func (a *authorizer) AddRule(kind string, rule types.Rule) {
	a.engine.Add(kind, rule)
}

// Enforce decides perm against an explicit claim set
func (a *authorizer) Enforce(perm types.Permission, cs types.ClaimSet) (bool, error) {
	return a.engine.Enforce(perm, cs)
}

// CheckPermission decides perm for the current caller. The claim set comes
// from the ticket's embedded principal when one is set, from live
// aggregation over the ticket's user otherwise. No ticket, or a ticket with
// neither, leaves the caller anonymous: an empty claim set.
func (a *authorizer) CheckPermission(ctx context.Context, perm types.Permission) (bool, error) {
	a.l.V(4).Info("check permission", "kind", perm.Kind())

	t, e := a.GetCurrentTicket(ctx)
	if e != nil {
		return false, e
	}

	cs, e := a.callerClaims(ctx, t)
	if e != nil {
		return false, e
	}

	return a.engine.Enforce(perm, cs)
}

func (a *authorizer) callerClaims(ctx context.Context, t *types.Ticket) (types.ClaimSet, error) {
	if t == nil {
		return nil, nil
	}
	if t.Principal != "" {
		return types.ParseClaimSet(t.Principal)
	}
	if t.User != "" && a.agg != nil {
		return a.agg.Gather(ctx, t.User)
	}
	return nil, nil
}

// GatherClaims collects all claims the user holds, directly or through groups
func (a *authorizer) GatherClaims(ctx context.Context, user types.User) (types.ClaimSet, error) {
	if a.agg == nil {
		return nil, types.ErrNoClaimSource
	}
	return a.agg.Gather(ctx, user)
}

// GetCurrentTicket returns the live ticket of the current session, renewed
func (a *authorizer) GetCurrentTicket(ctx context.Context) (*types.Ticket, error) {
	return a.tickets.GetCurrent(ctx, a.sessions.CurrentSessionID(ctx))
}

// EnsureTicket returns the current ticket, creating one when absent
func (a *authorizer) EnsureTicket(ctx context.Context) (*types.Ticket, error) {
	sid := a.sessions.CurrentSessionID(ctx)

	t, e := a.tickets.GetCurrent(ctx, sid)
	if e != nil {
		return nil, e
	}
	if t != nil {
		return t, nil
	}

	return a.tickets.Create(ctx, sid)
}

// CleanExpiredTickets sweeps expired tickets out of the store
func (a *authorizer) CleanExpiredTickets(ctx context.Context) error {
	return a.tickets.CleanExpired(ctx)
}

// SignOut drops the current ticket and returns the expiring cookie string
func (a *authorizer) SignOut(ctx context.Context) (string, error) {
	t, e := a.GetCurrentTicket(ctx)
	if e != nil {
		return "", e
	}
	if t != nil {
		if e := a.tickets.Delete(ctx, t.ID); e != nil {
			return "", e
		}
	}
	return a.cookies.SignOutCookie(), nil
}

// TryReattachToTicketWithToken rebinds a ticket to the current session by the
// persistence token found in the cookie strings
func (a *authorizer) TryReattachToTicketWithToken(ctx context.Context, cookies []string) (bool, error) {
	return a.cookies.TryReattach(ctx, cookies, a.sessions.CurrentSessionID(ctx))
}

// CreateAuthCookie rotates the ticket's token and returns the cookie string
func (a *authorizer) CreateAuthCookie(ctx context.Context, t *types.Ticket) (string, error) {
	return a.cookies.AuthCookie(ctx, t)
}

// CreateSignOutCookie returns the cookie string dropping the auth cookie
func (a *authorizer) CreateSignOutCookie() string {
	return a.cookies.SignOutCookie()
}
