// Package ward grants or denies application defined permissions to a caller
// based on claims describing the caller's identity and memberships, and
// manages the lifetime of the authentication ticket bound to the caller's
// session. The host supplies storage, time, sessions, and the transaction
// boundary; ward supplies the rule engine, claims aggregation, and the
// ticket and cookie protocols.
package ward

import (
	"context"
	"errors"
	"log"
	"os"
	"time"

	"github.com/go-logr/logr"
	"github.com/go-logr/stdr"

	"github.com/quayside/ward/internal/authorizer"
	"github.com/quayside/ward/internal/claims"
	"github.com/quayside/ward/internal/rules"
	"github.com/quayside/ward/internal/ticket"
	"github.com/quayside/ward/types"
)

// New creates an Authorizer
func New(ctx context.Context, opts ...AuthorizerOption) (types.Authorizer, error) {
	cfg := &AuthorizerConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	if cfg.log == nil {
		l := stdr.New(log.New(os.Stderr, "", log.LstdFlags|log.Lshortfile))
		cfg.log = &l
	}
	if cfg.store == nil {
		return nil, errors.New("empty ticket store")
	}
	if cfg.clock == nil {
		cfg.clock = types.ClockFunc(func() time.Time { return time.Now().UTC() })
	}
	if cfg.tx == nil {
		cfg.tx = types.TxRunnerFunc(func(ctx context.Context, fn func(context.Context) error) error {
			return fn(ctx)
		})
	}
	if cfg.sessions == nil {
		cfg.sessions = types.SessionIDProviderFunc(func(context.Context) string { return "" })
	}

	engine := rules.New(cfg.maxDepth, cfg.log.WithName("rules"))

	var agg *claims.Aggregator
	if cfg.source != nil {
		agg = claims.New(cfg.source, cfg.log.WithName("claims"))
	}

	tickets := ticket.NewManager(cfg.store, cfg.clock, cfg.tx, cfg.lifetime, cfg.log.WithName("ticket"))
	cookies := ticket.NewBinder(cfg.cookieName, cfg.store, cfg.tx, cfg.log.WithName("cookie"))

	return authorizer.New(engine, agg, tickets, cookies, cfg.sessions, cfg.log.WithName("authorizer")), nil
}

// WithTicketStore sets the ticket persister, it is required
func WithTicketStore(s types.TicketStore) AuthorizerOption {
	return func(cfg *AuthorizerConfig) {
		cfg.store = s
	}
}

// WithClaimSource sets the reader of the host's user and group graph
// could be omitted if every ticket embeds its principal
func WithClaimSource(s types.ClaimSource) AuthorizerOption {
	return func(cfg *AuthorizerConfig) {
		cfg.source = s
	}
}

// WithSessionIDProvider sets the source of the current session identifier
// without one every caller is treated as session-less
func WithSessionIDProvider(p types.SessionIDProvider) AuthorizerOption {
	return func(cfg *AuthorizerConfig) {
		cfg.sessions = p
	}
}

// WithClock sets the time source, UTC wall clock time when omitted
func WithClock(c types.Clock) AuthorizerOption {
	return func(cfg *AuthorizerConfig) {
		cfg.clock = c
	}
}

// WithTxRunner sets the host's transaction boundary around store accesses
// when omitted, store calls run directly with no retry on conflict
func WithTxRunner(tx types.TxRunner) AuthorizerOption {
	return func(cfg *AuthorizerConfig) {
		cfg.tx = tx
	}
}

// WithTicketLifetime sets the sliding expiration of tickets
func WithTicketLifetime(d time.Duration) AuthorizerOption {
	return func(cfg *AuthorizerConfig) {
		cfg.lifetime = d
	}
}

// WithCookieName overrides the auth cookie name
func WithCookieName(name string) AuthorizerOption {
	return func(cfg *AuthorizerConfig) {
		cfg.cookieName = name
	}
}

// WithMaxEnforceDepth caps how deep composed permissions may recurse
func WithMaxEnforceDepth(depth int) AuthorizerOption {
	return func(cfg *AuthorizerConfig) {
		cfg.maxDepth = depth
	}
}

// WithLogger sets logger for ward components
func WithLogger(l logr.Logger) AuthorizerOption {
	return func(cfg *AuthorizerConfig) {
		cfg.log = &l
	}
}

// AuthorizerConfig works together with AuthorizerOption to control the initialization of authorizer
type AuthorizerConfig struct {
	store      types.TicketStore
	source     types.ClaimSource
	sessions   types.SessionIDProvider
	clock      types.Clock
	tx         types.TxRunner
	lifetime   time.Duration
	cookieName string
	maxDepth   int
	log        *logr.Logger
}

// AuthorizerOption controls how to init an authorizer
type AuthorizerOption func(*AuthorizerConfig)
