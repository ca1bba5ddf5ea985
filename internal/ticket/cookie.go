package ticket

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-logr/logr"
	"github.com/quayside/ward/types"
)

// DefaultCookieName is the name of the auth cookie carrying the persistence
// token.
const DefaultCookieName = "scauthtoken"

// Binder moves a ticket between sessions through a cookie string. The only
// wire format the library commits to is the cookie grammar implemented here:
// "name=value;attr;attr=val", attributes after the first ';' ignored.
type Binder struct {
	name   string
	store  types.TicketStore
	tx     types.TxRunner
	tokens TokenGenerator
	log    logr.Logger
}

// NewBinder creates a cookie binder for the given cookie name
func NewBinder(name string, store types.TicketStore, tx types.TxRunner, log logr.Logger) *Binder {
	if name == "" {
		name = DefaultCookieName
	}
	return &Binder{
		name:  name,
		store: store,
		tx:    tx,
		log:   log,
	}
}

// TryReattach scans the cookie strings for the auth cookie and rebinds the
// ticket holding its token to the given session, displacing whatever session
// owned the ticket before. Returns false, with no store writes, when no
// cookie carries a token or no ticket holds it.
func (b *Binder) TryReattach(ctx context.Context, cookies []string, sessionID string) (bool, error) {
	if sessionID == "" {
		return false, fmt.Errorf("%w: cannot reattach a ticket", types.ErrInvalidSession)
	}

	token, ok := b.findToken(cookies)
	if !ok {
		return false, nil
	}

	attached := false
	err := b.tx.Run(ctx, func(ctx context.Context) error {
		attached = false

		t, err := b.store.FindByToken(ctx, token)
		if errors.Is(err, types.ErrNotFound) {
			return nil
		}
		if err != nil {
			return err
		}

		t.SessionID = sessionID
		if err := b.store.Update(ctx, t); err != nil {
			return err
		}

		b.log.V(4).Info("reattach ticket", "ticket", t.ID, "session", sessionID)
		attached = true
		return nil
	})
	if err != nil {
		return false, err
	}
	return attached, nil
}

// findToken returns the token of the first cookie string named like the auth
// cookie. A matching name with no '=' at all, or with an empty value, means
// no token: "scauthtoken" and "scauthtoken=" both miss, "scauthtoken=tok;X"
// hits with "tok".
func (b *Binder) findToken(cookies []string) (string, bool) {
	for _, cookie := range cookies {
		name, value := splitCookie(cookie)
		if name != b.name {
			continue
		}
		return value, value != ""
	}
	return "", false
}

// splitCookie cuts "name=value;attrs" into name and value, both possibly
// empty. Attributes after the first ';' are dropped before looking for '='.
func splitCookie(cookie string) (name, value string) {
	if i := strings.IndexByte(cookie, ';'); i >= 0 {
		cookie = cookie[:i]
	}
	eq := strings.IndexByte(cookie, '=')
	if eq < 0 {
		return cookie, ""
	}
	return cookie[:eq], cookie[eq+1:]
}

// AuthCookie rotates the ticket's persistence token, persists it, and
// returns the cookie string carrying the fresh token. A nil ticket yields an
// empty string: the caller must not set any cookie then.
func (b *Binder) AuthCookie(ctx context.Context, t *types.Ticket) (string, error) {
	if t == nil {
		return "", nil
	}

	token, err := b.tokens.Generate(PersistenceTokenBytes)
	if err != nil {
		return "", err
	}

	if err := b.tx.Run(ctx, func(ctx context.Context) error {
		t.PersistenceToken = token
		return b.store.Update(ctx, t)
	}); err != nil {
		return "", err
	}

	b.log.V(4).Info("rotate persistence token", "ticket", t.ID)
	return b.name + "=" + token + ";HttpOnly;Path=/", nil
}

// SignOutCookie returns the cookie string expiring any previously set auth
// cookie. The ticket store is not touched.
func (b *Binder) SignOutCookie() string {
	return b.name + "=;Max-Age=0;Path=/"
}
