package ticket

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-logr/logr"
	"github.com/google/uuid"

	"github.com/quayside/ward/types"
)

// DefaultLifetime is how long a ticket stays valid after its last access.
const DefaultLifetime = 30 * time.Minute

// Manager drives the lifetime of the ticket bound to a session: lookup with
// sliding renewal, creation, and expiry sweeps. Every store access runs
// inside the host's transaction boundary, and may therefore run more than
// once; all of it is idempotent.
type Manager struct {
	store    types.TicketStore
	clock    types.Clock
	tx       types.TxRunner
	tokens   TokenGenerator
	lifetime time.Duration
	log      logr.Logger
}

// NewManager creates a ticket lifecycle manager
func NewManager(store types.TicketStore, clock types.Clock, tx types.TxRunner, lifetime time.Duration, log logr.Logger) *Manager {
	if lifetime <= 0 {
		lifetime = DefaultLifetime
	}
	return &Manager{
		store:    store,
		clock:    clock,
		tx:       tx,
		lifetime: lifetime,
		log:      log,
	}
}

// GetCurrent returns the ticket attached to the session, or nil when there is
// no session, no ticket, or the ticket is expired. An expired ticket is
// deleted on the way out, so a read may mutate the store. A live ticket gets
// its expiry pushed out by the configured lifetime before it is returned.
func (m *Manager) GetCurrent(ctx context.Context, sessionID string) (*types.Ticket, error) {
	if sessionID == "" {
		return nil, nil
	}

	var cur *types.Ticket
	err := m.tx.Run(ctx, func(ctx context.Context) error {
		cur = nil

		t, err := m.store.FindBySessionID(ctx, sessionID)
		if errors.Is(err, types.ErrNotFound) {
			return nil
		}
		if err != nil {
			return err
		}

		now := m.clock.Now().UTC()
		if t.Expired(now) {
			m.log.V(4).Info("drop expired ticket", "ticket", t.ID, "session", sessionID)
			return m.store.Delete(ctx, t.ID)
		}

		t.ExpiresAt = now.Add(m.lifetime)
		if err := m.store.Update(ctx, t); err != nil {
			return err
		}
		cur = t
		return nil
	})
	if err != nil {
		return nil, err
	}
	return cur, nil
}

// Create makes a new ticket for the session: fresh ID, fresh persistence
// token, expiry one lifetime from now. Fails with ErrInvalidSession when
// sessionID is empty.
func (m *Manager) Create(ctx context.Context, sessionID string) (*types.Ticket, error) {
	if sessionID == "" {
		return nil, fmt.Errorf("%w: cannot create a ticket", types.ErrInvalidSession)
	}

	token, err := m.tokens.Generate(PersistenceTokenBytes)
	if err != nil {
		return nil, err
	}

	t := &types.Ticket{
		ID:               uuid.NewString(),
		SessionID:        sessionID,
		PersistenceToken: token,
		ExpiresAt:        m.clock.Now().UTC().Add(m.lifetime),
	}

	m.log.V(4).Info("create ticket", "ticket", t.ID, "session", sessionID)
	if err := m.tx.Run(ctx, func(ctx context.Context) error {
		return m.store.Insert(ctx, t)
	}); err != nil {
		return nil, err
	}
	return t, nil
}

// CleanExpired deletes every ticket expiring before now. Safe to call
// repeatedly and concurrently.
func (m *Manager) CleanExpired(ctx context.Context) error {
	now := m.clock.Now().UTC()
	m.log.V(4).Info("clean expired tickets", "threshold", now)
	return m.tx.Run(ctx, func(ctx context.Context) error {
		return m.store.DeleteExpired(ctx, now)
	})
}

// Delete removes the ticket by ID, tolerating absence.
func (m *Manager) Delete(ctx context.Context, id string) error {
	m.log.V(4).Info("delete ticket", "ticket", id)
	return m.tx.Run(ctx, func(ctx context.Context) error {
		return m.store.Delete(ctx, id)
	})
}
