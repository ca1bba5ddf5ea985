package fake

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/quayside/ward/types"
)

type ticketStore struct {
	tickets map[string]types.Ticket
	sync.RWMutex
}

// NewTicketStore returns an in-memory ticket store which should not be used in real works
func NewTicketStore() *ticketStore {
	return &ticketStore{
		tickets: make(map[string]types.Ticket),
	}
}

func (s *ticketStore) FindBySessionID(_ context.Context, sessionID string) (*types.Ticket, error) {
	s.RLock()
	defer s.RUnlock()

	if sessionID == "" {
		return nil, fmt.Errorf("%w: ticket for empty session", types.ErrNotFound)
	}
	for _, t := range s.tickets {
		if t.SessionID == sessionID {
			t := t
			return &t, nil
		}
	}
	return nil, fmt.Errorf("%w: ticket for session %s", types.ErrNotFound, sessionID)
}

func (s *ticketStore) FindByToken(_ context.Context, token string) (*types.Ticket, error) {
	s.RLock()
	defer s.RUnlock()

	if token == "" {
		return nil, fmt.Errorf("%w: ticket for empty token", types.ErrNotFound)
	}
	for _, t := range s.tickets {
		if t.PersistenceToken == token {
			t := t
			return &t, nil
		}
	}
	return nil, fmt.Errorf("%w: ticket for token", types.ErrNotFound)
}

func (s *ticketStore) Insert(_ context.Context, t *types.Ticket) error {
	s.Lock()
	defer s.Unlock()

	s.tickets[t.ID] = *t
	return nil
}

func (s *ticketStore) Update(_ context.Context, t *types.Ticket) error {
	s.Lock()
	defer s.Unlock()

	if _, ok := s.tickets[t.ID]; !ok {
		return fmt.Errorf("%w: ticket %s", types.ErrNotFound, t.ID)
	}
	s.tickets[t.ID] = *t
	return nil
}

func (s *ticketStore) Delete(_ context.Context, id string) error {
	s.Lock()
	defer s.Unlock()

	delete(s.tickets, id)
	return nil
}

func (s *ticketStore) DeleteExpired(_ context.Context, threshold time.Time) error {
	s.Lock()
	defer s.Unlock()

	for id, t := range s.tickets {
		if t.ExpiresAt.UTC().Before(threshold.UTC()) {
			delete(s.tickets, id)
		}
	}
	return nil
}

// Len reports how many tickets the store holds
func (s *ticketStore) Len() int {
	s.RLock()
	defer s.RUnlock()
	return len(s.tickets)
}
