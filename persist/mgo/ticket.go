package mgo

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/globalsign/mgo"
	"github.com/globalsign/mgo/bson"
	"github.com/go-logr/stdr"

	"github.com/quayside/ward/types"
)

// TicketStore is a types.TicketStore backed by mongodb
type TicketStore struct {
	*collection
}

var _ types.TicketStore = (*TicketStore)(nil)

// NewTicketStore uses the given mongodb collection as backend to persist tickets
func NewTicketStore(coll *mgo.Collection, opts ...collectionOption) (*TicketStore, error) {
	s := &TicketStore{&collection{
		Collection: coll,
		log:        stdr.New(log.New(os.Stderr, "", log.LstdFlags|log.Lshortfile)),
	}}
	for _, opt := range opts {
		opt(s.collection)
	}

	ss := s.copySession()
	defer ss.closeSession()

	if e := ss.EnsureIndex(mgo.Index{Key: []string{"sessionid"}, Sparse: true}); e != nil {
		return nil, e
	}
	if e := ss.EnsureIndex(mgo.Index{Key: []string{"token"}, Sparse: true}); e != nil {
		return nil, e
	}
	if e := ss.EnsureIndex(mgo.Index{Key: []string{"expiresat"}}); e != nil {
		return nil, e
	}

	return s, nil
}

type ticketDO struct {
	ID        string    `bson:"_id"`
	SessionID string    `bson:"sessionid,omitempty"`
	Token     string    `bson:"token,omitempty"`
	ExpiresAt time.Time `bson:"expiresat"`
	Principal string    `bson:"principal,omitempty"`
	User      string    `bson:"user,omitempty"`
}

func toTicketDO(t *types.Ticket) *ticketDO {
	do := &ticketDO{
		ID:        t.ID,
		SessionID: t.SessionID,
		Token:     t.PersistenceToken,
		ExpiresAt: t.ExpiresAt.UTC(),
		Principal: t.Principal,
	}
	if t.User != "" {
		do.User = t.User.String()
	}
	return do
}

func (do *ticketDO) asTicket() (*types.Ticket, error) {
	t := &types.Ticket{
		ID:               do.ID,
		SessionID:        do.SessionID,
		PersistenceToken: do.Token,
		ExpiresAt:        do.ExpiresAt.UTC(),
		Principal:        do.Principal,
	}
	if do.User != "" {
		user, e := types.ParseUser(do.User)
		if e != nil {
			return nil, e
		}
		t.User = user
	}
	return t, nil
}

// FindBySessionID implements types.TicketStore
func (s *TicketStore) FindBySessionID(_ context.Context, sessionID string) (*types.Ticket, error) {
	if sessionID == "" {
		return nil, fmt.Errorf("%w: ticket for empty session", types.ErrNotFound)
	}
	return s.findOne(bson.M{"sessionid": sessionID})
}

// FindByToken implements types.TicketStore
func (s *TicketStore) FindByToken(_ context.Context, token string) (*types.Ticket, error) {
	if token == "" {
		return nil, fmt.Errorf("%w: ticket for empty token", types.ErrNotFound)
	}
	return s.findOne(bson.M{"token": token})
}

func (s *TicketStore) findOne(query bson.M) (*types.Ticket, error) {
	ss := s.copySession()
	defer ss.closeSession()

	var do ticketDO
	switch e := ss.Find(query).One(&do); e {
	case nil:
	case mgo.ErrNotFound:
		return nil, fmt.Errorf("%w: ticket %v", types.ErrNotFound, query)
	default:
		return nil, e
	}

	return do.asTicket()
}

// Insert implements types.TicketStore: inserting a ticket ID again overwrites
func (s *TicketStore) Insert(_ context.Context, t *types.Ticket) error {
	ss := s.copySession()
	defer ss.closeSession()

	s.log.V(4).Info("insert ticket", "ticket", t.ID)
	_, e := ss.UpsertId(t.ID, toTicketDO(t))
	return e
}

// Update implements types.TicketStore
func (s *TicketStore) Update(_ context.Context, t *types.Ticket) error {
	ss := s.copySession()
	defer ss.closeSession()

	s.log.V(4).Info("update ticket", "ticket", t.ID)
	switch e := ss.UpdateId(t.ID, toTicketDO(t)); e {
	case nil:
		return nil
	case mgo.ErrNotFound:
		return fmt.Errorf("%w: ticket %s", types.ErrNotFound, t.ID)
	default:
		return e
	}
}

// Delete implements types.TicketStore, absence is not an error
func (s *TicketStore) Delete(_ context.Context, id string) error {
	ss := s.copySession()
	defer ss.closeSession()

	s.log.V(4).Info("delete ticket", "ticket", id)
	switch e := ss.RemoveId(id); e {
	case nil, mgo.ErrNotFound:
		return nil
	default:
		return e
	}
}

// DeleteExpired implements types.TicketStore
func (s *TicketStore) DeleteExpired(_ context.Context, threshold time.Time) error {
	ss := s.copySession()
	defer ss.closeSession()

	info, e := ss.RemoveAll(bson.M{"expiresat": bson.M{"$lt": threshold.UTC()}})
	if e != nil {
		return e
	}
	s.log.V(4).Info("delete expired tickets", "threshold", threshold.UTC(), "removed", info.Removed)
	return nil
}
