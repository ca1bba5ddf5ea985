package mgo

import (
	"context"
	"log"
	"os"

	"github.com/globalsign/mgo"
	"github.com/go-logr/stdr"

	"github.com/quayside/ward/types"
)

// ClaimSource is a read-only types.ClaimSource over two mongodb collections:
// one of users, one of groups. It is meant for hosts that already keep their
// user and group graph in mongodb; others should implement types.ClaimSource
// over whatever owns that graph.
type ClaimSource struct {
	users  *collection
	groups *collection
}

var _ types.ClaimSource = (*ClaimSource)(nil)

// NewClaimSource reads the user and group graph from the given collections
func NewClaimSource(users, groups *mgo.Collection, opts ...collectionOption) (*ClaimSource, error) {
	logger := stdr.New(log.New(os.Stderr, "", log.LstdFlags|log.Lshortfile))
	s := &ClaimSource{
		users:  &collection{Collection: users, log: logger},
		groups: &collection{Collection: groups, log: logger},
	}
	for _, opt := range opts {
		opt(s.users)
		opt(s.groups)
	}
	return s, nil
}

type claimDO struct {
	Kind           string   `bson:"kind"`
	Value          string   `bson:"value"`
	ValueType      string   `bson:"valuetype,omitempty"`
	Issuer         string   `bson:"issuer,omitempty"`
	OriginalIssuer string   `bson:"originalissuer,omitempty"`
	Properties     []propDO `bson:"properties,omitempty"`
}

type propDO struct {
	Key   string `bson:"key"`
	Value string `bson:"value"`
}

type userDO struct {
	ID     string    `bson:"_id"`
	Claims []claimDO `bson:"claims,omitempty"`
	Groups []string  `bson:"groups,omitempty"`
}

type groupDO struct {
	ID        string    `bson:"_id"`
	Claims    []claimDO `bson:"claims,omitempty"`
	Subgroups []string  `bson:"subgroups,omitempty"`
}

func asClaims(dos []claimDO) []types.Claim {
	if len(dos) == 0 {
		return nil
	}
	claims := make([]types.Claim, 0, len(dos))
	for _, do := range dos {
		c := types.Claim{
			Kind:           do.Kind,
			Value:          do.Value,
			ValueType:      do.ValueType,
			Issuer:         do.Issuer,
			OriginalIssuer: do.OriginalIssuer,
		}
		for _, p := range do.Properties {
			c.Properties = append(c.Properties, types.Property{Key: p.Key, Value: p.Value})
		}
		claims = append(claims, c)
	}
	return claims
}

// DirectClaims implements types.ClaimSource: an unknown user has no claims
func (s *ClaimSource) DirectClaims(_ context.Context, user types.User) ([]types.Claim, error) {
	var do userDO
	switch e := s.findUser(user, &do); e {
	case nil:
	case mgo.ErrNotFound:
		return nil, nil
	default:
		return nil, e
	}
	return asClaims(do.Claims), nil
}

// GroupsOf implements types.ClaimSource
func (s *ClaimSource) GroupsOf(_ context.Context, user types.User) ([]types.Group, error) {
	var do userDO
	switch e := s.findUser(user, &do); e {
	case nil:
	case mgo.ErrNotFound:
		return nil, nil
	default:
		return nil, e
	}
	return parseGroups(do.Groups)
}

// GroupClaims implements types.ClaimSource: an unknown group has no claims
func (s *ClaimSource) GroupClaims(_ context.Context, group types.Group) ([]types.Claim, error) {
	var do groupDO
	switch e := s.findGroup(group, &do); e {
	case nil:
	case mgo.ErrNotFound:
		return nil, nil
	default:
		return nil, e
	}
	return asClaims(do.Claims), nil
}

// SubgroupsOf implements types.ClaimSource
func (s *ClaimSource) SubgroupsOf(_ context.Context, group types.Group) ([]types.Group, error) {
	var do groupDO
	switch e := s.findGroup(group, &do); e {
	case nil:
	case mgo.ErrNotFound:
		return nil, nil
	default:
		return nil, e
	}
	return parseGroups(do.Subgroups)
}

func (s *ClaimSource) findUser(user types.User, do *userDO) error {
	ss := s.users.copySession()
	defer ss.closeSession()
	return ss.FindId(user.String()).One(do)
}

func (s *ClaimSource) findGroup(group types.Group, do *groupDO) error {
	ss := s.groups.copySession()
	defer ss.closeSession()
	return ss.FindId(group.String()).One(do)
}

func parseGroups(serialized []string) ([]types.Group, error) {
	if len(serialized) == 0 {
		return nil, nil
	}
	groups := make([]types.Group, 0, len(serialized))
	for _, s := range serialized {
		g, e := types.ParseGroup(s)
		if e != nil {
			return nil, e
		}
		groups = append(groups, g)
	}
	return groups, nil
}
