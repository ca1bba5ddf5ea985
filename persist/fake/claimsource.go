package fake

import (
	"context"
	"sync"

	"github.com/quayside/ward/types"
)

type claimSource struct {
	userClaims  map[types.User][]types.Claim
	userGroups  map[types.User][]types.Group
	groupClaims map[types.Group][]types.Claim
	subgroups   map[types.Group][]types.Group
	sync.RWMutex
}

// NewClaimSource returns an in-memory user and group graph which should not be used in real works
func NewClaimSource() *claimSource {
	return &claimSource{
		userClaims:  make(map[types.User][]types.Claim),
		userGroups:  make(map[types.User][]types.Group),
		groupClaims: make(map[types.Group][]types.Claim),
		subgroups:   make(map[types.Group][]types.Group),
	}
}

// AddUserClaim attaches a claim directly to the user
func (s *claimSource) AddUserClaim(user types.User, c types.Claim) {
	s.Lock()
	defer s.Unlock()
	s.userClaims[user] = append(s.userClaims[user], c)
}

// JoinGroup makes the user an immediate member of the group
func (s *claimSource) JoinGroup(user types.User, group types.Group) {
	s.Lock()
	defer s.Unlock()
	s.userGroups[user] = append(s.userGroups[user], group)
}

// AddGroupClaim attaches a claim to the group itself
func (s *claimSource) AddGroupClaim(group types.Group, c types.Claim) {
	s.Lock()
	defer s.Unlock()
	s.groupClaims[group] = append(s.groupClaims[group], c)
}

// Nest makes sub an immediate sub-group of parent
func (s *claimSource) Nest(sub, parent types.Group) {
	s.Lock()
	defer s.Unlock()
	s.subgroups[parent] = append(s.subgroups[parent], sub)
}

func (s *claimSource) DirectClaims(_ context.Context, user types.User) ([]types.Claim, error) {
	s.RLock()
	defer s.RUnlock()
	return append([]types.Claim(nil), s.userClaims[user]...), nil
}

func (s *claimSource) GroupsOf(_ context.Context, user types.User) ([]types.Group, error) {
	s.RLock()
	defer s.RUnlock()
	return append([]types.Group(nil), s.userGroups[user]...), nil
}

func (s *claimSource) GroupClaims(_ context.Context, group types.Group) ([]types.Claim, error) {
	s.RLock()
	defer s.RUnlock()
	return append([]types.Claim(nil), s.groupClaims[group]...), nil
}

func (s *claimSource) SubgroupsOf(_ context.Context, group types.Group) ([]types.Group, error) {
	s.RLock()
	defer s.RUnlock()
	return append([]types.Group(nil), s.subgroups[group]...), nil
}
