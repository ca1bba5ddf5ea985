package claims

import (
	"context"

	"github.com/go-logr/logr"
	"github.com/quayside/ward/types"
)

// Aggregator collects the claims a user holds directly or through nested
// group memberships.
type Aggregator struct {
	source types.ClaimSource
	log    logr.Logger
}

// New creates an aggregator reading the given user and group graph
func New(source types.ClaimSource, log logr.Logger) *Aggregator {
	return &Aggregator{
		source: source,
		log:    log,
	}
}

// Gather returns every claim reachable from the user, deduplicated by the
// claims' canonical keys. The group graph is walked depth first; each group
// is visited at most once, so shared sub-groups cost a single visit and a
// cyclic graph still terminates.
func (a *Aggregator) Gather(ctx context.Context, user types.User) (types.ClaimSet, error) {
	a.log.V(4).Info("gather claims", "user", user)

	g := &gathering{
		source:  a.source,
		seen:    make(map[string]struct{}),
		visited: make(map[types.Group]struct{}),
	}

	direct, err := a.source.DirectClaims(ctx, user)
	if err != nil {
		return nil, err
	}
	g.add(direct)

	groups, err := a.source.GroupsOf(ctx, user)
	if err != nil {
		return nil, err
	}
	for _, group := range groups {
		if err := g.walk(ctx, group); err != nil {
			return nil, err
		}
	}

	return g.set, nil
}

type gathering struct {
	source  types.ClaimSource
	set     types.ClaimSet
	seen    map[string]struct{}
	visited map[types.Group]struct{}
}

func (g *gathering) add(claims []types.Claim) {
	for _, c := range claims {
		key := c.Key()
		if _, ok := g.seen[key]; ok {
			continue
		}
		g.seen[key] = struct{}{}
		g.set = append(g.set, c)
	}
}

func (g *gathering) walk(ctx context.Context, group types.Group) error {
	if _, ok := g.visited[group]; ok {
		return nil
	}
	g.visited[group] = struct{}{}

	claims, err := g.source.GroupClaims(ctx, group)
	if err != nil {
		return err
	}
	g.add(claims)

	subs, err := g.source.SubgroupsOf(ctx, group)
	if err != nil {
		return err
	}
	for _, sub := range subs {
		if err := g.walk(ctx, sub); err != nil {
			return err
		}
	}

	return nil
}
