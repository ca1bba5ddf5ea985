package rules

import (
	"fmt"

	"github.com/go-logr/logr"
	"github.com/quayside/ward/types"
)

// DefaultMaxDepth caps how deep composed permissions may recurse before
// enforcement fails with ErrRecursionOverrun.
const DefaultMaxDepth = 32

type store interface {
	Add(kind string, rule types.Rule)
	RulesFor(kind string) []types.Rule
}

var _ types.Enforcer = (*Engine)(nil)

// Engine evaluates permissions against the registered rules. Rules for the
// permission's kind are scanned in registration order and the first one that
// holds wins; an empty list is a deny, not an error.
type Engine struct {
	store    store
	maxDepth int
	log      logr.Logger
}

// New creates a concurrent safe engine over an empty rule store
func New(maxDepth int, log logr.Logger) *Engine {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	return &Engine{
		store:    NewSyncedStore(nil),
		maxDepth: maxDepth,
		log:      log,
	}
}

// Add registers a rule for the permission kind
func (e *Engine) Add(kind string, rule types.Rule) {
	e.log.V(4).Info("add rule", "kind", kind)
	e.store.Add(kind, rule)
}

// Enforce implements types.Enforcer
func (e *Engine) Enforce(perm types.Permission, claims types.ClaimSet) (bool, error) {
	return e.enforce(perm, claims, 0)
}

func (e *Engine) enforce(perm types.Permission, claims types.ClaimSet, depth int) (bool, error) {
	if depth > e.maxDepth {
		return false, fmt.Errorf("%w: kind %s at depth %d", types.ErrRecursionOverrun, perm.Kind(), depth)
	}

	h := &handle{engine: e, depth: depth}
	for _, rule := range e.store.RulesFor(perm.Kind()) {
		ok, err := rule.Holds(claims, perm, h)
		if err != nil {
			return false, err
		}
		if ok {
			e.log.V(4).Info("permission granted", "kind", perm.Kind(), "depth", depth)
			return true, nil
		}
	}

	return false, nil
}

// handle is the enforcer rules see: it carries the recursion depth of the
// evaluation it was created for, so composed permissions cannot loop forever.
type handle struct {
	engine *Engine
	depth  int
}

func (h *handle) Enforce(perm types.Permission, claims types.ClaimSet) (bool, error) {
	return h.engine.enforce(perm, claims, h.depth+1)
}
