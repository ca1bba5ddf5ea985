package types

// Rule is one boolean condition registered against a single permission kind.
// Rules are registered at startup and never change afterwards; evaluation must
// be free of side effects so rule order only decides short-circuiting, never
// the final result.
//
// The built-in variants are ClaimRule, PredicateRule, and GroupRule.
type Rule interface {
	// Holds reports if the rule grants perm for the given claims. The
	// enforcer lets a rule query other permissions.
	Holds(claims ClaimSet, perm Permission, enf Enforcer) (bool, error)
}

// ClaimRule holds iff the claim set contains at least one claim of the given
// kind for which match returns true. A set with no claim of the kind never
// matches, whatever the predicate does.
func ClaimRule(kind string, match func(Claim, Permission) bool) Rule {
	return &claimRule{kind: kind, match: match}
}

type claimRule struct {
	kind  string
	match func(Claim, Permission) bool
}

func (r *claimRule) Holds(claims ClaimSet, perm Permission, _ Enforcer) (bool, error) {
	for _, c := range claims.OfKind(r.kind) {
		if r.match(c, perm) {
			return true, nil
		}
	}
	return false, nil
}

// PredicateRule holds iff pred does. The predicate sees the whole claim set
// and an enforcer handle, so one permission can be granted by checking
// another.
func PredicateRule(pred func(ClaimSet, Permission, Enforcer) (bool, error)) Rule {
	return &predicateRule{pred: pred}
}

type predicateRule struct {
	pred func(ClaimSet, Permission, Enforcer) (bool, error)
}

func (r *predicateRule) Holds(claims ClaimSet, perm Permission, enf Enforcer) (bool, error) {
	return r.pred(claims, perm, enf)
}

// GroupRule derives a broader permission from the one being checked and holds
// iff that derived permission is granted. The derivation must not cycle
// through permission kinds: the enforcer caps recursion depth and fails with
// ErrRecursionOverrun when it does.
func GroupRule(derive func(Permission) Permission) Rule {
	return &groupRule{derive: derive}
}

type groupRule struct {
	derive func(Permission) Permission
}

func (r *groupRule) Holds(claims ClaimSet, perm Permission, enf Enforcer) (bool, error) {
	return enf.Enforce(r.derive(perm), claims)
}
