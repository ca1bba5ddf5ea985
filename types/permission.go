package types

// Permission is an application defined request for access. Rules are
// dispatched on the Kind, not on the value: two permissions of the same kind
// share one rule list, whatever their payload fields are. Constructing and
// evaluating a permission must be free of side effects.
type Permission interface {
	Kind() string
}

// Enforcer decides if a claim set is granted a permission. It is also the
// handle handed to rules so they can query other permissions recursively.
type Enforcer interface {
	// Enforce returns true iff any rule registered for the permission's kind
	// holds for the given claims. No rules registered means deny, not error.
	Enforce(perm Permission, claims ClaimSet) (bool, error)
}
