package types

import "errors"

// exported errors
var (
	ErrNotFound         = errors.New("not found")
	ErrAlreadyExists    = errors.New("already exists")
	ErrInvalidEntity    = errors.New("invalid entity, it should be a user or a group")
	ErrInvalidSession   = errors.New("no active session")
	ErrRecursionOverrun = errors.New("permission rules recurse too deep")
	ErrNoClaimSource    = errors.New("claim source is not configured")
	ErrNaiveTime        = errors.New("timestamp is missing or not normalized to UTC")
)
