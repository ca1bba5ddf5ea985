package types

import "strings"

// Entity is a user or a group claims can be attached to
// Entity is not expecting custom implementations
type Entity interface {
	// String method is used to be serialized when persisting
	String() string
	entity() string
}

// User is a caller identity, a member of any number of Groups
type User string

func (u User) String() string {
	return "user:" + string(u)
}

func (u User) entity() string {
	return u.String()
}

// Group is a collection of Users and other Groups, carrying claims of its own
type Group string

func (g Group) String() string {
	return "group:" + string(g)
}

func (g Group) entity() string {
	return g.String()
}

// ParseEntity parses a serialized Entity
func ParseEntity(s string) (Entity, error) {
	switch {
	case strings.HasPrefix(s, "user:"):
		return User(strings.TrimPrefix(s, "user:")), nil
	case strings.HasPrefix(s, "group:"):
		return Group(strings.TrimPrefix(s, "group:")), nil
	}

	return nil, ErrInvalidEntity
}

// ParseUser parses a serialized User
func ParseUser(s string) (User, error) {
	if strings.HasPrefix(s, "user:") {
		return User(strings.TrimPrefix(s, "user:")), nil
	}
	return "", ErrInvalidEntity
}

// ParseGroup parses a serialized Group
func ParseGroup(s string) (Group, error) {
	if strings.HasPrefix(s, "group:") {
		return Group(strings.TrimPrefix(s, "group:")), nil
	}
	return "", ErrInvalidEntity
}
