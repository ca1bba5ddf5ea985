package types

import (
	"encoding/json"
	"strings"
)

// Claim is a single assertion about a caller: a kind, a value, and optional
// issuer metadata. Claims are value objects: once handed to the library they
// are never mutated.
type Claim struct {
	Kind           string     `json:"kind"`
	Value          string     `json:"value"`
	ValueType      string     `json:"valueType,omitempty"`
	Issuer         string     `json:"issuer,omitempty"`
	OriginalIssuer string     `json:"originalIssuer,omitempty"`
	Properties     []Property `json:"properties,omitempty"`
}

// Property is one ordered key-value entry attached to a Claim.
type Property struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Two claims are the same iff every field matches, properties in order.
// Key returns a canonical encoding of the claim with a fixed field order,
// used as a set key for deduplication and nothing else.
func (c Claim) Key() string {
	var b strings.Builder
	b.WriteString(c.Kind)
	b.WriteByte(unitSep)
	b.WriteString(c.Value)
	b.WriteByte(unitSep)
	b.WriteString(c.ValueType)
	b.WriteByte(unitSep)
	b.WriteString(c.Issuer)
	b.WriteByte(unitSep)
	b.WriteString(c.OriginalIssuer)
	for _, p := range c.Properties {
		b.WriteByte(recordSep)
		b.WriteString(p.Key)
		b.WriteByte(unitSep)
		b.WriteString(p.Value)
	}
	return b.String()
}

const (
	unitSep   = 0x1f
	recordSep = 0x1e
)

// ClaimSet is a deduplicated collection of claims. The zero value is an empty
// set ready to use. Order of the claims carries no meaning.
type ClaimSet []Claim

// Add appends the given claims, skipping any claim already present by its
// canonical key, and returns the extended set.
func (s ClaimSet) Add(claims ...Claim) ClaimSet {
	seen := make(map[string]struct{}, len(s))
	for _, c := range s {
		seen[c.Key()] = struct{}{}
	}
	for _, c := range claims {
		k := c.Key()
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		s = append(s, c)
	}
	return s
}

// OfKind returns all claims of the given kind.
func (s ClaimSet) OfKind(kind string) []Claim {
	var out []Claim
	for _, c := range s {
		if c.Kind == kind {
			out = append(out, c)
		}
	}
	return out
}

// Contains tells if an equal claim is in the set.
func (s ClaimSet) Contains(c Claim) bool {
	key := c.Key()
	for _, have := range s {
		if have.Key() == key {
			return true
		}
	}
	return false
}

// Serialize encodes the set for embedding into a ticket principal.
func (s ClaimSet) Serialize() (string, error) {
	raw, e := json.Marshal(s)
	if e != nil {
		return "", e
	}
	return string(raw), nil
}

// ParseClaimSet decodes a set serialized by Serialize.
func ParseClaimSet(raw string) (ClaimSet, error) {
	var s ClaimSet
	if e := json.Unmarshal([]byte(raw), &s); e != nil {
		return nil, e
	}
	return s, nil
}
