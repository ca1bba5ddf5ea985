package ticket

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// PersistenceTokenBytes is the entropy of a ticket persistence token.
// Hex-encoded, the token string is twice as long.
const PersistenceTokenBytes = 16

// TokenGenerator produces cryptographically strong random hex tokens.
type TokenGenerator struct{}

// Generate returns 2*n lowercase hex characters from n random bytes.
func (TokenGenerator) Generate(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("read random bytes: %w", err)
	}
	return hex.EncodeToString(b), nil
}
