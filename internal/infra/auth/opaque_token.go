package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"

	"hrpm/internal/domain/service"

	"github.com/pkg/errors"
)

// OpaqueTokenBytes is the entropy of refresh and reset tokens.
const OpaqueTokenBytes = 32

type opaqueTokenGenerator struct {
	size int
}

// NewOpaqueTokenGenerator returns a generator of base64 encoded random tokens.
func NewOpaqueTokenGenerator() service.TokenGenerator {
	return &opaqueTokenGenerator{size: OpaqueTokenBytes}
}

// Generate returns a fresh token drawn from crypto/rand.
func (g *opaqueTokenGenerator) Generate() (string, error) {
	buf := make([]byte, g.size)
	if _, err := rand.Read(buf); err != nil {
		return "", errors.Wrap(err, "failed to read random bytes")
	}

	return base64.StdEncoding.EncodeToString(buf), nil
}

// Hash returns the hex SHA-256 digest stored in place of the token.
func (g *opaqueTokenGenerator) Hash(token string) string {
	sum := sha256.Sum256([]byte(token))

	return hex.EncodeToString(sum[:])
}
