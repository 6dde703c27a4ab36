package auth

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpaqueTokenGenerator_Generate(t *testing.T) {
	gen := NewOpaqueTokenGenerator()

	seen := make(map[string]struct{})
	for range 100 {
		token, err := gen.Generate()
		require.NoError(t, err)

		raw, err := base64.StdEncoding.DecodeString(token)
		require.NoError(t, err)
		assert.Len(t, raw, OpaqueTokenBytes)

		_, dup := seen[token]
		assert.False(t, dup)
		seen[token] = struct{}{}
	}
}

func TestOpaqueTokenGenerator_Hash(t *testing.T) {
	gen := NewOpaqueTokenGenerator()

	// sha256("abc")
	assert.Equal(t, "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad", gen.Hash("abc"))
	assert.Equal(t, gen.Hash("token"), gen.Hash("token"))
	assert.NotEqual(t, gen.Hash("token"), gen.Hash("token2"))
	assert.Len(t, gen.Hash("anything"), 64)
}
