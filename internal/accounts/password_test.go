package accounts

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testParams = Params{Memory: 1024, Iterations: 1, Parallelism: 1, KeyLength: 32}

func TestDigestIsDeterministicPerSalt(t *testing.T) {
	h := NewHasher(testParams)
	salt, err := h.NewSalt()
	require.NoError(t, err)
	assert.Len(t, salt, 2*saltBytes)

	assert.Equal(t, h.Digest("hunter22", salt), h.Digest("hunter22", salt))
	assert.NotEqual(t, h.Digest("hunter22", salt), h.Digest("hunter23", salt))
	assert.True(t, strings.HasPrefix(h.Digest("hunter22", salt), "argon2id$v=19$m=1024,t=1,p=1$"))
}

func TestSaltsDiffer(t *testing.T) {
	h := NewHasher(testParams)
	seen := make(map[string]struct{})
	for i := 0; i < 64; i++ {
		salt, err := h.NewSalt()
		require.NoError(t, err)
		_, dup := seen[salt]
		require.False(t, dup, "salt reused: %s", salt)
		seen[salt] = struct{}{}
	}
}

func TestCompareUsesEmbeddedParams(t *testing.T) {
	old := NewHasher(testParams)
	salt, err := old.NewSalt()
	require.NoError(t, err)
	digest := old.Digest("s3cret-pass", salt)

	// A hasher with different defaults still verifies digests made with older parameters.
	current := NewHasher(Params{Memory: 2048, Iterations: 2, Parallelism: 1, KeyLength: 16})
	ok, err := current.Compare(digest, "s3cret-pass", salt)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = current.Compare(digest, "wrong-pass", salt)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCompareRejectsMalformedDigest(t *testing.T) {
	h := NewHasher(testParams)
	for _, encoded := range []string{
		"",
		"plaintext",
		"bcrypt$v=19$m=1,t=1,p=1$AAAA",
		"argon2id$v=18$m=1024,t=1,p=1$AAAA",
		"argon2id$v=19$m=x,t=1,p=1$AAAA",
		"argon2id$v=19$m=1024,t=1,p=1$!!!",
	} {
		_, err := h.Compare(encoded, "pw", "salt")
		assert.ErrorIs(t, err, ErrInvalidHash, encoded)
	}
}

func TestFoldUsername(t *testing.T) {
	assert.Equal(t, FoldUsername("Admin"), FoldUsername("admin"))
	assert.Equal(t, FoldUsername(" ADMIN "), FoldUsername("admin"))
	assert.NotEqual(t, FoldUsername("admin"), FoldUsername("admin2"))
}
