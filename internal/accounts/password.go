package accounts

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
)

// ErrInvalidHash indicates a stored digest that cannot be parsed.
var ErrInvalidHash = errors.New("accounts: invalid password hash format")

// saltBytes is the number of random bytes in a salt; it is stored hex encoded.
const saltBytes = 16

// Params tunes argon2id.
type Params struct {
	Memory      uint32
	Iterations  uint32
	Parallelism uint8
	KeyLength   uint32
}

// DefaultParams returns the production argon2id parameters.
func DefaultParams() Params {
	return Params{
		Memory:      64 * 1024,
		Iterations:  3,
		Parallelism: 2,
		KeyLength:   32,
	}
}

// Hasher derives salted password digests.
type Hasher struct {
	params Params
}

// NewHasher constructs a Hasher; zero fields fall back to DefaultParams.
func NewHasher(p Params) *Hasher {
	def := DefaultParams()
	if p.Memory == 0 {
		p.Memory = def.Memory
	}
	if p.Iterations == 0 {
		p.Iterations = def.Iterations
	}
	if p.Parallelism == 0 {
		p.Parallelism = def.Parallelism
	}
	if p.KeyLength == 0 {
		p.KeyLength = def.KeyLength
	}
	return &Hasher{params: p}
}

// NewSalt returns a fresh random salt.
func (h *Hasher) NewSalt() (string, error) {
	buf := make([]byte, saltBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("accounts: generate salt: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

// Digest hashes password with salt using the hasher's parameters. The same
// password and salt always produce the same digest.
func (h *Hasher) Digest(password, salt string) string {
	p := h.params
	key := argon2.IDKey([]byte(password), []byte(salt), p.Iterations, p.Memory, p.Parallelism, p.KeyLength)
	return fmt.Sprintf("argon2id$v=%d$m=%d,t=%d,p=%d$%s",
		argon2.Version, p.Memory, p.Iterations, p.Parallelism,
		base64.RawStdEncoding.EncodeToString(key))
}

// Compare recomputes the digest of password with salt, using the parameters
// embedded in encoded, and compares in constant time.
func (h *Hasher) Compare(encoded, password, salt string) (bool, error) {
	p, want, err := decodeDigest(encoded)
	if err != nil {
		return false, err
	}
	got := argon2.IDKey([]byte(password), []byte(salt), p.Iterations, p.Memory, p.Parallelism, uint32(len(want)))
	return subtle.ConstantTimeCompare(want, got) == 1, nil
}

func decodeDigest(encoded string) (Params, []byte, error) {
	parts := strings.Split(encoded, "$")
	if len(parts) != 4 || parts[0] != "argon2id" {
		return Params{}, nil, ErrInvalidHash
	}
	var version int
	if _, err := fmt.Sscanf(parts[1], "v=%d", &version); err != nil || version != argon2.Version {
		return Params{}, nil, ErrInvalidHash
	}
	var p Params
	if _, err := fmt.Sscanf(parts[2], "m=%d,t=%d,p=%d", &p.Memory, &p.Iterations, &p.Parallelism); err != nil {
		return Params{}, nil, ErrInvalidHash
	}
	key, err := base64.RawStdEncoding.DecodeString(parts[3])
	if err != nil || len(key) == 0 {
		return Params{}, nil, ErrInvalidHash
	}
	p.KeyLength = uint32(len(key))
	return p, key, nil
}
