// Package passwd turns account passwords into stored credentials and checks
// candidates against them.
//
// New credentials are Argon2id digests with a per-account random salt:
//
//	$argon2id$v=19$m=<KiB>,t=<iterations>,p=<parallelism>$<salt>$<key>
//
// salt and key are unpadded standard base64. Unsalted SHA-256 hex digests
// produced by earlier deployments are still accepted by Verify.
package passwd

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
)

// ErrInvalidHash is returned by Verify for digests it cannot parse.
var ErrInvalidHash = errors.New("passwd: invalid hash")

const argon2Version = argon2.Version

// Params controls Argon2id cost. MemoryKiB is in KiB as argon2.IDKey expects.
type Params struct {
	MemoryKiB   uint32 `json:"memory_kib" yaml:"memory_kib"`
	Iterations  uint32 `json:"iterations" yaml:"iterations"`
	Parallelism uint8  `json:"parallelism" yaml:"parallelism"`
	SaltLength  uint32 `json:"salt_length" yaml:"salt_length"`
	KeyLength   uint32 `json:"key_length" yaml:"key_length"`
}

// DefaultParams returns the baseline used for new credentials.
func DefaultParams() Params {
	return Params{
		MemoryKiB:   64 * 1024,
		Iterations:  1,
		Parallelism: 4,
		SaltLength:  16,
		KeyLength:   32,
	}
}

// Hasher hashes and verifies passwords with fixed Params.
type Hasher struct {
	params Params
	dummy  string
}

// NewHasher returns a Hasher using p. Zero fields fall back to DefaultParams.
func NewHasher(p Params) *Hasher {
	d := DefaultParams()
	if p.MemoryKiB == 0 {
		p.MemoryKiB = d.MemoryKiB
	}
	if p.Iterations == 0 {
		p.Iterations = d.Iterations
	}
	if p.Parallelism == 0 {
		p.Parallelism = d.Parallelism
	}
	if p.SaltLength == 0 {
		p.SaltLength = d.SaltLength
	}
	if p.KeyLength == 0 {
		p.KeyLength = d.KeyLength
	}

	h := &Hasher{params: p}
	h.dummy = h.encode(make([]byte, p.SaltLength), h.key("", make([]byte, p.SaltLength)))
	return h
}

// Params returns the parameters used for new digests.
func (h *Hasher) Params() Params { return h.params }

// Hash derives a salted digest of password.
func (h *Hasher) Hash(password string) (string, error) {
	salt := make([]byte, h.params.SaltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("salt: %w", err)
	}
	return h.encode(salt, h.key(password, salt)), nil
}

// Verify reports whether password matches digest. A malformed digest yields
// (false, ErrInvalidHash).
func (h *Hasher) Verify(digest, password string) (bool, error) {
	if isLegacy(digest) {
		sum := sha256.Sum256([]byte(password))
		want, _ := hex.DecodeString(strings.ToLower(digest))
		return subtle.ConstantTimeCompare(sum[:], want) == 1, nil
	}

	p, salt, want, err := decode(digest)
	if err != nil {
		return false, err
	}
	if !h.withinBounds(p) {
		return false, ErrInvalidHash
	}

	got := argon2.IDKey([]byte(password), salt, p.Iterations, p.MemoryKiB, p.Parallelism, uint32(len(want))) // #nosec G115 -- bounded by withinBounds
	return subtle.ConstantTimeCompare(got, want) == 1, nil
}

// Burn runs a verification against a fixed digest. Callers use it when there
// is no stored credential so that a miss costs as much as a mismatch.
func (h *Hasher) Burn(password string) {
	_, _ = h.Verify(h.dummy, password)
}

func (h *Hasher) key(password string, salt []byte) []byte {
	return argon2.IDKey([]byte(password), salt, h.params.Iterations, h.params.MemoryKiB, h.params.Parallelism, h.params.KeyLength)
}

func (h *Hasher) encode(salt, key []byte) string {
	b64 := base64.RawStdEncoding
	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2Version, h.params.MemoryKiB, h.params.Iterations, h.params.Parallelism,
		b64.EncodeToString(salt), b64.EncodeToString(key))
}

// withinBounds rejects digests whose cost is far above what this Hasher
// produces, so a tampered row cannot pin the CPU.
func (h *Hasher) withinBounds(p Params) bool {
	switch {
	case p.MemoryKiB > h.params.MemoryKiB*2:
		return false
	case p.Iterations > h.params.Iterations*4:
		return false
	case p.Parallelism > h.params.Parallelism*2:
		return false
	case p.SaltLength < 8 || p.SaltLength > 64:
		return false
	case p.KeyLength < 16 || p.KeyLength > 128:
		return false
	}
	return true
}

func isLegacy(digest string) bool {
	if len(digest) != sha256.Size*2 {
		return false
	}
	_, err := hex.DecodeString(digest)
	return err == nil
}

func decode(digest string) (Params, []byte, []byte, error) {
	parts := strings.Split(digest, "$")
	if len(parts) != 6 || parts[0] != "" || parts[1] != "argon2id" {
		return Params{}, nil, nil, ErrInvalidHash
	}
	if parts[2] != fmt.Sprintf("v=%d", argon2Version) {
		return Params{}, nil, nil, ErrInvalidHash
	}

	var mem, it, par uint32
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &mem, &it, &par); err != nil {
		return Params{}, nil, nil, ErrInvalidHash
	}
	if mem == 0 || it == 0 || par == 0 || par > 255 {
		return Params{}, nil, nil, ErrInvalidHash
	}

	b64 := base64.RawStdEncoding
	salt, err := b64.DecodeString(parts[4])
	if err != nil {
		return Params{}, nil, nil, ErrInvalidHash
	}
	key, err := b64.DecodeString(parts[5])
	if err != nil {
		return Params{}, nil, nil, ErrInvalidHash
	}

	return Params{
		MemoryKiB:   mem,
		Iterations:  it,
		Parallelism: uint8(par),        // #nosec G115 -- checked above
		SaltLength:  uint32(len(salt)), // #nosec G115 -- base64 decoded, small
		KeyLength:   uint32(len(key)),  // #nosec G115 -- base64 decoded, small
	}, salt, key, nil
}
