// Package passhash derives verifiable password digests with Argon2id and a
// per-user random salt. The digest is deterministic for a given
// (password, salt, params) triple; verification compares in constant time.
package passhash

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"

	"golang.org/x/crypto/argon2"
)

const SaltSize = 16

// Params are the Argon2id cost factors. They are configuration, not
// constants: raising them must not require a code change.
type Params struct {
	Time      uint32
	MemoryKiB uint32
	Threads   uint8
	KeyLen    uint32
}

func DefaultParams() Params {
	return Params{
		Time:      1,
		MemoryKiB: 64 * 1024,
		Threads:   4,
		KeyLen:    32,
	}
}

type Hasher struct {
	params Params
}

func New(params Params) *Hasher {
	if params.Time == 0 {
		params.Time = 1
	}
	if params.MemoryKiB == 0 {
		params.MemoryKiB = 64 * 1024
	}
	if params.Threads == 0 {
		params.Threads = 4
	}
	if params.KeyLen == 0 {
		params.KeyLen = 32
	}
	return &Hasher{params: params}
}

// GenerateSalt returns a fresh random salt, base64-encoded for storage.
func GenerateSalt() (string, error) {
	salt := make([]byte, SaltSize)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generate salt failed: %w", err)
	}
	return base64.StdEncoding.EncodeToString(salt), nil
}

// Hash derives the digest of password under the stored base64 salt and
// returns it base64-encoded.
func (h *Hasher) Hash(password, saltB64 string) (string, error) {
	salt, err := base64.StdEncoding.DecodeString(saltB64)
	if err != nil {
		return "", fmt.Errorf("decode salt failed: %w", err)
	}
	digest := argon2.IDKey([]byte(password), salt, h.params.Time, h.params.MemoryKiB, h.params.Threads, h.params.KeyLen)
	return base64.StdEncoding.EncodeToString(digest), nil
}

// Verify re-derives the digest for password under saltB64 and compares it
// against the stored digest in constant time.
func (h *Hasher) Verify(password, saltB64, digestB64 string) (bool, error) {
	computed, err := h.Hash(password, saltB64)
	if err != nil {
		return false, err
	}
	expected, err := base64.StdEncoding.DecodeString(digestB64)
	if err != nil {
		return false, fmt.Errorf("decode stored digest failed: %w", err)
	}
	got, err := base64.StdEncoding.DecodeString(computed)
	if err != nil {
		return false, err
	}
	return subtle.ConstantTimeCompare(got, expected) == 1, nil
}
