// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Guildhall Contributors

package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/samber/oops"
	"golang.org/x/crypto/argon2"
)

// Params are the argon2id cost parameters used for new hashes.
type Params struct {
	Time    uint32
	Memory  uint32 // KiB
	Threads uint8
	SaltLen uint32
	KeyLen  uint32
}

// DefaultParams follow the OWASP argon2id recommendation.
var DefaultParams = Params{
	Time:    1,
	Memory:  64 * 1024,
	Threads: 4,
	SaltLen: 16,
	KeyLen:  32,
}

// ErrEmptyPassword is returned when hashing an empty password.
var ErrEmptyPassword = oops.Code("AUTH_EMPTY_PASSWORD").Errorf("password cannot be empty")

// PasswordHasher hashes passwords under a separately stored salt.
type PasswordHasher interface {
	// NewSalt returns a fresh random salt in its stored form.
	NewSalt() (string, error)

	// Hash hashes password under salt.
	Hash(password, salt string) (string, error)

	// Verify reports whether password hashed under salt matches hash.
	// A malformed hash or salt is an error, a mismatch is not.
	Verify(password, hash, salt string) (bool, error)
}

// Argon2idHasher implements PasswordHasher. Hashes are encoded as PHC
// strings so their cost parameters can change without invalidating old ones.
type Argon2idHasher struct {
	params Params
}

// NewArgon2idHasher returns a hasher using DefaultParams.
func NewArgon2idHasher() *Argon2idHasher {
	return NewArgon2idHasherWithParams(DefaultParams)
}

// NewArgon2idHasherWithParams returns a hasher using p for new hashes.
func NewArgon2idHasherWithParams(p Params) *Argon2idHasher {
	return &Argon2idHasher{params: p}
}

// NewSalt returns SaltLen random bytes, base64 encoded without padding.
func (h *Argon2idHasher) NewSalt() (string, error) {
	salt := make([]byte, h.params.SaltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", oops.Code("AUTH_SALT_FAILED").Wrap(err)
	}
	return base64.RawStdEncoding.EncodeToString(salt), nil
}

// Hash produces $argon2id$v=19$m=..,t=..,p=..$<salt>$<key>.
func (h *Argon2idHasher) Hash(password, salt string) (string, error) {
	if password == "" {
		return "", ErrEmptyPassword
	}
	raw, err := decodeSalt(salt)
	if err != nil {
		return "", err
	}

	p := h.params
	key := argon2.IDKey([]byte(password), raw, p.Time, p.Memory, p.Threads, p.KeyLen)
	return fmt.Sprintf(
		"$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version, p.Memory, p.Time, p.Threads,
		base64.RawStdEncoding.EncodeToString(raw),
		base64.RawStdEncoding.EncodeToString(key),
	), nil
}

// Verify recomputes the key with the parameters recorded in hash.
func (h *Argon2idHasher) Verify(password, hash, salt string) (bool, error) {
	raw, err := decodeSalt(salt)
	if err != nil {
		return false, err
	}

	parts := strings.Split(hash, "$")
	if len(parts) != 6 {
		return false, invalidHash("invalid hash format")
	}
	if parts[1] != "argon2id" {
		return false, invalidHash("unsupported hash algorithm: %s", parts[1])
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil {
		return false, oops.Code("AUTH_INVALID_HASH").Wrap(err)
	}
	if version != argon2.Version {
		return false, invalidHash("unsupported argon2 version %d", version)
	}

	var memory, iterations, threads uint32
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &memory, &iterations, &threads); err != nil {
		return false, oops.Code("AUTH_INVALID_HASH").Wrap(err)
	}
	if threads == 0 || threads > 255 {
		return false, invalidHash("threads value %d out of range", threads)
	}

	stored, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return false, oops.Code("AUTH_INVALID_HASH").Wrap(err)
	}
	if subtle.ConstantTimeCompare(stored, raw) != 1 {
		return false, invalidHash("salt does not match stored hash")
	}

	expected, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return false, oops.Code("AUTH_INVALID_HASH").Wrap(err)
	}
	if len(expected) == 0 || len(expected) > 1<<10 {
		return false, invalidHash("invalid key length %d", len(expected))
	}

	computed := argon2.IDKey([]byte(password), raw, iterations, memory, uint8(threads), uint32(len(expected)))
	return subtle.ConstantTimeCompare(computed, expected) == 1, nil
}

func decodeSalt(salt string) ([]byte, error) {
	raw, err := base64.RawStdEncoding.DecodeString(salt)
	if err != nil {
		return nil, oops.Code("AUTH_INVALID_SALT").Wrap(err)
	}
	if len(raw) == 0 {
		return nil, oops.Code("AUTH_INVALID_SALT").Errorf("salt cannot be empty")
	}
	return raw, nil
}

func invalidHash(format string, args ...any) error {
	return oops.Code("AUTH_INVALID_HASH").Errorf(format, args...)
}
