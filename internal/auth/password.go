// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package auth provides password hashing and verification.
// New digests use argon2id; digests in the werkzeug pbkdf2 format are
// still accepted so accounts imported from older installs can log in.
package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/pbkdf2"
)

// Argon2 parameters (OWASP recommended second choice: m=19456, t=2, p=1)
const (
	Argon2Time    = 2
	Argon2Memory  = 19 * 1024
	Argon2Threads = 1
	Argon2KeyLen  = 32
	Argon2SaltLen = 16
)

// ErrInvalidHash is returned when a stored digest cannot be parsed.
var ErrInvalidHash = errors.New("invalid password hash format")

const legacyPrefix = "pbkdf2:sha256:"

// HashPassword creates an argon2id digest of the password.
// Returns encoded hash in format: $argon2id$v=19$m=19456,t=2,p=1$salt$hash
func HashPassword(password string) (string, error) {
	salt := make([]byte, Argon2SaltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generating salt: %w", err)
	}

	key := argon2.IDKey([]byte(password), salt, Argon2Time, Argon2Memory, Argon2Threads, Argon2KeyLen)

	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version, Argon2Memory, Argon2Time, Argon2Threads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key)), nil
}

// CheckPassword verifies a password against a stored digest.
// The final comparison is constant-time for both supported formats.
func CheckPassword(password, encodedHash string) (bool, error) {
	if strings.HasPrefix(encodedHash, legacyPrefix) {
		return checkLegacy(password, encodedHash)
	}
	return checkArgon2(password, encodedHash)
}

// NeedsRehash reports whether a digest should be replaced by one created
// with the current argon2id parameters.
func NeedsRehash(encodedHash string) bool {
	parts := strings.Split(encodedHash, "$")
	if len(parts) != 6 || parts[1] != "argon2id" {
		return true
	}

	var memory, timeCost uint32
	var threads uint8
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &memory, &timeCost, &threads); err != nil {
		return true
	}

	return memory != Argon2Memory || timeCost != Argon2Time || threads != Argon2Threads
}

func checkArgon2(password, encodedHash string) (bool, error) {
	parts := strings.Split(encodedHash, "$")
	if len(parts) != 6 {
		return false, ErrInvalidHash
	}
	if parts[1] != "argon2id" {
		return false, fmt.Errorf("unsupported hash type: %s", parts[1])
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil {
		return false, fmt.Errorf("parsing version: %w", err)
	}

	var memory, timeCost uint32
	var threads uint8
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &memory, &timeCost, &threads); err != nil {
		return false, fmt.Errorf("parsing parameters: %w", err)
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return false, fmt.Errorf("decoding salt: %w", err)
	}
	expected, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return false, fmt.Errorf("decoding hash: %w", err)
	}

	// argon2.IDKey panics on zero time or threads
	if timeCost == 0 || threads == 0 || len(salt) == 0 || len(expected) == 0 {
		return false, ErrInvalidHash
	}

	key := argon2.IDKey([]byte(password), salt, timeCost, memory, threads, uint32(len(expected)))
	return subtle.ConstantTimeCompare(key, expected) == 1, nil
}

// checkLegacy verifies werkzeug digests: pbkdf2:sha256:<iterations>$<salt>$<hex>.
// The salt is used as its literal bytes.
func checkLegacy(password, encodedHash string) (bool, error) {
	method, rest, ok := strings.Cut(encodedHash, "$")
	if !ok {
		return false, ErrInvalidHash
	}
	salt, digest, ok := strings.Cut(rest, "$")
	if !ok || salt == "" {
		return false, ErrInvalidHash
	}

	iterations, err := strconv.Atoi(strings.TrimPrefix(method, legacyPrefix))
	if err != nil || iterations <= 0 {
		return false, fmt.Errorf("parsing iterations: %w", ErrInvalidHash)
	}

	expected, err := hex.DecodeString(digest)
	if err != nil {
		return false, fmt.Errorf("decoding hash: %w", err)
	}

	key := pbkdf2.Key([]byte(password), []byte(salt), iterations, sha256.Size, sha256.New)
	return subtle.ConstantTimeCompare(key, expected) == 1, nil
}
