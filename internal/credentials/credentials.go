// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package credentials

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrEmptySecret   = errors.New("secret cannot be empty")
	ErrSecretTooLong = errors.New("secret is too long")
	ErrNotAHash      = errors.New("value is not a bcrypt hash")
	ErrMismatch      = errors.New("secret does not match hash")
)

type Hasher struct {
	cost int
}

// Hash creates a salted bcrypt hash of secret.
func (h *Hasher) Hash(secret string) (string, error) {
	if secret == "" {
		return "", ErrEmptySecret
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(secret), h.cost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", ErrSecretTooLong
		}
		return "", fmt.Errorf("could not hash secret: %w", err)
	}

	return string(hashed), nil
}

// Verify checks a plaintext secret against a bcrypt hash.
func (h *Hasher) Verify(secret, hash string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(secret)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return ErrMismatch
		}
		return fmt.Errorf("could not verify secret: %w", err)
	}
	return nil
}

// ValidateHash accepts values that already look like bcrypt output, so
// pre-hashed credentials can be stored as given.
func ValidateHash(hash string) error {
	if _, err := bcrypt.Cost([]byte(hash)); err != nil {
		return ErrNotAHash
	}
	return nil
}

// NewHasher clamps cost to the range bcrypt accepts.
func NewHasher(cost int) *Hasher {
	h := new(Hasher)

	switch {
	case cost < bcrypt.MinCost:
		h.cost = bcrypt.DefaultCost
	case cost > bcrypt.MaxCost:
		h.cost = bcrypt.MaxCost
	default:
		h.cost = cost
	}

	return h
}
