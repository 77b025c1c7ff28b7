// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package credentials

import (
	"errors"
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestHasher_HashAndVerify(t *testing.T) {
	h := NewHasher(bcrypt.MinCost)

	hash, err := h.Hash("s3cret")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := ValidateHash(hash); err != nil {
		t.Errorf("expected a valid bcrypt hash, got %v", err)
	}
	if err := h.Verify("s3cret", hash); err != nil {
		t.Errorf("expected secret to verify, got %v", err)
	}
	if err := h.Verify("wrong", hash); !errors.Is(err, ErrMismatch) {
		t.Errorf("expected ErrMismatch, got %v", err)
	}
}

func TestHasher_HashErrors(t *testing.T) {
	h := NewHasher(bcrypt.MinCost)

	tests := []struct {
		name   string
		secret string
		err    error
	}{
		{name: "empty", secret: "", err: ErrEmptySecret},
		{name: "too long", secret: strings.Repeat("a", 73), err: ErrSecretTooLong},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := h.Hash(tt.secret); !errors.Is(err, tt.err) {
				t.Errorf("expected %v, got %v", tt.err, err)
			}
		})
	}
}

func TestValidateHash(t *testing.T) {
	if err := ValidateHash("plaintext"); !errors.Is(err, ErrNotAHash) {
		t.Errorf("expected ErrNotAHash, got %v", err)
	}
}

func TestNewHasherClampsCost(t *testing.T) {
	tests := []struct {
		cost     int
		expected int
	}{
		{cost: 0, expected: bcrypt.DefaultCost},
		{cost: 100, expected: bcrypt.MaxCost},
		{cost: 12, expected: 12},
	}

	for _, tt := range tests {
		if got := NewHasher(tt.cost).cost; got != tt.expected {
			t.Errorf("NewHasher(%d).cost = %d, want %d", tt.cost, got, tt.expected)
		}
	}
}
