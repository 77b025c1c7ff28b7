// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package storage

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
)

func TestWrapWriteError(t *testing.T) {
	plain := errors.New("connection reset")

	tests := []struct {
		name       string
		err        error
		target     error
		constraint string
		isDup      bool
		isFK       bool
		keepErr    bool
	}{
		{
			name:       "unique violation",
			err:        &pgconn.PgError{Code: pgErrCodeUniqueViolation, ConstraintName: "companies_company_code_key"},
			target:     ErrDuplicateKey,
			constraint: "companies_company_code_key",
			isDup:      true,
		},
		{
			name:       "foreign key violation",
			err:        fmt.Errorf("exec: %w", &pgconn.PgError{Code: pgErrCodeForeignKeyViolation, ConstraintName: "users_company_id_fkey"}),
			target:     ErrForeignKeyViolation,
			constraint: "users_company_id_fkey",
			isFK:       true,
		},
		{
			name:    "other postgres error",
			err:     &pgconn.PgError{Code: "42P01"},
			keepErr: true,
		},
		{
			name:    "non postgres error",
			err:     plain,
			target:  plain,
			keepErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wrapped := wrapWriteError(tt.err, "insert tenant")

			if tt.target != nil && !errors.Is(wrapped, tt.target) {
				t.Errorf("expected %v to wrap %v", wrapped, tt.target)
			}
			if tt.constraint != "" && !strings.Contains(wrapped.Error(), tt.constraint) {
				t.Errorf("expected %v to name constraint %s", wrapped, tt.constraint)
			}
			if tt.keepErr && !errors.Is(wrapped, tt.err) {
				t.Errorf("expected original error to be kept, got %v", wrapped)
			}
			if IsDuplicateKeyError(tt.err) != tt.isDup {
				t.Errorf("IsDuplicateKeyError = %v, want %v", !tt.isDup, tt.isDup)
			}
			if IsForeignKeyViolation(tt.err) != tt.isFK {
				t.Errorf("IsForeignKeyViolation = %v, want %v", !tt.isFK, tt.isFK)
			}
		})
	}
}
