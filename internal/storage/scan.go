// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"

	"github.com/canonical/tenant-bootstrap/internal/types"
)

// errAlreadyExists rolls back the insert-or-skip transaction without surfacing
// an error to the caller
var errAlreadyExists = errors.New("row already exists")

func returning(columns []string) string {
	return "RETURNING " + strings.Join(columns, ", ")
}

func scanTenant(row sq.RowScanner) (*types.Tenant, error) {
	var t types.Tenant
	var settings []byte

	if err := row.Scan(&t.ID, &t.Code, &t.Name, &t.PasswordHash, &t.Active, &settings, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return nil, err
	}

	if err := decodeSettings(settings, &t.Settings); err != nil {
		return nil, err
	}

	return &t, nil
}

func decodeSettings(raw []byte, dst *types.Settings) error {
	if len(raw) == 0 {
		*dst = types.Settings{}
		return nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("failed to decode tenant settings: %w", err)
	}
	if *dst == nil {
		*dst = types.Settings{}
	}
	return nil
}

func scanAccount(row sq.RowScanner) (*types.Account, error) {
	var a types.Account
	var lastLogin sql.NullTime

	if err := row.Scan(&a.ID, &a.TenantID, &a.Username, &a.Email, &a.Role, &lastLogin, &a.Active, &a.CreatedAt); err != nil {
		return nil, err
	}

	if lastLogin.Valid {
		a.LastLogin = &lastLogin.Time
	}

	return &a, nil
}

func expectAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
