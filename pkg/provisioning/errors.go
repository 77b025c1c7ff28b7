// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package provisioning

import "errors"

var (
	ErrInvalidRequest = errors.New("invalid request")
	// ErrTenantNotFound is the referential integrity failure of the account
	// registrar; retrying without registering the tenant first fails again.
	ErrTenantNotFound  = errors.New("tenant not found")
	ErrAccountNotFound = errors.New("account not found")
)
