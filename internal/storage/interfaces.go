// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package storage

import (
	"context"

	"github.com/canonical/tenant-bootstrap/internal/types"
)

type StorageInterface interface {
	InsertTenantIfAbsent(ctx context.Context, t *types.Tenant) (*types.Tenant, bool, error)
	GetTenantByCode(ctx context.Context, code string) (*types.Tenant, error)
	ListTenants(ctx context.Context) ([]*types.Tenant, error)
	SetTenantStatus(ctx context.Context, code string, active bool) error
	UpdateTenantSettings(ctx context.Context, code string, settings types.Settings) (*types.Tenant, error)
	InsertAccountIfAbsent(ctx context.Context, a *types.Account) (*types.Account, bool, error)
	GetAccount(ctx context.Context, tenantID, username string) (*types.Account, error)
	SetAccountStatus(ctx context.Context, tenantID, username string, active bool) error
	ListTenantAccounts(ctx context.Context, code string) ([]*types.TenantAccount, error)
}
