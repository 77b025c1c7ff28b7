// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package provisioning

import (
	"context"

	"github.com/canonical/tenant-bootstrap/internal/types"
)

type ServiceInterface interface {
	RegisterTenant(ctx context.Context, req *TenantRequest) (*TenantResult, error)
	RegisterAccount(ctx context.Context, req *AccountRequest) (*AccountResult, error)
	Provision(ctx context.Context, tenant *TenantRequest, account *AccountRequest) (*ProvisionResult, error)
	Verify(ctx context.Context, code string) ([]*types.TenantAccount, error)
	ListTenants(ctx context.Context) ([]*types.Tenant, error)
	SetTenantStatus(ctx context.Context, code string, active bool) error
	UpdateTenantSettings(ctx context.Context, code string, settings types.Settings) (*types.Tenant, error)
	SetAccountStatus(ctx context.Context, code, username string, active bool) error
}

// StorageInterface defines the storage operations required by the provisioning package.
// It is a subset of the internal/storage interface.
type StorageInterface interface {
	InsertTenantIfAbsent(ctx context.Context, t *types.Tenant) (*types.Tenant, bool, error)
	GetTenantByCode(ctx context.Context, code string) (*types.Tenant, error)
	ListTenants(ctx context.Context) ([]*types.Tenant, error)
	SetTenantStatus(ctx context.Context, code string, active bool) error
	UpdateTenantSettings(ctx context.Context, code string, settings types.Settings) (*types.Tenant, error)
	InsertAccountIfAbsent(ctx context.Context, a *types.Account) (*types.Account, bool, error)
	SetAccountStatus(ctx context.Context, tenantID, username string, active bool) error
	ListTenantAccounts(ctx context.Context, code string) ([]*types.TenantAccount, error)
}

// TxInterface runs a function inside a single database transaction.
// AfterCommit defers fn until the transaction in ctx commits, or runs it at
// once when ctx carries none.
type TxInterface interface {
	WithTx(ctx context.Context, fn func(context.Context) error) error
	AfterCommit(ctx context.Context, fn func())
}
