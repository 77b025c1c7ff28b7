// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package provisioning

import (
	"github.com/canonical/tenant-bootstrap/internal/types"
)

// TenantRequest carries the attributes of a tenant to register.
// Password is hashed before storage; PasswordHash must already be a bcrypt
// hash and is stored as given. At most one of them is set.
type TenantRequest struct {
	Code         string         `json:"code" validate:"required,tenantcode"`
	Name         string         `json:"name" validate:"required,max=255"`
	Password     string         `json:"password,omitempty" validate:"omitempty,max=72"`
	PasswordHash string         `json:"password_hash,omitempty" validate:"omitempty,bcrypthash"`
	Settings     types.Settings `json:"settings"`
}

type AccountRequest struct {
	TenantCode string `json:"tenant_code" validate:"required,tenantcode"`
	Username   string `json:"username" validate:"required,max=255"`
	Email      string `json:"email" validate:"required,email,max=255"`
	Role       string `json:"role" validate:"required,oneof=admin member"`
}

type ProvisionRequest struct {
	Tenant  TenantRequest  `json:"tenant"`
	Account AccountRequest `json:"account"`
}

type TenantResult struct {
	Tenant  *types.Tenant `json:"tenant"`
	Outcome types.Outcome `json:"outcome"`
}

type AccountResult struct {
	Account *types.Account `json:"account"`
	Outcome types.Outcome  `json:"outcome"`
}

type ProvisionResult struct {
	Tenant  *TenantResult  `json:"tenant"`
	Account *AccountResult `json:"account"`
}

// DefaultSettings are applied to tenants registered without settings.
func DefaultSettings() types.Settings {
	return types.Settings{
		"model":     "default",
		"quota_gb":  10,
		"max_users": 5,
	}
}
