// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package types

import (
	"time"
)

const (
	RoleAdmin  = "admin"
	RoleMember = "member"
)

// Settings is the free-form configuration object attached to a tenant
type Settings map[string]any

// Tenant is a customer organization, stored in the companies table
type Tenant struct {
	ID           string    `db:"id" json:"id"`
	Code         string    `db:"company_code" json:"code"`
	Name         string    `db:"name" json:"name"`
	PasswordHash string    `db:"password_hash" json:"-"`
	Active       bool      `db:"is_active" json:"active"`
	Settings     Settings  `db:"settings" json:"settings"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// Account is a login-capable user scoped to a single tenant, stored in the users table
type Account struct {
	ID        string     `db:"id" json:"id"`
	TenantID  string     `db:"company_id" json:"tenant_id"`
	Username  string     `db:"username" json:"username"`
	Email     string     `db:"email" json:"email"`
	Role      string     `db:"role" json:"role"`
	LastLogin *time.Time `db:"last_login" json:"last_login"`
	Active    bool       `db:"is_active" json:"active"`
	CreatedAt time.Time  `db:"created_at" json:"created_at"`
}

// TenantAccount is one row of the verification join
type TenantAccount struct {
	TenantID      string `json:"tenant_id"`
	TenantName    string `json:"tenant_name"`
	TenantCode    string `json:"tenant_code"`
	AccountID     string `json:"account_id"`
	Username      string `json:"username"`
	Email         string `json:"email"`
	Role          string `json:"role"`
	AccountActive bool   `json:"account_active"`
}

type Outcome string

const (
	OutcomeCreated       Outcome = "created"
	OutcomeAlreadyExists Outcome = "already_exists"
)
