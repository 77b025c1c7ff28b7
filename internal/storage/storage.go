// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/canonical/tenant-bootstrap/internal/db"
	"github.com/canonical/tenant-bootstrap/internal/logging"
	"github.com/canonical/tenant-bootstrap/internal/monitoring"
	"github.com/canonical/tenant-bootstrap/internal/tracing"
	"github.com/canonical/tenant-bootstrap/internal/types"
)

const (
	tenantsTable  = "companies"
	accountsTable = "users"
)

var (
	tenantColumns  = []string{"id", "company_code", "name", "password_hash", "is_active", "settings", "created_at", "updated_at"}
	accountColumns = []string{"id", "company_id", "username", "email", "role", "last_login", "is_active", "created_at"}
)

var _ StorageInterface = (*Storage)(nil)

type Storage struct {
	db db.DBClientInterface

	logger  logging.LoggerInterface
	tracer  tracing.TracingInterface
	monitor monitoring.MonitorInterface
}

func NewStorage(c db.DBClientInterface, tracer tracing.TracingInterface, monitor monitoring.MonitorInterface, logger logging.LoggerInterface) *Storage {
	s := new(Storage)

	s.db = c

	s.logger = logger
	s.tracer = tracer
	s.monitor = monitor

	return s
}

// InsertTenantIfAbsent inserts t unless a tenant with the same code exists.
// The boolean reports whether a row was created; when it is false the stored
// tenant is returned unchanged.
func (s *Storage) InsertTenantIfAbsent(ctx context.Context, t *types.Tenant) (*types.Tenant, bool, error) {
	ctx, span := s.tracer.Start(ctx, "storage.InsertTenantIfAbsent")
	defer span.End()

	id, err := uuid.NewV7()
	if err != nil {
		return nil, false, fmt.Errorf("failed to generate tenant ID: %w", err)
	}

	settings, err := json.Marshal(t.Settings)
	if err != nil {
		return nil, false, fmt.Errorf("failed to encode tenant settings: %w", err)
	}

	var created *types.Tenant
	err = s.db.WithTx(ctx, func(ctx context.Context) error {
		row := s.db.Statement(ctx).
			Insert(tenantsTable).
			Columns("id", "company_code", "name", "password_hash", "is_active", "settings").
			Values(id.String(), t.Code, t.Name, t.PasswordHash, true, string(settings)).
			Suffix("ON CONFLICT (company_code) DO NOTHING").
			Suffix(returning(tenantColumns)).
			QueryRowContext(ctx)

		tenant, err := scanTenant(row)
		if err == nil {
			created = tenant
			return nil
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return wrapWriteError(err, "insert tenant")
		}

		// conflict on company_code, hand back the row that won
		existing, err := s.GetTenantByCode(ctx, t.Code)
		if err != nil {
			return err
		}
		created = existing
		return errAlreadyExists
	})

	if errors.Is(err, errAlreadyExists) {
		return created, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	return created, true, nil
}

func (s *Storage) GetTenantByCode(ctx context.Context, code string) (*types.Tenant, error) {
	ctx, span := s.tracer.Start(ctx, "storage.GetTenantByCode")
	defer span.End()

	row := s.db.Statement(ctx).
		Select(tenantColumns...).
		From(tenantsTable).
		Where(sq.Eq{"company_code": code}).
		QueryRowContext(ctx)

	t, err := scanTenant(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get tenant: %w", err)
	}

	return t, nil
}

func (s *Storage) ListTenants(ctx context.Context) ([]*types.Tenant, error) {
	ctx, span := s.tracer.Start(ctx, "storage.ListTenants")
	defer span.End()

	rows, err := s.db.Statement(ctx).
		Select(tenantColumns...).
		From(tenantsTable).
		OrderBy("company_code").
		QueryContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list tenants: %w", err)
	}
	defer rows.Close()

	var tenants []*types.Tenant
	for rows.Next() {
		t, err := scanTenant(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan tenant: %w", err)
		}
		tenants = append(tenants, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tenant rows: %w", err)
	}

	return tenants, nil
}

func (s *Storage) SetTenantStatus(ctx context.Context, code string, active bool) error {
	ctx, span := s.tracer.Start(ctx, "storage.SetTenantStatus")
	defer span.End()

	res, err := s.db.Statement(ctx).
		Update(tenantsTable).
		Set("is_active", active).
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{"company_code": code}).
		ExecContext(ctx)
	if err != nil {
		return fmt.Errorf("failed to update tenant status: %w", err)
	}

	return expectAffected(res)
}

func (s *Storage) UpdateTenantSettings(ctx context.Context, code string, settings types.Settings) (*types.Tenant, error) {
	ctx, span := s.tracer.Start(ctx, "storage.UpdateTenantSettings")
	defer span.End()

	encoded, err := json.Marshal(settings)
	if err != nil {
		return nil, fmt.Errorf("failed to encode tenant settings: %w", err)
	}

	row := s.db.Statement(ctx).
		Update(tenantsTable).
		Set("settings", string(encoded)).
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{"company_code": code}).
		Suffix(returning(tenantColumns)).
		QueryRowContext(ctx)

	t, err := scanTenant(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to update tenant settings: %w", err)
	}

	return t, nil
}

// InsertAccountIfAbsent inserts a unless the tenant already has an account
// with the same username. A missing owning tenant surfaces as
// ErrForeignKeyViolation.
func (s *Storage) InsertAccountIfAbsent(ctx context.Context, a *types.Account) (*types.Account, bool, error) {
	ctx, span := s.tracer.Start(ctx, "storage.InsertAccountIfAbsent")
	defer span.End()

	id, err := uuid.NewV7()
	if err != nil {
		return nil, false, fmt.Errorf("failed to generate account ID: %w", err)
	}

	var created *types.Account
	err = s.db.WithTx(ctx, func(ctx context.Context) error {
		row := s.db.Statement(ctx).
			Insert(accountsTable).
			Columns("id", "company_id", "username", "email", "role", "is_active").
			Values(id.String(), a.TenantID, a.Username, a.Email, a.Role, true).
			Suffix("ON CONFLICT (company_id, username) DO NOTHING").
			Suffix(returning(accountColumns)).
			QueryRowContext(ctx)

		account, err := scanAccount(row)
		if err == nil {
			created = account
			return nil
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return wrapWriteError(err, "insert account")
		}

		existing, err := s.GetAccount(ctx, a.TenantID, a.Username)
		if err != nil {
			return err
		}
		created = existing
		return errAlreadyExists
	})

	if errors.Is(err, errAlreadyExists) {
		return created, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	return created, true, nil
}

func (s *Storage) GetAccount(ctx context.Context, tenantID, username string) (*types.Account, error) {
	ctx, span := s.tracer.Start(ctx, "storage.GetAccount")
	defer span.End()

	row := s.db.Statement(ctx).
		Select(accountColumns...).
		From(accountsTable).
		Where(sq.Eq{"company_id": tenantID, "username": username}).
		QueryRowContext(ctx)

	a, err := scanAccount(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get account: %w", err)
	}

	return a, nil
}

func (s *Storage) SetAccountStatus(ctx context.Context, tenantID, username string, active bool) error {
	ctx, span := s.tracer.Start(ctx, "storage.SetAccountStatus")
	defer span.End()

	res, err := s.db.Statement(ctx).
		Update(accountsTable).
		Set("is_active", active).
		Where(sq.Eq{"company_id": tenantID, "username": username}).
		ExecContext(ctx)
	if err != nil {
		return fmt.Errorf("failed to update account status: %w", err)
	}

	return expectAffected(res)
}

// ListTenantAccounts is the read-only verification join of a tenant and its accounts.
func (s *Storage) ListTenantAccounts(ctx context.Context, code string) ([]*types.TenantAccount, error) {
	ctx, span := s.tracer.Start(ctx, "storage.ListTenantAccounts")
	defer span.End()

	rows, err := s.db.Statement(ctx).
		Select("c.id", "c.name", "c.company_code", "u.id", "u.username", "u.email", "u.role", "u.is_active").
		From(tenantsTable + " c").
		Join(accountsTable + " u ON u.company_id = c.id").
		Where(sq.Eq{"c.company_code": code}).
		OrderBy("u.username").
		QueryContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list tenant accounts: %w", err)
	}
	defer rows.Close()

	var accounts []*types.TenantAccount
	for rows.Next() {
		var ta types.TenantAccount
		if err := rows.Scan(
			&ta.TenantID, &ta.TenantName, &ta.TenantCode,
			&ta.AccountID, &ta.Username, &ta.Email, &ta.Role, &ta.AccountActive,
		); err != nil {
			return nil, fmt.Errorf("failed to scan tenant account: %w", err)
		}
		accounts = append(accounts, &ta)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return accounts, nil
}
