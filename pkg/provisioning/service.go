// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package provisioning

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/canonical/tenant-bootstrap/internal/credentials"
	"github.com/canonical/tenant-bootstrap/internal/logging"
	"github.com/canonical/tenant-bootstrap/internal/monitoring"
	"github.com/canonical/tenant-bootstrap/internal/storage"
	"github.com/canonical/tenant-bootstrap/internal/tracing"
	"github.com/canonical/tenant-bootstrap/internal/types"
)

var _ ServiceInterface = (*Service)(nil)

type Service struct {
	storage   StorageInterface
	tx        TxInterface
	hasher    *credentials.Hasher
	validator *validator.Validate

	tracer  tracing.TracingInterface
	monitor monitoring.MonitorInterface
	logger  logging.LoggerInterface
}

func NewService(
	storage StorageInterface,
	tx TxInterface,
	hasher *credentials.Hasher,
	tracer tracing.TracingInterface,
	monitor monitoring.MonitorInterface,
	logger logging.LoggerInterface,
) *Service {
	return &Service{
		storage:   storage,
		tx:        tx,
		hasher:    hasher,
		validator: newValidator(),
		tracer:    tracer,
		monitor:   monitor,
		logger:    logger,
	}
}

// RegisterTenant makes sure a tenant with req.Code exists.
// An existing tenant is never modified, even when its attributes differ from
// req; the differences are logged and the stored tenant is returned.
// Audit events and metrics are emitted once the enclosing transaction commits.
func (s *Service) RegisterTenant(ctx context.Context, req *TenantRequest) (*TenantResult, error) {
	ctx, span := s.tracer.Start(ctx, "provisioning.Service.RegisterTenant")
	defer span.End()

	if err := s.validateTenant(req); err != nil {
		return nil, err
	}

	settings := req.Settings
	if len(settings) == 0 {
		settings = DefaultSettings()
	}

	hash := req.PasswordHash
	if req.Password != "" {
		h, err := s.hasher.Hash(req.Password)
		if errors.Is(err, credentials.ErrSecretTooLong) {
			return nil, fmt.Errorf("%w: password: %v", ErrInvalidRequest, err)
		}
		if err != nil {
			return nil, fmt.Errorf("failed to hash password of tenant %s: %w", req.Code, err)
		}
		hash = h
	}

	t := &types.Tenant{
		Code:         req.Code,
		Name:         req.Name,
		PasswordHash: hash,
		Settings:     settings,
	}

	stored, created, err := s.storage.InsertTenantIfAbsent(ctx, t)
	if err != nil {
		return nil, fmt.Errorf("failed to register tenant %s: %w", req.Code, err)
	}

	outcome := types.OutcomeCreated
	if !created {
		outcome = types.OutcomeAlreadyExists
		if drift := s.tenantDrift(stored, req); len(drift) > 0 {
			s.logger.Warnf("tenant %s already exists with a different %s, leaving it unchanged", req.Code, strings.Join(drift, ", "))
		}
	}

	actor := ActorFromContext(ctx)
	s.tx.AfterCommit(ctx, func() {
		if outcome == types.OutcomeCreated {
			s.logger.Security().AdminAction(actor, "tenant.register", req.Code)
		}
		s.recordOutcome("tenant", outcome)
	})

	return &TenantResult{Tenant: stored, Outcome: outcome}, nil
}

// RegisterAccount makes sure the tenant identified by req.TenantCode has an
// account named req.Username. It fails with ErrTenantNotFound when the tenant
// was never registered, without writing anything.
func (s *Service) RegisterAccount(ctx context.Context, req *AccountRequest) (*AccountResult, error) {
	ctx, span := s.tracer.Start(ctx, "provisioning.Service.RegisterAccount")
	defer span.End()

	if err := s.validator.Struct(req); err != nil {
		return nil, describeValidationError(err)
	}

	var result *AccountResult
	err := s.tx.WithTx(ctx, func(ctx context.Context) error {
		tenant, err := s.storage.GetTenantByCode(ctx, req.TenantCode)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				return fmt.Errorf("%w: %s", ErrTenantNotFound, req.TenantCode)
			}
			return fmt.Errorf("failed to resolve tenant %s: %w", req.TenantCode, err)
		}

		account, created, err := s.storage.InsertAccountIfAbsent(ctx, &types.Account{
			TenantID: tenant.ID,
			Username: req.Username,
			Email:    req.Email,
			Role:     req.Role,
		})
		if err != nil {
			// the tenant vanished between the lookup and the insert
			if errors.Is(err, storage.ErrForeignKeyViolation) {
				return fmt.Errorf("%w: %s", ErrTenantNotFound, req.TenantCode)
			}
			return fmt.Errorf("failed to register account %s: %w", req.Username, err)
		}

		result = &AccountResult{Account: account, Outcome: types.OutcomeCreated}
		if !created {
			result.Outcome = types.OutcomeAlreadyExists
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if result.Outcome == types.OutcomeAlreadyExists {
		if drift := accountDrift(result.Account, req); len(drift) > 0 {
			s.logger.Warnf("account %s of tenant %s already exists with a different %s, leaving it unchanged", req.Username, req.TenantCode, strings.Join(drift, ", "))
		}
	}

	actor := ActorFromContext(ctx)
	outcome := result.Outcome
	s.tx.AfterCommit(ctx, func() {
		if outcome == types.OutcomeCreated {
			s.logger.Security().AdminAction(actor, "account.register", req.TenantCode+"/"+req.Username)
		}
		s.recordOutcome("account", outcome)
	})

	return result, nil
}

// Provision registers a tenant and its administrative account in one transaction.
// An empty account.TenantCode defaults to tenant.Code. Both requests are
// validated before anything is written.
func (s *Service) Provision(ctx context.Context, tenant *TenantRequest, account *AccountRequest) (*ProvisionResult, error) {
	ctx, span := s.tracer.Start(ctx, "provisioning.Service.Provision")
	defer span.End()

	if tenant == nil || account == nil {
		return nil, fmt.Errorf("%w: tenant and account are required", ErrInvalidRequest)
	}

	acct := *account
	if acct.TenantCode == "" {
		acct.TenantCode = tenant.Code
	}
	if acct.TenantCode != tenant.Code {
		return nil, fmt.Errorf("%w: account tenant_code %q does not match tenant code %q", ErrInvalidRequest, acct.TenantCode, tenant.Code)
	}

	if err := s.validateTenant(tenant); err != nil {
		return nil, err
	}
	if err := s.validator.Struct(&acct); err != nil {
		return nil, describeValidationError(err)
	}

	result := new(ProvisionResult)
	err := s.tx.WithTx(ctx, func(ctx context.Context) error {
		t, err := s.RegisterTenant(ctx, tenant)
		if err != nil {
			return err
		}
		result.Tenant = t

		a, err := s.RegisterAccount(ctx, &acct)
		if err != nil {
			return err
		}
		result.Account = a

		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

// Verify returns the tenant/account tuples of a tenant, for operators to
// confirm a provisioning run.
func (s *Service) Verify(ctx context.Context, code string) ([]*types.TenantAccount, error) {
	ctx, span := s.tracer.Start(ctx, "provisioning.Service.Verify")
	defer span.End()

	if _, err := s.getTenant(ctx, code); err != nil {
		return nil, err
	}

	accounts, err := s.storage.ListTenantAccounts(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts of tenant %s: %w", code, err)
	}

	return accounts, nil
}

func (s *Service) ListTenants(ctx context.Context) ([]*types.Tenant, error) {
	ctx, span := s.tracer.Start(ctx, "provisioning.Service.ListTenants")
	defer span.End()

	tenants, err := s.storage.ListTenants(ctx)
	if err != nil {
		return nil, err
	}

	return tenants, nil
}

func (s *Service) SetTenantStatus(ctx context.Context, code string, active bool) error {
	ctx, span := s.tracer.Start(ctx, "provisioning.Service.SetTenantStatus")
	defer span.End()

	if err := s.storage.SetTenantStatus(ctx, code, active); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return fmt.Errorf("%w: %s", ErrTenantNotFound, code)
		}
		return fmt.Errorf("failed to update tenant %s: %w", code, err)
	}

	s.audit(ctx, statusAction("tenant", active), code)

	return nil
}

// UpdateTenantSettings replaces the whole settings object of a tenant.
func (s *Service) UpdateTenantSettings(ctx context.Context, code string, settings types.Settings) (*types.Tenant, error) {
	ctx, span := s.tracer.Start(ctx, "provisioning.Service.UpdateTenantSettings")
	defer span.End()

	if settings == nil {
		return nil, fmt.Errorf("%w: settings are required", ErrInvalidRequest)
	}

	t, err := s.storage.UpdateTenantSettings(ctx, code, settings)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrTenantNotFound, code)
		}
		return nil, fmt.Errorf("failed to update settings of tenant %s: %w", code, err)
	}

	s.audit(ctx, "tenant.settings", code)

	return t, nil
}

func (s *Service) SetAccountStatus(ctx context.Context, code, username string, active bool) error {
	ctx, span := s.tracer.Start(ctx, "provisioning.Service.SetAccountStatus")
	defer span.End()

	tenant, err := s.getTenant(ctx, code)
	if err != nil {
		return err
	}

	if err := s.storage.SetAccountStatus(ctx, tenant.ID, username, active); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return fmt.Errorf("%w: %s/%s", ErrAccountNotFound, code, username)
		}
		return fmt.Errorf("failed to update account %s: %w", username, err)
	}

	s.audit(ctx, statusAction("account", active), code+"/"+username)

	return nil
}

func (s *Service) getTenant(ctx context.Context, code string) (*types.Tenant, error) {
	tenant, err := s.storage.GetTenantByCode(ctx, code)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrTenantNotFound, code)
		}
		return nil, fmt.Errorf("failed to get tenant %s: %w", code, err)
	}
	return tenant, nil
}

// audit records an administrative action once the enclosing transaction commits.
func (s *Service) audit(ctx context.Context, action, resource string) {
	actor := ActorFromContext(ctx)
	s.tx.AfterCommit(ctx, func() {
		s.logger.Security().AdminAction(actor, action, resource)
	})
}

func (s *Service) recordOutcome(resource string, outcome types.Outcome) {
	tags := map[string]string{"resource": resource, "outcome": string(outcome)}
	if err := s.monitor.IncProvisioningOutcome(tags); err != nil {
		s.logger.Debugf("failed to record provisioning outcome: %v", err)
	}
}

func statusAction(resource string, active bool) string {
	if active {
		return resource + ".activate"
	}
	return resource + ".deactivate"
}

func (s *Service) validateTenant(req *TenantRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return describeValidationError(err)
	}
	if req.Password != "" && req.PasswordHash != "" {
		return fmt.Errorf("%w: password and password_hash are mutually exclusive", ErrInvalidRequest)
	}
	return nil
}

// tenantDrift lists the requested attributes that differ from the stored tenant.
// Empty credentials and settings in the request are not compared; a plaintext
// password is checked against the stored hash, as every hashing salts anew.
func (s *Service) tenantDrift(stored *types.Tenant, req *TenantRequest) []string {
	var drift []string

	if stored.Name != req.Name {
		drift = append(drift, "name")
	}
	switch {
	case req.Password != "":
		if s.hasher.Verify(req.Password, stored.PasswordHash) != nil {
			drift = append(drift, "password")
		}
	case req.PasswordHash != "" && stored.PasswordHash != req.PasswordHash:
		drift = append(drift, "password_hash")
	}
	if len(req.Settings) > 0 && !sameSettings(stored.Settings, req.Settings) {
		drift = append(drift, "settings")
	}

	return drift
}

func accountDrift(stored *types.Account, req *AccountRequest) []string {
	var drift []string

	if stored.Email != req.Email {
		drift = append(drift, "email")
	}
	if stored.Role != req.Role {
		drift = append(drift, "role")
	}

	return drift
}

// sameSettings compares settings after a JSON round trip, as stored numbers
// come back as float64.
func sameSettings(a, b types.Settings) bool {
	return reflect.DeepEqual(normalizeSettings(a), normalizeSettings(b))
}

func normalizeSettings(s types.Settings) map[string]any {
	out := map[string]any{}

	raw, err := json.Marshal(s)
	if err != nil {
		return out
	}
	_ = json.Unmarshal(raw, &out)

	return out
}
