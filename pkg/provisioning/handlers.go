// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package provisioning

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	httptypes "github.com/canonical/tenant-bootstrap/internal/http/types"
	"github.com/canonical/tenant-bootstrap/internal/logging"
	"github.com/canonical/tenant-bootstrap/internal/monitoring"
	"github.com/canonical/tenant-bootstrap/internal/storage"
	"github.com/canonical/tenant-bootstrap/internal/tracing"
	"github.com/canonical/tenant-bootstrap/internal/types"
)

// ActorHeader names the operator performing the request in audit logs.
const ActorHeader = "X-Actor"

type API struct {
	service ServiceInterface

	tracer  tracing.TracingInterface
	monitor monitoring.MonitorInterface
	logger  logging.LoggerInterface
}

func NewAPI(
	service ServiceInterface,
	tracer tracing.TracingInterface,
	monitor monitoring.MonitorInterface,
	logger logging.LoggerInterface,
) *API {
	return &API{
		service: service,
		tracer:  tracer,
		monitor: monitor,
		logger:  logger,
	}
}

func (a *API) RegisterEndpoints(mux chi.Router) {
	mux.Post("/api/v0/provision", a.provision)
	mux.Get("/api/v0/tenants", a.listTenants)
	mux.Post("/api/v0/tenants", a.registerTenant)
	mux.Get("/api/v0/tenants/{code}", a.verify)
	mux.Put("/api/v0/tenants/{code}/settings", a.updateSettings)
	mux.Post("/api/v0/tenants/{code}/activate", a.tenantStatus(true))
	mux.Post("/api/v0/tenants/{code}/deactivate", a.tenantStatus(false))
	mux.Post("/api/v0/tenants/{code}/accounts", a.registerAccount)
	mux.Post("/api/v0/tenants/{code}/accounts/{username}/activate", a.accountStatus(true))
	mux.Post("/api/v0/tenants/{code}/accounts/{username}/deactivate", a.accountStatus(false))
}

func (a *API) registerTenant(w http.ResponseWriter, r *http.Request) {
	req := new(TenantRequest)
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		httptypes.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := a.service.RegisterTenant(a.context(r), req)
	if err != nil {
		a.writeError(w, err)
		return
	}

	httptypes.WriteResponse(w, outcomeStatus(result.Outcome), result, string(result.Outcome))
}

func (a *API) registerAccount(w http.ResponseWriter, r *http.Request) {
	req := new(AccountRequest)
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		httptypes.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	// the path wins over the body
	req.TenantCode = chi.URLParam(r, "code")

	result, err := a.service.RegisterAccount(a.context(r), req)
	if err != nil {
		a.writeError(w, err)
		return
	}

	httptypes.WriteResponse(w, outcomeStatus(result.Outcome), result, string(result.Outcome))
}

func (a *API) provision(w http.ResponseWriter, r *http.Request) {
	req := new(ProvisionRequest)
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		httptypes.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := a.service.Provision(a.context(r), &req.Tenant, &req.Account)
	if err != nil {
		a.writeError(w, err)
		return
	}

	status := http.StatusOK
	if result.Tenant.Outcome == types.OutcomeCreated || result.Account.Outcome == types.OutcomeCreated {
		status = http.StatusCreated
	}

	httptypes.WriteResponse(w, status, result, "")
}

func (a *API) verify(w http.ResponseWriter, r *http.Request) {
	accounts, err := a.service.Verify(r.Context(), chi.URLParam(r, "code"))
	if err != nil {
		a.writeError(w, err)
		return
	}

	if accounts == nil {
		accounts = []*types.TenantAccount{}
	}

	httptypes.WriteResponse(w, http.StatusOK, accounts, "")
}

func (a *API) listTenants(w http.ResponseWriter, r *http.Request) {
	tenants, err := a.service.ListTenants(r.Context())
	if err != nil {
		a.writeError(w, err)
		return
	}

	if tenants == nil {
		tenants = []*types.Tenant{}
	}

	httptypes.WriteResponse(w, http.StatusOK, tenants, "")
}

func (a *API) updateSettings(w http.ResponseWriter, r *http.Request) {
	var settings types.Settings
	if err := json.NewDecoder(r.Body).Decode(&settings); err != nil {
		httptypes.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	tenant, err := a.service.UpdateTenantSettings(a.context(r), chi.URLParam(r, "code"), settings)
	if err != nil {
		a.writeError(w, err)
		return
	}

	httptypes.WriteResponse(w, http.StatusOK, tenant, "")
}

func (a *API) tenantStatus(active bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := a.service.SetTenantStatus(a.context(r), chi.URLParam(r, "code"), active); err != nil {
			a.writeError(w, err)
			return
		}

		httptypes.WriteResponse(w, http.StatusOK, nil, "")
	}
}

func (a *API) accountStatus(active bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := a.service.SetAccountStatus(a.context(r), chi.URLParam(r, "code"), chi.URLParam(r, "username"), active)
		if err != nil {
			a.writeError(w, err)
			return
		}

		httptypes.WriteResponse(w, http.StatusOK, nil, "")
	}
}

func (a *API) context(r *http.Request) context.Context {
	return ContextWithActor(r.Context(), r.Header.Get(ActorHeader))
}

func (a *API) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidRequest):
		httptypes.WriteError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrTenantNotFound), errors.Is(err, ErrAccountNotFound):
		httptypes.WriteError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, storage.ErrDuplicateKey):
		httptypes.WriteError(w, http.StatusConflict, err.Error())
	default:
		a.logger.Errorf("provisioning request failed: %v", err)
		httptypes.WriteError(w, http.StatusInternalServerError, "internal error")
	}
}

func outcomeStatus(o types.Outcome) int {
	if o == types.OutcomeCreated {
		return http.StatusCreated
	}
	return http.StatusOK
}
