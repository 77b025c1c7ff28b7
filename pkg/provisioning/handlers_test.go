// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package provisioning

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"go.uber.org/mock/gomock"

	"github.com/canonical/tenant-bootstrap/internal/storage"
	"github.com/canonical/tenant-bootstrap/internal/types"
)

func newTestRouter(ctrl *gomock.Controller) (http.Handler, *MockServiceInterface, *MockLoggerInterface) {
	mockSvc := NewMockServiceInterface(ctrl)
	mockLogger := NewMockLoggerInterface(ctrl)

	router := chi.NewMux()
	NewAPI(mockSvc, NewMockTracingInterface(ctrl), NewMockMonitorInterface(ctrl), mockLogger).RegisterEndpoints(router)

	return router, mockSvc, mockLogger
}

func decodeStatus(t *testing.T, rr *httptest.ResponseRecorder) (int, string) {
	t.Helper()

	var body struct {
		Status  int    `json:"status"`
		Message string `json:"message"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode response body: %v", err)
	}

	return body.Status, body.Message
}

func TestHandler_RegisterTenant(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		setupMocks func(*MockServiceInterface, *MockLoggerInterface)
		wantCode   int
	}{
		{
			name: "created",
			body: `{"code":"acme","name":"Acme Inc.","settings":{"quota_gb":10}}`,
			setupMocks: func(mockSvc *MockServiceInterface, _ *MockLoggerInterface) {
				mockSvc.EXPECT().RegisterTenant(gomock.Any(), gomock.Any()).DoAndReturn(
					func(_ context.Context, req *TenantRequest) (*TenantResult, error) {
						if req.Code != "acme" || req.Name != "Acme Inc." {
							t.Errorf("unexpected request %+v", req)
						}
						return &TenantResult{Tenant: &types.Tenant{Code: "acme"}, Outcome: types.OutcomeCreated}, nil
					},
				)
			},
			wantCode: http.StatusCreated,
		},
		{
			name: "already exists",
			body: `{"code":"acme","name":"Acme Inc."}`,
			setupMocks: func(mockSvc *MockServiceInterface, _ *MockLoggerInterface) {
				mockSvc.EXPECT().RegisterTenant(gomock.Any(), gomock.Any()).
					Return(&TenantResult{Tenant: &types.Tenant{Code: "acme"}, Outcome: types.OutcomeAlreadyExists}, nil)
			},
			wantCode: http.StatusOK,
		},
		{
			name:       "malformed body",
			body:       `{"code":`,
			setupMocks: func(*MockServiceInterface, *MockLoggerInterface) {},
			wantCode:   http.StatusBadRequest,
		},
		{
			name: "invalid request",
			body: `{"code":"ACME"}`,
			setupMocks: func(mockSvc *MockServiceInterface, _ *MockLoggerInterface) {
				mockSvc.EXPECT().RegisterTenant(gomock.Any(), gomock.Any()).Return(nil, ErrInvalidRequest)
			},
			wantCode: http.StatusBadRequest,
		},
		{
			name: "service error",
			body: `{"code":"acme","name":"Acme Inc."}`,
			setupMocks: func(mockSvc *MockServiceInterface, mockLogger *MockLoggerInterface) {
				mockSvc.EXPECT().RegisterTenant(gomock.Any(), gomock.Any()).Return(nil, errors.New("db down"))
				mockLogger.EXPECT().Errorf(gomock.Any(), gomock.Any())
			},
			wantCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			router, mockSvc, mockLogger := newTestRouter(ctrl)
			tt.setupMocks(mockSvc, mockLogger)

			req := httptest.NewRequest(http.MethodPost, "/api/v0/tenants", strings.NewReader(tt.body))
			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, req)

			if rr.Code != tt.wantCode {
				t.Fatalf("expected status %d, got %d", tt.wantCode, rr.Code)
			}
			if status, _ := decodeStatus(t, rr); status != tt.wantCode {
				t.Errorf("expected body status %d, got %d", tt.wantCode, status)
			}
		})
	}
}

func TestHandler_RegisterAccount(t *testing.T) {
	tests := []struct {
		name       string
		path       string
		body       string
		setupMocks func(*MockServiceInterface)
		wantCode   int
	}{
		{
			name: "created with tenant code from path",
			path: "/api/v0/tenants/acme/accounts",
			body: `{"tenant_code":"other","username":"admin","email":"admin@acme.com","role":"admin"}`,
			setupMocks: func(mockSvc *MockServiceInterface) {
				mockSvc.EXPECT().RegisterAccount(gomock.Any(), gomock.Any()).DoAndReturn(
					func(ctx context.Context, req *AccountRequest) (*AccountResult, error) {
						if req.TenantCode != "acme" {
							t.Errorf("expected tenant code from path, got %q", req.TenantCode)
						}
						if actor := ActorFromContext(ctx); actor != "ops" {
							t.Errorf("expected actor ops, got %q", actor)
						}
						return &AccountResult{Account: &types.Account{Username: "admin"}, Outcome: types.OutcomeCreated}, nil
					},
				)
			},
			wantCode: http.StatusCreated,
		},
		{
			name: "unknown tenant",
			path: "/api/v0/tenants/ghost/accounts",
			body: `{"username":"admin","email":"admin@ghost.com","role":"admin"}`,
			setupMocks: func(mockSvc *MockServiceInterface) {
				mockSvc.EXPECT().RegisterAccount(gomock.Any(), gomock.Any()).Return(nil, ErrTenantNotFound)
			},
			wantCode: http.StatusNotFound,
		},
		{
			name: "conflicting row",
			path: "/api/v0/tenants/acme/accounts",
			body: `{"username":"admin","email":"admin@acme.com","role":"admin"}`,
			setupMocks: func(mockSvc *MockServiceInterface) {
				mockSvc.EXPECT().RegisterAccount(gomock.Any(), gomock.Any()).
					Return(nil, fmt.Errorf("failed to register account admin: %w", storage.ErrDuplicateKey))
			},
			wantCode: http.StatusConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			router, mockSvc, _ := newTestRouter(ctrl)
			tt.setupMocks(mockSvc)

			req := httptest.NewRequest(http.MethodPost, tt.path, strings.NewReader(tt.body))
			req.Header.Set(ActorHeader, "ops")
			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, req)

			if rr.Code != tt.wantCode {
				t.Fatalf("expected status %d, got %d", tt.wantCode, rr.Code)
			}
		})
	}
}

func TestHandler_Provision(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	router, mockSvc, _ := newTestRouter(ctrl)
	mockSvc.EXPECT().Provision(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, tenant *TenantRequest, account *AccountRequest) (*ProvisionResult, error) {
			if tenant.Code != "acme" || account.Username != "admin" {
				t.Errorf("unexpected request %+v %+v", tenant, account)
			}
			return &ProvisionResult{
				Tenant:  &TenantResult{Outcome: types.OutcomeAlreadyExists},
				Account: &AccountResult{Outcome: types.OutcomeCreated},
			}, nil
		},
	)

	body := `{"tenant":{"code":"acme","name":"Acme Inc."},"account":{"username":"admin","email":"admin@acme.com","role":"admin"}}`
	req := httptest.NewRequest(http.MethodPost, "/api/v0/provision", strings.NewReader(body))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusCreated {
		t.Fatalf("expected status %d, got %d", http.StatusCreated, rr.Code)
	}
}

func TestHandler_Verify(t *testing.T) {
	tests := []struct {
		name       string
		code       string
		setupMocks func(*MockServiceInterface)
		wantCode   int
		wantLen    int
	}{
		{
			name: "success",
			code: "acme",
			setupMocks: func(mockSvc *MockServiceInterface) {
				mockSvc.EXPECT().Verify(gomock.Any(), "acme").Return([]*types.TenantAccount{
					{TenantCode: "acme", Username: "admin", Role: types.RoleAdmin, AccountActive: true},
				}, nil)
			},
			wantCode: http.StatusOK,
			wantLen:  1,
		},
		{
			name: "no accounts",
			code: "acme",
			setupMocks: func(mockSvc *MockServiceInterface) {
				mockSvc.EXPECT().Verify(gomock.Any(), "acme").Return(nil, nil)
			},
			wantCode: http.StatusOK,
		},
		{
			name: "unknown tenant",
			code: "ghost",
			setupMocks: func(mockSvc *MockServiceInterface) {
				mockSvc.EXPECT().Verify(gomock.Any(), "ghost").Return(nil, ErrTenantNotFound)
			},
			wantCode: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			router, mockSvc, _ := newTestRouter(ctrl)
			tt.setupMocks(mockSvc)

			req := httptest.NewRequest(http.MethodGet, "/api/v0/tenants/"+tt.code, nil)
			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, req)

			if rr.Code != tt.wantCode {
				t.Fatalf("expected status %d, got %d", tt.wantCode, rr.Code)
			}
			if tt.wantCode != http.StatusOK {
				return
			}

			var body struct {
				Data []*types.TenantAccount `json:"data"`
			}
			if err := json.NewDecoder(rr.Body).Decode(&body); err != nil {
				t.Fatalf("failed to decode response body: %v", err)
			}
			if body.Data == nil || len(body.Data) != tt.wantLen {
				t.Errorf("expected %d tuples, got %v", tt.wantLen, body.Data)
			}
		})
	}
}

func TestHandler_ListTenants(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	router, mockSvc, _ := newTestRouter(ctrl)
	mockSvc.EXPECT().ListTenants(gomock.Any()).Return([]*types.Tenant{{Code: "acme"}, {Code: "globex"}}, nil)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v0/tenants", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rr.Code)
	}
	if strings.Contains(rr.Body.String(), "password_hash") {
		t.Error("password hash must not be exposed")
	}
}

func TestHandler_UpdateSettings(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	router, mockSvc, _ := newTestRouter(ctrl)
	mockSvc.EXPECT().UpdateTenantSettings(gomock.Any(), "acme", types.Settings{"model": "large"}).
		Return(&types.Tenant{Code: "acme", Settings: types.Settings{"model": "large"}}, nil)

	req := httptest.NewRequest(http.MethodPut, "/api/v0/tenants/acme/settings", strings.NewReader(`{"model":"large"}`))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rr.Code)
	}
}

func TestHandler_StatusChanges(t *testing.T) {
	tests := []struct {
		name       string
		path       string
		setupMocks func(*MockServiceInterface)
		wantCode   int
	}{
		{
			name: "deactivate tenant",
			path: "/api/v0/tenants/acme/deactivate",
			setupMocks: func(mockSvc *MockServiceInterface) {
				mockSvc.EXPECT().SetTenantStatus(gomock.Any(), "acme", false).Return(nil)
			},
			wantCode: http.StatusOK,
		},
		{
			name: "activate tenant",
			path: "/api/v0/tenants/acme/activate",
			setupMocks: func(mockSvc *MockServiceInterface) {
				mockSvc.EXPECT().SetTenantStatus(gomock.Any(), "acme", true).Return(nil)
			},
			wantCode: http.StatusOK,
		},
		{
			name: "deactivate unknown account",
			path: "/api/v0/tenants/acme/accounts/bob/deactivate",
			setupMocks: func(mockSvc *MockServiceInterface) {
				mockSvc.EXPECT().SetAccountStatus(gomock.Any(), "acme", "bob", false).Return(ErrAccountNotFound)
			},
			wantCode: http.StatusNotFound,
		},
		{
			name: "activate account",
			path: "/api/v0/tenants/acme/accounts/bob/activate",
			setupMocks: func(mockSvc *MockServiceInterface) {
				mockSvc.EXPECT().SetAccountStatus(gomock.Any(), "acme", "bob", true).Return(nil)
			},
			wantCode: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			router, mockSvc, _ := newTestRouter(ctrl)
			tt.setupMocks(mockSvc)

			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, tt.path, nil))

			if rr.Code != tt.wantCode {
				t.Fatalf("expected status %d, got %d", tt.wantCode, rr.Code)
			}
		})
	}
}
