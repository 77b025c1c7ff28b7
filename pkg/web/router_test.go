// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package web

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	sq "github.com/Masterminds/squirrel"
	"go.uber.org/mock/gomock"

	"github.com/canonical/tenant-bootstrap/internal/logging"
	"github.com/canonical/tenant-bootstrap/internal/monitoring"
	"github.com/canonical/tenant-bootstrap/internal/tracing"
	"github.com/canonical/tenant-bootstrap/internal/types"
	"github.com/canonical/tenant-bootstrap/pkg/provisioning"
)

type fakeDB struct {
	txs int
}

func (f *fakeDB) Statement(context.Context) sq.StatementBuilderType {
	return sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
}

func (f *fakeDB) WithTx(ctx context.Context, fn func(context.Context) error) error {
	f.txs++
	return fn(ctx)
}

func (f *fakeDB) Ping(context.Context) error {
	return nil
}

func (f *fakeDB) Close() {}

func TestNewRouter(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	logger := logging.NewNoopLogger()
	db := new(fakeDB)
	svc := provisioning.NewMockServiceInterface(ctrl)

	router := NewRouter(svc, db, tracing.NewNoopTracer(), monitoring.NewNoopMonitor("test", logger), logger)

	svc.EXPECT().Verify(gomock.Any(), "acme").Return([]*types.TenantAccount{}, nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v0/tenants/acme", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rr.Code)
	}
	if db.txs != 0 {
		t.Errorf("expected reads to run without a transaction")
	}

	svc.EXPECT().SetTenantStatus(gomock.Any(), "acme", false).Return(nil)
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/v0/tenants/acme/deactivate", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rr.Code)
	}
	if db.txs != 1 {
		t.Errorf("expected writes to run in a transaction, got %d", db.txs)
	}

	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v0/ready", nil))
	if rr.Code != http.StatusOK {
		t.Errorf("expected ready, got %d", rr.Code)
	}

	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v0/unknown", nil))
	if rr.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rr.Code)
	}
}

func TestCORSPreflight(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	logger := logging.NewNoopLogger()
	router := NewRouter(provisioning.NewMockServiceInterface(ctrl), new(fakeDB), tracing.NewNoopTracer(), monitoring.NewNoopMonitor("test", logger), logger)

	req := httptest.NewRequest(http.MethodOptions, "/api/v0/tenants", nil)
	req.Header.Set("Origin", "https://admin.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	req.Header.Set("Access-Control-Request-Headers", provisioning.ActorHeader)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if got := rr.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("expected wildcard origin, got %q", got)
	}
	if got := rr.Header().Get("Access-Control-Allow-Methods"); !strings.Contains(got, http.MethodPost) {
		t.Errorf("expected POST to be allowed, got %q", got)
	}
}
