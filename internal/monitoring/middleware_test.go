// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package monitoring

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/canonical/tenant-bootstrap/internal/logging"
)

type recordingMonitor struct {
	NoopMonitor

	tags map[string]string
}

func (m *recordingMonitor) SetResponseTimeMetric(tags map[string]string, _ float64) error {
	m.tags = tags
	return nil
}

func TestResponseTimeUsesRoutePattern(t *testing.T) {
	monitor := &recordingMonitor{NoopMonitor: *NewNoopMonitor("test", logging.NewNoopLogger())}

	router := chi.NewMux()
	router.Use(NewMiddleware(monitor, logging.NewNoopLogger()).ResponseTime())
	router.Get("/api/v0/tenants/{code}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v0/tenants/acme", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if monitor.tags["route"] != "GET/api/v0/tenants/{code}" {
		t.Errorf("unexpected route label %q", monitor.tags["route"])
	}
	if monitor.tags["status"] != "404" {
		t.Errorf("unexpected status label %q", monitor.tags["status"])
	}
}
