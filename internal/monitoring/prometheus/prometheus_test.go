// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package prometheus

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/canonical/tenant-bootstrap/internal/logging"
)

func TestMonitorProvisioningOutcome(t *testing.T) {
	m := NewMonitor("tenant-bootstrap-test", logging.NewNoopLogger())

	tags := map[string]string{"resource": "tenant", "outcome": "created"}
	for i := 0; i < 3; i++ {
		if err := m.IncProvisioningOutcome(tags); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	got := testutil.ToFloat64(m.provisioningOutcome.With(m.labels(tags, "resource", "outcome")))
	if got != 3 {
		t.Errorf("expected counter at 3, got %v", got)
	}
}

func TestMonitorReusesRegisteredCollectors(t *testing.T) {
	first := NewMonitor("tenant-bootstrap-reuse", logging.NewNoopLogger())
	second := NewMonitor("tenant-bootstrap-reuse", logging.NewNoopLogger())

	if first.dependencyAvailable != second.dependencyAvailable {
		t.Error("expected the second monitor to reuse the registered gauge")
	}

	if err := second.SetDependencyAvailability(map[string]string{"component": "database"}, 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got := testutil.ToFloat64(first.dependencyAvailable.With(first.labels(map[string]string{"component": "database"}, "component")))
	if got != 1 {
		t.Errorf("expected gauge at 1, got %v", got)
	}
}

func TestMonitorResponseTime(t *testing.T) {
	m := NewMonitor("tenant-bootstrap-timing", logging.NewNoopLogger())

	if err := m.SetResponseTimeMetric(map[string]string{"route": "GET/api/v0/status", "status": "200"}, 0.2); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var empty Monitor
	if err := empty.SetResponseTimeMetric(nil, 1); err == nil {
		t.Error("expected an error for an undefined metric")
	}
}
