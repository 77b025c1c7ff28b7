// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package tracing

import (
	"context"
	"testing"

	"github.com/canonical/tenant-bootstrap/internal/logging"
)

func TestNewTracerDisabled(t *testing.T) {
	tracer := NewTracer(NewConfig(false, "", "", logging.NewNoopLogger()))

	ctx, span := tracer.Start(context.Background(), "test.Disabled")
	defer span.End()

	if ctx == nil {
		t.Fatal("expected a context")
	}
	if span.SpanContext().IsValid() {
		t.Error("noop tracer should not produce valid span contexts")
	}
}

func TestNewTracerStdout(t *testing.T) {
	tracer := NewTracer(NewConfig(true, "", "", logging.NewNoopLogger()))

	_, span := tracer.Start(context.Background(), "test.Stdout")
	defer span.End()

	if !span.SpanContext().IsValid() {
		t.Error("expected a recording span from the sdk tracer")
	}
}

func TestNewNoopConfig(t *testing.T) {
	c := NewNoopConfig()

	if c.Enabled {
		t.Error("noop config must be disabled")
	}
	if NewNoopTracer() == nil {
		t.Error("expected a tracer")
	}
}
