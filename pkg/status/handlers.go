// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package status

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	httptypes "github.com/canonical/tenant-bootstrap/internal/http/types"
	"github.com/canonical/tenant-bootstrap/internal/logging"
	"github.com/canonical/tenant-bootstrap/internal/monitoring"
	"github.com/canonical/tenant-bootstrap/internal/tracing"
	"github.com/canonical/tenant-bootstrap/internal/version"
)

const pingTimeout = 2 * time.Second

// PingerInterface reports whether a dependency is reachable.
type PingerInterface interface {
	Ping(ctx context.Context) error
}

type Status struct {
	Status  string `json:"status"`
	Version string `json:"version,omitempty"`
}

type API struct {
	db PingerInterface

	tracer  tracing.TracingInterface
	monitor monitoring.MonitorInterface
	logger  logging.LoggerInterface
}

func NewAPI(db PingerInterface, tracer tracing.TracingInterface, monitor monitoring.MonitorInterface, logger logging.LoggerInterface) *API {
	a := new(API)

	a.db = db

	a.tracer = tracer
	a.monitor = monitor
	a.logger = logger

	return a
}

func (a *API) RegisterEndpoints(mux chi.Router) {
	mux.Get("/api/v0/status", a.alive)
	mux.Get("/api/v0/version", a.version)
	mux.Get("/api/v0/ready", a.ready)
}

func (a *API) alive(w http.ResponseWriter, r *http.Request) {
	httptypes.WriteResponse(w, http.StatusOK, Status{Status: "ok"}, "")
}

func (a *API) version(w http.ResponseWriter, r *http.Request) {
	httptypes.WriteResponse(w, http.StatusOK, Status{Status: "ok", Version: version.Version}, "")
}

// ready fails while the database cannot be reached.
func (a *API) ready(w http.ResponseWriter, r *http.Request) {
	ctx, span := a.tracer.Start(r.Context(), "status.API.ready")
	defer span.End()

	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := a.db.Ping(ctx); err != nil {
		a.logger.Errorf("readiness check failed: %v", err)
		httptypes.WriteResponse(w, http.StatusServiceUnavailable, Status{Status: "unavailable"}, "database unreachable")
		return
	}

	httptypes.WriteResponse(w, http.StatusOK, Status{Status: "ok"}, "")
}
