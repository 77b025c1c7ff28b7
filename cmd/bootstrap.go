// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/canonical/tenant-bootstrap/internal/config"
	"github.com/canonical/tenant-bootstrap/internal/credentials"
	"github.com/canonical/tenant-bootstrap/internal/db"
	"github.com/canonical/tenant-bootstrap/internal/logging"
	"github.com/canonical/tenant-bootstrap/internal/monitoring"
	"github.com/canonical/tenant-bootstrap/internal/storage"
	"github.com/canonical/tenant-bootstrap/internal/tracing"
	"github.com/canonical/tenant-bootstrap/pkg/provisioning"
)

const serviceName = "tenant-bootstrap"

var errMissingDSN = errors.New("no database configured, set --dsn or the DSN environment variable")

// app holds the components shared by the commands talking to the database.
type app struct {
	specs   *config.EnvSpec
	logger  logging.LoggerInterface
	tracer  tracing.TracingInterface
	monitor monitoring.MonitorInterface

	db      *db.DBClient
	storage *storage.Storage
	service *provisioning.Service
}

// loadSpecs reads the environment and applies the persistent flag overrides.
func loadSpecs() (*config.EnvSpec, error) {
	specs, err := config.Load(envFile)
	if err != nil {
		return nil, err
	}

	if dsn != "" {
		specs.DSN = dsn
	}
	if logLevel != "" {
		specs.LogLevel = logLevel
	}
	if specs.DSN == "" {
		return nil, errMissingDSN
	}

	return specs, nil
}

func newApp(specs *config.EnvSpec, logger logging.LoggerInterface, monitor monitoring.MonitorInterface) (*app, error) {
	a := new(app)

	a.specs = specs
	a.logger = logger
	a.monitor = monitor
	a.tracer = tracing.NewTracer(tracing.NewConfig(specs.TracingEnabled, specs.OtelGRPCEndpoint, specs.OtelHTTPEndpoint, logger))

	dbClient, err := db.NewDBClient(
		db.Config{
			DSN:             specs.DSN,
			MaxConns:        specs.DBMaxConns,
			MinConns:        specs.DBMinConns,
			MaxConnLifetime: specs.DBMaxConnLifetime,
			MaxConnIdleTime: specs.DBMaxConnIdleTime,
			TracingEnabled:  specs.TracingEnabled,
		},
		a.tracer,
		a.monitor,
		a.logger,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create database client: %w", err)
	}

	a.db = dbClient
	a.storage = storage.NewStorage(dbClient, a.tracer, a.monitor, a.logger)
	a.service = provisioning.NewService(a.storage, dbClient, credentials.NewHasher(specs.BcryptCost), a.tracer, a.monitor, a.logger)

	return a, nil
}

// newCLIApp wires the components for a one-shot command; metrics are not
// exported outside of serve.
func newCLIApp() (*app, error) {
	specs, err := loadSpecs()
	if err != nil {
		return nil, err
	}

	logger := logging.NewLogger(specs.LogLevel)

	return newApp(specs, logger, monitoring.NewNoopMonitor(serviceName, logger))
}

func (a *app) context(ctx context.Context) context.Context {
	return provisioning.ContextWithActor(ctx, actor)
}

func (a *app) Close() {
	a.db.Close()
	_ = a.logger.Sync()
}

// redactedSpecs hides the DSN, which usually embeds a password.
func redactedSpecs(specs config.EnvSpec) config.EnvSpec {
	if specs.DSN != "" {
		specs.DSN = "<redacted>"
	}
	return specs
}
