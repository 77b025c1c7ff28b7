// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package prometheus

import (
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/canonical/tenant-bootstrap/internal/logging"
	"github.com/canonical/tenant-bootstrap/internal/monitoring"
)

var _ monitoring.MonitorInterface = (*Monitor)(nil)

type Monitor struct {
	service string

	responseTime        *prometheus.HistogramVec
	dependencyAvailable *prometheus.GaugeVec
	provisioningOutcome *prometheus.CounterVec

	logger logging.LoggerInterface
}

func (m *Monitor) GetService() string {
	return m.service
}

func (m *Monitor) SetResponseTimeMetric(tags map[string]string, value float64) error {
	if m.responseTime == nil {
		return fmt.Errorf("metric not defined")
	}

	m.responseTime.With(m.labels(tags, "route", "status")).Observe(value)

	return nil
}

func (m *Monitor) SetDependencyAvailability(tags map[string]string, value float64) error {
	if m.dependencyAvailable == nil {
		return fmt.Errorf("metric not defined")
	}

	m.dependencyAvailable.With(m.labels(tags, "component")).Set(value)

	return nil
}

func (m *Monitor) IncProvisioningOutcome(tags map[string]string) error {
	if m.provisioningOutcome == nil {
		return fmt.Errorf("metric not defined")
	}

	m.provisioningOutcome.With(m.labels(tags, "resource", "outcome")).Inc()

	return nil
}

// labels keeps only the known keys, filling the missing ones with empty
// values so With never panics on a label mismatch
func (m *Monitor) labels(tags map[string]string, keys ...string) prometheus.Labels {
	l := prometheus.Labels{"service": m.service}
	for _, k := range keys {
		l[k] = tags[k]
	}
	return l
}

func (m *Monitor) registerHistograms() {
	m.responseTime = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "http_response_time_seconds",
			Help: "http_response_time_seconds",
		},
		[]string{"route", "status", "service"},
	)

	if c, ok := m.register(m.responseTime).(*prometheus.HistogramVec); ok {
		m.responseTime = c
	}
}

func (m *Monitor) registerGauges() {
	m.dependencyAvailable = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "dependency_available",
			Help: "dependency_available",
		},
		[]string{"component", "service"},
	)

	if c, ok := m.register(m.dependencyAvailable).(*prometheus.GaugeVec); ok {
		m.dependencyAvailable = c
	}
}

func (m *Monitor) registerCounters() {
	m.provisioningOutcome = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "provisioning_outcomes_total",
			Help: "Number of provisioning calls by resource and outcome",
		},
		[]string{"resource", "outcome", "service"},
	)

	if c, ok := m.register(m.provisioningOutcome).(*prometheus.CounterVec); ok {
		m.provisioningOutcome = c
	}
}

// register returns the collector to use, which is the existing one when an
// identical collector was registered by a previous Monitor
func (m *Monitor) register(c prometheus.Collector) prometheus.Collector {
	err := prometheus.Register(c)
	if err == nil {
		return c
	}

	var are prometheus.AlreadyRegisteredError
	if errors.As(err, &are) {
		return are.ExistingCollector
	}

	m.logger.Errorf("failed to register collector: %v", err)
	return c
}

func NewMonitor(service string, logger logging.LoggerInterface) *Monitor {
	m := new(Monitor)

	m.service = service
	m.logger = logger

	m.registerHistograms()
	m.registerGauges()
	m.registerCounters()

	return m
}
