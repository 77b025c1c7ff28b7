// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package logging

import (
	"time"

	"go.uber.org/zap"
)

const (
	securityLogType = "security"

	eventSystemStartup  = "sys_startup"
	eventSystemShutdown = "sys_shutdown"
	eventAdminAction    = "admin_action"
)

type SecurityLogger struct {
	l *zap.Logger
}

func (s *SecurityLogger) SystemStartup() {
	s.emit(eventSystemStartup, "tenant-bootstrap is starting")
}

func (s *SecurityLogger) SystemShutdown() {
	s.emit(eventSystemShutdown, "tenant-bootstrap is shutting down")
}

// AdminAction records a provisioning change made by an operator.
func (s *SecurityLogger) AdminAction(actor, action, resource string) {
	s.emit(
		eventAdminAction,
		"administrative action performed",
		zap.String("actor", actor),
		zap.String("action", action),
		zap.String("resource", resource),
	)
}

func (s *SecurityLogger) emit(event, description string, fields ...zap.Field) {
	fields = append(
		fields,
		zap.String("type", securityLogType),
		zap.String("event", event),
		zap.Time("datetime", time.Now().UTC()),
	)
	s.l.Info(description, fields...)
}

func newSecurityLogger(l *zap.Logger) *SecurityLogger {
	return &SecurityLogger{l: l}
}
