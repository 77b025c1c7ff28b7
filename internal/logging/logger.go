// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package logging

import (
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var _ LoggerInterface = (*Logger)(nil)

type Logger struct {
	*zap.SugaredLogger

	security *SecurityLogger
}

func (l *Logger) Security() SecurityLoggerInterface {
	return l.security
}

// NewLogger creates a JSON logger writing to stdout at the given level.
// An unknown level falls back to error.
func NewLogger(l string) *Logger {
	logger := new(Logger)

	var lvl zapcore.Level
	switch strings.ToLower(l) {
	case "debug":
		lvl = zap.DebugLevel
	case "info":
		lvl = zap.InfoLevel
	case "warn", "warning":
		lvl = zap.WarnLevel
	default:
		lvl = zap.ErrorLevel
	}

	c := zap.NewProductionConfig()
	c.Level.SetLevel(lvl)
	c.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	c.EncoderConfig.TimeKey = "time"

	z := zap.Must(c.Build())
	z = z.With(zap.String("service", "tenant-bootstrap"))

	// security events are always logged, whatever the configured level
	sc := c
	sc.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	sz := zap.Must(sc.Build()).With(zap.String("service", "tenant-bootstrap"))

	logger.SugaredLogger = z.Sugar()
	logger.security = newSecurityLogger(sz)

	logger.Debugf("logger created with level %s", lvl)

	return logger
}
