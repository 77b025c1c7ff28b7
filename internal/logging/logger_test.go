// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package logging

import (
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestDebugLogger(t *testing.T) {
	func() {
		_ = recover()
		NewLogger("DEBUG")
	}()
}

func TestInvalidLevel(t *testing.T) {
	func() {
		_ = recover()
		NewLogger("invalid")
	}()
}

func TestLoggerLevels(t *testing.T) {
	tests := []struct {
		level   string
		debug   bool
		info    bool
		warning bool
	}{
		{level: "debug", debug: true, info: true, warning: true},
		{level: "INFO", debug: false, info: true, warning: true},
		{level: "warning", debug: false, info: false, warning: true},
		{level: "error", debug: false, info: false, warning: false},
		{level: "nonsense", debug: false, info: false, warning: false},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			l := NewLogger(tt.level)

			if got := l.Desugar().Core().Enabled(zapcore.DebugLevel); got != tt.debug {
				t.Errorf("debug enabled = %v, want %v", got, tt.debug)
			}
			if got := l.Desugar().Core().Enabled(zapcore.InfoLevel); got != tt.info {
				t.Errorf("info enabled = %v, want %v", got, tt.info)
			}
			if got := l.Desugar().Core().Enabled(zapcore.WarnLevel); got != tt.warning {
				t.Errorf("warn enabled = %v, want %v", got, tt.warning)
			}
			if l.Security() == nil {
				t.Error("expected a security logger")
			}
		})
	}
}

func TestNoopLogger(t *testing.T) {
	l := NewNoopLogger()

	l.Infof("provisioned %s", "acme")
	l.Security().AdminAction("cli", "tenant.register", "acme")
	l.Security().SystemStartup()
	l.Security().SystemShutdown()
}
