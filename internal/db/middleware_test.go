// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package db

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	sq "github.com/Masterminds/squirrel"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/canonical/tenant-bootstrap/internal/logging"
)

type recordingClient struct {
	calls     int
	err       error
	commitErr error
}

func (c *recordingClient) Statement(context.Context) sq.StatementBuilderType {
	return sq.StatementBuilder
}

func (c *recordingClient) WithTx(ctx context.Context, fn func(context.Context) error) error {
	c.calls++
	c.err = fn(ctx)
	if c.err == nil {
		return c.commitErr
	}
	return c.err
}

func (c *recordingClient) Ping(context.Context) error { return nil }
func (c *recordingClient) Close()                     {}

func TestTransactionMiddleware(t *testing.T) {
	tests := []struct {
		name      string
		method    string
		status    int
		wantCalls int
		wantErr   bool
	}{
		{name: "read requests skip the transaction", method: http.MethodGet, status: http.StatusOK, wantCalls: 0},
		{name: "successful write commits", method: http.MethodPost, status: http.StatusCreated, wantCalls: 1},
		{name: "failed write rolls back", method: http.MethodPost, status: http.StatusNotFound, wantCalls: 1, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := new(recordingClient)

			handler := TransactionMiddleware(client, logging.NewNoopLogger())(
				http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					w.WriteHeader(tt.status)
				}),
			)

			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, httptest.NewRequest(tt.method, "/api/v0/tenants", nil))

			if rr.Code != tt.status {
				t.Errorf("expected status %d, got %d", tt.status, rr.Code)
			}
			if client.calls != tt.wantCalls {
				t.Errorf("expected %d WithTx calls, got %d", tt.wantCalls, client.calls)
			}
			if (client.err != nil) != tt.wantErr {
				t.Errorf("expected error %v, got %v", tt.wantErr, client.err)
			}
		})
	}
}

func TestTransactionMiddlewareLogsCommitFailure(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	logger := &logging.Logger{SugaredLogger: zap.New(core).Sugar()}

	client := &recordingClient{commitErr: errors.New("connection reset")}

	handler := TransactionMiddleware(client, logger)(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusCreated)
		}),
	)

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/api/v0/tenants", nil))

	if n := logs.FilterLevelExact(zapcore.ErrorLevel).Len(); n != 1 {
		t.Errorf("expected the commit failure to be logged as an error, got %d error entries", n)
	}
}

func TestTransactionMiddlewareRollbackIsNotAnError(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	logger := &logging.Logger{SugaredLogger: zap.New(core).Sugar()}

	handler := TransactionMiddleware(new(recordingClient), logger)(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
		}),
	)

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/api/v0/tenants", nil))

	if n := logs.FilterLevelExact(zapcore.ErrorLevel).Len(); n != 0 {
		t.Errorf("expected no error entries for a rolled back request, got %d", n)
	}
	if n := logs.FilterLevelExact(zapcore.DebugLevel).Len(); n != 1 {
		t.Errorf("expected one debug entry, got %d", n)
	}
}
