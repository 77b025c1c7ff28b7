// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package db

import (
	"context"
	"database/sql"

	sq "github.com/Masterminds/squirrel"
)

// failedRunner answers every statement with the error that kept the
// transaction from starting.
type failedRunner struct {
	err error
}

func (r failedRunner) Exec(string, ...any) (sql.Result, error) {
	return nil, r.err
}

func (r failedRunner) Query(string, ...any) (*sql.Rows, error) {
	return nil, r.err
}

func (r failedRunner) QueryRow(string, ...any) sq.RowScanner {
	return errRow{err: r.err}
}

func (r failedRunner) ExecContext(context.Context, string, ...any) (sql.Result, error) {
	return nil, r.err
}

func (r failedRunner) QueryContext(context.Context, string, ...any) (*sql.Rows, error) {
	return nil, r.err
}

func (r failedRunner) QueryRowContext(context.Context, string, ...any) sq.RowScanner {
	return errRow{err: r.err}
}

type errRow struct {
	err error
}

func (r errRow) Scan(...any) error {
	return r.err
}
