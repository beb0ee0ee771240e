// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 AirAuth Contributors

// Package postgres provides the PostgreSQL implementation of auth.Adapter.
package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/airauth/authstore/internal/auth"
)

// poolIface is the subset of pgxpool.Pool the adapter uses. pgxmock's
// PgxPoolIface satisfies it, so unit tests run without a database.
type poolIface interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
}

// Adapter implements auth.Adapter using PostgreSQL. It holds no mutable
// state beyond the injected pool; all serialization is the database's job.
type Adapter struct {
	pool poolIface
}

// NewAdapter creates a new Adapter over the given pool.
func NewAdapter(pool poolIface) *Adapter {
	return &Adapter{pool: pool}
}

// uniqueViolation reports whether err is a unique-constraint violation and,
// if so, names the violated constraint.
func uniqueViolation(err error) (constraint string, ok bool) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
		return pgErr.ConstraintName, true
	}
	return "", false
}

// foreignKeyViolation reports whether err is a foreign-key violation.
func foreignKeyViolation(err error) (constraint string, ok bool) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.ForeignKeyViolation {
		return pgErr.ConstraintName, true
	}
	return "", false
}

// Compile-time interface check.
var _ auth.Adapter = (*Adapter)(nil)
