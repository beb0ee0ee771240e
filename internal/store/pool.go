// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 AirAuth Contributors

// Package store provides database bootstrap and schema management.
package store

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/samber/oops"
	"github.com/sethvargo/go-retry"
)

// Connection retry configuration. Databases behind an orchestrator are
// routinely a few seconds late; startup should ride that out.
const (
	connectRetryBase = 500 * time.Millisecond
	connectRetryMax  = 5
)

// NewPool connects to PostgreSQL and verifies the connection with a ping,
// retrying with exponential backoff while the database comes up.
func NewPool(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, oops.Code("DB_CONFIG_INVALID").
			With("operation", "parse database url").
			Wrap(err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, oops.Code("DB_CONNECT_FAILED").
			With("operation", "create pool").
			Wrap(err)
	}

	backoff := retry.WithMaxRetries(connectRetryMax, retry.NewExponential(connectRetryBase))
	err = retry.Do(ctx, backoff, func(ctx context.Context) error {
		if err := pool.Ping(ctx); err != nil {
			return retry.RetryableError(err)
		}
		return nil
	})
	if err != nil {
		pool.Close()
		return nil, oops.Code("DB_PING_FAILED").
			With("operation", "ping database").
			Wrap(err)
	}

	return pool, nil
}
