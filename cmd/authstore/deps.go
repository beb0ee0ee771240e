package main

import (
	"context"

	"github.com/airauth/authstore/internal/auth"
	"github.com/airauth/authstore/internal/observability"
)

// ServeDeps contains injectable dependencies for the serve command.
// All fields with nil values will use their default implementations.
type ServeDeps struct {
	// StoreFactory opens the backing store from a database URL.
	// Default: connects a pgxpool and wraps the postgres adapter.
	StoreFactory func(ctx context.Context, url string) (Store, error)

	// ObservabilityServerFactory creates an observability server.
	// Default: observability.NewServer
	ObservabilityServerFactory func(addr string, readinessChecker observability.ReadinessChecker) ObservabilityServer
}

// Store is the backing store surface the serve command uses.
type Store interface {
	Ping(ctx context.Context) error
	Close()
	Adapter() auth.Adapter
}

// ObservabilityServer interface wraps the methods used from observability.Server.
type ObservabilityServer interface {
	Start() (<-chan error, error)
	Stop(ctx context.Context) error
	Addr() string
	Metrics() *observability.Metrics
}
