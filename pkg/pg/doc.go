// Package pg provides utilities for interacting with PostgreSQL using the
// pgx/v5 driver. It offers a thin abstraction around connection pooling,
// migrations and health checks so that services persisting session state in
// Postgres can bootstrap a resilient database layer with only a few lines of
// code.
//
// Within this module the package backs [keyvalue.Postgres], the durable tier
// for session records and activity markers, and the session event collector
// which exposes the pool's health on its readiness endpoint.
//
// # Architecture
//
// At its core the package exposes three cooperating building blocks:
//
//   - Config – a declarative struct whose fields are populated from
//     environment variables via github.com/caarlos0/env. It controls
//     connection pool limits and retry behaviour.
//
//   - Connect – opens a *pgxpool.Pool based on Config, retrying with a
//     growing back-off until the database becomes available.
//
//   - Migrate – runs goose database migrations from an embedded filesystem
//     against the same connection pool, guaranteeing the schema is up-to-date
//     before the service starts serving traffic.
//
// The helpers are intentionally decoupled so that you can plug them into your
// preferred dependency-injection or lifecycle framework.
//
// # Usage
//
// Basic set-up using the default configuration:
//
//	package main
//
//	import (
//	    "context"
//
//	    "github.com/stayware/sessionkit/pkg/keyvalue"
//	    "github.com/stayware/sessionkit/pkg/pg"
//	)
//
//	func main() {
//	    var cfg pg.Config
//	    if err := env.Parse(&cfg); err != nil {
//	        panic(err)
//	    }
//
//	    ctx := context.Background()
//	    pool, err := pg.Connect(ctx, cfg)
//	    if err != nil {
//	        panic(err)
//	    }
//	    defer pool.Close()
//
//	    if err := keyvalue.MigratePostgres(ctx, pool); err != nil {
//	        panic(err)
//	    }
//
//	    store := keyvalue.NewPostgres(pool)
//	    _ = store
//
//	    // expose health endpoint
//	    health := pg.Healthcheck(pool)
//	    if err := health(ctx); err != nil {
//	        panic(err)
//	    }
//	}
//
// # Configuration
//
// All configuration values are provided through environment variables so that
// they can be tuned per-environment without code changes. Refer to the field
// tags in Config for exact variable names and defaults.
//
// # Error Handling
//
// Connection and migration failures are reported as joined errors wrapping the
// package sentinels (e.g. [ErrFailedToOpenDBConnection]), and
// [pg.IsNotFoundError] unwraps pgx.ErrNoRows so callers can classify missing
// rows without importing the driver.
package pg
