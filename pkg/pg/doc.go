// Package pg provides utilities for interacting with PostgreSQL using the
// pgx/v5 driver: connection pooling with retry, goose schema migrations,
// health checks, and common error helpers.
//
//   - Config – declarative struct populated from environment variables via
//     github.com/caarlos0/env; controls pool limits and migration paths.
//   - Connect – opens a *pgxpool.Pool based on Config, retrying until the
//     database becomes available.
//   - Migrate – runs goose migrations against the same pool so the schema is
//     up to date before the service starts serving traffic.
//
// Error helpers such as IsDuplicateKeyError unwrap *pgconn.PgError values and
// make error classification trivial inside business logic.
package pg
