package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"arcronym/internal/config"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Connect opens a connection pool to the platform database and checks it is reachable.
func Connect(ctx context.Context, cfg config.Database) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(tuneDSN(cfg.DBConnectionString, cfg.Environment))
	if err != nil {
		return nil, fmt.Errorf("parsing DB connection string: %w", err)
	}
	poolCfg.MaxConns = 25
	poolCfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("opening DB pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging DB: %w", err)
	}
	return pool, nil
}

// tuneDSN disables SSL for local development and, elsewhere, switches to the simple query
// protocol so transaction poolers like pgbouncer do not see server-side prepared statements.
func tuneDSN(dsn, environment string) string {
	if environment == "development" {
		if !strings.Contains(dsn, "sslmode") {
			dsn = appendParam(dsn, "sslmode=disable")
		}
		return dsn
	}
	if !strings.Contains(dsn, "default_query_exec_mode") {
		dsn = appendParam(dsn, "default_query_exec_mode=simple_protocol")
	}
	return dsn
}

func appendParam(dsn, param string) string {
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		if strings.Contains(dsn, "?") {
			return dsn + "&" + param
		}
		return dsn + "?" + param
	}
	return dsn + " " + param
}
