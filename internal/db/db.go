package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"neohealth/internal/config"
)

// Tablas del backend de salud que el servicio lee y escribe.
var RequiredTables = []string{"health_records", "predictions"}

// Open construye el pool, verifica conectividad y que existan las tablas requeridas.
func Open(ctx context.Context, cfg *config.Config) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse DATABASE_URL: %w", err)
	}

	// Solo series cortas por usuario; pocas conexiones alcanzan.
	poolCfg.MaxConns = 8
	poolCfg.MinConns = 1
	poolCfg.MaxConnLifetime = 30 * time.Minute
	poolCfg.MaxConnIdleTime = 5 * time.Minute
	poolCfg.ConnConfig.ConnectTimeout = 5 * time.Second

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, err
	}

	checkCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(checkCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if err := RequireTables(checkCtx, pool, RequiredTables...); err != nil {
		pool.Close()
		return nil, err
	}
	return pool, nil
}

// RequireTables falla si alguna tabla no existe en el search_path.
func RequireTables(ctx context.Context, pool *pgxpool.Pool, tables ...string) error {
	for _, table := range tables {
		var found bool
		if err := pool.QueryRow(ctx, `SELECT to_regclass($1) IS NOT NULL`, table).Scan(&found); err != nil {
			return fmt.Errorf("check table %s: %w", table, err)
		}
		if !found {
			return fmt.Errorf("required table %q not found", table)
		}
	}
	return nil
}

// HasColumn indica si la columna existe en la tabla visible por el search_path.
func HasColumn(ctx context.Context, pool *pgxpool.Pool, table, column string) (bool, error) {
	const query = `
		SELECT EXISTS (
			SELECT 1 FROM information_schema.columns
			WHERE table_schema = ANY(current_schemas(false))
				AND table_name = $1 AND column_name = $2
		)
	`
	var found bool
	if err := pool.QueryRow(ctx, query, table, column).Scan(&found); err != nil {
		return false, fmt.Errorf("check column %s.%s: %w", table, column, err)
	}
	return found, nil
}
