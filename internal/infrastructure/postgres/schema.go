package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// EnsureSchema crea las tablas si no existen. Es idempotente y se ejecuta en
// el arranque; el layout lógico es el mismo que el del motor SQLite.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS raw_materials (
			material_id   BIGSERIAL PRIMARY KEY,
			name          TEXT NOT NULL,
			category      TEXT NOT NULL DEFAULT '',
			stock_level   NUMERIC NOT NULL DEFAULT 0 CHECK (stock_level >= 0),
			unit          TEXT NOT NULL DEFAULT '',
			reorder_level NUMERIC NOT NULL DEFAULT 0,
			cost_per_unit NUMERIC NOT NULL DEFAULT 0,
			supplier      TEXT NOT NULL DEFAULT '',
			lot_number    BIGINT
		)`,
		`CREATE TABLE IF NOT EXISTS recipes (
			recipe_id    BIGSERIAL PRIMARY KEY,
			product_name TEXT NOT NULL,
			notes        TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS recipe_materials (
			recipe_material_id BIGSERIAL PRIMARY KEY,
			recipe_id          BIGINT NOT NULL REFERENCES recipes(recipe_id),
			material_id        BIGINT REFERENCES raw_materials(material_id),
			material_name      TEXT NOT NULL,
			quantity_needed    NUMERIC NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS batches (
			batch_id       BIGINT PRIMARY KEY,
			product_name   TEXT NOT NULL,
			quantity       BIGINT NOT NULL,
			date_completed TIMESTAMPTZ NOT NULL,
			status         TEXT NOT NULL DEFAULT 'Ready',
			notes          TEXT,
			date_shipped   TIMESTAMPTZ
		)`,
		`CREATE TABLE IF NOT EXISTS batch_materials (
			batch_material_id BIGSERIAL PRIMARY KEY,
			batch_id          BIGINT NOT NULL REFERENCES batches(batch_id) ON DELETE CASCADE,
			material_id       BIGINT NOT NULL,
			quantity_used     NUMERIC NOT NULL
		)`,
	}
	for _, stmt := range statements {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}
