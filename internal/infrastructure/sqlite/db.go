// Package sqlite es el motor local: un archivo SQLite manejado con el driver
// puro Go modernc.org/sqlite a través de database/sql. Implementa los mismos
// puertos que el paquete postgres, traduciendo el dialecto en el adaptador.
package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // pure go sqlite driver
)

// Open abre (o crea) la base de datos local, activa las claves foráneas y
// asegura el esquema.
func Open(path string) (*sql.DB, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil && !errors.Is(err, os.ErrExist) {
			return nil, fmt.Errorf("create data dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// Un solo writer: SQLite serializa escrituras a nivel de archivo.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(`PRAGMA foreign_keys = ON`); err != nil {
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}
	if _, err := db.Exec(`PRAGMA busy_timeout = 5000`); err != nil {
		return nil, fmt.Errorf("set busy timeout: %w", err)
	}
	if err := EnsureSchema(db); err != nil {
		return nil, err
	}
	return db, nil
}

// EnsureSchema crea las tablas si no existen; mismo layout lógico que el
// esquema PostgreSQL.
func EnsureSchema(db *sql.DB) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS raw_materials (
			material_id   INTEGER PRIMARY KEY AUTOINCREMENT,
			name          TEXT NOT NULL,
			category      TEXT NOT NULL DEFAULT '',
			stock_level   NUMERIC NOT NULL DEFAULT 0 CHECK (stock_level >= 0),
			unit          TEXT NOT NULL DEFAULT '',
			reorder_level NUMERIC NOT NULL DEFAULT 0,
			cost_per_unit NUMERIC NOT NULL DEFAULT 0,
			supplier      TEXT NOT NULL DEFAULT '',
			lot_number    INTEGER
		)`,
		`CREATE TABLE IF NOT EXISTS recipes (
			recipe_id    INTEGER PRIMARY KEY AUTOINCREMENT,
			product_name TEXT NOT NULL,
			notes        TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS recipe_materials (
			recipe_material_id INTEGER PRIMARY KEY AUTOINCREMENT,
			recipe_id          INTEGER NOT NULL REFERENCES recipes(recipe_id),
			material_id        INTEGER REFERENCES raw_materials(material_id),
			material_name      TEXT NOT NULL,
			quantity_needed    NUMERIC NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS batches (
			batch_id       INTEGER PRIMARY KEY,
			product_name   TEXT NOT NULL,
			quantity       INTEGER NOT NULL,
			date_completed TIMESTAMP NOT NULL,
			status         TEXT NOT NULL DEFAULT 'Ready',
			notes          TEXT,
			date_shipped   TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS batch_materials (
			batch_material_id INTEGER PRIMARY KEY AUTOINCREMENT,
			batch_id          INTEGER NOT NULL REFERENCES batches(batch_id) ON DELETE CASCADE,
			material_id       INTEGER NOT NULL,
			quantity_used     NUMERIC NOT NULL
		)`,
	}
	for _, stmt := range statements {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}
