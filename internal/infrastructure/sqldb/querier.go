// Package sqldb contiene los repositorios SQL compartidos entre motores.
//
// Todo el SQL se escribe una sola vez con placeholders $1..$n y, donde aplica,
// INSERT ... RETURNING para obtener el identificador generado. El adaptador de
// cada motor implementa Querier: PostgreSQL (pgx) lo ejecuta tal cual y SQLite
// traduce el dialecto ($n -> ?, elimina FOR UPDATE) antes de ejecutar.
package sqldb

import "context"

// Row es una fila individual (resultado de QueryRow).
type Row interface {
	Scan(dest ...any) error
}

// Rows es un cursor de resultados.
type Rows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
	Close()
}

// Querier ejecuta sentencias parametrizadas. Lo implementan tanto el pool /
// la tx de cada motor, así los repositorios sirven dentro y fuera de
// transacciones sin cambios.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) error
	QueryRow(ctx context.Context, sql string, args ...any) Row
	Query(ctx context.Context, sql string, args ...any) (Rows, error)
}
