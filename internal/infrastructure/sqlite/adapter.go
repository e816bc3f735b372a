package sqlite

import (
	"context"
	"database/sql"

	"github.com/matchaverde/inventory-api/internal/infrastructure/sqldb"
)

// querier cubre lo que comparten *sql.DB y *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// DB adapta database/sql al puerto sqldb.Querier, traduciendo el dialecto
// compartido ($n, FOR UPDATE) al de SQLite en cada llamada.
type DB struct {
	q querier
}

var _ sqldb.Querier = (*DB)(nil)

// NewDB envuelve una conexión (o una tx) de database/sql.
func NewDB(q querier) *DB {
	return &DB{q: q}
}

// Exec ejecuta una sentencia sin resultado.
func (d *DB) Exec(ctx context.Context, sqlStr string, args ...any) error {
	q, a := rewriteQuery(sqlStr, args)
	_, err := d.q.ExecContext(ctx, q, a...)
	return err
}

// QueryRow ejecuta y devuelve una fila. database/sql ya reporta sql.ErrNoRows
// en Scan, el centinela que esperan los repositorios compartidos.
func (d *DB) QueryRow(ctx context.Context, sqlStr string, args ...any) sqldb.Row {
	q, a := rewriteQuery(sqlStr, args)
	return d.q.QueryRowContext(ctx, q, a...)
}

// Query ejecuta y devuelve un cursor.
func (d *DB) Query(ctx context.Context, sqlStr string, args ...any) (sqldb.Rows, error) {
	q, a := rewriteQuery(sqlStr, args)
	rows, err := d.q.QueryContext(ctx, q, a...)
	if err != nil {
		return nil, err
	}
	return sqlRows{rows: rows}, nil
}

type sqlRows struct {
	rows *sql.Rows
}

func (r sqlRows) Next() bool             { return r.rows.Next() }
func (r sqlRows) Scan(dest ...any) error { return r.rows.Scan(dest...) }
func (r sqlRows) Err() error             { return r.rows.Err() }
func (r sqlRows) Close()                 { _ = r.rows.Close() }
