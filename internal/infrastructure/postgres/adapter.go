package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/matchaverde/inventory-api/internal/infrastructure/sqldb"
)

// querier cubre lo que comparten *pgxpool.Pool y pgx.Tx.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// DB adapta un pool o una tx de pgx al puerto sqldb.Querier. PostgreSQL usa
// los placeholders $n tal cual; no hay traducción de dialecto.
type DB struct {
	q querier
}

var _ sqldb.Querier = (*DB)(nil)

// NewDB envuelve un pool (o una tx) de pgx.
func NewDB(q querier) *DB {
	return &DB{q: q}
}

// Exec ejecuta una sentencia sin resultado.
func (d *DB) Exec(ctx context.Context, sqlStr string, args ...any) error {
	_, err := d.q.Exec(ctx, sqlStr, args...)
	return err
}

// QueryRow ejecuta y devuelve una fila. pgx.ErrNoRows se normaliza a
// sql.ErrNoRows para que los repositorios compartidos dependan de un solo
// centinela.
func (d *DB) QueryRow(ctx context.Context, sqlStr string, args ...any) sqldb.Row {
	return pgxRow{row: d.q.QueryRow(ctx, sqlStr, args...)}
}

// Query ejecuta y devuelve un cursor.
func (d *DB) Query(ctx context.Context, sqlStr string, args ...any) (sqldb.Rows, error) {
	rows, err := d.q.Query(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	return pgxRows{rows: rows}, nil
}

type pgxRow struct {
	row pgx.Row
}

func (r pgxRow) Scan(dest ...any) error {
	err := r.row.Scan(dest...)
	if errors.Is(err, pgx.ErrNoRows) {
		return sql.ErrNoRows
	}
	return err
}

type pgxRows struct {
	rows pgx.Rows
}

func (r pgxRows) Next() bool             { return r.rows.Next() }
func (r pgxRows) Scan(dest ...any) error { return r.rows.Scan(dest...) }
func (r pgxRows) Err() error             { return r.rows.Err() }
func (r pgxRows) Close()                 { r.rows.Close() }
