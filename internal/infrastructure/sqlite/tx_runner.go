package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/matchaverde/inventory-api/internal/application/ports"
	"github.com/matchaverde/inventory-api/internal/domain/repository"
	"github.com/matchaverde/inventory-api/internal/infrastructure/sqldb"
)

var _ ports.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción SQLite.
type TxRunner struct {
	db *sql.DB
}

// NewTxRunner construye el runner con la conexión.
func NewTxRunner(db *sql.DB) *TxRunner {
	return &TxRunner{db: db}
}

// Run inicia una transacción, ejecuta fn con los repositorios atados a la tx
// y hace Commit o Rollback.
func (r *TxRunner) Run(ctx context.Context, fn func(
	materials repository.MaterialRepository,
	recipes repository.RecipeRepository,
	batches repository.BatchRepository,
) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	db := NewDB(tx)
	materials := sqldb.NewMaterialRepository(db)
	recipes := sqldb.NewRecipeRepository(db)
	batches := sqldb.NewBatchRepository(db)

	if err := fn(materials, recipes, batches); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
