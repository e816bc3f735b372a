package ports

import (
	"context"

	"github.com/matchaverde/inventory-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Garantiza atomicidad: si fn devuelve error
// se revierte todo lo escrito en la llamada.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		materials repository.MaterialRepository,
		recipes repository.RecipeRepository,
		batches repository.BatchRepository,
	) error) error
}
