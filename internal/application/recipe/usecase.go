// Package recipe implementa el catálogo de recetas (lista de materiales por
// producto). La edición es por reemplazo total de líneas, nunca un merge.
package recipe

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/matchaverde/inventory-api/internal/application/ports"
	"github.com/matchaverde/inventory-api/internal/domain"
	"github.com/matchaverde/inventory-api/internal/domain/entity"
	"github.com/matchaverde/inventory-api/internal/domain/repository"
)

// UseCase opera el catálogo de recetas.
type UseCase struct {
	txRunner ports.TxRunner
	recipes  repository.RecipeRepository
}

// NewUseCase construye el caso de uso.
func NewUseCase(txRunner ports.TxRunner, recipes repository.RecipeRepository) *UseCase {
	return &UseCase{txRunner: txRunner, recipes: recipes}
}

// LineInput una línea de receta tal como la suministra el caller.
type LineInput struct {
	MaterialName   string
	QuantityNeeded decimal.Decimal // por unidad de producto
}

// Result resultado de crear o reemplazar una receta. Unresolved lista los
// nombres de materiales que no existen (aún) en el inventario: la receta se
// guarda igual, con material_id nulo en esas líneas, y el caller decide cómo
// advertirlo.
type Result struct {
	RecipeID   int64
	Unresolved []string
}

// Get devuelve la receta del producto con sus líneas resueltas contra el
// inventario actual.
func (uc *UseCase) Get(ctx context.Context, productName string) (*entity.Recipe, error) {
	rec, err := uc.recipes.Get(productName)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, fmt.Errorf("receta de %s: %w", productName, domain.ErrNotFound)
	}
	return rec, nil
}

// List devuelve todas las recetas.
func (uc *UseCase) List(ctx context.Context) ([]*entity.Recipe, error) {
	return uc.recipes.List()
}

// Add crea la receta completa en una sola transacción. Rechaza con
// ErrDuplicate si el producto ya tiene receta.
func (uc *UseCase) Add(ctx context.Context, productName string, lines []LineInput, notes string) (*Result, error) {
	if err := validate(productName, lines); err != nil {
		return nil, err
	}
	var result Result
	err := uc.txRunner.Run(ctx, func(
		materials repository.MaterialRepository,
		recipes repository.RecipeRepository,
		_ repository.BatchRepository,
	) error {
		existing, err := recipes.Get(productName)
		if err != nil {
			return err
		}
		if existing != nil {
			return fmt.Errorf("receta de %s: %w", productName, domain.ErrDuplicate)
		}
		recipeID, err := recipes.Create(productName, notes)
		if err != nil {
			return err
		}
		result.RecipeID = recipeID
		result.Unresolved, err = insertLines(materials, recipes, recipeID, lines)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// Change reemplaza por completo la receta del producto: actualiza notas,
// borra todas las líneas e inserta el juego nuevo. No es un diff.
func (uc *UseCase) Change(ctx context.Context, productName string, lines []LineInput, notes string) (*Result, error) {
	if err := validate(productName, lines); err != nil {
		return nil, err
	}
	var result Result
	err := uc.txRunner.Run(ctx, func(
		materials repository.MaterialRepository,
		recipes repository.RecipeRepository,
		_ repository.BatchRepository,
	) error {
		existing, err := recipes.Get(productName)
		if err != nil {
			return err
		}
		if existing == nil {
			return fmt.Errorf("receta de %s: %w", productName, domain.ErrNotFound)
		}
		result.RecipeID = existing.ID
		if err := recipes.UpdateNotes(existing.ID, notes); err != nil {
			return err
		}
		if err := recipes.DeleteLines(existing.ID); err != nil {
			return err
		}
		result.Unresolved, err = insertLines(materials, recipes, existing.ID, lines)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// Delete elimina la receta y sus líneas, devolviendo las líneas borradas para
// que el caller las muestre como confirmación.
func (uc *UseCase) Delete(ctx context.Context, productName string) ([]entity.RecipeLine, error) {
	var deleted []entity.RecipeLine
	err := uc.txRunner.Run(ctx, func(
		_ repository.MaterialRepository,
		recipes repository.RecipeRepository,
		_ repository.BatchRepository,
	) error {
		existing, err := recipes.Get(productName)
		if err != nil {
			return err
		}
		if existing == nil {
			return fmt.Errorf("receta de %s: %w", productName, domain.ErrNotFound)
		}
		deleted = existing.Lines
		if err := recipes.DeleteLines(existing.ID); err != nil {
			return err
		}
		return recipes.Delete(existing.ID)
	})
	if err != nil {
		return nil, err
	}
	return deleted, nil
}

// insertLines resuelve cada nombre contra el inventario (fila canónica sin
// lote) e inserta la línea; los no resueltos quedan con material_id nulo.
func insertLines(
	materials repository.MaterialRepository,
	recipes repository.RecipeRepository,
	recipeID int64,
	lines []LineInput,
) ([]string, error) {
	var unresolved []string
	for _, in := range lines {
		line := entity.RecipeLine{
			MaterialName:   in.MaterialName,
			QuantityNeeded: in.QuantityNeeded,
		}
		m, err := materials.GetByName(in.MaterialName, nil)
		if err != nil {
			return nil, err
		}
		if m != nil {
			line.MaterialID = &m.ID
		} else {
			unresolved = append(unresolved, in.MaterialName)
		}
		if err := recipes.InsertLine(recipeID, line); err != nil {
			return nil, err
		}
	}
	return unresolved, nil
}

func validate(productName string, lines []LineInput) error {
	if productName == "" || len(lines) == 0 {
		return domain.ErrInvalidInput
	}
	for _, l := range lines {
		if l.MaterialName == "" || !l.QuantityNeeded.GreaterThan(decimal.Zero) {
			return domain.ErrInvalidInput
		}
	}
	return nil
}
