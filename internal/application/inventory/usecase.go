// Package inventory implementa el libro de stock de materias primas:
// altas, ajustes con compuerta de suficiencia, bajas y consultas.
package inventory

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/matchaverde/inventory-api/internal/application/ports"
	"github.com/matchaverde/inventory-api/internal/domain"
	"github.com/matchaverde/inventory-api/internal/domain/entity"
	"github.com/matchaverde/inventory-api/internal/domain/repository"
)

// StockUseCase opera el inventario de materias primas.
type StockUseCase struct {
	txRunner  ports.TxRunner
	materials repository.MaterialRepository
}

// NewStockUseCase construye el caso de uso.
func NewStockUseCase(txRunner ports.TxRunner, materials repository.MaterialRepository) *StockUseCase {
	return &StockUseCase{txRunner: txRunner, materials: materials}
}

// AddMaterialInput datos para dar de alta una materia prima. LotNumber nil
// crea la fila canónica sin lote.
type AddMaterialInput struct {
	Name         string
	Category     string
	StockLevel   decimal.Decimal
	Unit         string
	ReorderLevel decimal.Decimal
	CostPerUnit  decimal.Decimal
	Supplier     string
	LotNumber    *int64
}

// AddMaterial inserta una materia prima nueva y devuelve su identificador.
// Nombres repetidos son válidos: representan lotes distintos del mismo material.
func (uc *StockUseCase) AddMaterial(ctx context.Context, in AddMaterialInput) (int64, error) {
	if in.Name == "" {
		return 0, domain.ErrInvalidInput
	}
	if in.StockLevel.IsNegative() || in.ReorderLevel.IsNegative() || in.CostPerUnit.IsNegative() {
		return 0, domain.ErrInvalidInput
	}
	m := &entity.Material{
		Name:         in.Name,
		Category:     in.Category,
		StockLevel:   in.StockLevel,
		Unit:         in.Unit,
		ReorderLevel: in.ReorderLevel,
		CostPerUnit:  in.CostPerUnit,
		Supplier:     in.Supplier,
		LotNumber:    in.LotNumber,
	}
	return uc.materials.Create(m)
}

// GetMaterial busca por nombre y lote. lot nil direcciona la fila sin lote.
func (uc *StockUseCase) GetMaterial(ctx context.Context, name string, lot *int64) (*entity.Material, error) {
	m, err := uc.materials.GetByName(name, lot)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, domain.ErrNotFound
	}
	return m, nil
}

// ListMaterials devuelve todo el inventario ordenado por categoría y nombre.
func (uc *StockUseCase) ListMaterials(ctx context.Context) ([]*entity.Material, error) {
	return uc.materials.List()
}

// ListLowStock devuelve los materiales en o por debajo de su umbral de
// reposición, los más urgentes primero.
func (uc *StockUseCase) ListLowStock(ctx context.Context) ([]*entity.Material, error) {
	return uc.materials.ListLowStock()
}

// IncreaseStock suma amount al stock del material y devuelve el nuevo nivel.
// La validación de "cantidad positiva" es de la capa de presentación; aquí
// solo se exige que el material exista.
func (uc *StockUseCase) IncreaseStock(ctx context.Context, name string, lot *int64, amount decimal.Decimal) (decimal.Decimal, error) {
	var newLevel decimal.Decimal
	err := uc.txRunner.Run(ctx, func(
		materials repository.MaterialRepository,
		_ repository.RecipeRepository,
		_ repository.BatchRepository,
	) error {
		m, err := materials.GetByNameForUpdate(name, lot)
		if err != nil {
			return err
		}
		if m == nil {
			return fmt.Errorf("material %s: %w", name, domain.ErrNotFound)
		}
		newLevel = m.StockLevel.Add(amount)
		return materials.UpdateStockLevel(m.ID, newLevel)
	})
	if err != nil {
		return decimal.Zero, err
	}
	return newLevel, nil
}

// DecreaseStock resta amount solo si el stock actual alcanza; si no, deja el
// stock intacto y reporta InsufficientStockError. Es la misma compuerta de
// suficiencia que usa la creación de lotes.
func (uc *StockUseCase) DecreaseStock(ctx context.Context, name string, lot *int64, amount decimal.Decimal) (decimal.Decimal, error) {
	var newLevel decimal.Decimal
	err := uc.txRunner.Run(ctx, func(
		materials repository.MaterialRepository,
		_ repository.RecipeRepository,
		_ repository.BatchRepository,
	) error {
		m, err := materials.GetByNameForUpdate(name, lot)
		if err != nil {
			return err
		}
		if m == nil {
			return fmt.Errorf("material %s: %w", name, domain.ErrNotFound)
		}
		if m.StockLevel.LessThan(amount) {
			return &domain.InsufficientStockError{
				Material:  name,
				Required:  amount,
				Available: m.StockLevel,
			}
		}
		newLevel = m.StockLevel.Sub(amount)
		return materials.UpdateStockLevel(m.ID, newLevel)
	})
	if err != nil {
		return decimal.Zero, err
	}
	return newLevel, nil
}

// DeleteMaterial elimina el material. Se rechaza con ErrConflict si recetas o
// lotes aún lo referencian, para no dejar referencias huérfanas.
func (uc *StockUseCase) DeleteMaterial(ctx context.Context, name string, lot *int64) error {
	return uc.txRunner.Run(ctx, func(
		materials repository.MaterialRepository,
		_ repository.RecipeRepository,
		_ repository.BatchRepository,
	) error {
		m, err := materials.GetByName(name, lot)
		if err != nil {
			return err
		}
		if m == nil {
			return fmt.Errorf("material %s: %w", name, domain.ErrNotFound)
		}
		refs, err := materials.CountReferences(m.ID)
		if err != nil {
			return err
		}
		if refs > 0 {
			return fmt.Errorf("material %s referenciado por %d registros: %w", name, refs, domain.ErrConflict)
		}
		_, err = materials.Delete(name, lot)
		return err
	})
}
