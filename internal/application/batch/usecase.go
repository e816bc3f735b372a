// Package batch implementa el libro de lotes de producción y su orquestador:
// la creación de un lote resuelve la receta, valida suficiencia de TODOS los
// ingredientes, descuenta el stock y registra los consumos como una sola
// unidad transaccional que nunca se aplica a medias.
package batch

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/matchaverde/inventory-api/internal/application/ports"
	"github.com/matchaverde/inventory-api/internal/domain"
	"github.com/matchaverde/inventory-api/internal/domain/entity"
	"github.com/matchaverde/inventory-api/internal/domain/repository"
)

// UseCase orquesta lotes de producción sobre receta e inventario.
type UseCase struct {
	txRunner ports.TxRunner
	batches  repository.BatchRepository
	now      func() time.Time
}

// NewUseCase construye el orquestador. now es inyectable para tests.
func NewUseCase(txRunner ports.TxRunner, batches repository.BatchRepository) *UseCase {
	return &UseCase{txRunner: txRunner, batches: batches, now: time.Now}
}

// WithClock reemplaza el reloj (tests).
func (uc *UseCase) WithClock(now func() time.Time) *UseCase {
	uc.now = now
	return uc
}

// CreateInput datos para crear un lote. BatchID nil deja que la secuencia
// asigne el siguiente identificador; un ID suministrado que ya exista es un
// error duro. DeductResources false registra el lote sin tocar el inventario.
type CreateInput struct {
	ProductName     string
	Quantity        int64
	Notes           string
	BatchID         *int64
	DeductResources bool
}

// Create crea el lote de forma atómica.
//
// Orden del algoritmo, que es el invariante de todo el sistema: primero se
// valida la suficiencia de TODOS los ingredientes (bloqueando sus filas) y
// solo después se aplica descuento alguno; cualquier fallo en el camino
// revierte también la cabecera del lote.
func (uc *UseCase) Create(ctx context.Context, in CreateInput) (int64, error) {
	if in.ProductName == "" || in.Quantity <= 0 {
		return 0, domain.ErrInvalidInput
	}

	var batchID int64
	err := uc.txRunner.Run(ctx, func(
		materials repository.MaterialRepository,
		recipes repository.RecipeRepository,
		batches repository.BatchRepository,
	) error {
		rec, err := recipes.Get(in.ProductName)
		if err != nil {
			return err
		}
		if rec == nil {
			return fmt.Errorf("receta de %s: %w", in.ProductName, domain.ErrNotFound)
		}

		if in.BatchID != nil {
			exists, err := batches.Exists(*in.BatchID)
			if err != nil {
				return err
			}
			if exists {
				return fmt.Errorf("lote %d: %w", *in.BatchID, domain.ErrDuplicate)
			}
			batchID = *in.BatchID
		} else {
			batchID, err = batches.NextID()
			if err != nil {
				return err
			}
		}

		if err := batches.Insert(&entity.Batch{
			ID:            batchID,
			ProductName:   in.ProductName,
			Quantity:      in.Quantity,
			DateCompleted: uc.now(),
			Status:        entity.BatchStatusReady,
			Notes:         in.Notes,
		}); err != nil {
			return err
		}

		if !in.DeductResources {
			return nil
		}

		// Primera pasada: validar suficiencia de todos los ingredientes.
		// Las filas quedan bloqueadas (FOR UPDATE), así la segunda pasada
		// descuenta sobre los mismos niveles que se validaron.
		quantity := decimal.NewFromInt(in.Quantity)
		type deduction struct {
			material *entity.Material
			required decimal.Decimal
		}
		deductions := make([]deduction, 0, len(rec.Lines))
		for _, line := range rec.Lines {
			required := line.QuantityNeeded.Mul(quantity)
			m, err := materials.GetByNameForUpdate(line.MaterialName, nil)
			if err != nil {
				return err
			}
			if m == nil {
				return &domain.InsufficientStockError{
					Material:  line.MaterialName,
					Required:  required,
					Available: decimal.Zero,
				}
			}
			if m.StockLevel.LessThan(required) {
				return &domain.InsufficientStockError{
					Material:  line.MaterialName,
					Required:  required,
					Available: m.StockLevel,
				}
			}
			deductions = append(deductions, deduction{material: m, required: required})
		}

		// Segunda pasada: aplicar descuentos y congelar consumos.
		for _, d := range deductions {
			if err := materials.UpdateStockLevel(d.material.ID, d.material.StockLevel.Sub(d.required)); err != nil {
				return err
			}
			if err := batches.InsertConsumption(batchID, d.material.ID, d.required); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return batchID, nil
}

// Delete elimina un lote. Con reallocate, devuelve al inventario cada
// quantity_used congelado (no recalcula desde la receta actual, que pudo
// haber cambiado) antes de borrar; todo en una transacción.
func (uc *UseCase) Delete(ctx context.Context, batchID int64, reallocate bool) error {
	return uc.txRunner.Run(ctx, func(
		materials repository.MaterialRepository,
		_ repository.RecipeRepository,
		batches repository.BatchRepository,
	) error {
		b, err := batches.Get(batchID)
		if err != nil {
			return err
		}
		if b == nil {
			return fmt.Errorf("lote %d: %w", batchID, domain.ErrNotFound)
		}

		if reallocate {
			consumptions, err := batches.Consumptions(batchID)
			if err != nil {
				return err
			}
			for _, c := range consumptions {
				m, err := materials.GetByIDForUpdate(c.MaterialID)
				if err != nil {
					return err
				}
				if m == nil {
					return fmt.Errorf("material %d del lote %d: %w", c.MaterialID, batchID, domain.ErrNotFound)
				}
				if err := materials.UpdateStockLevel(m.ID, m.StockLevel.Add(c.QuantityUsed)); err != nil {
					return err
				}
			}
		}

		if err := batches.DeleteConsumptions(batchID); err != nil {
			return err
		}
		_, err = batches.Delete(batchID)
		return err
	})
}

// MarkShipped transiciona el lote Ready -> Shipped estampando date_shipped.
// Devuelve false (sin error) si el lote no existe o ya estaba Shipped.
func (uc *UseCase) MarkShipped(ctx context.Context, batchID int64) (bool, error) {
	var ok bool
	err := uc.txRunner.Run(ctx, func(
		_ repository.MaterialRepository,
		_ repository.RecipeRepository,
		batches repository.BatchRepository,
	) error {
		var err error
		ok, err = batches.MarkShipped(batchID, uc.now())
		return err
	})
	return ok, err
}

// Get devuelve el lote con sus consumos.
func (uc *UseCase) Get(ctx context.Context, batchID int64) (*entity.Batch, []entity.BatchMaterial, error) {
	b, err := uc.batches.Get(batchID)
	if err != nil {
		return nil, nil, err
	}
	if b == nil {
		return nil, nil, fmt.Errorf("lote %d: %w", batchID, domain.ErrNotFound)
	}
	consumptions, err := uc.batches.Consumptions(batchID)
	if err != nil {
		return nil, nil, err
	}
	return b, consumptions, nil
}

// ListReady devuelve los lotes pendientes de envío.
func (uc *UseCase) ListReady(ctx context.Context) ([]*entity.Batch, error) {
	return uc.batches.ListReady()
}

// ListShipped devuelve los lotes ya enviados.
func (uc *UseCase) ListShipped(ctx context.Context) ([]*entity.Batch, error) {
	return uc.batches.ListShipped()
}
