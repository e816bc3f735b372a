package repository

import (
	"github.com/shopspring/decimal"

	"github.com/matchaverde/inventory-api/internal/domain/entity"
)

// MaterialRepository define el puerto de persistencia para materias primas.
// Las búsquedas por nombre reciben lot opcional: lot == nil direcciona la
// fila canónica (lot_number IS NULL), no "cualquier lote".
type MaterialRepository interface {
	Create(m *entity.Material) (int64, error)
	GetByName(name string, lot *int64) (*entity.Material, error)
	// GetByNameForUpdate bloquea la fila para update (SELECT FOR UPDATE en
	// PostgreSQL; en SQLite el adaptador lo omite, la BD serializa escrituras).
	GetByNameForUpdate(name string, lot *int64) (*entity.Material, error)
	GetByIDForUpdate(id int64) (*entity.Material, error)
	List() ([]*entity.Material, error)
	ListLowStock() ([]*entity.Material, error)
	UpdateStockLevel(id int64, level decimal.Decimal) error
	Delete(name string, lot *int64) (bool, error)
	// CountReferences cuenta líneas de receta y consumos de lote que apuntan
	// al material; se usa para impedir borrados que dejarían referencias huérfanas.
	CountReferences(id int64) (int64, error)
}
