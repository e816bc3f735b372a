package repository

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/matchaverde/inventory-api/internal/domain/entity"
)

// BatchRepository define el puerto de persistencia para lotes de producción
// y su tabla de consumos (batch_materials).
type BatchRepository interface {
	Exists(id int64) (bool, error)
	// NextID devuelve MAX(batch_id)+1 dentro de la transacción actual, de modo
	// que los IDs automáticos avanzan más allá de cualquier ID manual previo.
	NextID() (int64, error)
	Insert(b *entity.Batch) error
	InsertConsumption(batchID, materialID int64, quantityUsed decimal.Decimal) error
	Get(id int64) (*entity.Batch, error)
	ListReady() ([]*entity.Batch, error)
	ListShipped() ([]*entity.Batch, error)
	// MarkShipped transiciona Ready -> Shipped y estampa date_shipped.
	// Devuelve false si el lote no existe o ya estaba Shipped.
	MarkShipped(id int64, when time.Time) (bool, error)
	Consumptions(batchID int64) ([]entity.BatchMaterial, error)
	DeleteConsumptions(batchID int64) error
	Delete(id int64) (bool, error)
}
