package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/matchaverde/inventory-api/internal/domain/entity"
)

// CreateBatchRequest creación de un lote de producción.
type CreateBatchRequest struct {
	ProductName     string `json:"product_name"`
	Quantity        int64  `json:"quantity"`
	Notes           string `json:"notes"`
	BatchID         *int64 `json:"batch_id"`
	DeductResources *bool  `json:"deduct_resources"` // nil = true
}

// BatchResponse un lote de producción.
type BatchResponse struct {
	BatchID       int64      `json:"batch_id"`
	ProductName   string     `json:"product_name"`
	Quantity      int64      `json:"quantity"`
	DateCompleted time.Time  `json:"date_completed"`
	Status        string     `json:"status"`
	Notes         string     `json:"notes"`
	DateShipped   *time.Time `json:"date_shipped,omitempty"`
}

// BatchMaterialResponse un consumo congelado del lote.
type BatchMaterialResponse struct {
	MaterialID   int64           `json:"material_id"`
	MaterialName string          `json:"material_name"`
	QuantityUsed decimal.Decimal `json:"quantity_used"`
}

// BatchDetailResponse lote + consumos.
type BatchDetailResponse struct {
	BatchResponse
	Materials []BatchMaterialResponse `json:"materials"`
}

// FromBatch mapea la entidad al DTO.
func FromBatch(b *entity.Batch) BatchResponse {
	return BatchResponse{
		BatchID:       b.ID,
		ProductName:   b.ProductName,
		Quantity:      b.Quantity,
		DateCompleted: b.DateCompleted,
		Status:        b.Status,
		Notes:         b.Notes,
		DateShipped:   b.DateShipped,
	}
}

// FromBatches mapea la lista completa.
func FromBatches(batches []*entity.Batch) []BatchResponse {
	out := make([]BatchResponse, 0, len(batches))
	for _, b := range batches {
		out = append(out, FromBatch(b))
	}
	return out
}

// FromBatchMaterials mapea los consumos.
func FromBatchMaterials(materials []entity.BatchMaterial) []BatchMaterialResponse {
	out := make([]BatchMaterialResponse, 0, len(materials))
	for _, m := range materials {
		out = append(out, BatchMaterialResponse{
			MaterialID:   m.MaterialID,
			MaterialName: m.MaterialName,
			QuantityUsed: m.QuantityUsed,
		})
	}
	return out
}
