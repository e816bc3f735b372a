package dto

import (
	"github.com/shopspring/decimal"

	"github.com/matchaverde/inventory-api/internal/domain/entity"
)

// AddMaterialRequest alta de materia prima.
type AddMaterialRequest struct {
	Name         string          `json:"name"`
	Category     string          `json:"category"`
	StockLevel   decimal.Decimal `json:"stock_level"`
	Unit         string          `json:"unit"`
	ReorderLevel decimal.Decimal `json:"reorder_level"`
	CostPerUnit  decimal.Decimal `json:"cost_per_unit"`
	Supplier     string          `json:"supplier"`
	LotNumber    *int64          `json:"lot_number"`
}

// AdjustStockRequest ajuste manual de stock (aumento o descuento).
type AdjustStockRequest struct {
	Name      string          `json:"name"`
	LotNumber *int64          `json:"lot_number"`
	Amount    decimal.Decimal `json:"amount"`
}

// MaterialResponse una materia prima del inventario.
type MaterialResponse struct {
	MaterialID   int64           `json:"material_id"`
	Name         string          `json:"name"`
	Category     string          `json:"category"`
	StockLevel   decimal.Decimal `json:"stock_level"`
	Unit         string          `json:"unit"`
	ReorderLevel decimal.Decimal `json:"reorder_level"`
	CostPerUnit  decimal.Decimal `json:"cost_per_unit"`
	Supplier     string          `json:"supplier"`
	LotNumber    *int64          `json:"lot_number"`
}

// FromMaterial mapea la entidad al DTO.
func FromMaterial(m *entity.Material) MaterialResponse {
	return MaterialResponse{
		MaterialID:   m.ID,
		Name:         m.Name,
		Category:     m.Category,
		StockLevel:   m.StockLevel,
		Unit:         m.Unit,
		ReorderLevel: m.ReorderLevel,
		CostPerUnit:  m.CostPerUnit,
		Supplier:     m.Supplier,
		LotNumber:    m.LotNumber,
	}
}

// FromMaterials mapea la lista completa.
func FromMaterials(materials []*entity.Material) []MaterialResponse {
	out := make([]MaterialResponse, 0, len(materials))
	for _, m := range materials {
		out = append(out, FromMaterial(m))
	}
	return out
}
