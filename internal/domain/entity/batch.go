package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados posibles de un lote de producción. Ready -> Shipped es la única
// transición; Shipped es terminal.
const (
	BatchStatusReady   = "Ready"
	BatchStatusShipped = "Shipped"
)

// Batch es un lote de producción de un producto.
type Batch struct {
	ID            int64
	ProductName   string
	Quantity      int64 // unidades producidas
	DateCompleted time.Time
	Status        string
	Notes         string
	DateShipped   *time.Time // solo se fija en la transición Ready -> Shipped
}

// BatchMaterial registra el consumo exacto de un material por un lote.
// QuantityUsed queda congelado al crear el lote (quantity_needed × cantidad);
// ediciones posteriores de la receta no lo alteran.
type BatchMaterial struct {
	BatchID      int64
	MaterialID   int64
	MaterialName string
	QuantityUsed decimal.Decimal
}
