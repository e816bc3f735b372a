package entity

import "github.com/shopspring/decimal"

// Material representa una materia prima del inventario.
// El nombre no es único: lotes distintos del mismo material se distinguen con
// LotNumber; la fila canónica (sin lote) tiene LotNumber == nil.
type Material struct {
	ID           int64
	Name         string
	Category     string
	StockLevel   decimal.Decimal // nunca negativo tras ninguna operación
	Unit         string          // informativo, sin conversión de unidades
	ReorderLevel decimal.Decimal // umbral de alerta de reposición
	CostPerUnit  decimal.Decimal
	Supplier     string
	LotNumber    *int64
}

// BelowReorder indica si el material está en o por debajo de su umbral.
func (m *Material) BelowReorder() bool {
	return m.StockLevel.LessThanOrEqual(m.ReorderLevel)
}
