package entity

import "github.com/shopspring/decimal"

// Recipe es la lista de materiales (BOM) para producir UNA unidad de producto.
// Hay una receta por product_name; la capa de aplicación valida la unicidad.
type Recipe struct {
	ID          int64
	ProductName string
	Notes       string
	Lines       []RecipeLine
}

// RecipeLine es un ingrediente de la receta. MaterialID es nil cuando la
// línea referencia un material que aún no existe en el inventario (se tolera
// con advertencia al definir la receta, pero bloquea la creación de lotes).
type RecipeLine struct {
	MaterialID     *int64
	MaterialName   string
	QuantityNeeded decimal.Decimal // por unidad de producto; se multiplica por la cantidad del lote
}
