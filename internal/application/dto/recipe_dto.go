package dto

import (
	"github.com/shopspring/decimal"

	"github.com/matchaverde/inventory-api/internal/domain/entity"
)

// RecipeLineRequest una línea de receta suministrada por el caller.
type RecipeLineRequest struct {
	MaterialName   string          `json:"material_name"`
	QuantityNeeded decimal.Decimal `json:"quantity_needed"`
}

// SaveRecipeRequest creación o reemplazo total de una receta.
type SaveRecipeRequest struct {
	ProductName string              `json:"product_name"`
	Notes       string              `json:"notes"`
	Lines       []RecipeLineRequest `json:"lines"`
}

// RecipeLineResponse una línea con el material resuelto contra el inventario
// actual (material_id nulo = material aún no definido).
type RecipeLineResponse struct {
	MaterialID     *int64          `json:"material_id"`
	MaterialName   string          `json:"material_name"`
	QuantityNeeded decimal.Decimal `json:"quantity_needed"`
}

// RecipeResponse la receta completa.
type RecipeResponse struct {
	RecipeID    int64                `json:"recipe_id"`
	ProductName string               `json:"product_name"`
	Notes       string               `json:"notes"`
	Lines       []RecipeLineResponse `json:"lines"`
}

// SaveRecipeResponse resultado de crear/reemplazar, con la advertencia de
// materiales no resueltos.
type SaveRecipeResponse struct {
	RecipeID   int64    `json:"recipe_id"`
	Unresolved []string `json:"unresolved_materials,omitempty"`
}

// FromRecipe mapea la entidad al DTO.
func FromRecipe(r *entity.Recipe) RecipeResponse {
	lines := make([]RecipeLineResponse, 0, len(r.Lines))
	for _, l := range r.Lines {
		lines = append(lines, RecipeLineResponse{
			MaterialID:     l.MaterialID,
			MaterialName:   l.MaterialName,
			QuantityNeeded: l.QuantityNeeded,
		})
	}
	return RecipeResponse{
		RecipeID:    r.ID,
		ProductName: r.ProductName,
		Notes:       r.Notes,
		Lines:       lines,
	}
}
