package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/matchaverde/inventory-api/internal/application/dto"
	"github.com/matchaverde/inventory-api/internal/application/recipe"
)

// RecipeHandler maneja las peticiones HTTP del catálogo de recetas.
type RecipeHandler struct {
	uc *recipe.UseCase
}

// NewRecipeHandler construye el handler.
func NewRecipeHandler(uc *recipe.UseCase) *RecipeHandler {
	return &RecipeHandler{uc: uc}
}

// Get devuelve la receta de un producto con sus líneas.
func (h *RecipeHandler) Get(c *fiber.Ctx) error {
	rec, err := h.uc.Get(c.Context(), c.Params("product"))
	if err != nil {
		return renderError(c, err)
	}
	return c.JSON(dto.FromRecipe(rec))
}

// List devuelve todas las recetas.
func (h *RecipeHandler) List(c *fiber.Ctx) error {
	recipes, err := h.uc.List(c.Context())
	if err != nil {
		return renderError(c, err)
	}
	out := make([]dto.RecipeResponse, 0, len(recipes))
	for _, r := range recipes {
		out = append(out, dto.FromRecipe(r))
	}
	return c.JSON(out)
}

// Create guarda una receta nueva. Los materiales que no existan en el
// inventario quedan como advertencia, no como error.
func (h *RecipeHandler) Create(c *fiber.Ctx) error {
	var in dto.SaveRecipeRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	result, err := h.uc.Add(c.Context(), in.ProductName, toLineInputs(in.Lines), in.Notes)
	if err != nil {
		return renderError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.SaveRecipeResponse{
		RecipeID:   result.RecipeID,
		Unresolved: result.Unresolved,
	})
}

// Update reemplaza por completo la receta del producto.
func (h *RecipeHandler) Update(c *fiber.Ctx) error {
	var in dto.SaveRecipeRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	product := c.Params("product")
	result, err := h.uc.Change(c.Context(), product, toLineInputs(in.Lines), in.Notes)
	if err != nil {
		return renderError(c, err)
	}
	return c.JSON(dto.SaveRecipeResponse{
		RecipeID:   result.RecipeID,
		Unresolved: result.Unresolved,
	})
}

// Delete elimina la receta y devuelve las líneas borradas como confirmación.
func (h *RecipeHandler) Delete(c *fiber.Ctx) error {
	deleted, err := h.uc.Delete(c.Context(), c.Params("product"))
	if err != nil {
		return renderError(c, err)
	}
	lines := make([]dto.RecipeLineResponse, 0, len(deleted))
	for _, l := range deleted {
		lines = append(lines, dto.RecipeLineResponse{
			MaterialID:     l.MaterialID,
			MaterialName:   l.MaterialName,
			QuantityNeeded: l.QuantityNeeded,
		})
	}
	return c.JSON(fiber.Map{"message": "receta eliminada", "deleted_lines": lines})
}

func toLineInputs(lines []dto.RecipeLineRequest) []recipe.LineInput {
	out := make([]recipe.LineInput, 0, len(lines))
	for _, l := range lines {
		out = append(out, recipe.LineInput{
			MaterialName:   l.MaterialName,
			QuantityNeeded: l.QuantityNeeded,
		})
	}
	return out
}
