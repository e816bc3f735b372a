package http

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/matchaverde/inventory-api/internal/application/dto"
	"github.com/matchaverde/inventory-api/internal/application/inventory"
)

// MaterialHandler maneja las peticiones HTTP del inventario de materias primas.
type MaterialHandler struct {
	uc *inventory.StockUseCase
}

// NewMaterialHandler construye el handler.
func NewMaterialHandler(uc *inventory.StockUseCase) *MaterialHandler {
	return &MaterialHandler{uc: uc}
}

// Create da de alta una materia prima.
func (h *MaterialHandler) Create(c *fiber.Ctx) error {
	var in dto.AddMaterialRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	id, err := h.uc.AddMaterial(c.Context(), inventory.AddMaterialInput{
		Name:         in.Name,
		Category:     in.Category,
		StockLevel:   in.StockLevel,
		Unit:         in.Unit,
		ReorderLevel: in.ReorderLevel,
		CostPerUnit:  in.CostPerUnit,
		Supplier:     in.Supplier,
		LotNumber:    in.LotNumber,
	})
	if err != nil {
		return renderError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"material_id": id})
}

// Get busca un material por nombre; el lote viaja en query (?lot=N).
func (h *MaterialHandler) Get(c *fiber.Ctx) error {
	name := c.Params("name")
	lot, err := lotQuery(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "lote inválido"})
	}
	m, err := h.uc.GetMaterial(c.Context(), name, lot)
	if err != nil {
		return renderError(c, err)
	}
	return c.JSON(dto.FromMaterial(m))
}

// List devuelve todo el inventario.
func (h *MaterialHandler) List(c *fiber.Ctx) error {
	materials, err := h.uc.ListMaterials(c.Context())
	if err != nil {
		return renderError(c, err)
	}
	return c.JSON(dto.FromMaterials(materials))
}

// ListLowStock devuelve los materiales en o por debajo del umbral de
// reposición, los más urgentes primero.
func (h *MaterialHandler) ListLowStock(c *fiber.Ctx) error {
	materials, err := h.uc.ListLowStock(c.Context())
	if err != nil {
		return renderError(c, err)
	}
	return c.JSON(dto.FromMaterials(materials))
}

// Increase suma stock al material.
func (h *MaterialHandler) Increase(c *fiber.Ctx) error {
	var in dto.AdjustStockRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if !in.Amount.IsPositive() {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "amount debe ser positivo"})
	}
	newLevel, err := h.uc.IncreaseStock(c.Context(), in.Name, in.LotNumber, in.Amount)
	if err != nil {
		return renderError(c, err)
	}
	return c.JSON(fiber.Map{"name": in.Name, "stock_level": newLevel})
}

// Decrease descuenta stock con compuerta de suficiencia.
func (h *MaterialHandler) Decrease(c *fiber.Ctx) error {
	var in dto.AdjustStockRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if !in.Amount.IsPositive() {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "amount debe ser positivo"})
	}
	newLevel, err := h.uc.DecreaseStock(c.Context(), in.Name, in.LotNumber, in.Amount)
	if err != nil {
		return renderError(c, err)
	}
	return c.JSON(fiber.Map{"name": in.Name, "stock_level": newLevel})
}

// Delete elimina el material si ninguna receta ni lote lo referencia.
func (h *MaterialHandler) Delete(c *fiber.Ctx) error {
	name := c.Params("name")
	lot, err := lotQuery(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "lote inválido"})
	}
	if err := h.uc.DeleteMaterial(c.Context(), name, lot); err != nil {
		return renderError(c, err)
	}
	return c.JSON(fiber.Map{"message": "material eliminado"})
}

// lotQuery parsea ?lot=N; ausente significa la fila canónica sin lote.
func lotQuery(c *fiber.Ctx) (*int64, error) {
	raw := c.Query("lot")
	if raw == "" {
		return nil, nil
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, err
	}
	return &n, nil
}
