package http

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/matchaverde/inventory-api/internal/application/batch"
	"github.com/matchaverde/inventory-api/internal/application/dto"
)

// BatchHandler maneja las peticiones HTTP del libro de lotes de producción.
type BatchHandler struct {
	uc *batch.UseCase
}

// NewBatchHandler construye el handler.
func NewBatchHandler(uc *batch.UseCase) *BatchHandler {
	return &BatchHandler{uc: uc}
}

// Create crea un lote de producción de forma atómica: valida la receta y la
// suficiencia de todos los ingredientes antes de descontar nada.
func (h *BatchHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateBatchRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	deduct := true
	if in.DeductResources != nil {
		deduct = *in.DeductResources
	}
	id, err := h.uc.Create(c.Context(), batch.CreateInput{
		ProductName:     in.ProductName,
		Quantity:        in.Quantity,
		Notes:           in.Notes,
		BatchID:         in.BatchID,
		DeductResources: deduct,
	})
	if err != nil {
		return renderError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"batch_id": id})
}

// Get devuelve el lote con sus consumos congelados.
func (h *BatchHandler) Get(c *fiber.Ctx) error {
	id, err := batchIDParam(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "batch_id inválido"})
	}
	b, consumptions, err := h.uc.Get(c.Context(), id)
	if err != nil {
		return renderError(c, err)
	}
	return c.JSON(dto.BatchDetailResponse{
		BatchResponse: dto.FromBatch(b),
		Materials:     dto.FromBatchMaterials(consumptions),
	})
}

// ListReady devuelve los lotes pendientes de envío.
func (h *BatchHandler) ListReady(c *fiber.Ctx) error {
	batches, err := h.uc.ListReady(c.Context())
	if err != nil {
		return renderError(c, err)
	}
	return c.JSON(dto.FromBatches(batches))
}

// ListShipped devuelve los lotes ya enviados.
func (h *BatchHandler) ListShipped(c *fiber.Ctx) error {
	batches, err := h.uc.ListShipped(c.Context())
	if err != nil {
		return renderError(c, err)
	}
	return c.JSON(dto.FromBatches(batches))
}

// Ship marca el lote como enviado. Repetir el envío no es error: shipped=false
// indica que no había nada que transicionar.
func (h *BatchHandler) Ship(c *fiber.Ctx) error {
	id, err := batchIDParam(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "batch_id inválido"})
	}
	ok, err := h.uc.MarkShipped(c.Context(), id)
	if err != nil {
		return renderError(c, err)
	}
	return c.JSON(fiber.Map{"batch_id": id, "shipped": ok})
}

// Delete elimina el lote; ?reallocate=true devuelve los consumos congelados
// al inventario antes de borrar.
func (h *BatchHandler) Delete(c *fiber.Ctx) error {
	id, err := batchIDParam(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "batch_id inválido"})
	}
	reallocate := c.QueryBool("reallocate", false)
	if err := h.uc.Delete(c.Context(), id, reallocate); err != nil {
		return renderError(c, err)
	}
	return c.JSON(fiber.Map{"message": "lote eliminado", "reallocated": reallocate})
}

func batchIDParam(c *fiber.Ctx) (int64, error) {
	return strconv.ParseInt(c.Params("id"), 10, 64)
}
