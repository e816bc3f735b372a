package http

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/matchaverde/inventory-api/internal/application/batch"
	"github.com/matchaverde/inventory-api/internal/application/inventory"
	"github.com/matchaverde/inventory-api/internal/application/recipe"
	"github.com/matchaverde/inventory-api/internal/domain/entity"
	"github.com/matchaverde/inventory-api/internal/infrastructure/pdf"
	"github.com/matchaverde/inventory-api/pkg/export"
)

// ExportHandler genera descargas CSV y PDF de los listados.
type ExportHandler struct {
	appName string
	stock   *inventory.StockUseCase
	recipes *recipe.UseCase
	batches *batch.UseCase
	report  *pdf.InventoryReportGenerator
}

// NewExportHandler construye el handler.
func NewExportHandler(
	appName string,
	stock *inventory.StockUseCase,
	recipes *recipe.UseCase,
	batches *batch.UseCase,
	report *pdf.InventoryReportGenerator,
) *ExportHandler {
	return &ExportHandler{appName: appName, stock: stock, recipes: recipes, batches: batches, report: report}
}

// MaterialsCSV descarga el inventario completo como CSV.
func (h *ExportHandler) MaterialsCSV(c *fiber.Ctx) error {
	materials, err := h.stock.ListMaterials(c.Context())
	if err != nil {
		return renderError(c, err)
	}
	return h.sendMaterialsCSV(c, "inventario.csv", materials)
}

// LowStockCSV descarga solo los materiales bajo el umbral de reposición.
func (h *ExportHandler) LowStockCSV(c *fiber.Ctx) error {
	materials, err := h.stock.ListLowStock(c.Context())
	if err != nil {
		return renderError(c, err)
	}
	return h.sendMaterialsCSV(c, "stock_bajo.csv", materials)
}

func (h *ExportHandler) sendMaterialsCSV(c *fiber.Ctx, filename string, materials []*entity.Material) error {
	rows := make([][]string, 0, len(materials))
	for _, m := range materials {
		lot := ""
		if m.LotNumber != nil {
			lot = strconv.FormatInt(*m.LotNumber, 10)
		}
		rows = append(rows, []string{
			strconv.FormatInt(m.ID, 10),
			m.Name,
			m.Category,
			lot,
			m.StockLevel.String(),
			m.Unit,
			m.ReorderLevel.String(),
			m.CostPerUnit.String(),
			m.Supplier,
		})
	}
	data, err := export.CSV(
		[]string{"material_id", "nombre", "categoria", "lote", "stock", "unidad", "umbral", "costo_unitario", "proveedor"},
		rows,
	)
	if err != nil {
		return renderError(c, err)
	}
	return sendAttachment(c, filename, "text/csv", data)
}

// RecipesCSV descarga el catálogo de recetas, una fila por línea de receta.
func (h *ExportHandler) RecipesCSV(c *fiber.Ctx) error {
	recipes, err := h.recipes.List(c.Context())
	if err != nil {
		return renderError(c, err)
	}
	var rows [][]string
	for _, r := range recipes {
		for _, l := range r.Lines {
			materialID := ""
			if l.MaterialID != nil {
				materialID = strconv.FormatInt(*l.MaterialID, 10)
			}
			rows = append(rows, []string{
				strconv.FormatInt(r.ID, 10),
				r.ProductName,
				materialID,
				l.MaterialName,
				l.QuantityNeeded.String(),
				r.Notes,
			})
		}
	}
	data, err := export.CSV(
		[]string{"recipe_id", "producto", "material_id", "material", "cantidad_por_unidad", "notas"},
		rows,
	)
	if err != nil {
		return renderError(c, err)
	}
	return sendAttachment(c, "recetas.csv", "text/csv", data)
}

// BatchesCSV descarga el libro de lotes; ?status=ready|shipped filtra,
// ausente exporta ambos.
func (h *ExportHandler) BatchesCSV(c *fiber.Ctx) error {
	var batches []*entity.Batch
	status := c.Query("status")
	if status == "" || status == "ready" {
		ready, err := h.batches.ListReady(c.Context())
		if err != nil {
			return renderError(c, err)
		}
		batches = append(batches, ready...)
	}
	if status == "" || status == "shipped" {
		shipped, err := h.batches.ListShipped(c.Context())
		if err != nil {
			return renderError(c, err)
		}
		batches = append(batches, shipped...)
	}
	rows := make([][]string, 0, len(batches))
	for _, b := range batches {
		shippedAt := ""
		if b.DateShipped != nil {
			shippedAt = b.DateShipped.Format("2006-01-02")
		}
		rows = append(rows, []string{
			strconv.FormatInt(b.ID, 10),
			b.ProductName,
			strconv.FormatInt(b.Quantity, 10),
			b.DateCompleted.Format("2006-01-02"),
			b.Status,
			shippedAt,
			b.Notes,
		})
	}
	data, err := export.CSV(
		[]string{"batch_id", "producto", "cantidad", "fecha_completado", "estado", "fecha_envio", "notas"},
		rows,
	)
	if err != nil {
		return renderError(c, err)
	}
	return sendAttachment(c, "lotes.csv", "text/csv", data)
}

// InventoryPDF descarga el reporte imprimible del inventario.
func (h *ExportHandler) InventoryPDF(c *fiber.Ctx) error {
	materials, err := h.stock.ListMaterials(c.Context())
	if err != nil {
		return renderError(c, err)
	}
	data, err := h.report.Generate(h.appName, materials)
	if err != nil {
		return renderError(c, err)
	}
	return sendAttachment(c, "inventario.pdf", "application/pdf", data)
}

func sendAttachment(c *fiber.Ctx, filename, contentType string, data []byte) error {
	c.Set(fiber.HeaderContentType, contentType)
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(data)
}
