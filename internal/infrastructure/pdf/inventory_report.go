// Package pdf genera el reporte imprimible del inventario con Maroto v2.
//
// Layout de la página A4:
//
//	┌──────────────────────────────────────────────────────────────┐
//	│  HEADER: nombre de la app + fecha de generación              │
//	│  ──────────────────────────────────────────────────────────  │
//	│  TABLA: Material | Categoría | Lote | Stock | Umbral |       │
//	│         Costo/u                                              │
//	│  ──────────────────────────────────────────────────────────  │
//	│  PIE: total de materiales y cuántos están bajo el umbral     │
//	└──────────────────────────────────────────────────────────────┘
package pdf

import (
	"fmt"
	"time"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/matchaverde/inventory-api/internal/domain/entity"
)

var (
	colorPrimary = &props.Color{Red: 46, Green: 109, Blue: 64}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorAlert   = &props.Color{Red: 180, Green: 40, Blue: 40}
)

// InventoryReportGenerator genera el reporte PDF del inventario.
type InventoryReportGenerator struct{}

// NewInventoryReportGenerator construye el generador.
func NewInventoryReportGenerator() *InventoryReportGenerator { return &InventoryReportGenerator{} }

// Generate produce el PDF y devuelve sus bytes.
func (g *InventoryReportGenerator) Generate(appName string, materials []*entity.Material) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Reporte de inventario", true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(appName))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(tableHeaderRow())
	for _, r := range materialRows(materials) {
		m.AddRows(r)
	}
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(footerRow(materials))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

func headerRow(appName string) core.Row {
	return row.New(14).Add(
		col.New(7).Add(
			text.New(appName, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Inventario de materias primas", props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("Generado: "+time.Now().Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 4, Color: colorGray,
			}),
		),
	)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a, Color: colorPrimary, Top: 2,
		}))
	}
	return row.New(8).Add(
		h("Material", 3, align.Left),
		h("Categoría", 2, align.Left),
		h("Lote", 1, align.Center),
		h("Stock", 2, align.Right),
		h("Umbral", 2, align.Right),
		h("Costo/u", 2, align.Right),
	)
}

func materialRows(materials []*entity.Material) []core.Row {
	result := make([]core.Row, 0, len(materials))
	for _, mat := range materials {
		lot := "—"
		if mat.LotNumber != nil {
			lot = fmt.Sprintf("%d", *mat.LotNumber)
		}
		stockColor := colorGray
		if mat.BelowReorder() {
			stockColor = colorAlert
		}
		result = append(result, row.New(7).Add(
			col.New(3).Add(text.New(mat.Name, props.Text{Size: 8, Top: 1})),
			col.New(2).Add(text.New(mat.Category, props.Text{Size: 8, Top: 1, Color: colorGray})),
			col.New(1).Add(text.New(lot, props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(2).Add(text.New(mat.StockLevel.String()+" "+mat.Unit, props.Text{
				Size: 8, Align: align.Right, Top: 1, Color: stockColor,
			})),
			col.New(2).Add(text.New(mat.ReorderLevel.String(), props.Text{
				Size: 8, Align: align.Right, Top: 1, Color: colorGray,
			})),
			col.New(2).Add(text.New(mat.CostPerUnit.StringFixed(2), props.Text{
				Size: 8, Align: align.Right, Top: 1,
			})),
		))
	}
	return result
}

func footerRow(materials []*entity.Material) core.Row {
	low := 0
	for _, mat := range materials {
		if mat.BelowReorder() {
			low++
		}
	}
	return row.New(8).Add(
		col.New(12).Add(text.New(
			fmt.Sprintf("%d materiales en inventario, %d en o por debajo del umbral de reposición", len(materials), low),
			props.Text{Size: 8, Top: 2, Color: colorGray},
		)),
	)
}
