// Command cli es la consola interactiva de operación: los mismos casos de uso
// que la API, sin servidor de por medio. Pensada para el despliegue local de
// un solo operador.
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/matchaverde/inventory-api/internal/application/batch"
	"github.com/matchaverde/inventory-api/internal/application/inventory"
	"github.com/matchaverde/inventory-api/internal/application/ports"
	"github.com/matchaverde/inventory-api/internal/application/recipe"
	"github.com/matchaverde/inventory-api/internal/domain"
	"github.com/matchaverde/inventory-api/internal/domain/entity"
	"github.com/matchaverde/inventory-api/internal/domain/repository"
	"github.com/matchaverde/inventory-api/internal/infrastructure/postgres"
	"github.com/matchaverde/inventory-api/internal/infrastructure/sqldb"
	"github.com/matchaverde/inventory-api/internal/infrastructure/sqlite"
	"github.com/matchaverde/inventory-api/pkg/config"
	"github.com/matchaverde/inventory-api/pkg/logger"
)

type console struct {
	in      *bufio.Reader
	stock   *inventory.StockUseCase
	recipes *recipe.UseCase
	batches *batch.UseCase
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "cargar configuración:", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: "warn"})

	ctx := context.Background()

	var (
		txRunner     ports.TxRunner
		materialRepo repository.MaterialRepository
		recipeRepo   repository.RecipeRepository
		batchRepo    repository.BatchRepository
	)
	if cfg.DB.UsePostgres() {
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		defer pool.Close()
		if err := postgres.EnsureSchema(ctx, pool); err != nil {
			log.Fatal().Err(err).Msg("esquema PostgreSQL")
		}
		db := postgres.NewDB(pool)
		txRunner = postgres.NewTxRunner(pool)
		materialRepo = sqldb.NewMaterialRepository(db)
		recipeRepo = sqldb.NewRecipeRepository(db)
		batchRepo = sqldb.NewBatchRepository(db)
	} else {
		sqliteDB, err := sqlite.Open(cfg.DB.SQLitePath)
		if err != nil {
			log.Fatal().Err(err).Msg("apertura de SQLite")
		}
		defer sqliteDB.Close()
		db := sqlite.NewDB(sqliteDB)
		txRunner = sqlite.NewTxRunner(sqliteDB)
		materialRepo = sqldb.NewMaterialRepository(db)
		recipeRepo = sqldb.NewRecipeRepository(db)
		batchRepo = sqldb.NewBatchRepository(db)
	}

	c := &console{
		in:      bufio.NewReader(os.Stdin),
		stock:   inventory.NewStockUseCase(txRunner, materialRepo),
		recipes: recipe.NewUseCase(txRunner, recipeRepo),
		batches: batch.NewUseCase(txRunner, batchRepo),
	}
	c.run(ctx, cfg.App.Name)
}

func (c *console) run(ctx context.Context, appName string) {
	fmt.Printf("== %s ==\n", appName)
	for {
		fmt.Println()
		fmt.Println("1) Inventario  2) Recetas  3) Lotes  0) Salir")
		switch c.prompt("> ") {
		case "1":
			c.inventoryMenu(ctx)
		case "2":
			c.recipeMenu(ctx)
		case "3":
			c.batchMenu(ctx)
		case "0":
			return
		}
	}
}

func (c *console) inventoryMenu(ctx context.Context) {
	fmt.Println("1) Ver inventario  2) Stock bajo  3) Alta  4) Aumentar  5) Descontar  6) Eliminar")
	switch c.prompt("> ") {
	case "1":
		materials, err := c.stock.ListMaterials(ctx)
		if err != nil {
			c.fail(err)
			return
		}
		printMaterials(materials)
	case "2":
		materials, err := c.stock.ListLowStock(ctx)
		if err != nil {
			c.fail(err)
			return
		}
		if len(materials) == 0 {
			fmt.Println("Ningún material bajo el umbral.")
			return
		}
		printMaterials(materials)
	case "3":
		c.addMaterial(ctx)
	case "4":
		c.adjustStock(ctx, true)
	case "5":
		c.adjustStock(ctx, false)
	case "6":
		name := c.prompt("Nombre: ")
		lot := c.promptLot()
		if err := c.stock.DeleteMaterial(ctx, name, lot); err != nil {
			c.fail(err)
			return
		}
		fmt.Println("Material eliminado.")
	}
}

func (c *console) addMaterial(ctx context.Context) {
	in := inventory.AddMaterialInput{
		Name:     c.prompt("Nombre: "),
		Category: c.prompt("Categoría: "),
		Unit:     c.prompt("Unidad: "),
		Supplier: c.prompt("Proveedor: "),
	}
	var err error
	if in.StockLevel, err = c.promptDecimal("Stock inicial: "); err != nil {
		c.fail(err)
		return
	}
	if in.ReorderLevel, err = c.promptDecimal("Umbral de reposición: "); err != nil {
		c.fail(err)
		return
	}
	if in.CostPerUnit, err = c.promptDecimal("Costo por unidad: "); err != nil {
		c.fail(err)
		return
	}
	in.LotNumber = c.promptLot()
	id, err := c.stock.AddMaterial(ctx, in)
	if err != nil {
		c.fail(err)
		return
	}
	fmt.Printf("Material creado con id %d.\n", id)
}

func (c *console) adjustStock(ctx context.Context, increase bool) {
	name := c.prompt("Nombre: ")
	lot := c.promptLot()
	amount, err := c.promptDecimal("Cantidad: ")
	if err != nil {
		c.fail(err)
		return
	}
	if !amount.IsPositive() {
		fmt.Println("La cantidad debe ser positiva.")
		return
	}
	var newLevel decimal.Decimal
	if increase {
		newLevel, err = c.stock.IncreaseStock(ctx, name, lot, amount)
	} else {
		newLevel, err = c.stock.DecreaseStock(ctx, name, lot, amount)
	}
	if err != nil {
		c.fail(err)
		return
	}
	fmt.Printf("Nuevo stock de %s: %s\n", name, newLevel)
}

func (c *console) recipeMenu(ctx context.Context) {
	fmt.Println("1) Ver receta  2) Listar  3) Crear  4) Reemplazar  5) Eliminar")
	switch c.prompt("> ") {
	case "1":
		rec, err := c.recipes.Get(ctx, c.prompt("Producto: "))
		if err != nil {
			c.fail(err)
			return
		}
		printRecipe(rec)
	case "2":
		recipes, err := c.recipes.List(ctx)
		if err != nil {
			c.fail(err)
			return
		}
		for _, r := range recipes {
			printRecipe(r)
		}
	case "3":
		c.saveRecipe(ctx, false)
	case "4":
		c.saveRecipe(ctx, true)
	case "5":
		deleted, err := c.recipes.Delete(ctx, c.prompt("Producto: "))
		if err != nil {
			c.fail(err)
			return
		}
		fmt.Printf("Receta eliminada (%d líneas).\n", len(deleted))
	}
}

func (c *console) saveRecipe(ctx context.Context, replace bool) {
	product := c.prompt("Producto: ")
	notes := c.prompt("Notas: ")
	var lines []recipe.LineInput
	for {
		name := c.prompt("Material (vacío para terminar): ")
		if name == "" {
			break
		}
		qty, err := c.promptDecimal("Cantidad por unidad: ")
		if err != nil {
			c.fail(err)
			return
		}
		lines = append(lines, recipe.LineInput{MaterialName: name, QuantityNeeded: qty})
	}
	var (
		result *recipe.Result
		err    error
	)
	if replace {
		result, err = c.recipes.Change(ctx, product, lines, notes)
	} else {
		result, err = c.recipes.Add(ctx, product, lines, notes)
	}
	if err != nil {
		c.fail(err)
		return
	}
	fmt.Printf("Receta %d guardada.\n", result.RecipeID)
	for _, name := range result.Unresolved {
		fmt.Printf("Aviso: el material %q no existe aún en el inventario.\n", name)
	}
}

func (c *console) batchMenu(ctx context.Context) {
	fmt.Println("1) Crear lote  2) Pendientes  3) Enviados  4) Detalle  5) Marcar enviado  6) Eliminar")
	switch c.prompt("> ") {
	case "1":
		c.createBatch(ctx)
	case "2":
		batches, err := c.batches.ListReady(ctx)
		if err != nil {
			c.fail(err)
			return
		}
		printBatches(batches)
	case "3":
		batches, err := c.batches.ListShipped(ctx)
		if err != nil {
			c.fail(err)
			return
		}
		printBatches(batches)
	case "4":
		id, err := c.promptInt("ID de lote: ")
		if err != nil {
			c.fail(err)
			return
		}
		b, consumptions, err := c.batches.Get(ctx, id)
		if err != nil {
			c.fail(err)
			return
		}
		printBatches([]*entity.Batch{b})
		for _, con := range consumptions {
			fmt.Printf("  consumo: %s x %s\n", con.MaterialName, con.QuantityUsed)
		}
	case "5":
		id, err := c.promptInt("ID de lote: ")
		if err != nil {
			c.fail(err)
			return
		}
		ok, err := c.batches.MarkShipped(ctx, id)
		if err != nil {
			c.fail(err)
			return
		}
		if ok {
			fmt.Println("Lote marcado como enviado.")
		} else {
			fmt.Println("Nada que enviar: el lote no existe o ya estaba enviado.")
		}
	case "6":
		id, err := c.promptInt("ID de lote: ")
		if err != nil {
			c.fail(err)
			return
		}
		reallocate := strings.EqualFold(c.prompt("¿Devolver consumos al inventario? (s/n): "), "s")
		if err := c.batches.Delete(ctx, id, reallocate); err != nil {
			c.fail(err)
			return
		}
		fmt.Println("Lote eliminado.")
	}
}

func (c *console) createBatch(ctx context.Context) {
	in := batch.CreateInput{
		ProductName:     c.prompt("Producto: "),
		DeductResources: true,
	}
	qty, err := c.promptInt("Cantidad producida: ")
	if err != nil {
		c.fail(err)
		return
	}
	in.Quantity = qty
	in.Notes = c.prompt("Notas: ")
	if raw := c.prompt("ID de lote (vacío = automático): "); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			c.fail(err)
			return
		}
		in.BatchID = &id
	}
	if strings.EqualFold(c.prompt("¿Registrar sin descontar inventario? (s/n): "), "s") {
		in.DeductResources = false
	}
	id, err := c.batches.Create(ctx, in)
	if err != nil {
		c.fail(err)
		return
	}
	fmt.Printf("Lote %d creado.\n", id)
}

func (c *console) prompt(label string) string {
	fmt.Print(label)
	line, _ := c.in.ReadString('\n')
	return strings.TrimSpace(line)
}

func (c *console) promptDecimal(label string) (decimal.Decimal, error) {
	return decimal.NewFromString(c.prompt(label))
}

func (c *console) promptInt(label string) (int64, error) {
	return strconv.ParseInt(c.prompt(label), 10, 64)
}

// promptLot lee el número de lote; vacío direcciona la fila sin lote.
func (c *console) promptLot() *int64 {
	raw := c.prompt("Lote (vacío = sin lote): ")
	if raw == "" {
		return nil
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		fmt.Println("Lote inválido, se usa sin lote.")
		return nil
	}
	return &n
}

func (c *console) fail(err error) {
	var insufficient *domain.InsufficientStockError
	switch {
	case errors.As(err, &insufficient):
		fmt.Printf("Stock insuficiente de %s: se requieren %s y hay %s.\n",
			insufficient.Material, insufficient.Required, insufficient.Available)
	case errors.Is(err, domain.ErrNotFound):
		fmt.Println("No encontrado:", err)
	case errors.Is(err, domain.ErrDuplicate):
		fmt.Println("Ya existe:", err)
	case errors.Is(err, domain.ErrConflict):
		fmt.Println("Operación rechazada:", err)
	case errors.Is(err, domain.ErrInvalidInput):
		fmt.Println("Datos inválidos.")
	default:
		fmt.Println("Error:", err)
	}
}

func printMaterials(materials []*entity.Material) {
	for _, m := range materials {
		lot := "-"
		if m.LotNumber != nil {
			lot = strconv.FormatInt(*m.LotNumber, 10)
		}
		marker := " "
		if m.BelowReorder() {
			marker = "!"
		}
		fmt.Printf("%s [%d] %-20s %-12s lote:%-4s %8s %-6s (umbral %s, costo %s, %s)\n",
			marker, m.ID, m.Name, m.Category, lot, m.StockLevel, m.Unit,
			m.ReorderLevel, m.CostPerUnit.StringFixed(2), m.Supplier)
	}
}

func printRecipe(r *entity.Recipe) {
	fmt.Printf("[%d] %s", r.ID, r.ProductName)
	if r.Notes != "" {
		fmt.Printf(" (%s)", r.Notes)
	}
	fmt.Println()
	for _, l := range r.Lines {
		resolved := ""
		if l.MaterialID == nil {
			resolved = " (sin material en inventario)"
		}
		fmt.Printf("  %s x %s%s\n", l.MaterialName, l.QuantityNeeded, resolved)
	}
}

func printBatches(batches []*entity.Batch) {
	for _, b := range batches {
		shipped := ""
		if b.DateShipped != nil {
			shipped = " enviado " + b.DateShipped.Format("2006-01-02")
		}
		fmt.Printf("[%d] %s x%d %s completado %s%s %s\n",
			b.ID, b.ProductName, b.Quantity, b.Status,
			b.DateCompleted.Format("2006-01-02"), shipped, b.Notes)
	}
}
