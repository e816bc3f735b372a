package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/matchaverde/inventory-api/internal/application/batch"
	"github.com/matchaverde/inventory-api/internal/application/inventory"
	"github.com/matchaverde/inventory-api/internal/application/recipe"
	"github.com/matchaverde/inventory-api/internal/infrastructure/pdf"
	"github.com/matchaverde/inventory-api/pkg/config"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AppName  string
	StockUC  *inventory.StockUseCase
	RecipeUC *recipe.UseCase
	BatchUC  *batch.UseCase
	Auth     config.AuthConfig
}

// Router registra las rutas de la API. Con la credencial de operación
// configurada, todo menos /auth/login queda detrás del Bearer Token; sin
// credencial (despliegue local de un solo usuario) la API es abierta.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	if deps.Auth.Enabled() {
		authHandler := NewAuthHandler(deps.Auth)
		api.Post("/auth/login", authHandler.Login)
		api.Use(AuthMiddleware(deps.Auth.JWTSecret))
	}

	// Materias primas
	materials := api.Group("/materials")
	materialHandler := NewMaterialHandler(deps.StockUC)
	materials.Post("/", materialHandler.Create)
	materials.Get("/", materialHandler.List)
	materials.Get("/low-stock", materialHandler.ListLowStock)
	materials.Post("/increase", materialHandler.Increase)
	materials.Post("/decrease", materialHandler.Decrease)
	materials.Get("/:name", materialHandler.Get)
	materials.Delete("/:name", materialHandler.Delete)

	// Recetas
	recipes := api.Group("/recipes")
	recipeHandler := NewRecipeHandler(deps.RecipeUC)
	recipes.Post("/", recipeHandler.Create)
	recipes.Get("/", recipeHandler.List)
	recipes.Get("/:product", recipeHandler.Get)
	recipes.Put("/:product", recipeHandler.Update)
	recipes.Delete("/:product", recipeHandler.Delete)

	// Lotes de producción
	batches := api.Group("/batches")
	batchHandler := NewBatchHandler(deps.BatchUC)
	batches.Post("/", batchHandler.Create)
	batches.Get("/ready", batchHandler.ListReady)
	batches.Get("/shipped", batchHandler.ListShipped)
	batches.Get("/:id", batchHandler.Get)
	batches.Post("/:id/ship", batchHandler.Ship)
	batches.Delete("/:id", batchHandler.Delete)

	// Exportaciones
	exports := api.Group("/exports")
	exportHandler := NewExportHandler(deps.AppName, deps.StockUC, deps.RecipeUC, deps.BatchUC, pdf.NewInventoryReportGenerator())
	exports.Get("/materials.csv", exportHandler.MaterialsCSV)
	exports.Get("/low-stock.csv", exportHandler.LowStockCSV)
	exports.Get("/recipes.csv", exportHandler.RecipesCSV)
	exports.Get("/batches.csv", exportHandler.BatchesCSV)
	exports.Get("/inventory.pdf", exportHandler.InventoryPDF)
}
