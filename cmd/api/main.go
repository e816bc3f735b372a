package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"

	"github.com/matchaverde/inventory-api/internal/application/batch"
	"github.com/matchaverde/inventory-api/internal/application/inventory"
	"github.com/matchaverde/inventory-api/internal/application/ports"
	"github.com/matchaverde/inventory-api/internal/application/recipe"
	"github.com/matchaverde/inventory-api/internal/domain/repository"
	"github.com/matchaverde/inventory-api/internal/infrastructure/postgres"
	"github.com/matchaverde/inventory-api/internal/infrastructure/sqldb"
	"github.com/matchaverde/inventory-api/internal/infrastructure/sqlite"
	httpRouter "github.com/matchaverde/inventory-api/internal/interfaces/http"
	"github.com/matchaverde/inventory-api/pkg/config"
	"github.com/matchaverde/inventory-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()

	// Motor de datos: PostgreSQL si hay DATABASE_URL (o DB_HOST), si no el
	// archivo SQLite local. Ambos sirven los mismos repositorios.
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
		log.Info().Msg("motor de datos: PostgreSQL")
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
		log.Info().Str("path", cfg.DB.SQLitePath).Msg("motor de datos: SQLite")
	}

	stockUC := inventory.NewStockUseCase(txRunner, materialRepo)
	recipeUC := recipe.NewUseCase(txRunner, recipeRepo)
	batchUC := batch.NewUseCase(txRunner, batchRepo)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(requestid.New(requestid.Config{
		Generator: func() string { return uuid.NewString() },
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AppName:  cfg.App.Name,
		StockUC:  stockUC,
		RecipeUC: recipeUC,
		BatchUC:  batchUC,
		Auth:     cfg.Auth,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
