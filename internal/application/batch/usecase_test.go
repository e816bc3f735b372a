package batch_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matchaverde/inventory-api/internal/application/apptest"
	"github.com/matchaverde/inventory-api/internal/application/batch"
	"github.com/matchaverde/inventory-api/internal/domain"
	"github.com/matchaverde/inventory-api/internal/domain/entity"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fixtures: inventario de una operación de té matcha y la receta del latte.
// ──────────────────────────────────────────────────────────────────────────────

var testClock = func() time.Time {
	return time.Date(2026, 8, 25, 10, 0, 0, 0, time.UTC)
}

// buildStore arma el inventario base: Matcha 1000 g, Leche 5000 ml y Azúcar
// 2000 g, con la receta "Latte de Matcha" que consume 2/30/5 por unidad.
func buildStore(t *testing.T) *apptest.Store {
	t.Helper()
	s := apptest.NewStore()
	matchaID := s.AddMaterial(entity.Material{
		Name: "Matcha", Category: "Té", Unit: "g",
		StockLevel: decimal.NewFromInt(1000), ReorderLevel: decimal.NewFromInt(100),
	})
	milkID := s.AddMaterial(entity.Material{
		Name: "Leche", Category: "Lácteos", Unit: "ml",
		StockLevel: decimal.NewFromInt(5000), ReorderLevel: decimal.NewFromInt(500),
	})
	sugarID := s.AddMaterial(entity.Material{
		Name: "Azúcar", Category: "Endulzantes", Unit: "g",
		StockLevel: decimal.NewFromInt(2000), ReorderLevel: decimal.NewFromInt(200),
	})
	s.AddRecipe(entity.Recipe{
		ProductName: "Latte de Matcha",
		Lines: []entity.RecipeLine{
			{MaterialID: &matchaID, MaterialName: "Matcha", QuantityNeeded: decimal.NewFromInt(2)},
			{MaterialID: &milkID, MaterialName: "Leche", QuantityNeeded: decimal.NewFromInt(30)},
			{MaterialID: &sugarID, MaterialName: "Azúcar", QuantityNeeded: decimal.NewFromInt(5)},
		},
	})
	return s
}

func buildUseCase(s *apptest.Store) *batch.UseCase {
	return batch.NewUseCase(apptest.NewTxRunner(s), apptest.NewBatchRepo(s)).WithClock(testClock)
}

func stockOf(t *testing.T, s *apptest.Store, name string) decimal.Decimal {
	t.Helper()
	m, err := apptest.NewMaterialRepo(s).GetByName(name, nil)
	require.NoError(t, err)
	require.NotNil(t, m, "el material %s debe existir", name)
	return m.StockLevel
}

func assertStocks(t *testing.T, s *apptest.Store, matcha, milk, sugar int64) {
	t.Helper()
	assert.True(t, stockOf(t, s, "Matcha").Equal(decimal.NewFromInt(matcha)),
		"stock de Matcha: esperado %d, quedó %s", matcha, stockOf(t, s, "Matcha"))
	assert.True(t, stockOf(t, s, "Leche").Equal(decimal.NewFromInt(milk)),
		"stock de Leche: esperado %d, quedó %s", milk, stockOf(t, s, "Leche"))
	assert.True(t, stockOf(t, s, "Azúcar").Equal(decimal.NewFromInt(sugar)),
		"stock de Azúcar: esperado %d, quedó %s", sugar, stockOf(t, s, "Azúcar"))
}

// ──────────────────────────────────────────────────────────────────────────────
// Creación de lotes
// ──────────────────────────────────────────────────────────────────────────────

func TestCrearLote_DescuentaYCongelaConsumos(t *testing.T) {
	s := buildStore(t)
	uc := buildUseCase(s)

	id, err := uc.Create(context.Background(), batch.CreateInput{
		ProductName:     "Latte de Matcha",
		Quantity:        10,
		DeductResources: true,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), id, "el primer lote automático debe ser 1")

	// 10 unidades x (2, 30, 5) = (20, 300, 50) descontados.
	assertStocks(t, s, 980, 4700, 1950)

	b, err := apptest.NewBatchRepo(s).Get(id)
	require.NoError(t, err)
	require.NotNil(t, b)
	assert.Equal(t, entity.BatchStatusReady, b.Status)
	assert.Equal(t, testClock(), b.DateCompleted)
	assert.Nil(t, b.DateShipped)

	consumptions, err := apptest.NewBatchRepo(s).Consumptions(id)
	require.NoError(t, err)
	require.Len(t, consumptions, 3, "debe congelarse un consumo por línea de receta")
	used := map[string]decimal.Decimal{}
	for _, c := range consumptions {
		used[c.MaterialName] = c.QuantityUsed
	}
	assert.True(t, used["Matcha"].Equal(decimal.NewFromInt(20)))
	assert.True(t, used["Leche"].Equal(decimal.NewFromInt(300)))
	assert.True(t, used["Azúcar"].Equal(decimal.NewFromInt(50)))
}

func TestCrearLote_SinReceta_NoDejaRastro(t *testing.T) {
	s := buildStore(t)
	uc := buildUseCase(s)

	_, err := uc.Create(context.Background(), batch.CreateInput{
		ProductName:     "Producto Fantasma",
		Quantity:        5,
		DeductResources: true,
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNotFound, "sin receta debe reportarse not found")

	assert.Empty(t, s.Batches, "no debe quedar cabecera de lote")
	assertStocks(t, s, 1000, 5000, 2000)
}

func TestCrearLote_StockInsuficiente_RevierteTodo(t *testing.T) {
	s := buildStore(t)
	uc := buildUseCase(s)

	// 200 unidades piden 6000 ml de leche y solo hay 5000.
	_, err := uc.Create(context.Background(), batch.CreateInput{
		ProductName:     "Latte de Matcha",
		Quantity:        200,
		DeductResources: true,
	})
	require.Error(t, err)

	var insufficient *domain.InsufficientStockError
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, "Leche", insufficient.Material)
	assert.True(t, insufficient.Required.Equal(decimal.NewFromInt(6000)))
	assert.True(t, insufficient.Available.Equal(decimal.NewFromInt(5000)))
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	// Nada a medias: ni cabecera, ni consumos, ni descuentos parciales
	// (la Matcha alcanzaba y aun así no debe haberse tocado).
	assert.Empty(t, s.Batches)
	assert.Empty(t, s.Consumptions)
	assertStocks(t, s, 1000, 5000, 2000)
}

func TestCrearLote_MaterialInexistente_EsStockInsuficiente(t *testing.T) {
	s := buildStore(t)
	ghost := "Vainilla"
	s.AddRecipe(entity.Recipe{
		ProductName: "Latte de Vainilla",
		Lines: []entity.RecipeLine{
			{MaterialName: ghost, QuantityNeeded: decimal.NewFromInt(3)},
		},
	})
	uc := buildUseCase(s)

	_, err := uc.Create(context.Background(), batch.CreateInput{
		ProductName:     "Latte de Vainilla",
		Quantity:        4,
		DeductResources: true,
	})
	var insufficient *domain.InsufficientStockError
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, ghost, insufficient.Material)
	assert.True(t, insufficient.Required.Equal(decimal.NewFromInt(12)))
	assert.True(t, insufficient.Available.IsZero(),
		"material inexistente equivale a disponibilidad cero")
	assert.Empty(t, s.Batches)
}

func TestCrearLote_IDDuplicado_RechazaSinCambios(t *testing.T) {
	s := buildStore(t)
	uc := buildUseCase(s)

	manual := int64(67)
	_, err := uc.Create(context.Background(), batch.CreateInput{
		ProductName: "Latte de Matcha", Quantity: 1, BatchID: &manual, DeductResources: true,
	})
	require.NoError(t, err)
	stockAfterFirst := stockOf(t, s, "Matcha")

	_, err = uc.Create(context.Background(), batch.CreateInput{
		ProductName: "Latte de Matcha", Quantity: 1, BatchID: &manual, DeductResources: true,
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrDuplicate, "repetir el ID 67 debe ser duplicado")
	assert.Len(t, s.Batches, 1)
	assert.True(t, stockOf(t, s, "Matcha").Equal(stockAfterFirst),
		"el intento duplicado no debe descontar inventario")
}

func TestCrearLote_IDAutomaticoAvanzaSobreElManual(t *testing.T) {
	s := buildStore(t)
	uc := buildUseCase(s)

	manual := int64(67)
	_, err := uc.Create(context.Background(), batch.CreateInput{
		ProductName: "Latte de Matcha", Quantity: 1, BatchID: &manual, DeductResources: true,
	})
	require.NoError(t, err)

	id, err := uc.Create(context.Background(), batch.CreateInput{
		ProductName: "Latte de Matcha", Quantity: 1, DeductResources: true,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(68), id,
		"la secuencia automática debe continuar después del ID manual")
}

func TestCrearLote_SinDescontar_NoTocaInventario(t *testing.T) {
	s := buildStore(t)
	uc := buildUseCase(s)

	id, err := uc.Create(context.Background(), batch.CreateInput{
		ProductName:     "Latte de Matcha",
		Quantity:        10,
		DeductResources: false,
	})
	require.NoError(t, err)

	assertStocks(t, s, 1000, 5000, 2000)
	assert.Empty(t, s.Consumptions, "sin descuento no se congelan consumos")

	b, err := apptest.NewBatchRepo(s).Get(id)
	require.NoError(t, err)
	require.NotNil(t, b, "el lote se registra aunque no descuente")
}

func TestCrearLote_EntradaInvalida(t *testing.T) {
	uc := buildUseCase(buildStore(t))

	_, err := uc.Create(context.Background(), batch.CreateInput{ProductName: "", Quantity: 1})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.Create(context.Background(), batch.CreateInput{ProductName: "Latte de Matcha", Quantity: 0})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.Create(context.Background(), batch.CreateInput{ProductName: "Latte de Matcha", Quantity: -3})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ──────────────────────────────────────────────────────────────────────────────
// Eliminación de lotes
// ──────────────────────────────────────────────────────────────────────────────

func TestEliminarLote_ConReasignacion_RestauraInventarioExacto(t *testing.T) {
	s := buildStore(t)
	uc := buildUseCase(s)

	id, err := uc.Create(context.Background(), batch.CreateInput{
		ProductName: "Latte de Matcha", Quantity: 10, DeductResources: true,
	})
	require.NoError(t, err)
	assertStocks(t, s, 980, 4700, 1950)

	require.NoError(t, uc.Delete(context.Background(), id, true))

	// Inverso exacto del descuento.
	assertStocks(t, s, 1000, 5000, 2000)
	assert.Empty(t, s.Batches)
	assert.Empty(t, s.Consumptions)
}

func TestEliminarLote_SinReasignacion_ConservaElDescuento(t *testing.T) {
	s := buildStore(t)
	uc := buildUseCase(s)

	id, err := uc.Create(context.Background(), batch.CreateInput{
		ProductName: "Latte de Matcha", Quantity: 10, DeductResources: true,
	})
	require.NoError(t, err)

	require.NoError(t, uc.Delete(context.Background(), id, false))

	assertStocks(t, s, 980, 4700, 1950)
	assert.Empty(t, s.Batches)
	assert.Empty(t, s.Consumptions, "los consumos se borran aunque no se reasigne")
}

func TestEliminarLote_ReasignaLoCongelado_NoLaRecetaActual(t *testing.T) {
	s := buildStore(t)
	uc := buildUseCase(s)

	id, err := uc.Create(context.Background(), batch.CreateInput{
		ProductName: "Latte de Matcha", Quantity: 10, DeductResources: true,
	})
	require.NoError(t, err)

	// La receta cambia después de producir el lote: la reasignación debe
	// devolver lo consumido entonces, no lo que dicta la receta de hoy.
	s.Recipes[0].Lines[0].QuantityNeeded = decimal.NewFromInt(999)

	require.NoError(t, uc.Delete(context.Background(), id, true))
	assertStocks(t, s, 1000, 5000, 2000)
}

func TestEliminarLote_Inexistente(t *testing.T) {
	uc := buildUseCase(buildStore(t))
	err := uc.Delete(context.Background(), 42, true)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Envío
// ──────────────────────────────────────────────────────────────────────────────

func TestMarcarEnviado_TransicionaUnaSolaVez(t *testing.T) {
	s := buildStore(t)
	uc := buildUseCase(s)

	id, err := uc.Create(context.Background(), batch.CreateInput{
		ProductName: "Latte de Matcha", Quantity: 1, DeductResources: true,
	})
	require.NoError(t, err)

	ok, err := uc.MarkShipped(context.Background(), id)
	require.NoError(t, err)
	assert.True(t, ok)

	b, err := apptest.NewBatchRepo(s).Get(id)
	require.NoError(t, err)
	assert.Equal(t, entity.BatchStatusShipped, b.Status)
	require.NotNil(t, b.DateShipped)
	assert.Equal(t, testClock(), *b.DateShipped)

	// Reenvío: no es error, simplemente no hay nada que transicionar.
	ok, err = uc.MarkShipped(context.Background(), id)
	require.NoError(t, err)
	assert.False(t, ok, "un lote ya enviado no debe volver a transicionar")
}

func TestMarcarEnviado_LoteInexistente(t *testing.T) {
	uc := buildUseCase(buildStore(t))
	ok, err := uc.MarkShipped(context.Background(), 99)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestListados_SeparanPorEstado(t *testing.T) {
	s := buildStore(t)
	uc := buildUseCase(s)

	first, err := uc.Create(context.Background(), batch.CreateInput{
		ProductName: "Latte de Matcha", Quantity: 1, DeductResources: true,
	})
	require.NoError(t, err)
	second, err := uc.Create(context.Background(), batch.CreateInput{
		ProductName: "Latte de Matcha", Quantity: 2, DeductResources: true,
	})
	require.NoError(t, err)

	_, err = uc.MarkShipped(context.Background(), first)
	require.NoError(t, err)

	ready, err := uc.ListReady(context.Background())
	require.NoError(t, err)
	require.Len(t, ready, 1)
	assert.Equal(t, second, ready[0].ID)

	shipped, err := uc.ListShipped(context.Background())
	require.NoError(t, err)
	require.Len(t, shipped, 1)
	assert.Equal(t, first, shipped[0].ID)
}

// ──────────────────────────────────────────────────────────────────────────────
// Errores de infraestructura: el runner debe revertir también la cabecera.
// ──────────────────────────────────────────────────────────────────────────────

func TestCrearLote_FalloIntermedio_RevierteCabecera(t *testing.T) {
	s := buildStore(t)
	uc := buildUseCase(s)

	_, err := uc.Create(context.Background(), batch.CreateInput{
		ProductName: "Latte de Matcha", Quantity: 167, DeductResources: true,
	})
	// 167 x 30 = 5010 ml de leche > 5000: falla en la segunda línea cuando la
	// primera (Matcha, 334 g) ya estaba validada.
	var insufficient *domain.InsufficientStockError
	require.ErrorAs(t, err, &insufficient)
	assert.True(t, errors.Is(err, domain.ErrInsufficientStock))
	assert.Empty(t, s.Batches, "la cabecera insertada antes del fallo debe revertirse")
	assertStocks(t, s, 1000, 5000, 2000)
}
