package recipe_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matchaverde/inventory-api/internal/application/apptest"
	"github.com/matchaverde/inventory-api/internal/application/recipe"
	"github.com/matchaverde/inventory-api/internal/domain"
	"github.com/matchaverde/inventory-api/internal/domain/entity"
)

func buildUseCase(s *apptest.Store) *recipe.UseCase {
	return recipe.NewUseCase(apptest.NewTxRunner(s), apptest.NewRecipeRepo(s))
}

func seedMaterials(s *apptest.Store) {
	s.AddMaterial(entity.Material{Name: "Matcha", StockLevel: decimal.NewFromInt(1000)})
	s.AddMaterial(entity.Material{Name: "Leche", StockLevel: decimal.NewFromInt(5000)})
}

func latteLines() []recipe.LineInput {
	return []recipe.LineInput{
		{MaterialName: "Matcha", QuantityNeeded: decimal.NewFromInt(2)},
		{MaterialName: "Leche", QuantityNeeded: decimal.NewFromInt(30)},
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Creación
// ──────────────────────────────────────────────────────────────────────────────

func TestCrearReceta_ResuelveMateriales(t *testing.T) {
	s := apptest.NewStore()
	seedMaterials(s)
	uc := buildUseCase(s)

	result, err := uc.Add(context.Background(), "Latte de Matcha", latteLines(), "batir a 80 grados")
	require.NoError(t, err)
	assert.Empty(t, result.Unresolved, "todos los materiales existen")

	rec, err := uc.Get(context.Background(), "Latte de Matcha")
	require.NoError(t, err)
	assert.Equal(t, "batir a 80 grados", rec.Notes)
	require.Len(t, rec.Lines, 2)
	for _, l := range rec.Lines {
		assert.NotNil(t, l.MaterialID, "la línea %s debe quedar resuelta", l.MaterialName)
	}
}

func TestCrearReceta_MaterialDesconocido_GuardaConAdvertencia(t *testing.T) {
	s := apptest.NewStore()
	seedMaterials(s)
	uc := buildUseCase(s)

	lines := append(latteLines(), recipe.LineInput{
		MaterialName: "Vainilla", QuantityNeeded: decimal.NewFromInt(1),
	})
	result, err := uc.Add(context.Background(), "Latte de Vainilla", lines, "")
	require.NoError(t, err, "un material sin definir no impide guardar la receta")
	assert.Equal(t, []string{"Vainilla"}, result.Unresolved)

	rec, err := uc.Get(context.Background(), "Latte de Vainilla")
	require.NoError(t, err)
	require.Len(t, rec.Lines, 3)
	for _, l := range rec.Lines {
		if l.MaterialName == "Vainilla" {
			assert.Nil(t, l.MaterialID, "la línea sin resolver queda con material nulo")
		}
	}
}

func TestCrearReceta_Duplicada(t *testing.T) {
	s := apptest.NewStore()
	seedMaterials(s)
	uc := buildUseCase(s)

	_, err := uc.Add(context.Background(), "Latte de Matcha", latteLines(), "")
	require.NoError(t, err)

	_, err = uc.Add(context.Background(), "Latte de Matcha", latteLines(), "")
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	recipes, err := uc.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, recipes, 1, "el intento duplicado no debe dejar una segunda receta")
}

func TestCrearReceta_Validaciones(t *testing.T) {
	uc := buildUseCase(apptest.NewStore())
	ctx := context.Background()

	_, err := uc.Add(ctx, "", latteLines(), "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "producto vacío")

	_, err = uc.Add(ctx, "Latte", nil, "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "receta sin líneas")

	_, err = uc.Add(ctx, "Latte", []recipe.LineInput{
		{MaterialName: "Matcha", QuantityNeeded: decimal.Zero},
	}, "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "cantidad cero")

	_, err = uc.Add(ctx, "Latte", []recipe.LineInput{
		{MaterialName: "", QuantityNeeded: decimal.NewFromInt(1)},
	}, "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "línea sin material")
}

// ──────────────────────────────────────────────────────────────────────────────
// Reemplazo
// ──────────────────────────────────────────────────────────────────────────────

func TestReemplazarReceta_EsReemplazoTotal(t *testing.T) {
	s := apptest.NewStore()
	seedMaterials(s)
	uc := buildUseCase(s)

	_, err := uc.Add(context.Background(), "Latte de Matcha", latteLines(), "notas viejas")
	require.NoError(t, err)

	// El juego nuevo no conserva nada del anterior.
	result, err := uc.Change(context.Background(), "Latte de Matcha", []recipe.LineInput{
		{MaterialName: "Leche", QuantityNeeded: decimal.NewFromInt(40)},
	}, "notas nuevas")
	require.NoError(t, err)
	assert.Empty(t, result.Unresolved)

	rec, err := uc.Get(context.Background(), "Latte de Matcha")
	require.NoError(t, err)
	assert.Equal(t, "notas nuevas", rec.Notes)
	require.Len(t, rec.Lines, 1, "las líneas anteriores deben desaparecer")
	assert.Equal(t, "Leche", rec.Lines[0].MaterialName)
	assert.True(t, rec.Lines[0].QuantityNeeded.Equal(decimal.NewFromInt(40)))
}

func TestReemplazarReceta_Inexistente(t *testing.T) {
	uc := buildUseCase(apptest.NewStore())
	_, err := uc.Change(context.Background(), "Fantasma", latteLines(), "")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Baja
// ──────────────────────────────────────────────────────────────────────────────

func TestEliminarReceta_DevuelveLasLineasBorradas(t *testing.T) {
	s := apptest.NewStore()
	seedMaterials(s)
	uc := buildUseCase(s)

	_, err := uc.Add(context.Background(), "Latte de Matcha", latteLines(), "")
	require.NoError(t, err)

	deleted, err := uc.Delete(context.Background(), "Latte de Matcha")
	require.NoError(t, err)
	assert.Len(t, deleted, 2)

	_, err = uc.Get(context.Background(), "Latte de Matcha")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestEliminarReceta_Inexistente(t *testing.T) {
	uc := buildUseCase(apptest.NewStore())
	_, err := uc.Delete(context.Background(), "Fantasma")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
