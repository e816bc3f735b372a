package sqldb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/matchaverde/inventory-api/internal/domain/entity"
	"github.com/matchaverde/inventory-api/internal/domain/repository"
)

var _ repository.RecipeRepository = (*RecipeRepo)(nil)

// RecipeRepo implementación de RecipeRepository sobre un Querier.
type RecipeRepo struct {
	q Querier
}

// NewRecipeRepository construye el adaptador de recetas.
func NewRecipeRepository(q Querier) *RecipeRepo {
	return &RecipeRepo{q: q}
}

// Get resuelve la receta por nombre de producto, con sus líneas unidas al
// material actual del inventario cuando existe (material_id refleja la fila
// vigente; material_name se conserva redundante para mostrar el histórico).
// Devuelve (nil, nil) si no hay receta.
func (r *RecipeRepo) Get(productName string) (*entity.Recipe, error) {
	query := `SELECT recipe_id, product_name, notes FROM recipes WHERE product_name = $1`
	var rec entity.Recipe
	var notes sql.NullString
	err := r.q.QueryRow(context.Background(), query, productName).Scan(&rec.ID, &rec.ProductName, &notes)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get recipe: %w", err)
	}
	rec.Notes = notes.String

	lines, err := r.lines(rec.ID)
	if err != nil {
		return nil, err
	}
	rec.Lines = lines
	return &rec, nil
}

// List devuelve todas las recetas con sus líneas, ordenadas por producto.
func (r *RecipeRepo) List() ([]*entity.Recipe, error) {
	query := `SELECT recipe_id, product_name, notes FROM recipes ORDER BY product_name`
	rows, err := r.q.Query(context.Background(), query)
	if err != nil {
		return nil, fmt.Errorf("list recipes: %w", err)
	}
	defer rows.Close()

	var out []*entity.Recipe
	for rows.Next() {
		var rec entity.Recipe
		var notes sql.NullString
		if err := rows.Scan(&rec.ID, &rec.ProductName, &notes); err != nil {
			return nil, fmt.Errorf("scan recipe: %w", err)
		}
		rec.Notes = notes.String
		out = append(out, &rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate recipes: %w", err)
	}
	for _, rec := range out {
		lines, err := r.lines(rec.ID)
		if err != nil {
			return nil, err
		}
		rec.Lines = lines
	}
	return out, nil
}

func (r *RecipeRepo) lines(recipeID int64) ([]entity.RecipeLine, error) {
	query := `
		SELECT material_id, material_name, quantity_needed
		FROM recipe_materials
		WHERE recipe_id = $1
		ORDER BY material_name ASC`
	rows, err := r.q.Query(context.Background(), query, recipeID)
	if err != nil {
		return nil, fmt.Errorf("get recipe lines: %w", err)
	}
	defer rows.Close()

	var lines []entity.RecipeLine
	for rows.Next() {
		var line entity.RecipeLine
		var materialID sql.NullInt64
		if err := rows.Scan(&materialID, &line.MaterialName, &line.QuantityNeeded); err != nil {
			return nil, fmt.Errorf("scan recipe line: %w", err)
		}
		if materialID.Valid {
			line.MaterialID = &materialID.Int64
		}
		lines = append(lines, line)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate recipe lines: %w", err)
	}
	return lines, nil
}

// Create inserta la cabecera de la receta y devuelve su recipe_id.
func (r *RecipeRepo) Create(productName, notes string) (int64, error) {
	query := `INSERT INTO recipes (product_name, notes) VALUES ($1, $2) RETURNING recipe_id`
	var id int64
	if err := r.q.QueryRow(context.Background(), query, productName, notes).Scan(&id); err != nil {
		return 0, fmt.Errorf("insert recipe: %w", err)
	}
	return id, nil
}

// UpdateNotes reemplaza las notas de la receta.
func (r *RecipeRepo) UpdateNotes(recipeID int64, notes string) error {
	query := `UPDATE recipes SET notes = $1 WHERE recipe_id = $2`
	if err := r.q.Exec(context.Background(), query, notes, recipeID); err != nil {
		return fmt.Errorf("update recipe notes: %w", err)
	}
	return nil
}

// InsertLine agrega una línea a la receta. MaterialID nil se persiste como
// NULL (material aún no definido en el inventario).
func (r *RecipeRepo) InsertLine(recipeID int64, line entity.RecipeLine) error {
	query := `
		INSERT INTO recipe_materials (recipe_id, material_id, material_name, quantity_needed)
		VALUES ($1, $2, $3, $4)`
	err := r.q.Exec(context.Background(), query, recipeID, line.MaterialID, line.MaterialName, line.QuantityNeeded)
	if err != nil {
		return fmt.Errorf("insert recipe line: %w", err)
	}
	return nil
}

// DeleteLines borra todas las líneas de la receta (reemplazo total).
func (r *RecipeRepo) DeleteLines(recipeID int64) error {
	query := `DELETE FROM recipe_materials WHERE recipe_id = $1`
	if err := r.q.Exec(context.Background(), query, recipeID); err != nil {
		return fmt.Errorf("delete recipe lines: %w", err)
	}
	return nil
}

// Delete borra la cabecera de la receta; las líneas se borran aparte con
// DeleteLines dentro de la misma transacción.
func (r *RecipeRepo) Delete(recipeID int64) error {
	query := `DELETE FROM recipes WHERE recipe_id = $1`
	if err := r.q.Exec(context.Background(), query, recipeID); err != nil {
		return fmt.Errorf("delete recipe: %w", err)
	}
	return nil
}
