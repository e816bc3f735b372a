package repository

import "github.com/matchaverde/inventory-api/internal/domain/entity"

// RecipeRepository define el puerto de persistencia para recetas y sus líneas.
// Get devuelve (nil, nil) cuando la receta no existe.
type RecipeRepository interface {
	Get(productName string) (*entity.Recipe, error)
	List() ([]*entity.Recipe, error)
	Create(productName, notes string) (int64, error)
	UpdateNotes(recipeID int64, notes string) error
	InsertLine(recipeID int64, line entity.RecipeLine) error
	DeleteLines(recipeID int64) error
	Delete(recipeID int64) error
}
