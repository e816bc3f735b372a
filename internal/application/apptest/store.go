// Package apptest provee dobles en memoria de los puertos de persistencia
// para probar los casos de uso sin base de datos. El TxRunner falso toma un
// snapshot del estado y lo restaura si el callback falla, reproduciendo la
// semántica de rollback de los runners reales.
package apptest

import (
	"context"

	"github.com/matchaverde/inventory-api/internal/application/ports"
	"github.com/matchaverde/inventory-api/internal/domain/entity"
	"github.com/matchaverde/inventory-api/internal/domain/repository"
)

var _ ports.TxRunner = (*TxRunner)(nil)

// Store estado compartido por los repositorios falsos.
type Store struct {
	Materials    []*entity.Material
	Recipes      []*entity.Recipe
	Batches      []*entity.Batch
	Consumptions []entity.BatchMaterial

	nextMaterialID int64
	nextRecipeID   int64
}

// NewStore crea un store vacío.
func NewStore() *Store {
	return &Store{nextMaterialID: 1, nextRecipeID: 1}
}

// AddMaterial inserta un material asignándole ID; helper de fixtures.
func (s *Store) AddMaterial(m entity.Material) int64 {
	m.ID = s.nextMaterialID
	s.nextMaterialID++
	s.Materials = append(s.Materials, cloneMaterial(&m))
	return m.ID
}

// AddRecipe inserta una receta completa; helper de fixtures.
func (s *Store) AddRecipe(r entity.Recipe) int64 {
	r.ID = s.nextRecipeID
	s.nextRecipeID++
	s.Recipes = append(s.Recipes, cloneRecipe(&r))
	return r.ID
}

func (s *Store) snapshot() *Store {
	snap := &Store{
		nextMaterialID: s.nextMaterialID,
		nextRecipeID:   s.nextRecipeID,
	}
	for _, m := range s.Materials {
		snap.Materials = append(snap.Materials, cloneMaterial(m))
	}
	for _, r := range s.Recipes {
		snap.Recipes = append(snap.Recipes, cloneRecipe(r))
	}
	for _, b := range s.Batches {
		snap.Batches = append(snap.Batches, cloneBatch(b))
	}
	snap.Consumptions = append(snap.Consumptions, s.Consumptions...)
	return snap
}

func (s *Store) restore(snap *Store) {
	s.Materials = snap.Materials
	s.Recipes = snap.Recipes
	s.Batches = snap.Batches
	s.Consumptions = snap.Consumptions
	s.nextMaterialID = snap.nextMaterialID
	s.nextRecipeID = snap.nextRecipeID
}

func cloneMaterial(m *entity.Material) *entity.Material {
	c := *m
	if m.LotNumber != nil {
		lot := *m.LotNumber
		c.LotNumber = &lot
	}
	return &c
}

func cloneRecipe(r *entity.Recipe) *entity.Recipe {
	c := *r
	c.Lines = make([]entity.RecipeLine, len(r.Lines))
	for i, l := range r.Lines {
		c.Lines[i] = l
		if l.MaterialID != nil {
			id := *l.MaterialID
			c.Lines[i].MaterialID = &id
		}
	}
	return &c
}

func cloneBatch(b *entity.Batch) *entity.Batch {
	c := *b
	if b.DateShipped != nil {
		when := *b.DateShipped
		c.DateShipped = &when
	}
	return &c
}

// TxRunner ejecuta el callback sobre el store y restaura el snapshot si falla.
type TxRunner struct {
	Store *Store
}

// NewTxRunner construye el runner falso.
func NewTxRunner(store *Store) *TxRunner {
	return &TxRunner{Store: store}
}

// Run implementa ports.TxRunner.
func (r *TxRunner) Run(_ context.Context, fn func(
	materials repository.MaterialRepository,
	recipes repository.RecipeRepository,
	batches repository.BatchRepository,
) error) error {
	snap := r.Store.snapshot()
	if err := fn(
		NewMaterialRepo(r.Store),
		NewRecipeRepo(r.Store),
		NewBatchRepo(r.Store),
	); err != nil {
		r.Store.restore(snap)
		return err
	}
	return nil
}
