package apptest

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/matchaverde/inventory-api/internal/domain/entity"
	"github.com/matchaverde/inventory-api/internal/domain/repository"
)

var (
	_ repository.MaterialRepository = (*MaterialRepo)(nil)
	_ repository.RecipeRepository   = (*RecipeRepo)(nil)
	_ repository.BatchRepository    = (*BatchRepo)(nil)
)

// MaterialRepo repositorio de materias primas en memoria.
type MaterialRepo struct{ s *Store }

// NewMaterialRepo construye el repositorio falso.
func NewMaterialRepo(s *Store) *MaterialRepo { return &MaterialRepo{s: s} }

func (r *MaterialRepo) Create(m *entity.Material) (int64, error) {
	return r.s.AddMaterial(*m), nil
}

func sameLot(a, b *int64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func (r *MaterialRepo) GetByName(name string, lot *int64) (*entity.Material, error) {
	for _, m := range r.s.Materials {
		if m.Name == name && sameLot(m.LotNumber, lot) {
			return cloneMaterial(m), nil
		}
	}
	return nil, nil
}

func (r *MaterialRepo) GetByNameForUpdate(name string, lot *int64) (*entity.Material, error) {
	return r.GetByName(name, lot)
}

func (r *MaterialRepo) GetByIDForUpdate(id int64) (*entity.Material, error) {
	for _, m := range r.s.Materials {
		if m.ID == id {
			return cloneMaterial(m), nil
		}
	}
	return nil, nil
}

func (r *MaterialRepo) List() ([]*entity.Material, error) {
	out := make([]*entity.Material, 0, len(r.s.Materials))
	for _, m := range r.s.Materials {
		out = append(out, cloneMaterial(m))
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Category != out[j].Category {
			return out[i].Category < out[j].Category
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

func (r *MaterialRepo) ListLowStock() ([]*entity.Material, error) {
	var out []*entity.Material
	for _, m := range r.s.Materials {
		if m.BelowReorder() {
			out = append(out, cloneMaterial(m))
		}
	}
	// Mismo orden que el repositorio SQL: proporción stock/umbral ascendente
	// (umbral cero cuenta como siempre-urgente) y desempate por déficit
	// absoluto descendente.
	ratio := func(m *entity.Material) decimal.Decimal {
		if m.ReorderLevel.IsPositive() {
			return m.StockLevel.Div(m.ReorderLevel)
		}
		return decimal.Zero
	}
	deficit := func(m *entity.Material) decimal.Decimal {
		return m.ReorderLevel.Sub(m.StockLevel)
	}
	sort.SliceStable(out, func(i, j int) bool {
		ri, rj := ratio(out[i]), ratio(out[j])
		if !ri.Equal(rj) {
			return ri.LessThan(rj)
		}
		return deficit(out[i]).GreaterThan(deficit(out[j]))
	})
	return out, nil
}

func (r *MaterialRepo) UpdateStockLevel(id int64, level decimal.Decimal) error {
	for _, m := range r.s.Materials {
		if m.ID == id {
			m.StockLevel = level
			return nil
		}
	}
	return nil
}

func (r *MaterialRepo) Delete(name string, lot *int64) (bool, error) {
	for i, m := range r.s.Materials {
		if m.Name == name && sameLot(m.LotNumber, lot) {
			r.s.Materials = append(r.s.Materials[:i], r.s.Materials[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (r *MaterialRepo) CountReferences(id int64) (int64, error) {
	var n int64
	for _, rec := range r.s.Recipes {
		for _, l := range rec.Lines {
			if l.MaterialID != nil && *l.MaterialID == id {
				n++
			}
		}
	}
	for _, c := range r.s.Consumptions {
		if c.MaterialID == id {
			n++
		}
	}
	return n, nil
}

// RecipeRepo repositorio de recetas en memoria.
type RecipeRepo struct{ s *Store }

// NewRecipeRepo construye el repositorio falso.
func NewRecipeRepo(s *Store) *RecipeRepo { return &RecipeRepo{s: s} }

func (r *RecipeRepo) Get(productName string) (*entity.Recipe, error) {
	for _, rec := range r.s.Recipes {
		if rec.ProductName == productName {
			return cloneRecipe(rec), nil
		}
	}
	return nil, nil
}

func (r *RecipeRepo) List() ([]*entity.Recipe, error) {
	out := make([]*entity.Recipe, 0, len(r.s.Recipes))
	for _, rec := range r.s.Recipes {
		out = append(out, cloneRecipe(rec))
	}
	return out, nil
}

func (r *RecipeRepo) Create(productName, notes string) (int64, error) {
	return r.s.AddRecipe(entity.Recipe{ProductName: productName, Notes: notes}), nil
}

func (r *RecipeRepo) UpdateNotes(recipeID int64, notes string) error {
	for _, rec := range r.s.Recipes {
		if rec.ID == recipeID {
			rec.Notes = notes
		}
	}
	return nil
}

func (r *RecipeRepo) InsertLine(recipeID int64, line entity.RecipeLine) error {
	for _, rec := range r.s.Recipes {
		if rec.ID == recipeID {
			rec.Lines = append(rec.Lines, line)
		}
	}
	return nil
}

func (r *RecipeRepo) DeleteLines(recipeID int64) error {
	for _, rec := range r.s.Recipes {
		if rec.ID == recipeID {
			rec.Lines = nil
		}
	}
	return nil
}

func (r *RecipeRepo) Delete(recipeID int64) error {
	for i, rec := range r.s.Recipes {
		if rec.ID == recipeID {
			r.s.Recipes = append(r.s.Recipes[:i], r.s.Recipes[i+1:]...)
			return nil
		}
	}
	return nil
}

// BatchRepo repositorio de lotes en memoria.
type BatchRepo struct{ s *Store }

// NewBatchRepo construye el repositorio falso.
func NewBatchRepo(s *Store) *BatchRepo { return &BatchRepo{s: s} }

func (r *BatchRepo) Exists(id int64) (bool, error) {
	for _, b := range r.s.Batches {
		if b.ID == id {
			return true, nil
		}
	}
	return false, nil
}

func (r *BatchRepo) NextID() (int64, error) {
	var max int64
	for _, b := range r.s.Batches {
		if b.ID > max {
			max = b.ID
		}
	}
	return max + 1, nil
}

func (r *BatchRepo) Insert(b *entity.Batch) error {
	r.s.Batches = append(r.s.Batches, cloneBatch(b))
	return nil
}

func (r *BatchRepo) InsertConsumption(batchID, materialID int64, quantityUsed decimal.Decimal) error {
	name := ""
	for _, m := range r.s.Materials {
		if m.ID == materialID {
			name = m.Name
		}
	}
	r.s.Consumptions = append(r.s.Consumptions, entity.BatchMaterial{
		BatchID:      batchID,
		MaterialID:   materialID,
		MaterialName: name,
		QuantityUsed: quantityUsed,
	})
	return nil
}

func (r *BatchRepo) Get(id int64) (*entity.Batch, error) {
	for _, b := range r.s.Batches {
		if b.ID == id {
			return cloneBatch(b), nil
		}
	}
	return nil, nil
}

func (r *BatchRepo) ListReady() ([]*entity.Batch, error) {
	return r.listByStatus(entity.BatchStatusReady), nil
}

func (r *BatchRepo) ListShipped() ([]*entity.Batch, error) {
	return r.listByStatus(entity.BatchStatusShipped), nil
}

func (r *BatchRepo) listByStatus(status string) []*entity.Batch {
	var out []*entity.Batch
	for _, b := range r.s.Batches {
		if b.Status == status {
			out = append(out, cloneBatch(b))
		}
	}
	return out
}

func (r *BatchRepo) MarkShipped(id int64, when time.Time) (bool, error) {
	for _, b := range r.s.Batches {
		if b.ID == id && b.Status == entity.BatchStatusReady {
			b.Status = entity.BatchStatusShipped
			shipped := when
			b.DateShipped = &shipped
			return true, nil
		}
	}
	return false, nil
}

func (r *BatchRepo) Consumptions(batchID int64) ([]entity.BatchMaterial, error) {
	var out []entity.BatchMaterial
	for _, c := range r.s.Consumptions {
		if c.BatchID == batchID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *BatchRepo) DeleteConsumptions(batchID int64) error {
	kept := r.s.Consumptions[:0]
	for _, c := range r.s.Consumptions {
		if c.BatchID != batchID {
			kept = append(kept, c)
		}
	}
	r.s.Consumptions = kept
	return nil
}

func (r *BatchRepo) Delete(id int64) (bool, error) {
	for i, b := range r.s.Batches {
		if b.ID == id {
			r.s.Batches = append(r.s.Batches[:i], r.s.Batches[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}
