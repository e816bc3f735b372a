package sqldb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/matchaverde/inventory-api/internal/domain/entity"
	"github.com/matchaverde/inventory-api/internal/domain/repository"
)

var _ repository.MaterialRepository = (*MaterialRepo)(nil)

const materialColumns = `material_id, name, category, stock_level, unit, reorder_level, cost_per_unit, supplier, lot_number`

// MaterialRepo implementación de MaterialRepository sobre un Querier
// (usable con pool o tx de cualquiera de los dos motores).
type MaterialRepo struct {
	q Querier
}

// NewMaterialRepository construye el adaptador de materias primas.
func NewMaterialRepository(q Querier) *MaterialRepo {
	return &MaterialRepo{q: q}
}

// Create inserta una materia prima y devuelve su material_id.
func (r *MaterialRepo) Create(m *entity.Material) (int64, error) {
	query := `
		INSERT INTO raw_materials (name, category, stock_level, unit, reorder_level, cost_per_unit, supplier, lot_number)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING material_id`
	var id int64
	err := r.q.QueryRow(context.Background(), query,
		m.Name, m.Category, m.StockLevel, m.Unit, m.ReorderLevel, m.CostPerUnit, m.Supplier, m.LotNumber,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert material: %w", err)
	}
	return id, nil
}

// GetByName busca por nombre y lote. lot == nil direcciona la fila canónica
// sin lote (lot_number IS NULL), no un lote cualquiera. Devuelve (nil, nil)
// si no existe.
func (r *MaterialRepo) GetByName(name string, lot *int64) (*entity.Material, error) {
	return r.getByName(name, lot, "")
}

// GetByNameForUpdate como GetByName pero bloqueando la fila (SELECT FOR UPDATE).
func (r *MaterialRepo) GetByNameForUpdate(name string, lot *int64) (*entity.Material, error) {
	return r.getByName(name, lot, " FOR UPDATE")
}

func (r *MaterialRepo) getByName(name string, lot *int64, suffix string) (*entity.Material, error) {
	var row Row
	if lot == nil {
		query := `SELECT ` + materialColumns + ` FROM raw_materials WHERE name = $1 AND lot_number IS NULL` + suffix
		row = r.q.QueryRow(context.Background(), query, name)
	} else {
		query := `SELECT ` + materialColumns + ` FROM raw_materials WHERE name = $1 AND lot_number = $2` + suffix
		row = r.q.QueryRow(context.Background(), query, name, *lot)
	}
	m, err := scanMaterial(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get material: %w", err)
	}
	return m, nil
}

// GetByIDForUpdate obtiene y bloquea un material por su identificador.
func (r *MaterialRepo) GetByIDForUpdate(id int64) (*entity.Material, error) {
	query := `SELECT ` + materialColumns + ` FROM raw_materials WHERE material_id = $1 FOR UPDATE`
	m, err := scanMaterial(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get material for update: %w", err)
	}
	return m, nil
}

// List devuelve todos los materiales ordenados por categoría y nombre.
func (r *MaterialRepo) List() ([]*entity.Material, error) {
	query := `SELECT ` + materialColumns + ` FROM raw_materials ORDER BY category, name, lot_number`
	rows, err := r.q.Query(context.Background(), query)
	if err != nil {
		return nil, fmt.Errorf("list materials: %w", err)
	}
	defer rows.Close()
	return collectMaterials(rows)
}

// ListLowStock devuelve los materiales en o por debajo del umbral, los más
// urgentes primero: ratio stock/reorder ascendente; los de umbral cero se
// tratan como siempre-urgentes y desempatan por déficit absoluto.
// El factor 1.0 fuerza división real: en SQLite dos NUMERIC con valor entero
// dividen como enteros y todos los ratios colapsarían a cero.
func (r *MaterialRepo) ListLowStock() ([]*entity.Material, error) {
	query := `
		SELECT ` + materialColumns + `
		FROM raw_materials
		WHERE stock_level <= reorder_level
		ORDER BY
			CASE WHEN reorder_level > 0 THEN (1.0 * stock_level) / reorder_level ELSE 0 END ASC,
			(reorder_level - stock_level) DESC`
	rows, err := r.q.Query(context.Background(), query)
	if err != nil {
		return nil, fmt.Errorf("list low stock: %w", err)
	}
	defer rows.Close()
	return collectMaterials(rows)
}

// UpdateStockLevel fija el nivel de stock calculado por el caso de uso.
func (r *MaterialRepo) UpdateStockLevel(id int64, level decimal.Decimal) error {
	query := `UPDATE raw_materials SET stock_level = $1 WHERE material_id = $2`
	if err := r.q.Exec(context.Background(), query, level, id); err != nil {
		return fmt.Errorf("update stock level: %w", err)
	}
	return nil
}

// Delete elimina el material por nombre y lote. Devuelve false si no existía.
func (r *MaterialRepo) Delete(name string, lot *int64) (bool, error) {
	existing, err := r.GetByName(name, lot)
	if err != nil {
		return false, err
	}
	if existing == nil {
		return false, nil
	}
	query := `DELETE FROM raw_materials WHERE material_id = $1`
	if err := r.q.Exec(context.Background(), query, existing.ID); err != nil {
		return false, fmt.Errorf("delete material: %w", err)
	}
	return true, nil
}

// CountReferences cuenta las líneas de receta y consumos de lote que apuntan
// al material.
func (r *MaterialRepo) CountReferences(id int64) (int64, error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM recipe_materials WHERE material_id = $1) +
			(SELECT COUNT(*) FROM batch_materials WHERE material_id = $1)`
	var n int64
	if err := r.q.QueryRow(context.Background(), query, id).Scan(&n); err != nil {
		return 0, fmt.Errorf("count material references: %w", err)
	}
	return n, nil
}

func scanMaterial(row Row) (*entity.Material, error) {
	var m entity.Material
	var lot sql.NullInt64
	err := row.Scan(&m.ID, &m.Name, &m.Category, &m.StockLevel, &m.Unit,
		&m.ReorderLevel, &m.CostPerUnit, &m.Supplier, &lot)
	if err != nil {
		return nil, err
	}
	if lot.Valid {
		m.LotNumber = &lot.Int64
	}
	return &m, nil
}

func collectMaterials(rows Rows) ([]*entity.Material, error) {
	var out []*entity.Material
	for rows.Next() {
		var m entity.Material
		var lot sql.NullInt64
		if err := rows.Scan(&m.ID, &m.Name, &m.Category, &m.StockLevel, &m.Unit,
			&m.ReorderLevel, &m.CostPerUnit, &m.Supplier, &lot); err != nil {
			return nil, fmt.Errorf("scan material: %w", err)
		}
		if lot.Valid {
			m.LotNumber = &lot.Int64
		}
		out = append(out, &m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate materials: %w", err)
	}
	return out, nil
}
