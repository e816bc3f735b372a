package sqldb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/matchaverde/inventory-api/internal/domain/entity"
	"github.com/matchaverde/inventory-api/internal/domain/repository"
)

var _ repository.BatchRepository = (*BatchRepo)(nil)

const batchColumns = `batch_id, product_name, quantity, date_completed, status, notes, date_shipped`

// BatchRepo implementación de BatchRepository sobre un Querier.
type BatchRepo struct {
	q Querier
}

// NewBatchRepository construye el adaptador de lotes.
func NewBatchRepository(q Querier) *BatchRepo {
	return &BatchRepo{q: q}
}

// Exists indica si ya hay un lote con ese identificador.
func (r *BatchRepo) Exists(id int64) (bool, error) {
	query := `SELECT 1 FROM batches WHERE batch_id = $1`
	var one int
	err := r.q.QueryRow(context.Background(), query, id).Scan(&one)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("check batch exists: %w", err)
	}
	return true, nil
}

// NextID devuelve MAX(batch_id)+1. Llamado dentro de la transacción de
// creación, hace que la secuencia automática avance más allá de cualquier
// identificador suministrado manualmente.
func (r *BatchRepo) NextID() (int64, error) {
	query := `SELECT COALESCE(MAX(batch_id), 0) + 1 FROM batches`
	var id int64
	if err := r.q.QueryRow(context.Background(), query).Scan(&id); err != nil {
		return 0, fmt.Errorf("next batch id: %w", err)
	}
	return id, nil
}

// Insert persiste la cabecera del lote con el ID ya resuelto por el caso de uso.
func (r *BatchRepo) Insert(b *entity.Batch) error {
	query := `
		INSERT INTO batches (batch_id, product_name, quantity, date_completed, status, notes)
		VALUES ($1, $2, $3, $4, $5, $6)`
	err := r.q.Exec(context.Background(), query,
		b.ID, b.ProductName, b.Quantity, b.DateCompleted, b.Status, b.Notes)
	if err != nil {
		return fmt.Errorf("insert batch: %w", err)
	}
	return nil
}

// InsertConsumption registra el consumo congelado de un material por el lote.
func (r *BatchRepo) InsertConsumption(batchID, materialID int64, quantityUsed decimal.Decimal) error {
	query := `
		INSERT INTO batch_materials (batch_id, material_id, quantity_used)
		VALUES ($1, $2, $3)`
	if err := r.q.Exec(context.Background(), query, batchID, materialID, quantityUsed); err != nil {
		return fmt.Errorf("insert batch consumption: %w", err)
	}
	return nil
}

// Get obtiene un lote por ID. Devuelve (nil, nil) si no existe.
func (r *BatchRepo) Get(id int64) (*entity.Batch, error) {
	query := `SELECT ` + batchColumns + ` FROM batches WHERE batch_id = $1`
	b, err := scanBatch(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get batch: %w", err)
	}
	return b, nil
}

// ListReady devuelve los lotes pendientes de envío por fecha de terminado.
func (r *BatchRepo) ListReady() ([]*entity.Batch, error) {
	query := `SELECT ` + batchColumns + ` FROM batches WHERE status = 'Ready' ORDER BY date_completed`
	return r.list(query)
}

// ListShipped devuelve los lotes enviados, los más recientes primero.
func (r *BatchRepo) ListShipped() ([]*entity.Batch, error) {
	query := `SELECT ` + batchColumns + ` FROM batches WHERE status = 'Shipped' ORDER BY date_shipped DESC`
	return r.list(query)
}

func (r *BatchRepo) list(query string) ([]*entity.Batch, error) {
	rows, err := r.q.Query(context.Background(), query)
	if err != nil {
		return nil, fmt.Errorf("list batches: %w", err)
	}
	defer rows.Close()

	var out []*entity.Batch
	for rows.Next() {
		var b entity.Batch
		var notes sql.NullString
		var shipped sql.NullTime
		if err := rows.Scan(&b.ID, &b.ProductName, &b.Quantity, &b.DateCompleted,
			&b.Status, &notes, &shipped); err != nil {
			return nil, fmt.Errorf("scan batch: %w", err)
		}
		b.Notes = notes.String
		if shipped.Valid {
			b.DateShipped = &shipped.Time
		}
		out = append(out, &b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate batches: %w", err)
	}
	return out, nil
}

// MarkShipped transiciona Ready -> Shipped. El predicado status = 'Ready'
// hace que el segundo intento no afecte filas y devuelva false.
func (r *BatchRepo) MarkShipped(id int64, when time.Time) (bool, error) {
	check := `SELECT 1 FROM batches WHERE batch_id = $1 AND status = 'Ready'`
	var one int
	err := r.q.QueryRow(context.Background(), check, id).Scan(&one)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("check batch ready: %w", err)
	}
	update := `UPDATE batches SET status = 'Shipped', date_shipped = $1 WHERE batch_id = $2 AND status = 'Ready'`
	if err := r.q.Exec(context.Background(), update, when, id); err != nil {
		return false, fmt.Errorf("mark batch shipped: %w", err)
	}
	return true, nil
}

// Consumptions devuelve los consumos del lote con el nombre actual del
// material (LEFT JOIN: el nombre queda vacío si el material fue borrado).
func (r *BatchRepo) Consumptions(batchID int64) ([]entity.BatchMaterial, error) {
	query := `
		SELECT bm.batch_id, bm.material_id, COALESCE(rm.name, ''), bm.quantity_used
		FROM batch_materials bm
		LEFT JOIN raw_materials rm ON bm.material_id = rm.material_id
		WHERE bm.batch_id = $1`
	rows, err := r.q.Query(context.Background(), query, batchID)
	if err != nil {
		return nil, fmt.Errorf("get batch consumptions: %w", err)
	}
	defer rows.Close()

	var out []entity.BatchMaterial
	for rows.Next() {
		var bm entity.BatchMaterial
		if err := rows.Scan(&bm.BatchID, &bm.MaterialID, &bm.MaterialName, &bm.QuantityUsed); err != nil {
			return nil, fmt.Errorf("scan batch consumption: %w", err)
		}
		out = append(out, bm)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate batch consumptions: %w", err)
	}
	return out, nil
}

// DeleteConsumptions borra los consumos del lote.
func (r *BatchRepo) DeleteConsumptions(batchID int64) error {
	query := `DELETE FROM batch_materials WHERE batch_id = $1`
	if err := r.q.Exec(context.Background(), query, batchID); err != nil {
		return fmt.Errorf("delete batch consumptions: %w", err)
	}
	return nil
}

// Delete borra la cabecera del lote. Devuelve false si no existía.
func (r *BatchRepo) Delete(id int64) (bool, error) {
	exists, err := r.Exists(id)
	if err != nil {
		return false, err
	}
	if !exists {
		return false, nil
	}
	query := `DELETE FROM batches WHERE batch_id = $1`
	if err := r.q.Exec(context.Background(), query, id); err != nil {
		return false, fmt.Errorf("delete batch: %w", err)
	}
	return true, nil
}

func scanBatch(row Row) (*entity.Batch, error) {
	var b entity.Batch
	var notes sql.NullString
	var shipped sql.NullTime
	err := row.Scan(&b.ID, &b.ProductName, &b.Quantity, &b.DateCompleted,
		&b.Status, &notes, &shipped)
	if err != nil {
		return nil, err
	}
	b.Notes = notes.String
	if shipped.Valid {
		b.DateShipped = &shipped.Time
	}
	return &b, nil
}
