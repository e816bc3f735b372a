package sqlite

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRewriteQuery_PlaceholdersSimples(t *testing.T) {
	q, args := rewriteQuery("SELECT * FROM raw_materials WHERE name = $1 AND lot_number = $2", []any{"Matcha", 7})
	assert.Equal(t, "SELECT * FROM raw_materials WHERE name = ? AND lot_number = ?", q)
	assert.Equal(t, []any{"Matcha", 7}, args)
}

func TestRewriteQuery_PlaceholderRepetido_DuplicaElArgumento(t *testing.T) {
	// En PostgreSQL $1 puede aparecer varias veces; SQLite necesita el
	// argumento repetido en cada posición.
	q, args := rewriteQuery(
		"SELECT (SELECT COUNT(*) FROM recipe_materials WHERE material_id = $1) + (SELECT COUNT(*) FROM batch_materials WHERE material_id = $1)",
		[]any{int64(5)},
	)
	assert.Equal(t,
		"SELECT (SELECT COUNT(*) FROM recipe_materials WHERE material_id = ?) + (SELECT COUNT(*) FROM batch_materials WHERE material_id = ?)",
		q)
	assert.Equal(t, []any{int64(5), int64(5)}, args)
}

func TestRewriteQuery_OrdenInvertido_ReordenaArgumentos(t *testing.T) {
	q, args := rewriteQuery("UPDATE raw_materials SET stock_level = $2 WHERE material_id = $1", []any{int64(3), "980"})
	assert.Equal(t, "UPDATE raw_materials SET stock_level = ? WHERE material_id = ?", q)
	assert.Equal(t, []any{"980", int64(3)}, args)
}

func TestRewriteQuery_EliminaForUpdate(t *testing.T) {
	q, args := rewriteQuery("SELECT name FROM raw_materials WHERE material_id = $1 FOR UPDATE", []any{int64(1)})
	assert.Equal(t, "SELECT name FROM raw_materials WHERE material_id = ?", q)
	assert.Equal(t, []any{int64(1)}, args)
}

func TestRewriteQuery_PlaceholderDeDosDigitos(t *testing.T) {
	args := make([]any, 12)
	for i := range args {
		args[i] = i + 1
	}
	q, out := rewriteQuery("INSERT INTO t VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)", args)
	assert.Equal(t, "INSERT INTO t VALUES (?,?,?,?,?,?,?,?,?,?,?,?)", q)
	assert.Equal(t, args, out)
}

func TestRewriteQuery_SinPlaceholders(t *testing.T) {
	q, args := rewriteQuery("SELECT COALESCE(MAX(batch_id), 0) + 1 FROM batches", nil)
	assert.Equal(t, "SELECT COALESCE(MAX(batch_id), 0) + 1 FROM batches", q)
	assert.Empty(t, args)
}
