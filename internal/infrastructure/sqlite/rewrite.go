package sqlite

import (
	"strings"
)

// rewriteQuery traduce el dialecto compartido de los repositorios al de
// SQLite:
//
//   - placeholders $n -> ?, reordenando (y duplicando si hace falta) los
//     argumentos según su orden de aparición, de modo que $1 repetido en la
//     sentencia funcione igual que en PostgreSQL;
//   - elimina el sufijo FOR UPDATE: SQLite no lo soporta y no lo necesita,
//     las escrituras se serializan a nivel de base de datos.
func rewriteQuery(query string, args []any) (string, []any) {
	query = strings.ReplaceAll(query, " FOR UPDATE", "")

	var sb strings.Builder
	sb.Grow(len(query))
	out := make([]any, 0, len(args))

	for i := 0; i < len(query); i++ {
		c := query[i]
		if c != '$' {
			sb.WriteByte(c)
			continue
		}
		j := i + 1
		for j < len(query) && query[j] >= '0' && query[j] <= '9' {
			j++
		}
		if j == i+1 {
			// '$' sin dígitos: se deja tal cual.
			sb.WriteByte(c)
			continue
		}
		idx := 0
		for _, d := range query[i+1 : j] {
			idx = idx*10 + int(d-'0')
		}
		if idx >= 1 && idx <= len(args) {
			out = append(out, args[idx-1])
		}
		sb.WriteByte('?')
		i = j - 1
	}
	return sb.String(), out
}
