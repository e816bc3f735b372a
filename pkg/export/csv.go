// Package export renderiza listados a CSV para descarga. Se usa la librería
// estándar encoding/csv: el formato es trivial y no amerita dependencia.
package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
)

// CSV serializa cabecera + filas a un CSV en memoria.
func CSV(header []string, rows [][]string) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(header); err != nil {
		return nil, fmt.Errorf("write csv header: %w", err)
	}
	for _, row := range rows {
		if err := w.Write(row); err != nil {
			return nil, fmt.Errorf("write csv row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}
	return buf.Bytes(), nil
}
