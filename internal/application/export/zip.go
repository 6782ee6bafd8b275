package export

import (
	"archive/zip"
	"bytes"
	"fmt"
)

type zipEntry struct {
	Name string
	Data []byte
}

// buildZip empaqueta las entradas en un ZIP en memoria, en el orden recibido.
func buildZip(entries []zipEntry) ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	for _, e := range entries {
		fw, err := zw.Create(e.Name)
		if err != nil {
			return nil, fmt.Errorf("zip: crear entrada %s: %w", e.Name, err)
		}
		if _, err := fw.Write(e.Data); err != nil {
			return nil, fmt.Errorf("zip: escribir %s: %w", e.Name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("zip: cerrar archivo: %w", err)
	}
	return buf.Bytes(), nil
}
