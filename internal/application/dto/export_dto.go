package dto

// ExportStats estadísticas de generación de un feed.
type ExportStats struct {
	Total    int `json:"total"`
	Exported int `json:"exported"`
	Skipped  int `json:"skipped"`
	// Reasons motivo de exclusión -> número de libros (title, price, stock).
	Reasons map[string]int `json:"reasons,omitempty"`
}

// ExportUploadResponse resultado de subir una exportación al almacenamiento.
type ExportUploadResponse struct {
	Key         string      `json:"key"`
	DownloadURL string      `json:"download_url"`
	Size        int         `json:"size"`
	Stats       ExportStats `json:"stats"`
}
