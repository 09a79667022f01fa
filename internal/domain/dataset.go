package domain

// DatasetDescriptor describe un archivo de datos crudo del estudio.
type DatasetDescriptor struct {
	Name string `json:"name"`
	Type string `json:"type"`
	Size string `json:"size"`
}

// DatasetStats es la vista de columnas y muestra de un dataset.
type DatasetStats struct {
	Name    string           `json:"name"`
	Columns []string         `json:"columns"`
	Rows    any              `json:"rows"`
	Sample  []map[string]any `json:"sample"`
}
