package service

import (
	"encoding/json"

	"neohealth/internal/domain"
)

// DatasetCatalog es una proyeccion de solo lectura de los datasets disponibles.
type DatasetCatalog struct {
	items []domain.DatasetDescriptor
}

func NewDatasetCatalog(items []domain.DatasetDescriptor) DatasetCatalog {
	return DatasetCatalog{items: items}
}

// List devuelve los descriptores tal como los entrego el colaborador.
func (c DatasetCatalog) List() []domain.DatasetDescriptor {
	return c.items
}

func (c DatasetCatalog) MarshalJSON() ([]byte, error) {
	if c.items == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(c.items)
}
