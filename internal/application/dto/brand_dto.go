package dto

// BrandRequest entrada para crear o renombrar una marca.
type BrandRequest struct {
	Name string `json:"name"`
}

// BrandResponse salida de una marca.
type BrandResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}
