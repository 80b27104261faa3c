package entity

import "time"

// Product representa un producto del catálogo.
type Product struct {
	ID         string
	BusinessID string
	SKU        string
	Name       string
	Serialized bool // true si sus unidades se rastrean por número de serie
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// ProductVariation representa una variación vendible de un producto (talla, color, ...).
// El stock y los traslados se mueven siempre a nivel de variación.
type ProductVariation struct {
	ID        string
	ProductID string
	Name      string
	SKU       string
	CreatedAt time.Time
	UpdatedAt time.Time
}
