package entity

import "time"

// Estados de una unidad serializada.
const (
	SerialStatusInStock   = "in_stock"
	SerialStatusInTransit = "in_transit"
	SerialStatusSold      = "sold"
	SerialStatusDefective = "defective"
)

// SerialNumber representa una unidad rastreable individualmente.
// El registro de seriales es el único mutador de Status y LocationID;
// el motor de traslados solicita cambios a través de él.
type SerialNumber struct {
	ID          string
	BusinessID  string
	ProductID   string
	VariationID string
	Code        string // único por negocio
	Status      string
	LocationID  string // sede actual
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
