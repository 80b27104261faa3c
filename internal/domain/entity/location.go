package entity

import "time"

// Location representa una sucursal o bodega del negocio (multi-sede).
type Location struct {
	ID         string
	BusinessID string
	Name       string
	Address    string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
