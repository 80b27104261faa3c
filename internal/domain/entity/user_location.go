package entity

import "time"

// UserLocation asigna un usuario a una sede desde la que puede operar (N a N).
// Solo lectura para el motor de traslados; la administra el módulo de accesos.
type UserLocation struct {
	UserID     string
	LocationID string
	CreatedAt  time.Time
}
