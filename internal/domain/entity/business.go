package entity

import "time"

// Business representa el tenant: todas las entidades pertenecen a exactamente un negocio.
type Business struct {
	ID        string
	Name      string
	Timezone  string // zona horaria del negocio, ej. "America/Bogota"
	CreatedAt time.Time
	UpdatedAt time.Time
}
