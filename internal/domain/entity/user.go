package entity

import "time"

// Permisos usados por el flujo de traslados.
const (
	PermTransferCreate   = "transfer.create"
	PermTransferCheck    = "transfer.check"
	PermTransferSend     = "transfer.send"
	PermTransferReceive  = "transfer.receive"
	PermTransferComplete = "transfer.complete"
	PermTransferCancel   = "transfer.cancel"
	PermTransferUpdate   = "transfer.update"
	PermSettingsSOD      = "settings.sod" // administrar la configuración SOD del negocio
	PermAllLocations     = "location.all" // capacidad "todas las sedes"
)

// User representa un usuario del sistema (pertenece a un Business).
type User struct {
	ID           string
	BusinessID   string
	Username     string
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	Name         string
	Permissions  []string
	Status       string // active, inactive, suspended
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// HasPermission indica si el usuario posee el permiso dado.
func (u *User) HasPermission(key string) bool {
	for _, p := range u.Permissions {
		if p == key {
			return true
		}
	}
	return false
}
