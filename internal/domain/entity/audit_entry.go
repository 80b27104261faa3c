package entity

import "time"

// AuditEntry registra una mutación exitosa para auditoría (best-effort,
// se escribe después del commit de la transacción principal).
type AuditEntry struct {
	ID          string
	BusinessID  string
	ActorID     string
	Action      string // ej. "transfer.send"
	EntityType  string
	EntityIDs   []string
	Description string
	Metadata    map[string]string
	IPAddress   string
	UserAgent   string
	CreatedAt   time.Time
}
