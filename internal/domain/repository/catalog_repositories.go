package repository

import (
	"context"

	"github.com/jhoicas/Traslados-api/internal/domain/entity"
)

// BusinessRepository puerto de persistencia para negocios (tenants).
type BusinessRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Business, error)
}

// LocationRepository puerto de persistencia para sedes.
type LocationRepository interface {
	Create(ctx context.Context, l *entity.Location) error
	GetByID(ctx context.Context, id string) (*entity.Location, error)
	// GetByIDs resolución en lote para mapas id→sede (una consulta, no una por fila).
	GetByIDs(ctx context.Context, ids []string) (map[string]*entity.Location, error)
	ListByBusiness(ctx context.Context, businessID string, limit, offset int) ([]*entity.Location, error)
}

// ProductRepository puerto de persistencia para productos y variaciones.
type ProductRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	GetByIDs(ctx context.Context, ids []string) (map[string]*entity.Product, error)
	GetVariationsByIDs(ctx context.Context, ids []string) (map[string]*entity.ProductVariation, error)
}

// UserRepository puerto de persistencia para usuarios.
type UserRepository interface {
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByIDs(ctx context.Context, ids []string) (map[string]*entity.User, error)
	GetByUsername(ctx context.Context, businessID, username string) (*entity.User, error)
}

// UserLocationRepository asignaciones usuario→sede (solo lectura para el motor).
type UserLocationRepository interface {
	LocationIDsForUser(ctx context.Context, userID string) ([]string, error)
	Assign(ctx context.Context, userID, locationID string) error
	Unassign(ctx context.Context, userID, locationID string) error
}

// SODSettingsRepository configuración de segregación de funciones por negocio.
type SODSettingsRepository interface {
	// GetByBusiness devuelve la configuración, o nil si el negocio no tiene una.
	GetByBusiness(ctx context.Context, businessID string) (*entity.SODSettings, error)
	Upsert(ctx context.Context, s *entity.SODSettings) error
}

// AuditRepository sumidero de auditoría (best-effort, fuera de la tx principal).
type AuditRepository interface {
	Append(ctx context.Context, e *entity.AuditEntry) error
}
