package repository

import (
	"context"

	"github.com/jhoicas/Traslados-api/internal/domain/entity"
)

// SerialNumberRepository puerto del registro de unidades serializadas.
// El registro es el único mutador de Status y LocationID.
type SerialNumberRepository interface {
	GetByIDs(ctx context.Context, businessID string, ids []string) ([]*entity.SerialNumber, error)
	// GetByIDsForUpdate bloquea las filas (FOR UPDATE) antes de mutar estado.
	GetByIDsForUpdate(ctx context.Context, businessID string, ids []string) ([]*entity.SerialNumber, error)
	// UpdateStatusLocation cambia estado y sede de una unidad.
	UpdateStatusLocation(ctx context.Context, id, status, locationID string) error
}

// SerialMovementRepository puerto del ledger de unidades (append-only).
type SerialMovementRepository interface {
	Append(ctx context.Context, m *entity.SerialMovement) error
	ListBySerial(ctx context.Context, serialNumberID string, limit, offset int) ([]*entity.SerialMovement, error)
	ListByRef(ctx context.Context, refType, refID string) ([]*entity.SerialMovement, error)
}
