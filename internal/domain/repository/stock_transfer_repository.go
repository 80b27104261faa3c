package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Traslados-api/internal/domain/entity"
)

// TransferFilter filtros de listado de traslados.
type TransferFilter struct {
	BusinessID  string
	Status      string
	LocationID  string // coincide con origen o destino
	LocationIDs []string // alcance del actor; nil = sin restricción (capacidad todas las sedes)
	DateFrom    *time.Time
	DateTo      *time.Time
	Limit       int
	Offset      int
}

// StockTransferRepository puerto de persistencia del agregado de traslado.
type StockTransferRepository interface {
	// Create persiste encabezado, líneas y vínculos de seriales en la tx actual.
	Create(ctx context.Context, t *entity.StockTransfer) error
	// GetByID devuelve encabezado con líneas y seriales vinculados; nil si no existe.
	GetByID(ctx context.Context, businessID, id string) (*entity.StockTransfer, error)
	// GetByIDForUpdate igual que GetByID pero bloquea el encabezado (FOR UPDATE).
	GetByIDForUpdate(ctx context.Context, businessID, id string) (*entity.StockTransfer, error)
	// UpdateStatus cambia el estado del encabezado.
	UpdateStatus(ctx context.Context, id, status string) error
	// UpdateHeader actualiza fecha y notas (solo borradores).
	UpdateHeader(ctx context.Context, id string, transferDate time.Time, notes string) error
	// UpdateItemReceived llena la cantidad recibida de una línea.
	UpdateItemReceived(ctx context.Context, itemID string, qty decimal.Decimal) error
	// MarkCancelled marca cancelado con marca de tiempo de anulación.
	MarkCancelled(ctx context.Context, id string, at time.Time) error
	// List lista traslados según filtros, ordenados por fecha descendente.
	List(ctx context.Context, f TransferFilter) ([]*entity.StockTransfer, error)
}
