package repository

import (
	"context"

	"github.com/jhoicas/Traslados-api/internal/domain/entity"
)

// TransferStepRepository puerto del historial append-only de pasos del flujo.
type TransferStepRepository interface {
	Append(ctx context.Context, step *entity.TransferStep) error
	ListByTransfer(ctx context.Context, transferID string) ([]entity.TransferStep, error)
}

// TransferSequenceRepository entrega el siguiente consecutivo por negocio y
// período (YYYYMM) con un incremento atómico en BD: sin ventana de carrera
// bajo creaciones concurrentes.
type TransferSequenceRepository interface {
	Next(ctx context.Context, businessID, period string) (int64, error)
}
