package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/Traslados-api/internal/domain/repository"
)

var _ repository.TransferSequenceRepository = (*TransferSequenceRepo)(nil)

// TransferSequenceRepo consecutivo por negocio y período sobre PostgreSQL.
type TransferSequenceRepo struct {
	q Querier
}

// NewTransferSequenceRepository construye el adaptador. Pasar pool o tx (Querier).
func NewTransferSequenceRepository(q Querier) *TransferSequenceRepo {
	return &TransferSequenceRepo{q: q}
}

// Next entrega el siguiente consecutivo con un incremento atómico en BD:
// el upsert con RETURNING serializa asignaciones concurrentes sin ventana
// leer-luego-escribir, así dos creaciones simultáneas nunca comparten número.
func (r *TransferSequenceRepo) Next(ctx context.Context, businessID, period string) (int64, error) {
	query := `
		INSERT INTO transfer_sequences (business_id, period, last_number)
		VALUES ($1, $2, 1)
		ON CONFLICT (business_id, period)
		DO UPDATE SET last_number = transfer_sequences.last_number + 1
		RETURNING last_number`
	var n int64
	if err := r.q.QueryRow(ctx, query, businessID, period).Scan(&n); err != nil {
		return 0, fmt.Errorf("next transfer number: %w", err)
	}
	return n, nil
}
