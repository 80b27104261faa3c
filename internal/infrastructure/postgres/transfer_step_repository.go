package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/Traslados-api/internal/domain/entity"
	"github.com/jhoicas/Traslados-api/internal/domain/repository"
)

var _ repository.TransferStepRepository = (*TransferStepRepo)(nil)

// TransferStepRepo historial append-only de pasos del flujo sobre PostgreSQL.
// Sin UPDATE ni DELETE: el historial solo crece.
type TransferStepRepo struct {
	q Querier
}

// NewTransferStepRepository construye el adaptador. Pasar pool o tx (Querier).
func NewTransferStepRepository(q Querier) *TransferStepRepo {
	return &TransferStepRepo{q: q}
}

// Append registra un evento del flujo.
func (r *TransferStepRepo) Append(ctx context.Context, step *entity.TransferStep) error {
	query := `
		INSERT INTO transfer_steps (id, transfer_id, step, actor_id, created_at)
		VALUES ($1, $2, $3, $4, $5)`
	_, err := r.q.Exec(ctx, query, step.ID, step.TransferID, step.Step, step.ActorID, step.CreatedAt)
	if err != nil {
		return fmt.Errorf("append transfer step: %w", err)
	}
	return nil
}

// ListByTransfer devuelve los eventos en orden de ejecución.
func (r *TransferStepRepo) ListByTransfer(ctx context.Context, transferID string) ([]entity.TransferStep, error) {
	query := `
		SELECT id, transfer_id, step, actor_id, created_at
		FROM transfer_steps WHERE transfer_id = $1
		ORDER BY created_at, id`
	rows, err := r.q.Query(ctx, query, transferID)
	if err != nil {
		return nil, fmt.Errorf("list transfer steps: %w", err)
	}
	defer rows.Close()
	var out []entity.TransferStep
	for rows.Next() {
		var s entity.TransferStep
		if err := rows.Scan(&s.ID, &s.TransferID, &s.Step, &s.ActorID, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan transfer step: %w", err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transfer steps: %w", err)
	}
	return out, nil
}
