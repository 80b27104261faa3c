package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/Traslados-api/internal/domain/entity"
	"github.com/jhoicas/Traslados-api/internal/domain/repository"
)

var _ repository.SerialMovementRepository = (*SerialMovementRepo)(nil)

// SerialMovementRepo ledger de unidades sobre PostgreSQL. Append-only:
// las correcciones se registran como nuevas entradas, nunca como UPDATE.
type SerialMovementRepo struct {
	q Querier
}

// NewSerialMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSerialMovementRepository(q Querier) *SerialMovementRepo {
	return &SerialMovementRepo{q: q}
}

// Append registra un movimiento de unidad.
func (r *SerialMovementRepo) Append(ctx context.Context, m *entity.SerialMovement) error {
	query := `
		INSERT INTO serial_movements (id, serial_number_id, type, from_location_id, to_location_id, ref_type, ref_id, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query,
		m.ID, m.SerialNumberID, m.Type, m.FromLocationID, m.ToLocationID,
		m.RefType, m.RefID, m.CreatedBy, m.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("append serial movement: %w", err)
	}
	return nil
}

// ListBySerial historial de una unidad, más reciente primero.
func (r *SerialMovementRepo) ListBySerial(ctx context.Context, serialNumberID string, limit, offset int) ([]*entity.SerialMovement, error) {
	query := `
		SELECT id, serial_number_id, type, from_location_id, to_location_id, ref_type, ref_id, created_by, created_at
		FROM serial_movements WHERE serial_number_id = $1
		ORDER BY created_at DESC, id DESC LIMIT $2 OFFSET $3`
	return r.list(ctx, query, serialNumberID, limit, offset)
}

// ListByRef movimientos causados por un documento (ej. un traslado).
func (r *SerialMovementRepo) ListByRef(ctx context.Context, refType, refID string) ([]*entity.SerialMovement, error) {
	query := `
		SELECT id, serial_number_id, type, from_location_id, to_location_id, ref_type, ref_id, created_by, created_at
		FROM serial_movements WHERE ref_type = $1 AND ref_id = $2
		ORDER BY created_at, id`
	return r.list(ctx, query, refType, refID)
}

func (r *SerialMovementRepo) list(ctx context.Context, query string, args ...any) ([]*entity.SerialMovement, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list serial movements: %w", err)
	}
	defer rows.Close()
	var out []*entity.SerialMovement
	for rows.Next() {
		var m entity.SerialMovement
		if err := rows.Scan(&m.ID, &m.SerialNumberID, &m.Type, &m.FromLocationID,
			&m.ToLocationID, &m.RefType, &m.RefID, &m.CreatedBy, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan serial movement: %w", err)
		}
		out = append(out, &m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate serial movements: %w", err)
	}
	return out, nil
}
