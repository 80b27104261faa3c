package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/Traslados-api/internal/domain/entity"
	"github.com/jhoicas/Traslados-api/internal/domain/repository"
)

var _ repository.SerialNumberRepository = (*SerialNumberRepo)(nil)

// SerialNumberRepo registro de unidades serializadas sobre PostgreSQL.
type SerialNumberRepo struct {
	q Querier
}

// NewSerialNumberRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSerialNumberRepository(q Querier) *SerialNumberRepo {
	return &SerialNumberRepo{q: q}
}

// GetByIDs devuelve las unidades existentes entre los ids pedidos.
func (r *SerialNumberRepo) GetByIDs(ctx context.Context, businessID string, ids []string) ([]*entity.SerialNumber, error) {
	return r.getByIDs(ctx, businessID, ids, false)
}

// GetByIDsForUpdate bloquea las filas (FOR UPDATE) antes de mutar estado.
// ORDER BY id fija el orden de adquisición de locks entre transacciones.
func (r *SerialNumberRepo) GetByIDsForUpdate(ctx context.Context, businessID string, ids []string) ([]*entity.SerialNumber, error) {
	return r.getByIDs(ctx, businessID, ids, true)
}

func (r *SerialNumberRepo) getByIDs(ctx context.Context, businessID string, ids []string, forUpdate bool) ([]*entity.SerialNumber, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	query := `
		SELECT id, business_id, product_id, variation_id, code, status, location_id, created_at, updated_at
		FROM serial_numbers WHERE business_id = $1 AND id = ANY($2)
		ORDER BY id`
	if forUpdate {
		query += " FOR UPDATE"
	}
	rows, err := r.q.Query(ctx, query, businessID, ids)
	if err != nil {
		return nil, fmt.Errorf("get serials: %w", err)
	}
	defer rows.Close()
	var out []*entity.SerialNumber
	for rows.Next() {
		var s entity.SerialNumber
		if err := rows.Scan(&s.ID, &s.BusinessID, &s.ProductID, &s.VariationID,
			&s.Code, &s.Status, &s.LocationID, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan serial: %w", err)
		}
		out = append(out, &s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate serials: %w", err)
	}
	return out, nil
}

// UpdateStatusLocation cambia estado y sede de una unidad.
func (r *SerialNumberRepo) UpdateStatusLocation(ctx context.Context, id, status, locationID string) error {
	query := `UPDATE serial_numbers SET status = $2, location_id = $3, updated_at = now() WHERE id = $1`
	_, err := r.q.Exec(ctx, query, id, status, locationID)
	if err != nil {
		return fmt.Errorf("update serial status: %w", err)
	}
	return nil
}
