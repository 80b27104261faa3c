package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/Traslados-api/internal/domain/repository"
)

var _ repository.UserLocationRepository = (*UserLocationRepo)(nil)

// UserLocationRepo asignaciones usuario→sede sobre PostgreSQL.
type UserLocationRepo struct {
	q Querier
}

// NewUserLocationRepository construye el adaptador. Pasar pool o tx (Querier).
func NewUserLocationRepository(q Querier) *UserLocationRepo {
	return &UserLocationRepo{q: q}
}

// LocationIDsForUser sedes asignadas al usuario.
func (r *UserLocationRepo) LocationIDsForUser(ctx context.Context, userID string) ([]string, error) {
	query := `SELECT location_id FROM user_locations WHERE user_id = $1 ORDER BY location_id`
	rows, err := r.q.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list user locations: %w", err)
	}
	defer rows.Close()
	var out []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan user location: %w", err)
		}
		out = append(out, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate user locations: %w", err)
	}
	return out, nil
}

// Assign asigna el usuario a la sede. Idempotente (ON CONFLICT DO NOTHING).
func (r *UserLocationRepo) Assign(ctx context.Context, userID, locationID string) error {
	query := `
		INSERT INTO user_locations (user_id, location_id, created_at)
		VALUES ($1, $2, now())
		ON CONFLICT (user_id, location_id) DO NOTHING`
	if _, err := r.q.Exec(ctx, query, userID, locationID); err != nil {
		return fmt.Errorf("assign user location: %w", err)
	}
	return nil
}

// Unassign retira la asignación. Sin fila no es error.
func (r *UserLocationRepo) Unassign(ctx context.Context, userID, locationID string) error {
	query := `DELETE FROM user_locations WHERE user_id = $1 AND location_id = $2`
	if _, err := r.q.Exec(ctx, query, userID, locationID); err != nil {
		return fmt.Errorf("unassign user location: %w", err)
	}
	return nil
}
