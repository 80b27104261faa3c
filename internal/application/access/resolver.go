// Package access resuelve desde qué sedes puede actuar y qué puede ver un
// usuario: asignaciones explícitas usuario→sede o la capacidad "todas las
// sedes" del negocio.
package access

import (
	"context"

	"github.com/jhoicas/Traslados-api/internal/domain/entity"
	"github.com/jhoicas/Traslados-api/internal/domain/repository"
)

// Actor es el usuario autenticado que el entorno del caller entrega al motor.
// El motor confía en él; no autentica por sí mismo.
type Actor struct {
	ID          string
	BusinessID  string
	Username    string
	Permissions []string
}

// HasPermission indica si el actor posee el permiso dado.
func (a Actor) HasPermission(key string) bool {
	for _, p := range a.Permissions {
		if p == key {
			return true
		}
	}
	return false
}

// Scope es el alcance de sedes de un actor: todas, o un conjunto explícito.
type Scope struct {
	All bool
	IDs map[string]struct{}
}

// Contains indica si la sede está dentro del alcance.
func (s Scope) Contains(locationID string) bool {
	if s.All {
		return true
	}
	_, ok := s.IDs[locationID]
	return ok
}

// List devuelve los ids explícitos del alcance (nil si es "todas").
func (s Scope) List() []string {
	if s.All {
		return nil
	}
	ids := make([]string, 0, len(s.IDs))
	for id := range s.IDs {
		ids = append(ids, id)
	}
	return ids
}

// Resolver calcula el alcance de sedes de un actor.
type Resolver struct {
	userLocRepo repository.UserLocationRepository
}

// NewResolver construye el resolutor.
func NewResolver(userLocRepo repository.UserLocationRepository) *Resolver {
	return &Resolver{userLocRepo: userLocRepo}
}

// AccessibleLocations devuelve el alcance del actor: "todas las sedes" si
// tiene la capacidad location.all, o sus asignaciones explícitas (posiblemente
// vacías: un actor sin asignaciones ve listados vacíos, no un error).
func (r *Resolver) AccessibleLocations(ctx context.Context, actor Actor) (Scope, error) {
	if actor.HasPermission(entity.PermAllLocations) {
		return Scope{All: true}, nil
	}
	ids, err := r.userLocRepo.LocationIDsForUser(ctx, actor.ID)
	if err != nil {
		return Scope{}, err
	}
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return Scope{IDs: set}, nil
}

// CanActFrom indica si el actor puede originar operaciones desde la sede.
func (r *Resolver) CanActFrom(ctx context.Context, actor Actor, locationID string) (bool, error) {
	scope, err := r.AccessibleLocations(ctx, actor)
	if err != nil {
		return false, err
	}
	return scope.Contains(locationID), nil
}

// CanView indica si el actor puede leer un traslado: debe estar asignado a la
// sede origen o destino. Por invariante de seguridad la verificación de
// asignación aplica SIEMPRE en lecturas puntuales, incluso para actores con la
// capacidad "todas las sedes".
func (r *Resolver) CanView(ctx context.Context, actor Actor, fromLocationID, toLocationID string) (bool, error) {
	ids, err := r.userLocRepo.LocationIDsForUser(ctx, actor.ID)
	if err != nil {
		return false, err
	}
	for _, id := range ids {
		if id == fromLocationID || id == toLocationID {
			return true, nil
		}
	}
	return false, nil
}
