// Package location administra las sedes del negocio y las asignaciones
// usuario→sede que gobiernan el alcance de lectura del flujo de traslados.
package location

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Traslados-api/internal/application/access"
	"github.com/jhoicas/Traslados-api/internal/application/dto"
	"github.com/jhoicas/Traslados-api/internal/domain"
	"github.com/jhoicas/Traslados-api/internal/domain/entity"
	"github.com/jhoicas/Traslados-api/internal/domain/repository"
)

// UseCase casos de uso de sedes y asignaciones.
type UseCase struct {
	locationRepo repository.LocationRepository
	userRepo     repository.UserRepository
	userLocRepo  repository.UserLocationRepository
}

// NewUseCase construye el caso de uso de sedes.
func NewUseCase(locationRepo repository.LocationRepository, userRepo repository.UserRepository, userLocRepo repository.UserLocationRepository) *UseCase {
	return &UseCase{locationRepo: locationRepo, userRepo: userRepo, userLocRepo: userLocRepo}
}

// Create crea una sede en el negocio del actor. Requiere la capacidad
// "todas las sedes": solo administradores de sedes abren sedes nuevas.
func (uc *UseCase) Create(ctx context.Context, actor access.Actor, in dto.CreateLocationRequest) (*dto.LocationResponse, error) {
	if !actor.HasPermission(entity.PermAllLocations) {
		return nil, domain.ErrForbidden
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	l := &entity.Location{
		ID:         uuid.New().String(),
		BusinessID: actor.BusinessID,
		Name:       name,
		Address:    in.Address,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := uc.locationRepo.Create(ctx, l); err != nil {
		return nil, err
	}
	resp := toLocationResponse(l)
	return &resp, nil
}

// Get devuelve una sede del negocio del actor.
func (uc *UseCase) Get(ctx context.Context, actor access.Actor, id string) (*dto.LocationResponse, error) {
	l, err := uc.locationRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if l == nil || l.BusinessID != actor.BusinessID {
		return nil, domain.ErrNotFound
	}
	resp := toLocationResponse(l)
	return &resp, nil
}

// List lista las sedes del negocio del actor.
func (uc *UseCase) List(ctx context.Context, actor access.Actor, page dto.PageRequest) (*dto.LocationListResponse, error) {
	page.DefaultPage()
	list, err := uc.locationRepo.ListByBusiness(ctx, actor.BusinessID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	resp := &dto.LocationListResponse{
		Items: []dto.LocationResponse{},
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}
	for _, l := range list {
		resp.Items = append(resp.Items, toLocationResponse(l))
	}
	return resp, nil
}

// Assign asigna un usuario del negocio a una sede del negocio.
// Idempotente: re-asignar no es error.
func (uc *UseCase) Assign(ctx context.Context, actor access.Actor, in dto.AssignLocationRequest) error {
	if !actor.HasPermission(entity.PermAllLocations) {
		return domain.ErrForbidden
	}
	if in.UserID == "" || in.LocationID == "" {
		return domain.ErrInvalidInput
	}
	u, err := uc.userRepo.GetByID(ctx, in.UserID)
	if err != nil {
		return err
	}
	if u == nil || u.BusinessID != actor.BusinessID {
		return domain.ErrNotFound
	}
	l, err := uc.locationRepo.GetByID(ctx, in.LocationID)
	if err != nil {
		return err
	}
	if l == nil || l.BusinessID != actor.BusinessID {
		return domain.ErrNotFound
	}
	return uc.userLocRepo.Assign(ctx, in.UserID, in.LocationID)
}

// Unassign retira la asignación de un usuario a una sede.
func (uc *UseCase) Unassign(ctx context.Context, actor access.Actor, in dto.AssignLocationRequest) error {
	if !actor.HasPermission(entity.PermAllLocations) {
		return domain.ErrForbidden
	}
	if in.UserID == "" || in.LocationID == "" {
		return domain.ErrInvalidInput
	}
	return uc.userLocRepo.Unassign(ctx, in.UserID, in.LocationID)
}

func toLocationResponse(l *entity.Location) dto.LocationResponse {
	return dto.LocationResponse{
		ID:         l.ID,
		BusinessID: l.BusinessID,
		Name:       l.Name,
		Address:    l.Address,
		CreatedAt:  l.CreatedAt,
		UpdatedAt:  l.UpdatedAt,
	}
}
