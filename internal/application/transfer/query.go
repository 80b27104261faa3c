package transfer

import (
	"context"
	"time"

	"github.com/jhoicas/Traslados-api/internal/application/access"
	"github.com/jhoicas/Traslados-api/internal/application/dto"
	"github.com/jhoicas/Traslados-api/internal/domain"
	"github.com/jhoicas/Traslados-api/internal/domain/entity"
	"github.com/jhoicas/Traslados-api/internal/domain/repository"
	domtransfer "github.com/jhoicas/Traslados-api/internal/domain/transfer"
)

// Get devuelve el traslado con líneas, historial de pasos con nombres de
// actores, nombres de sedes/productos/variaciones resueltos en lote (un query
// por entidad, no uno por fila) y la configuración SOD efectiva.
// Invariante de seguridad: el caller debe estar asignado a la sede origen o
// destino, siempre, incluso con la capacidad "todas las sedes".
func (uc *UseCase) Get(ctx context.Context, actor access.Actor, transferID string) (*dto.TransferDetailResponse, error) {
	t, err := uc.transferRepo.GetByID(ctx, actor.BusinessID, transferID)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, domain.ErrNotFound
	}
	ok, err := uc.resolver.CanView(ctx, actor, t.FromLocationID, t.ToLocationID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.ErrForbidden
	}

	steps, err := uc.stepRepo.ListByTransfer(ctx, t.ID)
	if err != nil {
		return nil, err
	}

	// Resolución en lote: mapas id→entidad.
	productIDs := make([]string, 0, len(t.Items))
	variationIDs := make([]string, 0, len(t.Items))
	for _, it := range t.Items {
		productIDs = append(productIDs, it.ProductID)
		variationIDs = append(variationIDs, it.VariationID)
	}
	userIDs := make([]string, 0, len(steps))
	for _, s := range steps {
		userIDs = append(userIDs, s.ActorID)
	}
	products, err := uc.productRepo.GetByIDs(ctx, productIDs)
	if err != nil {
		return nil, err
	}
	variations, err := uc.productRepo.GetVariationsByIDs(ctx, variationIDs)
	if err != nil {
		return nil, err
	}
	users, err := uc.userRepo.GetByIDs(ctx, userIDs)
	if err != nil {
		return nil, err
	}
	locations, err := uc.locationRepo.GetByIDs(ctx, []string{t.FromLocationID, t.ToLocationID})
	if err != nil {
		return nil, err
	}
	settings, err := uc.settingsFor(ctx, actor.BusinessID)
	if err != nil {
		return nil, err
	}

	detail := &dto.TransferDetailResponse{
		TransferResponse: toTransferResponse(t),
		Settings:         toSODResponse(settings),
	}
	if l := locations[t.FromLocationID]; l != nil {
		detail.FromLocationName = l.Name
	}
	if l := locations[t.ToLocationID]; l != nil {
		detail.ToLocationName = l.Name
	}
	for _, it := range t.Items {
		item := dto.TransferItemResponse{
			ID:               it.ID,
			ProductID:        it.ProductID,
			VariationID:      it.VariationID,
			Quantity:         it.Quantity,
			ReceivedQuantity: it.ReceivedQuantity,
			SerialNumberIDs:  it.SerialNumberIDs,
		}
		if p := products[it.ProductID]; p != nil {
			item.ProductName = p.Name
		}
		if v := variations[it.VariationID]; v != nil {
			item.VariationName = v.Name
		}
		detail.Items = append(detail.Items, item)
	}
	for _, s := range steps {
		step := dto.TransferStepResponse{Step: s.Step, ActorID: s.ActorID, CreatedAt: s.CreatedAt}
		if u := users[s.ActorID]; u != nil {
			step.ActorName = u.Name
		}
		detail.Steps = append(detail.Steps, step)
	}
	return detail, nil
}

// List lista traslados con filtros de estado, sede y rango de fechas.
// Actores sin la capacidad "todas las sedes" solo ven traslados que tocan
// alguna de sus sedes; sin asignaciones el resultado es vacío, no un error.
func (uc *UseCase) List(ctx context.Context, actor access.Actor, in dto.ListTransfersRequest) (*dto.TransferListResponse, error) {
	in.DefaultPage()
	scope, err := uc.resolver.AccessibleLocations(ctx, actor)
	if err != nil {
		return nil, err
	}
	resp := &dto.TransferListResponse{
		Items: []dto.TransferResponse{},
		Page:  dto.PageResponse{Limit: in.Limit, Offset: in.Offset},
	}
	if !scope.All && len(scope.IDs) == 0 {
		return resp, nil
	}

	f := repository.TransferFilter{
		BusinessID: actor.BusinessID,
		Status:     in.Status,
		LocationID: in.LocationID,
		Limit:      in.Limit,
		Offset:     in.Offset,
	}
	if !scope.All {
		f.LocationIDs = scope.List()
	}
	if in.DateFrom != "" {
		d, err := time.Parse("2006-01-02", in.DateFrom)
		if err != nil {
			return nil, domain.ErrInvalidInput
		}
		f.DateFrom = &d
	}
	if in.DateTo != "" {
		d, err := time.Parse("2006-01-02", in.DateTo)
		if err != nil {
			return nil, domain.ErrInvalidInput
		}
		f.DateTo = &d
	}

	list, err := uc.transferRepo.List(ctx, f)
	if err != nil {
		return nil, err
	}

	// Nombres de sedes en lote para el listado.
	locIDSet := map[string]struct{}{}
	for _, t := range list {
		locIDSet[t.FromLocationID] = struct{}{}
		locIDSet[t.ToLocationID] = struct{}{}
	}
	locIDs := make([]string, 0, len(locIDSet))
	for id := range locIDSet {
		locIDs = append(locIDs, id)
	}
	locations, err := uc.locationRepo.GetByIDs(ctx, locIDs)
	if err != nil {
		return nil, err
	}

	for _, t := range list {
		r := toTransferResponse(t)
		if l := locations[t.FromLocationID]; l != nil {
			r.FromLocationName = l.Name
		}
		if l := locations[t.ToLocationID]; l != nil {
			r.ToLocationName = l.Name
		}
		resp.Items = append(resp.Items, r)
	}
	return resp, nil
}

func toTransferResponse(t *entity.StockTransfer) dto.TransferResponse {
	return dto.TransferResponse{
		ID:             t.ID,
		Number:         t.Number,
		FromLocationID: t.FromLocationID,
		ToLocationID:   t.ToLocationID,
		TransferDate:   t.TransferDate,
		Status:         t.Status,
		StockDeducted:  domtransfer.StockDeducted(t.Status),
		Notes:          t.Notes,
		CancelledAt:    t.CancelledAt,
		CreatedAt:      t.CreatedAt,
	}
}

func toSODResponse(s *entity.SODSettings) dto.SODSettingsResponse {
	return dto.SODSettingsResponse{
		EnforceTransferSOD:  s.EnforceTransferSOD,
		CreatorCanCheck:     s.CreatorCanCheck,
		CreatorCanSend:      s.CreatorCanSend,
		CheckerCanSend:      s.CheckerCanSend,
		CreatorCanReceive:   s.CreatorCanReceive,
		SenderCanComplete:   s.SenderCanComplete,
		CreatorCanComplete:  s.CreatorCanComplete,
		ReceiverCanComplete: s.ReceiverCanComplete,
	}
}
