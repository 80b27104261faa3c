package transfer

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Traslados-api/internal/application/access"
	"github.com/jhoicas/Traslados-api/internal/application/dto"
	"github.com/jhoicas/Traslados-api/internal/domain"
	"github.com/jhoicas/Traslados-api/internal/domain/entity"
	domtransfer "github.com/jhoicas/Traslados-api/internal/domain/transfer"
)

// Create valida y persiste un nuevo traslado en estado draft.
// Los seriales aportados solo se vinculan: siguen in_stock hasta el despacho.
func (uc *UseCase) Create(ctx context.Context, actor access.Actor, in dto.CreateTransferRequest) (*dto.TransferResponse, error) {
	if err := requirePermission(actor, entity.PermTransferCreate); err != nil {
		return nil, err
	}
	if in.FromLocationID == "" || in.ToLocationID == "" || len(in.Items) == 0 {
		return nil, domain.ErrInvalidInput
	}
	if in.FromLocationID == in.ToLocationID {
		return nil, domain.ErrInvalidInput
	}
	for _, it := range in.Items {
		if it.ProductID == "" || it.VariationID == "" || !it.Quantity.GreaterThan(decimal.Zero) {
			return nil, domain.ErrInvalidInput
		}
		// Con seriales el conteo debe ser exacto a la cantidad solicitada.
		if len(it.SerialNumberIDs) > 0 && !it.Quantity.Equal(decimal.NewFromInt(int64(len(it.SerialNumberIDs)))) {
			return nil, domain.ErrInvalidInput
		}
	}

	// Ambas sedes deben existir dentro del negocio del actor.
	from, err := uc.locationRepo.GetByID(ctx, in.FromLocationID)
	if err != nil {
		return nil, err
	}
	to, err := uc.locationRepo.GetByID(ctx, in.ToLocationID)
	if err != nil {
		return nil, err
	}
	if from == nil || to == nil || from.BusinessID != actor.BusinessID || to.BusinessID != actor.BusinessID {
		return nil, domain.ErrNotFound
	}

	// El actor debe poder operar desde la sede origen (o tener todas las sedes).
	ok, err := uc.resolver.CanActFrom(ctx, actor, in.FromLocationID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.ErrForbidden
	}

	// Los seriales aportados deben estar in_stock en la sede origen y
	// corresponder a la variación de su línea.
	if err := uc.validateSerials(ctx, actor.BusinessID, in.FromLocationID, in.Items); err != nil {
		return nil, err
	}

	now := uc.clock.Now()
	today := uc.clock.Today()
	transferDate := today
	if in.TransferDate != nil {
		// La fecha de negocio es el piso: no se aceptan traslados retrofechados.
		if in.TransferDate.Before(today) {
			return nil, domain.ErrInvalidInput
		}
		transferDate = *in.TransferDate
	}

	t := &entity.StockTransfer{
		ID:             uuid.New().String(),
		BusinessID:     actor.BusinessID,
		FromLocationID: in.FromLocationID,
		ToLocationID:   in.ToLocationID,
		TransferDate:   transferDate,
		Notes:          in.Notes,
		Status:         entity.TransferStatusDraft,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	for _, it := range in.Items {
		t.Items = append(t.Items, entity.StockTransferItem{
			ID:              uuid.New().String(),
			TransferID:      t.ID,
			ProductID:       it.ProductID,
			VariationID:     it.VariationID,
			Quantity:        it.Quantity,
			SerialNumberIDs: it.SerialNumberIDs,
		})
	}

	// Consecutivo atómico + encabezado + líneas + vínculos + evento create,
	// todo en una transacción: un rechazo no deja nada persistido.
	err = uc.txRunner.RunTransfer(ctx, func(r TxRepos) error {
		// El consecutivo se acuña siempre sobre el periodo de la fecha de
		// negocio, no sobre la fecha solicitada.
		period := domtransfer.Period(today)
		seq, err := r.Sequences.Next(ctx, actor.BusinessID, period)
		if err != nil {
			return err
		}
		t.Number = domtransfer.FormatNumber(period, seq)
		if err := r.Transfers.Create(ctx, t); err != nil {
			return err
		}
		return r.Steps.Append(ctx, &entity.TransferStep{
			ID:         uuid.New().String(),
			TransferID: t.ID,
			Step:       entity.TransferStepCreate,
			ActorID:    actor.ID,
			CreatedAt:  now,
		})
	})
	if err != nil {
		return nil, err
	}

	uc.afterCommit(ctx, actor, "transfer.create", t, entity.TransferStepCreate)
	resp := toTransferResponse(t)
	return &resp, nil
}

// validateSerials verifica que cada serial vinculado exista en el negocio,
// esté in_stock, repose en la sede origen y sea de la variación de su línea.
func (uc *UseCase) validateSerials(ctx context.Context, businessID, fromLocationID string, items []dto.CreateTransferItemRequest) error {
	var allIDs []string
	variationBySerial := map[string]string{}
	for _, it := range items {
		for _, id := range it.SerialNumberIDs {
			if _, dup := variationBySerial[id]; dup {
				return domain.ErrInvalidInput
			}
			variationBySerial[id] = it.VariationID
			allIDs = append(allIDs, id)
		}
	}
	if len(allIDs) == 0 {
		return nil
	}
	serials, err := uc.serialRepo.GetByIDs(ctx, businessID, allIDs)
	if err != nil {
		return err
	}
	if len(serials) != len(allIDs) {
		return domain.ErrSerialUnavailable
	}
	for _, s := range serials {
		if s.Status != entity.SerialStatusInStock || s.LocationID != fromLocationID {
			return domain.ErrSerialUnavailable
		}
		if s.VariationID != variationBySerial[s.ID] {
			return domain.ErrInvalidInput
		}
	}
	return nil
}
