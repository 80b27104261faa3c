package transfer

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Traslados-api/internal/application/access"
	"github.com/jhoicas/Traslados-api/internal/application/dto"
	"github.com/jhoicas/Traslados-api/internal/domain"
	"github.com/jhoicas/Traslados-api/internal/domain/entity"
	"github.com/jhoicas/Traslados-api/internal/domain/sod"
	domtransfer "github.com/jhoicas/Traslados-api/internal/domain/transfer"
)

// Check aprueba un borrador: draft → checked.
func (uc *UseCase) Check(ctx context.Context, actor access.Actor, transferID string) (*dto.TransferResponse, error) {
	return uc.runStep(ctx, actor, transferID, entity.TransferStepCheck, entity.PermTransferCheck, sideFrom, nil)
}

// Send despacha un traslado aprobado: checked → in_transit. Único paso que
// descuenta stock de la sede origen y pasa los seriales a in_transit;
// cualquier saldo insuficiente rechaza la operación completa.
func (uc *UseCase) Send(ctx context.Context, actor access.Actor, transferID string) (*dto.TransferResponse, error) {
	return uc.runStep(ctx, actor, transferID, entity.TransferStepSend, entity.PermTransferSend, sideFrom,
		func(r TxRepos, t *entity.StockTransfer) error {
			return uc.deductSource(ctx, actor, r, t)
		})
}

// Arrive marca la llegada física a destino: in_transit → arrived.
func (uc *UseCase) Arrive(ctx context.Context, actor access.Actor, transferID string) (*dto.TransferResponse, error) {
	return uc.runStep(ctx, actor, transferID, entity.TransferStepArrive, entity.PermTransferReceive, sideTo, nil)
}

// Receive confirma la recepción: arrived → received. Llena las cantidades
// recibidas, acredita el ledger de la sede destino y devuelve los seriales a
// in_stock en destino.
func (uc *UseCase) Receive(ctx context.Context, actor access.Actor, transferID string, in dto.ReceiveTransferRequest) (*dto.TransferResponse, error) {
	received := map[string]decimal.Decimal{}
	for _, it := range in.Items {
		received[it.ItemID] = it.ReceivedQuantity
	}
	return uc.runStep(ctx, actor, transferID, entity.TransferStepReceive, entity.PermTransferReceive, sideTo,
		func(r TxRepos, t *entity.StockTransfer) error {
			return uc.creditDestination(ctx, actor, r, t, received)
		})
}

// Complete cierra el traslado: received → completed.
func (uc *UseCase) Complete(ctx context.Context, actor access.Actor, transferID string) (*dto.TransferResponse, error) {
	return uc.runStep(ctx, actor, transferID, entity.TransferStepComplete, entity.PermTransferComplete, sideTo, nil)
}

// Update edita fecha y notas de un borrador; líneas y sedes son inmutables.
func (uc *UseCase) Update(ctx context.Context, actor access.Actor, transferID string, in dto.UpdateTransferRequest) (*dto.TransferResponse, error) {
	if err := requirePermission(actor, entity.PermTransferUpdate); err != nil {
		return nil, err
	}
	t, err := uc.transferRepo.GetByID(ctx, actor.BusinessID, transferID)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, domain.ErrNotFound
	}
	ok, err := uc.resolver.CanActFrom(ctx, actor, t.FromLocationID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.ErrForbidden
	}
	if !domtransfer.Editable(t.Status) {
		return nil, domain.ErrInvalidInput
	}
	if in.TransferDate != nil {
		// Mismo piso que en la creación: sin retrofechar.
		if in.TransferDate.Before(uc.clock.Today()) {
			return nil, domain.ErrInvalidInput
		}
		t.TransferDate = *in.TransferDate
	}
	if in.Notes != nil {
		t.Notes = *in.Notes
	}
	if err := uc.transferRepo.UpdateHeader(ctx, t.ID, t.TransferDate, t.Notes); err != nil {
		return nil, err
	}
	uc.afterCommit(ctx, actor, "transfer.update", t, "")
	resp := toTransferResponse(t)
	return &resp, nil
}

// Lado del traslado desde el que debe operar el actor en cada paso.
const (
	sideFrom = "from"
	sideTo   = "to"
)

// runStep ejecuta una transición del flujo: autorización antes de cualquier
// escritura, y dentro de una sola transacción el bloqueo del encabezado, la
// validación de estado, la política SOD, los efectos de stock del paso y el
// evento append-only del historial.
func (uc *UseCase) runStep(
	ctx context.Context,
	actor access.Actor,
	transferID, step, permission, side string,
	effects func(r TxRepos, t *entity.StockTransfer) error,
) (*dto.TransferResponse, error) {
	if err := requirePermission(actor, permission); err != nil {
		return nil, err
	}

	// Carga previa (sin bloquear) para rechazar 404/403 antes de escribir.
	head, err := uc.transferRepo.GetByID(ctx, actor.BusinessID, transferID)
	if err != nil {
		return nil, err
	}
	if head == nil {
		return nil, domain.ErrNotFound
	}
	actingLocation := head.FromLocationID
	if side == sideTo {
		actingLocation = head.ToLocationID
	}
	ok, err := uc.resolver.CanActFrom(ctx, actor, actingLocation)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.ErrForbidden
	}
	settings, err := uc.settingsFor(ctx, actor.BusinessID)
	if err != nil {
		return nil, err
	}

	var result *entity.StockTransfer
	err = uc.txRunner.RunTransfer(ctx, func(r TxRepos) error {
		t, err := r.Transfers.GetByIDForUpdate(ctx, actor.BusinessID, transferID)
		if err != nil {
			return err
		}
		if t == nil {
			return domain.ErrNotFound
		}
		if !domtransfer.CanTransition(t.Status, step) {
			return domain.ErrConflict
		}
		steps, err := r.Steps.ListByTransfer(ctx, t.ID)
		if err != nil {
			return err
		}
		if !sod.MayPerform(step, sod.RolesOf(actor.ID, steps), settings) {
			return domain.ErrSODViolation
		}
		if effects != nil {
			if err := effects(r, t); err != nil {
				return err
			}
		}
		next := domtransfer.StatusAfter(step)
		if err := r.Transfers.UpdateStatus(ctx, t.ID, next); err != nil {
			return err
		}
		if err := r.Steps.Append(ctx, &entity.TransferStep{
			ID:         uuid.New().String(),
			TransferID: t.ID,
			Step:       step,
			ActorID:    actor.ID,
			CreatedAt:  uc.clock.Now(),
		}); err != nil {
			return err
		}
		t.Status = next
		result = t
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.afterCommit(ctx, actor, "transfer."+step, result, step)
	resp := toTransferResponse(result)
	return &resp, nil
}

// deductSource debita el ledger de la sede origen por cada línea y pasa los
// seriales vinculados a in_transit, con su movimiento pareado. Si algún saldo
// quedara negativo se rechaza todo: nunca hay deducción parcial.
func (uc *UseCase) deductSource(ctx context.Context, actor access.Actor, r TxRepos, t *entity.StockTransfer) error {
	now := uc.clock.Now()
	for _, item := range t.Items {
		balance, err := r.Ledger.BalanceForUpdate(ctx, item.VariationID, t.FromLocationID)
		if err != nil {
			return err
		}
		if balance.LessThan(item.Quantity) {
			return domain.ErrInsufficientStock
		}
		if err := r.Ledger.Append(ctx, &entity.StockEntry{
			ID:          uuid.New().String(),
			BusinessID:  t.BusinessID,
			ProductID:   item.ProductID,
			VariationID: item.VariationID,
			LocationID:  t.FromLocationID,
			Quantity:    item.Quantity.Neg(),
			Balance:     balance.Sub(item.Quantity),
			RefType:     entity.RefTypeTransfer,
			RefID:       t.ID,
			CreatedBy:   actor.ID,
			CreatedAt:   now,
		}); err != nil {
			return err
		}
		if err := uc.moveSerials(ctx, actor, r, t, item,
			entity.SerialStatusInStock, t.FromLocationID, // estado/sede exigidos
			entity.SerialStatusInTransit, t.FromLocationID, // estado/sede resultantes
			entity.SerialMovementTransferOut, now); err != nil {
			return err
		}
	}
	return nil
}

// creditDestination llena cantidades recibidas, acredita destino y devuelve
// los seriales a in_stock en la sede destino.
func (uc *UseCase) creditDestination(ctx context.Context, actor access.Actor, r TxRepos, t *entity.StockTransfer, received map[string]decimal.Decimal) error {
	now := uc.clock.Now()
	for i := range t.Items {
		item := &t.Items[i]
		qty := item.Quantity
		if v, ok := received[item.ID]; ok {
			qty = v
		}
		if qty.LessThan(decimal.Zero) || qty.GreaterThan(item.Quantity) {
			return domain.ErrInvalidInput
		}
		// Una línea serializada se recibe completa o no se recibe: cada serial
		// en tránsito vuelve a in_stock en destino, así que una recepción
		// parcial dejaría más unidades registradas que cantidad acreditada.
		if len(item.SerialNumberIDs) > 0 && !qty.Equal(item.Quantity) {
			return domain.ErrInvalidInput
		}
		item.ReceivedQuantity = qty
		if err := r.Transfers.UpdateItemReceived(ctx, item.ID, qty); err != nil {
			return err
		}
		if qty.GreaterThan(decimal.Zero) {
			balance, err := r.Ledger.BalanceForUpdate(ctx, item.VariationID, t.ToLocationID)
			if err != nil {
				return err
			}
			if err := r.Ledger.Append(ctx, &entity.StockEntry{
				ID:          uuid.New().String(),
				BusinessID:  t.BusinessID,
				ProductID:   item.ProductID,
				VariationID: item.VariationID,
				LocationID:  t.ToLocationID,
				Quantity:    qty,
				Balance:     balance.Add(qty),
				RefType:     entity.RefTypeTransfer,
				RefID:       t.ID,
				CreatedBy:   actor.ID,
				CreatedAt:   now,
			}); err != nil {
				return err
			}
		}
		if err := uc.moveSerials(ctx, actor, r, t, *item,
			entity.SerialStatusInTransit, "",
			entity.SerialStatusInStock, t.ToLocationID,
			entity.SerialMovementTransferIn, now); err != nil {
			return err
		}
	}
	return nil
}

// moveSerials cambia el estado de los seriales de una línea vía el registro y
// aparea exactamente un movimiento de ledger de unidades por cada cambio,
// en la misma transacción.
func (uc *UseCase) moveSerials(
	ctx context.Context,
	actor access.Actor,
	r TxRepos,
	t *entity.StockTransfer,
	item entity.StockTransferItem,
	wantStatus, wantLocation string,
	newStatus, newLocation string,
	movementType string,
	now time.Time,
) error {
	if len(item.SerialNumberIDs) == 0 {
		return nil
	}
	serials, err := r.Serials.GetByIDsForUpdate(ctx, t.BusinessID, item.SerialNumberIDs)
	if err != nil {
		return err
	}
	if len(serials) != len(item.SerialNumberIDs) {
		return domain.ErrSerialUnavailable
	}
	for _, s := range serials {
		if s.Status != wantStatus || (wantLocation != "" && s.LocationID != wantLocation) {
			return domain.ErrSerialUnavailable
		}
		if err := r.Serials.UpdateStatusLocation(ctx, s.ID, newStatus, newLocation); err != nil {
			return err
		}
		if err := r.SerialMovs.Append(ctx, &entity.SerialMovement{
			ID:             uuid.New().String(),
			SerialNumberID: s.ID,
			Type:           movementType,
			FromLocationID: s.LocationID,
			ToLocationID:   newLocation,
			RefType:        entity.RefTypeTransfer,
			RefID:          t.ID,
			CreatedBy:      actor.ID,
			CreatedAt:      now,
		}); err != nil {
			return err
		}
	}
	return nil
}
