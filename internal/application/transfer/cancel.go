package transfer

import (
	"context"

	"github.com/google/uuid"

	"github.com/jhoicas/Traslados-api/internal/application/access"
	"github.com/jhoicas/Traslados-api/internal/domain"
	"github.com/jhoicas/Traslados-api/internal/domain/entity"
	domtransfer "github.com/jhoicas/Traslados-api/internal/domain/transfer"
)

// Cancel anula un traslado. Desde draft/checked no hubo deducción y basta
// marcar cancelado; desde in_transit la anulación compensa: restituye cada
// serial a in_stock en la sede origen con exactamente un movimiento
// adjustment por unidad, y acredita de vuelta el ledger de origen.
// Re-cancelar un traslado ya cancelado es ErrConflict sin efecto alguno.
func (uc *UseCase) Cancel(ctx context.Context, actor access.Actor, transferID string) error {
	if err := requirePermission(actor, entity.PermTransferCancel); err != nil {
		return err
	}
	head, err := uc.transferRepo.GetByID(ctx, actor.BusinessID, transferID)
	if err != nil {
		return err
	}
	if head == nil {
		return domain.ErrNotFound
	}
	ok, err := uc.resolver.CanActFrom(ctx, actor, head.FromLocationID)
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrForbidden
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
		if !domtransfer.CanCancel(t.Status) {
			return domain.ErrConflict
		}
		if domtransfer.NeedsCompensation(t.Status) {
			if err := uc.compensate(ctx, actor, r, t); err != nil {
				return err
			}
		}
		now := uc.clock.Now()
		if err := r.Transfers.MarkCancelled(ctx, t.ID, now); err != nil {
			return err
		}
		if err := r.Steps.Append(ctx, &entity.TransferStep{
			ID:         uuid.New().String(),
			TransferID: t.ID,
			Step:       entity.TransferStepCancel,
			ActorID:    actor.ID,
			CreatedAt:  now,
		}); err != nil {
			return err
		}
		t.Status = entity.TransferStatusCancelled
		t.CancelledAt = &now
		result = t
		return nil
	})
	if err != nil {
		return err
	}

	uc.afterCommit(ctx, actor, "transfer.cancel", result, entity.TransferStepCancel)
	return nil
}

// compensate revierte la deducción del despacho: una entrada de crédito en el
// ledger de origen por línea y la restitución de cada serial vinculado.
func (uc *UseCase) compensate(ctx context.Context, actor access.Actor, r TxRepos, t *entity.StockTransfer) error {
	now := uc.clock.Now()
	for _, item := range t.Items {
		balance, err := r.Ledger.BalanceForUpdate(ctx, item.VariationID, t.FromLocationID)
		if err != nil {
			return err
		}
		if err := r.Ledger.Append(ctx, &entity.StockEntry{
			ID:          uuid.New().String(),
			BusinessID:  t.BusinessID,
			ProductID:   item.ProductID,
			VariationID: item.VariationID,
			LocationID:  t.FromLocationID,
			Quantity:    item.Quantity,
			Balance:     balance.Add(item.Quantity),
			RefType:     entity.RefTypeAdjustment,
			RefID:       t.ID,
			CreatedBy:   actor.ID,
			CreatedAt:   now,
		}); err != nil {
			return err
		}
		if err := uc.moveSerials(ctx, actor, r, t, item,
			entity.SerialStatusInTransit, "",
			entity.SerialStatusInStock, t.FromLocationID,
			entity.SerialMovementAdjustment, now); err != nil {
			return err
		}
	}
	return nil
}
