package transfer

import (
	"context"

	"github.com/jhoicas/Traslados-api/internal/application/access"
	"github.com/jhoicas/Traslados-api/internal/application/dto"
	"github.com/jhoicas/Traslados-api/internal/domain/entity"
)

// GetSODSettings devuelve la configuración SOD efectiva del negocio del actor.
func (uc *UseCase) GetSODSettings(ctx context.Context, actor access.Actor) (*dto.SODSettingsResponse, error) {
	s, err := uc.settingsFor(ctx, actor.BusinessID)
	if err != nil {
		return nil, err
	}
	resp := toSODResponse(s)
	return &resp, nil
}

// UpdateSODSettings actualiza las banderas de segregación de funciones.
// Campos nil conservan el valor vigente.
func (uc *UseCase) UpdateSODSettings(ctx context.Context, actor access.Actor, in dto.UpdateSODSettingsRequest) (*dto.SODSettingsResponse, error) {
	if err := requirePermission(actor, entity.PermSettingsSOD); err != nil {
		return nil, err
	}
	s, err := uc.settingsFor(ctx, actor.BusinessID)
	if err != nil {
		return nil, err
	}
	if in.EnforceTransferSOD != nil {
		s.EnforceTransferSOD = *in.EnforceTransferSOD
	}
	if in.CreatorCanCheck != nil {
		s.CreatorCanCheck = *in.CreatorCanCheck
	}
	if in.CreatorCanSend != nil {
		s.CreatorCanSend = *in.CreatorCanSend
	}
	if in.CheckerCanSend != nil {
		s.CheckerCanSend = *in.CheckerCanSend
	}
	if in.CreatorCanReceive != nil {
		s.CreatorCanReceive = *in.CreatorCanReceive
	}
	if in.SenderCanComplete != nil {
		s.SenderCanComplete = *in.SenderCanComplete
	}
	if in.CreatorCanComplete != nil {
		s.CreatorCanComplete = *in.CreatorCanComplete
	}
	if in.ReceiverCanComplete != nil {
		s.ReceiverCanComplete = *in.ReceiverCanComplete
	}
	s.UpdatedAt = uc.clock.Now()
	if err := uc.sodRepo.Upsert(ctx, s); err != nil {
		return nil, err
	}
	resp := toSODResponse(s)
	return &resp, nil
}
