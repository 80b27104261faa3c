package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Traslados-api/internal/domain/entity"
	"github.com/jhoicas/Traslados-api/internal/domain/repository"
)

var _ repository.SODSettingsRepository = (*SODSettingsRepo)(nil)

// SODSettingsRepo configuración de segregación de funciones sobre PostgreSQL.
type SODSettingsRepo struct {
	q Querier
}

// NewSODSettingsRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSODSettingsRepository(q Querier) *SODSettingsRepo {
	return &SODSettingsRepo{q: q}
}

// GetByBusiness devuelve la configuración, o nil si el negocio no tiene una
// (el caso de uso aplica entonces la de defecto).
func (r *SODSettingsRepo) GetByBusiness(ctx context.Context, businessID string) (*entity.SODSettings, error) {
	query := `
		SELECT business_id, enforce_transfer_sod, creator_can_check, creator_can_send, checker_can_send,
		       creator_can_receive, sender_can_complete, creator_can_complete, receiver_can_complete, updated_at
		FROM sod_settings WHERE business_id = $1`
	var s entity.SODSettings
	err := r.q.QueryRow(ctx, query, businessID).Scan(
		&s.BusinessID, &s.EnforceTransferSOD, &s.CreatorCanCheck, &s.CreatorCanSend, &s.CheckerCanSend,
		&s.CreatorCanReceive, &s.SenderCanComplete, &s.CreatorCanComplete, &s.ReceiverCanComplete, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get sod settings: %w", err)
	}
	return &s, nil
}

// Upsert inserta o actualiza la configuración del negocio.
func (r *SODSettingsRepo) Upsert(ctx context.Context, s *entity.SODSettings) error {
	query := `
		INSERT INTO sod_settings (business_id, enforce_transfer_sod, creator_can_check, creator_can_send, checker_can_send,
		                          creator_can_receive, sender_can_complete, creator_can_complete, receiver_can_complete, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, now())
		ON CONFLICT (business_id)
		DO UPDATE SET enforce_transfer_sod = EXCLUDED.enforce_transfer_sod,
		              creator_can_check = EXCLUDED.creator_can_check,
		              creator_can_send = EXCLUDED.creator_can_send,
		              checker_can_send = EXCLUDED.checker_can_send,
		              creator_can_receive = EXCLUDED.creator_can_receive,
		              sender_can_complete = EXCLUDED.sender_can_complete,
		              creator_can_complete = EXCLUDED.creator_can_complete,
		              receiver_can_complete = EXCLUDED.receiver_can_complete,
		              updated_at = now()`
	_, err := r.q.Exec(ctx, query,
		s.BusinessID, s.EnforceTransferSOD, s.CreatorCanCheck, s.CreatorCanSend, s.CheckerCanSend,
		s.CreatorCanReceive, s.SenderCanComplete, s.CreatorCanComplete, s.ReceiverCanComplete,
	)
	if err != nil {
		return fmt.Errorf("upsert sod settings: %w", err)
	}
	return nil
}
