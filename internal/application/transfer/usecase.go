// Package transfer implementa el motor de traslados: dueño del agregado
// StockTransfer, de su máquina de estados y de la orquestación transaccional
// de ledger y registro de seriales.
package transfer

import (
	"context"

	"github.com/google/uuid"

	"github.com/jhoicas/Traslados-api/internal/application/access"
	"github.com/jhoicas/Traslados-api/internal/domain"
	"github.com/jhoicas/Traslados-api/internal/domain/entity"
	"github.com/jhoicas/Traslados-api/internal/domain/repository"
	"github.com/jhoicas/Traslados-api/pkg/logger"
)

// UseCase orquesta las operaciones del flujo de traslados.
type UseCase struct {
	txRunner     TxRunner
	transferRepo repository.StockTransferRepository
	stepRepo     repository.TransferStepRepository
	locationRepo repository.LocationRepository
	productRepo  repository.ProductRepository
	userRepo     repository.UserRepository
	serialRepo   repository.SerialNumberRepository
	sodRepo      repository.SODSettingsRepository
	resolver     *access.Resolver
	audit        AuditSink
	notifier     Notifier
	clock        Clock
	log          *logger.Logger
}

// Deps dependencias del motor de traslados.
type Deps struct {
	TxRunner     TxRunner
	TransferRepo repository.StockTransferRepository
	StepRepo     repository.TransferStepRepository
	LocationRepo repository.LocationRepository
	ProductRepo  repository.ProductRepository
	UserRepo     repository.UserRepository
	SerialRepo   repository.SerialNumberRepository
	SODRepo      repository.SODSettingsRepository
	Resolver     *access.Resolver
	Audit        AuditSink
	Notifier     Notifier
	Clock        Clock
	Log          *logger.Logger
}

// NewUseCase construye el motor de traslados.
func NewUseCase(d Deps) *UseCase {
	return &UseCase{
		txRunner:     d.TxRunner,
		transferRepo: d.TransferRepo,
		stepRepo:     d.StepRepo,
		locationRepo: d.LocationRepo,
		productRepo:  d.ProductRepo,
		userRepo:     d.UserRepo,
		serialRepo:   d.SerialRepo,
		sodRepo:      d.SODRepo,
		resolver:     d.Resolver,
		audit:        d.Audit,
		notifier:     d.Notifier,
		clock:        d.Clock,
		log:          d.Log,
	}
}

// settingsFor devuelve la configuración SOD del negocio, o la de defecto.
func (uc *UseCase) settingsFor(ctx context.Context, businessID string) (*entity.SODSettings, error) {
	s, err := uc.sodRepo.GetByBusiness(ctx, businessID)
	if err != nil {
		return nil, err
	}
	if s == nil {
		s = entity.DefaultSODSettings(businessID)
	}
	return s, nil
}

// requirePermission permiso puntual del actor (evaluado una vez por operación).
func requirePermission(actor access.Actor, key string) error {
	if !actor.HasPermission(key) {
		return domain.ErrForbidden
	}
	return nil
}

// afterCommit registra auditoría y dispara la notificación saliente.
// Ambos son efectos posteriores al commit: su fallo solo se registra en log.
func (uc *UseCase) afterCommit(ctx context.Context, actor access.Actor, action string, t *entity.StockTransfer, step string) {
	if uc.audit != nil {
		uc.audit.Record(ctx, &entity.AuditEntry{
			ID:         uuid.New().String(),
			BusinessID: t.BusinessID,
			ActorID:    actor.ID,
			Action:     action,
			EntityType: entity.RefTypeTransfer,
			EntityIDs:  []string{t.ID},
			Description: "traslado " + t.Number + ": " + action,
			CreatedAt:  uc.clock.Now(),
		})
	}
	if uc.notifier != nil {
		uc.notifier.Notify(Summary{
			TransferID:   t.ID,
			Number:       t.Number,
			BusinessID:   t.BusinessID,
			Status:       t.Status,
			Step:         step,
			FromLocation: t.FromLocationID,
			ToLocation:   t.ToLocationID,
			ActorID:      actor.ID,
			OccurredAt:   uc.clock.Now(),
		})
	}
}
