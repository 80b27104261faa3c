package transfer

import (
	"context"
	"time"

	"github.com/jhoicas/Traslados-api/internal/domain/entity"
	"github.com/jhoicas/Traslados-api/internal/domain/repository"
)

// TxRepos agrupa los repositorios atados a una misma transacción de BD.
type TxRepos struct {
	Transfers  repository.StockTransferRepository
	Steps      repository.TransferStepRepository
	Sequences  repository.TransferSequenceRepository
	Serials    repository.SerialNumberRepository
	SerialMovs repository.SerialMovementRepository
	Ledger     repository.StockLedgerRepository
}

// TxRunner ejecuta fn dentro de una transacción de BD con timeout extendido
// (decenas de segundos), pasando repositorios atados a esa tx. Garantiza
// atomicidad del motor: deducción de stock, cambio de seriales y estado del
// encabezado se confirman o revierten juntos.
type TxRunner interface {
	RunTransfer(ctx context.Context, fn func(TxRepos) error) error
}

// AuditSink sumidero de auditoría: best-effort, se invoca después del commit;
// su fallo jamás altera el resultado de la operación.
type AuditSink interface {
	Record(ctx context.Context, e *entity.AuditEntry)
}

// Summary resumen de un traslado para notificaciones salientes.
type Summary struct {
	TransferID   string    `json:"transfer_id"`
	Number       string    `json:"number"`
	BusinessID   string    `json:"business_id"`
	Status       string    `json:"status"`
	Step         string    `json:"step"`
	FromLocation string    `json:"from_location"`
	ToLocation   string    `json:"to_location"`
	ActorID      string    `json:"actor_id"`
	OccurredAt   time.Time `json:"occurred_at"`
}

// Notifier sumidero de notificaciones: fire-and-forget después del commit;
// un notificador lento o caído nunca bloquea ni falla la transacción.
type Notifier interface {
	Notify(s Summary)
}

// Clock provee la fecha de negocio anclada a la zona horaria configurada
// (no UTC-now), para evitar traslados con fecha corrida.
type Clock interface {
	Now() time.Time
	// Today devuelve la fecha de negocio truncada a día.
	Today() time.Time
}
