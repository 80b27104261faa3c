package notify

import (
	"context"

	"github.com/jhoicas/Traslados-api/internal/application/transfer"
	"github.com/jhoicas/Traslados-api/internal/domain/entity"
	"github.com/jhoicas/Traslados-api/internal/domain/repository"
	"github.com/jhoicas/Traslados-api/pkg/logger"
)

var _ transfer.AuditSink = (*AuditSink)(nil)

// AuditSink persiste entradas de auditoría fuera de la transacción principal.
type AuditSink struct {
	repo repository.AuditRepository
	log  *logger.Logger
}

// NewAuditSink construye el sumidero de auditoría.
func NewAuditSink(repo repository.AuditRepository, log *logger.Logger) *AuditSink {
	return &AuditSink{repo: repo, log: log}
}

// Record escribe la entrada; un fallo solo se registra en log.
func (s *AuditSink) Record(ctx context.Context, e *entity.AuditEntry) {
	if err := s.repo.Append(ctx, e); err != nil {
		s.log.Error().Err(err).Str("action", e.Action).Msg("audit: no se pudo registrar la entrada")
	}
}
