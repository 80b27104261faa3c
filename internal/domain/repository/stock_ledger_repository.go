package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Traslados-api/internal/domain/entity"
)

// StockLedgerRepository puerto del ledger de cantidades por (variación, sede).
// Las entradas nunca se mutan; el saldo disponible es el Balance de la última
// entrada y debe ser igual a la suma de todas las cantidades firmadas del par.
type StockLedgerRepository interface {
	// Balance devuelve el saldo actual (cero si no hay entradas).
	Balance(ctx context.Context, variationID, locationID string) (decimal.Decimal, error)
	// BalanceForUpdate devuelve el saldo bloqueando la fila de saldo (FOR UPDATE)
	// para serializar débitos y créditos del par dentro de la transacción.
	BalanceForUpdate(ctx context.Context, variationID, locationID string) (decimal.Decimal, error)
	// Append registra la entrada y actualiza el saldo materializado en la misma tx.
	// m.Balance debe traer el saldo resultante ya calculado por el caller.
	Append(ctx context.Context, m *entity.StockEntry) error
	// ListByVariationLocation historial del par, más reciente primero.
	ListByVariationLocation(ctx context.Context, variationID, locationID string, limit, offset int) ([]*entity.StockEntry, error)
}
