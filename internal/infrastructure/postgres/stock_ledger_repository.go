package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Traslados-api/internal/domain/entity"
	"github.com/jhoicas/Traslados-api/internal/domain/repository"
)

var _ repository.StockLedgerRepository = (*StockLedgerRepo)(nil)

// StockLedgerRepo ledger de cantidades por (variación, sede) sobre PostgreSQL.
// Las entradas en stock_entries son append-only; stock_balances materializa el
// saldo vigente del par y su fila es el punto de serialización (FOR UPDATE)
// de débitos y créditos concurrentes.
type StockLedgerRepo struct {
	q Querier
}

// NewStockLedgerRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockLedgerRepository(q Querier) *StockLedgerRepo {
	return &StockLedgerRepo{q: q}
}

// Balance devuelve el saldo actual (cero si el par no tiene entradas).
func (r *StockLedgerRepo) Balance(ctx context.Context, variationID, locationID string) (decimal.Decimal, error) {
	return r.balance(ctx, variationID, locationID, false)
}

// BalanceForUpdate devuelve el saldo bloqueando la fila de saldo.
func (r *StockLedgerRepo) BalanceForUpdate(ctx context.Context, variationID, locationID string) (decimal.Decimal, error) {
	return r.balance(ctx, variationID, locationID, true)
}

func (r *StockLedgerRepo) balance(ctx context.Context, variationID, locationID string, forUpdate bool) (decimal.Decimal, error) {
	query := `SELECT balance FROM stock_balances WHERE variation_id = $1 AND location_id = $2`
	if forUpdate {
		query += " FOR UPDATE"
	}
	var b decimal.Decimal
	err := r.q.QueryRow(ctx, query, variationID, locationID).Scan(&b)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return decimal.Zero, nil
		}
		return decimal.Zero, fmt.Errorf("get stock balance: %w", err)
	}
	return b, nil
}

// Append registra la entrada y actualiza el saldo materializado en la misma tx.
func (r *StockLedgerRepo) Append(ctx context.Context, m *entity.StockEntry) error {
	entryQuery := `
		INSERT INTO stock_entries (id, business_id, product_id, variation_id, location_id, quantity, balance, ref_type, ref_id, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	if _, err := r.q.Exec(ctx, entryQuery,
		m.ID, m.BusinessID, m.ProductID, m.VariationID, m.LocationID,
		m.Quantity, m.Balance, m.RefType, m.RefID, m.CreatedBy, m.CreatedAt,
	); err != nil {
		return fmt.Errorf("append stock entry: %w", err)
	}

	balanceQuery := `
		INSERT INTO stock_balances (variation_id, location_id, balance, updated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (variation_id, location_id)
		DO UPDATE SET balance = EXCLUDED.balance, updated_at = now()`
	if _, err := r.q.Exec(ctx, balanceQuery, m.VariationID, m.LocationID, m.Balance); err != nil {
		return fmt.Errorf("upsert stock balance: %w", err)
	}
	return nil
}

// ListByVariationLocation historial del par, más reciente primero.
func (r *StockLedgerRepo) ListByVariationLocation(ctx context.Context, variationID, locationID string, limit, offset int) ([]*entity.StockEntry, error) {
	query := `
		SELECT id, business_id, product_id, variation_id, location_id, quantity, balance, ref_type, ref_id, created_by, created_at
		FROM stock_entries WHERE variation_id = $1 AND location_id = $2
		ORDER BY created_at DESC, id DESC LIMIT $3 OFFSET $4`
	rows, err := r.q.Query(ctx, query, variationID, locationID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list stock entries: %w", err)
	}
	defer rows.Close()
	var out []*entity.StockEntry
	for rows.Next() {
		var e entity.StockEntry
		if err := rows.Scan(&e.ID, &e.BusinessID, &e.ProductID, &e.VariationID, &e.LocationID,
			&e.Quantity, &e.Balance, &e.RefType, &e.RefID, &e.CreatedBy, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan stock entry: %w", err)
		}
		out = append(out, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate stock entries: %w", err)
	}
	return out, nil
}
