package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Traslados-api/internal/domain"
	"github.com/jhoicas/Traslados-api/internal/domain/entity"
	"github.com/jhoicas/Traslados-api/internal/domain/repository"
)

var _ repository.StockTransferRepository = (*StockTransferRepo)(nil)

// StockTransferRepo implementación del agregado de traslado sobre PostgreSQL
// (usable con pool o tx).
type StockTransferRepo struct {
	q Querier
}

// NewStockTransferRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockTransferRepository(q Querier) *StockTransferRepo {
	return &StockTransferRepo{q: q}
}

// Create persiste encabezado, líneas y vínculos de seriales. Debe llamarse
// dentro de una transacción: las tres escrituras van juntas o ninguna.
func (r *StockTransferRepo) Create(ctx context.Context, t *entity.StockTransfer) error {
	query := `
		INSERT INTO stock_transfers (id, business_id, number, from_location_id, to_location_id, transfer_date, notes, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(ctx, query,
		t.ID, t.BusinessID, t.Number, t.FromLocationID, t.ToLocationID,
		t.TransferDate, t.Notes, t.Status, t.CreatedAt, t.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("create transfer: %w", err)
	}

	itemQuery := `
		INSERT INTO stock_transfer_items (id, transfer_id, product_id, variation_id, quantity, received_quantity)
		VALUES ($1, $2, $3, $4, $5, $6)`
	serialQuery := `
		INSERT INTO stock_transfer_item_serials (item_id, serial_number_id)
		VALUES ($1, $2)`
	for _, item := range t.Items {
		if _, err := r.q.Exec(ctx, itemQuery,
			item.ID, t.ID, item.ProductID, item.VariationID, item.Quantity, item.ReceivedQuantity,
		); err != nil {
			return fmt.Errorf("create transfer item: %w", err)
		}
		for _, serialID := range item.SerialNumberIDs {
			if _, err := r.q.Exec(ctx, serialQuery, item.ID, serialID); err != nil {
				return fmt.Errorf("link transfer serial: %w", err)
			}
		}
	}
	return nil
}

// GetByID devuelve el encabezado con líneas y seriales, o nil si no existe.
func (r *StockTransferRepo) GetByID(ctx context.Context, businessID, id string) (*entity.StockTransfer, error) {
	return r.get(ctx, businessID, id, false)
}

// GetByIDForUpdate igual que GetByID pero bloquea el encabezado (FOR UPDATE).
func (r *StockTransferRepo) GetByIDForUpdate(ctx context.Context, businessID, id string) (*entity.StockTransfer, error) {
	return r.get(ctx, businessID, id, true)
}

func (r *StockTransferRepo) get(ctx context.Context, businessID, id string, forUpdate bool) (*entity.StockTransfer, error) {
	query := `
		SELECT id, business_id, number, from_location_id, to_location_id, transfer_date, notes, status, cancelled_at, created_at, updated_at
		FROM stock_transfers WHERE id = $1 AND business_id = $2`
	if forUpdate {
		query += " FOR UPDATE"
	}
	var t entity.StockTransfer
	err := r.q.QueryRow(ctx, query, id, businessID).Scan(
		&t.ID, &t.BusinessID, &t.Number, &t.FromLocationID, &t.ToLocationID,
		&t.TransferDate, &t.Notes, &t.Status, &t.CancelledAt, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get transfer: %w", err)
	}
	if err := r.loadItems(ctx, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *StockTransferRepo) loadItems(ctx context.Context, t *entity.StockTransfer) error {
	query := `
		SELECT i.id, i.transfer_id, i.product_id, i.variation_id, i.quantity, i.received_quantity
		FROM stock_transfer_items i WHERE i.transfer_id = $1
		ORDER BY i.id`
	rows, err := r.q.Query(ctx, query, t.ID)
	if err != nil {
		return fmt.Errorf("load transfer items: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var item entity.StockTransferItem
		if err := rows.Scan(&item.ID, &item.TransferID, &item.ProductID, &item.VariationID,
			&item.Quantity, &item.ReceivedQuantity); err != nil {
			return fmt.Errorf("scan transfer item: %w", err)
		}
		t.Items = append(t.Items, item)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate transfer items: %w", err)
	}

	serialQuery := `
		SELECT s.item_id, s.serial_number_id
		FROM stock_transfer_item_serials s
		JOIN stock_transfer_items i ON i.id = s.item_id
		WHERE i.transfer_id = $1
		ORDER BY s.serial_number_id`
	serialRows, err := r.q.Query(ctx, serialQuery, t.ID)
	if err != nil {
		return fmt.Errorf("load transfer serials: %w", err)
	}
	defer serialRows.Close()
	byItem := map[string][]string{}
	for serialRows.Next() {
		var itemID, serialID string
		if err := serialRows.Scan(&itemID, &serialID); err != nil {
			return fmt.Errorf("scan transfer serial: %w", err)
		}
		byItem[itemID] = append(byItem[itemID], serialID)
	}
	if err := serialRows.Err(); err != nil {
		return fmt.Errorf("iterate transfer serials: %w", err)
	}
	for i := range t.Items {
		t.Items[i].SerialNumberIDs = byItem[t.Items[i].ID]
	}
	return nil
}

// UpdateStatus cambia el estado del encabezado.
func (r *StockTransferRepo) UpdateStatus(ctx context.Context, id, status string) error {
	query := `UPDATE stock_transfers SET status = $2, updated_at = now() WHERE id = $1`
	_, err := r.q.Exec(ctx, query, id, status)
	if err != nil {
		return fmt.Errorf("update transfer status: %w", err)
	}
	return nil
}

// UpdateHeader actualiza fecha y notas (solo borradores; el caso de uso valida el estado).
func (r *StockTransferRepo) UpdateHeader(ctx context.Context, id string, transferDate time.Time, notes string) error {
	query := `UPDATE stock_transfers SET transfer_date = $2, notes = $3, updated_at = now() WHERE id = $1`
	_, err := r.q.Exec(ctx, query, id, transferDate, notes)
	if err != nil {
		return fmt.Errorf("update transfer header: %w", err)
	}
	return nil
}

// UpdateItemReceived llena la cantidad recibida de una línea.
func (r *StockTransferRepo) UpdateItemReceived(ctx context.Context, itemID string, qty decimal.Decimal) error {
	query := `UPDATE stock_transfer_items SET received_quantity = $2 WHERE id = $1`
	_, err := r.q.Exec(ctx, query, itemID, qty)
	if err != nil {
		return fmt.Errorf("update item received: %w", err)
	}
	return nil
}

// MarkCancelled marca cancelado con la marca de tiempo de anulación.
func (r *StockTransferRepo) MarkCancelled(ctx context.Context, id string, at time.Time) error {
	query := `UPDATE stock_transfers SET status = $2, cancelled_at = $3, updated_at = now() WHERE id = $1`
	_, err := r.q.Exec(ctx, query, id, entity.TransferStatusCancelled, at)
	if err != nil {
		return fmt.Errorf("mark transfer cancelled: %w", err)
	}
	return nil
}

// List lista traslados según filtros, más recientes primero. Solo carga
// encabezados: los listados no necesitan líneas ni seriales.
func (r *StockTransferRepo) List(ctx context.Context, f repository.TransferFilter) ([]*entity.StockTransfer, error) {
	query := `
		SELECT id, business_id, number, from_location_id, to_location_id, transfer_date, notes, status, cancelled_at, created_at, updated_at
		FROM stock_transfers WHERE business_id = $1`
	args := []any{f.BusinessID}
	pos := 2
	if f.Status != "" {
		query += fmt.Sprintf(" AND status = $%d", pos)
		args = append(args, f.Status)
		pos++
	}
	if f.LocationID != "" {
		query += fmt.Sprintf(" AND (from_location_id = $%d OR to_location_id = $%d)", pos, pos)
		args = append(args, f.LocationID)
		pos++
	}
	if f.LocationIDs != nil {
		query += fmt.Sprintf(" AND (from_location_id = ANY($%d) OR to_location_id = ANY($%d))", pos, pos)
		args = append(args, f.LocationIDs)
		pos++
	}
	if f.DateFrom != nil {
		query += fmt.Sprintf(" AND transfer_date >= $%d", pos)
		args = append(args, *f.DateFrom)
		pos++
	}
	if f.DateTo != nil {
		query += fmt.Sprintf(" AND transfer_date <= $%d", pos)
		args = append(args, *f.DateTo)
		pos++
	}
	query += fmt.Sprintf(" ORDER BY transfer_date DESC, created_at DESC LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, f.Limit, f.Offset)

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list transfers: %w", err)
	}
	defer rows.Close()
	var out []*entity.StockTransfer
	for rows.Next() {
		var t entity.StockTransfer
		if err := rows.Scan(
			&t.ID, &t.BusinessID, &t.Number, &t.FromLocationID, &t.ToLocationID,
			&t.TransferDate, &t.Notes, &t.Status, &t.CancelledAt, &t.CreatedAt, &t.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan transfer: %w", err)
		}
		out = append(out, &t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transfers: %w", err)
	}
	return out, nil
}
