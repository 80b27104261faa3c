package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/Traslados-api/internal/application/transfer"
)

// Ensure TxRunner implements transfer.TxRunner.
var _ transfer.TxRunner = (*TxRunner)(nil)

// txTimeout tope de una transacción de traslado: los bloqueos FOR UPDATE del
// encabezado, el saldo y los seriales no deben quedar retenidos sin límite.
const txTimeout = 30 * time.Second

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// RunTransfer inicia una transacción, ejecuta fn con los repos del flujo de
// traslados atados a la tx y hace Commit o Rollback.
func (r *TxRunner) RunTransfer(ctx context.Context, fn func(repos transfer.TxRepos) error) error {
	ctx, cancel := context.WithTimeout(ctx, txTimeout)
	defer cancel()

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	repos := transfer.TxRepos{
		Transfers:  NewStockTransferRepository(tx),
		Steps:      NewTransferStepRepository(tx),
		Sequences:  NewTransferSequenceRepository(tx),
		Serials:    NewSerialNumberRepository(tx),
		SerialMovs: NewSerialMovementRepository(tx),
		Ledger:     NewStockLedgerRepository(tx),
	}

	if err := fn(repos); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
