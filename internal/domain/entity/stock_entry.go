package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockEntry es una entrada append-only del ledger de cantidades por
// (producto, variación, sede). Quantity lleva signo (negativo = débito) y
// Balance es el saldo resultante después de aplicar esta entrada.
// Invariante: la suma de Quantity de todas las entradas de un par
// (variación, sede) es igual al Balance de la última.
type StockEntry struct {
	ID          string
	BusinessID  string
	ProductID   string
	VariationID string
	LocationID  string
	Quantity    decimal.Decimal
	Balance     decimal.Decimal
	RefType     string
	RefID       string
	CreatedBy   string
	CreatedAt   time.Time
}
