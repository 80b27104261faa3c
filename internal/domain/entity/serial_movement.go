package entity

import "time"

// Tipos de movimiento de una unidad serializada.
const (
	SerialMovementTransferOut = "transfer_out" // sale de la sede origen
	SerialMovementTransferIn  = "transfer_in"  // entra a la sede destino
	SerialMovementAdjustment  = "adjustment"   // compensación (ej. traslado cancelado)
	SerialMovementSale        = "sale"
)

// Tipos de documento que originan movimientos (ledger de unidades y de cantidades).
const (
	RefTypeTransfer   = "stock_transfer"
	RefTypeAdjustment = "stock_adjustment"
	RefTypeSale       = "sale"
)

// SerialMovement es una entrada append-only del ledger de unidades: nunca se
// actualiza ni se borra; las correcciones se registran como nuevas entradas.
type SerialMovement struct {
	ID             string
	SerialNumberID string
	Type           string
	FromLocationID string
	ToLocationID   string
	RefType        string // tipo del documento que causa el movimiento
	RefID          string // id del documento
	CreatedBy      string
	CreatedAt      time.Time
}
