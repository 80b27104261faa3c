package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados del ciclo de vida de un traslado.
// pending_approval/checked/approved del sistema anterior se unifican en checked;
// receive y verify se unifican en un solo paso que produce received.
const (
	TransferStatusDraft     = "draft"
	TransferStatusChecked   = "checked"
	TransferStatusInTransit = "in_transit"
	TransferStatusArrived   = "arrived"
	TransferStatusReceived  = "received"
	TransferStatusCompleted = "completed"
	TransferStatusCancelled = "cancelled"
)

// Pasos del flujo de trabajo de un traslado.
const (
	TransferStepCreate   = "create"
	TransferStepCheck    = "check"
	TransferStepSend     = "send"
	TransferStepArrive   = "arrive"
	TransferStepReceive  = "receive"
	TransferStepComplete = "complete"
	TransferStepCancel   = "cancel"
)

// StockTransfer es la raíz del agregado de traslado: solicitud de mover
// variaciones de producto entre dos sedes del mismo negocio.
// El historial de actores por paso vive en TransferStep (append-only), no en
// columnas mutables del encabezado.
type StockTransfer struct {
	ID             string
	BusinessID     string
	Number         string // consecutivo legible TR-YYYYMM-NNNN, único por negocio y mes
	FromLocationID string
	ToLocationID   string
	TransferDate   time.Time
	Notes          string
	Status         string
	CancelledAt    *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time

	Items []StockTransferItem
}

// StockTransferItem es una línea del traslado: una variación y su cantidad.
type StockTransferItem struct {
	ID               string
	TransferID       string
	ProductID        string
	VariationID      string
	Quantity         decimal.Decimal // solicitada, siempre > 0
	ReceivedQuantity decimal.Decimal // llenada en recepción, <= Quantity

	SerialNumberIDs []string // seriales reservados; si no está vacío, len == Quantity
}

// TransferStep es un evento inmutable del flujo: quién ejecutó qué paso y cuándo.
type TransferStep struct {
	ID         string
	TransferID string
	Step       string
	ActorID    string
	CreatedAt  time.Time
}
