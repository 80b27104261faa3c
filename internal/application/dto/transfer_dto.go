package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateTransferItemRequest una línea del traslado a crear.
type CreateTransferItemRequest struct {
	ProductID       string          `json:"product_id"`
	VariationID     string          `json:"variation_id"`
	Quantity        decimal.Decimal `json:"quantity"`
	SerialNumberIDs []string        `json:"serial_number_ids,omitempty"`
}

// CreateTransferRequest body para POST /api/transfers.
type CreateTransferRequest struct {
	FromLocationID string                      `json:"from_location_id"`
	ToLocationID   string                      `json:"to_location_id"`
	TransferDate   *time.Time                  `json:"transfer_date,omitempty"`
	Notes          string                      `json:"notes,omitempty"`
	Items          []CreateTransferItemRequest `json:"items"`
}

// UpdateTransferRequest body para PUT /api/transfers/:id (solo borradores).
type UpdateTransferRequest struct {
	TransferDate *time.Time `json:"transfer_date,omitempty"`
	Notes        *string    `json:"notes,omitempty"`
}

// ReceiveTransferItemRequest cantidad recibida de una línea.
type ReceiveTransferItemRequest struct {
	ItemID           string          `json:"item_id"`
	ReceivedQuantity decimal.Decimal `json:"received_quantity"`
}

// ReceiveTransferRequest body para POST /api/transfers/:id/receive.
// Sin body (o sin líneas) se asume recepción completa de lo solicitado.
type ReceiveTransferRequest struct {
	Items []ReceiveTransferItemRequest `json:"items,omitempty"`
}

// ListTransfersRequest filtros para GET /api/transfers.
type ListTransfersRequest struct {
	Status     string `query:"status"`
	LocationID string `query:"location_id"`
	DateFrom   string `query:"date_from"` // YYYY-MM-DD
	DateTo     string `query:"date_to"`
	PageRequest
}

// TransferItemResponse línea de traslado con nombres resueltos.
type TransferItemResponse struct {
	ID               string          `json:"id"`
	ProductID        string          `json:"product_id"`
	ProductName      string          `json:"product_name"`
	VariationID      string          `json:"variation_id"`
	VariationName    string          `json:"variation_name"`
	Quantity         decimal.Decimal `json:"quantity"`
	ReceivedQuantity decimal.Decimal `json:"received_quantity"`
	SerialNumberIDs  []string        `json:"serial_number_ids,omitempty"`
}

// TransferStepResponse evento del historial del flujo con actor resuelto.
type TransferStepResponse struct {
	Step      string    `json:"step"`
	ActorID   string    `json:"actor_id"`
	ActorName string    `json:"actor_name"`
	CreatedAt time.Time `json:"created_at"`
}

// SODSettingsResponse configuración efectiva de segregación de funciones.
type SODSettingsResponse struct {
	EnforceTransferSOD  bool `json:"enforce_transfer_sod"`
	CreatorCanCheck     bool `json:"creator_can_check"`
	CreatorCanSend      bool `json:"creator_can_send"`
	CheckerCanSend      bool `json:"checker_can_send"`
	CreatorCanReceive   bool `json:"creator_can_receive"`
	SenderCanComplete   bool `json:"sender_can_complete"`
	CreatorCanComplete  bool `json:"creator_can_complete"`
	ReceiverCanComplete bool `json:"receiver_can_complete"`
}

// TransferResponse encabezado resumido (listados).
type TransferResponse struct {
	ID               string     `json:"id"`
	Number           string     `json:"number"`
	FromLocationID   string     `json:"from_location_id"`
	FromLocationName string     `json:"from_location_name,omitempty"`
	ToLocationID     string     `json:"to_location_id"`
	ToLocationName   string     `json:"to_location_name,omitempty"`
	TransferDate     time.Time  `json:"transfer_date"`
	Status           string     `json:"status"`
	StockDeducted    bool       `json:"stock_deducted"`
	Notes            string     `json:"notes,omitempty"`
	CancelledAt      *time.Time `json:"cancelled_at,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
}

// TransferDetailResponse respuesta de GET /api/transfers/:id con líneas,
// historial de pasos y configuración SOD efectiva.
type TransferDetailResponse struct {
	TransferResponse
	Items    []TransferItemResponse `json:"items"`
	Steps    []TransferStepResponse `json:"steps"`
	Settings SODSettingsResponse    `json:"sod_settings"`
}

// TransferListResponse respuesta de GET /api/transfers.
type TransferListResponse struct {
	Items []TransferResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}
