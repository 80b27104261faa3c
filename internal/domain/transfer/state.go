package transfer

import "github.com/jhoicas/Traslados-api/internal/domain/entity"

// Máquina de estados del traslado (servicio de dominio, sin efectos).
// draft → checked → in_transit → arrived → received → completed;
// cancelled es alcanzable desde draft, checked e in_transit (este último con
// compensación de stock).

// transitions: estado requerido por cada paso mutador.
var transitions = map[string]string{
	entity.TransferStepCheck:    entity.TransferStatusDraft,
	entity.TransferStepSend:     entity.TransferStatusChecked,
	entity.TransferStepArrive:   entity.TransferStatusInTransit,
	entity.TransferStepReceive:  entity.TransferStatusArrived,
	entity.TransferStepComplete: entity.TransferStatusReceived,
}

// statusAfter: estado resultante de cada paso.
var statusAfter = map[string]string{
	entity.TransferStepCheck:    entity.TransferStatusChecked,
	entity.TransferStepSend:     entity.TransferStatusInTransit,
	entity.TransferStepArrive:   entity.TransferStatusArrived,
	entity.TransferStepReceive:  entity.TransferStatusReceived,
	entity.TransferStepComplete: entity.TransferStatusCompleted,
}

// CanTransition indica si el paso dado es válido partiendo del estado actual.
func CanTransition(status, step string) bool {
	required, ok := transitions[step]
	return ok && status == required
}

// StatusAfter devuelve el estado resultante de ejecutar el paso.
// Cadena vacía si el paso no es un paso de transición conocido.
func StatusAfter(step string) string {
	return statusAfter[step]
}

// StockDeducted deriva del estado si el stock de origen ya fue descontado.
// No se almacena: es verdadero desde in_transit en adelante (salvo cancelled,
// cuya compensación lo restituye).
func StockDeducted(status string) bool {
	switch status {
	case entity.TransferStatusInTransit, entity.TransferStatusArrived,
		entity.TransferStatusReceived, entity.TransferStatusCompleted:
		return true
	}
	return false
}

// CanCancel indica si un traslado en el estado dado admite cancelación.
// Desde arrived en adelante la mercancía está en destino y ya no se cancela.
func CanCancel(status string) bool {
	switch status {
	case entity.TransferStatusDraft, entity.TransferStatusChecked, entity.TransferStatusInTransit:
		return true
	}
	return false
}

// NeedsCompensation indica si cancelar desde este estado exige restituir stock
// y seriales en la sede de origen (solo in_transit: ya hubo deducción).
func NeedsCompensation(status string) bool {
	return status == entity.TransferStatusInTransit
}

// Editable indica si el encabezado (fecha, notas) admite edición.
func Editable(status string) bool {
	return status == entity.TransferStatusDraft
}
