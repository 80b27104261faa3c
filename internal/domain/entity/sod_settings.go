package entity

import "time"

// SODSettings son las reglas de segregación de funciones del negocio para
// traslados: qué pasos consecutivos puede ejecutar el mismo actor.
// Solo lectura para el motor de traslados; se mutan vía configuración.
type SODSettings struct {
	BusinessID          string
	EnforceTransferSOD  bool // interruptor maestro; apagado = todo permitido
	CreatorCanCheck     bool
	CreatorCanSend      bool
	CheckerCanSend      bool
	CreatorCanReceive   bool
	SenderCanComplete   bool
	CreatorCanComplete  bool
	ReceiverCanComplete bool
	UpdatedAt           time.Time
}

// DefaultSODSettings reglas por defecto para un negocio sin configuración:
// enforcement activo, y solo se prohíben las combinaciones de mayor riesgo.
func DefaultSODSettings(businessID string) *SODSettings {
	return &SODSettings{
		BusinessID:          businessID,
		EnforceTransferSOD:  true,
		CreatorCanCheck:     false,
		CreatorCanSend:      false,
		CheckerCanSend:      true,
		CreatorCanReceive:   true,
		SenderCanComplete:   false,
		CreatorCanComplete:  true,
		ReceiverCanComplete: true,
	}
}
