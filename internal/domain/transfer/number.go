package transfer

import (
	"fmt"
	"regexp"
	"time"
)

// Consecutivo legible de traslado: TR-YYYYMM-NNNN, monotónico por negocio y
// mes calendario. La secuencia la entrega un contador atómico en BD
// (INSERT ... ON CONFLICT ... RETURNING), nunca leer-máximo-e-incrementar.

var numberPattern = regexp.MustCompile(`^TR-\d{6}-\d{4,}$`)

// Period devuelve el período YYYYMM para la fecha dada (en la zona del negocio).
func Period(t time.Time) string {
	return t.Format("200601")
}

// FormatNumber arma el consecutivo a partir del período y la secuencia.
func FormatNumber(period string, seq int64) string {
	return fmt.Sprintf("TR-%s-%04d", period, seq)
}

// ValidNumber valida el formato de un consecutivo de traslado.
func ValidNumber(n string) bool {
	return numberPattern.MatchString(n)
}
