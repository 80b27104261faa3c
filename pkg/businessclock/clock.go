// Package businessclock provee un reloj anclado a la zona horaria del
// negocio. El periodo del consecutivo de traslados se deriva de la fecha
// local del negocio, no de UTC del servidor.
package businessclock

import "time"

// Clock reloj con zona horaria fija.
type Clock struct {
	loc *time.Location
}

// New crea el reloj para la zona dada (IANA, ej. "America/Bogota").
// Una zona desconocida cae a UTC.
func New(tz string) *Clock {
	loc, err := time.LoadLocation(tz)
	if err != nil {
		loc = time.UTC
	}
	return &Clock{loc: loc}
}

// Now devuelve el instante actual en la zona del negocio.
func (c *Clock) Now() time.Time {
	return time.Now().In(c.loc)
}

// Today devuelve la medianoche local del día en curso.
func (c *Clock) Today() time.Time {
	now := c.Now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, c.loc)
}
