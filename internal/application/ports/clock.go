package ports

import "time"

// Clock fuente de tiempo inyectable. main usa time.Now en la zona horaria configurada;
// los tests fijan el reloj.
type Clock func() time.Time

// SystemClock devuelve un Clock que entrega la hora actual en loc.
func SystemClock(loc *time.Location) Clock {
	return func() time.Time { return time.Now().In(loc) }
}

// FixedClock devuelve siempre t.
func FixedClock(t time.Time) Clock {
	return func() time.Time { return t }
}
