package inventory

import (
	"fmt"
	"time"
)

// RequestNumber formatea el número de solicitud: REQ + fecha local + secuencia diaria de 4 dígitos.
// seq es 1-based (primera solicitud del día = 1).
func RequestNumber(day time.Time, seq int) string {
	return fmt.Sprintf("REQ%s%04d", day.Format("20060102"), seq)
}

// StartOfDay devuelve la medianoche de t en su zona horaria.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
