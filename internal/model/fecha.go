package model

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Fecha is a calendar date. The backend sends plain "2006-01-02" strings on
// some endpoints and full RFC 3339 timestamps on others; both decode here.
type Fecha struct {
	time.Time
}

const formatoFecha = "2006-01-02"

func NuevaFecha(t time.Time) Fecha {
	return Fecha{time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)}
}

func (f Fecha) String() string { return f.Format(formatoFecha) }

func (f Fecha) MarshalJSON() ([]byte, error) {
	return json.Marshal(f.Format(formatoFecha))
}

func (f *Fecha) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == "" {
		f.Time = time.Time{}
		return nil
	}
	if t, err := time.Parse(formatoFecha, s); err == nil {
		f.Time = t
		return nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		f.Time = t
		return nil
	}
	return fmt.Errorf("fecha inválida: %q", s)
}

// DiaSemana returns the Spanish weekday name used by the daily-menu screens.
func (f Fecha) DiaSemana() string {
	dias := [...]string{"domingo", "lunes", "martes", "miercoles", "jueves", "viernes", "sabado"}
	return dias[int(f.Weekday())]
}

// MismoDia reports whether both dates fall on the same calendar day.
func (f Fecha) MismoDia(otra Fecha) bool {
	return strings.EqualFold(f.String(), otra.String())
}
