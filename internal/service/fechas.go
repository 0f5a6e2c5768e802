package service

import (
	"time"

	"github.com/rs/zerolog/log"
)

// Reloj resolves "today" against the plant's wall clock. All capture and
// dashboard defaults run through it so a server in UTC still opens the sheet
// the operators are actually filling.
type Reloj struct {
	loc *time.Location
}

func NewReloj(timezone string) *Reloj {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		log.Warn().Str("timezone", timezone).Err(err).Msg("zona horaria inválida, usando UTC")
		loc = time.UTC
	}
	return &Reloj{loc: loc}
}

func (r *Reloj) Ahora() time.Time { return time.Now().In(r.loc) }

// FechaNegocio is the production date the plant is currently working on.
// Turno B spills past midnight and Turno C runs until dawn, so before 07:00
// local the open sheet still belongs to the previous calendar day.
func (r *Reloj) FechaNegocio() time.Time {
	return fechaNegocioDe(r.Ahora())
}

func fechaNegocioDe(t time.Time) time.Time {
	if t.Hour() < 7 {
		t = t.AddDate(0, 0, -1)
	}
	return Fecha(t)
}

// Fecha truncates a timestamp to a bare UTC date, the canonical form every
// date column stores and every repository query compares against.
func Fecha(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// ParseFecha parses the wire date format used across the API.
func ParseFecha(s string) (time.Time, error) {
	return time.Parse("2006-01-02", s)
}
