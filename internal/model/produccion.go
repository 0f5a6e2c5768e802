package model

import (
	"time"

	"github.com/google/uuid"
)

// Grupos de producción de la planta.
const (
	GrupoIHP = "IHP"
	GrupoFHP = "FHP"
)

var Grupos = []string{GrupoIHP, GrupoFHP}

// AreaOutput is the special aggregate-only area: it carries its own forecast
// and produced totals (OutputData) and never breaks down into shifts/hours.
const AreaOutput = "Output"

var AreasIHP = []string{"Soporte", "Servicio", "Cuerpos", "Flechas", "Misceláneos", "Embobinado", "ECC", "ERF", "Carga", AreaOutput}
var AreasFHP = []string{"Rotores Inyección", "Rotores ERF", "Cuerpos", "Flechas", "Embobinado", "Barniz", "Soporte", "Pintura", "Carga", AreaOutput}

// AreasDeGrupo returns the station list for a group, nil for unknown groups.
func AreasDeGrupo(grupo string) []string {
	switch grupo {
	case GrupoIHP:
		return AreasIHP
	case GrupoFHP:
		return AreasFHP
	}
	return nil
}

// AreasCapturables filters out the Output pseudo-area.
func AreasCapturables(grupo string) []string {
	var out []string
	for _, a := range AreasDeGrupo(grupo) {
		if a != AreaOutput {
			out = append(out, a)
		}
	}
	return out
}

// GrupoValido reports whether grupo is a known production group.
func GrupoValido(grupo string) bool { return AreasDeGrupo(grupo) != nil }

// HorasTurno maps each shift to its fixed ordered hour slots. A given hour
// belongs to exactly one shift.
var HorasTurno = map[string][]string{
	"Turno A": {"10AM", "1PM", "4PM"},
	"Turno B": {"7PM", "10PM", "12AM"},
	"Turno C": {"3AM", "6AM"},
}

// NombresTurnos keeps the shifts in capture-sheet order (map iteration would
// shuffle them).
var NombresTurnos = []string{"Turno A", "Turno B", "Turno C"}

// TurnoDeHora resolves which shift an hour slot aggregates into.
func TurnoDeHora(hora string) (string, bool) {
	for _, turno := range NombresTurnos {
		for _, h := range HorasTurno[turno] {
			if h == hora {
				return turno, true
			}
		}
	}
	return "", false
}

// MetaPorHora is the hourly target for a shift forecast: forecast divided by
// the number of hour slots, 0 when there is no usable forecast.
func MetaPorHora(pronostico *int, turno string) float64 {
	if pronostico == nil || *pronostico <= 0 {
		return 0
	}
	horas := len(HorasTurno[turno])
	if horas == 0 {
		return 0
	}
	return float64(*pronostico) / float64(horas)
}

// Workflow statuses shared by forecasts, correction requests and board orders.
const (
	StatusNuevo     = "Nuevo"
	StatusPendiente = "Pendiente"
	StatusAprobada  = "Aprobada"
)

// Pronostico is the per-area, per-shift forecast for one date. At most one row
// per (fecha, grupo, area, turno). A deviation reason can be attached later;
// re-submitting one resets Status to Nuevo so the action center picks it up.
type Pronostico struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey"`
	Fecha           time.Time `gorm:"type:date;not null;index;uniqueIndex:uq_pronostico_llave,priority:1"`
	Grupo           string    `gorm:"size:10;not null;index;uniqueIndex:uq_pronostico_llave,priority:2"`
	Area            string    `gorm:"size:50;not null;uniqueIndex:uq_pronostico_llave,priority:3"`
	Turno           string    `gorm:"size:20;not null;uniqueIndex:uq_pronostico_llave,priority:4"`
	ValorPronostico *int
	RazonDesviacion string `gorm:"type:text"`
	UsuarioRazon    string `gorm:"size:80"`
	FechaRazon      *time.Time
	Status          string `gorm:"size:50;default:'Nuevo';index"`
}

func (Pronostico) TableName() string { return "pronosticos" }

// ProduccionCaptura is one produced quantity for one hour slot. At most one
// row per (fecha, grupo, area, hora); edits are last-write-wins.
type ProduccionCaptura struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	Fecha          time.Time `gorm:"type:date;not null;index;uniqueIndex:uq_captura_llave,priority:1"`
	Grupo          string    `gorm:"size:10;not null;index;uniqueIndex:uq_captura_llave,priority:2"`
	Area           string    `gorm:"size:50;not null;uniqueIndex:uq_captura_llave,priority:3"`
	Hora           string    `gorm:"size:10;not null;uniqueIndex:uq_captura_llave,priority:4"`
	ValorProducido *int
	UsuarioCaptura string `gorm:"size:80"`
	FechaCaptura   time.Time
}

func (ProduccionCaptura) TableName() string { return "produccion_capturas" }

// OutputData is the aggregate-only row for the Output pseudo-area: one per
// (fecha, grupo), with its own forecast and produced totals.
type OutputData struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	Fecha          time.Time `gorm:"type:date;not null;index;uniqueIndex:uq_output_llave,priority:1"`
	Grupo          string    `gorm:"size:10;not null;index;uniqueIndex:uq_output_llave,priority:2"`
	Pronostico     int       `gorm:"not null;default:0"`
	Output         int       `gorm:"not null;default:0"`
	UsuarioCaptura string    `gorm:"size:80"`
	FechaCaptura   time.Time
}

func (OutputData) TableName() string { return "output_data" }
