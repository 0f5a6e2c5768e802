package dto

import (
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// ResumenGrupo carries the raw aggregation result. Totals stay numeric here;
// combining groups or building series always works on these fields, never on
// the formatted strings of ResumenGrupoResponse.
type ResumenGrupo struct {
	Pronostico int64
	Producido  int64
	Eficiencia float64 // porcentaje sin redondear
}

// ResumenGrupoResponse is the display shape: totals with thousands separators,
// efficiency rounded to 2 decimals, KPI color per plant thresholds.
type ResumenGrupoResponse struct {
	Pronostico string  `json:"pronostico"`
	Producido  string  `json:"producido"`
	Eficiencia float64 `json:"eficiencia"`
	Color      string  `json:"color"`
	Tendencia  string  `json:"tendencia,omitempty"` // up | down | stable
}

var printer = message.NewPrinter(language.LatinAmericanSpanish)

// FormatMiles renders a total with thousands separators for display contexts.
func FormatMiles(n int64) string { return printer.Sprintf("%d", n) }

// ColorKPI classifies an efficiency percentage: <80 red, <95 yellow, else green.
func ColorKPI(eficiencia float64) string {
	switch {
	case eficiencia < 80:
		return "red"
	case eficiencia < 95:
		return "yellow"
	default:
		return "green"
	}
}

// Redondear2 rounds for display; services keep the unrounded value.
func Redondear2(v float64) float64 { return math.Round(v*100) / 100 }

// Redondear1 is the per-shift efficiency display rounding.
func Redondear1(v float64) float64 { return math.Round(v*10) / 10 }

// NuevoResumenGrupoResponse formats a raw summary for display.
func NuevoResumenGrupoResponse(r ResumenGrupo) ResumenGrupoResponse {
	ef := Redondear2(r.Eficiencia)
	return ResumenGrupoResponse{
		Pronostico: FormatMiles(r.Pronostico),
		Producido:  FormatMiles(r.Producido),
		Eficiencia: ef,
		Color:      ColorKPI(ef),
	}
}

// Hour slot classifications against the hourly target.
const (
	ClaseHoraMeta   = "success" // valor >= meta por hora
	ClaseHoraDebajo = "warning" // valor < meta por hora
)

// HoraDato is one hour slot in a detailed breakdown. Clase stays empty while
// no value has been captured.
type HoraDato struct {
	Valor *int   `json:"valor"`
	Clase string `json:"clase"`
}

// TurnoDesempeno is the per-shift node of the detailed breakdown.
type TurnoDesempeno struct {
	Pronostico      *int                 `json:"pronostico"`
	RazonDesviacion string               `json:"razon_desviacion,omitempty"`
	Producido       int                  `json:"producido"`
	Eficiencia      float64              `json:"eficiencia"`
	MetaPorHora     float64              `json:"meta_por_hora"`
	Horas           map[string]*HoraDato `json:"horas"`
}

// DesempenoArea maps turno → breakdown; DesempenoGrupo maps area → DesempenoArea.
type DesempenoArea map[string]*TurnoDesempeno
type DesempenoGrupo map[string]DesempenoArea

type OutputResponse struct {
	Pronostico int `json:"pronostico"`
	Output     int `json:"output"`
}

// DashboardAdminResponse aggregates both groups plus numeric-summed global KPIs.
type DashboardAdminResponse struct {
	Fecha     string                          `json:"fecha"`
	Global    ResumenGrupoResponse            `json:"global"`
	Grupos    map[string]ResumenGrupoResponse `json:"grupos"`
	Desempeno map[string]DesempenoGrupo       `json:"desempeno"`
	Output    map[string]OutputResponse       `json:"output"`
}

type DashboardGrupoResponse struct {
	Fecha     string               `json:"fecha"`
	Grupo     string               `json:"grupo"`
	Resumen   ResumenGrupoResponse `json:"resumen"`
	Desempeno DesempenoGrupo       `json:"desempeno"`
	Output    OutputResponse       `json:"output"`
	Areas     []string             `json:"areas"`
}
