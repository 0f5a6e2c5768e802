package dto

// PuntoSerie is one day of a report time series. Built from the unrounded
// daily summaries so series math never re-parses display strings.
type PuntoSerie struct {
	Fecha      string  `json:"fecha"`
	Pronostico int64   `json:"pronostico"`
	Producido  int64   `json:"producido"`
	Eficiencia float64 `json:"eficiencia"`
}

type ReporteResponse struct {
	Grupo   string       `json:"grupo"`
	Fecha   string       `json:"fecha"`
	Semanal []PuntoSerie `json:"semanal"`
	Mensual []PuntoSerie `json:"mensual"`
	Dia     PuntoSerie   `json:"dia"`
}

type RangoReporteResponse struct {
	Grupo string       `json:"grupo"`
	Serie []PuntoSerie `json:"serie"`
	Total PuntoSerie   `json:"total"`
}
