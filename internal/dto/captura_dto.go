package dto

// GuardarCapturaRequest is one logical capture-sheet submission: forecast,
// hourly and Output values for a single group+date, applied atomically.
type GuardarCapturaRequest struct {
	Fecha        string              `json:"fecha" validate:"required,datetime=2006-01-02"`
	Pronosticos  []PronosticoEntrada `json:"pronosticos" validate:"dive"`
	Producciones []ProduccionEntrada `json:"producciones" validate:"dive"`
	Output       *OutputEntrada      `json:"output"`
}

type PronosticoEntrada struct {
	Area  string `json:"area" validate:"required"`
	Turno string `json:"turno" validate:"required"`
	Valor int    `json:"valor" validate:"min=0"`
}

type ProduccionEntrada struct {
	Area  string `json:"area" validate:"required"`
	Hora  string `json:"hora" validate:"required"`
	Valor int    `json:"valor" validate:"min=0"`
}

type OutputEntrada struct {
	Pronostico *int `json:"pronostico" validate:"omitempty,min=0"`
	Producido  *int `json:"producido" validate:"omitempty,min=0"`
}

type RazonDesviacionRequest struct {
	Fecha string `json:"fecha" validate:"required,datetime=2006-01-02"`
	Grupo string `json:"grupo" validate:"required"`
	Area  string `json:"area" validate:"required"`
	Turno string `json:"turno" validate:"required"`
	Razon string `json:"razon" validate:"required"`
}

type SolicitudCorreccionRequest struct {
	FechaProblema string `json:"fecha_problema" validate:"required,datetime=2006-01-02"`
	Grupo         string `json:"grupo" validate:"required"`
	Area          string `json:"area"`
	Turno         string `json:"turno"`
	TipoError     string `json:"tipo_error" validate:"required"`
	Descripcion   string `json:"descripcion" validate:"required"`
}
