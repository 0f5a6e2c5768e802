package dto

import "time"

// Tipos de elemento del centro de acciones.
const (
	TipoDesviacion = "Desviacion"
	TipoCorreccion = "Correccion"
	TipoTodos      = "Todos"
)

// StatusPendientes is the default meta-filter: Nuevo for deviations,
// Pendiente for corrections.
const StatusPendientes = "Pendientes"

type AccionesFiltro struct {
	FechaInicio string `form:"fecha_inicio"`
	FechaFin    string `form:"fecha_fin"`
	Grupo       string `form:"grupo"`
	Tipo        string `form:"tipo"`
	Status      string `form:"status"`
}

// AccionItem is the unified shape of both queues. Timestamp nil sorts last.
type AccionItem struct {
	ID          string     `json:"id"`
	Tipo        string     `json:"tipo"` // "Desviación" | "Corrección (<tipo_error>)"
	Timestamp   *time.Time `json:"timestamp"`
	FechaEvento string     `json:"fecha_evento"`
	Grupo       string     `json:"grupo"`
	Area        string     `json:"area"`
	Turno       string     `json:"turno"`
	Usuario     string     `json:"usuario"`
	Detalles    string     `json:"detalles"`
	Status      string     `json:"status"`
}

type ActualizarStatusDesviacionRequest struct {
	Status string `json:"status" validate:"required"`
}

type ResolverSolicitudRequest struct {
	Status string `json:"status" validate:"required"`
	Notas  string `json:"notas"`
}
