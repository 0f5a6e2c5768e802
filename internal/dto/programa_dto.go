package dto

import "time"

// PaginasPrograma is the fixed page size of the board listings.
const PaginasPrograma = 15

type OrdenFiltro struct {
	Status     string // Pendiente | Aprobada | "" (sin restricción, búsqueda global)
	Clave      string // substring, case-insensitive
	Secundaria string
	Page       int
}

type Paginacion struct {
	Page    int   `json:"page"`
	PerPage int   `json:"per_page"`
	Total   int64 `json:"total"`
	Pages   int   `json:"pages"`
}

type CeldaResponse struct {
	Valor   string `json:"valor"`
	Estilos string `json:"estilos,omitempty"`
}

type OrdenResponse struct {
	ID         string                   `json:"id"`
	Clave      string                   `json:"clave"`
	Secundaria string                   `json:"secundaria"`
	Cantidad   int                      `json:"cantidad"`
	Timestamp  time.Time                `json:"timestamp"`
	Status     string                   `json:"status"`
	Duplicada  bool                     `json:"duplicada,omitempty"`
	Celdas     map[string]CeldaResponse `json:"celdas"` // columna_id → celda
}

type ColumnaResponse struct {
	ID               string `json:"id"`
	Nombre           string `json:"nombre"`
	Orden            int    `json:"orden"`
	Ancho            int    `json:"ancho"`
	EditablePorGrupo bool   `json:"editable_por_grupo"`
}

type ListadoOrdenesResponse struct {
	Ordenes    []OrdenResponse   `json:"ordenes"`
	Columnas   []ColumnaResponse `json:"columnas"`
	Paginacion Paginacion        `json:"paginacion"`
}

type CrearOrdenRequest struct {
	Clave      string `json:"clave" validate:"required"`
	Secundaria string `json:"secundaria"`
	Cantidad   int    `json:"cantidad" validate:"omitempty,min=1"`
}

type EditarOrdenRequest struct {
	Clave      string `json:"clave" validate:"required"`
	Secundaria string `json:"secundaria"`
	Cantidad   int    `json:"cantidad" validate:"required,min=1"`
}

// ActualizarCeldaRequest: Valor nil leaves the stored value untouched,
// Estilos nil leaves the stored style untouched (the capture grid sends only
// what changed).
type ActualizarCeldaRequest struct {
	OrdenID   string            `json:"orden_id" validate:"required,uuid"`
	ColumnaID string            `json:"columna_id" validate:"required,uuid"`
	Valor     *string           `json:"valor"`
	Estilos   map[string]string `json:"estilos"`
}

type CrearColumnaRequest struct {
	Nombre string `json:"nombre" validate:"required"`
}

type ReordenarColumnasRequest struct {
	IDs []string `json:"ordered_ids" validate:"required"`
}

type AnchoColumnaRequest struct {
	ColumnaID string `json:"columna_id" validate:"required,uuid"`
	Ancho     int    `json:"ancho" validate:"required,min=40,max=1000"`
}
