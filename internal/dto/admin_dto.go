package dto

type CrearUsuarioRequest struct {
	Username       string `json:"username" validate:"required"`
	Password       string `json:"password" validate:"required,min=4"`
	NombreCompleto string `json:"nombre_completo" validate:"required"`
	Cargo          string `json:"cargo" validate:"required"`
	RolID          string `json:"rol_id" validate:"required,uuid"`
	TurnoID        string `json:"turno_id" validate:"omitempty,uuid"`
}

type ActualizarUsuarioRequest struct {
	Username       string `json:"username" validate:"required"`
	Password       string `json:"password"` // vacío = sin cambio
	NombreCompleto string `json:"nombre_completo"`
	Cargo          string `json:"cargo"`
	RolID          string `json:"rol_id" validate:"required,uuid"`
	TurnoID        string `json:"turno_id" validate:"omitempty,uuid"`
}

type UsuarioFiltro struct {
	Username       string
	NombreCompleto string
	RolID          string
	TurnoID        string
}

type CrearRolRequest struct {
	Nombre string `json:"nombre" validate:"required"`
}

type RolResponse struct {
	ID           string   `json:"id"`
	Nombre       string   `json:"nombre"`
	Superusuario bool     `json:"superusuario"`
	Permisos     []string `json:"permisos"`
	Visibles     []string `json:"visibles"`
	Usuarios     int64    `json:"usuarios"`
}

type PermisoResponse struct {
	ID          string `json:"id"`
	Nombre      string `json:"nombre"`
	Descripcion string `json:"descripcion"`
}

type AsignarPermisosRequest struct {
	PermisoIDs []string `json:"permiso_ids" validate:"required,dive,uuid"`
}

type AsignarAccesosRequest struct {
	RolIDs []string `json:"rol_ids" validate:"required,dive,uuid"`
}

type CrearTurnoRequest struct {
	Nombre string `json:"nombre" validate:"required"`
}

type TurnoResponse struct {
	ID     string `json:"id"`
	Nombre string `json:"nombre"`
}
