package dto

import "time"

type BitacoraFiltro struct {
	FechaInicio string `form:"fecha_inicio"`
	FechaFin    string `form:"fecha_fin"`
	Usuario     string `form:"usuario"`
	AreaGrupo   string `form:"area_grupo"`
	Categoria   string `form:"categoria"`
	Severidad   string `form:"severidad"`
}

type RegistroActividadResponse struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Username  string    `json:"username"`
	Accion    string    `json:"accion"`
	Detalles  string    `json:"detalles"`
	AreaGrupo string    `json:"area_grupo"`
	IPAddress string    `json:"ip_address"`
	Categoria string    `json:"categoria"`
	Severidad string    `json:"severidad"`
}
