package model

import (
	"time"

	"github.com/google/uuid"
)

// Actor sentinel for entries not attributable to a logged-in user.
const ActorSistema = "Sistema"

// Log entry categories and severities — fixed catalogs used by the viewer filters.
const (
	CategoriaAutenticacion = "Autenticación"
	CategoriaDatos         = "Datos"
	CategoriaSeguridad     = "Seguridad"
	CategoriaSistema       = "Sistema"
	CategoriaGeneral       = "General"

	SeveridadInfo     = "Info"
	SeveridadWarning  = "Warning"
	SeveridadCritical = "Critical"
	SeveridadError    = "Error"
)

var CategoriasBitacora = []string{CategoriaAutenticacion, CategoriaDatos, CategoriaSeguridad, CategoriaSistema, CategoriaGeneral}
var SeveridadesBitacora = []string{SeveridadInfo, SeveridadWarning, SeveridadCritical, SeveridadError}

// RegistroActividad is one append-only audit entry. The application never
// mutates or deletes rows of this table.
type RegistroActividad struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Timestamp time.Time `gorm:"index"`
	Username  string    `gorm:"size:80;index"`
	Accion    string    `gorm:"size:255"`
	Detalles  string    `gorm:"type:text"`
	AreaGrupo string    `gorm:"size:50;index"`
	IPAddress string    `gorm:"size:45"`
	Categoria string    `gorm:"size:50"`
	Severidad string    `gorm:"size:20"`
}

func (RegistroActividad) TableName() string { return "registros_actividad" }
