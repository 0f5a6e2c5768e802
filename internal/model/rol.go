package model

import (
	"github.com/google/uuid"
)

// Permiso is one entry of the static permission catalog. Permissions are
// referenced by name in authorization checks and are never renamed at runtime.
type Permiso struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	Nombre      string    `gorm:"size:100;uniqueIndex;not null"`
	Descripcion string    `gorm:"size:255"`
}

func (Permiso) TableName() string { return "permisos" }

// Rol groups permissions and data visibility. Superusuario marks roles that
// bypass every permission check; the flag lives on the row so authorization
// never compares role names. ADMIN and ARTISAN ship with it; ADMIN keeps an
// explicit permission list besides, for the permission screens.
//
// Visibles is directed: rol A puede ver los datos del grupo de rol B. The
// seeder and AsignarAccesos keep every role viewing itself.
type Rol struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	Nombre       string    `gorm:"size:50;uniqueIndex;not null"`
	Superusuario bool      `gorm:"not null;default:false"`
	Permisos     []Permiso `gorm:"many2many:rol_permisos;constraint:OnDelete:CASCADE"`
	Visibles     []*Rol    `gorm:"many2many:rol_visibles;joinForeignKey:rol_id;joinReferences:visible_id"`
}

func (Rol) TableName() string { return "roles" }

// Nombres de permisos del catálogo. Los textos coinciden con los que la
// interfaz web histórica ya tenía repartidos por sus plantillas.
const (
	PermAdminAccess    = "admin.access"
	PermDashboardAdmin = "dashboard.view.admin"
	PermDashboardGroup = "dashboard.view.group"
	PermCaptura        = "captura.access"
	PermRegistro       = "registro.view"
	PermReportes       = "reportes.view"
	PermLMView         = "programa_lm.view"
	PermLMEdit         = "programa_lm.edit"
	PermLMAdmin        = "programa_lm.admin"
	PermRotoresView    = "programa_rotores.view"
	PermRotoresEdit    = "programa_rotores.edit"
	PermRotoresAdmin   = "programa_rotores.admin"
	PermUsersManage    = "users.manage"
	PermRolesManage    = "roles.manage"
	PermLogsView       = "logs.view"
	PermActionsCenter  = "actions.center"
	PermBorradoMaestro = "borrado.maestro"
)

// CatalogoPermisos is seeded at init and listed on the permission screens.
var CatalogoPermisos = map[string]string{
	PermAdminAccess:    "Acceso global a todas las funciones.",
	PermDashboardAdmin: "Ver el dashboard de administrador.",
	PermDashboardGroup: "Ver dashboards de grupo (IHP/FHP).",
	PermCaptura:        "Acceder a las páginas de captura.",
	PermRegistro:       "Ver las páginas de registro de producción.",
	PermReportes:       "Ver la página de reportes.",
	PermLMView:         "Ver el programa LM.",
	PermLMEdit:         "Editar celdas y estado en programa LM.",
	PermLMAdmin:        "Administrar filas y columnas del programa LM.",
	PermRotoresView:    "Ver el programa de Rotores.",
	PermRotoresEdit:    "Editar celdas y estado en programa de Rotores.",
	PermRotoresAdmin:   "Administrar filas y columnas del programa de Rotores.",
	PermUsersManage:    "Gestionar usuarios.",
	PermRolesManage:    "Gestionar roles y permisos.",
	PermLogsView:       "Ver el log de actividad.",
	PermActionsCenter:  "Gestionar el centro de acciones.",
	PermBorradoMaestro: "Permiso único para el borrado masivo de datos.",
}

// RolesProtegidos cannot be deleted from the admin screens.
var RolesProtegidos = map[string]bool{
	"ADMIN":            true,
	"ARTISAN":          true,
	"IHP":              true,
	"FHP":              true,
	"PROGRAMA_LM":      true,
	"PROGRAMA_ROTORES": true,
}
