package model

import (
	"time"

	"github.com/google/uuid"
)

// The LM and Rotores programs share one dynamic-column board model. Rows,
// columns and cells carry a Programa discriminator instead of living in
// duplicated table pairs; a Tablero descriptor parameterizes the behavior
// that differs between the two.

const (
	ProgramaLM      = "LM"
	ProgramaRotores = "ROTORES"
)

// Orden is one board row. Clave is the business key (WIP order for LM, item
// for Rotores), unique per board. Status toggles between Pendiente and
// Aprobada, fully reversible.
type Orden struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	Programa   string    `gorm:"size:20;not null;index;uniqueIndex:uq_orden_clave,priority:1"`
	Clave      string    `gorm:"size:100;not null;uniqueIndex:uq_orden_clave,priority:2"`
	Secundaria string    `gorm:"size:100"`
	Cantidad   int       `gorm:"not null;default:1"`
	Timestamp  time.Time `gorm:"index"`
	Status     string    `gorm:"size:50;not null;default:'Pendiente';index"`

	Celdas []Celda `gorm:"foreignKey:OrdenID;constraint:OnDelete:CASCADE"`
}

func (Orden) TableName() string { return "ordenes" }

// Columna is a user-defined board column. EditablePorGrupo distinguishes the
// columns the program role may write from admin-only ones; it is only
// enforced on boards whose Tablero sets FlagEdicionColumnas.
type Columna struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey"`
	Programa         string    `gorm:"size:20;not null;index;uniqueIndex:uq_columna_nombre,priority:1"`
	Nombre           string    `gorm:"size:100;not null;uniqueIndex:uq_columna_nombre,priority:2"`
	Orden            int       `gorm:"not null;default:100"`
	Ancho            int       `gorm:"not null;default:180"`
	EditablePorGrupo bool      `gorm:"not null;default:true"`

	Celdas []Celda `gorm:"foreignKey:ColumnaID;constraint:OnDelete:CASCADE"`
}

func (Columna) TableName() string { return "columnas" }

// Celda is sparse: a cell whose value and style are both empty is deleted
// rather than stored. Estilos is an opaque serialized style map the core
// never interprets.
type Celda struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrdenID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_celda_llave,priority:1"`
	ColumnaID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_celda_llave,priority:2"`
	Valor     string    `gorm:"type:text"`
	Estilos   string    `gorm:"type:text"`
}

func (Celda) TableName() string { return "celdas" }

// Tablero describes one instantiation of the board.
type Tablero struct {
	Codigo             string
	PermisoVista       string
	PermisoEdicion     string
	PermisoAdmin       string
	GrupoBitacora      string // group stamped on activity log entries
	EtiquetaClave      string // display label of the business key
	EtiquetaSecundaria string
	// DetectaDuplicados flags pending rows whose business or secondary key
	// repeats. A visual warning only, it does not block anything.
	DetectaDuplicados bool
	// FlagEdicionColumnas makes cell writes honor Columna.EditablePorGrupo.
	FlagEdicionColumnas bool
}

var TableroLM = Tablero{
	Codigo:              ProgramaLM,
	PermisoVista:        PermLMView,
	PermisoEdicion:      PermLMEdit,
	PermisoAdmin:        PermLMAdmin,
	GrupoBitacora:       "PROGRAMA_LM",
	EtiquetaClave:       "WIP Order",
	EtiquetaSecundaria:  "Item",
	DetectaDuplicados:   true,
	FlagEdicionColumnas: true,
}

var TableroRotores = Tablero{
	Codigo:             ProgramaRotores,
	PermisoVista:       PermRotoresView,
	PermisoEdicion:     PermRotoresEdit,
	PermisoAdmin:       PermRotoresAdmin,
	GrupoBitacora:      "PROGRAMA_ROTORES",
	EtiquetaClave:      "Item",
	EtiquetaSecundaria: "Item Number",
}

// TableroPorCodigo resolves a board descriptor from its program code.
func TableroPorCodigo(codigo string) (Tablero, bool) {
	switch codigo {
	case ProgramaLM:
		return TableroLM, true
	case ProgramaRotores:
		return TableroRotores, true
	}
	return Tablero{}, false
}
