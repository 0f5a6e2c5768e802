package model

import (
	"time"

	"github.com/google/uuid"
)

// SolicitudCorreccion is a data-correction request raised from the capture
// screens. Resolution stamps the acting admin, their notes and the timestamp
// in the same update as the status change.
type SolicitudCorreccion struct {
	ID                 uuid.UUID `gorm:"type:uuid;primaryKey"`
	Timestamp          time.Time `gorm:"index"`
	UsuarioSolicitante string    `gorm:"size:80;not null"`
	FechaProblema      time.Time `gorm:"type:date;not null"`
	Grupo              string    `gorm:"size:10;not null"`
	Area               string    `gorm:"size:50"`
	Turno              string    `gorm:"size:20"`
	TipoError          string    `gorm:"size:100;not null"`
	Descripcion        string    `gorm:"type:text;not null"`
	Status             string    `gorm:"size:50;default:'Pendiente';index"`
	AdminUsername      string    `gorm:"size:80"`
	FechaResolucion    *time.Time
	AdminNotas         string `gorm:"type:text"`
}

func (SolicitudCorreccion) TableName() string { return "solicitudes_correccion" }
