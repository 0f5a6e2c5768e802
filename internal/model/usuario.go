package model

import (
	"time"

	"github.com/google/uuid"
)

// Turno is a work shift catalog entry. "N/A" is the sentinel assigned to users
// without a production shift (administrators, planners).
type Turno struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey"`
	Nombre string    `gorm:"size:50;uniqueIndex;not null"`
}

func (Turno) TableName() string { return "turnos" }

const TurnoNA = "N/A"

// Usuario stores system users. The password is kept only as a bcrypt hash.
// Deleting a user never cascades into its Rol or Turno.
type Usuario struct {
	ID             uuid.UUID  `gorm:"type:uuid;primaryKey"`
	Username       string     `gorm:"size:80;uniqueIndex;not null"`
	PasswordHash   string     `gorm:"size:256;not null"`
	NombreCompleto string     `gorm:"size:120"`
	Cargo          string     `gorm:"size:80"`
	RolID          uuid.UUID  `gorm:"type:uuid;not null;index"`
	TurnoID        *uuid.UUID `gorm:"type:uuid;index"`
	CreatedAt      time.Time
	UpdatedAt      time.Time

	Rol   *Rol   `gorm:"foreignKey:RolID"`
	Turno *Turno `gorm:"foreignKey:TurnoID"`
}

func (Usuario) TableName() string { return "usuarios" }
