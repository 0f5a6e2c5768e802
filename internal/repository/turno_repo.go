package repository

import (
	"context"
	"errors"

	"github.com/Berdoom/Nidec-01/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TurnoRepository interface {
	Create(ctx context.Context, t *model.Turno) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Turno, error)
	FindByNombre(ctx context.Context, nombre string) (*model.Turno, error)
	List(ctx context.Context) ([]model.Turno, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type turnoRepo struct{ db *gorm.DB }

func NewTurnoRepository(db *gorm.DB) TurnoRepository { return &turnoRepo{db: db} }

func (r *turnoRepo) Create(ctx context.Context, t *model.Turno) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *turnoRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Turno, error) {
	var t model.Turno
	err := r.db.WithContext(ctx).First(&t, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &t, err
}

func (r *turnoRepo) FindByNombre(ctx context.Context, nombre string) (*model.Turno, error) {
	var t model.Turno
	err := r.db.WithContext(ctx).Where("nombre = ?", nombre).First(&t).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &t, err
}

func (r *turnoRepo) List(ctx context.Context) ([]model.Turno, error) {
	var turnos []model.Turno
	err := r.db.WithContext(ctx).Order("nombre").Find(&turnos).Error
	return turnos, err
}

func (r *turnoRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Turno{}, "id = ?", id).Error
}
