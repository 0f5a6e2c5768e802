package repository

import (
	"context"
	"errors"

	"github.com/Berdoom/Nidec-01/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type RolRepository interface {
	Create(ctx context.Context, rol *model.Rol) error
	Update(ctx context.Context, rol *model.Rol) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Rol, error)
	FindByNombre(ctx context.Context, nombre string) (*model.Rol, error)
	FindPorIDs(ctx context.Context, ids []uuid.UUID) ([]model.Rol, error)
	List(ctx context.Context) ([]model.Rol, error)
	Delete(ctx context.Context, id uuid.UUID) error
	ReplacePermisos(ctx context.Context, rol *model.Rol, permisos []model.Permiso) error
	ReplaceVisibles(ctx context.Context, rol *model.Rol, visibles []*model.Rol) error
	SavePermiso(ctx context.Context, p *model.Permiso) error
	ListPermisos(ctx context.Context) ([]model.Permiso, error)
	FindPermisoPorNombre(ctx context.Context, nombre string) (*model.Permiso, error)
	FindPermisosPorIDs(ctx context.Context, ids []uuid.UUID) ([]model.Permiso, error)
}

type rolRepo struct{ db *gorm.DB }

func NewRolRepository(db *gorm.DB) RolRepository { return &rolRepo{db: db} }

func (r *rolRepo) Create(ctx context.Context, rol *model.Rol) error {
	return r.db.WithContext(ctx).Create(rol).Error
}

func (r *rolRepo) Update(ctx context.Context, rol *model.Rol) error {
	return r.db.WithContext(ctx).Save(rol).Error
}

func (r *rolRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Rol, error) {
	var rol model.Rol
	err := r.db.WithContext(ctx).
		Preload("Permisos").Preload("Visibles").
		First(&rol, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &rol, err
}

func (r *rolRepo) FindByNombre(ctx context.Context, nombre string) (*model.Rol, error) {
	var rol model.Rol
	err := r.db.WithContext(ctx).
		Preload("Permisos").Preload("Visibles").
		Where("nombre = ?", nombre).
		First(&rol).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &rol, err
}

func (r *rolRepo) FindPorIDs(ctx context.Context, ids []uuid.UUID) ([]model.Rol, error) {
	var roles []model.Rol
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&roles).Error
	return roles, err
}

func (r *rolRepo) List(ctx context.Context) ([]model.Rol, error) {
	var roles []model.Rol
	err := r.db.WithContext(ctx).
		Preload("Permisos").Preload("Visibles").
		Order("nombre").
		Find(&roles).Error
	return roles, err
}

func (r *rolRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Select("Permisos", "Visibles").Delete(&model.Rol{ID: id}).Error
}

func (r *rolRepo) ReplacePermisos(ctx context.Context, rol *model.Rol, permisos []model.Permiso) error {
	return r.db.WithContext(ctx).Model(rol).Association("Permisos").Replace(permisos)
}

func (r *rolRepo) ReplaceVisibles(ctx context.Context, rol *model.Rol, visibles []*model.Rol) error {
	return r.db.WithContext(ctx).Model(rol).Association("Visibles").Replace(visibles)
}

func (r *rolRepo) SavePermiso(ctx context.Context, p *model.Permiso) error {
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *rolRepo) ListPermisos(ctx context.Context) ([]model.Permiso, error) {
	var permisos []model.Permiso
	err := r.db.WithContext(ctx).Order("nombre").Find(&permisos).Error
	return permisos, err
}

func (r *rolRepo) FindPermisoPorNombre(ctx context.Context, nombre string) (*model.Permiso, error) {
	var p model.Permiso
	err := r.db.WithContext(ctx).Where("nombre = ?", nombre).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &p, err
}

func (r *rolRepo) FindPermisosPorIDs(ctx context.Context, ids []uuid.UUID) ([]model.Permiso, error) {
	var permisos []model.Permiso
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&permisos).Error
	return permisos, err
}
