package repository

import (
	"context"
	"errors"

	"github.com/Berdoom/Nidec-01/internal/dto"
	"github.com/Berdoom/Nidec-01/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UsuarioRepository interface {
	Create(ctx context.Context, u *model.Usuario) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Usuario, error)
	FindByUsername(ctx context.Context, username string) (*model.Usuario, error)
	List(ctx context.Context, f dto.UsuarioFiltro) ([]model.Usuario, error)
	Update(ctx context.Context, u *model.Usuario) error
	Delete(ctx context.Context, id uuid.UUID) error
	CountByRol(ctx context.Context, rolID uuid.UUID) (int64, error)
	CountByTurno(ctx context.Context, turnoID uuid.UUID) (int64, error)
}

type usuarioRepo struct{ db *gorm.DB }

func NewUsuarioRepository(db *gorm.DB) UsuarioRepository { return &usuarioRepo{db: db} }

func (r *usuarioRepo) Create(ctx context.Context, u *model.Usuario) error {
	return r.db.WithContext(ctx).Create(u).Error
}

func (r *usuarioRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Usuario, error) {
	var u model.Usuario
	err := r.db.WithContext(ctx).
		Preload("Rol").Preload("Turno").
		First(&u, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &u, err
}

// FindByUsername eagerly loads the full authorization graph (permissions and
// viewable roles) — it backs login and access-snapshot derivation.
func (r *usuarioRepo) FindByUsername(ctx context.Context, username string) (*model.Usuario, error) {
	var u model.Usuario
	err := r.db.WithContext(ctx).
		Preload("Rol.Permisos").Preload("Rol.Visibles").Preload("Turno").
		Where("username = ?", username).
		First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &u, err
}

func (r *usuarioRepo) List(ctx context.Context, f dto.UsuarioFiltro) ([]model.Usuario, error) {
	q := r.db.WithContext(ctx).Preload("Rol").Preload("Turno").Model(&model.Usuario{})
	if f.Username != "" {
		q = q.Where("LOWER(username) LIKE LOWER(?)", "%"+f.Username+"%")
	}
	if f.NombreCompleto != "" {
		q = q.Where("LOWER(nombre_completo) LIKE LOWER(?)", "%"+f.NombreCompleto+"%")
	}
	if f.RolID != "" {
		q = q.Where("rol_id = ?", f.RolID)
	}
	if f.TurnoID != "" {
		q = q.Where("turno_id = ?", f.TurnoID)
	}
	var users []model.Usuario
	err := q.Order("created_at").Find(&users).Error
	return users, err
}

func (r *usuarioRepo) Update(ctx context.Context, u *model.Usuario) error {
	return r.db.WithContext(ctx).Save(u).Error
}

func (r *usuarioRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Usuario{}, "id = ?", id).Error
}

func (r *usuarioRepo) CountByRol(ctx context.Context, rolID uuid.UUID) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Usuario{}).Where("rol_id = ?", rolID).Count(&n).Error
	return n, err
}

func (r *usuarioRepo) CountByTurno(ctx context.Context, turnoID uuid.UUID) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Usuario{}).Where("turno_id = ?", turnoID).Count(&n).Error
	return n, err
}
