package repository

import (
	"context"
	"time"

	"github.com/Berdoom/Nidec-01/internal/dto"
	"github.com/Berdoom/Nidec-01/internal/model"

	"gorm.io/gorm"
)

type BitacoraRepository interface {
	Create(ctx context.Context, r *model.RegistroActividad) error
	List(ctx context.Context, f dto.BitacoraFiltro, limit int) ([]model.RegistroActividad, error)
}

type bitacoraRepo struct{ db *gorm.DB }

func NewBitacoraRepository(db *gorm.DB) BitacoraRepository { return &bitacoraRepo{db: db} }

func (r *bitacoraRepo) Create(ctx context.Context, reg *model.RegistroActividad) error {
	return r.db.WithContext(ctx).Create(reg).Error
}

func (r *bitacoraRepo) List(ctx context.Context, f dto.BitacoraFiltro, limit int) ([]model.RegistroActividad, error) {
	q := r.db.WithContext(ctx).Model(&model.RegistroActividad{})
	if f.FechaInicio != "" {
		if d, err := time.Parse("2006-01-02", f.FechaInicio); err == nil {
			q = q.Where("timestamp >= ?", d)
		}
	}
	if f.FechaFin != "" {
		if d, err := time.Parse("2006-01-02", f.FechaFin); err == nil {
			q = q.Where("timestamp < ?", d.AddDate(0, 0, 1))
		}
	}
	if f.Usuario != "" {
		q = q.Where("LOWER(username) LIKE LOWER(?)", "%"+f.Usuario+"%")
	}
	if f.AreaGrupo != "" {
		q = q.Where("area_grupo = ?", f.AreaGrupo)
	}
	if f.Categoria != "" {
		q = q.Where("categoria = ?", f.Categoria)
	}
	if f.Severidad != "" {
		q = q.Where("severidad = ?", f.Severidad)
	}
	var out []model.RegistroActividad
	err := q.Order("timestamp DESC").Limit(limit).Find(&out).Error
	return out, err
}
