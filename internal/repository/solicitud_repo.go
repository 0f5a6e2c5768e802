package repository

import (
	"context"
	"errors"
	"time"

	"github.com/Berdoom/Nidec-01/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SolicitudRepository interface {
	Create(ctx context.Context, s *model.SolicitudCorreccion) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.SolicitudCorreccion, error)
	Update(ctx context.Context, s *model.SolicitudCorreccion) error
	List(ctx context.Context, desde, hasta *time.Time, grupo, status string) ([]model.SolicitudCorreccion, error)
	CountPendientes(ctx context.Context) (int64, error)
}

type solicitudRepo struct{ db *gorm.DB }

func NewSolicitudRepository(db *gorm.DB) SolicitudRepository { return &solicitudRepo{db: db} }

func (r *solicitudRepo) Create(ctx context.Context, s *model.SolicitudCorreccion) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *solicitudRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.SolicitudCorreccion, error) {
	var s model.SolicitudCorreccion
	err := r.db.WithContext(ctx).First(&s, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &s, err
}

func (r *solicitudRepo) Update(ctx context.Context, s *model.SolicitudCorreccion) error {
	return r.db.WithContext(ctx).Save(s).Error
}

func (r *solicitudRepo) List(ctx context.Context, desde, hasta *time.Time, grupo, status string) ([]model.SolicitudCorreccion, error) {
	q := r.db.WithContext(ctx).Model(&model.SolicitudCorreccion{})
	if desde != nil {
		q = q.Where("fecha_problema >= ?", *desde)
	}
	if hasta != nil {
		q = q.Where("fecha_problema <= ?", *hasta)
	}
	if grupo != "" {
		q = q.Where("grupo = ?", grupo)
	}
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var out []model.SolicitudCorreccion
	err := q.Order("timestamp DESC").Find(&out).Error
	return out, err
}

func (r *solicitudRepo) CountPendientes(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.SolicitudCorreccion{}).
		Where("status = ?", model.StatusPendiente).
		Count(&n).Error
	return n, err
}
