package repository

import (
	"context"
	"errors"
	"time"

	"github.com/Berdoom/Nidec-01/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TotalesGrupo are the raw numeric sums behind a KPI card. Output rows carry
// their own forecast/produced pair and are accumulated separately from the
// capturable areas.
type TotalesGrupo struct {
	PronosticoAreas int64
	ProducidoAreas  int64
	PronosticoOut   int64
	ProducidoOut    int64
}

func (t TotalesGrupo) Pronostico() int64 { return t.PronosticoAreas + t.PronosticoOut }
func (t TotalesGrupo) Producido() int64  { return t.ProducidoAreas + t.ProducidoOut }

type ProduccionRepository interface {
	DB() *gorm.DB

	Totales(ctx context.Context, grupo string, desde, hasta time.Time) (TotalesGrupo, error)
	PronosticosDeFecha(ctx context.Context, fecha time.Time, grupo string) ([]model.Pronostico, error)
	CapturasDeFecha(ctx context.Context, fecha time.Time, grupo string) ([]model.ProduccionCaptura, error)
	OutputDeFecha(ctx context.Context, fecha time.Time, grupo string) (*model.OutputData, error)

	FindPronostico(tx *gorm.DB, fecha time.Time, grupo, area, turno string) (*model.Pronostico, error)
	SavePronostico(tx *gorm.DB, p *model.Pronostico) error
	FindCaptura(tx *gorm.DB, fecha time.Time, grupo, area, hora string) (*model.ProduccionCaptura, error)
	SaveCaptura(tx *gorm.DB, c *model.ProduccionCaptura) error
	FindOutput(tx *gorm.DB, fecha time.Time, grupo string) (*model.OutputData, error)
	SaveOutput(tx *gorm.DB, o *model.OutputData) error

	FindPronosticoPorID(ctx context.Context, id uuid.UUID) (*model.Pronostico, error)
	PronosticosConRazon(ctx context.Context, desde, hasta *time.Time, grupo, status string) ([]model.Pronostico, error)
	CountPronosticosNuevos(ctx context.Context) (int64, error)

	BorrarDia(ctx context.Context, grupo string, fecha time.Time) error
}

type produccionRepo struct{ db *gorm.DB }

func NewProduccionRepository(db *gorm.DB) ProduccionRepository { return &produccionRepo{db: db} }

func (r *produccionRepo) DB() *gorm.DB { return r.db }

func (r *produccionRepo) Totales(ctx context.Context, grupo string, desde, hasta time.Time) (TotalesGrupo, error) {
	var t TotalesGrupo

	row := r.db.WithContext(ctx).Model(&model.Pronostico{}).
		Select("COALESCE(SUM(valor_pronostico), 0)").
		Where("grupo = ? AND fecha BETWEEN ? AND ?", grupo, desde, hasta).
		Row()
	if err := row.Scan(&t.PronosticoAreas); err != nil {
		return t, err
	}

	row = r.db.WithContext(ctx).Model(&model.ProduccionCaptura{}).
		Select("COALESCE(SUM(valor_producido), 0)").
		Where("grupo = ? AND fecha BETWEEN ? AND ?", grupo, desde, hasta).
		Row()
	if err := row.Scan(&t.ProducidoAreas); err != nil {
		return t, err
	}

	row = r.db.WithContext(ctx).Model(&model.OutputData{}).
		Select("COALESCE(SUM(pronostico), 0), COALESCE(SUM(output), 0)").
		Where("grupo = ? AND fecha BETWEEN ? AND ?", grupo, desde, hasta).
		Row()
	if err := row.Scan(&t.PronosticoOut, &t.ProducidoOut); err != nil {
		return t, err
	}
	return t, nil
}

func (r *produccionRepo) PronosticosDeFecha(ctx context.Context, fecha time.Time, grupo string) ([]model.Pronostico, error) {
	q := r.db.WithContext(ctx).Where("fecha = ?", fecha)
	if grupo != "" {
		q = q.Where("grupo = ?", grupo)
	}
	var out []model.Pronostico
	err := q.Find(&out).Error
	return out, err
}

func (r *produccionRepo) CapturasDeFecha(ctx context.Context, fecha time.Time, grupo string) ([]model.ProduccionCaptura, error) {
	q := r.db.WithContext(ctx).Where("fecha = ?", fecha)
	if grupo != "" {
		q = q.Where("grupo = ?", grupo)
	}
	var out []model.ProduccionCaptura
	err := q.Find(&out).Error
	return out, err
}

func (r *produccionRepo) OutputDeFecha(ctx context.Context, fecha time.Time, grupo string) (*model.OutputData, error) {
	return r.FindOutput(r.db.WithContext(ctx), fecha, grupo)
}

func (r *produccionRepo) FindPronostico(tx *gorm.DB, fecha time.Time, grupo, area, turno string) (*model.Pronostico, error) {
	var p model.Pronostico
	err := tx.Where("fecha = ? AND grupo = ? AND area = ? AND turno = ?", fecha, grupo, area, turno).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &p, err
}

func (r *produccionRepo) SavePronostico(tx *gorm.DB, p *model.Pronostico) error {
	return tx.Save(p).Error
}

func (r *produccionRepo) FindCaptura(tx *gorm.DB, fecha time.Time, grupo, area, hora string) (*model.ProduccionCaptura, error) {
	var c model.ProduccionCaptura
	err := tx.Where("fecha = ? AND grupo = ? AND area = ? AND hora = ?", fecha, grupo, area, hora).First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &c, err
}

func (r *produccionRepo) SaveCaptura(tx *gorm.DB, c *model.ProduccionCaptura) error {
	return tx.Save(c).Error
}

func (r *produccionRepo) FindOutput(tx *gorm.DB, fecha time.Time, grupo string) (*model.OutputData, error) {
	var o model.OutputData
	err := tx.Where("fecha = ? AND grupo = ?", fecha, grupo).First(&o).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &o, err
}

func (r *produccionRepo) SaveOutput(tx *gorm.DB, o *model.OutputData) error {
	return tx.Save(o).Error
}

func (r *produccionRepo) FindPronosticoPorID(ctx context.Context, id uuid.UUID) (*model.Pronostico, error) {
	var p model.Pronostico
	err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &p, err
}

// PronosticosConRazon lists forecasts that carry a deviation reason, for the
// unified action center. Empty filter values mean "any".
func (r *produccionRepo) PronosticosConRazon(ctx context.Context, desde, hasta *time.Time, grupo, status string) ([]model.Pronostico, error) {
	q := r.db.WithContext(ctx).
		Where("razon_desviacion IS NOT NULL AND razon_desviacion <> ''")
	if desde != nil {
		q = q.Where("fecha >= ?", *desde)
	}
	if hasta != nil {
		q = q.Where("fecha <= ?", *hasta)
	}
	if grupo != "" {
		q = q.Where("grupo = ?", grupo)
	}
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var out []model.Pronostico
	err := q.Order("fecha_razon DESC").Find(&out).Error
	return out, err
}

func (r *produccionRepo) CountPronosticosNuevos(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Pronostico{}).
		Where("razon_desviacion IS NOT NULL AND razon_desviacion <> '' AND status = ?", model.StatusNuevo).
		Count(&n).Error
	return n, err
}

// BorrarDia wipes the production rows of one group on one date. Only the
// master-wipe admin operation calls it.
func (r *produccionRepo) BorrarDia(ctx context.Context, grupo string, fecha time.Time) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, m := range []any{&model.ProduccionCaptura{}, &model.Pronostico{}, &model.OutputData{}} {
			if err := tx.Where("grupo = ? AND fecha = ?", grupo, fecha).Delete(m).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
