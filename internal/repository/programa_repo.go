package repository

import (
	"context"
	"errors"

	"github.com/Berdoom/Nidec-01/internal/dto"
	"github.com/Berdoom/Nidec-01/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProgramaRepository interface {
	DB() *gorm.DB

	ListOrdenes(ctx context.Context, programa string, f dto.OrdenFiltro) ([]model.Orden, int64, error)
	FindOrdenPorID(ctx context.Context, id uuid.UUID) (*model.Orden, error)
	FindOrdenPorClave(ctx context.Context, programa, clave string) (*model.Orden, error)
	ClavesRepetidas(ctx context.Context, programa string) (map[string]bool, map[string]bool, error)
	CreateOrden(tx *gorm.DB, o *model.Orden) error
	UpdateOrden(ctx context.Context, o *model.Orden) error
	DeleteOrden(ctx context.Context, id uuid.UUID) error

	ListColumnas(ctx context.Context, programa string) ([]model.Columna, error)
	FindColumnaPorID(ctx context.Context, id uuid.UUID) (*model.Columna, error)
	FindColumnaPorNombre(ctx context.Context, programa, nombre string) (*model.Columna, error)
	CreateColumna(ctx context.Context, c *model.Columna) error
	UpdateColumna(ctx context.Context, c *model.Columna) error
	DeleteColumna(ctx context.Context, id uuid.UUID) error
	MaxOrdenColumna(ctx context.Context, programa string) (int, error)

	FindCelda(tx *gorm.DB, ordenID, columnaID uuid.UUID) (*model.Celda, error)
	SaveCelda(tx *gorm.DB, c *model.Celda) error
	DeleteCelda(tx *gorm.DB, id uuid.UUID) error
}

type programaRepo struct{ db *gorm.DB }

func NewProgramaRepository(db *gorm.DB) ProgramaRepository { return &programaRepo{db: db} }

func (r *programaRepo) DB() *gorm.DB { return r.db }

func (r *programaRepo) ListOrdenes(ctx context.Context, programa string, f dto.OrdenFiltro) ([]model.Orden, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Orden{}).Where("programa = ?", programa)
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.Clave != "" {
		q = q.Where("LOWER(clave) LIKE LOWER(?)", "%"+f.Clave+"%")
	}
	if f.Secundaria != "" {
		q = q.Where("LOWER(secundaria) LIKE LOWER(?)", "%"+f.Secundaria+"%")
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page := f.Page
	if page < 1 {
		page = 1
	}
	var ordenes []model.Orden
	err := q.Preload("Celdas").
		Order("timestamp, id").
		Offset((page - 1) * dto.PaginasPrograma).
		Limit(dto.PaginasPrograma).
		Find(&ordenes).Error
	return ordenes, total, err
}

func (r *programaRepo) FindOrdenPorID(ctx context.Context, id uuid.UUID) (*model.Orden, error) {
	var o model.Orden
	err := r.db.WithContext(ctx).Preload("Celdas").First(&o, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &o, err
}

func (r *programaRepo) FindOrdenPorClave(ctx context.Context, programa, clave string) (*model.Orden, error) {
	var o model.Orden
	err := r.db.WithContext(ctx).
		Where("programa = ? AND clave = ?", programa, clave).
		First(&o).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &o, err
}

// ClavesRepetidas returns the business keys and secondary keys that appear on
// more than one pending row, for duplicate highlighting.
func (r *programaRepo) ClavesRepetidas(ctx context.Context, programa string) (map[string]bool, map[string]bool, error) {
	type fila struct{ Val string }

	claves := map[string]bool{}
	var rows []fila
	err := r.db.WithContext(ctx).Model(&model.Orden{}).
		Select("clave AS val").
		Where("programa = ? AND status = ?", programa, model.StatusPendiente).
		Group("clave").Having("COUNT(*) > 1").
		Scan(&rows).Error
	if err != nil {
		return nil, nil, err
	}
	for _, f := range rows {
		claves[f.Val] = true
	}

	secundarias := map[string]bool{}
	rows = nil
	err = r.db.WithContext(ctx).Model(&model.Orden{}).
		Select("secundaria AS val").
		Where("programa = ? AND status = ? AND secundaria <> ''", programa, model.StatusPendiente).
		Group("secundaria").Having("COUNT(*) > 1").
		Scan(&rows).Error
	if err != nil {
		return nil, nil, err
	}
	for _, f := range rows {
		secundarias[f.Val] = true
	}
	return claves, secundarias, nil
}

func (r *programaRepo) CreateOrden(tx *gorm.DB, o *model.Orden) error {
	return tx.Create(o).Error
}

func (r *programaRepo) UpdateOrden(ctx context.Context, o *model.Orden) error {
	return r.db.WithContext(ctx).Save(o).Error
}

func (r *programaRepo) DeleteOrden(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("orden_id = ?", id).Delete(&model.Celda{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Orden{}, "id = ?", id).Error
	})
}

func (r *programaRepo) ListColumnas(ctx context.Context, programa string) ([]model.Columna, error) {
	var cols []model.Columna
	err := r.db.WithContext(ctx).
		Where("programa = ?", programa).
		Order("orden, nombre").
		Find(&cols).Error
	return cols, err
}

func (r *programaRepo) FindColumnaPorID(ctx context.Context, id uuid.UUID) (*model.Columna, error) {
	var c model.Columna
	err := r.db.WithContext(ctx).First(&c, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &c, err
}

func (r *programaRepo) FindColumnaPorNombre(ctx context.Context, programa, nombre string) (*model.Columna, error) {
	var c model.Columna
	err := r.db.WithContext(ctx).
		Where("programa = ? AND nombre = ?", programa, nombre).
		First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &c, err
}

func (r *programaRepo) CreateColumna(ctx context.Context, c *model.Columna) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *programaRepo) UpdateColumna(ctx context.Context, c *model.Columna) error {
	return r.db.WithContext(ctx).Save(c).Error
}

func (r *programaRepo) DeleteColumna(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("columna_id = ?", id).Delete(&model.Celda{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Columna{}, "id = ?", id).Error
	})
}

func (r *programaRepo) MaxOrdenColumna(ctx context.Context, programa string) (int, error) {
	var max int
	row := r.db.WithContext(ctx).Model(&model.Columna{}).
		Select("COALESCE(MAX(orden), 0)").
		Where("programa = ?", programa).
		Row()
	err := row.Scan(&max)
	return max, err
}

func (r *programaRepo) FindCelda(tx *gorm.DB, ordenID, columnaID uuid.UUID) (*model.Celda, error) {
	var c model.Celda
	err := tx.Where("orden_id = ? AND columna_id = ?", ordenID, columnaID).First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &c, err
}

func (r *programaRepo) SaveCelda(tx *gorm.DB, c *model.Celda) error {
	return tx.Save(c).Error
}

func (r *programaRepo) DeleteCelda(tx *gorm.DB, id uuid.UUID) error {
	return tx.Delete(&model.Celda{}, "id = ?", id).Error
}
