package infra

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/Berdoom/Nidec-01/internal/config"
	"github.com/Berdoom/Nidec-01/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase opens the plant database: PostgreSQL when DATABASE_URL is set,
// otherwise a local SQLite file so a developer laptop or a small single-line
// install runs without extra services. AutoMigrate keeps the schema current
// on both.
func NewDatabase(cfg *config.Config) (*gorm.DB, error) {
	var dialector gorm.Dialector
	if cfg.DatabaseURL != "" {
		dialector = postgres.Open(cfg.DatabaseURL)
	} else {
		if dir := filepath.Dir(cfg.SQLitePath); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("crear directorio de sqlite: %w", err)
			}
		}
		dialector = sqlite.Open(cfg.SQLitePath)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	if cfg.DatabaseURL != "" {
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(25)
		sqlDB.SetMaxIdleConns(5)
	}

	if err := RunMigrations(db); err != nil {
		return nil, fmt.Errorf("AutoMigrate: %w", err)
	}
	return db, nil
}

// RunMigrations creates or updates every table. Also used by the seeddb CLI.
func RunMigrations(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.Permiso{},
		&model.Rol{},
		&model.Turno{},
		&model.Usuario{},
		&model.Pronostico{},
		&model.ProduccionCaptura{},
		&model.OutputData{},
		&model.Orden{},
		&model.Columna{},
		&model.Celda{},
		&model.SolicitudCorreccion{},
		&model.RegistroActividad{},
	)
}
