package migration

import (
	auditdomain "github.com/tavolohq/tavolo/internal/audit/domain"
	"github.com/tavolohq/tavolo/internal/config"
	inventorydomain "github.com/tavolohq/tavolo/internal/inventory/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func runOnStartup(cfg config.Config, gdb *gorm.DB, log *zap.Logger) error {
	if !cfg.RunMigrations {
		log.Info("migrations disabled, skipping")
		return nil
	}

	// Versioned SQL migrations carry the real schema (FK cascade, check
	// constraints). AutoMigrate covers the dialects the SQL files do not
	// target, mainly sqlite in development.
	if cfg.DBType == "postgres" {
		sqlDB, err := gdb.DB()
		if err != nil {
			return err
		}
		if err := RunMigrations(sqlDB); err != nil {
			return err
		}
		log.Info("migrations applied")
		return nil
	}

	if err := gdb.AutoMigrate(
		&inventorydomain.Inventory{},
		&inventorydomain.InventoryLog{},
		&auditdomain.AuditLog{},
	); err != nil {
		return err
	}
	log.Info("schema auto-migrated", zap.String("db_type", cfg.DBType))
	return nil
}

var Module = fx.Module("migrations",
	fx.Invoke(runOnStartup),
)
