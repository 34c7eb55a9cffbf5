package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

// Repository is the persistence boundary for inventory rows and their
// ledger. Callers pass the handle so reads and writes can share one
// transaction.
type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, item *Inventory) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Inventory, error)
	FindAll(ctx context.Context, db *gorm.DB) ([]Inventory, error)
	FindLowStock(ctx context.Context, db *gorm.DB) ([]Inventory, error)
	Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) error

	// ApplyDelta moves the running quantity by delta, guarded so the
	// result can never go below zero. The guard is evaluated by the
	// database under the row write lock; a false return means the guard
	// failed (or the row vanished) and nothing was written. Every
	// successful delta stamps last_restock_date.
	ApplyDelta(ctx context.Context, db *gorm.DB, id snowflake.ID, delta int64, at time.Time) (bool, error)

	InsertLog(ctx context.Context, db *gorm.DB, entry *InventoryLog) error
	FindLogs(ctx context.Context, db *gorm.DB, inventoryID snowflake.ID) ([]InventoryLog, error)
	SumLogDeltas(ctx context.Context, db *gorm.DB, inventoryID snowflake.ID) (int64, error)
}
