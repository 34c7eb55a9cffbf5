package repository

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/tavolohq/tavolo/internal/inventory/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, item *domain.Inventory) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO inventory (id, item_name, stock_quantity, unit, threshold, supplier, last_restock_date, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		item.ID,
		item.ItemName,
		item.StockQuantity,
		item.Unit,
		item.Threshold,
		item.Supplier,
		item.LastRestockDate,
		item.CreatedAt,
		item.UpdatedAt,
	).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Inventory, error) {
	var item domain.Inventory
	err := db.WithContext(ctx).Raw(
		`SELECT id, item_name, stock_quantity, unit, threshold, supplier, last_restock_date, created_at, updated_at
		 FROM inventory WHERE id = ?`,
		id,
	).Scan(&item).Error
	if err != nil {
		return nil, err
	}
	if item.ID == 0 {
		return nil, nil
	}
	return &item, nil
}

func (r *repo) FindAll(ctx context.Context, db *gorm.DB) ([]domain.Inventory, error) {
	var items []domain.Inventory
	err := db.WithContext(ctx).Raw(
		`SELECT id, item_name, stock_quantity, unit, threshold, supplier, last_restock_date, created_at, updated_at
		 FROM inventory ORDER BY item_name ASC`,
	).Scan(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repo) FindLowStock(ctx context.Context, db *gorm.DB) ([]domain.Inventory, error) {
	var items []domain.Inventory
	err := db.WithContext(ctx).Raw(
		`SELECT id, item_name, stock_quantity, unit, threshold, supplier, last_restock_date, created_at, updated_at
		 FROM inventory WHERE stock_quantity <= threshold`,
	).Scan(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

// Delete removes the item and its ledger. The FK carries ON DELETE CASCADE
// on postgres/mysql; logs are removed explicitly so sqlite behaves the same.
func (r *repo) Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) error {
	if err := db.WithContext(ctx).Exec(
		`DELETE FROM inventory_logs WHERE inventory_id = ?`, id,
	).Error; err != nil {
		return err
	}
	return db.WithContext(ctx).Exec(
		`DELETE FROM inventory WHERE id = ?`, id,
	).Error
}

func (r *repo) ApplyDelta(ctx context.Context, db *gorm.DB, id snowflake.ID, delta int64, at time.Time) (bool, error) {
	result := db.WithContext(ctx).Exec(
		`UPDATE inventory
		 SET stock_quantity = stock_quantity + ?, last_restock_date = ?, updated_at = ?
		 WHERE id = ? AND stock_quantity + ? >= 0`,
		delta,
		at.UTC(),
		at.UTC(),
		id,
		delta,
	)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *repo) InsertLog(ctx context.Context, db *gorm.DB, entry *domain.InventoryLog) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO inventory_logs (id, inventory_id, change_type, quantity_changed, note, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		entry.ID,
		entry.InventoryID,
		string(entry.ChangeType),
		entry.QuantityChanged,
		entry.Note,
		entry.CreatedAt,
	).Error
}

func (r *repo) FindLogs(ctx context.Context, db *gorm.DB, inventoryID snowflake.ID) ([]domain.InventoryLog, error) {
	var entries []domain.InventoryLog
	err := db.WithContext(ctx).Raw(
		`SELECT id, inventory_id, change_type, quantity_changed, note, created_at
		 FROM inventory_logs WHERE inventory_id = ?
		 ORDER BY id DESC`,
		inventoryID,
	).Scan(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *repo) SumLogDeltas(ctx context.Context, db *gorm.DB, inventoryID snowflake.ID) (int64, error) {
	var sum int64
	err := db.WithContext(ctx).Raw(
		`SELECT COALESCE(SUM(quantity_changed), 0)
		 FROM inventory_logs WHERE inventory_id = ?`,
		inventoryID,
	).Scan(&sum).Error
	if err != nil {
		return 0, err
	}
	return sum, nil
}
