package domain

import (
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
)

// ChangeType classifies a stock-ledger movement.
type ChangeType string

const (
	ChangeTypeIn         ChangeType = "IN"         // inbound stock (restock, delivery)
	ChangeTypeOut        ChangeType = "OUT"        // outbound stock (kitchen usage, sale)
	ChangeTypeAdjustment ChangeType = "ADJUSTMENT" // manual correction, either sign
)

func (c ChangeType) Valid() bool {
	switch c {
	case ChangeTypeIn, ChangeTypeOut, ChangeTypeAdjustment:
		return true
	default:
		return false
	}
}

// Inventory is one stocked item. StockQuantity is the running aggregate of
// the item's ledger and must equal the sum of its log deltas after every
// committed mutation. Nothing outside the stock service writes it.
type Inventory struct {
	ID              snowflake.ID `gorm:"primaryKey"`
	ItemName        string       `gorm:"type:text;not null;uniqueIndex:ux_inventory_item_name"`
	StockQuantity   int64        `gorm:"not null;default:0"`
	Unit            string       `gorm:"type:text;not null"`
	Threshold       int64        `gorm:"not null;default:5"`
	Supplier        *string      `gorm:"type:text"`
	LastRestockDate *time.Time
	CreatedAt       time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt       time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (Inventory) TableName() string { return "inventory" }

// InventoryLog is one immutable stock-ledger entry. Sign convention: IN
// deltas are positive, OUT deltas are stored negative, ADJUSTMENT deltas
// carry either sign. Rows are never updated and only removed when the
// owning item is deleted.
type InventoryLog struct {
	ID              snowflake.ID `gorm:"primaryKey"`
	InventoryID     snowflake.ID `gorm:"not null;index"`
	ChangeType      ChangeType   `gorm:"type:text;not null"`
	QuantityChanged int64        `gorm:"not null"`
	Note            *string      `gorm:"type:text"`
	CreatedAt       time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (InventoryLog) TableName() string { return "inventory_logs" }

// NewLog validates and builds a ledger entry. A zero delta or an unknown
// change type yields ErrInvalidEntry; the sign must match the change type.
func NewLog(id, inventoryID snowflake.ID, changeType ChangeType, delta int64, note string, at time.Time) (*InventoryLog, error) {
	if !changeType.Valid() {
		return nil, ErrInvalidEntry
	}
	if delta == 0 {
		return nil, ErrInvalidEntry
	}
	if changeType == ChangeTypeIn && delta < 0 {
		return nil, ErrInvalidEntry
	}
	if changeType == ChangeTypeOut && delta > 0 {
		return nil, ErrInvalidEntry
	}

	entry := &InventoryLog{
		ID:              id,
		InventoryID:     inventoryID,
		ChangeType:      changeType,
		QuantityChanged: delta,
		CreatedAt:       at.UTC(),
	}
	if trimmed := strings.TrimSpace(note); trimmed != "" {
		entry.Note = &trimmed
	}
	return entry, nil
}
