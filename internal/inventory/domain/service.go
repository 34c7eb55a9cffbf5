package domain

import (
	"context"
	"errors"
	"time"
)

// Service is the stock-ledger contract. Every mutation is one atomic
// transaction appending exactly one ledger entry and moving the running
// quantity by the same delta; a failure anywhere before commit leaves
// both untouched.
type Service interface {
	CreateItem(ctx context.Context, req CreateItemRequest) (*Response, error)
	GetItem(ctx context.Context, id string) (*Response, error)
	ListItems(ctx context.Context) ([]Response, error)
	DeleteItem(ctx context.Context, id string) error

	IncreaseStock(ctx context.Context, itemID string, quantity int64, note string) (*Response, error)
	DecreaseStock(ctx context.Context, itemID string, quantity int64, note string) (*Response, error)
	AdjustStock(ctx context.Context, itemID string, delta int64, note string) (*Response, error)

	GetLowStockItems(ctx context.Context) ([]Response, error)
	ListLogs(ctx context.Context, itemID string) ([]LogResponse, error)
}

type CreateItemRequest struct {
	ItemName      string  `json:"item_name"`
	StockQuantity int64   `json:"stock_quantity"`
	Unit          string  `json:"unit"`
	Threshold     *int64  `json:"threshold"`
	Supplier      *string `json:"supplier"`
}

type Response struct {
	ID              string     `json:"id"`
	ItemName        string     `json:"item_name"`
	StockQuantity   int64      `json:"stock_quantity"`
	Unit            string     `json:"unit"`
	Threshold       int64      `json:"threshold"`
	Supplier        *string    `json:"supplier,omitempty"`
	LastRestockDate *time.Time `json:"last_restock_date,omitempty"`
	LowStock        bool       `json:"low_stock"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

type LogResponse struct {
	ID              string    `json:"id"`
	InventoryID     string    `json:"inventory_id"`
	ChangeType      string    `json:"change_type"`
	QuantityChanged int64     `json:"quantity_changed"`
	Note            *string   `json:"note,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

var (
	ErrInvalidID         = errors.New("invalid_id")
	ErrInvalidItemName   = errors.New("invalid_item_name")
	ErrInvalidUnit       = errors.New("invalid_unit")
	ErrInvalidThreshold  = errors.New("invalid_threshold")
	ErrInvalidSupplier   = errors.New("invalid_supplier")
	ErrInvalidNote       = errors.New("invalid_note")
	ErrInvalidQuantity   = errors.New("invalid_quantity")
	ErrInsufficientStock = errors.New("insufficient_stock")
	ErrNegativeStock     = errors.New("negative_stock")
	ErrInvalidEntry      = errors.New("invalid_entry")
	ErrItemExists        = errors.New("item_exists")
	ErrNotFound          = errors.New("not_found")
)
