package service

import (
	"context"
	"errors"
	"strings"

	"github.com/bwmarrin/snowflake"
	auditdomain "github.com/tavolohq/tavolo/internal/audit/domain"
	"github.com/tavolohq/tavolo/internal/clock"
	"github.com/tavolohq/tavolo/internal/config"
	"github.com/tavolohq/tavolo/internal/inventory/domain"
	obsmetrics "github.com/tavolohq/tavolo/internal/observability/metrics"
	pkgdb "github.com/tavolohq/tavolo/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	maxUnitLength     = 50
	maxSupplierLength = 100
)

type Params struct {
	fx.In

	DB       *gorm.DB
	Log      *zap.Logger
	GenID    *snowflake.Node
	Clock    clock.Clock
	Policy   *config.PolicyHolder
	Repo     domain.Repository
	AuditSvc auditdomain.Service
	Metrics  *obsmetrics.Metrics `optional:"true"`
}

type Service struct {
	db       *gorm.DB
	log      *zap.Logger
	genID    *snowflake.Node
	clock    clock.Clock
	policy   *config.PolicyHolder
	repo     domain.Repository
	auditSvc auditdomain.Service
	metrics  *obsmetrics.Metrics
}

func NewService(p Params) domain.Service {
	return &Service{
		db:       p.DB,
		log:      p.Log.Named("inventory.service"),
		genID:    p.GenID,
		clock:    p.Clock,
		policy:   p.Policy,
		repo:     p.Repo,
		auditSvc: p.AuditSvc,
		metrics:  p.Metrics,
	}
}

func (s *Service) CreateItem(ctx context.Context, req domain.CreateItemRequest) (*domain.Response, error) {
	policy := s.policy.Get()

	name := strings.TrimSpace(req.ItemName)
	if name == "" || len(name) > policy.MaxNameLength {
		return nil, domain.ErrInvalidItemName
	}
	if req.StockQuantity < 0 {
		return nil, domain.ErrInvalidQuantity
	}

	unit := strings.TrimSpace(req.Unit)
	if unit == "" {
		unit = policy.DefaultUnit
	}
	if len(unit) > maxUnitLength {
		return nil, domain.ErrInvalidUnit
	}

	threshold := policy.DefaultThreshold
	if req.Threshold != nil {
		threshold = *req.Threshold
	}
	if threshold < 0 {
		return nil, domain.ErrInvalidThreshold
	}

	var supplier *string
	if req.Supplier != nil {
		trimmed := strings.TrimSpace(*req.Supplier)
		if len(trimmed) > maxSupplierLength {
			return nil, domain.ErrInvalidSupplier
		}
		if trimmed != "" {
			supplier = &trimmed
		}
	}

	now := s.clock.Now()
	item := &domain.Inventory{
		ID:            s.genID.Generate(),
		ItemName:      name,
		StockQuantity: req.StockQuantity,
		Unit:          unit,
		Threshold:     threshold,
		Supplier:      supplier,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if req.StockQuantity > 0 {
		item.LastRestockDate = &now
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.repo.Insert(ctx, tx, item); err != nil {
			if pkgdb.IsDuplicateKeyErr(err) {
				return domain.ErrItemExists
			}
			return err
		}

		// A nonzero opening balance gets a matching seeding entry so the
		// ledger-sum invariant holds from the first row.
		if req.StockQuantity > 0 {
			entry, err := domain.NewLog(s.genID.Generate(), item.ID, domain.ChangeTypeIn, req.StockQuantity, "initial stock", now)
			if err != nil {
				return err
			}
			if err := s.repo.InsertLog(ctx, tx, entry); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if req.StockQuantity > 0 {
		s.metrics.RecordStockMovement(string(domain.ChangeTypeIn))
	}
	s.writeAudit(ctx, "inventory.item_created", item.ID, map[string]any{
		"item_name":      item.ItemName,
		"stock_quantity": item.StockQuantity,
		"threshold":      item.Threshold,
	})

	return toResponse(item), nil
}

func (s *Service) GetItem(ctx context.Context, id string) (*domain.Response, error) {
	itemID, err := parseID(id)
	if err != nil {
		return nil, err
	}
	item, err := s.repo.FindByID(ctx, s.db, itemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	return toResponse(item), nil
}

func (s *Service) ListItems(ctx context.Context) ([]domain.Response, error) {
	items, err := s.repo.FindAll(ctx, s.db)
	if err != nil {
		return nil, err
	}
	return toResponses(items), nil
}

func (s *Service) DeleteItem(ctx context.Context, id string) error {
	itemID, err := parseID(id)
	if err != nil {
		return err
	}

	var deleted *domain.Inventory
	err = s.db.Transaction(func(tx *gorm.DB) error {
		item, err := s.repo.FindByID(ctx, tx, itemID)
		if err != nil {
			return err
		}
		if item == nil {
			return domain.ErrNotFound
		}
		deleted = item
		return s.repo.Delete(ctx, tx, itemID)
	})
	if err != nil {
		return err
	}

	s.writeAudit(ctx, "inventory.item_deleted", itemID, map[string]any{
		"item_name": deleted.ItemName,
	})
	return nil
}

func (s *Service) IncreaseStock(ctx context.Context, itemID string, quantity int64, note string) (*domain.Response, error) {
	if quantity <= 0 {
		s.metrics.RecordStockRejection(domain.ErrInvalidQuantity.Error())
		return nil, domain.ErrInvalidQuantity
	}
	return s.mutate(ctx, itemID, domain.ChangeTypeIn, quantity, note)
}

func (s *Service) DecreaseStock(ctx context.Context, itemID string, quantity int64, note string) (*domain.Response, error) {
	if quantity <= 0 {
		s.metrics.RecordStockRejection(domain.ErrInvalidQuantity.Error())
		return nil, domain.ErrInvalidQuantity
	}
	return s.mutate(ctx, itemID, domain.ChangeTypeOut, -quantity, note)
}

func (s *Service) AdjustStock(ctx context.Context, itemID string, delta int64, note string) (*domain.Response, error) {
	if delta == 0 {
		s.metrics.RecordStockRejection(domain.ErrInvalidQuantity.Error())
		return nil, domain.ErrInvalidQuantity
	}
	return s.mutate(ctx, itemID, domain.ChangeTypeAdjustment, delta, note)
}

// mutate runs the shared ledger transaction: look the item up, re-check the
// floor, append the entry, and move the quantity through a guarded UPDATE.
// The guard re-evaluates the floor under the row write lock, so a concurrent
// writer that drained the stock between our read and our write flips the
// update to zero rows instead of committing a negative quantity.
func (s *Service) mutate(ctx context.Context, itemID string, changeType domain.ChangeType, delta int64, note string) (*domain.Response, error) {
	id, err := parseID(itemID)
	if err != nil {
		return nil, err
	}

	policy := s.policy.Get()
	if len(note) > policy.MaxNoteLength {
		return nil, domain.ErrInvalidNote
	}

	var updated *domain.Inventory
	err = s.db.Transaction(func(tx *gorm.DB) error {
		item, err := s.repo.FindByID(ctx, tx, id)
		if err != nil {
			return err
		}
		if item == nil {
			return domain.ErrNotFound
		}

		if item.StockQuantity+delta < 0 {
			return floorError(changeType)
		}

		now := s.clock.Now()
		entry, err := domain.NewLog(s.genID.Generate(), id, changeType, delta, note, now)
		if err != nil {
			return err
		}

		ok, err := s.repo.ApplyDelta(ctx, tx, id, delta, now)
		if err != nil {
			return err
		}
		if !ok {
			return floorError(changeType)
		}

		if err := s.repo.InsertLog(ctx, tx, entry); err != nil {
			return err
		}

		updated, err = s.repo.FindByID(ctx, tx, id)
		if err != nil {
			return err
		}
		if updated == nil {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	if err != nil {
		if isBusinessRejection(err) {
			s.metrics.RecordStockRejection(err.Error())
		}
		return nil, err
	}

	s.metrics.RecordStockMovement(string(changeType))
	s.writeAudit(ctx, auditAction(changeType), id, map[string]any{
		"item_name":      updated.ItemName,
		"change_type":    string(changeType),
		"delta":          delta,
		"stock_quantity": updated.StockQuantity,
	})

	return toResponse(updated), nil
}

func (s *Service) GetLowStockItems(ctx context.Context) ([]domain.Response, error) {
	items, err := s.repo.FindLowStock(ctx, s.db)
	if err != nil {
		return nil, err
	}
	s.metrics.RecordLowStockQuery()
	return toResponses(items), nil
}

func (s *Service) ListLogs(ctx context.Context, itemID string) ([]domain.LogResponse, error) {
	id, err := parseID(itemID)
	if err != nil {
		return nil, err
	}
	item, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}

	entries, err := s.repo.FindLogs(ctx, s.db, id)
	if err != nil {
		return nil, err
	}

	out := make([]domain.LogResponse, 0, len(entries))
	for _, entry := range entries {
		out = append(out, domain.LogResponse{
			ID:              entry.ID.String(),
			InventoryID:     entry.InventoryID.String(),
			ChangeType:      string(entry.ChangeType),
			QuantityChanged: entry.QuantityChanged,
			Note:            entry.Note,
			CreatedAt:       entry.CreatedAt,
		})
	}
	return out, nil
}

func (s *Service) writeAudit(ctx context.Context, action string, itemID snowflake.ID, metadata map[string]any) {
	targetID := itemID.String()
	if err := s.auditSvc.AuditLog(ctx, action, "inventory", &targetID, metadata); err != nil {
		s.log.Warn("failed to write inventory audit log",
			zap.String("action", action),
			zap.String("item_id", targetID),
			zap.Error(err),
		)
	}
}

func floorError(changeType domain.ChangeType) error {
	switch changeType {
	case domain.ChangeTypeOut:
		return domain.ErrInsufficientStock
	case domain.ChangeTypeAdjustment:
		return domain.ErrNegativeStock
	default:
		// An IN delta cannot fail the floor; losing the row mid-transaction
		// is the only remaining cause.
		return domain.ErrNotFound
	}
}

func auditAction(changeType domain.ChangeType) string {
	switch changeType {
	case domain.ChangeTypeIn:
		return "inventory.stock_increased"
	case domain.ChangeTypeOut:
		return "inventory.stock_decreased"
	default:
		return "inventory.stock_adjusted"
	}
}

func isBusinessRejection(err error) bool {
	return errors.Is(err, domain.ErrInsufficientStock) ||
		errors.Is(err, domain.ErrNegativeStock) ||
		errors.Is(err, domain.ErrInvalidQuantity)
}

func parseID(raw string) (snowflake.ID, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return 0, domain.ErrInvalidID
	}
	id, err := snowflake.ParseString(trimmed)
	if err != nil {
		return 0, domain.ErrInvalidID
	}
	return id, nil
}

func toResponse(item *domain.Inventory) *domain.Response {
	return &domain.Response{
		ID:              item.ID.String(),
		ItemName:        item.ItemName,
		StockQuantity:   item.StockQuantity,
		Unit:            item.Unit,
		Threshold:       item.Threshold,
		Supplier:        item.Supplier,
		LastRestockDate: item.LastRestockDate,
		LowStock:        item.StockQuantity <= item.Threshold,
		CreatedAt:       item.CreatedAt,
		UpdatedAt:       item.UpdatedAt,
	}
}

func toResponses(items []domain.Inventory) []domain.Response {
	out := make([]domain.Response, 0, len(items))
	for i := range items {
		out = append(out, *toResponse(&items[i]))
	}
	return out
}
