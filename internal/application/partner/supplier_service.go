package partner

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	inventoryapp "github.com/hotel/backend/internal/application/inventory"
	"github.com/hotel/backend/internal/domain/inventory"
	"github.com/hotel/backend/internal/domain/partner"
	"github.com/hotel/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// SupplierService handles supplier-related business operations
type SupplierService struct {
	supplierRepo   partner.SupplierRepository
	itemRepo       inventory.ItemRepository
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
	now            func() time.Time
}

// NewSupplierService creates a new SupplierService
func NewSupplierService(supplierRepo partner.SupplierRepository, itemRepo inventory.ItemRepository, logger *zap.Logger) *SupplierService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SupplierService{
		supplierRepo:   supplierRepo,
		itemRepo:       itemRepo,
		eventPublisher: shared.NopPublisher{},
		logger:         logger,
		now:            time.Now,
	}
}

// SetEventPublisher sets the event publisher for domain events
func (s *SupplierService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// List returns every supplier ordered by name
func (s *SupplierService) List(ctx context.Context) ([]SupplierResponse, error) {
	suppliers, err := s.supplierRepo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list suppliers: %w", err)
	}
	return ToSupplierResponses(suppliers), nil
}

// GetApproved returns suppliers that purchase orders may be raised against
func (s *SupplierService) GetApproved(ctx context.Context) ([]SupplierResponse, error) {
	suppliers, err := s.supplierRepo.FindApproved(ctx)
	if err != nil {
		return nil, fmt.Errorf("list approved suppliers: %w", err)
	}
	return ToSupplierResponses(suppliers), nil
}

// GetByID returns one supplier
func (s *SupplierService) GetByID(ctx context.Context, id uuid.UUID) (*SupplierResponse, error) {
	supplier, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToSupplierResponse(supplier)
	return &resp, nil
}

// Create creates an unapproved supplier
func (s *SupplierService) Create(ctx context.Context, actor shared.Actor, req CreateSupplierRequest) (*SupplierResponse, error) {
	supplier, err := partner.NewSupplier(partner.SupplierSpec{
		Name:          req.Name,
		ContactPerson: req.ContactPerson,
		Email:         req.Email,
		Phone:         req.Phone,
		Address:       req.Address,
		Categories:    req.Categories,
		Notes:         req.Notes,
	}, actor, s.now())
	if err != nil {
		return nil, err
	}
	if err := s.supplierRepo.Save(ctx, supplier); err != nil {
		return nil, fmt.Errorf("save supplier: %w", err)
	}
	s.publish(ctx, supplier)

	resp := ToSupplierResponse(supplier)
	return &resp, nil
}

// Update applies a partial update to a supplier
func (s *SupplierService) Update(ctx context.Context, actor shared.Actor, id uuid.UUID, req UpdateSupplierRequest) (*SupplierResponse, error) {
	supplier, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := supplier.Update(req.toPatch(), actor, s.now()); err != nil {
		return nil, err
	}
	if err := s.supplierRepo.Save(ctx, supplier); err != nil {
		return nil, fmt.Errorf("save supplier: %w", err)
	}
	s.publish(ctx, supplier)

	resp := ToSupplierResponse(supplier)
	return &resp, nil
}

// Approve allows purchase orders to be raised against the supplier
func (s *SupplierService) Approve(ctx context.Context, actor shared.Actor, id uuid.UUID) (*SupplierResponse, error) {
	supplier, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := supplier.Approve(actor, s.now()); err != nil {
		return nil, err
	}
	if err := s.supplierRepo.Save(ctx, supplier); err != nil {
		return nil, fmt.Errorf("save supplier: %w", err)
	}
	s.publish(ctx, supplier)

	s.logger.Info("Supplier approved",
		zap.String("supplier", supplier.Name),
		zap.String("approved_by", actor.Username))

	resp := ToSupplierResponse(supplier)
	return &resp, nil
}

// Delete removes a supplier. Orders and items keep the denormalized name.
func (s *SupplierService) Delete(ctx context.Context, actor shared.Actor, id uuid.UUID) error {
	supplier, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	supplier.MarkDeleted(actor, s.now())
	if err := s.supplierRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete supplier: %w", err)
	}
	s.publish(ctx, supplier)
	return nil
}

// GetLinkedItems returns the inventory items that reference the supplier by
// id or by name.
func (s *SupplierService) GetLinkedItems(ctx context.Context, id uuid.UUID) ([]inventoryapp.InventoryItemResponse, error) {
	supplier, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	items, err := s.itemRepo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list inventory items: %w", err)
	}
	linked := make([]*inventory.InventoryItem, 0)
	for _, item := range items {
		if supplier.IsLinked(partner.LinkedItemRef{SupplierID: item.SupplierID, SupplierName: item.SupplierName}) {
			linked = append(linked, item)
		}
	}
	return inventoryapp.ToInventoryItemResponses(linked), nil
}

func (s *SupplierService) load(ctx context.Context, id uuid.UUID) (*partner.Supplier, error) {
	supplier, err := s.supplierRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load supplier: %w", err)
	}
	if supplier == nil {
		return nil, shared.NotFound("Supplier", id.String())
	}
	return supplier, nil
}

func (s *SupplierService) publish(ctx context.Context, supplier *partner.Supplier) {
	if events := supplier.GetDomainEvents(); len(events) > 0 {
		_ = s.eventPublisher.Publish(ctx, events...)
		supplier.ClearDomainEvents()
	}
}
