package procurement

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hotel/backend/internal/domain/inventory"
	"github.com/hotel/backend/internal/domain/partner"
	"github.com/hotel/backend/internal/domain/procurement"
	"github.com/hotel/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// PurchaseOrderService handles purchase order use cases other than receiving
type PurchaseOrderService struct {
	orderRepo      procurement.OrderRepository
	supplierRepo   partner.SupplierRepository
	itemRepo       inventory.ItemRepository
	scope          OrderScope
	mailer         OrderMailer
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
	now            func() time.Time
}

// NewPurchaseOrderService creates a new PurchaseOrderService
func NewPurchaseOrderService(
	orderRepo procurement.OrderRepository,
	supplierRepo partner.SupplierRepository,
	itemRepo inventory.ItemRepository,
	scope OrderScope,
	mailer OrderMailer,
	logger *zap.Logger,
) *PurchaseOrderService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PurchaseOrderService{
		orderRepo:      orderRepo,
		supplierRepo:   supplierRepo,
		itemRepo:       itemRepo,
		scope:          scope,
		mailer:         mailer,
		eventPublisher: shared.NopPublisher{},
		logger:         logger,
		now:            time.Now,
	}
}

// SetEventPublisher sets the event publisher for domain events
func (s *PurchaseOrderService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// List returns orders, newest first, optionally restricted to one status
func (s *PurchaseOrderService) List(ctx context.Context, status string) ([]PurchaseOrderResponse, error) {
	var (
		orders []*procurement.PurchaseOrder
		err    error
	)
	if status == "" {
		orders, err = s.orderRepo.FindAll(ctx)
	} else {
		st := procurement.Status(status)
		if !st.IsValid() {
			return nil, shared.InvalidInput("Invalid status: " + status)
		}
		orders, err = s.orderRepo.FindByStatus(ctx, st)
	}
	if err != nil {
		return nil, fmt.Errorf("list purchase orders: %w", err)
	}
	return ToPurchaseOrderResponses(orders), nil
}

// GetByID returns one order
func (s *PurchaseOrderService) GetByID(ctx context.Context, id uuid.UUID) (*PurchaseOrderResponse, error) {
	order, err := loadOrder(ctx, s.orderRepo, id)
	if err != nil {
		return nil, err
	}
	resp := ToPurchaseOrderResponse(order)
	return &resp, nil
}

// Create creates a pending order against an approved supplier. The order
// number is the next free PO-yyyyMMdd-nnnn of the day, allocated and saved
// in one order scope so concurrent creates never share a number.
func (s *PurchaseOrderService) Create(ctx context.Context, actor shared.Actor, req CreateOrderRequest) (*PurchaseOrderResponse, error) {
	supplier, err := s.orderableSupplier(ctx, req.SupplierID)
	if err != nil {
		return nil, err
	}
	lines, err := s.resolveLines(ctx, req.Items)
	if err != nil {
		return nil, err
	}

	now := s.now()
	var order *procurement.PurchaseOrder
	err = s.scope.Execute(ctx, func(repos OrderRepositories) error {
		existing, err := repos.OrderRepo().OrderNumbersWithPrefix(ctx, procurement.OrderNumberPrefix(now))
		if err != nil {
			return fmt.Errorf("allocate order number: %w", err)
		}
		order, err = procurement.NewPurchaseOrder(procurement.OrderSpec{
			OrderNumber:      procurement.NextOrderNumber(now, existing),
			SupplierID:       supplier.ID,
			SupplierName:     supplier.Name,
			Items:            lines,
			Priority:         procurement.Priority(req.Priority),
			ExpectedDelivery: req.ExpectedDelivery,
			Notes:            req.Notes,
		}, actor, now)
		if err != nil {
			return err
		}
		if err := repos.OrderRepo().Save(ctx, order); err != nil {
			return fmt.Errorf("save purchase order: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.publish(ctx, order)

	s.logger.Info("Purchase order created",
		zap.String("order_number", order.OrderNumber),
		zap.String("supplier", supplier.Name),
		zap.String("total", order.TotalAmount.StringFixed(2)),
		zap.String("requested_by", actor.Username))

	resp := ToPurchaseOrderResponse(order)
	return &resp, nil
}

// Update applies a partial update to an order
func (s *PurchaseOrderService) Update(ctx context.Context, actor shared.Actor, id uuid.UUID, req UpdateOrderRequest) (*PurchaseOrderResponse, error) {
	var order *procurement.PurchaseOrder
	err := s.scope.Execute(ctx, func(repos OrderRepositories) error {
		var err error
		order, err = loadOrder(ctx, repos.OrderRepo(), id)
		if err != nil {
			return err
		}

		patch := procurement.OrderPatch{
			ExpectedDelivery: req.ExpectedDelivery,
			Notes:            req.Notes,
		}
		if req.Priority != nil {
			p := procurement.Priority(*req.Priority)
			patch.Priority = &p
		}
		if req.SupplierID != nil && *req.SupplierID != order.SupplierID {
			supplier, err := s.orderableSupplier(ctx, *req.SupplierID)
			if err != nil {
				return err
			}
			patch.SupplierID = &supplier.ID
			patch.SupplierName = &supplier.Name
		}
		if req.Items != nil {
			if patch.Items, err = s.resolveLines(ctx, req.Items); err != nil {
				return err
			}
		}

		if err := order.Update(patch, actor, s.now()); err != nil {
			return err
		}
		if err := repos.OrderRepo().Save(ctx, order); err != nil {
			return fmt.Errorf("save purchase order: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.publish(ctx, order)

	resp := ToPurchaseOrderResponse(order)
	return &resp, nil
}

// Delete removes an order
func (s *PurchaseOrderService) Delete(ctx context.Context, actor shared.Actor, id uuid.UUID) error {
	var order *procurement.PurchaseOrder
	err := s.scope.Execute(ctx, func(repos OrderRepositories) error {
		var err error
		order, err = loadOrder(ctx, repos.OrderRepo(), id)
		if err != nil {
			return err
		}
		order.MarkDeleted(actor, s.now())
		if err := repos.OrderRepo().Delete(ctx, id); err != nil {
			return fmt.Errorf("delete purchase order: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.publish(ctx, order)
	return nil
}

// Transition moves an order to the target status with an optional reason.
// Rejections require a reason; delivery goes through receiving.
func (s *PurchaseOrderService) Transition(ctx context.Context, actor shared.Actor, id uuid.UUID, target procurement.Status, reason string) (*PurchaseOrderResponse, error) {
	var (
		order *procurement.PurchaseOrder
		from  procurement.Status
	)
	err := s.scope.Execute(ctx, func(repos OrderRepositories) error {
		var err error
		order, err = loadOrder(ctx, repos.OrderRepo(), id)
		if err != nil {
			return err
		}
		from = order.Status
		if err := order.Transition(target, reason, actor, s.now()); err != nil {
			return err
		}
		if err := repos.OrderRepo().Save(ctx, order); err != nil {
			return fmt.Errorf("save purchase order: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.publish(ctx, order)

	s.logger.Info("Purchase order status changed",
		zap.String("order_number", order.OrderNumber),
		zap.String("from", string(from)),
		zap.String("to", string(target)),
		zap.String("changed_by", actor.Username))

	resp := ToPurchaseOrderResponse(order)
	return &resp, nil
}

// SendOrderEmail emails an order to its supplier through the mail endpoint.
// Subject and content default to a generated summary of the order.
func (s *PurchaseOrderService) SendOrderEmail(ctx context.Context, actor shared.Actor, id uuid.UUID, req SendEmailRequest) error {
	if s.mailer == nil {
		return shared.NewDomainError("EXTERNAL_SERVICE_ERROR", "Order email is not configured")
	}
	order, err := loadOrder(ctx, s.orderRepo, id)
	if err != nil {
		return err
	}
	if order.Status == procurement.StatusRejected {
		return shared.NewDomainError("INVALID_STATE", "Cannot email a rejected order")
	}
	supplier, err := s.supplierRepo.FindByID(ctx, order.SupplierID)
	if err != nil {
		return fmt.Errorf("load supplier: %w", err)
	}
	if supplier == nil {
		return shared.NotFound("Supplier", order.SupplierID.String())
	}
	if supplier.Email == "" {
		return shared.NewDomainError("INVALID_STATE", "Supplier "+supplier.Name+" has no email address")
	}

	email := OrderEmail{
		Order:    ToPurchaseOrderResponse(order),
		Supplier: toSupplierContact(supplier),
		Subject:  req.Subject,
		Content:  req.Content,
		Message:  req.Message,
	}
	if email.Subject == "" {
		email.Subject = defaultEmailSubject(order)
	}
	if email.Content == "" {
		email.Content = defaultEmailContent(order, supplier)
	}

	if err := s.mailer.SendOrderEmail(ctx, email); err != nil {
		s.logger.Warn("Order email failed",
			zap.String("order_number", order.OrderNumber),
			zap.Error(err))
		return shared.NewDomainError("EXTERNAL_SERVICE_ERROR", err.Error())
	}

	_ = s.eventPublisher.Publish(ctx, procurement.NewOrderEmailedEvent(order, email.Subject, actor, s.now()))
	return nil
}

func (s *PurchaseOrderService) orderableSupplier(ctx context.Context, id uuid.UUID) (*partner.Supplier, error) {
	supplier, err := s.supplierRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load supplier: %w", err)
	}
	if supplier == nil {
		return nil, shared.NotFound("Supplier", id.String())
	}
	if !supplier.IsApproved {
		return nil, shared.NewDomainError("INVALID_STATE", "Supplier "+supplier.Name+" is not approved")
	}
	return supplier, nil
}

// resolveLines fills item names and units from inventory; unit cost falls
// back to the item's cost.
func (s *PurchaseOrderService) resolveLines(ctx context.Context, reqs []OrderLineRequest) ([]procurement.OrderLine, error) {
	if len(reqs) == 0 {
		return nil, shared.InvalidInput("Order must contain at least one item")
	}
	lines := make([]procurement.OrderLine, len(reqs))
	for i, r := range reqs {
		item, err := s.itemRepo.FindByID(ctx, r.ItemID)
		if err != nil {
			return nil, fmt.Errorf("load inventory item: %w", err)
		}
		if item == nil {
			return nil, shared.NotFound("Inventory item", r.ItemID.String())
		}
		unitCost := item.Cost
		if r.UnitCost != nil {
			unitCost = *r.UnitCost
		}
		lines[i] = procurement.OrderLine{
			ItemID:   item.ID,
			ItemName: item.Name,
			Unit:     item.Unit,
			Quantity: r.Quantity,
			UnitCost: unitCost,
		}
	}
	return lines, nil
}

func (s *PurchaseOrderService) publish(ctx context.Context, order *procurement.PurchaseOrder) {
	publishOrderEvents(ctx, s.eventPublisher, order)
}

func loadOrder(ctx context.Context, repo procurement.OrderRepository, id uuid.UUID) (*procurement.PurchaseOrder, error) {
	order, err := repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load purchase order: %w", err)
	}
	if order == nil {
		return nil, shared.NotFound("Purchase order", id.String())
	}
	return order, nil
}

func publishOrderEvents(ctx context.Context, publisher shared.EventPublisher, order *procurement.PurchaseOrder) {
	events := order.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	_ = publisher.Publish(ctx, events...)
	order.ClearDomainEvents()
}
