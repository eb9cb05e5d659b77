package persistence

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hotel/backend/internal/domain/procurement"
	"github.com/hotel/backend/internal/infrastructure/persistence/models"
	"github.com/hotel/backend/internal/infrastructure/store"
)

// DocumentPurchaseOrderRepository implements procurement.OrderRepository
type DocumentPurchaseOrderRepository struct {
	st store.Store
}

// NewDocumentPurchaseOrderRepository creates a new purchase order repository
func NewDocumentPurchaseOrderRepository(st store.Store) *DocumentPurchaseOrderRepository {
	return &DocumentPurchaseOrderRepository{st: st}
}

func orderPath(id uuid.UUID) string {
	return store.Join(store.CollectionPurchaseOrders, id.String())
}

// FindAll returns every order, newest first
func (r *DocumentPurchaseOrderRepository) FindAll(ctx context.Context) ([]*procurement.PurchaseOrder, error) {
	return r.find(ctx, func(*procurement.PurchaseOrder) bool { return true })
}

// FindByID finds an order by ID
func (r *DocumentPurchaseOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*procurement.PurchaseOrder, error) {
	doc, err := getDocument[models.PurchaseOrderDocument](ctx, r.st, orderPath(id))
	if err != nil {
		return nil, fmt.Errorf("failed to load purchase order: %w", err)
	}
	if doc == nil {
		return nil, nil
	}
	return doc.ToDomain(), nil
}

// FindByStatus returns orders in the given status, newest first
func (r *DocumentPurchaseOrderRepository) FindByStatus(ctx context.Context, status procurement.Status) ([]*procurement.PurchaseOrder, error) {
	return r.find(ctx, func(o *procurement.PurchaseOrder) bool { return o.Status == status })
}

// FindBySupplier returns a supplier's orders, newest first
func (r *DocumentPurchaseOrderRepository) FindBySupplier(ctx context.Context, supplierID uuid.UUID) ([]*procurement.PurchaseOrder, error) {
	return r.find(ctx, func(o *procurement.PurchaseOrder) bool { return o.SupplierID == supplierID })
}

// FindDeliveredBetween returns delivered orders received in [from, to)
func (r *DocumentPurchaseOrderRepository) FindDeliveredBetween(ctx context.Context, from, to time.Time) ([]*procurement.PurchaseOrder, error) {
	return r.find(ctx, func(o *procurement.PurchaseOrder) bool {
		if o.Status != procurement.StatusDelivered || o.ReceivedAt == nil {
			return false
		}
		return !o.ReceivedAt.Before(from) && o.ReceivedAt.Before(to)
	})
}

// OrderNumbersWithPrefix returns the order numbers starting with prefix
func (r *DocumentPurchaseOrderRepository) OrderNumbersWithPrefix(ctx context.Context, prefix string) ([]string, error) {
	orders, err := r.find(ctx, func(o *procurement.PurchaseOrder) bool {
		return strings.HasPrefix(o.OrderNumber, prefix)
	})
	if err != nil {
		return nil, err
	}
	numbers := make([]string, len(orders))
	for i, o := range orders {
		numbers[i] = o.OrderNumber
	}
	return numbers, nil
}

func (r *DocumentPurchaseOrderRepository) find(ctx context.Context, match func(*procurement.PurchaseOrder) bool) ([]*procurement.PurchaseOrder, error) {
	docs, err := listDocuments[models.PurchaseOrderDocument](ctx, r.st, store.CollectionPurchaseOrders)
	if err != nil {
		return nil, fmt.Errorf("failed to list purchase orders: %w", err)
	}
	var out []*procurement.PurchaseOrder
	for _, d := range docs {
		if o := d.ToDomain(); match(o) {
			out = append(out, o)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

// Save creates or replaces an order
func (r *DocumentPurchaseOrderRepository) Save(ctx context.Context, order *procurement.PurchaseOrder) error {
	var doc models.PurchaseOrderDocument
	doc.FromDomain(order)
	if err := r.st.Set(ctx, orderPath(order.ID), doc); err != nil {
		return fmt.Errorf("failed to save purchase order: %w", err)
	}
	return nil
}

// Delete removes an order
func (r *DocumentPurchaseOrderRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if err := r.st.Delete(ctx, orderPath(id)); err != nil {
		return fmt.Errorf("failed to delete purchase order: %w", err)
	}
	return nil
}

var _ procurement.OrderRepository = (*DocumentPurchaseOrderRepository)(nil)
