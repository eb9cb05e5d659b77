package procurement

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/hotel/backend/internal/domain/inventory"
	"github.com/hotel/backend/internal/domain/partner"
	"github.com/hotel/backend/internal/domain/procurement"
	"github.com/hotel/backend/internal/domain/shared"
	"github.com/stretchr/testify/mock"
)

// MockEventPublisher records published events
type MockEventPublisher struct {
	mu     sync.Mutex
	events []shared.DomainEvent
}

func (m *MockEventPublisher) Publish(_ context.Context, events ...shared.DomainEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, events...)
	return nil
}

func (m *MockEventPublisher) GetEventsByType(eventType string) []shared.DomainEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]shared.DomainEvent, 0)
	for _, e := range m.events {
		if e.EventType() == eventType {
			result = append(result, e)
		}
	}
	return result
}

func (m *MockEventPublisher) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.events)
}

// MockOrderRepository is a mock implementation of procurement.OrderRepository
type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) FindAll(ctx context.Context) ([]*procurement.PurchaseOrder, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*procurement.PurchaseOrder), args.Error(1)
}

func (m *MockOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*procurement.PurchaseOrder, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*procurement.PurchaseOrder), args.Error(1)
}

func (m *MockOrderRepository) FindByStatus(ctx context.Context, status procurement.Status) ([]*procurement.PurchaseOrder, error) {
	args := m.Called(ctx, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*procurement.PurchaseOrder), args.Error(1)
}

func (m *MockOrderRepository) FindBySupplier(ctx context.Context, supplierID uuid.UUID) ([]*procurement.PurchaseOrder, error) {
	args := m.Called(ctx, supplierID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*procurement.PurchaseOrder), args.Error(1)
}

func (m *MockOrderRepository) FindDeliveredBetween(ctx context.Context, from, to time.Time) ([]*procurement.PurchaseOrder, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*procurement.PurchaseOrder), args.Error(1)
}

func (m *MockOrderRepository) OrderNumbersWithPrefix(ctx context.Context, prefix string) ([]string, error) {
	args := m.Called(ctx, prefix)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockOrderRepository) Save(ctx context.Context, order *procurement.PurchaseOrder) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *MockOrderRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockSupplierRepository is a mock implementation of partner.SupplierRepository
type MockSupplierRepository struct {
	mock.Mock
}

func (m *MockSupplierRepository) FindAll(ctx context.Context) ([]*partner.Supplier, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*partner.Supplier), args.Error(1)
}

func (m *MockSupplierRepository) FindByID(ctx context.Context, id uuid.UUID) (*partner.Supplier, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Supplier), args.Error(1)
}

func (m *MockSupplierRepository) FindApproved(ctx context.Context) ([]*partner.Supplier, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*partner.Supplier), args.Error(1)
}

func (m *MockSupplierRepository) Save(ctx context.Context, supplier *partner.Supplier) error {
	args := m.Called(ctx, supplier)
	return args.Error(0)
}

func (m *MockSupplierRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockItemRepository is a mock implementation of inventory.ItemRepository
type MockItemRepository struct {
	mock.Mock
}

func (m *MockItemRepository) FindAll(ctx context.Context) ([]*inventory.InventoryItem, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*inventory.InventoryItem), args.Error(1)
}

func (m *MockItemRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.InventoryItem, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inventory.InventoryItem), args.Error(1)
}

func (m *MockItemRepository) Save(ctx context.Context, item *inventory.InventoryItem) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockItemRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockTransactionRepository is a mock implementation of inventory.TransactionRepository
type MockTransactionRepository struct {
	mock.Mock
}

func (m *MockTransactionRepository) Append(ctx context.Context, tx *inventory.StockTransaction) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockTransactionRepository) FindByItem(ctx context.Context, itemID uuid.UUID) ([]*inventory.StockTransaction, error) {
	args := m.Called(ctx, itemID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*inventory.StockTransaction), args.Error(1)
}

func (m *MockTransactionRepository) FindByReference(ctx context.Context, refType inventory.ReferenceType, refID string) ([]*inventory.StockTransaction, error) {
	args := m.Called(ctx, refType, refID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*inventory.StockTransaction), args.Error(1)
}

// MockOrderMailer is a mock implementation of OrderMailer
type MockOrderMailer struct {
	mock.Mock
}

func (m *MockOrderMailer) SendOrderEmail(ctx context.Context, email OrderEmail) error {
	args := m.Called(ctx, email)
	return args.Error(0)
}
