package partner

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/hotel/backend/internal/domain/inventory"
	"github.com/hotel/backend/internal/domain/partner"
	"github.com/hotel/backend/internal/domain/procurement"
	"github.com/hotel/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var (
	testNow     = time.Date(2024, 5, 10, 9, 0, 0, 0, time.UTC)
	testOfficer = shared.Actor{Username: "sam", Role: "purchasing-officer"}
)

// MockEventPublisher records published events
type MockEventPublisher struct {
	events []shared.DomainEvent
}

func (m *MockEventPublisher) Publish(_ context.Context, events ...shared.DomainEvent) error {
	m.events = append(m.events, events...)
	return nil
}

func (m *MockEventPublisher) types() []string {
	out := make([]string, len(m.events))
	for i, e := range m.events {
		out[i] = e.EventType()
	}
	return out
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

func setupService() (*SupplierService, *MockSupplierRepository, *MockItemRepository, *MockEventPublisher) {
	supplierRepo := new(MockSupplierRepository)
	itemRepo := new(MockItemRepository)
	publisher := &MockEventPublisher{}
	svc := NewSupplierService(supplierRepo, itemRepo, nil)
	svc.SetEventPublisher(publisher)
	svc.now = func() time.Time { return testNow }
	return svc, supplierRepo, itemRepo, publisher
}

func newTestSupplier(t *testing.T, name string) *partner.Supplier {
	t.Helper()
	s, err := partner.NewSupplier(partner.SupplierSpec{Name: name, Email: "sales@example.com"}, testOfficer, testNow.AddDate(0, -2, 0))
	require.NoError(t, err)
	s.ClearDomainEvents()
	return s
}

func TestSupplierService_Create(t *testing.T) {
	t.Run("creates an unapproved supplier", func(t *testing.T) {
		svc, repo, _, publisher := setupService()
		repo.On("Save", mock.Anything, mock.AnythingOfType("*partner.Supplier")).Return(nil)

		resp, err := svc.Create(context.Background(), testOfficer, CreateSupplierRequest{
			Name:       "  Ocean Catch  ",
			Categories: []string{"Seafood", "seafood", " "},
		})

		require.NoError(t, err)
		assert.Equal(t, "Ocean Catch", resp.Name)
		assert.False(t, resp.IsApproved)
		assert.Equal(t, []string{"Seafood"}, resp.Categories)
		assert.Equal(t, []string{partner.EventTypeSupplierCreated}, publisher.types())
	})

	t.Run("invalid email is rejected before saving", func(t *testing.T) {
		svc, repo, _, _ := setupService()

		_, err := svc.Create(context.Background(), testOfficer, CreateSupplierRequest{Name: "Ocean Catch", Email: "not-an-email"})

		assert.True(t, errors.Is(err, shared.ErrInvalidInput))
		repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}

func TestSupplierService_Approve(t *testing.T) {
	svc, repo, _, publisher := setupService()
	supplier := newTestSupplier(t, "Fresh Farms")
	repo.On("FindByID", mock.Anything, supplier.ID).Return(supplier, nil)
	repo.On("Save", mock.Anything, supplier).Return(nil)

	resp, err := svc.Approve(context.Background(), testOfficer, supplier.ID)
	require.NoError(t, err)
	assert.True(t, resp.IsApproved)
	assert.Equal(t, []string{partner.EventTypeSupplierApproved}, publisher.types())

	_, err = svc.Approve(context.Background(), testOfficer, supplier.ID)
	assert.True(t, errors.Is(err, shared.ErrInvalidState))
}

func TestSupplierService_NotFound(t *testing.T) {
	svc, repo, _, _ := setupService()
	id := uuid.New()
	repo.On("FindByID", mock.Anything, id).Return(nil, nil)

	_, err := svc.GetByID(context.Background(), id)
	assert.True(t, errors.Is(err, shared.ErrNotFound))

	err = svc.Delete(context.Background(), testOfficer, id)
	assert.True(t, errors.Is(err, shared.ErrNotFound))
	repo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestSupplierService_Delete(t *testing.T) {
	svc, repo, _, publisher := setupService()
	supplier := newTestSupplier(t, "Fresh Farms")
	repo.On("FindByID", mock.Anything, supplier.ID).Return(supplier, nil)
	repo.On("Delete", mock.Anything, supplier.ID).Return(nil)

	require.NoError(t, svc.Delete(context.Background(), testOfficer, supplier.ID))
	assert.Equal(t, []string{partner.EventTypeSupplierDeleted}, publisher.types())
}

func TestSupplierService_GetLinkedItems(t *testing.T) {
	svc, repo, itemRepo, _ := setupService()
	supplier := newTestSupplier(t, "Fresh Farms")
	repo.On("FindByID", mock.Anything, supplier.ID).Return(supplier, nil)

	byID := &inventory.InventoryItem{Name: "Tomatoes", SupplierID: &supplier.ID}
	byName := &inventory.InventoryItem{Name: "Lettuce", SupplierName: "fresh farms "}
	other := &inventory.InventoryItem{Name: "Salmon", SupplierName: "Ocean Catch"}
	itemRepo.On("FindAll", mock.Anything).Return([]*inventory.InventoryItem{byID, byName, other}, nil)

	items, err := svc.GetLinkedItems(context.Background(), supplier.ID)

	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "Tomatoes", items[0].Name)
	assert.Equal(t, "Lettuce", items[1].Name)
}

func TestSupplierPerformanceHandler(t *testing.T) {
	receivedEvent := func(supplierID uuid.UUID, onTime, accurate bool) *procurement.OrderReceivedEvent {
		return &procurement.OrderReceivedEvent{
			BaseDomainEvent: shared.NewBaseDomainEvent(procurement.EventTypeOrderReceived, "PurchaseOrder", uuid.New(), testOfficer, testNow),
			OrderNumber:     "PO-20240510-0001",
			SupplierID:      supplierID,
			ReceivedAt:      testNow,
			OnTime:          onTime,
			Accurate:        accurate,
		}
	}

	t.Run("records deliveries", func(t *testing.T) {
		repo := new(MockSupplierRepository)
		supplier := newTestSupplier(t, "Fresh Farms")
		repo.On("FindByID", mock.Anything, supplier.ID).Return(supplier, nil)
		repo.On("Save", mock.Anything, supplier).Return(nil)
		handler := NewSupplierPerformanceHandler(repo, nil)

		require.NoError(t, handler.Handle(context.Background(), receivedEvent(supplier.ID, true, false)))
		require.NoError(t, handler.Handle(context.Background(), receivedEvent(supplier.ID, false, true)))

		assert.Equal(t, 2, supplier.Performance.TotalOrders)
		assert.Equal(t, 1, supplier.Performance.OnTimeDeliveries)
		assert.Equal(t, 1, supplier.Performance.AccurateDeliveries)
		assert.Equal(t, "50", supplier.Performance.OnTimeRate().String())
		require.NotNil(t, supplier.Performance.LastDeliveryAt)
		repo.AssertNumberOfCalls(t, "Save", 2)
	})

	t.Run("deleted supplier is skipped", func(t *testing.T) {
		repo := new(MockSupplierRepository)
		id := uuid.New()
		repo.On("FindByID", mock.Anything, id).Return(nil, nil)
		handler := NewSupplierPerformanceHandler(repo, nil)

		assert.NoError(t, handler.Handle(context.Background(), receivedEvent(id, true, true)))
		repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("rejects other events", func(t *testing.T) {
		handler := NewSupplierPerformanceHandler(new(MockSupplierRepository), nil)
		supplier := newTestSupplier(t, "Fresh Farms")

		err := handler.Handle(context.Background(), partner.NewSupplierCreatedEvent(supplier, testOfficer, testNow))
		assert.Error(t, err)
	})

	assert.Equal(t, []string{procurement.EventTypeOrderReceived}, NewSupplierPerformanceHandler(nil, nil).EventTypes())
}
