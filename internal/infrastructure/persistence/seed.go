package persistence

import (
	"context"
	"fmt"
	"time"

	"github.com/hotel/backend/internal/domain/budget"
	"github.com/hotel/backend/internal/domain/inventory"
	"github.com/hotel/backend/internal/domain/menu"
	"github.com/hotel/backend/internal/domain/partner"
	"github.com/hotel/backend/internal/domain/procurement"
	"github.com/hotel/backend/internal/domain/shared"
	"github.com/hotel/backend/internal/infrastructure/store"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// SeedResult reports how many fixtures were written
type SeedResult struct {
	Suppliers int
	Items     int
	Orders    int
	MenuItems int
	Budgets   int
}

// Seed writes demo fixtures into an empty store: suppliers, batch-tracked
// items, orders in every status, a small menu and the current month's
// budget. A store that already holds inventory is left untouched.
func Seed(ctx context.Context, st store.Store, now time.Time, logger *zap.Logger) (*SeedResult, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	existing, err := st.List(ctx, store.CollectionInventory)
	if err != nil {
		return nil, fmt.Errorf("check inventory: %w", err)
	}
	if len(existing) > 0 {
		logger.Info("Store already holds inventory, skipping seed", zap.Int("items", len(existing)))
		return &SeedResult{}, nil
	}

	s := &seeder{
		now:          now.UTC(),
		supplierRepo: NewDocumentSupplierRepository(st),
		itemRepo:     NewDocumentInventoryItemRepository(st),
		orderRepo:    NewDocumentPurchaseOrderRepository(st),
		menuRepo:     NewDocumentMenuItemRepository(st),
		budgetRepo:   NewDocumentBudgetRepository(st),
	}
	if err := s.run(ctx); err != nil {
		return nil, err
	}
	logger.Info("Seeded store",
		zap.Int("suppliers", s.result.Suppliers),
		zap.Int("items", s.result.Items),
		zap.Int("orders", s.result.Orders),
		zap.Int("menu_items", s.result.MenuItems))
	return &s.result, nil
}

type seeder struct {
	now          time.Time
	supplierRepo *DocumentSupplierRepository
	itemRepo     *DocumentInventoryItemRepository
	orderRepo    *DocumentPurchaseOrderRepository
	menuRepo     *DocumentMenuItemRepository
	budgetRepo   *DocumentBudgetRepository
	result       SeedResult
}

type itemFixture struct {
	name, category, unit, location string
	threshold, max, cost           string
	supplier                       *partner.Supplier
	batches                        []batchFixture
}

type batchFixture struct {
	number   string
	quantity string
	expires  int // days from now; 0 means no expiry
}

func (s *seeder) run(ctx context.Context) error {
	actor := shared.System

	produce, err := s.supplier(ctx, partner.SupplierSpec{
		Name:          "Valley Fresh Produce",
		ContactPerson: "Marta Silva",
		Email:         "orders@valleyfresh.example",
		Phone:         "+1 555 0101",
		Categories:    []string{"produce", "herbs"},
	}, true)
	if err != nil {
		return err
	}
	dairy, err := s.supplier(ctx, partner.SupplierSpec{
		Name:          "Northfield Dairy",
		ContactPerson: "Owen Hart",
		Email:         "sales@northfield.example",
		Categories:    []string{"dairy"},
	}, true)
	if err != nil {
		return err
	}
	if _, err := s.supplier(ctx, partner.SupplierSpec{
		Name:       "Harbor Seafood Co.",
		Email:      "hello@harborseafood.example",
		Categories: []string{"seafood"},
		Notes:      "Awaiting food safety certificate",
	}, false); err != nil {
		return err
	}

	fixtures := []itemFixture{
		{name: "Tomatoes", category: "produce", unit: "kg", location: "Cold room A", threshold: "10", max: "60", cost: "2.40", supplier: produce,
			batches: []batchFixture{{number: "TOM-0501", quantity: "8", expires: 2}, {number: "TOM-0508", quantity: "20", expires: 6}}},
		{name: "Basil", category: "herbs", unit: "bunch", location: "Cold room A", threshold: "5", max: "30", cost: "1.10", supplier: produce,
			batches: []batchFixture{{number: "BAS-0509", quantity: "3", expires: 1}}},
		{name: "Mozzarella", category: "dairy", unit: "kg", location: "Cold room B", threshold: "4", max: "25", cost: "9.80", supplier: dairy,
			batches: []batchFixture{{number: "MOZ-0420", quantity: "6", expires: 10}}},
		{name: "Heavy Cream", category: "dairy", unit: "l", location: "Cold room B", threshold: "6", max: "24", cost: "3.60", supplier: dairy,
			batches: []batchFixture{{number: "CRM-0505", quantity: "2", expires: 4}}},
		{name: "Olive Oil", category: "pantry", unit: "l", location: "Dry store", threshold: "5", max: "40", cost: "7.25",
			batches: []batchFixture{{number: "OIL-0301", quantity: "18"}}},
	}
	items := make(map[string]*inventory.InventoryItem, len(fixtures))
	for _, f := range fixtures {
		item, err := s.item(ctx, f)
		if err != nil {
			return err
		}
		items[f.name] = item
	}

	if err := s.seedOrders(ctx, produce, dairy, items); err != nil {
		return err
	}

	dishes := []menu.MenuItemSpec{
		{Name: "Margherita Pizza", Category: "mains", Price: decimal.RequireFromString("14.50"),
			RequiredIngredients: []menu.Ingredient{
				ingredient(items["Tomatoes"], "0.3", true),
				ingredient(items["Mozzarella"], "0.2", true),
				ingredient(items["Basil"], "1", false),
			}},
		{Name: "Tomato Bisque", Category: "starters", Price: decimal.RequireFromString("8.00"),
			RequiredIngredients: []menu.Ingredient{
				ingredient(items["Tomatoes"], "0.5", true),
				ingredient(items["Heavy Cream"], "0.25", true),
				ingredient(items["Olive Oil"], "0.05", false),
			}},
	}
	stock := make(menu.StockLevels, len(items))
	for _, item := range items {
		stock[item.ID] = item.CurrentStock
	}
	for _, spec := range dishes {
		dish, err := menu.NewMenuItem(spec, actor, s.now)
		if err != nil {
			return fmt.Errorf("seed menu item %s: %w", spec.Name, err)
		}
		dish.ApplyAvailability(dish.CheckAvailability(stock), actor, s.now)
		if err := s.menuRepo.Save(ctx, dish); err != nil {
			return fmt.Errorf("seed menu item %s: %w", spec.Name, err)
		}
		s.result.MenuItems++
	}
	return nil
}

func (s *seeder) supplier(ctx context.Context, spec partner.SupplierSpec, approved bool) (*partner.Supplier, error) {
	sup, err := partner.NewSupplier(spec, shared.System, s.now)
	if err != nil {
		return nil, fmt.Errorf("seed supplier %s: %w", spec.Name, err)
	}
	if approved {
		if err := sup.Approve(shared.System, s.now); err != nil {
			return nil, err
		}
	}
	if err := s.supplierRepo.Save(ctx, sup); err != nil {
		return nil, fmt.Errorf("seed supplier %s: %w", spec.Name, err)
	}
	s.result.Suppliers++
	return sup, nil
}

func (s *seeder) item(ctx context.Context, f itemFixture) (*inventory.InventoryItem, error) {
	spec := inventory.ItemSpec{
		Name:             f.name,
		Category:         f.category,
		Unit:             f.unit,
		RestockThreshold: decimal.RequireFromString(f.threshold),
		MaxStock:         decimal.RequireFromString(f.max),
		Location:         f.location,
		Cost:             decimal.RequireFromString(f.cost),
	}
	if f.supplier != nil {
		id := f.supplier.ID
		spec.SupplierID = &id
		spec.SupplierName = f.supplier.Name
	}
	item, err := inventory.NewInventoryItem(spec, shared.System, s.now)
	if err != nil {
		return nil, fmt.Errorf("seed item %s: %w", f.name, err)
	}
	for _, b := range f.batches {
		var expires *time.Time
		if b.expires > 0 {
			t := s.now.AddDate(0, 0, b.expires)
			expires = &t
		}
		if _, err := item.ReceiveIntoBatch(b.number, decimal.RequireFromString(b.quantity), expires, shared.System, s.now); err != nil {
			return nil, fmt.Errorf("seed item %s: %w", f.name, err)
		}
	}
	if err := s.itemRepo.Save(ctx, item); err != nil {
		return nil, fmt.Errorf("seed item %s: %w", f.name, err)
	}
	s.result.Items++
	return item, nil
}

// seedOrders writes one order per status; the delivered one counts toward the
// current month's budget
func (s *seeder) seedOrders(ctx context.Context, produce, dairy *partner.Supplier, items map[string]*inventory.InventoryItem) error {
	actor := shared.System
	prefix := procurement.OrderNumberPrefix(s.now)
	expected := s.now.AddDate(0, 0, 3)

	type fixture struct {
		supplier *partner.Supplier
		lines    []procurement.OrderLine
		status   procurement.Status
	}
	fixtures := []fixture{
		{supplier: produce, status: procurement.StatusPending,
			lines: []procurement.OrderLine{line(items["Basil"], "20")}},
		{supplier: dairy, status: procurement.StatusApproved,
			lines: []procurement.OrderLine{line(items["Heavy Cream"], "12"), line(items["Mozzarella"], "10")}},
		{supplier: produce, status: procurement.StatusInTransit,
			lines: []procurement.OrderLine{line(items["Tomatoes"], "30")}},
		{supplier: dairy, status: procurement.StatusDelivered,
			lines: []procurement.OrderLine{line(items["Mozzarella"], "6")}},
		{supplier: produce, status: procurement.StatusRejected,
			lines: []procurement.OrderLine{line(items["Tomatoes"], "200")}},
	}

	var delivered []*procurement.PurchaseOrder
	for i, f := range fixtures {
		order, err := procurement.NewPurchaseOrder(procurement.OrderSpec{
			OrderNumber:      fmt.Sprintf("%s%04d", prefix, i+1),
			SupplierID:       f.supplier.ID,
			SupplierName:     f.supplier.Name,
			Items:            f.lines,
			Priority:         procurement.PriorityNormal,
			ExpectedDelivery: &expected,
		}, actor, s.now)
		if err != nil {
			return fmt.Errorf("seed order: %w", err)
		}
		if err := advance(order, f.status, actor, s.now); err != nil {
			return fmt.Errorf("seed order %s: %w", order.OrderNumber, err)
		}
		if order.Status == procurement.StatusDelivered {
			delivered = append(delivered, order)
		}
		if err := s.orderRepo.Save(ctx, order); err != nil {
			return fmt.Errorf("seed order %s: %w", order.OrderNumber, err)
		}
		s.result.Orders++
	}

	b := budget.Placeholder(s.now.Year(), int(s.now.Month()))
	if err := b.SetAmount(decimal.NewFromInt(2500), "Kitchen purchasing allowance", s.now); err != nil {
		return err
	}
	if err := b.SetSpent(budget.SumSpent(delivered), s.now); err != nil {
		return err
	}
	if err := s.budgetRepo.Save(ctx, b); err != nil {
		return fmt.Errorf("seed budget %s: %w", b.Key(), err)
	}
	s.result.Budgets++
	return nil
}

func advance(order *procurement.PurchaseOrder, target procurement.Status, actor shared.Actor, now time.Time) error {
	switch target {
	case procurement.StatusPending:
		return nil
	case procurement.StatusRejected:
		return order.Reject("Quantity exceeds cold room capacity", actor, now)
	}
	if err := order.Approve("", actor, now); err != nil {
		return err
	}
	switch target {
	case procurement.StatusInTransit:
		return order.Dispatch("", actor, now)
	case procurement.StatusDelivered:
		return order.Receive(procurement.PrepareReceipt(order), actor, now)
	}
	return nil
}

func line(item *inventory.InventoryItem, quantity string) procurement.OrderLine {
	return procurement.OrderLine{
		ItemID:   item.ID,
		ItemName: item.Name,
		Unit:     item.Unit,
		Quantity: decimal.RequireFromString(quantity),
		UnitCost: item.Cost,
	}
}

func ingredient(item *inventory.InventoryItem, quantity string, critical bool) menu.Ingredient {
	return menu.Ingredient{
		IngredientID:     item.ID,
		IngredientName:   item.Name,
		QuantityRequired: decimal.RequireFromString(quantity),
		Unit:             item.Unit,
		IsCritical:       critical,
	}
}
