package menu

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hotel/backend/internal/domain/inventory"
	"github.com/hotel/backend/internal/domain/menu"
	"github.com/hotel/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// MenuService handles dishes and their stock-driven availability
type MenuService struct {
	menuRepo       menu.MenuItemRepository
	itemRepo       inventory.ItemRepository
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
	now            func() time.Time
}

// NewMenuService creates a new MenuService
func NewMenuService(menuRepo menu.MenuItemRepository, itemRepo inventory.ItemRepository, logger *zap.Logger) *MenuService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MenuService{
		menuRepo:       menuRepo,
		itemRepo:       itemRepo,
		eventPublisher: shared.NopPublisher{},
		logger:         logger,
		now:            time.Now,
	}
}

// SetEventPublisher sets the event publisher for domain events
func (s *MenuService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// List returns the whole menu
func (s *MenuService) List(ctx context.Context) ([]MenuItemResponse, error) {
	items, err := s.menuRepo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list menu items: %w", err)
	}
	return ToMenuItemResponses(items), nil
}

// GetAvailable returns the dishes currently flagged available
func (s *MenuService) GetAvailable(ctx context.Context) ([]MenuItemResponse, error) {
	items, err := s.menuRepo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list menu items: %w", err)
	}
	available := make([]*menu.MenuItem, 0, len(items))
	for _, m := range items {
		if m.IsAvailable {
			available = append(available, m)
		}
	}
	return ToMenuItemResponses(available), nil
}

// GetByID returns one dish
func (s *MenuService) GetByID(ctx context.Context, id uuid.UUID) (*MenuItemResponse, error) {
	m, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToMenuItemResponse(m)
	return &resp, nil
}

// Create creates a dish and evaluates it against current stock
func (s *MenuService) Create(ctx context.Context, actor shared.Actor, req CreateMenuItemRequest) (*MenuItemResponse, error) {
	stock, err := s.stock(ctx)
	if err != nil {
		return nil, err
	}
	now := s.now()
	m, err := menu.NewMenuItem(menu.MenuItemSpec{
		Name:                req.Name,
		Category:            req.Category,
		Description:         req.Description,
		Price:               req.Price,
		RequiredIngredients: stock.ingredients(req.RequiredIngredients),
	}, actor, now)
	if err != nil {
		return nil, err
	}
	m.ApplyAvailability(m.CheckAvailability(stock.levels), actor, now)

	if err := s.menuRepo.Save(ctx, m); err != nil {
		return nil, fmt.Errorf("save menu item: %w", err)
	}
	s.publish(ctx, m)

	resp := ToMenuItemResponse(m)
	return &resp, nil
}

// Update applies a partial update and re-evaluates availability
func (s *MenuService) Update(ctx context.Context, actor shared.Actor, id uuid.UUID, req UpdateMenuItemRequest) (*MenuItemResponse, error) {
	m, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	stock, err := s.stock(ctx)
	if err != nil {
		return nil, err
	}

	patch := menu.MenuItemPatch{
		Name:        req.Name,
		Category:    req.Category,
		Description: req.Description,
		Price:       req.Price,
	}
	if req.RequiredIngredients != nil {
		patch.RequiredIngredients = stock.ingredients(req.RequiredIngredients)
	}
	now := s.now()
	if err := m.Update(patch, actor, now); err != nil {
		return nil, err
	}
	m.ApplyAvailability(m.CheckAvailability(stock.levels), actor, now)

	if err := s.menuRepo.Save(ctx, m); err != nil {
		return nil, fmt.Errorf("save menu item: %w", err)
	}
	s.publish(ctx, m)

	resp := ToMenuItemResponse(m)
	return &resp, nil
}

// Delete removes a dish
func (s *MenuService) Delete(ctx context.Context, actor shared.Actor, id uuid.UUID) error {
	m, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	m.MarkDeleted(actor, s.now())
	if err := s.menuRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete menu item: %w", err)
	}
	s.publish(ctx, m)
	return nil
}

// RefreshAvailability re-evaluates every dish against current stock and
// saves those whose flag changed.
func (s *MenuService) RefreshAvailability(ctx context.Context, actor shared.Actor) (*RefreshResult, error) {
	return s.refresh(ctx, actor, func(*menu.MenuItem) bool { return true })
}

// RefreshForIngredient re-evaluates only the dishes that use the given item
func (s *MenuService) RefreshForIngredient(ctx context.Context, actor shared.Actor, itemID uuid.UUID) (*RefreshResult, error) {
	return s.refresh(ctx, actor, func(m *menu.MenuItem) bool { return m.UsesIngredient(itemID) })
}

func (s *MenuService) refresh(ctx context.Context, actor shared.Actor, match func(*menu.MenuItem) bool) (*RefreshResult, error) {
	items, err := s.menuRepo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list menu items: %w", err)
	}
	stock, err := s.stock(ctx)
	if err != nil {
		return nil, err
	}

	now := s.now()
	result := &RefreshResult{Items: make([]AvailabilityResponse, 0)}
	for _, m := range items {
		if !match(m) {
			continue
		}
		result.Checked++
		a := m.CheckAvailability(stock.levels)
		changed := m.ApplyAvailability(a, actor, now)
		if changed {
			if err := s.menuRepo.Save(ctx, m); err != nil {
				return nil, fmt.Errorf("save menu item: %w", err)
			}
			s.publish(ctx, m)
			result.Changed++
		}
		result.Items = append(result.Items, toAvailabilityResponse(m, a, changed))
	}

	if result.Changed > 0 {
		s.logger.Info("Menu availability refreshed",
			zap.Int("checked", result.Checked),
			zap.Int("changed", result.Changed))
	}
	return result, nil
}

type stockSnapshot struct {
	levels menu.StockLevels
	items  map[uuid.UUID]*inventory.InventoryItem
}

// stock reads current levels of active inventory items; inactive items count as empty
func (s *MenuService) stock(ctx context.Context) (*stockSnapshot, error) {
	items, err := s.itemRepo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list inventory items: %w", err)
	}
	snap := &stockSnapshot{
		levels: make(menu.StockLevels, len(items)),
		items:  make(map[uuid.UUID]*inventory.InventoryItem, len(items)),
	}
	for _, item := range items {
		snap.items[item.ID] = item
		if item.IsActive {
			snap.levels[item.ID] = item.CurrentStock
		}
	}
	return snap, nil
}

// ingredients fills missing names and units from inventory
func (snap *stockSnapshot) ingredients(reqs []IngredientRequest) []menu.Ingredient {
	out := make([]menu.Ingredient, len(reqs))
	for i, r := range reqs {
		ing := menu.Ingredient{
			IngredientID:     r.IngredientID,
			IngredientName:   r.IngredientName,
			QuantityRequired: r.QuantityRequired,
			Unit:             r.Unit,
			IsCritical:       r.IsCritical,
		}
		if item, ok := snap.items[r.IngredientID]; ok {
			if ing.IngredientName == "" {
				ing.IngredientName = item.Name
			}
			if ing.Unit == "" {
				ing.Unit = item.Unit
			}
		}
		out[i] = ing
	}
	return out
}

func (s *MenuService) load(ctx context.Context, id uuid.UUID) (*menu.MenuItem, error) {
	m, err := s.menuRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load menu item: %w", err)
	}
	if m == nil {
		return nil, shared.NotFound("Menu item", id.String())
	}
	return m, nil
}

func (s *MenuService) publish(ctx context.Context, m *menu.MenuItem) {
	if events := m.GetDomainEvents(); len(events) > 0 {
		_ = s.eventPublisher.Publish(ctx, events...)
		m.ClearDomainEvents()
	}
}
