package persistence

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/hotel/backend/internal/domain/menu"
	"github.com/hotel/backend/internal/infrastructure/persistence/models"
	"github.com/hotel/backend/internal/infrastructure/store"
)

// DocumentMenuItemRepository implements menu.MenuItemRepository
type DocumentMenuItemRepository struct {
	st store.Store
}

// NewDocumentMenuItemRepository creates a new menu repository
func NewDocumentMenuItemRepository(st store.Store) *DocumentMenuItemRepository {
	return &DocumentMenuItemRepository{st: st}
}

func menuPath(id uuid.UUID) string {
	return store.Join(store.CollectionMenu, id.String())
}

// FindAll returns every menu item ordered by category and name
func (r *DocumentMenuItemRepository) FindAll(ctx context.Context) ([]*menu.MenuItem, error) {
	docs, err := listDocuments[models.MenuItemDocument](ctx, r.st, store.CollectionMenu)
	if err != nil {
		return nil, fmt.Errorf("failed to list menu items: %w", err)
	}
	out := make([]*menu.MenuItem, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.ToDomain())
	}
	sort.Slice(out, func(i, j int) bool {
		ci, cj := strings.ToLower(out[i].Category), strings.ToLower(out[j].Category)
		if ci != cj {
			return ci < cj
		}
		return strings.ToLower(out[i].Name) < strings.ToLower(out[j].Name)
	})
	return out, nil
}

// FindByID finds a menu item by ID
func (r *DocumentMenuItemRepository) FindByID(ctx context.Context, id uuid.UUID) (*menu.MenuItem, error) {
	doc, err := getDocument[models.MenuItemDocument](ctx, r.st, menuPath(id))
	if err != nil {
		return nil, fmt.Errorf("failed to load menu item: %w", err)
	}
	if doc == nil {
		return nil, nil
	}
	return doc.ToDomain(), nil
}

// Save creates or replaces a menu item
func (r *DocumentMenuItemRepository) Save(ctx context.Context, item *menu.MenuItem) error {
	var doc models.MenuItemDocument
	doc.FromDomain(item)
	if err := r.st.Set(ctx, menuPath(item.ID), doc); err != nil {
		return fmt.Errorf("failed to save menu item: %w", err)
	}
	return nil
}

// Delete removes a menu item
func (r *DocumentMenuItemRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if err := r.st.Delete(ctx, menuPath(id)); err != nil {
		return fmt.Errorf("failed to delete menu item: %w", err)
	}
	return nil
}

var _ menu.MenuItemRepository = (*DocumentMenuItemRepository)(nil)
