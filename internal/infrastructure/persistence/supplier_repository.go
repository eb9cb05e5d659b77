package persistence

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/hotel/backend/internal/domain/partner"
	"github.com/hotel/backend/internal/infrastructure/persistence/models"
	"github.com/hotel/backend/internal/infrastructure/store"
)

// DocumentSupplierRepository implements partner.SupplierRepository
type DocumentSupplierRepository struct {
	st store.Store
}

// NewDocumentSupplierRepository creates a new supplier repository
func NewDocumentSupplierRepository(st store.Store) *DocumentSupplierRepository {
	return &DocumentSupplierRepository{st: st}
}

func supplierPath(id uuid.UUID) string {
	return store.Join(store.CollectionSuppliers, id.String())
}

// FindAll returns every supplier ordered by name
func (r *DocumentSupplierRepository) FindAll(ctx context.Context) ([]*partner.Supplier, error) {
	return r.find(ctx, false)
}

// FindApproved returns approved suppliers ordered by name
func (r *DocumentSupplierRepository) FindApproved(ctx context.Context) ([]*partner.Supplier, error) {
	return r.find(ctx, true)
}

func (r *DocumentSupplierRepository) find(ctx context.Context, approvedOnly bool) ([]*partner.Supplier, error) {
	docs, err := listDocuments[models.SupplierDocument](ctx, r.st, store.CollectionSuppliers)
	if err != nil {
		return nil, fmt.Errorf("failed to list suppliers: %w", err)
	}
	out := make([]*partner.Supplier, 0, len(docs))
	for _, d := range docs {
		if approvedOnly && !d.IsApproved {
			continue
		}
		out = append(out, d.ToDomain())
	}
	sort.Slice(out, func(i, j int) bool {
		return strings.ToLower(out[i].Name) < strings.ToLower(out[j].Name)
	})
	return out, nil
}

// FindByID finds a supplier by ID
func (r *DocumentSupplierRepository) FindByID(ctx context.Context, id uuid.UUID) (*partner.Supplier, error) {
	doc, err := getDocument[models.SupplierDocument](ctx, r.st, supplierPath(id))
	if err != nil {
		return nil, fmt.Errorf("failed to load supplier: %w", err)
	}
	if doc == nil {
		return nil, nil
	}
	return doc.ToDomain(), nil
}

// Save creates or replaces a supplier
func (r *DocumentSupplierRepository) Save(ctx context.Context, supplier *partner.Supplier) error {
	var doc models.SupplierDocument
	doc.FromDomain(supplier)
	if err := r.st.Set(ctx, supplierPath(supplier.ID), doc); err != nil {
		return fmt.Errorf("failed to save supplier: %w", err)
	}
	return nil
}

// Delete removes a supplier
func (r *DocumentSupplierRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if err := r.st.Delete(ctx, supplierPath(id)); err != nil {
		return fmt.Errorf("failed to delete supplier: %w", err)
	}
	return nil
}

var _ partner.SupplierRepository = (*DocumentSupplierRepository)(nil)
