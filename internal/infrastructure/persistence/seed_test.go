package persistence

import (
	"context"
	"testing"

	"github.com/hotel/backend/internal/domain/identity"
	"github.com/hotel/backend/internal/domain/procurement"
	"github.com/hotel/backend/internal/infrastructure/config"
	"github.com/hotel/backend/internal/infrastructure/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestSeed(t *testing.T) {
	ctx := context.Background()
	gw := store.NewMemoryGateway(nil)

	result, err := Seed(ctx, gw, testNow, nil)
	require.NoError(t, err)
	assert.Equal(t, 3, result.Suppliers)
	assert.Equal(t, 5, result.Items)
	assert.Equal(t, 5, result.Orders)
	assert.Equal(t, 2, result.MenuItems)
	assert.Equal(t, 1, result.Budgets)

	orders, err := NewDocumentPurchaseOrderRepository(gw).FindAll(ctx)
	require.NoError(t, err)
	statuses := map[procurement.Status]int{}
	for _, o := range orders {
		statuses[o.Status]++
	}
	assert.Equal(t, map[procurement.Status]int{
		procurement.StatusPending:   1,
		procurement.StatusApproved:  1,
		procurement.StatusInTransit: 1,
		procurement.StatusDelivered: 1,
		procurement.StatusRejected:  1,
	}, statuses)

	b, err := NewDocumentBudgetRepository(gw).FindByMonth(ctx, 2024, 5)
	require.NoError(t, err)
	require.NotNil(t, b)
	assert.Equal(t, "2500", b.Amount.String())
	// 6 kg mozzarella at 9.80
	assert.Equal(t, "58.8", b.Spent.String())

	menuItems, err := NewDocumentMenuItemRepository(gw).FindAll(ctx)
	require.NoError(t, err)
	for _, m := range menuItems {
		assert.True(t, m.IsAvailable, m.Name)
	}

	again, err := Seed(ctx, gw, testNow, nil)
	require.NoError(t, err)
	assert.Zero(t, again.Items)
	assert.Equal(t, 5, gw.Len(store.CollectionPurchaseOrders))
}

func TestConfigOperatorRepository(t *testing.T) {
	ctx := context.Background()
	hash, err := bcrypt.GenerateFromPassword([]byte("kitchen-pass"), bcrypt.MinCost)
	require.NoError(t, err)

	repo, err := NewConfigOperatorRepository([]config.OperatorConfig{
		{Username: "Kai", DisplayName: "Kai Moana", Role: "kitchen-staff", PasswordHash: string(hash)},
		{Username: "ines", Role: "inventory-controller", PasswordHash: string(hash)},
	})
	require.NoError(t, err)

	op, err := repo.FindByUsername(ctx, " kai ")
	require.NoError(t, err)
	require.NotNil(t, op)
	assert.Equal(t, identity.RoleKitchenStaff, op.Role)
	assert.True(t, op.VerifyPassword("kitchen-pass"))

	missing, err := repo.FindByUsername(ctx, "nobody")
	require.NoError(t, err)
	assert.Nil(t, missing)

	all, err := repo.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Kai", all[0].Username)

	tests := []struct {
		name string
		cfgs []config.OperatorConfig
	}{
		{name: "unknown role", cfgs: []config.OperatorConfig{{Username: "kai", Role: "chef", PasswordHash: string(hash)}}},
		{name: "missing hash", cfgs: []config.OperatorConfig{{Username: "kai", Role: "kitchen-staff"}}},
		{name: "duplicate username", cfgs: []config.OperatorConfig{
			{Username: "kai", Role: "kitchen-staff", PasswordHash: string(hash)},
			{Username: "KAI", Role: "inventory-controller", PasswordHash: string(hash)},
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewConfigOperatorRepository(tt.cfgs)
			assert.Error(t, err)
		})
	}
}
