package partner

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/hotel/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	testNow   = time.Date(2024, 5, 10, 9, 0, 0, 0, time.UTC)
	testActor = shared.Actor{Username: "sam", Role: "purchasing-officer"}
)

func createTestSupplier(t *testing.T) *Supplier {
	t.Helper()
	s, err := NewSupplier(SupplierSpec{
		Name:          "Fresh Farms",
		ContactPerson: "Ana",
		Email:         "orders@freshfarms.example",
		Categories:    []string{"Produce", "produce", " Dairy "},
	}, testActor, testNow)
	require.NoError(t, err)
	s.ClearDomainEvents()
	return s
}

func TestNewSupplier(t *testing.T) {
	t.Run("creates unapproved supplier with deduplicated categories", func(t *testing.T) {
		s := createTestSupplier(t)

		assert.False(t, s.IsApproved)
		assert.Equal(t, []string{"Produce", "Dairy"}, s.Categories)
		assert.True(t, s.Supplies("dairy"))
	})

	t.Run("rejects empty name", func(t *testing.T) {
		_, err := NewSupplier(SupplierSpec{}, testActor, testNow)
		assert.ErrorIs(t, err, shared.ErrInvalidInput)
	})

	t.Run("rejects malformed email", func(t *testing.T) {
		_, err := NewSupplier(SupplierSpec{Name: "X", Email: "not-an-email"}, testActor, testNow)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "email")
	})
}

func TestSupplier_Approve(t *testing.T) {
	s := createTestSupplier(t)

	require.NoError(t, s.Approve(testActor, testNow))
	assert.True(t, s.IsApproved)
	require.Len(t, s.GetDomainEvents(), 1)
	assert.Equal(t, EventTypeSupplierApproved, s.GetDomainEvents()[0].EventType())

	assert.ErrorIs(t, s.Approve(testActor, testNow), shared.ErrInvalidState)
}

func TestSupplier_RecordDelivery(t *testing.T) {
	s := createTestSupplier(t)

	s.RecordDelivery(true, true, testNow)
	s.RecordDelivery(false, true, testNow.Add(time.Hour))
	s.RecordDelivery(true, false, testNow.Add(2*time.Hour))

	assert.Equal(t, 3, s.Performance.TotalOrders)
	assert.Equal(t, "66.7", s.Performance.OnTimeRate().String())
	assert.Equal(t, "66.7", s.Performance.AccuracyRate().String())
	require.NotNil(t, s.Performance.LastDeliveryAt)
	assert.Equal(t, testNow.Add(2*time.Hour), *s.Performance.LastDeliveryAt)
}

func TestSupplier_IsLinked(t *testing.T) {
	s := createTestSupplier(t)
	other := uuid.New()

	assert.True(t, s.IsLinked(LinkedItemRef{SupplierID: &s.ID}))
	assert.True(t, s.IsLinked(LinkedItemRef{SupplierName: "fresh farms"}))
	assert.False(t, s.IsLinked(LinkedItemRef{SupplierID: &other, SupplierName: "Ocean Catch"}))
	assert.False(t, s.IsLinked(LinkedItemRef{}))
}

func TestPerformance_RatesWithoutOrders(t *testing.T) {
	assert.True(t, Performance{}.OnTimeRate().IsZero())
}

func TestSupplier_Update(t *testing.T) {
	s := createTestSupplier(t)
	bad := "nope"
	name := "Fresh Farms Ltd"

	assert.Error(t, s.Update(SupplierPatch{Email: &bad}, testActor, testNow))
	assert.Equal(t, "orders@freshfarms.example", s.Email)

	require.NoError(t, s.Update(SupplierPatch{Name: &name}, testActor, testNow))
	assert.Equal(t, "Fresh Farms Ltd", s.Name)
}
