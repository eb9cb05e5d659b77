package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/google/uuid"
	appinv "github.com/hotel/backend/internal/application/inventory"
	appproc "github.com/hotel/backend/internal/application/procurement"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

var exportNow = time.Date(2024, 5, 10, 9, 0, 0, 0, time.UTC)

func readRows(t *testing.T, f *excelize.File, sheet string) [][]string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))
	require.NoError(t, f.Close())

	back, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer back.Close()
	rows, err := back.GetRows(sheet)
	require.NoError(t, err)
	return rows
}

func TestInventory(t *testing.T) {
	expiry := exportNow.AddDate(0, 0, 3)
	items := []appinv.InventoryItemResponse{
		{
			ID:           uuid.New(),
			Name:         "Tomatoes",
			Category:     "produce",
			Unit:         "kg",
			CurrentStock: decimal.NewFromInt(28),
			Cost:         decimal.RequireFromString("2.5"),
			StockValue:   decimal.NewFromInt(70),
			NextExpiry:   &expiry,
			BatchCount:   2,
			IsActive:     true,
		},
		{
			ID:           uuid.New(),
			Name:         "Basil",
			Unit:         "bunch",
			CurrentStock: decimal.NewFromInt(3),
			StockValue:   decimal.NewFromInt(6),
			IsLowStock:   true,
			IsActive:     true,
		},
	}

	f, name, err := Inventory(items, exportNow)
	require.NoError(t, err)
	assert.Equal(t, "inventory_20240510.xlsx", name)

	rows := readRows(t, f, "Inventory")
	require.Len(t, rows, 4)
	assert.Equal(t, inventoryHeaders, rows[0])
	assert.Equal(t, "Tomatoes", rows[1][0])
	assert.Equal(t, "28", rows[1][3])
	assert.Equal(t, "2024-05-13", rows[1][10])
	assert.Equal(t, "No", rows[1][12])
	assert.Equal(t, "Yes", rows[2][12])
	assert.Equal(t, "Total", rows[3][0])
	assert.Equal(t, "2 items", rows[3][1])
	assert.Equal(t, "76", rows[3][9])
}

func TestPurchaseOrders(t *testing.T) {
	actual := decimal.RequireFromString("58.8")
	received := exportNow
	orders := []appproc.PurchaseOrderResponse{
		{
			OrderNumber:       "PO-2405-0001",
			SupplierName:      "Northfield Dairy",
			Status:            "delivered",
			Priority:          "normal",
			Items:             make([]appproc.OrderLineResponse, 1),
			TotalAmount:       decimal.RequireFromString("58.8"),
			ActualTotalAmount: &actual,
			RequestedBy:       "kai",
			ReceivedAt:        &received,
			CreatedAt:         exportNow.AddDate(0, 0, -2),
		},
		{
			OrderNumber:  "PO-2405-0002",
			SupplierName: "Valley Fresh Produce",
			Status:       "pending",
			Priority:     "high",
			Items:        make([]appproc.OrderLineResponse, 2),
			TotalAmount:  decimal.NewFromInt(40),
			CreatedAt:    exportNow,
		},
	}

	f, name, err := PurchaseOrders(orders, exportNow)
	require.NoError(t, err)
	assert.Equal(t, "purchase_orders_20240510.xlsx", name)

	rows := readRows(t, f, "Purchase Orders")
	require.Len(t, rows, 4)
	assert.Equal(t, orderHeaders, rows[0])
	assert.Equal(t, []string{"PO-2405-0001", "Northfield Dairy", "delivered", "normal", "1", "58.8", "58.8"}, rows[1][:7])
	assert.Equal(t, "2024-05-10", rows[1][10])
	assert.Equal(t, "", rows[2][6])
	assert.Equal(t, "98.8", rows[3][5])
}

func TestInventory_Empty(t *testing.T) {
	f, _, err := Inventory(nil, exportNow)
	require.NoError(t, err)
	rows := readRows(t, f, "Inventory")
	require.Len(t, rows, 2)
	assert.Equal(t, "0 items", rows[1][1])
}
