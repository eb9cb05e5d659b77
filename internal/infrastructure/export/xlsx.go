// Package export writes inventory and purchase order spreadsheets.
package export

import (
	"fmt"
	"time"

	appinv "github.com/hotel/backend/internal/application/inventory"
	appproc "github.com/hotel/backend/internal/application/procurement"
	"github.com/xuri/excelize/v2"
)

// ContentType is the MIME type of the generated workbooks
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

const dateLayout = "2006-01-02"

var (
	inventoryHeaders = []string{
		"Name", "Category", "Unit", "Current Stock", "Restock Threshold", "Max Stock",
		"Location", "Supplier", "Unit Cost", "Stock Value", "Next Expiry", "Batches", "Low Stock", "Active",
	}
	inventoryWidths = []float64{24, 14, 8, 14, 16, 12, 14, 22, 10, 12, 12, 8, 10, 8}

	orderHeaders = []string{
		"Order Number", "Supplier", "Status", "Priority", "Lines", "Total", "Actual Total",
		"Expected Delivery", "Requested By", "Approved By", "Received At", "Created At",
	}
	orderWidths = []float64{16, 24, 12, 10, 8, 12, 12, 16, 16, 16, 16, 16}
)

// Inventory builds a workbook with one row per item and a stock value total.
// The caller must close the returned file.
func Inventory(items []appinv.InventoryItemResponse, now time.Time) (*excelize.File, string, error) {
	s, err := newSheet("Inventory", inventoryHeaders, inventoryWidths)
	if err != nil {
		return nil, "", err
	}

	var total float64
	for i, it := range items {
		value := it.StockValue.InexactFloat64()
		total += value
		s.row(i+2,
			it.Name, it.Category, it.Unit,
			it.CurrentStock.InexactFloat64(),
			it.RestockThreshold.InexactFloat64(),
			it.MaxStock.InexactFloat64(),
			it.Location, it.SupplierName,
			it.Cost.InexactFloat64(), value,
			formatDate(it.NextExpiry), it.BatchCount,
			yesNo(it.IsLowStock), yesNo(it.IsActive),
		)
	}
	if err := s.summary(len(items)+2, map[int]any{
		1:  "Total",
		2:  fmt.Sprintf("%d items", len(items)),
		10: total,
	}); err != nil {
		return nil, "", err
	}
	return s.f, fmt.Sprintf("inventory_%s.xlsx", now.Format("20060102")), nil
}

// PurchaseOrders builds a workbook with one row per order and a total of
// ordered amounts. The caller must close the returned file.
func PurchaseOrders(orders []appproc.PurchaseOrderResponse, now time.Time) (*excelize.File, string, error) {
	s, err := newSheet("Purchase Orders", orderHeaders, orderWidths)
	if err != nil {
		return nil, "", err
	}

	var total float64
	for i, o := range orders {
		amount := o.TotalAmount.InexactFloat64()
		total += amount
		var actual any = ""
		if o.ActualTotalAmount != nil {
			actual = o.ActualTotalAmount.InexactFloat64()
		}
		s.row(i+2,
			o.OrderNumber, o.SupplierName, o.Status, o.Priority, len(o.Items),
			amount, actual,
			formatDate(o.ExpectedDelivery), o.RequestedBy, o.ApprovedBy,
			formatDate(o.ReceivedAt), o.CreatedAt.UTC().Format(dateLayout),
		)
	}
	if err := s.summary(len(orders)+2, map[int]any{
		1: "Total",
		2: fmt.Sprintf("%d orders", len(orders)),
		6: total,
	}); err != nil {
		return nil, "", err
	}
	return s.f, fmt.Sprintf("purchase_orders_%s.xlsx", now.Format("20060102")), nil
}

// sheet accumulates the first write error so rows can be written without
// checking every cell
type sheet struct {
	f       *excelize.File
	name    string
	columns int
	err     error
}

func newSheet(name string, headers []string, widths []float64) (*sheet, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", name); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}
	header, err := f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Bold: true, Size: 11},
		Fill:   excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#D9E1F2"}},
		Border: []excelize.Border{{Type: "bottom", Color: "000000", Style: 1}},
	})
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	s := &sheet{f: f, name: name, columns: len(headers)}
	cells := make([]any, len(headers))
	for i, h := range headers {
		cells[i] = h
	}
	s.row(1, cells...)
	last, _ := excelize.CoordinatesToCellName(len(headers), 1)
	s.set(f.SetCellStyle(name, "A1", last, header))
	for i, w := range widths {
		col, _ := excelize.ColumnNumberToName(i + 1)
		s.set(f.SetColWidth(name, col, col, w))
	}
	s.set(f.SetPanes(name, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"}))
	if s.err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("failed to write header: %w", s.err)
	}
	return s, nil
}

func (s *sheet) row(n int, values ...any) {
	cell, err := excelize.CoordinatesToCellName(1, n)
	if err != nil {
		s.set(err)
		return
	}
	s.set(s.f.SetSheetRow(s.name, cell, &values))
}

// summary writes a bold row; cells maps 1-based columns to values
func (s *sheet) summary(n int, cells map[int]any) error {
	bold, err := s.f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		_ = s.f.Close()
		return fmt.Errorf("failed to create summary style: %w", err)
	}
	for col, v := range cells {
		cell, _ := excelize.CoordinatesToCellName(col, n)
		s.set(s.f.SetCellValue(s.name, cell, v))
	}
	first, _ := excelize.CoordinatesToCellName(1, n)
	last, _ := excelize.CoordinatesToCellName(s.columns, n)
	s.set(s.f.SetCellStyle(s.name, first, last, bold))
	if s.err != nil {
		_ = s.f.Close()
		return fmt.Errorf("failed to write sheet: %w", s.err)
	}
	return nil
}

func (s *sheet) set(err error) {
	if s.err == nil {
		s.err = err
	}
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format(dateLayout)
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}
