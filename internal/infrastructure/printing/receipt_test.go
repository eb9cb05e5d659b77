package printing

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	appproc "github.com/hotel/backend/internal/application/procurement"
	"github.com/hotel/backend/internal/infrastructure/config"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRenderer struct {
	req *RenderRequest
	err error
}

func (f *fakeRenderer) Render(_ context.Context, req *RenderRequest) (*RenderResult, error) {
	f.req = req
	if f.err != nil {
		return nil, f.err
	}
	return &RenderResult{PDFData: []byte("%PDF-1.4"), PageCount: 1}, nil
}

func (f *fakeRenderer) Close() error { return nil }

func sampleResult() *appproc.ReceiveResult {
	expires := time.Date(2024, 5, 20, 0, 0, 0, 0, time.UTC)
	return &appproc.ReceiveResult{
		Order: appproc.PurchaseOrderResponse{
			ID:           uuid.New(),
			OrderNumber:  "PO-20240510-0003",
			SupplierName: "Valley Fresh Produce",
		},
		Receipt: appproc.ReceiptResponse{
			OrderNumber: "PO-20240510-0003",
			Lines: []appproc.ReceiptLineResponse{
				{
					ItemName:         "Tomatoes",
					Unit:             "kg",
					OrderedQuantity:  decimal.NewFromInt(30),
					ReceivedQuantity: decimal.NewFromInt(28),
					Discrepancy:      decimal.NewFromInt(-2),
					Badge:            "shortage",
					UnitCost:         decimal.RequireFromString("2.40"),
					LineCost:         decimal.RequireFromString("67.20"),
					BatchNumber:      "BAT-PO-20240510-0003-1",
					ExpirationDate:   &expires,
					Included:         true,
				},
				{
					ItemName:         "Basil",
					Unit:             "bunch",
					OrderedQuantity:  decimal.NewFromInt(10),
					ReceivedQuantity: decimal.Zero,
					Discrepancy:      decimal.NewFromInt(-10),
					UnitCost:         decimal.RequireFromString("1.10"),
					BatchNumber:      "BAT-PO-20240510-0003-2",
				},
			},
			OrderedTotal:  decimal.RequireFromString("83.00"),
			VerifiedTotal: decimal.RequireFromString("67.20"),
		},
		ReceivedAt: time.Date(2024, 5, 10, 14, 30, 0, 0, time.UTC),
		ReceivedBy: "sam",
	}
}

func newTestPrinter(t *testing.T, pdf PDFRenderer) *ReceiptPrinter {
	t.Helper()
	p, err := NewReceiptPrinter(config.PrintingConfig{Locale: "en-US", Currency: "USD"}, pdf, nil)
	require.NoError(t, err)
	p.now = func() time.Time { return time.Date(2024, 5, 10, 15, 0, 0, 0, time.UTC) }
	return p
}

func TestReceiptPrinter_HTML(t *testing.T) {
	p := newTestPrinter(t, nil)

	out, err := p.HTML(context.Background(), sampleResult())
	require.NoError(t, err)
	html := string(out)

	assert.Contains(t, html, "Delivery reconciliation PO-20240510-0003")
	assert.Contains(t, html, "Valley Fresh Produce")
	assert.Contains(t, html, "Received 2024-05-10 14:30 by sam")
	assert.Contains(t, html, "BAT-PO-20240510-0003-1")
	assert.Contains(t, html, "2024-05-20")
	assert.Contains(t, html, `class="excluded"`)
	assert.Contains(t, html, "num shortage")
	assert.Contains(t, html, "67.20")
	assert.Contains(t, html, "Delivery differs from the order.")
	assert.Contains(t, html, "window.print()")
}

func TestReceiptPrinter_PDF(t *testing.T) {
	t.Run("renders without the print script", func(t *testing.T) {
		renderer := &fakeRenderer{}
		p := newTestPrinter(t, renderer)

		out, err := p.PDF(context.Background(), sampleResult())
		require.NoError(t, err)
		assert.Equal(t, []byte("%PDF-1.4"), out)
		require.NotNil(t, renderer.req)
		assert.Equal(t, "Delivery PO-20240510-0003", renderer.req.Title)
		assert.NotContains(t, renderer.req.HTML, "window.print()")
	})

	t.Run("disabled without a renderer", func(t *testing.T) {
		p := newTestPrinter(t, nil)
		assert.False(t, p.PDFEnabled())

		_, err := p.PDF(context.Background(), sampleResult())
		var renderErr *RenderError
		require.True(t, errors.As(err, &renderErr))
		assert.Equal(t, ErrCodePDFDisabled, renderErr.Code)
	})

	t.Run("surfaces renderer failures", func(t *testing.T) {
		boom := NewRenderError(ErrCodeRenderTimeout, "PDF rendering timed out", nil)
		p := newTestPrinter(t, &fakeRenderer{err: boom})

		_, err := p.PDF(context.Background(), sampleResult())
		assert.ErrorIs(t, err, boom)
	})
}

func TestFormatter(t *testing.T) {
	f, err := NewFormatter("", "")
	require.NoError(t, err)

	money := f.Money(decimal.RequireFromString("12.5"))
	assert.Contains(t, money, "$")
	assert.Contains(t, money, "12.50")
	assert.Equal(t, "2.5", f.Quantity(decimal.RequireFromString("2.5")))
	assert.Equal(t, "+3", f.Signed(decimal.NewFromInt(3)))
	assert.Equal(t, "-2", f.Signed(decimal.NewFromInt(-2)))

	_, err = NewFormatter("en-US", "NOPE")
	assert.Error(t, err)
}
