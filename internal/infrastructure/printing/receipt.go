package printing

import (
	"bytes"
	"context"
	"html/template"
	"time"

	appproc "github.com/hotel/backend/internal/application/procurement"
	"github.com/hotel/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// ReceiptPrinter renders the reconciliation document of a confirmed delivery
type ReceiptPrinter struct {
	tmpl   *template.Template
	format *Formatter
	pdf    PDFRenderer
	logger *zap.Logger
	now    func() time.Time
}

// NewReceiptPrinter creates a printer. A nil renderer disables PDF output.
func NewReceiptPrinter(cfg config.PrintingConfig, pdf PDFRenderer, logger *zap.Logger) (*ReceiptPrinter, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	format, err := NewFormatter(cfg.Locale, cfg.Currency)
	if err != nil {
		return nil, err
	}
	tmpl, err := template.New("receipt").Funcs(template.FuncMap{
		"money":    format.Money,
		"qty":      format.Quantity,
		"signed":   format.Signed,
		"date":     format.Date,
		"datetime": format.DateTime,
	}).Parse(receiptTemplate)
	if err != nil {
		return nil, err
	}
	return &ReceiptPrinter{
		tmpl:   tmpl,
		format: format,
		pdf:    pdf,
		logger: logger,
		now:    time.Now,
	}, nil
}

// PDFEnabled reports whether PDF output is available
func (p *ReceiptPrinter) PDFEnabled() bool {
	return p.pdf != nil
}

type receiptView struct {
	*appproc.ReceiveResult
	AutoPrint   bool
	GeneratedAt time.Time
}

// HTML renders a standalone document that opens the print dialog when loaded
func (p *ReceiptPrinter) HTML(_ context.Context, result *appproc.ReceiveResult) ([]byte, error) {
	return p.render(result, true)
}

// PDF renders the document through the PDF renderer
func (p *ReceiptPrinter) PDF(ctx context.Context, result *appproc.ReceiveResult) ([]byte, error) {
	if p.pdf == nil {
		return nil, NewRenderError(ErrCodePDFDisabled, "PDF rendering is not enabled", nil)
	}
	html, err := p.render(result, false)
	if err != nil {
		return nil, err
	}
	out, err := p.pdf.Render(ctx, &RenderRequest{
		HTML:    string(html),
		Title:   "Delivery " + result.Order.OrderNumber,
		Margins: DefaultMargins(),
	})
	if err != nil {
		p.logger.Warn("Receipt PDF rendering failed", zap.String("order_number", result.Order.OrderNumber), zap.Error(err))
		return nil, err
	}
	return out.PDFData, nil
}

func (p *ReceiptPrinter) render(result *appproc.ReceiveResult, autoPrint bool) ([]byte, error) {
	if result == nil {
		return nil, NewRenderError(ErrCodeInvalidHTML, "nothing to render", nil)
	}
	var buf bytes.Buffer
	if err := p.tmpl.Execute(&buf, receiptView{ReceiveResult: result, AutoPrint: autoPrint, GeneratedAt: p.now()}); err != nil {
		return nil, NewRenderError(ErrCodeTemplate, "failed to render receipt", err)
	}
	return buf.Bytes(), nil
}

const receiptTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="UTF-8">
<title>Delivery {{.Order.OrderNumber}}</title>
<style>
body { font-family: Helvetica, Arial, sans-serif; font-size: 12px; color: #222; }
h1 { font-size: 18px; margin-bottom: 4px; }
table { width: 100%; border-collapse: collapse; margin-top: 12px; }
th, td { border-bottom: 1px solid #ccc; padding: 4px 6px; text-align: left; }
td.num, th.num { text-align: right; }
tr.excluded td { color: #999; text-decoration: line-through; }
.shortage { color: #b00020; }
.overage { color: #a15c00; }
.totals td { font-weight: bold; border-bottom: none; }
.meta { margin: 2px 0; }
</style>
</head>
<body>
<h1>Delivery reconciliation {{.Order.OrderNumber}}</h1>
<p class="meta">Supplier: {{.Order.SupplierName}}</p>
<p class="meta">Received {{datetime .ReceivedAt}} by {{.ReceivedBy}}</p>
{{- if .Order.ExpectedDelivery}}
<p class="meta">Expected {{date .Order.ExpectedDelivery}}</p>
{{- end}}
<table>
<thead>
<tr><th>Item</th><th>Batch</th><th>Expires</th><th class="num">Ordered</th><th class="num">Received</th><th class="num">Difference</th><th class="num">Unit cost</th><th class="num">Line cost</th></tr>
</thead>
<tbody>
{{- range .Receipt.Lines}}
<tr{{if not .Included}} class="excluded"{{end}}>
<td>{{.ItemName}}</td>
<td>{{.BatchNumber}}</td>
<td>{{if .ExpirationDate}}{{date .ExpirationDate}}{{end}}</td>
<td class="num">{{qty .OrderedQuantity}} {{.Unit}}</td>
<td class="num">{{qty .ReceivedQuantity}} {{.Unit}}</td>
<td class="num {{.Badge}}">{{signed .Discrepancy}}</td>
<td class="num">{{money .UnitCost}}</td>
<td class="num">{{if .Included}}{{money .LineCost}}{{end}}</td>
</tr>
{{- end}}
</tbody>
<tfoot>
<tr class="totals"><td colspan="7">Ordered total</td><td class="num">{{money .Receipt.OrderedTotal}}</td></tr>
<tr class="totals"><td colspan="7">Verified total</td><td class="num">{{money .Receipt.VerifiedTotal}}</td></tr>
</tfoot>
</table>
<p class="meta">{{if .Receipt.Accurate}}Delivery matches the order.{{else}}Delivery differs from the order.{{end}}</p>
<p class="meta">Printed {{datetime .GeneratedAt}}</p>
{{- if .AutoPrint}}
<script>window.addEventListener("load", function () { window.print(); });</script>
{{- end}}
</body>
</html>
`
