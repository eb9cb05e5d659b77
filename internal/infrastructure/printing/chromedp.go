package printing

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"github.com/hotel/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

const defaultChromeTimeout = 30 * time.Second

// ChromedpRenderer renders HTML to PDF through the Chrome DevTools Protocol.
// It connects to cfg.ChromeRemoteURL when set and launches a headless
// browser otherwise.
type ChromedpRenderer struct {
	timeout     time.Duration
	remote      bool
	logger      *zap.Logger
	allocCtx    context.Context
	allocCancel context.CancelFunc
}

// NewChromedpRenderer creates a renderer. No browser starts until the first render.
func NewChromedpRenderer(cfg config.PrintingConfig, logger *zap.Logger) *ChromedpRenderer {
	if logger == nil {
		logger = zap.NewNop()
	}
	timeout := cfg.RenderTimeout
	if timeout <= 0 {
		timeout = defaultChromeTimeout
	}

	r := &ChromedpRenderer{timeout: timeout, logger: logger}
	if cfg.ChromeRemoteURL != "" {
		r.remote = true
		r.allocCtx, r.allocCancel = chromedp.NewRemoteAllocator(context.Background(), cfg.ChromeRemoteURL)
		return r
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-first-run", true),
		chromedp.Flag("disable-extensions", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-background-networking", true),
		chromedp.Flag("font-render-hinting", "none"),
	)
	if cfg.NoSandbox {
		opts = append(opts, chromedp.Flag("no-sandbox", true))
	}
	r.allocCtx, r.allocCancel = chromedp.NewExecAllocator(context.Background(), opts...)
	return r
}

// Render converts an HTML document to PDF
func (r *ChromedpRenderer) Render(ctx context.Context, req *RenderRequest) (*RenderResult, error) {
	if req == nil || strings.TrimSpace(req.HTML) == "" {
		return nil, NewRenderError(ErrCodeInvalidHTML, "HTML content is empty", nil)
	}

	start := time.Now()
	timeout := req.Timeout
	if timeout <= 0 {
		timeout = r.timeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	browserCtx, browserCancel := chromedp.NewContext(r.allocCtx,
		chromedp.WithLogf(func(format string, args ...any) {
			r.logger.Debug(fmt.Sprintf(format, args...))
		}),
	)
	defer browserCancel()

	// the browser context must also stop when the caller gives up
	stop := context.AfterFunc(ctx, browserCancel)
	defer stop()

	params := buildPrintParams(req)
	html := completeHTML(req)

	var pdf []byte
	err := chromedp.Run(browserCtx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			tree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(tree.Frame.ID, html).Do(ctx)
		}),
		chromedp.ActionFunc(func(ctx context.Context) error {
			data, _, err := page.PrintToPDF().
				WithPrintBackground(true).
				WithPaperWidth(params.paperWidth).
				WithPaperHeight(params.paperHeight).
				WithMarginTop(params.marginTop).
				WithMarginRight(params.marginRight).
				WithMarginBottom(params.marginBottom).
				WithMarginLeft(params.marginLeft).
				WithLandscape(params.landscape).
				Do(ctx)
			if err != nil {
				return err
			}
			pdf = data
			return nil
		}),
	)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, NewRenderError(ErrCodeRenderTimeout, fmt.Sprintf("PDF rendering timed out after %v", timeout), err)
		}
		if errors.Is(ctx.Err(), context.Canceled) {
			return nil, NewRenderError(ErrCodeRenderTimeout, "PDF rendering was cancelled", err)
		}
		r.logger.Error("chromedp rendering failed", zap.Bool("remote", r.remote), zap.Error(err))
		return nil, NewRenderError(ErrCodeRenderFailed, "chromedp execution failed", err)
	}
	if len(pdf) == 0 {
		return nil, NewRenderError(ErrCodeRenderFailed, "generated PDF is empty", nil)
	}

	result := &RenderResult{
		PDFData:        pdf,
		PageCount:      countPages(pdf),
		RenderDuration: time.Since(start),
	}
	r.logger.Debug("PDF rendered",
		zap.Int("bytes", len(pdf)),
		zap.Int("pages", result.PageCount),
		zap.Duration("duration", result.RenderDuration))
	return result, nil
}

// Close shuts the browser allocator down
func (r *ChromedpRenderer) Close() error {
	if r.allocCancel != nil {
		r.allocCancel()
	}
	return nil
}

// printParams holds the page setup in inches, the unit Chrome expects
type printParams struct {
	paperWidth   float64
	paperHeight  float64
	marginTop    float64
	marginRight  float64
	marginBottom float64
	marginLeft   float64
	landscape    bool
}

func buildPrintParams(req *RenderRequest) printParams {
	return printParams{
		paperWidth:   mmToInches(a4WidthMM),
		paperHeight:  mmToInches(a4HeightMM),
		marginTop:    mmToInches(req.Margins.Top),
		marginRight:  mmToInches(req.Margins.Right),
		marginBottom: mmToInches(req.Margins.Bottom),
		marginLeft:   mmToInches(req.Margins.Left),
		landscape:    req.Landscape,
	}
}

// completeHTML wraps a fragment in a document; full documents pass through
func completeHTML(req *RenderRequest) string {
	lower := strings.ToLower(req.HTML)
	if strings.Contains(lower, "<!doctype") || strings.Contains(lower, "<html") {
		return req.HTML
	}
	var buf bytes.Buffer
	buf.WriteString(`<!DOCTYPE html><html><head><meta charset="UTF-8">`)
	if req.Title != "" {
		buf.WriteString("<title>")
		buf.WriteString(req.Title)
		buf.WriteString("</title>")
	}
	buf.WriteString("</head><body>")
	buf.WriteString(req.HTML)
	buf.WriteString("</body></html>")
	return buf.String()
}

// countPages counts page objects in a PDF; at least one is reported
func countPages(pdf []byte) int {
	n := bytes.Count(pdf, []byte("/Type /Page")) - bytes.Count(pdf, []byte("/Type /Pages"))
	n += bytes.Count(pdf, []byte("/Type/Page")) - bytes.Count(pdf, []byte("/Type/Pages"))
	if n < 1 {
		return 1
	}
	return n
}

func mmToInches(mm float64) float64 {
	return mm / 25.4
}

var _ PDFRenderer = (*ChromedpRenderer)(nil)
