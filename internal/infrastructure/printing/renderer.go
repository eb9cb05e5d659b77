package printing

import (
	"context"
	"time"
)

// Paper dimensions in millimetres
const (
	a4WidthMM  = 210
	a4HeightMM = 297
)

// Margins in millimetres
type Margins struct {
	Top    float64
	Right  float64
	Bottom float64
	Left   float64
}

// DefaultMargins returns the margins used for reconciliation documents
func DefaultMargins() Margins {
	return Margins{Top: 12, Right: 10, Bottom: 12, Left: 10}
}

// RenderRequest contains the parameters for rendering HTML to PDF
type RenderRequest struct {
	HTML      string
	Title     string
	Landscape bool
	Margins   Margins
	// Timeout overrides the renderer's default
	Timeout time.Duration
}

// RenderResult contains the output from PDF rendering
type RenderResult struct {
	PDFData        []byte
	PageCount      int
	RenderDuration time.Duration
}

// PDFRenderer converts HTML documents to PDF
type PDFRenderer interface {
	Render(ctx context.Context, req *RenderRequest) (*RenderResult, error)
	Close() error
}

// RenderError represents an error during rendering
type RenderError struct {
	Code    string
	Message string
	Cause   error
}

func (e *RenderError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *RenderError) Unwrap() error {
	return e.Cause
}

// Error codes for rendering failures
const (
	ErrCodeRenderTimeout = "RENDER_TIMEOUT"
	ErrCodeRenderFailed  = "RENDER_FAILED"
	ErrCodeInvalidHTML   = "INVALID_HTML"
	ErrCodePDFDisabled   = "PDF_DISABLED"
	ErrCodeTemplate      = "TEMPLATE_FAILED"
)

// NewRenderError creates a new RenderError
func NewRenderError(code, message string, cause error) *RenderError {
	return &RenderError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}
