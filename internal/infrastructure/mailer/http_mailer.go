// Package mailer delivers purchase order emails through an outbound HTTP
// mail endpoint.
package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	appproc "github.com/hotel/backend/internal/application/procurement"
	"github.com/hotel/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

const (
	defaultTimeout = 15 * time.Second

	// maxResponseSize caps how much of the endpoint's reply is read
	maxResponseSize = 64 << 10
)

// ErrNotConfigured is returned when no endpoint is set
var ErrNotConfigured = errors.New("mail endpoint is not configured")

// SendError is a non-2xx reply. Error returns the endpoint's own message.
type SendError struct {
	StatusCode int
	Message    string
}

func (e *SendError) Error() string {
	return e.Message
}

// HTTPMailer implements procurement.OrderMailer by POSTing JSON to the
// configured endpoint. It never retries.
type HTTPMailer struct {
	endpoint   string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewHTTPMailer creates a mailer for cfg.Endpoint
func NewHTTPMailer(cfg config.MailerConfig, logger *zap.Logger) *HTTPMailer {
	if logger == nil {
		logger = zap.NewNop()
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &HTTPMailer{
		endpoint:   strings.TrimSpace(cfg.Endpoint),
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

type orderData struct {
	Order    appproc.PurchaseOrderResponse `json:"order"`
	Supplier appproc.SupplierContact       `json:"supplier"`
}

type sendRequest struct {
	OrderData     orderData `json:"orderData"`
	CustomSubject string    `json:"customSubject"`
	CustomContent string    `json:"customContent"`
	Message       string    `json:"message,omitempty"`
}

type errorReply struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

// SendOrderEmail implements procurement.OrderMailer
func (m *HTTPMailer) SendOrderEmail(ctx context.Context, email appproc.OrderEmail) error {
	if m.endpoint == "" {
		return ErrNotConfigured
	}

	body, err := json.Marshal(sendRequest{
		OrderData:     orderData{Order: email.Order, Supplier: email.Supplier},
		CustomSubject: email.Subject,
		CustomContent: email.Content,
		Message:       email.Message,
	})
	if err != nil {
		return fmt.Errorf("mailer: failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("mailer: failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := m.httpClient.Do(req)
	if err != nil {
		m.logger.Warn("Mail endpoint unreachable", zap.String("order_number", email.Order.OrderNumber), zap.Error(err))
		return fmt.Errorf("mailer: request failed: %w", err)
	}
	defer resp.Body.Close()

	reply, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return fmt.Errorf("mailer: failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		sendErr := &SendError{StatusCode: resp.StatusCode, Message: replyMessage(resp.StatusCode, reply)}
		m.logger.Warn("Mail endpoint rejected order email",
			zap.String("order_number", email.Order.OrderNumber),
			zap.Int("status", resp.StatusCode),
			zap.String("message", sendErr.Message))
		return sendErr
	}

	m.logger.Info("Order email sent",
		zap.String("order_number", email.Order.OrderNumber),
		zap.String("supplier_email", email.Supplier.Email))
	return nil
}

// replyMessage picks message, then error, from a JSON reply; anything else
// is returned raw
func replyMessage(status int, reply []byte) string {
	var parsed errorReply
	if err := json.Unmarshal(reply, &parsed); err == nil {
		if parsed.Message != "" {
			return parsed.Message
		}
		if parsed.Error != "" {
			return parsed.Error
		}
	}
	if raw := strings.TrimSpace(string(reply)); raw != "" {
		return raw
	}
	return fmt.Sprintf("Mail endpoint returned HTTP %d", status)
}

var _ appproc.OrderMailer = (*HTTPMailer)(nil)
