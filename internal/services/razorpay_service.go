package services

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

	"github.com/fixitstudio/consultation-backend/internal/config"
	"github.com/fixitstudio/consultation-backend/pkg/signature"
	"github.com/sirupsen/logrus"
)

// Consultation fee, fixed server-side. The client can never choose or
// influence the amount.
const (
	ConsultationFeePaise = 29900 // Rs 299 in paise (1 INR = 100 paise)
	ConsultationCurrency = "INR"

	// Razorpay rejects receipt ids longer than 40 chars
	receiptIDMaxLength = 40
)

// ErrGatewayNotConfigured indicates Razorpay credentials are absent
var ErrGatewayNotConfigured = errors.New("payment gateway not configured: missing key id or key secret")

// PaymentOrder is the result of creating an order with the gateway
type PaymentOrder struct {
	OrderID  string
	Amount   int64
	Currency string
	KeyID    string // Public key id, safe to expose to the client
}

// VerificationResult is the outcome of checking a payment receipt
type VerificationResult struct {
	Verified bool
	Reason   string // Set when Verified is false; never contains the expected signature
}

// PaymentGateway defines the payment operations handlers depend on
type PaymentGateway interface {
	// CreateOrder mints a new order for the fixed consultation fee
	CreateOrder(ctx context.Context, customerName, customerEmail string) (*PaymentOrder, error)

	// VerifyPayment checks a payment receipt against the key secret.
	// Pure: never touches storage, safe to call redundantly.
	VerifyPayment(orderID, paymentID, sig string) VerificationResult

	// IsConfigured reports whether gateway credentials are present
	IsConfigured() bool
}

// RazorpayService handles payment gateway integration with Razorpay
type RazorpayService struct {
	config *config.RazorpayConfig
	logger *logrus.Logger
	client *http.Client
}

// NewRazorpayService creates a new Razorpay payment service
func NewRazorpayService(cfg *config.RazorpayConfig, logger *logrus.Logger) *RazorpayService {
	return &RazorpayService{
		config: cfg,
		logger: logger,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// razorpayOrderRequest is the Orders API request payload
type razorpayOrderRequest struct {
	Amount   int64             `json:"amount"`
	Currency string            `json:"currency"`
	Receipt  string            `json:"receipt"`
	Notes    map[string]string `json:"notes,omitempty"`
}

// razorpayOrderResponse is the Orders API response
type razorpayOrderResponse struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
	Status   string `json:"status"`
}

// IsConfigured returns true if gateway credentials are present
func (s *RazorpayService) IsConfigured() bool {
	return s.config.KeyID != "" && s.config.KeySecret != ""
}

// CreateOrder mints a Razorpay order for the fixed consultation fee.
// Customer name and email are optional and used only to label the order.
func (s *RazorpayService) CreateOrder(ctx context.Context, customerName, customerEmail string) (*PaymentOrder, error) {
	if !s.IsConfigured() {
		return nil, ErrGatewayNotConfigured
	}

	if customerName = strings.TrimSpace(customerName); customerName == "" {
		customerName = "unknown"
	}
	if customerEmail = strings.TrimSpace(customerEmail); customerEmail == "" {
		customerEmail = "unknown"
	}

	receiptID := fmt.Sprintf("rcpt_%d", time.Now().UnixMilli())
	if len(receiptID) > receiptIDMaxLength {
		receiptID = receiptID[:receiptIDMaxLength]
	}

	orderReq := razorpayOrderRequest{
		Amount:   ConsultationFeePaise,
		Currency: ConsultationCurrency,
		Receipt:  receiptID,
		Notes: map[string]string{
			"customer_name":  customerName,
			"customer_email": customerEmail,
			"purpose":        "Consultation Fee - FixIt Studio",
		},
	}

	s.logger.WithFields(logrus.Fields{
		"customer_name":  customerName,
		"customer_email": customerEmail,
		"amount":         orderReq.Amount,
		"currency":       orderReq.Currency,
	}).Info("Creating Razorpay order")

	jsonBody, err := json.Marshal(orderReq)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal order request: %w", err)
	}

	url := fmt.Sprintf("%s/v1/orders", s.config.APIURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create order request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(s.config.KeyID, s.config.KeySecret)

	resp, err := s.client.Do(req)
	if err != nil {
		s.logger.WithError(err).Error("Failed to call Razorpay orders endpoint")
		return nil, fmt.Errorf("failed to call payment gateway: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read order response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		// Upstream detail stays server-side; callers get a generic error
		s.logger.WithFields(logrus.Fields{
			"status_code": resp.StatusCode,
			"response":    string(body),
		}).Error("Razorpay order creation rejected")
		return nil, fmt.Errorf("payment gateway returned status %d", resp.StatusCode)
	}

	var orderResp razorpayOrderResponse
	if err := json.Unmarshal(body, &orderResp); err != nil {
		s.logger.WithError(err).Error("Failed to parse Razorpay order response")
		return nil, fmt.Errorf("failed to parse order response: %w", err)
	}

	if orderResp.ID == "" {
		return nil, fmt.Errorf("order creation failed: no order id returned")
	}

	s.logger.WithField("order_id", orderResp.ID).Info("Razorpay order created")

	return &PaymentOrder{
		OrderID:  orderResp.ID,
		Amount:   orderResp.Amount,
		Currency: orderResp.Currency,
		KeyID:    s.config.KeyID,
	}, nil
}

// VerifyPayment checks a Razorpay checkout receipt: all three fields must be
// present and the signature must match the HMAC recomputed with the key
// secret. Fails closed on malformed input and when no key secret is
// configured, so a signature minted against the empty string never passes.
func (s *RazorpayService) VerifyPayment(orderID, paymentID, sig string) VerificationResult {
	if s.config.KeySecret == "" {
		return VerificationResult{Verified: false, Reason: "payment verification is not configured"}
	}

	if orderID == "" || paymentID == "" || sig == "" {
		return VerificationResult{Verified: false, Reason: "missing payment verification fields"}
	}

	ok, err := signature.Verify(orderID, paymentID, sig, s.config.KeySecret)
	if err != nil {
		return VerificationResult{Verified: false, Reason: "invalid payment signature format"}
	}
	if !ok {
		return VerificationResult{Verified: false, Reason: "signature mismatch"}
	}

	return VerificationResult{Verified: true}
}
