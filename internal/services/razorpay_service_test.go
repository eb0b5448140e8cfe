package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/fixitstudio/consultation-backend/internal/config"
	"github.com/fixitstudio/consultation-backend/pkg/signature"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testKeyID     = "rzp_test_key"
	testKeySecret = "rzp_test_secret"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return logger
}

func newTestService(apiURL string) *RazorpayService {
	return NewRazorpayService(&config.RazorpayConfig{
		KeyID:     testKeyID,
		KeySecret: testKeySecret,
		APIURL:    apiURL,
	}, testLogger())
}

func TestCreateOrder_Success(t *testing.T) {
	var gotPath string
	var gotUser, gotPass string
	var gotReq razorpayOrderRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotUser, gotPass, _ = r.BasicAuth()
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"order_ABC123","amount":29900,"currency":"INR","receipt":"rcpt_1","status":"created"}`))
	}))
	defer server.Close()

	service := newTestService(server.URL)
	order, err := service.CreateOrder(context.Background(), "Jane Doe", "jane@example.com")
	require.NoError(t, err)
	require.NotNil(t, order)

	assert.Equal(t, "/v1/orders", gotPath)
	assert.Equal(t, testKeyID, gotUser)
	assert.Equal(t, testKeySecret, gotPass)

	// Fee is a server-side constant
	assert.Equal(t, int64(29900), gotReq.Amount)
	assert.Equal(t, "INR", gotReq.Currency)
	assert.True(t, strings.HasPrefix(gotReq.Receipt, "rcpt_"))
	assert.LessOrEqual(t, len(gotReq.Receipt), 40)
	assert.Equal(t, "Jane Doe", gotReq.Notes["customer_name"])
	assert.Equal(t, "jane@example.com", gotReq.Notes["customer_email"])

	assert.Equal(t, "order_ABC123", order.OrderID)
	assert.Equal(t, int64(29900), order.Amount)
	assert.Equal(t, "INR", order.Currency)
	assert.Equal(t, testKeyID, order.KeyID)
}

func TestCreateOrder_DefaultLabels(t *testing.T) {
	var gotReq razorpayOrderRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
		w.Write([]byte(`{"id":"order_DEF456","amount":29900,"currency":"INR","status":"created"}`))
	}))
	defer server.Close()

	service := newTestService(server.URL)
	_, err := service.CreateOrder(context.Background(), "  ", "")
	require.NoError(t, err)

	assert.Equal(t, "unknown", gotReq.Notes["customer_name"])
	assert.Equal(t, "unknown", gotReq.Notes["customer_email"])
}

func TestCreateOrder_NotConfigured(t *testing.T) {
	called := false
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer server.Close()

	service := NewRazorpayService(&config.RazorpayConfig{APIURL: server.URL}, testLogger())

	order, err := service.CreateOrder(context.Background(), "Jane", "jane@example.com")
	assert.Nil(t, order)
	assert.ErrorIs(t, err, ErrGatewayNotConfigured)
	assert.False(t, called, "gateway must not be called without credentials")
}

func TestCreateOrder_GatewayRejection(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":{"code":"BAD_REQUEST_ERROR","description":"secret detail"}}`))
	}))
	defer server.Close()

	service := newTestService(server.URL)
	order, err := service.CreateOrder(context.Background(), "Jane", "jane@example.com")
	assert.Nil(t, order)
	require.Error(t, err)

	// Upstream detail must not surface in the error returned to callers
	assert.NotContains(t, err.Error(), "secret detail")
}

func TestVerifyPayment(t *testing.T) {
	service := NewRazorpayService(&config.RazorpayConfig{
		KeyID:     testKeyID,
		KeySecret: testKeySecret,
	}, testLogger())

	validSig := signature.Sign("order_ABC123", "pay_XYZ789", testKeySecret)

	tests := []struct {
		name      string
		orderID   string
		paymentID string
		sig       string
		verified  bool
		reason    string
	}{
		{
			name:      "valid receipt",
			orderID:   "order_ABC123",
			paymentID: "pay_XYZ789",
			sig:       validSig,
			verified:  true,
		},
		{
			name:      "missing order id",
			paymentID: "pay_XYZ789",
			sig:       validSig,
			verified:  false,
			reason:    "missing payment verification fields",
		},
		{
			name:     "missing payment id",
			orderID:  "order_ABC123",
			sig:      validSig,
			verified: false,
			reason:   "missing payment verification fields",
		},
		{
			name:      "missing signature",
			orderID:   "order_ABC123",
			paymentID: "pay_XYZ789",
			verified:  false,
			reason:    "missing payment verification fields",
		},
		{
			name:      "tampered signature",
			orderID:   "order_ABC123",
			paymentID: "pay_XYZ789",
			sig:       signature.Sign("order_ABC123", "pay_FORGED", testKeySecret),
			verified:  false,
			reason:    "signature mismatch",
		},
		{
			name:      "malformed signature",
			orderID:   "order_ABC123",
			paymentID: "pay_XYZ789",
			sig:       "not-hex-at-all",
			verified:  false,
			reason:    "invalid payment signature format",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := service.VerifyPayment(tt.orderID, tt.paymentID, tt.sig)
			assert.Equal(t, tt.verified, result.Verified)
			if tt.reason != "" {
				assert.Equal(t, tt.reason, result.Reason)
			}
		})
	}
}

func TestVerifyPayment_MissingSecretFailsClosed(t *testing.T) {
	service := NewRazorpayService(&config.RazorpayConfig{KeyID: testKeyID}, testLogger())

	// A signature minted against the empty string must never verify
	// when no key secret is configured.
	emptySecretSig := signature.Sign("order_ABC123", "pay_XYZ789", "")

	result := service.VerifyPayment("order_ABC123", "pay_XYZ789", emptySecretSig)
	assert.False(t, result.Verified)
	assert.Equal(t, "payment verification is not configured", result.Reason)
}
