package handlers

import (
	"net/http"

	"github.com/fixitstudio/consultation-backend/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// PaymentHandler handles payment order creation and receipt verification
type PaymentHandler struct {
	gateway services.PaymentGateway
	logger  *logrus.Logger
}

// NewPaymentHandler creates a new PaymentHandler
func NewPaymentHandler(gateway services.PaymentGateway, logger *logrus.Logger) *PaymentHandler {
	return &PaymentHandler{
		gateway: gateway,
		logger:  logger,
	}
}

// CreateOrderRequest is the optional customer context for order labelling
type CreateOrderRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// VerifyPaymentRequest is the receipt produced by the Razorpay checkout widget
type VerifyPaymentRequest struct {
	OrderID   string `json:"razorpay_order_id"`
	PaymentID string `json:"razorpay_payment_id"`
	Signature string `json:"razorpay_signature"`
}

// CreateOrder creates a Razorpay order for the fixed consultation fee
// POST /payment/create-order
func (h *PaymentHandler) CreateOrder(c *gin.Context) {
	if !h.gateway.IsConfigured() {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Payment gateway not configured",
			"hint":    "Set RAZORPAY_KEY_ID and RAZORPAY_KEY_SECRET in the environment",
		})
		return
	}

	// Body is optional; a missing or malformed body just means no labels
	var req CreateOrderRequest
	_ = c.ShouldBindJSON(&req)

	order, err := h.gateway.CreateOrder(c.Request.Context(), req.Name, req.Email)
	if err != nil {
		h.logger.WithError(err).Error("Order creation failed")
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Failed to create payment order",
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success":  true,
		"orderId":  order.OrderID,
		"amount":   order.Amount,
		"currency": order.Currency,
		"keyId":    order.KeyID,
	})
}

// VerifyPayment checks a checkout receipt against the server-held secret.
// Optional pre-check for clients; the consultation endpoint re-verifies
// regardless. Pure: no storage access on any path.
// POST /payment/verify
func (h *PaymentHandler) VerifyPayment(c *gin.Context) {
	if !h.gateway.IsConfigured() {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Payment verification not configured",
			"hint":    "Set RAZORPAY_KEY_SECRET in the environment",
		})
		return
	}

	var req VerifyPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Invalid request body",
		})
		return
	}

	if req.OrderID == "" || req.PaymentID == "" || req.Signature == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Missing payment verification fields",
			"details": "razorpay_order_id, razorpay_payment_id, and razorpay_signature are all required",
		})
		return
	}

	result := h.gateway.VerifyPayment(req.OrderID, req.PaymentID, req.Signature)
	if !result.Verified {
		h.logger.WithField("order_id", req.OrderID).Warn("Payment verification failed")
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Payment verification failed",
			"details": result.Reason,
		})
		return
	}

	h.logger.WithFields(logrus.Fields{
		"order_id":   req.OrderID,
		"payment_id": req.PaymentID,
	}).Info("Payment verified")

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"verified":  true,
		"paymentId": req.PaymentID,
		"orderId":   req.OrderID,
	})
}
