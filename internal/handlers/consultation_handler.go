package handlers

import (
	"errors"
	"net/http"

	"github.com/fixitstudio/consultation-backend/internal/database"
	"github.com/fixitstudio/consultation-backend/internal/models"
	"github.com/fixitstudio/consultation-backend/internal/services"
	"github.com/fixitstudio/consultation-backend/pkg/notify"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// ConsultationStore persists accepted consultation bookings
type ConsultationStore interface {
	Insert(record *models.Consultation) (*models.Consultation, error)
}

// NotificationDispatcher fans a booking out to the notification channels
type NotificationDispatcher interface {
	Dispatch(data *notify.ConsultationData)
}

// ConsultationHandler handles payment-gated consultation submissions
type ConsultationHandler struct {
	store         ConsultationStore
	gateway       services.PaymentGateway
	notifications NotificationDispatcher
	logger        *logrus.Logger
}

// NewConsultationHandler creates a new ConsultationHandler. store may be nil
// when the database is not configured; submissions then fail with a
// configuration error instead of crashing.
func NewConsultationHandler(
	store ConsultationStore,
	gateway services.PaymentGateway,
	notifications NotificationDispatcher,
	logger *logrus.Logger,
) *ConsultationHandler {
	return &ConsultationHandler{
		store:         store,
		gateway:       gateway,
		notifications: notifications,
		logger:        logger,
	}
}

// Submit accepts a consultation booking gated on a verified payment.
// Pipeline: field validation, payment-fields gate, server-side signature
// re-verification, persist, then async notification dispatch. Each step is
// a hard checkpoint; nothing is written before the signature check passes.
// POST /consultation
func (h *ConsultationHandler) Submit(c *gin.Context) {
	if h.store == nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Server configuration error",
			"details": "Database connection not configured.",
			"hint":    "Set DATABASE_URL in the environment",
		})
		return
	}

	var req models.ConsultationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Invalid request body",
		})
		return
	}

	// Checkpoint 1: booking fields
	if err := req.Validate(); err != nil {
		h.respondValidationError(c, err)
		return
	}

	// Checkpoint 2: payment receipt present. A distinct status so the client
	// gets a clear "you must pay" signal rather than a generic validation
	// failure.
	if !req.HasPaymentFields() {
		h.logger.Warn("Submission blocked: payment fields missing")
		c.JSON(http.StatusPaymentRequired, gin.H{
			"success": false,
			"error":   "Payment required",
			"details": "A verified payment is required before submitting a consultation.",
		})
		return
	}

	// Checkpoint 3: signature re-verification with the server-held secret.
	// A client-asserted "verified" flag is never trusted.
	result := h.gateway.VerifyPayment(req.RazorpayOrderID, req.RazorpayPaymentID, req.RazorpaySignature)
	if !result.Verified {
		h.logger.WithField("order_id", req.RazorpayOrderID).Warn("Invalid payment signature on submission")
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Payment verification failed",
			"details": "The payment signature is invalid.",
		})
		return
	}

	h.logger.WithFields(logrus.Fields{
		"order_id":   req.RazorpayOrderID,
		"payment_id": req.RazorpayPaymentID,
	}).Info("Payment verified for consultation submission")

	// Checkpoint 4: persist
	saved, err := h.store.Insert(req.ToRecord())
	if err != nil {
		hint := database.ClassifyError(err)
		h.logger.WithError(err).WithField("hint", hint).Error("Failed to save consultation")

		response := gin.H{
			"success": false,
			"error":   "Failed to save consultation request",
		}
		if hint != "" {
			response["hint"] = hint
		}
		c.JSON(http.StatusInternalServerError, response)
		return
	}

	// Step 5: notifications, off the request path. The response below does
	// not wait for the channels to settle.
	go h.notifications.Dispatch(&notify.ConsultationData{
		Name:             saved.Name,
		Email:            saved.Email,
		Phone:            saved.Phone,
		Category:         saved.Category,
		ConsultationDate: saved.ConsultationDate,
		ConsultationTime: saved.ConsultationTime,
		Message:          saved.Message,
	})

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Consultation request submitted successfully",
		"data":    saved,
	})
}

// respondValidationError maps a validation error onto the 400 response shape
func (h *ConsultationHandler) respondValidationError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, models.ErrMissingFields):
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Missing required fields",
			"details": "All fields are required: name, email, phone, projectType, consultationDate, consultationTime, message",
		})
	case errors.Is(err, models.ErrInvalidEmail):
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Invalid email format",
		})
	case errors.Is(err, models.ErrInvalidDate):
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Invalid date format. Expected YYYY-MM-DD",
		})
	default:
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   err.Error(),
		})
	}
}
